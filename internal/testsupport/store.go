package testsupport

import (
	"testing"

	"revclass/internal/config"
	"revclass/internal/decisions"
)

// MustOpenStore opens a decisions.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *decisions.Store {
	t.Helper()

	store, err := decisions.Open(cfg)
	if err != nil {
		t.Fatalf("decisions.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
