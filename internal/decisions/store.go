package decisions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"revclass/internal/classify"
	"revclass/internal/config"
)

// ErrRunNotFound indicates the requested run does not exist.
var ErrRunNotFound = errors.New("run not found")

// Store manages decision persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the decisions database under the
// configured data directory and verifies its schema.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.DataDir, "decisions.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// BeginRun registers a new classification run and returns it.
func (s *Store) BeginRun(ctx context.Context, inputPath, mode string) (*Run, error) {
	now := time.Now().UTC()
	runID := uuid.NewString()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, started_at, input_path, mode) VALUES (?, ?, ?, ?)`,
		runID, now.Format(time.RFC3339Nano), inputPath, mode,
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	return &Run{ID: runID, StartedAt: now, InputPath: inputPath, Mode: mode}, nil
}

// CompleteRun records final counts for a run.
func (s *Store) CompleteRun(ctx context.Context, runID string, records, rejected int) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET completed_at = ?, records = ?, rejected = ? WHERE run_id = ?`,
		now, records, rejected, runID,
	)
	if err != nil {
		return fmt.Errorf("complete run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("complete run rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}

// SeqDecision pairs a decision with its input position. Rejected records
// leave gaps in the sequence; positions never repeat within a run.
type SeqDecision struct {
	Seq      int
	Decision classify.Decision
}

// InsertDecisions appends a chunk of decisions to a run in one transaction.
func (s *Store) InsertDecisions(ctx context.Context, runID string, decs []SeqDecision) error {
	if len(decs) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin decisions tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO decisions (
            run_id, seq, record_id, label, rule, note,
            margin, score_review, score_experimental, provenance_json, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare decision insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, sd := range decs {
		dec := sd.Decision
		provenance, err := json.Marshal(dec)
		if err != nil {
			return fmt.Errorf("marshal decision %s: %w", dec.RecordID, err)
		}
		if _, err := stmt.ExecContext(ctx,
			runID, sd.Seq, dec.RecordID, string(dec.Label), dec.Rule, dec.Note,
			dec.Margin, dec.ScoreReview, dec.ScoreExperimental, string(provenance), now,
		); err != nil {
			return fmt.Errorf("insert decision %s: %w", dec.RecordID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit decisions: %w", err)
	}
	return nil
}

// NextSeq returns the input position an interrupted run should resume at.
func (s *Store) NextSeq(ctx context.Context, runID string) (int, error) {
	var next sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(seq) + 1 FROM decisions WHERE run_id = ?`, runID,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("query next seq: %w", err)
	}
	if !next.Valid {
		return 0, nil
	}
	return int(next.Int64), nil
}

// GetRun fetches one run by identifier.
func (s *Store) GetRun(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT run_id, started_at, completed_at, input_path, mode, records, rejected
         FROM runs WHERE run_id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return run, err
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, started_at, completed_at, input_path, mode, records, rejected
         FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Distribution returns the per-label decision counts for a run.
func (s *Store) Distribution(ctx context.Context, runID string) (map[classify.Label]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT label, COUNT(*) FROM decisions WHERE run_id = ? GROUP BY label`, runID)
	if err != nil {
		return nil, fmt.Errorf("query distribution: %w", err)
	}
	defer rows.Close()

	dist := make(map[classify.Label]int)
	for rows.Next() {
		var label string
		var count int
		if err := rows.Scan(&label, &count); err != nil {
			return nil, fmt.Errorf("scan distribution: %w", err)
		}
		dist[classify.Label(label)] = count
	}
	return dist, rows.Err()
}

// Decisions returns a run's decisions in input order.
func (s *Store) Decisions(ctx context.Context, runID string) ([]StoredDecision, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, seq, record_id, label, rule, note,
                margin, score_review, score_experimental, provenance_json, created_at
         FROM decisions WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("query decisions: %w", err)
	}
	defer rows.Close()

	var decs []StoredDecision
	for rows.Next() {
		var d StoredDecision
		var created string
		if err := rows.Scan(&d.RunID, &d.Seq, &d.RecordID, &d.Label, &d.Rule, &d.Note,
			&d.Margin, &d.ScoreReview, &d.ScoreExperimental, &d.ProvenanceJSON, &created); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		if parsed, err := time.Parse(time.RFC3339Nano, created); err == nil {
			d.CreatedAt = parsed
		}
		decs = append(decs, d)
	}
	return decs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var started string
	var completed sql.NullString
	if err := row.Scan(&run.ID, &started, &completed, &run.InputPath, &run.Mode, &run.Records, &run.Rejected); err != nil {
		return nil, err
	}
	if parsed, err := time.Parse(time.RFC3339Nano, started); err == nil {
		run.StartedAt = parsed
	}
	if completed.Valid {
		if parsed, err := time.Parse(time.RFC3339Nano, completed.String); err == nil {
			run.CompletedAt = &parsed
		}
	}
	return &run, nil
}
