package config

import (
	"errors"
	"fmt"
	"strings"

	"revclass/internal/classify"
)

// Validate ensures the configuration is usable. Violations here are the
// fatal load-time configuration errors the classifier contract requires;
// nothing is processed when Validate fails.
func (c *Config) Validate() error {
	if err := c.validateClassifier(); err != nil {
		return err
	}
	if err := c.validateSources(); err != nil {
		return err
	}
	if err := c.validateInput(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateClassifier() error {
	switch classify.Mode(c.Classifier.Mode) {
	case classify.ModeMajority, classify.ModeWeighted:
	default:
		return fmt.Errorf("classifier.mode must be %q or %q, got %q",
			classify.ModeMajority, classify.ModeWeighted, c.Classifier.Mode)
	}
	if c.Classifier.MinReviewVotes < 1 {
		return errors.New("classifier.min_review_votes must be at least 1")
	}
	if c.Classifier.ScoreMargin < 0 {
		return errors.New("classifier.score_margin must be non-negative")
	}
	if c.Classifier.Delta < 0 {
		return errors.New("classifier.delta must be non-negative")
	}
	if c.Classifier.KMin < 0 {
		return errors.New("classifier.k_min must be non-negative")
	}
	if c.Classifier.Epsilon < 0 {
		return errors.New("classifier.epsilon must be non-negative")
	}
	if c.Classifier.TopTerms < 0 {
		return errors.New("classifier.top_terms must be non-negative")
	}
	if label, ok := classify.ParseLabel(c.Classifier.FallbackLabel); !ok ||
		(label != classify.LabelNonReview && label != classify.LabelUnknown) {
		return fmt.Errorf("classifier.fallback_label must be %q or %q",
			classify.LabelNonReview, classify.LabelUnknown)
	}
	return nil
}

func (c *Config) validateSources() error {
	if len(c.Sources) == 0 {
		return errors.New("at least one [[sources]] entry must be configured")
	}
	seen := make(map[string]struct{}, len(c.Sources))
	for _, src := range c.Sources {
		if src.Name == "" {
			return errors.New("sources entry with empty name")
		}
		if _, dup := seen[src.Name]; dup {
			return fmt.Errorf("source %q configured twice", src.Name)
		}
		seen[src.Name] = struct{}{}
		if src.Weight < 0 {
			return fmt.Errorf("source %q: weight must be non-negative", src.Name)
		}
		for _, label := range src.Priority {
			if _, ok := classify.ParseLabel(label); !ok {
				return fmt.Errorf("source %q: unknown priority label %q", src.Name, label)
			}
		}
	}
	if c.Classifier.Epsilon > 0 {
		if _, ok := seen[c.Classifier.EpsilonSource]; !ok {
			return fmt.Errorf("classifier.epsilon_source %q is not a configured source", c.Classifier.EpsilonSource)
		}
	}
	return nil
}

func (c *Config) validateInput() error {
	if len(strings.TrimSpace(c.Input.CSVDelimiter)) != 1 {
		return errors.New("input.csv_delimiter must be a single character")
	}
	for _, col := range c.Input.IDColumns {
		if strings.TrimSpace(col) == "" {
			return errors.New("input.id_columns must not contain empty names")
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
