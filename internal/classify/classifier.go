package classify

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// SourceSettings describes one configured metadata source.
type SourceSettings struct {
	Name       string
	Weight     float64
	Precedence Precedence
	Synonyms   SynonymSet
}

// Settings is the compiled, immutable classifier configuration. It is
// built once (from the TOML config plus CLI overrides) before any record
// is processed and shared read-only across workers.
type Settings struct {
	Sources        []SourceSettings
	Delimiters     string
	Mode           Mode
	MinReviewVotes int
	ScoreMargin    float64
	Delta          float64
	KMin           int
	UnknownMode    bool
	Fallback       Label
	Epsilon        float64
	EpsilonSource  string
	TopTerms       int
}

// Classifier runs the full decision pipeline for independent records.
type Classifier struct {
	settings Settings
	norm     *Normalizer
	agg      *Aggregator
	refiner  *Refiner
	logger   *slog.Logger
}

// New validates and compiles the settings into a Classifier. All
// configuration problems surface here, before any record is processed.
func New(settings Settings, logger *slog.Logger) (*Classifier, error) {
	if err := validateSettings(settings); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	synonyms := make(map[string]SynonymSet, len(settings.Sources))
	weights := make(map[string]float64, len(settings.Sources))
	for _, src := range settings.Sources {
		synonyms[src.Name] = src.Synonyms
		weights[src.Name] = src.Weight
	}

	norm, err := NewNormalizer(settings.Delimiters, synonyms)
	if err != nil {
		return nil, err
	}

	return &Classifier{
		settings: settings,
		norm:     norm,
		agg:      NewAggregator(settings.Mode, settings.MinReviewVotes, weights, settings.ScoreMargin),
		refiner:  NewRefiner(settings.Delta, settings.KMin, settings.UnknownMode, settings.Fallback, settings.Epsilon, settings.TopTerms),
		logger:   logger,
	}, nil
}

func validateSettings(s Settings) error {
	switch s.Mode {
	case ModeMajority, ModeWeighted:
	default:
		return fmt.Errorf("%w: unsupported aggregation mode %q", ErrConfiguration, s.Mode)
	}
	if len(s.Sources) == 0 {
		return fmt.Errorf("%w: at least one source must be configured", ErrConfiguration)
	}
	seen := make(map[string]struct{}, len(s.Sources))
	for _, src := range s.Sources {
		name := strings.TrimSpace(src.Name)
		if name == "" {
			return fmt.Errorf("%w: source with empty name", ErrConfiguration)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: source %q configured twice", ErrConfiguration, name)
		}
		seen[name] = struct{}{}
		if src.Weight < 0 {
			return fmt.Errorf("%w: source %q: weight must be non-negative", ErrConfiguration, name)
		}
	}
	if s.MinReviewVotes < 1 {
		return fmt.Errorf("%w: min_review_votes must be at least 1", ErrConfiguration)
	}
	if s.ScoreMargin < 0 {
		return fmt.Errorf("%w: score_margin must be non-negative", ErrConfiguration)
	}
	if s.Delta < 0 {
		return fmt.Errorf("%w: delta must be non-negative", ErrConfiguration)
	}
	if s.KMin < 0 {
		return fmt.Errorf("%w: k_min must be non-negative", ErrConfiguration)
	}
	if s.Epsilon < 0 {
		return fmt.Errorf("%w: epsilon must be non-negative", ErrConfiguration)
	}
	if s.TopTerms < 0 {
		return fmt.Errorf("%w: top_terms must be non-negative", ErrConfiguration)
	}
	switch s.Fallback {
	case LabelNonReview, LabelUnknown:
	default:
		return fmt.Errorf("%w: fallback label must be %s or %s", ErrConfiguration, LabelNonReview, LabelUnknown)
	}
	return nil
}

// Settings returns a copy of the compiled settings.
func (c *Classifier) Settings() Settings {
	return c.settings
}

// Classify runs one record through the pipeline and returns its Decision.
// Classifying the same record twice with the same settings yields an
// identical Decision. A record without an identifier is rejected with
// ErrMalformedRecord; every other data defect degrades to abstain or zero
// score.
func (c *Classifier) Classify(rec Record) (Decision, error) {
	if strings.TrimSpace(rec.ID) == "" {
		return Decision{}, fmt.Errorf("%w: record has no identifier", ErrMalformedRecord)
	}

	votes := make([]SourceVote, 0, len(c.settings.Sources))
	reviewVotes := 0
	epsilonVoted := false
	for _, src := range c.settings.Sources {
		matches := c.norm.Normalize(src.Name, rec.PublicationTypes[src.Name])
		vote := ResolveVote(matches, src.Precedence)
		if vote == VoteReview {
			reviewVotes++
			if src.Name == c.settings.EpsilonSource {
				epsilonVoted = true
			}
		}
		votes = append(votes, SourceVote{Source: src.Name, Vote: vote, Tokens: matchTokens(matches)})
	}

	outcome := c.agg.Aggregate(votes)

	// The MeSH scores and top terms are part of every decision's
	// provenance, not only of refined ones.
	nudge := reviewVotes == 1 && epsilonVoted
	refinement := c.refiner.Refine(rec.MeshTerms, nudge)

	dec := Decision{
		RecordID:          rec.ID,
		ReviewVotes:       reviewVotes,
		Votes:             votes,
		VoteScores:        outcome.Scores,
		ScoreReview:       refinement.ScoreReview,
		ScoreExperimental: refinement.ScoreExp,
		Margin:            refinement.Margin,
		TermsUsed:         refinement.TermsUsed,
		TopTerms:          refinement.TopTerms,
	}

	switch {
	case !outcome.Ambiguous:
		dec.Label = outcome.Label
		dec.Rule = outcome.Rule
		dec.Evidence = outcome.Evidence
	case allAbstained(votes) && len(rec.MeshTerms) == 0:
		// No usable signal from any source: a normal outcome, never an error.
		dec.Label = LabelUnknown
		dec.Rule = RuleNoSignal
		dec.Note = NoteNoSignal
	default:
		dec.Label = refinement.Label
		dec.Rule = RuleMeshRefine
		dec.Note = refinement.Note
		dec.Evidence = fmt.Sprintf("mesh_refine: top=[%s]; delta=%+.2f",
			formatTopTerms(refinement.TopTerms), refinement.ScoreExp-refinement.ScoreReview)
	}

	c.logger.Debug("classified record",
		slog.String("record_id", rec.ID),
		slog.String("label", string(dec.Label)),
		slog.String("rule", dec.Rule),
		slog.Int("review_votes", reviewVotes),
		slog.Float64("margin", dec.Margin),
	)
	return dec, nil
}

func allAbstained(votes []SourceVote) bool {
	for _, v := range votes {
		if v.Vote != VoteAbstain {
			return false
		}
	}
	return true
}
