package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"revclass/internal/classify"
	"revclass/internal/config"
	"revclass/internal/decisions"
	"revclass/internal/ingest"
	"revclass/internal/logging"
	"revclass/internal/recorder"
	"revclass/internal/report"
	"revclass/internal/runner"
)

type classifyFlags struct {
	input          string
	output         string
	trace          string
	meshProbs      string
	synonyms       string
	mode           string
	minReviewVotes int
	scoreMargin    float64
	delta          float64
	kMin           int
	unknownMode    bool
	fallback       string
	epsilon        float64
	workers        int
	chunkSize      int
	resume         string
	noStore        bool
}

func newClassifyCommand(ctx *commandContext) *cobra.Command {
	var flags classifyFlags

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify an input CSV and write decision rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := applyOverrides(cmd, cfg, &flags); err != nil {
				return err
			}
			return runClassify(cmd, cfg, &flags)
		},
	}

	cmd.Flags().StringVarP(&flags.input, "input", "i", "", "Input CSV path (required)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output CSV path (required)")
	cmd.Flags().StringVar(&flags.trace, "trace", "", "JSONL trace log path")
	cmd.Flags().StringVar(&flags.meshProbs, "mesh-probs", "", "MeSH experimental probability table (CSV)")
	cmd.Flags().StringVar(&flags.synonyms, "synonyms", "", "YAML synonym-table override")
	cmd.Flags().StringVar(&flags.mode, "mode", "", "Aggregation mode: majority or weighted")
	cmd.Flags().IntVar(&flags.minReviewVotes, "min-review-votes", 0, "Review votes required in majority mode")
	cmd.Flags().Float64Var(&flags.scoreMargin, "score-margin", 0, "Winning margin required in weighted mode")
	cmd.Flags().Float64Var(&flags.delta, "delta", 0, "MeSH margin threshold")
	cmd.Flags().IntVar(&flags.kMin, "k-min", 0, "Minimum MeSH terms for refinement")
	cmd.Flags().BoolVar(&flags.unknownMode, "unknown-mode", false, "Leave ambiguous records unknown instead of the fallback label")
	cmd.Flags().StringVar(&flags.fallback, "fallback", "", "Fallback label: non_review or unknown")
	cmd.Flags().Float64Var(&flags.epsilon, "epsilon", 0, "Review-score nudge for a lone epsilon-source review vote")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "Worker goroutines per chunk")
	cmd.Flags().IntVar(&flags.chunkSize, "chunk-size", 0, "Records per chunk")
	cmd.Flags().StringVar(&flags.resume, "resume", "", "Resume an interrupted run by its run ID")
	cmd.Flags().BoolVar(&flags.noStore, "no-store", false, "Skip persisting decisions to the local store")

	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

// applyOverrides folds changed flags into the loaded config and re-validates,
// so flag values go through exactly the same checks as file values.
func applyOverrides(cmd *cobra.Command, cfg *config.Config, flags *classifyFlags) error {
	set := map[string]func(){
		"mode":             func() { cfg.Classifier.Mode = strings.ToLower(strings.TrimSpace(flags.mode)) },
		"min-review-votes": func() { cfg.Classifier.MinReviewVotes = flags.minReviewVotes },
		"score-margin":     func() { cfg.Classifier.ScoreMargin = flags.scoreMargin },
		"delta":            func() { cfg.Classifier.Delta = flags.delta },
		"k-min":            func() { cfg.Classifier.KMin = flags.kMin },
		"unknown-mode":     func() { cfg.Classifier.UnknownMode = flags.unknownMode },
		"fallback":         func() { cfg.Classifier.FallbackLabel = strings.ToLower(strings.TrimSpace(flags.fallback)) },
		"epsilon":          func() { cfg.Classifier.Epsilon = flags.epsilon },
		"workers":          func() { cfg.Input.Workers = flags.workers },
		"chunk-size":       func() { cfg.Input.ChunkSize = flags.chunkSize },
		"mesh-probs":       func() { cfg.Mesh.ProbabilitiesPath = flags.meshProbs },
		"synonyms":         func() { cfg.Classifier.SynonymsPath = flags.synonyms },
	}
	for name, apply := range set {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}
	return cfg.Validate()
}

func runClassify(cmd *cobra.Command, cfg *config.Config, flags *classifyFlags) error {
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}

	if cfg.Classifier.SynonymsPath != "" {
		if err := ingest.ApplySynonyms(cfg, cfg.Classifier.SynonymsPath); err != nil {
			return err
		}
	}

	var meshProbs map[string]float64
	if cfg.Mesh.ProbabilitiesPath != "" {
		meshProbs, err = ingest.LoadMeshProbabilities(cfg.Mesh.ProbabilitiesPath)
		if err != nil {
			return err
		}
	}

	classifier, err := classify.New(cfg.ClassifierSettings(), logging.WithComponent(logger, "classifier"))
	if err != nil {
		return err
	}

	if flags.noStore && flags.resume != "" {
		return errors.New("--resume needs the decision store; drop --no-store")
	}

	var store *decisions.Store
	if !flags.noStore {
		store, err = decisions.Open(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		lock := flock.New(filepath.Join(cfg.Paths.DataDir, "revclass.lock"))
		locked, err := lock.TryLock()
		if err != nil {
			return fmt.Errorf("acquire run lock: %w", err)
		}
		if !locked {
			return errors.New("another revclass run is writing to this data directory")
		}
		defer func() { _ = lock.Unlock() }()
	}

	return classifyFile(cmd, cfg, classifier, store, meshProbs, flags, logger)
}

func classifyFile(
	cmd *cobra.Command,
	cfg *config.Config,
	classifier *classify.Classifier,
	store *decisions.Store,
	meshProbs map[string]float64,
	flags *classifyFlags,
	logger *slog.Logger,
) error {
	in, err := os.Open(flags.input)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	reader, err := ingest.NewReader(in, cfg, meshProbs)
	if err != nil {
		return err
	}

	resuming := flags.resume != ""
	outFlags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if resuming {
		outFlags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	out, err := os.OpenFile(flags.output, outFlags, 0o644)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	defer out.Close()

	var traceWriter io.Writer
	if flags.trace != "" {
		traceFile, err := os.OpenFile(flags.trace, outFlags, 0o644)
		if err != nil {
			return fmt.Errorf("open trace: %w", err)
		}
		defer traceFile.Close()
		traceWriter = traceFile
	}

	sources := sourceNames(cfg)
	rec := recorder.New(out, traceWriter, sources)

	runID := flags.resume
	skip := 0
	alreadyDone := 0
	if store != nil {
		if resuming {
			run, err := store.GetRun(cmd.Context(), runID)
			if err != nil {
				return err
			}
			skip, err = store.NextSeq(cmd.Context(), run.ID)
			if err != nil {
				return err
			}
			alreadyDone = skip
			rec.MarkHeaderWritten()
		} else {
			run, err := store.BeginRun(cmd.Context(), flags.input, cfg.Classifier.Mode)
			if err != nil {
				return err
			}
			runID = run.ID
		}
		logger = logging.WithRun(logger, runID)
	}

	proc := runner.New(classifier, cfg.Input.Workers)
	summary := report.NewSummary(sources)

	seq := 0
	for {
		records, readErr := reader.ReadChunk(cfg.Input.ChunkSize)
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return readErr
		}

		chunkBase := seq
		seq += len(records)
		if skip > 0 {
			// Records already persisted by the interrupted run.
			if len(records) <= skip-chunkBase {
				if errors.Is(readErr, io.EOF) {
					break
				}
				continue
			}
			records = records[skip-chunkBase:]
			chunkBase = skip
			skip = 0
		}

		results, err := proc.Process(cmd.Context(), chunkBase, records)
		if err != nil {
			return err
		}

		stored := make([]decisions.SeqDecision, 0, len(results))
		for _, res := range results {
			if res.Err != nil {
				if errors.Is(res.Err, classify.ErrMalformedRecord) {
					summary.AddRejected()
					logger.Warn("rejected record", slog.Int("seq", res.Seq), slog.String("error", res.Err.Error()))
					continue
				}
				return res.Err
			}
			if err := rec.Write(res.Decision); err != nil {
				return err
			}
			summary.Add(res.Record, res.Decision)
			stored = append(stored, decisions.SeqDecision{Seq: res.Seq, Decision: res.Decision})
		}
		// The chunk's rows must be on disk before the store commits it,
		// or a crash would leave persisted sequences with no output and
		// resume would skip past them.
		if err := rec.Flush(); err != nil {
			return err
		}
		if store != nil {
			if err := store.InsertDecisions(cmd.Context(), runID, stored); err != nil {
				return err
			}
		}

		if errors.Is(readErr, io.EOF) {
			break
		}
	}

	if err := rec.Flush(); err != nil {
		return err
	}
	if store != nil {
		if err := store.CompleteRun(cmd.Context(), runID, alreadyDone+summary.Total, summary.Rejected); err != nil {
			return err
		}
	}

	printSummary(cmd, summary, runID)
	logger.Info("classification complete",
		slog.Int("records", summary.Total),
		slog.Int("rejected", summary.Rejected),
		slog.Int("zero_signal", summary.ZeroSignal),
	)
	return nil
}

func sourceNames(cfg *config.Config) []string {
	names := make([]string, 0, len(cfg.Sources))
	for _, src := range cfg.Sources {
		names = append(names, src.Name)
	}
	return names
}

func printSummary(cmd *cobra.Command, summary *report.Summary, runID string) {
	out := cmd.OutOrStdout()
	if runID != "" {
		fmt.Fprintf(out, "Run %s\n", runID)
	}
	fmt.Fprintln(out, renderTable(out,
		[]string{"Label", "Count", "Share"},
		summary.DistributionRows(),
		[]columnAlignment{alignLeft, alignRight, alignRight},
	))
	fmt.Fprintln(out, renderTable(out,
		[]string{"Source", "Empty PT", "Share"},
		summary.CoverageRows(),
		[]columnAlignment{alignLeft, alignRight, alignRight},
	))
	fmt.Fprintf(out, "Records: %d  Rejected: %d  Zero-signal: %d\n",
		summary.Total, summary.Rejected, summary.ZeroSignal)
}
