package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"revclass/internal/classify"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Classifier contains the decision-engine thresholds and policies.
type Classifier struct {
	Mode           string  `toml:"mode"`
	MinReviewVotes int     `toml:"min_review_votes"`
	ScoreMargin    float64 `toml:"score_margin"`
	Delta          float64 `toml:"delta"`
	KMin           int     `toml:"k_min"`
	UnknownMode    bool    `toml:"unknown_mode"`
	FallbackLabel  string  `toml:"fallback_label"`
	Epsilon        float64 `toml:"epsilon"`
	EpsilonSource  string  `toml:"epsilon_source"`
	TopTerms       int     `toml:"top_terms"`
	Delimiters     string  `toml:"delimiters"`
	SynonymsPath   string  `toml:"synonyms_path"`
}

// Source describes one bibliographic metadata provider: its vote weight,
// its label precedence for conflicting signals, the input column carrying
// its publication types, and its synonym lists.
type Source struct {
	Name           string   `toml:"name"`
	Weight         float64  `toml:"weight"`
	Priority       []string `toml:"priority"`
	PTColumn       string   `toml:"pt_column"`
	ReviewTypes    []string `toml:"review_types"`
	NonReviewTypes []string `toml:"non_review_types"`
}

// Mesh contains configuration for the MeSH term signal.
type Mesh struct {
	TermsColumn       string `toml:"terms_column"`
	ProbabilitiesPath string `toml:"probabilities_path"`
}

// Input contains configuration for the record reader and batch runner.
type Input struct {
	IDColumns    []string `toml:"id_columns"`
	CSVDelimiter string   `toml:"csv_delimiter"`
	ChunkSize    int      `toml:"chunk_size"`
	Workers      int      `toml:"workers"`
}

// Config encapsulates all configuration values for revclass.
type Config struct {
	Paths      Paths      `toml:"paths"`
	Classifier Classifier `toml:"classifier"`
	Sources    []Source   `toml:"sources"`
	Mesh       Mesh       `toml:"mesh"`
	Input      Input      `toml:"input"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/revclass/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("revclass.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the store and logger write to.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// ClassifierSettings converts the configuration into the compiled settings
// value the decision engine consumes.
func (c *Config) ClassifierSettings() classify.Settings {
	sources := make([]classify.SourceSettings, 0, len(c.Sources))
	for _, src := range c.Sources {
		precedence := make(classify.Precedence, 0, len(src.Priority))
		for _, label := range src.Priority {
			if parsed, ok := classify.ParseLabel(label); ok {
				precedence = append(precedence, parsed)
			}
		}
		sources = append(sources, classify.SourceSettings{
			Name:       src.Name,
			Weight:     src.Weight,
			Precedence: precedence,
			Synonyms: classify.SynonymSet{
				Review:    src.ReviewTypes,
				NonReview: src.NonReviewTypes,
			},
		})
	}
	fallback, _ := classify.ParseLabel(c.Classifier.FallbackLabel)
	return classify.Settings{
		Sources:        sources,
		Delimiters:     c.Classifier.Delimiters,
		Mode:           classify.Mode(c.Classifier.Mode),
		MinReviewVotes: c.Classifier.MinReviewVotes,
		ScoreMargin:    c.Classifier.ScoreMargin,
		Delta:          c.Classifier.Delta,
		KMin:           c.Classifier.KMin,
		UnknownMode:    c.Classifier.UnknownMode,
		Fallback:       fallback,
		Epsilon:        c.Classifier.Epsilon,
		EpsilonSource:  c.Classifier.EpsilonSource,
		TopTerms:       c.Classifier.TopTerms,
	}
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
