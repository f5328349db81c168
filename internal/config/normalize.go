package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeClassifier()
	c.normalizeSources()
	if err := c.normalizeMesh(); err != nil {
		return err
	}
	c.normalizeInput()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeClassifier() {
	c.Classifier.Mode = strings.ToLower(strings.TrimSpace(c.Classifier.Mode))
	if c.Classifier.Mode == "" {
		c.Classifier.Mode = defaultMode
	}
	c.Classifier.FallbackLabel = strings.ToLower(strings.TrimSpace(c.Classifier.FallbackLabel))
	if c.Classifier.FallbackLabel == "" {
		c.Classifier.FallbackLabel = defaultFallback
	}
	c.Classifier.EpsilonSource = strings.ToLower(strings.TrimSpace(c.Classifier.EpsilonSource))
	if c.Classifier.Delimiters == "" {
		c.Classifier.Delimiters = defaultDelimiters
	}
	if c.Classifier.TopTerms == 0 {
		c.Classifier.TopTerms = defaultTopTerms
	}
	c.Classifier.SynonymsPath = strings.TrimSpace(c.Classifier.SynonymsPath)
}

func (c *Config) normalizeSources() {
	for i := range c.Sources {
		c.Sources[i].Name = strings.ToLower(strings.TrimSpace(c.Sources[i].Name))
		c.Sources[i].PTColumn = strings.TrimSpace(c.Sources[i].PTColumn)
		for j := range c.Sources[i].Priority {
			c.Sources[i].Priority[j] = strings.ToLower(strings.TrimSpace(c.Sources[i].Priority[j]))
		}
	}
}

func (c *Config) normalizeMesh() error {
	c.Mesh.TermsColumn = strings.TrimSpace(c.Mesh.TermsColumn)
	c.Mesh.ProbabilitiesPath = strings.TrimSpace(c.Mesh.ProbabilitiesPath)
	if c.Mesh.ProbabilitiesPath != "" {
		expanded, err := expandPath(c.Mesh.ProbabilitiesPath)
		if err != nil {
			return fmt.Errorf("mesh.probabilities_path: %w", err)
		}
		c.Mesh.ProbabilitiesPath = expanded
	}
	return nil
}

func (c *Config) normalizeInput() {
	if len(c.Input.IDColumns) == 0 {
		c.Input.IDColumns = append([]string(nil), defaultIDColumns...)
	}
	if c.Input.CSVDelimiter == "" {
		c.Input.CSVDelimiter = defaultCSVDelimiter
	}
	if c.Input.ChunkSize <= 0 {
		c.Input.ChunkSize = defaultChunkSize
	}
	if c.Input.Workers <= 0 {
		c.Input.Workers = defaultWorkers
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
