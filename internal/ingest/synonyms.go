package ingest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"revclass/internal/config"
)

// synonymsFile is the YAML shape of a synonym-table override:
//
//	sources:
//	  pubmed:
//	    review: ["review", "umbrella review"]
//	    non_review: ["clinical trial"]
type synonymsFile struct {
	Sources map[string]struct {
		Review    []string `yaml:"review"`
		NonReview []string `yaml:"non_review"`
	} `yaml:"sources"`
}

// ApplySynonyms replaces the synonym lists of the named sources with the
// contents of the YAML file at path. Naming a source that is not
// configured is an error; sources absent from the file keep their lists.
func ApplySynonyms(cfg *config.Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read synonyms file: %w", err)
	}

	var file synonymsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse synonyms file: %w", err)
	}

	byName := make(map[string]int, len(cfg.Sources))
	for i, src := range cfg.Sources {
		byName[src.Name] = i
	}

	for name, tables := range file.Sources {
		i, ok := byName[name]
		if !ok {
			return fmt.Errorf("synonyms file names unknown source %q", name)
		}
		if len(tables.Review) > 0 {
			cfg.Sources[i].ReviewTypes = tables.Review
		}
		if len(tables.NonReview) > 0 {
			cfg.Sources[i].NonReviewTypes = tables.NonReview
		}
	}
	return nil
}
