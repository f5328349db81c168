package config

const (
	defaultDataDir       = "~/.local/share/revclass"
	defaultLogDir        = "~/.local/share/revclass/logs"
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
	defaultMode          = "majority"
	defaultMinReview     = 2
	defaultDelta         = 0.5
	defaultKMin          = 3
	defaultFallback      = "non_review"
	defaultEpsilonSource = "pubmed"
	defaultTopTerms      = 5
	defaultDelimiters    = ",;|/"
	defaultCSVDelimiter  = ","
	defaultChunkSize     = 1000
	defaultWorkers       = 1
)

// defaultIDColumns are tried in order when building a record identifier.
var defaultIDColumns = []string{"doi", "pmid", "pmcid", "openalex_id"}

// Shared review synonym list. Source-specific vocabularies extend or
// replace these in the config file.
var defaultReviewTypes = []string{
	"review",
	"review article",
	"systematic review",
	"systematic literature review",
	"meta-analysis",
	"meta analysis",
	"network meta-analysis",
	"literature review",
	"mini review",
	"narrative review",
	"scoping review",
	"umbrella review",
	"rapid review",
	"integrative review",
	"critical review",
	"state-of-the-art review",
	"evidence synthesis",
	"overview of reviews",
}

var defaultNonReviewTypes = []string{
	"randomized controlled trial",
	"controlled clinical trial",
	"clinical trial",
	"case report",
	"case reports",
	"case series",
	"cohort study",
	"case-control study",
	"cross-sectional study",
	"longitudinal study",
	"observational study",
	"comparative study",
	"multicenter study",
	"evaluation study",
	"validation study",
	"replication study",
	"letter",
	"short report",
	"technical note",
}

// Default returns a Config populated with repository defaults. Source
// weights compensate for the varying accuracy of publication-type fields
// across providers.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Classifier: Classifier{
			Mode:           defaultMode,
			MinReviewVotes: defaultMinReview,
			ScoreMargin:    0,
			Delta:          defaultDelta,
			KMin:           defaultKMin,
			UnknownMode:    false,
			FallbackLabel:  defaultFallback,
			Epsilon:        0,
			EpsilonSource:  defaultEpsilonSource,
			TopTerms:       defaultTopTerms,
			Delimiters:     defaultDelimiters,
		},
		Sources: []Source{
			{
				Name:           "pubmed",
				Weight:         1.0,
				Priority:       []string{"review", "non_review"},
				PTColumn:       "PubMed.PublicationType",
				ReviewTypes:    defaultReviewTypes,
				NonReviewTypes: defaultNonReviewTypes,
			},
			{
				Name:           "openalex",
				Weight:         0.7,
				Priority:       []string{"review", "non_review"},
				PTColumn:       "OpenAlex.PublicationTypes",
				ReviewTypes:    defaultReviewTypes,
				NonReviewTypes: defaultNonReviewTypes,
			},
			{
				Name:           "crossref",
				Weight:         0.7,
				Priority:       []string{"review", "non_review"},
				PTColumn:       "OpenAlex.TypeCrossref",
				ReviewTypes:    defaultReviewTypes,
				NonReviewTypes: defaultNonReviewTypes,
			},
			{
				Name:           "scholar",
				Weight:         0.5,
				Priority:       []string{"review", "non_review"},
				PTColumn:       "scholar.PublicationTypes",
				ReviewTypes:    defaultReviewTypes,
				NonReviewTypes: defaultNonReviewTypes,
			},
		},
		Mesh: Mesh{
			TermsColumn: "PubMed.MeSH_Terms",
		},
		Input: Input{
			IDColumns:    defaultIDColumns,
			CSVDelimiter: defaultCSVDelimiter,
			ChunkSize:    defaultChunkSize,
			Workers:      defaultWorkers,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
