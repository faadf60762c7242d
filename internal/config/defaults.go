package config

// GateGrades is the set of editor grades that pass the in-loop approval gate.
// Only the two top grades are acceptable while revising.
var GateGrades = map[string]bool{
	"A":  true,
	"A+": true,
}

// FinalGrades is the looser grade set used when computing the terminal
// editor_ready flag. The loop holds a higher bar than the final report;
// the asymmetry is deliberate.
var FinalGrades = map[string]bool{
	"A-": true,
	"A":  true,
	"A+": true,
}

// DefaultExcludes are glob patterns excluded from knowledge-base ingestion
// by default.
var DefaultExcludes = []string{
	".git/**",
	"node_modules/**",
	"vendor/**",
	"*.lock",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:       ProviderOpenAI,
		Model:          "gpt-4o",
		EditorModel:    "gpt-4o",
		WriterModel:    "gpt-4o",
		FactCheckModel: "gpt-4o-mini",
		EmbeddingModel: "text-embedding-3-small",
		OutputDir:      "output/generated",
		CacheDir:       "output/research_cache",
		KnowledgeDir:   ".newsdesk/knowledge",
		HistoryDB:      ".newsdesk/history.db",
		Research: ResearchConfig{
			MaxIterations:       6,
			ConfidenceThreshold: 0.8,
			MaxResultsPerQuery:  10,
		},
		Revision: RevisionConfig{
			SafetyCap:              999,
			ResearchScoreThreshold: 80,
		},
		Server: ServerConfig{
			Port: 8787,
		},
		Ingest: IngestConfig{
			Include: []string{"**/*.md", "**/*.txt"},
			Exclude: DefaultExcludes,
		},
	}
}
