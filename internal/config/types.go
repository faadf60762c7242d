package config

// ProviderType identifies an LLM provider.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
)

// ResearchConfig bounds the iterative research loop.
type ResearchConfig struct {
	MaxIterations       int     `yaml:"max_iterations" koanf:"max_iterations"`
	ConfidenceThreshold float64 `yaml:"confidence_threshold" koanf:"confidence_threshold"`
	MaxResultsPerQuery  int     `yaml:"max_results_per_query" koanf:"max_results_per_query"`
}

// RevisionConfig controls the editorial revision loop.
type RevisionConfig struct {
	// SafetyCap is a ceiling on revision cycles. The gate check is the real
	// stopping condition; the cap only prevents a runaway loop.
	SafetyCap int `yaml:"safety_cap" koanf:"safety_cap"`

	// ResearchScoreThreshold is the fact-check score below which targeted
	// research is triggered after a failed gate.
	ResearchScoreThreshold int `yaml:"research_score_threshold" koanf:"research_score_threshold"`
}

// ServerConfig holds settings for the run-browser HTTP server.
type ServerConfig struct {
	Port     int  `yaml:"port" koanf:"port"`
	AllowAll bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// Config is the top-level newsdesk configuration, corresponding to .newsdesk.yml.
type Config struct {
	Provider       ProviderType `yaml:"provider" koanf:"provider"`
	Model          string       `yaml:"model" koanf:"model"`
	EditorModel    string       `yaml:"editor_model" koanf:"editor_model"`
	WriterModel    string       `yaml:"writer_model" koanf:"writer_model"`
	FactCheckModel string       `yaml:"fact_check_model" koanf:"fact_check_model"`
	EmbeddingModel string       `yaml:"embedding_model" koanf:"embedding_model"`

	OutputDir    string `yaml:"output_dir" koanf:"output_dir"`
	CacheDir     string `yaml:"cache_dir" koanf:"cache_dir"`
	KnowledgeDir string `yaml:"knowledge_dir" koanf:"knowledge_dir"`
	HistoryDB    string `yaml:"history_db" koanf:"history_db"`

	Research ResearchConfig `yaml:"research" koanf:"research"`
	Revision RevisionConfig `yaml:"revision" koanf:"revision"`
	Server   ServerConfig   `yaml:"server" koanf:"server"`

	Ingest IngestConfig `yaml:"ingest" koanf:"ingest"`
}

// IngestConfig holds knowledge-base ingestion settings.
type IngestConfig struct {
	Include []string `yaml:"include" koanf:"include"`
	Exclude []string `yaml:"exclude" koanf:"exclude"`
}
