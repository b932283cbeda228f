package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// LLMConfig configures one language-model endpoint. Key wins over KeyEnv;
// KeyEnv names an environment variable holding the credential so the yaml
// file can stay free of secrets.
type LLMConfig struct {
	Provider string `yaml:"provider"` // openai | ollama
	BaseURL  string `yaml:"base_url"`
	Key      string `yaml:"key"`
	KeyEnv   string `yaml:"key_env"`
	Model    string `yaml:"model"`
}

// APIKey resolves the credential for this endpoint.
func (c *LLMConfig) APIKey() string {
	if c.Key != "" {
		return c.Key
	}
	if c.KeyEnv != "" {
		return os.Getenv(c.KeyEnv)
	}
	return ""
}

type RAGConfig struct {
	ChunkPolicy     string `yaml:"chunk_policy"` // block | window
	ChunkSize       int    `yaml:"chunk_size"`
	ChunkOverlap    int    `yaml:"chunk_overlap"`
	MinContextChars int    `yaml:"min_context_chars"`
	MaxContextChars int    `yaml:"max_context_chars"`
	MaxFillRounds   int    `yaml:"max_fill_rounds"`
}

type IndexConfig struct {
	Type       string `yaml:"type"` // memory | chromem | pgvector
	Path       string `yaml:"path"` // chromem persistence directory
	VectorSize int    `yaml:"vector_size"`
}

type DatabaseConfig struct {
	URL   string `yaml:"url"`
	Key   string `yaml:"key"`
	Debug bool   `yaml:"debug"`
}

type Config struct {
	LLM      LLMConfig      `yaml:"llm"`
	EmbedLLM LLMConfig      `yaml:"embed_llm"`
	RAG      RAGConfig      `yaml:"rag"`
	Index    IndexConfig    `yaml:"index"`
	Database DatabaseConfig `yaml:"database"`
}

const (
	defaultChunkPolicy     = "block"
	defaultChunkSize       = 800
	defaultChunkOverlap    = 120
	defaultMinContextChars = 300
	defaultMaxContextChars = 6000
	defaultMaxFillRounds   = 3
)

// DefaultVectorSize matches the dimension of the default embedding model
// (nomic-embed-text).
const DefaultVectorSize = 768

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	ApplyDefaults(&cfg)
	return &cfg, nil
}

// ApplyDefaults fills zero-valued tuning knobs so callers can pass a
// sparse config.
func ApplyDefaults(cfg *Config) {
	if cfg.RAG.ChunkPolicy == "" {
		cfg.RAG.ChunkPolicy = defaultChunkPolicy
	}
	if cfg.RAG.ChunkSize == 0 {
		cfg.RAG.ChunkSize = defaultChunkSize
	}
	if cfg.RAG.ChunkOverlap == 0 {
		cfg.RAG.ChunkOverlap = defaultChunkOverlap
	}
	if cfg.RAG.ChunkOverlap >= cfg.RAG.ChunkSize {
		cfg.RAG.ChunkOverlap = cfg.RAG.ChunkSize / 2
	}
	if cfg.RAG.MinContextChars == 0 {
		cfg.RAG.MinContextChars = defaultMinContextChars
	}
	if cfg.RAG.MaxContextChars == 0 {
		cfg.RAG.MaxContextChars = defaultMaxContextChars
	}
	if cfg.RAG.MaxFillRounds == 0 {
		cfg.RAG.MaxFillRounds = defaultMaxFillRounds
	}
	if cfg.Index.Type == "" {
		cfg.Index.Type = "memory"
	}
	if cfg.Index.VectorSize == 0 {
		cfg.Index.VectorSize = DefaultVectorSize
	}
}
