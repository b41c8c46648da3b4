// Package config loads and validates askdoc configuration.
//
// Settings come from a TOML file (~/.askdoc/config.toml by default) with
// environment variables layered on top, so deployments can override
// individual values without editing the file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

// Default values applied when neither file nor environment provides one.
const (
	DefaultVectorDim = 384
	DefaultChunkSize = 500
	DefaultOverlap   = 50
	DefaultTopK      = 5
)

// Embedding selects and configures the embedding provider.
type Embedding struct {
	// Provider is "openai", "ollama", or empty to disable embedding.
	Provider string `toml:"provider"`

	// Model is the provider-specific model identifier.
	Model string `toml:"model"`

	// BaseURL overrides the provider endpoint.
	BaseURL string `toml:"base_url"`

	// APIKey authenticates against hosted providers.
	APIKey string `toml:"api_key"`
}

// Completion selects and configures the completion provider.
type Completion struct {
	// Provider is "openai", "ollama", or empty to disable answers.
	Provider string `toml:"provider"`

	// Model is the provider-specific model identifier.
	Model string `toml:"model"`

	// BaseURL overrides the provider endpoint.
	BaseURL string `toml:"base_url"`

	// APIKey authenticates against hosted providers.
	APIKey string `toml:"api_key"`
}

// Config is the resolved configuration for the retrieval engine.
type Config struct {
	// DataDir holds the record store database and the vector store
	// directory. Defaults to ~/.askdoc/data.
	DataDir string `toml:"data_dir"`

	// VectorDim is the embedding dimension shared by the embedder and the
	// vector index.
	VectorDim int `toml:"vector_dim"`

	// ChunkSize is the chunking window in characters.
	ChunkSize int `toml:"chunk_size"`

	// ChunkOverlap is the overlap between adjacent chunks in characters.
	ChunkOverlap int `toml:"chunk_overlap"`

	// TopK is the default number of neighbours retrieved per query.
	TopK int `toml:"top_k"`

	Embedding  Embedding  `toml:"embedding"`
	Completion Completion `toml:"completion"`
}

// Load reads configuration from the TOML file at configPath (optional),
// applies environment overrides, fills defaults and validates.
// A missing file is not an error; defaults and environment apply.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}

	if configPath == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			configPath = filepath.Join(home, ".askdoc", "config.toml")
		}
	}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", configPath, err)
			}
		case os.IsNotExist(err):
			// No config file yet - that's fine, start from defaults
		default:
			return nil, fmt.Errorf("reading %s: %w", configPath, err)
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// VectorStoreDir is the directory holding the vector index artifacts.
func (c *Config) VectorStoreDir() string {
	return filepath.Join(c.DataDir, "vectorstore")
}

// Validate checks invariants the rest of the system relies on.
func (c *Config) Validate() error {
	if c.VectorDim <= 0 {
		return fmt.Errorf("%w: vector_dim must be positive, got %d", domain.ErrInvalidInput, c.VectorDim)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk_size must be positive, got %d", domain.ErrInvalidInput, c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("%w: chunk_overlap must be in [0, chunk_size), got %d",
			domain.ErrInvalidInput, c.ChunkOverlap)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("%w: top_k must be positive, got %d", domain.ErrInvalidInput, c.TopK)
	}
	return nil
}

// applyEnv layers ASKDOC_* environment variables over file values.
// OPENAI_API_KEY is honoured as the conventional key variable.
func applyEnv(cfg *Config) {
	if v := os.Getenv("ASKDOC_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v, ok := envInt("ASKDOC_VECTOR_DIM"); ok {
		cfg.VectorDim = v
	}
	if v, ok := envInt("ASKDOC_CHUNK_SIZE"); ok {
		cfg.ChunkSize = v
	}
	if v, ok := envInt("ASKDOC_CHUNK_OVERLAP"); ok {
		cfg.ChunkOverlap = v
	}
	if v, ok := envInt("ASKDOC_TOP_K"); ok {
		cfg.TopK = v
	}

	if v := os.Getenv("ASKDOC_EMBEDDING_PROVIDER"); v != "" {
		cfg.Embedding.Provider = v
	}
	if v := os.Getenv("ASKDOC_EMBEDDING_MODEL"); v != "" {
		cfg.Embedding.Model = v
	}
	if v := os.Getenv("ASKDOC_EMBEDDING_BASE_URL"); v != "" {
		cfg.Embedding.BaseURL = v
	}
	if v := os.Getenv("ASKDOC_COMPLETION_PROVIDER"); v != "" {
		cfg.Completion.Provider = v
	}
	if v := os.Getenv("ASKDOC_COMPLETION_MODEL"); v != "" {
		cfg.Completion.Model = v
	}
	if v := os.Getenv("ASKDOC_COMPLETION_BASE_URL"); v != "" {
		cfg.Completion.BaseURL = v
	}

	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		if cfg.Embedding.APIKey == "" {
			cfg.Embedding.APIKey = v
		}
		if cfg.Completion.APIKey == "" {
			cfg.Completion.APIKey = v
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			cfg.DataDir = filepath.Join(home, ".askdoc", "data")
		}
	}
	if cfg.VectorDim == 0 {
		cfg.VectorDim = DefaultVectorDim
	}
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.ChunkOverlap == 0 {
		cfg.ChunkOverlap = DefaultOverlap
	}
	if cfg.TopK == 0 {
		cfg.TopK = DefaultTopK
	}
}

func envInt(name string) (int, bool) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
