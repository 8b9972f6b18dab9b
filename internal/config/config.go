// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// OpenAI API
	OpenAIAPIKey string
	OpenAIModel  string

	// Content source
	TwitterBaseURL string // timeline mirror endpoint; empty uses the default

	// Catalog
	CatalogPath string // YAML file with tracked accounts + tools; empty uses built-ins

	// Tool index (optional semantic matching)
	ToolIndexPath string // VecLite file; empty disables semantic pre-ranking

	// Pipeline
	LookbackDays       int
	MinEngagement      int
	MaxPerAccount      int
	RelevanceThreshold int // 0-100

	// Output
	OutputPath string
	CacheDir   string

	// Review backend
	DatabasePath string
	Port         string

	// Logging
	LogLevel string
}

// Load reads configuration from environment variables.
// It automatically loads .env file if present.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		TwitterBaseURL: getEnv("TWITTER_BASE_URL", ""),
		CatalogPath:    getEnv("CATALOG_PATH", ""),
		ToolIndexPath:  getEnv("TOOL_INDEX_PATH", ""),
		OutputPath:     getEnv("OUTPUT_PATH", "data/responses.csv"),
		CacheDir:       getEnv("CACHE_DIR", "data/cache"),
		DatabasePath:   getEnv("DATABASE_PATH", "data/pulsebot.db"),
		Port:           getEnv("PORT", "8000"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.LookbackDays, err = getEnvInt("LOOKBACK_DAYS", 7); err != nil {
		return nil, err
	}
	if cfg.MinEngagement, err = getEnvInt("MIN_ENGAGEMENT", 0); err != nil {
		return nil, err
	}
	if cfg.MaxPerAccount, err = getEnvInt("MAX_PER_ACCOUNT", 20); err != nil {
		return nil, err
	}
	if cfg.RelevanceThreshold, err = getEnvInt("RELEVANCE_THRESHOLD", 50); err != nil {
		return nil, err
	}

	if cfg.RelevanceThreshold < 0 || cfg.RelevanceThreshold > 100 {
		return nil, fmt.Errorf("RELEVANCE_THRESHOLD must be in [0,100], got %d", cfg.RelevanceThreshold)
	}
	if cfg.LookbackDays <= 0 {
		return nil, fmt.Errorf("LOOKBACK_DAYS must be positive, got %d", cfg.LookbackDays)
	}

	return cfg, nil
}

// ValidateForCollection checks configuration needed to fetch posts.
func (c *Config) ValidateForCollection() error {
	if c.CacheDir == "" {
		return fmt.Errorf("CACHE_DIR is required")
	}
	return nil
}

// ValidateForPipeline checks configuration needed for a full pipeline run.
// Missing credentials fail here, before the run starts.
func (c *Config) ValidateForPipeline() error {
	if err := c.ValidateForCollection(); err != nil {
		return err
	}
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required for the pipeline")
	}
	if c.OutputPath == "" {
		return fmt.Errorf("OUTPUT_PATH is required")
	}
	return nil
}

// ValidateForServe checks configuration needed for the review backend.
func (c *Config) ValidateForServe() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultVal, nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return val, nil
}
