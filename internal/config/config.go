// Package config loads runtime settings from the environment and the YAML
// bias table.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/deusflow/neutralnews/internal/news"
)

// Validation errors.
var (
	ErrInvalidThreshold   = errors.New("SIMILARITY_THRESHOLD must be in (0, 1]")
	ErrInvalidPolicy      = errors.New("CLUSTER_POLICY must be 'first-fit' or 'best-fit'")
	ErrInvalidConcurrency = errors.New("FETCH_CONCURRENCY must be at least 1")
	ErrInvalidHistory     = errors.New("HISTORY_BACKEND must be 'file', 'postgres' or 'none'")
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is required for the postgres history backend")
	ErrEmptyBiasTable     = errors.New("bias table has no entries")
	ErrDuplicateOutlet    = errors.New("bias table lists an outlet more than once")
	ErrInvalidProvider    = errors.New("SUMMARY_PROVIDER must be 'gemini' or 'openai'")
)

// History backends.
const (
	HistoryFile     = "file"
	HistoryPostgres = "postgres"
	HistoryNone     = "none"
)

// Neutral summary providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

type Config struct {
	// Feeds
	FeedsConfigPath  string
	FetchConcurrency int
	RequestTimeout   time.Duration
	UserAgent        string
	FeedCacheTTL     time.Duration

	// Grouping
	SimilarityThreshold float64
	ClusterPolicy       string // first-fit | best-fit
	BiasConfigPath      string

	// Neutral summary (disabled without the provider's key)
	SummaryProvider    string // gemini | openai
	GeminiAPIKey       string
	GeminiModel        string
	OpenAIAPIKey       string
	OpenAIModel        string
	MaxSummaryRequests int // per day, 0 = unlimited
	RetryAttempts      int
	RetryDelay         time.Duration

	// Search history
	HistoryBackend  string
	HistoryFilePath string
	HistoryTTLHours int
	DatabaseURL     string

	// App settings
	MonitoringPort string
	Debug          bool
}

func Load() (*Config, error) {
	cfg := &Config{
		FeedsConfigPath:     getEnvOrDefault("FEEDS_CONFIG_PATH", "configs/feeds.yaml"),
		FetchConcurrency:    getEnvIntOrDefault("FETCH_CONCURRENCY", 4),
		RequestTimeout:      time.Duration(getEnvIntOrDefault("REQUEST_TIMEOUT_SECONDS", 15)) * time.Second,
		UserAgent:           getEnvOrDefault("USER_AGENT", "neutralnews/1.0 (+https://github.com/deusflow/neutralnews)"),
		FeedCacheTTL:        time.Duration(getEnvIntOrDefault("FEED_CACHE_TTL_MINUTES", 10)) * time.Minute,
		SimilarityThreshold: getEnvFloatOrDefault("SIMILARITY_THRESHOLD", news.DefaultThreshold),
		ClusterPolicy:       getEnvOrDefault("CLUSTER_POLICY", news.FirstFit.String()),
		BiasConfigPath:      getEnvOrDefault("BIAS_CONFIG_PATH", "configs/bias.yaml"),
		SummaryProvider:     strings.ToLower(getEnvOrDefault("SUMMARY_PROVIDER", ProviderGemini)),
		GeminiAPIKey:        os.Getenv("GEMINI_API_KEY"),
		GeminiModel:         getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		OpenAIAPIKey:        os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:         getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		MaxSummaryRequests:  getEnvIntOrDefault("MAX_SUMMARY_REQUESTS", 50),
		RetryAttempts:       getEnvIntOrDefault("RETRY_ATTEMPTS", 3),
		RetryDelay:          time.Duration(getEnvIntOrDefault("RETRY_DELAY_SECONDS", 2)) * time.Second,
		HistoryBackend:      strings.ToLower(getEnvOrDefault("HISTORY_BACKEND", HistoryFile)),
		HistoryFilePath:     getEnvOrDefault("HISTORY_FILE_PATH", "search_history.json"),
		HistoryTTLHours:     getEnvIntOrDefault("HISTORY_TTL_HOURS", 24*7),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		MonitoringPort:      getEnvOrDefault("MONITORING_PORT", "8080"),
		Debug:               os.Getenv("DEBUG") == "true",
	}

	return cfg, cfg.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func (c *Config) Validate() error {
	if c.SimilarityThreshold <= 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("%w (got %v)", ErrInvalidThreshold, c.SimilarityThreshold)
	}
	if _, err := news.ParsePolicy(c.ClusterPolicy); err != nil {
		return ErrInvalidPolicy
	}
	if c.FetchConcurrency < 1 {
		return ErrInvalidConcurrency
	}
	switch c.HistoryBackend {
	case HistoryFile, HistoryNone:
	case HistoryPostgres:
		if c.DatabaseURL == "" {
			return ErrMissingDatabaseURL
		}
	default:
		return ErrInvalidHistory
	}
	switch c.SummaryProvider {
	case "", ProviderGemini, ProviderOpenAI:
	default:
		return ErrInvalidProvider
	}
	return nil
}

// Policy returns the parsed cluster policy; call after Validate.
func (c *Config) Policy() news.Policy {
	p, _ := news.ParsePolicy(c.ClusterPolicy)
	return p
}

// ClusterOptions bundles the grouping tunables.
func (c *Config) ClusterOptions() news.Options {
	return news.Options{Threshold: c.SimilarityThreshold, Policy: c.Policy()}
}

// SummaryEnabled reports whether the selected provider has a key.
func (c *Config) SummaryEnabled() bool {
	switch c.SummaryProvider {
	case ProviderOpenAI:
		return c.OpenAIAPIKey != ""
	default:
		return c.GeminiAPIKey != ""
	}
}

// BiasFile is the YAML structure of the bias table:
//
//	biases:
//	  guardian: left
//	  bbc: center
type BiasFile struct {
	Biases map[string]string `yaml:"biases"`
}

// LoadBiasTable reads an outlet -> bias table from YAML. Keys are lowercased.
func LoadBiasTable(path string) (news.BiasTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bias table: %w", err)
	}
	return ParseBiasTable(data)
}

// ParseBiasTable decodes a YAML bias table.
func ParseBiasTable(data []byte) (news.BiasTable, error) {
	var f BiasFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse bias table: %w", err)
	}
	if len(f.Biases) == 0 {
		return nil, ErrEmptyBiasTable
	}

	table := make(news.BiasTable, len(f.Biases))
	for outlet, label := range f.Biases {
		b, err := news.ParseBias(label)
		if err != nil {
			return nil, fmt.Errorf("outlet %q: %w", outlet, err)
		}
		key := strings.ToLower(strings.TrimSpace(outlet))
		if _, dup := table[key]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateOutlet, key)
		}
		table[key] = b
	}
	return table, nil
}
