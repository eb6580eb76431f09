// Package config loads pipeline configuration from a YAML file with
// sane defaults for every tunable.
package config

import (
	"fmt"
	"os"

	"github.com/FranksOps/sift/internal/candidate"
	"gopkg.in/yaml.v3"
)

// OracleConfig configures the chat and embedding endpoint.
type OracleConfig struct {
	// BaseURL is an OpenAI-compatible API root, e.g. "https://api.openai.com/v1".
	BaseURL string `yaml:"base_url"`
	// APIKeyEnv names the environment variable holding the API key.
	// The key itself never lives in the config file.
	APIKeyEnv  string `yaml:"api_key_env"`
	ChatModel  string `yaml:"chat_model"`
	EmbedModel string `yaml:"embed_model"`
	// RPS limits requests per second per service (score, embed, translate).
	RPS map[string]float64 `yaml:"rps"`
	// CacheDir persists embeddings between runs. Empty keeps the cache
	// memory-only.
	CacheDir string `yaml:"cache_dir"`
}

// Config is the top-level pipeline configuration.
type Config struct {
	// Topic is the canonical product term in the target language.
	Topic string `yaml:"topic"`
	// TopicEN is the English product term used for English matching.
	TopicEN string `yaml:"topic_en"`
	// Synonyms are alternate terms normalized to Topic on output.
	Synonyms []string `yaml:"synonyms"`
	// TargetLanguage is the publication language.
	TargetLanguage candidate.Language `yaml:"target_language"`

	// PracticalityWeight scales the judged practicality into the final score.
	PracticalityWeight float64 `yaml:"practicality_weight"`
	// DedupThreshold is the cosine similarity above which two questions
	// count as duplicates.
	DedupThreshold float64 `yaml:"dedup_threshold"`
	// OverlapThreshold is the cosine similarity above which a question
	// counts as already answered by existing copy.
	OverlapThreshold float64 `yaml:"overlap_threshold"`
	// TopK is how many questions to select.
	TopK int `yaml:"top_k"`

	Oracle OracleConfig `yaml:"oracle"`

	// MetricsPort exposes Prometheus metrics when positive.
	MetricsPort int `yaml:"metrics_port"`
}

// Default returns the configuration used when a field is absent from the
// YAML file.
func Default() Config {
	return Config{
		TargetLanguage:     candidate.LangZhTW,
		PracticalityWeight: 0.8,
		DedupThreshold:     0.85,
		OverlapThreshold:   0.70,
		TopK:               10,
		Oracle: OracleConfig{
			BaseURL:    "https://api.openai.com/v1",
			APIKeyEnv:  "OPENAI_API_KEY",
			ChatModel:  "gpt-4o-mini",
			EmbedModel: "text-embedding-3-small",
		},
	}
}

// Load reads a YAML file on top of the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c Config) Validate() error {
	if c.Topic == "" {
		return fmt.Errorf("topic is required")
	}
	if c.TopK <= 0 {
		return fmt.Errorf("top_k must be positive, got %d", c.TopK)
	}
	if c.PracticalityWeight <= 0 {
		return fmt.Errorf("practicality_weight must be positive, got %v", c.PracticalityWeight)
	}
	if c.DedupThreshold <= 0 || c.DedupThreshold > 1 {
		return fmt.Errorf("dedup_threshold must be in (0, 1], got %v", c.DedupThreshold)
	}
	if c.OverlapThreshold <= 0 || c.OverlapThreshold > 1 {
		return fmt.Errorf("overlap_threshold must be in (0, 1], got %v", c.OverlapThreshold)
	}
	if c.Oracle.BaseURL == "" {
		return fmt.Errorf("oracle.base_url is required")
	}
	return nil
}

// APIKey resolves the oracle API key from the configured environment
// variable. An unset variable returns the empty string; some local
// endpoints accept keyless requests.
func (c Config) APIKey() string {
	if c.Oracle.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.Oracle.APIKeyEnv)
}
