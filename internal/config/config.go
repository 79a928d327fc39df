package config

// Package config handles configuration loading for equitybrief.
// It supports YAML config files with environment variable overrides.

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Mongo     MongoConfig     `mapstructure:"mongo"     yaml:"mongo"`
	Inference InferenceConfig `mapstructure:"inference" yaml:"inference"`
	News      NewsConfig      `mapstructure:"news"      yaml:"news"`
	API       APIConfig       `mapstructure:"api"       yaml:"api"`
	Logging   LoggingConfig   `mapstructure:"logging"   yaml:"logging"`
}

// MongoConfig holds document-store connection settings. Username and
// Password have no defaults and must come from the environment or the
// config file; Validate treats their absence as fatal.
type MongoConfig struct {
	Username   string `mapstructure:"username"    yaml:"username"`
	Password   string `mapstructure:"password"    yaml:"password"`
	Host       string `mapstructure:"host"        yaml:"host"`
	Database   string `mapstructure:"database"    yaml:"database"`
	Collection string `mapstructure:"collection"  yaml:"collection"`
	TimeoutSec int    `mapstructure:"timeout_sec" yaml:"timeout_sec"`
	CacheTTLSec int   `mapstructure:"cache_ttl_sec" yaml:"cache_ttl_sec"`
}

// URI builds the MongoDB connection string from the configured parts.
func (m MongoConfig) URI() string {
	return fmt.Sprintf("mongodb+srv://%s:%s@%s/?retryWrites=true&w=majority",
		url.QueryEscape(m.Username), url.QueryEscape(m.Password), m.Host)
}

// InferenceConfig holds the model inference server settings. The two model
// identifiers select which pretrained models back classification and
// summarization; both are environment-overridable.
type InferenceConfig struct {
	BaseURL         string `mapstructure:"base_url"         yaml:"base_url"`
	APIKey          string `mapstructure:"api_key"          yaml:"api_key"`
	SentimentModel  string `mapstructure:"sentiment_model"  yaml:"sentiment_model"`
	SummarizerModel string `mapstructure:"summarizer_model" yaml:"summarizer_model"`
	TimeoutSec      int    `mapstructure:"timeout_sec"      yaml:"timeout_sec"`
}

// NewsConfig holds the news enrichment pipeline settings.
type NewsConfig struct {
	FeedBaseURL       string `mapstructure:"feed_base_url"       yaml:"feed_base_url"`
	WindowDays        int    `mapstructure:"window_days"         yaml:"window_days"`
	Language          string `mapstructure:"language"            yaml:"language"` // e.g. "en-IN"
	Region            string `mapstructure:"region"              yaml:"region"`   // e.g. "IN"
	MaxEntries        int    `mapstructure:"max_entries"         yaml:"max_entries"`
	MinArticleChars   int    `mapstructure:"min_article_chars"   yaml:"min_article_chars"`
	SummaryMinLen     int    `mapstructure:"summary_min_len"     yaml:"summary_min_len"`
	SummaryMaxLen     int    `mapstructure:"summary_max_len"     yaml:"summary_max_len"`
	RequestTimeoutSec int    `mapstructure:"request_timeout_sec" yaml:"request_timeout_sec"`
	StageTimeoutSec   int    `mapstructure:"stage_timeout_sec"   yaml:"stage_timeout_sec"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.equitybrief/config.yaml (home directory)
//  3. /etc/equitybrief/config.yaml (system)
//
// Environment variables override config file values.
// Format: EQUITYBRIEF_<SECTION>_<KEY>, e.g., EQUITYBRIEF_MONGO_PASSWORD.
// The legacy bare names MONGO_USERNAME, MONGO_PASSWORD, SENTIMENT_MODEL and
// SUMMARIZER_MODEL are honored as well.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".equitybrief"))
	v.AddConfigPath("/etc/equitybrief")

	v.SetEnvPrefix("EQUITYBRIEF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, use defaults + env vars.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)

	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("EQUITYBRIEF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// Validate checks the startup-fatal requirements: document-store credentials
// must be present before the process may serve.
func (c *Config) Validate() error {
	if c.Mongo.Username == "" || c.Mongo.Password == "" {
		return fmt.Errorf("mongo credentials missing: set MONGO_USERNAME and MONGO_PASSWORD")
	}
	if c.Inference.SentimentModel == "" || c.Inference.SummarizerModel == "" {
		return fmt.Errorf("model identifiers missing: set SENTIMENT_MODEL and SUMMARIZER_MODEL")
	}
	return nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Mongo defaults (credentials intentionally have no default)
	v.SetDefault("mongo.host", "cluster0.8gyw646.mongodb.net")
	v.SetDefault("mongo.database", "additional_information")
	v.SetDefault("mongo.collection", "companies")
	v.SetDefault("mongo.timeout_sec", 10)
	v.SetDefault("mongo.cache_ttl_sec", 60)

	// Inference defaults
	v.SetDefault("inference.base_url", "http://localhost:8090")
	v.SetDefault("inference.sentiment_model", "distilbert/distilbert-base-uncased-finetuned-sst-2-english")
	v.SetDefault("inference.summarizer_model", "sshleifer/distilbart-cnn-12-6")
	v.SetDefault("inference.timeout_sec", 30)

	// News pipeline defaults
	v.SetDefault("news.feed_base_url", "https://news.google.com")
	v.SetDefault("news.window_days", 7)
	v.SetDefault("news.language", "en-IN")
	v.SetDefault("news.region", "IN")
	v.SetDefault("news.max_entries", 3)
	v.SetDefault("news.min_article_chars", 100)
	v.SetDefault("news.summary_min_len", 25)
	v.SetDefault("news.summary_max_len", 80)
	v.SetDefault("news.request_timeout_sec", 60)
	v.SetDefault("news.stage_timeout_sec", 15)

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"*"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// overrideFromEnv explicitly reads sensitive and legacy keys from
// environment variables.
func overrideFromEnv(cfg *Config) {
	if u := os.Getenv("MONGO_USERNAME"); u != "" {
		cfg.Mongo.Username = u
	}
	if p := os.Getenv("MONGO_PASSWORD"); p != "" {
		cfg.Mongo.Password = p
	}
	if k := os.Getenv("EQUITYBRIEF_INFERENCE_API_KEY"); k != "" {
		cfg.Inference.APIKey = k
	}
	if m := os.Getenv("SENTIMENT_MODEL"); m != "" {
		cfg.Inference.SentimentModel = m
	}
	if m := os.Getenv("SUMMARIZER_MODEL"); m != "" {
		cfg.Inference.SummarizerModel = m
	}
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
