// Package config loads the assistant configuration from an optional YAML file,
// a local .env file and ASSIST_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. ASSIST_LLM_API_KEY.
const EnvPrefix = "ASSIST"

// External calls must finish within a single-digit number of seconds.
const (
	minExternalTimeout = time.Second
	maxExternalTimeout = 9 * time.Second
)

// Config holds the assistant configuration.
type Config struct {
	HTTP     HTTPConfig     `mapstructure:"http"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Search   SearchConfig   `mapstructure:"search"`
	Scraper  ScraperConfig  `mapstructure:"scraper"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Database DatabaseConfig `mapstructure:"database"`
	Fixtures FixturesConfig `mapstructure:"fixtures"`
	Log      LogConfig      `mapstructure:"log"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	CORSEnabled     bool          `mapstructure:"cors_enabled"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LLMConfig selects and configures the language model provider.
type LLMConfig struct {
	Provider string        `mapstructure:"provider"` // gemini, openai or none
	APIKey   string        `mapstructure:"api_key"`
	Model    string        `mapstructure:"model"`
	BaseURL  string        `mapstructure:"base_url"` // openai-compatible endpoints only
	Timeout  time.Duration `mapstructure:"timeout"`
}

// SearchConfig holds site search settings.
type SearchConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ScraperConfig holds page scraper settings.
type ScraperConfig struct {
	Timeout         time.Duration `mapstructure:"timeout"`
	MaxContentChars int           `mapstructure:"max_content_chars"`
	AllowedDomains  []string      `mapstructure:"allowed_domains"`
}

// PipelineConfig bounds the language model stages.
type PipelineConfig struct {
	DetectionTimeout   time.Duration `mapstructure:"detection_timeout"`
	TranslationTimeout time.Duration `mapstructure:"translation_timeout"`
	SynthesisTimeout   time.Duration `mapstructure:"synthesis_timeout"`
	RequestTimeout     time.Duration `mapstructure:"request_timeout"` // whole answer, below http.write_timeout
}

// DatabaseConfig configures the analytics sink. An empty DSN disables it.
type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

// FixturesConfig tells cmd/snapshot where to keep search page snapshots.
type FixturesConfig struct {
	Backend string   `mapstructure:"backend"` // fs or s3
	Path    string   `mapstructure:"path"`
	S3      S3Config `mapstructure:"s3"`
}

// S3Config holds S3-compatible object storage settings.
type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Env   string `mapstructure:"env"`   // prod, dev or local
	Level string `mapstructure:"level"` // debug, info, warn, error (default: determined by env)
}

// Load reads the configuration. path names an optional YAML file; an empty
// path skips it. Environment variables override file values.
func Load(path string) (Config, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	// comma separated in the environment
	if len(cfg.Scraper.AllowedDomains) == 1 && strings.Contains(cfg.Scraper.AllowedDomains[0], ",") {
		cfg.Scraper.AllowedDomains = splitList(cfg.Scraper.AllowedDomains[0])
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.cors_enabled", true)
	v.SetDefault("http.read_timeout", "10s")
	v.SetDefault("http.write_timeout", "30s")
	v.SetDefault("http.shutdown_timeout", "10s")

	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.timeout", "8s")

	v.SetDefault("search.base_url", "https://www.botkyrka.se")
	v.SetDefault("search.timeout", "9s")

	v.SetDefault("scraper.timeout", "8s")
	v.SetDefault("scraper.max_content_chars", 8000)
	v.SetDefault("scraper.allowed_domains", []string{"botkyrka.se"})

	v.SetDefault("pipeline.detection_timeout", "5s")
	v.SetDefault("pipeline.translation_timeout", "5s")
	v.SetDefault("pipeline.synthesis_timeout", "9s")
	v.SetDefault("pipeline.request_timeout", "25s")

	v.SetDefault("database.dsn", "")

	v.SetDefault("fixtures.backend", "fs")
	v.SetDefault("fixtures.path", "search/testdata")
	v.SetDefault("fixtures.s3.bucket", "")
	v.SetDefault("fixtures.s3.region", "")
	v.SetDefault("fixtures.s3.endpoint", "")
	v.SetDefault("fixtures.s3.access_key", "")
	v.SetDefault("fixtures.s3.secret_key", "")

	v.SetDefault("log.env", "prod")
	v.SetDefault("log.level", "")
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.HTTP.ReadTimeout <= 0 {
		c.HTTP.ReadTimeout = 10 * time.Second
	}
	if c.HTTP.WriteTimeout <= 0 {
		c.HTTP.WriteTimeout = 30 * time.Second
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		c.HTTP.ShutdownTimeout = 10 * time.Second
	}
	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	if c.LLM.Provider == "" {
		c.LLM.Provider = "gemini"
	}
	if c.LLM.Timeout <= 0 {
		c.LLM.Timeout = 8 * time.Second
	}
	if c.Search.BaseURL == "" {
		c.Search.BaseURL = "https://www.botkyrka.se"
	}
	if c.Search.Timeout <= 0 {
		c.Search.Timeout = 9 * time.Second
	}
	if c.Scraper.Timeout <= 0 {
		c.Scraper.Timeout = 8 * time.Second
	}
	if c.Scraper.MaxContentChars <= 0 {
		c.Scraper.MaxContentChars = 8000
	}
	if len(c.Scraper.AllowedDomains) == 0 {
		c.Scraper.AllowedDomains = []string{"botkyrka.se"}
	}
	if c.Pipeline.DetectionTimeout <= 0 {
		c.Pipeline.DetectionTimeout = 5 * time.Second
	}
	if c.Pipeline.TranslationTimeout <= 0 {
		c.Pipeline.TranslationTimeout = 5 * time.Second
	}
	if c.Pipeline.SynthesisTimeout <= 0 {
		c.Pipeline.SynthesisTimeout = 9 * time.Second
	}
	if c.Pipeline.RequestTimeout <= 0 {
		c.Pipeline.RequestTimeout = 25 * time.Second
	}
	if c.Fixtures.Backend == "" {
		c.Fixtures.Backend = "fs"
	}
	if c.Fixtures.Path == "" {
		c.Fixtures.Path = "search/testdata"
	}
	if c.Log.Env == "" {
		c.Log.Env = "prod"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "gemini", "openai", "none":
	default:
		return fmt.Errorf("llm.provider must be gemini, openai or none, got %q", c.LLM.Provider)
	}
	if c.LLM.Provider != "none" && c.LLM.APIKey == "" && c.LLM.BaseURL == "" {
		return fmt.Errorf("llm.api_key is required for provider %q", c.LLM.Provider)
	}

	timeouts := []struct {
		key string
		d   time.Duration
	}{
		{"llm.timeout", c.LLM.Timeout},
		{"search.timeout", c.Search.Timeout},
		{"scraper.timeout", c.Scraper.Timeout},
		{"pipeline.detection_timeout", c.Pipeline.DetectionTimeout},
		{"pipeline.translation_timeout", c.Pipeline.TranslationTimeout},
		{"pipeline.synthesis_timeout", c.Pipeline.SynthesisTimeout},
	}
	for _, t := range timeouts {
		if t.d < minExternalTimeout || t.d > maxExternalTimeout {
			return fmt.Errorf("%s must be between %s and %s, got %s", t.key, minExternalTimeout, maxExternalTimeout, t.d)
		}
	}

	// the answer must be written before the server drops the connection
	if c.Pipeline.RequestTimeout <= c.Pipeline.SynthesisTimeout {
		return fmt.Errorf("pipeline.request_timeout (%s) must exceed pipeline.synthesis_timeout (%s)",
			c.Pipeline.RequestTimeout, c.Pipeline.SynthesisTimeout)
	}
	if c.Pipeline.RequestTimeout >= c.HTTP.WriteTimeout {
		return fmt.Errorf("pipeline.request_timeout (%s) must be below http.write_timeout (%s)",
			c.Pipeline.RequestTimeout, c.HTTP.WriteTimeout)
	}

	switch c.Fixtures.Backend {
	case "fs":
	case "s3":
		if c.Fixtures.S3.Bucket == "" {
			return fmt.Errorf("fixtures.s3.bucket is required for the s3 backend")
		}
	default:
		return fmt.Errorf("fixtures.backend must be fs or s3, got %q", c.Fixtures.Backend)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
