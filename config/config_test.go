package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "assist.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ASSIST_LLM_API_KEY", "test-key")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.True(t, cfg.HTTP.CORSEnabled)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "test-key", cfg.LLM.APIKey)
	assert.Equal(t, "https://www.botkyrka.se", cfg.Search.BaseURL)
	assert.Equal(t, 9*time.Second, cfg.Search.Timeout)
	assert.Equal(t, 8*time.Second, cfg.Scraper.Timeout)
	assert.Equal(t, 8000, cfg.Scraper.MaxContentChars)
	assert.Equal(t, []string{"botkyrka.se"}, cfg.Scraper.AllowedDomains)
	assert.Equal(t, "fs", cfg.Fixtures.Backend)
	assert.Equal(t, 25*time.Second, cfg.Pipeline.RequestTimeout)
	assert.Less(t, cfg.Pipeline.RequestTimeout, cfg.HTTP.WriteTimeout)
	assert.Equal(t, "prod", cfg.Log.Env)
	assert.Empty(t, cfg.Database.DSN)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
http:
  addr: ":9090"
  cors_enabled: false
llm:
  provider: openai
  base_url: http://localhost:11434/v1
  model: llama3
  timeout: 4s
scraper:
  max_content_chars: 4000
  allowed_domains: [botkyrka.se, service.botkyrka.se]
database:
  dsn: postgres://assist@localhost/assist?sslmode=disable
log:
  env: dev
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.False(t, cfg.HTTP.CORSEnabled)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "llama3", cfg.LLM.Model)
	assert.Equal(t, 4*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 4000, cfg.Scraper.MaxContentChars)
	assert.Equal(t, []string{"botkyrka.se", "service.botkyrka.se"}, cfg.Scraper.AllowedDomains)
	assert.Equal(t, "postgres://assist@localhost/assist?sslmode=disable", cfg.Database.DSN)
	assert.Equal(t, "dev", cfg.Log.Env)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "llm:\n  provider: none\nsearch:\n  timeout: 3s\n")
	t.Setenv("ASSIST_SEARCH_TIMEOUT", "6s")
	t.Setenv("ASSIST_HTTP_ADDR", ":7070")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "none", cfg.LLM.Provider)
	assert.Equal(t, 6*time.Second, cfg.Search.Timeout)
	assert.Equal(t, ":7070", cfg.HTTP.Addr)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("ASSIST_LLM_PROVIDER", "none")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "none", cfg.LLM.Provider)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := writeConfig(t, "llm:\n  provider: none\nscraper:\n  timeout: 30s\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scraper.timeout")
}

func validConfig() Config {
	c := Config{LLM: LLMConfig{Provider: "none"}}
	c.ApplyDefaults()
	return c
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"unknown provider", func(c *Config) { c.LLM.Provider = "claude" }, "llm.provider"},
		{"gemini without key", func(c *Config) { c.LLM.Provider = "gemini" }, "llm.api_key"},
		{"gemini with key", func(c *Config) { c.LLM.Provider = "gemini"; c.LLM.APIKey = "k" }, ""},
		{"openai local endpoint", func(c *Config) { c.LLM.Provider = "openai"; c.LLM.BaseURL = "http://localhost:8000/v1" }, ""},
		{"sub-second timeout", func(c *Config) { c.Search.Timeout = 500 * time.Millisecond }, "search.timeout"},
		{"ten second timeout", func(c *Config) { c.Pipeline.SynthesisTimeout = 10 * time.Second }, "pipeline.synthesis_timeout"},
		{"nine seconds allowed", func(c *Config) { c.LLM.Timeout = 9 * time.Second }, ""},
		{"unknown fixtures backend", func(c *Config) { c.Fixtures.Backend = "gcs" }, "fixtures.backend"},
		{"s3 without bucket", func(c *Config) { c.Fixtures.Backend = "s3" }, "fixtures.s3.bucket"},
		{"s3 with bucket", func(c *Config) { c.Fixtures.Backend = "s3"; c.Fixtures.S3.Bucket = "fixtures" }, ""},
		{"request timeout at write timeout", func(c *Config) { c.Pipeline.RequestTimeout = c.HTTP.WriteTimeout }, "http.write_timeout"},
		{"request timeout past write timeout", func(c *Config) { c.HTTP.WriteTimeout = 4 * time.Second; c.Pipeline.RequestTimeout = 6 * time.Second }, "http.write_timeout"},
		{"request timeout within synthesis", func(c *Config) { c.Pipeline.RequestTimeout = 8 * time.Second }, "pipeline.synthesis_timeout"},
		{"scaled down budget", func(c *Config) {
			c.HTTP.WriteTimeout = 4 * time.Second
			c.Pipeline.RequestTimeout = 3 * time.Second
			c.Pipeline.SynthesisTimeout = time.Second
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(&c)

			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestApplyDefaultsNormalizesProvider(t *testing.T) {
	c := Config{LLM: LLMConfig{Provider: "  OpenAI "}}
	c.ApplyDefaults()

	assert.Equal(t, "openai", c.LLM.Provider)
	assert.Equal(t, 5*time.Second, c.Pipeline.DetectionTimeout)
	assert.Equal(t, 9*time.Second, c.Pipeline.SynthesisTimeout)
	assert.Equal(t, 25*time.Second, c.Pipeline.RequestTimeout)
}
