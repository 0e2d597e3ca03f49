package config

import (
	"strings"
	"testing"
)

func validConfig() Config {
	cfg := Config{
		HTTP:      HTTPConfig{Port: 8080},
		Database:  DatabaseConfig{Addrs: []string{"localhost:6379"}},
		Embedding: EmbeddingConfig{BaseURL: "http://localhost:8081"},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_Defaults(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"invalid port", func(c *Config) { c.HTTP.Port = 0 }, "http.port"},
		{"missing addrs", func(c *Config) { c.Database.Addrs = nil }, "database.addrs"},
		{"unknown embedding provider", func(c *Config) { c.Embedding.Provider = "onnx" }, "embedding.provider"},
		{"tei without url", func(c *Config) { c.Embedding.BaseURL = "" }, "embedding.base_url"},
		{"unknown llm provider", func(c *Config) { c.LLM.Provider = "local" }, "llm.provider"},
		{"bad timezone", func(c *Config) { c.Search.DefaultTimezone = "Mars/Olympus" }, "search.default_timezone"},
		{"default limit above max", func(c *Config) { c.Search.DefaultLimit = 200 }, "search.default_limit"},
		{"negative interval", func(c *Config) { c.Reembed.MinIntervalMs = -1 }, "reembed.min_interval_ms"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_OpenAIEmbeddingNeedsNoBaseURL(t *testing.T) {
	cfg := validConfig()
	cfg.Embedding.Provider = "openai"
	cfg.Embedding.BaseURL = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Database.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Database.ReadinessTimeout)
	}
	if cfg.Embedding.Dimensions != 384 {
		t.Errorf("expected Dimensions=384, got %d", cfg.Embedding.Dimensions)
	}
	if cfg.Embedding.Provider != "tei" {
		t.Errorf("expected embedding provider tei, got %q", cfg.Embedding.Provider)
	}
	if cfg.LLM.Provider != "anthropic" || cfg.LLM.MaxTokens != 1024 {
		t.Errorf("unexpected llm defaults: %+v", cfg.LLM)
	}
	if cfg.Search.DefaultRadiusMeters != 2000 {
		t.Errorf("expected DefaultRadiusMeters=2000, got %g", cfg.Search.DefaultRadiusMeters)
	}
	if cfg.Search.MaxResults != 500 {
		t.Errorf("expected MaxResults=500, got %d", cfg.Search.MaxResults)
	}
	if cfg.Search.DefaultTimezone != "America/Los_Angeles" {
		t.Errorf("expected DefaultTimezone=America/Los_Angeles, got %q", cfg.Search.DefaultTimezone)
	}
	if cfg.Reembed.Concurrency != 5 {
		t.Errorf("expected Concurrency=5, got %d", cfg.Reembed.Concurrency)
	}
	if cfg.Reembed.MinInterval() != 0 {
		t.Errorf("expected no min interval, got %s", cfg.Reembed.MinInterval())
	}
	if cfg.Index.HNSWM != 16 || cfg.Index.HNSWEFConstruct != 200 {
		t.Errorf("unexpected index defaults: %+v", cfg.Index)
	}
	if cfg.Storage.KeyPrefix != "venuedex:" {
		t.Errorf("expected KeyPrefix='venuedex:', got %q", cfg.Storage.KeyPrefix)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 15, ShutdownSec: 5},
		Database: DatabaseConfig{ReadinessTimeout: 15},
		Search:   SearchConfig{DefaultRadiusMeters: 500, DefaultTimezone: "Europe/Berlin"},
		Reembed:  ReembedConfig{Concurrency: 2, MinIntervalMs: 250},
		Storage:  StorageConfig{KeyPrefix: "custom:"},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 15 {
		t.Errorf("expected WriteTimeoutSec=15, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Search.DefaultRadiusMeters != 500 || cfg.Search.DefaultTimezone != "Europe/Berlin" {
		t.Errorf("search overridden: %+v", cfg.Search)
	}
	if cfg.Reembed.Concurrency != 2 || cfg.Reembed.MinInterval().Milliseconds() != 250 {
		t.Errorf("reembed overridden: %+v", cfg.Reembed)
	}
	if cfg.Storage.KeyPrefix != "custom:" {
		t.Errorf("expected KeyPrefix='custom:', got %q", cfg.Storage.KeyPrefix)
	}
}

func TestParse_ExpandsEnv(t *testing.T) {
	t.Setenv("VENUEDEX_TEST_REDIS", "redis.internal:6379")
	t.Setenv("VENUEDEX_TEST_EMPTY", "")

	cfg, err := Parse([]byte(`
http:
  port: ${VENUEDEX_TEST_PORT:-9090}
database:
  addrs: ["${VENUEDEX_TEST_REDIS}"]
embedding:
  provider: openai
  api_key: "${VENUEDEX_TEST_EMPTY:-sk-fallback}"
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.HTTP.Port)
	}
	if len(cfg.Database.Addrs) != 1 || cfg.Database.Addrs[0] != "redis.internal:6379" {
		t.Errorf("addrs = %v", cfg.Database.Addrs)
	}
	if cfg.Embedding.APIKey != "sk-fallback" {
		t.Errorf("api key = %q, want default for empty var", cfg.Embedding.APIKey)
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("http: [")); err == nil {
		t.Error("expected YAML error")
	}
	if _, err := Parse([]byte("http:\n  port: 8080\n")); err == nil {
		t.Error("expected validation error for missing database")
	}
}
