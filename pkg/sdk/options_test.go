package venuedex

import (
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestResolve_Defaults(t *testing.T) {
	cc := &clientConfig{}
	WithRedis("localhost:6379").apply(cc)

	cfg, err := cc.resolve()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Addrs[0] != "localhost:6379" {
		t.Errorf("addrs = %v", cfg.Database.Addrs)
	}
	if cfg.Storage.KeyPrefix != "venuedex:" {
		t.Errorf("KeyPrefix = %q", cfg.Storage.KeyPrefix)
	}
	if cfg.Embedding.Provider != "tei" || cfg.Embedding.Dimensions != 384 {
		t.Errorf("embedding = %+v", cfg.Embedding)
	}
	if cfg.Reembed.Concurrency != 5 {
		t.Errorf("Concurrency = %d, want 5", cfg.Reembed.Concurrency)
	}
}

func TestResolve_Options(t *testing.T) {
	cc := &clientConfig{}
	for _, o := range []Option{
		WithRedis("a:6379", "b:6379"),
		WithCredentials("app", "secret"),
		WithKeyPrefix("test:"),
		WithEmbedding("openai", "", "text-embedding-3-small", "sk-test"),
		WithLLM("openai", "gpt-4o-mini", "sk-llm"),
		WithHNSW(32, 400),
		WithTimezone("Europe/Berlin"),
		WithReembed(2, 250*time.Millisecond),
	} {
		o.apply(cc)
	}

	cfg, err := cc.resolve()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Database.Addrs) != 2 || cfg.Database.Username != "app" || cfg.Database.Password != "secret" {
		t.Errorf("database = %+v", cfg.Database)
	}
	if cfg.Storage.KeyPrefix != "test:" {
		t.Errorf("KeyPrefix = %q", cfg.Storage.KeyPrefix)
	}
	if cfg.Embedding.Provider != "openai" || cfg.Embedding.APIKey != "sk-test" {
		t.Errorf("embedding = %+v", cfg.Embedding)
	}
	if cfg.LLM.Provider != "openai" || cfg.LLM.Model != "gpt-4o-mini" {
		t.Errorf("llm = %+v", cfg.LLM)
	}
	if cfg.Index.HNSWM != 32 || cfg.Index.HNSWEFConstruct != 400 {
		t.Errorf("index = %+v", cfg.Index)
	}
	if cfg.Search.DefaultTimezone != "Europe/Berlin" {
		t.Errorf("timezone = %q", cfg.Search.DefaultTimezone)
	}
	if cfg.Reembed.Concurrency != 2 || cfg.Reembed.MinInterval() != 250*time.Millisecond {
		t.Errorf("reembed = %+v", cfg.Reembed)
	}
}

func TestClientOptions_Backends(t *testing.T) {
	cc := &clientConfig{}
	WithEmbedder(&mockEmbedder{}).apply(cc)
	WithCompleter(&mockCompleter{}).apply(cc)
	if cc.embedder == nil || cc.completer == nil {
		t.Error("expected backends to be set")
	}

	logger := slog.Default()
	WithLogger(logger).apply(cc)
	if cc.logger != logger {
		t.Error("expected logger to be set")
	}

	reg := prometheus.NewRegistry()
	WithPrometheus(reg).apply(cc)
	if cc.metricsReg != reg {
		t.Error("expected metricsReg to be set")
	}

	WithEnvironment("prod").apply(cc)
	if cc.env != "prod" {
		t.Errorf("env = %q, want prod", cc.env)
	}
}
