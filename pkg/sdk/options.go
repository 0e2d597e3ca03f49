package venuedex

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/venuedex/internal/config"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	// env names a service configuration file loaded before the other options apply.
	env  string
	sets []func(*config.Config)

	embedder  Embedder
	completer Completer

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

func (c *clientConfig) set(fn func(*config.Config)) {
	c.sets = append(c.sets, fn)
}

// WithEnvironment loads config/<env>.yaml, the file the API server reads.
// Options passed alongside it override the loaded values.
func WithEnvironment(env string) Option {
	return optionFunc(func(c *clientConfig) {
		c.env = env
	})
}

// WithRedis configures the Redis 8 addresses.
func WithRedis(addrs ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.set(func(cfg *config.Config) { cfg.Database.Addrs = addrs })
	})
}

// WithCredentials sets the Redis ACL user and password.
func WithCredentials(username, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.set(func(cfg *config.Config) {
			cfg.Database.Username = username
			cfg.Database.Password = password
		})
	})
}

// WithKeyPrefix sets the global storage key prefix. Default: "venuedex:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.set(func(cfg *config.Config) { cfg.Storage.KeyPrefix = prefix })
	})
}

// WithEmbedding selects the embedding backend: "tei" or "openai".
func WithEmbedding(provider, baseURL, model, apiKey string) Option {
	return optionFunc(func(c *clientConfig) {
		c.set(func(cfg *config.Config) {
			cfg.Embedding.Provider = provider
			cfg.Embedding.BaseURL = baseURL
			cfg.Embedding.Model = model
			cfg.Embedding.APIKey = apiKey
		})
	})
}

// WithLLM selects the completion backend used for query translation:
// "anthropic" or "openai".
func WithLLM(provider, model, apiKey string) Option {
	return optionFunc(func(c *clientConfig) {
		c.set(func(cfg *config.Config) {
			cfg.LLM.Provider = provider
			cfg.LLM.Model = model
			cfg.LLM.APIKey = apiKey
		})
	})
}

// WithHNSW configures HNSW index parameters (M and EF construction).
// Defaults: M=16, EFConstruct=200.
func WithHNSW(m, efConstruct int) Option {
	return optionFunc(func(c *clientConfig) {
		c.set(func(cfg *config.Config) {
			cfg.Index.HNSWM = m
			cfg.Index.HNSWEFConstruct = efConstruct
		})
	})
}

// WithTimezone sets the zone for open-hours checks of venues without their own.
func WithTimezone(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.set(func(cfg *config.Config) { cfg.Search.DefaultTimezone = name })
	})
}

// WithReembed bounds bulk regeneration: at most concurrency tasks in flight,
// task starts spaced by at least minInterval.
func WithReembed(concurrency int, minInterval time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.set(func(cfg *config.Config) {
			cfg.Reembed.Concurrency = concurrency
			cfg.Reembed.MinIntervalMs = int(minInterval / time.Millisecond)
		})
	})
}

// WithEmbedder replaces the configured embedding backend.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithCompleter replaces the configured completion backend.
func WithCompleter(cm Completer) Option {
	return optionFunc(func(c *clientConfig) {
		c.completer = cm
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}

// resolve produces the service configuration the options describe.
func (c *clientConfig) resolve() (config.Config, error) {
	var cfg config.Config
	if c.env != "" {
		loaded, err := config.Load(c.env)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	for _, fn := range c.sets {
		fn(&cfg)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}
