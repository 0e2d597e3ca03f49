package health

import "context"

// DBPinger checks that the document store answers.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks that the embedding backend is reachable.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}
