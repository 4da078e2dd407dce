package executor

import (
	"context"
	"time"

	"hcp-chatbot-be/pkg/rag/state"
)

// RelationalExecutor runs one SELECT statement. Implementations log their
// own failures and return an empty slice instead of an error.
type RelationalExecutor interface {
	Execute(ctx context.Context, sql string) []map[string]any
}

// VersionStore reads the version audit log.
type VersionStore interface {
	Compare(ctx context.Context, from, to int) ([]state.VersionComparison, error)
	FindByNumber(ctx context.Context, version, limit int) ([]state.VersionRecord, error)
	Latest(ctx context.Context, limit int) ([]state.VersionRecord, error)
}

// Embedder turns query text into a vector in the same space as the indexed
// chunks.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Timeouts bound each external call. Zero means no deadline.
type Timeouts struct {
	LLM       time.Duration
	SQL       time.Duration
	Embedding time.Duration
	Vector    time.Duration
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
