package contract

import (
	"context"

	"hcp-chatbot-be/pkg/rag/state"
)

// HistoryRepository keeps the bounded conversation memory per session.
// Get returns an empty slice for unknown sessions.
type HistoryRepository interface {
	Get(ctx context.Context, sessionId string) ([]state.Turn, error)
	Save(ctx context.Context, sessionId string, turns []state.Turn) error
	Delete(ctx context.Context, sessionId string) error
	CountSessions(ctx context.Context) (int, error)
}
