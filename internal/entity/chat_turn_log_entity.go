package entity

import (
	"time"

	"hcp-chatbot-be/pkg/rag/state"

	"github.com/google/uuid"
)

// ChatTurnLog is the audit record of one finished turn.
type ChatTurnLog struct {
	Id          uuid.UUID
	SessionId   string
	Query       string
	Decision    state.Decision
	ResultCount int
	Error       string
	Response    string
	CreatedAt   time.Time
}
