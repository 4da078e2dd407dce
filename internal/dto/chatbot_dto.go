package dto

import (
	"time"

	"hcp-chatbot-be/pkg/events"
	"hcp-chatbot-be/pkg/rag/state"
)

// DefaultSessionID is used when a request names no session.
const DefaultSessionID = "default"

type QueryRequest struct {
	Question  string `json:"question" validate:"required,notblank"`
	SessionID string `json:"session_id"`
}

type QueryResponse struct {
	Answer        string              `json:"answer"`
	QueryType     string              `json:"query_type"`
	RowCount      int                 `json:"row_count"`
	RoutingReason string              `json:"routing_reason"`
	Confidence    float64             `json:"confidence"`
	VersionNumber *int                `json:"version_number,omitempty"`
	VersionRange  *state.VersionRange `json:"version_range,omitempty"`
	SessionID     string              `json:"session_id"`
	Error         string              `json:"error,omitempty"`
}

type ClearSessionResponse struct {
	SessionID string `json:"session_id"`
}

type HealthResponse struct {
	Status         string    `json:"status"`
	ActiveSessions int       `json:"active_sessions"`
	ActiveSockets  int       `json:"active_sockets"`
	Timestamp      time.Time `json:"timestamp"`
}

type HistoryTurnResponse struct {
	Query     string    `json:"query"`
	Response  string    `json:"response"`
	Route     string    `json:"route"`
	Timestamp time.Time `json:"timestamp"`
}

type HistoryResponse struct {
	SessionID string                `json:"session_id"`
	Turns     []HistoryTurnResponse `json:"turns"`
}

type TurnLogResponse struct {
	Id         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	Query      string    `json:"query"`
	Route      string    `json:"route"`
	Confidence float64   `json:"confidence"`
	RowCount   int       `json:"row_count"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// TurnCompletedMessage is the in-process payload for a finished turn. It
// carries the full decision for the audit log next to the public event.
type TurnCompletedMessage struct {
	Event    events.TurnCompleted `json:"event"`
	Decision state.Decision       `json:"decision"`
}

type IngestDocumentRequest struct {
	DocId             string `json:"doc_id" validate:"required"`
	Content           string `json:"content" validate:"required"`
	Filename          string `json:"filename"`
	UploaderName      string `json:"uploader_name"`
	TableName         string `json:"table_name"`
	Action            string `json:"action"`
	HcpName           string `json:"hcp_name"`
	HcpEmail          string `json:"hcp_email"`
	ChangeDescription string `json:"change_description"`
}

type IngestDocumentResponse struct {
	DocId  string `json:"doc_id"`
	Chunks int    `json:"chunks"`
}
