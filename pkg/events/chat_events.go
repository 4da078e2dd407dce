package events

import "time"

// ChatTurnCompleted is emitted once per finished chatbot turn.
const ChatTurnCompleted = "CHAT_TURN_COMPLETED"

// TurnCompleted describes the outcome of one turn for audit consumers.
type TurnCompleted struct {
	TurnID        string    `json:"turn_id"`
	SessionID     string    `json:"session_id"`
	Query         string    `json:"query"`
	Route         string    `json:"route"`
	Reasoning     string    `json:"reasoning"`
	Confidence    float64   `json:"confidence"`
	VersionNumber int       `json:"version_number,omitempty"`
	ResultCount   int       `json:"result_count"`
	Error         string    `json:"error,omitempty"`
	Response      string    `json:"response"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func (e TurnCompleted) EventType() string {
	return ChatTurnCompleted
}

func (e TurnCompleted) Payload() map[string]interface{} {
	p := map[string]interface{}{
		"turn_id":      e.TurnID,
		"session_id":   e.SessionID,
		"query":        e.Query,
		"route":        e.Route,
		"reasoning":    e.Reasoning,
		"confidence":   e.Confidence,
		"result_count": e.ResultCount,
		"response":     e.Response,
		"occurred_at":  e.OccurredAt.Format(time.RFC3339Nano),
	}
	if e.VersionNumber > 0 {
		p["version_number"] = e.VersionNumber
	}
	if e.Error != "" {
		p["error"] = e.Error
	}
	return p
}

func (e TurnCompleted) Timestamp() time.Time {
	return e.OccurredAt
}
