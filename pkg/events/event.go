package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event is anything that can be published on the event bus.
type Event interface {
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

// Raw is an event decoded off the wire whose concrete type is unknown to
// the reader.
type Raw struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e Raw) EventType() string               { return e.Type }
func (e Raw) Payload() map[string]interface{} { return e.Data }
func (e Raw) Timestamp() time.Time            { return e.OccurredAt }

// Decode rebuilds an event of the given type from its JSON payload. The
// payload's occurred_at wins over the receive time when it parses.
func Decode(eventType string, data []byte) (Raw, error) {
	var payload map[string]interface{}
	if err := json.Unmarshal(data, &payload); err != nil {
		return Raw{}, fmt.Errorf("unmarshal %s payload: %w", eventType, err)
	}

	occurred := time.Now()
	if s, ok := payload["occurred_at"].(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			occurred = t
		}
	}
	return Raw{Type: eventType, Data: payload, OccurredAt: occurred}, nil
}
