package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTurnCompleted(t *testing.T) {
	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	e := TurnCompleted{TurnID: "t1", SessionID: "default", Route: "version_query", VersionNumber: 4, OccurredAt: at}

	var ev Event = e
	assert.Equal(t, "CHAT_TURN_COMPLETED", ev.EventType())
	assert.Equal(t, at, ev.Timestamp())

	p := ev.Payload()
	assert.Equal(t, 4, p["version_number"])
	assert.Equal(t, "2024-05-01T09:00:00Z", p["occurred_at"])
	assert.NotContains(t, p, "error")
}

func TestDecode(t *testing.T) {
	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	data := []byte(`{"session_id":"s1","route":"invalid","occurred_at":"2024-05-01T09:00:00Z"}`)

	ev, err := Decode(ChatTurnCompleted, data)
	assert.NoError(t, err)
	assert.Equal(t, ChatTurnCompleted, ev.EventType())
	assert.True(t, at.Equal(ev.Timestamp()))
	assert.Equal(t, "invalid", ev.Payload()["route"])

	_, err = Decode(ChatTurnCompleted, []byte("{"))
	assert.ErrorContains(t, err, "unmarshal CHAT_TURN_COMPLETED payload")
}

func TestDecode_MissingTimestampUsesNow(t *testing.T) {
	before := time.Now()
	ev, err := Decode("X", []byte(`{"occurred_at":"yesterday"}`))
	assert.NoError(t, err)
	assert.False(t, ev.Timestamp().Before(before))
}
