package history

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"hcp-chatbot-be/pkg/rag/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func turns(n int) []state.Turn {
	out := make([]state.Turn, n)
	for i := range out {
		out[i] = state.Turn{Query: fmt.Sprintf("query %d", i), Route: state.RouteRelational}
	}
	return out
}

func TestAppend_NeverExceedsCap(t *testing.T) {
	var h []state.Turn
	for i := 0; i < 12; i++ {
		h = Append(h, state.Turn{Query: fmt.Sprintf("q%d", i)}, DefaultCap)
		assert.LessOrEqual(t, len(h), DefaultCap)
	}

	require.Len(t, h, DefaultCap)
	assert.Equal(t, "q7", h[0].Query)
	assert.Equal(t, "q11", h[4].Query)
}

func TestAppend_DoesNotMutateInput(t *testing.T) {
	original := turns(5)
	snapshot := make([]state.Turn, len(original))
	copy(snapshot, original)

	updated := Append(original, state.Turn{Query: "new"}, DefaultCap)

	assert.Equal(t, snapshot, original)
	assert.Equal(t, "new", updated[len(updated)-1].Query)
	assert.Equal(t, "query 1", updated[0].Query)
}

func TestAppend_ZeroCapUsesDefault(t *testing.T) {
	h := Append(turns(9), state.Turn{Query: "x"}, 0)
	assert.Len(t, h, DefaultCap)
}

func TestContextString(t *testing.T) {
	t.Run("empty history", func(t *testing.T) {
		assert.Equal(t, "No previous context.", ContextString(nil))
	})

	t.Run("last three turns with version tags", func(t *testing.T) {
		h := []state.Turn{
			{Query: "oldest", Route: state.RouteRelational},
			{Query: "what changed in version 11", Route: state.RouteVersion},
			{Query: "search documents", Route: state.RouteDocumentSearch},
			{Query: strings.Repeat("a", 100), Route: state.RouteRelational},
		}

		got := ContextString(h)

		assert.NotContains(t, got, "oldest")
		assert.Contains(t, got, "1. [Version 11] what changed in version 11...")
		assert.Contains(t, got, "   Route: version_query")
		assert.Contains(t, got, "3. "+strings.Repeat("a", 80)+"...")
		assert.True(t, strings.HasPrefix(got, "Recent conversation:"))
	})
}

func TestAnnotateVersion(t *testing.T) {
	assert.Equal(t, "ctx", AnnotateVersion("ctx", 0, state.SourceHistory))
	assert.Equal(t, "ctx\n\n🔍 VERSION FROM CONVERSATION HISTORY: 11", AnnotateVersion("ctx", 11, state.SourceHistory))
	assert.Equal(t, "ctx\n\n🔍 VERSION FROM CURRENT QUERY: 4", AnnotateVersion("ctx", 4, state.SourceCurrentQuery))
}

func TestNewTurn(t *testing.T) {
	now := time.Date(2025, 11, 16, 10, 0, 0, 0, time.UTC)
	s := state.New("q", nil).
		WithDecision(state.Decision{Route: state.RouteVersion}).
		WithResponse("r")

	turn := NewTurn(s, now)

	assert.Equal(t, state.Turn{Query: "q", Response: "r", Route: state.RouteVersion, Timestamp: now}, turn)
}
