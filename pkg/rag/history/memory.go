// Package history holds the bounded conversation memory read by the router
// and updated once per turn.
package history

import (
	"fmt"
	"strings"
	"time"

	"hcp-chatbot-be/pkg/rag/reference"
	"hcp-chatbot-be/pkg/rag/state"
)

const (
	// DefaultCap is the number of turns the core keeps.
	DefaultCap = 5
	// ContextTurns is how many recent turns feed the classifier context.
	ContextTurns = 3

	contextQueryLimit = 80
	emptyContext      = "No previous context."
)

// Append returns a new history with turn added and trimmed to the last
// max entries. The input slice is never modified.
func Append(history []state.Turn, turn state.Turn, max int) []state.Turn {
	if max <= 0 {
		max = DefaultCap
	}
	out := make([]state.Turn, 0, len(history)+1)
	out = append(out, history...)
	out = append(out, turn)
	return Trim(out, max)
}

// Trim keeps the last max turns in a fresh slice.
func Trim(history []state.Turn, max int) []state.Turn {
	if max <= 0 {
		max = DefaultCap
	}
	start := 0
	if len(history) > max {
		start = len(history) - max
	}
	out := make([]state.Turn, len(history)-start)
	copy(out, history[start:])
	return out
}

// NewTurn builds the turn recorded at the end of a pipeline run.
func NewTurn(s state.AgentState, now time.Time) state.Turn {
	return state.Turn{
		Query:     s.Query,
		Response:  s.Response,
		Route:     s.Decision.Route,
		Timestamp: now,
	}
}

// ContextString renders the last few turns for the classifier, tagging each
// query with the version it names.
func ContextString(history []state.Turn) string {
	if len(history) == 0 {
		return emptyContext
	}

	recent := history
	if len(recent) > ContextTurns {
		recent = recent[len(recent)-ContextTurns:]
	}

	var b strings.Builder
	b.WriteString("Recent conversation:")
	for i, turn := range recent {
		line := truncate(turn.Query, contextQueryLimit) + "..."
		if v, ok := reference.ParseVersionNumber(turn.Query); ok {
			line = fmt.Sprintf("[Version %d] %s", v, line)
		}
		fmt.Fprintf(&b, "\n%d. %s", i+1, line)
		fmt.Fprintf(&b, "\n   Route: %s", turn.Route)
	}
	return b.String()
}

// AnnotateVersion appends the resolved version and its provenance.
func AnnotateVersion(context string, version int, source state.VersionSource) string {
	if version <= 0 {
		return context
	}
	if source == state.SourceNone {
		source = state.SourceCurrentQuery
	}
	return fmt.Sprintf("%s\n\n🔍 VERSION FROM %s: %d", context, strings.ToUpper(string(source)), version)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
