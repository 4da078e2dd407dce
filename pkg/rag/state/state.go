package state

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Route is the execution strategy chosen for a turn.
type Route string

const (
	RouteRelational     Route = "database_only"
	RouteVersion        Route = "version_query"
	RouteVersionHybrid  Route = "version_hybrid"
	RouteDocumentSearch Route = "semantic_search"
	RouteInvalid        Route = "invalid"

	// legacyHybridAlias is still emitted by older classifier prompts.
	legacyHybridAlias = "hybrid"
)

var canonicalRoutes = []Route{
	RouteRelational,
	RouteVersion,
	RouteVersionHybrid,
	RouteDocumentSearch,
	RouteInvalid,
}

// Routes returns the five canonical routes in a stable order.
func Routes() []Route {
	out := make([]Route, len(canonicalRoutes))
	copy(out, canonicalRoutes)
	return out
}

func (r Route) IsValid() bool {
	for _, c := range canonicalRoutes {
		if r == c {
			return true
		}
	}
	return false
}

func (r Route) String() string {
	return string(r)
}

// ParseRoute normalizes a raw route value. The boolean is false when the
// value is not one of the canonical routes or the legacy alias.
func ParseRoute(raw string) (Route, bool) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == legacyHybridAlias {
		return RouteVersionHybrid, true
	}
	r := Route(v)
	return r, r.IsValid()
}

// VersionSource records where the effective version number came from.
type VersionSource string

const (
	SourceNone         VersionSource = ""
	SourceCurrentQuery VersionSource = "current query"
	SourceHistory      VersionSource = "conversation history"
	SourceClassifier   VersionSource = "classifier"
)

// VersionRange is an ordered pair of versions as encountered in the text.
// From is not guaranteed to be smaller than To.
type VersionRange struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func (v VersionRange) String() string {
	return fmt.Sprintf("%d..%d", v.From, v.To)
}

// Decision is the finalized routing decision for a turn.
type Decision struct {
	Route             Route         `json:"route"`
	Reasoning         string        `json:"reasoning"`
	Confidence        float64       `json:"confidence"`
	VersionNumber     int           `json:"version_number,omitempty"`
	VersionRange      *VersionRange `json:"version_range,omitempty"`
	VersionSource     VersionSource `json:"version_source,omitempty"`
	IsComparison      bool          `json:"is_comparison"`
	WantsExplanation  bool          `json:"wants_explanation"`
	NeedsReason       bool          `json:"needs_reason"`
	HasUploaderFilter bool          `json:"has_uploader_filter"`
	UploaderName      string        `json:"uploader_name,omitempty"`
	TimeFilterDays    *int          `json:"time_filter_days,omitempty"`
	SuggestedMessage  string        `json:"suggested_message,omitempty"`
}

func (d Decision) HasVersion() bool {
	return d.VersionNumber > 0
}

// Turn is one recorded query and its outcome. Role is empty for turns
// recorded by the core; hosts replaying chat logs may mark assistant turns.
type Turn struct {
	Role      string    `json:"role,omitempty"`
	Query     string    `json:"query"`
	Response  string    `json:"response"`
	Route     Route     `json:"route"`
	Timestamp time.Time `json:"timestamp"`
}

func (t Turn) IsUserTurn() bool {
	return t.Role == "" || t.Role == "user"
}

// AgentState is threaded through the pipeline. Stages take it by value and
// return a new value; History must be copied before it is changed.
type AgentState struct {
	Query    string
	History  []Turn
	Decision Decision
	Result   Result
	Error    string
	Response string
}

// New creates the initial state for a turn.
func New(query string, history []Turn) AgentState {
	h := make([]Turn, len(history))
	copy(h, history)
	return AgentState{Query: query, History: h}
}

func (s AgentState) WithDecision(d Decision) AgentState {
	s.Decision = d
	return s
}

func (s AgentState) WithResult(r Result) AgentState {
	s.Result = r
	s.Error = ""
	return s
}

// WithFailure records a strategy failure: the result is emptied for the
// current route and the error string is set.
func (s AgentState) WithFailure(err error) AgentState {
	s.Result = Empty(s.Decision.Route)
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	s.Error = msg
	return s
}

func (s AgentState) WithResponse(text string) AgentState {
	s.Response = text
	return s
}

func (s AgentState) WithHistory(h []Turn) AgentState {
	s.History = h
	return s
}

// ResultCount mirrors the number of items the summarizer will render.
func (s AgentState) ResultCount() int {
	return s.Result.Count()
}

var ErrInvalidState = errors.New("invalid agent state")

// Validate checks the invariants every finished state must hold.
func (s AgentState) Validate() error {
	if strings.TrimSpace(s.Query) == "" {
		return fmt.Errorf("%w: empty query", ErrInvalidState)
	}
	if !s.Decision.Route.IsValid() {
		return fmt.Errorf("%w: route %q", ErrInvalidState, s.Decision.Route)
	}
	if s.Decision.Confidence < 0 || s.Decision.Confidence > 1 {
		return fmt.Errorf("%w: confidence %.2f out of range", ErrInvalidState, s.Decision.Confidence)
	}
	if s.Result.Route != "" && s.Result.Route != s.Decision.Route {
		return fmt.Errorf("%w: result route %q does not match decision %q", ErrInvalidState, s.Result.Route, s.Decision.Route)
	}
	if s.Error != "" && s.Result.Count() != 0 {
		return fmt.Errorf("%w: error state carries %d results", ErrInvalidState, s.Result.Count())
	}
	return nil
}
