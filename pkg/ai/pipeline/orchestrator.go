// Package pipeline sequences one chatbot turn:
// START → ROUTE → EXEC_* → SUMMARIZE → MEMORY_UPDATE → END.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hcp-chatbot-be/internal/pkg/logger"
	"hcp-chatbot-be/pkg/rag/history"
	"hcp-chatbot-be/pkg/rag/state"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const logModule = "PIPELINE"

// ErrEmptyQuery is returned before START when the query is blank. No stage
// runs and the history is returned untouched.
var ErrEmptyQuery = errors.New("empty query")

// Stage names one node of the turn state machine.
type Stage string

const (
	StageStart          Stage = "START"
	StageRoute          Stage = "ROUTE"
	StageExecRelational Stage = "EXEC_RELATIONAL"
	StageExecVersion    Stage = "EXEC_VERSION"
	StageExecHybrid     Stage = "EXEC_HYBRID"
	StageExecDocSearch  Stage = "EXEC_DOCSEARCH"
	StageExecInvalid    Stage = "EXEC_INVALID"
	StageSummarize      Stage = "SUMMARIZE"
	StageMemoryUpdate   Stage = "MEMORY_UPDATE"
	StageEnd            Stage = "END"
)

var execStages = map[state.Route]Stage{
	state.RouteRelational:     StageExecRelational,
	state.RouteVersion:        StageExecVersion,
	state.RouteVersionHybrid:  StageExecHybrid,
	state.RouteDocumentSearch: StageExecDocSearch,
	state.RouteInvalid:        StageExecInvalid,
}

type Router interface {
	Route(ctx context.Context, s state.AgentState) state.AgentState
}

type Executor interface {
	Execute(ctx context.Context, s state.AgentState) state.AgentState
}

type Summarizer interface {
	Summarize(ctx context.Context, s state.AgentState) state.AgentState
}

type Orchestrator struct {
	router     Router
	executor   Executor
	summarizer Summarizer
	logger     logger.ILogger
	tracer     trace.Tracer

	historyCap int
	now        func() time.Time
}

type Option func(*Orchestrator)

// WithHistoryCap overrides the number of turns kept after each run.
func WithHistoryCap(n int) Option {
	return func(o *Orchestrator) { o.historyCap = n }
}

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

func NewOrchestrator(r Router, e Executor, s Summarizer, log logger.ILogger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		router:     r,
		executor:   e,
		summarizer: s,
		logger:     log,
		tracer:     otel.Tracer("chatbot"),
		historyCap: history.DefaultCap,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes a single turn. The returned state carries the response and
// the updated history; the input history is never modified. An error is
// returned for a blank query, or when the finished state breaks its
// invariants.
func (o *Orchestrator) Run(ctx context.Context, query string, turns []state.Turn) (state.AgentState, error) {
	if strings.TrimSpace(query) == "" {
		return state.New(query, turns), ErrEmptyQuery
	}

	ctx, span := o.tracer.Start(ctx, "chatbot.turn")
	defer span.End()

	started := o.now()
	s := state.New(query, turns)
	stage := StageStart
	var path []Stage

	for stage != StageEnd {
		path = append(path, stage)
		s, stage = o.step(ctx, stage, s)
	}
	path = append(path, StageEnd)

	span.SetAttributes(
		attribute.String("chatbot.route", s.Decision.Route.String()),
		attribute.Int("chatbot.results", s.ResultCount()),
	)

	if err := s.Validate(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		o.logger.Error(logModule, "Turn finished in an invalid state", map[string]interface{}{"error": err.Error()})
		return s, fmt.Errorf("finalize turn: %w", err)
	}

	o.logger.Info(logModule, "Turn completed", map[string]interface{}{
		"route":      s.Decision.Route.String(),
		"confidence": s.Decision.Confidence,
		"results":    s.ResultCount(),
		"error":      s.Error,
		"path":       path,
		"elapsed_ms": o.now().Sub(started).Milliseconds(),
	})
	return s, nil
}

// step runs one stage and returns the next one. Transitions are linear:
// there is no way back to ROUTE once it has run.
func (o *Orchestrator) step(ctx context.Context, stage Stage, s state.AgentState) (state.AgentState, Stage) {
	switch stage {
	case StageStart:
		return s, StageRoute

	case StageRoute:
		s = o.traced(ctx, stage, s, o.router.Route)
		next, ok := execStages[s.Decision.Route]
		if !ok {
			o.logger.Warn(logModule, "Router produced an unknown route", map[string]interface{}{"route": s.Decision.Route.String()})
			s = s.WithDecision(state.Decision{Route: state.RouteInvalid, Reasoning: "Unknown route."})
			next = StageExecInvalid
		}
		return s, next

	case StageExecRelational, StageExecVersion, StageExecHybrid, StageExecDocSearch:
		return o.traced(ctx, stage, s, o.executor.Execute), StageSummarize

	case StageExecInvalid:
		return s.WithResult(state.Empty(state.RouteInvalid)), StageSummarize

	case StageSummarize:
		return o.traced(ctx, stage, s, o.summarizer.Summarize), StageMemoryUpdate

	case StageMemoryUpdate:
		turn := history.NewTurn(s, o.now())
		s = s.WithHistory(history.Append(s.History, turn, o.historyCap))
		o.logger.Debug("MEMORY", "Turn recorded", map[string]interface{}{
			"route": turn.Route.String(),
			"turns": len(s.History),
		})
		return s, StageEnd

	default:
		return s, StageEnd
	}
}

func (o *Orchestrator) traced(ctx context.Context, stage Stage, s state.AgentState, fn func(context.Context, state.AgentState) state.AgentState) state.AgentState {
	ctx, span := o.tracer.Start(ctx, "chatbot."+string(stage))
	defer span.End()

	out := fn(ctx, s)

	span.SetAttributes(attribute.String("chatbot.route", out.Decision.Route.String()))
	if out.Error != "" {
		span.SetStatus(codes.Error, out.Error)
	}
	return out
}
