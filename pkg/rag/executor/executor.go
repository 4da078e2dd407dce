// Package executor implements the four query strategies. Every strategy is
// fail-soft: failures become an empty result plus an error string on the
// returned state.
package executor

import (
	"context"

	"hcp-chatbot-be/internal/pkg/logger"
	"hcp-chatbot-be/pkg/llm"
	"hcp-chatbot-be/pkg/rag/search"
	"hcp-chatbot-be/pkg/rag/state"
)

const logModule = "EXECUTOR"

const (
	versionDetailLimit = 10
	latestVersionLimit = 5
	hybridMetaLimit    = 5
	hybridTopK         = 15
	documentTopK       = 30
	documentLimit      = 5
)

type Executor struct {
	llmProvider llm.LLMProvider
	sql         RelationalExecutor
	versions    VersionStore
	embedder    Embedder
	vectors     search.VectorSearcher
	timeouts    Timeouts
	logger      logger.ILogger
}

type Dependencies struct {
	LLM      llm.LLMProvider
	SQL      RelationalExecutor
	Versions VersionStore
	Embedder Embedder
	Vectors  search.VectorSearcher
	Timeouts Timeouts
	Logger   logger.ILogger
}

func New(deps Dependencies) *Executor {
	return &Executor{
		llmProvider: deps.LLM,
		sql:         deps.SQL,
		versions:    deps.Versions,
		embedder:    deps.Embedder,
		vectors:     deps.Vectors,
		timeouts:    deps.Timeouts,
		logger:      deps.Logger,
	}
}

// Execute dispatches on the decided route. The invalid route performs no
// query and returns the state unchanged.
func (e *Executor) Execute(ctx context.Context, s state.AgentState) state.AgentState {
	switch s.Decision.Route {
	case state.RouteRelational:
		return e.Relational(ctx, s)
	case state.RouteVersion:
		return e.Version(ctx, s)
	case state.RouteVersionHybrid:
		return e.Hybrid(ctx, s)
	case state.RouteDocumentSearch:
		return e.DocumentSearch(ctx, s)
	default:
		return s.WithResult(state.Empty(s.Decision.Route))
	}
}

// run converts errors and panics from fn into a failed state.
func (e *Executor) run(name string, s state.AgentState, fn func() (state.Result, error)) (out state.AgentState) {
	defer func() {
		if r := recover(); r != nil {
			err := state.Errorf(state.ErrStrategyExecution, "%s panicked: %v", name, r)
			e.logger.Error(logModule, "Strategy panicked", map[string]interface{}{"strategy": name, "error": err.Error()})
			out = s.WithFailure(err)
		}
	}()

	result, err := fn()
	if err != nil {
		e.logger.Error(logModule, "Strategy failed", map[string]interface{}{"strategy": name, "error": err.Error()})
		return s.WithFailure(err)
	}

	e.logger.Info(logModule, "Strategy completed", map[string]interface{}{
		"strategy": name,
		"results":  result.Count(),
	})
	return s.WithResult(result)
}

func (e *Executor) embed(ctx context.Context, text string) ([]float32, error) {
	if e.embedder == nil {
		return nil, state.Errorf(state.ErrStrategyExecution, "embedding service unavailable")
	}
	cctx, cancel := withTimeout(ctx, e.timeouts.Embedding)
	defer cancel()

	vec, err := e.embedder.Embed(cctx, text)
	if err != nil {
		return nil, state.Errorf(state.ErrStrategyExecution, "embed query: %v", err)
	}
	return vec, nil
}

func (e *Executor) searchVectors(ctx context.Context, vec []float32, topK int, filter *search.Filter) ([]search.Match, error) {
	if e.vectors == nil {
		return nil, state.Errorf(state.ErrStrategyExecution, "vector search unavailable")
	}
	cctx, cancel := withTimeout(ctx, e.timeouts.Vector)
	defer cancel()

	matches, err := e.vectors.Search(cctx, vec, topK, filter)
	if err != nil {
		return nil, state.Errorf(state.ErrStrategyExecution, "vector search: %v", err)
	}
	return matches, nil
}
