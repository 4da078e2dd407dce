// Package router turns a query and its conversation history into a routing
// decision.
package router

import (
	"context"

	"hcp-chatbot-be/internal/pkg/logger"
	"hcp-chatbot-be/pkg/rag/history"
	"hcp-chatbot-be/pkg/rag/intent"
	"hcp-chatbot-be/pkg/rag/reference"
	"hcp-chatbot-be/pkg/rag/state"
)

const logModule = "ROUTER"

// Classifier is the model-backed classification stage.
type Classifier interface {
	Classify(ctx context.Context, query, conversationContext string) (intent.Classification, error)
}

type Router struct {
	classifier Classifier
	rules      []intent.Rule
	logger     logger.ILogger
}

func NewRouter(classifier Classifier, log logger.ILogger) *Router {
	return &Router{
		classifier: classifier,
		rules:      intent.DefaultRules(),
		logger:     log,
	}
}

// Route is the ROUTE stage of the turn pipeline.
func (r *Router) Route(ctx context.Context, s state.AgentState) state.AgentState {
	return s.WithDecision(r.Decide(ctx, s.Query, s.History))
}

// Decide resolves references, tries the shortcuts, and otherwise classifies
// and applies the override rules.
func (r *Router) Decide(ctx context.Context, query string, turns []state.Turn) state.Decision {
	res := reference.Resolve(query, turns)
	r.logger.Debug(logModule, "References resolved", map[string]interface{}{
		"explicit_version":  res.ExplicitVersion,
		"effective_version": res.EffectiveVersion,
		"version_source":    string(res.Source),
		"range":             res.Range,
		"uploader":          res.Uploader,
	})

	if sc, ok := intent.MatchShortcut(query); ok {
		r.logger.Info(logModule, "Shortcut matched", map[string]interface{}{"shortcut": sc.Name})
		d := state.Decision{
			Route:         state.RouteRelational,
			Reasoning:     sc.Reason,
			Confidence:    1.0,
			VersionNumber: res.EffectiveVersion,
			VersionSource: res.Source,
		}
		if res.Range != nil {
			rng := *res.Range
			d.VersionRange = &rng
			d.VersionNumber = 0
			d.VersionSource = state.SourceNone
		}
		return finalize(d, res)
	}

	convo := history.AnnotateVersion(history.ContextString(turns), res.EffectiveVersion, res.Source)

	classification, err := r.classifier.Classify(ctx, query, convo)
	if err != nil {
		r.logger.Warn(logModule, "Classification failed, routing to invalid", map[string]interface{}{"error": err.Error()})
		return finalize(intent.FailedDecision(err), res)
	}

	d, fired := intent.ApplyRules(r.rules, intent.RuleInput{Query: query, Resolution: res}, classification.Decision())
	if len(fired) > 0 {
		r.logger.Info(logModule, "Override rules applied", map[string]interface{}{"rules": fired})
	}

	d = finalize(d, res)
	r.logger.Info(logModule, "Route decided", map[string]interface{}{
		"route":          string(d.Route),
		"confidence":     d.Confidence,
		"version_number": d.VersionNumber,
		"is_comparison":  d.IsComparison,
	})
	return d
}

// finalize fills the resolver-only fields and enforces the decision
// invariants.
func finalize(d state.Decision, res reference.Resolution) state.Decision {
	if !d.Route.IsValid() {
		d.Route = state.RouteRelational
	}
	if d.Confidence < 0 {
		d.Confidence = 0
	}
	if d.Confidence > 1 {
		d.Confidence = 1
	}
	d.UploaderName = res.Uploader
	d.TimeFilterDays = res.TimeFilterDays
	d.IsComparison = d.VersionRange != nil
	return d
}
