package intent

import (
	"strings"

	"hcp-chatbot-be/pkg/rag/reference"
	"hcp-chatbot-be/pkg/rag/state"
)

var explanationKeywords = []string{
	"why", "reason", "explain", "explanation", "detailed", "cause", "what happened",
}

var oldestVersionPhrases = []string{
	"first version", "oldest version", "earliest version", "starting version", "initial version",
}

// RuleInput is what every override rule may look at besides the decision.
type RuleInput struct {
	Query      string
	Resolution reference.Resolution
}

func (in RuleInput) lower() string {
	return strings.ToLower(in.Query)
}

// Rule rewrites a decision. Apply reports whether it fired.
type Rule struct {
	Name  string
	Apply func(in RuleInput, d state.Decision) (state.Decision, bool)
}

// DefaultRules is the single ordered list of overrides applied to a
// successful classification. Later rules see earlier rewrites.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "explanation_with_version", Apply: explanationWithVersion},
		{Name: "oldest_version", Apply: oldestVersion},
		{Name: "range_preservation", Apply: rangePreservation},
		{Name: "single_version_preservation", Apply: singleVersionPreservation},
		{Name: "route_validation", Apply: routeValidation},
		{Name: "contextual_explanation", Apply: contextualExplanation},
		{Name: "uploader_escalation", Apply: uploaderEscalation},
		{Name: "effective_version_fallback", Apply: effectiveVersionFallback},
	}
}

// ApplyRules runs rules in order and returns the rewritten decision together
// with the names of the rules that fired.
func ApplyRules(rules []Rule, in RuleInput, d state.Decision) (state.Decision, []string) {
	var fired []string
	for _, r := range rules {
		next, ok := r.Apply(in, d)
		if !ok {
			continue
		}
		d = next
		fired = append(fired, r.Name)
	}
	return d, fired
}

func HasExplanationKeyword(query string) bool {
	return containsAny(strings.ToLower(query), explanationKeywords)
}

func explanationWithVersion(in RuleInput, d state.Decision) (state.Decision, bool) {
	v := in.Resolution.ExplicitVersion
	if v <= 0 || !containsAny(in.lower(), explanationKeywords) {
		return d, false
	}
	d.Route = state.RouteVersionHybrid
	d.VersionNumber = v
	d.VersionSource = state.SourceCurrentQuery
	d.WantsExplanation = true
	d.NeedsReason = true
	d.Confidence = 0.98
	return d, true
}

func oldestVersion(in RuleInput, d state.Decision) (state.Decision, bool) {
	if !containsAny(in.lower(), oldestVersionPhrases) {
		return d, false
	}
	d.Route = state.RouteVersion
	d.VersionNumber = 1
	d.VersionSource = state.SourceCurrentQuery
	d.Confidence = 0.99
	return d, true
}

func rangePreservation(in RuleInput, d state.Decision) (state.Decision, bool) {
	if d.VersionRange != nil || in.Resolution.Range == nil {
		return d, false
	}
	r := *in.Resolution.Range
	d.VersionRange = &r
	return d, true
}

// singleVersionPreservation never fires when any range is known.
func singleVersionPreservation(in RuleInput, d state.Decision) (state.Decision, bool) {
	if d.VersionRange != nil || in.Resolution.Range != nil {
		return d, false
	}
	if d.VersionNumber > 0 || in.Resolution.ExplicitVersion <= 0 {
		return d, false
	}
	d.VersionNumber = in.Resolution.ExplicitVersion
	d.VersionSource = state.SourceCurrentQuery
	return d, true
}

func routeValidation(_ RuleInput, d state.Decision) (state.Decision, bool) {
	route, ok := state.ParseRoute(string(d.Route))
	if !ok {
		d.Route = state.RouteRelational
		return d, true
	}
	if route != d.Route {
		d.Route = route
		return d, true
	}
	return d, false
}

// contextualExplanation uses the effective version, so a version carried
// over from history also escalates to the hybrid route. The version number
// is left alone when a range is present.
func contextualExplanation(in RuleInput, d state.Decision) (state.Decision, bool) {
	v := in.Resolution.EffectiveVersion
	if v <= 0 || !containsAny(in.lower(), explanationKeywords) {
		return d, false
	}
	d.Route = state.RouteVersionHybrid
	d.WantsExplanation = true
	d.NeedsReason = true
	if d.VersionRange == nil && in.Resolution.Range == nil {
		d.VersionNumber = v
		d.VersionSource = in.Resolution.Source
	}
	return d, true
}

func uploaderEscalation(in RuleInput, d state.Decision) (state.Decision, bool) {
	if in.Resolution.Uploader == "" || d.Route != state.RouteDocumentSearch {
		return d, false
	}
	d.Route = state.RouteVersionHybrid
	d.HasUploaderFilter = true
	return d, true
}

func effectiveVersionFallback(in RuleInput, d state.Decision) (state.Decision, bool) {
	if d.VersionNumber > 0 || d.VersionRange != nil || in.Resolution.Range != nil {
		return d, false
	}
	if in.Resolution.EffectiveVersion <= 0 {
		return d, false
	}
	d.VersionNumber = in.Resolution.EffectiveVersion
	d.VersionSource = in.Resolution.Source
	return d, true
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
