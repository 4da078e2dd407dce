package intent

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"hcp-chatbot-be/pkg/rag/prompt"
	"hcp-chatbot-be/pkg/rag/state"
)

// Classification is the structured output contract of the classifier model.
type Classification struct {
	Route             string    `json:"route"`
	Reasoning         string    `json:"reasoning"`
	Confidence        float64   `json:"confidence"`
	VersionNumber     flexInt   `json:"version_number"`
	VersionRange      []flexInt `json:"version_range"`
	WantsExplanation  bool      `json:"wants_explanation"`
	NeedsReason       bool      `json:"needs_reason"`
	HasUploaderFilter bool      `json:"has_uploader_filter"`
	SuggestedMessage  *string   `json:"suggested_message"`
}

// flexInt accepts a JSON number, a numeric string or null. Models are not
// consistent about quoting numbers.
type flexInt struct {
	Value int
	Set   bool
}

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = flexInt{}
		return nil
	}
	raw := strings.Trim(string(data), `"`)
	if raw == "" {
		*f = flexInt{}
		return nil
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("not a number: %s", string(data))
	}
	*f = flexInt{Value: int(n), Set: true}
	return nil
}

// ParseClassification strips formatting fences and decodes the first JSON
// object found in raw.
func ParseClassification(raw string) (Classification, error) {
	body := extractJSON(prompt.StripFences(raw))
	if body == "" {
		return Classification{}, state.Errorf(state.ErrClassificationParse, "no JSON object in classifier output")
	}

	var c Classification
	if err := json.Unmarshal([]byte(body), &c); err != nil {
		return Classification{}, state.Errorf(state.ErrClassificationParse, "%v", err)
	}
	return c, nil
}

// Decision converts the raw classification into a decision. The route is
// normalized for case only; canonical validation is a separate rule.
func (c Classification) Decision() state.Decision {
	d := state.Decision{
		Route:             state.Route(strings.ToLower(strings.TrimSpace(c.Route))),
		Reasoning:         c.Reasoning,
		Confidence:        c.Confidence,
		WantsExplanation:  c.WantsExplanation,
		NeedsReason:       c.NeedsReason,
		HasUploaderFilter: c.HasUploaderFilter,
	}
	if d.Route == "" {
		d.Route = state.RouteInvalid
	}
	if c.VersionNumber.Set && c.VersionNumber.Value > 0 {
		d.VersionNumber = c.VersionNumber.Value
		d.VersionSource = state.SourceClassifier
	}
	if len(c.VersionRange) >= 2 && c.VersionRange[0].Set && c.VersionRange[1].Set {
		d.VersionRange = &state.VersionRange{From: c.VersionRange[0].Value, To: c.VersionRange[1].Value}
	}
	if c.SuggestedMessage != nil {
		d.SuggestedMessage = *c.SuggestedMessage
	}
	return d
}

// FailedDecision is the decision used when classification could not run or
// its output could not be parsed.
func FailedDecision(err error) state.Decision {
	reason := "classification failed"
	if err != nil {
		reason = err.Error()
	}
	return state.Decision{
		Route:            state.RouteInvalid,
		Reasoning:        reason,
		Confidence:       0,
		SuggestedMessage: "Classification failed.",
	}
}

func extractJSON(response string) string {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}

	return response[startIdx : endIdx+1]
}
