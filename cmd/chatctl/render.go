package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"hcp-chatbot-be/pkg/rag/state"

	"github.com/fatih/color"
)

var routeColors = map[state.Route]*color.Color{
	state.RouteRelational:     color.New(color.FgCyan, color.Bold),
	state.RouteVersion:        color.New(color.FgGreen, color.Bold),
	state.RouteVersionHybrid:  color.New(color.FgMagenta, color.Bold),
	state.RouteDocumentSearch: color.New(color.FgBlue, color.Bold),
	state.RouteInvalid:        color.New(color.FgRed, color.Bold),
}

func routeLabel(r state.Route) string {
	c, ok := routeColors[r]
	if !ok {
		return string(r)
	}
	return c.Sprint(string(r))
}

// renderDecision writes a compact human summary of a routing decision.
func renderDecision(w io.Writer, d state.Decision, full bool) {
	fmt.Fprintf(w, "route:      %s\n", routeLabel(d.Route))
	fmt.Fprintf(w, "confidence: %.2f\n", d.Confidence)
	fmt.Fprintf(w, "reasoning:  %s\n", d.Reasoning)

	var extras []string
	if d.HasVersion() {
		extras = append(extras, fmt.Sprintf("version=%d (%s)", d.VersionNumber, d.VersionSource))
	}
	if d.VersionRange != nil {
		extras = append(extras, "range="+d.VersionRange.String())
	}
	if d.HasUploaderFilter {
		extras = append(extras, "uploader="+d.UploaderName)
	}
	if d.TimeFilterDays != nil {
		extras = append(extras, fmt.Sprintf("days=%d", *d.TimeFilterDays))
	}
	if len(extras) > 0 {
		fmt.Fprintf(w, "filters:    %s\n", strings.Join(extras, ", "))
	}

	if full {
		b, _ := json.MarshalIndent(d, "", "  ")
		fmt.Fprintln(w, string(b))
	}
}

func renderTurn(w io.Writer, st state.AgentState, full bool) {
	renderDecision(w, st.Decision, full)
	fmt.Fprintf(w, "results:    %d\n", st.ResultCount())
	if st.Error != "" {
		fmt.Fprintf(w, "error:      %s\n", color.RedString(st.Error))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, st.Response)
}
