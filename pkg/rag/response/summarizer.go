// Package response renders the final answer for a turn from its execution
// result.
package response

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"hcp-chatbot-be/internal/pkg/logger"
	"hcp-chatbot-be/pkg/llm"
	"hcp-chatbot-be/pkg/rag/prompt"
	"hcp-chatbot-be/pkg/rag/state"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const logModule = "SUMMARIZER"

const (
	narrativeSampleRows = 20
	fallbackNameRows    = 5
	hybridDocLimit      = 3
	hybridChunkChars    = 800
	searchDocLimit      = 5
	searchChunkLimit    = 2
	searchChunkChars    = 750
	timestampLayout     = "2006-01-02 15:04:05"
)

const (
	NoResultsMessage = "❌ No results found. Please try rephrasing your query."

	StaticHelpMessage = `I couldn't understand your query.

Try asking me things like:
- "Show me all HCPs in target list"
- "What changed in version 4?"
- "Compare version 3 and 5"
- "Why did version 5 change?" (with document context)
- "Search documents for quarterly"

Please rephrase and try again!`
)

var (
	rule        = strings.Repeat("─", 50)
	titleCaser  = cases.Title(language.English)
	numberPrint = message.NewPrinter(language.English)
	metricHints = []string{"count", "total", "sales", "frequency", "calls"}
	titleKeys   = []string{"full_name", "hcp_name", "name"}
)

// ErrorMessage is the canonical template for a failed strategy.
func ErrorMessage(err string) string {
	return fmt.Sprintf("❌ Error: %s\n\nPlease try rephrasing your query.", err)
}

type Summarizer struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
	timeout     time.Duration
}

func NewSummarizer(llmProvider llm.LLMProvider, log logger.ILogger, timeout time.Duration) *Summarizer {
	return &Summarizer{llmProvider: llmProvider, logger: log, timeout: timeout}
}

// Summarize sets the response on the state. It never fails: generation
// errors fall back to deterministic text.
func (s *Summarizer) Summarize(ctx context.Context, st state.AgentState) state.AgentState {
	route := st.Decision.Route
	s.logger.Debug(logModule, "Summarizing turn", map[string]interface{}{
		"route":   route.String(),
		"results": st.ResultCount(),
		"error":   st.Error,
	})

	if route == state.RouteInvalid {
		return st.WithResponse(s.suggest(ctx, st))
	}
	if st.Error != "" {
		return st.WithResponse(ErrorMessage(st.Error))
	}
	if st.ResultCount() == 0 {
		return st.WithResponse(NoResultsMessage)
	}

	r := st.Result
	switch route {
	case state.RouteRelational:
		return st.WithResponse(s.relational(ctx, st.Query, r.Rows))
	case state.RouteVersion:
		if r.IsComparison {
			return st.WithResponse(FormatComparison(r.Comparisons[0]))
		}
		return st.WithResponse(FormatVersion(r.Versions[0]))
	case state.RouteVersionHybrid:
		return st.WithResponse(FormatHybrid(r.Hybrid))
	case state.RouteDocumentSearch:
		return st.WithResponse(FormatDocuments(r.Documents))
	default:
		return st.WithResponse(fmt.Sprintf("Unknown route: %s. Please try rephrasing.", route))
	}
}

func (s *Summarizer) suggest(ctx context.Context, st state.AgentState) string {
	if s.llmProvider == nil {
		return StaticHelpMessage
	}
	gctx, cancel := s.withTimeout(ctx)
	defer cancel()

	text, err := s.llmProvider.Generate(gctx, prompt.Suggestion(st.Query, st.Decision.Reasoning))
	if err != nil {
		s.logger.Warn(logModule, "Suggestion generation failed, using static help", map[string]interface{}{"error": err.Error()})
		return StaticHelpMessage
	}
	text = prompt.StripMarkdown(text)
	if text == "" {
		return StaticHelpMessage
	}
	return text
}

func (s *Summarizer) relational(ctx context.Context, query string, rows []map[string]any) string {
	summary := s.narrate(ctx, query, rows)

	lines := []string{
		"📊 SUMMARY",
		rule,
		summary,
		"",
		"",
		"📋 DETAILED RECORDS",
		rule,
		fmt.Sprintf("Total: %d record(s)\n", len(rows)),
	}
	for i, row := range rows {
		title := recordTitle(row)
		if title == "" {
			title = fmt.Sprintf("Record %d", i+1)
		}
		lines = append(lines, fmt.Sprintf("#%d — %s", i+1, title))
		for _, k := range sortedKeys(row) {
			if isTitleKey(k) {
				continue
			}
			lines = append(lines, fmt.Sprintf("   • %s: %v", titleKey(k), row[k]))
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (s *Summarizer) narrate(ctx context.Context, query string, rows []map[string]any) string {
	if s.llmProvider == nil {
		return FallbackSummary(rows, len(rows))
	}

	sample := rows
	if len(sample) > narrativeSampleRows {
		sample = sample[:narrativeSampleRows]
	}
	data, err := json.MarshalIndent(sample, "", "  ")
	if err != nil {
		return FallbackSummary(rows, len(rows))
	}

	gctx, cancel := s.withTimeout(ctx)
	defer cancel()

	text, err := s.llmProvider.Generate(gctx, prompt.RelationalSummary(query, len(rows), string(data)))
	if err != nil || strings.TrimSpace(text) == "" {
		fields := map[string]interface{}{"rows": len(rows)}
		if err != nil {
			fields["error"] = err.Error()
		}
		s.logger.Warn(logModule, "Narrative generation failed, using fallback summary", fields)
		return FallbackSummary(rows, len(rows))
	}
	return prompt.StripMarkdown(text)
}

func (s *Summarizer) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// FallbackSummary describes rows without the generation service.
func FallbackSummary(rows []map[string]any, total int) string {
	if len(rows) == 0 {
		return "No records found."
	}

	var parts []string
	if total == 1 {
		parts = append(parts, "Found 1 record matching your query.")
	} else {
		parts = append(parts, fmt.Sprintf("Found %d records matching your query.", total))
	}

	var names []string
	for i, row := range rows {
		if i == fallbackNameRows {
			break
		}
		if n := recordTitle(row); n != "" {
			names = append(names, n)
		}
	}
	switch {
	case len(names) == 0:
	case len(names) <= 3:
		parts = append(parts, "Top results: "+strings.Join(names, ", "))
	default:
		parts = append(parts, fmt.Sprintf("Top results include: %s, and %d more", strings.Join(names[:3], ", "), len(names)-3))
	}

	first := rows[0]
	for _, k := range sortedKeys(first) {
		if !hasMetricHint(k) || isZero(first[k]) {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %v", titleKey(k), first[k]))
	}
	return strings.Join(parts, " | ")
}

func FormatComparison(c state.VersionComparison) string {
	var b strings.Builder
	b.WriteString("\n📊 VERSION COMPARISON\n\n")
	fmt.Fprintf(&b, "From Version %d → To Version %d\n\n", c.V1Version, c.V2Version)
	b.WriteString("ROWS:\n")
	fmt.Fprintf(&b, "  Before: %s\n", number(c.V1TotalRows))
	fmt.Fprintf(&b, "  After:  %s\n", number(c.V2TotalRows))
	fmt.Fprintf(&b, "  Change: %s\n\n", numberPrint.Sprintf("%+d", c.RowDifference))
	fmt.Fprintf(&b, "CHANGES IN VERSION %d:\n", c.V2Version)
	fmt.Fprintf(&b, "  Operation: %s\n", c.V2Operation)
	fmt.Fprintf(&b, "  Changed Rows: %d\n", c.V2ChangedRows)
	fmt.Fprintf(&b, "  Triggered By: %s\n", c.TriggeredBy)
	fmt.Fprintf(&b, "  Timestamp: %s\n\n", timestamp(c.Timestamp))
	b.WriteString("REASON:\n")
	b.WriteString(reason(c.Reason))
	b.WriteString("\n\n")
	if c.Filename != "" {
		fmt.Fprintf(&b, "📄 Document: %s", c.Filename)
	}
	b.WriteString("\n")
	return b.String()
}

func FormatVersion(v state.VersionRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n📜 VERSION %d DETAILS\n\n", v.VersionNumber)
	fmt.Fprintf(&b, "TABLE: %s\n\n", v.TableName)
	b.WriteString("STATISTICS:\n")
	fmt.Fprintf(&b, "  Total Rows: %s\n", number(v.TotalRows))
	fmt.Fprintf(&b, "  Changed Rows: %s\n", number(v.ChangedRows))
	fmt.Fprintf(&b, "  Operation: %s\n\n", v.OperationType)
	b.WriteString("INFO:\n")
	fmt.Fprintf(&b, "  Triggered By: %s\n", v.TriggeredBy)
	fmt.Fprintf(&b, "  Timestamp: %s\n\n", timestamp(v.Timestamp))
	b.WriteString("REASON:\n")
	b.WriteString(reason(v.Reason))
	b.WriteString("\n\n")
	if v.Filename != "" {
		fmt.Fprintf(&b, "📄 Document: %s", v.Filename)
	}
	b.WriteString("\n")
	if v.NumChunks > 0 {
		fmt.Fprintf(&b, "   Chunks: %d", v.NumChunks)
	}
	b.WriteString("\n")
	return b.String()
}

func FormatHybrid(h *state.HybridResult) string {
	if h == nil {
		return "Error formatting hybrid results."
	}

	var lines []string
	if len(h.VersionMetadata) > 0 {
		v := h.VersionMetadata[0]
		lines = append(lines,
			fmt.Sprintf("📜 VERSION %d - DETAILED BREAKDOWN\n", v.VersionNumber),
			"WHAT CHANGED:",
			"  • Total Rows: "+number(v.TotalRows),
			"  • Changed Rows: "+number(v.ChangedRows),
			"  • Operation: "+v.OperationType,
			"  • Triggered By: "+v.TriggeredBy,
			"  • When: "+timestamp(v.Timestamp)+"\n",
			"REASON:",
			reason(v.Reason),
			"",
		)
	}

	if len(h.Documents) == 0 {
		lines = append(lines, "📁 No supporting documents found.")
		return strings.Join(lines, "\n")
	}

	lines = append(lines, fmt.Sprintf("📁 SUPPORTING DOCUMENTS (%d found):\n", len(h.Documents)))
	for i, d := range h.Documents {
		if i == hybridDocLimit {
			break
		}
		lines = append(lines,
			fmt.Sprintf("%d. %s", i+1, orDefault(d.Filename, "Unknown")),
			fmt.Sprintf("   Uploaded By: %s | Action: %s", orDefault(d.Uploader, "Unknown"), orDefault(d.Action, "N/A")),
		)
		if d.HCPName != "" {
			lines = append(lines, "   Subject: "+d.HCPName)
		}
		if best, ok := d.BestChunk(); ok {
			lines = append(lines, fmt.Sprintf("   Match [%d%%]: %s...", percent(best.Similarity), truncate(best.Text, hybridChunkChars)))
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func FormatDocuments(docs []state.DocumentMatch) string {
	lines := []string{fmt.Sprintf("🔍 FOUND %d DOCUMENTS\n", len(docs))}
	for i, d := range docs {
		if i == searchDocLimit {
			break
		}
		lines = append(lines,
			fmt.Sprintf("%d. 📄 %s (%d%% match)", i+1, orDefault(d.Filename, "Unknown"), percent(d.AvgSimilarity)),
			"   Uploaded by: "+orDefault(d.Uploader, "Unknown"),
		)
		if d.Action != "" {
			lines = append(lines, "   Action: "+d.Action)
		}
		if d.HCPName != "" {
			lines = append(lines, "   Subject: "+d.HCPName)
		}
		for j, c := range d.Chunks {
			if j == searchChunkLimit {
				break
			}
			lines = append(lines, fmt.Sprintf("   [%d%%] %s...", percent(c.Similarity), truncate(c.Text, searchChunkChars)))
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func recordTitle(row map[string]any) string {
	for _, k := range titleKeys {
		if v, ok := row[k]; ok && !isZero(v) {
			return fmt.Sprint(v)
		}
	}
	return ""
}

func isTitleKey(k string) bool {
	lk := strings.ToLower(k)
	for _, t := range titleKeys {
		if lk == t {
			return true
		}
	}
	return false
}

func hasMetricHint(k string) bool {
	lk := strings.ToLower(k)
	for _, h := range metricHints {
		if strings.Contains(lk, h) {
			return true
		}
	}
	return false
}

func isZero(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case bool:
		return !x
	case int:
		return x == 0
	case int32:
		return x == 0
	case int64:
		return x == 0
	case float32:
		return x == 0
	case float64:
		return x == 0
	default:
		return false
	}
}

// sortedKeys gives record fields a stable order since maps have none.
func sortedKeys(row map[string]any) []string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func titleKey(k string) string {
	return titleCaser.String(strings.ReplaceAll(k, "_", " "))
}

func number(n int) string {
	return numberPrint.Sprintf("%d", n)
}

func percent(similarity float64) int {
	return int(math.Round(similarity * 100))
}

func timestamp(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format(timestampLayout)
}

func reason(r string) string {
	return orDefault(r, "Not specified")
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
