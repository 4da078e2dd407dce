package response

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"hcp-chatbot-be/internal/pkg/logger"
	"hcp-chatbot-be/pkg/llm"
	"hcp-chatbot-be/pkg/rag/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLLM struct {
	reply   string
	err     error
	prompts []string
}

func (s *stubLLM) Chat(ctx context.Context, h []llm.Message, opts ...llm.Option) (string, error) {
	return s.Generate(ctx, h[len(h)-1].Content, opts...)
}

func (s *stubLLM) Generate(_ context.Context, p string, _ ...llm.Option) (string, error) {
	s.prompts = append(s.prompts, p)
	return s.reply, s.err
}

func summarize(gen llm.LLMProvider, s state.AgentState) string {
	return NewSummarizer(gen, logger.NewNopLogger(), time.Second).Summarize(context.Background(), s).Response
}

func withRoute(route state.Route) state.AgentState {
	return state.New("query", nil).WithDecision(state.Decision{Route: route, Reasoning: "unclear"})
}

func TestSummarize_Priority(t *testing.T) {
	t.Run("error template", func(t *testing.T) {
		s := withRoute(state.RouteVersion).WithFailure(errors.New("version 42 not found"))
		assert.Equal(t, "❌ Error: version 42 not found\n\nPlease try rephrasing your query.", summarize(nil, s))
	})

	t.Run("no results", func(t *testing.T) {
		s := withRoute(state.RouteDocumentSearch).WithResult(state.DocumentSearchResult(nil))
		assert.Equal(t, NoResultsMessage, summarize(nil, s))
	})

	t.Run("hybrid without documents counts as empty", func(t *testing.T) {
		s := withRoute(state.RouteVersionHybrid).WithResult(state.NewHybridResult([]state.VersionRecord{{VersionNumber: 5}}, nil))
		assert.Equal(t, NoResultsMessage, summarize(nil, s))
	})
}

func TestSummarize_Invalid(t *testing.T) {
	t.Run("generated suggestion is stripped", func(t *testing.T) {
		gen := &stubLLM{reply: "**Sorry!** Try asking about version 4."}
		out := summarize(gen, withRoute(state.RouteInvalid))
		assert.Equal(t, "Sorry! Try asking about version 4.", out)
		require.Len(t, gen.prompts, 1)
		assert.Contains(t, gen.prompts[0], "unclear")
	})

	t.Run("static help on failure", func(t *testing.T) {
		out := summarize(&stubLLM{err: errors.New("offline")}, withRoute(state.RouteInvalid))
		assert.Equal(t, StaticHelpMessage, out)
	})

	t.Run("static help without a generator", func(t *testing.T) {
		assert.Equal(t, StaticHelpMessage, summarize(nil, withRoute(state.RouteInvalid)))
	})
}

func TestSummarize_Relational(t *testing.T) {
	rows := []map[string]any{
		{"full_name": "Dr. Rohan Mehta", "city": "Delhi", "total_calls": 12},
		{"hcp_name": "Dr. Asha Rao", "city": "Pune"},
		{"city": "Goa"},
	}

	t.Run("narrative plus detail listing", func(t *testing.T) {
		gen := &stubLLM{reply: "Three doctors __matched__."}
		out := summarize(gen, withRoute(state.RouteRelational).WithResult(state.RelationalResult(rows)))

		assert.True(t, strings.HasPrefix(out, "📊 SUMMARY\n"+rule+"\nThree doctors matched.\n\n\n📋 DETAILED RECORDS"))
		assert.Contains(t, out, "Total: 3 record(s)\n")
		assert.Contains(t, out, "#1 — Dr. Rohan Mehta\n   • City: Delhi\n   • Total Calls: 12\n")
		assert.Contains(t, out, "#2 — Dr. Asha Rao\n")
		assert.Contains(t, out, "#3 — Record 3\n")
	})

	t.Run("fallback summary on generation failure", func(t *testing.T) {
		out := summarize(&stubLLM{err: errors.New("timeout")}, withRoute(state.RouteRelational).WithResult(state.RelationalResult(rows)))
		assert.Contains(t, out, "Found 3 records matching your query. | Top results: Dr. Rohan Mehta, Dr. Asha Rao | Total Calls: 12")
	})
}

func TestFallbackSummary(t *testing.T) {
	assert.Equal(t, "No records found.", FallbackSummary(nil, 0))
	assert.Equal(t, "Found 1 record matching your query.", FallbackSummary([]map[string]any{{"city": "Delhi"}}, 1))

	var rows []map[string]any
	for _, n := range []string{"A", "B", "C", "D", "E", "F"} {
		rows = append(rows, map[string]any{"name": n, "sales_count": 0})
	}
	assert.Equal(t, "Found 6 records matching your query. | Top results include: A, B, C, and 2 more", FallbackSummary(rows, 6))
}

func TestFormatComparison(t *testing.T) {
	out := FormatComparison(state.VersionComparison{
		V1Version: 3, V1TotalRows: 1200,
		V2Version: 5, V2TotalRows: 1150, V2ChangedRows: 50, V2Operation: "DELETE",
		RowDifference: -50, TriggeredBy: "john",
		Timestamp: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Filename:  "cleanup.pdf",
	})

	assert.Contains(t, out, "📊 VERSION COMPARISON")
	assert.Contains(t, out, "From Version 3 → To Version 5")
	assert.Contains(t, out, "  Before: 1,200\n  After:  1,150\n  Change: -50\n")
	assert.Contains(t, out, "CHANGES IN VERSION 5:\n  Operation: DELETE\n  Changed Rows: 50\n")
	assert.Contains(t, out, "Timestamp: 2024-03-01 10:00:00")
	assert.Contains(t, out, "REASON:\nNot specified")
	assert.Contains(t, out, "📄 Document: cleanup.pdf")
}

func TestFormatVersion(t *testing.T) {
	out := FormatVersion(state.VersionRecord{VersionNumber: 4, TableName: "target_list", TotalRows: 2500, Reason: "Quarterly refresh", NumChunks: 3, Filename: "q1.xlsx"})

	assert.Contains(t, out, "📜 VERSION 4 DETAILS")
	assert.Contains(t, out, "TABLE: target_list")
	assert.Contains(t, out, "Total Rows: 2,500")
	assert.Contains(t, out, "Timestamp: N/A")
	assert.Contains(t, out, "REASON:\nQuarterly refresh")
	assert.Contains(t, out, "   Chunks: 3")
	assert.NotContains(t, FormatVersion(state.VersionRecord{VersionNumber: 1}), "Document:")
}

func TestFormatHybrid(t *testing.T) {
	long := strings.Repeat("x", 900)
	docs := []state.DocumentMatch{
		{Filename: "a.pdf", Uploader: "john", Action: "remove", HCPName: "Dr. Rao", Chunks: []state.ScoredChunk{{Text: "low", Similarity: 0.4}, {Text: long, Similarity: 0.87}}},
		{Chunks: []state.ScoredChunk{{Text: "b", Similarity: 0.5}}},
		{Filename: "c.pdf"},
		{Filename: "d.pdf"},
	}
	out := FormatHybrid(&state.HybridResult{
		VersionMetadata: []state.VersionRecord{{VersionNumber: 5, ChangedRows: 1500, Reason: "cleanup"}},
		Documents:       docs,
		TotalMatches:    len(docs),
	})

	assert.Contains(t, out, "📜 VERSION 5 - DETAILED BREAKDOWN\n")
	assert.Contains(t, out, "  • Changed Rows: 1,500")
	assert.Contains(t, out, "📁 SUPPORTING DOCUMENTS (4 found):\n")
	assert.Contains(t, out, "1. a.pdf\n   Uploaded By: john | Action: remove\n   Subject: Dr. Rao\n   Match [87%]: "+strings.Repeat("x", 800)+"...")
	assert.Contains(t, out, "2. Unknown\n   Uploaded By: Unknown | Action: N/A\n")
	assert.NotContains(t, out, "d.pdf")

	empty := FormatHybrid(&state.HybridResult{VersionMetadata: []state.VersionRecord{{VersionNumber: 5}}})
	assert.Contains(t, empty, "📁 No supporting documents found.")
}

func TestFormatDocuments(t *testing.T) {
	var docs []state.DocumentMatch
	for i := 0; i < 6; i++ {
		docs = append(docs, state.DocumentMatch{
			Filename:      "doc.pdf",
			AvgSimilarity: 0.756,
			Chunks: []state.ScoredChunk{
				{Text: "one", Similarity: 0.8},
				{Text: "two", Similarity: 0.7},
				{Text: "three", Similarity: 0.6},
			},
		})
	}
	docs[0].Action = "add"

	out := FormatDocuments(docs)

	assert.True(t, strings.HasPrefix(out, "🔍 FOUND 6 DOCUMENTS\n"))
	assert.Contains(t, out, "1. 📄 doc.pdf (76% match)\n   Uploaded by: Unknown\n   Action: add\n   [80%] one...\n   [70%] two...")
	assert.NotContains(t, out, "three")
	assert.NotContains(t, out, "6. 📄")
	assert.Contains(t, out, "5. 📄")
}

func TestFormatDocuments_RoundsSimilarity(t *testing.T) {
	docs := []state.DocumentMatch{{
		Filename:      "q.pdf",
		AvgSimilarity: 0.29,
		Chunks:        []state.ScoredChunk{{Text: "x", Similarity: 0.878}},
	}}

	out := FormatDocuments(docs)

	assert.Contains(t, out, "1. 📄 q.pdf (29% match)")
	assert.Contains(t, out, "[88%] x...")
}

func TestFormatHybrid_RoundsBestChunk(t *testing.T) {
	h := &state.HybridResult{
		VersionMetadata: []state.VersionRecord{{VersionNumber: 3}},
		Documents:       []state.DocumentMatch{{Filename: "r.pdf", Chunks: []state.ScoredChunk{{Text: "y", Similarity: 0.646}}}},
	}

	assert.Contains(t, FormatHybrid(h), "Match [65%]: y...")
}
