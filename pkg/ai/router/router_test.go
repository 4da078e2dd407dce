package router

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"hcp-chatbot-be/internal/pkg/logger"
	"hcp-chatbot-be/pkg/rag/intent"
	"hcp-chatbot-be/pkg/rag/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClassifier struct {
	reply   string
	err     error
	calls   int
	context string
}

func (f *fakeClassifier) Classify(_ context.Context, _ string, conversationContext string) (intent.Classification, error) {
	f.calls++
	f.context = conversationContext
	if f.err != nil {
		return intent.Classification{}, f.err
	}
	return intent.ParseClassification(f.reply)
}

func newRouter(c Classifier) *Router {
	return NewRouter(c, logger.NewNopLogger())
}

func TestDecide_SingleVersion(t *testing.T) {
	fc := &fakeClassifier{reply: `{"route":"version_query","confidence":0.9,"version_number":null}`}

	d := newRouter(fc).Decide(context.Background(), "What changed in version 4?", nil)

	assert.Equal(t, state.RouteVersion, d.Route)
	assert.Equal(t, 4, d.VersionNumber)
	assert.Nil(t, d.VersionRange)
	assert.False(t, d.IsComparison)
	assert.Contains(t, fc.context, "VERSION FROM CURRENT QUERY: 4")
}

func TestDecide_Comparison(t *testing.T) {
	fc := &fakeClassifier{reply: `{"route":"version_query","confidence":0.95}`}

	d := newRouter(fc).Decide(context.Background(), "Compare version 3 and version 9", nil)

	assert.Equal(t, state.RouteVersion, d.Route)
	require.NotNil(t, d.VersionRange)
	assert.Equal(t, state.VersionRange{From: 3, To: 9}, *d.VersionRange)
	assert.True(t, d.IsComparison)
	assert.Equal(t, 0, d.VersionNumber)
}

func TestDecide_HistoryCarryOverExplanation(t *testing.T) {
	fc := &fakeClassifier{reply: `{"route":"version_query","confidence":0.7}`}
	turns := []state.Turn{{Query: "what changed in version 11", Route: state.RouteVersion}}

	d := newRouter(fc).Decide(context.Background(), "give detailed reason for this version", turns)

	assert.Equal(t, state.RouteVersionHybrid, d.Route)
	assert.Equal(t, 11, d.VersionNumber)
	assert.Equal(t, state.SourceHistory, d.VersionSource)
	assert.True(t, d.WantsExplanation)
	assert.Contains(t, fc.context, "VERSION FROM CONVERSATION HISTORY: 11")
	assert.Contains(t, fc.context, "[Version 11] what changed in version 11...")
}

func TestDecide_RawSQLShortcutSkipsClassifier(t *testing.T) {
	fc := &fakeClassifier{reply: `{"route":"semantic_search"}`}

	d := newRouter(fc).Decide(context.Background(), "SELECT * FROM target_list LIMIT 5", nil)

	assert.Equal(t, state.RouteRelational, d.Route)
	assert.Equal(t, 0, fc.calls)
	assert.Equal(t, 1.0, d.Confidence)
}

func TestDecide_HistoryShortcutKeepsRange(t *testing.T) {
	fc := &fakeClassifier{}

	d := newRouter(fc).Decide(context.Background(), "history between version 2 and version 4", nil)

	assert.Equal(t, state.RouteRelational, d.Route)
	require.NotNil(t, d.VersionRange)
	assert.Equal(t, 0, d.VersionNumber)
	assert.Equal(t, 0, fc.calls)
}

func TestDecide_DocumentSearch(t *testing.T) {
	fc := &fakeClassifier{reply: `{"route":"semantic_search","confidence":0.9}`}

	d := newRouter(fc).Decide(context.Background(), "search documents for quarterly report", nil)

	assert.Equal(t, state.RouteDocumentSearch, d.Route)
	assert.Empty(t, d.UploaderName)
}

func TestDecide_UploaderEscalation(t *testing.T) {
	fc := &fakeClassifier{reply: `{"route":"semantic_search","confidence":0.9}`}

	d := newRouter(fc).Decide(context.Background(), "documents uploaded by kavya", nil)

	assert.Equal(t, state.RouteVersionHybrid, d.Route)
	assert.True(t, d.HasUploaderFilter)
	assert.Equal(t, "kavya", d.UploaderName)
}

func TestDecide_ClassifierFailure(t *testing.T) {
	fc := &fakeClassifier{err: fmt.Errorf("%w: timeout", state.ErrClassificationParse)}

	d := newRouter(fc).Decide(context.Background(), "why did version 5 change", nil)

	assert.Equal(t, state.RouteInvalid, d.Route)
	assert.Equal(t, 0.0, d.Confidence)
	assert.Contains(t, d.Reasoning, "timeout")
}

func TestDecide_TimeFilterCarried(t *testing.T) {
	fc := &fakeClassifier{reply: `{"route":"database_only","confidence":0.8}`}

	d := newRouter(fc).Decide(context.Background(), "doctors contacted last week", nil)

	require.NotNil(t, d.TimeFilterDays)
	assert.Equal(t, 7, *d.TimeFilterDays)
}

func TestDecide_RouteAlwaysCanonical(t *testing.T) {
	replies := []string{
		`{"route":"database_only"}`,
		`{"route":"VERSION_HYBRID","confidence":7}`,
		`{"route":"hybrid"}`,
		`{"route":"graph_query","confidence":-1}`,
		`{"route":""}`,
		`{"route":"invalid"}`,
		`not json`,
	}
	queries := []string{
		"list cardiologists in delhi",
		"why did version 3 change",
		"compare v 1 to v 2",
		"documents by john",
		"show the oldest version",
		"select 1",
		"",
	}

	for _, reply := range replies {
		for _, q := range queries {
			t.Run(reply+"|"+q, func(t *testing.T) {
				d := newRouter(&fakeClassifier{reply: reply}).Decide(context.Background(), q, nil)

				assert.True(t, d.Route.IsValid(), "route %q", d.Route)
				assert.GreaterOrEqual(t, d.Confidence, 0.0)
				assert.LessOrEqual(t, d.Confidence, 1.0)
				if d.VersionRange != nil {
					assert.True(t, d.IsComparison)
				}
			})
		}
	}
}

func TestRoute_SetsDecisionOnState(t *testing.T) {
	fc := &fakeClassifier{err: errors.New("down")}
	s := state.New("hello", nil)

	next := newRouter(fc).Route(context.Background(), s)

	assert.Equal(t, state.RouteInvalid, next.Decision.Route)
	assert.Equal(t, "hello", next.Query)
	assert.Empty(t, s.Decision.Route)
}
