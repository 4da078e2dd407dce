package mapper

import (
	"testing"
	"time"

	"hcp-chatbot-be/internal/entity"
	"hcp-chatbot-be/internal/model"
	"hcp-chatbot-be/pkg/rag/search"
	"hcp-chatbot-be/pkg/rag/state"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestHistoryMapper(t *testing.T) {
	m := NewHistoryMapper()
	r := m.ToVersionRecord(&model.HistoryEntry{
		VersionId: 9, VersionNumber: 4, SourceTable: "target_list",
		Reason: ptr("refresh"), DocId: ptr("d1"), NumChunks: ptr(3),
	})

	assert.Equal(t, int64(9), r.VersionID)
	assert.Equal(t, "target_list", r.TableName)
	assert.Equal(t, "refresh", r.Reason)
	assert.Equal(t, "d1", r.DocID)
	assert.Equal(t, 3, r.NumChunks)
	assert.Empty(t, r.Filename)

	c := m.ToComparison(&model.VersionComparisonRow{V1Version: 3, V2Version: 5, RowDifference: -4})
	assert.Equal(t, -4, c.RowDifference)
	assert.Empty(t, c.TriggeredBy)
}

func TestDocumentChunkMapper_ToMatch(t *testing.T) {
	id := uuid.New()
	at := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	match := NewDocumentChunkMapper().ToMatch(&model.ScoredDocumentChunk{
		DocumentChunk: model.DocumentChunk{Id: id, DocId: "d1", ChunkIndex: 2, ChunkText: "text", Action: "remove", UploadedAt: &at},
		Similarity:    0.8,
	})

	assert.Equal(t, id.String(), match.ID)
	assert.Equal(t, 0.8, match.Score)
	assert.Equal(t, "2", match.Metadata[search.KeyChunkIndex])
	assert.Equal(t, "remove", match.Metadata[search.KeyAction])
	assert.Equal(t, "2024-02-01T00:00:00Z", match.Metadata[search.KeyTimestamp])
	assert.NotContains(t, match.Metadata, search.KeyHCPName)
}

func TestChatTurnLogMapper_RoundTrip(t *testing.T) {
	m := NewChatTurnLogMapper()
	in := &entity.ChatTurnLog{
		Id:        uuid.New(),
		SessionId: "s1",
		Query:     "compare version 3 and 5",
		Decision: state.Decision{
			Route:        state.RouteVersion,
			Confidence:   0.9,
			VersionRange: &state.VersionRange{From: 3, To: 5},
			IsComparison: true,
		},
		Error: "could not compare versions 3 and 5",
	}

	row, err := m.ToModel(in)
	require.NoError(t, err)
	assert.Equal(t, "version_query", row.Route)
	require.NotNil(t, row.Error)

	out := m.ToEntity(row)
	assert.Equal(t, in.Decision, out.Decision)
	assert.Equal(t, in.Error, out.Error)
}
