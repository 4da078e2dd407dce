package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"hcp-chatbot-be/internal/dto"
	"hcp-chatbot-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingEmbedder struct {
	calls int
	err   error
}

func (e *countingEmbedder) Embed(context.Context, string) ([]float32, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	return []float32{0.1, 0.2}, nil
}

func TestIngestService_ReplacesChunks(t *testing.T) {
	factory := newFakeFactory()
	embedder := &countingEmbedder{}
	svc := NewIngestService(factory, embedder, logger.NewNopLogger())

	res, err := svc.IngestDocument(context.Background(), &dto.IngestDocumentRequest{
		DocId:        "doc-7",
		Content:      strings.Repeat("a", 3000),
		Filename:     "v7.pdf",
		UploaderName: "Dana",
	})
	require.NoError(t, err)

	// 3000 runes in 1500-rune windows stepping by 1300
	assert.Equal(t, 3, res.Chunks)
	assert.Equal(t, 3, embedder.calls)
	assert.Equal(t, []string{"doc-7"}, factory.uow.chunks.deleted)
	require.Len(t, factory.uow.chunks.stored, 3)
	assert.Equal(t, 2, factory.uow.chunks.stored[2].ChunkIndex)
	assert.Equal(t, "Dana", factory.uow.chunks.stored[0].UploaderName)
	assert.True(t, factory.uow.committed)
	assert.False(t, factory.uow.rolledBack)
}

func TestIngestService_Failures(t *testing.T) {
	t.Run("empty content", func(t *testing.T) {
		svc := NewIngestService(newFakeFactory(), &countingEmbedder{}, logger.NewNopLogger())
		_, err := svc.IngestDocument(context.Background(), &dto.IngestDocumentRequest{DocId: "d", Content: "  "})
		assert.Error(t, err)
	})

	t.Run("embedding failure touches nothing", func(t *testing.T) {
		factory := newFakeFactory()
		svc := NewIngestService(factory, &countingEmbedder{err: errors.New("down")}, logger.NewNopLogger())
		_, err := svc.IngestDocument(context.Background(), &dto.IngestDocumentRequest{DocId: "d", Content: "text"})
		assert.ErrorContains(t, err, "embed chunk 0")
		assert.False(t, factory.uow.began)
	})

	t.Run("store failure rolls back", func(t *testing.T) {
		factory := newFakeFactory()
		factory.uow.chunks.err = errors.New("disk full")
		svc := NewIngestService(factory, &countingEmbedder{}, logger.NewNopLogger())
		_, err := svc.IngestDocument(context.Background(), &dto.IngestDocumentRequest{DocId: "d", Content: "text"})
		assert.ErrorContains(t, err, "store chunks")
		assert.True(t, factory.uow.rolledBack)
	})
}
