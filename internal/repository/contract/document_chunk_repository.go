package contract

import (
	"context"

	"hcp-chatbot-be/internal/entity"
	"hcp-chatbot-be/pkg/rag/search"
)

// DocumentChunkRepository stores embedded document chunks and serves
// similarity queries over them.
type DocumentChunkRepository interface {
	search.VectorSearcher
	CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error
	DeleteByDocId(ctx context.Context, docId string) error
}
