package mapper

import (
	"strconv"
	"time"

	"hcp-chatbot-be/internal/entity"
	"hcp-chatbot-be/internal/model"
	"hcp-chatbot-be/pkg/rag/search"

	"github.com/pgvector/pgvector-go"
)

type DocumentChunkMapper struct{}

func NewDocumentChunkMapper() *DocumentChunkMapper {
	return &DocumentChunkMapper{}
}

func (m *DocumentChunkMapper) ToModel(e *entity.DocumentChunk) *model.DocumentChunk {
	if e == nil {
		return nil
	}
	return &model.DocumentChunk{
		Id:                e.Id,
		DocId:             e.DocId,
		ChunkIndex:        e.ChunkIndex,
		ChunkText:         e.ChunkText,
		Filename:          e.Filename,
		UploaderName:      e.UploaderName,
		SourceTable:       e.TableName,
		Action:            e.Action,
		HcpName:           e.HcpName,
		HcpEmail:          e.HcpEmail,
		ChangeDescription: e.ChangeDescription,
		UploadedAt:        e.UploadedAt,
		Embedding:         pgvector.NewVector(e.Embedding),
		CreatedAt:         e.CreatedAt,
	}
}

// ToMatch exposes a scored chunk under the shared metadata keys.
func (m *DocumentChunkMapper) ToMatch(c *model.ScoredDocumentChunk) search.Match {
	md := map[string]string{
		search.KeyDocID:        c.DocId,
		search.KeyChunkText:    c.ChunkText,
		search.KeyChunkIndex:   strconv.Itoa(c.ChunkIndex),
		search.KeyFilename:     c.Filename,
		search.KeyUploaderName: c.UploaderName,
	}
	optional := map[string]string{
		search.KeyTableName:         c.SourceTable,
		search.KeyAction:            c.Action,
		search.KeyHCPName:           c.HcpName,
		search.KeyHCPEmail:          c.HcpEmail,
		search.KeyChangeDescription: c.ChangeDescription,
	}
	for k, v := range optional {
		if v != "" {
			md[k] = v
		}
	}
	if c.UploadedAt != nil {
		md[search.KeyTimestamp] = c.UploadedAt.Format(time.RFC3339)
	}
	return search.Match{
		ID:       c.Id.String(),
		Score:    c.Similarity,
		Metadata: md,
	}
}
