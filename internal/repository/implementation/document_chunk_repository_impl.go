package implementation

import (
	"context"

	"hcp-chatbot-be/internal/entity"
	"hcp-chatbot-be/internal/mapper"
	"hcp-chatbot-be/internal/model"
	"hcp-chatbot-be/internal/repository/contract"
	"hcp-chatbot-be/internal/repository/specification"
	"hcp-chatbot-be/pkg/rag/search"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type DocumentChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DocumentChunkMapper
}

func NewDocumentChunkRepository(db *gorm.DB) contract.DocumentChunkRepository {
	return &DocumentChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewDocumentChunkMapper(),
	}
}

func (r *DocumentChunkRepositoryImpl) CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	models := make([]*model.DocumentChunk, len(chunks))
	for i, c := range chunks {
		models[i] = r.mapper.ToModel(c)
	}
	return r.db.WithContext(ctx).CreateInBatches(models, 100).Error
}

func (r *DocumentChunkRepositoryImpl) DeleteByDocId(ctx context.Context, docId string) error {
	return r.db.WithContext(ctx).Where("doc_id = ?", docId).Delete(&model.DocumentChunk{}).Error
}

// Search ranks chunks by cosine similarity (1 - cosine distance).
func (r *DocumentChunkRepositoryImpl) Search(ctx context.Context, vector []float32, topK int, filter *search.Filter) ([]search.Match, error) {
	if topK <= 0 {
		topK = 5
	}
	vec := pgvector.NewVector(vector)

	query := r.db.WithContext(ctx).
		Model(&model.DocumentChunk{}).
		Select("document_chunks.*, 1 - (embedding <=> ?) AS similarity", vec)
	if filter != nil {
		query = specification.Apply(query,
			specification.ByDocIDs{DocIDs: filter.DocIDs},
			specification.ByUploader{Name: filter.Uploader},
		)
	}

	var rows []*model.ScoredDocumentChunk
	err := query.
		Order(gorm.Expr("embedding <=> ?", vec)).
		Limit(topK).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	matches := make([]search.Match, 0, len(rows))
	for _, row := range rows {
		matches = append(matches, r.mapper.ToMatch(row))
	}
	return matches, nil
}
