package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hcp-chatbot-be/internal/dto"
	"hcp-chatbot-be/internal/entity"
	"hcp-chatbot-be/internal/pkg/logger"
	"hcp-chatbot-be/internal/repository/unitofwork"
	"hcp-chatbot-be/pkg/embedding"
	"hcp-chatbot-be/pkg/utils"

	"github.com/google/uuid"
)

const (
	ingestLogModule = "INGEST"

	chunkSize    = 1500
	chunkOverlap = 200
)

type IIngestService interface {
	IngestDocument(ctx context.Context, req *dto.IngestDocumentRequest) (*dto.IngestDocumentResponse, error)
}

type ingestService struct {
	uowFactory unitofwork.RepositoryFactory
	embedder   embedding.EmbeddingProvider
	logger     logger.ILogger
}

func NewIngestService(uowFactory unitofwork.RepositoryFactory, embedder embedding.EmbeddingProvider, log logger.ILogger) IIngestService {
	return &ingestService{
		uowFactory: uowFactory,
		embedder:   embedder,
		logger:     log,
	}
}

// IngestDocument replaces every stored chunk of the document with freshly
// split and embedded ones. The swap happens in one transaction.
func (s *ingestService) IngestDocument(ctx context.Context, req *dto.IngestDocumentRequest) (*dto.IngestDocumentResponse, error) {
	if strings.TrimSpace(req.DocId) == "" {
		return nil, fmt.Errorf("doc id is required")
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("document %s has no content", req.DocId)
	}

	pieces := utils.SplitText(req.Content, chunkSize, chunkOverlap)
	s.logger.Info(ingestLogModule, "Content split into chunks", map[string]interface{}{"doc_id": req.DocId, "chunks": len(pieces)})

	now := time.Now()
	chunks := make([]*entity.DocumentChunk, 0, len(pieces))
	for i, piece := range pieces {
		vec, err := s.embedder.Embed(ctx, piece)
		if err != nil {
			return nil, fmt.Errorf("embed chunk %d of %s: %w", i, req.DocId, err)
		}
		chunks = append(chunks, &entity.DocumentChunk{
			Id:                uuid.New(),
			DocId:             req.DocId,
			ChunkIndex:        i,
			ChunkText:         piece,
			Filename:          req.Filename,
			UploaderName:      req.UploaderName,
			TableName:         req.TableName,
			Action:            req.Action,
			HcpName:           req.HcpName,
			HcpEmail:          req.HcpEmail,
			ChangeDescription: req.ChangeDescription,
			UploadedAt:        &now,
			Embedding:         vec,
			CreatedAt:         now,
		})
	}

	err := unitofwork.Transact(ctx, s.uowFactory, func(uow unitofwork.UnitOfWork) error {
		repo := uow.DocumentChunkRepository()
		if err := repo.DeleteByDocId(ctx, req.DocId); err != nil {
			return fmt.Errorf("delete old chunks of %s: %w", req.DocId, err)
		}
		if err := repo.CreateBulk(ctx, chunks); err != nil {
			return fmt.Errorf("store chunks of %s: %w", req.DocId, err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error(ingestLogModule, "Chunk swap failed", map[string]interface{}{"doc_id": req.DocId, "error": err.Error()})
		return nil, err
	}

	return &dto.IngestDocumentResponse{DocId: req.DocId, Chunks: len(chunks)}, nil
}
