package controller

import (
	"context"
	"testing"

	"hcp-chatbot-be/internal/dto"
	"hcp-chatbot-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

type stubIngest struct {
	got *dto.IngestDocumentRequest
}

func (s *stubIngest) IngestDocument(_ context.Context, req *dto.IngestDocumentRequest) (*dto.IngestDocumentResponse, error) {
	s.got = req
	return &dto.IngestDocumentResponse{DocId: req.DocId, Chunks: 2}, nil
}

func TestDocumentController_Ingest(t *testing.T) {
	svc := &stubIngest{}
	app := fiber.New(fiber.Config{ErrorHandler: serverutils.ErrorHandler})
	NewDocumentController(svc).RegisterRoutes(app.Group("/api"))

	code, env := do(t, app, "POST", "/api/chatbot/documents", `{"doc_id":"d1","content":"hello","uploader_name":"Dana"}`)
	assert.Equal(t, fiber.StatusCreated, code)
	assert.Equal(t, float64(2), env["data"].(map[string]interface{})["chunks"])
	assert.Equal(t, "Dana", svc.got.UploaderName)

	code, env = do(t, app, "POST", "/api/chatbot/documents", `{"doc_id":"d1"}`)
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, "content is required", env["message"])
}
