package controller

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hcp-chatbot-be/internal/dto"
	"hcp-chatbot-be/internal/pkg/serverutils"
	"hcp-chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	lastQuery   *dto.QueryRequest
	lastCleared string
	queryErr    error
}

func (s *stubService) Query(_ context.Context, req *dto.QueryRequest) (*dto.QueryResponse, error) {
	s.lastQuery = req
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	return &dto.QueryResponse{Answer: "ok", QueryType: "database_only", SessionID: "default"}, nil
}

func (s *stubService) ClearSession(_ context.Context, id string) error {
	s.lastCleared = id
	return nil
}

func (s *stubService) Health(context.Context) (*dto.HealthResponse, error) {
	return &dto.HealthResponse{Status: "healthy", ActiveSessions: 3, Timestamp: time.Now()}, nil
}

func (s *stubService) History(_ context.Context, id string) (*dto.HistoryResponse, error) {
	return &dto.HistoryResponse{SessionID: id, Turns: []dto.HistoryTurnResponse{{Query: "q"}}}, nil
}

func (s *stubService) TurnLogs(context.Context, string, int) ([]*dto.TurnLogResponse, error) {
	return []*dto.TurnLogResponse{}, nil
}

func newApp(svc *stubService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: serverutils.ErrorHandler})
	NewChatbotController(svc).RegisterRoutes(app.Group("/api"))
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	var env map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &env))
	return resp.StatusCode, env
}

func TestChatbotController_Query(t *testing.T) {
	svc := &stubService{}
	app := newApp(svc)

	t.Run("answers", func(t *testing.T) {
		code, env := do(t, app, "POST", "/api/chatbot/query", `{"question":"how many hcps?","session_id":"s9"}`)
		assert.Equal(t, 200, code)
		assert.Equal(t, true, env["success"])
		data := env["data"].(map[string]interface{})
		assert.Equal(t, "database_only", data["query_type"])
		assert.Equal(t, "s9", svc.lastQuery.SessionID)
	})

	t.Run("missing question", func(t *testing.T) {
		code, env := do(t, app, "POST", "/api/chatbot/query", `{"session_id":"s9"}`)
		assert.Equal(t, 400, code)
		assert.Equal(t, "question is required", env["message"])
	})

	t.Run("blank question never reaches the service", func(t *testing.T) {
		svc.lastQuery = nil
		code, env := do(t, app, "POST", "/api/chatbot/query", `{"question":"   ","session_id":"s9"}`)
		assert.Equal(t, 400, code)
		assert.Equal(t, "question is required", env["message"])
		assert.Nil(t, svc.lastQuery)
	})

	t.Run("empty question from service is a bad request", func(t *testing.T) {
		svc.queryErr = service.ErrEmptyQuestion
		defer func() { svc.queryErr = nil }()
		code, env := do(t, app, "POST", "/api/chatbot/query", `{"question":"x"}`)
		assert.Equal(t, 400, code)
		assert.Equal(t, "question is required", env["message"])
	})

	t.Run("malformed body", func(t *testing.T) {
		code, _ := do(t, app, "POST", "/api/chatbot/query", `{`)
		assert.Equal(t, 400, code)
	})

	t.Run("service failure", func(t *testing.T) {
		svc.queryErr = errors.New("run turn: invalid agent state")
		defer func() { svc.queryErr = nil }()
		code, env := do(t, app, "POST", "/api/chatbot/query", `{"question":"x"}`)
		assert.Equal(t, 500, code)
		assert.Equal(t, false, env["success"])
	})
}

func TestChatbotController_Session(t *testing.T) {
	svc := &stubService{}
	app := newApp(svc)

	code, _ := do(t, app, "POST", "/api/chatbot/clear-session?session_id=abc", "")
	assert.Equal(t, 200, code)
	assert.Equal(t, "abc", svc.lastCleared)

	code, _ = do(t, app, "POST", "/api/chatbot/clear-session", "")
	assert.Equal(t, 200, code)
	assert.Equal(t, dto.DefaultSessionID, svc.lastCleared)

	code, env := do(t, app, "GET", "/api/chatbot/history/abc", "")
	assert.Equal(t, 200, code)
	assert.Equal(t, "abc", env["data"].(map[string]interface{})["session_id"])

	code, env = do(t, app, "GET", "/api/chatbot/health", "")
	assert.Equal(t, 200, code)
	assert.Equal(t, float64(3), env["data"].(map[string]interface{})["active_sessions"])
}
