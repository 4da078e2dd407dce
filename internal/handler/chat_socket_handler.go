package handler

import (
	"strings"

	"hcp-chatbot-be/internal/dto"
	"hcp-chatbot-be/internal/pkg/logger"
	internalWS "hcp-chatbot-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type ChatSocketHandler struct {
	hub    *internalWS.Hub
	logger logger.ILogger
}

func NewChatSocketHandler(hub *internalWS.Hub, log logger.ILogger) *ChatSocketHandler {
	return &ChatSocketHandler{
		hub:    hub,
		logger: log,
	}
}

func (h *ChatSocketHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/chatbot/ws", h.ServeWs)
}

// ServeWs upgrades the request and attaches it to the session named by the
// session_id query parameter.
func (h *ChatSocketHandler) ServeWs(c *fiber.Ctx) error {
	sessionID := strings.TrimSpace(c.Query("session_id"))
	if sessionID == "" {
		sessionID = dto.DefaultSessionID
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("ChatSocketHandler", "Starting WebSocket session", map[string]interface{}{"session_id": sessionID})
			internalWS.ServeWs(h.hub, conn, sessionID)
			h.logger.Info("ChatSocketHandler", "WebSocket session ended", map[string]interface{}{"session_id": sessionID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}
