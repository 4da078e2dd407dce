package controller

import (
	"errors"

	"hcp-chatbot-be/internal/dto"
	"hcp-chatbot-be/internal/pkg/serverutils"
	"hcp-chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatbotController interface {
	RegisterRoutes(r fiber.Router)
	Query(ctx *fiber.Ctx) error
	ClearSession(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	TurnLogs(ctx *fiber.Ctx) error
}

type chatbotController struct {
	service service.IChatbotService
}

func NewChatbotController(service service.IChatbotService) IChatbotController {
	return &chatbotController{service: service}
}

func (c *chatbotController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chatbot")
	h.Post("/query", c.Query)
	h.Post("/clear-session", c.ClearSession)
	h.Get("/health", c.Health)
	h.Get("/history/:session_id", c.History)
	h.Get("/logs/:session_id", c.TurnLogs)
}

func (c *chatbotController) Query(ctx *fiber.Ctx) error {
	var req dto.QueryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Query(ctx.UserContext(), &req)
	if errors.Is(err, service.ErrEmptyQuestion) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Query answered", res))
}

func (c *chatbotController) ClearSession(ctx *fiber.Ctx) error {
	sessionID := ctx.Query("session_id", dto.DefaultSessionID)
	if err := c.service.ClearSession(ctx.UserContext(), sessionID); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Session cleared", dto.ClearSessionResponse{SessionID: sessionID}))
}

func (c *chatbotController) Health(ctx *fiber.Ctx) error {
	res, err := c.service.Health(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Chatbot health", res))
}

func (c *chatbotController) History(ctx *fiber.Ctx) error {
	res, err := c.service.History(ctx.UserContext(), ctx.Params("session_id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Session history", res))
}

func (c *chatbotController) TurnLogs(ctx *fiber.Ctx) error {
	res, err := c.service.TurnLogs(ctx.UserContext(), ctx.Params("session_id"), ctx.QueryInt("limit", 20))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Turn logs", res))
}
