package controller

import (
	"ai-tutor-be/internal/dto"
	"ai-tutor-be/internal/pkg/serverutils"
	"ai-tutor-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatbotController interface {
	RegisterRoutes(r fiber.Router)
	SendChat(ctx *fiber.Ctx) error
	GetChatHistory(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
	GetSummary(ctx *fiber.Ctx) error
	SummarizeSession(ctx *fiber.Ctx) error
}

type chatbotController struct {
	chatbotService service.IChatbotService
}

func NewChatbotController(chatbotService service.IChatbotService) IChatbotController {
	return &chatbotController{chatbotService: chatbotService}
}

func (c *chatbotController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Post("", c.SendChat)
	h.Get(":sessionId/history", c.GetChatHistory)
	h.Get(":sessionId/summary", c.GetSummary)
	h.Post(":sessionId/summary", c.SummarizeSession)
	h.Delete(":sessionId", c.DeleteSession)
}

func (c *chatbotController) SendChat(ctx *fiber.Ctx) error {
	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatbotService.SendChat(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send chat", res))
}

func (c *chatbotController) GetChatHistory(ctx *fiber.Ctx) error {
	res, err := c.chatbotService.GetChatHistory(ctx.UserContext(), ctx.Params("sessionId"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get chat history", res))
}

func (c *chatbotController) DeleteSession(ctx *fiber.Ctx) error {
	res, err := c.chatbotService.DeleteSession(ctx.UserContext(), ctx.Params("sessionId"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete session", res))
}

func (c *chatbotController) GetSummary(ctx *fiber.Ctx) error {
	res, err := c.chatbotService.GetSummary(ctx.UserContext(), ctx.Params("sessionId"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get session summary", res))
}

func (c *chatbotController) SummarizeSession(ctx *fiber.Ctx) error {
	res, err := c.chatbotService.SummarizeSession(ctx.UserContext(), ctx.Params("sessionId"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success summarize session", res))
}
