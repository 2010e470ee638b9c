// FILE: internal/controller/chat_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/dto"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/pkg/serverutils"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/service"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	Reply(ctx *fiber.Ctx) error
	Close(ctx *fiber.Ctx) error
	Assign(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chats")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.List)
	h.Get(":id/messages", c.History)
	h.Post(":id/reply", c.Reply)
	h.Post(":id/close", c.Close)
	h.Post(":id/assign/:agentId", serverutils.AdminOnly, c.Assign)
}

func (c *chatController) List(ctx *fiber.Ctx) error {
	status := ctx.Query("status")
	limit := ctx.QueryInt("limit", 20)
	offset := ctx.QueryInt("offset", 0)

	assignedTo := uuid.Nil
	if raw := ctx.Query("assigned_to"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return invalidIdResponse(ctx, "invalid assigned_to filter")
		}
		assignedTo = parsed
	}

	res, err := c.service.List(ctx.Context(), status, assignedTo, limit, offset)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"code":    500,
			"message": err.Error(),
		})
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"data":    res,
	})
}

func (c *chatController) History(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return invalidIdResponse(ctx, "invalid chat id")
	}
	limit := ctx.QueryInt("limit", 50)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.service.History(ctx.Context(), id, limit, offset)
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"code":    404,
			"message": err.Error(),
		})
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"data":    res,
	})
}

func (c *chatController) Reply(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return invalidIdResponse(ctx, "invalid chat id")
	}

	var req dto.AgentReplyRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	agentId, err := agentIdFromLocals(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.AgentReply(ctx.Context(), id, agentId, req.Content)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"code":    400,
			"message": err.Error(),
		})
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Reply sent",
		"data":    res,
	})
}

func (c *chatController) Close(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return invalidIdResponse(ctx, "invalid chat id")
	}

	if err := c.service.CloseChat(ctx.Context(), id); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"code":    400,
			"message": err.Error(),
		})
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Chat closed",
	})
}

func (c *chatController) Assign(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return invalidIdResponse(ctx, "invalid chat id")
	}
	agentId, err := uuid.Parse(ctx.Params("agentId"))
	if err != nil {
		return invalidIdResponse(ctx, "invalid agent id")
	}

	if err := c.service.AssignAgent(ctx.Context(), id, agentId); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"code":    400,
			"message": err.Error(),
		})
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Chat assigned",
	})
}

func agentIdFromLocals(ctx *fiber.Ctx) (uuid.UUID, error) {
	raw, ok := ctx.Locals("user_id").(string)
	if !ok {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "missing user context")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "invalid user context")
	}
	return id, nil
}
