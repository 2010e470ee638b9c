// FILE: internal/controller/flow_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/bot"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/dto"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/pkg/serverutils"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/service"
)

type IFlowController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Activate(ctx *fiber.Ctx) error
	Deactivate(ctx *fiber.Ctx) error
	StartFlow(ctx *fiber.Ctx) error
}

type flowController struct {
	service service.IFlowService
	engine  *bot.Engine
}

func NewFlowController(service service.IFlowService, engine *bot.Engine) IFlowController {
	return &flowController{service: service, engine: engine}
}

func (c *flowController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/flows")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Post("", serverutils.AdminOnly, c.Create)
	h.Put(":id", serverutils.AdminOnly, c.Update)
	h.Delete(":id", serverutils.AdminOnly, c.Delete)
	h.Post(":id/activate", serverutils.AdminOnly, c.Activate)
	h.Post(":id/deactivate", serverutils.AdminOnly, c.Deactivate)
	h.Post("start", c.StartFlow)
}

func (c *flowController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateFlowRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.Context(), &req)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"code":    400,
			"message": err.Error(),
		})
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"code":    201,
		"message": "Flow created",
		"data":    res,
	})
}

func (c *flowController) Update(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return invalidIdResponse(ctx, "invalid flow id")
	}

	var req dto.UpdateFlowRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	req.Id = id
	res, err := c.service.Update(ctx.Context(), &req)
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
		"message": "Flow updated",
		"data":    res,
	})
}

func (c *flowController) Delete(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return invalidIdResponse(ctx, "invalid flow id")
	}

	if err := c.service.Delete(ctx.Context(), id); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"code":    400,
			"message": err.Error(),
		})
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Flow deleted",
	})
}

func (c *flowController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return invalidIdResponse(ctx, "invalid flow id")
	}

	res, err := c.service.Show(ctx.Context(), id)
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

func (c *flowController) List(ctx *fiber.Ctx) error {
	res, err := c.service.List(ctx.Context())
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

func (c *flowController) Activate(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return invalidIdResponse(ctx, "invalid flow id")
	}

	if err := c.service.Activate(ctx.Context(), id); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"code":    400,
			"message": err.Error(),
		})
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Flow activated",
	})
}

func (c *flowController) Deactivate(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return invalidIdResponse(ctx, "invalid flow id")
	}

	if err := c.service.Deactivate(ctx.Context(), id); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"code":    400,
			"message": err.Error(),
		})
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Flow deactivated",
	})
}

// StartFlow launches a flow on an existing chat from the console, for
// outbound campaigns or manual retries.
func (c *flowController) StartFlow(ctx *fiber.Ctx) error {
	var req dto.StartFlowRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.engine.StartFlow(ctx.Context(), req.ChatId, req.FlowId); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"code":    400,
			"message": err.Error(),
		})
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Flow started",
	})
}

func invalidIdResponse(ctx *fiber.Ctx, message string) error {
	return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"code":    400,
		"message": message,
	})
}
