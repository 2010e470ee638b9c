// FILE: internal/controller/debtor_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/dto"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/pkg/serverutils"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/service"
)

type IDebtorController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
}

type debtorController struct {
	service service.IDebtorService
}

func NewDebtorController(service service.IDebtorService) IDebtorController {
	return &debtorController{service: service}
}

func (c *debtorController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/debtors")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Post("", serverutils.AdminOnly, c.Create)
}

func (c *debtorController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateDebtorRequest
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
		"message": "Debtor created",
		"data":    res,
	})
}

func (c *debtorController) List(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 20)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.service.List(ctx.Context(), limit, offset)
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

func (c *debtorController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return invalidIdResponse(ctx, "invalid debtor id")
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
