// FILE: internal/controller/webhook_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/dto"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/pkg/logger"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/service"
)

type IWebhookController interface {
	RegisterRoutes(r fiber.Router)
	Verify(ctx *fiber.Ctx) error
	Receive(ctx *fiber.Ctx) error
}

type webhookController struct {
	service     service.IWebhookService
	verifyToken string
	logger      logger.ILogger
}

func NewWebhookController(service service.IWebhookService, verifyToken string, log logger.ILogger) IWebhookController {
	return &webhookController{service: service, verifyToken: verifyToken, logger: log}
}

func (c *webhookController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/webhook/whatsapp")
	h.Get("", c.Verify)
	h.Post("", c.Receive)
}

// Verify answers Meta's subscription handshake. The challenge must be
// echoed back verbatim as plain text.
func (c *webhookController) Verify(ctx *fiber.Ctx) error {
	mode := ctx.Query("hub.mode")
	token := ctx.Query("hub.verify_token")
	challenge := ctx.Query("hub.challenge")

	if mode == "subscribe" && token == c.verifyToken && challenge != "" {
		return ctx.SendString(challenge)
	}
	return ctx.SendStatus(fiber.StatusForbidden)
}

// Receive always answers 200 so Meta does not retry the delivery.
// Processing errors are logged and absorbed.
func (c *webhookController) Receive(ctx *fiber.Ctx) error {
	var payload dto.WebhookPayload
	if err := ctx.BodyParser(&payload); err != nil {
		c.logger.Warn("webhook", "webhook payload rejected", map[string]interface{}{
			"error": err.Error(),
		})
		return ctx.SendStatus(fiber.StatusOK)
	}

	if err := c.service.ProcessInbound(ctx.Context(), &payload); err != nil {
		c.logger.Error("webhook", "webhook processing failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return ctx.SendStatus(fiber.StatusOK)
}
