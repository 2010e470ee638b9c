// FILE: internal/service/webhook_service.go
package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/bot"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/constant"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/dto"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/pkg/logger"
)

type IWebhookService interface {
	ProcessInbound(ctx context.Context, payload *dto.WebhookPayload) error
}

type webhookService struct {
	chats         IChatService
	engine        *bot.Engine
	defaultFlowId uuid.UUID
	logger        logger.ILogger
}

// NewWebhookService wires inbound Cloud API notifications into the engine.
// defaultFlowId may be uuid.Nil, in which case chats without a session are
// left for a human to pick up.
func NewWebhookService(chats IChatService, engine *bot.Engine, defaultFlowId uuid.UUID, log logger.ILogger) IWebhookService {
	return &webhookService{
		chats:         chats,
		engine:        engine,
		defaultFlowId: defaultFlowId,
		logger:        log,
	}
}

func (s *webhookService) ProcessInbound(ctx context.Context, payload *dto.WebhookPayload) error {
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			if change.Field != "messages" {
				continue
			}
			names := contactNames(change.Value.Contacts)
			for _, msg := range change.Value.Messages {
				s.processMessage(ctx, msg, names[msg.From])
			}
		}
	}
	return nil
}

func (s *webhookService) processMessage(ctx context.Context, msg dto.WebhookMessage, contactName string) {
	input := msg.InputText()
	if input == "" {
		// Media and unsupported message types are recorded nowhere; the bot
		// only understands text and interactive replies.
		s.logger.Debug("Webhook", "Skipping non-text message", map[string]interface{}{
			"type": msg.Type,
			"from": msg.From,
		})
		return
	}

	chat, err := s.chats.UpsertByPhone(ctx, msg.From, contactName)
	if err != nil {
		s.logger.Error("Webhook", "Failed to upsert chat", map[string]interface{}{
			"phone": msg.From,
			"error": err.Error(),
		})
		return
	}

	if err := s.chats.RecordInbound(ctx, chat, input, msg.Id); err != nil {
		s.logger.Error("Webhook", "Failed to record inbound message", map[string]interface{}{
			"chat_id": chat.Id.String(),
			"error":   err.Error(),
		})
	}

	handled, err := s.engine.HandleIncoming(ctx, chat.Id, input)
	if err != nil {
		s.logger.Error("Webhook", "Engine failed on inbound message", map[string]interface{}{
			"chat_id": chat.Id.String(),
			"error":   err.Error(),
		})
		return
	}
	if handled {
		return
	}

	// No session. Chats already with an agent stay with the agent; fresh
	// bot-status chats get the default flow when one is configured.
	if chat.Status != constant.ChatStatusBot || s.defaultFlowId == uuid.Nil {
		return
	}
	if err := s.engine.StartFlow(ctx, chat.Id, s.defaultFlowId); err != nil {
		s.logger.Error("Webhook", "Failed to start default flow", map[string]interface{}{
			"chat_id": chat.Id.String(),
			"flow_id": s.defaultFlowId.String(),
			"error":   err.Error(),
		})
	}
}

func contactNames(contacts []dto.WebhookContact) map[string]string {
	names := make(map[string]string, len(contacts))
	for _, c := range contacts {
		names[c.WaId] = c.Profile.Name
	}
	return names
}
