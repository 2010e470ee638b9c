// FILE: internal/service/bot_gateway.go
package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/bot"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/entity"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/pkg/logger"
	"github.com/sanalejo720/crm-bot-ngso-sub001/pkg/events"
	pktNats "github.com/sanalejo720/crm-bot-ngso-sub001/pkg/nats"
	"github.com/sanalejo720/crm-bot-ngso-sub001/pkg/whatsapp"
)

// In-process topics connecting the engine to the assignment consumer.
const (
	TopicChatHandoff  = "chat.handoff"
	TopicChatResolved = "chat.resolved"
)

// ChatSignal is the payload published on the hand-off and resolved topics.
type ChatSignal struct {
	ChatId      string `json:"chat_id"`
	Phone       string `json:"phone"`
	ContactName string `json:"contact_name"`
}

// whatsappMessenger adapts the Cloud API client to the engine's messenger
// contract, resolving each chat to its phone number.
type whatsappMessenger struct {
	client *whatsapp.Client
}

func NewBotMessenger(client *whatsapp.Client) bot.Messenger {
	return &whatsappMessenger{client: client}
}

func (m *whatsappMessenger) SendText(ctx context.Context, chat *entity.Chat, text string) (string, error) {
	return m.client.SendText(ctx, chat.Phone, text)
}

func (m *whatsappMessenger) SendChoice(ctx context.Context, chat *entity.Chat, title, body string, options []bot.ChoiceOption) (string, error) {
	waOptions := make([]whatsapp.Option, 0, len(options))
	for _, opt := range options {
		waOptions = append(waOptions, whatsapp.Option{Id: opt.Id, Label: opt.Label})
	}
	return m.client.SendChoice(ctx, chat.Phone, title, body, waOptions)
}

// botSignaler fans terminal-node signals out to the in-process bus (for the
// assignment consumer) and mirrors them to NATS for external systems. NATS
// publish failures are logged, not surfaced: the local workflow must not
// depend on the external bus being up.
type botSignaler struct {
	pubSub    *gochannel.GoChannel
	publisher *pktNats.Publisher
	logger    logger.ILogger
}

func NewBotSignaler(pubSub *gochannel.GoChannel, publisher *pktNats.Publisher, log logger.ILogger) bot.Signaler {
	return &botSignaler{
		pubSub:    pubSub,
		publisher: publisher,
		logger:    log,
	}
}

func (s *botSignaler) HandOff(ctx context.Context, chat *entity.Chat) error {
	if err := s.publishLocal(TopicChatHandoff, chat); err != nil {
		return err
	}
	s.mirrorToNats(ctx, events.NewChatHandoffEvent(chat.Id, chat.Phone))
	return nil
}

func (s *botSignaler) Resolved(ctx context.Context, chat *entity.Chat) error {
	if err := s.publishLocal(TopicChatResolved, chat); err != nil {
		return err
	}
	s.mirrorToNats(ctx, events.NewChatResolvedEvent(chat.Id, chat.Phone))
	return nil
}

// DebtorContacted has no in-process consumer; it exists for external
// systems following the NATS stream.
func (s *botSignaler) DebtorContacted(ctx context.Context, chat *entity.Chat, debtorId uuid.UUID) error {
	s.mirrorToNats(ctx, events.NewDebtorContactedEvent(debtorId, chat.Id))
	return nil
}

func (s *botSignaler) publishLocal(topic string, chat *entity.Chat) error {
	payload, err := json.Marshal(ChatSignal{
		ChatId:      chat.Id.String(),
		Phone:       chat.Phone,
		ContactName: chat.ContactName,
	})
	if err != nil {
		return err
	}
	return s.pubSub.Publish(topic, message.NewMessage(watermill.NewUUID(), payload))
}

func (s *botSignaler) mirrorToNats(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("BotSignaler", "Failed to mirror event to NATS", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
}
