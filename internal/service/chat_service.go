// FILE: internal/service/chat_service.go
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/constant"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/dto"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/entity"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/pkg/logger"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/repository/specification"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/repository/unitofwork"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/websocket"
	"github.com/sanalejo720/crm-bot-ngso-sub001/pkg/whatsapp"
)

type IChatService interface {
	List(ctx context.Context, status string, assignedTo uuid.UUID, limit, offset int) (*dto.ChatListResponse, error)
	History(ctx context.Context, chatId uuid.UUID, limit, offset int) (*dto.ChatHistoryResponse, error)
	AgentReply(ctx context.Context, chatId, agentId uuid.UUID, content string) (*dto.MessageResponse, error)
	CloseChat(ctx context.Context, chatId uuid.UUID) error
	AssignAgent(ctx context.Context, chatId, agentId uuid.UUID) error

	// Webhook-side operations.
	UpsertByPhone(ctx context.Context, phone, contactName string) (*entity.Chat, error)
	RecordInbound(ctx context.Context, chat *entity.Chat, content, externalId string) error

	// Engine gateway contract.
	GetChat(ctx context.Context, chatId uuid.UUID) (*entity.Chat, error)
	UpdateChat(ctx context.Context, chat *entity.Chat) error
	RecordOutbound(ctx context.Context, chatId uuid.UUID, content, externalId string, buttons []map[string]interface{}, failed bool) error
}

type chatService struct {
	uowFactory unitofwork.RepositoryFactory
	wa         *whatsapp.Client
	hub        *websocket.Hub
	logger     logger.ILogger
}

func NewChatService(uowFactory unitofwork.RepositoryFactory, wa *whatsapp.Client, hub *websocket.Hub, log logger.ILogger) IChatService {
	return &chatService{
		uowFactory: uowFactory,
		wa:         wa,
		hub:        hub,
		logger:     log,
	}
}

func (s *chatService) List(ctx context.Context, status string, assignedTo uuid.UUID, limit, offset int) (*dto.ChatListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.OrderBy{Field: "last_message_at", Desc: true},
	}
	countSpecs := []specification.Specification{}
	if status != "" {
		specs = append(specs, specification.ByStatus{Status: status})
		countSpecs = append(countSpecs, specification.ByStatus{Status: status})
	}
	if assignedTo != uuid.Nil {
		specs = append(specs, specification.AssignedTo{AgentID: assignedTo})
		countSpecs = append(countSpecs, specification.AssignedTo{AgentID: assignedTo})
	}
	if limit > 0 {
		specs = append(specs, specification.Pagination{Limit: limit, Offset: offset})
	}

	chats, err := uow.ChatRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	total, err := uow.ChatRepository().Count(ctx, countSpecs...)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ChatResponse, 0, len(chats))
	for _, c := range chats {
		out = append(out, toChatResponse(c))
	}
	return &dto.ChatListResponse{Chats: out, Total: total}, nil
}

func (s *chatService) History(ctx context.Context, chatId uuid.UUID, limit, offset int) (*dto.ChatHistoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.ByChatID{ChatID: chatId},
		specification.OrderBy{Field: "created_at", Desc: false},
	}
	if limit > 0 {
		specs = append(specs, specification.Pagination{Limit: limit, Offset: offset})
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	total, err := uow.ChatMessageRepository().Count(ctx, specification.ByChatID{ChatID: chatId})
	if err != nil {
		return nil, err
	}

	out := make([]dto.MessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, toMessageResponse(m))
	}
	return &dto.ChatHistoryResponse{Messages: out, Total: total}, nil
}

// AgentReply sends a human reply over WhatsApp and appends it to the
// history. Replying to a bot-controlled chat takes it over.
func (s *chatService) AgentReply(ctx context.Context, chatId, agentId uuid.UUID, content string) (*dto.MessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	chat, err := uow.ChatRepository().FindOne(ctx, specification.ByID{ID: chatId})
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, errors.New("chat not found")
	}
	if chat.Status == constant.ChatStatusClosed {
		return nil, errors.New("chat is closed")
	}

	externalId, err := s.wa.SendText(ctx, chat.Phone, content)
	failed := err != nil
	if failed {
		s.logger.Error("ChatService", "Agent reply delivery failed", map[string]interface{}{
			"chat_id": chatId.String(),
			"error":   err.Error(),
		})
	}

	msg := &entity.Message{
		Id:         uuid.New(),
		ChatId:     chatId,
		Content:    content,
		SenderType: constant.SenderTypeAgent,
		SenderId:   &agentId,
		ExternalId: externalId,
		Failed:     failed,
		CreatedAt:  time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, msg); err != nil {
		return nil, err
	}

	now := time.Now()
	chat.LastMessageAt = &now
	if chat.Status == constant.ChatStatusBot {
		chat.Status = constant.ChatStatusActive
		chat.AssignedAgentId = &agentId
	}
	if err := uow.ChatRepository().Update(ctx, chat); err != nil {
		return nil, err
	}

	s.broadcastMessage(msg)

	res := toMessageResponse(msg)
	return &res, nil
}

func (s *chatService) CloseChat(ctx context.Context, chatId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	chat, err := uow.ChatRepository().FindOne(ctx, specification.ByID{ID: chatId})
	if err != nil {
		return err
	}
	if chat == nil {
		return errors.New("chat not found")
	}

	chat.Status = constant.ChatStatusClosed
	if err := uow.ChatRepository().Update(ctx, chat); err != nil {
		return err
	}

	s.hub.Broadcast(websocket.Event{
		Type: "chat.closed",
		Data: map[string]interface{}{"chat_id": chatId.String()},
	})
	return nil
}

func (s *chatService) AssignAgent(ctx context.Context, chatId, agentId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	chat, err := uow.ChatRepository().FindOne(ctx, specification.ByID{ID: chatId})
	if err != nil {
		return err
	}
	if chat == nil {
		return errors.New("chat not found")
	}

	chat.AssignedAgentId = &agentId
	chat.Status = constant.ChatStatusActive
	if err := uow.ChatRepository().Update(ctx, chat); err != nil {
		return err
	}

	s.hub.Send(agentId, websocket.Event{
		Type: "chat.assigned",
		Data: map[string]interface{}{
			"chat_id":      chatId.String(),
			"phone":        chat.Phone,
			"contact_name": chat.ContactName,
		},
	})
	return nil
}

func (s *chatService) UpsertByPhone(ctx context.Context, phone, contactName string) (*entity.Chat, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	chat, err := uow.ChatRepository().FindOne(ctx, specification.ByPhone{Phone: phone})
	if err != nil {
		return nil, err
	}
	if chat != nil {
		if contactName != "" && chat.ContactName != contactName {
			chat.ContactName = contactName
			_ = uow.ChatRepository().Update(ctx, chat)
		}
		return chat, nil
	}

	chat = &entity.Chat{
		Id:          uuid.New(),
		Phone:       phone,
		ContactName: contactName,
		Status:      constant.ChatStatusBot,
		CreatedAt:   time.Now(),
	}
	if err := uow.ChatRepository().Create(ctx, chat); err != nil {
		return nil, err
	}
	return chat, nil
}

func (s *chatService) RecordInbound(ctx context.Context, chat *entity.Chat, content, externalId string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	msg := &entity.Message{
		Id:         uuid.New(),
		ChatId:     chat.Id,
		Content:    content,
		SenderType: constant.SenderTypeContact,
		ExternalId: externalId,
		CreatedAt:  time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, msg); err != nil {
		return err
	}

	now := time.Now()
	chat.LastMessageAt = &now
	if err := uow.ChatRepository().Update(ctx, chat); err != nil {
		return err
	}

	s.broadcastMessage(msg)
	return nil
}

func (s *chatService) GetChat(ctx context.Context, chatId uuid.UUID) (*entity.Chat, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.ChatRepository().FindOne(ctx, specification.ByID{ID: chatId})
}

func (s *chatService) UpdateChat(ctx context.Context, chat *entity.Chat) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.ChatRepository().Update(ctx, chat)
}

func (s *chatService) RecordOutbound(ctx context.Context, chatId uuid.UUID, content, externalId string, buttons []map[string]interface{}, failed bool) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	msg := &entity.Message{
		Id:         uuid.New(),
		ChatId:     chatId,
		Content:    content,
		SenderType: constant.SenderTypeBot,
		ExternalId: externalId,
		Buttons:    buttons,
		Failed:     failed,
		CreatedAt:  time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, msg); err != nil {
		return err
	}

	s.broadcastMessage(msg)
	return nil
}

func (s *chatService) broadcastMessage(msg *entity.Message) {
	s.hub.Broadcast(websocket.Event{
		Type: "chat.message",
		Data: map[string]interface{}{
			"chat_id":     msg.ChatId.String(),
			"content":     msg.Content,
			"sender_type": msg.SenderType,
			"failed":      msg.Failed,
			"created_at":  msg.CreatedAt,
		},
	})
}

func toChatResponse(c *entity.Chat) dto.ChatResponse {
	return dto.ChatResponse{
		Id:              c.Id,
		Phone:           c.Phone,
		ContactName:     c.ContactName,
		Status:          c.Status,
		AssignedAgentId: c.AssignedAgentId,
		BotContext:      c.BotContext,
		LastMessageAt:   c.LastMessageAt,
		CreatedAt:       c.CreatedAt,
	}
}

func toMessageResponse(m *entity.Message) dto.MessageResponse {
	return dto.MessageResponse{
		Id:         m.Id,
		ChatId:     m.ChatId,
		Content:    m.Content,
		SenderType: m.SenderType,
		SenderId:   m.SenderId,
		Buttons:    m.Buttons,
		Failed:     m.Failed,
		CreatedAt:  m.CreatedAt,
	}
}
