package mapper

import (
	"encoding/json"

	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/entity"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/model"

	"gorm.io/datatypes"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) ChatToEntity(c *model.Chat) *entity.Chat {
	if c == nil {
		return nil
	}

	var botContext map[string]interface{}
	if len(c.BotContext) > 0 {
		_ = json.Unmarshal(c.BotContext, &botContext)
	}

	return &entity.Chat{
		Id:              c.Id,
		Phone:           c.Phone,
		ContactName:     c.ContactName,
		Status:          c.Status,
		AssignedAgentId: c.AssignedAgentId,
		BotContext:      botContext,
		LastMessageAt:   c.LastMessageAt,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       timePtr(c.UpdatedAt),
	}
}

func (m *ChatMapper) ChatToModel(c *entity.Chat) *model.Chat {
	if c == nil {
		return nil
	}

	var botContext datatypes.JSON
	if c.BotContext != nil {
		raw, _ := json.Marshal(c.BotContext)
		botContext = datatypes.JSON(raw)
	}

	return &model.Chat{
		Id:              c.Id,
		Phone:           c.Phone,
		ContactName:     c.ContactName,
		Status:          c.Status,
		AssignedAgentId: c.AssignedAgentId,
		BotContext:      botContext,
		LastMessageAt:   c.LastMessageAt,
	}
}

func (m *ChatMapper) MessageToEntity(msg *model.ChatMessage) *entity.Message {
	if msg == nil {
		return nil
	}

	var buttons []map[string]interface{}
	if len(msg.Buttons) > 0 {
		_ = json.Unmarshal(msg.Buttons, &buttons)
	}

	return &entity.Message{
		Id:         msg.Id,
		ChatId:     msg.ChatId,
		Content:    msg.Content,
		SenderType: msg.SenderType,
		SenderId:   msg.SenderId,
		ExternalId: msg.ExternalId,
		Buttons:    buttons,
		Failed:     msg.Failed,
		CreatedAt:  msg.CreatedAt,
	}
}

func (m *ChatMapper) MessageToModel(msg *entity.Message) *model.ChatMessage {
	if msg == nil {
		return nil
	}

	var buttons datatypes.JSON
	if msg.Buttons != nil {
		raw, _ := json.Marshal(msg.Buttons)
		buttons = datatypes.JSON(raw)
	}

	return &model.ChatMessage{
		Id:         msg.Id,
		ChatId:     msg.ChatId,
		Content:    msg.Content,
		SenderType: msg.SenderType,
		SenderId:   msg.SenderId,
		ExternalId: msg.ExternalId,
		Buttons:    buttons,
		Failed:     msg.Failed,
	}
}
