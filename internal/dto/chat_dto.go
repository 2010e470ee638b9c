package dto

import (
	"time"

	"github.com/google/uuid"
)

type ChatResponse struct {
	Id              uuid.UUID              `json:"id"`
	Phone           string                 `json:"phone"`
	ContactName     string                 `json:"contact_name"`
	Status          string                 `json:"status"`
	AssignedAgentId *uuid.UUID             `json:"assigned_agent_id,omitempty"`
	BotContext      map[string]interface{} `json:"bot_context,omitempty"`
	LastMessageAt   *time.Time             `json:"last_message_at"`
	CreatedAt       time.Time              `json:"created_at"`
}

type ChatListResponse struct {
	Chats []ChatResponse `json:"chats"`
	Total int64          `json:"total"`
}

type MessageResponse struct {
	Id         uuid.UUID                `json:"id"`
	ChatId     uuid.UUID                `json:"chat_id"`
	Content    string                   `json:"content"`
	SenderType string                   `json:"sender_type"`
	SenderId   *uuid.UUID               `json:"sender_id,omitempty"`
	Buttons    []map[string]interface{} `json:"buttons,omitempty"`
	Failed     bool                     `json:"failed"`
	CreatedAt  time.Time                `json:"created_at"`
}

type ChatHistoryResponse struct {
	Messages []MessageResponse `json:"messages"`
	Total    int64             `json:"total"`
}

type AgentReplyRequest struct {
	Content string `json:"content" validate:"required"`
}

type StartFlowRequest struct {
	ChatId uuid.UUID `json:"chat_id" validate:"required"`
	FlowId uuid.UUID `json:"flow_id" validate:"required"`
}
