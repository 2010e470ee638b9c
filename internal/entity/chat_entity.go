package entity

import (
	"time"

	"github.com/google/uuid"
)

// Chat is the per-contact conversation record. Status follows the
// bot -> active -> resolved/closed lifecycle; BotContext mirrors the
// engine's session snapshot so external viewers stay consistent.
type Chat struct {
	Id              uuid.UUID
	Phone           string
	ContactName     string
	Status          string
	AssignedAgentId *uuid.UUID
	BotContext      map[string]interface{}
	LastMessageAt   *time.Time
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}

// Message is one entry of a chat's history, bot and human alike.
type Message struct {
	Id         uuid.UUID
	ChatId     uuid.UUID
	Content    string
	SenderType string
	SenderId   *uuid.UUID
	ExternalId string
	Buttons    []map[string]interface{}
	Failed     bool
	CreatedAt  time.Time
}
