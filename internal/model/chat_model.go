package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Chat struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Phone           string         `gorm:"type:varchar(30);not null;uniqueIndex"`
	ContactName     string         `gorm:"type:varchar(200)"`
	Status          string         `gorm:"type:varchar(20);not null;default:'bot';index"`
	AssignedAgentId *uuid.UUID     `gorm:"type:uuid;index"`
	BotContext      datatypes.JSON `gorm:"type:jsonb"`
	LastMessageAt   *time.Time     `gorm:"index"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (Chat) TableName() string {
	return "chats"
}

type ChatMessage struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatId     uuid.UUID      `gorm:"type:uuid;not null;index:idx_chat_messages_chat_created,priority:1"`
	Content    string         `gorm:"type:text;not null"`
	SenderType string         `gorm:"type:varchar(10);not null"`
	SenderId   *uuid.UUID     `gorm:"type:uuid"`
	ExternalId string         `gorm:"type:varchar(100);index"`
	Buttons    datatypes.JSON `gorm:"type:jsonb"`
	Failed     bool           `gorm:"default:false"`
	CreatedAt  time.Time      `gorm:"autoCreateTime;index:idx_chat_messages_chat_created,priority:2"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
