package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByChatID struct {
	ChatID uuid.UUID
}

func (s ByChatID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chat_id = ?", s.ChatID)
}

type ByPhone struct {
	Phone string
}

func (s ByPhone) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("phone = ?", s.Phone)
}

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

type AssignedTo struct {
	AgentID uuid.UUID
}

func (s AssignedTo) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("assigned_agent_id = ?", s.AgentID)
}

type ByDocument struct {
	DocumentType   string
	DocumentNumber string
}

func (s ByDocument) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("document_type = ? AND document_number = ?", s.DocumentType, s.DocumentNumber)
}

// WithNodes preloads a flow's nodes ordered by their authored position.
type WithNodes struct{}

func (s WithNodes) Apply(db *gorm.DB) *gorm.DB {
	return db.Preload("Nodes", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}
