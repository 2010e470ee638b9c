package specification

import (
	"gorm.io/gorm"
)

type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}

type ActiveAgents struct{}

func (s ActiveAgents) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("role = ? AND status = ?", "agent", "active")
}
