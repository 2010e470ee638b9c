package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Debtor struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DocumentType    string         `gorm:"type:varchar(10);not null;uniqueIndex:idx_debtors_document,priority:1"`
	DocumentNumber  string         `gorm:"type:varchar(30);not null;uniqueIndex:idx_debtors_document,priority:2"`
	FullName        string         `gorm:"type:varchar(200);not null"`
	CompanyName     string         `gorm:"type:varchar(200)"`
	TotalDebt       float64        `gorm:"type:numeric(14,2);default:0"`
	DueDate         *time.Time     ``
	Phone           string         `gorm:"type:varchar(30);index"`
	Email           string         `gorm:"type:varchar(200)"`
	LastContactedAt *time.Time     ``
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (Debtor) TableName() string {
	return "debtors"
}
