package entity

import (
	"time"

	"github.com/google/uuid"
)

// Debtor is the CRM record looked up during the document-capture step.
type Debtor struct {
	Id              uuid.UUID
	DocumentType    string
	DocumentNumber  string
	FullName        string
	CompanyName     string
	TotalDebt       float64
	DueDate         *time.Time
	Phone           string
	Email           string
	LastContactedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}
