package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateDebtorRequest struct {
	DocumentType   string  `json:"document_type" validate:"required,oneof=CC CE NIT TI PP"`
	DocumentNumber string  `json:"document_number" validate:"required"`
	FullName       string  `json:"full_name" validate:"required"`
	CompanyName    string  `json:"company_name"`
	TotalDebt      float64 `json:"total_debt" validate:"gte=0"`
	DueDate        *string `json:"due_date"`
	Phone          string  `json:"phone"`
	Email          string  `json:"email" validate:"omitempty,email"`
}

type DebtorResponse struct {
	Id              uuid.UUID  `json:"id"`
	DocumentType    string     `json:"document_type"`
	DocumentNumber  string     `json:"document_number"`
	FullName        string     `json:"full_name"`
	CompanyName     string     `json:"company_name,omitempty"`
	TotalDebt       float64    `json:"total_debt"`
	DueDate         *time.Time `json:"due_date"`
	Phone           string     `json:"phone,omitempty"`
	Email           string     `json:"email,omitempty"`
	LastContactedAt *time.Time `json:"last_contacted_at"`
	CreatedAt       time.Time  `json:"created_at"`
}

type DebtorListResponse struct {
	Debtors []DebtorResponse `json:"debtors"`
	Total   int64            `json:"total"`
}
