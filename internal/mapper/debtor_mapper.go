package mapper

import (
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/entity"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/model"
)

type DebtorMapper struct{}

func NewDebtorMapper() *DebtorMapper {
	return &DebtorMapper{}
}

func (m *DebtorMapper) ToEntity(d *model.Debtor) *entity.Debtor {
	if d == nil {
		return nil
	}
	return &entity.Debtor{
		Id:              d.Id,
		DocumentType:    d.DocumentType,
		DocumentNumber:  d.DocumentNumber,
		FullName:        d.FullName,
		CompanyName:     d.CompanyName,
		TotalDebt:       d.TotalDebt,
		DueDate:         d.DueDate,
		Phone:           d.Phone,
		Email:           d.Email,
		LastContactedAt: d.LastContactedAt,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       timePtr(d.UpdatedAt),
	}
}

func (m *DebtorMapper) ToModel(d *entity.Debtor) *model.Debtor {
	if d == nil {
		return nil
	}
	return &model.Debtor{
		Id:              d.Id,
		DocumentType:    d.DocumentType,
		DocumentNumber:  d.DocumentNumber,
		FullName:        d.FullName,
		CompanyName:     d.CompanyName,
		TotalDebt:       d.TotalDebt,
		DueDate:         d.DueDate,
		Phone:           d.Phone,
		Email:           d.Email,
		LastContactedAt: d.LastContactedAt,
	}
}
