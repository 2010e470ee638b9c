// FILE: internal/service/debtor_service.go
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/dto"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/entity"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/repository/specification"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/repository/unitofwork"
)

type IDebtorService interface {
	Create(ctx context.Context, req *dto.CreateDebtorRequest) (*dto.DebtorResponse, error)
	List(ctx context.Context, limit, offset int) (*dto.DebtorListResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.DebtorResponse, error)

	// Engine gateway contract for the document-capture lookup.
	FindByDocument(ctx context.Context, documentType, documentNumber string) (*entity.Debtor, error)
	TouchLastContacted(ctx context.Context, debtorId uuid.UUID) error
}

type debtorService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewDebtorService(uowFactory unitofwork.RepositoryFactory) IDebtorService {
	return &debtorService{uowFactory: uowFactory}
}

func (s *debtorService) Create(ctx context.Context, req *dto.CreateDebtorRequest) (*dto.DebtorResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.DebtorRepository().FindOne(ctx, specification.ByDocument{
		DocumentType:   req.DocumentType,
		DocumentNumber: req.DocumentNumber,
	})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.New("debtor already registered for that document")
	}

	debtor := &entity.Debtor{
		Id:             uuid.New(),
		DocumentType:   req.DocumentType,
		DocumentNumber: req.DocumentNumber,
		FullName:       req.FullName,
		CompanyName:    req.CompanyName,
		TotalDebt:      req.TotalDebt,
		Phone:          req.Phone,
		Email:          req.Email,
		CreatedAt:      time.Now(),
	}
	if req.DueDate != nil {
		due, parseErr := time.Parse("2006-01-02", *req.DueDate)
		if parseErr != nil {
			return nil, errors.New("due_date must be YYYY-MM-DD")
		}
		debtor.DueDate = &due
	}

	if err := uow.DebtorRepository().Create(ctx, debtor); err != nil {
		return nil, err
	}

	res := toDebtorResponse(debtor)
	return &res, nil
}

func (s *debtorService) List(ctx context.Context, limit, offset int) (*dto.DebtorListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.OrderBy{Field: "created_at", Desc: true},
	}
	if limit > 0 {
		specs = append(specs, specification.Pagination{Limit: limit, Offset: offset})
	}

	debtors, err := uow.DebtorRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	total, err := uow.DebtorRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.DebtorResponse, 0, len(debtors))
	for _, d := range debtors {
		out = append(out, toDebtorResponse(d))
	}
	return &dto.DebtorListResponse{Debtors: out, Total: total}, nil
}

func (s *debtorService) Show(ctx context.Context, id uuid.UUID) (*dto.DebtorResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	debtor, err := uow.DebtorRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if debtor == nil {
		return nil, errors.New("debtor not found")
	}

	res := toDebtorResponse(debtor)
	return &res, nil
}

func (s *debtorService) FindByDocument(ctx context.Context, documentType, documentNumber string) (*entity.Debtor, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.DebtorRepository().FindOne(ctx, specification.ByDocument{
		DocumentType:   documentType,
		DocumentNumber: documentNumber,
	})
}

func (s *debtorService) TouchLastContacted(ctx context.Context, debtorId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.DebtorRepository().TouchLastContacted(ctx, debtorId)
}

func toDebtorResponse(d *entity.Debtor) dto.DebtorResponse {
	return dto.DebtorResponse{
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
	}
}
