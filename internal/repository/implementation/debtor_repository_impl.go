package implementation

import (
	"context"
	"errors"
	"time"

	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/entity"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/mapper"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/model"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/repository/contract"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DebtorRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DebtorMapper
}

func NewDebtorRepository(db *gorm.DB) contract.DebtorRepository {
	return &DebtorRepositoryImpl{
		db:     db,
		mapper: mapper.NewDebtorMapper(),
	}
}

func (r *DebtorRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *DebtorRepositoryImpl) Create(ctx context.Context, debtor *entity.Debtor) error {
	m := r.mapper.ToModel(debtor)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*debtor = *r.mapper.ToEntity(m)
	return nil
}

func (r *DebtorRepositoryImpl) Update(ctx context.Context, debtor *entity.Debtor) error {
	m := r.mapper.ToModel(debtor)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*debtor = *r.mapper.ToEntity(m)
	return nil
}

func (r *DebtorRepositoryImpl) TouchLastContacted(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Debtor{}).
		Where("id = ?", id).
		Update("last_contacted_at", time.Now()).Error
}

func (r *DebtorRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Debtor, error) {
	var m model.Debtor
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *DebtorRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Debtor, error) {
	var models []*model.Debtor
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Debtor, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *DebtorRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Debtor{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
