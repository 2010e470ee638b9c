package implementation

import (
	"context"
	"errors"

	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/entity"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/mapper"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/model"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/repository/contract"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FlowRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.FlowMapper
}

func NewFlowRepository(db *gorm.DB) contract.FlowRepository {
	return &FlowRepositoryImpl{
		db:     db,
		mapper: mapper.NewFlowMapper(),
	}
}

func (r *FlowRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *FlowRepositoryImpl) Create(ctx context.Context, flow *entity.Flow) error {
	m := r.mapper.ToModel(flow)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*flow = *r.mapper.ToEntity(m)
	return nil
}

func (r *FlowRepositoryImpl) Update(ctx context.Context, flow *entity.Flow) error {
	m := r.mapper.ToModel(flow)
	// Nodes are replaced through ReplaceNodes; Save here only touches the flow row.
	if err := r.db.WithContext(ctx).Omit("Nodes").Save(m).Error; err != nil {
		return err
	}
	return nil
}

func (r *FlowRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Flow{}, id).Error
}

func (r *FlowRepositoryImpl) ReplaceNodes(ctx context.Context, flowId uuid.UUID, nodes []*entity.Node) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("flow_id = ?", flowId).Delete(&model.FlowNode{}).Error; err != nil {
			return err
		}
		for _, n := range nodes {
			m := r.mapper.NodeToModel(n)
			m.FlowId = flowId
			if err := tx.Create(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *FlowRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Flow, error) {
	var m model.Flow
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *FlowRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Flow, error) {
	var models []*model.Flow
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Flow, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *FlowRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Flow{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
