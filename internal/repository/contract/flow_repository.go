package contract

import (
	"context"

	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/entity"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/repository/specification"

	"github.com/google/uuid"
)

type FlowRepository interface {
	Create(ctx context.Context, flow *entity.Flow) error
	Update(ctx context.Context, flow *entity.Flow) error
	Delete(ctx context.Context, id uuid.UUID) error
	ReplaceNodes(ctx context.Context, flowId uuid.UUID, nodes []*entity.Node) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Flow, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Flow, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
