package contract

import (
	"context"

	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/entity"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/repository/specification"

	"github.com/google/uuid"
)

type DebtorRepository interface {
	Create(ctx context.Context, debtor *entity.Debtor) error
	Update(ctx context.Context, debtor *entity.Debtor) error
	TouchLastContacted(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Debtor, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Debtor, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
