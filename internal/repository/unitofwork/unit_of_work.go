package unitofwork

import (
	"context"

	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	FlowRepository() contract.FlowRepository
	ChatRepository() contract.ChatRepository
	ChatMessageRepository() contract.ChatMessageRepository
	DebtorRepository() contract.DebtorRepository
	UserRepository() contract.UserRepository
}
