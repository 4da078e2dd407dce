package unitofwork

import (
	"context"
	"fmt"

	"hcp-chatbot-be/internal/repository/contract"
)

// UnitOfWork hands out repositories that share one optional transaction.
// Outside Begin/Commit every repository reads on the pooled connection.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	VersionRepository() contract.VersionRepository
	DocumentChunkRepository() contract.DocumentChunkRepository
	TurnLogRepository() contract.TurnLogRepository
}

type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}

// Transact runs fn inside a fresh transaction and commits when fn returns
// nil. Any error from fn, or a panic, rolls the transaction back.
func Transact(ctx context.Context, factory RepositoryFactory, fn func(uow UnitOfWork) error) (err error) {
	uow := factory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := uow.Rollback(); rbErr != nil && err == nil {
			err = rbErr
		}
	}()

	if err = fn(uow); err != nil {
		return err
	}
	if err = uow.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	committed = true
	return nil
}
