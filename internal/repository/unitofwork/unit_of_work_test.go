package unitofwork

import (
	"context"
	"errors"
	"testing"

	"hcp-chatbot-be/internal/repository/contract"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost"}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	if err != nil {
		t.Skipf("gorm dry run unavailable: %v", err)
	}
	return db
}

func TestUnitOfWork_CommitWithoutBegin(t *testing.T) {
	uow := NewRepositoryFactory(dryRunDB(t)).NewUnitOfWork(context.Background())

	assert.ErrorIs(t, uow.Commit(), ErrNoTx)
	assert.ErrorIs(t, uow.Rollback(), ErrNoTx)
}

func TestUnitOfWork_Accessors(t *testing.T) {
	uow := NewRepositoryFactory(dryRunDB(t)).NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.VersionRepository())
	assert.NotNil(t, uow.DocumentChunkRepository())
	assert.NotNil(t, uow.TurnLogRepository())
}

type recordingUoW struct {
	calls     []string
	beginErr  error
	commitErr error
}

func (u *recordingUoW) Begin(context.Context) error {
	u.calls = append(u.calls, "begin")
	return u.beginErr
}

func (u *recordingUoW) Commit() error {
	u.calls = append(u.calls, "commit")
	return u.commitErr
}

func (u *recordingUoW) Rollback() error {
	u.calls = append(u.calls, "rollback")
	return nil
}

func (u *recordingUoW) VersionRepository() contract.VersionRepository             { return nil }
func (u *recordingUoW) DocumentChunkRepository() contract.DocumentChunkRepository { return nil }
func (u *recordingUoW) TurnLogRepository() contract.TurnLogRepository             { return nil }

type staticFactory struct{ uow *recordingUoW }

func (f staticFactory) NewUnitOfWork(context.Context) UnitOfWork { return f.uow }

func TestTransact(t *testing.T) {
	ctx := context.Background()

	t.Run("commits on success", func(t *testing.T) {
		uow := &recordingUoW{}
		require.NoError(t, Transact(ctx, staticFactory{uow}, func(UnitOfWork) error { return nil }))
		assert.Equal(t, []string{"begin", "commit"}, uow.calls)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		uow := &recordingUoW{}
		boom := errors.New("boom")
		err := Transact(ctx, staticFactory{uow}, func(UnitOfWork) error { return boom })
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, []string{"begin", "rollback"}, uow.calls)
	})

	t.Run("rolls back on failed commit", func(t *testing.T) {
		uow := &recordingUoW{commitErr: errors.New("serialization failure")}
		err := Transact(ctx, staticFactory{uow}, func(UnitOfWork) error { return nil })
		assert.ErrorContains(t, err, "commit transaction")
		assert.Equal(t, []string{"begin", "commit", "rollback"}, uow.calls)
	})

	t.Run("begin failure skips fn", func(t *testing.T) {
		uow := &recordingUoW{beginErr: errors.New("pool closed")}
		called := false
		err := Transact(ctx, staticFactory{uow}, func(UnitOfWork) error { called = true; return nil })
		assert.ErrorContains(t, err, "begin transaction")
		assert.False(t, called)
	})

	t.Run("rolls back on panic", func(t *testing.T) {
		uow := &recordingUoW{}
		assert.Panics(t, func() {
			_ = Transact(ctx, staticFactory{uow}, func(UnitOfWork) error { panic("bad chunk") })
		})
		assert.Equal(t, []string{"begin", "rollback"}, uow.calls)
	})
}
