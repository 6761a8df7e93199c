package repomanager

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/gophaccounts/internal/common"
	"github.com/dmitrijs2005/gophaccounts/internal/server/models"
	"github.com/dmitrijs2005/gophaccounts/internal/server/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ UnitOfWork = (*MemoryUnitOfWork)(nil)
var _ UnitOfWork = (*SQLUnitOfWork)(nil)

func TestMemoryUnitOfWork(t *testing.T) {
	table := users.NewMemoryTable()
	uow := NewMemoryUnitOfWork(table)
	ctx := context.Background()
	boom := errors.New("boom")

	err := uow.Do(ctx, func(ctx context.Context, repos Repositories) error {
		if _, err := repos.Users().Add(ctx, &models.User{Email: "a@x.com"}); err != nil {
			return err
		}
		return boom
	})
	assert.Same(t, boom, err)
	assert.Zero(t, table.Len())

	err = uow.Do(ctx, func(ctx context.Context, repos Repositories) error {
		_, err := repos.Users().Add(ctx, &models.User{Email: "a@x.com"})
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())

	err = uow.Do(ctx, func(ctx context.Context, repos Repositories) error {
		return uow.Do(ctx, func(context.Context, Repositories) error { return nil })
	})
	assert.ErrorIs(t, err, common.ErrNestedTransaction)
}
