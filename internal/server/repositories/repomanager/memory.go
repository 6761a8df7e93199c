package repomanager

import (
	"context"

	"github.com/dmitrijs2005/gophaccounts/internal/common"
	"github.com/dmitrijs2005/gophaccounts/internal/server/repositories/users"
)

// MemoryUnitOfWork runs units of work against an in-process user table.
type MemoryUnitOfWork struct {
	table *users.MemoryTable
}

func NewMemoryUnitOfWork(table *users.MemoryTable) *MemoryUnitOfWork {
	return &MemoryUnitOfWork{table: table}
}

func (u *MemoryUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	if ctx.Value(txMarker{}) != nil {
		return common.ErrNestedTransaction
	}

	return u.table.Tx(func(repo *users.MemoryRepository) error {
		ctx := context.WithValue(ctx, txMarker{}, true)
		return fn(ctx, &txRepositories{users: repo})
	})
}
