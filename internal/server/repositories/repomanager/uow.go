package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophaccounts/internal/common"
	"github.com/dmitrijs2005/gophaccounts/internal/dbx"
	"github.com/dmitrijs2005/gophaccounts/internal/server/repositories/users"
)

type txMarker struct{}

type txRepositories struct {
	users users.Repository
}

func (r *txRepositories) Users() users.Repository { return r.users }

// SQLUnitOfWork opens one database/sql transaction per Do call and hands
// fn the repositories bound to it. The transaction is detached from the
// caller's cancellation: once started it always ends in commit or rollback
// decided by fn, even if the caller has gone away.
type SQLUnitOfWork struct {
	db      *sql.DB
	manager RepositoryManager
	opts    *sql.TxOptions
}

func NewUnitOfWork(db *sql.DB, manager RepositoryManager) *SQLUnitOfWork {
	return &SQLUnitOfWork{db: db, manager: manager}
}

// WithTxOptions sets the options used for every transaction (isolation level).
func (u *SQLUnitOfWork) WithTxOptions(opts *sql.TxOptions) *SQLUnitOfWork {
	u.opts = opts
	return u
}

func (u *SQLUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	if ctx.Value(txMarker{}) != nil {
		return common.ErrNestedTransaction
	}

	return dbx.WithTx(context.WithoutCancel(ctx), u.db, u.opts, func(ctx context.Context, tx dbx.DBTX) error {
		ctx = context.WithValue(ctx, txMarker{}, true)
		return fn(ctx, &txRepositories{users: u.manager.Users(tx)})
	})
}
