// Package users implements the user store over PostgreSQL.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophaccounts/internal/common"
	"github.com/dmitrijs2005/gophaccounts/internal/dbx"
	"github.com/dmitrijs2005/gophaccounts/internal/server/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

const userColumns = `id, email, password_hash, verified, role, name, surname, created_at, updated_at`

const (
	insertUserQuery = `INSERT INTO users (` + userColumns + `)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	selectByIDQuery = `SELECT ` + userColumns + ` FROM users
		 WHERE id = $1`

	selectByEmailQuery = `SELECT ` + userColumns + ` FROM users
		 WHERE email = $1`

	selectAllQuery = `SELECT ` + userColumns + ` FROM users
		 ORDER BY created_at, id`

	updateUserQuery = `UPDATE users SET
		 email = COALESCE($2, email),
		 name = COALESCE($3, name),
		 surname = COALESCE($4, surname),
		 role = COALESCE($5, role),
		 updated_at = $6
		 WHERE id = $1
		 RETURNING ` + userColumns

	markVerifiedQuery = `UPDATE users SET verified = TRUE, updated_at = $2
		 WHERE id = $1 AND verified = FALSE`

	deleteUserQuery = `DELETE FROM users WHERE id = $1`

	deleteStaleUnverifiedQuery = `DELETE FROM users
		 WHERE verified = FALSE AND created_at < $1`
)

type PostgresRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db, now: time.Now}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u    models.User
		role string
	)
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Verified, &role, &u.Name, &u.Surname, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.Role = models.Role(role)
	return &u, nil
}

func (r *PostgresRepository) Add(ctx context.Context, user *models.User) (*models.User, error) {
	u := *user
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	now := r.now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, insertUserQuery,
		u.ID, u.Email, u.PasswordHash, u.Verified, string(u.Role), u.Name, u.Surname, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("email %q: %w", u.Email, common.ErrAlreadyExists)
		}
		return nil, common.NewStorageError("users.add", err)
	}

	return &u, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	// a malformed id cannot match any row
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	return r.getOne(ctx, "users.get_by_id", selectByIDQuery, id)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, "users.get_by_email", selectByEmailQuery, email)
}

func (r *PostgresRepository) getOne(ctx context.Context, op, query string, arg any) (*models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, common.NewStorageError(op, err)
	}
	return user, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, selectAllQuery)
	if err != nil {
		return nil, common.NewStorageError("users.list", err)
	}
	defer rows.Close()

	result := make([]*models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, common.NewStorageError("users.list", err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewStorageError("users.list", err)
	}

	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	var role any
	if upd.Role != nil {
		role = string(*upd.Role)
	}

	row := r.db.QueryRowContext(ctx, updateUserQuery,
		id, optional(upd.Email), optional(upd.Name), optional(upd.Surname), role, r.now().UTC())

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("email: %w", common.ErrAlreadyExists)
		}
		return nil, common.NewStorageError("users.update", err)
	}

	return user, nil
}

func (r *PostgresRepository) MarkVerified(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, markVerifiedQuery, id, r.now().UTC())
	if err != nil {
		return false, common.NewStorageError("users.mark_verified", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, common.NewStorageError("users.mark_verified", err)
	}
	return n == 1, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deleteUserQuery, id)
	if err != nil {
		return common.NewStorageError("users.delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return common.NewStorageError("users.delete", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteStaleUnverified(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := r.now().UTC().Add(-retention)

	res, err := r.db.ExecContext(ctx, deleteStaleUnverifiedQuery, cutoff)
	if err != nil {
		return 0, common.NewStorageError("users.delete_stale_unverified", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, common.NewStorageError("users.delete_stale_unverified", err)
	}
	return n, nil
}

func optional(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
