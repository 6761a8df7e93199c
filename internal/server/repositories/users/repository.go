package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophaccounts/internal/server/models"
)

// Repository is the user store. Lookups return (nil, nil) when the record is
// absent; backend faults come back as *common.StorageError.
type Repository interface {
	Add(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	// Update applies only the non-nil fields of upd.
	Update(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error)
	// MarkVerified flips verified to true and reports whether this call did it.
	MarkVerified(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
	// DeleteStaleUnverified removes unverified users created more than
	// retention ago, in one statement, and returns how many were removed.
	DeleteStaleUnverified(ctx context.Context, retention time.Duration) (int64, error)
}
