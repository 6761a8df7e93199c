package services

import (
	"context"

	"github.com/dmitrijs2005/gophaccounts/internal/common"
	"github.com/dmitrijs2005/gophaccounts/internal/logging"
	"github.com/dmitrijs2005/gophaccounts/internal/server/models"
	"github.com/dmitrijs2005/gophaccounts/internal/server/repositories/repomanager"
)

// UserService manages account records on behalf of an authenticated actor.
// Listing, reading and deleting arbitrary accounts is reserved to admins;
// updates are allowed to admins and to the account owner.
type UserService struct {
	uow    repomanager.UnitOfWork
	logger logging.Logger
}

func NewUserService(uow repomanager.UnitOfWork, logger logging.Logger) *UserService {
	return &UserService{uow: uow, logger: logger.With("module", "users")}
}

// ListAll returns every account; an empty store yields an empty slice.
func (s *UserService) ListAll(ctx context.Context, actor models.Actor) ([]models.UserView, error) {
	if !actor.IsAdmin() {
		return nil, common.ErrPermissionDenied
	}

	var list []*models.User
	err := s.uow.Do(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		var err error
		list, err = repos.Users().List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	views := make([]models.UserView, 0, len(list))
	for _, u := range list {
		views = append(views, u.View())
	}
	return views, nil
}

func (s *UserService) GetByID(ctx context.Context, id string, actor models.Actor) (*models.UserView, error) {
	if !actor.IsAdmin() {
		return nil, common.ErrPermissionDenied
	}

	var user *models.User
	err := s.uow.Do(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		var err error
		user, err = repos.Users().GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.ErrNotFound
	}

	view := user.View()
	return &view, nil
}

func (s *UserService) DeleteByID(ctx context.Context, id string, actor models.Actor) (*models.DeleteResult, error) {
	if !actor.IsAdmin() {
		return nil, common.ErrPermissionDenied
	}

	err := s.uow.Do(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		user, err := repos.Users().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if user == nil {
			return common.ErrNotFound
		}
		return repos.Users().Delete(ctx, user.ID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "account deleted", "user_id", id, "actor_id", actor.ID)
	return &models.DeleteResult{ID: id}, nil
}

// UpdateByID applies upd to the target account. A non-admin may only update
// their own account, and any role change they send is dropped.
func (s *UserService) UpdateByID(ctx context.Context, targetID string, upd models.UserUpdate, actor models.Actor) (*models.UserView, error) {
	if err := validateUpdate(upd); err != nil {
		return nil, err
	}

	var updated *models.User
	err := s.uow.Do(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		target, err := repos.Users().GetByID(ctx, targetID)
		if err != nil {
			return err
		}
		if target == nil {
			return common.ErrNotFound
		}
		if !actor.IsAdmin() {
			if actor.ID != target.ID {
				return common.ErrPermissionDenied
			}
			upd.Role = nil
		}
		if upd.Empty() {
			updated = target
			return nil
		}

		updated, err = repos.Users().Update(ctx, target.ID, upd)
		if err != nil {
			return err
		}
		if updated == nil {
			return common.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	view := updated.View()
	return &view, nil
}
