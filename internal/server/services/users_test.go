package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/gophaccounts/internal/common"
	"github.com/dmitrijs2005/gophaccounts/internal/logging"
	"github.com/dmitrijs2005/gophaccounts/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserFixture(t *testing.T) (*authFixture, *UserService) {
	t.Helper()
	f := newAuthFixture(t)
	return f, NewUserService(f.uow, logging.Nop())
}

func ptr[T any](v T) *T { return &v }

func TestListAll(t *testing.T) {
	f, svc := newUserFixture(t)
	ctx := context.Background()
	admin := models.Actor{ID: "admin", Role: models.RoleAdmin}

	list, err := svc.ListAll(ctx, admin)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	f.seedUser(t, "a@x.com", "password123", true, models.RoleUser)
	f.seedUser(t, "b@x.com", "password123", false, models.RoleUser)

	list, err = svc.ListAll(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = svc.ListAll(ctx, models.Actor{ID: "x", Role: models.RoleUser})
	assert.ErrorIs(t, err, common.ErrPermissionDenied)
}

func TestGetByID(t *testing.T) {
	f, svc := newUserFixture(t)
	ctx := context.Background()
	u := f.seedUser(t, "a@x.com", "password123", true, models.RoleUser)

	view, err := svc.GetByID(ctx, u.ID, models.Actor{Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", view.Email)

	_, err = svc.GetByID(ctx, "missing", models.Actor{Role: models.RoleAdmin})
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = svc.GetByID(ctx, u.ID, models.Actor{ID: u.ID, Role: models.RoleUser})
	assert.ErrorIs(t, err, common.ErrPermissionDenied)
}

func TestDeleteByID(t *testing.T) {
	f, svc := newUserFixture(t)
	ctx := context.Background()
	u := f.seedUser(t, "a@x.com", "password123", true, models.RoleUser)

	_, err := svc.DeleteByID(ctx, u.ID, models.Actor{ID: u.ID, Role: models.RoleUser})
	assert.ErrorIs(t, err, common.ErrPermissionDenied, "non-admins cannot delete, not even themselves")
	assert.Equal(t, 1, f.size())

	res, err := svc.DeleteByID(ctx, u.ID, models.Actor{ID: "admin", Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.ID)
	assert.Zero(t, f.size())

	_, err = svc.DeleteByID(ctx, u.ID, models.Actor{ID: "admin", Role: models.RoleAdmin})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdateByID_SelfCannotChangeRole(t *testing.T) {
	f, svc := newUserFixture(t)
	u := f.seedUser(t, "a@x.com", "password123", true, models.RoleUser)
	self := models.Actor{ID: u.ID, Role: models.RoleUser}

	view, err := svc.UpdateByID(context.Background(), u.ID, models.UserUpdate{
		Name: ptr("Ann"), Role: ptr(models.RoleAdmin),
	}, self)
	require.NoError(t, err)
	assert.Equal(t, "Ann", view.Name)
	assert.Equal(t, models.RoleUser, view.Role)

	stored, _ := f.byEmail(t, "a@x.com")
	assert.Equal(t, models.RoleUser, stored.Role)
}

func TestUpdateByID_RoleOnlyFromSelfIsNoop(t *testing.T) {
	f, svc := newUserFixture(t)
	u := f.seedUser(t, "a@x.com", "password123", true, models.RoleUser)

	view, err := svc.UpdateByID(context.Background(), u.ID, models.UserUpdate{Role: ptr(models.RoleAdmin)},
		models.Actor{ID: u.ID, Role: models.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, view.Role)
}

func TestUpdateByID_Authorization(t *testing.T) {
	f, svc := newUserFixture(t)
	ctx := context.Background()
	a := f.seedUser(t, "a@x.com", "password123", true, models.RoleUser)
	b := f.seedUser(t, "b@x.com", "password123", true, models.RoleUser)

	_, err := svc.UpdateByID(ctx, b.ID, models.UserUpdate{Name: ptr("x")}, models.Actor{ID: a.ID, Role: models.RoleUser})
	assert.ErrorIs(t, err, common.ErrPermissionDenied)

	_, err = svc.UpdateByID(ctx, "missing", models.UserUpdate{Name: ptr("x")}, models.Actor{ID: a.ID, Role: models.RoleUser})
	assert.ErrorIs(t, err, common.ErrNotFound)

	view, err := svc.UpdateByID(ctx, b.ID, models.UserUpdate{Role: ptr(models.RoleAdmin)}, models.Actor{ID: "admin", Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, view.Role)
}

func TestUpdateByID_Validation(t *testing.T) {
	f, svc := newUserFixture(t)
	ctx := context.Background()
	a := f.seedUser(t, "a@x.com", "password123", true, models.RoleUser)
	f.seedUser(t, "b@x.com", "password123", true, models.RoleUser)
	admin := models.Actor{ID: "admin", Role: models.RoleAdmin}

	_, err := svc.UpdateByID(ctx, a.ID, models.UserUpdate{Role: ptr(models.Role("root"))}, admin)
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = svc.UpdateByID(ctx, a.ID, models.UserUpdate{Email: ptr("nope")}, admin)
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = svc.UpdateByID(ctx, a.ID, models.UserUpdate{Email: ptr("")}, admin)
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = svc.UpdateByID(ctx, a.ID, models.UserUpdate{Email: ptr("b@x.com")}, admin)
	assert.ErrorIs(t, err, common.ErrAlreadyExists)

	stored, _ := f.byEmail(t, "a@x.com")
	assert.Equal(t, a.ID, stored.ID, "failed update leaves the record untouched")
}
