package models

import (
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophaccounts/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	r, err := ParseRole("admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)

	r, err = ParseRole("user")
	require.NoError(t, err)
	assert.Equal(t, RoleUser, r)

	_, err = ParseRole("Admin")
	assert.True(t, errors.Is(err, common.ErrInvalidInput))
	_, err = ParseRole("")
	assert.True(t, errors.Is(err, common.ErrInvalidInput))
}

func TestUser_ViewOmitsHash(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	u := &User{
		ID: "u-1", Email: "a@x.com", PasswordHash: "$argon2id$...", Verified: true,
		Role: RoleAdmin, Name: "Ann", Surname: "Lee", CreatedAt: created,
	}

	v := u.View()
	assert.Equal(t, UserView{
		ID: "u-1", Email: "a@x.com", Verified: true, Role: RoleAdmin,
		Name: "Ann", Surname: "Lee", CreatedAt: created,
	}, v)
	assert.True(t, u.IsAdmin())
}

func TestUserUpdate_Empty(t *testing.T) {
	assert.True(t, UserUpdate{}.Empty())
	name := "Bo"
	assert.False(t, UserUpdate{Name: &name}.Empty())
}
