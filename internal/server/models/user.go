// Package models defines server-side data models persisted in the database
// and the projections handed to callers.
package models

import (
	"time"

	"github.com/dmitrijs2005/gophaccounts/internal/common"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// ParseRole maps a raw role string to a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", common.ErrInvalidInput
	}
	return r, nil
}

// User is the stored account record. PasswordHash always holds the output of
// the password hasher, never a plaintext password.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Verified     bool
	Role         Role
	Name         string
	Surname      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// View returns the public projection of the record.
func (u *User) View() UserView {
	return UserView{
		ID:        u.ID,
		Email:     u.Email,
		Verified:  u.Verified,
		Role:      u.Role,
		Name:      u.Name,
		Surname:   u.Surname,
		CreatedAt: u.CreatedAt,
	}
}

// UserView is what leaves the service layer; it has no password hash.
type UserView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Verified  bool      `json:"is_verified"`
	Role      Role      `json:"role"`
	Name      string    `json:"name"`
	Surname   string    `json:"surname"`
	CreatedAt time.Time `json:"created_at"`
}

// UserUpdate lists the fields a profile update may change. A nil field is
// left untouched.
type UserUpdate struct {
	Email   *string `json:"email,omitempty"`
	Name    *string `json:"name,omitempty"`
	Surname *string `json:"surname,omitempty"`
	Role    *Role   `json:"role,omitempty"`
}

func (u UserUpdate) Empty() bool {
	return u.Email == nil && u.Name == nil && u.Surname == nil && u.Role == nil
}

// SignupInput carries the fields of a new account.
type SignupInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Role     Role   `json:"role,omitempty"`
}

// Actor is the authenticated caller of a user-management operation.
type Actor struct {
	ID   string
	Role Role
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// DeleteResult confirms which account was removed.
type DeleteResult struct {
	ID string `json:"id"`
}
