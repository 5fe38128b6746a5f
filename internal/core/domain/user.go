package domain

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("credentials are not valid")
)

// User models an account owned by the credential service.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	PasswordHash string    `json:"-"`
	Active       bool      `json:"is_active"`
	Roles        []Role    `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity projects the user onto the principal consumed by the guard.
func (u *User) Identity() *Identity {
	roles := make([]Role, len(u.Roles))
	copy(roles, u.Roles)
	return &Identity{
		ID:     u.ID,
		Email:  u.Email,
		Active: u.Active,
		Roles:  roles,
	}
}

// Identity is a resolved principal. The core only reads it.
type Identity struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Active bool   `json:"is_active"`
	Roles  []Role `json:"roles"`
}

// HasAnyRole reports whether the identity holds at least one of roles.
func (i *Identity) HasAnyRole(roles ...Role) bool {
	for _, held := range i.Roles {
		for _, r := range roles {
			if held == r {
				return true
			}
		}
	}
	return false
}
