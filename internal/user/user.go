package user

import (
	"errors"
	"time"
)

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrAlreadyExists = errors.New("email already in use")
)

// User is a library member or admin. The password hash never serializes.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
