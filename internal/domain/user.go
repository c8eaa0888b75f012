package domain

import (
	"context"
	"fmt"
	"time"
)

// Role is the closed set of application roles.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// ParseRole maps a string to a Role, rejecting anything outside the closed set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleStudent:
		return RoleStudent, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// User represents a registered account (student or admin).
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	Department   string    `json:"department,omitempty"`
	Year         string    `json:"year,omitempty"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser returns a new User. ID is set by the repository on create.
func NewUser(email, name, phone, department, year string, role Role, passwordHash string, createdAt time.Time) *User {
	return &User{
		Email:        email,
		Name:         name,
		Phone:        phone,
		Department:   department,
		Year:         year,
		Role:         role,
		PasswordHash: passwordHash,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
}

// Identity is the authenticated caller extracted from a verified token.
type Identity struct {
	UserID string
	Role   Role
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer issues signed tokens for an authenticated user.
type TokenIssuer interface {
	Issue(userID string, role Role, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the caller's identity.
// It returns ErrTokenExpired or ErrTokenInvalid on failure.
type TokenVerifier interface {
	Verify(token string) (*Identity, error)
}

// UserRepository defines the interface for user storage.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}

// SignUpParams carries the fields accepted at account creation.
type SignUpParams struct {
	Email      string
	Password   string
	Name       string
	Phone      string
	Department string
	Year       string
	Role       Role
	AdminCode  string
}

// AuthService defines signup and login.
type AuthService interface {
	SignUp(ctx context.Context, params SignUpParams) (*User, error)
	Login(ctx context.Context, email, password string) (token string, user *User, err error)
}
