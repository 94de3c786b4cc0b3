package user

import (
	"context"
	"errors"

	"github.com/emiliohtp1/tienda-backend/internal/domain"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Repository interface {
	// FindByUsername returns the user or ErrUserNotFound.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)

	// Insert stores a new user, returning ErrUserExists on a duplicate
	// username.
	Insert(ctx context.Context, u *domain.User) error

	// List returns all active users.
	List(ctx context.Context) ([]*domain.User, error)

	// UpdateRole changes an existing user's role.
	UpdateRole(ctx context.Context, username string, role domain.Role) error
}
