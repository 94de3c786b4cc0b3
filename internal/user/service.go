package user

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/emiliohtp1/tienda-backend/internal/domain"
)

type Service struct {
	repo Repository
	log  *zap.Logger
}

func NewService(repo Repository, log *zap.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Register creates a new active user. An empty role defaults to basic.
func (s *Service) Register(ctx context.Context, username, password string, role domain.Role) (*domain.User, error) {
	if role == "" {
		role = domain.RoleBasic
	}
	if _, err := domain.ParseRole(string(role)); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}

	if err := s.repo.Insert(ctx, u); err != nil {
		return nil, err
	}

	s.log.Info("user registered", zap.String("username", username), zap.String("role", string(role)))
	return u, nil
}

// Authenticate verifies credentials against the stored hash. Inactive users
// and unknown usernames fail the same way as a wrong password so callers
// cannot probe which accounts exist.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	u, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !u.IsActive {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

// ResolveRole returns the role for the given username.
func (s *Service) ResolveRole(ctx context.Context, username string) (domain.Role, error) {
	u, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	return u.Role, nil
}

func (s *Service) List(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

// UpdateRole reassigns an existing user's role.
func (s *Service) UpdateRole(ctx context.Context, username string, role domain.Role) error {
	if _, err := domain.ParseRole(string(role)); err != nil {
		return err
	}
	return s.repo.UpdateRole(ctx, username, role)
}
