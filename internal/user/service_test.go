package user

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/emiliohtp1/tienda-backend/internal/domain"
)

type mockRepository struct {
	m     sync.RWMutex
	users map[string]*domain.User
	err   error
}

func newMockRepository(users ...*domain.User) *mockRepository {
	m := &mockRepository{users: make(map[string]*domain.User)}
	for _, u := range users {
		m.users[u.Username] = u
	}
	return m
}

func (m *mockRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *mockRepository) Insert(_ context.Context, u *domain.User) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, exists := m.users[u.Username]; exists {
		return ErrUserExists
	}
	m.users[u.Username] = u
	return nil
}

func (m *mockRepository) List(context.Context) ([]*domain.User, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	out := make([]*domain.User, 0, len(m.users))
	for _, u := range m.users {
		if u.IsActive {
			copied := *u
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockRepository) UpdateRole(_ context.Context, username string, role domain.Role) error {
	m.m.Lock()
	defer m.m.Unlock()
	u, ok := m.users[username]
	if !ok {
		return ErrUserNotFound
	}
	u.Role = role
	return nil
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestRegister_DefaultsToBasicRole(t *testing.T) {
	repo := newMockRepository()
	sut := NewService(repo, zap.NewNop())

	u, err := sut.Register(context.Background(), "ana@tienda.com", "secreto123", "")
	require.NoError(t, err)

	assert.Equal(t, domain.RoleBasic, u.Role)
	assert.True(t, u.IsActive)
	assert.NotEqual(t, "secreto123", u.PasswordHash)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	repo := newMockRepository(&domain.User{Username: "ana@tienda.com", IsActive: true})
	sut := NewService(repo, zap.NewNop())

	_, err := sut.Register(context.Background(), "ana@tienda.com", "secreto123", domain.RoleBasic)
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestRegister_InvalidRole(t *testing.T) {
	sut := NewService(newMockRepository(), zap.NewNop())

	_, err := sut.Register(context.Background(), "ana@tienda.com", "secreto123", "superuser")
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}

func TestAuthenticate_Success(t *testing.T) {
	repo := newMockRepository(&domain.User{
		Username:     "ana@tienda.com",
		PasswordHash: hashOf(t, "secreto123"),
		Role:         domain.RoleEditor,
		IsActive:     true,
	})
	sut := NewService(repo, zap.NewNop())

	u, err := sut.Authenticate(context.Background(), "ana@tienda.com", "secreto123")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleEditor, u.Role)
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	repo := newMockRepository(&domain.User{
		Username:     "ana@tienda.com",
		PasswordHash: hashOf(t, "secreto123"),
		IsActive:     true,
	})
	sut := NewService(repo, zap.NewNop())

	_, err := sut.Authenticate(context.Background(), "ana@tienda.com", "incorrecta")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_UnknownUser(t *testing.T) {
	sut := NewService(newMockRepository(), zap.NewNop())

	_, err := sut.Authenticate(context.Background(), "nadie@tienda.com", "secreto123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_InactiveUser(t *testing.T) {
	repo := newMockRepository(&domain.User{
		Username:     "ana@tienda.com",
		PasswordHash: hashOf(t, "secreto123"),
		IsActive:     false,
	})
	sut := NewService(repo, zap.NewNop())

	_, err := sut.Authenticate(context.Background(), "ana@tienda.com", "secreto123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestResolveRole(t *testing.T) {
	repo := newMockRepository(&domain.User{
		Username: "admin@tienda.com",
		Role:     domain.RoleAdmin,
		IsActive: true,
	})
	sut := NewService(repo, zap.NewNop())

	role, err := sut.ResolveRole(context.Background(), "admin@tienda.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, role)

	_, err = sut.ResolveRole(context.Background(), "nadie@tienda.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateRole(t *testing.T) {
	repo := newMockRepository(&domain.User{
		Username: "ana@tienda.com",
		Role:     domain.RoleBasic,
		IsActive: true,
	})
	sut := NewService(repo, zap.NewNop())

	require.NoError(t, sut.UpdateRole(context.Background(), "ana@tienda.com", domain.RoleEditor))

	role, err := sut.ResolveRole(context.Background(), "ana@tienda.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleEditor, role)
}

func TestUpdateRole_InvalidRole(t *testing.T) {
	sut := NewService(newMockRepository(), zap.NewNop())

	err := sut.UpdateRole(context.Background(), "ana@tienda.com", "superuser")
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}
