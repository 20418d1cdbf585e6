package user

import (
	"context"
	"testing"

	"github.com/dinerozz/focus-session-backend/internal/entity"
	"github.com/dinerozz/focus-session-backend/internal/model/response"
	"github.com/dinerozz/focus-session-backend/pkg/utils"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	users map[string]*response.User
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: map[string]*response.User{}}
}

func (m *memoryRepo) Create(ctx context.Context, username, passwordHash string) (*response.User, error) {
	super := len(m.users) == 0
	hash := passwordHash
	user := &response.User{ID: uuid.Must(uuid.NewV4()), Username: username, Password: &hash, IsSuperAdmin: &super}
	m.users[username] = user
	copied := *user
	return &copied, nil
}

func (m *memoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*response.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			copied := *u
			copied.Password = nil
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memoryRepo) GetByUsername(ctx context.Context, username string) (*response.User, error) {
	u, ok := m.users[username]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (m *memoryRepo) Count(ctx context.Context) (int, error) {
	return len(m.users), nil
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	svc := NewUserService(repo, nil)

	admin, token, err := svc.Authenticate(ctx, entity.AdminAuthRequest{Username: "admin", Password: "correct horse"})
	require.NoError(t, err)
	assert.Nil(t, admin.Password)
	require.NotNil(t, admin.IsSuperAdmin)
	assert.True(t, *admin.IsSuperAdmin)

	claims, err := utils.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, admin.ID.String(), claims["user_id"])

	t.Run("stored hash is not the password", func(t *testing.T) {
		assert.NotEqual(t, "correct horse", *repo.users["admin"].Password)
	})

	t.Run("existing admin signs in", func(t *testing.T) {
		again, _, err := svc.Authenticate(ctx, entity.AdminAuthRequest{Username: "admin", Password: "correct horse"})
		require.NoError(t, err)
		assert.Equal(t, admin.ID, again.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Authenticate(ctx, entity.AdminAuthRequest{Username: "admin", Password: "battery staple"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("no self sign-up once an admin exists", func(t *testing.T) {
		_, _, err := svc.Authenticate(ctx, entity.AdminAuthRequest{Username: "mallory", Password: "password123"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Len(t, repo.users, 1)
	})
}

func TestGetUserByID(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(newMemoryRepo(), nil)

	admin, _, err := svc.Authenticate(ctx, entity.AdminAuthRequest{Username: "admin", Password: "correct horse"})
	require.NoError(t, err)

	got, err := svc.GetUserByID(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin", got.Username)

	_, err = svc.GetUserByID(ctx, uuid.Must(uuid.NewV4()))
	assert.ErrorIs(t, err, ErrUserNotFound)
}
