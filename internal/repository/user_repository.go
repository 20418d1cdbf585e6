package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dinerozz/focus-session-backend/internal/model/response"
	"github.com/gofrs/uuid"
	"github.com/jmoiron/sqlx"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create stores an admin with an already hashed password. The first admin
// becomes super admin.
func (r *UserRepository) Create(ctx context.Context, username, passwordHash string) (*response.User, error) {
	query := `
		INSERT INTO users (username, password, is_super_admin)
		VALUES ($1, $2, NOT EXISTS (SELECT 1 FROM users))
		RETURNING id, username, is_super_admin, created_at, updated_at`

	var user response.User
	if err := r.db.GetContext(ctx, &user, query, username, passwordHash); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*response.User, error) {
	query := `SELECT id, username, is_super_admin, created_at, updated_at FROM users WHERE id = $1`

	var user response.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return &user, nil
}

// GetByUsername includes the password hash.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*response.User, error) {
	query := `SELECT id, username, password, is_super_admin, created_at, updated_at FROM users WHERE username = $1`

	var user response.User
	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return &user, nil
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
