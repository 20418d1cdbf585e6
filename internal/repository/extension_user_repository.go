package repository

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dinerozz/focus-session-backend/internal/entity"
	"github.com/gofrs/uuid"
	"github.com/jmoiron/sqlx"
)

// apiKeyPrefix marks keys issued to the focus extension.
const apiKeyPrefix = "fs_"

var ErrExtensionUserNotFound = errors.New("extension user not found")

type ExtensionUserRepository interface {
	Create(ctx context.Context, user *entity.ExtensionUser) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ExtensionUser, error)
	GetByAPIKey(ctx context.Context, apiKey string) (*entity.ExtensionUser, error)
	GetByUsername(ctx context.Context, username string) (*entity.ExtensionUser, error)
	GetAll(ctx context.Context, filter entity.ExtensionUserFilter) ([]entity.ExtensionUser, error)
	Update(ctx context.Context, id uuid.UUID, req entity.UpdateExtensionUserRequest) (*entity.ExtensionUser, error)
	RegenerateAPIKey(ctx context.Context, id uuid.UUID) (string, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateLastUsed(ctx context.Context, id uuid.UUID) error
	GetStats(ctx context.Context) (*entity.ExtensionUserStats, error)
}

type extensionUserRepository struct {
	db *sqlx.DB
}

func NewExtensionUserRepository(db *sqlx.DB) ExtensionUserRepository {
	return &extensionUserRepository{db: db}
}

func (r *extensionUserRepository) Create(ctx context.Context, user *entity.ExtensionUser) error {
	apiKey, err := r.newAPIKey(ctx)
	if err != nil {
		return fmt.Errorf("failed to generate API key: %w", err)
	}

	now := time.Now()
	user.ID = uuid.Must(uuid.NewV4())
	user.APIKey = apiKey
	user.IsActive = true
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
		INSERT INTO extension_users (id, username, api_key, is_active, created_at, updated_at)
		VALUES (:id, :username, :api_key, :is_active, :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("failed to create extension user: %w", err)
	}

	return nil
}

func (r *extensionUserRepository) getOne(ctx context.Context, what, query string, args ...interface{}) (*entity.ExtensionUser, error) {
	var user entity.ExtensionUser
	if err := r.db.GetContext(ctx, &user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get extension user by %s: %w", what, err)
	}
	return &user, nil
}

func (r *extensionUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.ExtensionUser, error) {
	return r.getOne(ctx, "ID", `SELECT * FROM extension_users WHERE id = $1`, id)
}

// GetByAPIKey only matches active users.
func (r *extensionUserRepository) GetByAPIKey(ctx context.Context, apiKey string) (*entity.ExtensionUser, error) {
	return r.getOne(ctx, "API key", `SELECT * FROM extension_users WHERE api_key = $1 AND is_active = true`, apiKey)
}

func (r *extensionUserRepository) GetByUsername(ctx context.Context, username string) (*entity.ExtensionUser, error) {
	return r.getOne(ctx, "username", `SELECT * FROM extension_users WHERE username = $1`, username)
}

func (r *extensionUserRepository) GetAll(ctx context.Context, filter entity.ExtensionUserFilter) ([]entity.ExtensionUser, error) {
	var (
		conditions []string
		args       []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Username != "" {
		conditions = append(conditions, "username ILIKE "+arg("%"+filter.Username+"%"))
	}
	if filter.IsActive != nil {
		conditions = append(conditions, "is_active = "+arg(*filter.IsActive))
	}

	query := "SELECT * FROM extension_users"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += " LIMIT " + arg(filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET " + arg(filter.Offset)
	}

	users := []entity.ExtensionUser{}
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get extension users: %w", err)
	}

	return users, nil
}

func (r *extensionUserRepository) Update(ctx context.Context, id uuid.UUID, req entity.UpdateExtensionUserRequest) (*entity.ExtensionUser, error) {
	var (
		setParts []string
		args     []interface{}
	)

	if req.Username != nil {
		args = append(args, *req.Username)
		setParts = append(setParts, fmt.Sprintf("username = $%d", len(args)))
	}
	if req.IsActive != nil {
		args = append(args, *req.IsActive)
		setParts = append(setParts, fmt.Sprintf("is_active = $%d", len(args)))
	}

	if len(setParts) == 0 {
		return r.GetByID(ctx, id)
	}

	setParts = append(setParts, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE extension_users
		SET %s
		WHERE id = $%d
		RETURNING *`, strings.Join(setParts, ", "), len(args))

	return r.getOne(ctx, "ID for update", query, args...)
}

func (r *extensionUserRepository) RegenerateAPIKey(ctx context.Context, id uuid.UUID) (string, error) {
	apiKey, err := r.newAPIKey(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to generate new API key: %w", err)
	}

	query := `
		UPDATE extension_users
		SET api_key = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2 AND is_active = true`

	if err := r.execOne(ctx, query, apiKey, id); err != nil {
		return "", fmt.Errorf("failed to update API key: %w", err)
	}

	return apiKey, nil
}

func (r *extensionUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.execOne(ctx, `DELETE FROM extension_users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete extension user: %w", err)
	}
	return nil
}

// execOne runs a statement that must touch exactly one row.
func (r *extensionUserRepository) execOne(ctx context.Context, query string, args ...interface{}) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return ErrExtensionUserNotFound
	}

	return nil
}

func (r *extensionUserRepository) UpdateLastUsed(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE extension_users SET last_used_at = CURRENT_TIMESTAMP WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to update last used: %w", err)
	}

	return nil
}

func (r *extensionUserRepository) GetStats(ctx context.Context) (*entity.ExtensionUserStats, error) {
	var stats entity.ExtensionUserStats

	query := `
		SELECT
			COUNT(*) AS total_users,
			COUNT(*) FILTER (WHERE is_active) AS active_users,
			COUNT(*) FILTER (WHERE NOT is_active) AS inactive_users,
			COUNT(*) FILTER (WHERE is_active AND last_used_at >= CURRENT_DATE) AS users_used_today,
			COUNT(*) FILTER (WHERE is_active AND last_used_at >= CURRENT_DATE - INTERVAL '7 days') AS users_used_this_week
		FROM extension_users`

	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("failed to get extension user stats: %w", err)
	}

	return &stats, nil
}

func (r *extensionUserRepository) newAPIKey(ctx context.Context) (string, error) {
	for {
		raw := make([]byte, 32)
		if _, err := rand.Read(raw); err != nil {
			return "", err
		}
		apiKey := apiKeyPrefix + hex.EncodeToString(raw)

		var taken bool
		err := r.db.GetContext(ctx, &taken, `SELECT EXISTS (SELECT 1 FROM extension_users WHERE api_key = $1)`, apiKey)
		if err != nil {
			return "", err
		}
		if !taken {
			return apiKey, nil
		}
	}
}
