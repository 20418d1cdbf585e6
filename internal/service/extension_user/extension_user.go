package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dinerozz/focus-session-backend/internal/entity"
	"github.com/dinerozz/focus-session-backend/internal/repository"
	"github.com/gofrs/uuid"
)

var (
	ErrUserNotFound  = errors.New("extension user not found")
	ErrUsernameTaken = errors.New("username already exists")
	ErrUserInactive  = errors.New("extension user is inactive")
	ErrInvalidAPIKey = errors.New("invalid or inactive API key")
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
	lastUsedTimeout  = 5 * time.Second
)

type ExtensionUserService interface {
	CreateUser(ctx context.Context, req entity.CreateExtensionUserRequest) (*entity.ExtensionUser, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*entity.ExtensionUserPublic, error)
	GetAllUsers(ctx context.Context, filter entity.ExtensionUserFilter) ([]entity.ExtensionUserPublic, error)
	UpdateUser(ctx context.Context, id uuid.UUID, req entity.UpdateExtensionUserRequest) (*entity.ExtensionUserPublic, error)
	RegenerateAPIKey(ctx context.Context, id uuid.UUID) (*entity.RegenerateAPIKeyResponse, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	ValidateAPIKey(ctx context.Context, apiKey string) (*entity.ExtensionUser, error)
	GetStats(ctx context.Context) (*entity.ExtensionUserStats, error)
}

// SessionPurger drops the focus-session data kept for an extension user.
type SessionPurger interface {
	Purge(ctx context.Context, userID string) error
}

type extensionUserService struct {
	repo     repository.ExtensionUserRepository
	sessions SessionPurger
	logger   *slog.Logger
}

// NewExtensionUserService builds the service. sessions may be nil, in which
// case deleting a user leaves its session archive in place.
func NewExtensionUserService(repo repository.ExtensionUserRepository, sessions SessionPurger, logger *slog.Logger) ExtensionUserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &extensionUserService{
		repo:     repo,
		sessions: sessions,
		logger:   logger,
	}
}

func (s *extensionUserService) CreateUser(ctx context.Context, req entity.CreateExtensionUserRequest) (*entity.ExtensionUser, error) {
	existing, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username uniqueness: %w", err)
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	user := &entity.ExtensionUser{Username: req.Username}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("extension user created", slog.String("user_id", user.ID.String()), slog.String("username", user.Username))
	return user, nil
}

func (s *extensionUserService) GetUserByID(ctx context.Context, id uuid.UUID) (*entity.ExtensionUserPublic, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPublicUser(user), nil
}

func (s *extensionUserService) GetAllUsers(ctx context.Context, filter entity.ExtensionUserFilter) ([]entity.ExtensionUserPublic, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}

	users, err := s.repo.GetAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	public := make([]entity.ExtensionUserPublic, len(users))
	for i := range users {
		public[i] = *toPublicUser(&users[i])
	}

	return public, nil
}

func (s *extensionUserService) UpdateUser(ctx context.Context, id uuid.UUID, req entity.UpdateExtensionUserRequest) (*entity.ExtensionUserPublic, error) {
	existing, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Username != nil && *req.Username != existing.Username {
		other, err := s.repo.GetByUsername(ctx, *req.Username)
		if err != nil {
			return nil, fmt.Errorf("failed to check username uniqueness: %w", err)
		}
		if other != nil {
			return nil, ErrUsernameTaken
		}
	}

	updated, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrUserNotFound
	}

	return toPublicUser(updated), nil
}

func (s *extensionUserService) RegenerateAPIKey(ctx context.Context, id uuid.UUID) (*entity.RegenerateAPIKeyResponse, error) {
	existing, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !existing.IsActive {
		return nil, ErrUserInactive
	}

	apiKey, err := s.repo.RegenerateAPIKey(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrExtensionUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &entity.RegenerateAPIKeyResponse{ID: id, APIKey: apiKey}, nil
}

// DeleteUser removes the user and then its session archive.
func (s *extensionUserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrExtensionUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if s.sessions != nil {
		if err := s.sessions.Purge(ctx, id.String()); err != nil {
			return fmt.Errorf("failed to purge sessions of deleted user: %w", err)
		}
	}

	s.logger.Info("extension user deleted", slog.String("user_id", id.String()))
	return nil
}

func (s *extensionUserService) ValidateAPIKey(ctx context.Context, apiKey string) (*entity.ExtensionUser, error) {
	if apiKey == "" {
		return nil, ErrInvalidAPIKey
	}

	user, err := s.repo.GetByAPIKey(ctx, apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to validate API key: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidAPIKey
	}

	go s.touch(user.ID)

	return user, nil
}

// touch records key usage off the request path.
func (s *extensionUserService) touch(id uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), lastUsedTimeout)
	defer cancel()

	if err := s.repo.UpdateLastUsed(ctx, id); err != nil {
		s.logger.Warn("failed to update api key usage", slog.String("user_id", id.String()), slog.String("error", err.Error()))
	}
}

func (s *extensionUserService) GetStats(ctx context.Context) (*entity.ExtensionUserStats, error) {
	return s.repo.GetStats(ctx)
}

func (s *extensionUserService) find(ctx context.Context, id uuid.UUID) (*entity.ExtensionUser, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// toPublicUser hides the API key.
func toPublicUser(user *entity.ExtensionUser) *entity.ExtensionUserPublic {
	return &entity.ExtensionUserPublic{
		ID:         user.ID,
		Username:   user.Username,
		IsActive:   user.IsActive,
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
		LastUsedAt: user.LastUsedAt,
	}
}
