package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dinerozz/focus-session-backend/internal/entity"
	"github.com/dinerozz/focus-session-backend/internal/model/response"
	"github.com/dinerozz/focus-session-backend/pkg/utils"
	"github.com/gofrs/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
)

type Repository interface {
	Create(ctx context.Context, username, passwordHash string) (*response.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*response.User, error)
	GetByUsername(ctx context.Context, username string) (*response.User, error)
	Count(ctx context.Context) (int, error)
}

type UserService struct {
	repo   Repository
	logger *slog.Logger
}

func NewUserService(repo Repository, logger *slog.Logger) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{repo: repo, logger: logger}
}

// Authenticate checks the credentials and returns a signed token. While no
// admin exists, the first sign-in creates one.
func (s *UserService) Authenticate(ctx context.Context, req entity.AdminAuthRequest) (*response.User, string, error) {
	user, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, "", err
	}

	if user == nil {
		user, err = s.bootstrap(ctx, req)
		if err != nil {
			return nil, "", err
		}
	} else {
		if user.Password == nil {
			return nil, "", ErrInvalidCredentials
		}
		if err := bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(req.Password)); err != nil {
			return nil, "", ErrInvalidCredentials
		}
	}

	token, err := utils.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	user.Password = nil
	return user, token, nil
}

func (s *UserService) bootstrap(ctx context.Context, req entity.AdminAuthRequest) (*response.User, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.repo.Create(ctx, req.Username, string(hash))
	if err != nil {
		return nil, err
	}

	s.logger.Info("first admin created", slog.String("username", user.Username))
	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id uuid.UUID) (*response.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
