package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dinerozz/focus-session-backend/internal/entity"
	"github.com/dinerozz/focus-session-backend/internal/service/kvstore"
)

// ErrAlreadyRated is returned when a rating or skip is attached to a session
// that already carries one.
var ErrAlreadyRated = errors.New("session is already rated")

type SessionArchiveRepository interface {
	// Save appends summary to the archive, evicting the oldest entries past the
	// limit, and stores it as the latest session. A summary whose SessionID is
	// already archived replaces that entry in place.
	Save(ctx context.Context, userID string, summary entity.SessionSummary) error
	List(ctx context.Context, userID string) ([]entity.SessionSummary, error)
	Count(ctx context.Context, userID string) (int, error)
	GetByID(ctx context.Context, userID, sessionID string) (*entity.SessionSummary, error)
	Latest(ctx context.Context, userID string) (*entity.SessionSummary, error)
	// RecentRated returns up to n rated sessions, newest first.
	RecentRated(ctx context.Context, userID string, n int) ([]entity.SessionSummary, error)
	UpdateRating(ctx context.Context, userID, sessionID string, rating entity.UserRating) (*entity.SessionSummary, error)
	// Purge drops the archive and the latest session of userID.
	Purge(ctx context.Context, userID string) error
}

type sessionArchiveRepository struct {
	store kvstore.Store
	limit int

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewSessionArchiveRepository(store kvstore.Store, limit int) SessionArchiveRepository {
	return &sessionArchiveRepository{
		store: store,
		limit: limit,
		locks: make(map[string]*sync.Mutex),
	}
}

func archiveKey(userID string) string {
	return fmt.Sprintf("sessions:%s", userID)
}

func latestKey(userID string) string {
	return fmt.Sprintf("latest_session:%s", userID)
}

// lock serializes read-modify-write cycles on one user's archive.
func (r *sessionArchiveRepository) lock(userID string) func() {
	r.mu.Lock()
	l, ok := r.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[userID] = l
	}
	r.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func (r *sessionArchiveRepository) Save(ctx context.Context, userID string, summary entity.SessionSummary) error {
	unlock := r.lock(userID)
	defer unlock()

	sessions, err := r.List(ctx, userID)
	if err != nil {
		return err
	}

	replaced := false
	for i := range sessions {
		if sessions[i].SessionID == summary.SessionID {
			sessions[i] = summary
			replaced = true
			break
		}
	}
	if !replaced {
		sessions = append(sessions, summary)
	}
	if r.limit > 0 && len(sessions) > r.limit {
		sessions = sessions[len(sessions)-r.limit:]
	}

	if err := r.store.Set(ctx, archiveKey(userID), sessions, 0); err != nil {
		return fmt.Errorf("failed to save session archive: %w", err)
	}
	if err := r.store.Set(ctx, latestKey(userID), summary, 0); err != nil {
		return fmt.Errorf("failed to save latest session: %w", err)
	}

	return nil
}

func (r *sessionArchiveRepository) List(ctx context.Context, userID string) ([]entity.SessionSummary, error) {
	var sessions []entity.SessionSummary
	err := r.store.Get(ctx, archiveKey(userID), &sessions)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return []entity.SessionSummary{}, nil
		}
		return nil, fmt.Errorf("failed to get session archive: %w", err)
	}

	return sessions, nil
}

func (r *sessionArchiveRepository) Count(ctx context.Context, userID string) (int, error) {
	sessions, err := r.List(ctx, userID)
	if err != nil {
		return 0, err
	}
	return len(sessions), nil
}

func (r *sessionArchiveRepository) GetByID(ctx context.Context, userID, sessionID string) (*entity.SessionSummary, error) {
	sessions, err := r.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i := range sessions {
		if sessions[i].SessionID == sessionID {
			return &sessions[i], nil
		}
	}

	return nil, nil
}

func (r *sessionArchiveRepository) Latest(ctx context.Context, userID string) (*entity.SessionSummary, error) {
	var summary entity.SessionSummary
	err := r.store.Get(ctx, latestKey(userID), &summary)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest session: %w", err)
	}

	return &summary, nil
}

func (r *sessionArchiveRepository) RecentRated(ctx context.Context, userID string, n int) ([]entity.SessionSummary, error) {
	sessions, err := r.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	rated := make([]entity.SessionSummary, 0, n)
	for i := len(sessions) - 1; i >= 0 && len(rated) < n; i-- {
		if sessions[i].IsRated() {
			rated = append(rated, sessions[i])
		}
	}

	return rated, nil
}

func (r *sessionArchiveRepository) UpdateRating(ctx context.Context, userID, sessionID string, rating entity.UserRating) (*entity.SessionSummary, error) {
	unlock := r.lock(userID)
	defer unlock()

	var updated *entity.SessionSummary

	sessions, err := r.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i := range sessions {
		if sessions[i].SessionID == sessionID {
			if sessions[i].UserRating != nil {
				return nil, ErrAlreadyRated
			}
			sessions[i].UserRating = &rating
			updated = &sessions[i]
			break
		}
	}

	if updated != nil {
		if err := r.store.Set(ctx, archiveKey(userID), sessions, 0); err != nil {
			return nil, fmt.Errorf("failed to save session archive: %w", err)
		}
	}

	latest, err := r.Latest(ctx, userID)
	if err != nil {
		return nil, err
	}
	if latest != nil && latest.SessionID == sessionID {
		if updated == nil && latest.UserRating != nil {
			return nil, ErrAlreadyRated
		}
		latest.UserRating = &rating
		if err := r.store.Set(ctx, latestKey(userID), latest, 0); err != nil {
			return nil, fmt.Errorf("failed to save latest session: %w", err)
		}
		if updated == nil {
			updated = latest
		}
	}

	return updated, nil
}

func (r *sessionArchiveRepository) Purge(ctx context.Context, userID string) error {
	unlock := r.lock(userID)
	defer unlock()

	if err := r.store.Delete(ctx, archiveKey(userID)); err != nil {
		return fmt.Errorf("failed to delete session archive: %w", err)
	}
	if err := r.store.Delete(ctx, latestKey(userID)); err != nil {
		return fmt.Errorf("failed to delete latest session: %w", err)
	}
	return nil
}
