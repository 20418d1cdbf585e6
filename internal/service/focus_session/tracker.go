package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dinerozz/focus-session-backend/internal/entity"
	"github.com/dinerozz/focus-session-backend/internal/service/categorizer"
	"github.com/dinerozz/focus-session-backend/pkg/utils"
)

type State int

const (
	StateIdle State = iota
	StateActive
)

func (s State) String() string {
	if s == StateActive {
		return "active"
	}
	return "idle"
}

// ElapsedPublisher receives the running elapsed time of an active session.
type ElapsedPublisher interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// FinishedSession is the visit buffer handed over when a session ends. The
// tracker keeps no reference to it.
type FinishedSession struct {
	SessionID string
	StartTime time.Time
	EndTime   time.Time
	Visits    []entity.Visit
}

// Tracker owns the live state of one user's session. It moves between Idle
// and Active; only an Active tracker accepts visits.
type Tracker struct {
	userID    string
	publisher ElapsedPublisher
	tick      time.Duration
	ttl       time.Duration
	now       func() time.Time
	logger    *slog.Logger

	mu        sync.Mutex
	state     State
	sessionID string
	startTime time.Time
	visits    []entity.Visit
	stop      context.CancelFunc
	done      chan struct{}
}

func NewTracker(userID string, publisher ElapsedPublisher, tick, ttl time.Duration, now func() time.Time, logger *slog.Logger) *Tracker {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		userID:    userID,
		publisher: publisher,
		tick:      tick,
		ttl:       ttl,
		now:       now,
		logger:    logger,
	}
}

func elapsedKey(userID string) string {
	return fmt.Sprintf("session_time:%s", userID)
}

func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Start moves the tracker to Active with an empty buffer.
func (t *Tracker) Start() (entity.SessionStatus, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == StateActive {
		return entity.SessionStatus{}, ErrSessionAlreadyActive
	}

	now := t.now()
	t.activate(utils.NewSessionID(now), now, make([]entity.Visit, 0, 64))

	return t.statusLocked(now), nil
}

// Resume reactivates a session that was ended but could not be saved.
func (t *Tracker) Resume(finished FinishedSession) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == StateActive {
		return ErrSessionAlreadyActive
	}

	t.activate(finished.SessionID, finished.StartTime, finished.Visits)
	return nil
}

func (t *Tracker) activate(sessionID string, start time.Time, visits []entity.Visit) {
	t.state = StateActive
	t.sessionID = sessionID
	t.startTime = start
	t.visits = visits

	if t.publisher == nil || t.tick <= 0 {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.stop = cancel
	t.done = make(chan struct{})
	go t.publishElapsed(ctx, start, t.done)
}

func (t *Tracker) publishElapsed(ctx context.Context, start time.Time, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(t.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			elapsed := int(t.now().Sub(start) / time.Second)
			if err := t.publisher.Set(ctx, elapsedKey(t.userID), elapsed, t.ttl); err != nil && ctx.Err() == nil {
				t.logger.Warn("failed to publish elapsed time",
					slog.String("user_id", t.userID),
					slog.String("error", err.Error()))
			}
		}
	}
}

// Record appends a visit to the buffer. Browser-internal pages are ignored and
// reported as not recorded.
func (t *Tracker) Record(visit entity.Visit) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateActive {
		return false, ErrNoActiveSession
	}
	if !categorizer.IsTrackable(visit.URL) {
		return false, nil
	}
	if visit.Timestamp.IsZero() {
		visit.Timestamp = t.now()
	}

	t.visits = append(t.visits, visit)
	return true, nil
}

func (t *Tracker) Status() entity.SessionStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.statusLocked(t.now())
}

func (t *Tracker) statusLocked(now time.Time) entity.SessionStatus {
	if t.state != StateActive {
		return entity.SessionStatus{Active: false}
	}

	start := t.startTime
	elapsed := int(now.Sub(start) / time.Second)
	return entity.SessionStatus{
		Active:         true,
		SessionID:      t.sessionID,
		StartTime:      &start,
		ElapsedSeconds: elapsed,
		Formatted:      utils.FormatDuration(elapsed),
		VisitCount:     len(t.visits),
	}
}

// End stops the elapsed-time task, moves the tracker to Idle and hands the
// buffer over to the caller.
func (t *Tracker) End() (FinishedSession, error) {
	t.mu.Lock()
	if t.state != StateActive {
		t.mu.Unlock()
		return FinishedSession{}, ErrNoActiveSession
	}

	finished := FinishedSession{
		SessionID: t.sessionID,
		StartTime: t.startTime,
		EndTime:   t.now(),
		Visits:    t.visits,
	}

	stop, done := t.stop, t.done
	t.state = StateIdle
	t.sessionID = ""
	t.startTime = time.Time{}
	t.visits = nil
	t.stop, t.done = nil, nil
	t.mu.Unlock()

	if stop != nil {
		stop()
		<-done
	}

	return finished, nil
}
