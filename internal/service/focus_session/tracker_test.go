package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dinerozz/focus-session-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type recordingPublisher struct {
	mu    sync.Mutex
	keys  []string
	calls int
}

func (p *recordingPublisher) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	p.calls++
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func TestTracker_Lifecycle(t *testing.T) {
	clock := newTestClock()
	tracker := NewTracker("u1", nil, 0, 0, clock.Now, nil)

	assert.Equal(t, StateIdle, tracker.State())
	assert.False(t, tracker.Status().Active)

	status, err := tracker.Start()
	require.NoError(t, err)
	assert.True(t, status.Active)
	assert.Regexp(t, `^session_\d+_[0-9a-f]{9}$`, status.SessionID)

	_, err = tracker.Start()
	assert.ErrorIs(t, err, ErrSessionAlreadyActive)

	recorded, err := tracker.Record(entity.Visit{URL: "https://github.com/golang/go"})
	require.NoError(t, err)
	assert.True(t, recorded)

	recorded, err = tracker.Record(entity.Visit{URL: "about:blank"})
	require.NoError(t, err)
	assert.False(t, recorded)

	clock.Advance(90 * time.Second)
	status = tracker.Status()
	assert.Equal(t, 90, status.ElapsedSeconds)
	assert.Equal(t, "1m 30s", status.Formatted)
	assert.Equal(t, 1, status.VisitCount)

	finished, err := tracker.End()
	require.NoError(t, err)
	assert.Equal(t, status.SessionID, finished.SessionID)
	assert.Equal(t, 90*time.Second, finished.EndTime.Sub(finished.StartTime))
	require.Len(t, finished.Visits, 1)
	assert.Equal(t, clock.Now().Add(-90*time.Second), finished.Visits[0].Timestamp)

	assert.Equal(t, StateIdle, tracker.State())
	_, err = tracker.End()
	assert.ErrorIs(t, err, ErrNoActiveSession)

	_, err = tracker.Record(entity.Visit{URL: "https://github.com"})
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestTracker_EndHandsOverBuffer(t *testing.T) {
	tracker := NewTracker("u1", nil, 0, 0, nil, nil)

	_, err := tracker.Start()
	require.NoError(t, err)
	_, err = tracker.Record(entity.Visit{URL: "https://github.com", Timestamp: time.Now()})
	require.NoError(t, err)

	first, err := tracker.End()
	require.NoError(t, err)

	_, err = tracker.Start()
	require.NoError(t, err)
	_, err = tracker.Record(entity.Visit{URL: "https://youtube.com", Timestamp: time.Now()})
	require.NoError(t, err)

	require.Len(t, first.Visits, 1)
	assert.Equal(t, "https://github.com", first.Visits[0].URL)
	assert.Equal(t, 1, tracker.Status().VisitCount)
}

func TestTracker_Resume(t *testing.T) {
	tracker := NewTracker("u1", nil, 0, 0, nil, nil)

	_, err := tracker.Start()
	require.NoError(t, err)
	_, err = tracker.Record(entity.Visit{URL: "https://github.com", Timestamp: time.Now()})
	require.NoError(t, err)

	finished, err := tracker.End()
	require.NoError(t, err)
	require.NoError(t, tracker.Resume(finished))

	status := tracker.Status()
	assert.True(t, status.Active)
	assert.Equal(t, finished.SessionID, status.SessionID)
	assert.Equal(t, 1, status.VisitCount)

	assert.ErrorIs(t, tracker.Resume(finished), ErrSessionAlreadyActive)
}

func TestTracker_PublishesElapsedUntilEnd(t *testing.T) {
	publisher := &recordingPublisher{}
	tracker := NewTracker("u1", publisher, 5*time.Millisecond, time.Second, nil, nil)

	_, err := tracker.Start()
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return publisher.count() >= 2 }, time.Second, 5*time.Millisecond)

	_, err = tracker.End()
	require.NoError(t, err)

	stopped := publisher.count()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, publisher.count())

	publisher.mu.Lock()
	defer publisher.mu.Unlock()
	assert.Equal(t, "session_time:u1", publisher.keys[0])
}
