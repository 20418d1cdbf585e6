package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dinerozz/focus-session-backend/config"
	"github.com/dinerozz/focus-session-backend/internal/entity"
	"github.com/dinerozz/focus-session-backend/internal/repository"
	"github.com/dinerozz/focus-session-backend/internal/service/ai_analytics"
	"github.com/dinerozz/focus-session-backend/internal/service/categorizer"
	"github.com/dinerozz/focus-session-backend/internal/service/export"
	"github.com/dinerozz/focus-session-backend/internal/service/focus_analyzer"
	"github.com/dinerozz/focus-session-backend/internal/service/insight"
	"github.com/dinerozz/focus-session-backend/pkg/utils"
)

const weeklyWindow = 7 * 24 * time.Hour

// Categorizer classifies raw visits by domain.
type Categorizer interface {
	Categorize(visits []entity.Visit) []entity.CategorizedVisit
}

// Summarizer aggregates categorized visits into a session record.
type Summarizer interface {
	Summarize(sessionID string, start, end time.Time, visits []entity.CategorizedVisit) entity.SessionSummary
}

// FocusAnalyzer produces the per-session focus report.
type FocusAnalyzer interface {
	GenerateContextSwitchReport(visits []entity.CategorizedVisit, totalMinutes int) *entity.FocusAnalysisReport
}

// HistoryAnalyzer computes archive-wide reports.
type HistoryAnalyzer interface {
	BuildContext(sessions []entity.SessionSummary) *entity.HistoricalContext
	ActivityReport(sessions []entity.SessionSummary) *entity.ActivityReport
	TimePatterns(sessions []entity.SessionSummary) []entity.TimePeriodStats
	ProductivityByHour(sessions []entity.SessionSummary) []entity.HourlyProductivity
}

type InsightDispatcher interface {
	Dispatch(ctx context.Context, userID string, summary *entity.SessionSummary, recentRated []entity.SessionSummary, totalSessions int) insight.Decision
}

type WeeklySummarizer interface {
	GenerateWeeklySummary(ctx context.Context, userID string, sessions []entity.SessionSummary) (string, error)
}

type SessionService interface {
	Start(ctx context.Context, userID string) (*entity.SessionStatus, error)
	RecordVisit(ctx context.Context, userID string, req entity.RecordVisitRequest) (bool, error)
	Status(ctx context.Context, userID string) entity.SessionStatus
	End(ctx context.Context, userID string) (*entity.SessionSummary, error)
	Analyze(ctx context.Context, userID string, req entity.AnalyzeSessionRequest) (*entity.SessionSummary, error)

	Rate(ctx context.Context, userID, sessionID string, req entity.RateSessionRequest) (*entity.SessionSummary, error)
	Skip(ctx context.Context, userID, sessionID string) (*entity.SessionSummary, error)

	Latest(ctx context.Context, userID string) (*entity.SessionSummary, error)
	List(ctx context.Context, userID string, filter entity.SessionListFilter) ([]entity.SessionSummary, error)
	Get(ctx context.Context, userID, sessionID string) (*entity.SessionSummary, error)
	Debrief(ctx context.Context, userID, sessionID string) (*entity.SessionDebrief, error)

	HistoryReport(ctx context.Context, userID string) (*entity.HistoricalContext, error)
	TimeOfDay(ctx context.Context, userID string) (*entity.TimeOfDayReport, error)
	Hourly(ctx context.Context, userID string) ([]entity.HourlyProductivity, error)
	ActivityImpact(ctx context.Context, userID string) (*entity.ActivityReport, error)
	WeeklySummary(ctx context.Context, userID string) (*entity.WeeklySummary, error)
	Export(ctx context.Context, userID string) (*entity.SessionExport, error)

	Close()
}

// Dependencies wires the session pipeline. Focus, History, Weekly and Elapsed
// are optional.
type Dependencies struct {
	Categorizer Categorizer
	Summarizer  Summarizer
	Focus       FocusAnalyzer
	History     HistoryAnalyzer
	Dispatcher  InsightDispatcher
	Weekly      WeeklySummarizer
	Archive     repository.SessionArchiveRepository
	Elapsed     ElapsedPublisher
	Config      config.AnalyticsConfig
	Logger      *slog.Logger
	Now         func() time.Time
}

type sessionService struct {
	deps Dependencies

	mu       sync.Mutex
	trackers map[string]*Tracker
}

func NewSessionService(deps Dependencies) SessionService {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &sessionService{
		deps:     deps,
		trackers: make(map[string]*Tracker),
	}
}

func (s *sessionService) tracker(userID string) *Tracker {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.trackers[userID]
	if !ok {
		t = NewTracker(userID, s.deps.Elapsed, s.deps.Config.TickInterval, s.deps.Config.ElapsedTTL, s.deps.Now, s.deps.Logger)
		s.trackers[userID] = t
	}
	return t
}

func (s *sessionService) Start(ctx context.Context, userID string) (*entity.SessionStatus, error) {
	status, err := s.tracker(userID).Start()
	if err != nil {
		return nil, err
	}

	s.deps.Logger.Info("focus session started",
		slog.String("user_id", userID),
		slog.String("session_id", status.SessionID))
	return &status, nil
}

func (s *sessionService) RecordVisit(ctx context.Context, userID string, req entity.RecordVisitRequest) (bool, error) {
	visit := entity.Visit{URL: req.URL, Title: req.Title}
	if req.Timestamp != nil {
		visit.Timestamp = *req.Timestamp
	}
	return s.tracker(userID).Record(visit)
}

func (s *sessionService) Status(ctx context.Context, userID string) entity.SessionStatus {
	return s.tracker(userID).Status()
}

func (s *sessionService) End(ctx context.Context, userID string) (*entity.SessionSummary, error) {
	t := s.tracker(userID)

	finished, err := t.End()
	if err != nil {
		return nil, err
	}

	summary, err := s.finalize(ctx, userID, finished)
	if err != nil {
		if resumeErr := t.Resume(finished); resumeErr != nil {
			s.deps.Logger.Error("failed to resume unsaved session",
				slog.String("session_id", finished.SessionID),
				slog.String("error", resumeErr.Error()))
		}
		return nil, err
	}

	return summary, nil
}

func (s *sessionService) Analyze(ctx context.Context, userID string, req entity.AnalyzeSessionRequest) (*entity.SessionSummary, error) {
	if req.EndTime.Before(req.StartTime) {
		return nil, ErrInvalidTimeRange
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = utils.NewSessionID(req.StartTime)
	} else {
		existing, err := s.deps.Archive.GetByID(ctx, userID, sessionID)
		if err != nil {
			return nil, fmt.Errorf("failed to get session: %w", err)
		}
		if existing != nil {
			return nil, ErrSessionExists
		}
	}

	visits := make([]entity.Visit, 0, len(req.Visits))
	for _, v := range req.Visits {
		if v.Timestamp.IsZero() {
			v.Timestamp = req.StartTime
		}
		visits = append(visits, v)
	}

	return s.finalize(ctx, userID, FinishedSession{
		SessionID: sessionID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Visits:    visits,
	})
}

// finalize runs the pipeline on a finished visit log and persists the result.
func (s *sessionService) finalize(ctx context.Context, userID string, finished FinishedSession) (*entity.SessionSummary, error) {
	categorized := s.deps.Categorizer.Categorize(trackable(finished.Visits))
	summary := s.deps.Summarizer.Summarize(finished.SessionID, finished.StartTime, finished.EndTime, categorized)

	if s.deps.Focus != nil {
		summary.FocusAnalysis = s.deps.Focus.GenerateContextSwitchReport(categorized, summary.Duration.Minutes)
	}

	total, err := s.deps.Archive.Count(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count sessions: %w", err)
	}

	var recent []entity.SessionSummary
	if s.deps.History != nil {
		recent, err = s.deps.Archive.RecentRated(ctx, userID, s.deps.Config.HistoryWindow)
		if err != nil {
			return nil, fmt.Errorf("failed to get recent sessions: %w", err)
		}
	}

	decision := s.deps.Dispatcher.Dispatch(ctx, userID, &summary, recent, total)

	if err := s.deps.Archive.Save(ctx, userID, summary); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.deps.Logger.Info("focus session saved",
		slog.String("user_id", userID),
		slog.String("session_id", summary.SessionID),
		slog.Int("minutes", summary.Duration.Minutes),
		slog.Int("visits", summary.Metrics.TotalVisits),
		slog.Bool("ai", decision.ShouldUseAI),
		slog.Bool("ai_generated", summary.IsAIGenerated))

	return &summary, nil
}

func trackable(visits []entity.Visit) []entity.Visit {
	out := make([]entity.Visit, 0, len(visits))
	for _, v := range visits {
		if categorizer.IsTrackable(v.URL) {
			out = append(out, v)
		}
	}
	return out
}

func (s *sessionService) Rate(ctx context.Context, userID, sessionID string, req entity.RateSessionRequest) (*entity.SessionSummary, error) {
	if req.Stars < 1 || req.Stars > 5 {
		return nil, ErrInvalidRating
	}

	stars := req.Stars
	return s.updateRating(ctx, userID, sessionID, entity.UserRating{
		Stars:   &stars,
		Tags:    uniqueTags(req.Tags),
		Notes:   req.Notes,
		RatedAt: s.deps.Now(),
	})
}

// uniqueTags drops repeated tags, keeping first-seen order.
func uniqueTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func (s *sessionService) Skip(ctx context.Context, userID, sessionID string) (*entity.SessionSummary, error) {
	return s.updateRating(ctx, userID, sessionID, entity.UserRating{
		Tags:    []string{},
		RatedAt: s.deps.Now(),
		Skipped: true,
	})
}

func (s *sessionService) updateRating(ctx context.Context, userID, sessionID string, rating entity.UserRating) (*entity.SessionSummary, error) {
	updated, err := s.deps.Archive.UpdateRating(ctx, userID, sessionID, rating)
	if errors.Is(err, repository.ErrAlreadyRated) {
		return nil, ErrSessionAlreadyRated
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update rating: %w", err)
	}
	if updated == nil {
		return nil, ErrSessionNotFound
	}
	return updated, nil
}

func (s *sessionService) Latest(ctx context.Context, userID string) (*entity.SessionSummary, error) {
	latest, err := s.deps.Archive.Latest(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest session: %w", err)
	}
	if latest == nil {
		return nil, ErrSessionNotFound
	}
	return latest, nil
}

// List returns the archive newest first.
func (s *sessionService) List(ctx context.Context, userID string, filter entity.SessionListFilter) ([]entity.SessionSummary, error) {
	sessions, err := s.deps.Archive.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	result := make([]entity.SessionSummary, 0, len(sessions))
	for i := len(sessions) - 1; i >= 0; i-- {
		if filter.RatedOnly && !sessions[i].IsRated() {
			continue
		}
		result = append(result, sessions[i])
		if filter.Limit > 0 && len(result) == filter.Limit {
			break
		}
	}
	return result, nil
}

func (s *sessionService) Get(ctx context.Context, userID, sessionID string) (*entity.SessionSummary, error) {
	session, err := s.deps.Archive.GetByID(ctx, userID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *sessionService) Debrief(ctx context.Context, userID, sessionID string) (*entity.SessionDebrief, error) {
	sessions, err := s.deps.Archive.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	idx := -1
	for i := range sessions {
		if sessions[i].SessionID == sessionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrSessionNotFound
	}

	debrief := &entity.SessionDebrief{
		Session:       sessions[idx],
		FocusInsights: focus_analyzer.GenerateFocusInsights(sessions[idx].FocusAnalysis),
	}
	if idx > 0 && s.deps.History != nil {
		debrief.LatestVsHistory = s.deps.History.BuildContext(sessions[:idx+1]).LatestVsHistory
	}
	return debrief, nil
}

func (s *sessionService) history(ctx context.Context, userID string) ([]entity.SessionSummary, error) {
	if s.deps.History == nil {
		return nil, ErrHistoryUnavailable
	}
	sessions, err := s.deps.Archive.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

func (s *sessionService) HistoryReport(ctx context.Context, userID string) (*entity.HistoricalContext, error) {
	sessions, err := s.history(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.deps.History.BuildContext(sessions), nil
}

func (s *sessionService) TimeOfDay(ctx context.Context, userID string) (*entity.TimeOfDayReport, error) {
	sessions, err := s.history(ctx, userID)
	if err != nil {
		return nil, err
	}

	historical := s.deps.History.BuildContext(sessions)
	return &entity.TimeOfDayReport{
		Periods: s.deps.History.TimePatterns(sessions),
		Best:    historical.BestTimeOfDay,
		Worst:   historical.WorstTimeOfDay,
	}, nil
}

func (s *sessionService) Hourly(ctx context.Context, userID string) ([]entity.HourlyProductivity, error) {
	sessions, err := s.history(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.deps.History.ProductivityByHour(sessions), nil
}

func (s *sessionService) ActivityImpact(ctx context.Context, userID string) (*entity.ActivityReport, error) {
	sessions, err := s.history(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.deps.History.ActivityReport(sessions), nil
}

// WeeklySummary summarizes the sessions started in the last seven days. It
// falls back to a local summary when the model cannot be used.
func (s *sessionService) WeeklySummary(ctx context.Context, userID string) (*entity.WeeklySummary, error) {
	sessions, err := s.deps.Archive.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	since := s.deps.Now().Add(-weeklyWindow)
	var week []entity.SessionSummary
	for _, session := range sessions {
		if session.StartTime.After(since) {
			week = append(week, session)
		}
	}

	result := &entity.WeeklySummary{SessionCount: len(week)}
	for _, session := range week {
		if session.IsRated() {
			result.RatedSessions++
		}
	}

	if s.deps.Weekly != nil && ai_analytics.ComputeWeeklyStats(week) != nil {
		text, err := s.deps.Weekly.GenerateWeeklySummary(ctx, userID, week)
		if err == nil && text != "" {
			result.Summary = text
			result.IsAIGenerated = true
			return result, nil
		}
		s.deps.Logger.Warn("weekly ai summary unavailable, using local summary",
			slog.String("user_id", userID),
			slog.Any("error", err))
	}

	result.Summary = ai_analytics.WeeklyFallbackSummary(week)
	return result, nil
}

func (s *sessionService) Export(ctx context.Context, userID string) (*entity.SessionExport, error) {
	sessions, err := s.deps.Archive.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	content, err := export.WriteSessionsXLSX(sessions)
	if err != nil {
		return nil, fmt.Errorf("failed to export sessions: %w", err)
	}

	return &entity.SessionExport{
		FileName: fmt.Sprintf("focus_sessions_%s.xlsx", utils.ToLocal(s.deps.Now()).Format("20060102")),
		Content:  content,
	}, nil
}

// Close stops the elapsed-time tasks of every active session.
func (s *sessionService) Close() {
	s.mu.Lock()
	trackers := make([]*Tracker, 0, len(s.trackers))
	for _, t := range s.trackers {
		trackers = append(trackers, t)
	}
	s.mu.Unlock()

	for _, t := range trackers {
		if t.State() == StateActive {
			if _, err := t.End(); err == nil {
				s.deps.Logger.Warn("active session dropped on shutdown", slog.String("user_id", t.userID))
			}
		}
	}
}
