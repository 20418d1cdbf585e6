package insight

import (
	"context"
	"log/slog"
	"math"

	"github.com/dinerozz/focus-session-backend/config"
	"github.com/dinerozz/focus-session-backend/internal/entity"
	"github.com/montanaflynn/stats"
)

// InsightGenerator produces a narrative insight for a finished session.
type InsightGenerator interface {
	GenerateInsight(ctx context.Context, userID string, summary entity.SessionSummary, recent []entity.SessionSummary) (string, error)
}

// Policy holds the dispatch thresholds.
type Policy struct {
	ShortSessionMinutes     int
	SimpleSessionVisits     int
	ComplexFocusSwitches    int
	MinHistoryForContext    int
	SignificantChangePoints float64
	MilestoneInterval       int
}

func PolicyFromConfig(cfg config.AnalyticsConfig) Policy {
	return Policy{
		ShortSessionMinutes:     cfg.ShortSessionMinutes,
		SimpleSessionVisits:     cfg.SimpleSessionVisits,
		ComplexFocusSwitches:    cfg.ComplexFocusSwitches,
		MinHistoryForContext:    cfg.MinHistoryForContext,
		SignificantChangePoints: cfg.SignificantChangePoints,
		MilestoneInterval:       cfg.MilestoneInterval,
	}
}

func DefaultPolicy() Policy {
	return PolicyFromConfig(config.DefaultAnalyticsConfig())
}

// Decision records why a session went to the model or to the local templates.
type Decision struct {
	IsShortSession      bool `json:"isShortSession"`
	IsSimpleSession     bool `json:"isSimpleSession"`
	IsComplexSession    bool `json:"isComplexSession"`
	HasHistory          bool `json:"hasHistory"`
	IsSignificantChange bool `json:"isSignificantChange"`
	IsMilestoneSession  bool `json:"isMilestoneSession"`
	ShouldUseAI         bool `json:"shouldUseAi"`
}

type Dispatcher struct {
	policy    Policy
	generator InsightGenerator
	logger    *slog.Logger
}

// NewDispatcher builds a dispatcher. A nil generator keeps every session on the local path.
func NewDispatcher(policy Policy, generator InsightGenerator, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		policy:    policy,
		generator: generator,
		logger:    logger,
	}
}

// Decide evaluates the dispatch rules. recentRated are the latest rated sessions
// and totalSessions is the archive size before this session is saved.
func (d *Dispatcher) Decide(summary entity.SessionSummary, recentRated []entity.SessionSummary, totalSessions int) Decision {
	m := summary.Metrics

	decision := Decision{
		IsShortSession:  summary.Duration.Minutes < d.policy.ShortSessionMinutes,
		IsSimpleSession: m.TotalVisits < d.policy.SimpleSessionVisits,
	}

	decision.IsComplexSession = !decision.IsShortSession &&
		!decision.IsSimpleSession &&
		(m.FocusSwitches >= d.policy.ComplexFocusSwitches || (m.DistractingVisits > 0 && m.ProductiveVisits > 0))

	decision.HasHistory = len(recentRated) >= d.policy.MinHistoryForContext
	if decision.HasHistory {
		productivity := make(stats.Float64Data, len(recentRated))
		for i, s := range recentRated {
			productivity[i] = float64(s.Metrics.ProductivePercentage)
		}
		avg, _ := stats.Mean(productivity)

		decision.IsSignificantChange = math.Abs(float64(m.ProductivePercentage)-avg) > d.policy.SignificantChangePoints
		decision.IsMilestoneSession = d.policy.MilestoneInterval > 0 &&
			totalSessions > 0 &&
			totalSessions%d.policy.MilestoneInterval == 0
	}

	decision.ShouldUseAI = decision.IsComplexSession || decision.IsSignificantChange || decision.IsMilestoneSession
	return decision
}

// Dispatch fills in the insight of summary. It never fails: any generator error
// or empty answer falls back to the local templates.
func (d *Dispatcher) Dispatch(ctx context.Context, userID string, summary *entity.SessionSummary, recentRated []entity.SessionSummary, totalSessions int) Decision {
	decision := d.Decide(*summary, recentRated, totalSessions)

	if decision.ShouldUseAI && d.generator != nil {
		var history []entity.SessionSummary
		if decision.HasHistory {
			history = recentRated
		}

		text, err := d.generator.GenerateInsight(ctx, userID, *summary, history)
		if err == nil && text != "" {
			summary.AIInsight = &text
			summary.IsAIGenerated = true
			return decision
		}

		d.logger.Warn("ai insight unavailable, using local insight",
			slog.String("session_id", summary.SessionID),
			slog.Any("error", err))
	}

	local := GenerateLocalInsight(*summary)
	summary.AIInsight = &local
	summary.IsAIGenerated = false
	return decision
}

// GenerateLocalInsight picks the first matching template.
func GenerateLocalInsight(summary entity.SessionSummary) string {
	m := summary.Metrics

	switch {
	case summary.Duration.Minutes < 5:
		return "Quick session! While brief, every focused moment counts. Consider extending your next session to 25-50 minutes for deeper work. Even short bursts of productivity add up over time."
	case m.ProductivePercentage >= 80:
		return "Excellent focus session! You stayed on task and avoided distractions effectively. This is exactly the kind of disciplined browsing that leads to great work. Keep this momentum going!"
	case m.TotalVisits < 5:
		return "Focused session with minimal tab switching. You demonstrated great restraint and concentration. This kind of single-tasking is increasingly rare and valuable. Well done!"
	case m.NeutralVisits > m.ProductiveVisits+m.DistractingVisits:
		return "This session showed exploratory browsing. While not highly productive, exploration has its place in learning and discovery. For focused work sessions, try setting clearer goals beforehand."
	default:
		return "You completed a session! Every tracked session helps build awareness of your browsing habits. Keep tracking to identify patterns and optimize your focus over time."
	}
}
