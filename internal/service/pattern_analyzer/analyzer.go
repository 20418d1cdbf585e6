package pattern_analyzer

import (
	"github.com/dinerozz/focus-session-backend/internal/entity"
)

// Analyzer bundles the archive-wide analyses for the session service.
type Analyzer struct{}

func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// BuildContext computes the historical context of a chronological archive. The
// most recent session is compared against everything before it.
func (a *Analyzer) BuildContext(sessions []entity.SessionSummary) *entity.HistoricalContext {
	trends := AnalyzeSessionTrends(sessions)
	best := FindBestPerformingPatterns(sessions)
	correlations := AnalyzeRatingCorrelations(sessions)

	ctx := &entity.HistoricalContext{
		Trends:          trends,
		BestPatterns:    best,
		WeakPatterns:    IdentifyWeakPatterns(sessions),
		Correlations:    correlations,
		BestTimeOfDay:   GetBestTimeOfDay(sessions),
		WorstTimeOfDay:  GetWorstTimeOfDay(sessions),
		Recommendations: buildRecommendations(trends, best, correlations),
	}

	if len(sessions) > 1 {
		latest := sessions[len(sessions)-1]
		ctx.LatestVsHistory = CompareToHistory(latest, sessions[:len(sessions)-1])
	}

	return ctx
}

// ActivityReport runs the domain impact analysis. Trends compare the older
// half of the archive with the newer half.
func (a *Analyzer) ActivityReport(sessions []entity.SessionSummary) *entity.ActivityReport {
	impact := AnalyzeActivityImpact(sessions)
	helpful := IdentifyHelpfulActivities(impact)
	harmful := IdentifyHarmfulActivities(impact)

	half := len(sessions) / 2

	return &entity.ActivityReport{
		Impact:  impact,
		Helpful: helpful,
		Harmful: harmful,
		Plan:    GeneratePersonalizedActionPlan(helpful, harmful),
		Trends:  CompareActivityTrends(sessions[half:], sessions[:half]),
	}
}

func (a *Analyzer) TimePatterns(sessions []entity.SessionSummary) []entity.TimePeriodStats {
	return AnalyzeTimePatterns(sessions)
}

func (a *Analyzer) ProductivityByHour(sessions []entity.SessionSummary) []entity.HourlyProductivity {
	return GetProductivityByHour(sessions)
}
