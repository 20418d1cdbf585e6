package pattern_analyzer

import (
	"fmt"

	"github.com/dinerozz/focus-session-backend/internal/entity"
)

const (
	sweetSpotMinSessions     = 3
	focusStrategyMaxSwitches = 5.0
	switchGapThreshold       = 3.0
	distractingGapThreshold  = 15.0
	tooManySwitches          = 10.0
)

// GeneratePersonalizedRecommendations derives advice from the trend, the best
// sessions and the rating correlations of the archive.
func GeneratePersonalizedRecommendations(sessions []entity.SessionSummary) []entity.Recommendation {
	trends := AnalyzeSessionTrends(sessions)
	return buildRecommendations(trends, FindBestPerformingPatterns(sessions), AnalyzeRatingCorrelations(sessions))
}

func buildRecommendations(trends *entity.TrendAnalysis, best *entity.PerformancePattern, correlations *entity.RatingCorrelations) []entity.Recommendation {
	recommendations := []entity.Recommendation{}
	if trends == nil {
		return recommendations
	}

	switch trends.TrendDirection {
	case entity.TrendImproving:
		recommendations = append(recommendations, entity.Recommendation{
			Type:    entity.InsightSuccess,
			Title:   "You're On Fire! 🔥",
			Message: fmt.Sprintf("Your sessions are improving! Keep doing what you're doing. Your average rating has increased to %v stars.", trends.AverageRating),
		})
	case entity.TrendDeclining:
		recommendations = append(recommendations, entity.Recommendation{
			Type:    entity.InsightWarning,
			Title:   "Time to Adjust 🔄",
			Message: "Your recent sessions show a declining trend. Let's identify what changed and get you back on track.",
		})
	}

	if best != nil && best.SessionCount >= sweetSpotMinSessions {
		if best.AverageDuration > 0 {
			recommendations = append(recommendations, entity.Recommendation{
				Type:    entity.InsightInfo,
				Title:   "Your Sweet Spot ⏱️",
				Message: fmt.Sprintf("Your best sessions average %d minutes. Try to aim for similar session lengths.", best.AverageDuration),
			})
		}
		if best.AverageFocusSwitches < focusStrategyMaxSwitches {
			recommendations = append(recommendations, entity.Recommendation{
				Type:    entity.InsightSuccess,
				Title:   "Focus Strategy 🎯",
				Message: fmt.Sprintf("In your top sessions, you averaged %v focus switches. Minimize distractions to stay in this zone.", best.AverageFocusSwitches),
			})
		}
	}

	if correlations != nil {
		if correlations.FocusSwitches.Difference > switchGapThreshold {
			recommendations = append(recommendations, entity.Recommendation{
				Type:    entity.InsightWarning,
				Title:   "Focus Switches Matter ⚡",
				Message: fmt.Sprintf("Low-rated sessions had %v more focus switches on average. Try to reduce context switching.", correlations.FocusSwitches.Difference),
			})
		}
		if correlations.Distracting.Difference > distractingGapThreshold {
			recommendations = append(recommendations, entity.Recommendation{
				Type:    entity.InsightWarning,
				Title:   "Distractions Impact 🚫",
				Message: fmt.Sprintf("Your lower-rated sessions had %v%% more distracting content. Consider blocking these sites during study time.", correlations.Distracting.Difference),
			})
		}
	}

	if trends.AverageFocusSwitches > tooManySwitches {
		recommendations = append(recommendations, entity.Recommendation{
			Type:    entity.InsightInfo,
			Title:   "Too Much Switching 🔄",
			Message: fmt.Sprintf("You average %v focus switches per session. Try staying on one task longer before switching.", trends.AverageFocusSwitches),
		})
	}

	return recommendations
}
