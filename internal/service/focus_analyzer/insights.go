package focus_analyzer

import (
	"fmt"

	"github.com/dinerozz/focus-session-backend/internal/entity"
)

// GenerateFocusInsights turns a report into short messages for the debrief page.
func GenerateFocusInsights(report *entity.FocusAnalysisReport) []entity.FocusInsight {
	insights := []entity.FocusInsight{}
	if report == nil || !report.HasSignificantData {
		return insights
	}

	if r := report.FocusRecovery; r != nil {
		switch {
		case r.AverageRecoveryMinutes >= 12:
			insights = append(insights, entity.FocusInsight{
				Type: entity.InsightWarning,
				Text: fmt.Sprintf("⏱️ It took you an average of %v minutes to refocus after distractions. Research shows it takes 12+ minutes to regain deep focus. Total time lost: %v minutes.", r.AverageRecoveryMinutes, r.TotalTimeLost),
			})
		case r.AverageRecoveryMinutes >= 8:
			insights = append(insights, entity.FocusInsight{
				Type: entity.InsightInfo,
				Text: fmt.Sprintf("⏱️ Your average focus recovery time is %v minutes. You're recovering faster than the 12-minute average! Total recovery time: %v minutes.", r.AverageRecoveryMinutes, r.TotalTimeLost),
			})
		default:
			insights = append(insights, entity.FocusInsight{
				Type: entity.InsightSuccess,
				Text: fmt.Sprintf("⚡ Excellent! You recovered focus in just %v minutes on average. You're bouncing back quickly from distractions.", r.AverageRecoveryMinutes),
			})
		}
	}

	if d := report.DeepFocus; d != nil {
		if d.PeriodCount >= 3 {
			insights = append(insights, entity.FocusInsight{
				Type: entity.InsightSuccess,
				Text: fmt.Sprintf("🎯 You achieved %d deep focus periods! Your longest was %v minutes. Average focus block: %v minutes.", d.PeriodCount, d.LongestPeriodMinutes, d.AveragePeriodMinutes),
			})
		} else if d.PeriodCount > 0 {
			insights = append(insights, entity.FocusInsight{
				Type: entity.InsightInfo,
				Text: fmt.Sprintf("🎯 You had %d deep focus period(s). Longest: %v minutes. Try to increase sustained focus blocks to 25+ minutes.", d.PeriodCount, d.LongestPeriodMinutes),
			})
		}
	}

	if di := report.DistractionImpact; di != nil {
		if di.DistractionPercentage >= 30 {
			insights = append(insights, entity.FocusInsight{
				Type: entity.InsightWarning,
				Text: fmt.Sprintf("⚠️ Distractions consumed %d%% of your session (%v minutes). Consider using website blockers during focused work.", di.DistractionPercentage, di.TotalDistractionMinutes),
			})
		} else if di.DistractionPercentage >= 15 {
			insights = append(insights, entity.FocusInsight{
				Type: entity.InsightInfo,
				Text: fmt.Sprintf("📊 Distractions took %d%% of your time (%v minutes). Room for improvement in maintaining focus.", di.DistractionPercentage, di.TotalDistractionMinutes),
			})
		}
	}

	switches := report.TotalContextSwitches
	switch {
	case switches >= 10:
		insights = append(insights, entity.FocusInsight{
			Type: entity.InsightWarning,
			Text: fmt.Sprintf("🔄 You switched contexts %d times. Frequent switching reduces productivity. Try batching similar tasks.", switches),
		})
	case switches >= 5:
		insights = append(insights, entity.FocusInsight{
			Type: entity.InsightInfo,
			Text: fmt.Sprintf("🔄 You had %d context switches. Keep this number low for better focus.", switches),
		})
	case switches > 0:
		insights = append(insights, entity.FocusInsight{
			Type: entity.InsightSuccess,
			Text: fmt.Sprintf("✅ Only %d context switches! You maintained excellent focus discipline.", switches),
		})
	}

	return insights
}
