package pattern_analyzer

import (
	"github.com/dinerozz/focus-session-backend/internal/entity"
	"github.com/dinerozz/focus-session-backend/pkg/utils"
)

const minSessionsPerPeriod = 2

var timeRanges = map[entity.TimePeriod]string{
	entity.PeriodMorning:   "6am - 12pm",
	entity.PeriodAfternoon: "12pm - 6pm",
	entity.PeriodEvening:   "6pm - 12am",
	entity.PeriodNight:     "12am - 6am",
}

// PeriodOf buckets an hour of the day.
func PeriodOf(hour int) entity.TimePeriod {
	switch {
	case hour >= 6 && hour < 12:
		return entity.PeriodMorning
	case hour >= 12 && hour < 18:
		return entity.PeriodAfternoon
	case hour >= 18 && hour < 24:
		return entity.PeriodEvening
	default:
		return entity.PeriodNight
	}
}

// AnalyzeTimePatterns groups rated sessions by the period of their start time.
// Periods without sessions are omitted; order follows entity.TimePeriods.
func AnalyzeTimePatterns(sessions []entity.SessionSummary) []entity.TimePeriodStats {
	rated := FilterRated(sessions)
	if len(rated) == 0 {
		return nil
	}

	grouped := make(map[entity.TimePeriod][]entity.SessionSummary)
	for _, s := range rated {
		period := PeriodOf(utils.LocalHour(s.StartTime))
		grouped[period] = append(grouped[period], s)
	}

	var result []entity.TimePeriodStats
	for _, period := range entity.TimePeriods {
		group := grouped[period]
		if len(group) == 0 {
			continue
		}

		ids := make([]string, len(group))
		for i, s := range group {
			ids[i] = s.SessionID
		}

		result = append(result, entity.TimePeriodStats{
			Period:              period,
			Count:               len(group),
			AverageRating:       utils.RoundToOneDecimal(mean(collect(group, starsOf))),
			AverageProductivity: utils.RoundToInt(mean(collect(group, productivityOf))),
			SessionIDs:          ids,
		})
	}
	return result
}

func GetBestTimeOfDay(sessions []entity.SessionSummary) *entity.TimeOfDay {
	var best *entity.TimePeriodStats
	highest := 0.0

	patterns := AnalyzeTimePatterns(sessions)
	for i := range patterns {
		if patterns[i].Count >= minSessionsPerPeriod && patterns[i].AverageRating > highest {
			highest = patterns[i].AverageRating
			best = &patterns[i]
		}
	}
	return toTimeOfDay(best)
}

func GetWorstTimeOfDay(sessions []entity.SessionSummary) *entity.TimeOfDay {
	var worst *entity.TimePeriodStats
	lowest := 6.0

	patterns := AnalyzeTimePatterns(sessions)
	for i := range patterns {
		if patterns[i].Count >= minSessionsPerPeriod && patterns[i].AverageRating < lowest {
			lowest = patterns[i].AverageRating
			worst = &patterns[i]
		}
	}
	return toTimeOfDay(worst)
}

func toTimeOfDay(stats *entity.TimePeriodStats) *entity.TimeOfDay {
	if stats == nil {
		return nil
	}
	return &entity.TimeOfDay{
		Period:              stats.Period,
		TimeRange:           timeRanges[stats.Period],
		AverageRating:       stats.AverageRating,
		SessionCount:        stats.Count,
		AverageProductivity: stats.AverageProductivity,
	}
}

// GetProductivityByHour returns one row per start hour that has rated sessions.
func GetProductivityByHour(sessions []entity.SessionSummary) []entity.HourlyProductivity {
	result := []entity.HourlyProductivity{}

	var byHour [24][]entity.SessionSummary
	for _, s := range FilterRated(sessions) {
		hour := utils.LocalHour(s.StartTime)
		byHour[hour] = append(byHour[hour], s)
	}

	for hour, group := range byHour {
		if len(group) == 0 {
			continue
		}
		result = append(result, entity.HourlyProductivity{
			Hour:                hour,
			HourLabel:           utils.FormatHourLabel(hour),
			SessionCount:        len(group),
			AverageRating:       utils.RoundToOneDecimal(mean(collect(group, starsOf))),
			AverageProductivity: utils.RoundToInt(mean(collect(group, productivityOf))),
		})
	}
	return result
}
