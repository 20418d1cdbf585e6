package pattern_analyzer

import (
	"sort"

	"github.com/dinerozz/focus-session-backend/internal/entity"
	"github.com/dinerozz/focus-session-backend/pkg/utils"
	"github.com/montanaflynn/stats"
)

const (
	trendWindow          = 3
	trendThreshold       = 0.3
	minRatedForPatterns  = 3
	minRatedForCorrelate = 5
	highRatingStars      = 4
	lowRatingStars       = 2
	commonTagMinCount    = 2
	commonTagShare       = 0.4
	bestHoursLimit       = 3
)

// FilterRated keeps sessions with a numeric, non-skipped star rating, preserving order.
func FilterRated(sessions []entity.SessionSummary) []entity.SessionSummary {
	rated := make([]entity.SessionSummary, 0, len(sessions))
	for _, s := range sessions {
		if s.IsRated() {
			rated = append(rated, s)
		}
	}
	return rated
}

func mean(values []float64) float64 {
	m, err := stats.Mean(values)
	if err != nil {
		return 0
	}
	return m
}

func collect(sessions []entity.SessionSummary, pick func(entity.SessionSummary) float64) []float64 {
	values := make([]float64, len(sessions))
	for i, s := range sessions {
		values[i] = pick(s)
	}
	return values
}

func starsOf(s entity.SessionSummary) float64        { return float64(s.Stars()) }
func minutesOf(s entity.SessionSummary) float64      { return float64(s.Duration.Minutes) }
func productivityOf(s entity.SessionSummary) float64 { return float64(s.Metrics.ProductivePercentage) }
func distractingOf(s entity.SessionSummary) float64  { return float64(s.Metrics.DistractingPercentage) }
func switchesOf(s entity.SessionSummary) float64     { return float64(s.Metrics.FocusSwitches) }

// AnalyzeSessionTrends averages the archive and compares the last three rated
// sessions with the three before them.
func AnalyzeSessionTrends(sessions []entity.SessionSummary) *entity.TrendAnalysis {
	if len(sessions) == 0 {
		return nil
	}
	rated := FilterRated(sessions)
	if len(rated) == 0 {
		return nil
	}

	trend := entity.TrendStable
	if len(rated) >= 2*trendWindow {
		recent := mean(collect(rated[len(rated)-trendWindow:], starsOf))
		previous := mean(collect(rated[len(rated)-2*trendWindow:len(rated)-trendWindow], starsOf))

		if recent > previous+trendThreshold {
			trend = entity.TrendImproving
		} else if recent < previous-trendThreshold {
			trend = entity.TrendDeclining
		}
	}

	return &entity.TrendAnalysis{
		TotalSessions:        len(sessions),
		RatedSessions:        len(rated),
		AverageRating:        utils.RoundToOneDecimal(mean(collect(rated, starsOf))),
		AverageDuration:      utils.RoundToInt(mean(collect(sessions, minutesOf))),
		AverageProductivity:  utils.RoundToInt(mean(collect(sessions, productivityOf))),
		AverageFocusSwitches: utils.RoundToOneDecimal(mean(collect(sessions, switchesOf))),
		TrendDirection:       trend,
	}
}

// FindBestPerformingPatterns describes sessions rated four stars or more.
func FindBestPerformingPatterns(sessions []entity.SessionSummary) *entity.PerformancePattern {
	rated := FilterRated(sessions)
	if len(rated) < minRatedForPatterns {
		return nil
	}

	best := filterStars(rated, func(stars int) bool { return stars >= highRatingStars })
	if len(best) == 0 {
		return nil
	}

	pattern := describe(best)
	pattern.BestHours = topStartHours(best, bestHoursLimit)
	return pattern
}

// IdentifyWeakPatterns describes sessions rated two stars or fewer.
func IdentifyWeakPatterns(sessions []entity.SessionSummary) *entity.PerformancePattern {
	rated := FilterRated(sessions)
	if len(rated) < minRatedForPatterns {
		return nil
	}

	weak := filterStars(rated, func(stars int) bool { return stars <= lowRatingStars })
	if len(weak) == 0 {
		return nil
	}

	return describe(weak)
}

func filterStars(rated []entity.SessionSummary, keep func(int) bool) []entity.SessionSummary {
	var out []entity.SessionSummary
	for _, s := range rated {
		if keep(s.Stars()) {
			out = append(out, s)
		}
	}
	return out
}

func describe(subset []entity.SessionSummary) *entity.PerformancePattern {
	return &entity.PerformancePattern{
		SessionCount:              len(subset),
		AverageDuration:           utils.RoundToInt(mean(collect(subset, minutesOf))),
		AverageProductivity:       utils.RoundToInt(mean(collect(subset, productivityOf))),
		AverageFocusSwitches:      utils.RoundToOneDecimal(mean(collect(subset, switchesOf))),
		AverageDistractingPercent: utils.RoundToInt(mean(collect(subset, distractingOf))),
		CommonTags:                commonTags(subset),
	}
}

// commonTags returns tags found on at least max(2, 40% of subset) sessions, most used first.
// A tag counts once per session.
func commonTags(subset []entity.SessionSummary) []entity.TagCount {
	var order []string
	counts := make(map[string]int)
	for _, s := range subset {
		seen := make(map[string]bool, len(s.UserRating.Tags))
		for _, tag := range s.UserRating.Tags {
			if seen[tag] {
				continue
			}
			seen[tag] = true
			if _, ok := counts[tag]; !ok {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}

	threshold := float64(len(subset)) * commonTagShare
	if threshold < commonTagMinCount {
		threshold = commonTagMinCount
	}

	tags := []entity.TagCount{}
	for _, tag := range order {
		if float64(counts[tag]) >= threshold {
			tags = append(tags, entity.TagCount{Tag: tag, Count: counts[tag]})
		}
	}
	sort.SliceStable(tags, func(i, j int) bool {
		return tags[i].Count > tags[j].Count
	})
	return tags
}

func topStartHours(subset []entity.SessionSummary, limit int) []entity.HourCount {
	var byHour [24]int
	for _, s := range subset {
		byHour[utils.LocalHour(s.StartTime)]++
	}

	hours := []entity.HourCount{}
	for hour, count := range byHour {
		if count > 0 {
			hours = append(hours, entity.HourCount{Hour: hour, Label: utils.FormatHourTimestamp(hour), Count: count})
		}
	}
	sort.SliceStable(hours, func(i, j int) bool {
		return hours[i].Count > hours[j].Count
	})
	if len(hours) > limit {
		hours = hours[:limit]
	}
	return hours
}

// AnalyzeRatingCorrelations compares high-rated and low-rated sessions. Each
// difference is oriented so that a positive value favors the high-rated group.
func AnalyzeRatingCorrelations(sessions []entity.SessionSummary) *entity.RatingCorrelations {
	rated := FilterRated(sessions)
	if len(rated) < minRatedForCorrelate {
		return nil
	}

	high := filterStars(rated, func(stars int) bool { return stars >= highRatingStars })
	low := filterStars(rated, func(stars int) bool { return stars <= lowRatingStars })
	if len(high) == 0 || len(low) == 0 {
		return nil
	}

	highSwitches, lowSwitches := mean(collect(high, switchesOf)), mean(collect(low, switchesOf))
	highProductivity, lowProductivity := mean(collect(high, productivityOf)), mean(collect(low, productivityOf))
	highDistracting, lowDistracting := mean(collect(high, distractingOf)), mean(collect(low, distractingOf))

	return &entity.RatingCorrelations{
		FocusSwitches: entity.MetricGap{
			HighRated:  utils.RoundToOneDecimal(highSwitches),
			LowRated:   utils.RoundToOneDecimal(lowSwitches),
			Difference: utils.RoundToOneDecimal(lowSwitches - highSwitches),
		},
		Productivity: entity.MetricGap{
			HighRated:  float64(utils.RoundToInt(highProductivity)),
			LowRated:   float64(utils.RoundToInt(lowProductivity)),
			Difference: float64(utils.RoundToInt(highProductivity - lowProductivity)),
		},
		Distracting: entity.MetricGap{
			HighRated:  float64(utils.RoundToInt(highDistracting)),
			LowRated:   float64(utils.RoundToInt(lowDistracting)),
			Difference: float64(utils.RoundToInt(lowDistracting - highDistracting)),
		},
	}
}

// CompareToHistory reports the current session against historical averages.
// Fewer focus switches count as better.
func CompareToHistory(current entity.SessionSummary, historical []entity.SessionSummary) *entity.HistoryComparison {
	if len(historical) == 0 {
		return nil
	}
	trends := AnalyzeSessionTrends(historical)
	if trends == nil {
		return nil
	}

	duration := float64(current.Duration.Minutes)
	avgDuration := float64(trends.AverageDuration)
	productivity := float64(current.Metrics.ProductivePercentage)
	avgProductivity := float64(trends.AverageProductivity)
	switches := float64(current.Metrics.FocusSwitches)

	comparison := &entity.HistoryComparison{
		Duration: entity.ComparisonMetric{
			Current:    duration,
			Average:    avgDuration,
			Difference: duration - avgDuration,
			Status:     entity.StatusShorter,
		},
		Productivity: entity.ComparisonMetric{
			Current:    productivity,
			Average:    avgProductivity,
			Difference: productivity - avgProductivity,
			Status:     entity.StatusWorse,
		},
		FocusSwitches: entity.ComparisonMetric{
			Current:    switches,
			Average:    trends.AverageFocusSwitches,
			Difference: switches - trends.AverageFocusSwitches,
			Status:     entity.StatusWorse,
		},
	}

	if duration > avgDuration {
		comparison.Duration.Status = entity.StatusLonger
	}
	if productivity > avgProductivity {
		comparison.Productivity.Status = entity.StatusBetter
	}
	if switches < trends.AverageFocusSwitches {
		comparison.FocusSwitches.Status = entity.StatusBetter
	}

	return comparison
}
