package pattern_analyzer

import (
	"fmt"
	"math"
	"sort"

	"github.com/dinerozz/focus-session-backend/internal/entity"
	"github.com/dinerozz/focus-session-backend/pkg/utils"
	"github.com/montanaflynn/stats"
)

const (
	minRatedForImpact    = 5
	minImpactFrequency   = 3
	positiveImpactRating = 4.0
	negativeImpactRating = 2.5
	maxConsistentStdDev  = 1.5
	activityGroupLimit   = 10
	trendChangeThreshold = 0.5
	activityTrendsLimit  = 5
)

type domainAccumulator struct {
	domain          string
	category        entity.Category
	ratings         []int
	productivitySum int
}

// AnalyzeActivityImpact relates every visited domain to the ratings of the
// sessions it appeared in. Domains are ordered by frequency, most used first.
func AnalyzeActivityImpact(sessions []entity.SessionSummary) *entity.ActivityImpact {
	rated := FilterRated(sessions)
	if len(rated) < minRatedForImpact {
		return nil
	}

	var order []string
	byDomain := make(map[string]*domainAccumulator)

	for _, s := range rated {
		stars := s.Stars()
		seen := make(map[string]bool)
		for _, v := range s.VisitedDomains {
			if seen[v.Domain] {
				continue
			}
			seen[v.Domain] = true

			acc, ok := byDomain[v.Domain]
			if !ok {
				acc = &domainAccumulator{domain: v.Domain}
				byDomain[v.Domain] = acc
				order = append(order, v.Domain)
			}
			acc.ratings = append(acc.ratings, stars)
			if acc.category == "" {
				acc.category = v.Category
			}
			acc.productivitySum += s.Metrics.ProductivePercentage
		}
	}

	domains := make([]entity.DomainImpact, 0, len(order))
	for _, domain := range order {
		domains = append(domains, summarizeDomain(byDomain[domain]))
	}
	sort.SliceStable(domains, func(i, j int) bool {
		return domains[i].Frequency > domains[j].Frequency
	})

	return &entity.ActivityImpact{
		TotalSessions: len(rated),
		TotalDomains:  len(domains),
		Domains:       domains,
	}
}

func summarizeDomain(acc *domainAccumulator) entity.DomainImpact {
	ratings := make(stats.Float64Data, len(acc.ratings))
	for i, r := range acc.ratings {
		ratings[i] = float64(r)
	}

	frequency := len(acc.ratings)
	avgRating := mean(ratings)
	variance, _ := stats.PopulationVariance(ratings)
	stdDev := math.Sqrt(variance)

	impact := entity.ImpactNeutral
	if frequency >= minImpactFrequency {
		if avgRating >= positiveImpactRating {
			impact = entity.ImpactPositive
		} else if avgRating <= negativeImpactRating {
			impact = entity.ImpactNegative
		}
	}

	category := acc.category
	if category == "" {
		category = entity.CategoryNeutral
	}

	return entity.DomainImpact{
		Domain:                  acc.domain,
		Frequency:               frequency,
		AvgRatingWhenUsed:       utils.RoundToOneDecimal(avgRating),
		AvgProductivityWhenUsed: utils.RoundToInt(float64(acc.productivitySum) / float64(frequency)),
		Impact:                  impact,
		Category:                category,
		Ratings:                 acc.ratings,
		Variance:                utils.RoundToTwoDecimals(variance),
		StdDev:                  utils.RoundToTwoDecimals(stdDev),
		IsSignificant:           frequency >= minImpactFrequency && stdDev < maxConsistentStdDev,
	}
}

// IdentifyHelpfulActivities lists consistent positive domains, best rated first.
func IdentifyHelpfulActivities(impact *entity.ActivityImpact) *entity.ActivityGroup {
	group := groupActivities(impact, entity.ImpactPositive, func(a, b entity.DomainImpact) bool {
		return a.AvgRatingWhenUsed > b.AvgRatingWhenUsed
	})
	if group == nil {
		return nil
	}

	top := group.Activities[0]
	group.Recommendation = fmt.Sprintf("Focus more on %s. Sessions with this site average %v⭐ and %d%% productivity.",
		top.Domain, top.AvgRatingWhenUsed, top.AvgProductivityWhenUsed)
	return group
}

// IdentifyHarmfulActivities lists consistent negative domains, worst rated first.
func IdentifyHarmfulActivities(impact *entity.ActivityImpact) *entity.ActivityGroup {
	group := groupActivities(impact, entity.ImpactNegative, func(a, b entity.DomainImpact) bool {
		return a.AvgRatingWhenUsed < b.AvgRatingWhenUsed
	})
	if group == nil {
		return nil
	}

	worst := group.Activities[0]
	group.Recommendation = fmt.Sprintf("Limit %s. Sessions with this site average only %v⭐ and %d%% productivity.",
		worst.Domain, worst.AvgRatingWhenUsed, worst.AvgProductivityWhenUsed)
	return group
}

func groupActivities(impact *entity.ActivityImpact, kind entity.ImpactKind, less func(a, b entity.DomainImpact) bool) *entity.ActivityGroup {
	if impact == nil {
		return nil
	}

	var matched []entity.DomainImpact
	for _, d := range impact.Domains {
		if d.Impact == kind && d.Frequency >= minImpactFrequency && d.IsSignificant {
			matched = append(matched, d)
		}
	}
	if len(matched) == 0 {
		return nil
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return less(matched[i], matched[j])
	})

	ratings := make([]float64, len(matched))
	productivity := make([]float64, len(matched))
	for i, d := range matched {
		ratings[i] = d.AvgRatingWhenUsed
		productivity[i] = float64(d.AvgProductivityWhenUsed)
	}

	activities := matched
	if len(activities) > activityGroupLimit {
		activities = activities[:activityGroupLimit]
	}

	return &entity.ActivityGroup{
		Count:               len(matched),
		AverageRating:       utils.RoundToOneDecimal(mean(ratings)),
		AverageProductivity: utils.RoundToInt(mean(productivity)),
		Activities:          activities,
	}
}

// GeneratePersonalizedActionPlan turns the top helpful and harmful domains into
// prioritized actions.
func GeneratePersonalizedActionPlan(helpful, harmful *entity.ActivityGroup) *entity.ActionPlan {
	if helpful == nil && harmful == nil {
		return nil
	}

	items := []entity.ActionItem{}

	if helpful != nil && len(helpful.Activities) > 0 {
		top := helpful.Activities[0]
		items = append(items, entity.ActionItem{
			Type:     entity.InsightSuccess,
			Category: "Leverage Strengths",
			Action:   fmt.Sprintf("Continue using %s", top.Domain),
			Reason:   fmt.Sprintf("Sessions with this site average %v stars (used in %d sessions)", top.AvgRatingWhenUsed, top.Frequency),
			Priority: "high",
		})
		if len(helpful.Activities) >= 2 {
			second := helpful.Activities[1]
			items = append(items, entity.ActionItem{
				Type:     entity.InsightSuccess,
				Category: "Leverage Strengths",
				Action:   fmt.Sprintf("Prioritize %s", second.Domain),
				Reason:   fmt.Sprintf("Consistent positive impact: %v stars", second.AvgRatingWhenUsed),
				Priority: "medium",
			})
		}
	}

	if harmful != nil && len(harmful.Activities) > 0 {
		worst := harmful.Activities[0]
		items = append(items, entity.ActionItem{
			Type:     entity.InsightWarning,
			Category: "Reduce Barriers",
			Action:   fmt.Sprintf("Limit time on %s", worst.Domain),
			Reason:   fmt.Sprintf("Sessions with this site average %v stars (%d sessions affected)", worst.AvgRatingWhenUsed, worst.Frequency),
			Priority: "high",
		})
		if len(harmful.Activities) >= 2 {
			second := harmful.Activities[1]
			items = append(items, entity.ActionItem{
				Type:     entity.InsightWarning,
				Category: "Reduce Barriers",
				Action:   fmt.Sprintf("Consider blocking %s during study", second.Domain),
				Reason:   fmt.Sprintf("Consistent negative impact: %v stars", second.AvgRatingWhenUsed),
				Priority: "medium",
			})
		}
	}

	return &entity.ActionPlan{
		TotalRecommendations: len(items),
		Recommendations:      items,
		Summary:              actionPlanSummary(helpful, harmful),
	}
}

func actionPlanSummary(helpful, harmful *entity.ActivityGroup) string {
	switch {
	case helpful != nil && harmful != nil:
		return fmt.Sprintf("You have %d activities that boost performance and %d that hinder it. Focus on your strengths while reducing time on problem sites.", helpful.Count, harmful.Count)
	case helpful != nil:
		return fmt.Sprintf("You have %d activities that consistently boost performance. Keep leveraging these strengths!", helpful.Count)
	case harmful != nil:
		return fmt.Sprintf("You have %d activities that consistently hurt performance. Consider limiting or blocking these during study time.", harmful.Count)
	}
	return ""
}

// CompareActivityTrends reports domains whose average rating moved by half a
// star or more between two periods, largest change first.
func CompareActivityTrends(recent, older []entity.SessionSummary) *entity.ActivityTrends {
	recentImpact := AnalyzeActivityImpact(recent)
	olderImpact := AnalyzeActivityImpact(older)
	if recentImpact == nil || olderImpact == nil {
		return nil
	}

	previous := make(map[string]entity.DomainImpact, len(olderImpact.Domains))
	for _, d := range olderImpact.Domains {
		previous[d.Domain] = d
	}

	trends := []entity.ActivityTrend{}
	for _, current := range recentImpact.Domains {
		old, ok := previous[current.Domain]
		if !ok {
			continue
		}

		change := current.AvgRatingWhenUsed - old.AvgRatingWhenUsed
		if math.Abs(change) < trendChangeThreshold {
			continue
		}

		direction := entity.TrendDeclining
		if change > 0 {
			direction = entity.TrendImproving
		}
		trends = append(trends, entity.ActivityTrend{
			Domain:    current.Domain,
			OldRating: old.AvgRatingWhenUsed,
			NewRating: current.AvgRatingWhenUsed,
			Change:    utils.RoundToOneDecimal(change),
			Trend:     direction,
			OldImpact: old.Impact,
			NewImpact: current.Impact,
		})
	}

	sort.SliceStable(trends, func(i, j int) bool {
		return math.Abs(trends[i].Change) > math.Abs(trends[j].Change)
	})

	changed := len(trends)
	if len(trends) > activityTrendsLimit {
		trends = trends[:activityTrendsLimit]
	}

	return &entity.ActivityTrends{
		ChangedActivities: changed,
		Trends:            trends,
	}
}
