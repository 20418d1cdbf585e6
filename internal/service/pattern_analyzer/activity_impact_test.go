package pattern_analyzer

import (
	"testing"

	"github.com/dinerozz/focus-session-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func impactFixture() []entity.SessionSummary {
	return []entity.SessionSummary{
		newSession(1, rated(5), metrics(80, 0, 1), withCategory("github.com", entity.CategoryProductive), domains("docs.rs", "github.com")),
		newSession(2, rated(5), metrics(90, 0, 0), domains("github.com", "github.com")),
		newSession(3, rated(4), metrics(70, 10, 2), domains("github.com")),
		newSession(4, rated(1), metrics(10, 80, 6), withCategory("youtube.com", entity.CategoryDistracting)),
		newSession(5, rated(2), metrics(20, 70, 5), domains("youtube.com")),
		newSession(6, rated(2), metrics(0, 90, 4), domains("youtube.com")),
		newSession(7, metrics(50, 0, 0), domains("github.com", "reddit.com")),
	}
}

func TestAnalyzeActivityImpact(t *testing.T) {
	impact := AnalyzeActivityImpact(impactFixture())
	require.NotNil(t, impact)

	assert.Equal(t, 6, impact.TotalSessions)
	assert.Equal(t, 3, impact.TotalDomains)
	require.Len(t, impact.Domains, 3)

	github := impact.Domains[0]
	assert.Equal(t, "github.com", github.Domain)
	assert.Equal(t, 3, github.Frequency)
	assert.Equal(t, 4.7, github.AvgRatingWhenUsed)
	assert.Equal(t, 80, github.AvgProductivityWhenUsed)
	assert.Equal(t, entity.ImpactPositive, github.Impact)
	assert.Equal(t, entity.CategoryProductive, github.Category)
	assert.Equal(t, []int{5, 5, 4}, github.Ratings)
	assert.Equal(t, 0.22, github.Variance)
	assert.Equal(t, 0.47, github.StdDev)
	assert.True(t, github.IsSignificant)

	youtube := impact.Domains[1]
	assert.Equal(t, "youtube.com", youtube.Domain)
	assert.Equal(t, 1.7, youtube.AvgRatingWhenUsed)
	assert.Equal(t, 10, youtube.AvgProductivityWhenUsed)
	assert.Equal(t, entity.ImpactNegative, youtube.Impact)
	assert.Equal(t, entity.CategoryDistracting, youtube.Category)

	docs := impact.Domains[2]
	assert.Equal(t, "docs.rs", docs.Domain)
	assert.Equal(t, entity.ImpactNeutral, docs.Impact)
	assert.False(t, docs.IsSignificant)
}

func TestAnalyzeActivityImpact_NeedsFiveRatedSessions(t *testing.T) {
	sessions := impactFixture()[:4]
	assert.Nil(t, AnalyzeActivityImpact(sessions))
}

func TestAnalyzeActivityImpact_InconsistentRatings(t *testing.T) {
	sessions := []entity.SessionSummary{
		newSession(1, rated(5), domains("wiki.org")),
		newSession(2, rated(5), domains("wiki.org")),
		newSession(3, rated(1), domains("wiki.org")),
		newSession(4, rated(5), domains("wiki.org")),
		newSession(5, rated(3)),
	}

	impact := AnalyzeActivityImpact(sessions)
	require.NotNil(t, impact)
	require.Len(t, impact.Domains, 1)

	wiki := impact.Domains[0]
	assert.Equal(t, 4.0, wiki.AvgRatingWhenUsed)
	assert.Equal(t, entity.ImpactPositive, wiki.Impact)
	assert.Equal(t, 3.0, wiki.Variance)
	assert.False(t, wiki.IsSignificant)
	assert.Nil(t, IdentifyHelpfulActivities(impact))
}

func TestHelpfulAndHarmfulActivities(t *testing.T) {
	impact := AnalyzeActivityImpact(impactFixture())

	helpful := IdentifyHelpfulActivities(impact)
	require.NotNil(t, helpful)
	assert.Equal(t, 1, helpful.Count)
	assert.Equal(t, 4.7, helpful.AverageRating)
	assert.Equal(t, "Focus more on github.com. Sessions with this site average 4.7⭐ and 80% productivity.", helpful.Recommendation)

	harmful := IdentifyHarmfulActivities(impact)
	require.NotNil(t, harmful)
	assert.Equal(t, 1, harmful.Count)
	assert.Equal(t, "Limit youtube.com. Sessions with this site average only 1.7⭐ and 10% productivity.", harmful.Recommendation)

	assert.Nil(t, IdentifyHelpfulActivities(nil))
}

func TestGeneratePersonalizedActionPlan(t *testing.T) {
	impact := AnalyzeActivityImpact(impactFixture())
	helpful := IdentifyHelpfulActivities(impact)
	harmful := IdentifyHarmfulActivities(impact)

	plan := GeneratePersonalizedActionPlan(helpful, harmful)
	require.NotNil(t, plan)
	require.Equal(t, 2, plan.TotalRecommendations)

	assert.Equal(t, entity.ActionItem{
		Type:     entity.InsightSuccess,
		Category: "Leverage Strengths",
		Action:   "Continue using github.com",
		Reason:   "Sessions with this site average 4.7 stars (used in 3 sessions)",
		Priority: "high",
	}, plan.Recommendations[0])
	assert.Equal(t, "Limit time on youtube.com", plan.Recommendations[1].Action)
	assert.Equal(t, "You have 1 activities that boost performance and 1 that hinder it. Focus on your strengths while reducing time on problem sites.", plan.Summary)

	helpfulOnly := GeneratePersonalizedActionPlan(helpful, nil)
	assert.Equal(t, "You have 1 activities that consistently boost performance. Keep leveraging these strengths!", helpfulOnly.Summary)

	assert.Nil(t, GeneratePersonalizedActionPlan(nil, nil))
}

func TestCompareActivityTrends(t *testing.T) {
	older := []entity.SessionSummary{
		newSession(1, rated(2), domains("github.com")),
		newSession(2, rated(2), domains("github.com")),
		newSession(3, rated(2), domains("github.com", "news.ycombinator.com")),
		newSession(4, rated(3), domains("news.ycombinator.com")),
		newSession(5, rated(3)),
	}
	recent := []entity.SessionSummary{
		newSession(6, rated(5), domains("github.com")),
		newSession(7, rated(5), domains("github.com", "news.ycombinator.com")),
		newSession(8, rated(5), domains("github.com")),
		newSession(9, rated(3), domains("news.ycombinator.com")),
		newSession(10, rated(3)),
	}

	trends := CompareActivityTrends(recent, older)
	require.NotNil(t, trends)
	require.Equal(t, 2, trends.ChangedActivities)

	assert.Equal(t, entity.ActivityTrend{
		Domain:    "github.com",
		OldRating: 2,
		NewRating: 5,
		Change:    3,
		Trend:     entity.TrendImproving,
		OldImpact: entity.ImpactNegative,
		NewImpact: entity.ImpactPositive,
	}, trends.Trends[0])
	assert.Equal(t, "news.ycombinator.com", trends.Trends[1].Domain)
	assert.Equal(t, 1.5, trends.Trends[1].Change)

	assert.Nil(t, CompareActivityTrends(recent[:2], older))
}

func TestAnalyzer_ActivityReport(t *testing.T) {
	report := NewAnalyzer().ActivityReport(impactFixture())
	require.NotNil(t, report)

	assert.NotNil(t, report.Impact)
	assert.NotNil(t, report.Helpful)
	assert.NotNil(t, report.Harmful)
	assert.NotNil(t, report.Plan)
	assert.Nil(t, report.Trends)
}
