package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/dinerozz/focus-session-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)

func visit(minute int, domain string, category entity.Category) entity.CategorizedVisit {
	return entity.CategorizedVisit{
		Visit: entity.Visit{
			URL:       "https://" + domain + "/",
			Timestamp: base.Add(time.Duration(minute) * time.Minute),
		},
		Domain:   domain,
		Category: category,
	}
}

func byCategory(categories ...entity.Category) []entity.CategorizedVisit {
	visits := make([]entity.CategorizedVisit, 0, len(categories))
	for i, c := range categories {
		visits = append(visits, visit(i, fmt.Sprintf("site%d.com", i), c))
	}
	return visits
}

func TestCalculateFocusSwitches(t *testing.T) {
	p, d, n := entity.CategoryProductive, entity.CategoryDistracting, entity.CategoryNeutral

	tests := []struct {
		name       string
		categories []entity.Category
		want       int
	}{
		{"empty", nil, 0},
		{"single visit", []entity.Category{p}, 0},
		{"productive distracting productive", []entity.Category{p, d, p}, 2},
		{"neutral separates pairs", []entity.Category{n, p, n, d}, 0},
		{"same category", []entity.Category{d, d, d}, 0},
		{"mixed", []entity.Category{p, p, d, n, d, p}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateFocusSwitches(byCategory(tt.categories...)))
		})
	}
}

func TestAnalyzeURLs(t *testing.T) {
	visits := []entity.CategorizedVisit{
		visit(0, "github.com", entity.CategoryProductive),
		visit(1, "reddit.com", entity.CategoryDistracting),
		visit(2, "github.com", entity.CategoryProductive),
		visit(3, "example.com", entity.CategoryNeutral),
	}

	analysis := AnalyzeURLs(visits)

	assert.Equal(t, entity.CategoryTotals{Productive: 2, Distracting: 1, Neutral: 1, Total: 4}, analysis.Totals)
	assert.Len(t, analysis.Categorized.Productive, 2)
	assert.Equal(t, 2, analysis.DomainCounts.Count("github.com"))
	assert.Equal(t, 3, analysis.DomainCounts.Len())
	assert.Equal(t, 4, analysis.DomainCounts.Total())
}

func TestGetTopDomainsStableOnTies(t *testing.T) {
	counts := entity.NewDomainCounts()
	for _, d := range []string{"b.com", "a.com", "c.com", "a.com", "d.com", "c.com"} {
		counts.Add(d)
	}

	top := GetTopDomains(counts, 10)
	require.Len(t, top, 4)
	assert.Equal(t, []entity.DomainCount{
		{Domain: "a.com", Count: 2},
		{Domain: "c.com", Count: 2},
		{Domain: "b.com", Count: 1},
		{Domain: "d.com", Count: 1},
	}, top)

	assert.Len(t, GetTopDomains(counts, 2), 2)
	assert.Empty(t, GetTopDomains(nil, 10))
}

func TestBuildMetrics(t *testing.T) {
	analysis := AnalyzeURLs(byCategory(entity.CategoryProductive, entity.CategoryDistracting, entity.CategoryNeutral))
	metrics := BuildMetrics(analysis, 1)

	assert.Equal(t, 33, metrics.ProductivePercentage)
	assert.Equal(t, 33, metrics.DistractingPercentage)
	assert.Equal(t, 34, metrics.NeutralPercentage())
	assert.Equal(t, 1, metrics.FocusSwitches)

	empty := BuildMetrics(AnalyzeURLs(nil), 0)
	assert.Zero(t, empty.ProductivePercentage)
	assert.Zero(t, empty.DistractingPercentage)
}

func TestSummarize(t *testing.T) {
	svc := NewMetricsService(0)
	visits := []entity.CategorizedVisit{
		visit(0, "github.com", entity.CategoryProductive),
		visit(4, "youtube.com", entity.CategoryDistracting),
		visit(9, "github.com", entity.CategoryProductive),
	}

	summary := svc.Summarize("session_1", base, base.Add(12*time.Minute+5*time.Second), visits)

	assert.Equal(t, "session_1", summary.SessionID)
	assert.Equal(t, entity.SessionDuration{Seconds: 725, Minutes: 12, Formatted: "12m 5s"}, summary.Duration)
	assert.Equal(t, 3, summary.Metrics.TotalVisits)
	assert.Equal(t, 67, summary.Metrics.ProductivePercentage)
	assert.Equal(t, 2, summary.Metrics.FocusSwitches)
	assert.Equal(t, "github.com", summary.TopDomains[0].Domain)
	require.Len(t, summary.VisitedDomains, 3)
	assert.Equal(t, entity.CategoryDistracting, summary.VisitedDomains[1].Category)
	assert.Nil(t, summary.AIInsight)
}

func TestBuildDurationNeverNegative(t *testing.T) {
	d := BuildDuration(base, base.Add(-time.Minute))
	assert.Equal(t, 0, d.Seconds)
	assert.Equal(t, "0s", d.Formatted)
}
