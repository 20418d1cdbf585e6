package service

import (
	"sort"
	"time"

	"github.com/dinerozz/focus-session-backend/internal/entity"
	"github.com/dinerozz/focus-session-backend/pkg/utils"
)

const DefaultTopDomainsLimit = 10

type MetricsService struct {
	topDomainsLimit int
}

func NewMetricsService(topDomainsLimit int) *MetricsService {
	if topDomainsLimit <= 0 {
		topDomainsLimit = DefaultTopDomainsLimit
	}
	return &MetricsService{topDomainsLimit: topDomainsLimit}
}

// AnalyzeURLs splits visits by category and counts visits per domain.
func AnalyzeURLs(visits []entity.CategorizedVisit) entity.URLAnalysis {
	analysis := entity.URLAnalysis{
		Categorized: entity.CategorizedVisits{
			Productive:  []entity.CategorizedVisit{},
			Distracting: []entity.CategorizedVisit{},
			Neutral:     []entity.CategorizedVisit{},
		},
		DomainCounts: entity.NewDomainCounts(),
	}

	for _, v := range visits {
		switch v.Category {
		case entity.CategoryProductive:
			analysis.Categorized.Productive = append(analysis.Categorized.Productive, v)
		case entity.CategoryDistracting:
			analysis.Categorized.Distracting = append(analysis.Categorized.Distracting, v)
		default:
			analysis.Categorized.Neutral = append(analysis.Categorized.Neutral, v)
		}
		analysis.DomainCounts.Add(v.Domain)
	}

	analysis.Totals = entity.CategoryTotals{
		Productive:  len(analysis.Categorized.Productive),
		Distracting: len(analysis.Categorized.Distracting),
		Neutral:     len(analysis.Categorized.Neutral),
		Total:       len(visits),
	}

	return analysis
}

// CalculateFocusSwitches counts adjacent productive<->distracting transitions.
// Anything touching neutral is not a switch.
func CalculateFocusSwitches(visits []entity.CategorizedVisit) int {
	switches := 0
	for i := 1; i < len(visits); i++ {
		prev, cur := visits[i-1].Category, visits[i].Category
		if prev == entity.CategoryNeutral || cur == entity.CategoryNeutral {
			continue
		}
		if prev != cur {
			switches++
		}
	}
	return switches
}

// GetTopDomains ranks domains by count, keeping first-seen order on ties.
func GetTopDomains(counts *entity.DomainCounts, limit int) []entity.DomainCount {
	if counts == nil {
		return []entity.DomainCount{}
	}

	entries := counts.Entries()
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})

	if limit >= 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

func BuildMetrics(analysis entity.URLAnalysis, focusSwitches int) entity.SessionMetrics {
	total := analysis.Totals.Total
	return entity.SessionMetrics{
		TotalVisits:           total,
		ProductiveVisits:      analysis.Totals.Productive,
		DistractingVisits:     analysis.Totals.Distracting,
		NeutralVisits:         analysis.Totals.Neutral,
		ProductivePercentage:  utils.Percentage(analysis.Totals.Productive, total),
		DistractingPercentage: utils.Percentage(analysis.Totals.Distracting, total),
		FocusSwitches:         focusSwitches,
	}
}

func BuildDuration(start, end time.Time) entity.SessionDuration {
	seconds := int(end.Sub(start) / time.Second)
	if seconds < 0 {
		seconds = 0
	}
	return entity.SessionDuration{
		Seconds:   seconds,
		Minutes:   seconds / 60,
		Formatted: utils.FormatDuration(seconds),
	}
}

// Summarize aggregates categorized visits into a session summary without
// focus analysis or insight.
func (s *MetricsService) Summarize(sessionID string, start, end time.Time, visits []entity.CategorizedVisit) entity.SessionSummary {
	analysis := AnalyzeURLs(visits)
	focusSwitches := CalculateFocusSwitches(visits)

	visited := make([]entity.VisitedDomain, 0, len(visits))
	for _, v := range visits {
		visited = append(visited, entity.VisitedDomain{
			Domain:    v.Domain,
			Category:  v.Category,
			Timestamp: v.Timestamp,
		})
	}

	return entity.SessionSummary{
		SessionID:      sessionID,
		StartTime:      start,
		EndTime:        end,
		Duration:       BuildDuration(start, end),
		Metrics:        BuildMetrics(analysis, focusSwitches),
		TopDomains:     GetTopDomains(analysis.DomainCounts, s.topDomainsLimit),
		VisitedDomains: visited,
	}
}
