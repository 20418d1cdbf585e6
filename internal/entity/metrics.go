// entity/metrics.go
package entity

type SessionMetrics struct {
	TotalVisits           int `json:"totalVisits"`
	ProductiveVisits      int `json:"productiveVisits"`
	DistractingVisits     int `json:"distractingVisits"`
	NeutralVisits         int `json:"neutralVisits"`
	ProductivePercentage  int `json:"productivePercentage"`
	DistractingPercentage int `json:"distractingPercentage"`
	FocusSwitches         int `json:"focusSwitches"`
}

// NeutralPercentage is derived, never stored.
func (m SessionMetrics) NeutralPercentage() int {
	return 100 - m.ProductivePercentage - m.DistractingPercentage
}

type CategoryTotals struct {
	Productive  int `json:"productive"`
	Distracting int `json:"distracting"`
	Neutral     int `json:"neutral"`
	Total       int `json:"total"`
}

type CategorizedVisits struct {
	Productive  []CategorizedVisit `json:"productive"`
	Distracting []CategorizedVisit `json:"distracting"`
	Neutral     []CategorizedVisit `json:"neutral"`
}

type URLAnalysis struct {
	Categorized  CategorizedVisits `json:"categorized"`
	DomainCounts *DomainCounts     `json:"domainCounts"`
	Totals       CategoryTotals    `json:"totals"`
}
