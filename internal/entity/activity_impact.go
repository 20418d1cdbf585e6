package entity

type ImpactKind string

const (
	ImpactPositive ImpactKind = "positive"
	ImpactNegative ImpactKind = "negative"
	ImpactNeutral  ImpactKind = "neutral"
)

type DomainImpact struct {
	Domain                  string     `json:"domain"`
	Frequency               int        `json:"frequency"`
	AvgRatingWhenUsed       float64    `json:"avgRatingWhenUsed"`
	AvgProductivityWhenUsed int        `json:"avgProductivityWhenUsed"`
	Impact                  ImpactKind `json:"impact"`
	Category                Category   `json:"category"`
	Ratings                 []int      `json:"ratings"`
	Variance                float64    `json:"variance"`
	StdDev                  float64    `json:"stdDev"`
	IsSignificant           bool       `json:"isSignificant"`
}

type ActivityImpact struct {
	TotalSessions int            `json:"totalSessions"`
	TotalDomains  int            `json:"totalDomains"`
	Domains       []DomainImpact `json:"domains"`
}

// ActivityGroup holds the domains that consistently help or hurt ratings.
type ActivityGroup struct {
	Count               int            `json:"count"`
	AverageRating       float64        `json:"averageRating"`
	AverageProductivity int            `json:"averageProductivity"`
	Activities          []DomainImpact `json:"activities"`
	Recommendation      string         `json:"recommendation"`
}

type ActionItem struct {
	Type     InsightLevel `json:"type"`
	Category string       `json:"category"`
	Action   string       `json:"action"`
	Reason   string       `json:"reason"`
	Priority string       `json:"priority"`
}

type ActionPlan struct {
	TotalRecommendations int          `json:"totalRecommendations"`
	Recommendations      []ActionItem `json:"recommendations"`
	Summary              string       `json:"summary"`
}

type ActivityTrend struct {
	Domain    string         `json:"domain"`
	OldRating float64        `json:"oldRating"`
	NewRating float64        `json:"newRating"`
	Change    float64        `json:"change"`
	Trend     TrendDirection `json:"trend"`
	OldImpact ImpactKind     `json:"oldImpact"`
	NewImpact ImpactKind     `json:"newImpact"`
}

type ActivityTrends struct {
	ChangedActivities int             `json:"changedActivities"`
	Trends            []ActivityTrend `json:"trends"`
}

type ActivityReport struct {
	Impact  *ActivityImpact `json:"impact"`
	Helpful *ActivityGroup  `json:"helpful"`
	Harmful *ActivityGroup  `json:"harmful"`
	Plan    *ActionPlan     `json:"actionPlan"`
	Trends  *ActivityTrends `json:"trends"`
}
