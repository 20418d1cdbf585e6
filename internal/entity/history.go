// entity/history.go
package entity

type TrendDirection string

const (
	TrendImproving TrendDirection = "improving"
	TrendDeclining TrendDirection = "declining"
	TrendStable    TrendDirection = "stable"
)

type TrendAnalysis struct {
	TotalSessions        int            `json:"totalSessions"`
	RatedSessions        int            `json:"ratedSessions"`
	AverageRating        float64        `json:"averageRating"`
	AverageDuration      int            `json:"averageDuration"`
	AverageProductivity  int            `json:"averageProductivity"`
	AverageFocusSwitches float64        `json:"averageFocusSwitches"`
	TrendDirection       TrendDirection `json:"trendDirection"`
}

type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

type HourCount struct {
	Hour  int    `json:"hour"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// PerformancePattern describes the high-rated or low-rated subset of sessions.
type PerformancePattern struct {
	SessionCount              int         `json:"sessionCount"`
	AverageDuration           int         `json:"averageDuration"`
	AverageProductivity       int         `json:"averageProductivity"`
	AverageFocusSwitches      float64     `json:"averageFocusSwitches"`
	AverageDistractingPercent int         `json:"averageDistractingPercent"`
	CommonTags                []TagCount  `json:"commonTags"`
	BestHours                 []HourCount `json:"bestHours,omitempty"`
}

type MetricGap struct {
	HighRated  float64 `json:"highRated"`
	LowRated   float64 `json:"lowRated"`
	Difference float64 `json:"difference"`
}

type RatingCorrelations struct {
	FocusSwitches MetricGap `json:"focusSwitches"`
	Productivity  MetricGap `json:"productivity"`
	Distracting   MetricGap `json:"distracting"`
}

type TimePeriod string

const (
	PeriodMorning   TimePeriod = "morning"
	PeriodAfternoon TimePeriod = "afternoon"
	PeriodEvening   TimePeriod = "evening"
	PeriodNight     TimePeriod = "night"
)

// TimePeriods lists the day periods in their reporting order.
var TimePeriods = []TimePeriod{PeriodMorning, PeriodAfternoon, PeriodEvening, PeriodNight}

type TimePeriodStats struct {
	Period              TimePeriod `json:"period"`
	Count               int        `json:"count"`
	AverageRating       float64    `json:"averageRating"`
	AverageProductivity int        `json:"averageProductivity"`
	SessionIDs          []string   `json:"sessionIds"`
}

type TimeOfDay struct {
	Period              TimePeriod `json:"period"`
	TimeRange           string     `json:"timeRange"`
	AverageRating       float64    `json:"averageRating"`
	SessionCount        int        `json:"sessionCount"`
	AverageProductivity int        `json:"averageProductivity"`
}

type HourlyProductivity struct {
	Hour                int     `json:"hour"`
	HourLabel           string  `json:"hourLabel"`
	SessionCount        int     `json:"sessionCount"`
	AverageRating       float64 `json:"averageRating"`
	AverageProductivity int     `json:"averageProductivity"`
}

type ComparisonStatus string

const (
	StatusBetter  ComparisonStatus = "better"
	StatusWorse   ComparisonStatus = "worse"
	StatusLonger  ComparisonStatus = "longer"
	StatusShorter ComparisonStatus = "shorter"
)

type ComparisonMetric struct {
	Current    float64          `json:"current"`
	Average    float64          `json:"average"`
	Difference float64          `json:"difference"`
	Status     ComparisonStatus `json:"status"`
}

type HistoryComparison struct {
	Duration      ComparisonMetric `json:"duration"`
	Productivity  ComparisonMetric `json:"productivity"`
	FocusSwitches ComparisonMetric `json:"focusSwitches"`
}

type Recommendation struct {
	Type    InsightLevel `json:"type"`
	Title   string       `json:"title"`
	Message string       `json:"message"`
}

// HistoricalContext is computed on demand from the archive and never persisted.
type HistoricalContext struct {
	Trends          *TrendAnalysis      `json:"trends"`
	BestPatterns    *PerformancePattern `json:"bestPatterns"`
	WeakPatterns    *PerformancePattern `json:"weakPatterns"`
	Correlations    *RatingCorrelations `json:"correlations"`
	BestTimeOfDay   *TimeOfDay          `json:"bestTimeOfDay"`
	WorstTimeOfDay  *TimeOfDay          `json:"worstTimeOfDay"`
	Recommendations []Recommendation    `json:"recommendations"`
	LatestVsHistory *HistoryComparison  `json:"latestVsHistory"`
}

type WeeklySummary struct {
	SessionCount  int    `json:"sessionCount"`
	RatedSessions int    `json:"ratedSessions"`
	Summary       string `json:"summary"`
	IsAIGenerated bool   `json:"isAiGenerated"`
}

type TimeOfDayReport struct {
	Periods []TimePeriodStats `json:"periods"`
	Best    *TimeOfDay        `json:"best"`
	Worst   *TimeOfDay        `json:"worst"`
}

// SessionDebrief is the post-session view: the record, its focus insights and
// how it compares with the sessions before it.
type SessionDebrief struct {
	Session         SessionSummary     `json:"session"`
	FocusInsights   []FocusInsight     `json:"focusInsights"`
	LatestVsHistory *HistoryComparison `json:"latestVsHistory"`
}

type SessionExport struct {
	FileName string
	Content  []byte
}
