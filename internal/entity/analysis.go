package entity

import "time"

type RecoveryInstance struct {
	DistractionURL    string  `json:"distractionUrl"`
	DistractionDomain string  `json:"distractionDomain"`
	RecoveryMinutes   float64 `json:"recoveryMinutes"`
	ReturnURL         string  `json:"returnUrl"`
	ReturnDomain      string  `json:"returnDomain"`
}

type FocusRecovery struct {
	AverageRecoveryMinutes float64            `json:"averageRecoveryMinutes"`
	MaxRecoveryMinutes     float64            `json:"maxRecoveryMinutes"`
	MinRecoveryMinutes     float64            `json:"minRecoveryMinutes"`
	RecoveryCount          int                `json:"recoveryCount"`
	RecoveryInstances      []RecoveryInstance `json:"recoveryInstances"`
	TotalTimeLost          float64            `json:"totalTimeLost"`
}

type DeepFocusPeriod struct {
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	DurationMinutes float64   `json:"durationMinutes"`
	URLCount        int       `json:"urlCount"`
	Domains         []string  `json:"domains"`
}

type DeepFocus struct {
	PeriodCount           int               `json:"periodCount"`
	TotalDeepFocusMinutes float64           `json:"totalDeepFocusMinutes"`
	AveragePeriodMinutes  float64           `json:"averagePeriodMinutes"`
	LongestPeriodMinutes  float64           `json:"longestPeriodMinutes"`
	Periods               []DeepFocusPeriod `json:"periods"`
}

type DistractionImpact struct {
	TotalDistractionMinutes  float64 `json:"totalDistractionMinutes"`
	DistractionPercentage    int     `json:"distractionPercentage"`
	ProductiveMinutes        float64 `json:"productiveMinutes"`
	DistractionSessionCount  int     `json:"distractionSessionCount"`
	AverageDistractionLength float64 `json:"averageDistractionLength"`
}

type FocusAnalysisReport struct {
	TotalContextSwitches int                `json:"totalContextSwitches"`
	FocusRecovery        *FocusRecovery     `json:"focusRecovery"`
	DeepFocus            *DeepFocus         `json:"deepFocus"`
	DistractionImpact    *DistractionImpact `json:"distractionImpact"`
	HasSignificantData   bool               `json:"hasSignificantData"`
}

type InsightLevel string

const (
	InsightSuccess InsightLevel = "success"
	InsightInfo    InsightLevel = "info"
	InsightWarning InsightLevel = "warning"
)

type FocusInsight struct {
	Type InsightLevel `json:"type"`
	Text string       `json:"text"`
}
