package entity

import "time"

type Category string

const (
	CategoryProductive  Category = "productive"
	CategoryDistracting Category = "distracting"
	CategoryNeutral     Category = "neutral"
)

// Visit is a single tab activation or page load recorded during a session.
type Visit struct {
	URL       string    `json:"url" binding:"required"`
	Title     string    `json:"title"`
	Timestamp time.Time `json:"timestamp"`
}

type CategorizedVisit struct {
	Visit
	Domain   string   `json:"domain"`
	Category Category `json:"category"`
}

type RecordVisitRequest struct {
	URL       string     `json:"url" binding:"required"`
	Title     string     `json:"title"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// AnalyzeSessionRequest carries a full visit log buffered on the extension side.
type AnalyzeSessionRequest struct {
	SessionID string    `json:"sessionId"`
	StartTime time.Time `json:"startTime" binding:"required"`
	EndTime   time.Time `json:"endTime" binding:"required"`
	Visits    []Visit   `json:"visits" binding:"dive"`
}
