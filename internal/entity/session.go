// entity/session.go
package entity

import "time"

type SessionDuration struct {
	Seconds   int    `json:"seconds"`
	Minutes   int    `json:"minutes"`
	Formatted string `json:"formatted"`
}

// SessionSummary is the persisted record of one finished focus session.
type SessionSummary struct {
	SessionID      string               `json:"sessionId"`
	StartTime      time.Time            `json:"startTime"`
	EndTime        time.Time            `json:"endTime"`
	Duration       SessionDuration      `json:"duration"`
	Metrics        SessionMetrics       `json:"metrics"`
	TopDomains     []DomainCount        `json:"topDomains"`
	VisitedDomains []VisitedDomain      `json:"visitedDomains"`
	FocusAnalysis  *FocusAnalysisReport `json:"focusAnalysis"`
	AIInsight      *string              `json:"aiInsight"`
	IsAIGenerated  bool                 `json:"isAiGenerated"`
	UserRating     *UserRating          `json:"userRating,omitempty"`
}

type UserRating struct {
	Stars   *int      `json:"stars"`
	Tags    []string  `json:"tags"`
	Notes   string    `json:"notes"`
	RatedAt time.Time `json:"ratedAt"`
	Skipped bool      `json:"skipped,omitempty"`
}

// IsRated reports whether the session carries a numeric, non-skipped rating.
func (s SessionSummary) IsRated() bool {
	return s.UserRating != nil && s.UserRating.Stars != nil && !s.UserRating.Skipped
}

// Stars returns the star rating, or 0 when the session is not rated.
func (s SessionSummary) Stars() int {
	if !s.IsRated() {
		return 0
	}
	return *s.UserRating.Stars
}

type RateSessionRequest struct {
	Stars int      `json:"stars" binding:"required,min=1,max=5"`
	Tags  []string `json:"tags"`
	Notes string   `json:"notes" binding:"max=2000"`
}

type SessionStatus struct {
	Active         bool       `json:"active"`
	SessionID      string     `json:"sessionId,omitempty"`
	StartTime      *time.Time `json:"startTime,omitempty"`
	ElapsedSeconds int        `json:"elapsed"`
	Formatted      string     `json:"formatted,omitempty"`
	VisitCount     int        `json:"visitCount"`
}

type SessionListFilter struct {
	RatedOnly bool `form:"ratedOnly"`
	Limit     int  `form:"limit"`
}
