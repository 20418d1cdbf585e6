package pattern_analyzer

import (
	"fmt"
	"time"

	"github.com/dinerozz/focus-session-backend/internal/entity"
)

var day = time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)

type sessionOpt func(*entity.SessionSummary)

func newSession(id int, opts ...sessionOpt) entity.SessionSummary {
	s := entity.SessionSummary{
		SessionID: fmt.Sprintf("session_%d", id),
		StartTime: day.Add(time.Duration(id) * 24 * time.Hour).Add(10 * time.Hour),
		Duration:  entity.SessionDuration{Minutes: 30, Seconds: 1800},
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

func rated(stars int, tags ...string) sessionOpt {
	return func(s *entity.SessionSummary) {
		st := stars
		s.UserRating = &entity.UserRating{Stars: &st, Tags: tags, RatedAt: s.StartTime}
	}
}

func skipped() sessionOpt {
	return func(s *entity.SessionSummary) {
		s.UserRating = &entity.UserRating{Skipped: true, Tags: []string{}}
	}
}

func minutes(m int) sessionOpt {
	return func(s *entity.SessionSummary) {
		s.Duration = entity.SessionDuration{Minutes: m, Seconds: m * 60}
	}
}

func metrics(productive, distracting, switches int) sessionOpt {
	return func(s *entity.SessionSummary) {
		s.Metrics.ProductivePercentage = productive
		s.Metrics.DistractingPercentage = distracting
		s.Metrics.FocusSwitches = switches
	}
}

func startHour(hour int) sessionOpt {
	return func(s *entity.SessionSummary) {
		y, m, d := s.StartTime.Date()
		s.StartTime = time.Date(y, m, d, hour, 15, 0, 0, time.UTC)
	}
}

func domains(names ...string) sessionOpt {
	return func(s *entity.SessionSummary) {
		for i, name := range names {
			s.VisitedDomains = append(s.VisitedDomains, entity.VisitedDomain{
				Domain:    name,
				Category:  entity.CategoryNeutral,
				Timestamp: s.StartTime.Add(time.Duration(i) * time.Minute),
			})
		}
	}
}

func withCategory(domain string, category entity.Category) sessionOpt {
	return func(s *entity.SessionSummary) {
		s.VisitedDomains = append(s.VisitedDomains, entity.VisitedDomain{
			Domain:    domain,
			Category:  category,
			Timestamp: s.StartTime,
		})
	}
}

func ratedSeries(stars ...int) []entity.SessionSummary {
	sessions := make([]entity.SessionSummary, len(stars))
	for i, st := range stars {
		sessions[i] = newSession(i, rated(st), metrics(60, 20, 3))
	}
	return sessions
}
