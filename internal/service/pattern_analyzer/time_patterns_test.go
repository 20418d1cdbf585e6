package pattern_analyzer

import (
	"testing"

	"github.com/dinerozz/focus-session-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodOf(t *testing.T) {
	assert.Equal(t, entity.PeriodNight, PeriodOf(0))
	assert.Equal(t, entity.PeriodNight, PeriodOf(5))
	assert.Equal(t, entity.PeriodMorning, PeriodOf(6))
	assert.Equal(t, entity.PeriodMorning, PeriodOf(11))
	assert.Equal(t, entity.PeriodAfternoon, PeriodOf(12))
	assert.Equal(t, entity.PeriodAfternoon, PeriodOf(17))
	assert.Equal(t, entity.PeriodEvening, PeriodOf(18))
	assert.Equal(t, entity.PeriodEvening, PeriodOf(23))
}

func dayParts() []entity.SessionSummary {
	return []entity.SessionSummary{
		newSession(1, rated(5), startHour(9), metrics(90, 0, 1)),
		newSession(2, rated(4), startHour(10), metrics(70, 10, 2)),
		newSession(3, rated(3), startHour(14), metrics(50, 20, 3)),
		newSession(4, rated(3), startHour(15), metrics(40, 20, 3)),
		newSession(5, rated(2), startHour(20), metrics(20, 50, 6)),
		newSession(6, rated(1), startHour(22), metrics(10, 70, 8)),
		newSession(7, rated(5), startHour(3), metrics(95, 0, 0)),
		newSession(8, startHour(3), metrics(0, 100, 12)),
	}
}

func TestAnalyzeTimePatterns(t *testing.T) {
	patterns := AnalyzeTimePatterns(dayParts())
	require.Len(t, patterns, 4)

	assert.Equal(t, entity.TimePeriodStats{
		Period:              entity.PeriodMorning,
		Count:               2,
		AverageRating:       4.5,
		AverageProductivity: 80,
		SessionIDs:          []string{"session_1", "session_2"},
	}, patterns[0])
	assert.Equal(t, entity.PeriodAfternoon, patterns[1].Period)
	assert.Equal(t, 3.0, patterns[1].AverageRating)
	assert.Equal(t, entity.PeriodEvening, patterns[2].Period)
	assert.Equal(t, 1.5, patterns[2].AverageRating)
	assert.Equal(t, entity.PeriodNight, patterns[3].Period)
	assert.Equal(t, 1, patterns[3].Count)
}

func TestBestAndWorstTimeOfDay(t *testing.T) {
	sessions := dayParts()

	best := GetBestTimeOfDay(sessions)
	require.NotNil(t, best)
	assert.Equal(t, &entity.TimeOfDay{
		Period:              entity.PeriodMorning,
		TimeRange:           "6am - 12pm",
		AverageRating:       4.5,
		SessionCount:        2,
		AverageProductivity: 80,
	}, best)

	worst := GetWorstTimeOfDay(sessions)
	require.NotNil(t, worst)
	assert.Equal(t, entity.PeriodEvening, worst.Period)
	assert.Equal(t, "6pm - 12am", worst.TimeRange)
	assert.Equal(t, 1.5, worst.AverageRating)
}

func TestTimeOfDay_RequiresTwoSessionsPerPeriod(t *testing.T) {
	sessions := []entity.SessionSummary{
		newSession(1, rated(5), startHour(9)),
		newSession(2, rated(1), startHour(20)),
	}

	assert.Nil(t, GetBestTimeOfDay(sessions))
	assert.Nil(t, GetWorstTimeOfDay(sessions))
	assert.Nil(t, AnalyzeTimePatterns([]entity.SessionSummary{newSession(3)}))
}

func TestGetProductivityByHour(t *testing.T) {
	sessions := []entity.SessionSummary{
		newSession(1, rated(5), startHour(14), metrics(90, 0, 1)),
		newSession(2, rated(2), startHour(0), metrics(15, 60, 7)),
		newSession(3, rated(4), startHour(14), metrics(71, 10, 2)),
		newSession(4, startHour(9), metrics(50, 10, 2)),
	}

	hours := GetProductivityByHour(sessions)
	require.Len(t, hours, 2)

	assert.Equal(t, entity.HourlyProductivity{Hour: 0, HourLabel: "12am", SessionCount: 1, AverageRating: 2, AverageProductivity: 15}, hours[0])
	assert.Equal(t, entity.HourlyProductivity{Hour: 14, HourLabel: "2pm", SessionCount: 2, AverageRating: 4.5, AverageProductivity: 81}, hours[1])

	assert.Empty(t, GetProductivityByHour(nil))
}
