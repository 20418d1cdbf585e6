package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/dinerozz/focus-session-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteSessionsXLSX(t *testing.T) {
	stars := 4
	insight := "Excellent focus session!"
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	sessions := []entity.SessionSummary{
		{
			SessionID: "session_1",
			StartTime: start,
			EndTime:   start.Add(25 * time.Minute),
			Duration:  entity.SessionDuration{Seconds: 1500, Minutes: 25, Formatted: "25m 0s"},
			Metrics:   entity.SessionMetrics{TotalVisits: 6, ProductiveVisits: 5, NeutralVisits: 1, ProductivePercentage: 83, FocusSwitches: 1},
			TopDomains: []entity.DomainCount{
				{Domain: "github.com", Count: 4},
				{Domain: "stackoverflow.com", Count: 1},
			},
			AIInsight:  &insight,
			UserRating: &entity.UserRating{Stars: &stars, Tags: []string{"deep work", "coding"}, Notes: "good"},
		},
		{
			SessionID:  "session_2",
			StartTime:  start.Add(2 * time.Hour),
			EndTime:    start.Add(2*time.Hour + 10*time.Minute),
			TopDomains: []entity.DomainCount{{Domain: "youtube.com", Count: 3}},
			UserRating: &entity.UserRating{Skipped: true},
		},
	}

	content, err := WriteSessionsXLSX(sessions)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sessionsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Session ID", rows[0][0])
	assert.Equal(t, "session_1", rows[1][0])
	assert.Equal(t, "83", rows[1][9])
	assert.Equal(t, "4", rows[1][12])
	assert.Equal(t, "deep work, coding", rows[1][13])
	assert.Equal(t, insight, rows[1][15])
	assert.Equal(t, "skipped", rows[2][12])

	domains, err := f.GetRows(domainsSheet)
	require.NoError(t, err)
	require.Len(t, domains, 4)
	assert.Equal(t, []string{"session_1", "1", "github.com", "4"}, domains[1])
	assert.Equal(t, []string{"session_2", "1", "youtube.com", "3"}, domains[3])
}

func TestWriteSessionsXLSX_Empty(t *testing.T) {
	content, err := WriteSessionsXLSX(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sessionsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
