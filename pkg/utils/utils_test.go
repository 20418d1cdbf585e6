package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRounding(t *testing.T) {
	assert.Equal(t, 9.0, RoundToOneDecimal(9.0))
	assert.Equal(t, 2.3, RoundToOneDecimal(2.25))
	assert.Equal(t, 0.67, RoundToTwoDecimals(2.0/3.0))
	assert.Equal(t, 3, RoundToInt(2.5))
	assert.Equal(t, -2, RoundToInt(-2.5))
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0, Percentage(3, 0))
	assert.Equal(t, 33, Percentage(1, 3))
	assert.Equal(t, 67, Percentage(2, 3))
	assert.Equal(t, 100, Percentage(4, 4))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0s", FormatDuration(0))
	assert.Equal(t, "45s", FormatDuration(45))
	assert.Equal(t, "2m 5s", FormatDuration(125))
	assert.Equal(t, "1h 0m 1s", FormatDuration(3601))
	assert.Equal(t, "2h 5m", FormatHoursMinutes(125))
}

func TestFormatHourLabel(t *testing.T) {
	assert.Equal(t, "12am", FormatHourLabel(0))
	assert.Equal(t, "9am", FormatHourLabel(9))
	assert.Equal(t, "12pm", FormatHourLabel(12))
	assert.Equal(t, "11pm", FormatHourLabel(23))
	assert.Equal(t, "3:00 PM", FormatHourTimestamp(15))
}

func TestLocation(t *testing.T) {
	SetLocation("Not/AZone")
	assert.Equal(t, time.UTC, Location())

	SetLocation("UTC")
	ts := time.Date(2024, 3, 1, 7, 30, 0, 0, time.UTC)
	assert.Equal(t, 7, LocalHour(ts))
}

func TestNewSessionID(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	id := NewSessionID(now)

	assert.Regexp(t, regexp.MustCompile(`^session_1700000000123_[0-9a-f]{9}$`), id)
	assert.NotEqual(t, id, NewSessionID(now))
}

func TestTokenRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")
	id := uuid.Must(uuid.NewV4())

	token, err := GenerateToken(id, "admin")
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, id.String(), claims["user_id"])

	_, err = ValidateToken(token + "x")
	assert.Error(t, err)
}

func TestValidateUUID(t *testing.T) {
	assert.True(t, ValidateUUID(uuid.Must(uuid.NewV4()).String()))
	assert.False(t, ValidateUUID("session_1"))
}
