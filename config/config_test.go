package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ARCHIVE_LIMIT", "")
	cfg := LoadConfig()

	// empty value is not a number, so the default is kept
	assert.Equal(t, 50, cfg.Analytics.ArchiveLimit)
	assert.Equal(t, 10, cfg.Analytics.MilestoneInterval)
	assert.Equal(t, 20.0, cfg.Analytics.SignificantChangePoints)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("ARCHIVE_LIMIT", "20")
	t.Setenv("SIGNIFICANT_CHANGE_POINTS", "12.5")
	t.Setenv("ARCHIVE_STORE", "sqlite")
	t.Setenv("REDIS_DB", "oops")

	cfg := LoadConfig()

	assert.Equal(t, 20, cfg.Analytics.ArchiveLimit)
	assert.Equal(t, 12.5, cfg.Analytics.SignificantChangePoints)
	assert.Equal(t, "sqlite", cfg.Archive.Driver)
	assert.Equal(t, 0, cfg.Redis.DB)
}
