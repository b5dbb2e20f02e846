package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("SUPABASE_URL", "http://localhost:54321")
	t.Setenv("SUPABASE_KEY", "test-key")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 1000, cfg.PageSize)
	assert.Equal(t, 5, cfg.Concurrency)
	assert.Equal(t, "discord_messages", cfg.MessagesTable)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "data.json", cfg.OutputPath)
	assert.Empty(t, cfg.CronSchedule)

	assert.Equal(t, []int{100000, 250000, 500000, 750000, 1000000}, cfg.MilestoneTargets)
	assert.Len(t, cfg.MilestoneLabels, len(cfg.MilestoneTargets))
	assert.Equal(t, 999999, cfg.HighlightOffset)

	assert.Equal(t, 100, cfg.MinAwardSample)
	assert.InDelta(t, 3, cfg.NightOwlTargetHour, 1e-9)
	assert.InDelta(t, 6, cfg.EarlyBirdTarget, 1e-9)
	assert.Equal(t, "thank", cfg.GratitudeKeyword)
	assert.Equal(t, 10, cfg.SamplePages)

	assert.Contains(t, cfg.CategoryPatterns, "flux")
	assert.Equal(t, len(cfg.CategoryPatterns), len(cfg.CategoryOrder))
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PAGE_SIZE", "250")
	t.Setenv("FETCH_CONCURRENCY", "2")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("NIGHT_OWL_TARGET_HOUR", "2.5")
	t.Setenv("CRON_SCHEDULE", "0 4 * * *")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 250, cfg.PageSize)
	assert.Equal(t, 2, cfg.Concurrency)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.InDelta(t, 2.5, cfg.NightOwlTargetHour, 1e-9)
	assert.Equal(t, "0 4 * * *", cfg.CronSchedule)
}

func TestLoad_MalformedIntFallsBack(t *testing.T) {
	setRequired(t)
	t.Setenv("PAGE_SIZE", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.PageSize)
}

func TestLoad_CategoryPatternsJSON(t *testing.T) {
	setRequired(t)
	t.Setenv("CATEGORY_PATTERNS_JSON", `{"flux":["flux","flux_gens"]}`)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, map[string][]string{"flux": {"flux", "flux_gens"}}, cfg.CategoryPatterns)
	assert.Equal(t, []string{"flux"}, cfg.CategoryOrder)
}

func TestLoad_CategoryPatternsJSONInvalid(t *testing.T) {
	setRequired(t)
	t.Setenv("CATEGORY_PATTERNS_JSON", "{not json")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CATEGORY_PATTERNS_JSON")
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_KEY", "test-key")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SUPABASE_URL is required")
}

func TestLoad_RejectsBadValues(t *testing.T) {
	cases := map[string]struct {
		key, value string
		wantErr    string
	}{
		"zero page size":    {"PAGE_SIZE", "0", "PAGE_SIZE must be positive"},
		"zero concurrency":  {"FETCH_CONCURRENCY", "-1", "FETCH_CONCURRENCY must be positive"},
		"bad log level":     {"LOG_LEVEL", "verbose", "LOG_LEVEL must be one of"},
		"inverted window":   {"LATE_NIGHT_START_HOUR", "6", "late night window"},
		"zero sample pages": {"SAMPLE_PAGES", "0", "SAMPLE_PAGES must be positive"},
		"zero award sample": {"MIN_AWARD_SAMPLE", "0", "MIN_AWARD_SAMPLE must be positive"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tc.key, tc.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
