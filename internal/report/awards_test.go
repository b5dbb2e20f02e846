package report

import (
	"math"
	"testing"

	"github.com/discord-recap/internal/aggregate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hourStatsFor builds the trigonometric sums an author posting only at
// the given hours would accumulate
func hourStatsFor(hours ...int) *aggregate.HourStats {
	stats := &aggregate.HourStats{}
	for _, h := range hours {
		angle := float64(h) / 24 * 2 * math.Pi
		stats.SinSum += math.Sin(angle)
		stats.CosSum += math.Cos(angle)
		stats.N++
	}
	return stats
}

func TestCircularMeanHour_WrapsMidnight(t *testing.T) {
	// Equal posting at 23:00 and 01:00 must average to midnight, not noon
	stats := hourStatsFor(23, 1)
	mean := CircularMeanHour(stats.SinSum, stats.CosSum)

	wrapped := math.Min(mean, 24-mean)
	assert.InDelta(t, 0, wrapped, 1e-6)
}

func TestCircularMeanHour_PlainHours(t *testing.T) {
	stats := hourStatsFor(6)
	assert.InDelta(t, 6, CircularMeanHour(stats.SinSum, stats.CosSum), 1e-6)

	stats = hourStatsFor(14, 16)
	assert.InDelta(t, 15, CircularMeanHour(stats.SinSum, stats.CosSum), 1e-6)
}

func TestFormatHourMinute(t *testing.T) {
	assert.Equal(t, "12:00 AM", FormatHourMinute(0))
	assert.Equal(t, "3:30 AM", FormatHourMinute(3.5))
	assert.Equal(t, "12:15 PM", FormatHourMinute(12.25))
	assert.Equal(t, "11:59 PM", FormatHourMinute(23.99))
}

func TestClosestToHour(t *testing.T) {
	lk := testLookups()

	repeat := func(hour, n int) *aggregate.HourStats {
		stats := &aggregate.HourStats{}
		for i := 0; i < n; i++ {
			angle := float64(hour) / 24 * 2 * math.Pi
			stats.SinSum += math.Sin(angle)
			stats.CosSum += math.Cos(angle)
			stats.N++
		}
		return stats
	}

	hourStats := map[string]*aggregate.HourStats{
		"a": repeat(2, 150),  // posts at 2 AM
		"b": repeat(9, 150),  // posts at 9 AM
		"c": repeat(3, 50),   // closest to 3 AM but under the sample floor
	}

	award := ClosestToHour(hourStats, lk, 3, 100)
	assert.Equal(t, "alice", award.Username, "authors under the minimum sample are ineligible")
	assert.Equal(t, "2:00 AM", award.AvgTime)
	assert.Equal(t, "UTC", award.Timezone)
}

func TestClosestToHour_NoEligibleAuthors(t *testing.T) {
	award := ClosestToHour(map[string]*aggregate.HourStats{}, testLookups(), 3, 100)
	assert.Empty(t, award.Username)
}

func TestMostActiveReplier(t *testing.T) {
	lk := testLookups()
	award := MostActiveReplier(map[string]int{"a": 5, "b": 12}, lk)

	assert.Equal(t, "Bobby", award.Username)
	assert.Equal(t, 12, award.Count)
	assert.Equal(t, "helpful replies", award.Metric)
}

func TestGratitudeAward(t *testing.T) {
	lk := testLookups()
	award := GratitudeAward([]string{"a", "b", "a", "a", "c"}, lk)

	assert.Equal(t, "alice", award.Username)
	assert.Equal(t, 3, award.Count)
	assert.Equal(t, "thank yous", award.Metric)
}

func TestAllNighter(t *testing.T) {
	lk := testLookups()

	lateCounts := map[string]int{"a": 50, "b": 80, "ghost2": 200}
	authorCounts := map[string]int{"a": 100, "b": 400, "ghost2": 200}

	award := AllNighter(lateCounts, authorCounts, lk, 100)

	// ghost2 has the best ratio but no display data; alice wins on
	// ratio (0.5) over Bobby (0.2)
	require.Equal(t, "alice", award.Username)
	assert.Equal(t, 50, award.Count)
	assert.Equal(t, "late night messages", award.Metric)
}

func TestAllNighter_MinimumVolume(t *testing.T) {
	lk := testLookups()

	award := AllNighter(map[string]int{"a": 9}, map[string]int{"a": 10}, lk, 100)
	assert.Empty(t, award.Username, "low-volume authors never win")
}
