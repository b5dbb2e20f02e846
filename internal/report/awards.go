package report

import (
	"fmt"
	"math"

	"github.com/discord-recap/internal/aggregate"
	"github.com/discord-recap/internal/models"
)

// CircularMeanHour converts accumulated trigonometric sums back into a
// mean posting hour in [0, 24). Averaging through the sums keeps the
// wrap at midnight correct: equal posting at 23:00 and 01:00 averages
// to 0, not 12.
func CircularMeanHour(sinSum, cosSum float64) float64 {
	angle := math.Atan2(sinSum, cosSum)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	return angle / (2 * math.Pi) * 24
}

// circularHourDistance is the wrap-aware distance between two hours
func circularHourDistance(a, b float64) float64 {
	d := math.Abs(a - b)
	if d > 12 {
		d = 24 - d
	}
	return d
}

// FormatHourMinute renders a fractional hour as a 12-hour clock time
func FormatHourMinute(hourFloat float64) string {
	hour := int(hourFloat)
	minute := int(math.Round((hourFloat - float64(hour)) * 60))
	if minute == 60 {
		minute = 0
		hour = (hour + 1) % 24
	}

	period := "AM"
	if hour >= 12 {
		period = "PM"
	}
	display := hour % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%02d %s", display, minute, period)
}

// ClosestToHour picks the author whose circular mean posting hour is
// nearest the target, among authors with at least minSamples messages
func ClosestToHour(hourStats map[string]*aggregate.HourStats, lk Lookups, target float64, minSamples int) models.TimeAward {
	var (
		bestID   string
		bestMean float64
		bestDist = math.Inf(1)
	)
	for id, stats := range hourStats {
		if stats.N < minSamples {
			continue
		}
		mean := CircularMeanHour(stats.SinSum, stats.CosSum)
		dist := circularHourDistance(mean, target)
		if dist < bestDist {
			bestDist = dist
			bestID = id
			bestMean = mean
		}
	}

	if bestID == "" {
		return models.TimeAward{}
	}
	return models.TimeAward{
		Username: lk.MemberName(bestID),
		AvgTime:  FormatHourMinute(bestMean),
		Timezone: "UTC",
	}
}

// MostActiveReplier picks the author of the most replies. The renderer
// labels this "most helpful"; the signal is reply frequency, not reply
// quality.
func MostActiveReplier(replyCounts map[string]int, lk Lookups) models.Award {
	id, count := maxCount(replyCounts)
	return models.Award{
		Username: lk.MemberName(id),
		Count:    count,
		Metric:   "helpful replies",
	}
}

// GratitudeAward tallies matched authors from the keyword content
// search and picks the most frequent one
func GratitudeAward(authorIDs []string, lk Lookups) models.Award {
	counts := make(map[string]int, len(authorIDs))
	for _, id := range authorIDs {
		counts[id]++
	}
	id, count := maxCount(counts)
	return models.Award{
		Username: lk.MemberName(id),
		Count:    count,
		Metric:   "thank yous",
	}
}

// AllNighter picks the author with the highest ratio of late-night
// messages to total messages, among authors with at least minTotal
// messages and a resolvable display name
func AllNighter(lateCounts, authorCounts map[string]int, lk Lookups, minTotal int) models.Award {
	var (
		bestID    string
		bestRatio float64
		bestCount int
	)
	for id, late := range lateCounts {
		total := authorCounts[id]
		if total < minTotal {
			continue
		}
		if _, known := lk.MemberNames[id]; !known {
			// Authors who left the server have no display data
			continue
		}
		ratio := float64(late) / float64(total)
		if ratio > bestRatio {
			bestRatio = ratio
			bestID = id
			bestCount = late
		}
	}

	return models.Award{
		Username: lk.MemberName(bestID),
		Count:    bestCount,
		Metric:   "late night messages",
	}
}
