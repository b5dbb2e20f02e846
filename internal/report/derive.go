package report

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/discord-recap/internal/models"
)

// avatarPalette colors the leaderboard rows in rank order
var avatarPalette = []string{
	"#7C3AED", "#10B981", "#F59E0B", "#EF4444", "#3B82F6",
	"#EC4899", "#8B5CF6", "#06B6D4", "#F97316", "#14B8A6",
}

type countedKey struct {
	key   string
	count int
}

// sortedByCount returns map entries ordered by descending count.
// The sort is stable over the collected order, so equal counts keep
// their encounter order.
func sortedByCount(counts map[string]int) []countedKey {
	entries := make([]countedKey, 0, len(counts))
	for key, count := range counts {
		entries = append(entries, countedKey{key, count})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].count > entries[j].count
	})
	return entries
}

// maxCount returns the key with the highest count, with its count
func maxCount(counts map[string]int) (string, int) {
	var (
		bestKey   string
		bestCount int
	)
	for key, count := range counts {
		if count > bestCount {
			bestCount = count
			bestKey = key
		}
	}
	return bestKey, bestCount
}

// TopContributors ranks the top n authors by message count
func TopContributors(authorCounts map[string]int, lk Lookups, n int) []models.Contributor {
	entries := sortedByCount(authorCounts)
	if len(entries) > n {
		entries = entries[:n]
	}

	contributors := make([]models.Contributor, 0, len(entries))
	for i, e := range entries {
		contributors = append(contributors, models.Contributor{
			Rank:      i + 1,
			Username:  lk.MemberName(e.key),
			Messages:  e.count,
			Avatar:    avatarPalette[i%len(avatarPalette)],
			AvatarURL: lk.MemberAvatars[e.key],
		})
	}
	return contributors
}

// sortedDates returns dateCounts entries in ascending date order
func sortedDates(dateCounts map[string]int) []countedKey {
	entries := make([]countedKey, 0, len(dateCounts))
	for date, count := range dateCounts {
		entries = append(entries, countedKey{date, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].key < entries[j].key
	})
	return entries
}

// Milestones walks the daily volumes cumulatively and emits one record
// the first time each threshold is crossed. Thresholds are consumed in
// order and the walk stops early once all are spent.
func Milestones(dateCounts map[string]int, startDate string, targets []int, labels []string) []models.Milestone {
	start, startErr := time.Parse("2006-01-02", startDate)

	var milestones []models.Milestone
	cumulative := 0
	targetIdx := 0
	for _, entry := range sortedDates(dateCounts) {
		cumulative += entry.count
		for targetIdx < len(targets) && cumulative >= targets[targetIdx] {
			daysFromStart := 0
			if startErr == nil {
				if day, err := time.Parse("2006-01-02", entry.key); err == nil {
					daysFromStart = int(math.Round(day.Sub(start).Hours() / 24))
				}
			}
			milestones = append(milestones, models.Milestone{
				Count:         targets[targetIdx],
				Date:          entry.key,
				DaysFromStart: daysFromStart,
				Label:         labels[targetIdx],
			})
			targetIdx++
		}
		if targetIdx >= len(targets) {
			break
		}
	}
	return milestones
}

// CumulativeSeries emits a running-total point at most once every
// seven days, plus always the final date, to bound the series length
// over long date ranges
func CumulativeSeries(dateCounts map[string]int) []models.CumulativePoint {
	entries := sortedDates(dateCounts)

	var series []models.CumulativePoint
	runningTotal := 0
	daysSinceSample := 0
	for i, entry := range entries {
		runningTotal += entry.count
		daysSinceSample++
		if daysSinceSample >= 7 || i == len(entries)-1 {
			series = append(series, models.CumulativePoint{Date: entry.key, Cumulative: runningTotal})
			daysSinceSample = 0
		}
	}
	return series
}

// HeatmapBuckets folds the 24 hourly columns into eight three-hour
// buckets, keeping the per-weekday breakdown
func HeatmapBuckets(heatmap *[24][7]int) []models.HeatmapRow {
	rows := make([]models.HeatmapRow, 0, 8)
	for bucket := 0; bucket < 8; bucket++ {
		startHour := bucket * 3
		row := models.HeatmapRow{Hour: fmt.Sprintf("%d", startHour)}
		for day := 0; day < 7; day++ {
			sum := 0
			for off := 0; off < 3; off++ {
				sum += heatmap[startHour+off][day]
			}
			row.Data[day] = sum
		}
		rows = append(rows, row)
	}
	return rows
}

// ChannelShares breaks volume down into the top n channels plus a
// single "Other" row covering the remainder
func ChannelShares(channelCounts map[string]int, lk Lookups, totalMessages, n int) []models.ChannelStat {
	if totalMessages <= 0 {
		return nil
	}

	entries := sortedByCount(channelCounts)
	percentage := func(count int) int {
		return int(math.Round(float64(count) / float64(totalMessages) * 100))
	}

	var stats []models.ChannelStat
	otherCount := 0
	for i, e := range entries {
		if i < n {
			stats = append(stats, models.ChannelStat{
				Name:       lk.ChannelName(e.key),
				Messages:   e.count,
				Percentage: percentage(e.count),
			})
			continue
		}
		otherCount += e.count
	}
	if otherCount > 0 {
		stats = append(stats, models.ChannelStat{
			Name:       "Other",
			Messages:   otherCount,
			Percentage: percentage(otherCount),
		})
	}
	return stats
}

// BusiestDay returns the single highest-volume date
func BusiestDay(dateCounts map[string]int) models.BusiestDay {
	date, count := maxCount(dateCounts)
	return models.BusiestDay{
		Date:     date,
		Messages: count,
		Reason:   "Peak activity day",
	}
}

// MostRepliedThread returns the reply count of the most referenced message
func MostRepliedThread(referenceCounts map[string]int) models.RepliedThread {
	_, count := maxCount(referenceCounts)
	return models.RepliedThread{
		Replies: count,
		Topic:   "Most discussed thread",
	}
}
