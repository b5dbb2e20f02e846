package report

import (
	"math"
	"sort"
	"strings"

	"github.com/discord-recap/internal/models"
)

// normalizePattern lowercases a pattern and strips anything outside
// [a-z0-9_-], matching how channel names are stored
func normalizePattern(pattern string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(pattern) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// matchesPattern reports whether a channel name belongs to a pattern:
// an exact match, or a prefix delimited by "_" or "-". "flux" covers
// "flux_gens" and "flux-dev" but not "fluxy".
func matchesPattern(channelName, pattern string) bool {
	return channelName == pattern ||
		strings.HasPrefix(channelName, pattern+"_") ||
		strings.HasPrefix(channelName, pattern+"-")
}

// ClassifyChannels assigns each channel to at most one category by
// matching its name against the configured pattern table
func ClassifyChannels(channels []models.Channel, categoryPatterns map[string][]string) map[string]string {
	channelCategory := make(map[string]string)
	for category, patterns := range categoryPatterns {
		for _, pattern := range patterns {
			normalized := normalizePattern(pattern)
			for _, ch := range channels {
				if matchesPattern(strings.ToLower(ch.ChannelName), normalized) {
					channelCategory[ch.ChannelID] = category
				}
			}
		}
	}
	return channelCategory
}

// CategoryTrends converts per-channel monthly volumes into a monthly
// percentage share per category. Each month's shares sum to ~100; a
// month with no classified volume yields all zeros.
func CategoryTrends(channelMonthCounts map[string]map[string]int, channelCategory map[string]string, categories []string) []models.TrendPoint {
	categoryMonthCounts := make(map[string]map[string]int, len(categories))
	for _, category := range categories {
		categoryMonthCounts[category] = make(map[string]int)
	}

	monthSet := make(map[string]struct{})
	for channelID, months := range channelMonthCounts {
		category, ok := channelCategory[channelID]
		if !ok {
			continue
		}
		counts, ok := categoryMonthCounts[category]
		if !ok {
			continue
		}
		for month, count := range months {
			monthSet[month] = struct{}{}
			counts[month] += count
		}
	}

	months := make([]string, 0, len(monthSet))
	for month := range monthSet {
		months = append(months, month)
	}
	sort.Strings(months)

	trends := make([]models.TrendPoint, 0, len(months))
	for _, month := range months {
		total := 0
		for _, category := range categories {
			total += categoryMonthCounts[category][month]
		}

		shares := make(map[string]float64, len(categories))
		for _, category := range categories {
			if total == 0 {
				shares[category] = 0
				continue
			}
			count := categoryMonthCounts[category][month]
			shares[category] = math.Round(float64(count)/float64(total)*1000) / 10
		}
		trends = append(trends, models.TrendPoint{Month: month, Shares: shares})
	}
	return trends
}
