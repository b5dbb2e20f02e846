// Package sample derives text statistics from a random sample of
// message pages. The results are estimates: message bodies are the
// expensive part of the archive, so only min(SamplePages, totalPages)
// pages are scanned, and repeated runs may crown different winners.
package sample

import (
	"math/rand"
	"regexp"
	"sort"
	"strings"

	"github.com/discord-recap/internal/models"
)

// emojiPattern matches single code points in the common emoji blocks:
// emoticons, symbols and pictographs, transport, flags, dingbats,
// supplemental blocks, variation selectors, ZWJ and keycap marks
var emojiPattern = regexp.MustCompile(`[\x{1F600}-\x{1F64F}\x{1F300}-\x{1F5FF}\x{1F680}-\x{1F6FF}\x{1F1E0}-\x{1F1FF}\x{2600}-\x{26FF}\x{2700}-\x{27BF}\x{FE00}-\x{FE0F}\x{1F900}-\x{1F9FF}\x{1FA00}-\x{1FA6F}\x{1FA70}-\x{1FAFF}\x{200D}\x{20E3}\x{E0020}-\x{E007F}]`)

var wordStrip = regexp.MustCompile(`[^a-z0-9'-]`)

var stopWords = buildStopWords()

func buildStopWords() map[string]struct{} {
	words := []string{
		"the", "be", "to", "of", "and", "a", "in", "that", "have", "i", "it", "for", "not", "on", "with", "he", "as", "you", "do", "at",
		"this", "but", "his", "by", "from", "they", "we", "say", "her", "she", "or", "an", "will", "my", "one", "all", "would", "there",
		"their", "what", "so", "up", "out", "if", "about", "who", "get", "which", "go", "me", "when", "make", "can", "like", "time",
		"no", "just", "him", "know", "take", "people", "into", "year", "your", "good", "some", "could", "them", "see", "other",
		"than", "then", "now", "look", "only", "come", "its", "over", "think", "also", "back", "after", "use", "two", "how", "our",
		"work", "first", "well", "way", "even", "new", "want", "because", "any", "these", "give", "day", "most", "us", "is", "are",
		"was", "were", "been", "has", "had", "did", "does", "am", "im", "i'm", "dont", "don't", "cant", "can't", "thats", "that's",
		"yeah", "yes", "ok", "okay",
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Stats is the outcome of analyzing one content sample
type Stats struct {
	LongestChars    int
	LongestAuthorID string
	TopEmoji        string
	TopEmojiCount   int
	TopWord         string
	TopWordCount    int
}

// PageIndices picks want distinct page indices uniformly at random
// from [0, totalPages) without replacement. Rejection sampling is fine
// here since the sample is far smaller than the population. Indices
// come back sorted for deterministic fetch order.
func PageIndices(totalPages, want int, rng *rand.Rand) []int {
	if want > totalPages {
		want = totalPages
	}
	if want <= 0 {
		return nil
	}

	picked := make(map[int]struct{}, want)
	for len(picked) < want {
		picked[rng.Intn(totalPages)] = struct{}{}
	}

	indices := make([]int, 0, want)
	for idx := range picked {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	return indices
}

// Analyze derives the sample statistics from the collected rows
func Analyze(rows []models.ContentRow) Stats {
	stats := Stats{TopEmoji: "🔥"}

	emojiCounts := make(map[string]int)
	wordCounts := make(map[string]int)

	for i := range rows {
		row := &rows[i]
		if row.Content == "" {
			continue
		}

		if len(row.Content) > stats.LongestChars {
			stats.LongestChars = len(row.Content)
			stats.LongestAuthorID = row.AuthorID
		}

		for _, emoji := range emojiPattern.FindAllString(row.Content, -1) {
			emojiCounts[emoji]++
		}

		for _, token := range strings.Fields(strings.ToLower(row.Content)) {
			word := wordStrip.ReplaceAllString(token, "")
			if len(word) < 3 {
				continue
			}
			if _, stop := stopWords[word]; stop {
				continue
			}
			wordCounts[word]++
		}
	}

	for emoji, count := range emojiCounts {
		if count > stats.TopEmojiCount {
			stats.TopEmojiCount = count
			stats.TopEmoji = emoji
		}
	}
	for word, count := range wordCounts {
		if count > stats.TopWordCount {
			stats.TopWordCount = count
			stats.TopWord = word
		}
	}
	return stats
}
