package aggregate

import (
	"math"
	"time"

	"github.com/discord-recap/internal/models"
)

// HourStats holds the running trigonometric sums for the circular mean
// of an author's posting hour. Hour-of-day wraps at midnight, so a
// plain arithmetic mean would be wrong; the circular mean via these
// sums is not.
type HourStats struct {
	SinSum float64
	CosSum float64
	N      int
}

// Accumulators is the mutable per-run aggregate state, populated by
// exactly one full streaming pass over the archive. Every update is a
// commutative per-row increment, so page arrival order does not affect
// the final sums. Not safe for concurrent writers; the streaming fetch
// serializes page delivery.
type Accumulators struct {
	AuthorCounts          map[string]int
	ChannelCounts         map[string]int
	DateCounts            map[string]int
	Heatmap               [24][7]int // UTC hour x ISO weekday (Monday=0)
	ReplyCounts           map[string]int
	ReferenceCounts       map[string]int
	AuthorHourStats       map[string]*HourStats
	ChannelMonthCounts    map[string]map[string]int
	AuthorLateNightCounts map[string]int

	lateStart int
	lateEnd   int
}

// New creates empty accumulators. lateStart and lateEnd bound the
// inclusive UTC hour window counted as late night.
func New(lateStart, lateEnd int) *Accumulators {
	return &Accumulators{
		AuthorCounts:          make(map[string]int),
		ChannelCounts:         make(map[string]int),
		DateCounts:            make(map[string]int),
		ReplyCounts:           make(map[string]int),
		ReferenceCounts:       make(map[string]int),
		AuthorHourStats:       make(map[string]*HourStats),
		ChannelMonthCounts:    make(map[string]map[string]int),
		AuthorLateNightCounts: make(map[string]int),
		lateStart:             lateStart,
		lateEnd:               lateEnd,
	}
}

// ProcessPage folds one page of scan rows into the accumulators
func (a *Accumulators) ProcessPage(rows []models.ScanRow) {
	for i := range rows {
		row := &rows[i]

		a.AuthorCounts[row.AuthorID]++
		a.ChannelCounts[row.ChannelID]++

		if len(row.CreatedAt) >= 10 {
			a.DateCounts[row.CreatedAt[:10]]++
		}
		if len(row.CreatedAt) >= 7 {
			month := row.CreatedAt[:7]
			channelMonths, ok := a.ChannelMonthCounts[row.ChannelID]
			if !ok {
				channelMonths = make(map[string]int)
				a.ChannelMonthCounts[row.ChannelID] = channelMonths
			}
			channelMonths[month]++
		}

		if row.ReferenceID != nil && *row.ReferenceID != "" {
			a.ReplyCounts[row.AuthorID]++
			a.ReferenceCounts[*row.ReferenceID]++
		}

		// Hour-derived stats need a parseable timestamp; rows with a
		// malformed created_at keep their count-based contributions
		// and are skipped here.
		ts, err := parseTimestamp(row.CreatedAt)
		if err != nil {
			continue
		}
		utc := ts.UTC()
		hour := utc.Hour()
		weekday := (int(utc.Weekday()) + 6) % 7 // Sunday -> 6, week starts Monday
		a.Heatmap[hour][weekday]++

		angle := float64(hour) / 24 * 2 * math.Pi
		stats, ok := a.AuthorHourStats[row.AuthorID]
		if !ok {
			stats = &HourStats{}
			a.AuthorHourStats[row.AuthorID] = stats
		}
		stats.SinSum += math.Sin(angle)
		stats.CosSum += math.Cos(angle)
		stats.N++

		if hour >= a.lateStart && hour <= a.lateEnd {
			a.AuthorLateNightCounts[row.AuthorID]++
		}
	}
}

// parseTimestamp parses the ISO timestamps the store emits, with or
// without an explicit offset
func parseTimestamp(value string) (time.Time, error) {
	ts, err := time.Parse(time.RFC3339, value)
	if err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02T15:04:05", value)
}
