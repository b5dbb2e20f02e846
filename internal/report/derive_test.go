package report

import (
	"testing"

	"github.com/discord-recap/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLookups() Lookups {
	return BuildLookups(
		[]models.Member{
			{MemberID: "a", Username: "alice"},
			{MemberID: "b", Username: "bob", GlobalName: "Bobby"},
			{MemberID: "c", Username: "carol", GlobalName: "Caz", ServerNick: "C"},
			{MemberID: "ghost", Username: "ghost"},
		},
		[]models.Channel{
			{ChannelID: "ch1", ChannelName: "general"},
			{ChannelID: "ch2", ChannelName: "memes"},
		},
	)
}

func TestBuildLookups_DisplayNamePriority(t *testing.T) {
	lk := testLookups()

	assert.Equal(t, "alice", lk.MemberName("a"), "username is the last resort")
	assert.Equal(t, "Bobby", lk.MemberName("b"), "global name beats username")
	assert.Equal(t, "C", lk.MemberName("c"), "server nick beats everything")
	assert.Equal(t, "unknown-id", lk.MemberName("unknown-id"), "unknown members fall back to the id")
	assert.Equal(t, "#general", lk.ChannelName("ch1"))
}

func TestTopContributors(t *testing.T) {
	lk := testLookups()
	counts := map[string]int{"a": 10, "b": 30, "c": 20, "d": 5, "e": 4, "f": 3}

	top := TopContributors(counts, lk, 5)

	require.Len(t, top, 5)
	assert.Equal(t, 1, top[0].Rank)
	assert.Equal(t, "Bobby", top[0].Username)
	assert.Equal(t, 30, top[0].Messages)
	assert.Equal(t, "C", top[1].Username)
	assert.Equal(t, "alice", top[2].Username)
	for i, c := range top {
		assert.Equal(t, i+1, c.Rank)
		assert.NotEmpty(t, c.Avatar)
	}
}

func TestTopContributors_ExcludesZeroMessageAuthors(t *testing.T) {
	lk := testLookups()
	// "ghost" is in the member table but never posted; only posting
	// authors appear in the counts, so ghost can never rank
	counts := map[string]int{"a": 2}

	top := TopContributors(counts, lk, 5)

	require.Len(t, top, 1)
	assert.Equal(t, "alice", top[0].Username)
}

func TestMilestones_ThresholdCrossing(t *testing.T) {
	dateCounts := map[string]int{
		"2024-01-01": 40000,
		"2024-01-02": 40000,
		"2024-01-03": 30000,
	}

	milestones := Milestones(dateCounts, "2024-01-01", []int{100000}, []string{"The First 100K"})

	require.Len(t, milestones, 1)
	assert.Equal(t, 100000, milestones[0].Count)
	assert.Equal(t, "2024-01-03", milestones[0].Date)
	assert.Equal(t, 2, milestones[0].DaysFromStart)
	assert.Equal(t, "The First 100K", milestones[0].Label)
}

func TestMilestones_Monotonic(t *testing.T) {
	dateCounts := map[string]int{
		"2024-01-01": 150, // crosses 100 immediately
		"2024-01-02": 100,
		"2024-01-03": 300, // crosses both 250 and 500
		"2024-01-04": 100,
	}
	targets := []int{100, 250, 500, 1000000}
	labels := []string{"m1", "m2", "m3", "m4"}

	milestones := Milestones(dateCounts, "2024-01-01", targets, labels)

	require.Len(t, milestones, 3, "unreached thresholds are not emitted")
	for i := 1; i < len(milestones); i++ {
		assert.Greater(t, milestones[i].Count, milestones[i-1].Count)
		assert.GreaterOrEqual(t, milestones[i].Date, milestones[i-1].Date)
	}
	// A single day may cross several thresholds
	assert.Equal(t, "2024-01-03", milestones[1].Date)
	assert.Equal(t, "2024-01-03", milestones[2].Date)
}

func TestCumulativeSeries_WeeklySampling(t *testing.T) {
	dateCounts := make(map[string]int)
	for day := 1; day <= 20; day++ {
		dateCounts[date2024Jan(day)] = 10
	}

	series := CumulativeSeries(dateCounts)

	// Days 7, 14 and the final day 20
	require.Len(t, series, 3)
	assert.Equal(t, models.CumulativePoint{Date: "2024-01-07", Cumulative: 70}, series[0])
	assert.Equal(t, models.CumulativePoint{Date: "2024-01-14", Cumulative: 140}, series[1])
	assert.Equal(t, models.CumulativePoint{Date: "2024-01-20", Cumulative: 200}, series[2])
}

func date2024Jan(day int) string {
	return "2024-01-" + twoDigits(day)
}

func twoDigits(n int) string {
	if n < 10 {
		return "0" + string(rune('0'+n))
	}
	return string(rune('0'+n/10)) + string(rune('0'+n%10))
}

func TestHeatmapBuckets(t *testing.T) {
	var heatmap [24][7]int
	heatmap[0][0] = 1
	heatmap[1][0] = 2
	heatmap[2][0] = 3
	heatmap[3][0] = 5
	heatmap[23][6] = 7

	rows := HeatmapBuckets(&heatmap)

	require.Len(t, rows, 8)
	assert.Equal(t, 6, rows[0].Data[0], "hours 0-2 fold into the first bucket")
	assert.Equal(t, 5, rows[1].Data[0], "hour 3 starts the second bucket")
	assert.Equal(t, 7, rows[7].Data[6], "hour 23 lands in the last bucket")

	total := 0
	for _, r := range rows {
		for _, v := range r.Data {
			total += v
		}
	}
	assert.Equal(t, 18, total, "bucketing conserves the total")
}

func TestChannelShares(t *testing.T) {
	lk := testLookups()
	counts := map[string]int{
		"ch1": 500, "ch2": 200, "ch3": 100, "ch4": 80, "ch5": 70, "ch6": 30, "ch7": 20,
	}

	stats := ChannelShares(counts, lk, 1000, 5)

	require.Len(t, stats, 6)
	assert.Equal(t, "#general", stats[0].Name)
	assert.Equal(t, 50, stats[0].Percentage)
	assert.Equal(t, "Other", stats[5].Name)
	assert.Equal(t, 50, stats[5].Messages)
	assert.Equal(t, 5, stats[5].Percentage)
}

func TestChannelShares_NoOtherRowWhenTopCoversAll(t *testing.T) {
	lk := testLookups()
	stats := ChannelShares(map[string]int{"ch1": 10}, lk, 10, 5)

	require.Len(t, stats, 1)
	assert.Equal(t, 100, stats[0].Percentage)
}

func TestBusiestDayAndMostReplied(t *testing.T) {
	busiest := BusiestDay(map[string]int{"2024-01-01": 5, "2024-03-03": 50, "2024-02-02": 7})
	assert.Equal(t, "2024-03-03", busiest.Date)
	assert.Equal(t, 50, busiest.Messages)

	thread := MostRepliedThread(map[string]int{"m1": 3, "m2": 9})
	assert.Equal(t, 9, thread.Replies)
}
