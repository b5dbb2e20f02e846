package models

// Report is the single immutable output of a pipeline run.
// It is built phase by phase and sealed once the run completes; the
// field layout matches the JSON document consumed by the renderer.
type Report struct {
	TotalMessages int    `json:"totalMessages"`
	TotalMembers  int    `json:"totalMembers"`
	TotalChannels int    `json:"totalChannels"`
	GeneratedAt   string `json:"generatedAt"`

	DateRange          DateRange         `json:"dateRange"`
	Milestones         []Milestone       `json:"milestones"`
	CumulativeMessages []CumulativePoint `json:"cumulativeMessages"`
	TopContributors    []Contributor     `json:"topContributors"`
	Awards             Awards            `json:"awards"`
	CategoryTrends     []TrendPoint      `json:"modelTrends"`
	ActivityHeatmap    []HeatmapRow      `json:"activityHeatmap"`
	ChannelStats       []ChannelStat     `json:"channelStats"`
	FunStats           FunStats          `json:"funStats"`
	HighlightMessage   *HighlightMessage `json:"millionthMessage"`
	TopGenerations     []MediaPost       `json:"topGenerations"`
}

// DateRange covers the first and last message dates (YYYY-MM-DD)
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Milestone marks the first date the cumulative message count crossed
// a configured threshold
type Milestone struct {
	Count         int    `json:"count"`
	Date          string `json:"date"`
	DaysFromStart int    `json:"daysFromStart"`
	Label         string `json:"label"`
}

// CumulativePoint is one sampled point of the cumulative volume series
type CumulativePoint struct {
	Date       string `json:"date"`
	Cumulative int    `json:"cumulative"`
}

// Contributor is one row of the top-contributor leaderboard
type Contributor struct {
	Rank      int    `json:"rank"`
	Username  string `json:"username"`
	Messages  int    `json:"messages"`
	Avatar    string `json:"avatar"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// Award is a count-based award (most helpful, most thankful, all-nighter)
type Award struct {
	Username string `json:"username"`
	Count    int    `json:"count"`
	Metric   string `json:"metric"`
}

// TimeAward is a circular-mean-of-posting-hour award
type TimeAward struct {
	Username string `json:"username"`
	AvgTime  string `json:"avgTime"`
	Timezone string `json:"timezone"`
}

// Awards groups the per-author awards of the report
type Awards struct {
	MostHelpful  Award     `json:"mostHelpful"`
	MostThankful Award     `json:"mostThankful"`
	NightOwl     TimeAward `json:"nightOwl"`
	EarlyBird    TimeAward `json:"earlyBird"`
	AllNighter   Award     `json:"allNighter"`
}

// TrendPoint is one month of the category trend series. Shares holds
// the percentage of that month's classified volume per category; a
// month with classified activity sums to ~100.
type TrendPoint struct {
	Month  string             `json:"month"`
	Shares map[string]float64 `json:"shares"`
}

// HeatmapRow is one three-hour bucket of the activity heatmap, with a
// count per weekday (Monday first)
type HeatmapRow struct {
	Hour string `json:"hour"`
	Data [7]int `json:"data"`
}

// ChannelStat is one row of the channel share breakdown
type ChannelStat struct {
	Name       string `json:"name"`
	Messages   int    `json:"messages"`
	Percentage int    `json:"percentage"`
}

// FunStats is the block of content-derived statistics. The longest
// message, emoji and word figures come from a random sample of pages,
// so repeated runs may crown different winners.
type FunStats struct {
	LongestMessage    LongestMessage `json:"longestMessage"`
	MostRepliedThread RepliedThread  `json:"mostRepliedThread"`
	BusiestDay        BusiestDay     `json:"busiestDay"`
	MostUsedEmoji     EmojiStat      `json:"mostUsedEmoji"`
	MostUsedWord      WordStat       `json:"mostUsedWord"`
}

// LongestMessage reports the longest sampled message body
type LongestMessage struct {
	Chars    int    `json:"chars"`
	Username string `json:"username"`
}

// RepliedThread reports the most referenced message
type RepliedThread struct {
	Replies int    `json:"replies"`
	Topic   string `json:"topic"`
}

// BusiestDay reports the single highest-volume date
type BusiestDay struct {
	Date     string `json:"date"`
	Messages int    `json:"messages"`
	Reason   string `json:"reason"`
}

// EmojiStat reports the most used emoji in the sample
type EmojiStat struct {
	Emoji string `json:"emoji"`
	Count int    `json:"count"`
}

// WordStat reports the most used word in the sample
type WordStat struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// HighlightMessage is a single celebrated message (e.g. the millionth)
type HighlightMessage struct {
	Author    string `json:"author"`
	Channel   string `json:"channel"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// MediaPost is one curated high-reaction media post
type MediaPost struct {
	Month         string `json:"month"`
	MessageID     string `json:"message_id"`
	Author        string `json:"author"`
	AvatarURL     string `json:"avatarUrl"`
	Channel       string `json:"channel"`
	CreatedAt     string `json:"created_at"`
	ReactionCount int    `json:"reaction_count"`
	MediaURL      string `json:"mediaUrl"`
	MediaType     string `json:"mediaType"` // image, video or gif
	Content       string `json:"content"`
}
