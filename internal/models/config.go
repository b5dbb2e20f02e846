package models

// Config represents pipeline configuration
type Config struct {
	// Supabase settings
	SupabaseURL     string
	SupabaseKey     string
	SupabaseTimeout int

	// Table names in the row store
	MessagesTable string
	MembersTable  string
	ChannelsTable string

	// Fetch settings
	PageSize    int
	Concurrency int

	// App settings
	LogLevel    string
	Environment string
	OutputPath  string

	// Optional cron expression; when set the pipeline reruns on schedule
	CronSchedule string

	// Milestone thresholds, ascending, with a label per threshold
	MilestoneTargets []int
	MilestoneLabels  []string

	// Offset of the highlighted message (0-based; 999999 = the millionth)
	HighlightOffset int

	// Award tuning
	MinAwardSample     int     // minimum messages before an author is award-eligible
	NightOwlTargetHour float64 // circular-mean target for the night owl award
	EarlyBirdTarget    float64 // circular-mean target for the early bird award
	LateNightStartHour int     // inclusive UTC hour window counted as late night
	LateNightEndHour   int
	GratitudeKeyword   string

	// Content sampling
	SamplePages int

	// Curated media extraction
	MediaMinReactions int
	MediaPerMonth     int
	ExcludedChannelID string

	// Category classification: category name -> channel name patterns.
	// A channel matches a pattern when its name equals the pattern or
	// starts with pattern + "_" or pattern + "-".
	CategoryPatterns map[string][]string
	CategoryOrder    []string
}
