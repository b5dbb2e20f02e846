package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/discord-recap/internal/models"
	"github.com/joho/godotenv"
)

// defaultCategoryPatterns maps each model family to the channel name
// patterns that belong to it. Channels match on an exact name or a
// "pattern_" / "pattern-" prefix, so "flux" covers "flux_gens" but not
// "fluxy".
var defaultCategoryPatterns = map[string][]string{
	"sd":          {"sd", "sdxl-turbo", "stable-cascade", "stable-video-diffusion", "stable-zero123"},
	"animatediff": {"animatediff", "ad_comfyui_dev", "ad_fine-tuning", "ad_sparsectrl", "ad_training", "longanimatediff"},
	"flux":        {"flux", "flux_gens", "flux_resources", "flux_training", "flux_kontext"},
	"wan":         {"wan_chatter", "wan_gens", "wan_training", "wan_resources", "wan_bot", "wan_comfyui"},
	"cogvideo":    {"cogvideox", "cogvideox_gens", "cogvideox_training"},
	"hunyuan":     {"hunyuanvideo", "hunyuanvideo_gens", "hunyuanvideo_training", "hunyuandit", "hunyuan_tech_support", "hunyuan3d", "hunyuanimage"},
	"ltx":         {"ltx_chatter", "ltx_gens", "ltx_resources", "ltx_training", "ltxv_beta_testers", "ltxv_gens", "ltxv_h100", "ltxv_training"},
}

var defaultCategoryOrder = []string{"sd", "animatediff", "flux", "wan", "cogvideo", "hunyuan", "ltx"}

// Load loads configuration from environment variables
// It first attempts to load from .env file, then reads environment variables
func Load() (*models.Config, error) {
	// Try to load .env file (optional, ignore error if not found)
	_ = godotenv.Load()

	config := &models.Config{
		// Supabase settings
		SupabaseURL:     getEnv("SUPABASE_URL", ""),
		SupabaseKey:     getEnv("SUPABASE_KEY", ""),
		SupabaseTimeout: getEnvInt("SUPABASE_TIMEOUT", 30),

		MessagesTable: getEnv("MESSAGES_TABLE", "discord_messages"),
		MembersTable:  getEnv("MEMBERS_TABLE", "discord_members"),
		ChannelsTable: getEnv("CHANNELS_TABLE", "discord_channels"),

		// Fetch settings
		PageSize:    getEnvInt("PAGE_SIZE", 1000),
		Concurrency: getEnvInt("FETCH_CONCURRENCY", 5),

		// App settings
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Environment: getEnv("ENVIRONMENT", "production"),
		OutputPath:  getEnv("OUTPUT_PATH", "data.json"),

		CronSchedule: getEnv("CRON_SCHEDULE", ""),

		MilestoneTargets: []int{100000, 250000, 500000, 750000, 1000000},
		MilestoneLabels:  []string{"The First 100K", "Scaling Up", "Halfway There!", "Exponential Growth", "THE MILLION!"},
		HighlightOffset:  getEnvInt("HIGHLIGHT_OFFSET", 999999),

		// Award tuning
		MinAwardSample:     getEnvInt("MIN_AWARD_SAMPLE", 100),
		NightOwlTargetHour: getEnvFloat("NIGHT_OWL_TARGET_HOUR", 3),
		EarlyBirdTarget:    getEnvFloat("EARLY_BIRD_TARGET_HOUR", 6),
		LateNightStartHour: getEnvInt("LATE_NIGHT_START_HOUR", 0),
		LateNightEndHour:   getEnvInt("LATE_NIGHT_END_HOUR", 5),
		GratitudeKeyword:   getEnv("GRATITUDE_KEYWORD", "thank"),

		SamplePages: getEnvInt("SAMPLE_PAGES", 10),

		// Curated media extraction
		MediaMinReactions: getEnvInt("MEDIA_MIN_REACTIONS", 3),
		MediaPerMonth:     getEnvInt("MEDIA_PER_MONTH", 5),
		ExcludedChannelID: getEnv("EXCLUDED_CHANNEL_ID", ""),

		CategoryPatterns: defaultCategoryPatterns,
		CategoryOrder:    defaultCategoryOrder,
	}

	// Optional JSON override for the category table
	if raw := os.Getenv("CATEGORY_PATTERNS_JSON"); raw != "" {
		patterns := map[string][]string{}
		if err := json.Unmarshal([]byte(raw), &patterns); err != nil {
			return nil, fmt.Errorf("failed to parse CATEGORY_PATTERNS_JSON: %w", err)
		}
		config.CategoryPatterns = patterns
		config.CategoryOrder = nil
		for category := range patterns {
			config.CategoryOrder = append(config.CategoryOrder, category)
		}
	}

	// Validate configuration
	if err := validate(config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// validate checks if all required configuration values are set
func validate(cfg *models.Config) error {
	if cfg.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if cfg.SupabaseKey == "" {
		return fmt.Errorf("SUPABASE_KEY is required")
	}

	// Validate positive values
	if cfg.SupabaseTimeout <= 0 {
		return fmt.Errorf("SUPABASE_TIMEOUT must be positive, got %d", cfg.SupabaseTimeout)
	}
	if cfg.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be positive, got %d", cfg.PageSize)
	}
	if cfg.Concurrency <= 0 {
		return fmt.Errorf("FETCH_CONCURRENCY must be positive, got %d", cfg.Concurrency)
	}
	if cfg.SamplePages <= 0 {
		return fmt.Errorf("SAMPLE_PAGES must be positive, got %d", cfg.SamplePages)
	}
	if cfg.MinAwardSample <= 0 {
		return fmt.Errorf("MIN_AWARD_SAMPLE must be positive, got %d", cfg.MinAwardSample)
	}
	if len(cfg.MilestoneTargets) != len(cfg.MilestoneLabels) {
		return fmt.Errorf("milestone targets and labels must have the same length")
	}
	if cfg.LateNightStartHour < 0 || cfg.LateNightEndHour > 23 || cfg.LateNightStartHour > cfg.LateNightEndHour {
		return fmt.Errorf("late night window [%d, %d] is invalid", cfg.LateNightStartHour, cfg.LateNightEndHour)
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[cfg.LogLevel] {
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error; got %s", cfg.LogLevel)
	}

	return nil
}

// getEnv retrieves environment variable or returns default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves environment variable as integer or returns default value
func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvFloat retrieves environment variable as float or returns default value
func getEnvFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}
