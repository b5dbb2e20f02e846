package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMonthsBetween(t *testing.T) {
	assert.Equal(t,
		[]string{"2023-11", "2023-12", "2024-01", "2024-02"},
		monthsBetween("2023-11", "2024-02"))

	assert.Equal(t, []string{"2024-05"}, monthsBetween("2024-05", "2024-05"))
	assert.Empty(t, monthsBetween("2024-06", "2024-05"))
	assert.Empty(t, monthsBetween("garbage", "2024-05"))
}

func TestNextMonth(t *testing.T) {
	assert.Equal(t, "2024-02", nextMonth("2024-01"))
	assert.Equal(t, "2025-01", nextMonth("2024-12"))
	assert.Empty(t, nextMonth("2024-13"))
	assert.Empty(t, nextMonth("not-a-month"))
}

func TestClassifyMedia(t *testing.T) {
	assert.Equal(t, "video", classifyMedia("video/mp4", "http://x/a"))
	assert.Equal(t, "video", classifyMedia("", "http://x/clip.webm"))
	assert.Equal(t, "gif", classifyMedia("image/gif", "http://x/a"))
	assert.Equal(t, "gif", classifyMedia("", "http://x/funny.gif"))
	assert.Equal(t, "image", classifyMedia("image/png", "http://x/pic.png"))
	assert.Equal(t, "image", classifyMedia("", "http://x/unknown"))
}
