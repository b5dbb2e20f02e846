package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/discord-recap/internal/models"
	"github.com/discord-recap/internal/report"
)

// monthsBetween lists the YYYY-MM months from start to end inclusive
func monthsBetween(startMonth, endMonth string) []string {
	var months []string
	current := startMonth
	for current != "" && current <= endMonth {
		months = append(months, current)
		current = nextMonth(current)
	}
	return months
}

// nextMonth returns the month following a YYYY-MM value, or "" when
// the value is malformed
func nextMonth(month string) string {
	var year, m int
	if _, err := fmt.Sscanf(month, "%d-%d", &year, &m); err != nil || m < 1 || m > 12 {
		return ""
	}
	if m == 12 {
		return fmt.Sprintf("%d-01", year+1)
	}
	return fmt.Sprintf("%d-%02d", year, m+1)
}

// classifyMedia labels an attachment as video, gif or image from its
// content type, falling back to the URL suffix
func classifyMedia(contentType, url string) string {
	contentType = strings.ToLower(contentType)
	switch {
	case strings.Contains(contentType, "video"), strings.HasSuffix(url, ".mp4"), strings.HasSuffix(url, ".webm"):
		return "video"
	case strings.Contains(contentType, "gif"), strings.HasSuffix(url, ".gif"):
		return "gif"
	default:
		return "image"
	}
}

// runMediaExtraction collects the per-month top reacted media posts.
// Each month is an independent bounded query; a month that fails is
// logged and skipped rather than aborting the run, unlike the
// all-or-nothing full scan.
func (p *Pipeline) runMediaExtraction(ctx context.Context) error {
	rep := p.Report()
	months := monthsBetween(monthPart(rep.DateRange.Start), monthPart(rep.DateRange.End))

	for i, month := range months {
		next := nextMonth(month)
		if next == "" {
			continue
		}
		monthStart := month + "-01T00:00:00"
		monthEnd := next + "-01T00:00:00"

		posts, err := p.store.TopMediaPosts(ctx, monthStart, monthEnd, p.cfg.MediaMinReactions, p.cfg.ExcludedChannelID, p.cfg.MediaPerMonth)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.logger.Warn().Err(err).Str("month", month).Msg("Skipping month with failed media query")
			continue
		}

		p.mu.Lock()
		for j := range posts {
			post := &posts[j]
			if len(post.Attachments) == 0 {
				continue
			}
			attachment := post.Attachments[0]
			url := attachment.URL
			if url == "" {
				url = attachment.ProxyURL
			}
			if url == "" {
				// Malformed attachment metadata, skip the record
				continue
			}

			p.rep.TopGenerations = append(p.rep.TopGenerations, mediaPost(post, month, url, classifyMedia(attachment.ContentType, url), p.lookups))
		}
		p.mu.Unlock()

		p.emit(5, (i+1)*100/len(months), "")
	}

	p.logger.Info().Int("posts", len(p.Report().TopGenerations)).Msg("Media extraction complete")
	return nil
}

// mediaPost builds one curated media entry with display data resolved
func mediaPost(post *models.Message, month, url, mediaType string, lk report.Lookups) models.MediaPost {
	return models.MediaPost{
		Month:         month,
		MessageID:     post.MessageID,
		Author:        lk.MemberName(post.AuthorID),
		AvatarURL:     lk.MemberAvatars[post.AuthorID],
		Channel:       lk.ChannelName(post.ChannelID),
		CreatedAt:     post.CreatedAt,
		ReactionCount: post.ReactionCount,
		MediaURL:      url,
		MediaType:     mediaType,
		Content:       post.Content,
	}
}

// monthPart trims a date to its YYYY-MM month
func monthPart(date string) string {
	if len(date) >= 7 {
		return date[:7]
	}
	return date
}
