package storage

import (
	"context"
	"fmt"

	"github.com/discord-recap/internal/models"
)

// scanColumns is the projection the full-table scan selects
const scanColumns = "author_id,channel_id,created_at,reference_id"

// TotalMessages returns the exact number of rows in the message archive
func (c *Client) TotalMessages(ctx context.Context) (int, error) {
	_, count, err := fetchPage[models.ScanRow](ctx, c, Query{
		Table:      c.messagesTable,
		Select:     "message_id",
		Limit:      1,
		ExactCount: true,
	})
	if err != nil {
		return 0, err
	}

	c.logger.Debug().Int64("total", count).Msg("Counted messages")
	return int(count), nil
}

// Members retrieves the full member lookup table
func (c *Client) Members(ctx context.Context) ([]models.Member, error) {
	members, err := FetchAll[models.Member](ctx, c, Query{
		Table:  c.membersTable,
		Select: "member_id,username,global_name,server_nick,avatar_url",
	})
	if err != nil {
		return nil, err
	}

	c.logger.Debug().Int("count", len(members)).Msg("Retrieved members")
	return members, nil
}

// Channels retrieves the full channel lookup table
func (c *Client) Channels(ctx context.Context) ([]models.Channel, error) {
	channels, err := FetchAll[models.Channel](ctx, c, Query{
		Table:  c.channelsTable,
		Select: "channel_id,channel_name",
	})
	if err != nil {
		return nil, err
	}

	c.logger.Debug().Int("count", len(channels)).Msg("Retrieved channels")
	return channels, nil
}

// edgeTimestamp returns the created_at of the first or last message
func (c *Client) edgeTimestamp(ctx context.Context, descending bool) (string, error) {
	rows, _, err := fetchPage[struct {
		CreatedAt string `json:"created_at"`
	}](ctx, c, Query{
		Table:      c.messagesTable,
		Select:     "created_at",
		OrderBy:    "created_at",
		Descending: descending,
		Limit:      1,
	})
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", fmt.Errorf("message archive is empty")
	}
	return rows[0].CreatedAt, nil
}

// FirstMessageTime returns the timestamp of the oldest message
func (c *Client) FirstMessageTime(ctx context.Context) (string, error) {
	return c.edgeTimestamp(ctx, false)
}

// LastMessageTime returns the timestamp of the newest message
func (c *Client) LastMessageTime(ctx context.Context) (string, error) {
	return c.edgeTimestamp(ctx, true)
}

// MessageAt returns the message at the given 0-based position in
// chronological order, or nil if the archive is shorter than that
func (c *Client) MessageAt(ctx context.Context, offset int) (*models.Message, error) {
	rows, _, err := fetchPage[models.Message](ctx, c, Query{
		Table:   c.messagesTable,
		Select:  "message_id,author_id,channel_id,content,created_at",
		OrderBy: "created_at",
		Limit:   1,
		Offset:  offset,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// StreamScanRows streams the scan projection of every message through
// onPage using a bounded worker pool. total may be -1 to let the client
// count the table first.
func (c *Client) StreamScanRows(ctx context.Context, total, concurrency int, onPage func(rows []models.ScanRow), onProgress func(fetched, total int)) error {
	return FetchAllPagesStreaming[models.ScanRow](ctx, c, Query{
		Table:   c.messagesTable,
		Select:  scanColumns,
		OrderBy: "created_at",
	}, total, concurrency, onPage, onProgress)
}

// AuthorsMatching returns the author id of every message whose content
// matches the keyword, one entry per matching message. Filtering runs
// server-side; only the author column crosses the wire.
func (c *Client) AuthorsMatching(ctx context.Context, keyword string) ([]string, error) {
	rows, err := FetchAll[struct {
		AuthorID string `json:"author_id"`
	}](ctx, c, Query{
		Table:  c.messagesTable,
		Select: "author_id",
		Filters: []Filter{
			{Column: "content", Operator: "ilike", Value: fmt.Sprintf("*%s*", keyword)},
		},
	})
	if err != nil {
		return nil, err
	}

	authors := make([]string, 0, len(rows))
	for _, row := range rows {
		authors = append(authors, row.AuthorID)
	}

	c.logger.Debug().Str("keyword", keyword).Int("matches", len(authors)).Msg("Content search complete")
	return authors, nil
}

// ContentPage fetches one page of the content projection in
// chronological order, for the content sampler
func (c *Client) ContentPage(ctx context.Context, page int) ([]models.ContentRow, error) {
	rows, _, err := fetchPage[models.ContentRow](ctx, c, Query{
		Table:   c.messagesTable,
		Select:  "content,author_id",
		OrderBy: "created_at",
		Limit:   c.pageSize,
		Offset:  page * c.pageSize,
	})
	return rows, err
}

// TopMediaPosts returns the highest-reaction posts with at least one
// attachment inside [monthStart, monthEnd), excluding the given channel
func (c *Client) TopMediaPosts(ctx context.Context, monthStart, monthEnd string, minReactions int, excludeChannelID string, limit int) ([]models.Message, error) {
	filters := []Filter{
		{Column: "attachments", Operator: "neq", Value: "[]"},
		{Column: "reaction_count", Operator: "gte", Value: fmt.Sprintf("%d", minReactions)},
		{Column: "created_at", Operator: "gte", Value: monthStart},
		{Column: "created_at", Operator: "lt", Value: monthEnd},
	}
	if excludeChannelID != "" {
		filters = append(filters, Filter{Column: "channel_id", Operator: "neq", Value: excludeChannelID})
	}

	rows, _, err := fetchPage[models.Message](ctx, c, Query{
		Table:      c.messagesTable,
		Select:     "message_id,author_id,channel_id,created_at,reaction_count,attachments,content",
		Filters:    filters,
		OrderBy:    "reaction_count",
		Descending: true,
		Limit:      limit,
	})
	return rows, err
}
