package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	supa "github.com/supabase-community/supabase-go"
)

const (
	defaultPageSize    = 1000
	defaultMaxAttempts = 3
	defaultBackoffBase = time.Second
)

// Client represents a Supabase storage client
type Client struct {
	client      *supa.Client
	timeout     time.Duration
	pageSize    int
	maxAttempts int
	backoffBase time.Duration
	logger      zerolog.Logger

	messagesTable string
	membersTable  string
	channelsTable string
}

// Options tunes the client beyond the connection settings. Zero values
// fall back to defaults.
type Options struct {
	Timeout     time.Duration
	PageSize    int
	MaxAttempts int
	BackoffBase time.Duration

	MessagesTable string
	MembersTable  string
	ChannelsTable string
}

// NewClient creates a new Supabase client
func NewClient(supabaseURL, supabaseKey string, opts Options, logger zerolog.Logger) (*Client, error) {
	client, err := supa.NewClient(supabaseURL, supabaseKey, &supa.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}

	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.PageSize == 0 {
		opts.PageSize = defaultPageSize
	}
	if opts.MaxAttempts == 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.BackoffBase == 0 {
		opts.BackoffBase = defaultBackoffBase
	}
	if opts.MessagesTable == "" {
		opts.MessagesTable = "discord_messages"
	}
	if opts.MembersTable == "" {
		opts.MembersTable = "discord_members"
	}
	if opts.ChannelsTable == "" {
		opts.ChannelsTable = "discord_channels"
	}

	return &Client{
		client:        client,
		timeout:       opts.Timeout,
		pageSize:      opts.PageSize,
		maxAttempts:   opts.MaxAttempts,
		backoffBase:   opts.BackoffBase,
		logger:        logger.With().Str("component", "storage").Logger(),
		messagesTable: opts.MessagesTable,
		membersTable:  opts.MembersTable,
		channelsTable: opts.ChannelsTable,
	}, nil
}

// PageSize returns the fixed page size used for paginated retrieval
func (c *Client) PageSize() int {
	return c.pageSize
}

// Ping checks if the connection to Supabase is working
func (c *Client) Ping(ctx context.Context) error {
	_, _, err := c.client.From(c.messagesTable).
		Select("message_id", "", false).
		Limit(1, "").
		Execute()

	if err != nil {
		return fmt.Errorf("supabase ping failed: %w", err)
	}

	c.logger.Debug().Msg("Supabase connection successful")
	return nil
}

// backoffDelay returns the delay before the given retry attempt.
// Delays grow as base * 2^(attempt-1), so each retry waits strictly
// longer than the previous one.
func backoffDelay(base time.Duration, attempt int) time.Duration {
	return base << (attempt - 1)
}

// withRetry executes a function with retry logic. Rate-limited and
// transient failures are retried with exponential backoff; after
// maxAttempts the last cause is returned wrapped.
func (c *Client) withRetry(ctx context.Context, operation string, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := backoffDelay(c.backoffBase, attempt)
			c.logger.Warn().
				Str("operation", operation).
				Int("attempt", attempt+1).
				Dur("backoff", backoff).
				Msg("Retrying operation")

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		c.logger.Error().
			Err(lastErr).
			Str("operation", operation).
			Int("attempt", attempt+1).
			Msg("Operation failed")
	}

	return fmt.Errorf("operation %s failed after %d attempts: %w", operation, c.maxAttempts, lastErr)
}
