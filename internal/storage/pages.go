package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/supabase/postgrest-go"
)

// Filter is one server-side predicate in PostgREST operator syntax,
// e.g. {Column: "reaction_count", Operator: "gte", Value: "3"}
type Filter struct {
	Column   string
	Operator string
	Value    string
}

// Query describes one paginated request against the row store
type Query struct {
	Table      string
	Select     string
	Filters    []Filter
	OrderBy    string
	Descending bool
	Limit      int
	Offset     int
	ExactCount bool
}

// build translates a Query into a PostgREST request builder
func (c *Client) build(q Query) *postgrest.FilterBuilder {
	countType := ""
	if q.ExactCount {
		countType = "exact"
	}

	fb := c.client.From(q.Table).Select(q.Select, countType, false)
	for _, f := range q.Filters {
		fb = fb.Filter(f.Column, f.Operator, f.Value)
	}
	if q.OrderBy != "" {
		fb = fb.Order(q.OrderBy, &postgrest.OrderOpts{Ascending: !q.Descending})
	}
	if q.Limit > 0 {
		fb = fb.Range(q.Offset, q.Offset+q.Limit-1, "")
	}
	return fb
}

// fetchPage issues a single request and decodes the rows into T.
// Transient failures are retried inside; the returned count is only
// meaningful when the query asked for an exact count.
func fetchPage[T any](ctx context.Context, c *Client, q Query) ([]T, int64, error) {
	var (
		rows  []T
		total int64
	)

	operation := fmt.Sprintf("fetch_page_%s", q.Table)
	err := c.withRetry(ctx, operation, func() error {
		data, count, err := c.build(q).Execute()
		if err != nil {
			return fmt.Errorf("failed to fetch %s page at offset %d: %w", q.Table, q.Offset, err)
		}

		rows = nil
		if err := json.Unmarshal(data, &rows); err != nil {
			return fmt.Errorf("failed to unmarshal %s rows: %w", q.Table, err)
		}
		total = count
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

// FetchAll retrieves every row matching the query by advancing the
// offset one fixed-size page at a time until a short page arrives
func FetchAll[T any](ctx context.Context, c *Client, q Query) ([]T, error) {
	var all []T

	q.Limit = c.pageSize
	q.Offset = 0
	for {
		rows, _, err := fetchPage[T](ctx, c, q)
		if err != nil {
			return nil, err
		}
		all = append(all, rows...)
		if len(rows) < c.pageSize {
			return all, nil
		}
		q.Offset += c.pageSize
	}
}

// PageFunc receives one completed page of rows. Calls are serialized,
// so the consumer may fold into shared state without locking, but the
// order pages arrive in is unspecified.
type PageFunc[T any] func(rows []T)

// ProgressFunc receives the monotonically increasing number of fetched
// rows and the fixed total after every completed page
type ProgressFunc func(fetched, total int)

// FetchAllPagesStreaming fetches every page of the query with a bounded
// worker pool. Workers pull the next unclaimed page index from a shared
// cursor; each finished page is handed to onPage as soon as it arrives.
// The union of all deliveries equals the table contents at query start.
// The first unrecoverable page error cancels the remaining workers and
// is returned.
func FetchAllPagesStreaming[T any](ctx context.Context, c *Client, q Query, total, concurrency int, onPage PageFunc[T], onProgress ProgressFunc) error {
	if total < 0 {
		countQuery := q
		countQuery.Limit = 1
		countQuery.Offset = 0
		countQuery.ExactCount = true
		_, count, err := fetchPage[T](ctx, c, countQuery)
		if err != nil {
			return fmt.Errorf("failed to count %s rows: %w", q.Table, err)
		}
		total = int(count)
	}

	pages := (total + c.pageSize - 1) / c.pageSize
	if pages == 0 {
		return nil
	}
	if concurrency < 1 {
		concurrency = 1
	}
	if concurrency > pages {
		concurrency = pages
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		cursor  atomic.Int64
		mu      sync.Mutex
		fetched int
		wg      sync.WaitGroup
	)
	errCh := make(chan error, concurrency)

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				page := int(cursor.Add(1)) - 1
				if page >= pages || ctx.Err() != nil {
					return
				}

				pageQuery := q
				pageQuery.Limit = c.pageSize
				pageQuery.Offset = page * c.pageSize
				rows, _, err := fetchPage[T](ctx, c, pageQuery)
				if err != nil {
					select {
					case errCh <- fmt.Errorf("page %d: %w", page, err):
					default:
					}
					cancel()
					return
				}

				// Serialized delivery keeps the consumer's fold race-free
				mu.Lock()
				onPage(rows)
				fetched += len(rows)
				if onProgress != nil {
					onProgress(fetched, total)
				}
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	select {
	case err := <-errCh:
		return err
	default:
	}
	return ctx.Err()
}
