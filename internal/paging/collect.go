// Package paging accumulates results from offset-paged listing endpoints.
package paging

import (
	"context"
	"fmt"

	"github.com/h0rv/jira-mcp/internal/domain"
)

// DefaultMaxPageSize is the largest page most Jira listing endpoints return.
const DefaultMaxPageSize = 100

// FetchFunc fetches one page at the given cursor.
type FetchFunc[T any] func(ctx context.Context, cursor domain.PageCursor) (domain.Page[T], error)

// Collect calls fetch until limit items are gathered, a page comes back empty,
// or the accumulated count reaches the server-reported total.
//
// The page size is min(limit, maxPageSize) and the offset advances by the full
// page size on every iteration, so at most ceil(limit/pageSize) pages are
// requested even when the server returns short pages. Items past limit are
// discarded. maxPageSize <= 0 selects DefaultMaxPageSize; limit <= 0 returns
// no items without fetching.
func Collect[T any](ctx context.Context, fetch FetchFunc[T], limit, maxPageSize int) ([]T, error) {
	if limit <= 0 {
		return []T{}, nil
	}
	if maxPageSize <= 0 {
		maxPageSize = DefaultMaxPageSize
	}

	cursor := domain.PageCursor{
		PageSize: min(limit, maxPageSize),
		Limit:    limit,
	}
	maxPages := (limit + cursor.PageSize - 1) / cursor.PageSize
	items := make([]T, 0, min(limit, 4*cursor.PageSize))

	for pages := 0; pages < maxPages && len(items) < limit; pages++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := fetch(ctx, cursor)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch page at offset %d: %w", cursor.Offset, err)
		}
		if len(page.Items) == 0 {
			break
		}

		remaining := limit - len(items)
		if len(page.Items) > remaining {
			page.Items = page.Items[:remaining]
		}
		items = append(items, page.Items...)

		if page.HasTotal && len(items) >= page.Total {
			break
		}
		cursor.Offset += cursor.PageSize
	}

	return items, nil
}
