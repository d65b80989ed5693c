package bridge

import (
	"context"
	"strings"

	"github.com/h0rv/jira-mcp/internal/domain"
	"github.com/h0rv/jira-mcp/internal/fields"
	"github.com/h0rv/jira-mcp/internal/paging"
)

// CollectPaged gathers up to limit items from fetch, a page at a time.
func CollectPaged[T any](ctx context.Context, rc *Context, fetch paging.FetchFunc[T], limit int) ([]T, error) {
	return paging.Collect(ctx, fetch, limit, rc.Options.MaxPageSize)
}

// SplitFields parses a comma separated field list. Blank entries are dropped.
func SplitFields(list string) []string {
	var out []string
	for _, f := range strings.Split(list, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// SearchIssues runs jql from startAt and returns up to limit hits with their
// fields cleaned.
func SearchIssues(ctx context.Context, rc *Context, jql string, fieldIDs []string, limit, startAt int) ([]domain.Issue, error) {
	fetch := func(ctx context.Context, cursor domain.PageCursor) (domain.Page[domain.Issue], error) {
		cursor.Offset += startAt
		page, err := rc.API.SearchIssues(ctx, jql, fieldIDs, cursor)
		if err != nil {
			return page, err
		}
		// The reported total counts from 0; the collector counts from startAt.
		if page.HasTotal {
			page.Total = max(page.Total-startAt, 0)
		}
		return page, nil
	}
	hits, err := CollectPaged(ctx, rc, fetch, limit)
	if err != nil {
		return nil, err
	}
	for i := range hits {
		hits[i].Fields = fields.Clean(hits[i].Fields)
	}
	rc.logger().Debug("search completed", "jql", jql, "count", len(hits))
	return hits, nil
}

// ListProjects returns every visible project, up to limit.
func ListProjects(ctx context.Context, rc *Context, limit int) ([]domain.Project, error) {
	return CollectPaged(ctx, rc, rc.API.ListProjects, limit)
}

// ListBoards returns the boards of projectKey, up to limit.
func ListBoards(ctx context.Context, rc *Context, projectKey string, limit int) ([]domain.Board, error) {
	fetch := func(ctx context.Context, cursor domain.PageCursor) (domain.Page[domain.Board], error) {
		return rc.API.ListBoards(ctx, projectKey, cursor)
	}
	return CollectPaged(ctx, rc, fetch, limit)
}

// ListSprints returns the sprints of boardID in state ("" for all), up to limit.
func ListSprints(ctx context.Context, rc *Context, boardID int64, state string, limit int) ([]domain.Sprint, error) {
	fetch := func(ctx context.Context, cursor domain.PageCursor) (domain.Page[domain.Sprint], error) {
		return rc.API.ListSprints(ctx, boardID, state, cursor)
	}
	return CollectPaged(ctx, rc, fetch, limit)
}

// DefaultCommentOrder lists newest comments first.
const DefaultCommentOrder = "-created"

// ListComments returns up to limit comments on key.
func ListComments(ctx context.Context, rc *Context, key, orderBy string, limit int) ([]domain.Comment, error) {
	if orderBy == "" {
		orderBy = DefaultCommentOrder
	}
	fetch := func(ctx context.Context, cursor domain.PageCursor) (domain.Page[domain.Comment], error) {
		return rc.API.ListComments(ctx, key, orderBy, cursor)
	}
	return CollectPaged(ctx, rc, fetch, limit)
}
