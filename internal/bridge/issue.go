package bridge

import (
	"context"

	"github.com/h0rv/jira-mcp/internal/board"
	"github.com/h0rv/jira-mcp/internal/domain"
	"github.com/h0rv/jira-mcp/internal/issueview"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"
)

// issueMeta is the metadata fetched alongside one issue.
type issueMeta struct {
	edit       domain.Document
	editErr    error
	create     domain.Document
	createErr  error
	projectKey string
	issueType  string
}

// fetchMeta loads edit and creation metadata concurrently. Neither failure
// stops the other; the caller decides which one matters.
func fetchMeta(ctx context.Context, rc *Context, key, projectKey, issueType string) *issueMeta {
	m := &issueMeta{projectKey: projectKey, issueType: issueType}

	var g errgroup.Group
	g.Go(func() error {
		m.edit, m.editErr = rc.API.GetEditMeta(ctx, key)
		return nil
	})
	g.Go(func() error {
		m.create, m.createErr = rc.API.GetCreateMeta(ctx, projectKey, issueType)
		return nil
	})
	_ = g.Wait()

	if m.createErr != nil {
		rc.logger().Warn("creation metadata unavailable", "key", key, "project", projectKey, "issue_type", issueType, "error", m.createErr)
	}
	return m
}

// BuildIssueView fetches one issue and returns its canonical view. When
// boardID is non-zero the view is restricted to the fields relevant to that
// board.
//
// Failing to fetch the issue is fatal. Edit metadata is fatal only when a
// board is given; otherwise name resolution falls through to the next source.
func BuildIssueView(ctx context.Context, rc *Context, key string, boardID int64) (*domain.IssueView, error) {
	logger := rc.logger().With("key", key, "board_id", boardID)

	raw, err := rc.API.GetRawIssue(ctx, key)
	if err != nil {
		return nil, &FetchError{Op: "get issue", Subject: key, Err: err}
	}

	meta := fetchMeta(ctx, rc, key,
		gjson.GetBytes(raw, "fields.project.key").String(),
		gjson.GetBytes(raw, "fields.issuetype.name").String(),
	)
	if meta.editErr != nil {
		if boardID != 0 {
			return nil, &FetchError{Op: "get edit metadata", Subject: key, Err: meta.editErr}
		}
		logger.Warn("edit metadata unavailable", "error", meta.editErr)
	}

	view, err := rc.builder().Build(issueview.Input{
		Key:        key,
		Issue:      raw,
		EditMeta:   meta.edit,
		CreateMeta: meta.create,
		BaseURL:    rc.BaseURL,
	})
	if err != nil {
		return nil, &FetchError{Op: "build issue view", Subject: key, Err: err}
	}

	if boardID == 0 {
		return view, nil
	}

	keys, err := selectBoardKeys(ctx, rc, view, boardID, meta)
	if err != nil {
		return nil, err
	}
	logger.Debug("issue view restricted to board", "kept", len(keys), "present", len(view.Fields))
	return issueview.Restrict(view, keys), nil
}

// ComputeBoardFieldKeys returns the ids of view's fields relevant to boardID.
// The result is always a subset of the view's fields.
func ComputeBoardFieldKeys(ctx context.Context, rc *Context, view *domain.IssueView, boardID int64) (map[string]bool, error) {
	return selectBoardKeys(ctx, rc, view, boardID, nil)
}

func selectBoardKeys(ctx context.Context, rc *Context, view *domain.IssueView, boardID int64, meta *issueMeta) (map[string]bool, error) {
	req := board.Request{
		BoardID:  boardID,
		IssueKey: view.Key,
		Present:  make(map[string]bool, len(view.Fields)),
	}
	for id := range view.Fields {
		req.Present[id] = true
	}

	if meta != nil {
		req.ProjectKey, req.IssueType = meta.projectKey, meta.issueType
		req.EditMeta = meta.edit
		req.CreateMeta = meta.create
		if meta.createErr != nil {
			// Already failed once for this call; contribute nothing instead of refetching.
			req.CreateMeta = domain.Document(`{}`)
		}
	} else {
		req.ProjectKey = nestedString(view.FieldValue(domain.FieldProject), "key")
		req.IssueType = nestedString(view.FieldValue(domain.FieldIssueType), "name")
	}

	sel, err := rc.selector().Select(ctx, req)
	if err != nil {
		return nil, err
	}
	return sel.Keys, nil
}

func nestedString(v any, key string) string {
	m, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	s, _ := m[key].(string)
	return s
}
