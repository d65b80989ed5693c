package jira

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/h0rv/jira-mcp/internal/adf"
	"github.com/h0rv/jira-mcp/internal/domain"
	"github.com/tidwall/gjson"
)

// CreatedIssue identifies an issue returned by a create call.
type CreatedIssue struct {
	ID  string
	Key string
	URL string
}

// CreateIssue creates an issue from an already coerced field map.
func (c *Client) CreateIssue(ctx context.Context, fields map[string]any) (CreatedIssue, error) {
	c.logger.Info("create issue", "fields", len(fields))
	doc, err := c.makeRequest(ctx, http.MethodPost, "/rest/api/3/issue", nil, map[string]any{"fields": fields})
	if err != nil {
		return CreatedIssue{}, fmt.Errorf("failed to create issue: %w", err)
	}

	key := gjson.GetBytes(doc, "key").String()
	if key == "" {
		return CreatedIssue{}, fmt.Errorf("failed to create issue: response has no key")
	}
	return CreatedIssue{
		ID:  gjson.GetBytes(doc, "id").String(),
		Key: key,
		URL: c.BrowseURL(key),
	}, nil
}

// UpdateIssue sets fields on an existing issue.
func (c *Client) UpdateIssue(ctx context.Context, key string, fields map[string]any) error {
	c.logger.Info("update issue", "key", key, "fields", len(fields))
	path := "/rest/api/3/issue/" + url.PathEscape(key)
	if _, err := c.makeRequest(ctx, http.MethodPut, path, nil, map[string]any{"fields": fields}); err != nil {
		return fmt.Errorf("failed to update issue %s: %w", key, err)
	}
	return nil
}

// UpdateLabels adds and removes labels in one edit.
func (c *Client) UpdateLabels(ctx context.Context, key string, add, remove []string) error {
	ops := make([]any, 0, len(add)+len(remove))
	for _, l := range add {
		ops = append(ops, map[string]any{"add": l})
	}
	for _, l := range remove {
		ops = append(ops, map[string]any{"remove": l})
	}
	body := map[string]any{"update": map[string]any{"labels": ops}}

	path := "/rest/api/3/issue/" + url.PathEscape(key)
	if _, err := c.makeRequest(ctx, http.MethodPut, path, nil, body); err != nil {
		return fmt.Errorf("failed to update labels on %s: %w", key, err)
	}
	return nil
}

// TransitionIssue moves an issue through a workflow transition, optionally
// setting fields and adding a comment.
func (c *Client) TransitionIssue(ctx context.Context, key, transitionID string, fields map[string]any, comment string) error {
	c.logger.Info("transition issue", "key", key, "transition", transitionID)
	body := map[string]any{"transition": map[string]any{"id": transitionID}}
	if len(fields) > 0 {
		body["fields"] = fields
	}
	if comment != "" {
		body["update"] = map[string]any{
			"comment": []any{map[string]any{"add": map[string]any{"body": adf.FromText(comment)}}},
		}
	}

	path := "/rest/api/3/issue/" + url.PathEscape(key) + "/transitions"
	if _, err := c.makeRequest(ctx, http.MethodPost, path, nil, body); err != nil {
		return fmt.Errorf("failed to transition %s: %w", key, err)
	}
	return nil
}

// AddComment posts a plain-text comment and returns it.
func (c *Client) AddComment(ctx context.Context, key, text string, visibility *domain.CommentVisibility) (domain.Comment, error) {
	body := map[string]any{"body": adf.FromText(text)}
	if visibility != nil {
		body["visibility"] = map[string]any{"type": visibility.Type, "value": visibility.Value}
	}

	path := "/rest/api/3/issue/" + url.PathEscape(key) + "/comment"
	doc, err := c.makeRequest(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return domain.Comment{}, fmt.Errorf("failed to add comment to %s: %w", key, err)
	}

	r := gjson.ParseBytes(doc)
	return domain.Comment{
		ID:      r.Get("id").String(),
		Author:  r.Get("author.displayName").String(),
		Body:    text,
		Created: r.Get("created").String(),
		Updated: r.Get("updated").String(),
	}, nil
}

// DeleteComment removes a comment from an issue.
func (c *Client) DeleteComment(ctx context.Context, key, commentID string) error {
	path := "/rest/api/3/issue/" + url.PathEscape(key) + "/comment/" + url.PathEscape(commentID)
	if _, err := c.makeRequest(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("failed to delete comment %s on %s: %w", commentID, key, err)
	}
	return nil
}

// AssignIssue sets the assignee. An empty accountID unassigns the issue.
func (c *Client) AssignIssue(ctx context.Context, key, accountID string) error {
	var account any
	if accountID != "" {
		account = accountID
	}

	path := "/rest/api/3/issue/" + url.PathEscape(key) + "/assignee"
	if _, err := c.makeRequest(ctx, http.MethodPut, path, nil, map[string]any{"accountId": account}); err != nil {
		return fmt.Errorf("failed to assign %s: %w", key, err)
	}
	return nil
}

// AddWatcher adds a user to an issue's watchers.
func (c *Client) AddWatcher(ctx context.Context, key, accountID string) error {
	path := "/rest/api/3/issue/" + url.PathEscape(key) + "/watchers"
	if _, err := c.makeRequest(ctx, http.MethodPost, path, nil, accountID); err != nil {
		return fmt.Errorf("failed to add watcher to %s: %w", key, err)
	}
	return nil
}

// RemoveWatcher removes a user from an issue's watchers.
func (c *Client) RemoveWatcher(ctx context.Context, key, accountID string) error {
	q := url.Values{}
	q.Set("accountId", accountID)
	path := "/rest/api/3/issue/" + url.PathEscape(key) + "/watchers"
	if _, err := c.makeRequest(ctx, http.MethodDelete, path, q, nil); err != nil {
		return fmt.Errorf("failed to remove watcher from %s: %w", key, err)
	}
	return nil
}

// LinkIssues links two issues with a named link type such as "Blocks".
func (c *Client) LinkIssues(ctx context.Context, inwardKey, outwardKey, linkType string) error {
	body := map[string]any{
		"type":         map[string]any{"name": linkType},
		"inwardIssue":  map[string]any{"key": inwardKey},
		"outwardIssue": map[string]any{"key": outwardKey},
	}
	if _, err := c.makeRequest(ctx, http.MethodPost, "/rest/api/3/issueLink", nil, body); err != nil {
		return fmt.Errorf("failed to link %s to %s: %w", inwardKey, outwardKey, err)
	}
	return nil
}
