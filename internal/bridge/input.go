package bridge

import (
	"context"
	"errors"
	"fmt"

	"github.com/h0rv/jira-mcp/internal/domain"
	"github.com/h0rv/jira-mcp/internal/fields"
)

// CreateResult is returned by CreateIssue.
type CreateResult struct {
	IssueKey string   `json:"issue_key"`
	URL      string   `json:"url"`
	Actions  []string `json:"actions"`
	Warnings []string `json:"warnings"`
}

// UpdateResult is returned by UpdateIssue.
type UpdateResult struct {
	IssueKey      string   `json:"issue_key"`
	URL           string   `json:"url"`
	UpdatedFields []string `json:"updated_fields"`
	Warnings      []string `json:"warnings"`
}

// CoerceCreateFields reshapes client input into a create payload.
func CoerceCreateFields(rc *Context, raw any) map[string]any {
	return fields.Coerce(raw, rc.logger())
}

// CoerceUpdateFields reshapes client input into an update payload and
// reports the field ids it touches.
func CoerceUpdateFields(rc *Context, raw any) (map[string]any, []string) {
	out := fields.Coerce(raw, rc.logger())
	return out, fields.Keys(out)
}

// CreateIssue coerces raw and creates an issue from it.
func CreateIssue(ctx context.Context, rc *Context, raw any) (*CreateResult, error) {
	payload := CoerceCreateFields(rc, raw)
	rc.logger().Info("creating issue", "fields", fields.Keys(payload))

	created, err := rc.API.CreateIssue(ctx, payload)
	if err != nil {
		return nil, err
	}

	url := created.URL
	if url == "" {
		url = domain.BrowseURL(rc.BaseURL, created.Key)
	}
	rc.logger().Info("issue created", "key", created.Key)
	return &CreateResult{
		IssueKey: created.Key,
		URL:      url,
		Actions:  []string{"created"},
		Warnings: []string{},
	}, nil
}

// CreateTarget reads the project key and issue type name from a coerced
// create payload, for error reporting.
func CreateTarget(payload map[string]any) (projectKey, issueType string) {
	return nestedString(payload[domain.FieldProject], "key"), nestedString(payload[domain.FieldIssueType], "name")
}

// ErrNoIssueKey is returned when an operation needs an issue key and got none.
var ErrNoIssueKey = errors.New("issue key is required")

// UpdateIssue coerces raw and applies it to key. Input that coerces to no
// fields is not sent; the result carries a warning instead.
func UpdateIssue(ctx context.Context, rc *Context, key string, raw any) (*UpdateResult, error) {
	if key == "" {
		return nil, ErrNoIssueKey
	}
	payload, touched := CoerceUpdateFields(rc, raw)
	result := &UpdateResult{
		IssueKey:      key,
		URL:           domain.BrowseURL(rc.BaseURL, key),
		UpdatedFields: touched,
		Warnings:      []string{},
	}

	if len(payload) == 0 {
		rc.logger().Warn("update has no fields to apply", "key", key)
		result.Warnings = append(result.Warnings, "no fields to update")
		return result, nil
	}

	if err := rc.API.UpdateIssue(ctx, key, payload); err != nil {
		return nil, fmt.Errorf("failed to update %s: %w", key, err)
	}
	rc.logger().Info("issue updated", "key", key, "fields", touched)
	return result, nil
}
