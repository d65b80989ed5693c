package bridge

import (
	"context"
	"strings"

	"github.com/h0rv/jira-mcp/internal/domain"
	"github.com/h0rv/jira-mcp/internal/fields"
)

// FieldCatalogue returns the fields available when creating issueType in projectKey.
func FieldCatalogue(ctx context.Context, rc *Context, projectKey, issueType string) ([]domain.FieldDef, error) {
	doc, err := rc.API.GetCreateMeta(ctx, projectKey, issueType)
	if err != nil {
		return nil, &FetchError{Op: "get creation metadata", Subject: projectKey + "/" + issueType, Err: err}
	}
	return fields.FromCreateMeta(doc, projectKey, issueType), nil
}

// ListFields returns "name|type|required" summaries keyed by field id.
func ListFields(ctx context.Context, rc *Context, projectKey, issueType string, filter fields.Filter) (map[string]string, error) {
	defs, err := FieldCatalogue(ctx, rc, projectKey, issueType)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string)
	for _, d := range filter.Apply(defs) {
		out[d.ID] = fields.Summary(d)
	}
	return out, nil
}

// FieldDetails returns the full definition of each requested field id.
// Ids match case-insensitively; unknown ids are omitted.
func FieldDetails(ctx context.Context, rc *Context, projectKey, issueType string, ids []string) (map[string]map[string]any, error) {
	defs, err := FieldCatalogue(ctx, rc, projectKey, issueType)
	if err != nil {
		return nil, err
	}
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[strings.ToLower(id)] = true
	}
	out := make(map[string]map[string]any)
	for _, d := range defs {
		if wanted[strings.ToLower(d.ID)] {
			out[d.ID] = fields.Details(d)
		}
	}
	return out, nil
}
