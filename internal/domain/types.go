// Package domain defines the normalized domain types for the Jira bridge.
// These types represent the core concepts independent of the Jira REST API structure.
package domain

import (
	"encoding/json"
	"net/url"
	"strings"
)

// Document is an as-fetched JSON document from the Jira API (an issue, edit
// metadata, creation metadata, a board configuration, a filter).
// It is treated as read-only once fetched.
type Document = json.RawMessage

// FieldEntry is one field of a CanonicalIssueView: the resolved display name
// and the sanitized value.
type FieldEntry struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// IssueView is the canonical, cleaned representation of one issue.
type IssueView struct {
	Key     string                `json:"key"`
	URL     string                `json:"url"`
	Summary *string               `json:"summary,omitempty"`
	Flagged bool                  `json:"flagged"`
	Fields  map[string]FieldEntry `json:"fields"`
}

// FieldValue returns the sanitized value of a field, or nil if absent.
func (v *IssueView) FieldValue(id string) any {
	entry, ok := v.Fields[id]
	if !ok {
		return nil
	}
	return entry.Value
}

// FieldDef represents a field definition taken from creation metadata.
type FieldDef struct {
	ID            string `json:"id"`             // Field id (e.g., "summary", "customfield_10016")
	Name          string `json:"name"`           // Display name (falls back to the id)
	Required      bool   `json:"required"`       // Whether the field is required on create
	Schema        any    `json:"schema"`         // Field schema object ({} if absent)
	AllowedValues any    `json:"allowed_values"` // Allowed values list ([] if absent)
}

// SchemaType returns the schema "type" attribute, or "" if missing.
func (f FieldDef) SchemaType() string {
	if m, ok := f.Schema.(map[string]any); ok {
		if t, ok := m["type"].(string); ok {
			return t
		}
	}
	return ""
}

// Issue is a lightweight search or board listing hit: the key and its raw field bag.
type Issue struct {
	Key    string         `json:"key"`
	Fields map[string]any `json:"fields"`
}

// Page is one page returned by a paged listing call.
// HasTotal reports whether the endpoint returned a total count.
type Page[T any] struct {
	Items    []T
	Total    int
	HasTotal bool
}

// PageCursor is the position of one paged fetch within a pagination run.
type PageCursor struct {
	Offset   int
	PageSize int
	Limit    int
}

// Project represents a Jira project.
type Project struct {
	ID          string `json:"id,omitempty"`
	Key         string `json:"key"`
	Name        string `json:"name"`
	TypeKey     string `json:"project_type_key,omitempty"`
	Simplified  bool   `json:"simplified,omitempty"`
	Style       string `json:"style,omitempty"`
	Description string `json:"description,omitempty"`
	Lead        string `json:"lead,omitempty"` // Lead display name
	Category    string `json:"category,omitempty"`
}

// Board represents an agile board.
type Board struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"` // "scrum", "kanban", "simple"
	ProjectKey  string `json:"project_key,omitempty"`
	ProjectName string `json:"project_name,omitempty"`
}

// Sprint represents a board sprint.
type Sprint struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	State     string `json:"state"` // "future", "active", "closed"
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	Goal      string `json:"goal,omitempty"`
}

// IssueType represents an issue type, globally or within a project.
type IssueType struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Subtask     bool   `json:"subtask"`
}

// Comment represents a comment on an issue, with the body flattened to plain text.
type Comment struct {
	ID      string `json:"id"`
	Author  string `json:"author"` // Display name (empty if the user was deleted)
	Body    string `json:"body"`
	Created string `json:"created"`
	Updated string `json:"updated"`
}

// Transition represents an available workflow transition.
type Transition struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	To       string `json:"to"`
	Category string `json:"category"`
}

// User represents a Jira account.
type User struct {
	AccountID    string `json:"account_id"`
	AccountType  string `json:"account_type,omitempty"`
	DisplayName  string `json:"display_name"`
	EmailAddress string `json:"email_address,omitempty"`
	TimeZone     string `json:"time_zone,omitempty"`
	Active       bool   `json:"active"`
}

// CommentVisibility restricts a comment to a role or group.
type CommentVisibility struct {
	Type  string `json:"type"` // "role" or "group"
	Value string `json:"value"`
}

// Core field ids used across the bridge.
const (
	FieldSummary     = "summary"
	FieldDescription = "description"
	FieldIssueType   = "issuetype"
	FieldProject     = "project"
	FieldStatus      = "status"
	FieldAssignee    = "assignee"
	FieldLabels      = "labels"
	FieldComponents  = "components"
	FieldFixVersions = "fixVersions"
	FieldParent      = "parent"
	FieldPriority    = "priority"
)

// BrowseURL joins a site root and issue key into <base>/browse/<KEY>.
func BrowseURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/browse/" + url.PathEscape(key)
}
