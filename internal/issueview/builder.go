// Package issueview turns a raw Jira issue document into the canonical issue
// view: noise removed, description flattened to text, every field named and
// sanitized, and the flagged state detected.
package issueview

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/h0rv/jira-mcp/internal/adf"
	"github.com/h0rv/jira-mcp/internal/domain"
	"github.com/h0rv/jira-mcp/internal/fields"
	"github.com/tidwall/gjson"
)

// ErrNoFields is returned when an issue document carries no fields object.
var ErrNoFields = errors.New("issue document has no fields object")

// Input holds the documents one view is built from. EditMeta and CreateMeta
// may be nil when their fetch failed.
type Input struct {
	// Key is used when the document itself has no key.
	Key        string
	Issue      domain.Document
	EditMeta   domain.Document
	CreateMeta domain.Document
	BaseURL    string
}

// Builder builds canonical issue views. The zero value is usable.
type Builder struct {
	Flagged  FlagDetector
	MaxDepth int
	Logger   *slog.Logger
}

// Build produces the canonical view of in.Issue. It performs no I/O.
func (b *Builder) Build(in Input) (*domain.IssueView, error) {
	logger := b.Logger
	if logger == nil {
		logger = slog.Default()
	}
	detector := b.Flagged
	if detector == nil {
		detector = NameFlagDetector{Name: DefaultFlaggedName}
	}

	raw := gjson.GetBytes(in.Issue, "fields")
	if !raw.IsObject() {
		return nil, ErrNoFields
	}
	var bag map[string]any
	if err := json.Unmarshal([]byte(raw.Raw), &bag); err != nil {
		return nil, fmt.Errorf("failed to decode issue fields: %w", err)
	}

	key := gjson.GetBytes(in.Issue, "key").String()
	if key == "" {
		key = in.Key
	}

	bag = fields.DropNulls(bag)
	delete(bag, "comment")
	delete(bag, "comments")
	for id, v := range bag {
		if id != domain.FieldDescription && adf.IsDocument(v) {
			delete(bag, id)
		}
	}

	if desc, ok := bag[domain.FieldDescription].(map[string]any); ok {
		if t, _ := desc["type"].(string); t == "doc" {
			text, err := adf.ToText(desc, b.MaxDepth)
			if err != nil {
				logger.Warn("description not flattened", "key", key, "error", err)
				text = ""
			}
			bag[domain.FieldDescription] = text
		}
	}

	resolver := fields.NewResolver(
		fields.NamesFromExpand(in.Issue),
		fields.NamesFromCreateMeta(in.CreateMeta),
		fields.NamesFromEditMeta(in.EditMeta),
		fields.NamesFromSchema(in.Issue),
	)

	view := &domain.IssueView{
		Key:    key,
		URL:    domain.BrowseURL(in.BaseURL, key),
		Fields: make(map[string]domain.FieldEntry, len(bag)),
	}
	names := make(map[string]string, len(bag))
	for id, v := range bag {
		name := resolver.Resolve(id)
		names[id] = name
		view.Fields[id] = domain.FieldEntry{Name: name, Value: fields.Sanitize(v)}
	}

	if s, ok := bag[domain.FieldSummary].(string); ok {
		view.Summary = &s
	}
	view.Flagged = detector.IsFlagged(names, bag)

	return view, nil
}

// Restrict returns a copy of view keeping only the fields in keys.
// Keys absent from the view are ignored; nothing is added.
func Restrict(view *domain.IssueView, keys map[string]bool) *domain.IssueView {
	out := *view
	out.Fields = make(map[string]domain.FieldEntry, len(keys))
	for id, entry := range view.Fields {
		if keys[id] {
			out.Fields[id] = entry
		}
	}
	return &out
}
