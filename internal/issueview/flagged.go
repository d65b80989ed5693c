package issueview

import (
	"sort"
	"strings"
)

// DefaultFlaggedName is the display name Jira gives its impediment field.
const DefaultFlaggedName = "Flagged"

// FlagDetector decides whether an issue is flagged.
// names maps field id to resolved display name; values holds the cleaned but
// unsanitized field values.
type FlagDetector interface {
	IsFlagged(names map[string]string, values map[string]any) bool
}

// FlagDetectorFunc adapts a function to FlagDetector.
type FlagDetectorFunc func(names map[string]string, values map[string]any) bool

// IsFlagged calls f.
func (f FlagDetectorFunc) IsFlagged(names map[string]string, values map[string]any) bool {
	return f(names, values)
}

// NameFlagDetector finds the field whose display name matches Name
// case-insensitively and reports flagged when its value is a non-empty list.
// When several fields match, the lowest field id is used.
type NameFlagDetector struct {
	Name string
}

// IsFlagged implements FlagDetector.
func (d NameFlagDetector) IsFlagged(names map[string]string, values map[string]any) bool {
	want := d.Name
	if want == "" {
		want = DefaultFlaggedName
	}

	ids := make([]string, 0, len(names))
	for id, name := range names {
		if strings.EqualFold(name, want) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return false
	}
	sort.Strings(ids)

	list, ok := values[ids[0]].([]any)
	return ok && len(list) > 0
}

// FieldFlagDetector reads a known field id directly, for sites where the
// impediment field has been renamed.
type FieldFlagDetector struct {
	FieldID string
}

// IsFlagged implements FlagDetector.
func (d FieldFlagDetector) IsFlagged(_ map[string]string, values map[string]any) bool {
	list, ok := values[d.FieldID].([]any)
	return ok && len(list) > 0
}
