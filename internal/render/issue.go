// Package render formats canonical issue views for the terminal.
package render

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/h0rv/jira-mcp/internal/domain"
	"github.com/h0rv/jira-mcp/internal/fields"
	"github.com/muesli/reflow/wordwrap"
)

// DefaultWidth is used when the terminal width is unknown.
const DefaultWidth = 80

// Issue renders view as a header, a field table and the wrapped description.
func Issue(view *domain.IssueView, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}

	var b strings.Builder

	header := KeyStyle.Render(view.Key)
	if view.Summary != nil {
		header += " " + SummaryStyle.Render(*view.Summary)
	}
	if view.Flagged {
		header += " " + FlaggedStyle.Render("[flagged]")
	}
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(MutedStyle.Render(view.URL))
	b.WriteString("\n")

	rows := fieldRows(view)
	if len(rows) > 0 {
		b.WriteString(SectionStyle.Render("Fields"))
		b.WriteString("\n")
		labelWidth := 0
		for _, r := range rows {
			labelWidth = max(labelWidth, lipgloss.Width(r.name))
		}
		for _, r := range rows {
			label := LabelStyle.Width(labelWidth + 2).Render(r.name)
			value := wordwrap.String(r.value, max(width-labelWidth-2, 20))
			value = indent(value, labelWidth+2)
			b.WriteString(label)
			b.WriteString(ValueStyle.Render(value))
			b.WriteString("\n")
		}
	}

	if desc, ok := view.FieldValue(domain.FieldDescription).(string); ok && desc != "" {
		b.WriteString(SectionStyle.Render("Description"))
		b.WriteString("\n")
		b.WriteString(wordwrap.String(desc, width))
		b.WriteString("\n")
	}

	return b.String()
}

type row struct {
	name  string
	value string
}

// fieldRows lists every field but summary and description, ordered by name.
func fieldRows(view *domain.IssueView) []row {
	var rows []row
	for id, entry := range view.Fields {
		if id == domain.FieldSummary || id == domain.FieldDescription {
			continue
		}
		rows = append(rows, row{name: entry.Name, value: Value(entry.Value)})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].name != rows[j].name {
			return rows[i].name < rows[j].name
		}
		return rows[i].value < rows[j].value
	})
	return rows
}

// displayKeys are tried in order to pick a readable label for an object value.
var displayKeys = []string{"displayName", "name", "value", "key"}

// Value formats one sanitized field value on a single line.
func Value(v any) string {
	switch t := v.(type) {
	case nil:
		return "-"
	case string:
		return t
	case bool, float64, json.Number:
		return fmt.Sprint(t)
	case []any:
		if len(t) == 0 {
			return "-"
		}
		parts := make([]string, len(t))
		for i, item := range t {
			parts[i] = Value(item)
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		for _, k := range displayKeys {
			if s, ok := t[k].(string); ok && s != "" {
				return s
			}
		}
		keys := fields.Keys(t)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + "=" + Value(t[k])
		}
		return "{" + strings.Join(parts, " ") + "}"
	default:
		return fmt.Sprint(t)
	}
}

// indent prefixes every line after the first with n spaces.
func indent(s string, n int) string {
	return strings.ReplaceAll(s, "\n", "\n"+strings.Repeat(" ", n))
}
