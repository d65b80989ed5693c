package fields

import (
	"strings"

	"github.com/h0rv/jira-mcp/internal/domain"
	"github.com/tidwall/gjson"
)

// eachCreateMetaField walks projects[].issuetypes[].fields in document order.
func eachCreateMetaField(doc domain.Document, fn func(id string, def gjson.Result)) {
	gjson.GetBytes(doc, "projects").ForEach(func(_, project gjson.Result) bool {
		project.Get("issuetypes").ForEach(func(_, issueType gjson.Result) bool {
			issueType.Get("fields").ForEach(func(id, def gjson.Result) bool {
				fn(id.String(), def)
				return true
			})
			return true
		})
		return true
	})
}

// EditMetaKeys returns the field ids present in an edit metadata document.
func EditMetaKeys(doc domain.Document) []string {
	var keys []string
	gjson.GetBytes(doc, "fields").ForEach(func(id, _ gjson.Result) bool {
		keys = append(keys, id.String())
		return true
	})
	return keys
}

// CreateMetaKeys returns the distinct field ids present in a creation metadata document.
func CreateMetaKeys(doc domain.Document) []string {
	seen := make(map[string]bool)
	var keys []string
	eachCreateMetaField(doc, func(id string, _ gjson.Result) {
		if !seen[id] {
			seen[id] = true
			keys = append(keys, id)
		}
	})
	return keys
}

// FromCreateMeta flattens creation metadata into field definitions.
// Empty projectKey or issueType means no restriction on that level.
func FromCreateMeta(doc domain.Document, projectKey, issueType string) []domain.FieldDef {
	var out []domain.FieldDef
	gjson.GetBytes(doc, "projects").ForEach(func(_, project gjson.Result) bool {
		if projectKey != "" && project.Get("key").String() != projectKey {
			return true
		}
		project.Get("issuetypes").ForEach(func(_, it gjson.Result) bool {
			if issueType != "" && it.Get("name").String() != issueType {
				return true
			}
			it.Get("fields").ForEach(func(id, def gjson.Result) bool {
				out = append(out, fieldDef(id.String(), def))
				return true
			})
			return true
		})
		return true
	})
	return out
}

func fieldDef(id string, def gjson.Result) domain.FieldDef {
	f := domain.FieldDef{
		ID:            id,
		Name:          id,
		Required:      def.Get("required").Bool(),
		Schema:        map[string]any{},
		AllowedValues: []any{},
	}
	if name := def.Get("name"); name.Type == gjson.String {
		f.Name = name.String()
	}
	if schema := def.Get("schema"); schema.Exists() {
		f.Schema = schema.Value()
	}
	if allowed := def.Get("allowedValues"); allowed.Exists() {
		f.AllowedValues = allowed.Value()
	}
	return f
}

// Filter narrows field definitions for a listing.
type Filter struct {
	// Names matches ids or display names, case-insensitively.
	Names []string
	// Types matches schema types, case-insensitively. A missing type is "unknown".
	Types        []string
	RequiredOnly bool
}

// Apply returns the definitions that pass every configured criterion.
func (f Filter) Apply(defs []domain.FieldDef) []domain.FieldDef {
	names := lowerSet(f.Names)
	types := lowerSet(f.Types)

	out := make([]domain.FieldDef, 0, len(defs))
	for _, d := range defs {
		if f.RequiredOnly && !d.Required {
			continue
		}
		if names != nil && !names[strings.ToLower(d.ID)] && !names[strings.ToLower(d.Name)] {
			continue
		}
		if types != nil && !types[strings.ToLower(TypeOf(d))] {
			continue
		}
		out = append(out, d)
	}
	return out
}

// TypeOf returns the schema type of d, or "unknown".
func TypeOf(d domain.FieldDef) string {
	if t := d.SchemaType(); t != "" {
		return t
	}
	return "unknown"
}

// Summary formats d as "name|type|required" for compact listings.
func Summary(d domain.FieldDef) string {
	status := "optional"
	if d.Required {
		status = "required"
	}
	return d.Name + "|" + TypeOf(d) + "|" + status
}

// Details describes d for a field-details lookup: name, type, required, the
// sanitized allowed values when non-empty, and the schema without its type.
func Details(d domain.FieldDef) map[string]any {
	out := map[string]any{
		"name":     d.Name,
		"type":     TypeOf(d),
		"required": d.Required,
	}
	if !emptyList(d.AllowedValues) {
		out["allowed_values"] = Sanitize(d.AllowedValues)
	}
	if schema, ok := d.Schema.(map[string]any); ok {
		rest := make(map[string]any, len(schema))
		for k, v := range schema {
			if k != "type" {
				rest[k] = v
			}
		}
		if len(rest) > 0 {
			out["schema"] = rest
		}
	}
	return out
}

func lowerSet(values []string) map[string]bool {
	if values == nil {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[strings.ToLower(v)] = true
	}
	return set
}

func emptyList(v any) bool {
	if v == nil {
		return true
	}
	list, ok := v.([]any)
	return ok && len(list) == 0
}
