package fields

import (
	"sort"

	"github.com/h0rv/jira-mcp/internal/domain"
	"github.com/tidwall/gjson"
)

// SourceKind identifies where a field name came from. Lower kinds take
// precedence during resolution.
type SourceKind int

const (
	SourceNamesExpand SourceKind = iota + 1
	SourceCreateMeta
	SourceEditMeta
	SourceInlineSchema
)

func (k SourceKind) String() string {
	switch k {
	case SourceNamesExpand:
		return "names"
	case SourceCreateMeta:
		return "createmeta"
	case SourceEditMeta:
		return "editmeta"
	case SourceInlineSchema:
		return "schema"
	default:
		return "unknown"
	}
}

// NameSource is one id to name mapping tagged with its origin.
type NameSource struct {
	Kind  SourceKind
	Names map[string]string
}

// NamesFromExpand reads the "names" expansion of an issue document.
func NamesFromExpand(issue domain.Document) NameSource {
	names := make(map[string]string)
	gjson.GetBytes(issue, "names").ForEach(func(id, name gjson.Result) bool {
		if name.Type == gjson.String {
			names[id.String()] = name.String()
		}
		return true
	})
	return NameSource{Kind: SourceNamesExpand, Names: names}
}

// NamesFromSchema reads per-field names from an issue's "schema" expansion.
func NamesFromSchema(issue domain.Document) NameSource {
	names := make(map[string]string)
	gjson.GetBytes(issue, "schema").ForEach(func(id, schema gjson.Result) bool {
		if name := schema.Get("name"); name.Type == gjson.String {
			names[id.String()] = name.String()
		}
		return true
	})
	return NameSource{Kind: SourceInlineSchema, Names: names}
}

// NamesFromEditMeta reads field names from an edit metadata document.
func NamesFromEditMeta(doc domain.Document) NameSource {
	names := make(map[string]string)
	gjson.GetBytes(doc, "fields").ForEach(func(id, def gjson.Result) bool {
		if name := def.Get("name"); name.Type == gjson.String {
			names[id.String()] = name.String()
		}
		return true
	})
	return NameSource{Kind: SourceEditMeta, Names: names}
}

// NamesFromCreateMeta reads field names from a creation metadata document.
// When several issue types define the same field, the first name seen wins.
func NamesFromCreateMeta(doc domain.Document) NameSource {
	names := make(map[string]string)
	eachCreateMetaField(doc, func(id string, def gjson.Result) {
		if _, seen := names[id]; seen {
			return
		}
		if name := def.Get("name"); name.Type == gjson.String {
			names[id] = name.String()
		}
	})
	return NameSource{Kind: SourceCreateMeta, Names: names}
}

// Resolver maps field ids to display names using an ordered set of sources.
type Resolver struct {
	sources []NameSource
}

// NewResolver builds a resolver. Source order is irrelevant; precedence is
// decided by each source's kind.
func NewResolver(sources ...NameSource) *Resolver {
	sorted := make([]NameSource, 0, len(sources))
	for _, s := range sources {
		if len(s.Names) > 0 {
			sorted = append(sorted, s)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Kind < sorted[j].Kind
	})
	return &Resolver{sources: sorted}
}

// Lookup returns the winning name for id and the kind of source it came from.
// ok is false when no source knows the id.
func (r *Resolver) Lookup(id string) (name string, kind SourceKind, ok bool) {
	for _, s := range r.sources {
		if name, ok := s.Names[id]; ok {
			return name, s.Kind, true
		}
	}
	return "", 0, false
}

// Resolve returns the display name for id, falling back to id itself.
func (r *Resolver) Resolve(id string) string {
	if name, _, ok := r.Lookup(id); ok {
		return name
	}
	return id
}
