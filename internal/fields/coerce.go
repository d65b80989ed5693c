package fields

import (
	"encoding/json"
	"log/slog"
	"sort"
	"strings"

	"github.com/h0rv/jira-mcp/internal/adf"
	"github.com/h0rv/jira-mcp/internal/domain"
)

// Coerce reshapes client-supplied field input into the REST payload shape.
//
// raw may be an object, or a string holding JSON that eventually decodes to
// an object (string-encoded strings are unwrapped repeatedly). Anything else
// is malformed: it is logged and yields an empty map. The returned map always
// has exactly the keys of the decoded input.
func Coerce(raw any, logger *slog.Logger) map[string]any {
	if logger == nil {
		logger = slog.Default()
	}

	for {
		s, ok := raw.(string)
		if !ok {
			break
		}
		logger.Warn("fields received as a JSON string, decoding")
		var decoded any
		if err := json.Unmarshal([]byte(s), &decoded); err != nil {
			logger.Error("failed to decode fields string", "error", err)
			return map[string]any{}
		}
		raw = decoded
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		logger.Error("fields is neither an object nor a string", "type", typeName(raw))
		return map[string]any{}
	}

	out := make(map[string]any, len(obj))
	for id, v := range obj {
		out[id] = coerceValue(id, v)
	}
	return out
}

// Keys returns the field ids of a coerced map in sorted order.
func Keys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func coerceValue(id string, v any) any {
	switch id {
	case domain.FieldDescription:
		if s, ok := v.(string); ok {
			return adf.FromText(s)
		}
	case domain.FieldPriority:
		if s, ok := v.(string); ok {
			if tokens := strings.Fields(s); len(tokens) > 0 {
				return tokens[len(tokens)-1]
			}
			return s
		}
	case domain.FieldComponents, domain.FieldFixVersions:
		if list, ok := v.([]any); ok {
			return namedList(list)
		}
	}
	return v
}

// namedList maps a list of plain names to [{name: ...}]. Lists that are empty
// or already led by an object are returned unchanged; non-string elements of
// a name list are dropped.
func namedList(list []any) []any {
	if len(list) == 0 {
		return list
	}
	if _, ok := list[0].(map[string]any); ok {
		return list
	}
	out := make([]any, 0, len(list))
	for _, item := range list {
		if name, ok := item.(string); ok {
			out = append(out, map[string]any{"name": name})
		}
	}
	return out
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64, json.Number:
		return "number"
	case []any:
		return "array"
	default:
		return "unknown"
	}
}
