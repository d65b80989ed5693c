// Package fields normalizes Jira field data in both directions: it strips
// presentation noise from fetched values, resolves field ids to display names
// across metadata sources, and coerces loosely shaped client input into the
// payload shape the REST API expects.
package fields

// denylist holds keys that carry only presentation or paging noise.
var denylist = map[string]bool{
	"avatarUrls":  true,
	"iconUrl":     true,
	"self":        true,
	"accountType": true,
	"active":      true,
	"content":     true,
	"thumbnail":   true,
	"isLast":      true,
	"startAt":     true,
	"maxResults":  true,
	"total":       true,
	"attachment":  true,
}

// keepWhenNull lists fields whose null value is still meaningful.
var keepWhenNull = map[string]bool{
	"parent":     true,
	"sprint":     true,
	"epic":       true,
	"subtasks":   true,
	"issuelinks": true,
	"attachment": true,
	"assignee":   true,
	"reporter":   true,
}

// IsDenied reports whether key is removed by Sanitize.
func IsDenied(key string) bool {
	return denylist[key]
}

// KeepWhenNull reports whether a null value for field id should survive cleaning.
func KeepWhenNull(id string) bool {
	return keepWhenNull[id]
}

// Sanitize returns a copy of v with every denylisted key removed from every
// object at any depth. Arrays keep their order and scalars pass through.
// The input is never modified.
func Sanitize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			if denylist[k] {
				continue
			}
			out[k] = Sanitize(child)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, child := range val {
			out[i] = Sanitize(child)
		}
		return out
	default:
		return v
	}
}

// DropNulls returns a copy of bag without null-valued fields, except those
// in the always-keep set.
func DropNulls(bag map[string]any) map[string]any {
	out := make(map[string]any, len(bag))
	for id, v := range bag {
		if v == nil && !keepWhenNull[id] {
			continue
		}
		out[id] = v
	}
	return out
}

// Clean drops nulls and sanitizes every remaining value.
// It is applied to search hits before they are returned.
func Clean(bag map[string]any) map[string]any {
	out := DropNulls(bag)
	for id, v := range out {
		out[id] = Sanitize(v)
	}
	return out
}
