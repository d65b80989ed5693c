package fields

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeJSON(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func createTestAssignee() string {
	return `{
		"self": "https://example.atlassian.net/rest/api/3/user?accountId=1",
		"accountId": "1",
		"accountType": "atlassian",
		"active": true,
		"displayName": "Ann",
		"avatarUrls": {"48x48": "https://avatar"},
		"groups": [
			{"name": "devs", "self": "https://g/1", "iconUrl": "https://i"},
			{"name": "ops", "thumbnail": "https://t"}
		]
	}`
}

// deniedKeys collects every denylisted key found anywhere in v.
func deniedKeys(v any) []string {
	var found []string
	switch val := v.(type) {
	case map[string]any:
		for k, child := range val {
			if IsDenied(k) {
				found = append(found, k)
			}
			found = append(found, deniedKeys(child)...)
		}
	case []any:
		for _, child := range val {
			found = append(found, deniedKeys(child)...)
		}
	}
	return found
}

func TestSanitize_RemovesDenylistedKeys(t *testing.T) {
	in := decodeJSON(t, createTestAssignee())

	got := Sanitize(in)

	want := decodeJSON(t, `{
		"accountId": "1",
		"displayName": "Ann",
		"groups": [{"name": "devs"}, {"name": "ops"}]
	}`)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Sanitize() mismatch (-want +got):\n%s", diff)
	}
}

func TestSanitize_DoesNotMutateInput(t *testing.T) {
	in := decodeJSON(t, createTestAssignee())
	before := decodeJSON(t, createTestAssignee())

	_ = Sanitize(in)

	if diff := cmp.Diff(before, in); diff != "" {
		t.Errorf("input mutated (-before +after):\n%s", diff)
	}
}

// TestSanitize_NoDeniedKeyAtAnyDepth verifies the postcondition over varied trees.
func TestSanitize_NoDeniedKeyAtAnyDepth(t *testing.T) {
	trees := []string{
		`{}`,
		`[]`,
		`"scalar"`,
		`42`,
		`null`,
		`{"total": 3, "startAt": 0, "maxResults": 50, "isLast": true, "values": [{"self": "x"}]}`,
		`[[{"content": [{"content": "nested"}]}], {"attachment": [{"thumbnail": "t"}]}]`,
		`{"a": {"b": {"c": {"d": {"iconUrl": "i", "keep": [1, {"avatarUrls": {}}]}}}}}`,
	}

	for _, tree := range trees {
		got := Sanitize(decodeJSON(t, tree))
		assert.Empty(t, deniedKeys(got), "tree %s", tree)
	}
}

func TestSanitize_PreservesArrayOrderAndScalars(t *testing.T) {
	got := Sanitize(decodeJSON(t, `[3, "b", true, null, {"k": [1, 2, 3]}]`))

	want := []any{3.0, "b", true, nil, map[string]any{"k": []any{1.0, 2.0, 3.0}}}
	assert.Equal(t, want, got)
}

func TestDropNulls(t *testing.T) {
	bag := map[string]any{
		"summary":     "Fix it",
		"duedate":     nil,
		"parent":      nil,
		"assignee":    nil,
		"reporter":    nil,
		"environment": nil,
		"sprint":      nil,
	}

	got := DropNulls(bag)

	assert.Equal(t, map[string]any{
		"summary":  "Fix it",
		"parent":   nil,
		"assignee": nil,
		"reporter": nil,
		"sprint":   nil,
	}, got)
	assert.Len(t, bag, 7, "input must not be modified")
}

func TestClean(t *testing.T) {
	bag := decodeJSON(t, `{
		"summary": "Broken login",
		"resolution": null,
		"assignee": null,
		"status": {"name": "To Do", "self": "https://s", "iconUrl": "https://i"}
	}`).(map[string]any)

	got := Clean(bag)

	assert.Equal(t, map[string]any{
		"summary":  "Broken login",
		"assignee": nil,
		"status":   map[string]any{"name": "To Do"},
	}, got)
}
