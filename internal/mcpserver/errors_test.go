package mcpserver

import (
	"errors"
	"testing"

	"github.com/h0rv/jira-mcp/internal/jira"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJQLSuggestions(t *testing.T) {
	tests := []struct {
		name   string
		jql    string
		status int
		want   []string
	}{
		{
			name:   "unquoted value and double space",
			jql:    "project = PROJ  AND status = Done",
			status: 400,
			want: []string{
				"Check your JQL syntax for common errors",
				"String values should be quoted: project = 'PROJ' instead of project = PROJ",
				"Remove double spaces in JQL",
				"Try a simpler query like: project = PROJ",
			},
		},
		{
			name:   "quoted values",
			jql:    `project = "PROJ"`,
			status: 400,
			want: []string{
				"Check your JQL syntax for common errors",
				"Try a simpler query like: project = PROJ",
			},
		},
		{
			name:   "rate limited",
			jql:    "project = PROJ",
			status: 429,
			want: []string{
				"Rate limit exceeded. Try again in a few seconds",
				"Consider using a more specific query to reduce results",
			},
		},
		{
			name:   "unknown status",
			status: 418,
			want: []string{
				"Check your JQL syntax and permissions",
				"Try verifying project keys and field names",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, JQLSuggestions(tt.jql, tt.status))
		})
	}
}

func TestCreateSuggestions(t *testing.T) {
	assert.Equal(t, []string{
		"Check if all required fields are provided",
		"Verify project key 'PROJ' exists",
		"Verify issue type 'Bug' exists in project",
		"Check field values match expected formats",
	}, CreateSuggestions("PROJ", "Bug", 400))

	assert.Equal(t, []string{
		"Check if all required fields are provided",
		"Check field values match expected formats",
	}, CreateSuggestions("", "", 400))

	assert.Len(t, CreateSuggestions("PROJ", "Bug", 403), 2)
}

func TestUpdateSuggestions(t *testing.T) {
	assert.Equal(t, []string{"Issue 'PROJ-9' not found", "Verify the issue key is correct"}, UpdateSuggestions("PROJ-9", 404))
	assert.Len(t, UpdateSuggestions("PROJ-9", 403), 3)
}

func TestFormatSuggestions(t *testing.T) {
	assert.Equal(t, "boom", FormatSuggestions("boom", nil))
	assert.Equal(t, "boom\n\nSuggestions:\n  - a\n  - b", FormatSuggestions("boom", []string{"a", "b"}))
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestToolError_APIError(t *testing.T) {
	err := &jira.APIError{StatusCode: 404, Body: []byte(`{"errorMessages":["Issue does not exist"]}`)}

	res := toolError{
		Action:      "update issue PROJ-9",
		Suggestions: func(status int) []string { return UpdateSuggestions("PROJ-9", status) },
		Details:     map[string]any{"issue_key": "PROJ-9"},
	}.result(err)

	assert.True(t, res.IsError)
	assert.Equal(t, "Jira API Error (404): Issue does not exist\n\nSuggestions:\n  - Issue 'PROJ-9' not found\n  - Verify the issue key is correct", resultText(t, res))

	data := res.StructuredContent.(map[string]any)
	assert.Equal(t, 404, data["status_code"])
	assert.Equal(t, "PROJ-9", data["issue_key"])
	assert.Equal(t, map[string]any{"errorMessages": []any{"Issue does not exist"}}, data["jira_response"])
}

func TestToolError_OtherError(t *testing.T) {
	res := toolError{Action: "list boards"}.result(errors.New("connection refused"))

	assert.True(t, res.IsError)
	assert.Equal(t, "Failed to list boards: connection refused", resultText(t, res))
	assert.Nil(t, res.StructuredContent)
}
