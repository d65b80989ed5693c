package mcpserver

import (
	"context"
	"sort"
	"testing"

	"github.com/h0rv/jira-mcp/internal/bridge"
	"github.com/h0rv/jira-mcp/internal/bridge/bridgetest"
	"github.com/h0rv/jira-mcp/internal/domain"
	"github.com/h0rv/jira-mcp/internal/jira"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestAPI() *bridgetest.API {
	api := bridgetest.New()
	api.Issues["PROJ-1"] = domain.Document(`{
		"key": "PROJ-1",
		"fields": {
			"summary": "Fix login",
			"status": {"name": "To Do", "iconUrl": "https://example.atlassian.net/s.png"},
			"labels": []
		}
	}`)
	api.EditMeta["PROJ-1"] = domain.Document(`{"fields": {"summary": {"name": "Summary"}}}`)
	api.CreatedKey = "PROJ-2"
	return api
}

// connect starts a server over in-memory transports and returns a client session.
func connect(t *testing.T, api bridge.API) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	srv := New(&bridge.Context{API: api, BaseURL: "https://example.atlassian.net"}, "test")
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	ss, err := srv.MCP().Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func callTool(t *testing.T, cs *mcp.ClientSession, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	return res
}

func TestServer_ListsEveryTool(t *testing.T) {
	cs := connect(t, createTestAPI())

	res, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	sort.Strings(names)
	assert.Equal(t, []string{
		"add_comment", "add_labels", "add_watcher", "assign_issue", "create_issue",
		"delete_comment", "get_comments", "get_field_details", "get_issue", "get_site_info",
		"get_transitions", "get_user_info", "get_watchers", "link_issues", "list_boards",
		"list_fields", "list_issue_types", "list_projects", "list_sprints", "remove_labels",
		"remove_watcher", "search_issues", "search_users", "transition_issue", "update_issue",
	}, names)
}

func TestServer_GetIssue(t *testing.T) {
	cs := connect(t, createTestAPI())

	res := callTool(t, cs, "get_issue", map[string]any{"key": "PROJ-1"})

	require.False(t, res.IsError, resultText(t, res))
	view := res.StructuredContent.(map[string]any)
	assert.Equal(t, "PROJ-1", view["key"])
	assert.Equal(t, "https://example.atlassian.net/browse/PROJ-1", view["url"])
	assert.Equal(t, "Fix login", view["summary"])
	assert.Equal(t, false, view["flagged"])
	status := view["fields"].(map[string]any)["status"].(map[string]any)
	assert.Equal(t, map[string]any{"name": "To Do"}, status["value"])
}

func TestServer_GetIssueNotFound(t *testing.T) {
	api := createTestAPI()
	api.Errors["GetRawIssue"] = &jira.APIError{StatusCode: 404, Body: []byte(`{"errorMessages":["Issue does not exist or you do not have permission to see it."]}`)}
	cs := connect(t, api)

	res := callTool(t, cs, "get_issue", map[string]any{"key": "PROJ-404"})

	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "Jira API Error (404): Issue does not exist")
}

func TestServer_SearchError(t *testing.T) {
	api := createTestAPI()
	api.Errors["SearchIssues"] = &jira.APIError{StatusCode: 400, Body: []byte(`{"errorMessages":["Error in the JQL Query"]}`)}
	cs := connect(t, api)

	res := callTool(t, cs, "search_issues", map[string]any{"jql": "project = PROJ"})

	assert.True(t, res.IsError)
	text := resultText(t, res)
	assert.Contains(t, text, "Jira Search Error (400): Error in the JQL Query")
	assert.Contains(t, text, "String values should be quoted")
}

func TestServer_CreateIssue(t *testing.T) {
	api := createTestAPI()
	cs := connect(t, api)

	res := callTool(t, cs, "create_issue", map[string]any{
		"fields": `{"project": {"key": "PROJ"}, "summary": "New", "priority": "2 - High"}`,
	})

	require.False(t, res.IsError, resultText(t, res))
	out := res.StructuredContent.(map[string]any)
	assert.Equal(t, "PROJ-2", out["issue_key"])
	assert.Equal(t, []any{"created"}, out["actions"])

	sent := api.CallsTo("CreateIssue")[0].Args[0].(map[string]any)
	assert.Equal(t, "High", sent["priority"])
}

func TestServer_CreateIssueSuggestions(t *testing.T) {
	api := createTestAPI()
	api.Errors["CreateIssue"] = &jira.APIError{StatusCode: 400, Body: []byte(`{"errors":{"summary":"Summary is required."}}`)}
	cs := connect(t, api)

	res := callTool(t, cs, "create_issue", map[string]any{
		"fields": map[string]any{"project": map[string]any{"key": "PROJ"}, "issuetype": map[string]any{"name": "Bug"}},
	})

	assert.True(t, res.IsError)
	text := resultText(t, res)
	assert.Contains(t, text, "summary: Summary is required.")
	assert.Contains(t, text, "Verify project key 'PROJ' exists")
	assert.Contains(t, text, "Verify issue type 'Bug' exists in project")
}

func TestServer_UpdateIssueNothingToApply(t *testing.T) {
	api := createTestAPI()
	cs := connect(t, api)

	res := callTool(t, cs, "update_issue", map[string]any{"issue_key": "PROJ-1", "fields": "not json"})

	require.False(t, res.IsError)
	out := res.StructuredContent.(map[string]any)
	assert.Equal(t, []any{"no fields to update"}, out["warnings"])
	assert.Empty(t, api.CallsTo("UpdateIssue"))
}

func TestServer_Labels(t *testing.T) {
	api := createTestAPI()
	cs := connect(t, api)

	res := callTool(t, cs, "remove_labels", map[string]any{"issue_key": "PROJ-1", "labels": []any{"old"}})

	require.False(t, res.IsError)
	call := api.CallsTo("UpdateLabels")[0]
	assert.Nil(t, call.Args[1])
	assert.Equal(t, []string{"old"}, call.Args[2])
}

func TestServer_ListProjectsSummary(t *testing.T) {
	api := createTestAPI()
	api.Projects = []domain.Project{{ID: "1", Key: "PROJ", Name: "Project", Style: "next-gen"}}
	cs := connect(t, api)

	res := callTool(t, cs, "list_projects", map[string]any{"summary_only": true})

	require.False(t, res.IsError)
	out := res.StructuredContent.(map[string]any)
	assert.Equal(t, []any{map[string]any{"key": "PROJ", "name": "Project"}}, out["projects"])
	assert.Equal(t, float64(1), out["total_count"])
	assert.Equal(t, true, out["fully_paginated"])
}

func TestServer_AssignIssueUnassigns(t *testing.T) {
	api := createTestAPI()
	cs := connect(t, api)

	res := callTool(t, cs, "assign_issue", map[string]any{"issue_key": "PROJ-1"})

	require.False(t, res.IsError)
	assert.Equal(t, "unassigned", res.StructuredContent.(map[string]any)["status"])
	assert.Equal(t, []any{"PROJ-1", ""}, api.CallsTo("AssignIssue")[0].Args)
}
