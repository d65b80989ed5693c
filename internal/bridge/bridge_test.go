package bridge

import (
	"context"
	"errors"
	"testing"

	"github.com/h0rv/jira-mcp/internal/board"
	"github.com/h0rv/jira-mcp/internal/bridge/bridgetest"
	"github.com/h0rv/jira-mcp/internal/domain"
	"github.com/h0rv/jira-mcp/internal/jira"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ API = bridgetest.New()

const testBaseURL = "https://example.atlassian.net"

func createTestIssue() domain.Document {
	return domain.Document(`{
		"key": "PROJ-1",
		"fields": {
			"summary": "Fix login",
			"description": {"type": "doc", "version": 1, "content": [
				{"type": "paragraph", "content": [{"type": "text", "text": "Steps"}]}
			]},
			"project": {"key": "PROJ", "name": "Project", "self": "https://example.atlassian.net/rest/api/3/project/1"},
			"issuetype": {"name": "Story", "iconUrl": "https://example.atlassian.net/icon.png"},
			"status": {"name": "To Do"},
			"customfield_10021": [{"value": "Impediment"}],
			"customfield_1": 5,
			"customfield_2": "x",
			"environment": null,
			"parent": null,
			"comment": {"comments": []}
		},
		"names": {"customfield_10021": "Flagged", "customfield_1": "Story Points"}
	}`)
}

func createTestCreateMeta() domain.Document {
	return domain.Document(`{"projects": [{"key": "PROJ", "issuetypes": [{"name": "Story", "fields": {
		"summary": {"name": "Summary", "required": true, "schema": {"type": "string", "system": "summary"}},
		"priority": {"name": "Priority", "required": false, "schema": {"type": "priority"},
			"allowedValues": [{"id": "1", "name": "Highest", "iconUrl": "https://example.atlassian.net/p.png"}]},
		"customfield_1": {"name": "Story Points", "required": false, "schema": {"type": "number", "customId": 1}}
	}}]}]}`)
}

func createTestAPI() *bridgetest.API {
	api := bridgetest.New()
	api.Issues["PROJ-1"] = createTestIssue()
	api.EditMeta["PROJ-1"] = domain.Document(`{"fields": {"summary": {"name": "Summary"}}}`)
	api.BoardConfig[7] = domain.Document(`{"id": 7, "filter": {"id": "5"}, "estimation": {"field": {"fieldId": "customfield_1"}}}`)
	api.Filters[5] = domain.Document(`{"id": "5", "jql": "project = PROJ"}`)
	api.Search = []domain.Issue{{Key: "PROJ-9", Fields: map[string]any{"summary": "sampled"}}}
	return api
}

func createTestContext(api API) *Context {
	return &Context{API: api, BaseURL: testBaseURL}
}

func TestBuildIssueView_WithoutBoard(t *testing.T) {
	api := createTestAPI()

	view, err := BuildIssueView(context.Background(), createTestContext(api), "PROJ-1", 0)

	require.NoError(t, err)
	assert.Equal(t, "PROJ-1", view.Key)
	assert.Equal(t, testBaseURL+"/browse/PROJ-1", view.URL)
	require.NotNil(t, view.Summary)
	assert.Equal(t, "Fix login", *view.Summary)
	assert.True(t, view.Flagged)
	assert.Equal(t, "Steps", view.FieldValue("description"))
	assert.Equal(t, "Story Points", view.Fields["customfield_1"].Name)
	assert.Contains(t, view.Fields, "parent")
	assert.NotContains(t, view.Fields, "environment")
	assert.NotContains(t, view.Fields, "comment")
	assert.Equal(t, map[string]any{"key": "PROJ", "name": "Project"}, view.FieldValue("project"))
	assert.Empty(t, api.CallsTo("GetBoardConfiguration"))
}

func TestBuildIssueView_RestrictedToBoard(t *testing.T) {
	api := createTestAPI()

	view, err := BuildIssueView(context.Background(), createTestContext(api), "PROJ-1", 7)

	require.NoError(t, err)
	var ids []string
	for id := range view.Fields {
		ids = append(ids, id)
	}
	assert.ElementsMatch(t, []string{"summary", "project", "issuetype", "status", "parent", "customfield_1"}, ids)
	assert.True(t, view.Flagged, "flag detection runs before restriction")

	assert.Len(t, api.CallsTo("GetEditMeta"), 1, "edit metadata is fetched once")
	assert.Len(t, api.CallsTo("GetCreateMeta"), 1, "failed creation metadata is not refetched")
	assert.Equal(t, []any{"PROJ", "Story"}, api.CallsTo("GetCreateMeta")[0].Args)
}

func TestBuildIssueView_CriticalFailures(t *testing.T) {
	tests := []struct {
		name    string
		boardID int64
		mutate  func(*bridgetest.API)
		op      string
	}{
		{"issue", 0, func(a *bridgetest.API) { a.Errors["GetRawIssue"] = errors.New("boom") }, "get issue"},
		{"edit metadata with board", 7, func(a *bridgetest.API) { delete(a.EditMeta, "PROJ-1") }, "get edit metadata"},
		{"board configuration", 8, func(*bridgetest.API) {}, "get board configuration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := createTestAPI()
			tt.mutate(api)

			_, err := BuildIssueView(context.Background(), createTestContext(api), "PROJ-1", tt.boardID)

			var fetchErr *FetchError
			require.ErrorAs(t, err, &fetchErr)
			assert.Equal(t, tt.op, fetchErr.Op)
		})
	}
}

func TestBuildIssueView_EditMetadataOptionalWithoutBoard(t *testing.T) {
	api := createTestAPI()
	delete(api.EditMeta, "PROJ-1")

	view, err := BuildIssueView(context.Background(), createTestContext(api), "PROJ-1", 0)

	require.NoError(t, err)
	assert.Equal(t, "Flagged", view.Fields["customfield_10021"].Name)
}

func TestBuildIssueView_KeepsAPIErrorReachable(t *testing.T) {
	api := createTestAPI()
	api.Errors["GetRawIssue"] = &jira.APIError{StatusCode: 404, Body: []byte(`{"errorMessages":["Issue does not exist"]}`)}

	_, err := BuildIssueView(context.Background(), createTestContext(api), "PROJ-1", 0)

	assert.True(t, jira.IsNotFound(err))
}

func TestComputeBoardFieldKeys(t *testing.T) {
	api := createTestAPI()
	api.CreateMeta = createTestCreateMeta()
	rc := createTestContext(api)

	view, err := BuildIssueView(context.Background(), rc, "PROJ-1", 0)
	require.NoError(t, err)

	keys, err := ComputeBoardFieldKeys(context.Background(), rc, view, 7)

	require.NoError(t, err)
	assert.Equal(t, []string{"customfield_1", "issuetype", "parent", "project", "status", "summary"}, board.Sorted(keys))
	calls := api.CallsTo("GetCreateMeta")
	assert.Equal(t, []any{"PROJ", "Story"}, calls[len(calls)-1].Args)
}

func TestComputeBoardFieldKeys_SamplesBoardIssuesWithoutFilter(t *testing.T) {
	api := createTestAPI()
	api.BoardConfig[8] = domain.Document(`{"id": 8}`)
	api.BoardHits = []domain.Issue{
		{Key: "PROJ-2", Fields: map[string]any{"summary": "a", "customfield_2": "y"}},
		{Key: "PROJ-3", Fields: map[string]any{"summary": "b", "customfield_1": nil}},
	}
	rc := createTestContext(api)

	view, err := BuildIssueView(context.Background(), rc, "PROJ-1", 0)
	require.NoError(t, err)

	keys, err := ComputeBoardFieldKeys(context.Background(), rc, view, 8)

	require.NoError(t, err)
	assert.Equal(t, []string{"customfield_2", "issuetype", "parent", "project", "status", "summary"}, board.Sorted(keys))
	assert.Len(t, api.CallsTo("BoardIssues"), 1)
	assert.Empty(t, api.CallsTo("SearchIssues"))
}
