package jira

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/h0rv/jira-mcp/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorded is one request seen by a recording handler.
type recorded struct {
	Method string
	Path   string
	Query  string
	Body   any
}

// recordingHandler records every request and answers with respond.
func recordingHandler(t *testing.T, seen *[]recorded, respond string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var body any
		if len(raw) > 0 {
			require.NoError(t, json.Unmarshal(raw, &body))
		}
		*seen = append(*seen, recorded{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Body: body})
		if respond == "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		_, _ = io.WriteString(w, respond)
	})
}

func TestCreateIssue(t *testing.T) {
	var seen []recorded
	client := newTestClient(t, recordingHandler(t, &seen, `{"id": "10001", "key": "PROJ-42"}`))

	created, err := client.CreateIssue(context.Background(), map[string]any{"summary": "New"})

	require.NoError(t, err)
	assert.Equal(t, "PROJ-42", created.Key)
	assert.Equal(t, "10001", created.ID)
	assert.Equal(t, client.BaseURL()+"/browse/PROJ-42", created.URL)
	require.Len(t, seen, 1)
	assert.Equal(t, http.MethodPost, seen[0].Method)
	assert.Equal(t, map[string]any{"fields": map[string]any{"summary": "New"}}, seen[0].Body)
}

func TestCreateIssue_MissingKey(t *testing.T) {
	var seen []recorded
	client := newTestClient(t, recordingHandler(t, &seen, `{}`))

	_, err := client.CreateIssue(context.Background(), map[string]any{})

	assert.ErrorContains(t, err, "no key")
}

func TestUpdateLabels(t *testing.T) {
	var seen []recorded
	client := newTestClient(t, recordingHandler(t, &seen, ""))

	require.NoError(t, client.UpdateLabels(context.Background(), "PROJ-1", []string{"a"}, []string{"b"}))

	require.Len(t, seen, 1)
	assert.Equal(t, http.MethodPut, seen[0].Method)
	assert.Equal(t, map[string]any{"update": map[string]any{"labels": []any{
		map[string]any{"add": "a"},
		map[string]any{"remove": "b"},
	}}}, seen[0].Body)
}

func TestTransitionIssue_WithComment(t *testing.T) {
	var seen []recorded
	client := newTestClient(t, recordingHandler(t, &seen, ""))

	err := client.TransitionIssue(context.Background(), "PROJ-1", "31", map[string]any{"resolution": map[string]any{"name": "Done"}}, "Closing")

	require.NoError(t, err)
	body := seen[0].Body.(map[string]any)
	assert.Equal(t, "/rest/api/3/issue/PROJ-1/transitions", seen[0].Path)
	assert.Equal(t, map[string]any{"id": "31"}, body["transition"])
	assert.Contains(t, body, "fields")
	comment := body["update"].(map[string]any)["comment"].([]any)[0].(map[string]any)
	doc := comment["add"].(map[string]any)["body"].(map[string]any)
	assert.Equal(t, "doc", doc["type"])
}

func TestAddComment_Visibility(t *testing.T) {
	var seen []recorded
	client := newTestClient(t, recordingHandler(t, &seen, `{"id": "9", "author": {"displayName": "Ann"}, "created": "now"}`))

	comment, err := client.AddComment(context.Background(), "PROJ-1", "hi", &domain.CommentVisibility{Type: "role", Value: "Developers"})

	require.NoError(t, err)
	assert.Equal(t, domain.Comment{ID: "9", Author: "Ann", Body: "hi", Created: "now"}, comment)
	body := seen[0].Body.(map[string]any)
	assert.Equal(t, map[string]any{"type": "role", "value": "Developers"}, body["visibility"])
}

func TestWatchersAssignAndLinks(t *testing.T) {
	var seen []recorded
	client := newTestClient(t, recordingHandler(t, &seen, ""))
	ctx := context.Background()

	require.NoError(t, client.AddWatcher(ctx, "PROJ-1", "a1"))
	require.NoError(t, client.RemoveWatcher(ctx, "PROJ-1", "a1"))
	require.NoError(t, client.AssignIssue(ctx, "PROJ-1", ""))
	require.NoError(t, client.LinkIssues(ctx, "PROJ-1", "PROJ-2", "Blocks"))
	require.NoError(t, client.DeleteComment(ctx, "PROJ-1", "9"))

	require.Len(t, seen, 5)
	assert.Equal(t, "a1", seen[0].Body)
	assert.Equal(t, http.MethodDelete, seen[1].Method)
	assert.Equal(t, "accountId=a1", seen[1].Query)
	assert.Equal(t, map[string]any{"accountId": nil}, seen[2].Body)
	assert.Equal(t, "/rest/api/3/issueLink", seen[3].Path)
	assert.Equal(t, "/rest/api/3/issue/PROJ-1/comment/9", seen[4].Path)
}
