package mcpserver

import (
	"context"
	"fmt"

	"github.com/h0rv/jira-mcp/internal/bridge"
	"github.com/h0rv/jira-mcp/internal/domain"
	"github.com/h0rv/jira-mcp/internal/fields"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Listing limits.
const (
	DefaultSearchLimit     = 20
	DefaultUserSearchLimit = 50
	DefaultCommentLimit    = 50
	MaxListLimit           = 1000
)

type GetIssueInput struct {
	Key     string `json:"key" jsonschema:"issue key, e.g. PROJ-123"`
	BoardID int64  `json:"board_id,omitempty" jsonschema:"restrict fields to those relevant to this board; 0 returns every field"`
}

type SearchIssuesInput struct {
	JQL     string `json:"jql" jsonschema:"JQL query"`
	Fields  string `json:"fields,omitempty" jsonschema:"comma separated field ids; empty returns all fields"`
	Limit   int    `json:"limit,omitempty" jsonschema:"maximum number of issues (default 20)"`
	StartAt int    `json:"start_at,omitempty" jsonschema:"offset of the first issue"`
}

type CreateIssueInput struct {
	Fields any `json:"fields" jsonschema:"field id to value; project, issuetype and summary are usually required"`
}

type UpdateIssueInput struct {
	IssueKey string `json:"issue_key" jsonschema:"issue key"`
	Fields   any    `json:"fields" jsonschema:"field id to new value"`
}

type ListFieldsInput struct {
	ProjectKey          string   `json:"project_key"`
	IssueType           string   `json:"issue_type"`
	FieldNames          []string `json:"field_names,omitempty" jsonschema:"keep fields whose id or name matches, case-insensitively"`
	FieldTypes          []string `json:"field_types,omitempty" jsonschema:"keep fields whose schema type matches, e.g. string, array, user"`
	IncludeRequiredOnly bool     `json:"include_required_only,omitempty"`
}

type GetFieldDetailsInput struct {
	ProjectKey string   `json:"project_key"`
	IssueType  string   `json:"issue_type"`
	FieldIDs   []string `json:"field_ids"`
}

type ListIssueTypesInput struct {
	ProjectKey string `json:"project_key,omitempty" jsonschema:"list the types available in this project instead of every type"`
}

type ListProjectsInput struct {
	SummaryOnly bool `json:"summary_only,omitempty" jsonschema:"return only key and name"`
}

type ListBoardsInput struct {
	ProjectKey string `json:"project_key"`
}

type ListSprintsInput struct {
	BoardID int64  `json:"board_id"`
	State   string `json:"state,omitempty" jsonschema:"future, active or closed"`
}

type GetCommentsInput struct {
	IssueKey   string `json:"issue_key"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"maximum number of comments (default 50)"`
	OrderBy    string `json:"order_by,omitempty" jsonschema:"created or -created (default, newest first)"`
}

type AddCommentInput struct {
	IssueKey        string `json:"issue_key"`
	Body            string `json:"body" jsonschema:"plain text comment"`
	VisibilityType  string `json:"visibility_type,omitempty" jsonschema:"role or group"`
	VisibilityValue string `json:"visibility_value,omitempty" jsonschema:"role or group name"`
}

type DeleteCommentInput struct {
	IssueKey  string `json:"issue_key"`
	CommentID string `json:"comment_id" jsonschema:"comment id from get_comments"`
}

type IssueKeyInput struct {
	IssueKey string `json:"issue_key"`
}

type TransitionIssueInput struct {
	IssueKey     string `json:"issue_key"`
	TransitionID string `json:"transition_id" jsonschema:"transition id from get_transitions"`
	Fields       any    `json:"fields,omitempty" jsonschema:"fields to set during the transition"`
	Comment      string `json:"comment,omitempty"`
}

type AssignIssueInput struct {
	IssueKey  string `json:"issue_key"`
	AccountID string `json:"account_id,omitempty" jsonschema:"assignee account id; empty unassigns"`
}

type LabelsInput struct {
	IssueKey string   `json:"issue_key"`
	Labels   []string `json:"labels"`
}

type WatcherInput struct {
	IssueKey  string `json:"issue_key"`
	AccountID string `json:"account_id"`
}

type LinkIssuesInput struct {
	InwardIssueKey  string `json:"inward_issue_key"`
	OutwardIssueKey string `json:"outward_issue_key"`
	LinkType        string `json:"link_type" jsonschema:"link type name, e.g. Blocks or Relates"`
}

type SearchUsersInput struct {
	Query      string `json:"query" jsonschema:"name or email fragment"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"maximum number of users (default 50)"`
}

type EmptyInput struct{}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_issue",
		Description: "Get one issue with every field named and cleaned. Pass board_id to keep only the fields that board shows.",
	}, s.getIssue)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "search_issues",
		Description: "Search issues with JQL.",
	}, s.searchIssues)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name: "create_issue",
		Description: `Create an issue. fields is an object (or a JSON string of one) keyed by field id.
description may be plain text; priority may be "1 - Highest"; components and fixVersions may be lists of names.
Use list_fields to discover the fields a project and issue type accept.`,
	}, s.createIssue)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "update_issue",
		Description: "Update fields of an issue. fields follows the same shape as create_issue.",
	}, s.updateIssue)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_fields",
		Description: `List the fields available when creating an issue, as {id: "name|type|required"}.`,
	}, s.listFields)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_field_details",
		Description: "Get the type, schema and allowed values of specific fields.",
	}, s.getFieldDetails)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_issue_types",
		Description: "List issue types, globally or for one project.",
	}, s.listIssueTypes)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_projects",
		Description: "List visible projects.",
	}, s.listProjects)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_boards",
		Description: "List the agile boards of a project.",
	}, s.listBoards)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_sprints",
		Description: "List the sprints of a board.",
	}, s.listSprints)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_comments",
		Description: "Get the comments on an issue as plain text.",
	}, s.getComments)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "add_comment",
		Description: "Add a plain text comment, optionally restricted to a role or group.",
	}, s.addComment)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "delete_comment",
		Description: "Delete a comment.",
	}, s.deleteComment)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_transitions",
		Description: "List the workflow transitions available on an issue.",
	}, s.getTransitions)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "transition_issue",
		Description: "Move an issue through a workflow transition.",
	}, s.transitionIssue)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "assign_issue",
		Description: "Assign an issue to an account, or unassign it.",
	}, s.assignIssue)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "add_labels",
		Description: "Add labels to an issue.",
	}, s.addLabels)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "remove_labels",
		Description: "Remove labels from an issue.",
	}, s.removeLabels)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_watchers",
		Description: "List the watchers of an issue.",
	}, s.getWatchers)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "add_watcher",
		Description: "Add a watcher to an issue.",
	}, s.addWatcher)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "remove_watcher",
		Description: "Remove a watcher from an issue.",
	}, s.removeWatcher)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "link_issues",
		Description: "Link two issues.",
	}, s.linkIssues)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "search_users",
		Description: "Find users by name or email.",
	}, s.searchUsers)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_user_info",
		Description: "Get the authenticated user.",
	}, s.getUserInfo)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_site_info",
		Description: "Get the Jira site URL, version and cloud id.",
	}, s.getSiteInfo)
}

func limitOr(n, def int) int {
	if n <= 0 {
		return def
	}
	return min(n, MaxListLimit)
}

func (s *Server) getIssue(ctx context.Context, _ *mcp.CallToolRequest, in GetIssueInput) (*mcp.CallToolResult, any, error) {
	rc, logger := s.call("get_issue", "key", in.Key, "board_id", in.BoardID)

	view, err := bridge.BuildIssueView(ctx, rc, in.Key, in.BoardID)
	if err != nil {
		logger.Error("failed to get issue", "error", err)
		return toolError{
			Action:  "get issue " + in.Key,
			Details: map[string]any{"issue_key": in.Key, "board_id": in.BoardID},
		}.result(err), nil, nil
	}
	return jsonResult(view)
}

func (s *Server) searchIssues(ctx context.Context, _ *mcp.CallToolRequest, in SearchIssuesInput) (*mcp.CallToolResult, any, error) {
	rc, logger := s.call("search_issues", "jql", in.JQL, "limit", in.Limit, "start_at", in.StartAt)

	hits, err := bridge.SearchIssues(ctx, rc, in.JQL, bridge.SplitFields(in.Fields), limitOr(in.Limit, DefaultSearchLimit), in.StartAt)
	if err != nil {
		logger.Error("failed to search issues", "error", err)
		return toolError{
			Title:       "Jira Search Error",
			Action:      "search issues",
			Suggestions: func(status int) []string { return JQLSuggestions(in.JQL, status) },
			Details:     map[string]any{"jql": in.JQL},
		}.result(err), nil, nil
	}
	logger.Info("search completed", "count", len(hits))
	return jsonResult(map[string]any{"results": hits})
}

func (s *Server) createIssue(ctx context.Context, _ *mcp.CallToolRequest, in CreateIssueInput) (*mcp.CallToolResult, any, error) {
	rc, logger := s.call("create_issue")

	res, err := bridge.CreateIssue(ctx, rc, in.Fields)
	if err != nil {
		logger.Error("failed to create issue", "error", err)
		projectKey, issueType := bridge.CreateTarget(bridge.CoerceCreateFields(rc, in.Fields))
		return toolError{
			Action:      "create issue",
			Suggestions: func(status int) []string { return CreateSuggestions(projectKey, issueType, status) },
		}.result(err), nil, nil
	}
	return jsonResult(res)
}

func (s *Server) updateIssue(ctx context.Context, _ *mcp.CallToolRequest, in UpdateIssueInput) (*mcp.CallToolResult, any, error) {
	rc, logger := s.call("update_issue", "key", in.IssueKey)

	res, err := bridge.UpdateIssue(ctx, rc, in.IssueKey, in.Fields)
	if err != nil {
		logger.Error("failed to update issue", "error", err)
		return toolError{
			Action:      "update issue " + in.IssueKey,
			Suggestions: func(status int) []string { return UpdateSuggestions(in.IssueKey, status) },
			Details:     map[string]any{"issue_key": in.IssueKey},
		}.result(err), nil, nil
	}
	return jsonResult(res)
}

func (s *Server) listFields(ctx context.Context, _ *mcp.CallToolRequest, in ListFieldsInput) (*mcp.CallToolResult, any, error) {
	rc, logger := s.call("list_fields", "project", in.ProjectKey, "issue_type", in.IssueType)

	filter := fields.Filter{Names: in.FieldNames, Types: in.FieldTypes, RequiredOnly: in.IncludeRequiredOnly}
	out, err := bridge.ListFields(ctx, rc, in.ProjectKey, in.IssueType, filter)
	if err != nil {
		logger.Error("failed to list fields", "error", err)
		return toolError{Action: "list fields"}.result(err), nil, nil
	}
	return jsonResult(map[string]any{"fields": out})
}

func (s *Server) getFieldDetails(ctx context.Context, _ *mcp.CallToolRequest, in GetFieldDetailsInput) (*mcp.CallToolResult, any, error) {
	rc, logger := s.call("get_field_details", "project", in.ProjectKey, "issue_type", in.IssueType)

	out, err := bridge.FieldDetails(ctx, rc, in.ProjectKey, in.IssueType, in.FieldIDs)
	if err != nil {
		logger.Error("failed to get field details", "error", err)
		return toolError{Action: "get field details"}.result(err), nil, nil
	}
	return jsonResult(map[string]any{"fields": out})
}

func (s *Server) listIssueTypes(ctx context.Context, _ *mcp.CallToolRequest, in ListIssueTypesInput) (*mcp.CallToolResult, any, error) {
	rc, logger := s.call("list_issue_types", "project", in.ProjectKey)

	types, err := rc.API.ListIssueTypes(ctx, in.ProjectKey)
	if err != nil {
		logger.Error("failed to list issue types", "error", err)
		return toolError{Action: "list issue types"}.result(err), nil, nil
	}
	return jsonResult(map[string]any{"issue_types": types})
}

type projectSummary struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

func (s *Server) listProjects(ctx context.Context, _ *mcp.CallToolRequest, in ListProjectsInput) (*mcp.CallToolResult, any, error) {
	rc, logger := s.call("list_projects", "summary_only", in.SummaryOnly)

	projects, err := bridge.ListProjects(ctx, rc, MaxListLimit)
	if err != nil {
		logger.Error("failed to list projects", "error", err)
		return toolError{Action: "list projects"}.result(err), nil, nil
	}

	var items any = projects
	if in.SummaryOnly {
		summaries := make([]projectSummary, len(projects))
		for i, p := range projects {
			summaries[i] = projectSummary{Key: p.Key, Name: p.Name}
		}
		items = summaries
	}
	return jsonResult(map[string]any{
		"projects":        items,
		"total_count":     len(projects),
		"fully_paginated": len(projects) < MaxListLimit,
	})
}

func (s *Server) listBoards(ctx context.Context, _ *mcp.CallToolRequest, in ListBoardsInput) (*mcp.CallToolResult, any, error) {
	rc, logger := s.call("list_boards", "project", in.ProjectKey)

	boards, err := bridge.ListBoards(ctx, rc, in.ProjectKey, MaxListLimit)
	if err != nil {
		logger.Error("failed to list boards", "error", err)
		return toolError{Action: "list boards"}.result(err), nil, nil
	}
	return jsonResult(map[string]any{"boards": boards})
}

func (s *Server) listSprints(ctx context.Context, _ *mcp.CallToolRequest, in ListSprintsInput) (*mcp.CallToolResult, any, error) {
	rc, logger := s.call("list_sprints", "board_id", in.BoardID, "state", in.State)

	sprints, err := bridge.ListSprints(ctx, rc, in.BoardID, in.State, MaxListLimit)
	if err != nil {
		logger.Error("failed to list sprints", "error", err)
		return toolError{Action: "list sprints"}.result(err), nil, nil
	}
	return jsonResult(map[string]any{"sprints": sprints})
}

func (s *Server) getComments(ctx context.Context, _ *mcp.CallToolRequest, in GetCommentsInput) (*mcp.CallToolResult, any, error) {
	rc, logger := s.call("get_comments", "key", in.IssueKey)

	comments, err := bridge.ListComments(ctx, rc, in.IssueKey, in.OrderBy, limitOr(in.MaxResults, DefaultCommentLimit))
	if err != nil {
		logger.Error("failed to get comments", "error", err)
		return toolError{Action: "get comments for " + in.IssueKey}.result(err), nil, nil
	}
	return jsonResult(map[string]any{
		"issue_key": in.IssueKey,
		"total":     len(comments),
		"comments":  comments,
	})
}

func (s *Server) addComment(ctx context.Context, _ *mcp.CallToolRequest, in AddCommentInput) (*mcp.CallToolResult, any, error) {
	rc, logger := s.call("add_comment", "key", in.IssueKey)

	var visibility *domain.CommentVisibility
	if in.VisibilityType != "" && in.VisibilityValue != "" {
		visibility = &domain.CommentVisibility{Type: in.VisibilityType, Value: in.VisibilityValue}
	}
	c, err := rc.API.AddComment(ctx, in.IssueKey, in.Body, visibility)
	if err != nil {
		logger.Error("failed to add comment", "error", err)
		return toolError{Action: "add comment to " + in.IssueKey}.result(err), nil, nil
	}
	return jsonResult(map[string]any{
		"id":        c.ID,
		"issue_key": in.IssueKey,
		"author":    c.Author,
		"created":   c.Created,
	})
}

func (s *Server) deleteComment(ctx context.Context, _ *mcp.CallToolRequest, in DeleteCommentInput) (*mcp.CallToolResult, any, error) {
	rc, logger := s.call("delete_comment", "key", in.IssueKey, "comment_id", in.CommentID)

	if err := rc.API.DeleteComment(ctx, in.IssueKey, in.CommentID); err != nil {
		logger.Error("failed to delete comment", "error", err)
		return toolError{Action: "delete comment " + in.CommentID}.result(err), nil, nil
	}
	return jsonResult(map[string]any{
		"success":    true,
		"issue_key":  in.IssueKey,
		"comment_id": in.CommentID,
		"message":    fmt.Sprintf("Comment %s deleted from issue %s", in.CommentID, in.IssueKey),
	})
}

func (s *Server) getTransitions(ctx context.Context, _ *mcp.CallToolRequest, in IssueKeyInput) (*mcp.CallToolResult, any, error) {
	rc, logger := s.call("get_transitions", "key", in.IssueKey)

	transitions, err := rc.API.GetTransitions(ctx, in.IssueKey)
	if err != nil {
		logger.Error("failed to get transitions", "error", err)
		return toolError{Action: "get transitions for " + in.IssueKey}.result(err), nil, nil
	}
	return jsonResult(map[string]any{"issue_key": in.IssueKey, "transitions": transitions})
}

func (s *Server) transitionIssue(ctx context.Context, _ *mcp.CallToolRequest, in TransitionIssueInput) (*mcp.CallToolResult, any, error) {
	rc, logger := s.call("transition_issue", "key", in.IssueKey, "transition_id", in.TransitionID)

	var payload map[string]any
	if in.Fields != nil {
		payload, _ = bridge.CoerceUpdateFields(rc, in.Fields)
	}
	if err := rc.API.TransitionIssue(ctx, in.IssueKey, in.TransitionID, payload, in.Comment); err != nil {
		logger.Error("failed to transition issue", "error", err)
		return toolError{
			Action:      "transition " + in.IssueKey,
			Suggestions: func(status int) []string { return UpdateSuggestions(in.IssueKey, status) },
		}.result(err), nil, nil
	}
	return jsonResult(map[string]any{
		"issue_key":     in.IssueKey,
		"transition_id": in.TransitionID,
		"success":       true,
		"message":       fmt.Sprintf("Issue %s transitioned successfully", in.IssueKey),
	})
}

func (s *Server) assignIssue(ctx context.Context, _ *mcp.CallToolRequest, in AssignIssueInput) (*mcp.CallToolResult, any, error) {
	rc, logger := s.call("assign_issue", "key", in.IssueKey, "account_id", in.AccountID)

	if err := rc.API.AssignIssue(ctx, in.IssueKey, in.AccountID); err != nil {
		logger.Error("failed to assign issue", "error", err)
		return toolError{Action: "assign " + in.IssueKey}.result(err), nil, nil
	}
	status := "assigned"
	if in.AccountID == "" {
		status = "unassigned"
	}
	return jsonResult(map[string]any{
		"success":    true,
		"issue_key":  in.IssueKey,
		"status":     status,
		"account_id": in.AccountID,
	})
}

func (s *Server) addLabels(ctx context.Context, _ *mcp.CallToolRequest, in LabelsInput) (*mcp.CallToolResult, any, error) {
	return s.changeLabels(ctx, "add_labels", in, in.Labels, nil)
}

func (s *Server) removeLabels(ctx context.Context, _ *mcp.CallToolRequest, in LabelsInput) (*mcp.CallToolResult, any, error) {
	return s.changeLabels(ctx, "remove_labels", in, nil, in.Labels)
}

func (s *Server) changeLabels(ctx context.Context, tool string, in LabelsInput, add, remove []string) (*mcp.CallToolResult, any, error) {
	rc, logger := s.call(tool, "key", in.IssueKey, "labels", in.Labels)

	if err := rc.API.UpdateLabels(ctx, in.IssueKey, add, remove); err != nil {
		logger.Error("failed to update labels", "error", err)
		return toolError{
			Action:      "update labels on " + in.IssueKey,
			Suggestions: func(status int) []string { return UpdateSuggestions(in.IssueKey, status) },
		}.result(err), nil, nil
	}
	return jsonResult(map[string]any{
		"success":   true,
		"issue_key": in.IssueKey,
		"added":     nonNil(add),
		"removed":   nonNil(remove),
	})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (s *Server) getWatchers(ctx context.Context, _ *mcp.CallToolRequest, in IssueKeyInput) (*mcp.CallToolResult, any, error) {
	rc, logger := s.call("get_watchers", "key", in.IssueKey)

	watchers, err := rc.API.GetWatchers(ctx, in.IssueKey)
	if err != nil {
		logger.Error("failed to get watchers", "error", err)
		return toolError{Action: "get watchers for " + in.IssueKey}.result(err), nil, nil
	}
	return jsonResult(map[string]any{
		"issue_key":   in.IssueKey,
		"watch_count": len(watchers),
		"watchers":    watchers,
	})
}

func (s *Server) addWatcher(ctx context.Context, _ *mcp.CallToolRequest, in WatcherInput) (*mcp.CallToolResult, any, error) {
	rc, logger := s.call("add_watcher", "key", in.IssueKey, "account_id", in.AccountID)

	if err := rc.API.AddWatcher(ctx, in.IssueKey, in.AccountID); err != nil {
		logger.Error("failed to add watcher", "error", err)
		return toolError{Action: "add watcher to " + in.IssueKey}.result(err), nil, nil
	}
	return jsonResult(map[string]any{
		"success":    true,
		"issue_key":  in.IssueKey,
		"account_id": in.AccountID,
		"message":    fmt.Sprintf("User %s added as watcher to issue %s", in.AccountID, in.IssueKey),
	})
}

func (s *Server) removeWatcher(ctx context.Context, _ *mcp.CallToolRequest, in WatcherInput) (*mcp.CallToolResult, any, error) {
	rc, logger := s.call("remove_watcher", "key", in.IssueKey, "account_id", in.AccountID)

	if err := rc.API.RemoveWatcher(ctx, in.IssueKey, in.AccountID); err != nil {
		logger.Error("failed to remove watcher", "error", err)
		return toolError{Action: "remove watcher from " + in.IssueKey}.result(err), nil, nil
	}
	return jsonResult(map[string]any{
		"success":    true,
		"issue_key":  in.IssueKey,
		"account_id": in.AccountID,
		"message":    fmt.Sprintf("Removed watcher %s from issue %s", in.AccountID, in.IssueKey),
	})
}

func (s *Server) linkIssues(ctx context.Context, _ *mcp.CallToolRequest, in LinkIssuesInput) (*mcp.CallToolResult, any, error) {
	rc, logger := s.call("link_issues", "inward", in.InwardIssueKey, "outward", in.OutwardIssueKey, "type", in.LinkType)

	if err := rc.API.LinkIssues(ctx, in.InwardIssueKey, in.OutwardIssueKey, in.LinkType); err != nil {
		logger.Error("failed to link issues", "error", err)
		return toolError{Action: "link issues"}.result(err), nil, nil
	}
	return jsonResult(map[string]any{
		"success": true,
		"message": fmt.Sprintf("Created '%s' link: %s -> %s", in.LinkType, in.InwardIssueKey, in.OutwardIssueKey),
	})
}

func (s *Server) searchUsers(ctx context.Context, _ *mcp.CallToolRequest, in SearchUsersInput) (*mcp.CallToolResult, any, error) {
	rc, logger := s.call("search_users", "query", in.Query)

	users, err := rc.API.SearchUsers(ctx, in.Query, limitOr(in.MaxResults, DefaultUserSearchLimit))
	if err != nil {
		logger.Error("failed to search users", "error", err)
		return toolError{Action: "search users"}.result(err), nil, nil
	}
	return jsonResult(map[string]any{"users": users})
}

func (s *Server) getUserInfo(ctx context.Context, _ *mcp.CallToolRequest, _ EmptyInput) (*mcp.CallToolResult, any, error) {
	rc, logger := s.call("get_user_info")

	me, err := rc.API.Myself(ctx)
	if err != nil {
		logger.Error("failed to get user info", "error", err)
		return toolError{Action: "get user info"}.result(err), nil, nil
	}
	return jsonResult(me)
}

func (s *Server) getSiteInfo(ctx context.Context, _ *mcp.CallToolRequest, _ EmptyInput) (*mcp.CallToolResult, any, error) {
	rc, logger := s.call("get_site_info")

	info, err := rc.API.SiteInfo(ctx)
	if err != nil {
		logger.Error("failed to get site info", "error", err)
		return toolError{Action: "get site info"}.result(err), nil, nil
	}
	return jsonResult(info)
}
