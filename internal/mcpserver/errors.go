package mcpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/h0rv/jira-mcp/internal/jira"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// JQLSuggestions returns hints for a failed search.
func JQLSuggestions(jql string, status int) []string {
	switch status {
	case http.StatusBadRequest:
		s := []string{"Check your JQL syntax for common errors"}
		if strings.Contains(jql, "=") && !strings.ContainsAny(jql, `'"`) {
			s = append(s, "String values should be quoted: project = 'PROJ' instead of project = PROJ")
		}
		if strings.Contains(jql, "  ") {
			s = append(s, "Remove double spaces in JQL")
		}
		return append(s, "Try a simpler query like: project = PROJ")
	case http.StatusUnauthorized:
		return []string{
			"Check your authentication credentials",
			"Ensure your API token is valid and has proper permissions",
		}
	case http.StatusForbidden:
		return []string{
			"You don't have permission to search in this project",
			"Check if the project exists and you have browse permissions",
		}
	case http.StatusTooManyRequests:
		return []string{
			"Rate limit exceeded. Try again in a few seconds",
			"Consider using a more specific query to reduce results",
		}
	case http.StatusInternalServerError:
		return []string{
			"Jira server error. Try again later",
			"Consider using a simpler query",
		}
	default:
		return []string{
			"Check your JQL syntax and permissions",
			"Try verifying project keys and field names",
		}
	}
}

// CreateSuggestions returns hints for a failed issue creation.
func CreateSuggestions(projectKey, issueType string, status int) []string {
	switch status {
	case http.StatusBadRequest:
		s := []string{"Check if all required fields are provided"}
		if projectKey != "" {
			s = append(s, fmt.Sprintf("Verify project key '%s' exists", projectKey))
		}
		if issueType != "" {
			s = append(s, fmt.Sprintf("Verify issue type '%s' exists in project", issueType))
		}
		return append(s, "Check field values match expected formats")
	case http.StatusForbidden:
		return []string{
			"You don't have permission to create issues in this project",
			"Ensure you have the 'Create Issues' permission",
		}
	case http.StatusNotFound:
		return []string{
			"Project or issue type not found",
			"Verify the project key and issue type are correct",
		}
	default:
		return []string{
			"Check your input and permissions",
			"Try with minimal required fields first",
		}
	}
}

// UpdateSuggestions returns hints for a failed issue update.
func UpdateSuggestions(key string, status int) []string {
	switch status {
	case http.StatusBadRequest:
		return []string{
			"Check field values and formats",
			"Verify the issue is not in a locked status",
		}
	case http.StatusForbidden:
		return []string{
			"You don't have permission to edit this issue",
			"Ensure you have the 'Edit Issues' permission",
			"Check if the issue is in a transition that allows editing",
		}
	case http.StatusNotFound:
		return []string{
			fmt.Sprintf("Issue '%s' not found", key),
			"Verify the issue key is correct",
		}
	default:
		return []string{
			"Check your field values and permissions",
			"Ensure the issue is not in a read-only state",
		}
	}
}

// toolError describes a failed tool call.
type toolError struct {
	// Title prefixes Jira API errors, e.g. "Jira API Error".
	Title string
	// Action completes "Failed to ..." for other errors.
	Action      string
	Suggestions func(status int) []string
	Details     map[string]any
}

// result converts err into a tool result flagged as an error. Jira API
// errors keep their status and response body in the structured content.
func (te toolError) result(err error) *mcp.CallToolResult {
	var apiErr *jira.APIError
	if !errors.As(err, &apiErr) {
		return errorResult(fmt.Sprintf("Failed to %s: %v", te.Action, err), nil)
	}

	title := te.Title
	if title == "" {
		title = "Jira API Error"
	}
	msg := fmt.Sprintf("%s (%d): %s", title, apiErr.StatusCode, apiErr.Message())

	data := map[string]any{
		"status_code":   apiErr.StatusCode,
		"jira_response": apiErr.Response(),
	}
	for k, v := range te.Details {
		data[k] = v
	}
	if te.Suggestions != nil {
		suggestions := te.Suggestions(apiErr.StatusCode)
		data["suggestions"] = suggestions
		msg = FormatSuggestions(msg, suggestions)
	}
	return errorResult(msg, data)
}

// FormatSuggestions appends a bulleted suggestion list to msg.
func FormatSuggestions(msg string, suggestions []string) string {
	if len(suggestions) == 0 {
		return msg
	}
	var b strings.Builder
	b.WriteString(msg)
	b.WriteString("\n\nSuggestions:")
	for _, s := range suggestions {
		b.WriteString("\n  - ")
		b.WriteString(s)
	}
	return b.String()
}

func errorResult(msg string, data map[string]any) *mcp.CallToolResult {
	res := &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
		IsError: true,
	}
	if data != nil {
		res.StructuredContent = data
	}
	return res
}

// jsonResult returns v as both structured content and JSON text.
func jsonResult(v any) (*mcp.CallToolResult, any, error) {
	text, err := json.Marshal(v)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return &mcp.CallToolResult{
		Content:           []mcp.Content{&mcp.TextContent{Text: string(text)}},
		StructuredContent: v,
	}, nil, nil
}
