package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/h0rv/jira-mcp/internal/adf"
	"github.com/h0rv/jira-mcp/internal/domain"
	"github.com/tidwall/gjson"
)

// GetRawIssue fetches one issue with every field plus the schema and names expansions.
func (c *Client) GetRawIssue(ctx context.Context, key string) (domain.Document, error) {
	c.logger.Info("get issue", "key", key)
	q := url.Values{}
	q.Set("fields", "*all")
	q.Set("expand", "schema,names")
	return c.get(ctx, "/rest/api/3/issue/"+url.PathEscape(key), q)
}

// GetEditMeta fetches the edit metadata of one issue.
func (c *Client) GetEditMeta(ctx context.Context, key string) (domain.Document, error) {
	c.logger.Info("get editmeta", "key", key)
	return c.get(ctx, "/rest/api/3/issue/"+url.PathEscape(key)+"/editmeta", nil)
}

// GetCreateMeta fetches creation metadata with field definitions expanded.
// Empty projectKey or issueType leaves that level unrestricted.
func (c *Client) GetCreateMeta(ctx context.Context, projectKey, issueType string) (domain.Document, error) {
	c.logger.Info("get createmeta", "project", projectKey, "issue_type", issueType)
	q := url.Values{}
	q.Set("expand", "projects.issuetypes.fields")
	if projectKey != "" {
		q.Set("projectKeys", projectKey)
	}
	if issueType != "" {
		q.Set("issuetypeNames", issueType)
	}
	return c.get(ctx, "/rest/api/3/issue/createmeta", q)
}

// GetBoardConfiguration fetches an agile board's configuration.
func (c *Client) GetBoardConfiguration(ctx context.Context, boardID int64) (domain.Document, error) {
	c.logger.Info("get board configuration", "board_id", boardID)
	return c.get(ctx, fmt.Sprintf("/rest/agile/1.0/board/%d/configuration", boardID), nil)
}

// GetFilter fetches a saved filter.
func (c *Client) GetFilter(ctx context.Context, filterID int64) (domain.Document, error) {
	c.logger.Info("get filter", "filter_id", filterID)
	return c.get(ctx, fmt.Sprintf("/rest/api/3/filter/%d", filterID), nil)
}

// ServerInfo fetches the site's server information.
func (c *Client) ServerInfo(ctx context.Context) (domain.Document, error) {
	return c.get(ctx, "/rest/api/3/serverInfo", nil)
}

// SearchIssues runs one page of a JQL search. Empty fields requests every field.
func (c *Client) SearchIssues(ctx context.Context, jql string, fields []string, cursor domain.PageCursor) (domain.Page[domain.Issue], error) {
	c.logger.Info("search issues", "jql", jql, "offset", cursor.Offset, "page_size", cursor.PageSize)
	q := pageQuery(cursor)
	q.Set("jql", jql)
	q.Set("fields", fieldList(fields))

	doc, err := c.get(ctx, "/rest/api/3/search/jql", q)
	if err != nil {
		return domain.Page[domain.Issue]{}, fmt.Errorf("failed to search issues: %w", err)
	}
	return decodeIssuePage(doc)
}

// BoardIssues lists one page of the issues on an agile board.
func (c *Client) BoardIssues(ctx context.Context, boardID int64, cursor domain.PageCursor) (domain.Page[domain.Issue], error) {
	c.logger.Info("board issues", "board_id", boardID, "offset", cursor.Offset)
	q := pageQuery(cursor)
	q.Set("fields", "*all")

	doc, err := c.get(ctx, fmt.Sprintf("/rest/agile/1.0/board/%d/issue", boardID), q)
	if err != nil {
		return domain.Page[domain.Issue]{}, fmt.Errorf("failed to list board issues: %w", err)
	}
	return decodeIssuePage(doc)
}

// ListProjects lists one page of the projects visible to the caller.
func (c *Client) ListProjects(ctx context.Context, cursor domain.PageCursor) (domain.Page[domain.Project], error) {
	q := pageQuery(cursor)
	q.Set("expand", "description,lead,projectCategory")

	var resp struct {
		Values []struct {
			ID             string `json:"id"`
			Key            string `json:"key"`
			Name           string `json:"name"`
			ProjectTypeKey string `json:"projectTypeKey"`
			Simplified     bool   `json:"simplified"`
			Style          string `json:"style"`
			Description    string `json:"description"`
			Lead           *struct {
				DisplayName string `json:"displayName"`
			} `json:"lead"`
			ProjectCategory *struct {
				Name string `json:"name"`
			} `json:"projectCategory"`
		} `json:"values"`
		Total *int `json:"total"`
	}
	if err := c.getInto(ctx, "/rest/api/3/project/search", q, &resp); err != nil {
		return domain.Page[domain.Project]{}, fmt.Errorf("failed to list projects: %w", err)
	}

	page := domain.Page[domain.Project]{Items: make([]domain.Project, 0, len(resp.Values))}
	for _, v := range resp.Values {
		p := domain.Project{
			ID:          v.ID,
			Key:         v.Key,
			Name:        v.Name,
			TypeKey:     v.ProjectTypeKey,
			Simplified:  v.Simplified,
			Style:       v.Style,
			Description: v.Description,
		}
		if v.Lead != nil {
			p.Lead = v.Lead.DisplayName
		}
		if v.ProjectCategory != nil {
			p.Category = v.ProjectCategory.Name
		}
		page.Items = append(page.Items, p)
	}
	setTotal(&page, resp.Total)
	return page, nil
}

// ListBoards lists one page of the agile boards of a project.
func (c *Client) ListBoards(ctx context.Context, projectKey string, cursor domain.PageCursor) (domain.Page[domain.Board], error) {
	q := pageQuery(cursor)
	if projectKey != "" {
		q.Set("projectKeyOrId", projectKey)
	}

	var resp struct {
		Values []struct {
			ID       int64  `json:"id"`
			Name     string `json:"name"`
			Type     string `json:"type"`
			Location *struct {
				ProjectKey  string `json:"projectKey"`
				ProjectName string `json:"projectName"`
			} `json:"location"`
		} `json:"values"`
		Total *int `json:"total"`
	}
	if err := c.getInto(ctx, "/rest/agile/1.0/board", q, &resp); err != nil {
		return domain.Page[domain.Board]{}, fmt.Errorf("failed to list boards: %w", err)
	}

	page := domain.Page[domain.Board]{Items: make([]domain.Board, 0, len(resp.Values))}
	for _, v := range resp.Values {
		b := domain.Board{ID: v.ID, Name: v.Name, Type: v.Type}
		if v.Location != nil {
			b.ProjectKey = v.Location.ProjectKey
			b.ProjectName = v.Location.ProjectName
		}
		page.Items = append(page.Items, b)
	}
	setTotal(&page, resp.Total)
	return page, nil
}

// ListSprints lists one page of a board's sprints. state filters by
// comma-separated states ("future,active,closed"); empty means all.
func (c *Client) ListSprints(ctx context.Context, boardID int64, state string, cursor domain.PageCursor) (domain.Page[domain.Sprint], error) {
	q := pageQuery(cursor)
	if state != "" {
		q.Set("state", state)
	}

	var resp struct {
		Values []struct {
			ID        int64  `json:"id"`
			Name      string `json:"name"`
			State     string `json:"state"`
			StartDate string `json:"startDate"`
			EndDate   string `json:"endDate"`
			Goal      string `json:"goal"`
		} `json:"values"`
		IsLast bool `json:"isLast"`
	}
	if err := c.getInto(ctx, fmt.Sprintf("/rest/agile/1.0/board/%d/sprint", boardID), q, &resp); err != nil {
		return domain.Page[domain.Sprint]{}, fmt.Errorf("failed to list sprints: %w", err)
	}

	page := domain.Page[domain.Sprint]{Items: make([]domain.Sprint, 0, len(resp.Values))}
	for _, v := range resp.Values {
		page.Items = append(page.Items, domain.Sprint{
			ID:        v.ID,
			Name:      v.Name,
			State:     v.State,
			StartDate: v.StartDate,
			EndDate:   v.EndDate,
			Goal:      v.Goal,
		})
	}
	if resp.IsLast {
		page.HasTotal = true
		page.Total = cursor.Offset + len(page.Items)
	}
	return page, nil
}

// ListComments lists one page of an issue's comments with bodies flattened
// to plain text. orderBy defaults to newest first.
func (c *Client) ListComments(ctx context.Context, key, orderBy string, cursor domain.PageCursor) (domain.Page[domain.Comment], error) {
	if orderBy == "" {
		orderBy = "-created"
	}
	q := pageQuery(cursor)
	q.Set("orderBy", orderBy)

	var resp struct {
		Comments []struct {
			ID     string `json:"id"`
			Author *struct {
				DisplayName string `json:"displayName"`
			} `json:"author"`
			Body    any    `json:"body"`
			Created string `json:"created"`
			Updated string `json:"updated"`
		} `json:"comments"`
		Total *int `json:"total"`
	}
	if err := c.getInto(ctx, "/rest/api/3/issue/"+url.PathEscape(key)+"/comment", q, &resp); err != nil {
		return domain.Page[domain.Comment]{}, fmt.Errorf("failed to get comments for %s: %w", key, err)
	}

	page := domain.Page[domain.Comment]{Items: make([]domain.Comment, 0, len(resp.Comments))}
	for _, v := range resp.Comments {
		cm := domain.Comment{ID: v.ID, Created: v.Created, Updated: v.Updated}
		if v.Author != nil {
			cm.Author = v.Author.DisplayName
		}
		switch body := v.Body.(type) {
		case string:
			cm.Body = body
		default:
			text, err := adf.ToText(body, 0)
			if err != nil {
				c.logger.Warn("comment body not flattened", "key", key, "comment_id", v.ID, "error", err)
			}
			cm.Body = text
		}
		page.Items = append(page.Items, cm)
	}
	setTotal(&page, resp.Total)
	return page, nil
}

// ListIssueTypes lists issue types for a project, or every issue type on the
// site when projectKey is empty.
func (c *Client) ListIssueTypes(ctx context.Context, projectKey string) ([]domain.IssueType, error) {
	if projectKey != "" {
		meta, err := c.GetCreateMeta(ctx, projectKey, "")
		if err != nil {
			return nil, fmt.Errorf("failed to list issue types for %s: %w", projectKey, err)
		}
		var types []domain.IssueType
		gjson.GetBytes(meta, "projects").ForEach(func(_, p gjson.Result) bool {
			if p.Get("key").String() != projectKey {
				return true
			}
			p.Get("issuetypes").ForEach(func(_, it gjson.Result) bool {
				types = append(types, issueTypeFrom(it))
				return true
			})
			return true
		})
		return types, nil
	}

	doc, err := c.get(ctx, "/rest/api/3/issuetype", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list issue types: %w", err)
	}
	var types []domain.IssueType
	gjson.ParseBytes(doc).ForEach(func(_, it gjson.Result) bool {
		types = append(types, issueTypeFrom(it))
		return true
	})
	return types, nil
}

func issueTypeFrom(it gjson.Result) domain.IssueType {
	return domain.IssueType{
		ID:          it.Get("id").String(),
		Name:        it.Get("name").String(),
		Description: it.Get("description").String(),
		Subtask:     it.Get("subtask").Bool(),
	}
}

// GetTransitions lists the workflow transitions currently available on an issue.
func (c *Client) GetTransitions(ctx context.Context, key string) ([]domain.Transition, error) {
	var resp struct {
		Transitions []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
			To   struct {
				Name           string `json:"name"`
				StatusCategory struct {
					Name string `json:"name"`
				} `json:"statusCategory"`
			} `json:"to"`
		} `json:"transitions"`
	}
	if err := c.getInto(ctx, "/rest/api/3/issue/"+url.PathEscape(key)+"/transitions", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get transitions for %s: %w", key, err)
	}

	out := make([]domain.Transition, 0, len(resp.Transitions))
	for _, t := range resp.Transitions {
		out = append(out, domain.Transition{
			ID:       t.ID,
			Name:     t.Name,
			To:       t.To.Name,
			Category: t.To.StatusCategory.Name,
		})
	}
	return out, nil
}

// GetWatchers lists the users watching an issue.
func (c *Client) GetWatchers(ctx context.Context, key string) ([]domain.User, error) {
	var resp struct {
		Watchers []userJSON `json:"watchers"`
	}
	if err := c.getInto(ctx, "/rest/api/3/issue/"+url.PathEscape(key)+"/watchers", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get watchers for %s: %w", key, err)
	}
	return usersFrom(resp.Watchers), nil
}

// SearchUsers finds users by name or email. maxResults <= 0 uses 50.
func (c *Client) SearchUsers(ctx context.Context, query string, maxResults int) ([]domain.User, error) {
	if maxResults <= 0 {
		maxResults = 50
	}
	q := url.Values{}
	q.Set("query", query)
	q.Set("maxResults", strconv.Itoa(maxResults))

	var resp []userJSON
	if err := c.getInto(ctx, "/rest/api/3/user/search", q, &resp); err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return usersFrom(resp), nil
}

// Myself returns the authenticated user.
func (c *Client) Myself(ctx context.Context) (domain.User, error) {
	var resp userJSON
	if err := c.getInto(ctx, "/rest/api/3/myself", nil, &resp); err != nil {
		return domain.User{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return resp.toDomain(), nil
}

type userJSON struct {
	AccountID    string `json:"accountId"`
	AccountType  string `json:"accountType"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
	TimeZone     string `json:"timeZone"`
	Active       bool   `json:"active"`
}

func (u userJSON) toDomain() domain.User {
	return domain.User{
		AccountID:    u.AccountID,
		AccountType:  u.AccountType,
		DisplayName:  u.DisplayName,
		EmailAddress: u.EmailAddress,
		TimeZone:     u.TimeZone,
		Active:       u.Active,
	}
}

func usersFrom(in []userJSON) []domain.User {
	out := make([]domain.User, 0, len(in))
	for _, u := range in {
		if u.AccountID == "" {
			continue
		}
		out = append(out, u.toDomain())
	}
	return out
}

func pageQuery(cursor domain.PageCursor) url.Values {
	q := url.Values{}
	q.Set("startAt", strconv.Itoa(cursor.Offset))
	if cursor.PageSize > 0 {
		q.Set("maxResults", strconv.Itoa(cursor.PageSize))
	}
	return q
}

func fieldList(fields []string) string {
	if len(fields) == 0 {
		return "*all"
	}
	return strings.Join(fields, ",")
}

func setTotal[T any](page *domain.Page[T], total *int) {
	if total != nil {
		page.Total = *total
		page.HasTotal = true
	}
}

// decodeIssuePage reads {"issues": [{key, fields}], "total"?} documents.
func decodeIssuePage(doc domain.Document) (domain.Page[domain.Issue], error) {
	var resp struct {
		Issues []domain.Issue `json:"issues"`
		Total  *int           `json:"total"`
	}
	if err := json.Unmarshal(doc, &resp); err != nil {
		return domain.Page[domain.Issue]{}, fmt.Errorf("failed to decode issue page: %w", err)
	}
	page := domain.Page[domain.Issue]{Items: resp.Issues}
	for i := range page.Items {
		if page.Items[i].Fields == nil {
			page.Items[i].Fields = map[string]any{}
		}
	}
	setTotal(&page, resp.Total)
	return page, nil
}
