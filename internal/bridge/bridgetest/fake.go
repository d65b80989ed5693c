// Package bridgetest provides an in-memory bridge.API for tests.
package bridgetest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/h0rv/jira-mcp/internal/domain"
	"github.com/h0rv/jira-mcp/internal/jira"
)

// ErrNotConfigured is returned for documents the fake was not given.
var ErrNotConfigured = errors.New("bridgetest: not configured")

// Call records one method invocation.
type Call struct {
	Method string
	Args   []any
}

// API serves fixed documents and records every call. Set Errors[method] to
// make that method fail.
type API struct {
	mu sync.Mutex

	Issues      map[string]domain.Document
	EditMeta    map[string]domain.Document
	CreateMeta  domain.Document
	BoardConfig map[int64]domain.Document
	Filters     map[int64]domain.Document
	Search      []domain.Issue
	BoardHits   []domain.Issue
	Projects    []domain.Project
	Boards      []domain.Board
	Sprints     []domain.Sprint
	Comments    []domain.Comment
	IssueTypes  []domain.IssueType
	Transitions []domain.Transition
	Watchers    []domain.User
	Users       []domain.User
	Me          domain.User
	Site        jira.SiteInfo
	CreatedKey  string

	Errors map[string]error
	Calls  []Call
}

// New returns an empty fake.
func New() *API {
	return &API{
		Issues:      make(map[string]domain.Document),
		EditMeta:    make(map[string]domain.Document),
		BoardConfig: make(map[int64]domain.Document),
		Filters:     make(map[int64]domain.Document),
		Errors:      make(map[string]error),
	}
}

func (a *API) record(method string, args ...any) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Calls = append(a.Calls, Call{Method: method, Args: args})
	return a.Errors[method]
}

// CallsTo returns the recorded calls to method, in order.
func (a *API) CallsTo(method string) []Call {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []Call
	for _, c := range a.Calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func lookup[K comparable](m map[K]domain.Document, k K) (domain.Document, error) {
	doc, ok := m[k]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrNotConfigured, k)
	}
	return doc, nil
}

func page[T any](items []T, cursor domain.PageCursor) domain.Page[T] {
	p := domain.Page[T]{Total: len(items), HasTotal: true}
	if cursor.Offset >= len(items) {
		return p
	}
	end := min(cursor.Offset+cursor.PageSize, len(items))
	p.Items = items[cursor.Offset:end]
	return p
}

func (a *API) GetRawIssue(_ context.Context, key string) (domain.Document, error) {
	if err := a.record("GetRawIssue", key); err != nil {
		return nil, err
	}
	return lookup(a.Issues, key)
}

func (a *API) GetEditMeta(_ context.Context, key string) (domain.Document, error) {
	if err := a.record("GetEditMeta", key); err != nil {
		return nil, err
	}
	return lookup(a.EditMeta, key)
}

func (a *API) GetCreateMeta(_ context.Context, projectKey, issueType string) (domain.Document, error) {
	if err := a.record("GetCreateMeta", projectKey, issueType); err != nil {
		return nil, err
	}
	if a.CreateMeta == nil {
		return nil, ErrNotConfigured
	}
	return a.CreateMeta, nil
}

func (a *API) GetBoardConfiguration(_ context.Context, boardID int64) (domain.Document, error) {
	if err := a.record("GetBoardConfiguration", boardID); err != nil {
		return nil, err
	}
	return lookup(a.BoardConfig, boardID)
}

func (a *API) GetFilter(_ context.Context, filterID int64) (domain.Document, error) {
	if err := a.record("GetFilter", filterID); err != nil {
		return nil, err
	}
	return lookup(a.Filters, filterID)
}

func (a *API) SearchIssues(_ context.Context, jql string, fields []string, cursor domain.PageCursor) (domain.Page[domain.Issue], error) {
	if err := a.record("SearchIssues", jql, fields, cursor); err != nil {
		return domain.Page[domain.Issue]{}, err
	}
	return page(a.Search, cursor), nil
}

func (a *API) BoardIssues(_ context.Context, boardID int64, cursor domain.PageCursor) (domain.Page[domain.Issue], error) {
	if err := a.record("BoardIssues", boardID, cursor); err != nil {
		return domain.Page[domain.Issue]{}, err
	}
	return page(a.BoardHits, cursor), nil
}

func (a *API) ListProjects(_ context.Context, cursor domain.PageCursor) (domain.Page[domain.Project], error) {
	if err := a.record("ListProjects", cursor); err != nil {
		return domain.Page[domain.Project]{}, err
	}
	return page(a.Projects, cursor), nil
}

func (a *API) ListBoards(_ context.Context, projectKey string, cursor domain.PageCursor) (domain.Page[domain.Board], error) {
	if err := a.record("ListBoards", projectKey, cursor); err != nil {
		return domain.Page[domain.Board]{}, err
	}
	return page(a.Boards, cursor), nil
}

func (a *API) ListSprints(_ context.Context, boardID int64, state string, cursor domain.PageCursor) (domain.Page[domain.Sprint], error) {
	if err := a.record("ListSprints", boardID, state, cursor); err != nil {
		return domain.Page[domain.Sprint]{}, err
	}
	return page(a.Sprints, cursor), nil
}

func (a *API) ListComments(_ context.Context, key, orderBy string, cursor domain.PageCursor) (domain.Page[domain.Comment], error) {
	if err := a.record("ListComments", key, orderBy, cursor); err != nil {
		return domain.Page[domain.Comment]{}, err
	}
	return page(a.Comments, cursor), nil
}

func (a *API) ListIssueTypes(_ context.Context, projectKey string) ([]domain.IssueType, error) {
	if err := a.record("ListIssueTypes", projectKey); err != nil {
		return nil, err
	}
	return a.IssueTypes, nil
}

func (a *API) GetTransitions(_ context.Context, key string) ([]domain.Transition, error) {
	if err := a.record("GetTransitions", key); err != nil {
		return nil, err
	}
	return a.Transitions, nil
}

func (a *API) GetWatchers(_ context.Context, key string) ([]domain.User, error) {
	if err := a.record("GetWatchers", key); err != nil {
		return nil, err
	}
	return a.Watchers, nil
}

func (a *API) SearchUsers(_ context.Context, query string, maxResults int) ([]domain.User, error) {
	if err := a.record("SearchUsers", query, maxResults); err != nil {
		return nil, err
	}
	return a.Users, nil
}

func (a *API) Myself(_ context.Context) (domain.User, error) {
	if err := a.record("Myself"); err != nil {
		return domain.User{}, err
	}
	return a.Me, nil
}

func (a *API) SiteInfo(_ context.Context) (jira.SiteInfo, error) {
	if err := a.record("SiteInfo"); err != nil {
		return jira.SiteInfo{}, err
	}
	return a.Site, nil
}

func (a *API) CreateIssue(_ context.Context, fields map[string]any) (jira.CreatedIssue, error) {
	if err := a.record("CreateIssue", fields); err != nil {
		return jira.CreatedIssue{}, err
	}
	return jira.CreatedIssue{ID: "10001", Key: a.CreatedKey}, nil
}

func (a *API) UpdateIssue(_ context.Context, key string, fields map[string]any) error {
	return a.record("UpdateIssue", key, fields)
}

func (a *API) UpdateLabels(_ context.Context, key string, add, remove []string) error {
	return a.record("UpdateLabels", key, add, remove)
}

func (a *API) TransitionIssue(_ context.Context, key, transitionID string, fields map[string]any, comment string) error {
	return a.record("TransitionIssue", key, transitionID, fields, comment)
}

func (a *API) AddComment(_ context.Context, key, text string, visibility *domain.CommentVisibility) (domain.Comment, error) {
	if err := a.record("AddComment", key, text, visibility); err != nil {
		return domain.Comment{}, err
	}
	return domain.Comment{ID: "20001", Author: a.Me.DisplayName, Body: text}, nil
}

func (a *API) DeleteComment(_ context.Context, key, commentID string) error {
	return a.record("DeleteComment", key, commentID)
}

func (a *API) AssignIssue(_ context.Context, key, accountID string) error {
	return a.record("AssignIssue", key, accountID)
}

func (a *API) AddWatcher(_ context.Context, key, accountID string) error {
	return a.record("AddWatcher", key, accountID)
}

func (a *API) RemoveWatcher(_ context.Context, key, accountID string) error {
	return a.record("RemoveWatcher", key, accountID)
}

func (a *API) LinkIssues(_ context.Context, inwardKey, outwardKey, linkType string) error {
	return a.record("LinkIssues", inwardKey, outwardKey, linkType)
}
