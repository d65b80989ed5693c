// Package bridge implements the operations behind each tool: building issue
// views, selecting board fields, coercing client input and paging through
// listings. Every operation takes an explicit *Context; there is no global
// client or configuration.
package bridge

import (
	"context"
	"log/slog"

	"github.com/h0rv/jira-mcp/internal/board"
	"github.com/h0rv/jira-mcp/internal/domain"
	"github.com/h0rv/jira-mcp/internal/issueview"
	"github.com/h0rv/jira-mcp/internal/jira"
)

// FetchError marks a failed fetch the operation could not proceed without.
type FetchError = domain.FetchError

// API is the Jira surface the bridge uses. *jira.Client implements it.
type API interface {
	board.Source

	GetRawIssue(ctx context.Context, key string) (domain.Document, error)
	ListProjects(ctx context.Context, cursor domain.PageCursor) (domain.Page[domain.Project], error)
	ListBoards(ctx context.Context, projectKey string, cursor domain.PageCursor) (domain.Page[domain.Board], error)
	ListSprints(ctx context.Context, boardID int64, state string, cursor domain.PageCursor) (domain.Page[domain.Sprint], error)
	ListComments(ctx context.Context, key, orderBy string, cursor domain.PageCursor) (domain.Page[domain.Comment], error)
	ListIssueTypes(ctx context.Context, projectKey string) ([]domain.IssueType, error)
	GetTransitions(ctx context.Context, key string) ([]domain.Transition, error)
	GetWatchers(ctx context.Context, key string) ([]domain.User, error)
	SearchUsers(ctx context.Context, query string, maxResults int) ([]domain.User, error)
	Myself(ctx context.Context) (domain.User, error)
	SiteInfo(ctx context.Context) (jira.SiteInfo, error)

	CreateIssue(ctx context.Context, fields map[string]any) (jira.CreatedIssue, error)
	UpdateIssue(ctx context.Context, key string, fields map[string]any) error
	UpdateLabels(ctx context.Context, key string, add, remove []string) error
	TransitionIssue(ctx context.Context, key, transitionID string, fields map[string]any, comment string) error
	AddComment(ctx context.Context, key, text string, visibility *domain.CommentVisibility) (domain.Comment, error)
	DeleteComment(ctx context.Context, key, commentID string) error
	AssignIssue(ctx context.Context, key, accountID string) error
	AddWatcher(ctx context.Context, key, accountID string) error
	RemoveWatcher(ctx context.Context, key, accountID string) error
	LinkIssues(ctx context.Context, inwardKey, outwardKey, linkType string) error
}

var _ API = (*jira.Client)(nil)

// Options tune the core operations. Zero values select the defaults.
type Options struct {
	MaxPageSize      int
	SampleSize       int
	Flagged          issueview.FlagDetector
	MaxDocumentDepth int
}

// Context is the per-call value every operation receives.
type Context struct {
	API     API
	Logger  *slog.Logger
	BaseURL string
	Options Options
}

// WithLogger returns a copy of c logging through logger.
func (c *Context) WithLogger(logger *slog.Logger) *Context {
	out := *c
	out.Logger = logger
	return &out
}

func (c *Context) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c *Context) builder() *issueview.Builder {
	return &issueview.Builder{
		Flagged:  c.Options.Flagged,
		MaxDepth: c.Options.MaxDocumentDepth,
		Logger:   c.logger(),
	}
}

func (c *Context) selector() *board.Selector {
	return &board.Selector{
		Source:      c.API,
		SampleSize:  c.Options.SampleSize,
		MaxPageSize: c.Options.MaxPageSize,
		Logger:      c.logger(),
	}
}
