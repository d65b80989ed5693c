// Package board selects the field ids relevant to an agile board's view of
// an issue. It merges fields sampled from the board's issues with the
// issue's edit and creation metadata, the board's estimation field and a
// fixed core set, then keeps only the fields the issue actually has.
package board

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/h0rv/jira-mcp/internal/domain"
	"github.com/h0rv/jira-mcp/internal/fields"
	"github.com/h0rv/jira-mcp/internal/paging"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"
)

// DefaultSampleSize is the number of board issues inspected per selection.
const DefaultSampleSize = 100

// Source is the part of the Jira API the selector reads.
type Source interface {
	GetBoardConfiguration(ctx context.Context, boardID int64) (domain.Document, error)
	GetFilter(ctx context.Context, filterID int64) (domain.Document, error)
	SearchIssues(ctx context.Context, jql string, fields []string, cursor domain.PageCursor) (domain.Page[domain.Issue], error)
	BoardIssues(ctx context.Context, boardID int64, cursor domain.PageCursor) (domain.Page[domain.Issue], error)
	GetEditMeta(ctx context.Context, key string) (domain.Document, error)
	GetCreateMeta(ctx context.Context, projectKey, issueType string) (domain.Document, error)
}

// Request identifies the board and issue to select fields for.
type Request struct {
	BoardID    int64
	IssueKey   string
	ProjectKey string
	IssueType  string
	// Present holds the field ids of the issue; the result never exceeds it.
	Present map[string]bool
	// EditMeta and CreateMeta, when non-nil, are used instead of fetching.
	EditMeta   domain.Document
	CreateMeta domain.Document
}

// Selection is the outcome of one selection.
type Selection struct {
	Keys          map[string]bool
	Contributions []Contribution
}

// Selector computes board field key sets.
type Selector struct {
	Source      Source
	SampleSize  int
	MaxPageSize int
	Logger      *slog.Logger
}

// Select computes the field ids relevant to req.BoardID for req.IssueKey.
//
// The board configuration and edit metadata are required; their failure is
// returned as a *domain.FetchError. Creation metadata and sampling failures
// only shrink the result.
func (s *Selector) Select(ctx context.Context, req Request) (*Selection, error) {
	logger := s.logger().With("board_id", req.BoardID, "key", req.IssueKey)

	var (
		config   domain.Document
		sampled  Contribution
		editMeta = req.EditMeta
		create   = Contribution{Kind: ContributionCreateMeta}
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		doc, err := s.Source.GetBoardConfiguration(gctx, req.BoardID)
		if err != nil {
			return &domain.FetchError{Op: "get board configuration", Subject: fmt.Sprintf("board %d", req.BoardID), Err: err}
		}
		config = doc
		sampled = s.sample(gctx, logger, req.BoardID, doc)
		return nil
	})

	if editMeta == nil {
		g.Go(func() error {
			doc, err := s.Source.GetEditMeta(gctx, req.IssueKey)
			if err != nil {
				return &domain.FetchError{Op: "get edit metadata", Subject: req.IssueKey, Err: err}
			}
			editMeta = doc
			return nil
		})
	}

	if req.CreateMeta == nil {
		g.Go(func() error {
			doc, err := s.Source.GetCreateMeta(gctx, req.ProjectKey, req.IssueType)
			if err != nil {
				logger.Warn("creation metadata unavailable", "error", err)
				create.Err = err
				return nil
			}
			create.Keys = fields.CreateMetaKeys(doc)
			return nil
		})
	} else {
		create.Keys = fields.CreateMetaKeys(req.CreateMeta)
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	contributions := []Contribution{
		sampled,
		{Kind: ContributionEditMeta, Keys: fields.EditMetaKeys(editMeta)},
		create,
		estimation(config),
		CoreContribution(),
	}

	keys := Intersect(Compose(contributions...), req.Present)
	logger.Debug("board fields selected", "count", len(keys), "sampled_fields", len(sampled.Keys))
	return &Selection{Keys: keys, Contributions: contributions}, nil
}

// estimation reads estimation.field.fieldId from a board configuration.
func estimation(config domain.Document) Contribution {
	c := Contribution{Kind: ContributionEstimation}
	if id := gjson.GetBytes(config, "estimation.field.fieldId").String(); id != "" {
		c.Keys = []string{id}
	}
	return c
}

// sample tallies fields across up to SampleSize issues, preferring the
// board's filter query and falling back to the board's own issue listing.
func (s *Selector) sample(ctx context.Context, logger *slog.Logger, boardID int64, config domain.Document) Contribution {
	tally := NewTally()
	limit := s.SampleSize
	if limit <= 0 {
		limit = DefaultSampleSize
	}

	if filterID := gjson.GetBytes(config, "filter.id").Int(); filterID > 0 {
		issues, err := s.sampleFilter(ctx, filterID, limit)
		if err != nil {
			logger.Warn("filter sample failed", "filter_id", filterID, "error", err)
		}
		for _, issue := range issues {
			tally.Observe(issue)
		}
	}

	if tally.Samples() == 0 {
		fetch := func(ctx context.Context, cursor domain.PageCursor) (domain.Page[domain.Issue], error) {
			return s.Source.BoardIssues(ctx, boardID, cursor)
		}
		issues, err := paging.Collect(ctx, fetch, limit, s.MaxPageSize)
		if err != nil {
			logger.Warn("board sample failed", "error", err)
			return Contribution{Kind: ContributionSampled, Err: err}
		}
		for _, issue := range issues {
			tally.Observe(issue)
		}
	}

	return Contribution{Kind: ContributionSampled, Keys: tally.Keys()}
}

func (s *Selector) sampleFilter(ctx context.Context, filterID int64, limit int) ([]domain.Issue, error) {
	filter, err := s.Source.GetFilter(ctx, filterID)
	if err != nil {
		return nil, err
	}
	jql := gjson.GetBytes(filter, "jql").String()
	if jql == "" {
		return nil, nil
	}
	fetch := func(ctx context.Context, cursor domain.PageCursor) (domain.Page[domain.Issue], error) {
		return s.Source.SearchIssues(ctx, jql, nil, cursor)
	}
	return paging.Collect(ctx, fetch, limit, s.MaxPageSize)
}

func (s *Selector) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
