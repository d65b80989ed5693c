package board

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/h0rv/jira-mcp/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource is an in-memory Source. Documents left nil produce errors.
type fakeSource struct {
	mu sync.Mutex

	config     domain.Document
	filter     domain.Document
	editMeta   domain.Document
	createMeta domain.Document
	search     []domain.Issue
	board      []domain.Issue

	searchErr error
	boardErr  error

	calls []string
}

var errUnavailable = errors.New("unavailable")

func (f *fakeSource) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeSource) called(call string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == call {
			return true
		}
	}
	return false
}

func (f *fakeSource) GetBoardConfiguration(_ context.Context, _ int64) (domain.Document, error) {
	f.record("config")
	if f.config == nil {
		return nil, errUnavailable
	}
	return f.config, nil
}

func (f *fakeSource) GetFilter(_ context.Context, _ int64) (domain.Document, error) {
	f.record("filter")
	if f.filter == nil {
		return nil, errUnavailable
	}
	return f.filter, nil
}

func (f *fakeSource) SearchIssues(_ context.Context, _ string, _ []string, c domain.PageCursor) (domain.Page[domain.Issue], error) {
	f.record("search")
	if f.searchErr != nil {
		return domain.Page[domain.Issue]{}, f.searchErr
	}
	return pageOf(f.search, c), nil
}

func (f *fakeSource) BoardIssues(_ context.Context, _ int64, c domain.PageCursor) (domain.Page[domain.Issue], error) {
	f.record("board")
	if f.boardErr != nil {
		return domain.Page[domain.Issue]{}, f.boardErr
	}
	return pageOf(f.board, c), nil
}

func (f *fakeSource) GetEditMeta(_ context.Context, _ string) (domain.Document, error) {
	f.record("editmeta")
	if f.editMeta == nil {
		return nil, errUnavailable
	}
	return f.editMeta, nil
}

func (f *fakeSource) GetCreateMeta(_ context.Context, _, _ string) (domain.Document, error) {
	f.record("createmeta")
	if f.createMeta == nil {
		return nil, errUnavailable
	}
	return f.createMeta, nil
}

func pageOf(issues []domain.Issue, c domain.PageCursor) domain.Page[domain.Issue] {
	if c.Offset >= len(issues) {
		return domain.Page[domain.Issue]{Total: len(issues), HasTotal: true}
	}
	end := min(c.Offset+c.PageSize, len(issues))
	return domain.Page[domain.Issue]{Items: issues[c.Offset:end], Total: len(issues), HasTotal: true}
}

// createTestSample returns two issues where only the first has customfield_1
// set and neither ever sets customfield_2.
func createTestSample() []domain.Issue {
	return []domain.Issue{
		{Key: "PROJ-1", Fields: map[string]any{"summary": "a", "customfield_1": 3.0, "customfield_2": nil}},
		{Key: "PROJ-2", Fields: map[string]any{"summary": "b", "customfield_1": nil, "customfield_2": nil}},
	}
}

func createTestSource() *fakeSource {
	return &fakeSource{
		config:     domain.Document(`{"id": 7, "filter": {"id": "10000"}, "estimation": {"type": "field", "field": {"fieldId": "customfield_10016"}}}`),
		filter:     domain.Document(`{"id": "10000", "jql": "project = PROJ ORDER BY Rank"}`),
		editMeta:   domain.Document(`{"fields": {"summary": {}, "duedate": {}}}`),
		createMeta: domain.Document(`{"projects": [{"issuetypes": [{"fields": {"environment": {}}}]}]}`),
		search:     createTestSample(),
	}
}

func presentSet(ids ...string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// allPresent covers every field the test fixtures can contribute.
func allPresent() map[string]bool {
	return presentSet(
		"summary", "issuetype", "project", "status", "assignee", "labels", "components", "parent", "priority",
		"customfield_1", "customfield_2", "customfield_10016", "duedate", "environment", "customfield_99",
	)
}

// TestSelect_SampledFieldsIncluded verifies only fields seen non-null in the sample contribute.
func TestSelect_SampledFieldsIncluded(t *testing.T) {
	src := createTestSource()
	s := &Selector{Source: src}

	sel, err := s.Select(context.Background(), Request{BoardID: 7, IssueKey: "PROJ-3", Present: allPresent()})

	require.NoError(t, err)
	assert.True(t, sel.Keys["customfield_1"], "seen non-null in one sampled issue")
	assert.False(t, sel.Keys["customfield_2"], "never seen non-null")
	assert.False(t, sel.Keys["customfield_99"], "no step contributes it")
	for _, core := range CoreFields {
		assert.True(t, sel.Keys[core], core)
	}
	assert.True(t, sel.Keys["customfield_10016"], "estimation field")
	assert.True(t, sel.Keys["duedate"], "edit metadata")
	assert.True(t, sel.Keys["environment"], "creation metadata")
	assert.True(t, src.called("search"))
	assert.False(t, src.called("board"))
}

func TestSelect_IntersectsWithPresentFields(t *testing.T) {
	s := &Selector{Source: createTestSource()}

	sel, err := s.Select(context.Background(), Request{
		BoardID:  7,
		IssueKey: "PROJ-3",
		Present:  presentSet("summary", "customfield_1", "customfield_2"),
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"customfield_1", "summary"}, Sorted(sel.Keys))
}

func TestSelect_FallsBackToBoardIssues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*fakeSource)
	}{
		{"no filter", func(f *fakeSource) { f.config = domain.Document(`{"id": 7}`) }},
		{"filter without jql", func(f *fakeSource) { f.filter = domain.Document(`{"id": "10000"}`) }},
		{"filter fetch fails", func(f *fakeSource) { f.filter = nil }},
		{"empty filter sample", func(f *fakeSource) { f.search = nil }},
		{"search fails", func(f *fakeSource) { f.searchErr = errUnavailable }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := createTestSource()
			src.board = []domain.Issue{{Key: "PROJ-5", Fields: map[string]any{"customfield_2": "set"}}}
			tt.mutate(src)

			sel, err := (&Selector{Source: src}).Select(context.Background(), Request{BoardID: 7, IssueKey: "PROJ-3", Present: allPresent()})

			require.NoError(t, err)
			assert.True(t, src.called("board"))
			assert.True(t, sel.Keys["customfield_2"])
			assert.False(t, sel.Keys["customfield_1"])
		})
	}
}

func TestSelect_CriticalFailures(t *testing.T) {
	t.Run("board configuration", func(t *testing.T) {
		src := createTestSource()
		src.config = nil

		_, err := (&Selector{Source: src}).Select(context.Background(), Request{BoardID: 7, IssueKey: "PROJ-3"})

		var fetchErr *domain.FetchError
		require.ErrorAs(t, err, &fetchErr)
		assert.Equal(t, "get board configuration", fetchErr.Op)
		assert.Equal(t, "board 7", fetchErr.Subject)
		assert.ErrorIs(t, err, errUnavailable)
	})

	t.Run("edit metadata", func(t *testing.T) {
		src := createTestSource()
		src.editMeta = nil

		_, err := (&Selector{Source: src}).Select(context.Background(), Request{BoardID: 7, IssueKey: "PROJ-3"})

		var fetchErr *domain.FetchError
		require.ErrorAs(t, err, &fetchErr)
		assert.Equal(t, "PROJ-3", fetchErr.Subject)
	})
}

func TestSelect_DegradedFailures(t *testing.T) {
	src := createTestSource()
	src.createMeta = nil
	src.config = domain.Document(`{"id": 7}`)
	src.boardErr = errUnavailable

	sel, err := (&Selector{Source: src}).Select(context.Background(), Request{BoardID: 7, IssueKey: "PROJ-3", Present: allPresent()})

	require.NoError(t, err)
	assert.False(t, sel.Keys["environment"])
	assert.False(t, sel.Keys["customfield_10016"])
	assert.True(t, sel.Keys["duedate"])
	assert.True(t, sel.Keys["summary"])

	var failed []ContributionKind
	for _, c := range sel.Contributions {
		if c.Err != nil {
			failed = append(failed, c.Kind)
		}
	}
	assert.ElementsMatch(t, []ContributionKind{ContributionSampled, ContributionCreateMeta}, failed)
}

func TestSelect_ReusesPrefetchedMetadata(t *testing.T) {
	src := createTestSource()
	src.editMeta = nil
	src.createMeta = nil

	sel, err := (&Selector{Source: src}).Select(context.Background(), Request{
		BoardID:    7,
		IssueKey:   "PROJ-3",
		Present:    allPresent(),
		EditMeta:   domain.Document(`{"fields": {"duedate": {}}}`),
		CreateMeta: domain.Document(`{"projects": [{"issuetypes": [{"fields": {"environment": {}}}]}]}`),
	})

	require.NoError(t, err)
	assert.True(t, sel.Keys["duedate"])
	assert.True(t, sel.Keys["environment"])
	assert.False(t, src.called("editmeta"))
	assert.False(t, src.called("createmeta"))
}

func TestSelect_SampleSizeLimit(t *testing.T) {
	src := createTestSource()
	var many []domain.Issue
	for i := 0; i < 250; i++ {
		many = append(many, domain.Issue{Fields: map[string]any{"summary": "x"}})
	}
	many[200].Fields["customfield_late"] = "only past the sample"
	src.search = many

	present := allPresent()
	present["customfield_late"] = true
	sel, err := (&Selector{Source: src, SampleSize: 100}).Select(context.Background(), Request{BoardID: 7, IssueKey: "PROJ-3", Present: present})

	require.NoError(t, err)
	assert.False(t, sel.Keys["customfield_late"])
}
