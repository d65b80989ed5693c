package board

import (
	"sort"

	"github.com/h0rv/jira-mcp/internal/domain"
)

// Tally counts, per field id, how many sampled issues carry a non-null value.
type Tally struct {
	counts  map[string]int
	samples int
}

// NewTally creates an empty tally.
func NewTally() *Tally {
	return &Tally{counts: make(map[string]int)}
}

// Observe records one issue's field bag.
func (t *Tally) Observe(issue domain.Issue) {
	t.samples++
	for id, v := range issue.Fields {
		if v == nil {
			continue
		}
		t.counts[id]++
	}
}

// Samples returns the number of issues observed.
func (t *Tally) Samples() int {
	return t.samples
}

// Count returns how many observed issues had a non-null value for id.
func (t *Tally) Count(id string) int {
	return t.counts[id]
}

// Keys returns every field id seen non-null at least once, sorted.
func (t *Tally) Keys() []string {
	keys := make([]string, 0, len(t.counts))
	for id, n := range t.counts {
		if n > 0 {
			keys = append(keys, id)
		}
	}
	sort.Strings(keys)
	return keys
}
