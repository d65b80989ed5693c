package board

import (
	"sort"

	"github.com/h0rv/jira-mcp/internal/domain"
)

// ContributionKind names the step a set of field ids came from.
type ContributionKind int

const (
	ContributionSampled ContributionKind = iota + 1
	ContributionEditMeta
	ContributionCreateMeta
	ContributionEstimation
	ContributionCore
)

func (k ContributionKind) String() string {
	switch k {
	case ContributionSampled:
		return "sampled"
	case ContributionEditMeta:
		return "editmeta"
	case ContributionCreateMeta:
		return "createmeta"
	case ContributionEstimation:
		return "estimation"
	case ContributionCore:
		return "core"
	default:
		return "unknown"
	}
}

// Contribution is one step's field ids. A contribution with Err set failed
// and adds nothing.
type Contribution struct {
	Kind ContributionKind
	Keys []string
	Err  error
}

// CoreFields are always relevant to a board view.
var CoreFields = []string{
	domain.FieldSummary,
	domain.FieldIssueType,
	domain.FieldProject,
	domain.FieldStatus,
	domain.FieldAssignee,
	domain.FieldLabels,
	domain.FieldComponents,
	domain.FieldParent,
	domain.FieldPriority,
}

// CoreContribution returns the fixed core field set.
func CoreContribution() Contribution {
	return Contribution{Kind: ContributionCore, Keys: append([]string(nil), CoreFields...)}
}

// Compose unions every successful contribution.
func Compose(contributions ...Contribution) map[string]bool {
	keys := make(map[string]bool)
	for _, c := range contributions {
		if c.Err != nil {
			continue
		}
		for _, k := range c.Keys {
			if k != "" {
				keys[k] = true
			}
		}
	}
	return keys
}

// Intersect keeps the keys that are present on the issue.
func Intersect(keys map[string]bool, present map[string]bool) map[string]bool {
	out := make(map[string]bool, len(keys))
	for k := range keys {
		if present[k] {
			out[k] = true
		}
	}
	return out
}

// Sorted returns the keys of a set in order.
func Sorted(keys map[string]bool) []string {
	out := make([]string, 0, len(keys))
	for k := range keys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
