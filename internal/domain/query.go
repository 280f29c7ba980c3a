package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Filter selects a subset of entries for display.
type Filter string

const (
	FilterAll      Filter = "all"
	FilterUnsolved Filter = "unsolved"
	FilterOpened   Filter = "opened"
	FilterUnopened Filter = "unopened"
	// FilterShort keeps videos with a known length of at most ShortVideoSeconds.
	FilterShort Filter = "short"
)

// ShortVideoSeconds is the upper bound (inclusive) for FilterShort.
const ShortVideoSeconds = 1800

// SortOrder orders the filtered entries.
type SortOrder string

const (
	SortDateDesc   SortOrder = "date-desc"
	SortDateAsc    SortOrder = "date-asc"
	SortTitleAsc   SortOrder = "title-asc"
	SortTitleDesc  SortOrder = "title-desc"
	SortLengthDesc SortOrder = "length-desc"
	SortLengthAsc  SortOrder = "length-asc"
)

// Query describes a read of the collection as seen by the presentation layer.
type Query struct {
	Filter         Filter
	Sort           SortOrder
	Search         string
	IncludeDeleted bool
}

func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterUnsolved, FilterOpened, FilterUnopened, FilterShort:
		return f, nil
	default:
		return "", fmt.Errorf("unknown filter %q", s)
	}
}

func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case "":
		return SortDateDesc, nil
	case SortDateDesc, SortDateAsc, SortTitleAsc, SortTitleDesc, SortLengthDesc, SortLengthAsc:
		return o, nil
	default:
		return "", fmt.Errorf("unknown sort order %q", s)
	}
}

// Matches reports whether a single entry passes the filter, search and deletion rules.
func (q Query) Matches(e VideoEntry) bool {
	if e.IsDeleted && !q.IncludeDeleted {
		return false
	}
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		if !strings.Contains(strings.ToLower(e.Title), needle) &&
			!strings.Contains(strings.ToLower(e.Description), needle) {
			return false
		}
	}
	switch q.Filter {
	case FilterUnsolved:
		return !e.IsAllSolved()
	case FilterOpened:
		return e.IsAnyOpened()
	case FilterUnopened:
		return !e.IsAnyOpened()
	case FilterShort:
		return e.VideoLength >= 1 && e.VideoLength <= ShortVideoSeconds
	default:
		return true
	}
}

// Apply returns the matching entries in the requested order. The input is not modified.
func (q Query) Apply(entries []VideoEntry) []VideoEntry {
	out := make([]VideoEntry, 0, len(entries))
	for _, e := range entries {
		if q.Matches(e) {
			out = append(out, e)
		}
	}

	var less func(a, b VideoEntry) bool
	switch q.Sort {
	case SortDateAsc:
		less = func(a, b VideoEntry) bool { return a.Published < b.Published }
	case SortTitleAsc:
		less = func(a, b VideoEntry) bool { return a.Title < b.Title }
	case SortTitleDesc:
		less = func(a, b VideoEntry) bool { return a.Title > b.Title }
	case SortLengthDesc:
		less = func(a, b VideoEntry) bool { return a.VideoLength > b.VideoLength }
	case SortLengthAsc:
		less = func(a, b VideoEntry) bool { return a.VideoLength < b.VideoLength }
	default:
		less = func(a, b VideoEntry) bool { return a.Published > b.Published }
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })

	return out
}
