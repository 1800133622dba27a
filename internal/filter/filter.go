// Package filter applies user-entered list criteria to an in-memory
// collection. Filters are always derived from the full unfiltered collection
// and the result is an order-preserving subsequence of the input.
package filter

import "strings"

// Sentinel values recognized by the criteria fields.
const (
	All        = "all"
	Me         = "me"
	Unassigned = "unassigned"
)

// Criteria is the user-controlled predicate set for a listing. Zero values
// and the "all" sentinel disable the corresponding filter. UserID is the
// identity the "me" assignee filter matches against; it is threaded in
// explicitly rather than read from ambient state.
type Criteria struct {
	Search   string
	Status   string
	Priority string
	Assignee string
	UserID   string
}

// IsZero reports whether no filter is active.
func (c Criteria) IsZero() bool {
	return strings.TrimSpace(c.Search) == "" &&
		(c.Status == "" || c.Status == All) &&
		(c.Priority == "" || c.Priority == All) &&
		(c.Assignee == "" || c.Assignee == All)
}

// Fields describes how criteria read an item of type T. A nil accessor marks
// the filter as not applicable for that entity type.
type Fields[T any] struct {
	Search   []func(T) string
	Status   func(T) string
	Priority func(T) string
	Assignee func(T) string
}

// Apply filters items by the conjunction of all active criteria, preserving
// the original order. The input slice is never modified.
func Apply[T any](items []T, c Criteria, f Fields[T]) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if matches(item, c, f) {
			out = append(out, item)
		}
	}
	return out
}

func matches[T any](item T, c Criteria, f Fields[T]) bool {
	if term := strings.ToLower(strings.TrimSpace(c.Search)); term != "" {
		found := false
		for _, get := range f.Search {
			if strings.Contains(strings.ToLower(get(item)), term) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if c.Status != "" && c.Status != All && f.Status != nil {
		if f.Status(item) != c.Status {
			return false
		}
	}

	if c.Priority != "" && c.Priority != All && f.Priority != nil {
		if f.Priority(item) != c.Priority {
			return false
		}
	}

	if f.Assignee != nil {
		switch c.Assignee {
		case Me:
			if f.Assignee(item) != c.UserID {
				return false
			}
		case Unassigned:
			if f.Assignee(item) != "" {
				return false
			}
		}
	}

	return true
}
