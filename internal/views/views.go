// Package views holds the application-facing shapes of the stored entities:
// camelCase JSON fields with defaults applied on read. Mapping from a wire
// record is total; absent or malformed input produces a default-filled view.
package views

import "time"

// PersonRef is an embedded reference to a person (assignee, reporter, author).
type PersonRef struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func ptrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func isoTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// parseISO returns nil for empty or malformed input; writes simply omit the
// field in that case.
func parseISO(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}
