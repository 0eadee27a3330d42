// Package query filters collections by free text and exact field values.
//
// Filtering is pure: inputs are never modified and the relative order of
// matching records is preserved.
package query

import (
	"strings"

	"github.com/okian/agentdesk/internal/domain/model"
)

// Query selects records matching every non-empty criterion.
type Query struct {
	// Text must appear, case-insensitively, in at least one field.
	Text string
	// Exact maps a field name to the value it must equal, case-sensitively.
	// Empty values are ignored.
	Exact map[string]string
}

// IsZero reports whether q selects everything.
func (q Query) IsZero() bool {
	if strings.TrimSpace(q.Text) != "" {
		return false
	}
	for _, v := range q.Exact {
		if v != "" {
			return false
		}
	}
	return true
}

// Matches reports whether r satisfies q.
func (q Query) Matches(r model.Record) bool {
	fields := r.Fields()
	for name, want := range q.Exact {
		if want == "" {
			continue
		}
		if got, ok := lookup(fields, name); !ok || got != want {
			return false
		}
	}

	text := strings.ToLower(strings.TrimSpace(q.Text))
	if text == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f.Value), text) {
			return true
		}
	}
	return false
}

// Filter returns the records of rows matching q in their original order.
// The result never aliases rows.
func Filter[T model.Record](rows []T, q Query) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if q.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// Facets returns the distinct non-empty values of field across rows in
// first-seen order.
func Facets[T model.Record](rows []T, field string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, r := range rows {
		v, ok := lookup(r.Fields(), field)
		if !ok || v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func lookup(fields []model.Field, name string) (string, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}
