package pipeline

import (
	"ev-dashboard/internal/model"
	"ev-dashboard/pkg/utils"
)

// matcher is a FilterState with the year filter pre-parsed.
type matcher struct {
	f       model.FilterState
	year    int
	yearBad bool
}

func newMatcher(f model.FilterState) matcher {
	m := matcher{f: f}
	if f.Year != "" {
		y, ok := utils.ParseInt(f.Year)
		m.year, m.yearBad = y, !ok
	}
	return m
}

func (m matcher) match(r model.Record) bool {
	if m.f.City != "" && r.City != m.f.City {
		return false
	}
	if m.f.County != "" && r.County != m.f.County {
		return false
	}
	if m.f.Company != "" && r.Make != m.f.Company {
		return false
	}
	if m.f.Model != "" && r.Model != m.f.Model {
		return false
	}
	if m.f.Year != "" && (m.yearBad || r.ModelYear != m.year) {
		return false
	}
	return true
}

// Matches reports whether r satisfies every active filter in f.
func Matches(r model.Record, f model.FilterState) bool {
	return newMatcher(f).match(r)
}

// Filter keeps the records matching every active filter, preserving order.
// With no active filter the input is returned as is.
func Filter(records []model.Record, f model.FilterState) []model.Record {
	if f.IsEmpty() {
		return records
	}
	m := newMatcher(f)
	out := make([]model.Record, 0)
	for _, r := range records {
		if m.match(r) {
			out = append(out, r)
		}
	}
	return out
}
