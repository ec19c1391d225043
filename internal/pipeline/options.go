package pipeline

import (
	"sort"
	"strconv"

	"ev-dashboard/internal/model"
)

// Options computes the cascading dropdown values. Each key's values come from
// the records matching every other active filter; the key's own selection is
// ignored. Models of a selected company come from that make alone.
func Options(records []model.Record, f model.FilterState) model.FilterOptions {
	opts := model.FilterOptions{
		City:    distinct(records, f.Without(model.FilterCity), func(r model.Record) string { return r.City }),
		County:  distinct(records, f.Without(model.FilterCounty), func(r model.Record) string { return r.County }),
		Company: distinct(records, f.Without(model.FilterCompany), func(r model.Record) string { return r.Make }),
		Year:    distinctYears(records, f.Without(model.FilterYear)),
	}
	if f.Company != "" {
		opts.Model = distinct(records, model.FilterState{Company: f.Company}, func(r model.Record) string { return r.Model })
	} else {
		opts.Model = distinct(records, f.Without(model.FilterModel), func(r model.Record) string { return r.Model })
	}
	return opts
}

func distinct(records []model.Record, f model.FilterState, field func(model.Record) string) []string {
	m := newMatcher(f)
	seen := make(map[string]struct{})
	for _, r := range records {
		if !m.match(r) {
			continue
		}
		if v := field(r); v != "" {
			seen[v] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func distinctYears(records []model.Record, f model.FilterState) []string {
	m := newMatcher(f)
	seen := make(map[int]struct{})
	for _, r := range records {
		if m.match(r) {
			seen[r.ModelYear] = struct{}{}
		}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)

	out := make([]string, len(years))
	for i, y := range years {
		out[i] = strconv.Itoa(y)
	}
	return out
}
