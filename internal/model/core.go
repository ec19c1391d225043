package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// FilterKey names one of the five filterable fields.
type FilterKey string

const (
	FilterCity    FilterKey = "city"
	FilterCounty  FilterKey = "county"
	FilterCompany FilterKey = "company"
	FilterModel   FilterKey = "model"
	FilterYear    FilterKey = "year"
)

// FilterKeys lists the filter keys in dropdown order.
var FilterKeys = []FilterKey{FilterCounty, FilterCity, FilterCompany, FilterModel, FilterYear}

// ErrUnknownFilter is returned for a filter key outside FilterKeys.
var ErrUnknownFilter = errors.New("unknown filter key")

// ParseFilterKey validates a filter key coming from a request or flag.
func ParseFilterKey(s string) (FilterKey, error) {
	k := FilterKey(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case FilterCity, FilterCounty, FilterCompany, FilterModel, FilterYear:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFilter, s)
}

// FilterState holds the selected value per filter key. Empty means no constraint.
type FilterState struct {
	City    string `json:"city" yaml:"city"`
	County  string `json:"county" yaml:"county"`
	Company string `json:"company" yaml:"company"`
	Model   string `json:"model" yaml:"model"`
	Year    string `json:"year" yaml:"year"`
}

// Get returns the selected value for k.
func (f FilterState) Get(k FilterKey) string {
	switch k {
	case FilterCity:
		return f.City
	case FilterCounty:
		return f.County
	case FilterCompany:
		return f.Company
	case FilterModel:
		return f.Model
	case FilterYear:
		return f.Year
	}
	return ""
}

// With returns a copy of f with k set to value. Selecting a company clears the
// model selection.
func (f FilterState) With(k FilterKey, value string) FilterState {
	switch k {
	case FilterCity:
		f.City = value
	case FilterCounty:
		f.County = value
	case FilterCompany:
		f.Company = value
		f.Model = ""
	case FilterModel:
		f.Model = value
	case FilterYear:
		f.Year = value
	}
	return f
}

// Without returns a copy of f with k cleared.
func (f FilterState) Without(k FilterKey) FilterState {
	switch k {
	case FilterCity:
		f.City = ""
	case FilterCounty:
		f.County = ""
	case FilterCompany:
		f.Company = ""
	case FilterModel:
		f.Model = ""
	case FilterYear:
		f.Year = ""
	}
	return f
}

// IsEmpty reports whether no filter is active.
func (f FilterState) IsEmpty() bool {
	return f == FilterState{}
}

// Key is a canonical string for f, used as a cache key. Values are quoted so
// no two states share a key.
func (f FilterState) Key() string {
	var b strings.Builder
	for i, k := range FilterKeys {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(string(k))
		b.WriteByte('=')
		b.WriteString(strconv.Quote(f.Get(k)))
	}
	return b.String()
}

// SessionState is the serializable per-client dashboard state.
type SessionState struct {
	Filters FilterState `json:"filters"`
	Page    int         `json:"page"`
}
