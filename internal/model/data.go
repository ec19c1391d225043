package model

import (
	"strconv"
	"time"
)

// AggregateBucket is one chart-ready group count.
type AggregateBucket struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Text renders the bucket as "Name (count)".
func (b AggregateBucket) Text() string {
	return b.Name + " (" + strconv.Itoa(b.Value) + ")"
}

const (
	NoDataText  = "No Data Found..."
	LoadingText = "Loading..."
)

// Summary holds the headline statistics for the filtered set.
type Summary struct {
	Total       int              `json:"total"`
	TotalText   string           `json:"totalText"`
	TopMake     *AggregateBucket `json:"topMake,omitempty"`
	TopMakeText string           `json:"topMakeText"`
	TopYear     *AggregateBucket `json:"topYear,omitempty"`
	TopYearText string           `json:"topYearText"`
	// PeakYear is the most registered year, the earliest one on ties.
	PeakYear    *AggregateBucket `json:"peakYear,omitempty"`
}

// Page is one slice of the filtered records.
type Page struct {
	Number       int      `json:"number"`
	Size         int      `json:"size"`
	TotalPages   int      `json:"totalPages"`
	TotalRecords int      `json:"totalRecords"`
	StartIndex   int      `json:"startIndex"`
	HasPrev      bool     `json:"hasPrev"`
	HasNext      bool     `json:"hasNext"`
	Records      []Record `json:"records"`
}

// FilterOptions lists the selectable values per filter key.
type FilterOptions struct {
	City    []string `json:"city"`
	County  []string `json:"county"`
	Company []string `json:"company"`
	Model   []string `json:"model"`
	Year    []string `json:"year"`
}

// For returns the option list for k.
func (o FilterOptions) For(k FilterKey) []string {
	switch k {
	case FilterCity:
		return o.City
	case FilterCounty:
		return o.County
	case FilterCompany:
		return o.Company
	case FilterModel:
		return o.Model
	case FilterYear:
		return o.Year
	}
	return nil
}

// View is everything a front end needs to render the dashboard for one session.
type View struct {
	Status   LoadStatus        `json:"status"`
	State    SessionState      `json:"state"`
	Summary  Summary           `json:"summary"`
	ByMake   []AggregateBucket `json:"byMake"`
	TopMakes []AggregateBucket `json:"topMakes"`
	ByYear   []AggregateBucket `json:"byYear"`
	Options  FilterOptions     `json:"options"`
	Page     Page              `json:"page"`
}

// DetailField is one labelled line of the record drill-down.
type DetailField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// RecordDetail is the drill-down of a single record.
type RecordDetail struct {
	SL     int           `json:"sl"`
	Fields []DetailField `json:"fields"`
}

// ExportResult represents the result of an export operation
type ExportResult struct {
	Format      string    `json:"format"` // "csv", "json"
	Path        string    `json:"path,omitempty"`
	RecordCount int       `json:"record_count"`
	Timestamp   time.Time `json:"timestamp"`
}
