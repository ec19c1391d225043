package pipeline

import (
	"bytes"
	"context"
	"log"
	"time"

	"ev-dashboard/internal/model"
)

// Dataset is the normalized record set produced by one load.
type Dataset struct {
	Source   string
	Checksum string
	Bytes    int
	Records  []model.Record
	Stats    model.NormalizeStats
}

// ------------------- Load -------------------

// Load fetches, parses and normalizes the CSV at source.
func Load(ctx context.Context, source string, timeout time.Duration) (*Dataset, error) {
	start := time.Now()
	log.Printf("🚀 Loading dataset from: %s", source)

	data, err := Fetch(ctx, source, timeout)
	if err != nil {
		return nil, err
	}
	rows, err := ParseCSV(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	records, stats := Normalize(rows)

	log.Printf("✅ Dataset ready: %d records from %s in %v", len(records), source, time.Since(start))
	return &Dataset{
		Source:   source,
		Checksum: Checksum(data),
		Bytes:    len(data),
		Records:  records,
		Stats:    stats,
	}, nil
}

// ------------------- View Builder -------------------

// Derived holds everything about a view that depends only on the filters, so
// it can be cached and re-paginated cheaply.
type Derived struct {
	Filters  model.FilterState
	Filtered []model.Record
	ByMake   []model.AggregateBucket
	TopMakes []model.AggregateBucket
	ByYear   []model.AggregateBucket
	Options  model.FilterOptions
	Summary  model.Summary
}

// Derive runs Filter, Aggregate, Options and Summary for one filter snapshot.
func Derive(records []model.Record, f model.FilterState) *Derived {
	filtered := Filter(records, f)
	byMake := ByMake(filtered)
	byYear := ByYear(filtered)
	return &Derived{
		Filters:  f,
		Filtered: filtered,
		ByMake:   byMake,
		TopMakes: TopN(byMake, ChartTopN),
		ByYear:   byYear,
		Options:  Options(records, f),
		Summary:  Summarize(len(filtered), byMake, byYear),
	}
}

// BuildView paginates d for state and assembles the presentation contract.
// The returned state carries the clamped page.
func BuildView(d *Derived, state model.SessionState) model.View {
	page := Paginate(d.Filtered, state.Page)
	state.Page = page.Number
	return model.View{
		Status:   model.StatusReady,
		State:    state,
		Summary:  d.Summary,
		ByMake:   d.ByMake,
		TopMakes: d.TopMakes,
		ByYear:   d.ByYear,
		Options:  d.Options,
		Page:     page,
	}
}

// LoadingView is served while the dataset is not yet available.
func LoadingView(state model.SessionState) model.View {
	return model.View{
		Status:   model.StatusLoading,
		State:    state,
		Summary:  LoadingSummary(),
		ByMake:   []model.AggregateBucket{},
		TopMakes: []model.AggregateBucket{},
		ByYear:   []model.AggregateBucket{},
		Page:     Paginate(nil, 1),
	}
}
