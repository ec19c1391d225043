package pipeline

import (
	"sort"
	"strconv"

	"ev-dashboard/internal/model"
)

// ChartTopN is how many makes feed the dashboard charts.
const ChartTopN = 10

// ByMake counts records per make, highest count first, ties by name.
func ByMake(records []model.Record) []model.AggregateBucket {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Make]++
	}
	buckets := make([]model.AggregateBucket, 0, len(counts))
	for name, n := range counts {
		buckets = append(buckets, model.AggregateBucket{Name: name, Value: n})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Value != buckets[j].Value {
			return buckets[i].Value > buckets[j].Value
		}
		return buckets[i].Name < buckets[j].Name
	})
	return buckets
}

// ByYear counts records per model year in ascending year order.
func ByYear(records []model.Record) []model.AggregateBucket {
	counts := make(map[int]int)
	for _, r := range records {
		counts[r.ModelYear]++
	}
	years := make([]int, 0, len(counts))
	for y := range counts {
		years = append(years, y)
	}
	sort.Ints(years)

	buckets := make([]model.AggregateBucket, 0, len(years))
	for _, y := range years {
		buckets = append(buckets, model.AggregateBucket{Name: strconv.Itoa(y), Value: counts[y]})
	}
	return buckets
}

// TopN returns the first n buckets.
func TopN(buckets []model.AggregateBucket, n int) []model.AggregateBucket {
	if n < 0 {
		n = 0
	}
	if len(buckets) <= n {
		return buckets
	}
	return buckets[:n]
}
