package pipeline

import (
	"sort"
	"strconv"
	"testing"

	"ev-dashboard/internal/model"

	"github.com/stretchr/testify/assert"
)

func sum(buckets []model.AggregateBucket) int {
	n := 0
	for _, b := range buckets {
		n += b.Value
	}
	return n
}

func TestAggregates(t *testing.T) {
	records := mustLoad(t, fleetCSV)
	for _, f := range []model.FilterState{{}, {County: "King"}, {Company: "NISSAN"}, {City: "Nowhere"}} {
		filtered := Filter(records, f)
		byMake := ByMake(filtered)
		byYear := ByYear(filtered)

		assert.Equal(t, len(filtered), sum(byMake))
		assert.Equal(t, len(filtered), sum(byYear))

		assert.True(t, sort.SliceIsSorted(byMake, func(i, j int) bool { return byMake[i].Value > byMake[j].Value }))
		for i := 1; i < len(byYear); i++ {
			prev, _ := strconv.Atoi(byYear[i-1].Name)
			cur, _ := strconv.Atoi(byYear[i].Name)
			assert.Less(t, prev, cur)
		}
	}
}

func TestByMakeTieBreak(t *testing.T) {
	records := []model.Record{
		{Make: "KIA", ModelYear: 2020},
		{Make: "AUDI", ModelYear: 2020},
		{Make: "TESLA", ModelYear: 2020},
		{Make: "KIA", ModelYear: 2021},
		{Make: "AUDI", ModelYear: 2021},
	}
	assert.Equal(t, []model.AggregateBucket{
		{Name: "AUDI", Value: 2},
		{Name: "KIA", Value: 2},
		{Name: "TESLA", Value: 1},
	}, ByMake(records))
}

func TestByYearNumericOrder(t *testing.T) {
	records := []model.Record{
		{Make: "A", ModelYear: 2010},
		{Make: "A", ModelYear: 999},
		{Make: "A", ModelYear: 2010},
	}
	assert.Equal(t, []model.AggregateBucket{{Name: "999", Value: 1}, {Name: "2010", Value: 2}}, ByYear(records))
}

func TestTopN(t *testing.T) {
	buckets := make([]model.AggregateBucket, 12)
	for i := range buckets {
		buckets[i] = model.AggregateBucket{Name: strconv.Itoa(i), Value: 12 - i}
	}
	assert.Len(t, TopN(buckets, ChartTopN), 10)
	assert.Len(t, TopN(buckets[:3], ChartTopN), 3)
	assert.Empty(t, TopN(buckets, -1))
}
