package pipeline

import (
	"ev-dashboard/internal/model"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var countPrinter = message.NewPrinter(language.English)

// FormatCount renders n with thousands separators ("1,234").
func FormatCount(n int) string {
	return countPrinter.Sprintf("%d", n)
}

// Summarize derives the headline numbers from the aggregated buckets.
// byYear must be in ascending year order.
func Summarize(total int, byMake, byYear []model.AggregateBucket) model.Summary {
	s := model.Summary{
		Total:       total,
		TotalText:   FormatCount(total),
		TopMakeText: model.NoDataText,
		TopYearText: model.NoDataText,
	}
	if len(byMake) > 0 {
		top := byMake[0]
		s.TopMake = &top
		s.TopMakeText = top.Text()
	}
	if len(byYear) > 0 {
		top := byYear[0]
		s.TopYear = &top
		s.TopYearText = top.Text()
	}
	if peak, ok := peakYear(byYear); ok {
		s.PeakYear = &peak
	}
	return s
}

// LoadingSummary is shown until the dataset is ready.
func LoadingSummary() model.Summary {
	return model.Summary{
		TotalText:   model.LoadingText,
		TopMakeText: model.LoadingText,
		TopYearText: model.LoadingText,
	}
}

// peakYear picks the most registered year, the earliest one on ties.
func peakYear(byYear []model.AggregateBucket) (model.AggregateBucket, bool) {
	if len(byYear) == 0 {
		return model.AggregateBucket{}, false
	}
	best := byYear[0]
	for _, b := range byYear[1:] {
		if b.Value > best.Value {
			best = b
		}
	}
	return best, true
}
