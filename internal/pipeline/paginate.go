package pipeline

import "ev-dashboard/internal/model"

// PageSize is the fixed number of table rows per page.
const PageSize = 10

// TotalPages is never less than 1, even for an empty set.
func TotalPages(n int) int {
	if n <= 0 {
		return 1
	}
	return (n + PageSize - 1) / PageSize
}

// ClampPage bounds page to [1, TotalPages(n)].
func ClampPage(page, n int) int {
	if page < 1 {
		return 1
	}
	if tp := TotalPages(n); page > tp {
		return tp
	}
	return page
}

// Paginate slices out the requested page after clamping it.
func Paginate(records []model.Record, page int) model.Page {
	n := len(records)
	page = ClampPage(page, n)
	tp := TotalPages(n)

	start := (page - 1) * PageSize
	end := start + PageSize
	if end > n {
		end = n
	}
	slice := make([]model.Record, 0, end-start)
	slice = append(slice, records[start:end]...)

	return model.Page{
		Number:       page,
		Size:         PageSize,
		TotalPages:   tp,
		TotalRecords: n,
		StartIndex:   start,
		HasPrev:      page > 1,
		HasNext:      page < tp,
		Records:      slice,
	}
}
