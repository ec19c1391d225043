package pipeline

import (
	"log"
	"strings"

	"ev-dashboard/internal/model"
	"ev-dashboard/pkg/utils"
)

type dropReason int

const (
	keep dropReason = iota
	dropMissing
	dropYear
)

// Normalize projects raw rows into records. Rows without a make or a usable
// model year are dropped; a bad electric range becomes 0. It never fails.
func Normalize(rows []model.RawRow) ([]model.Record, model.NormalizeStats) {
	stats := model.NormalizeStats{Raw: len(rows)}
	records := make([]model.Record, 0, len(rows))

	for _, row := range rows {
		rec, reason, defaulted := normalizeRow(row)
		switch reason {
		case dropMissing:
			stats.DroppedMissing++
			continue
		case dropYear:
			stats.DroppedYear++
			continue
		}
		if defaulted {
			stats.RangeDefaulted++
		}
		records = append(records, rec)
	}
	stats.Kept = len(records)

	log.Printf("🔍 Normalize Summary: %d kept, %d dropped (missing %d, bad year %d), %d ranges defaulted",
		stats.Kept, stats.Dropped(), stats.DroppedMissing, stats.DroppedYear, stats.RangeDefaulted)
	return records, stats
}

func normalizeRow(row model.RawRow) (model.Record, dropReason, bool) {
	yearRaw := strings.TrimSpace(row[model.ColModelYear])
	mk := strings.TrimSpace(row[model.ColMake])
	if yearRaw == "" || mk == "" {
		return model.Record{}, dropMissing, false
	}

	year, ok := utils.ParseInt(yearRaw)
	if !ok {
		return model.Record{}, dropYear, false
	}

	rng, ok := utils.ParseInt(row[model.ColElectricRange])
	defaulted := !ok || rng < 0
	if defaulted {
		rng = 0
	}

	return model.Record{
		Make:      mk,
		Model:     strings.TrimSpace(row[model.ColModel]),
		ModelYear: year,
		Range:     rng,
		City:      strings.TrimSpace(row[model.ColCity]),
		County:    strings.TrimSpace(row[model.ColCounty]),
		Fields:    row,
	}, keep, defaulted
}
