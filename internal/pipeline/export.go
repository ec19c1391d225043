package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"ev-dashboard/internal/model"
	"ev-dashboard/pkg/utils"
)

// ErrUnknownFormat is returned for an export format other than csv or json.
var ErrUnknownFormat = errors.New("unknown export format")

// ExportMeta identifies what an export was taken from.
type ExportMeta struct {
	LoadID  string
	Filters model.FilterState
}

var exportHeader = append([]string{"SL No.", "Company", "Model", "Year", "Range", "City", "County"}, model.PassthroughColumns...)

// Export writes records to w as "csv" or "json".
func Export(w io.Writer, format string, records []model.Record, meta ExportMeta) (model.ExportResult, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	var err error
	switch format {
	case "csv":
		err = exportCSV(w, records)
	case "json":
		err = exportJSON(w, records, meta)
	default:
		return model.ExportResult{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return model.ExportResult{}, err
	}
	log.Printf("💾 Export: %d records written as %s", len(records), format)
	return model.ExportResult{
		Format:      format,
		RecordCount: len(records),
		Timestamp:   time.Now().UTC(),
	}, nil
}

// ExportToFile writes records under the output manager's directory for the
// load; the format follows the file extension.
func ExportToFile(om *utils.OutputManager, fileName string, records []model.Record, meta ExportMeta) (model.ExportResult, error) {
	format := om.GetFileType(fileName)
	if format != "csv" && format != "json" {
		return model.ExportResult{}, fmt.Errorf("%w: %q", ErrUnknownFormat, fileName)
	}
	path, err := om.GetOutputFilePath(meta.LoadID, fileName)
	if err != nil {
		return model.ExportResult{}, err
	}
	file, err := os.Create(path)
	if err != nil {
		return model.ExportResult{}, fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	res, err := Export(file, format, records, meta)
	if err != nil {
		return res, err
	}
	res.Path = path
	return res, nil
}

func exportCSV(w io.Writer, records []model.Record) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, r := range records {
		row := []string{
			strconv.Itoa(i + 1),
			r.Make,
			r.Model,
			strconv.Itoa(r.ModelYear),
			strconv.Itoa(r.Range),
			r.City,
			r.County,
		}
		for _, col := range model.PassthroughColumns {
			row = append(row, r.Field(col))
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func exportJSON(w io.Writer, records []model.Record, meta ExportMeta) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if records == nil {
		records = []model.Record{}
	}
	exportData := map[string]interface{}{
		"export_info": map[string]interface{}{
			"load_id":      meta.LoadID,
			"filters":      meta.Filters,
			"exported_at":  time.Now().UTC(),
			"record_count": len(records),
		},
		"data": records,
	}
	if err := encoder.Encode(exportData); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
