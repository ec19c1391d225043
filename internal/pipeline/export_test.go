package pipeline

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"ev-dashboard/internal/model"
	"ev-dashboard/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportCSV(t *testing.T) {
	records := Filter(mustLoad(t, fleetCSV), model.FilterState{Company: "TESLA"})

	var buf bytes.Buffer
	res, err := Export(&buf, "CSV", records, ExportMeta{})
	require.NoError(t, err)
	assert.Equal(t, "csv", res.Format)
	assert.Equal(t, 3, res.RecordCount)

	lines, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, lines, len(records)+1)
	assert.Equal(t, []string{"SL No.", "Company", "Model", "Year", "Range", "City", "County"}, lines[0][:7])
	assert.Equal(t, []string{"1", "TESLA", "MODEL 3", "2019", "220", "Seattle", "King"}, lines[1][:7])
	assert.Equal(t, "1001", lines[1][7])
	assert.Equal(t, "3", lines[3][0])
}

func TestExportJSON(t *testing.T) {
	meta := ExportMeta{LoadID: "load-1", Filters: model.FilterState{County: "Pierce"}}
	records := Filter(mustLoad(t, fleetCSV), meta.Filters)

	var buf bytes.Buffer
	_, err := Export(&buf, "json", records, meta)
	require.NoError(t, err)

	var out struct {
		Info struct {
			LoadID      string            `json:"load_id"`
			Filters     model.FilterState `json:"filters"`
			RecordCount int               `json:"record_count"`
		} `json:"export_info"`
		Data []model.Record `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "load-1", out.Info.LoadID)
	assert.Equal(t, "Pierce", out.Info.Filters.County)
	assert.Equal(t, 2, out.Info.RecordCount)
	assert.Len(t, out.Data, 2)
}

func TestExportUnknownFormat(t *testing.T) {
	_, err := Export(&bytes.Buffer{}, "xlsx", nil, ExportMeta{})
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestExportToFile(t *testing.T) {
	om := utils.NewOutputManager(t.TempDir())
	records := mustLoad(t, fleetCSV)

	res, err := ExportToFile(om, "fleet.csv", records, ExportMeta{LoadID: "abc"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(om.BaseOutputDir, "abc", "fleet.csv"), res.Path)

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, len(records)+1, bytes.Count(data, []byte("\n")))

	_, err = ExportToFile(om, "fleet.xlsx", records, ExportMeta{})
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}
