package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ev-dashboard/internal/dashboard"
	"ev-dashboard/internal/model"
	"ev-dashboard/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fleetCSV = `VIN,County,City,Model Year,Make,Model,Electric Range,DOL Vehicle ID
5YJ3E1EA1K,King,Seattle,2019,TESLA,MODEL 3,220,1001
5YJYGDEE0L,King,Seattle,2020,TESLA,MODEL Y,291,1002
1N4AZ0CP3D,King,Bellevue,2013,NISSAN,LEAF,75,1003
5YJ3E1EB5J,Pierce,Tacoma,2018,TESLA,MODEL 3,215,1004
1G1FY6S03L,Pierce,Tacoma,2020,CHEVROLET,BOLT EV,259,1005
`

type env struct {
	dir    string
	source string
	dsn    string
}

// setupEnv isolates config and the load log in a temp dir.
func setupEnv(t *testing.T) env {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	dsn := filepath.Join(dir, "evdash.db")
	t.Setenv("EVDASH_DB_DSN", dsn)
	t.Setenv("EVDASH_EXPORT_DIR", filepath.Join(dir, "exports"))

	source := filepath.Join(dir, "ev.csv")
	require.NoError(t, os.WriteFile(source, []byte(fleetCSV), 0o644))
	return env{dir: dir, source: source, dsn: dsn}
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCmd(t, args...)
	require.NoError(t, err, "evdash %s", strings.Join(args, " "))
	return out
}

func TestSummary(t *testing.T) {
	e := setupEnv(t)

	out := mustRun(t, "summary", "--source", e.source)
	assert.Regexp(t, `Total Vehicles:\s+5`, out)
	assert.Regexp(t, `Top Company:\s+TESLA \(3\)`, out)
	assert.Regexp(t, `Top Year:\s+2013 \(1\)`, out)
	assert.Regexp(t, `Peak Year:\s+2020 \(2\)`, out)

	out = mustRun(t, "summary", "--source", e.source, "--county", "Pierce", "--breakdown")
	assert.Regexp(t, `Total Vehicles:\s+2`, out)
	assert.Contains(t, out, "Top Companies")
	assert.Contains(t, out, "Registrations by Year")
	assert.Contains(t, out, "CHEVROLET")

	out = mustRun(t, "summary", "--source", e.source, "--year", "1999")
	assert.Regexp(t, `Top Company:\s+No Data Found\.\.\.`, out)
}

func TestSummaryLoadFailure(t *testing.T) {
	e := setupEnv(t)
	_, err := runCmd(t, "summary", "--source", filepath.Join(e.dir, "missing.csv"))
	assert.Error(t, err)
}

func TestTable(t *testing.T) {
	e := setupEnv(t)

	out := mustRun(t, "table", "--source", e.source, "--company", "TESLA", "--page", "9")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.True(t, strings.HasPrefix(lines[0], "SL No."))
	assert.True(t, strings.HasPrefix(lines[1], "1 "))
	assert.Contains(t, lines[1], "MODEL 3")
	assert.Contains(t, out, "Page 1 of 1 (3 records)")

	out = mustRun(t, "table", "--source", e.source, "--city", "Nowhere")
	assert.Equal(t, model.NoDataText+"\n", out)
}

func TestOptions(t *testing.T) {
	e := setupEnv(t)

	out := mustRun(t, "options", "--source", e.source, "--key", "company")
	assert.Equal(t, "CHEVROLET\nNISSAN\nTESLA\n", out)

	out = mustRun(t, "options", "--source", e.source, "--key", "model", "--company", "TESLA")
	assert.Equal(t, "MODEL 3\nMODEL Y\n", out)

	out = mustRun(t, "options", "--source", e.source)
	assert.Contains(t, out, "county (2): King, Pierce")
	assert.Contains(t, out, "year (4): 2013, 2018, 2019, 2020")

	_, err := runCmd(t, "options", "--source", e.source, "--key", "colour")
	assert.ErrorIs(t, err, model.ErrUnknownFilter)
}

func TestDetail(t *testing.T) {
	e := setupEnv(t)

	out := mustRun(t, "detail", "3", "--source", e.source)
	assert.Regexp(t, `VIN:\s+1N4AZ0CP3D`, out)
	assert.Regexp(t, `Vehicle ID:\s+1003`, out)
	assert.Regexp(t, `Base MSRP:\s+N/A`, out)

	out = mustRun(t, "detail", "1", "--source", e.source, "--company", "CHEVROLET")
	assert.Regexp(t, `Model:\s+BOLT EV`, out)

	_, err := runCmd(t, "detail", "9", "--source", e.source)
	assert.ErrorIs(t, err, dashboard.ErrRecordNotFound)

	_, err = runCmd(t, "detail", "first", "--source", e.source)
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	e := setupEnv(t)

	out := mustRun(t, "export", "--source", e.source, "--company", "TESLA", "--stdout")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "SL No.,Company,Model,Year,Range,City,County"))

	dir := filepath.Join(e.dir, "out")
	out = mustRun(t, "export", "--source", e.source, "--format", "json", "--out", dir)
	assert.Contains(t, out, "Exported 5 records")
	matches, err := filepath.Glob(filepath.Join(dir, "*", "ev_registrations.json"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	body, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(body), `"record_count": 5`)

	_, err = runCmd(t, "export", "--source", e.source, "--format", "xml")
	assert.Error(t, err)
}

func TestCharts(t *testing.T) {
	e := setupEnv(t)

	out := mustRun(t, "charts", "--source", e.source)
	for _, k := range []string{"make", "year", "pie"} {
		matches, err := filepath.Glob(filepath.Join(e.dir, "exports", "*", k+".svg"))
		require.NoError(t, err)
		assert.Len(t, matches, 1, k)
		assert.Contains(t, out, k+" chart:")
	}

	dir := filepath.Join(e.dir, "png")
	mustRun(t, "charts", "--source", e.source, "--kind", "year", "--format", "png", "--out", dir)
	matches, err := filepath.Glob(filepath.Join(dir, "*", "year.png"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)

	mustRun(t, "charts", "--source", e.source, "--kind", "year", "--year", "2019", "--out", dir)
	matches, err = filepath.Glob(filepath.Join(dir, "*", "year.svg"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)

	out = mustRun(t, "charts", "--source", e.source, "--kind", "make", "--city", "Nowhere", "--out", dir)
	assert.NotContains(t, out, "make chart:")

	_, err = runCmd(t, "charts", "--source", e.source, "--kind", "radar")
	assert.Error(t, err)
}

func TestLoads(t *testing.T) {
	e := setupEnv(t)

	out := mustRun(t, "loads")
	assert.Equal(t, "No loads recorded\n", out)

	st, err := store.Open(store.DriverSQLite, e.dsn)
	require.NoError(t, err)
	d, err := dashboard.New(dashboard.Options{Source: e.source, Timeout: time.Second, LoadLog: st})
	require.NoError(t, err)
	require.NoError(t, d.Load(context.Background()))
	require.NoError(t, st.Close())
	id := d.LoadInfo().ID

	out = mustRun(t, "loads")
	assert.Contains(t, out, id)
	assert.Contains(t, out, model.LoadSucceeded)

	out = mustRun(t, "loads", id)
	assert.Regexp(t, `Status:\s+succeeded`, out)
	assert.Regexp(t, `Rows:\s+5 read, 5 kept`, out)

	_, err = runCmd(t, "loads", "no-such-load")
	assert.ErrorIs(t, err, store.ErrLoadNotFound)
}

func TestConfigCommands(t *testing.T) {
	e := setupEnv(t)
	cfgFile := filepath.Join(e.dir, "config.yaml")

	out := mustRun(t, "config", "list", "--config", cfgFile)
	assert.Contains(t, out, "addr: :8080")
	assert.Contains(t, out, "chart_top_n: 10")

	mustRun(t, "config", "set", "chart_top_n", "5", "--config", cfgFile)
	assert.Equal(t, "5\n", mustRun(t, "config", "get", "chart_top_n", "--config", cfgFile))

	_, err := runCmd(t, "config", "set", "colour", "red", "--config", cfgFile)
	assert.Error(t, err)
	_, err = runCmd(t, "config", "set", "cache_size", "lots", "--config", cfgFile)
	assert.Error(t, err)
}
