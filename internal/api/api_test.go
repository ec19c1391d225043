package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ev-dashboard/internal/api/handler"
	"ev-dashboard/internal/chart"
	"ev-dashboard/internal/dashboard"
	"ev-dashboard/internal/model"
	"ev-dashboard/pkg/router"

	"github.com/gorilla/websocket"
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

type stubLoads struct {
	loads []model.LoadInfo
	err   error
}

func (s stubLoads) ListLoads(_ context.Context, _ int) ([]model.LoadInfo, error) {
	return s.loads, s.err
}

func newDashboard(t *testing.T, load bool) *dashboard.Dashboard {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ev.csv")
	require.NoError(t, os.WriteFile(path, []byte(fleetCSV), 0o644))
	d, err := dashboard.New(dashboard.Options{Source: path, Timeout: time.Second})
	require.NoError(t, err)
	if load {
		require.NoError(t, d.Load(context.Background()))
	}
	return d
}

func setupRouter(d *dashboard.Dashboard, loads handler.LoadLister) http.Handler {
	r := router.New()
	r.Quiet = true
	h := handler.NewDashboardHandler(d, loads, chart.DefaultOptions(), 0)
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("evdash_load_total 1\n"))
	})
	RegisterRoutes(r, h, metrics)
	return r.Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func createSession(t *testing.T, h http.Handler) handler.SessionResponse {
	t.Helper()
	w := do(t, h, http.MethodPost, "/api/v1/sessions", "")
	require.Equal(t, http.StatusCreated, w.Code)
	var resp handler.SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.ID)
	return resp
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) model.View {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var v model.View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestHealthAndStatus(t *testing.T) {
	h := setupRouter(newDashboard(t, true), nil)

	w := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	createSession(t, h)
	w = do(t, h, http.MethodGet, "/api/v1/status", "")
	require.Equal(t, http.StatusOK, w.Code)
	var status handler.StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, model.StatusReady, status.Status)
	assert.Equal(t, model.LoadSucceeded, status.Load.Status)
	assert.Equal(t, 5, status.Load.Stats.Kept)
	assert.Equal(t, 1, status.Sessions)
}

func TestCreateSessionAndView(t *testing.T) {
	h := setupRouter(newDashboard(t, true), nil)
	resp := createSession(t, h)
	assert.Equal(t, 5, resp.View.Summary.Total)
	assert.Equal(t, 1, resp.View.State.Page)

	v := decodeView(t, do(t, h, http.MethodGet, "/api/v1/sessions/"+resp.ID+"/view", ""))
	assert.Equal(t, "TESLA (3)", v.Summary.TopMakeText)
	assert.Equal(t, "2013 (1)", v.Summary.TopYearText)
	require.NotNil(t, v.Summary.PeakYear)
	assert.Equal(t, "2020 (2)", v.Summary.PeakYear.Text())
	assert.Len(t, v.Page.Records, 5)
}

func TestSetFilter(t *testing.T) {
	h := setupRouter(newDashboard(t, true), nil)
	id := createSession(t, h).ID
	path := "/api/v1/sessions/" + id + "/filters"

	v := decodeView(t, do(t, h, http.MethodPut, path, `{"key":"model","value":"LEAF"}`))
	assert.Equal(t, 1, v.Summary.Total)

	v = decodeView(t, do(t, h, http.MethodPut, path, `{"key":"company","value":"TESLA"}`))
	assert.Equal(t, "TESLA", v.State.Filters.Company)
	assert.Empty(t, v.State.Filters.Model, "selecting a company clears the model")
	assert.Equal(t, 3, v.Summary.Total)
	assert.Equal(t, []string{"MODEL 3", "MODEL Y"}, v.Options.Model)

	w := do(t, h, http.MethodPut, path, `{"key":"colour","value":"red"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPut, path, `{"key":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReplaceFiltersAndReset(t *testing.T) {
	h := setupRouter(newDashboard(t, true), nil)
	id := createSession(t, h).ID
	base := "/api/v1/sessions/" + id

	v := decodeView(t, do(t, h, http.MethodPost, base+"/filters", `{"county":"Pierce","year":"2020"}`))
	assert.Equal(t, 1, v.Summary.Total)
	assert.Equal(t, "CHEVROLET (1)", v.Summary.TopMakeText)

	w := do(t, h, http.MethodPost, base+"/filters", `{"colour":"red"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	v = decodeView(t, do(t, h, http.MethodPost, base+"/reset", ""))
	assert.True(t, v.State.Filters.IsEmpty())
	assert.Equal(t, 5, v.Summary.Total)
}

func TestPaging(t *testing.T) {
	h := setupRouter(newDashboard(t, true), nil)
	id := createSession(t, h).ID
	base := "/api/v1/sessions/" + id

	v := decodeView(t, do(t, h, http.MethodPost, base+"/next", ""))
	assert.Equal(t, 1, v.Page.Number, "a single page cannot advance")

	v = decodeView(t, do(t, h, http.MethodGet, base+"/page?n=7", ""))
	assert.Equal(t, 1, v.Page.Number)
	assert.False(t, v.Page.HasNext)

	v = decodeView(t, do(t, h, http.MethodPost, base+"/prev", ""))
	assert.Equal(t, 1, v.Page.Number)

	w := do(t, h, http.MethodGet, base+"/page?n=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnknownSession(t *testing.T) {
	h := setupRouter(newDashboard(t, true), nil)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/sessions/nope/view"},
		{http.MethodPost, "/api/v1/sessions/nope/reset"},
		{http.MethodGet, "/api/v1/sessions/nope/records/1"},
		{http.MethodGet, "/api/v1/sessions/nope/ws"},
		{http.MethodDelete, "/api/v1/sessions/nope"},
	} {
		w := do(t, h, tc.method, tc.path, "")
		assert.Equal(t, http.StatusNotFound, w.Code, tc.path)
	}
}

func TestDeleteSession(t *testing.T) {
	h := setupRouter(newDashboard(t, true), nil)
	id := createSession(t, h).ID

	w := do(t, h, http.MethodDelete, "/api/v1/sessions/"+id, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodGet, "/api/v1/sessions/"+id+"/view", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetRecord(t *testing.T) {
	h := setupRouter(newDashboard(t, true), nil)
	id := createSession(t, h).ID
	base := "/api/v1/sessions/" + id

	w := do(t, h, http.MethodGet, base+"/records/3", "")
	require.Equal(t, http.StatusOK, w.Code)
	var detail model.RecordDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, 3, detail.SL)
	assert.Contains(t, w.Body.String(), "1N4AZ0CP3D")

	w = do(t, h, http.MethodGet, base+"/records/6", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodGet, base+"/records/x", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetChart(t *testing.T) {
	h := setupRouter(newDashboard(t, true), nil)
	id := createSession(t, h).ID
	base := "/api/v1/sessions/" + id

	w := do(t, h, http.MethodGet, base+"/charts/make", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "<svg")

	w = do(t, h, http.MethodGet, base+"/charts/pie?format=png", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	w = do(t, h, http.MethodGet, base+"/charts/radar", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodGet, base+"/charts/make?format=gif", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	do(t, h, http.MethodPut, base+"/filters", `{"key":"year","value":"2020"}`)
	w = do(t, h, http.MethodGet, base+"/charts/year", "")
	require.Equal(t, http.StatusOK, w.Code, "a single model year still charts")
	assert.Contains(t, w.Body.String(), "2020")

	do(t, h, http.MethodPost, base+"/reset", "")
	do(t, h, http.MethodPut, base+"/filters", `{"key":"city","value":"Nowhere"}`)
	w = do(t, h, http.MethodGet, base+"/charts/year", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestExportRecords(t *testing.T) {
	h := setupRouter(newDashboard(t, true), nil)
	id := createSession(t, h).ID
	base := "/api/v1/sessions/" + id

	do(t, h, http.MethodPut, base+"/filters", `{"key":"company","value":"TESLA"}`)

	w := do(t, h, http.MethodGet, base+"/export", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "ev_registrations.csv")
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	assert.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "SL No.,Company"))

	w = do(t, h, http.MethodGet, base+"/export?format=json", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), `"record_count": 3`)

	w = do(t, h, http.MethodGet, base+"/export?format=xml", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWhileLoading(t *testing.T) {
	h := setupRouter(newDashboard(t, false), nil)
	id := createSession(t, h).ID
	base := "/api/v1/sessions/" + id

	v := decodeView(t, do(t, h, http.MethodGet, base+"/view", ""))
	assert.Equal(t, model.StatusLoading, v.Status)
	assert.Equal(t, model.LoadingText, v.Summary.TotalText)

	w := do(t, h, http.MethodGet, base+"/export", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = do(t, h, http.MethodGet, base+"/records/1", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestListLoads(t *testing.T) {
	d := newDashboard(t, true)

	w := do(t, setupRouter(d, nil), http.MethodGet, "/api/v1/loads", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	loads := stubLoads{loads: []model.LoadInfo{{ID: "l1", Source: "ev.csv", Status: model.LoadSucceeded}}}
	w = do(t, setupRouter(d, loads), http.MethodGet, "/api/v1/loads?limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got []model.LoadInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "l1", got[0].ID)

	w = do(t, setupRouter(d, stubLoads{err: errors.New("db down")}), http.MethodGet, "/api/v1/loads", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestMountedHandlers(t *testing.T) {
	h := setupRouter(newDashboard(t, true), nil)

	w := do(t, h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "evdash_load_total")

	w = do(t, h, http.MethodGet, "/swagger/doc.json", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/sessions/{id}/filters")
}

func TestStreamView(t *testing.T) {
	srv := httptest.NewServer(setupRouter(newDashboard(t, true), nil))
	defer srv.Close()

	id := createSession(t, srv.Config.Handler).ID
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/sessions/" + id + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	type message struct {
		Type    string      `json:"type"`
		View    *model.View `json:"view"`
		Message string      `json:"message"`
	}
	read := func() message {
		t.Helper()
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		var m message
		require.NoError(t, conn.ReadJSON(&m))
		return m
	}

	first := read()
	require.Equal(t, "view", first.Type)
	assert.Equal(t, 5, first.View.Summary.Total)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "set_filter", "key": "county", "value": "King"}))
	m := read()
	require.Equal(t, "view", m.Type)
	assert.Equal(t, 3, m.View.Summary.Total)
	assert.Equal(t, "King", m.View.State.Filters.County)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "ping"}))
	assert.Equal(t, "pong", read().Type)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "explode"}))
	m = read()
	assert.Equal(t, "error", m.Type)
	assert.Contains(t, m.Message, "unsupported type")
}
