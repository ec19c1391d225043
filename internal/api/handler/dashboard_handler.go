package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ev-dashboard/internal/chart"
	"ev-dashboard/internal/dashboard"
	"ev-dashboard/internal/model"
	"ev-dashboard/internal/pipeline"
	"ev-dashboard/internal/store"
	"ev-dashboard/pkg/router"
)

// LoadLister reads the load log; *store.Store satisfies it.
type LoadLister interface {
	ListLoads(ctx context.Context, limit int) ([]model.LoadInfo, error)
}

// DashboardHandler serves the dashboard over HTTP.
type DashboardHandler struct {
	dash         *dashboard.Dashboard
	loads        LoadLister
	chartOpts    chart.Options
	pingInterval time.Duration
}

// NewDashboardHandler wires the handler; loads may be nil.
func NewDashboardHandler(d *dashboard.Dashboard, loads LoadLister, chartOpts chart.Options, pingInterval time.Duration) *DashboardHandler {
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	return &DashboardHandler{
		dash:         d,
		loads:        loads,
		chartOpts:    chartOpts,
		pingInterval: pingInterval,
	}
}

// FilterRequest sets a single filter.
type FilterRequest struct {
	Key   string `json:"key" example:"company"`
	Value string `json:"value" example:"TESLA"`
}

// SessionResponse is returned when a session is created.
type SessionResponse struct {
	ID   string     `json:"id"`
	View model.View `json:"view"`
}

// StatusResponse reports the dataset state.
type StatusResponse struct {
	Status   model.LoadStatus `json:"status"`
	Load     model.LoadInfo   `json:"load"`
	Sessions int              `json:"sessions"`
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, dashboard.ErrSessionNotFound),
		errors.Is(err, dashboard.ErrRecordNotFound),
		errors.Is(err, store.ErrLoadNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, model.ErrUnknownFilter),
		errors.Is(err, chart.ErrUnknownKind),
		errors.Is(err, chart.ErrUnknownFormat),
		errors.Is(err, pipeline.ErrUnknownFormat):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, dashboard.ErrNotLoaded):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *DashboardHandler) session(w http.ResponseWriter, r *http.Request) (*dashboard.Session, bool) {
	s, err := h.dash.Session(router.Wildcard(r, 0))
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return s, true
}

// Health reports liveness
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *DashboardHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetStatus reports the dataset load state
// @Summary Dataset status
// @Description Load status ("loading" until the dataset is ready, also after a failed load) and load details
// @Tags dataset
// @Produce json
// @Success 200 {object} StatusResponse
// @Router /status [get]
func (h *DashboardHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{
		Status:   h.dash.Status(),
		Load:     h.dash.LoadInfo(),
		Sessions: h.dash.SessionCount(),
	})
}

// ListLoads returns the load history
// @Summary List dataset loads
// @Description Every dataset load attempt recorded in the load log, newest first
// @Tags dataset
// @Produce json
// @Param limit query int false "Maximum number of loads"
// @Success 200 {array} model.LoadInfo
// @Failure 500 {string} string "Internal server error"
// @Router /loads [get]
func (h *DashboardHandler) ListLoads(w http.ResponseWriter, r *http.Request) {
	if h.loads == nil {
		writeJSON(w, http.StatusOK, []model.LoadInfo{})
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	loads, err := h.loads.ListLoads(r.Context(), limit)
	if err != nil {
		http.Error(w, "Failed to fetch loads", http.StatusInternalServerError)
		return
	}
	if loads == nil {
		loads = []model.LoadInfo{}
	}
	writeJSON(w, http.StatusOK, loads)
}

// CreateSession starts a dashboard session
// @Summary Create session
// @Description Start a session with no filters on page 1
// @Tags sessions
// @Produce json
// @Success 201 {object} SessionResponse
// @Router /sessions [post]
func (h *DashboardHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	s := h.dash.NewSession()
	writeJSON(w, http.StatusCreated, SessionResponse{ID: s.ID, View: s.View()})
}

// DeleteSession closes a session
// @Summary Close session
// @Tags sessions
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {string} string "Session not found"
// @Router /sessions/{id} [delete]
func (h *DashboardHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.dash.CloseSession(router.Wildcard(r, 0)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetView returns the current view
// @Summary Get view
// @Description Summary, aggregates, filter options and the current table page
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} model.View
// @Failure 404 {string} string "Session not found"
// @Router /sessions/{id}/view [get]
func (h *DashboardHandler) GetView(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.View())
}

// SetFilter changes one filter
// @Summary Set filter
// @Description Set one of city, county, company, model or year. Selecting a company clears the model. Returns to page 1.
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param filter body FilterRequest true "Filter key and value (empty value clears)"
// @Success 200 {object} model.View
// @Failure 400 {string} string "Invalid JSON payload or unknown filter key"
// @Failure 404 {string} string "Session not found"
// @Router /sessions/{id}/filters [put]
func (h *DashboardHandler) SetFilter(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req FilterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	v, err := s.SetFilter(model.FilterKey(req.Key), req.Value)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// ReplaceFilters sets every filter at once
// @Summary Replace filters
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param filters body model.FilterState true "Complete filter state"
// @Success 200 {object} model.View
// @Failure 400 {string} string "Invalid JSON payload"
// @Failure 404 {string} string "Session not found"
// @Router /sessions/{id}/filters [post]
func (h *DashboardHandler) ReplaceFilters(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var f model.FilterState
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, s.SetFilters(f))
}

// Reset clears all filters
// @Summary Reset filters
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} model.View
// @Failure 404 {string} string "Session not found"
// @Router /sessions/{id}/reset [post]
func (h *DashboardHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if s, ok := h.session(w, r); ok {
		writeJSON(w, http.StatusOK, s.Reset())
	}
}

// NextPage moves forward one page
// @Summary Next page
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} model.View
// @Failure 404 {string} string "Session not found"
// @Router /sessions/{id}/next [post]
func (h *DashboardHandler) NextPage(w http.ResponseWriter, r *http.Request) {
	if s, ok := h.session(w, r); ok {
		writeJSON(w, http.StatusOK, s.NextPage())
	}
}

// PrevPage moves back one page
// @Summary Previous page
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} model.View
// @Failure 404 {string} string "Session not found"
// @Router /sessions/{id}/prev [post]
func (h *DashboardHandler) PrevPage(w http.ResponseWriter, r *http.Request) {
	if s, ok := h.session(w, r); ok {
		writeJSON(w, http.StatusOK, s.PrevPage())
	}
}

// GotoPage jumps to a page
// @Summary Go to page
// @Description Out-of-range pages are clamped
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Param n query int true "Page number"
// @Success 200 {object} model.View
// @Failure 400 {string} string "Invalid page number"
// @Failure 404 {string} string "Session not found"
// @Router /sessions/{id}/page [get]
func (h *DashboardHandler) GotoPage(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	n, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("n")))
	if err != nil {
		http.Error(w, "Invalid page number", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, s.GotoPage(n))
}

// GetRecord returns one record's details
// @Summary Record detail
// @Description Details of the record shown as row SL (1-based) of the filtered table
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Param sl path int true "Row number"
// @Success 200 {object} model.RecordDetail
// @Failure 400 {string} string "Invalid row number"
// @Failure 404 {string} string "Session or record not found"
// @Router /sessions/{id}/records/{sl} [get]
func (h *DashboardHandler) GetRecord(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	sl, err := strconv.Atoi(router.Wildcard(r, 1))
	if err != nil {
		http.Error(w, "Invalid row number", http.StatusBadRequest)
		return
	}
	detail, err := s.Detail(sl)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// GetChart renders a chart of the filtered data
// @Summary Chart
// @Description Top companies bar chart (make), registrations per model year (year) or company share (pie)
// @Tags charts
// @Produce image/svg+xml
// @Produce image/png
// @Param id path string true "Session ID"
// @Param kind path string true "make, year or pie"
// @Param format query string false "svg (default) or png"
// @Success 200 {file} file
// @Success 204 "No data to chart"
// @Failure 400 {string} string "Unknown chart kind or format"
// @Failure 404 {string} string "Session not found"
// @Router /sessions/{id}/charts/{kind} [get]
func (h *DashboardHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	kind, err := chart.ParseKind(router.Wildcard(r, 1))
	if err != nil {
		writeError(w, err)
		return
	}
	format, err := chart.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, err)
		return
	}

	var buf bytes.Buffer
	err = chart.Render(&buf, kind, format, s.View(), h.chartOpts)
	if errors.Is(err, chart.ErrNoData) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Write(buf.Bytes())
}

// ExportRecords downloads the filtered records
// @Summary Export
// @Tags sessions
// @Produce text/csv
// @Produce json
// @Param id path string true "Session ID"
// @Param format query string false "csv (default) or json"
// @Success 200 {file} file
// @Failure 400 {string} string "Unknown format"
// @Failure 404 {string} string "Session not found"
// @Failure 503 {string} string "Dataset not loaded"
// @Router /sessions/{id}/export [get]
func (h *DashboardHandler) ExportRecords(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = "csv"
	}

	var buf bytes.Buffer
	if _, err := s.Export(&buf, format); err != nil {
		writeError(w, err)
		return
	}
	contentType := "text/csv"
	if format == "json" {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "ev_registrations."+format))
	w.Write(buf.Bytes())
}
