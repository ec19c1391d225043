package api

import (
	"net/http"

	_ "ev-dashboard/docs"
	"ev-dashboard/internal/api/handler"
	"ev-dashboard/pkg/router"

	httpSwagger "github.com/swaggo/http-swagger"
)

// RegisterRoutes wires the dashboard API. metrics may be nil.
func RegisterRoutes(r *router.Router, h *handler.DashboardHandler, metrics http.Handler) {
	r.GET("/health", h.Health)
	r.GET("/api/v1/status", h.GetStatus)
	r.GET("/api/v1/loads", h.ListLoads)

	r.POST("/api/v1/sessions", h.CreateSession)
	// More specific routes first
	r.GET("/api/v1/sessions/*/view", h.GetView)
	r.PUT("/api/v1/sessions/*/filters", h.SetFilter)
	r.POST("/api/v1/sessions/*/filters", h.ReplaceFilters)
	r.POST("/api/v1/sessions/*/reset", h.Reset)
	r.POST("/api/v1/sessions/*/next", h.NextPage)
	r.POST("/api/v1/sessions/*/prev", h.PrevPage)
	r.GET("/api/v1/sessions/*/page", h.GotoPage)
	r.GET("/api/v1/sessions/*/records/*", h.GetRecord)
	r.GET("/api/v1/sessions/*/charts/*", h.GetChart)
	r.GET("/api/v1/sessions/*/export", h.ExportRecords)
	r.GET("/api/v1/sessions/*/ws", h.StreamView)
	// Generic session route last
	r.DELETE("/api/v1/sessions/*", h.DeleteSession)

	r.Mount("/swagger", httpSwagger.WrapHandler)
	if metrics != nil {
		r.Mount("/metrics", metrics)
	}
}
