package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func echo(name string) HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(name + ":" + strings.Join(Wildcards(r), ",")))
	}
}

func newTestRouter() *Router {
	r := New()
	r.Quiet = true
	r.GET("/api/v1/sessions/*/view", echo("view"))
	r.GET("/api/v1/sessions/*/records/*", echo("record"))
	r.POST("/api/v1/sessions", echo("create"))
	r.PUT("/api/v1/sessions/*/filters", echo("put-filters"))
	r.POST("/api/v1/sessions/*/filters", echo("post-filters"))
	r.GET("/files/*", echo("files"))
	r.Mount("/swagger", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("swagger"))
	}))
	return r
}

func TestRouting(t *testing.T) {
	r := newTestRouter()

	tests := []struct {
		method, path string
		code         int
		body         string
	}{
		{"GET", "/api/v1/sessions/abc/view", 200, "view:abc"},
		{"GET", "/api/v1/sessions/abc/records/7", 200, "record:abc,7"},
		{"POST", "/api/v1/sessions", 200, "create:"},
		{"PUT", "/api/v1/sessions/abc/filters", 200, "put-filters:abc"},
		{"POST", "/api/v1/sessions/abc/filters", 200, "post-filters:abc"},
		{"GET", "/files/a/b/c.csv", 200, "files:a/b/c.csv"},
		{"GET", "/swagger/index.html", 200, "swagger"},
		{"DELETE", "/swagger/", 200, "swagger"},
		{"DELETE", "/api/v1/sessions/abc/view", 405, ""},
		{"GET", "/api/v1/sessions/abc/view/extra", 404, ""},
		{"GET", "/api/v1/sessions/abc", 404, ""},
		{"GET", "/files", 404, ""},
		{"GET", "/nope", 404, ""},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.Handler().ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.code, rec.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestRegistrationOrderWins(t *testing.T) {
	r := New()
	r.Quiet = true
	r.GET("/items/special", echo("special"))
	r.GET("/items/*", echo("generic"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/items/special", nil))
	assert.Equal(t, "special:", rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/items/other", nil))
	assert.Equal(t, "generic:other", rec.Body.String())

	assert.Equal(t, []string{"GET:/items/special", "GET:/items/*"}, r.Routes())
}

func TestWildcardOutOfRange(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	assert.Empty(t, Wildcard(req, 0))
	assert.Empty(t, Wildcard(req, -1))
}

func TestStatusCaptured(t *testing.T) {
	r := New()
	r.GET("/teapot", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/teapot", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
