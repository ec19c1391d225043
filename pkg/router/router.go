package router

import (
	"bufio"
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"strings"
	"time"
)

// --- ANSI color codes ---
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
)

type HandlerFunc func(http.ResponseWriter, *http.Request)

type route struct {
	method   string
	pattern  string
	segments []string
	handler  HandlerFunc
}

type mount struct {
	prefix  string
	handler http.Handler
}

// Router matches routes in registration order. A "*" segment matches any
// single path segment; a trailing "*" matches the rest of the path.
type Router struct {
	routes []route
	mounts []mount
	// Quiet disables the request log line.
	Quiet bool
}

func New() *Router {
	return &Router{}
}

type wildcardKey struct{}

// Wildcards returns the path segments matched by "*" in the route, in order.
// A trailing "*" yields the remaining path joined with "/".
func Wildcards(r *http.Request) []string {
	w, _ := r.Context().Value(wildcardKey{}).([]string)
	return w
}

// Wildcard returns the i-th wildcard value or "".
func Wildcard(r *http.Request, i int) string {
	w := Wildcards(r)
	if i < 0 || i >= len(w) {
		return ""
	}
	return w[i]
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// matchRoute checks if a request path matches a route pattern and returns the
// values captured by its wildcards.
func matchRoute(requestSegments, routeSegments []string) ([]string, bool) {
	var captured []string
	for i, seg := range routeSegments {
		last := i == len(routeSegments)-1
		if seg == "*" && last {
			// trailing wildcard: one or more remaining segments
			if len(requestSegments) <= i {
				return nil, false
			}
			return append(captured, strings.Join(requestSegments[i:], "/")), true
		}
		if i >= len(requestSegments) {
			return nil, false
		}
		if seg == "*" {
			captured = append(captured, requestSegments[i])
			continue
		}
		if requestSegments[i] != seg {
			return nil, false
		}
	}
	if len(requestSegments) != len(routeSegments) {
		return nil, false
	}
	return captured, true
}

// ServeHTTP dispatches to mounts first, then to the first matching route.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	start := time.Now()
	lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

	r.dispatch(lrw, req)

	if r.Quiet {
		return
	}
	duration := time.Since(start)
	color := statusColor(lrw.statusCode)
	methodColor := methodColor(req.Method)

	log.Printf("%s[%s]%s %s%s%s %s %s%d%s %s(%v)%s",
		colorCyan, start.Format("2006-01-02 15:04:05"), colorReset,
		methodColor, req.Method, colorReset,
		req.URL.Path,
		color, lrw.statusCode, colorReset,
		colorBlue, duration, colorReset,
	)
}

func (r *Router) dispatch(w http.ResponseWriter, req *http.Request) {
	for _, m := range r.mounts {
		if req.URL.Path == strings.TrimSuffix(m.prefix, "/") || strings.HasPrefix(req.URL.Path, m.prefix) {
			m.handler.ServeHTTP(w, req)
			return
		}
	}

	segments := splitPath(req.URL.Path)
	pathExists := false
	for _, rt := range r.routes {
		captured, ok := matchRoute(segments, rt.segments)
		if !ok {
			continue
		}
		if rt.method != req.Method {
			pathExists = true
			continue
		}
		if len(captured) > 0 {
			req = req.WithContext(context.WithValue(req.Context(), wildcardKey{}, captured))
		}
		rt.handler(w, req)
		return
	}

	if pathExists {
		// Path exists but method not allowed
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	http.Error(w, "Not Found", http.StatusNotFound)
}

// --- Register paths ---
func (r *Router) register(method, path string, handler HandlerFunc) {
	r.routes = append(r.routes, route{
		method:   method,
		pattern:  path,
		segments: splitPath(path),
		handler:  handler,
	})
}

func (r *Router) GET(path string, handler HandlerFunc)   { r.register(http.MethodGet, path, handler) }
func (r *Router) POST(path string, handler HandlerFunc)  { r.register(http.MethodPost, path, handler) }
func (r *Router) PUT(path string, handler HandlerFunc)   { r.register(http.MethodPut, path, handler) }
func (r *Router) PATCH(path string, handler HandlerFunc) { r.register(http.MethodPatch, path, handler) }
func (r *Router) DELETE(path string, handler HandlerFunc) {
	r.register(http.MethodDelete, path, handler)
}

// Mount hands every request under prefix to h, whatever the method.
func (r *Router) Mount(prefix string, h http.Handler) {
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	r.mounts = append(r.mounts, mount{prefix: prefix, handler: h})
}

// Routes lists registered routes as "METHOD:PATH" in matching order.
func (r *Router) Routes() []string {
	out := make([]string, len(r.routes))
	for i, rt := range r.routes {
		out[i] = rt.method + ":" + rt.pattern
	}
	return out
}

// Handler exposes the router, e.g. for httptest.
func (r *Router) Handler() http.Handler {
	return r
}

// --- Start server ---
func (r *Router) Start(addr string) error {
	log.Printf("🚀 Server started on %shttp://localhost%s%s", colorGreen, addr, colorReset)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// --- Logging response writer to capture status codes ---
type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

// Hijack lets websocket upgrades through.
func (lrw *loggingResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := lrw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	lrw.statusCode = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (lrw *loggingResponseWriter) Flush() {
	if f, ok := lrw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// --- Color helpers ---
func statusColor(code int) string {
	switch {
	case code >= 200 && code < 300:
		return colorGreen
	case code >= 300 && code < 400:
		return colorCyan
	case code >= 400 && code < 500:
		return colorYellow
	default:
		return colorRed
	}
}

func methodColor(method string) string {
	switch method {
	case http.MethodGet:
		return colorGreen
	case http.MethodPost:
		return colorBlue
	case http.MethodPut:
		return colorYellow
	case http.MethodPatch:
		return colorYellow
	case http.MethodDelete:
		return colorRed
	default:
		return colorCyan
	}
}
