package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

// UnmatchedRoute labels requests that settled on no route.
const UnmatchedRoute = "unmatched"

// catchAllPattern is the chi pattern shared by every page request; it says
// nothing about the route and is replaced by the navigation's route name.
const catchAllPattern = "/*"

type routeLabelKeyType struct{}

var routeLabelKey routeLabelKeyType

// routeLabel is filled in by the handlers that know which route served the
// request.
type routeLabel struct {
	name string
}

// SetRoute records the route that served the request. It is a no-op when
// the request does not pass through Middleware.
func SetRoute(ctx context.Context, name string) {
	if l, ok := ctx.Value(routeLabelKey).(*routeLabel); ok {
		l.name = name
	}
}

// statusRecorder captures the status code written by the handler.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.wroteHeader {
		sr.status = code
		sr.wroteHeader = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	sr.wroteHeader = true
	return sr.ResponseWriter.Write(b)
}

// Unwrap returns the underlying ResponseWriter for http.ResponseController.
func (sr *statusRecorder) Unwrap() http.ResponseWriter {
	return sr.ResponseWriter
}

// routeFor picks the label for a finished request: the route name set via
// SetRoute, else the chi pattern of an explicit route, else UnmatchedRoute.
// Raw paths are never used so junk URLs cannot create new series.
func routeFor(r *http.Request, l *routeLabel) string {
	if l.name != "" {
		return l.name
	}
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" && p != catchAllPattern {
			return p
		}
	}
	return UnmatchedRoute
}

// Middleware records HTTP request metrics labelled by route.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip metrics endpoint to avoid recursion
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		HTTPRequestsInFlight.Inc()
		defer HTTPRequestsInFlight.Dec()

		start := time.Now()
		label := &routeLabel{}
		sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		r = r.WithContext(context.WithValue(r.Context(), routeLabelKey, label))
		next.ServeHTTP(sr, r)

		route := routeFor(r, label)
		HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(sr.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
