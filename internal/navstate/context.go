// Package navstate carries the outcome of a request's navigation in its
// context.
//
// This package is imported by both the middleware and handler packages
// without causing import cycles.
package navstate

import (
	"context"
	"net/http"

	"github.com/DukeRupert/kuidash/internal/domain"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const locationContextKey contextKey = "location"

// SetLocation stores the location a navigation settled on.
func SetLocation(ctx context.Context, loc domain.Location) context.Context {
	return context.WithValue(ctx, locationContextKey, loc)
}

// GetLocation retrieves the navigated location. ok is false for requests
// that did not pass through the navigation middleware.
func GetLocation(ctx context.Context) (domain.Location, bool) {
	loc, ok := ctx.Value(locationContextKey).(domain.Location)
	return loc, ok
}

// GetLocationFromRequest is GetLocation on the request context.
func GetLocationFromRequest(r *http.Request) (domain.Location, bool) {
	return GetLocation(r.Context())
}
