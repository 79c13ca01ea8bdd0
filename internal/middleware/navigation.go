// Package middleware contains HTTP middleware for the dashboard.
//
// Middleware functions follow the standard Go pattern of wrapping http.Handler.
// They are designed to be composed using a middleware stack approach.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/DukeRupert/kuidash/internal/handler"
	"github.com/DukeRupert/kuidash/internal/metrics"
	"github.com/DukeRupert/kuidash/internal/navstate"
	"github.com/DukeRupert/kuidash/internal/router"
	"github.com/DukeRupert/kuidash/internal/session"
	"github.com/DukeRupert/kuidash/internal/ui"
)

// NavigationMiddleware treats every page request as a navigation from the
// start location and applies the router's guards and hooks to it.
//
// Per request it injects the state the hooks read:
// - the request cookies as the token store
// - the viewport width from client hints, when sent
// - the sidebar flag from its cookie
//
// A navigation that settles on a different route answers with a redirect
// to it; one that completes passes the request on with the location in its
// context (see navstate.GetLocation).
type NavigationMiddleware struct {
	router         *router.Router
	history        *router.WebHistory
	logger         *slog.Logger
	isSecure       bool
	sidebarDefault bool
}

// NavigationConfig holds the settings of NavigationMiddleware.
type NavigationConfig struct {
	IsSecure           bool // Set Secure on cookies (true in production)
	SidebarDefaultOpen bool // Sidebar flag when the client has no cookie
}

// NewNavigationMiddleware creates the navigation middleware.
func NewNavigationMiddleware(r *router.Router, history *router.WebHistory, logger *slog.Logger, cfg NavigationConfig) *NavigationMiddleware {
	return &NavigationMiddleware{
		router:         r,
		history:        history,
		logger:         logger,
		isSecure:       cfg.IsSecure,
		sidebarDefault: cfg.SidebarDefaultOpen,
	}
}

// Handler returns the middleware.
//
// Flow:
//
//	Request -> Handler -> next
//	           |
//	           +-> Skip non-GET/HEAD and paths outside the route table
//	           +-> Run guards (progress start, auth) and after hooks
//	           |   (sidebar collapse, progress done)
//	           +-> Persist a changed sidebar flag
//	           +-> Redirected: 303 to the final route (HX-Redirect for htmx)
//	           +-> Completed: call next with the location in context
func (m *NavigationMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}

		raw, ok := m.history.RoutePath(r.URL)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		to, err := m.router.Resolve(raw)
		if err != nil {
			// Not a route: static assets, 404s
			next.ServeHTTP(w, r)
			return
		}
		metrics.SetRoute(r.Context(), to.Name)

		sidebar := ui.NewSidebar(ui.SidebarOpenFromRequest(r, m.sidebarDefault))
		wasOpen := sidebar.IsOpen()

		ctx := session.WithStore(r.Context(), session.NewCookieStore(r))
		ctx = ui.WithSidebar(ctx, sidebar)
		if vp, ok := ui.ViewportFromRequest(r); ok {
			ctx = ui.WithViewport(ctx, vp)
		}

		final, err := m.router.Run(ctx, to, router.StartLocation)

		if open := sidebar.IsOpen(); open != wasOpen {
			ui.SetSidebarCookie(w, open, m.isSecure)
		}

		switch {
		case router.IsNavigationFailure(err, router.FailureAborted):
			handler.ForbiddenResponse(w, r, m.logger)
			return
		case router.IsNavigationFailure(err, router.FailureCancelled):
			// Client went away mid-navigation
			return
		case err != nil:
			handler.ErrorResponse(w, r, m.logger, err)
			return
		}

		metrics.SetRoute(r.Context(), final.Name)
		if final.FullPath != to.FullPath {
			href := m.history.Href(final)
			noteNavigation(r.Context(), final.Name, href)
			handler.Redirect(w, r, href)
			return
		}
		noteNavigation(r.Context(), final.Name, "")

		next.ServeHTTP(w, r.WithContext(navstate.SetLocation(ctx, final)))
	})
}

// Stack composes multiple middleware functions into a single middleware.
//
// Middleware is applied in the order provided, meaning the first middleware
// in the slice is the outermost (runs first on request, last on response).
func Stack(middlewares ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}
