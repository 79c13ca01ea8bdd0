// Package navguard decides, before each navigation, whether to proceed or
// redirect based on the presence of a session token.
package navguard

import (
	"context"
	"log/slog"

	"github.com/DukeRupert/kuidash/internal/domain"
	"github.com/DukeRupert/kuidash/internal/router"
	"github.com/DukeRupert/kuidash/internal/session"
)

// Default route names the guard redirects to.
const (
	DefaultLoginRoute     = "Login"
	DefaultDashboardRoute = "Dashboard"
)

// AuthGuard redirects unauthenticated users away from routes that require
// authentication and authenticated users away from guest-only routes.
//
// The token is read from the session.Store carried by the navigation
// context. Only its presence matters; the contents are not validated.
type AuthGuard struct {
	loginRoute     string
	dashboardRoute string
	tokenKey       string
	logger         *slog.Logger
}

// Config holds the route names and storage key the guard uses. Empty
// fields take the defaults.
type Config struct {
	LoginRoute     string
	DashboardRoute string
	TokenKey       string
}

// NewAuthGuard creates a guard.
func NewAuthGuard(cfg Config, logger *slog.Logger) *AuthGuard {
	if cfg.LoginRoute == "" {
		cfg.LoginRoute = DefaultLoginRoute
	}
	if cfg.DashboardRoute == "" {
		cfg.DashboardRoute = DefaultDashboardRoute
	}
	if cfg.TokenKey == "" {
		cfg.TokenKey = session.TokenKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthGuard{
		loginRoute:     cfg.LoginRoute,
		dashboardRoute: cfg.DashboardRoute,
		tokenKey:       cfg.TokenKey,
		logger:         logger,
	}
}

// Check is the router.Guard.
func (g *AuthGuard) Check(ctx context.Context, to, from domain.Location) router.Decision {
	store := session.StoreFrom(ctx)
	authenticated := session.HasToken(store, g.tokenKey)

	switch {
	case to.RequiresAuth() && !authenticated:
		g.logger.Debug("guard: authentication required",
			"to", to.FullPath,
			"redirect", g.loginRoute,
		)
		return router.Redirect(g.loginRoute)

	case to.RequiresGuest() && authenticated:
		token, _ := store.Get(g.tokenKey)
		g.logger.Debug("guard: already authenticated",
			"to", to.FullPath,
			"redirect", g.dashboardRoute,
			"token_fp", session.Fingerprint(token),
		)
		return router.Redirect(g.dashboardRoute)
	}

	return router.Next()
}

var _ router.Guard = (&AuthGuard{}).Check
