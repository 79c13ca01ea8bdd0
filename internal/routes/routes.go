// Package routes defines the dashboard route table and wires the
// navigation hooks onto a router.
package routes

import (
	"fmt"
	"log/slog"

	"github.com/DukeRupert/kuidash/internal/domain"
	"github.com/DukeRupert/kuidash/internal/navguard"
	"github.com/DukeRupert/kuidash/internal/progress"
	"github.com/DukeRupert/kuidash/internal/router"
	"github.com/DukeRupert/kuidash/internal/ui"
)

// Route names.
const (
	Dashboard       = navguard.DefaultDashboardRoute
	Login           = navguard.DefaultLoginRoute
	Register        = "Register"
	Settings        = "Settings"
	SettingsProfile = "SettingsProfile"
	Users           = "Users"
	UserDetail      = "UserDetail"
	About           = "About"
)

// Default returns the dashboard route table.
func Default() []domain.Route {
	return []domain.Route{
		{Name: Dashboard, Path: "/", Meta: domain.RouteMeta{RequiresAuth: true}},
		{Name: Login, Path: "/login", Meta: domain.RouteMeta{RequiresGuest: true}},
		{Name: Register, Path: "/register", Meta: domain.RouteMeta{RequiresGuest: true}},
		{
			Name: Settings,
			Path: "/settings",
			Meta: domain.RouteMeta{RequiresAuth: true},
			Children: []domain.Route{
				{Name: SettingsProfile, Path: "profile"},
			},
		},
		{
			Name: Users,
			Path: "/users",
			Meta: domain.RouteMeta{RequiresAuth: true},
			Children: []domain.Route{
				{Name: UserDetail, Path: ":id"},
			},
		},
		{Name: About, Path: "/about"},
	}
}

// Options configures Setup.
type Options struct {
	Indicator         *progress.Indicator // Required
	SidebarBreakpoint int                 // Defaults to ui.DefaultBreakpoint
	Logger            *slog.Logger
}

// Setup builds a router for table and registers the navigation hooks.
//
// Before each navigation: the progress indicator starts, then the auth
// guard decides. After each navigation: the sidebar collapses on narrow
// viewports, then the progress indicator completes.
func Setup(table []domain.Route, opts Options) (*router.Router, error) {
	if opts.Indicator == nil {
		return nil, domain.Invalid("routes.setup", "progress indicator is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	r, err := router.New(table, opts.Logger)
	if err != nil {
		return nil, fmt.Errorf("build router: %w", err)
	}
	for _, name := range []string{Login, Dashboard} {
		if !r.HasRoute(name) {
			return nil, domain.Invalid("routes.setup", fmt.Sprintf("route table has no %q route", name))
		}
	}

	guard := navguard.NewAuthGuard(navguard.Config{}, opts.Logger)

	r.BeforeEach(progress.StartHook(opts.Indicator))
	r.BeforeEach(guard.Check)
	r.AfterEach(ui.CollapseHook(opts.SidebarBreakpoint))
	r.AfterEach(progress.DoneHook(opts.Indicator))

	return r, nil
}
