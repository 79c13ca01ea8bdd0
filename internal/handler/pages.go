// Package handler contains the HTTP handlers of the dashboard.
package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/DukeRupert/kuidash/internal/csrf"
	"github.com/DukeRupert/kuidash/internal/domain"
	"github.com/DukeRupert/kuidash/internal/navstate"
	"github.com/DukeRupert/kuidash/internal/router"
	"github.com/DukeRupert/kuidash/internal/routes"
	"github.com/DukeRupert/kuidash/internal/session"
	"github.com/DukeRupert/kuidash/internal/templ/pages"
	"github.com/DukeRupert/kuidash/internal/ui"
	"github.com/a-h/templ"
)

// User is an entry of the users directory shown on the Users pages.
type User struct {
	ID   string
	Name string
}

// DefaultUsers is the directory used when Config.Users is empty.
var DefaultUsers = []User{
	{ID: "1", Name: "Ada Lovelace"},
	{ID: "2", Name: "Grace Hopper"},
	{ID: "3", Name: "Margaret Hamilton"},
}

// Config holds handler settings.
type Config struct {
	IsSecure           bool   // Set Secure on cookies (true in production)
	SidebarDefaultOpen bool   // Sidebar flag when the client has no cookie
	Users              []User // Users directory
}

// PageHandler renders the dashboard pages and handles the forms posted
// from them.
type PageHandler struct {
	router  *router.Router
	history router.History
	logger  *slog.Logger
	cfg     Config
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(r *router.Router, history router.History, logger *slog.Logger, cfg Config) *PageHandler {
	if len(cfg.Users) == 0 {
		cfg.Users = DefaultUsers
	}
	return &PageHandler{
		router:  r,
		history: history,
		logger:  logger,
		cfg:     cfg,
	}
}

// ShowPage renders the page for the location the navigation settled on.
// Requests that did not navigate (unknown paths) get a 404.
func (h *PageHandler) ShowPage(w http.ResponseWriter, r *http.Request) {
	loc, ok := navstate.GetLocationFromRequest(r)
	if !ok {
		NotFoundResponse(w, r, h.logger)
		return
	}

	csrfToken, err := csrf.EnsureToken(w, r, h.cfg.IsSecure)
	if err != nil {
		InternalErrorResponse(w, r, h.logger, err)
		return
	}

	var (
		title   string
		content templ.Component
	)
	switch loc.Name {
	case routes.Dashboard:
		title, content = "Dashboard", pages.Dashboard()
	case routes.Login:
		title, content = "Sign in", pages.AuthForm("Sign in", h.authFormData(routes.Login, csrfToken, "", ""))
	case routes.Register:
		title, content = "Create account", pages.AuthForm("Create account", h.authFormData(routes.Register, csrfToken, "", ""))
	case routes.Settings:
		title, content = "Settings", pages.Settings(h.href(routes.SettingsProfile, nil))
	case routes.SettingsProfile:
		title, content = "Profile", pages.Profile()
	case routes.Users:
		title, content = "Users", pages.Users(h.userRows())
	case routes.UserDetail:
		user, found := h.findUser(loc.Params["id"])
		if !found {
			NotFoundResponse(w, r, h.logger)
			return
		}
		title, content = user.Name, pages.UserDetail(user.Name)
	case routes.About:
		title, content = "About", pages.About()
	default:
		NotFoundResponse(w, r, h.logger)
		return
	}

	h.render(w, r, http.StatusOK, loc, title, csrfToken, content)
}

// render writes content inside the application shell.
func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, status int, loc domain.Location, title, csrfToken string, content templ.Component) {
	// Navigated requests carry the sidebar as the hooks left it
	open := ui.SidebarOpenFromRequest(r, h.cfg.SidebarDefaultOpen)
	if sidebar, ok := ui.SidebarFrom(r.Context()); ok {
		open = sidebar.IsOpen()
	}

	authenticated := session.HasToken(session.NewCookieStore(r), session.TokenKey)
	data := pages.ShellData{
		Title:         title,
		Nav:           h.navLinks(loc, authenticated),
		SidebarOpen:   open,
		Authenticated: authenticated,
		CSRFToken:     csrfToken,
		ToggleAction:  h.action("/sidebar/toggle"),
		LogoutAction:  h.action("/logout"),
		ReturnTo:      h.history.Href(loc),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pages.Shell(data, content).Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render page", "route", loc.Name, "error", err)
	}
}

func (h *PageHandler) navLinks(loc domain.Location, authenticated bool) []pages.NavLink {
	type entry struct{ name, label string }
	entries := []entry{{routes.Login, "Sign in"}, {routes.Register, "Create account"}, {routes.About, "About"}}
	if authenticated {
		entries = []entry{{routes.Dashboard, "Dashboard"}, {routes.Users, "Users"}, {routes.Settings, "Settings"}, {routes.About, "About"}}
	}

	links := make([]pages.NavLink, 0, len(entries))
	for _, e := range entries {
		if !h.router.HasRoute(e.name) {
			continue
		}
		links = append(links, pages.NavLink{
			Label:  e.label,
			Href:   h.href(e.name, nil),
			Active: matches(loc, e.name),
		})
	}
	return links
}

// matches reports whether name is one of the records loc matched.
func matches(loc domain.Location, name string) bool {
	for _, rec := range loc.Matched {
		if rec.Name == name {
			return true
		}
	}
	return false
}

// href returns the link to a named route, or the history base when the
// route cannot be built.
func (h *PageHandler) href(name string, params map[string]string) string {
	loc, err := h.router.ResolveName(name, params)
	if err != nil {
		h.logger.Warn("cannot build link", "route", name, "error", err)
		return h.history.Href(domain.Location{Path: "/", FullPath: "/"})
	}
	return h.history.Href(loc)
}

// action returns the URL of a form endpoint mounted under the history base.
func (h *PageHandler) action(p string) string {
	if b, ok := h.history.(interface{ Base() string }); ok {
		return strings.TrimSuffix(b.Base(), "/") + p
	}
	return p
}

func (h *PageHandler) userRows() []pages.UserRow {
	rows := make([]pages.UserRow, 0, len(h.cfg.Users))
	for _, u := range h.cfg.Users {
		rows = append(rows, pages.UserRow{
			ID:   u.ID,
			Name: u.Name,
			Href: h.href(routes.UserDetail, map[string]string{"id": u.ID}),
		})
	}
	return rows
}

func (h *PageHandler) findUser(id string) (User, bool) {
	for _, u := range h.cfg.Users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}
