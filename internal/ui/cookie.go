package ui

import (
	"net/http"
	"strconv"

	"github.com/DukeRupert/kuidash/internal/session"
)

// SidebarCookieName stores the client's sidebar-open flag.
const SidebarCookieName = "sidebar_open"

// SidebarOpenFromRequest reads the sidebar flag cookie, falling back to def.
func SidebarOpenFromRequest(r *http.Request, def bool) bool {
	c, err := r.Cookie(SidebarCookieName)
	if err != nil {
		return def
	}
	open, err := strconv.ParseBool(c.Value)
	if err != nil {
		return def
	}
	return open
}

// SetSidebarCookie stores the sidebar flag on the client.
func SetSidebarCookie(w http.ResponseWriter, open bool, isSecure bool) {
	session.SetCookie(w, SidebarCookieName, strconv.FormatBool(open), isSecure)
}
