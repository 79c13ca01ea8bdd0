package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/DukeRupert/kuidash/internal/csrf"
	"github.com/DukeRupert/kuidash/internal/domain"
	"github.com/DukeRupert/kuidash/internal/routes"
	"github.com/DukeRupert/kuidash/internal/session"
	"github.com/DukeRupert/kuidash/internal/templ/pages"
	"github.com/DukeRupert/kuidash/internal/ui"
	"github.com/google/uuid"
)

const (
	maxUsernameLength = 64
	minPasswordLength = 8
)

// Login handles the sign-in form. Any non-empty username with a password of
// minPasswordLength or more is accepted and issued an opaque session token;
// the guard only checks that a token is present.
//
// POST /login
func (h *PageHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.issueSession(w, r, routes.Login, "Sign in")
}

// Register handles the registration form. It behaves like Login.
//
// POST /register
func (h *PageHandler) Register(w http.ResponseWriter, r *http.Request) {
	h.issueSession(w, r, routes.Register, "Create account")
}

func (h *PageHandler) issueSession(w http.ResponseWriter, r *http.Request, route, title string) {
	if !h.validForm(w, r) {
		return
	}

	// Guests only, as on the GET side
	if session.HasToken(session.NewCookieStore(r), session.TokenKey) {
		Redirect(w, r, h.href(routes.Dashboard, nil))
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	var formErr string
	switch {
	case username == "":
		formErr = "Username is required"
	case len(username) > maxUsernameLength:
		formErr = "Username is too long"
	case len(password) < minPasswordLength:
		formErr = "Password must be at least 8 characters"
	}
	if formErr != "" {
		h.renderAuthForm(w, r, route, title, username, formErr)
		return
	}

	token := uuid.NewString()
	session.SetCookie(w, session.TokenKey, token, h.cfg.IsSecure)
	h.logger.Info("session issued",
		"route", route,
		"username", username,
		"token_fp", session.Fingerprint(token),
	)

	Redirect(w, r, h.href(routes.Dashboard, nil))
}

func (h *PageHandler) renderAuthForm(w http.ResponseWriter, r *http.Request, route, title, username, formErr string) {
	loc, err := h.router.ResolveName(route, nil)
	if err != nil {
		InternalErrorResponse(w, r, h.logger, err)
		return
	}
	token, err := csrf.EnsureToken(w, r, h.cfg.IsSecure)
	if err != nil {
		InternalErrorResponse(w, r, h.logger, err)
		return
	}

	data := h.authFormData(route, token, username, formErr)
	h.render(w, r, http.StatusUnprocessableEntity, loc, title, token, pages.AuthForm(title, data))
}

// authFormData builds the form for route, linking to the other auth form.
func (h *PageHandler) authFormData(route, csrfToken, username, formErr string) pages.AuthFormData {
	data := pages.AuthFormData{
		Action:    h.action("/login"),
		CSRFToken: csrfToken,
		Username:  username,
		Error:     formErr,
		AltHref:   h.href(routes.Register, nil),
		AltLabel:  "Create an account",
	}
	if route == routes.Register {
		data.Action = h.action("/register")
		data.AltHref = h.href(routes.Login, nil)
		data.AltLabel = "Already have an account? Sign in"
	}
	return data
}

// Logout clears the session token and returns to the sign-in page.
//
// POST /logout
func (h *PageHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if !h.validForm(w, r) {
		return
	}

	if token, ok := session.NewCookieStore(r).Get(session.TokenKey); ok {
		h.logger.Info("session cleared", "token_fp", session.Fingerprint(token))
	}
	session.ClearCookie(w, session.TokenKey, h.cfg.IsSecure)

	Redirect(w, r, h.href(routes.Login, nil))
}

// ToggleSidebar flips the sidebar flag and returns to the page it was
// toggled on.
//
// POST /sidebar/toggle
func (h *PageHandler) ToggleSidebar(w http.ResponseWriter, r *http.Request) {
	if !h.validForm(w, r) {
		return
	}

	sidebar := ui.NewSidebar(ui.SidebarOpenFromRequest(r, h.cfg.SidebarDefaultOpen))
	open := sidebar.Toggle()
	ui.SetSidebarCookie(w, open, h.cfg.IsSecure)

	h.logger.Debug("sidebar toggled", "open", open)

	returnTo := r.FormValue("return_to")
	if !isLocalPath(returnTo) {
		returnTo = h.href(routes.Dashboard, nil)
	}
	Redirect(w, r, returnTo)
}

// validForm parses the form and checks its CSRF token, answering 403
// when it does not match.
func (h *PageHandler) validForm(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid("handler.form", "Malformed form"))
		return false
	}
	if !csrf.ValidateRequest(r) {
		ForbiddenResponse(w, r, h.logger)
		return false
	}
	return true
}

// isLocalPath reports whether p is a same-origin absolute path.
func isLocalPath(p string) bool {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return false
	}
	u, err := url.Parse(p)
	return err == nil && u.Host == "" && u.Scheme == ""
}

// Redirect sends a See Other redirect, or an HX-Redirect for htmx requests
// so the whole page navigates instead of swapping a fragment.
func Redirect(w http.ResponseWriter, r *http.Request, href string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", href)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, href, http.StatusSeeOther)
}
