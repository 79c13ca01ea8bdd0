package router

import (
	"net/url"
	"strings"

	"github.com/DukeRupert/kuidash/internal/domain"
)

// History maps locations to hrefs and URLs back to route paths.
type History interface {
	// Href returns the link for a location.
	Href(loc domain.Location) string
	// RoutePath extracts the route path (with query) from a URL. ok is
	// false when the URL is outside the history base.
	RoutePath(u *url.URL) (path string, ok bool)
}

// HashHistory keeps the route in the URL fragment ("#/settings").
type HashHistory struct {
	base string
}

// NewHashHistory creates a hash history under base.
func NewHashHistory(base string) *HashHistory {
	return &HashHistory{base: normalizeBase(base)}
}

// Base returns the document path the hash routes live under.
func (h *HashHistory) Base() string {
	if h.base == "" {
		return "/"
	}
	return h.base + "/"
}

func (h *HashHistory) Href(loc domain.Location) string {
	return "#" + loc.FullPath
}

func (h *HashHistory) RoutePath(u *url.URL) (string, bool) {
	doc := u.EscapedPath()
	if h.base != "" && doc != "" && doc != h.base && !strings.HasPrefix(doc, h.base+"/") {
		return "", false
	}
	fragment := u.EscapedFragment()
	if fragment == "" {
		return "/", true
	}
	return fragment, true
}

// WebHistory keeps the route in the URL path under a base prefix.
type WebHistory struct {
	base string
}

// NewWebHistory creates a path history under base ("" or "/" for root).
func NewWebHistory(base string) *WebHistory {
	return &WebHistory{base: normalizeBase(base)}
}

// Base returns the path prefix, "" when mounted at the root.
func (h *WebHistory) Base() string {
	return h.base
}

func (h *WebHistory) Href(loc domain.Location) string {
	if h.base == "" {
		return loc.FullPath
	}
	if loc.Path == "/" {
		return h.base + strings.TrimPrefix(loc.FullPath, "/")
	}
	return h.base + loc.FullPath
}

// RoutePath keeps the path escaped so that an encoded "?" or "#" stays
// part of its segment; Router.Resolve unescapes segments after splitting.
func (h *WebHistory) RoutePath(u *url.URL) (string, bool) {
	path := u.EscapedPath()
	if h.base != "" {
		switch {
		case path == h.base:
			path = "/"
		case strings.HasPrefix(path, h.base+"/"):
			path = strings.TrimPrefix(path, h.base)
		default:
			return "", false
		}
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return path, true
}

func normalizeBase(base string) string {
	base = domain.CleanPath(base)
	if base == "/" {
		return ""
	}
	return base
}

var (
	_ History = (*HashHistory)(nil)
	_ History = (*WebHistory)(nil)
)
