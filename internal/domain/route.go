// Package domain contains the core types shared by the router, the guards
// and the HTTP layer: route definitions, resolved locations and errors.
package domain

import (
	"net/url"
	"strings"
)

// RouteMeta holds the declarative flags a route carries for guards.
type RouteMeta struct {
	RequiresAuth  bool // Only reachable with a session token
	RequiresGuest bool // Only reachable without a session token
}

// Route is a declarative route definition.
//
// Child paths are joined to the parent path unless they start with "/".
// A path segment starting with ":" is a named parameter.
type Route struct {
	Name     string
	Path     string
	Meta     RouteMeta
	Children []Route
}

// RouteRecord is one entry of a matched route chain, with its full path.
type RouteRecord struct {
	Name string
	Path string
	Meta RouteMeta
}

// Location is a resolved navigation target.
type Location struct {
	Name     string            // Name of the leaf record (may be empty)
	Path     string            // Path without query
	FullPath string            // Path with encoded query
	Query    url.Values        // Parsed query parameters
	Params   map[string]string // Values of ":param" segments
	Matched  []RouteRecord     // Records from outermost parent to leaf
}

// RequiresAuth reports whether any matched record requires authentication.
func (l Location) RequiresAuth() bool {
	for _, rec := range l.Matched {
		if rec.Meta.RequiresAuth {
			return true
		}
	}
	return false
}

// RequiresGuest reports whether any matched record is guest-only.
func (l Location) RequiresGuest() bool {
	for _, rec := range l.Matched {
		if rec.Meta.RequiresGuest {
			return true
		}
	}
	return false
}

// Same reports whether two locations resolve to the same record with the
// same full path. Unresolved locations never compare equal to resolved ones.
func (l Location) Same(other Location) bool {
	if l.FullPath != other.FullPath || len(l.Matched) != len(other.Matched) {
		return false
	}
	return len(l.Matched) > 0 && l.Name == other.Name
}

// IsZero reports whether the location was never resolved.
func (l Location) IsZero() bool {
	return l.Path == "" && len(l.Matched) == 0
}

// JoinPath joins a child route path to its parent path.
func JoinPath(parent, child string) string {
	if strings.HasPrefix(child, "/") {
		return CleanPath(child)
	}
	if child == "" {
		return CleanPath(parent)
	}
	return CleanPath(strings.TrimSuffix(parent, "/") + "/" + child)
}

// CleanPath normalizes a route path: leading slash, no trailing slash, no
// duplicate slashes. The root path is "/".
func CleanPath(p string) string {
	segments := strings.Split(p, "/")
	kept := segments[:0]
	for _, s := range segments {
		if s != "" {
			kept = append(kept, s)
		}
	}
	return "/" + strings.Join(kept, "/")
}
