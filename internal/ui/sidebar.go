// Package ui holds the shared interface state navigation hooks act on:
// the sidebar open flag and the viewport it is laid out in.
package ui

import (
	"context"
	"net/http"
	"strconv"
	"sync"

	"github.com/DukeRupert/kuidash/internal/domain"
	"github.com/DukeRupert/kuidash/internal/metrics"
	"github.com/DukeRupert/kuidash/internal/router"
)

// DefaultBreakpoint is the widest viewport, in pixels, on which the sidebar
// is collapsed after every navigation.
const DefaultBreakpoint = 1024

// Sidebar is the shared sidebar-open flag.
type Sidebar struct {
	mu   sync.RWMutex
	open bool
}

// NewSidebar creates a sidebar flag.
func NewSidebar(open bool) *Sidebar {
	return &Sidebar{open: open}
}

// IsOpen reports whether the sidebar is open.
func (s *Sidebar) IsOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.open
}

// SetOpen sets the flag.
func (s *Sidebar) SetOpen(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = open
}

// Toggle flips the flag and returns the new value.
func (s *Sidebar) Toggle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = !s.open
	return s.open
}

// Viewport reports the current inner width of the client window.
type Viewport interface {
	InnerWidth() int
}

// FixedViewport is a Viewport with a known width.
type FixedViewport int

func (v FixedViewport) InnerWidth() int { return int(v) }

// Client hint headers carrying the layout viewport width, in CSS pixels.
const (
	HeaderViewportWidth       = "Sec-CH-Viewport-Width"
	HeaderLegacyViewportWidth = "Viewport-Width"
)

// ViewportFromRequest reads the viewport width from client hints. ok is
// false when the client sent no usable hint.
func ViewportFromRequest(r *http.Request) (Viewport, bool) {
	for _, h := range []string{HeaderViewportWidth, HeaderLegacyViewportWidth} {
		raw := r.Header.Get(h)
		if raw == "" {
			continue
		}
		w, err := strconv.Atoi(raw)
		if err != nil || w <= 0 {
			continue
		}
		return FixedViewport(w), true
	}
	return nil, false
}

type contextKey string

const (
	viewportContextKey contextKey = "viewport"
	sidebarContextKey  contextKey = "sidebar"
)

// WithViewport returns a context carrying the viewport for one navigation.
func WithViewport(ctx context.Context, v Viewport) context.Context {
	return context.WithValue(ctx, viewportContextKey, v)
}

// ViewportFrom returns the viewport carried by ctx, if any.
func ViewportFrom(ctx context.Context) (Viewport, bool) {
	v, ok := ctx.Value(viewportContextKey).(Viewport)
	return v, ok && v != nil
}

// WithSidebar returns a context carrying the sidebar flag.
func WithSidebar(ctx context.Context, s *Sidebar) context.Context {
	return context.WithValue(ctx, sidebarContextKey, s)
}

// SidebarFrom returns the sidebar flag carried by ctx, if any.
func SidebarFrom(ctx context.Context) (*Sidebar, bool) {
	s, ok := ctx.Value(sidebarContextKey).(*Sidebar)
	return s, ok && s != nil
}

// CollapseHook returns an after hook that closes the sidebar when the
// viewport is at most breakpoint pixels wide. Wider viewports leave the
// flag unchanged. Without a viewport or sidebar in the context the hook
// does nothing.
func CollapseHook(breakpoint int) router.AfterHook {
	if breakpoint <= 0 {
		breakpoint = DefaultBreakpoint
	}
	return func(ctx context.Context, to, from domain.Location, failure error) {
		v, ok := ViewportFrom(ctx)
		if !ok {
			return
		}
		s, ok := SidebarFrom(ctx)
		if !ok {
			return
		}
		if v.InnerWidth() <= breakpoint && s.IsOpen() {
			s.SetOpen(false)
			metrics.SidebarCollapsed()
		}
	}
}
