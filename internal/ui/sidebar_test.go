package ui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DukeRupert/kuidash/internal/domain"
	"github.com/DukeRupert/kuidash/internal/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCollapse(ctx context.Context, breakpoint int) {
	CollapseHook(breakpoint)(ctx, domain.Location{}, router.StartLocation, nil)
}

func TestCollapseHook(t *testing.T) {
	tests := []struct {
		name     string
		width    int
		open     bool
		wantOpen bool
	}{
		{"narrow viewport closes open sidebar", 800, true, false},
		{"breakpoint width closes", 1024, true, false},
		{"one pixel wider leaves open", 1025, true, true},
		{"wide viewport leaves open", 1280, true, true},
		{"wide viewport leaves closed", 1280, false, false},
		{"narrow viewport keeps closed", 800, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSidebar(tt.open)
			ctx := WithSidebar(WithViewport(context.Background(), FixedViewport(tt.width)), s)

			runCollapse(ctx, DefaultBreakpoint)
			assert.Equal(t, tt.wantOpen, s.IsOpen())
		})
	}
}

func TestCollapseHook_MissingState(t *testing.T) {
	s := NewSidebar(true)

	// No viewport: unknown width, leave the flag alone.
	runCollapse(WithSidebar(context.Background(), s), DefaultBreakpoint)
	assert.True(t, s.IsOpen())

	// No sidebar: nothing to do, must not panic.
	assert.NotPanics(t, func() {
		runCollapse(WithViewport(context.Background(), FixedViewport(320)), DefaultBreakpoint)
	})
}

func TestCollapseHook_DefaultsBreakpoint(t *testing.T) {
	s := NewSidebar(true)
	ctx := WithSidebar(WithViewport(context.Background(), FixedViewport(1000)), s)

	runCollapse(ctx, 0)
	assert.False(t, s.IsOpen())
}

func TestCollapseHook_RunsAfterNavigation(t *testing.T) {
	r, err := router.New([]domain.Route{{Name: "About", Path: "/about"}}, nil)
	require.NoError(t, err)
	r.AfterEach(CollapseHook(DefaultBreakpoint))

	s := NewSidebar(true)
	ctx := WithSidebar(WithViewport(context.Background(), FixedViewport(800)), s)

	to, _ := r.Resolve("/about")
	_, err = r.Run(ctx, to, router.StartLocation)
	require.NoError(t, err)
	assert.False(t, s.IsOpen())
}

func TestSidebarToggle(t *testing.T) {
	s := NewSidebar(false)
	assert.True(t, s.Toggle())
	assert.False(t, s.Toggle())
	s.SetOpen(true)
	assert.True(t, s.IsOpen())
}

func TestViewportFromRequest(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    int
		wantOK  bool
	}{
		{"no hints", nil, 0, false},
		{"client hint", map[string]string{HeaderViewportWidth: "800"}, 800, true},
		{"legacy hint", map[string]string{HeaderLegacyViewportWidth: "1280"}, 1280, true},
		{"client hint preferred", map[string]string{HeaderViewportWidth: "640", HeaderLegacyViewportWidth: "1280"}, 640, true},
		{"invalid falls through", map[string]string{HeaderViewportWidth: "wide", HeaderLegacyViewportWidth: "900"}, 900, true},
		{"non-positive rejected", map[string]string{HeaderViewportWidth: "0"}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			v, ok := ViewportFromRequest(req)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, v.InnerWidth())
			}
		})
	}
}

func TestSidebarClasses(t *testing.T) {
	open := SidebarClasses(true)
	closed := SidebarClasses(false)

	assert.Contains(t, strings.Fields(open), "translate-x-0")
	assert.Contains(t, strings.Fields(closed), "-translate-x-full")
	assert.NotContains(t, strings.Fields(closed), "translate-x-0")
}

func TestContentClasses_MergesConflicts(t *testing.T) {
	classes := strings.Fields(ContentClasses("p-2"))

	assert.Contains(t, classes, "p-2")
	assert.NotContains(t, classes, "p-6")
}
