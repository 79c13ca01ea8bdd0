package routes

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/DukeRupert/kuidash/internal/domain"
	"github.com/DukeRupert/kuidash/internal/progress"
	"github.com/DukeRupert/kuidash/internal/router"
	"github.com/DukeRupert/kuidash/internal/session"
	"github.com/DukeRupert/kuidash/internal/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSetup(t *testing.T) (*router.Router, *progress.Indicator) {
	t.Helper()
	ind := progress.New(progress.Options{OnChange: func(float64) {}})
	r, err := Setup(Default(), Options{
		Indicator: ind,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	return r, ind
}

// navContext builds the per-navigation state a client carries.
func navContext(token string, width int, sidebar *ui.Sidebar) context.Context {
	values := map[string]string{}
	if token != "" {
		values[session.TokenKey] = token
	}
	ctx := session.WithStore(context.Background(), session.NewMemoryStore(values))
	ctx = ui.WithViewport(ctx, ui.FixedViewport(width))
	return ui.WithSidebar(ctx, sidebar)
}

func TestSetup_Navigation(t *testing.T) {
	tests := []struct {
		name      string
		token     string
		path      string
		wantRoute string
	}{
		{"no token to dashboard", "", "/", Login},
		{"no token to user detail", "", "/users/5", Login},
		{"token to login", "tok", "/login", Dashboard},
		{"token to register", "tok", "/register", Dashboard},
		{"token to settings profile", "tok", "/settings/profile", SettingsProfile},
		{"no token to about", "", "/about", About},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ind := newTestSetup(t)
			to, err := r.Resolve(tt.path)
			require.NoError(t, err)

			final, err := r.Run(navContext(tt.token, 1280, ui.NewSidebar(true)), to, router.StartLocation)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRoute, final.Name)
			assert.False(t, ind.IsStarted(), "progress completes after navigation")
		})
	}
}

func TestSetup_SidebarCollapse(t *testing.T) {
	r, _ := newTestSetup(t)
	to, err := r.Resolve("/about")
	require.NoError(t, err)

	narrow := ui.NewSidebar(true)
	_, err = r.Run(navContext("", 800, narrow), to, router.StartLocation)
	require.NoError(t, err)
	assert.False(t, narrow.IsOpen())

	wide := ui.NewSidebar(true)
	_, err = r.Run(navContext("", 1280, wide), to, router.StartLocation)
	require.NoError(t, err)
	assert.True(t, wide.IsOpen())
}

func TestSetup_NavigatorFlow(t *testing.T) {
	r, _ := newTestSetup(t)
	nav := router.NewNavigator(r)

	store := session.NewMemoryStore(nil)
	ctx := session.WithStore(context.Background(), store)

	loc, err := nav.Push(ctx, "/settings")
	require.NoError(t, err)
	assert.Equal(t, Login, loc.Name)

	store.Set(session.TokenKey, "issued")
	loc, err = nav.PushName(ctx, Dashboard, nil)
	require.NoError(t, err)
	assert.Equal(t, Dashboard, loc.Name)

	_, err = nav.Push(ctx, "/login")
	assert.True(t, router.IsNavigationFailure(err, router.FailureDuplicated),
		"guest route redirects back to the current dashboard")
	assert.Equal(t, Dashboard, nav.Current().Name)
}

func TestSetup_RequiresIndicator(t *testing.T) {
	_, err := Setup(Default(), Options{})
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
}

func TestSetup_RequiresLoginAndDashboard(t *testing.T) {
	_, err := Setup([]domain.Route{{Name: About, Path: "/about"}}, Options{
		Indicator: progress.New(progress.Options{OnChange: func(float64) {}}),
	})
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
}
