package router

import (
	"context"
	"net/url"
	"testing"

	"github.com/DukeRupert/kuidash/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRoutes() []domain.Route {
	return []domain.Route{
		{Name: "Dashboard", Path: "/", Meta: domain.RouteMeta{RequiresAuth: true}},
		{Name: "Login", Path: "/login", Meta: domain.RouteMeta{RequiresGuest: true}},
		{
			Name: "Settings",
			Path: "/settings",
			Meta: domain.RouteMeta{RequiresAuth: true},
			Children: []domain.Route{
				{Name: "SettingsProfile", Path: "profile"},
			},
		},
		{Name: "UserNew", Path: "/users/new"},
		{Name: "UserDetail", Path: "/users/:id"},
		{Name: "About", Path: "/about"},
	}
}

func newTestRouter(t *testing.T) *Router {
	t.Helper()
	r, err := New(testRoutes(), nil)
	require.NoError(t, err)
	return r
}

func TestNew_RejectsDuplicateNames(t *testing.T) {
	_, err := New([]domain.Route{
		{Name: "Login", Path: "/login"},
		{Name: "Login", Path: "/signin"},
	}, nil)

	require.Error(t, err)
	assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(err))
}

func TestNew_RejectsEmptyTable(t *testing.T) {
	_, err := New(nil, nil)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
}

func TestResolve(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name        string
		path        string
		wantName    string
		wantPath    string
		wantMatched int
		wantParams  map[string]string
	}{
		{"root", "/", "Dashboard", "/", 1, map[string]string{}},
		{"trailing slash", "/login/", "Login", "/login", 1, map[string]string{}},
		{"nested child", "/settings/profile", "SettingsProfile", "/settings/profile", 2, map[string]string{}},
		{"static beats param", "/users/new", "UserNew", "/users/new", 1, map[string]string{}},
		{"param", "/users/42", "UserDetail", "/users/42", 1, map[string]string{"id": "42"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := r.Resolve(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, loc.Name)
			assert.Equal(t, tt.wantPath, loc.Path)
			assert.Len(t, loc.Matched, tt.wantMatched)
			assert.Equal(t, tt.wantParams, loc.Params)
		})
	}
}

func TestResolve_Query(t *testing.T) {
	r := newTestRouter(t)

	loc, err := r.Resolve("/about?tab=team&b=2")
	require.NoError(t, err)
	assert.Equal(t, "/about", loc.Path)
	assert.Equal(t, "/about?b=2&tab=team", loc.FullPath)
	assert.Equal(t, "team", loc.Query.Get("tab"))
}

func TestResolve_NotFound(t *testing.T) {
	r := newTestRouter(t)

	_, err := r.Resolve("/nope")
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}

func TestResolve_ChildInheritsParentMeta(t *testing.T) {
	r := newTestRouter(t)

	loc, err := r.Resolve("/settings/profile")
	require.NoError(t, err)
	assert.True(t, loc.RequiresAuth())
	assert.False(t, loc.RequiresGuest())
}

func TestResolveName(t *testing.T) {
	r := newTestRouter(t)

	loc, err := r.ResolveName("UserDetail", map[string]string{"id": "7"})
	require.NoError(t, err)
	assert.Equal(t, "/users/7", loc.FullPath)

	_, err = r.ResolveName("UserDetail", nil)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))

	_, err = r.ResolveName("Missing", nil)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}

func TestRun_GuardsRunInRegistrationOrder(t *testing.T) {
	r := newTestRouter(t)

	var order []string
	r.BeforeEach(func(ctx context.Context, to, from domain.Location) Decision {
		order = append(order, "first")
		return Next()
	})
	r.BeforeEach(func(ctx context.Context, to, from domain.Location) Decision {
		order = append(order, "second")
		return Next()
	})
	r.AfterEach(func(ctx context.Context, to, from domain.Location, failure error) {
		order = append(order, "after")
	})

	to, err := r.Resolve("/about")
	require.NoError(t, err)

	final, err := r.Run(context.Background(), to, StartLocation)
	require.NoError(t, err)
	assert.Equal(t, "About", final.Name)
	assert.Equal(t, []string{"first", "second", "after"}, order)
}

func TestRun_ZeroDecisionProceeds(t *testing.T) {
	r := newTestRouter(t)
	r.BeforeEach(func(ctx context.Context, to, from domain.Location) Decision {
		return Decision{}
	})

	to, _ := r.Resolve("/about")
	_, err := r.Run(context.Background(), to, StartLocation)
	assert.NoError(t, err)
}

func TestRun_RedirectRestartsGuards(t *testing.T) {
	r := newTestRouter(t)

	var seen []string
	r.BeforeEach(func(ctx context.Context, to, from domain.Location) Decision {
		seen = append(seen, to.Name)
		if to.Name == "Settings" {
			return Redirect("Login")
		}
		return Next()
	})

	var afterTo []string
	r.AfterEach(func(ctx context.Context, to, from domain.Location, failure error) {
		afterTo = append(afterTo, to.Name)
		assert.NoError(t, failure)
	})

	to, _ := r.Resolve("/settings")
	final, err := r.Run(context.Background(), to, StartLocation)

	require.NoError(t, err)
	assert.Equal(t, "Login", final.Name)
	assert.Equal(t, []string{"Settings", "Login"}, seen)
	assert.Equal(t, []string{"Login"}, afterTo, "after hooks fire once with the final target")
}

func TestRun_FirstNonNextDecisionWins(t *testing.T) {
	r := newTestRouter(t)

	secondCalled := false
	r.BeforeEach(func(ctx context.Context, to, from domain.Location) Decision {
		return Abort()
	})
	r.BeforeEach(func(ctx context.Context, to, from domain.Location) Decision {
		secondCalled = true
		return Next()
	})

	var afterFailure error
	r.AfterEach(func(ctx context.Context, to, from domain.Location, failure error) {
		afterFailure = failure
	})

	to, _ := r.Resolve("/about")
	_, err := r.Run(context.Background(), to, StartLocation)

	assert.True(t, IsNavigationFailure(err, FailureAborted))
	assert.False(t, secondCalled)
	assert.Equal(t, err, afterFailure)
}

func TestRun_RedirectLoop(t *testing.T) {
	r := newTestRouter(t)
	r.BeforeEach(func(ctx context.Context, to, from domain.Location) Decision {
		if to.Name == "Login" {
			return Redirect("About")
		}
		return Redirect("Login")
	})

	to, _ := r.Resolve("/about")
	_, err := r.Run(context.Background(), to, StartLocation)

	require.Error(t, err)
	assert.Equal(t, domain.EINTERNAL, domain.ErrorCode(err))
	assert.False(t, IsNavigationFailure(err, 0))
}

func TestRun_UnknownRedirectTarget(t *testing.T) {
	r := newTestRouter(t)
	r.BeforeEach(func(ctx context.Context, to, from domain.Location) Decision {
		return Redirect("Nowhere")
	})

	to, _ := r.Resolve("/about")
	_, err := r.Run(context.Background(), to, StartLocation)

	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}

func TestRun_DuplicatedSkipsGuards(t *testing.T) {
	r := newTestRouter(t)

	guardCalled := false
	r.BeforeEach(func(ctx context.Context, to, from domain.Location) Decision {
		guardCalled = true
		return Next()
	})
	afterCalled := 0
	r.AfterEach(func(ctx context.Context, to, from domain.Location, failure error) {
		afterCalled++
		assert.True(t, IsNavigationFailure(failure, FailureDuplicated))
	})

	about, _ := r.Resolve("/about")
	_, err := r.Run(context.Background(), about, about)

	assert.True(t, IsNavigationFailure(err, FailureDuplicated))
	assert.False(t, guardCalled)
	assert.Equal(t, 1, afterCalled)
}

func TestRun_StartLocationIsNotDuplicateOfRoot(t *testing.T) {
	r := newTestRouter(t)

	root, _ := r.Resolve("/")
	_, err := r.Run(context.Background(), root, StartLocation)
	assert.NoError(t, err)
}

func TestRun_CancelledContext(t *testing.T) {
	r := newTestRouter(t)

	ctx, cancel := context.WithCancel(context.Background())
	r.BeforeEach(func(ctx context.Context, to, from domain.Location) Decision {
		cancel()
		return Next()
	})
	secondCalled := false
	r.BeforeEach(func(ctx context.Context, to, from domain.Location) Decision {
		secondCalled = true
		return Next()
	})

	to, _ := r.Resolve("/about")
	_, err := r.Run(ctx, to, StartLocation)

	assert.True(t, IsNavigationFailure(err, FailureCancelled))
	assert.False(t, secondCalled)
}

func TestHookRemoval(t *testing.T) {
	r := newTestRouter(t)

	calls := 0
	remove := r.BeforeEach(func(ctx context.Context, to, from domain.Location) Decision {
		calls++
		return Next()
	})
	removeAfter := r.AfterEach(func(ctx context.Context, to, from domain.Location, failure error) {
		calls++
	})

	remove()
	remove()
	removeAfter()

	to, _ := r.Resolve("/about")
	_, err := r.Run(context.Background(), to, StartLocation)
	require.NoError(t, err)
	assert.Zero(t, calls)
}

func TestHistory(t *testing.T) {
	r := newTestRouter(t)
	settings, _ := r.Resolve("/settings?tab=1")
	root, _ := r.Resolve("/")

	t.Run("hash", func(t *testing.T) {
		h := NewHashHistory("kui-dashboard-vue")
		assert.Equal(t, "/kui-dashboard-vue/", h.Base())
		assert.Equal(t, "#/settings?tab=1", h.Href(settings))

		u, _ := url.Parse("/kui-dashboard-vue/#/users/3")
		path, ok := h.RoutePath(u)
		assert.True(t, ok)
		assert.Equal(t, "/users/3", path)

		u, _ = url.Parse("/kui-dashboard-vue/")
		path, ok = h.RoutePath(u)
		assert.True(t, ok)
		assert.Equal(t, "/", path)

		u, _ = url.Parse("/elsewhere#/users/3")
		_, ok = h.RoutePath(u)
		assert.False(t, ok)
	})

	t.Run("web with base", func(t *testing.T) {
		h := NewWebHistory("/app/")
		assert.Equal(t, "/app/settings?tab=1", h.Href(settings))
		assert.Equal(t, "/app", h.Href(root))

		u, _ := url.Parse("/app/settings?tab=1")
		path, ok := h.RoutePath(u)
		assert.True(t, ok)
		assert.Equal(t, "/settings?tab=1", path)

		u, _ = url.Parse("/app")
		path, ok = h.RoutePath(u)
		assert.True(t, ok)
		assert.Equal(t, "/", path)

		u, _ = url.Parse("/application")
		_, ok = h.RoutePath(u)
		assert.False(t, ok)
	})

	t.Run("web at root", func(t *testing.T) {
		h := NewWebHistory("/")
		assert.Equal(t, "", h.Base())
		assert.Equal(t, "/", h.Href(root))

		u, _ := url.Parse("/login")
		path, ok := h.RoutePath(u)
		assert.True(t, ok)
		assert.Equal(t, "/login", path)
	})

	t.Run("encoded separators stay in the path", func(t *testing.T) {
		h := NewWebHistory("/")
		for _, target := range []string{"/about%3Fx=1", "/%23/login"} {
			u, err := url.Parse(target)
			require.NoError(t, err)

			path, ok := h.RoutePath(u)
			assert.True(t, ok)
			assert.Equal(t, target, path)

			_, err = r.Resolve(path)
			assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err), "%s resolved to a route", target)
		}
	})
}

func TestResolve_EscapedParams(t *testing.T) {
	r := newTestRouter(t)

	loc, err := r.Resolve("/users/a%2Fb")
	require.NoError(t, err)
	assert.Equal(t, "UserDetail", loc.Name)
	assert.Equal(t, "a/b", loc.Params["id"])
	assert.Equal(t, "/users/a%2Fb", loc.Path)

	built, err := r.ResolveName("UserDetail", map[string]string{"id": "a/b"})
	require.NoError(t, err)
	assert.Equal(t, loc.Path, built.Path)
}
