package pages

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, data ShellData) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Shell(data, Dashboard()).Render(context.Background(), &buf))
	return buf.String()
}

func TestShell_SidebarState(t *testing.T) {
	open := render(t, ShellData{Title: "Dashboard", SidebarOpen: true})
	assert.Contains(t, open, `data-open="true"`)
	assert.NotContains(t, open, "-translate-x-full")

	closed := render(t, ShellData{Title: "Dashboard", SidebarOpen: false})
	assert.Contains(t, closed, `data-open="false"`)
	assert.Contains(t, closed, "-translate-x-full")
}

func TestShell_EscapesContent(t *testing.T) {
	out := render(t, ShellData{
		Title: "<script>",
		Nav:   []NavLink{{Label: `"x"`, Href: "/a?b=1&c=2"}},
	})
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.Contains(t, out, "/a?b=1&amp;c=2")
}

func TestShell_LogoutOnlyWhenAuthenticated(t *testing.T) {
	assert.NotContains(t, render(t, ShellData{LogoutAction: "/logout"}), "Sign out")
	assert.Contains(t, render(t, ShellData{LogoutAction: "/logout", Authenticated: true}), "Sign out")
}

func TestAuthForm(t *testing.T) {
	var buf bytes.Buffer
	err := AuthForm("Sign in", AuthFormData{
		Action:    "/login",
		CSRFToken: "tok",
		Username:  "ada",
		Error:     "Username is required",
	}).Render(context.Background(), &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `action="/login"`)
	assert.Contains(t, out, `value="tok"`)
	assert.Contains(t, out, `value="ada"`)
	assert.Contains(t, out, `role="alert"`)
}

func TestShell_SanitizesNavURLs(t *testing.T) {
	out := render(t, ShellData{
		Nav:          []NavLink{{Label: "bad", Href: "javascript:alert(1)"}},
		ToggleAction: "/sidebar/toggle",
	})
	assert.NotContains(t, out, "javascript:")
	assert.Contains(t, out, "about:invalid#TemplFailedSanitizationURL")
	assert.Contains(t, out, `action="/sidebar/toggle"`)
}
