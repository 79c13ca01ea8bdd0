package pages

// NavLink is one entry of the sidebar navigation.
type NavLink struct {
	Label  string
	Href   string
	Active bool
}

// ShellData contains data for the application shell around every page.
type ShellData struct {
	Title         string    // Page title
	Nav           []NavLink // Sidebar links
	SidebarOpen   bool      // Sidebar state after navigation
	Authenticated bool      // Whether the client holds a session token
	CSRFToken     string
	ToggleAction  string // Sidebar toggle form action
	LogoutAction  string // Sign-out form action
	ReturnTo      string // Current href, posted with the toggle form
}

// AuthFormData contains data for the sign-in and registration forms.
type AuthFormData struct {
	Action    string
	CSRFToken string
	Username  string // Re-filled after a failed submission
	Error     string
	AltHref   string // Link to the other form
	AltLabel  string
}

// UserRow is one row of the users list.
type UserRow struct {
	ID   string
	Name string
	Href string
}
