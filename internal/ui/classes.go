package ui

import twmerge "github.com/Oudwins/tailwind-merge-go"

const (
	sidebarBase   = "fixed inset-y-0 left-0 z-30 w-64 bg-slate-900 text-slate-100 transition-transform duration-200 lg:static lg:translate-x-0"
	sidebarOpen   = "translate-x-0"
	sidebarClosed = "-translate-x-full lg:w-0 lg:overflow-hidden"

	contentBase    = "flex-1 min-h-screen bg-slate-50 p-6"
	contentShifted = "lg:ml-0"
)

// SidebarClasses returns the Tailwind classes for the sidebar element.
func SidebarClasses(open bool) string {
	if open {
		return twmerge.Merge(sidebarBase, sidebarOpen)
	}
	return twmerge.Merge(sidebarBase, sidebarClosed)
}

// ContentClasses returns the Tailwind classes for the main content area,
// merged with any page-specific classes.
func ContentClasses(extra ...string) string {
	return twmerge.Merge(append([]string{contentBase, contentShifted}, extra...)...)
}

const (
	navLinkBase   = "block px-4 py-2 text-slate-300 hover:bg-slate-800"
	navLinkActive = "bg-slate-800 font-semibold text-white"
)

// NavLinkClasses returns the Tailwind classes for a sidebar link.
func NavLinkClasses(active bool) string {
	if active {
		return twmerge.Merge(navLinkBase, navLinkActive)
	}
	return navLinkBase
}
