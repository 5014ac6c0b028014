package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"resumedash/internal/ui/theme"
)

type Route int

const (
	// RouteResolving is shown while the stored session is checked on start.
	RouteResolving Route = iota
	RouteLogin
	RouteDashboard
	RouteUpload
	RouteResults
)

func (r Route) String() string {
	switch r {
	case RouteLogin:
		return "login"
	case RouteDashboard:
		return "dashboard"
	case RouteUpload:
		return "upload"
	case RouteResults:
		return "results"
	default:
		return "resolving"
	}
}

// NavigateMsg asks the root model to switch views.
type NavigateMsg struct{ To Route }

// SignOutMsg asks the root model to end the session.
type SignOutMsg struct{}

type navItem struct {
	route Route
	key   string
	label string
}

// NavItems is the navbar order, which tab cycles through.
var NavItems = []Route{RouteUpload, RouteResults, RouteDashboard}

var navItems = []navItem{
	{RouteUpload, "1", "Upload"},
	{RouteResults, "2", "Results"},
	{RouteDashboard, "3", "Dashboard"},
}

var (
	navActive  = lipgloss.NewStyle().Foreground(theme.Base).Background(theme.Blue).Bold(true).Padding(0, 1)
	navIdle    = lipgloss.NewStyle().Foreground(theme.Subtext0).Padding(0, 1)
	navSignOut = lipgloss.NewStyle().Foreground(theme.Red).Padding(0, 1)
	navBrand   = lipgloss.NewStyle().Foreground(theme.Base).Background(theme.Sapphire).Bold(true).Padding(0, 1)
)

// NavbarVisible is the guarded-render rule: no navbar on the login view,
// while the session is still being resolved, or when nobody is signed in.
func NavbarVisible(route Route, resolved, signedIn bool) bool {
	if route == RouteLogin || route == RouteResolving {
		return false
	}
	return resolved && signedIn
}

// RenderNavbar draws the bar with the active route highlighted.
func RenderNavbar(active Route, width int) string {
	parts := make([]string, 0, len(navItems)+1)
	for _, item := range navItems {
		label := item.key + " " + item.label
		if item.route == active {
			parts = append(parts, navActive.Render(label))
		} else {
			parts = append(parts, navIdle.Render(label))
		}
	}
	parts = append(parts, navSignOut.Render("S Sign out"))
	bar := navBrand.Render("R") + " Resume Analyzer  " + strings.Join(parts, " ")
	return lipgloss.NewStyle().Background(theme.Mantle).Width(width).Render(bar)
}
