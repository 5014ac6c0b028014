package components

import (
	"strings"
	"testing"
)

func TestNavbarVisibility(t *testing.T) {
	t.Parallel()
	cases := []struct {
		route    Route
		resolved bool
		signedIn bool
		want     bool
	}{
		{RouteLogin, true, true, false},
		{RouteLogin, true, false, false},
		{RouteResolving, false, false, false},
		{RouteDashboard, false, true, false},
		{RouteDashboard, true, false, false},
		{RouteDashboard, true, true, true},
		{RouteUpload, true, true, true},
		{RouteResults, true, true, true},
	}
	for _, tc := range cases {
		if got := NavbarVisible(tc.route, tc.resolved, tc.signedIn); got != tc.want {
			t.Fatalf("%s resolved=%t signedIn=%t: expected %t, got %t", tc.route, tc.resolved, tc.signedIn, tc.want, got)
		}
	}
}

func TestRenderNavbarListsItems(t *testing.T) {
	t.Parallel()
	bar := RenderNavbar(RouteUpload, 120)
	for _, want := range []string{"Upload", "Results", "Dashboard", "Sign out"} {
		if !strings.Contains(bar, want) {
			t.Fatalf("navbar missing %q: %q", want, bar)
		}
	}
}

func TestMatchingHints(t *testing.T) {
	t.Parallel()
	if got := MatchingHints(""); len(got) != len(paletteHints) {
		t.Fatalf("expected all hints for empty input, got %v", got)
	}
	got := MatchingHints("export")
	if len(got) != 1 || !strings.HasPrefix(got[0], "results:export") {
		t.Fatalf("unexpected matches %v", got)
	}
	if got := MatchingHints("nope"); len(got) != 0 {
		t.Fatalf("expected no matches, got %v", got)
	}
}
