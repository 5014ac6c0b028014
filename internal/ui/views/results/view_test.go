package results

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	analysisdto "resumedash/internal/modules/analysis/dto"
	"resumedash/internal/ui/components"
)

type fakePort struct {
	report analysisdto.ReportOutput
	ok     bool
	err    error
}

func (f fakePort) Report(context.Context) (analysisdto.ReportOutput, bool, error) {
	return f.report, f.ok, f.err
}

func load(t *testing.T, port Port) Model {
	t.Helper()
	m := New(port)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	cmd := m.Load()
	if !strings.Contains(m.View(), "Loading…") {
		t.Fatalf("expected loading state:\n%s", m.View())
	}
	m, _ = m.Update(cmd())
	return m
}

func TestEmptyStoreShowsNoAnalysisYet(t *testing.T) {
	t.Parallel()
	m := load(t, fakePort{})
	if !strings.Contains(m.View(), "No analysis yet") {
		t.Fatalf("expected empty state:\n%s", m.View())
	}
}

func TestLoadErrorShowsBanner(t *testing.T) {
	t.Parallel()
	m := load(t, fakePort{err: errors.New("database is locked")})
	if !strings.Contains(m.View(), "database is locked") {
		t.Fatalf("expected error banner:\n%s", m.View())
	}
}

func TestStoredReportIsRendered(t *testing.T) {
	t.Parallel()
	port := fakePort{ok: true, report: analysisdto.ReportOutput{Markdown: "# Analysis Results\n\n## Skills\n\n- Python\n"}}
	m := load(t, port)
	view := m.View()
	if !strings.Contains(view, "Python") || strings.Contains(view, "No analysis yet") {
		t.Fatalf("expected rendered report:\n%s", view)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	if cmd == nil {
		t.Fatal("expected a navigation command")
	}
	if nav, ok := cmd().(components.NavigateMsg); !ok || nav.To != components.RouteUpload {
		t.Fatalf("expected navigation to upload, got %#v", nav)
	}
}
