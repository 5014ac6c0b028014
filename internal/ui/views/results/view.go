package results

import (
	"context"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	analysisdto "resumedash/internal/modules/analysis/dto"
	apperrors "resumedash/internal/platform/errors"
	"resumedash/internal/ui/components"
	"resumedash/internal/ui/theme"
)

type Port interface {
	Report(ctx context.Context) (analysisdto.ReportOutput, bool, error)
}

// LoadedMsg carries the stored report; OK is false before the first analysis.
type LoadedMsg struct {
	Report analysisdto.ReportOutput
	OK     bool
	Err    error
}

type Model struct {
	port     Port
	viewport viewport.Model
	renderer *glamour.TermRenderer
	report   analysisdto.ReportOutput
	loaded   bool
	hasData  bool
	errMsg   string
	width    int
	height   int
}

func New(port Port) Model {
	r, _ := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(80),
	)
	return Model{port: port, viewport: viewport.New(0, 0), renderer: r}
}

// Load reads the latest stored result. Called every time the view is shown.
func (m *Model) Load() tea.Cmd {
	m.loaded = false
	port := m.port
	return func() tea.Msg {
		report, ok, err := port.Report(context.Background())
		return LoadedMsg{Report: report, OK: ok, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		if m.hasData {
			m.viewport.SetContent(m.render())
		}
		return m, nil

	case LoadedMsg:
		m.loaded = true
		m.hasData = msg.OK
		m.errMsg = ""
		if msg.Err != nil {
			m.errMsg = apperrors.UserMessage(msg.Err)
			m.hasData = false
		}
		m.report = msg.Report
		if m.hasData {
			m.viewport.SetContent(m.render())
			m.viewport.GotoTop()
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "a" {
			return m, func() tea.Msg { return components.NavigateMsg{To: components.RouteUpload} }
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) resize() {
	m.viewport.Width = m.width
	m.viewport.Height = max(m.height-2, 1)
	if r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(max(m.width-4, 20)),
	); err == nil {
		m.renderer = r
	}
}

func (m Model) render() string {
	if m.renderer != nil {
		if rendered, err := m.renderer.Render(m.report.Markdown); err == nil {
			return rendered
		}
	}
	return m.report.Markdown
}

func (m Model) View() string {
	switch {
	case !m.loaded:
		return m.centered(theme.Muted.Render("Loading…"))
	case m.errMsg != "":
		return m.centered(theme.Banner.Render(m.errMsg))
	case !m.hasData:
		return m.centered(theme.Muted.Render("No analysis yet. Press 1 or a to upload a resume."))
	}
	footer := theme.Muted.Render("↑/↓: scroll  a: analyze another resume  :results:export <format>")
	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), footer)
}

func (m Model) centered(s string) string {
	if m.width == 0 || m.height == 0 {
		return s
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, s)
}
