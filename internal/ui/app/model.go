package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	analysisdto "resumedash/internal/modules/analysis/dto"
	authdto "resumedash/internal/modules/auth/dto"
	apperrors "resumedash/internal/platform/errors"
	"resumedash/internal/ui/components"
	"resumedash/internal/ui/theme"
	dashboardview "resumedash/internal/ui/views/dashboard"
	loginview "resumedash/internal/ui/views/login"
	resultsview "resumedash/internal/ui/views/results"
	uploadview "resumedash/internal/ui/views/upload"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type authPort interface {
	loginview.Port
	CurrentUser(ctx context.Context) (authdto.UserOutput, bool, error)
	SignOut(ctx context.Context) error
}

type analysisPort interface {
	uploadview.Port
	resultsview.Port
	ExportResult(ctx context.Context, format, path string) (analysisdto.ExportOutput, error)
}

// ─── async messages ───────────────────────────────────────────────────────────

type userResolvedMsg struct {
	user authdto.UserOutput
	ok   bool
	err  error
}

type signedOutMsg struct{ err error }

type exportedMsg struct {
	out analysisdto.ExportOutput
	err error
}

// showResultsMsg fires shortly after a successful upload so the full bar is
// visible before the view changes.
type showResultsMsg struct{}

const resultsDelay = 500 * time.Millisecond

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Next    key.Binding
	Jump    key.Binding
	SignOut key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Next:    key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "next view")),
		Jump:    key.NewBinding(key.WithKeys("1", "2", "3"), key.WithHelp("1/2/3", "upload/results/dashboard")),
		SignOut: key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "sign out")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Jump, k.SignOut},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It resolves the stored session on
// start, routes between views and owns the navbar, help and palette.
type Model struct {
	auth     authPort
	analysis analysisPort

	loginView     loginview.Model
	dashboardView dashboardview.Model
	uploadView    uploadview.Model
	resultsView   resultsview.Model

	route    components.Route
	resolved bool
	signedIn bool
	user     authdto.UserOutput

	keys     keyMap
	help     help.Model
	showHelp bool
	palette  components.Palette
	status   string
	width    int
	height   int
}

func NewModel(auth authPort, analysis analysisPort, startDir string) Model {
	return Model{
		auth:          auth,
		analysis:      analysis,
		loginView:     loginview.New(auth),
		dashboardView: dashboardview.New(),
		uploadView:    uploadview.New(analysis, startDir),
		resultsView:   resultsview.New(analysis),
		route:         components.RouteResolving,
		keys:          defaultKeys(),
		help:          help.New(),
		palette:       components.NewPalette(),
		status:        "checking session…",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.resolveUserCmd(),
		m.loginView.Init(),
		m.uploadView.Init(),
	)
}

func (m Model) Route() components.Route { return m.route }

func (m Model) NavbarVisible() bool {
	return components.NavbarVisible(m.route, m.resolved, m.signedIn)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		cmd := m.propagateSize()
		return m, cmd

	case userResolvedMsg:
		m.resolved = true
		if msg.err != nil {
			m.status = "session check: " + apperrors.UserMessage(msg.err)
		}
		if msg.ok {
			m.signIn(msg.user)
			return m.navigate(components.RouteDashboard)
		}
		m.status = "please sign in"
		return m.navigate(components.RouteLogin)

	case loginview.SignedInMsg:
		var cmd tea.Cmd
		m.loginView, cmd = m.loginView.Update(msg)
		if msg.Err != nil {
			return m, cmd
		}
		m.resolved = true
		m.signIn(authdto.UserOutput{ID: msg.Session.UserID, Email: msg.Session.Email})
		next, navCmd := m.navigate(components.RouteDashboard)
		return next, tea.Batch(cmd, navCmd)

	case signedOutMsg:
		m.signedIn = false
		m.user = authdto.UserOutput{}
		m.dashboardView.SetEmail("")
		m.status = "signed out"
		if msg.err != nil {
			m.status = "signed out locally: " + msg.err.Error()
		}
		m.route = components.RouteLogin
		cmd := m.loginView.Reset()
		return m, cmd

	case components.NavigateMsg:
		return m.navigate(msg.To)

	case components.SignOutMsg:
		return m, m.signOutCmd()

	case uploadview.SubmittedMsg:
		var cmd tea.Cmd
		m.uploadView, cmd = m.uploadView.Update(msg)
		if msg.Err != nil {
			m.status = "upload failed"
			return m, cmd
		}
		m.status = fmt.Sprintf("analysis complete: %s scored %d", msg.Result.FileName, msg.Result.ATSScore)
		return m, tea.Batch(cmd, tea.Tick(resultsDelay, func(time.Time) tea.Msg { return showResultsMsg{} }))

	case showResultsMsg:
		if m.route == components.RouteUpload {
			return m.navigate(components.RouteResults)
		}
		return m, nil

	case exportedMsg:
		if msg.err != nil {
			m.status = "export failed: " + apperrors.UserMessage(msg.err)
		} else {
			m.status = fmt.Sprintf("exported %s to %s", msg.out.Format, msg.out.Path)
		}
		return m, nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Anything else (picker reads, spinner ticks, progress) goes to every
	// view; each ignores what is not addressed to it.
	cmd := m.broadcast(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.showHelp {
		if msg.String() == "?" || msg.String() == "esc" {
			m.showHelp = false
		}
		return m, nil
	}
	// Typing belongs to the form until someone is signed in.
	if m.route == components.RouteLogin || m.route == components.RouteResolving {
		var cmd tea.Cmd
		m.loginView, cmd = m.loginView.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "?":
		m.showHelp = true
		return m, nil
	case ":":
		cmd := m.palette.Open()
		return m, cmd
	case "tab":
		return m.navigate(m.cycle(1))
	case "shift+tab":
		return m.navigate(m.cycle(-1))
	case "1":
		return m.navigate(components.RouteUpload)
	case "2":
		return m.navigate(components.RouteResults)
	case "3":
		return m.navigate(components.RouteDashboard)
	case "S":
		return m, m.signOutCmd()
	}

	var cmd tea.Cmd
	switch m.route {
	case components.RouteDashboard:
		m.dashboardView, cmd = m.dashboardView.Update(msg)
	case components.RouteUpload:
		m.uploadView, cmd = m.uploadView.Update(msg)
	case components.RouteResults:
		m.resultsView, cmd = m.resultsView.Update(msg)
	}
	return m, cmd
}

// navigate applies the route guard: every view but login needs a user.
func (m Model) navigate(to components.Route) (Model, tea.Cmd) {
	if to != components.RouteLogin && !m.signedIn {
		to = components.RouteLogin
	}
	m.route = to
	if to == components.RouteResults {
		cmd := m.resultsView.Load()
		return m, cmd
	}
	return m, nil
}

func (m Model) cycle(step int) components.Route {
	items := components.NavItems
	idx := 0
	for i, r := range items {
		if r == m.route {
			idx = i
			break
		}
	}
	return items[(idx+step+len(items))%len(items)]
}

func (m *Model) signIn(user authdto.UserOutput) {
	m.signedIn = true
	m.user = user
	m.dashboardView.SetEmail(user.Email)
	m.status = "signed in as " + user.Email
}

func (m *Model) broadcast(msg tea.Msg) tea.Cmd {
	var cmds [4]tea.Cmd
	m.loginView, cmds[0] = m.loginView.Update(msg)
	m.dashboardView, cmds[1] = m.dashboardView.Update(msg)
	m.uploadView, cmds[2] = m.uploadView.Update(msg)
	m.resultsView, cmds[3] = m.resultsView.Update(msg)
	return tea.Batch(cmds[:]...)
}

func (m *Model) propagateSize() tea.Cmd {
	// navbar and status bar each take a line, plus a spacer
	return m.broadcast(tea.WindowSizeMsg{Width: m.width, Height: max(m.height-3, 1)})
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	var parts []string
	if m.NavbarVisible() {
		parts = append(parts, components.RenderNavbar(m.route, m.width))
	}

	var content string
	switch {
	case m.showHelp:
		content = m.help.FullHelpView(m.keys.FullHelp())
	case m.palette.Visible():
		content = lipgloss.Place(m.width, max(m.height-3, 1), lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}
	parts = append(parts, content, m.renderStatusBar())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) activeView() string {
	switch m.route {
	case components.RouteLogin:
		return m.loginView.View()
	case components.RouteDashboard:
		return m.dashboardView.View()
	case components.RouteUpload:
		return m.uploadView.View()
	case components.RouteResults:
		return m.resultsView.View()
	}
	return lipgloss.Place(m.width, max(m.height-3, 1), lipgloss.Center, lipgloss.Center, theme.Muted.Render("Loading…"))
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.loginView.Submitting() {
		left = theme.Muted.Render("signing in…")
	}
	if m.uploadView.Busy() {
		left = theme.Hot.Render(fmt.Sprintf("● processing %d%%", m.uploadView.Percent())) + "  " + left
	}
	right := m.help.ShortHelpView(m.keys.ShortHelp())
	if !m.signedIn {
		right = theme.Muted.Render("ctrl+c:quit")
	}
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}
	switch parts[0] {
	case "go:dashboard":
		return m.navigate(components.RouteDashboard)
	case "go:upload":
		return m.navigate(components.RouteUpload)
	case "go:results", "results:reload":
		return m.navigate(components.RouteResults)
	case "upload:file":
		if len(parts) < 2 {
			m.status = "usage: upload:file <path>"
			return m, nil
		}
		next, _ := m.navigate(components.RouteUpload)
		if next.route != components.RouteUpload {
			return next, nil
		}
		var cmd tea.Cmd
		next.uploadView, cmd = next.uploadView.Select(strings.Join(parts[1:], " "))
		return next, cmd
	case "results:export":
		if len(parts) < 2 {
			m.status = "usage: results:export <json|yaml|md|xlsx> [path]"
			return m, nil
		}
		path := ""
		if len(parts) >= 3 {
			path = parts[2]
		}
		return m, m.exportCmd(parts[1], path)
	case "auth:signout":
		return m, m.signOutCmd()
	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) resolveUserCmd() tea.Cmd {
	auth := m.auth
	return func() tea.Msg {
		user, ok, err := auth.CurrentUser(context.Background())
		return userResolvedMsg{user: user, ok: ok, err: err}
	}
}

func (m Model) signOutCmd() tea.Cmd {
	auth := m.auth
	return func() tea.Msg {
		return signedOutMsg{err: auth.SignOut(context.Background())}
	}
}

func (m Model) exportCmd(format, path string) tea.Cmd {
	analysis := m.analysis
	return func() tea.Msg {
		out, err := analysis.ExportResult(context.Background(), format, path)
		return exportedMsg{out: out, err: err}
	}
}
