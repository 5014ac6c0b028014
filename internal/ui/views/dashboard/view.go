package dashboard

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"resumedash/internal/ui/components"
	"resumedash/internal/ui/theme"
)

type card struct {
	title string
	body  string
	to    components.Route
}

var cards = []card{
	{title: "Upload Resume", body: "Upload your resume and get an instant analysis for ATS compatibility.", to: components.RouteUpload},
	{title: "View Results", body: "Check your latest analysis results and job recommendations.", to: components.RouteResults},
}

// Model is the signed-in landing page.
type Model struct {
	email    string
	selected int
	width    int
	height   int
}

func New() Model { return Model{} }

func (m *Model) SetEmail(email string) { m.email = email }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "left", "h":
			m.selected = (m.selected + len(cards) - 1) % len(cards)
		case "right", "l":
			m.selected = (m.selected + 1) % len(cards)
		case "enter":
			to := cards[m.selected].to
			return m, func() tea.Msg { return components.NavigateMsg{To: to} }
		}
	}
	return m, nil
}

func (m Model) View() string {
	cardWidth := 38
	if m.width > 0 && m.width/2-4 < cardWidth {
		cardWidth = max(m.width/2-4, 20)
	}
	rendered := make([]string, 0, len(cards))
	for i, c := range cards {
		style := theme.Card
		if i == m.selected {
			style = theme.CardActive
		}
		rendered = append(rendered, style.Width(cardWidth).Render(
			theme.Heading.Render(c.title)+"\n\n"+theme.Muted.Render(c.body),
		))
	}

	email := m.email
	if email == "" {
		email = "unknown"
	}
	account := theme.Card.Render(
		theme.Heading.Render("Account Information") + "\n\n" +
			theme.Label.Render("EMAIL ADDRESS   ") + email + "\n" +
			theme.Label.Render("ACCOUNT STATUS  ") + theme.Success.Render("Active"),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		theme.Title.Render("Welcome to Your Dashboard"),
		theme.Muted.Render("Manage and analyze your resumes"),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, rendered...),
		"",
		account,
		"",
		theme.Muted.Render("←/→: choose  enter: open"),
	)
}
