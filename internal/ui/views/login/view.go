package login

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	authdto "resumedash/internal/modules/auth/dto"
	apperrors "resumedash/internal/platform/errors"
	"resumedash/internal/ui/theme"
)

// Port is what the login form needs from the auth module.
type Port interface {
	SignIn(ctx context.Context, email, password string) (authdto.SessionOutput, error)
}

// SignedInMsg reports the outcome of a sign-in attempt.
type SignedInMsg struct {
	Session authdto.SessionOutput
	Err     error
}

const (
	fieldEmail = iota
	fieldPassword
	fieldCount
)

type Model struct {
	port       Port
	inputs     [fieldCount]textinput.Model
	focus      int
	spinner    spinner.Model
	submitting bool
	errMsg     string
	width      int
	height     int
}

func New(port Port) Model {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.Prompt = "Email     "
	email.CharLimit = 254
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = "Password  "
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 128

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:    port,
		inputs:  [fieldCount]textinput.Model{email, password},
		spinner: sp,
	}
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

// Reset clears the form after a sign-out.
func (m *Model) Reset() tea.Cmd {
	for i := range m.inputs {
		m.inputs[i].SetValue("")
		m.inputs[i].Blur()
	}
	m.focus = fieldEmail
	m.submitting = false
	m.errMsg = ""
	return m.inputs[fieldEmail].Focus()
}

func (m Model) Submitting() bool { return m.submitting }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case SignedInMsg:
		m.submitting = false
		if msg.Err != nil {
			m.errMsg = apperrors.UserMessage(msg.Err)
			m.inputs[fieldPassword].SetValue("")
			cmd := m.setFocus(fieldPassword)
			return m, cmd
		}
		m.errMsg = ""
		return m, nil

	case spinner.TickMsg:
		if m.submitting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch msg.String() {
		case "tab", "down":
			cmd := m.setFocus((m.focus + 1) % fieldCount)
			return m, cmd
		case "shift+tab", "up":
			cmd := m.setFocus((m.focus + fieldCount - 1) % fieldCount)
			return m, cmd
		case "enter":
			if m.focus == fieldEmail {
				cmd := m.setFocus(fieldPassword)
				return m, cmd
			}
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) setFocus(field int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = field
	return m.inputs[field].Focus()
}

func (m Model) submit() (Model, tea.Cmd) {
	email := strings.TrimSpace(m.inputs[fieldEmail].Value())
	password := m.inputs[fieldPassword].Value()
	if email == "" || password == "" {
		m.errMsg = "Email and password are required."
		return m, nil
	}
	m.submitting = true
	m.errMsg = ""
	return m, tea.Batch(m.signInCmd(email, password), m.spinner.Tick)
}

func (m Model) signInCmd(email, password string) tea.Cmd {
	return func() tea.Msg {
		session, err := m.port.SignIn(context.Background(), email, password)
		return SignedInMsg{Session: session, Err: err}
	}
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Sign in") + "\n")
	sb.WriteString(theme.Muted.Render("Analyze and optimize your resume") + "\n\n")
	for i := range m.inputs {
		sb.WriteString(m.inputs[i].View() + "\n")
	}
	sb.WriteString("\n")
	switch {
	case m.submitting:
		sb.WriteString(m.spinner.View() + " Signing in…")
	case m.errMsg != "":
		sb.WriteString(theme.Banner.Render(m.errMsg))
	default:
		sb.WriteString(theme.Muted.Render("enter: sign in  tab: next field  ctrl+c: quit"))
	}
	card := theme.CardActive.Width(52).Render(sb.String())
	if m.width == 0 || m.height == 0 {
		return card
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, card)
}
