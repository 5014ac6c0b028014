package upload

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	analysisdto "resumedash/internal/modules/analysis/dto"
	apperrors "resumedash/internal/platform/errors"
	"resumedash/internal/ui/theme"
)

// Port is what the upload view needs from the analysis module.
type Port interface {
	InspectFile(ctx context.Context, path string) (analysisdto.FileOutput, error)
	Submit(ctx context.Context, path string, updates chan<- analysisdto.ProgressUpdate) (analysisdto.ResultOutput, error)
}

// SubmittedMsg ends a submission. The root model routes to Results on success.
type SubmittedMsg struct {
	Result analysisdto.ResultOutput
	Err    error
}

type inspectedMsg struct {
	file analysisdto.FileOutput
	err  error
}

type progressMsg struct {
	update analysisdto.ProgressUpdate
	ch     <-chan analysisdto.ProgressUpdate
}

// progressClosedMsg is read once the workflow closed its update channel.
type progressClosedMsg struct{}

const updateBuffer = 8

// Model is the drop target: a file picker limited to resumes, a progress bar
// while a submission runs and an error banner when one fails.
type Model struct {
	port    Port
	picker  filepicker.Model
	bar     progress.Model
	spinner spinner.Model

	file    analysisdto.FileOutput
	busy    bool
	percent int
	label   string
	errMsg  string
	width   int
	height  int
}

func New(port Port, startDir string) Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".pdf", ".docx"}
	if startDir == "" {
		startDir, _ = os.Getwd()
	}
	fp.CurrentDirectory = startDir
	fp.AutoHeight = false
	fp.Height = 10

	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = lipgloss.NewStyle().Foreground(theme.Blue)

	return Model{
		port:    port,
		picker:  fp,
		bar:     progress.New(progress.WithDefaultGradient()),
		spinner: sp,
	}
}

func (m Model) Init() tea.Cmd {
	return m.picker.Init()
}

// Busy reports whether a submission is running; the picker ignores input
// until it finishes.
func (m Model) Busy() bool { return m.busy }

func (m Model) Percent() int { return m.percent }

func (m Model) Error() string { return m.errMsg }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = min(max(msg.Width-8, 10), 60)
		m.picker.Height = max(msg.Height-14, 3)

	case inspectedMsg:
		if msg.err != nil {
			m.errMsg = apperrors.UserMessage(msg.err)
			return m, nil
		}
		return m.start(msg.file)

	case progressMsg:
		m.percent = msg.update.Percent
		m.label = msg.update.Label
		return m, waitForProgress(msg.ch)

	case progressClosedMsg:
		return m, nil

	case SubmittedMsg:
		m.busy = false
		if msg.Err != nil {
			m.errMsg = apperrors.UserMessage(msg.Err)
			return m, nil
		}
		m.percent = 100
		m.label = "Analysis complete"
		return m, nil

	case spinner.TickMsg:
		if m.busy {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	// The drop target is disabled while busy.
	if _, isKey := msg.(tea.KeyMsg); isKey && m.busy {
		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.errMsg = ""
		return m, tea.Batch(cmd, m.inspectCmd(path))
	}
	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		m.errMsg = apperrors.UserMessage(&apperrors.UnsupportedFileTypeError{Name: path})
		return m, cmd
	}
	return m, cmd
}

// Select starts a submission for a path chosen outside the picker.
func (m Model) Select(path string) (Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	m.errMsg = ""
	return m, m.inspectCmd(path)
}

func (m Model) start(file analysisdto.FileOutput) (Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	m.file = file
	m.busy = true
	m.errMsg = ""
	m.percent = 0
	m.label = "Starting…"
	updates := make(chan analysisdto.ProgressUpdate, updateBuffer)
	return m, tea.Batch(m.submitCmd(file.Path, updates), waitForProgress(updates), m.spinner.Tick)
}

func (m Model) inspectCmd(path string) tea.Cmd {
	return func() tea.Msg {
		file, err := m.port.InspectFile(context.Background(), path)
		return inspectedMsg{file: file, err: err}
	}
}

func (m Model) submitCmd(path string, updates chan analysisdto.ProgressUpdate) tea.Cmd {
	return func() tea.Msg {
		result, err := m.port.Submit(context.Background(), path, updates)
		return SubmittedMsg{Result: result, Err: err}
	}
}

// waitForProgress re-arms after every update so each stage reaches the view.
func waitForProgress(ch <-chan analysisdto.ProgressUpdate) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-ch
		if !ok {
			return progressClosedMsg{}
		}
		return progressMsg{update: update, ch: ch}
	}
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Upload Resume") + "\n")
	sb.WriteString(theme.Muted.Render("Pick a PDF or DOCX file to analyze it") + "\n\n")

	if m.busy {
		sb.WriteString(theme.Muted.Render("Drop target disabled while processing") + "\n\n")
	} else {
		sb.WriteString(theme.Muted.Render(m.picker.CurrentDirectory) + "\n")
		sb.WriteString(m.picker.View() + "\n")
	}

	if m.file.Name != "" && (m.busy || m.errMsg == "") {
		sb.WriteString(theme.Success.Render("✓ "+m.file.Name+" selected") + "  " + theme.Muted.Render(describe(m.file)) + "\n")
	}

	switch {
	case m.errMsg != "":
		sb.WriteString("\n" + theme.Banner.Render(m.errMsg) + "\n")
	case m.busy || m.percent > 0:
		sb.WriteString("\n" + m.label)
		if m.busy {
			sb.WriteString(" " + m.spinner.View())
		}
		sb.WriteString(fmt.Sprintf("  %d%%\n", m.percent))
		sb.WriteString(m.bar.ViewAs(float64(m.percent)/100) + "\n")
	}
	return sb.String()
}

func describe(file analysisdto.FileOutput) string {
	parts := []string{humanSize(file.Size)}
	if file.Pages > 0 {
		parts = append(parts, fmt.Sprintf("%d pages", file.Pages))
	}
	if file.Words > 0 {
		parts = append(parts, fmt.Sprintf("%d words", file.Words))
	}
	return strings.Join(parts, " · ")
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
