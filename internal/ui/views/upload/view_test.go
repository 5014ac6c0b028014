package upload

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	analysisdto "resumedash/internal/modules/analysis/dto"
	apperrors "resumedash/internal/platform/errors"
)

type fakePort struct {
	inspected []string
}

func (f *fakePort) InspectFile(_ context.Context, path string) (analysisdto.FileOutput, error) {
	f.inspected = append(f.inspected, path)
	return analysisdto.FileOutput{Name: "resume.pdf", Path: path, MimeType: "application/pdf", Size: 2048}, nil
}

func (f *fakePort) Submit(_ context.Context, _ string, updates chan<- analysisdto.ProgressUpdate) (analysisdto.ResultOutput, error) {
	close(updates)
	return analysisdto.ResultOutput{}, nil
}

// startSubmission selects a file and feeds the inspect result back, leaving
// the model busy. The submission command itself is not run.
func startSubmission(t *testing.T, port *fakePort) Model {
	t.Helper()
	m := New(port, t.TempDir())
	m, cmd := m.Select("/tmp/resume.pdf")
	if cmd == nil {
		t.Fatal("expected an inspect command")
	}
	m, _ = m.Update(cmd())
	if !m.Busy() {
		t.Fatal("expected the model to be busy after a successful inspect")
	}
	return m
}

func TestDropTargetDisabledWhileBusy(t *testing.T) {
	t.Parallel()
	port := &fakePort{}
	m := startSubmission(t, port)

	m, cmd := m.Select("/tmp/other.pdf")
	if cmd != nil || len(port.inspected) != 1 {
		t.Fatalf("second select must be ignored, inspected %v", port.inspected)
	}
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Fatal("key input must be ignored while busy")
	}
	if !strings.Contains(m.View(), "Drop target disabled") {
		t.Fatalf("busy view should disable the picker:\n%s", m.View())
	}
}

func TestProgressUpdatesMoveTheBar(t *testing.T) {
	t.Parallel()
	m := startSubmission(t, &fakePort{})
	ch := make(chan analysisdto.ProgressUpdate)

	m, cmd := m.Update(progressMsg{update: analysisdto.ProgressUpdate{Percent: 50, Label: "Analyzing resume..."}, ch: ch})
	if m.Percent() != 50 {
		t.Fatalf("percent = %d", m.Percent())
	}
	if cmd == nil {
		t.Fatal("expected the progress reader to be re-armed")
	}
	if !strings.Contains(m.View(), "50%") {
		t.Fatalf("view missing percentage:\n%s", m.View())
	}
}

func TestFailureShowsBannerAndReenablesPicker(t *testing.T) {
	t.Parallel()
	m := startSubmission(t, &fakePort{})
	m, _ = m.Update(progressMsg{update: analysisdto.ProgressUpdate{Percent: 50}, ch: make(chan analysisdto.ProgressUpdate)})

	failure := &apperrors.BackendError{Endpoint: "/api/analyze-resume", Status: 404, Message: "Analysis not found"}
	m, _ = m.Update(SubmittedMsg{Err: failure})
	if m.Busy() {
		t.Fatal("model must leave busy after a failure")
	}
	if m.Error() != "Analysis not found" {
		t.Fatalf("error = %q", m.Error())
	}
	view := m.View()
	if !strings.Contains(view, "Analysis not found") || strings.Contains(view, "50%") {
		t.Fatalf("banner must replace the progress bar:\n%s", view)
	}
	if strings.Contains(view, "Drop target disabled") {
		t.Fatalf("picker must be enabled again:\n%s", view)
	}

	port := &fakePort{}
	m.port = port
	if _, cmd := m.Select("/tmp/retry.pdf"); cmd == nil {
		t.Fatal("a new selection must be accepted after a failure")
	}
}

func TestSuccessCompletesTheBar(t *testing.T) {
	t.Parallel()
	m := startSubmission(t, &fakePort{})
	m, _ = m.Update(SubmittedMsg{Result: analysisdto.ResultOutput{ATSScore: 82}})
	if m.Busy() || m.Percent() != 100 || m.Error() != "" {
		t.Fatalf("busy=%v percent=%d err=%q", m.Busy(), m.Percent(), m.Error())
	}
}

func TestWaitForProgressReportsClosedChannel(t *testing.T) {
	t.Parallel()
	ch := make(chan analysisdto.ProgressUpdate, 1)
	ch <- analysisdto.ProgressUpdate{Percent: 10}
	close(ch)

	if msg, ok := waitForProgress(ch)().(progressMsg); !ok || msg.update.Percent != 10 {
		t.Fatalf("expected the buffered update first, got %#v", msg)
	}
	if _, ok := waitForProgress(ch)().(progressClosedMsg); !ok {
		t.Fatal("expected progressClosedMsg after close")
	}
}
