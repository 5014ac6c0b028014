package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"resumedash/internal/platform/config"
	apperrors "resumedash/internal/platform/errors"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeWithInput(t, "", args...)
}

func executeWithInput(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--state-dir", t.TempDir()}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestCommandTree(t *testing.T) {
	root := newRootCmd()
	want := []string{"login", "logout", "whoami", "upload", "results", "doctor", "tui"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Fatalf("command %q not registered: %v", name, err)
		}
	}
	for _, path := range [][]string{{"results", "show"}, {"results", "export"}} {
		cmd, _, err := root.Find(path)
		if err != nil || cmd.Name() != path[1] {
			t.Fatalf("command %v not registered: %v", path, err)
		}
	}
}

func TestWhoamiWithoutSession(t *testing.T) {
	out, err := execute(t, "whoami")
	if err != nil {
		t.Fatalf("whoami: %v", err)
	}
	if !strings.Contains(out, "not signed in") {
		t.Fatalf("output = %q", out)
	}
}

func TestResultsShowBeforeFirstAnalysis(t *testing.T) {
	out, err := execute(t, "results", "show")
	if err != nil {
		t.Fatalf("results show: %v", err)
	}
	if !strings.Contains(out, "no analysis yet") {
		t.Fatalf("output = %q", out)
	}
}

func TestResultsExportErrors(t *testing.T) {
	if _, err := execute(t, "results", "export", "--format", "csv"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("csv export err = %v", err)
	}
	if _, err := execute(t, "results", "export", "--format", "json"); !errors.Is(err, apperrors.ErrNoAnalysis) {
		t.Fatalf("empty export err = %v", err)
	}
}

func TestUploadRejectsTextFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.txt")
	if err := os.WriteFile(path, []byte("plain text"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "upload", path); !errors.Is(err, apperrors.ErrUnsupportedFileType) {
		t.Fatalf("upload err = %v", err)
	}
}

func TestPromptPasswordReadsPipedLine(t *testing.T) {
	var out bytes.Buffer
	stdin := strings.NewReader("s3cret\n")
	got, err := promptPassword(bufio.NewReader(stdin), stdin, &out, "Password: ")
	if err != nil {
		t.Fatalf("prompt: %v", err)
	}
	if got != "s3cret" {
		t.Fatalf("password = %q", got)
	}
	if out.String() != "Password: " {
		t.Fatalf("prompt output = %q", out.String())
	}
}

func TestLoginPromptsForCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := map[string]string{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "ada@example.com" || body["password"] != "s3cret" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error_description":"Invalid login credentials"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-1",
			"expires_at":   1792400000,
			"user":         map[string]string{"id": "u-1", "email": "ada@example.com"},
		})
	}))
	defer srv.Close()
	t.Setenv(config.EnvIdentityURL, srv.URL)
	t.Setenv(envEmail, "")
	t.Setenv(envPassword, "")

	out, err := executeWithInput(t, "ada@example.com\ns3cret\n", "login")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(out, "signed in as ada@example.com") {
		t.Fatalf("output = %q", out)
	}
	if strings.Contains(out, "s3cret") {
		t.Fatalf("password echoed: %q", out)
	}
}
