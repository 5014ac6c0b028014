package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	analysisoutadapter "resumedash/internal/modules/analysis/adapter/out"
	"resumedash/internal/modules/analysis/dto"
	analysisin "resumedash/internal/modules/analysis/port/in"
	"resumedash/internal/modules/analysis/service"
	"resumedash/internal/modules/analysis/usecase"
	"resumedash/internal/platform/clock"
	apperrors "resumedash/internal/platform/errors"
)

type staticTokens string

func (s staticTokens) BearerToken(context.Context) (string, bool) {
	return string(s), s != ""
}

type scenarioBackend struct {
	mu    sync.Mutex
	paths []string
}

func (b *scenarioBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.paths = append(b.paths, r.URL.Path)
	b.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/api/upload-resume":
		_, _ = w.Write([]byte(`{"resume_id":"r1"}`))
	case "/api/analyze-resume":
		_, _ = w.Write([]byte(`{"skills":["Python"],"education":["BSc"],"experience":{"dates":["2020-2022"],"roles":["Engineer"]},"suggestions":["Add metrics"]}`))
	case "/api/ats-score":
		_, _ = w.Write([]byte(`{"score":82}`))
	case "/api/job-recommendations":
		_, _ = w.Write([]byte(`{"jobs":["Backend Engineer"]}`))
	default:
		http.NotFound(w, r)
	}
}

func newUsecase(t *testing.T, backendURL string, token string) (analysisin.Usecase, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := analysisoutadapter.NewSQLiteResultStore(filepath.Join(dir, "state.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	svc := service.NewWorkflowService(
		clock.Fixed{At: time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)},
		staticTokens(token),
		analysisoutadapter.NewHTTPAnalysisAPI(backendURL, nil, nil),
		store,
		analysisoutadapter.NewLocalFileInspector(nil),
		analysisoutadapter.NewFileResultExporter(nil),
		nil,
	)
	return usecase.NewInteractor(svc), dir
}

func TestDroppingResumeStoresMergedAnalysis(t *testing.T) {
	t.Parallel()
	b := &scenarioBackend{}
	srv := httptest.NewServer(b)
	defer srv.Close()

	uc, dir := newUsecase(t, srv.URL, "tok")
	path := filepath.Join(dir, "resume.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4\n"), 0o644); err != nil {
		t.Fatalf("write resume: %v", err)
	}

	if _, ok, err := uc.LatestResult(context.Background()); ok || err != nil {
		t.Fatalf("expected no analysis yet, ok=%t err=%v", ok, err)
	}

	var updates []dto.ProgressUpdate
	out, err := uc.Submit(context.Background(), dto.SubmitInput{Path: path}, func(u dto.ProgressUpdate) {
		updates = append(updates, u)
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !reflect.DeepEqual(b.paths, []string{"/api/upload-resume", "/api/analyze-resume", "/api/ats-score", "/api/job-recommendations"}) {
		t.Fatalf("unexpected request order %v", b.paths)
	}
	if len(updates) != 5 || updates[4].Percent != 100 || updates[4].Stage != "done" {
		t.Fatalf("unexpected progress updates %+v", updates)
	}

	latest, ok, err := uc.LatestResult(context.Background())
	if err != nil || !ok {
		t.Fatalf("latest: ok=%t err=%v", ok, err)
	}
	want := dto.ResultOutput{
		ResumeID:    "r1",
		FileName:    "resume.pdf",
		SavedAt:     out.SavedAt,
		ATSScore:    82,
		Skills:      []string{"Python"},
		Education:   []string{"BSc"},
		Experience:  dto.ExperienceOutput{Dates: []string{"2020-2022"}, Roles: []string{"Engineer"}},
		Suggestions: []string{"Add metrics"},
		Jobs:        []string{"Backend Engineer"},
	}
	if !reflect.DeepEqual(latest, want) {
		t.Fatalf("stored result mismatch:\n got %+v\nwant %+v", latest, want)
	}

	report, ok, err := uc.Report(context.Background())
	if err != nil || !ok || report.Result.ATSScore != 82 || report.Markdown == "" {
		t.Fatalf("unexpected report ok=%t err=%v", ok, err)
	}

	exported, err := uc.ExportResult(context.Background(), dto.ExportInput{Format: "md", Path: filepath.Join(dir, "out.md")})
	if err != nil || exported.Format != "md" {
		t.Fatalf("export: %+v err=%v", exported, err)
	}
}

func TestTextResumeIsRejectedBeforeAnyRequest(t *testing.T) {
	t.Parallel()
	b := &scenarioBackend{}
	srv := httptest.NewServer(b)
	defer srv.Close()

	uc, dir := newUsecase(t, srv.URL, "tok")
	path := filepath.Join(dir, "resume.txt")
	if err := os.WriteFile(path, []byte("Ada Lovelace, engineer"), 0o644); err != nil {
		t.Fatalf("write resume: %v", err)
	}
	if _, err := uc.InspectFile(context.Background(), path); !errors.Is(err, apperrors.ErrUnsupportedFileType) {
		t.Fatalf("inspect: expected unsupported file type, got %v", err)
	}
	var last dto.ProgressUpdate
	_, err := uc.Submit(context.Background(), dto.SubmitInput{Path: path}, func(u dto.ProgressUpdate) { last = u })
	if !errors.Is(err, apperrors.ErrUnsupportedFileType) {
		t.Fatalf("submit: expected unsupported file type, got %v", err)
	}
	if !last.Failed || last.Message != "Only PDF or DOCX files are accepted." {
		t.Fatalf("expected failed update with banner message, got %+v", last)
	}
	if len(b.paths) != 0 {
		t.Fatalf("expected zero requests, got %v", b.paths)
	}
}

func TestBackendHealth(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	}))
	defer srv.Close()

	uc, _ := newUsecase(t, srv.URL, "")
	health, err := uc.BackendHealth(context.Background())
	if err != nil || health.Status != "healthy" || health.BackendURL != srv.URL {
		t.Fatalf("unexpected health %+v err=%v", health, err)
	}
}
