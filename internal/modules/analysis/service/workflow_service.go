package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"resumedash/internal/modules/analysis/domain"
	analysisout "resumedash/internal/modules/analysis/port/out"
	"resumedash/internal/platform/clock"
	apperrors "resumedash/internal/platform/errors"
	"resumedash/internal/platform/logging"
	"resumedash/internal/platform/slug"
)

// WorkflowService drives one resume through upload, analyze, score and
// recommend, and owns the single result slot.
type WorkflowService struct {
	clock     clock.Clock
	tokens    analysisout.TokenSource
	api       analysisout.AnalysisAPI
	store     analysisout.ResultStore
	inspector analysisout.FileInspector
	exporter  analysisout.ResultExporter
	logger    *slog.Logger

	inFlight atomic.Bool
}

func NewWorkflowService(
	clock clock.Clock,
	tokens analysisout.TokenSource,
	api analysisout.AnalysisAPI,
	store analysisout.ResultStore,
	inspector analysisout.FileInspector,
	exporter analysisout.ResultExporter,
	logger *slog.Logger,
) *WorkflowService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &WorkflowService{
		clock:     clock,
		tokens:    tokens,
		api:       api,
		store:     store,
		inspector: inspector,
		exporter:  exporter,
		logger:    logger,
	}
}

// Busy reports whether a submission is running.
func (s *WorkflowService) Busy() bool {
	return s.inFlight.Load()
}

func (s *WorkflowService) Inspect(ctx context.Context, path string) (domain.ResumeFile, error) {
	if strings.TrimSpace(path) == "" {
		return domain.ResumeFile{}, fmt.Errorf("%w: file path is required", apperrors.ErrInvalidInput)
	}
	return s.inspector.Inspect(ctx, path)
}

// Submit runs the pipeline for the file at path. observe sees the job after
// every transition, including the final Done or Failed. Only one submission
// may run at a time; a concurrent call fails with ErrSubmissionInFlight.
func (s *WorkflowService) Submit(ctx context.Context, path string, observe func(domain.UploadJob)) (domain.StoredResult, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return domain.StoredResult{}, apperrors.ErrSubmissionInFlight
	}
	defer s.inFlight.Store(false)

	job := domain.NewUploadJob(filepath.Base(path))
	notify := func() {
		if observe != nil {
			observe(*job)
		}
	}
	started := s.clock.Now()
	s.logger.Info("analysis.submit.start", "file", job.FileName)

	stored, err := s.run(ctx, path, job, notify)
	if err != nil {
		job.Fail(err)
		notify()
		s.logger.Warn("analysis.submit.failed",
			"file", job.FileName,
			"resume_id", job.ResumeID,
			"stage", job.FailedIn,
			"error", err,
		)
		return domain.StoredResult{}, err
	}
	s.logger.Info("analysis.submit.done",
		"file", job.FileName,
		"resume_id", stored.ResumeID,
		"ats_score", stored.ATSScore,
		"elapsed_ms", s.clock.Now().Sub(started).Milliseconds(),
	)
	return stored, nil
}

func (s *WorkflowService) run(ctx context.Context, path string, job *domain.UploadJob, notify func()) (domain.StoredResult, error) {
	file, err := s.Inspect(ctx, path)
	if err != nil {
		return domain.StoredResult{}, err
	}
	if !domain.Accepted(file.MimeType) {
		return domain.StoredResult{}, &apperrors.UnsupportedFileTypeError{Name: file.Name, MimeType: file.MimeType}
	}
	job.FileName = file.Name

	if err := s.advance(job, domain.StageUploading, notify); err != nil {
		return domain.StoredResult{}, err
	}
	token, ok := s.tokens.BearerToken(ctx)
	if !ok {
		return domain.StoredResult{}, fmt.Errorf("%w: no valid session", apperrors.ErrUnauthenticated)
	}
	resumeID, err := s.api.UploadResume(ctx, token, file)
	if err != nil {
		return domain.StoredResult{}, err
	}
	if resumeID == "" {
		return domain.StoredResult{}, fmt.Errorf("%w: upload returned no resume_id", apperrors.ErrBackend)
	}
	job.ResumeID = resumeID

	if err := s.advance(job, domain.StageAnalyzing, notify); err != nil {
		return domain.StoredResult{}, err
	}
	findings, err := s.api.AnalyzeResume(ctx, token, resumeID)
	if err != nil {
		return domain.StoredResult{}, err
	}

	if err := s.advance(job, domain.StageScoring, notify); err != nil {
		return domain.StoredResult{}, err
	}
	score, err := s.api.ScoreResume(ctx, token, resumeID)
	if err != nil {
		return domain.StoredResult{}, err
	}

	if err := s.advance(job, domain.StageRecommending, notify); err != nil {
		return domain.StoredResult{}, err
	}
	jobs, err := s.api.RecommendJobs(ctx, token, resumeID)
	if err != nil {
		return domain.StoredResult{}, err
	}

	stored := domain.StoredResult{
		AnalysisResult: domain.Merge(findings, score, jobs),
		ResumeID:       resumeID,
		FileName:       file.Name,
		SavedAt:        s.clock.Now(),
	}
	// Done is only reported once the result is durable.
	if err := s.store.Save(ctx, stored); err != nil {
		return domain.StoredResult{}, fmt.Errorf("save analysis: %w", err)
	}
	if err := s.advance(job, domain.StageDone, notify); err != nil {
		return domain.StoredResult{}, err
	}
	return stored, nil
}

func (s *WorkflowService) advance(job *domain.UploadJob, to domain.Stage, notify func()) error {
	if err := job.Advance(to); err != nil {
		return err
	}
	s.logger.Debug("analysis.stage", "file", job.FileName, "resume_id", job.ResumeID, "stage", to, "progress", job.Progress())
	notify()
	return nil
}

func (s *WorkflowService) Latest(ctx context.Context) (domain.StoredResult, bool, error) {
	stored, ok, err := s.store.Load(ctx)
	if err != nil || !ok {
		return domain.StoredResult{}, false, err
	}
	stored.AnalysisResult = stored.AnalysisResult.Normalize()
	return stored, true, nil
}

// Export writes the latest result in the given format. An empty path picks
// "<file-stem>-analysis.<ext>" in the working directory.
func (s *WorkflowService) Export(ctx context.Context, rawFormat, path string) (string, domain.ExportFormat, error) {
	format, ok := domain.ParseExportFormat(rawFormat)
	if !ok {
		return "", "", fmt.Errorf("%w: unknown export format %q (want one of %v)", apperrors.ErrInvalidInput, rawFormat, domain.ExportFormats())
	}
	stored, ok, err := s.Latest(ctx)
	if err != nil {
		return "", "", err
	}
	if !ok {
		return "", "", apperrors.ErrNoAnalysis
	}
	if strings.TrimSpace(path) == "" {
		path = slug.FileStem(stored.FileName) + "-analysis." + string(format)
	}
	if err := s.exporter.Export(ctx, stored, format, path); err != nil {
		return "", "", err
	}
	s.logger.Info("analysis.export", "format", format, "path", path, "resume_id", stored.ResumeID)
	return path, format, nil
}

// Health pings the backend's health endpoint.
func (s *WorkflowService) Health(ctx context.Context) (string, time.Duration, error) {
	started := time.Now()
	status, err := s.api.Health(ctx)
	elapsed := time.Since(started)
	if err != nil {
		return "", elapsed, err
	}
	if status == "" {
		return "", elapsed, errors.New("health endpoint returned no status")
	}
	return status, elapsed, nil
}

func (s *WorkflowService) BackendURL() string {
	return s.api.BaseURL()
}
