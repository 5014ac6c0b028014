package out

import (
	"context"

	"resumedash/internal/modules/analysis/domain"
)

// TokenSource yields the bearer token for backend calls; ok=false means the
// user has to sign in again.
type TokenSource interface {
	BearerToken(ctx context.Context) (string, bool)
}

// AnalysisAPI is the remote backend. Each method is one HTTP round trip.
type AnalysisAPI interface {
	UploadResume(ctx context.Context, token string, file domain.ResumeFile) (string, error)
	AnalyzeResume(ctx context.Context, token, resumeID string) (domain.Findings, error)
	ScoreResume(ctx context.Context, token, resumeID string) (int, error)
	RecommendJobs(ctx context.Context, token, resumeID string) ([]string, error)
	Health(ctx context.Context) (string, error)
	BaseURL() string
}

// ResultStore is the single slot holding the latest analysis.
type ResultStore interface {
	Save(ctx context.Context, result domain.StoredResult) error
	// Load reports ok=false before the first Save.
	Load(ctx context.Context) (domain.StoredResult, bool, error)
}

// FileInspector is the drop target: it reads a local file and rejects
// anything that is not an accepted resume type.
type FileInspector interface {
	Inspect(ctx context.Context, path string) (domain.ResumeFile, error)
}

type ResultExporter interface {
	Export(ctx context.Context, result domain.StoredResult, format domain.ExportFormat, path string) error
}
