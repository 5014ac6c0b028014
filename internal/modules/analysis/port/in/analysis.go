package in

import (
	"context"

	"resumedash/internal/modules/analysis/dto"
)

// ProgressFunc receives stage transitions. It is called on the submitting
// goroutine and must not block.
type ProgressFunc func(dto.ProgressUpdate)

type Usecase interface {
	InspectFile(ctx context.Context, path string) (dto.FileOutput, error)
	Submit(ctx context.Context, input dto.SubmitInput, onProgress ProgressFunc) (dto.ResultOutput, error)
	Busy() bool
	LatestResult(ctx context.Context) (dto.ResultOutput, bool, error)
	Report(ctx context.Context) (dto.ReportOutput, bool, error)
	ExportResult(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error)
	BackendHealth(ctx context.Context) (dto.HealthOutput, error)
}
