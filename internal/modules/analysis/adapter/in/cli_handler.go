package in

import (
	"context"

	"resumedash/internal/modules/analysis/dto"
	analysisin "resumedash/internal/modules/analysis/port/in"
)

type CLIHandler struct {
	usecase analysisin.Usecase
}

func NewCLIHandler(usecase analysisin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Inspect(ctx context.Context, path string) (dto.FileOutput, error) {
	return h.usecase.InspectFile(ctx, path)
}

func (h CLIHandler) Upload(ctx context.Context, path string, onProgress analysisin.ProgressFunc) (dto.ResultOutput, error) {
	return h.usecase.Submit(ctx, dto.SubmitInput{Path: path}, onProgress)
}

func (h CLIHandler) Show(ctx context.Context) (dto.ReportOutput, bool, error) {
	return h.usecase.Report(ctx)
}

func (h CLIHandler) Export(ctx context.Context, format, path string) (dto.ExportOutput, error) {
	return h.usecase.ExportResult(ctx, dto.ExportInput{Format: format, Path: path})
}

func (h CLIHandler) Health(ctx context.Context) (dto.HealthOutput, error) {
	return h.usecase.BackendHealth(ctx)
}
