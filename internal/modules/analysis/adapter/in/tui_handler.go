package in

import (
	"context"

	"resumedash/internal/modules/analysis/dto"
	analysisin "resumedash/internal/modules/analysis/port/in"
)

type TUIHandler struct {
	usecase analysisin.Usecase
}

func NewTUIHandler(usecase analysisin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) InspectFile(ctx context.Context, path string) (dto.FileOutput, error) {
	return h.usecase.InspectFile(ctx, path)
}

// Submit runs the upload and streams every stage transition into updates,
// closing it when the run ends. updates should be buffered; a full channel
// drops intermediate stages rather than stall the workflow.
func (h TUIHandler) Submit(ctx context.Context, path string, updates chan<- dto.ProgressUpdate) (dto.ResultOutput, error) {
	defer close(updates)
	return h.usecase.Submit(ctx, dto.SubmitInput{Path: path}, func(update dto.ProgressUpdate) {
		select {
		case updates <- update:
		default:
		}
	})
}

func (h TUIHandler) Busy() bool {
	return h.usecase.Busy()
}

func (h TUIHandler) Report(ctx context.Context) (dto.ReportOutput, bool, error) {
	return h.usecase.Report(ctx)
}

func (h TUIHandler) ExportResult(ctx context.Context, format, path string) (dto.ExportOutput, error) {
	return h.usecase.ExportResult(ctx, dto.ExportInput{Format: format, Path: path})
}
