package usecase

import (
	"context"

	"resumedash/internal/modules/analysis/domain"
	"resumedash/internal/modules/analysis/dto"
	analysisin "resumedash/internal/modules/analysis/port/in"
	"resumedash/internal/modules/analysis/service"
	apperrors "resumedash/internal/platform/errors"
)

type Interactor struct {
	svc *service.WorkflowService
}

func NewInteractor(svc *service.WorkflowService) analysisin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) InspectFile(ctx context.Context, path string) (dto.FileOutput, error) {
	file, err := i.svc.Inspect(ctx, path)
	if err != nil {
		return dto.FileOutput{}, err
	}
	return dto.FileOutput{
		Name:     file.Name,
		Path:     file.Path,
		MimeType: file.MimeType,
		Size:     file.Size,
		Pages:    file.Preview.Pages,
		Words:    file.Preview.Words,
	}, nil
}

func (i *Interactor) Submit(ctx context.Context, input dto.SubmitInput, onProgress analysisin.ProgressFunc) (dto.ResultOutput, error) {
	var observe func(domain.UploadJob)
	if onProgress != nil {
		observe = func(job domain.UploadJob) { onProgress(toProgressUpdate(job)) }
	}
	stored, err := i.svc.Submit(ctx, input.Path, observe)
	if err != nil {
		return dto.ResultOutput{}, err
	}
	return toResultOutput(stored), nil
}

func (i *Interactor) Busy() bool {
	return i.svc.Busy()
}

func (i *Interactor) LatestResult(ctx context.Context) (dto.ResultOutput, bool, error) {
	stored, ok, err := i.svc.Latest(ctx)
	if err != nil || !ok {
		return dto.ResultOutput{}, false, err
	}
	return toResultOutput(stored), true, nil
}

func (i *Interactor) Report(ctx context.Context) (dto.ReportOutput, bool, error) {
	stored, ok, err := i.svc.Latest(ctx)
	if err != nil || !ok {
		return dto.ReportOutput{}, false, err
	}
	return dto.ReportOutput{Result: toResultOutput(stored), Markdown: stored.Report()}, true, nil
}

func (i *Interactor) ExportResult(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error) {
	path, format, err := i.svc.Export(ctx, input.Format, input.Path)
	if err != nil {
		return dto.ExportOutput{}, err
	}
	return dto.ExportOutput{Format: string(format), Path: path}, nil
}

func (i *Interactor) BackendHealth(ctx context.Context) (dto.HealthOutput, error) {
	status, elapsed, err := i.svc.Health(ctx)
	return dto.HealthOutput{BackendURL: i.svc.BackendURL(), Status: status, Elapsed: elapsed}, err
}

func toProgressUpdate(job domain.UploadJob) dto.ProgressUpdate {
	update := dto.ProgressUpdate{
		FileName: job.FileName,
		ResumeID: job.ResumeID,
		Stage:    string(job.Stage),
		Label:    job.Stage.Label(),
		Percent:  job.Progress(),
		Failed:   job.Stage == domain.StageFailed,
	}
	if job.Err != nil {
		update.Message = apperrors.UserMessage(job.Err)
	}
	return update
}

func toResultOutput(stored domain.StoredResult) dto.ResultOutput {
	result := stored.AnalysisResult
	return dto.ResultOutput{
		ResumeID:    stored.ResumeID,
		FileName:    stored.FileName,
		SavedAt:     stored.SavedAt,
		ATSScore:    result.ATSScore,
		Skills:      result.Skills,
		Education:   result.Education,
		Experience:  dto.ExperienceOutput{Dates: result.Experience.Dates, Roles: result.Experience.Roles},
		Suggestions: result.Suggestions,
		Jobs:        result.Jobs,
	}
}
