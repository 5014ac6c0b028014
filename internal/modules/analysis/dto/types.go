package dto

import "time"

type SubmitInput struct {
	Path string
}

// ProgressUpdate is sent to the caller on every stage transition.
type ProgressUpdate struct {
	FileName string
	ResumeID string
	Stage    string
	Label    string
	Percent  int
	Failed   bool
	Message  string
}

type FileOutput struct {
	Name     string
	Path     string
	MimeType string
	Size     int64
	Pages    int
	Words    int
}

type ExperienceOutput struct {
	Dates []string
	Roles []string
}

type ResultOutput struct {
	ResumeID    string
	FileName    string
	SavedAt     time.Time
	ATSScore    int
	Skills      []string
	Education   []string
	Experience  ExperienceOutput
	Suggestions []string
	Jobs        []string
}

type ReportOutput struct {
	Result   ResultOutput
	Markdown string
}

type ExportInput struct {
	Format string
	Path   string
}

type ExportOutput struct {
	Format string
	Path   string
}

type HealthOutput struct {
	BackendURL string
	Status     string
	Elapsed    time.Duration
}
