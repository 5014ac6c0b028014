package out

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"resumedash/internal/modules/analysis/domain"
	analysisout "resumedash/internal/modules/analysis/port/out"
	apperrors "resumedash/internal/platform/errors"
	"resumedash/internal/platform/logging"
	"resumedash/internal/platform/markdown"
)

type FileResultExporter struct {
	logger *slog.Logger
}

func NewFileResultExporter(logger *slog.Logger) analysisout.ResultExporter {
	if logger == nil {
		logger = logging.Discard()
	}
	return &FileResultExporter{logger: logger}
}

func (e *FileResultExporter) Export(_ context.Context, result domain.StoredResult, format domain.ExportFormat, path string) error {
	start := time.Now()
	var (
		payload []byte
		err     error
	)
	switch format {
	case domain.ExportJSON:
		payload, err = json.MarshalIndent(result, "", "  ")
	case domain.ExportYAML:
		payload, err = yaml.Marshal(toYAMLDocument(result))
	case domain.ExportMarkdown:
		payload, err = encodeMarkdown(result)
	case domain.ExportXLSX:
		payload, err = encodeXLSX(result)
	default:
		return fmt.Errorf("%w: unknown export format %q", apperrors.ErrInvalidInput, format)
	}
	if err != nil {
		return fmt.Errorf("encode %s export: %w", format, err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export dir: %w", err)
		}
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	e.logger.Debug("analysis.export.written", "format", format, "path", path, "bytes", len(payload), "elapsed_ms", time.Since(start).Milliseconds())
	return nil
}

type yamlExperience struct {
	Dates []string `yaml:"dates"`
	Roles []string `yaml:"roles"`
}

type yamlDocument struct {
	ResumeID    string         `yaml:"resume_id"`
	FileName    string         `yaml:"file_name"`
	SavedAt     time.Time      `yaml:"saved_at"`
	ATSScore    int            `yaml:"ats_score"`
	Skills      []string       `yaml:"skills"`
	Education   []string       `yaml:"education"`
	Experience  yamlExperience `yaml:"experience"`
	Suggestions []string       `yaml:"suggestions"`
	Jobs        []string       `yaml:"jobs"`
}

func toYAMLDocument(result domain.StoredResult) yamlDocument {
	r := result.AnalysisResult.Normalize()
	return yamlDocument{
		ResumeID:    result.ResumeID,
		FileName:    result.FileName,
		SavedAt:     result.SavedAt,
		ATSScore:    r.ATSScore,
		Skills:      r.Skills,
		Education:   r.Education,
		Experience:  yamlExperience{Dates: r.Experience.Dates, Roles: r.Experience.Roles},
		Suggestions: r.Suggestions,
		Jobs:        r.Jobs,
	}
}

func encodeMarkdown(result domain.StoredResult) ([]byte, error) {
	meta := map[string]any{
		"resume_id": result.ResumeID,
		"file_name": result.FileName,
		"ats_score": result.ATSScore,
	}
	if !result.SavedAt.IsZero() {
		meta["saved_at"] = result.SavedAt.UTC().Format(time.RFC3339)
	}
	doc, err := markdown.RenderFrontmatter(meta, result.Report())
	if err != nil {
		return nil, err
	}
	return []byte(doc), nil
}

const xlsxSheet = "Analysis"

func encodeXLSX(result domain.StoredResult) ([]byte, error) {
	r := result.AnalysisResult.Normalize()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), xlsxSheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	row := 1
	write := func(section string, value any) {
		a, _ := excelize.CoordinatesToCellName(1, row)
		b, _ := excelize.CoordinatesToCellName(2, row)
		_ = f.SetCellValue(xlsxSheet, a, section)
		_ = f.SetCellValue(xlsxSheet, b, value)
		row++
	}

	write("Section", "Value")
	write("Resume", result.FileName)
	write("Resume ID", result.ResumeID)
	write("ATS Score", r.ATSScore)
	if !result.SavedAt.IsZero() {
		write("Analyzed", result.SavedAt.UTC().Format("2006-01-02 15:04"))
	}
	lists := []struct {
		section string
		items   []string
	}{
		{"Skill", r.Skills},
		{"Education", r.Education},
		{"Experience Date", r.Experience.Dates},
		{"Experience Role", r.Experience.Roles},
		{"Suggestion", r.Suggestions},
		{"Recommendation", r.Jobs},
	}
	for _, list := range lists {
		for _, item := range list.items {
			write(list.section, item)
		}
	}

	_ = f.SetColWidth(xlsxSheet, "A", "A", 18)
	_ = f.SetColWidth(xlsxSheet, "B", "B", 72)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
