package out_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	analysisout "resumedash/internal/modules/analysis/adapter/out"
	"resumedash/internal/modules/analysis/domain"
	"resumedash/internal/platform/markdown"
)

func TestExportJSONKeepsWireKeys(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "analysis.json")
	exporter := analysisout.NewFileResultExporter(nil)
	if err := exporter.Export(context.Background(), sampleResult("r1", 82), domain.ExportJSON, path); err != nil {
		t.Fatalf("export: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	decoded := domain.StoredResult{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.ATSScore != 82 || decoded.ResumeID != "r1" || decoded.Jobs[0] != "Backend Engineer" {
		t.Fatalf("unexpected decoded export %+v", decoded)
	}
	if !strings.Contains(string(raw), `"atsScore": 82`) {
		t.Fatalf("expected atsScore key in %s", raw)
	}
}

func TestExportYAML(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "analysis.yaml")
	exporter := analysisout.NewFileResultExporter(nil)
	if err := exporter.Export(context.Background(), sampleResult("r1", 82), domain.ExportYAML, path); err != nil {
		t.Fatalf("export: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	decoded := map[string]any{}
	if err := yaml.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded["ats_score"] != 82 || decoded["resume_id"] != "r1" {
		t.Fatalf("unexpected yaml %v", decoded)
	}
}

func TestExportMarkdownCarriesFrontmatter(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "analysis.md")
	exporter := analysisout.NewFileResultExporter(nil)
	if err := exporter.Export(context.Background(), sampleResult("r1", 82), domain.ExportMarkdown, path); err != nil {
		t.Fatalf("export: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	meta, body, err := markdown.SplitFrontmatter(string(raw))
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if meta["resume_id"] != "r1" || meta["ats_score"] != 82 {
		t.Fatalf("unexpected frontmatter %v", meta)
	}
	if !strings.Contains(body, "# Analysis Results") || !strings.Contains(body, "- Add metrics") {
		t.Fatalf("unexpected body:\n%s", body)
	}
}

func TestExportXLSX(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "analysis.xlsx")
	exporter := analysisout.NewFileResultExporter(nil)
	if err := exporter.Export(context.Background(), sampleResult("r1", 82), domain.ExportXLSX, path); err != nil {
		t.Fatalf("export: %v", err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows("Analysis")
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	found := map[string]string{}
	for _, row := range rows {
		if len(row) == 2 {
			found[row[0]+"|"+row[1]] = row[1]
		}
	}
	for _, want := range []string{"ATS Score|82", "Skill|Python", "Experience Role|Engineer", "Recommendation|Backend Engineer"} {
		if _, ok := found[want]; !ok {
			t.Fatalf("missing row %q in %v", want, rows)
		}
	}
}
