package domain

import "strings"

type ExportFormat string

const (
	ExportJSON     ExportFormat = "json"
	ExportYAML     ExportFormat = "yaml"
	ExportMarkdown ExportFormat = "md"
	ExportXLSX     ExportFormat = "xlsx"
)

func ExportFormats() []ExportFormat {
	return []ExportFormat{ExportJSON, ExportYAML, ExportMarkdown, ExportXLSX}
}

// ParseExportFormat accepts a format name or a common alias.
func ParseExportFormat(raw string) (ExportFormat, bool) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(raw), ".")) {
	case "json":
		return ExportJSON, true
	case "yaml", "yml":
		return ExportYAML, true
	case "md", "markdown":
		return ExportMarkdown, true
	case "xlsx", "excel":
		return ExportXLSX, true
	}
	return "", false
}
