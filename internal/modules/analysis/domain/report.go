package domain

import (
	"fmt"
	"strings"

	"resumedash/internal/platform/markdown"
)

const gaugeWidth = 20

// ScoreGauge draws the ATS score as a fixed-width bar.
func ScoreGauge(score int) string {
	score = ClampScore(score)
	filled := score * gaugeWidth / 100
	return fmt.Sprintf("`%s%s` **%d** / 100", strings.Repeat("█", filled), strings.Repeat("░", gaugeWidth-filled), score)
}

// Report renders a stored result as the markdown shown in the results view
// and written by the markdown export.
func (r StoredResult) Report() string {
	result := r.AnalysisResult.Normalize()
	lead := []string{"ATS score: " + ScoreGauge(result.ATSScore)}
	if r.FileName != "" {
		lead = append(lead, "Resume: "+r.FileName)
	}
	if !r.SavedAt.IsZero() {
		lead = append(lead, "Analyzed: "+r.SavedAt.Local().Format("2006-01-02 15:04"))
	}
	return markdown.RenderReport("Analysis Results", strings.Join(lead, "  \n"), []markdown.Section{
		{Heading: "Skills", Items: result.Skills, Empty: "no skills detected"},
		{Heading: "Education", Items: result.Education, Empty: "no education detected"},
		{Heading: "Experience: dates", Items: result.Experience.Dates, Empty: "no dates detected"},
		{Heading: "Experience: roles", Items: result.Experience.Roles, Empty: "no roles detected"},
		{Heading: "Suggestions", Items: result.Suggestions, Empty: "no suggestions"},
		{Heading: "Recommendations", Items: result.Jobs, Empty: "no job recommendations"},
	})
}
