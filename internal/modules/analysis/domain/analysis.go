package domain

import "time"

type Experience struct {
	Dates []string `json:"dates"`
	Roles []string `json:"roles"`
}

// Findings is the analyze endpoint's part of a result.
type Findings struct {
	Skills      []string   `json:"skills"`
	Education   []string   `json:"education"`
	Experience  Experience `json:"experience"`
	Suggestions []string   `json:"suggestions"`
}

type AnalysisResult struct {
	ATSScore    int        `json:"atsScore"`
	Skills      []string   `json:"skills"`
	Education   []string   `json:"education"`
	Experience  Experience `json:"experience"`
	Suggestions []string   `json:"suggestions"`
	Jobs        []string   `json:"jobs"`
}

// StoredResult is what the result store keeps: the merged result plus enough
// context to title a report.
type StoredResult struct {
	AnalysisResult
	ResumeID string    `json:"resumeId"`
	FileName string    `json:"fileName"`
	SavedAt  time.Time `json:"savedAt"`
}

// Merge assembles the three analysis responses into one result.
func Merge(findings Findings, score int, jobs []string) AnalysisResult {
	return AnalysisResult{
		ATSScore:    score,
		Skills:      findings.Skills,
		Education:   findings.Education,
		Experience:  findings.Experience,
		Suggestions: findings.Suggestions,
		Jobs:        jobs,
	}.Normalize()
}

// Normalize replaces nil lists with empty ones and clamps the score to 0..100.
func (r AnalysisResult) Normalize() AnalysisResult {
	r.ATSScore = ClampScore(r.ATSScore)
	r.Skills = orEmpty(r.Skills)
	r.Education = orEmpty(r.Education)
	r.Experience.Dates = orEmpty(r.Experience.Dates)
	r.Experience.Roles = orEmpty(r.Experience.Roles)
	r.Suggestions = orEmpty(r.Suggestions)
	r.Jobs = orEmpty(r.Jobs)
	return r
}

func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func orEmpty(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
