package domain

import "fmt"

type Stage string

const (
	StageIdle         Stage = "idle"
	StageUploading    Stage = "uploading"
	StageAnalyzing    Stage = "analyzing"
	StageScoring      Stage = "scoring"
	StageRecommending Stage = "recommending"
	StageDone         Stage = "done"
	StageFailed       Stage = "failed"
)

// pipeline is the only legal order of stages; Failed can be entered from any
// non-terminal stage.
var pipeline = []Stage{StageIdle, StageUploading, StageAnalyzing, StageScoring, StageRecommending, StageDone}

var stageProgress = map[Stage]int{
	StageIdle:         0,
	StageUploading:    10,
	StageAnalyzing:    50,
	StageScoring:      70,
	StageRecommending: 90,
	StageDone:         100,
}

// Progress is the fixed checkpoint for a stage. Failed has none of its own.
func (s Stage) Progress() int {
	return stageProgress[s]
}

func (s Stage) Terminal() bool {
	return s == StageDone || s == StageFailed
}

func (s Stage) Label() string {
	switch s {
	case StageIdle:
		return "Waiting for a resume"
	case StageUploading:
		return "Uploading resume..."
	case StageAnalyzing:
		return "Analyzing resume..."
	case StageScoring:
		return "Calculating ATS score..."
	case StageRecommending:
		return "Finding job recommendations..."
	case StageDone:
		return "Analysis complete"
	case StageFailed:
		return "Analysis failed"
	default:
		return string(s)
	}
}

func stageIndex(s Stage) int {
	for i, candidate := range pipeline {
		if candidate == s {
			return i
		}
	}
	return -1
}

// UploadJob tracks one submission through the pipeline.
type UploadJob struct {
	FileName string
	ResumeID string
	Stage    Stage
	// FailedIn is the stage that was active when the job failed.
	FailedIn Stage
	Err      error
}

func NewUploadJob(fileName string) *UploadJob {
	return &UploadJob{FileName: fileName, Stage: StageIdle}
}

// Advance moves the job exactly one stage forward.
func (j *UploadJob) Advance(to Stage) error {
	from := stageIndex(j.Stage)
	if from < 0 || j.Stage.Terminal() || stageIndex(to) != from+1 {
		return fmt.Errorf("illegal stage transition %s -> %s", j.Stage, to)
	}
	j.Stage = to
	return nil
}

func (j *UploadJob) Fail(err error) {
	if j.Stage.Terminal() {
		return
	}
	j.FailedIn = j.Stage
	j.Stage = StageFailed
	j.Err = err
}

// Progress is derived from the stage; a failed job keeps the checkpoint of
// the stage it failed in.
func (j *UploadJob) Progress() int {
	if j.Stage == StageFailed {
		return j.FailedIn.Progress()
	}
	return j.Stage.Progress()
}
