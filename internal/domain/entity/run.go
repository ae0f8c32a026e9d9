package entity

import (
	"time"

	"github.com/google/uuid"
)

type RunStatus string

const (
	RunStatusScanning  RunStatus = "SCANNING"
	RunStatusCompleted RunStatus = "COMPLETED"
	RunStatusFailed    RunStatus = "FAILED"
)

// Comparison is the outcome of scoring one sampled frame against the
// previously sampled one.
type Comparison struct {
	FrameIndex    int
	PreviousIndex int
	Keypoints     int
	GoodMatches   int
	MatchRatio    float64
	Skipped       bool
	Written       bool
	Path          string
}

// Keyframe is a frame judged different enough to be written.
type Keyframe struct {
	FrameIndex int
	MatchRatio float64
	Path       string
	ObjectKey  string
}

type Run struct {
	ID          uuid.UUID
	Input       string
	NthSecond   int
	Threshold   float64
	FrameCount  int
	FPS         float64
	NthFrame    int
	Status      RunStatus
	Comparisons int
	Skipped     int
	Keyframes   []Keyframe
	ArchivePath string
	Error       string
	StartedAt   time.Time
	CompletedAt *time.Time
}

func NewRun(input string, nthSecond int, threshold float64) *Run {
	return &Run{
		ID:        uuid.New(),
		Input:     input,
		NthSecond: nthSecond,
		Threshold: threshold,
		Status:    RunStatusScanning,
		StartedAt: time.Now().UTC(),
	}
}

// Record folds one comparison into the run counters.
func (r *Run) Record(c Comparison) {
	r.Comparisons++
	if c.Skipped {
		r.Skipped++
		return
	}
	if c.Written {
		r.Keyframes = append(r.Keyframes, Keyframe{
			FrameIndex: c.FrameIndex,
			MatchRatio: c.MatchRatio,
			Path:       c.Path,
		})
	}
}

func (r *Run) MarkCompleted() {
	now := time.Now().UTC()
	r.Status = RunStatusCompleted
	r.CompletedAt = &now
}

func (r *Run) MarkFailed(errMsg string) {
	now := time.Now().UTC()
	r.Status = RunStatusFailed
	r.Error = errMsg
	r.CompletedAt = &now
}

// Written returns the indices of the written keyframes in scan order.
func (r *Run) Written() []int {
	out := make([]int, 0, len(r.Keyframes))
	for _, k := range r.Keyframes {
		out = append(out, k.FrameIndex)
	}
	return out
}

func (r *Run) KeyframePaths() []string {
	out := make([]string, 0, len(r.Keyframes))
	for _, k := range r.Keyframes {
		out = append(out, k.Path)
	}
	return out
}
