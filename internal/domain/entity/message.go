package entity

import "github.com/google/uuid"

// KeyframesExtractedMessage is published once a run has finished.
type KeyframesExtractedMessage struct {
	RunID       uuid.UUID `json:"run_id"`
	Input       string    `json:"input"`
	Status      RunStatus `json:"status"`
	FrameCount  int       `json:"frame_count"`
	FPS         float64   `json:"fps"`
	NthSecond   int       `json:"nth_second"`
	Threshold   float64   `json:"threshold"`
	Comparisons int       `json:"comparisons"`
	Skipped     int       `json:"skipped"`
	Keyframes   []int     `json:"keyframes"`
	ObjectKeys  []string  `json:"object_keys,omitempty"`
	ArchivePath string    `json:"archive_path,omitempty"`
	Error       string    `json:"error,omitempty"`
}

func NewKeyframesExtractedMessage(r *Run) KeyframesExtractedMessage {
	msg := KeyframesExtractedMessage{
		RunID:       r.ID,
		Input:       r.Input,
		Status:      r.Status,
		FrameCount:  r.FrameCount,
		FPS:         r.FPS,
		NthSecond:   r.NthSecond,
		Threshold:   r.Threshold,
		Comparisons: r.Comparisons,
		Skipped:     r.Skipped,
		Keyframes:   r.Written(),
		ArchivePath: r.ArchivePath,
		Error:       r.Error,
	}
	for _, k := range r.Keyframes {
		if k.ObjectKey != "" {
			msg.ObjectKeys = append(msg.ObjectKeys, k.ObjectKey)
		}
	}
	return msg
}
