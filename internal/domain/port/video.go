package port

import (
	"context"

	"github.com/fiapx/fiapx-keyframe-extractor/internal/domain/entity"
)

// VideoSource gives random access to the frames of an opened video.
type VideoSource interface {
	FrameCount() int
	FPS() float64
	ReadFrame(ctx context.Context, index int) (*entity.Frame, error)
	Close() error
}

type VideoOpener interface {
	Open(ctx context.Context, path string) (VideoSource, error)
}
