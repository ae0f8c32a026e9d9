package port

import (
	"context"

	"github.com/fiapx/fiapx-keyframe-extractor/internal/domain/entity"
)

type FrameWriter interface {
	WriteFrame(ctx context.Context, frame *entity.Frame) (string, error)
}

// Progress follows the scan position over all frame indices.
type Progress interface {
	Start(total int)
	Set(frameIndex int)
	Finish()
}
