package vision

import (
	"context"
	"fmt"

	"github.com/fiapx/fiapx-keyframe-extractor/internal/domain/entity"
	"github.com/fiapx/fiapx-keyframe-extractor/internal/domain/port"
	"go.uber.org/zap"
	"gocv.io/x/gocv"
)

// OpenCVVersion is reported in the run banner.
func OpenCVVersion() string {
	return gocv.OpenCVVersion()
}

type Opener struct {
	logger *zap.Logger
}

func NewOpener(logger *zap.Logger) *Opener {
	return &Opener{logger: logger}
}

func (o *Opener) Open(_ context.Context, path string) (port.VideoSource, error) {
	capture, err := gocv.OpenVideoCapture(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", port.ErrOpenVideo, path, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("%w: %s", port.ErrOpenVideo, path)
	}

	src := &VideoSource{
		capture:    capture,
		mat:        gocv.NewMat(),
		fps:        capture.Get(gocv.VideoCaptureFPS),
		frameCount: int(capture.Get(gocv.VideoCaptureFrameCount)),
	}
	o.logger.Debug("video opened",
		zap.String("path", path),
		zap.String("backend", capture.CodecString()),
		zap.Int("frame_count", src.frameCount),
		zap.Float64("fps", src.fps),
	)
	return src, nil
}

// VideoSource seeks and decodes frames through an OpenCV VideoCapture. It is
// not safe for concurrent use.
type VideoSource struct {
	capture    *gocv.VideoCapture
	mat        gocv.Mat
	fps        float64
	frameCount int
}

func (v *VideoSource) FrameCount() int { return v.frameCount }
func (v *VideoSource) FPS() float64    { return v.fps }

func (v *VideoSource) ReadFrame(_ context.Context, index int) (*entity.Frame, error) {
	v.capture.Set(gocv.VideoCapturePosFrames, float64(index))
	if ok := v.capture.Read(&v.mat); !ok || v.mat.Empty() {
		return nil, fmt.Errorf("%w: frame %d", port.ErrDecodeFrame, index)
	}

	img, err := v.mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("%w: frame %d: %w", port.ErrDecodeFrame, index, err)
	}
	return &entity.Frame{Index: index, Image: img}, nil
}

func (v *VideoSource) Close() error {
	v.mat.Close()
	return v.capture.Close()
}
