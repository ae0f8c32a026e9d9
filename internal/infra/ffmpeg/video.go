package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/fiapx/fiapx-keyframe-extractor/internal/domain/entity"
	"github.com/fiapx/fiapx-keyframe-extractor/internal/domain/port"
	ffmpeggo "github.com/u2takey/ffmpeg-go"
	"go.uber.org/zap"
)

type Opener struct {
	logger *zap.Logger
}

func NewOpener(logger *zap.Logger) *Opener {
	return &Opener{logger: logger}
}

func (o *Opener) Open(ctx context.Context, path string) (port.VideoSource, error) {
	info, err := Probe(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", port.ErrOpenVideo, path, err)
	}

	o.logger.Debug("video probed",
		zap.String("path", path),
		zap.String("codec", info.Codec),
		zap.Int("width", info.Width),
		zap.Int("height", info.Height),
		zap.Int("frame_count", info.FrameCount),
		zap.Float64("fps", info.FPS),
		zap.Duration("duration", info.Duration),
	)
	return &VideoSource{path: path, info: info}, nil
}

// VideoSource decodes one frame per ffmpeg process, seeking by timestamp. It
// is slower than the OpenCV source but needs only the ffmpeg binaries.
type VideoSource struct {
	path string
	info *VideoInfo
}

func (v *VideoSource) FrameCount() int { return v.info.FrameCount }
func (v *VideoSource) FPS() float64    { return v.info.FPS }

// ReadFrame honours ctx only before ffmpeg starts; a running decode is not
// interrupted.
func (v *VideoSource) ReadFrame(ctx context.Context, index int) (*entity.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := bytes.NewBuffer(nil)
	var stderr bytes.Buffer
	err := ffmpeggo.Input(v.path, ffmpeggo.KwArgs{"ss": seekTimestamp(index, v.info.FPS)}).
		Output("pipe:", ffmpeggo.KwArgs{
			"vframes": 1,
			"format":  "image2",
			"vcodec":  "mjpeg",
			"q:v":     2,
		}).
		WithOutput(out, &stderr).
		Run()
	if err != nil {
		return nil, fmt.Errorf("%w: frame %d: %w: %s", port.ErrDecodeFrame, index, err, stderr.String())
	}
	if out.Len() == 0 {
		return nil, fmt.Errorf("%w: frame %d: empty output", port.ErrDecodeFrame, index)
	}

	img, err := imaging.Decode(out)
	if err != nil {
		return nil, fmt.Errorf("%w: frame %d: %w", port.ErrDecodeFrame, index, err)
	}
	return &entity.Frame{Index: index, Image: img}, nil
}

func (v *VideoSource) Close() error { return nil }

// seekTimestamp aims half a frame before the target so that accurate seeking
// lands on the frame at index instead of the one after it.
func seekTimestamp(index int, fps float64) string {
	if index <= 0 || fps <= 0 {
		return "0"
	}
	return strconv.FormatFloat((float64(index)-0.5)/fps, 'f', 6, 64)
}
