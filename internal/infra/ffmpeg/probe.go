package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"gopkg.in/vansante/go-ffprobe.v2"
)

var ErrNoVideoStream = errors.New("no video stream")

type VideoInfo struct {
	Codec      string
	Width      int
	Height     int
	FPS        float64
	FrameCount int
	Duration   time.Duration
}

func Probe(ctx context.Context, path string) (*VideoInfo, error) {
	data, err := ffprobe.ProbeURL(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("ffprobe: %w", err)
	}

	stream := data.FirstVideoStream()
	if stream == nil {
		return nil, ErrNoVideoStream
	}

	var duration time.Duration
	if data.Format != nil {
		duration = data.Format.Duration()
	}

	fps := parseRate(stream.AvgFrameRate)
	if fps == 0 {
		fps = parseRate(stream.RFrameRate)
	}

	return &VideoInfo{
		Codec:      stream.CodecName,
		Width:      stream.Width,
		Height:     stream.Height,
		FPS:        fps,
		FrameCount: frameCount(stream.NbFrames, fps, duration),
		Duration:   duration,
	}, nil
}

// parseRate reads ffprobe rationals such as "30000/1001". Unknown rates are
// reported as "0/0" and map to 0.
func parseRate(rate string) float64 {
	num, den, found := strings.Cut(strings.TrimSpace(rate), "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	if !found {
		return n
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}

// frameCount prefers the container's frame total and otherwise estimates it
// from duration, as OpenCV does for containers that do not store one.
func frameCount(nbFrames string, fps float64, duration time.Duration) int {
	if n, err := strconv.Atoi(nbFrames); err == nil && n > 0 {
		return n
	}
	return int(math.Round(duration.Seconds() * fps))
}
