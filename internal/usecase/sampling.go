package usecase

import (
	"errors"
	"fmt"
	"math"
)

const (
	DefaultNthSecond = 1
	DefaultThreshold = 0.3
)

var ErrInvalidStride = errors.New("invalid sampling stride")

// NthFrame returns the frame stride between two samples: whole frames per
// second times nthSecond. With legacyWrap the per-second count is narrowed to
// an unsigned byte first, so frame rates above 255 wrap around.
func NthFrame(fps float64, nthSecond int, legacyWrap bool) (int, error) {
	if math.IsNaN(fps) || math.IsInf(fps, 0) {
		return 0, fmt.Errorf("%w: fps %v is not a finite number", ErrInvalidStride, fps)
	}

	var perSecond int
	if legacyWrap {
		perSecond = int(uint8(int64(fps)))
	} else {
		perSecond = int(math.Floor(fps))
	}

	nth := perSecond * nthSecond
	if nth == 0 {
		return 0, fmt.Errorf("%w: fps %.3f and nth second %d give a stride of 0 frames", ErrInvalidStride, fps, nthSecond)
	}
	return nth, nil
}

// Sampled reports whether frame index fi is compared. Frame 0 is the initial
// reference and never sampled.
func Sampled(fi, nthFrame int) bool {
	return fi > 0 && fi%nthFrame == 0
}

// CandidateCount is the number of comparisons a scan of frameCount frames
// attempts with the given stride.
func CandidateCount(frameCount, nthFrame int) int {
	if frameCount <= 1 || nthFrame == 0 {
		return 0
	}
	if nthFrame < 0 {
		nthFrame = -nthFrame
	}
	return (frameCount - 1) / nthFrame
}
