package port

import "errors"

var (
	ErrOpenVideo   = errors.New("cannot open the video file")
	ErrDecodeFrame = errors.New("failed to extract a frame")
	// ErrMatchFailed is returned by a DescriptorMatcher when the neighbour
	// search cannot run on the given descriptor sets.
	ErrMatchFailed = errors.New("descriptor matching failed")
)
