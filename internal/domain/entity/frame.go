package entity

import "image"

// Frame is a decoded raster image at a given index of the video.
type Frame struct {
	Index int
	Image image.Image
}

// KeyPoint is a detected feature location.
type KeyPoint struct {
	X        float64
	Y        float64
	Size     float64
	Response float64
}

// DescriptorSet holds the keypoints of one frame and one descriptor row per
// keypoint, in the same order.
type DescriptorSet struct {
	Keypoints   []KeyPoint
	Descriptors [][]float32
}

func (d DescriptorSet) Len() int {
	return len(d.Keypoints)
}

// Width is the descriptor dimension, 0 for an empty set.
func (d DescriptorSet) Width() int {
	if len(d.Descriptors) == 0 {
		return 0
	}
	return len(d.Descriptors[0])
}

// Match is one neighbour of a query descriptor in the train set.
type Match struct {
	QueryIdx int
	TrainIdx int
	Distance float64
}
