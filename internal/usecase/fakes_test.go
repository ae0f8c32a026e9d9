package usecase

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/fiapx/fiapx-keyframe-extractor/internal/domain/entity"
	"github.com/fiapx/fiapx-keyframe-extractor/internal/domain/port"
)

const (
	blockSize = 8
	blockDims = 8 * blockSize
)

// fakeVideo serves solid gray frames. Each gray level is a bitmask of feature
// blocks, see blockExtractor.
type fakeVideo struct {
	masks    []uint8
	frames   int
	fps      float64
	failAt   map[int]bool
	reads    []int
	closed   bool
	cancel   context.CancelFunc
	cancelAt int
}

func newFakeVideo(fps float64, masks ...uint8) *fakeVideo {
	return &fakeVideo{masks: masks, frames: len(masks), fps: fps, failAt: map[int]bool{}, cancelAt: -1}
}

func (v *fakeVideo) FrameCount() int { return v.frames }
func (v *fakeVideo) FPS() float64    { return v.fps }
func (v *fakeVideo) Close() error    { v.closed = true; return nil }

func (v *fakeVideo) ReadFrame(_ context.Context, index int) (*entity.Frame, error) {
	v.reads = append(v.reads, index)
	if v.cancel != nil && index == v.cancelAt {
		v.cancel()
	}
	if v.failAt[index] || index >= len(v.masks) {
		return nil, fmt.Errorf("%w: frame %d", port.ErrDecodeFrame, index)
	}
	return &entity.Frame{Index: index, Image: image.NewUniform(color.Gray{Y: v.masks[index]})}, nil
}

// blockExtractor turns every set bit b of the frame's gray level into eight
// unit descriptors e(8b)..e(8b+7). Frames sharing a block match it exactly;
// descriptors of disjoint blocks are all equidistant and fail the ratio test.
type blockExtractor struct {
	err error
}

func (e *blockExtractor) Describe(frame *entity.Frame) (entity.DescriptorSet, error) {
	if e.err != nil {
		return entity.DescriptorSet{}, e.err
	}
	mask := color.GrayModel.Convert(frame.Image.At(0, 0)).(color.Gray).Y
	var set entity.DescriptorSet
	for b := 0; b < 8; b++ {
		if mask&(1<<b) == 0 {
			continue
		}
		for i := 0; i < blockSize; i++ {
			d := make([]float32, blockDims)
			d[b*blockSize+i] = 1
			set.Keypoints = append(set.Keypoints, entity.KeyPoint{X: float64(b), Y: float64(i)})
			set.Descriptors = append(set.Descriptors, d)
		}
	}
	return set, nil
}

// bruteForceMatcher is an exhaustive L2 kNN search. Like OpenCV, it answers an
// empty query with no matches and refuses an empty train set.
type bruteForceMatcher struct {
	failCalls map[int]bool
	calls     int
	queries   []int
}

func (m *bruteForceMatcher) KnnMatch(query, train entity.DescriptorSet, k int) ([][]entity.Match, error) {
	m.calls++
	m.queries = append(m.queries, query.Len())
	if m.failCalls[m.calls] {
		return nil, fmt.Errorf("%w: injected", port.ErrMatchFailed)
	}
	if train.Len() == 0 {
		return nil, fmt.Errorf("%w: empty train set", port.ErrMatchFailed)
	}
	out := make([][]entity.Match, 0, query.Len())
	for qi, q := range query.Descriptors {
		row := make([]entity.Match, 0, train.Len())
		for ti, t := range train.Descriptors {
			row = append(row, entity.Match{QueryIdx: qi, TrainIdx: ti, Distance: l2(q, t)})
		}
		sort.SliceStable(row, func(i, j int) bool { return row[i].Distance < row[j].Distance })
		if len(row) > k {
			row = row[:k]
		}
		out = append(out, row)
	}
	return out, nil
}

func l2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i] - b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

type fakeWriter struct {
	written []int
	err     error
}

func (w *fakeWriter) WriteFrame(_ context.Context, frame *entity.Frame) (string, error) {
	if w.err != nil {
		return "", w.err
	}
	w.written = append(w.written, frame.Index)
	return fmt.Sprintf("frames/%d.jpg", frame.Index), nil
}

type fakeProgress struct {
	total    int
	last     int
	finished bool
}

func (p *fakeProgress) Start(total int) { p.total = total }
func (p *fakeProgress) Set(i int)       { p.last = i }
func (p *fakeProgress) Finish()         { p.finished = true }
