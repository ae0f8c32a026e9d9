package vision

import (
	"fmt"

	"github.com/fiapx/fiapx-keyframe-extractor/internal/domain/entity"
	"github.com/fiapx/fiapx-keyframe-extractor/internal/domain/port"
	"gocv.io/x/gocv"
)

// Matcher runs OpenCV k-nearest-neighbour descriptor matching. An empty query
// yields no matches, as OpenCV's knnMatch does. Inputs OpenCV would raise on
// are refused up front with port.ErrMatchFailed.
type Matcher struct {
	name  string
	knn   func(query, train gocv.Mat, k int) [][]gocv.DMatch
	close func() error
}

func NewFLANNMatcher() *Matcher {
	m := gocv.NewFlannBasedMatcher()
	return &Matcher{name: "flann", knn: m.KnnMatch, close: m.Close}
}

// NewBruteForceMatcher uses exhaustive L2 search, exact but slower on large
// descriptor sets.
func NewBruteForceMatcher() *Matcher {
	m := gocv.NewBFMatcherWithParams(gocv.NormL2, false)
	return &Matcher{name: "bf", knn: m.KnnMatch, close: m.Close}
}

func (m *Matcher) KnnMatch(query, train entity.DescriptorSet, k int) ([][]entity.Match, error) {
	if len(query.Descriptors) == 0 && len(train.Descriptors) > 0 {
		return [][]entity.Match{}, nil
	}
	if err := checkMatchable(query, train, k); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", port.ErrMatchFailed, m.name, err)
	}

	q := toMat(query)
	defer q.Close()
	t := toMat(train)
	defer t.Close()

	return toMatches(m.knn(q, t, k)), nil
}

func (m *Matcher) Close() error {
	return m.close()
}

func checkMatchable(query, train entity.DescriptorSet, k int) error {
	switch {
	case len(train.Descriptors) == 0:
		return fmt.Errorf("empty train descriptors")
	case len(train.Descriptors) < k:
		return fmt.Errorf("%d train descriptors for %d neighbours", len(train.Descriptors), k)
	case query.Width() != train.Width():
		return fmt.Errorf("descriptor width %d does not match %d", query.Width(), train.Width())
	}
	return nil
}

func toMat(set entity.DescriptorSet) gocv.Mat {
	m := gocv.NewMatWithSize(len(set.Descriptors), set.Width(), gocv.MatTypeCV32F)
	for r, row := range set.Descriptors {
		for c, v := range row {
			m.SetFloatAt(r, c, v)
		}
	}
	return m
}

func toMatches(knn [][]gocv.DMatch) [][]entity.Match {
	out := make([][]entity.Match, len(knn))
	for i, row := range knn {
		out[i] = make([]entity.Match, len(row))
		for j, dm := range row {
			out[i][j] = entity.Match{QueryIdx: dm.QueryIdx, TrainIdx: dm.TrainIdx, Distance: dm.Distance}
		}
	}
	return out
}
