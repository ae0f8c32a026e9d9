package usecase

import (
	"errors"
	"fmt"

	"github.com/fiapx/fiapx-keyframe-extractor/internal/domain/entity"
	"github.com/fiapx/fiapx-keyframe-extractor/internal/domain/port"
)

const (
	DefaultHessianThreshold = 400.0
	DefaultRatioThreshold   = 0.7

	knnNeighbours = 2
)

// ErrSkipFrame marks a comparison that produced no verdict. The sampled frame
// is not written and the scan moves on.
var ErrSkipFrame = errors.New("comparison inconclusive")

type Score struct {
	Keypoints   int
	GoodMatches int
	Ratio       float64
}

type Scorer struct {
	extractor port.FeatureExtractor
	matcher   port.DescriptorMatcher
	ratio     float64
}

func NewScorer(extractor port.FeatureExtractor, matcher port.DescriptorMatcher, ratio float64) *Scorer {
	if ratio <= 0 {
		ratio = DefaultRatioThreshold
	}
	return &Scorer{extractor: extractor, matcher: matcher, ratio: ratio}
}

// Score compares current against previous. The ratio is the number of matches
// surviving the ratio test over the larger of the two keypoint counts.
func (s *Scorer) Score(previous, current *entity.Frame) (Score, error) {
	prevSet, err := s.extractor.Describe(previous)
	if err != nil {
		return Score{}, fmt.Errorf("describe frame %d: %w", previous.Index, err)
	}
	curSet, err := s.extractor.Describe(current)
	if err != nil {
		return Score{}, fmt.Errorf("describe frame %d: %w", current.Index, err)
	}

	score := Score{Keypoints: max(prevSet.Len(), curSet.Len())}
	if score.Keypoints == 0 {
		return score, fmt.Errorf("%w: no keypoints in frames %d and %d", ErrSkipFrame, previous.Index, current.Index)
	}

	knn, err := s.matcher.KnnMatch(prevSet, curSet, knnNeighbours)
	if err != nil {
		return score, fmt.Errorf("%w: match frame %d against %d: %w", ErrSkipFrame, current.Index, previous.Index, err)
	}

	score.GoodMatches = len(GoodMatches(knn, s.ratio))
	score.Ratio = float64(score.GoodMatches) / float64(score.Keypoints)
	return score, nil
}

// GoodMatches applies Lowe's ratio test: the nearest neighbour is kept only if
// it is closer than ratio times the second nearest.
func GoodMatches(knn [][]entity.Match, ratio float64) []entity.Match {
	var good []entity.Match
	for _, m := range knn {
		if len(m) < 2 {
			continue
		}
		if m[0].Distance < ratio*m[1].Distance {
			good = append(good, m[0])
		}
	}
	return good
}
