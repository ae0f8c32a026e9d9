package port

import "github.com/fiapx/fiapx-keyframe-extractor/internal/domain/entity"

type FeatureExtractor interface {
	Describe(frame *entity.Frame) (entity.DescriptorSet, error)
}

// DescriptorMatcher returns, for each query descriptor, up to k nearest
// neighbours in train ordered by distance.
type DescriptorMatcher interface {
	KnnMatch(query, train entity.DescriptorSet, k int) ([][]entity.Match, error)
}
