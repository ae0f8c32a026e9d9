package vision

import (
	"testing"

	"github.com/fiapx/fiapx-keyframe-extractor/internal/domain/entity"
	"github.com/fiapx/fiapx-keyframe-extractor/internal/domain/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func descriptors(rows, cols int) entity.DescriptorSet {
	set := entity.DescriptorSet{}
	for r := 0; r < rows; r++ {
		row := make([]float32, cols)
		row[r%cols] = 1
		set.Keypoints = append(set.Keypoints, entity.KeyPoint{X: float64(r)})
		set.Descriptors = append(set.Descriptors, row)
	}
	return set
}

func TestCheckMatchable(t *testing.T) {
	assert.NoError(t, checkMatchable(descriptors(3, 4), descriptors(2, 4), 2))
	assert.Error(t, checkMatchable(descriptors(3, 4), descriptors(0, 4), 2))
	assert.Error(t, checkMatchable(descriptors(3, 4), descriptors(1, 4), 2))
	assert.Error(t, checkMatchable(descriptors(3, 4), descriptors(3, 8), 2))
}

func TestKnnMatchRefusesDegenerateSets(t *testing.T) {
	m := &Matcher{name: "stub", knn: func(_, _ gocv.Mat, _ int) [][]gocv.DMatch {
		t.Fatal("knn must not run")
		return nil
	}}

	_, err := m.KnnMatch(descriptors(4, 8), entity.DescriptorSet{}, 2)
	assert.ErrorIs(t, err, port.ErrMatchFailed)
}

func TestKnnMatchEmptyQueryHasNoMatches(t *testing.T) {
	m := &Matcher{name: "stub", knn: func(_, _ gocv.Mat, _ int) [][]gocv.DMatch {
		t.Fatal("knn must not run")
		return nil
	}}

	knn, err := m.KnnMatch(entity.DescriptorSet{}, descriptors(4, 8), 2)
	require.NoError(t, err)
	assert.Empty(t, knn)

	_, err = m.KnnMatch(entity.DescriptorSet{}, entity.DescriptorSet{}, 2)
	assert.ErrorIs(t, err, port.ErrMatchFailed)
}

func TestToMatches(t *testing.T) {
	out := toMatches([][]gocv.DMatch{
		{{QueryIdx: 0, TrainIdx: 3, Distance: 0.25}, {QueryIdx: 0, TrainIdx: 1, Distance: 0.5}},
		{{QueryIdx: 1, TrainIdx: 2, Distance: 1}},
	})
	require.Len(t, out, 2)
	assert.Equal(t, entity.Match{QueryIdx: 0, TrainIdx: 3, Distance: 0.25}, out[0][0])
	assert.Equal(t, entity.Match{QueryIdx: 0, TrainIdx: 1, Distance: 0.5}, out[0][1])
	assert.Len(t, out[1], 1)
}
