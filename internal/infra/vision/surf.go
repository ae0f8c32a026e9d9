package vision

import (
	"fmt"

	"github.com/fiapx/fiapx-keyframe-extractor/internal/domain/entity"
	"gocv.io/x/gocv"
	"gocv.io/x/gocv/contrib"
)

const (
	surfOctaves      = 4
	surfOctaveLayers = 3
)

// SURFExtractor detects SURF keypoints and computes their 64-wide float
// descriptors. It needs an OpenCV build with the non-free contrib modules.
type SURFExtractor struct {
	surf contrib.SURF
}

func NewSURFExtractor(hessianThreshold float64) *SURFExtractor {
	return &SURFExtractor{
		surf: contrib.NewSURFWithParams(hessianThreshold, surfOctaves, surfOctaveLayers, false, false),
	}
}

func (e *SURFExtractor) Describe(frame *entity.Frame) (entity.DescriptorSet, error) {
	src, err := gocv.ImageToMatRGB(frame.Image)
	if err != nil {
		return entity.DescriptorSet{}, fmt.Errorf("convert frame %d: %w", frame.Index, err)
	}
	defer src.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(src, &gray, gocv.ColorRGBToGray)

	mask := gocv.NewMat()
	defer mask.Close()

	kps, desc := e.surf.DetectAndCompute(gray, mask)
	defer desc.Close()

	return toDescriptorSet(kps, desc)
}

func (e *SURFExtractor) Close() error {
	return e.surf.Close()
}

func toDescriptorSet(kps []gocv.KeyPoint, desc gocv.Mat) (entity.DescriptorSet, error) {
	if len(kps) == 0 || desc.Empty() {
		return entity.DescriptorSet{}, nil
	}
	if desc.Rows() != len(kps) {
		return entity.DescriptorSet{}, fmt.Errorf("%d keypoints but %d descriptor rows", len(kps), desc.Rows())
	}

	data, err := desc.DataPtrFloat32()
	if err != nil {
		return entity.DescriptorSet{}, fmt.Errorf("read descriptors: %w", err)
	}

	cols := desc.Cols()
	set := entity.DescriptorSet{
		Keypoints:   make([]entity.KeyPoint, len(kps)),
		Descriptors: make([][]float32, len(kps)),
	}
	for i, kp := range kps {
		set.Keypoints[i] = entity.KeyPoint{X: kp.X, Y: kp.Y, Size: kp.Size, Response: kp.Response}
		// data points at C memory freed with desc.
		row := make([]float32, cols)
		copy(row, data[i*cols:(i+1)*cols])
		set.Descriptors[i] = row
	}
	return set, nil
}
