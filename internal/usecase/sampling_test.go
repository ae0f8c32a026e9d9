package usecase

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNthFrame(t *testing.T) {
	tests := []struct {
		name   string
		fps    float64
		nthSec int
		legacy bool
		want   int
	}{
		{"integer fps", 25, 1, false, 25},
		{"fractional fps is floored", 29.97, 2, false, 58},
		{"high fps kept", 300, 1, false, 300},
		{"legacy wraps above 255", 300, 1, true, 44},
		{"legacy below 256 unchanged", 59.94, 3, true, 177},
		{"one fps", 1, 1, false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NthFrame(tt.fps, tt.nthSec, tt.legacy)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNthFrameRejectsZeroStride(t *testing.T) {
	for _, tc := range []struct {
		fps    float64
		nthSec int
		legacy bool
	}{
		{0.5, 1, false},
		{25, 0, false},
		{256, 1, true},
		{0, 4, false},
		{math.NaN(), 1, false},
		{math.Inf(1), 1, false},
	} {
		_, err := NthFrame(tc.fps, tc.nthSec, tc.legacy)
		assert.ErrorIs(t, err, ErrInvalidStride, "fps=%v nth=%d legacy=%v", tc.fps, tc.nthSec, tc.legacy)
	}
}

func TestSampled(t *testing.T) {
	assert.False(t, Sampled(0, 25))
	assert.False(t, Sampled(24, 25))
	assert.True(t, Sampled(25, 25))
	assert.True(t, Sampled(50, 25))
	assert.True(t, Sampled(7, 1))
}

func TestCandidateCount(t *testing.T) {
	assert.Equal(t, 0, CandidateCount(0, 25))
	assert.Equal(t, 0, CandidateCount(1, 25))
	assert.Equal(t, 9, CandidateCount(10, 1))
	assert.Equal(t, 2, CandidateCount(101, 50))
	assert.Equal(t, 1, CandidateCount(100, 50))
	assert.Equal(t, 3, CandidateCount(100, -30))
	assert.Equal(t, 0, CandidateCount(100, 0))
}
