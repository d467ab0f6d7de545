package blur_test

import (
	"testing"

	"gl-blur/blur"

	"github.com/stretchr/testify/assert"
)

func TestKernelSum(t *testing.T) {
	assert.InDelta(t, 1.0, blur.KernelSum(), 1e-5)
}

func TestKernelDecreasing(t *testing.T) {
	for i := 1; i < len(blur.Weights); i++ {
		assert.Less(t, blur.Weights[i], blur.Weights[i-1])
	}
}

func TestClampCoordBounds(t *testing.T) {
	for size := 1; size <= 9; size++ {
		for step := blur.MinSampleStep; step <= blur.MaxSampleStep; step++ {
			for c := 0; c < size; c++ {
				for i := 0; i <= blur.KernelRadius; i++ {
					for _, o := range []int{c + i*step, c - i*step} {
						got := blur.ClampCoord(o, size)
						assert.GreaterOrEqual(t, got, 0)
						assert.LessOrEqual(t, got, size-1)
						if o >= 0 && o < size {
							assert.Equal(t, o, got)
						}
					}
				}
			}
		}
	}
}

func TestDirectionOffset(t *testing.T) {
	dx, dy := blur.Horizontal.Offset(3, 2)
	assert.Equal(t, [2]int{6, 0}, [2]int{dx, dy})
	dx, dy = blur.Vertical.Offset(3, 2)
	assert.Equal(t, [2]int{0, 6}, [2]int{dx, dy})
}
