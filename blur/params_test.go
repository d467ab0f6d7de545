package blur_test

import (
	"testing"

	"gl-blur/blur"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetSize(t *testing.T) {
	sizes := [][2]int{{1, 1}, {640, 480}, {1920, 1080}, {1023, 767}, {17, 3}}
	for _, size := range sizes {
		for r := blur.MinReductionRate; r <= blur.MaxReductionRate; r++ {
			w, h := blur.TargetSize(size[0], size[1], r)
			assert.Equal(t, (size[0]+r-1)/r, w, "width for %v at rate %d", size, r)
			assert.Equal(t, (size[1]+r-1)/r, h, "height for %v at rate %d", size, r)
			// the reduced target must cover the whole canvas
			assert.GreaterOrEqual(t, w*r, size[0])
			assert.Less(t, (w-1)*r, size[0])
		}
	}
}

func TestDefaultParamsValid(t *testing.T) {
	p := blur.DefaultParams()
	require.NoError(t, p.Validate())
	assert.True(t, p.Apply)
	assert.Equal(t, 1, p.ReductionRate)
	assert.Equal(t, 1, p.BlurCount)
	assert.Equal(t, 1, p.SampleStep)
}

func TestParamsValidate(t *testing.T) {
	invalid := []blur.Params{
		{ReductionRate: 0, BlurCount: 1, SampleStep: 1},
		{ReductionRate: 17, BlurCount: 1, SampleStep: 1},
		{ReductionRate: 1, BlurCount: 0, SampleStep: 1},
		{ReductionRate: 1, BlurCount: 17, SampleStep: 1},
		{ReductionRate: 1, BlurCount: 1, SampleStep: 0},
		{ReductionRate: 1, BlurCount: 1, SampleStep: 5},
	}
	for _, p := range invalid {
		assert.Error(t, p.Validate(), "%+v", p)
		assert.NoError(t, p.Clamp().Validate(), "%+v", p)
	}

	p := blur.Params{ReductionRate: 99, BlurCount: -3, SampleStep: 4}.Clamp()
	assert.Equal(t, blur.Params{ReductionRate: 16, BlurCount: 1, SampleStep: 4}, p)
}
