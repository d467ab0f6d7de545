package compute_test

import (
	"testing"

	"gl-blur/blur"
	"gl-blur/compute"
	"gl-blur/libio"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStages(t *testing.T) *compute.ClStages {
	stages, err := compute.NewClStages(compute.DeviceTypeCPU)
	if err != nil {
		t.Skipf("no opencl device: %v", err)
	}
	t.Cleanup(stages.Release)
	return stages
}

func render(t *testing.T, stages blur.Stages, width, height int, p blur.Params) *libio.FloatImage {
	s := blur.NewFrameScheduler()
	c, err := blur.NewController(stages, s, p)
	require.NoError(t, err)
	require.NoError(t, c.Resize(width, height))
	require.Equal(t, 1, s.Tick())
	c.Stop()

	img, err := stages.(blur.Snapshotter).Snapshot()
	require.NoError(t, err)
	return img
}

func TestClMatchesSoftware(t *testing.T) {
	stages := newStages(t)

	params := []blur.Params{
		{Apply: false, ReductionRate: 1, BlurCount: 1, SampleStep: 1},
		{Apply: true, ReductionRate: 1, BlurCount: 2, SampleStep: 1},
		{Apply: true, ReductionRate: 2, BlurCount: 4, SampleStep: 3},
	}
	for _, p := range params {
		want := render(t, blur.NewSwStages(), 48, 32, p)
		got := render(t, stages, 48, 32, p)
		// linear sampling in hardware uses fixed point weights
		assert.InDeltaSlice(t, want.Pix, got.Pix, 1e-2, "%+v", p)
	}
}

func TestClResize(t *testing.T) {
	stages := newStages(t)

	_, err := stages.Snapshot()
	assert.Error(t, err)

	require.NoError(t, stages.Resize(40, 30, 3))
	require.NoError(t, stages.Resize(20, 10, 5))
	stages.RenderDirect()

	img, err := stages.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, [2]int{20, 10}, [2]int{img.Width, img.Height})
	assert.NoError(t, stages.Err())

	assert.Error(t, stages.Resize(0, 10, 1))
}
