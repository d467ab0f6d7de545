package effects_test

import (
	"testing"

	"gl-blur/blur"
	"gl-blur/effects"
	"gl-blur/libio"

	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// frameSnapshot renders one frame and reads it back, nothing in here may call t.FailNow
func frameSnapshot(stages blur.Stages, width, height int, p blur.Params) (*libio.FloatImage, error) {
	s := blur.NewFrameScheduler()
	c, err := blur.NewController(stages, s, p)
	if err != nil {
		return nil, err
	}
	if err := c.Resize(width, height); err != nil {
		return nil, err
	}
	s.Tick()
	c.Stop()
	return stages.(blur.Snapshotter).Snapshot()
}

func TestBlurEffectMatchesSoftware(t *testing.T) {
	params := []blur.Params{
		{Apply: false, ReductionRate: 1, BlurCount: 1, SampleStep: 1},
		{Apply: true, ReductionRate: 1, BlurCount: 1, SampleStep: 1},
		{Apply: true, ReductionRate: 2, BlurCount: 3, SampleStep: 2},
		{Apply: true, ReductionRate: 2, BlurCount: 2, SampleStep: 4},
	}

	for _, p := range params {
		want, err := frameSnapshot(blur.NewSwStages(), 64, 48, p)
		require.NoError(t, err)

		var got *libio.FloatImage
		runOnMain(t, func() {
			var effect *effects.BlurEffect
			effect, err = effects.NewBlurEffect(effects.BlurOptions{Format: gl.RGBA32F, Offscreen: true})
			if err != nil {
				return
			}
			defer effect.Release()
			got, err = frameSnapshot(effect, 64, 48, p)
		})
		require.NoError(t, err)

		require.Equal(t, want.Width, got.Width)
		require.Equal(t, want.Height, got.Height)
		// hardware filtering quantizes the interpolation weights
		assert.InDeltaSlice(t, want.Pix, got.Pix, 1e-2, "%+v", p)
	}
}

func TestBlurEffectTargets(t *testing.T) {
	type size [2]int
	var before, after [3]size
	var shared bool
	var snapshot size
	var err error

	runOnMain(t, func() {
		var effect *effects.BlurEffect
		effect, err = effects.NewBlurEffect(effects.BlurOptions{Offscreen: true})
		if err != nil {
			return
		}
		defer effect.Release()

		if err = effect.Resize(100, 50, 3); err != nil {
			return
		}
		targets := effect.Targets()
		for i, target := range targets {
			before[i] = size{target.Width, target.Height}
		}
		shared = targets[1].Texture.Id() == targets[2].Texture.Id()

		if err = effect.Resize(31, 17, 16); err != nil {
			return
		}
		for i, target := range effect.Targets() {
			after[i] = size{target.Texture.Width(), target.Texture.Height()}
		}

		var img *libio.FloatImage
		img, err = effect.Snapshot()
		if err == nil {
			snapshot = size{img.Width, img.Height}
		}
	})
	require.NoError(t, err)

	assert.Equal(t, [3]size{{100, 50}, {34, 17}, {34, 17}}, before)
	assert.False(t, shared)
	assert.Equal(t, [3]size{{31, 17}, {2, 2}, {2, 2}}, after)
	assert.Equal(t, size{31, 17}, snapshot)
}

func TestBlurEffectToggle(t *testing.T) {
	var first, direct, again *libio.FloatImage
	var err error

	runOnMain(t, func() {
		var effect *effects.BlurEffect
		effect, err = effects.NewBlurEffect(effects.BlurOptions{Offscreen: true})
		if err != nil {
			return
		}
		defer effect.Release()

		s := blur.NewFrameScheduler()
		var c *blur.Controller
		c, err = blur.NewController(effect, s, blur.Params{Apply: true, ReductionRate: 4, BlurCount: 5, SampleStep: 3})
		if err != nil {
			return
		}
		defer c.Stop()
		if err = c.Resize(80, 60); err != nil {
			return
		}

		s.Tick()
		first, _ = effect.Snapshot()
		c.SetApply(false)
		s.Tick()
		direct, _ = effect.Snapshot()
		c.SetApply(true)
		s.Tick()
		again, err = effect.Snapshot()
	})
	require.NoError(t, err)

	assert.NotEqual(t, first.Pix, direct.Pix)
	assert.Equal(t, first.Pix, again.Pix)
}
