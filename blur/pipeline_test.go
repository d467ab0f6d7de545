package blur_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"gl-blur/blur"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingStages logs every call and fails the test when a stage runs against targets
// that do not match the controller's current canvas and reduction rate
type recordingStages struct {
	t          *testing.T
	controller *blur.Controller
	calls      []string
	allocated  [3][2]int
	released   int
	// resizeErr makes the next Resize fail without allocating
	resizeErr error
	// duringFrame runs inside the last stage of a frame
	duringFrame func()
}

func (rs *recordingStages) Resize(width, height, reductionRate int) error {
	if rs.resizeErr != nil {
		err := rs.resizeErr
		rs.resizeErr = nil
		return err
	}
	bw, bh := blur.TargetSize(width, height, reductionRate)
	rs.allocated = [3][2]int{{width, height}, {bw, bh}, {bw, bh}}
	rs.calls = append(rs.calls, fmt.Sprintf("resize %dx%d/%d", width, height, reductionRate))
	return nil
}

func (rs *recordingStages) record(call string) {
	rs.calls = append(rs.calls, call)
	if rs.controller == nil {
		return
	}
	w, h := rs.controller.Size()
	bw, bh := rs.controller.BlurSize()
	assert.Equal(rs.t, [3][2]int{{w, h}, {bw, bh}, {bw, bh}}, rs.allocated, "%v ran on stale targets", call)
}

func (rs *recordingStages) endFrame(call string) {
	rs.record(call)
	if hook := rs.duringFrame; hook != nil {
		rs.duringFrame = nil
		hook()
	}
}

func (rs *recordingStages) RenderDirect() { rs.endFrame("direct") }
func (rs *recordingStages) RenderScene()  { rs.record("scene") }
func (rs *recordingStages) Downsample()   { rs.record("down") }
func (rs *recordingStages) Composite()    { rs.endFrame("composite") }
func (rs *recordingStages) Release()      { rs.released++ }

func (rs *recordingStages) BlurPass(dir blur.Direction, sampleStep int) {
	rs.record(fmt.Sprintf("%s/%d", dir, sampleStep))
}

func (rs *recordingStages) take() string {
	s := strings.Join(rs.calls, " ")
	rs.calls = nil
	return s
}

func newTestController(t *testing.T, p blur.Params) (*blur.Controller, *recordingStages, *blur.FrameScheduler) {
	rs := &recordingStages{t: t}
	s := blur.NewFrameScheduler()
	c, err := blur.NewController(rs, s, p)
	require.NoError(t, err)
	rs.controller = c
	return c, rs, s
}

func TestControllerFrameSequence(t *testing.T) {
	p := blur.DefaultParams()
	p.BlurCount = 2
	p.SampleStep = 3
	c, rs, s := newTestController(t, p)

	require.NoError(t, c.Resize(64, 48))
	assert.Equal(t, "resize 64x48/1", rs.take())
	assert.Equal(t, blur.StateEnabled, c.State())

	assert.Equal(t, 1, s.Tick())
	assert.Equal(t, "scene down horizontal/3 vertical/3 horizontal/3 vertical/3 composite", rs.take())

	c.SetApply(false)
	assert.Equal(t, blur.StateDisabled, c.State())
	assert.Equal(t, 1, s.Tick())
	assert.Equal(t, "direct", rs.take())
	assert.Equal(t, uint64(2), c.Frames())
}

func TestControllerOneFramePerTick(t *testing.T) {
	c, _, s := newTestController(t, blur.DefaultParams())
	require.NoError(t, c.Resize(8, 8))

	for i := 0; i < 10; i++ {
		assert.Equal(t, 1, s.Tick())
		assert.Equal(t, 1, s.Pending())
	}
	assert.Equal(t, uint64(10), c.Frames())
}

func TestControllerResizeReallocates(t *testing.T) {
	p := blur.DefaultParams()
	p.ReductionRate = 3
	c, rs, s := newTestController(t, p)
	require.NoError(t, c.Resize(100, 50))
	s.Tick()
	rs.take()

	require.NoError(t, c.Resize(31, 17))
	// the frame requested before the resize must not run
	assert.Equal(t, 1, s.Pending())
	assert.Equal(t, "resize 31x17/3", rs.take())
	assert.Equal(t, [3][2]int{{31, 17}, {11, 6}, {11, 6}}, rs.allocated)

	w, h := c.BlurSize()
	assert.Equal(t, [2]int{11, 6}, [2]int{w, h})

	s.Tick()
	assert.Equal(t, "scene down horizontal/1 vertical/1 composite", rs.take())
}

func TestControllerReductionRateResets(t *testing.T) {
	c, rs, s := newTestController(t, blur.DefaultParams())
	require.NoError(t, c.Resize(64, 64))
	rs.take()

	p := c.Params()
	p.BlurCount = 4
	p.SampleStep = 2
	require.NoError(t, c.SetParams(p))
	assert.Empty(t, rs.take(), "only the reduction rate requires new targets")

	p.ReductionRate = 4
	require.NoError(t, c.SetParams(p))
	assert.Equal(t, "resize 64x64/4", rs.take())
	assert.Equal(t, 1, s.Pending())

	p.ReductionRate = 0
	assert.Error(t, c.SetParams(p))
	assert.Equal(t, 4, c.Params().ReductionRate)
}

func TestControllerMinimized(t *testing.T) {
	c, rs, s := newTestController(t, blur.DefaultParams())
	require.NoError(t, c.Resize(64, 64))
	assert.True(t, c.Running())

	require.NoError(t, c.Resize(0, 0))
	assert.False(t, c.Running())
	assert.Equal(t, 0, s.Tick())
	assert.Error(t, c.Reset())

	rs.take()
	require.NoError(t, c.Resize(32, 32))
	assert.Equal(t, "resize 32x32/1", rs.take())
	assert.Equal(t, 1, s.Tick())
}

func TestControllerRelease(t *testing.T) {
	c, rs, s := newTestController(t, blur.DefaultParams())
	require.NoError(t, c.Resize(64, 64))
	c.Release()
	assert.Equal(t, 1, rs.released)
	assert.Equal(t, 0, s.Tick())
}

func TestControllerResetInsideFrame(t *testing.T) {
	c, rs, s := newTestController(t, blur.DefaultParams())
	require.NoError(t, c.Resize(64, 64))
	rs.take()

	rs.duringFrame = func() {
		p := c.Params()
		p.ReductionRate = 2
		require.NoError(t, c.SetParams(p))
	}
	assert.Equal(t, 1, s.Tick())
	assert.Equal(t, "scene down horizontal/1 vertical/1 composite resize 64x64/2", rs.take())
	assert.Equal(t, 1, s.Pending())

	for i := 0; i < 3; i++ {
		assert.Equal(t, 1, s.Tick())
		assert.Equal(t, 1, s.Pending())
	}
	c.Stop()
	assert.Equal(t, 0, s.Pending())
	assert.Equal(t, uint64(4), c.Frames())
}

func TestControllerStopInsideFrame(t *testing.T) {
	p := blur.DefaultParams()
	p.Apply = false
	c, rs, s := newTestController(t, p)
	require.NoError(t, c.Resize(64, 64))

	rs.duringFrame = func() {
		require.NoError(t, c.Resize(0, 0))
	}
	assert.Equal(t, 1, s.Tick())
	assert.False(t, c.Running())
	assert.Equal(t, 0, s.Pending())
}

func TestControllerFailedResetKeepsParams(t *testing.T) {
	c, rs, _ := newTestController(t, blur.DefaultParams())
	require.NoError(t, c.Resize(40, 20))

	rs.resizeErr = errors.New("out of memory")
	p := c.Params()
	p.ReductionRate = 4
	p.BlurCount = 3
	assert.ErrorContains(t, c.SetParams(p), "out of memory")
	assert.Equal(t, blur.DefaultParams(), c.Params())
	w, h := c.BlurSize()
	assert.Equal(t, [2]int{40, 20}, [2]int{w, h})
}

func TestNewControllerInvalid(t *testing.T) {
	_, err := blur.NewController(&recordingStages{}, blur.NewFrameScheduler(), blur.Params{})
	assert.Error(t, err)
}
