package blur_test

import (
	"testing"

	"gl-blur/blur"

	"github.com/stretchr/testify/assert"
)

func TestSchedulerRunsOnce(t *testing.T) {
	s := blur.NewFrameScheduler()
	calls := 0
	s.Request(func() { calls++ })

	assert.Equal(t, 1, s.Pending())
	assert.Equal(t, 1, s.Tick())
	assert.Equal(t, 0, s.Tick())
	assert.Equal(t, 1, calls)
}

func TestSchedulerCancel(t *testing.T) {
	s := blur.NewFrameScheduler()
	calls := 0
	id := s.Request(func() { calls++ })
	s.Cancel(id)
	s.Cancel(id)
	s.Cancel(12345)

	assert.Equal(t, 0, s.Tick())
	assert.Equal(t, 0, calls)
}

func TestSchedulerRequestDuringTick(t *testing.T) {
	s := blur.NewFrameScheduler()
	calls := 0
	var loop func()
	loop = func() {
		calls++
		s.Request(loop)
	}
	s.Request(loop)

	for i := 0; i < 5; i++ {
		assert.Equal(t, 1, s.Tick())
	}
	assert.Equal(t, 5, calls)
	assert.Equal(t, 1, s.Pending())
}

func TestSchedulerCancelDuringTick(t *testing.T) {
	s := blur.NewFrameScheduler()
	var second blur.FrameID
	ran := false
	s.Request(func() { s.Cancel(second) })
	second = s.Request(func() { ran = true })

	assert.Equal(t, 1, s.Tick())
	assert.False(t, ran)
}

func TestSchedulerNotReentrant(t *testing.T) {
	s := blur.NewFrameScheduler()
	s.Request(func() { s.Tick() })
	assert.Panics(t, func() { s.Tick() })
}
