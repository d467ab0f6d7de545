package libgl

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestUpdateSkipsCachedValue(t *testing.T) {
	var viewport [4]int
	calls := 0
	apply := func() { calls++ }

	update(&viewport, [4]int{0, 0, 640, 480}, apply)
	update(&viewport, [4]int{0, 0, 640, 480}, apply)
	assert.Equal(t, 1, calls)
	assert.Equal(t, [4]int{0, 0, 640, 480}, viewport)

	update(&viewport, [4]int{0, 0, 320, 240}, apply)
	assert.Equal(t, 2, calls)
}

func TestForgetClearsMatchingBindings(t *testing.T) {
	s := NewState()
	s.DrawFramebuffer, s.ReadFramebuffer = 3, 4
	s.forget(3, &s.DrawFramebuffer, &s.ReadFramebuffer)
	assert.Equal(t, uint32(0), s.DrawFramebuffer)
	assert.Equal(t, uint32(4), s.ReadFramebuffer)
}

func TestPointer(t *testing.T) {
	pix := []float32{1, 2, 3}
	assert.Equal(t, unsafe.Pointer(&pix[0]), Pointer(pix))
	assert.Nil(t, Pointer([]float32{}))
	assert.Nil(t, Pointer(nil))

	v := int32(7)
	assert.Equal(t, unsafe.Pointer(&v), Pointer(&v))
	assert.Panics(t, func() { Pointer(3) })
}
