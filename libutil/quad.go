package libutil

import (
	"gl-blur/libgl"

	"github.com/go-gl/gl/v4.5-core/gl"
)

var quad struct {
	vao libgl.UnboundVertexArray
	vbo libgl.UnboundBuffer
}

// DrawQuad draws a triangle strip covering the viewport.
// Clip space positions are at attribute location 0.
func DrawQuad() {
	if quad.vao == nil {
		quad.vbo = libgl.NewStaticBuffer([]float32{-1, -1, 1, -1, -1, 1, 1, 1})
		quad.vao = libgl.NewVertexArray()
		quad.vao.Attribute(0, 0, 2, gl.FLOAT, false, 0)
		quad.vao.SetVertexBuffer(0, quad.vbo, 2*4)
	}
	quad.vao.Bind()
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
}

// ReleaseQuad must run before the context is destroyed
func ReleaseQuad() {
	if quad.vao == nil {
		return
	}
	quad.vao.Delete()
	quad.vbo.Delete()
	quad.vao, quad.vbo = nil, nil
}
