package libgl

import (
	"encoding/binary"
	"log"
	"reflect"
	"unsafe"

	"github.com/go-gl/gl/v4.5-core/gl"
)

// Pointer returns the address of the first element of a slice or the target of a pointer.
// Empty slices and nil yield a nil pointer.
func Pointer(data any) unsafe.Pointer {
	if data == nil {
		return nil
	}
	v := reflect.ValueOf(data)
	switch v.Kind() {
	case reflect.Slice:
		if v.Len() == 0 {
			return nil
		}
		return v.UnsafePointer()
	case reflect.Pointer:
		return v.UnsafePointer()
	}
	log.Panicf("cannot take the address of %T", data)
	return nil
}

// Buffers are allocated with immutable storage, growing one means replacing it.
type buffer struct {
	glId uint32
	size int
}

type UnboundBuffer interface {
	Id() uint32
	Size() int
	Delete()
}

// NewStaticBuffer uploads data which can not be changed afterwards
func NewStaticBuffer(data any) UnboundBuffer {
	size := binary.Size(data)
	if size <= 0 {
		log.Panicf("static buffer data %T has no fixed size", data)
	}
	return newBuffer(size, Pointer(data), 0)
}

// NewDynamicBuffer allocates size bytes that are written with glNamedBufferSubData
func NewDynamicBuffer(size int) UnboundBuffer {
	return newBuffer(size, nil, gl.DYNAMIC_STORAGE_BIT)
}

func newBuffer(size int, data unsafe.Pointer, flags uint32) *buffer {
	buf := &buffer{size: size}
	gl.CreateBuffers(1, &buf.glId)
	gl.NamedBufferStorage(buf.glId, size, data, flags)
	return buf
}

func (buf *buffer) Id() uint32 {
	return buf.glId
}

func (buf *buffer) Size() int {
	return buf.size
}

func (buf *buffer) Delete() {
	gl.DeleteBuffers(1, &buf.glId)
	buf.glId = 0
}

type vertexArray struct {
	glId uint32
}

type UnboundVertexArray interface {
	// Attribute reads components of dataType from binding at the byte offset inside each vertex
	Attribute(location, binding, components int, dataType uint32, normalized bool, offset int)
	SetVertexBuffer(binding int, buf UnboundBuffer, stride int)
	SetElementBuffer(buf UnboundBuffer)
	Bind()
	Delete()
}

func NewVertexArray() UnboundVertexArray {
	vao := &vertexArray{}
	gl.CreateVertexArrays(1, &vao.glId)
	return vao
}

func (vao *vertexArray) Attribute(location, binding, components int, dataType uint32, normalized bool, offset int) {
	loc := uint32(location)
	gl.EnableVertexArrayAttrib(vao.glId, loc)
	gl.VertexArrayAttribFormat(vao.glId, loc, int32(components), dataType, normalized, uint32(offset))
	gl.VertexArrayAttribBinding(vao.glId, loc, uint32(binding))
}

func (vao *vertexArray) SetVertexBuffer(binding int, buf UnboundBuffer, stride int) {
	gl.VertexArrayVertexBuffer(vao.glId, uint32(binding), buf.Id(), 0, int32(stride))
}

func (vao *vertexArray) SetElementBuffer(buf UnboundBuffer) {
	gl.VertexArrayElementBuffer(vao.glId, buf.Id())
}

func (vao *vertexArray) Bind() {
	GlState.BindVertexArray(vao.glId)
}

func (vao *vertexArray) Delete() {
	GlState.forget(vao.glId, &GlState.VertexArray)
	gl.DeleteVertexArrays(1, &vao.glId)
	vao.glId = 0
}
