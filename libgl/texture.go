package libgl

import (
	"log"

	"github.com/go-gl/gl/v4.5-core/gl"
)

type texture struct {
	glId          uint32
	width, height int
}

type UnboundTexture interface {
	LabeledGlObject
	Id() uint32
	Width() int
	Height() int
	Bind(unit int)
	// Upload replaces level 0 with data in the given pixel format
	Upload(format uint32, data any)
	SetFilter(min, mag int32)
	SetWrap(mode int32)
	// ReadPixels returns level 0 as RGBA floats, origin bottom left
	ReadPixels() []float32
	Delete()
}

// NewTexture2D creates a texture with immutable storage for a single level
func NewTexture2D(internalFormat uint32, width, height int) UnboundTexture {
	tex := &texture{width: width, height: height}
	gl.CreateTextures(gl.TEXTURE_2D, 1, &tex.glId)
	gl.TextureStorage2D(tex.glId, 1, internalFormat, int32(width), int32(height))
	return tex
}

func (tex *texture) Id() uint32 {
	return tex.glId
}

func (tex *texture) Width() int {
	return tex.width
}

func (tex *texture) Height() int {
	return tex.height
}

func (tex *texture) SetDebugLabel(label string) {
	setObjectLabel(gl.TEXTURE, tex.glId, label)
}

func (tex *texture) Bind(unit int) {
	GlState.BindTextureUnit(unit, tex.glId)
}

func (tex *texture) Upload(format uint32, data any) {
	gl.TextureSubImage2D(tex.glId, 0, 0, 0, int32(tex.width), int32(tex.height), format, pixelType(data), Pointer(data))
}

func (tex *texture) SetFilter(min, mag int32) {
	gl.TextureParameteri(tex.glId, gl.TEXTURE_MIN_FILTER, min)
	gl.TextureParameteri(tex.glId, gl.TEXTURE_MAG_FILTER, mag)
}

func (tex *texture) SetWrap(mode int32) {
	gl.TextureParameteri(tex.glId, gl.TEXTURE_WRAP_S, mode)
	gl.TextureParameteri(tex.glId, gl.TEXTURE_WRAP_T, mode)
}

func (tex *texture) ReadPixels() []float32 {
	pix := make([]float32, tex.width*tex.height*4)
	gl.GetTextureImage(tex.glId, 0, gl.RGBA, gl.FLOAT, int32(len(pix)*4), Pointer(pix))
	return pix
}

func (tex *texture) Delete() {
	for unit := range GlState.TextureUnits {
		GlState.forget(tex.glId, &GlState.TextureUnits[unit])
	}
	gl.DeleteTextures(1, &tex.glId)
	tex.glId = 0
}

func pixelType(data any) uint32 {
	switch data.(type) {
	case []uint8:
		return gl.UNSIGNED_BYTE
	case []uint16:
		return gl.UNSIGNED_SHORT
	case []float32:
		return gl.FLOAT
	}
	log.Panicf("unsupported pixel data %T", data)
	return 0
}

type sampler struct {
	glId uint32
}

type UnboundSampler interface {
	LabeledGlObject
	Bind(unit int)
	Delete()
}

// NewSampler creates a sampler with the same wrap mode on every axis
func NewSampler(min, mag, wrap int32) UnboundSampler {
	s := &sampler{}
	gl.CreateSamplers(1, &s.glId)
	params := [][2]int32{
		{gl.TEXTURE_MIN_FILTER, min},
		{gl.TEXTURE_MAG_FILTER, mag},
		{gl.TEXTURE_WRAP_S, wrap},
		{gl.TEXTURE_WRAP_T, wrap},
		{gl.TEXTURE_WRAP_R, wrap},
	}
	for _, p := range params {
		gl.SamplerParameteri(s.glId, uint32(p[0]), p[1])
	}
	return s
}

func (s *sampler) SetDebugLabel(label string) {
	setObjectLabel(gl.SAMPLER, s.glId, label)
}

func (s *sampler) Bind(unit int) {
	GlState.BindSampler(unit, s.glId)
}

func (s *sampler) Delete() {
	for unit := range GlState.SamplerUnits {
		GlState.forget(s.glId, &GlState.SamplerUnits[unit])
	}
	gl.DeleteSamplers(1, &s.glId)
	s.glId = 0
}
