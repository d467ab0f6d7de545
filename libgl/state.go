package libgl

import (
	"github.com/go-gl/gl/v4.5-core/gl"
	"golang.org/x/exp/slices"
)

type GlCapability uint32

const (
	Blend           GlCapability = gl.BLEND
	ScissorTest     GlCapability = gl.SCISSOR_TEST
	DebugOutput     GlCapability = gl.DEBUG_OUTPUT
	DebugOutputSync GlCapability = gl.DEBUG_OUTPUT_SYNCHRONOUS
)

type GlBlendFactor uint32

const (
	BlendOne              GlBlendFactor = gl.ONE
	BlendSrcAlpha         GlBlendFactor = gl.SRC_ALPHA
	BlendOneMinusSrcAlpha GlBlendFactor = gl.ONE_MINUS_SRC_ALPHA
)

type GlBlendEquation uint32

const (
	BlendFuncAdd GlBlendEquation = gl.FUNC_ADD
)

// Capabilities that SetEnabled leaves alone
var persistentCaps = map[GlCapability]bool{
	DebugOutput:     true,
	DebugOutputSync: true,
}

// State caches bindings and fixed function state so redundant calls never reach the driver.
// Raw gl calls that change any of it bypass the cache.
type State struct {
	Caps            map[GlCapability]bool
	TextureUnits    [32]uint32
	SamplerUnits    [32]uint32
	DrawFramebuffer uint32
	ReadFramebuffer uint32
	ProgramPipeline uint32
	VertexArray     uint32
	ViewportRect    [4]int
	ScissorRect     [4]int
	BlendFactors    [2]GlBlendFactor
	BlendEquation   GlBlendEquation
}

var GlState *State

func NewState() *State {
	return &State{
		Caps:         map[GlCapability]bool{},
		ViewportRect: [4]int{-1, -1, -1, -1},
		ScissorRect:  [4]int{-1, -1, -1, -1},
	}
}

// update calls apply and stores v unless the cached value already equals v
func update[T comparable](cached *T, v T, apply func()) {
	if *cached == v {
		return
	}
	apply()
	*cached = v
}

func (s *State) Enable(cap GlCapability) {
	if !s.Caps[cap] {
		gl.Enable(uint32(cap))
		s.Caps[cap] = true
	}
}

func (s *State) Disable(cap GlCapability) {
	if s.Caps[cap] {
		gl.Disable(uint32(cap))
		s.Caps[cap] = false
	}
}

// SetEnabled enables exactly caps, every other tracked capability is disabled.
func (s *State) SetEnabled(caps ...GlCapability) {
	for c, on := range s.Caps {
		if on && !persistentCaps[c] && !slices.Contains(caps, c) {
			s.Disable(c)
		}
	}
	for _, c := range caps {
		s.Enable(c)
	}
}

func (s *State) SetBlendFunc(src, dst GlBlendFactor) {
	update(&s.BlendFactors, [2]GlBlendFactor{src, dst}, func() {
		gl.BlendFunc(uint32(src), uint32(dst))
	})
}

func (s *State) SetBlendEquation(mode GlBlendEquation) {
	update(&s.BlendEquation, mode, func() {
		gl.BlendEquation(uint32(mode))
	})
}

func (s *State) BindTextureUnit(unit int, texture uint32) {
	update(&s.TextureUnits[unit], texture, func() {
		if GlEnv != nil && GlEnv.UseIntelTextureBindingFix {
			// bindless unit binding of 2D textures is broken on some intel drivers
			gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
			gl.BindTexture(gl.TEXTURE_2D, texture)
			return
		}
		gl.BindTextureUnit(uint32(unit), texture)
	})
}

func (s *State) BindSampler(unit int, sampler uint32) {
	update(&s.SamplerUnits[unit], sampler, func() {
		gl.BindSampler(uint32(unit), sampler)
	})
}

func (s *State) BindDrawFramebuffer(fbo uint32) {
	update(&s.DrawFramebuffer, fbo, func() {
		gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, fbo)
	})
}

func (s *State) BindReadFramebuffer(fbo uint32) {
	update(&s.ReadFramebuffer, fbo, func() {
		gl.BindFramebuffer(gl.READ_FRAMEBUFFER, fbo)
	})
}

func (s *State) BindProgramPipeline(pipeline uint32) {
	update(&s.ProgramPipeline, pipeline, func() {
		gl.BindProgramPipeline(pipeline)
	})
}

func (s *State) BindVertexArray(vao uint32) {
	update(&s.VertexArray, vao, func() {
		gl.BindVertexArray(vao)
	})
}

func (s *State) Viewport(x, y, w, h int) {
	update(&s.ViewportRect, [4]int{x, y, w, h}, func() {
		gl.Viewport(int32(x), int32(y), int32(w), int32(h))
	})
}

func (s *State) Scissor(x, y, w, h int) {
	update(&s.ScissorRect, [4]int{x, y, w, h}, func() {
		gl.Scissor(int32(x), int32(y), int32(w), int32(h))
	})
}

// forget clears every cached binding of a deleted object
func (s *State) forget(id uint32, bindings ...*uint32) {
	for _, b := range bindings {
		if *b == id {
			*b = 0
		}
	}
}
