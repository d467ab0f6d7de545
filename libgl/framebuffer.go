package libgl

import (
	"fmt"

	"github.com/go-gl/gl/v4.5-core/gl"
)

// The id of the window system provided framebuffer
const DefaultFramebuffer uint32 = 0

var framebufferStatusErrors = map[uint32]string{
	gl.FRAMEBUFFER_INCOMPLETE_ATTACHMENT:         "an attachment is incomplete",
	gl.FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT: "no attachments",
	gl.FRAMEBUFFER_INCOMPLETE_DRAW_BUFFER:        "a draw buffer has no attachment",
	gl.FRAMEBUFFER_INCOMPLETE_READ_BUFFER:        "the read buffer has no attachment",
	gl.FRAMEBUFFER_UNSUPPORTED:                   "unsupported combination of attachment formats",
}

type framebuffer struct {
	glId uint32
}

type UnboundFramebuffer interface {
	LabeledGlObject
	// AttachColor makes tex color attachment 0 and the only draw buffer
	AttachColor(tex UnboundTexture)
	Check() error
	// Bind binds the framebuffer for drawing
	Bind()
	Delete()
}

func NewFramebuffer() UnboundFramebuffer {
	fb := &framebuffer{}
	gl.CreateFramebuffers(1, &fb.glId)
	return fb
}

func (fb *framebuffer) SetDebugLabel(label string) {
	setObjectLabel(gl.FRAMEBUFFER, fb.glId, label)
}

func (fb *framebuffer) AttachColor(tex UnboundTexture) {
	gl.NamedFramebufferTexture(fb.glId, gl.COLOR_ATTACHMENT0, tex.Id(), 0)
	gl.NamedFramebufferDrawBuffer(fb.glId, gl.COLOR_ATTACHMENT0)
}

func (fb *framebuffer) Check() error {
	status := gl.CheckNamedFramebufferStatus(fb.glId, gl.DRAW_FRAMEBUFFER)
	if status == gl.FRAMEBUFFER_COMPLETE {
		return nil
	}
	if reason, ok := framebufferStatusErrors[status]; ok {
		return fmt.Errorf("framebuffer incomplete: %v", reason)
	}
	return fmt.Errorf("framebuffer incomplete: status 0x%04x", status)
}

func (fb *framebuffer) Bind() {
	GlState.BindDrawFramebuffer(fb.glId)
}

func (fb *framebuffer) Delete() {
	GlState.forget(fb.glId, &GlState.DrawFramebuffer, &GlState.ReadFramebuffer)
	gl.DeleteFramebuffers(1, &fb.glId)
	fb.glId = 0
}
