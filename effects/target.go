package effects

import (
	"fmt"

	"gl-blur/libgl"

	"github.com/go-gl/gl/v4.5-core/gl"
)

// Target is an offscreen color texture together with the framebuffer rendering into it
type Target struct {
	Width, Height int
	Texture       libgl.UnboundTexture
	Framebuffer   libgl.UnboundFramebuffer
}

func NewTarget(width, height int, internalFormat uint32, label string) (*Target, error) {
	tex := libgl.NewTexture2D(internalFormat, width, height)
	tex.SetFilter(gl.LINEAR, gl.LINEAR)
	tex.SetWrap(gl.CLAMP_TO_EDGE)
	tex.SetDebugLabel(label)

	fbo := libgl.NewFramebuffer()
	fbo.AttachColor(tex)
	fbo.SetDebugLabel(label)
	if err := fbo.Check(); err != nil {
		fbo.Delete()
		tex.Delete()
		return nil, fmt.Errorf("target %q (%dx%d): %w", label, width, height, err)
	}

	return &Target{
		Width:       width,
		Height:      height,
		Texture:     tex,
		Framebuffer: fbo,
	}, nil
}

// Bind makes the target the draw framebuffer and sets the viewport to cover it
func (t *Target) Bind() {
	t.Framebuffer.Bind()
	libgl.GlState.Viewport(0, 0, t.Width, t.Height)
}

func (t *Target) Delete() {
	t.Framebuffer.Delete()
	t.Texture.Delete()
}
