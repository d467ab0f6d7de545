package effects

import (
	_ "embed"
	"fmt"

	"gl-blur/blur"
	"gl-blur/libgl"
	"gl-blur/libio"
	"gl-blur/libutil"

	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

//go:embed shaders/fill.vert
var fillVertSrc string

//go:embed shaders/scene.frag
var sceneFragSrc string

//go:embed shaders/copy.frag
var copyFragSrc string

//go:embed shaders/blur.frag
var blurFragSrc string

type BlurOptions struct {
	// Internal format of all offscreen targets, defaults to GL_RGBA8
	Format uint32
	// Composite into an offscreen target instead of the default framebuffer
	Offscreen bool
	// Prefix of the debug labels
	Label string
}

// BlurEffect implements the blur stages with OpenGL.
// It must only be used on the thread that owns the context.
type BlurEffect struct {
	opts          BlurOptions
	width, height int
	sceneShader   libgl.UnboundShaderPipeline
	copyShader    libgl.UnboundShaderPipeline
	blurShader    libgl.UnboundShaderPipeline
	sampler       libgl.UnboundSampler
	scene         *Target
	blur          *blur.PingPong[*Target]
	output        *Target
}

var _ blur.Stages = (*BlurEffect)(nil)

func NewBlurEffect(opts BlurOptions) (effect *BlurEffect, err error) {
	cleanup := []libutil.Deleter{}
	defer func() {
		if err != nil {
			libutil.DeleteAll(cleanup)
		}
	}()

	if opts.Format == 0 {
		opts.Format = gl.RGBA8
	}
	if opts.Label == "" {
		opts.Label = "blur"
	}

	sceneShader, err := libgl.NewPipelineFromSource(fillVertSrc, sceneFragSrc)
	if err != nil {
		return nil, fmt.Errorf("scene shader: %w", err)
	}
	cleanup = append(cleanup, sceneShader)

	copyShader, err := libgl.NewPipelineFromSource(fillVertSrc, copyFragSrc)
	if err != nil {
		return nil, fmt.Errorf("copy shader: %w", err)
	}
	cleanup = append(cleanup, copyShader)

	blurShader, err := libgl.NewPipelineFromSource(fillVertSrc, blurFragSrc)
	if err != nil {
		return nil, fmt.Errorf("blur shader: %w", err)
	}
	cleanup = append(cleanup, blurShader)

	sampler := libgl.NewSampler(gl.LINEAR, gl.LINEAR, gl.CLAMP_TO_EDGE)
	sampler.SetDebugLabel(opts.Label + " linear")

	return &BlurEffect{
		opts:        opts,
		sceneShader: sceneShader,
		copyShader:  copyShader,
		blurShader:  blurShader,
		sampler:     sampler,
	}, nil
}

func (effect *BlurEffect) Resize(width, height, reductionRate int) (err error) {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid canvas size %dx%d", width, height)
	}
	if reductionRate < blur.MinReductionRate || reductionRate > blur.MaxReductionRate {
		return fmt.Errorf("invalid reduction rate %d", reductionRate)
	}
	effect.releaseTargets()

	cleanup := []libutil.Deleter{}
	defer func() {
		if err != nil {
			libutil.DeleteAll(cleanup)
		}
	}()

	bw, bh := blur.TargetSize(width, height, reductionRate)

	scene, err := NewTarget(width, height, effect.opts.Format, effect.opts.Label+" scene")
	if err != nil {
		return err
	}
	cleanup = append(cleanup, scene)

	blurA, err := NewTarget(bw, bh, effect.opts.Format, effect.opts.Label+" a")
	if err != nil {
		return err
	}
	cleanup = append(cleanup, blurA)

	blurB, err := NewTarget(bw, bh, effect.opts.Format, effect.opts.Label+" b")
	if err != nil {
		return err
	}
	cleanup = append(cleanup, blurB)

	var output *Target
	if effect.opts.Offscreen {
		output, err = NewTarget(width, height, effect.opts.Format, effect.opts.Label+" output")
		if err != nil {
			return err
		}
	}

	effect.width, effect.height = width, height
	effect.scene = scene
	effect.blur = blur.NewPingPong(blurA, blurB)
	effect.output = output
	return nil
}

func (effect *BlurEffect) bindOutput() {
	if effect.output != nil {
		effect.output.Bind()
		return
	}
	libgl.GlState.BindDrawFramebuffer(libgl.DefaultFramebuffer)
	libgl.GlState.Viewport(0, 0, effect.width, effect.height)
}

func (effect *BlurEffect) drawScene(width, height int) {
	libgl.GlState.SetEnabled()
	effect.sceneShader.Bind()
	effect.sceneShader.FragmentStage().SetUniform("u_resolution", mgl32.Vec2{float32(width), float32(height)})
	libutil.DrawQuad()
}

func (effect *BlurEffect) RenderDirect() {
	libgl.PushDebugGroup("Render Direct")
	defer libgl.PopDebugGroup()

	effect.bindOutput()
	effect.drawScene(effect.width, effect.height)
}

func (effect *BlurEffect) RenderScene() {
	libgl.PushDebugGroup("Render Scene")
	defer libgl.PopDebugGroup()

	effect.scene.Bind()
	effect.drawScene(effect.scene.Width, effect.scene.Height)
}

func (effect *BlurEffect) copy(src libgl.UnboundTexture) {
	libgl.GlState.SetEnabled()
	effect.copyShader.Bind()
	effect.sampler.Bind(0)
	src.Bind(0)
	libutil.DrawQuad()
}

func (effect *BlurEffect) Downsample() {
	libgl.PushDebugGroup("Downsample")
	defer libgl.PopDebugGroup()

	effect.blur.Write().Bind()
	effect.copy(effect.scene.Texture)
	effect.blur.Swap()
}

func (effect *BlurEffect) BlurPass(dir blur.Direction, sampleStep int) {
	libgl.PushDebugGroup("Blur " + dir.String())
	defer libgl.PopDebugGroup()

	libgl.GlState.SetEnabled()
	effect.blur.Write().Bind()
	effect.blurShader.Bind()
	effect.blurShader.FragmentStage().SetUniform("u_horizontal", dir == blur.Horizontal)
	effect.blurShader.FragmentStage().SetUniform("u_sample_step", int32(sampleStep))
	effect.blur.Read().Texture.Bind(0)
	libutil.DrawQuad()
	effect.blur.Swap()
}

func (effect *BlurEffect) Composite() {
	libgl.PushDebugGroup("Composite")
	defer libgl.PopDebugGroup()

	effect.bindOutput()
	effect.copy(effect.blur.Read().Texture)
}

// Snapshot reads back the last output.
// When rendering to the default framebuffer it must be called before the buffers are swapped.
func (effect *BlurEffect) Snapshot() (*libio.FloatImage, error) {
	if effect.scene == nil {
		return nil, fmt.Errorf("blur effect is not allocated")
	}
	if effect.output != nil {
		pix := effect.output.Texture.ReadPixels()
		return libio.NewFloatImage(pix, 4, effect.width, effect.height), nil
	}

	img := libio.NewFloatImage(nil, 4, effect.width, effect.height)
	libgl.GlState.BindReadFramebuffer(libgl.DefaultFramebuffer)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 4)
	gl.ReadPixels(0, 0, int32(effect.width), int32(effect.height), gl.RGBA, gl.FLOAT, img.Pointer())
	return img, nil
}

// Targets returns the scene target followed by the read and write blur targets
func (effect *BlurEffect) Targets() []*Target {
	if effect.blur == nil {
		return nil
	}
	return []*Target{effect.scene, effect.blur.Read(), effect.blur.Write()}
}

func (effect *BlurEffect) releaseTargets() {
	if effect.scene != nil {
		effect.scene.Delete()
		effect.scene = nil
	}
	if effect.blur != nil {
		for _, t := range effect.blur.Both() {
			t.Delete()
		}
		effect.blur = nil
	}
	if effect.output != nil {
		effect.output.Delete()
		effect.output = nil
	}
}

func (effect *BlurEffect) Release() {
	effect.releaseTargets()
	effect.sceneShader.Delete()
	effect.copyShader.Delete()
	effect.blurShader.Delete()
	effect.sampler.Delete()
}
