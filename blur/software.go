package blur

import (
	"fmt"

	"gl-blur/libio"

	"github.com/chewxy/math32"
)

// SwStages runs every stage on the CPU with the same sampling rules as the GPU backends.
// It is slow and meant as a reference for tests and headless captures.
type SwStages struct {
	scene  *libio.FloatImage
	blur   *PingPong[*libio.FloatImage]
	output *libio.FloatImage
}

var _ Stages = (*SwStages)(nil)

func NewSwStages() *SwStages {
	return &SwStages{}
}

func (sw *SwStages) Resize(width, height, reductionRate int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid canvas size %dx%d", width, height)
	}
	if reductionRate < MinReductionRate || reductionRate > MaxReductionRate {
		return fmt.Errorf("invalid reduction rate %d", reductionRate)
	}
	bw, bh := TargetSize(width, height, reductionRate)
	sw.Release()
	sw.scene = libio.NewFloatImage(nil, 4, width, height)
	sw.output = libio.NewFloatImage(nil, 4, width, height)
	sw.blur = NewPingPong(libio.NewFloatImage(nil, 4, bw, bh), libio.NewFloatImage(nil, 4, bw, bh))
	return nil
}

func (sw *SwStages) RenderDirect() {
	SwRenderScene(sw.output)
}

func (sw *SwStages) RenderScene() {
	SwRenderScene(sw.scene)
}

func (sw *SwStages) Downsample() {
	SwCopy(sw.blur.Write(), sw.scene)
	sw.blur.Swap()
}

func (sw *SwStages) BlurPass(dir Direction, sampleStep int) {
	SwBlurPass(sw.blur.Write(), sw.blur.Read(), dir, sampleStep)
	sw.blur.Swap()
}

func (sw *SwStages) Composite() {
	SwCopy(sw.output, sw.blur.Read())
}

// Snapshot returns a copy of the output
func (sw *SwStages) Snapshot() (*libio.FloatImage, error) {
	if sw.output == nil {
		return nil, fmt.Errorf("software stages are not allocated")
	}
	return sw.output.Clone(), nil
}

// Targets returns the scene target followed by the read and write blur targets
func (sw *SwStages) Targets() []*libio.FloatImage {
	if sw.blur == nil {
		return nil
	}
	return []*libio.FloatImage{sw.scene, sw.blur.Read(), sw.blur.Write()}
}

func (sw *SwStages) Release() {
	sw.scene = nil
	sw.blur = nil
	sw.output = nil
}

// SwRenderScene fills dst with the procedural scene, alpha is 1
func SwRenderScene(dst *libio.FloatImage) {
	for y := 0; y < dst.Height; y++ {
		for x := 0; x < dst.Width; x++ {
			r, g, b := SceneColor(float32(x)+0.5, float32(y)+0.5, dst.Width, dst.Height)
			setRGBA(dst.Texel(x, y), r, g, b, 1)
		}
	}
}

// SwCopy samples src with clamp to edge bilinear filtering at the center of every pixel of dst
func SwCopy(dst, src *libio.FloatImage) {
	for y := 0; y < dst.Height; y++ {
		v := (float32(y) + 0.5) / float32(dst.Height)
		for x := 0; x < dst.Width; x++ {
			u := (float32(x) + 0.5) / float32(dst.Width)
			sampleLinear(dst.Texel(x, y), src, u, v)
		}
	}
}

// SwBlurPass applies one 9-tap pass in the given direction, reads are clamped to the edge of src
func SwBlurPass(dst, src *libio.FloatImage, dir Direction, sampleStep int) {
	for y := 0; y < dst.Height; y++ {
		for x := 0; x < dst.Width; x++ {
			c := src.Texel(ClampCoord(x, src.Width), ClampCoord(y, src.Height))
			r, g, b := Weights[0]*c[0], Weights[0]*c[1], Weights[0]*c[2]
			for i := 1; i < len(Weights); i++ {
				dx, dy := dir.Offset(i, sampleStep)
				p := src.Texel(ClampCoord(x+dx, src.Width), ClampCoord(y+dy, src.Height))
				n := src.Texel(ClampCoord(x-dx, src.Width), ClampCoord(y-dy, src.Height))
				r += Weights[i] * (p[0] + n[0])
				g += Weights[i] * (p[1] + n[1])
				b += Weights[i] * (p[2] + n[2])
			}
			setRGBA(dst.Texel(x, y), r, g, b, 1)
		}
	}
}

func sampleLinear(out []float32, src *libio.FloatImage, u, v float32) {
	tx := u*float32(src.Width) - 0.5
	ty := v*float32(src.Height) - 0.5
	fx0, fy0 := math32.Floor(tx), math32.Floor(ty)
	ax, ay := tx-fx0, ty-fy0
	x0, y0 := int(fx0), int(fy0)
	x1, y1 := ClampCoord(x0+1, src.Width), ClampCoord(y0+1, src.Height)
	x0, y0 = ClampCoord(x0, src.Width), ClampCoord(y0, src.Height)

	t00, t10 := src.Texel(x0, y0), src.Texel(x1, y0)
	t01, t11 := src.Texel(x0, y1), src.Texel(x1, y1)
	for c := range out {
		bottom := t00[c] + (t10[c]-t00[c])*ax
		top := t01[c] + (t11[c]-t01[c])*ax
		out[c] = bottom + (top-bottom)*ay
	}
}

func setRGBA(texel []float32, r, g, b, a float32) {
	texel[0], texel[1], texel[2], texel[3] = r, g, b, a
}
