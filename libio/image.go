package libio

import (
	goimg "image"
	"unsafe"

	"github.com/chewxy/math32"
)

// FloatImage stores interleaved float32 channels row by row.
// Row 0 is the bottom row, the same as OpenGL texture memory.
type FloatImage struct {
	Pix           []float32
	Channels      int
	Width, Height int
}

// NewFloatImage wraps pix, a nil pix allocates a zeroed image
func NewFloatImage(pix []float32, channels int, width, height int) *FloatImage {
	if pix == nil {
		pix = make([]float32, width*height*channels)
	}
	return &FloatImage{
		Pix:      pix,
		Channels: channels,
		Width:    width,
		Height:   height,
	}
}

func (img *FloatImage) Index(x, y int) int {
	return (y*img.Width + x) * img.Channels
}

// Count is the number of pixels
func (img *FloatImage) Count() int {
	return img.Width * img.Height
}

// Bytes is the size of Pix in bytes
func (img *FloatImage) Bytes() int {
	return len(img.Pix) * 4
}

func (img *FloatImage) Pointer() unsafe.Pointer {
	if len(img.Pix) == 0 {
		return nil
	}
	return unsafe.Pointer(&img.Pix[0])
}

// Texel returns the pixel at (x, y) as a slice into Pix, writes go through
func (img *FloatImage) Texel(x, y int) []float32 {
	i := img.Index(x, y)
	return img.Pix[i : i+img.Channels : i+img.Channels]
}

func (img *FloatImage) Clone() *FloatImage {
	pix := make([]float32, len(img.Pix))
	copy(pix, img.Pix)
	return NewFloatImage(pix, img.Channels, img.Width, img.Height)
}

// ToRGBA converts to 8 bit with Go's top left origin.
// Values are clamped to [0, 1], missing color channels are black and a missing alpha is opaque.
func (img *FloatImage) ToRGBA() *goimg.RGBA {
	rgba := goimg.NewRGBA(goimg.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		row := rgba.Pix[(img.Height-1-y)*rgba.Stride:]
		for x := 0; x < img.Width; x++ {
			texel := img.Texel(x, y)
			dst := row[x*4 : x*4+4 : x*4+4]
			dst[3] = 0xff
			for c := 0; c < len(texel) && c < 4; c++ {
				dst[c] = toUnorm8(texel[c])
			}
		}
	}
	return rgba
}

func toUnorm8(v float32) uint8 {
	return uint8(math32.Min(math32.Max(v, 0), 1)*0xff + 0.5)
}
