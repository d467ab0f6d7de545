package libio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/chewxy/math32"
	"github.com/pierrec/lz4/v4"
)

const (
	f32Magic   uint32 = 0x6d16837d
	f32Version uint32 = 1_001_000
	// Sanity limit for decoding, 256M floats
	f32MaxValues = 1 << 28
)

type FloatImageCompression uint32

const (
	FloatImageCompressionNone FloatImageCompression = iota
	// Every channel is quantized to 16 bit over its own [min, max] range, then lz4 compressed
	FloatImageCompressionFixedPoint16Lz4
)

type f32Header struct {
	Magic         uint32
	Version       uint32
	Width, Height uint32
	Channels      uint8
	Compression   FloatImageCompression
	_             [14]uint8
}

var byteOrder = binary.LittleEndian

func EncodeFloatImage(w io.Writer, img *FloatImage, compression FloatImageCompression) error {
	if len(img.Pix) != img.Count()*img.Channels {
		return fmt.Errorf("image has %d values, expected %d", len(img.Pix), img.Count()*img.Channels)
	}

	header := f32Header{
		Magic:       f32Magic,
		Version:     f32Version,
		Width:       uint32(img.Width),
		Height:      uint32(img.Height),
		Channels:    uint8(img.Channels),
		Compression: compression,
	}
	if err := binary.Write(w, byteOrder, &header); err != nil {
		return fmt.Errorf("write f32 header: %w", err)
	}

	switch compression {
	case FloatImageCompressionNone:
		bw := bufio.NewWriter(w)
		if err := binary.Write(bw, byteOrder, img.Pix); err != nil {
			return fmt.Errorf("write f32 pixels: %w", err)
		}
		return bw.Flush()
	case FloatImageCompressionFixedPoint16Lz4:
		lzw := lz4.NewWriter(w)
		if err := lzw.Apply(lz4.CompressionLevelOption(lz4.Fast)); err != nil {
			return err
		}
		if err := writeFixedPoint16(lzw, img); err != nil {
			return fmt.Errorf("write f32 pixels: %w", err)
		}
		return lzw.Close()
	}
	return fmt.Errorf("unknown f32 compression %d", compression)
}

func channelRange(img *FloatImage, ch int) (lo, hi float32) {
	lo, hi = math32.Inf(1), math32.Inf(-1)
	for i := ch; i < len(img.Pix); i += img.Channels {
		lo = math32.Min(lo, img.Pix[i])
		hi = math32.Max(hi, img.Pix[i])
	}
	return
}

func writeFixedPoint16(w io.Writer, img *FloatImage) error {
	bw := bufio.NewWriter(w)
	fixed := make([]uint16, img.Count())
	for ch := 0; ch < img.Channels; ch++ {
		lo, hi := channelRange(img, ch)
		if err := binary.Write(bw, byteOrder, [2]float32{lo, hi}); err != nil {
			return err
		}

		// a constant channel maps everything to lo
		var scale float32
		if hi > lo {
			scale = 0xffff / (hi - lo)
		}
		for i := range fixed {
			fixed[i] = uint16((img.Pix[i*img.Channels+ch]-lo)*scale + 0.5)
		}
		if err := binary.Write(bw, byteOrder, fixed); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func DecodeFloatImage(r io.Reader) (*FloatImage, error) {
	var header f32Header
	if err := binary.Read(r, byteOrder, &header); err != nil {
		return nil, fmt.Errorf("read f32 header: %w", err)
	}
	if header.Magic != f32Magic {
		return nil, fmt.Errorf("not an f32 image, magic is 0x%08x", header.Magic)
	}
	if header.Version != f32Version {
		return nil, fmt.Errorf("f32 version %d unsupported", header.Version)
	}
	values := uint64(header.Width) * uint64(header.Height) * uint64(header.Channels)
	if values == 0 || values > f32MaxValues {
		return nil, fmt.Errorf("f32 image of %dx%dx%d is out of bounds", header.Width, header.Height, header.Channels)
	}

	img := NewFloatImage(nil, int(header.Channels), int(header.Width), int(header.Height))
	var err error
	switch header.Compression {
	case FloatImageCompressionNone:
		err = binary.Read(bufio.NewReader(r), byteOrder, img.Pix)
	case FloatImageCompressionFixedPoint16Lz4:
		err = readFixedPoint16(bufio.NewReader(lz4.NewReader(r)), img)
	default:
		err = fmt.Errorf("unknown compression %d", header.Compression)
	}
	if err != nil {
		return nil, fmt.Errorf("read f32 pixels: %w", err)
	}
	return img, nil
}

func readFixedPoint16(r io.Reader, img *FloatImage) error {
	fixed := make([]uint16, img.Count())
	for ch := 0; ch < img.Channels; ch++ {
		var bounds [2]float32
		if err := binary.Read(r, byteOrder, &bounds); err != nil {
			return err
		}
		if err := binary.Read(r, byteOrder, fixed); err != nil {
			return err
		}
		step := (bounds[1] - bounds[0]) / 0xffff
		for i, v := range fixed {
			img.Pix[i*img.Channels+ch] = bounds[0] + float32(v)*step
		}
	}
	return nil
}
