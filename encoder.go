package termsplash

import (
	"fmt"
	"image"
	"image/draw"
)

// Encoder turns a prepared image into the escape sequence a terminal needs to
// render it inline. Implementations share no state and fail only on internal
// encoding faults, never on valid RGBA input of reasonable size.
type Encoder interface {
	// Encode generates the complete, self-contained sequence for the image.
	Encode(img image.Image) (string, error)

	// Protocol returns the protocol tag this encoder emits.
	Protocol() Protocol
}

// EncoderFor returns the encoder for a protocol tag with default settings.
func EncoderFor(p Protocol) (Encoder, error) {
	switch p {
	case ITerm2:
		return &ITerm2Encoder{}, nil
	case Kitty:
		return &KittyEncoder{}, nil
	case Sixel:
		return &SixelEncoder{}, nil
	default:
		return nil, fmt.Errorf("no encoder for protocol %q", p)
	}
}

// toRGBA flattens img into a row-major 8-bit RGBA bitmap anchored at the
// origin. The input is returned as-is when it already has that layout.
func toRGBA(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok {
		if rgba.Rect.Min == (image.Point{}) && rgba.Stride == 4*bounds.Dx() {
			return rgba
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	return dst
}
