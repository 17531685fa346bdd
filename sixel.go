package termsplash

import (
	"bytes"
	"fmt"
	"image"

	"github.com/makeworld-the-better-one/dither/v2"
	"github.com/mattn/go-sixel"
	"github.com/soniakeys/quant/median"
)

// DefaultSixelColors is the palette size used when none is configured.
const DefaultSixelColors = 256

// SixelEncoder emits a palette-quantized Sixel stream as a single
// self-terminated DCS sequence.
type SixelEncoder struct {
	// Colors is the palette size, clamped to the Sixel range [2, 256].
	// Zero means DefaultSixelColors.
	Colors int

	// OptimizePalette runs a median-cut quantization with Stucki error
	// diffusion before encoding, instead of the encoder's built-in reduction.
	OptimizePalette bool
}

// Protocol returns the protocol tag.
func (e *SixelEncoder) Protocol() Protocol {
	return Sixel
}

// Encode converts the image's RGBA pixels into Sixel bands. The underlying
// encoder writes the complete DCS envelope including the string terminator, so
// the output needs no further framing.
func (e *SixelEncoder) Encode(img image.Image) (string, error) {
	colors := e.Colors
	if colors <= 0 {
		colors = DefaultSixelColors
	}
	colors = min(max(colors, 2), 256)

	src := img
	if e.OptimizePalette {
		src = optimizePalette(img, colors)
	}

	var buf bytes.Buffer
	enc := sixel.NewEncoder(&buf)
	enc.Colors = colors
	if e.OptimizePalette {
		// Already dithered against the optimized palette.
		enc.Dither = false
	}

	if err := enc.Encode(src); err != nil {
		return "", fmt.Errorf("encoding sixel: %w", err)
	}
	if buf.Len() == 0 {
		return "", fmt.Errorf("sixel encoder produced no output")
	}
	return buf.String(), nil
}

// optimizePalette quantizes img to a median-cut palette of the given size and
// applies Stucki error diffusion against it.
func optimizePalette(img image.Image, colors int) image.Image {
	quantizer := median.Quantizer(colors)
	palette := quantizer.Palette(img).ColorPalette()

	ditherer := dither.NewDitherer(palette)
	ditherer.Matrix = dither.Stucki
	return ditherer.Dither(img)
}
