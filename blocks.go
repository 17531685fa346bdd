package termsplash

import (
	"image"

	"github.com/charmbracelet/x/mosaic"
)

// BlocksRenderer draws an image with Unicode half-block characters and ANSI
// colors. It is the static textual fallback for terminals with no graphics
// protocol; the detector never selects it and the dispatcher never counts it
// as an emitted image.
type BlocksRenderer struct {
	// Dither enables dithering of the reduced color output.
	Dither bool
}

// Render returns the half-block rendering of img fitted into the cell grid.
// An unknown geometry falls back to an 80×24 grid. Each cell covers one pixel
// column and two pixel rows, so the aspect fit accounts for the 1:2 cell.
func (r *BlocksRenderer) Render(img image.Image, geom Geometry) string {
	if img == nil {
		return ""
	}

	cols, rows := geom.Cols, geom.Rows
	if cols <= 0 {
		cols = 80
	}
	if rows <= 0 {
		rows = 24
	}

	bounds := img.Bounds()
	srcW, srcH := float64(bounds.Dx()), float64(bounds.Dy())
	if srcW > 0 && srcH > 0 {
		ratio := min(float64(cols)/srcW, float64(rows)*2/srcH)
		if ratio < 1 {
			cols = max(int(srcW*ratio), 1)
			rows = max(int(srcH*ratio/2), 1)
		} else {
			cols = max(int(srcW), 1)
			rows = max(int(srcH/2), 1)
		}
	}

	m := mosaic.New().Dither(r.Dither).Width(cols).Height(rows)
	return m.Render(img)
}
