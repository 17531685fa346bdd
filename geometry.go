package termsplash

import (
	"os"

	"golang.org/x/term"
)

// Conservative cell pixel size assumed when the terminal offers no
// measurement. Matches the most common monospace raster.
const (
	DefaultCellWidth  = 8
	DefaultCellHeight = 16
)

// Geometry describes the character-cell grid of a terminal and the pixel size
// of one cell. A zero Geometry means the terminal size is unknown; the
// preparer then leaves images untouched.
type Geometry struct {
	Cols       int
	Rows       int
	CellWidth  int
	CellHeight int
}

// Known reports whether the cell grid was actually measured.
func (g Geometry) Known() bool {
	return g.Cols > 0 && g.Rows > 0
}

// PixelWidth returns the terminal's usable width in pixels.
func (g Geometry) PixelWidth() int {
	return g.Cols * g.cellWidth()
}

// PixelHeight returns the terminal's usable height in pixels.
func (g Geometry) PixelHeight() int {
	return g.Rows * g.cellHeight()
}

func (g Geometry) cellWidth() int {
	if g.CellWidth > 0 {
		return g.CellWidth
	}
	return DefaultCellWidth
}

func (g Geometry) cellHeight() int {
	if g.CellHeight > 0 {
		return g.CellHeight
	}
	return DefaultCellHeight
}

// WithCellSize returns a copy of g with a measured cell pixel size, typically
// supplied by an external capability probe. Non-positive values are ignored.
func (g Geometry) WithCellSize(w, h int) Geometry {
	if w > 0 && h > 0 {
		g.CellWidth = w
		g.CellHeight = h
	}
	return g
}

// DetectGeometry queries f (normally stdout) for its character-cell size.
// Returns the zero Geometry when f is not a terminal or the query fails; the
// cell pixel size falls back to the conservative defaults either way.
func DetectGeometry(f *os.File) Geometry {
	if f == nil {
		return Geometry{}
	}
	cols, rows, err := term.GetSize(int(f.Fd()))
	if err != nil || cols <= 0 || rows <= 0 {
		return Geometry{}
	}
	return Geometry{Cols: cols, Rows: rows}
}
