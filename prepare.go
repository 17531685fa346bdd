package termsplash

import (
	"image"
	"image/draw"

	"github.com/nfnt/resize"
	xdraw "golang.org/x/image/draw"
)

// Prepare fits img into the terminal's pixel area, preserving aspect ratio and
// never upscaling. The input is returned untouched when it already fits or
// when the geometry is unknown; otherwise a new bitmap is produced and the
// source is left unmodified. Deterministic for identical inputs.
func Prepare(img image.Image, geom Geometry) image.Image {
	if img == nil {
		return nil
	}
	if !geom.Known() {
		return img
	}

	bounds := img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	maxW, maxH := geom.PixelWidth(), geom.PixelHeight()

	if srcW <= maxW && srcH <= maxH {
		return img
	}

	dstW, dstH := fitDimensions(srcW, srcH, maxW, maxH)
	return scaleDown(img, dstW, dstH)
}

// fitDimensions computes the uniform downscale of (w, h) into (maxW, maxH).
// The scale factor never exceeds 1 and each output axis is at least 1px.
func fitDimensions(w, h, maxW, maxH int) (int, int) {
	scaleW := float64(maxW) / float64(w)
	scaleH := float64(maxH) / float64(h)
	scale := min(scaleW, scaleH, 1.0)

	dstW := max(int(float64(w)*scale), 1)
	dstH := max(int(float64(h)*scale), 1)
	return dstW, dstH
}

// scaleDown resamples img to exactly w×h. Heavy reductions go through Lanczos3
// to avoid aliasing; mild ones use Catmull-Rom, which is indistinguishable at
// small ratios and cheaper.
func scaleDown(img image.Image, w, h int) image.Image {
	bounds := img.Bounds()
	if bounds.Dx()*bounds.Dy() > 4*w*h {
		return resize.Resize(uint(w), uint(h), img, resize.Lanczos3)
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}
