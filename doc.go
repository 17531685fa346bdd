/*
Package termsplash negotiates terminal graphics capabilities and encodes
images into the in-band protocol the attached terminal understands: iTerm2
inline images, Kitty graphics, or Sixel.

Detection is heuristic. No portable terminal reliably answers a live
capability query without risking a hang on non-interactive streams, so the
detector classifies the terminal from a snapshot of environment signals; an
externally supplied probe result can refine or override it when a collaborator
was able to query safely.

Basic usage:

	img, _, err := image.Decode(f)
	if err != nil {
	    log.Fatal(err)
	}

	res := termsplash.Show(img)
	if !res.Emitted {
	    // Unsupported terminal is normal, not an error; fall back to text.
	    fmt.Print((&termsplash.BlocksRenderer{}).Render(img, termsplash.Geometry{}))
	}

Everything is configurable through the builder:

	res := termsplash.New(img).
	    Signals(termsplash.SignalsFromEnv()).
	    Geometry(termsplash.DetectGeometry(os.Stdout)).
	    SixelColors(100).
	    Show()

Detection, preparation, and encoding are pure; all I/O happens in Show, which
writes to a single sink and flushes it. Hosts emitting other output
concurrently must serialize access to that sink.
*/
package termsplash
