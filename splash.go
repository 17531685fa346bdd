package termsplash

import (
	"fmt"
	"image"
	"io"
	"os"

	"github.com/apex/log"
)

// ProbeResult carries the outcome of an external capability probe. The core
// never queries the terminal itself; a collaborator that can safely run the
// handshake (interactive stream, short deadline) fills this in. A probe that
// timed out or failed is simply omitted.
type ProbeResult struct {
	// Protocol is the graphics protocol the probe settled on, None if the
	// terminal answered with nothing usable.
	Protocol Protocol

	// Blocks is set when the probe could only offer block-character
	// rendering. That is a last resort, not a graphics protocol; the
	// dispatcher falls back to its own heuristics instead.
	Blocks bool

	// CellWidth and CellHeight are the measured cell pixel size, 0 if the
	// probe could not report one.
	CellWidth  int
	CellHeight int

	// Payload is a ready-made escape sequence produced by the probe for
	// ITerm2 or Sixel. Kitty probes never hand back a usable payload; the
	// dispatcher re-encodes those itself.
	Payload string
}

// Result reports the outcome of a Show call. Emitted false is a normal,
// expected condition (unsupported terminal), never a hard failure; Reason is
// advisory text for diagnostics only.
type Result struct {
	Emitted  bool
	Protocol Protocol
	Reason   string
}

// Splash negotiates a graphics protocol for one image and emits the matching
// escape sequence: detect, prepare, encode, write, flush.
//
// The emission path is synchronous and writes to a single shared sink. A host
// running Show concurrently with other output-producing work must serialize
// access to that sink itself; interleaved partial escape sequences corrupt
// terminal state.
type Splash struct {
	img         image.Image
	out         io.Writer
	sig         DetectionSignals
	geom        Geometry
	probe       *ProbeResult
	logger      log.Interface
	chunkSize   int
	sixelColors int
}

// New creates a Splash for img with environment-derived signals and geometry,
// writing to stdout. Returns nil for a nil image.
func New(img image.Image) *Splash {
	if img == nil {
		return nil
	}
	return &Splash{
		img:    img,
		out:    os.Stdout,
		sig:    SignalsFromEnv(),
		geom:   DetectGeometry(os.Stdout),
		logger: log.Log,
	}
}

// WriteTo sets the output sink. If the sink implements Flush() error it is
// flushed after a successful write.
func (s *Splash) WriteTo(w io.Writer) *Splash {
	if w != nil {
		s.out = w
	}
	return s
}

// Signals replaces the environment snapshot used for detection.
func (s *Splash) Signals(sig DetectionSignals) *Splash {
	s.sig = sig
	return s
}

// Geometry replaces the detected terminal geometry.
func (s *Splash) Geometry(g Geometry) *Splash {
	s.geom = g
	return s
}

// Probe supplies the result of an external capability probe. When present and
// successful it takes precedence over the heuristic detector.
func (s *Splash) Probe(p *ProbeResult) *Splash {
	s.probe = p
	return s
}

// Logger sets the logger for diagnostic traces; debug-level lines carry the
// prepared pixel size, chosen protocol, and chunk counts.
func (s *Splash) Logger(l log.Interface) *Splash {
	if l != nil {
		s.logger = l
	}
	return s
}

// ChunkSize overrides the Kitty raw chunk size.
func (s *Splash) ChunkSize(n int) *Splash {
	s.chunkSize = n
	return s
}

// SixelColors sets the Sixel palette size.
func (s *Splash) SixelColors(n int) *Splash {
	s.sixelColors = n
	return s
}

// Show runs the negotiation to completion. All failures are absorbed here:
// encoder or write errors are logged and reported as Emitted false, never
// propagated. Callers that get Emitted false substitute their own static
// rendering (see BlocksRenderer).
func (s *Splash) Show() Result {
	if s == nil || s.img == nil {
		return Result{Reason: "no source image"}
	}
	if b := s.img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return Result{Reason: "empty source image"}
	}

	proto, payload := s.selectProtocol()
	if proto == None {
		s.logger.Debug("no supported graphics protocol")
		return Result{Reason: "no supported graphics protocol"}
	}

	// A probe may hand back a fully sized and encoded sequence.
	if payload != "" {
		s.logger.WithFields(log.Fields{
			"protocol": proto.String(),
			"source":   "probe",
		}).Debug("emitting probe payload")
		return s.emit(proto, payload)
	}

	prepared := Prepare(s.img, s.geom)
	bounds := prepared.Bounds()
	s.logger.WithFields(log.Fields{
		"protocol": proto.String(),
		"width":    bounds.Dx(),
		"height":   bounds.Dy(),
	}).Debug("prepared image")

	seq, err := s.encode(proto, prepared)
	if err != nil {
		s.logger.WithError(err).Warn("image encoding failed")
		return Result{Protocol: proto, Reason: fmt.Sprintf("%s encoding failed: %v", proto, err)}
	}
	return s.emit(proto, seq)
}

// selectProtocol applies the probe-first policy: a successful probe wins and
// may refine the cell geometry, but a blocks-only probe is discarded and the
// heuristic detector gets the final word.
func (s *Splash) selectProtocol() (Protocol, string) {
	if s.probe != nil && !s.probe.Blocks && s.probe.Protocol != None {
		s.geom = s.geom.WithCellSize(s.probe.CellWidth, s.probe.CellHeight)
		if s.probe.Protocol != Kitty && s.probe.Payload != "" {
			return s.probe.Protocol, s.probe.Payload
		}
		return s.probe.Protocol, ""
	}
	return Detect(s.sig), ""
}

func (s *Splash) encode(proto Protocol, img image.Image) (string, error) {
	switch proto {
	case Kitty:
		enc := &KittyEncoder{ChunkSize: s.chunkSize}
		seq, err := enc.Encode(img)
		if err == nil {
			n := len(toRGBA(img).Pix)
			s.logger.WithFields(log.Fields{
				"chunks": kittyChunkCount(n, s.chunkSize),
				"bytes":  n,
			}).Debug("kitty transfer")
		}
		return seq, err
	case Sixel:
		enc := &SixelEncoder{Colors: s.sixelColors, OptimizePalette: true}
		return enc.Encode(img)
	default:
		enc, err := EncoderFor(proto)
		if err != nil {
			return "", err
		}
		return enc.Encode(img)
	}
}

func (s *Splash) emit(proto Protocol, seq string) Result {
	seq = wrapMultiplexer(seq, s.sig)
	if _, err := io.WriteString(s.out, seq); err != nil {
		s.logger.WithError(err).Warn("writing image sequence failed")
		return Result{Protocol: proto, Reason: fmt.Sprintf("write failed: %v", err)}
	}
	if f, ok := s.out.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			s.logger.WithError(err).Warn("flushing image sequence failed")
			return Result{Protocol: proto, Reason: fmt.Sprintf("flush failed: %v", err)}
		}
	}
	return Result{Emitted: true, Protocol: proto}
}

// Show renders img to stdout with environment-derived settings.
func Show(img image.Image) Result {
	return New(img).Show()
}
