package termsplash

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/apex/log"
	"github.com/apex/log/handlers/discard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() log.Interface {
	return &log.Logger{Handler: discard.Default, Level: log.DebugLevel}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

type flushRecorder struct {
	bytes.Buffer
	flushed bool
}

func (f *flushRecorder) Flush() error {
	f.flushed = true
	return nil
}

// Scenario: iTerm2 markers, no override, 400x300 image on an 80x24 terminal
// with 8x16 cells (640x384 px available) -> image passes through unresized and
// exactly one iTerm2 sequence is emitted.
func TestShowITerm2Fitting(t *testing.T) {
	var buf bytes.Buffer
	res := New(testImage(400, 300)).
		WriteTo(&buf).
		Signals(DetectionSignals{TermProgram: "iTerm.app"}).
		Geometry(Geometry{Cols: 80, Rows: 24, CellWidth: 8, CellHeight: 16}).
		Logger(quietLogger()).
		Show()

	require.True(t, res.Emitted)
	assert.Equal(t, ITerm2, res.Protocol)
	assert.Equal(t, 1, strings.Count(buf.String(), "\x1b]1337;"))
	assert.Contains(t, buf.String(), "width=400px")
	assert.Contains(t, buf.String(), "height=300px")
}

// Scenario: no protocol markers at all -> nothing is written and the result is
// a plain "not emitted", not an error.
func TestShowUnsupportedTerminal(t *testing.T) {
	var buf bytes.Buffer
	res := New(testImage(100, 100)).
		WriteTo(&buf).
		Signals(DetectionSignals{Term: "dumb"}).
		Geometry(Geometry{Cols: 80, Rows: 24}).
		Logger(quietLogger()).
		Show()

	assert.False(t, res.Emitted)
	assert.Equal(t, None, res.Protocol)
	assert.NotEmpty(t, res.Reason)
	assert.Zero(t, buf.Len(), "no encoder output on unsupported terminals")
}

// Scenario: unknown geometry -> the source image is emitted at native
// resolution regardless of its size.
func TestShowUnknownGeometry(t *testing.T) {
	var buf bytes.Buffer
	res := New(testImage(2000, 1500)).
		WriteTo(&buf).
		Signals(DetectionSignals{KittyWindowID: "1"}).
		Geometry(Geometry{}).
		Logger(quietLogger()).
		Show()

	require.True(t, res.Emitted)
	assert.Equal(t, Kitty, res.Protocol)
	assert.Contains(t, buf.String(), "s=2000,v=1500")
}

func TestShowKittyChunked(t *testing.T) {
	var buf bytes.Buffer
	res := New(testImage(4096, 1)).
		WriteTo(&buf).
		Signals(DetectionSignals{Term: "xterm-kitty"}).
		Geometry(Geometry{}).
		Logger(quietLogger()).
		Show()

	require.True(t, res.Emitted)
	controls, _ := splitKittySequences(t, buf.String())
	require.Len(t, controls, 4)
	assert.Equal(t, "0", controls[3]["m"])
}

func TestShowNilAndEmptyImage(t *testing.T) {
	assert.False(t, Show(nil).Emitted)

	var buf bytes.Buffer
	res := New(testImage(0, 0)).
		WriteTo(&buf).
		Signals(DetectionSignals{TermProgram: "iTerm.app"}).
		Logger(quietLogger()).
		Show()
	assert.False(t, res.Emitted)
	assert.Zero(t, buf.Len())
}

func TestShowProbePayloadPassthrough(t *testing.T) {
	payload := "\x1bPq#0;2;0;0;0#0~~\x1b\\"
	var buf bytes.Buffer
	res := New(testImage(10, 10)).
		WriteTo(&buf).
		Signals(DetectionSignals{Term: "dumb"}). // heuristics alone would bail
		Probe(&ProbeResult{Protocol: Sixel, Payload: payload, CellWidth: 7, CellHeight: 14}).
		Logger(quietLogger()).
		Show()

	require.True(t, res.Emitted)
	assert.Equal(t, Sixel, res.Protocol)
	assert.Equal(t, payload, buf.String())
}

// A probe that picked Kitty never supplies a usable payload; the dispatcher
// must encode the transfer itself, using the probe's measured cell size.
func TestShowProbeKittyReencodes(t *testing.T) {
	var buf bytes.Buffer
	res := New(testImage(100, 100)).
		WriteTo(&buf).
		Signals(DetectionSignals{Term: "dumb"}).
		Geometry(Geometry{Cols: 5, Rows: 2}).
		Probe(&ProbeResult{Protocol: Kitty, CellWidth: 8, CellHeight: 16}).
		Logger(quietLogger()).
		Show()

	require.True(t, res.Emitted)
	assert.Equal(t, Kitty, res.Protocol)
	// 5x2 cells at 8x16 -> 40x32 px; 100x100 must have been downscaled.
	controls, _ := splitKittySequences(t, buf.String())
	assert.Equal(t, "32", controls[0]["v"])
}

// Block-character rendering is a last resort, not a graphics protocol: a
// blocks-only probe is discarded and the heuristics get the final word.
func TestShowProbeBlocksFallsBackToHeuristics(t *testing.T) {
	var buf bytes.Buffer
	res := New(testImage(10, 10)).
		WriteTo(&buf).
		Signals(DetectionSignals{KittyWindowID: "1"}).
		Geometry(Geometry{}).
		Probe(&ProbeResult{Blocks: true}).
		Logger(quietLogger()).
		Show()

	require.True(t, res.Emitted)
	assert.Equal(t, Kitty, res.Protocol)

	buf.Reset()
	res = New(testImage(10, 10)).
		WriteTo(&buf).
		Signals(DetectionSignals{Term: "dumb"}).
		Probe(&ProbeResult{Blocks: true}).
		Logger(quietLogger()).
		Show()

	assert.False(t, res.Emitted)
	assert.Zero(t, buf.Len())
}

// Write failures are soft: logged, reported as not emitted, never panicking.
func TestShowWriteFailure(t *testing.T) {
	res := New(testImage(10, 10)).
		WriteTo(failWriter{}).
		Signals(DetectionSignals{TermProgram: "iTerm.app"}).
		Geometry(Geometry{}).
		Logger(quietLogger()).
		Show()

	assert.False(t, res.Emitted)
	assert.Contains(t, res.Reason, "write failed")
}

func TestShowFlushesSink(t *testing.T) {
	rec := &flushRecorder{}
	res := New(testImage(10, 10)).
		WriteTo(rec).
		Signals(DetectionSignals{TermProgram: "iTerm.app"}).
		Geometry(Geometry{}).
		Logger(quietLogger()).
		Show()

	require.True(t, res.Emitted)
	assert.True(t, rec.flushed)
}

func TestShowMultiplexerWrapping(t *testing.T) {
	var buf bytes.Buffer
	res := New(testImage(10, 10)).
		WriteTo(&buf).
		Signals(DetectionSignals{TermProgram: "iTerm.app", Multiplexer: true}).
		Geometry(Geometry{}).
		Logger(quietLogger()).
		Show()

	require.True(t, res.Emitted)
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\x1bPtmux;"))
	assert.True(t, strings.HasSuffix(out, "\x1b\\"))
	// The inner sequence's ESC bytes are doubled for passthrough.
	assert.Contains(t, out, "\x1b\x1b]1337;")
}

func TestWrapMultiplexer(t *testing.T) {
	seq := "\x1b]1337;File=...\x07"
	assert.Equal(t, seq, wrapMultiplexer(seq, DetectionSignals{}))

	wrapped := wrapMultiplexer(seq, DetectionSignals{Multiplexer: true})
	assert.True(t, strings.HasPrefix(wrapped, "\x1bPtmux;\x1b"))
	assert.True(t, strings.HasSuffix(wrapped, "\x1b\\"))

	// Non-escape output passes through untouched even under tmux.
	assert.Equal(t, "plain", wrapMultiplexer("plain", DetectionSignals{Multiplexer: true}))
}
