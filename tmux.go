package termsplash

import "strings"

// wrapMultiplexer wraps seq in the tmux passthrough envelope when the signals
// indicate a multiplexer between us and the real terminal. Every inner ESC
// must be doubled or tmux truncates the sequence at the first one.
func wrapMultiplexer(seq string, sig DetectionSignals) string {
	if !sig.Multiplexer || !strings.HasPrefix(seq, "\x1b") {
		return seq
	}
	return "\x1bPtmux;\x1b" + strings.ReplaceAll(seq, "\x1b", "\x1b\x1b") + "\x1b\\"
}
