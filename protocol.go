package termsplash

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// Protocol identifies a terminal graphics protocol. Exactly one protocol is
// selected per render attempt.
type Protocol int

const (
	None Protocol = iota
	ITerm2
	Kitty
	Sixel
)

func (p Protocol) String() string {
	switch p {
	case ITerm2:
		return "iterm2"
	case Kitty:
		return "kitty"
	case Sixel:
		return "sixel"
	default:
		return "none"
	}
}

// ParseProtocol maps a protocol name to its tag. Unknown names map to None.
func ParseProtocol(s string) Protocol {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "iterm2", "iterm":
		return ITerm2
	case "kitty":
		return Kitty
	case "sixel":
		return Sixel
	default:
		return None
	}
}

// DetectionSignals is a snapshot of the environment facts that drive protocol
// detection. Detect is a pure function of this value, so tests can vary the
// signals without mutating the process environment.
type DetectionSignals struct {
	Term          string // $TERM
	TermProgram   string // $TERM_PROGRAM
	LCTerminal    string // $LC_TERMINAL
	ITermSession  string // $ITERM_SESSION_ID
	KittyWindowID string // $KITTY_WINDOW_ID
	KittyPID      string // $KITTY_PID
	WTSession     string // $WT_SESSION
	WTProfileID   string // $WT_PROFILE_ID

	// Multiplexer is set when running under tmux or screen; emitted sequences
	// then need the passthrough envelope.
	Multiplexer bool

	// Interactive reports whether stdout is attached to a terminal. Detection
	// itself ignores it, but collaborators use it to decide whether a live
	// capability probe is safe to run at all.
	Interactive bool

	// Force overrides detection entirely when not None.
	Force Protocol
}

// SignalsFromEnv snapshots the current process environment. Each call re-reads
// the environment; signals are never cached across calls.
func SignalsFromEnv() DetectionSignals {
	return DetectionSignals{
		Term:          os.Getenv("TERM"),
		TermProgram:   os.Getenv("TERM_PROGRAM"),
		LCTerminal:    os.Getenv("LC_TERMINAL"),
		ITermSession:  os.Getenv("ITERM_SESSION_ID"),
		KittyWindowID: os.Getenv("KITTY_WINDOW_ID"),
		KittyPID:      os.Getenv("KITTY_PID"),
		WTSession:     os.Getenv("WT_SESSION"),
		WTProfileID:   os.Getenv("WT_PROFILE_ID"),
		Multiplexer:   os.Getenv("TMUX") != "" || os.Getenv("TERM_PROGRAM") == "tmux" || os.Getenv("TERM_PROGRAM") == "screen",
		Interactive:   term.IsTerminal(int(os.Stdout.Fd())),
		Force:         forcedProtocol(),
	}
}

func forcedProtocol() Protocol {
	switch {
	case os.Getenv("FORCE_ITERM2") != "":
		return ITerm2
	case os.Getenv("FORCE_KITTY") != "":
		return Kitty
	case os.Getenv("FORCE_SIXEL") != "":
		return Sixel
	default:
		return None
	}
}

// sixelTerms lists terminal names empirically associated with Sixel support.
// The list has known false positives (not every xterm build enables Sixel).
// Frozen for compatibility; do not extend without real terminal telemetry.
var sixelTerms = []string{"sixel", "xterm", "mlterm", "kterm", "rxvt", "konsole", "sakura", "eterm"}

// Detect classifies the host terminal from the given signals. First match
// wins; an unset or malformed value is treated as an absent signal, never an
// error. Identical signals always yield the same result.
func Detect(sig DetectionSignals) Protocol {
	if sig.Force != None {
		return sig.Force
	}
	// Windows Terminal exposes this pair, and that class of terminal commonly
	// implements Sixel.
	if sig.WTSession != "" || sig.WTProfileID != "" {
		return Sixel
	}
	if detectITerm2(sig) {
		return ITerm2
	}
	if detectKitty(sig) {
		return Kitty
	}
	if detectSixel(sig) {
		return Sixel
	}
	return None
}

func detectITerm2(sig DetectionSignals) bool {
	switch {
	case sig.TermProgram == "iTerm.app":
		return true
	case sig.ITermSession != "":
		return true
	case strings.Contains(strings.ToLower(sig.LCTerminal), "iterm"):
		return true
	}
	return false
}

func detectKitty(sig DetectionSignals) bool {
	switch {
	case sig.KittyWindowID != "":
		return true
	case sig.KittyPID != "":
		return true
	case strings.Contains(strings.ToLower(sig.Term), "kitty"):
		return true
	}
	return false
}

func detectSixel(sig DetectionSignals) bool {
	if sig.WTSession != "" || sig.WTProfileID != "" {
		return true
	}
	termName := strings.ToLower(sig.Term)
	for _, t := range sixelTerms {
		if strings.Contains(termName, t) {
			return true
		}
	}
	return false
}

// Support reports per-protocol availability for diagnostics. It evaluates the
// individual heuristics instead of the priority order of Detect, so a terminal
// can report support for more than one protocol.
type Support struct {
	ITerm2 bool
	Kitty  bool
	Sixel  bool
}

// DetectSupport evaluates every protocol heuristic against the signals.
func DetectSupport(sig DetectionSignals) Support {
	return Support{
		ITerm2: sig.Force == ITerm2 || detectITerm2(sig),
		Kitty:  sig.Force == Kitty || detectKitty(sig),
		Sixel:  sig.Force == Sixel || detectSixel(sig),
	}
}

// Any reports whether at least one protocol is available.
func (s Support) Any() bool {
	return s.ITerm2 || s.Kitty || s.Sixel
}
