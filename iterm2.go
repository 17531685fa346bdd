package termsplash

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
)

// ITerm2Encoder emits the OSC 1337 inline-image sequence understood by iTerm2
// and compatible terminals. The image is re-compressed to PNG in memory and
// transmitted base64-encoded in a single sequence; this protocol has no
// chunking.
type ITerm2Encoder struct{}

// Protocol returns the protocol tag.
func (e *ITerm2Encoder) Protocol() Protocol {
	return ITerm2
}

// Encode produces exactly one sequence of the form
//
//	ESC ] 1337 ; File=inline=1;size=N;width=Wpx;height=Hpx;doNotMoveCursor=1 : <base64> BEL
//
// where size is the byte length of the PNG payload before base64 expansion.
func (e *ITerm2Encoder) Encode(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encoding png: %w", err)
	}

	bounds := img.Bounds()
	return fmt.Sprintf("\x1b]1337;File=inline=1;size=%d;width=%dpx;height=%dpx;doNotMoveCursor=1:%s\x07",
		buf.Len(),
		bounds.Dx(),
		bounds.Dy(),
		base64.StdEncoding.EncodeToString(buf.Bytes()),
	), nil
}
