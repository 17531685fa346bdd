package termsplash

import (
	"encoding/base64"
	"fmt"
	"image"
	"strings"
)

// DefaultChunkSize is the raw byte count per Kitty chunk. 4096 bytes before
// base64 expansion stays safely under the line-length limits of common
// transports, multiplexer passthrough included.
const DefaultChunkSize = 4096

// KittyEncoder emits the Kitty graphics protocol APC sequences for an image.
// Pixels are transmitted as uncompressed RGBA, split across chunks; the m flag
// is 1 on every chunk except the last, which carries 0. That final 0 is the
// only signal the terminal gets that the transfer is complete.
type KittyEncoder struct {
	// ChunkSize overrides DefaultChunkSize when positive. Exposed for tests
	// and for transports with tighter limits.
	ChunkSize int
}

// Protocol returns the protocol tag.
func (e *KittyEncoder) Protocol() Protocol {
	return Kitty
}

// Encode produces ceil(len(pixels)/ChunkSize) sequences. The first carries the
// full header (direct transmission, 32-bit RGBA, pixel dimensions); the rest
// carry only the continuation flag and payload.
func (e *KittyEncoder) Encode(img image.Image) (string, error) {
	chunkSize := e.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	rgba := toRGBA(img)
	raw := rgba.Pix
	if len(raw) == 0 {
		return "", fmt.Errorf("empty pixel buffer")
	}
	w := rgba.Rect.Dx()
	h := rgba.Rect.Dy()

	var seq strings.Builder
	for i := 0; i < len(raw); i += chunkSize {
		end := min(i+chunkSize, len(raw))
		payload := base64.StdEncoding.EncodeToString(raw[i:end])

		more := 0
		if end < len(raw) {
			more = 1
		}

		if i == 0 {
			// q=2 suppresses terminal responses, a=T transmits and displays,
			// U=1 requests virtual placement, f=32 is raw RGBA.
			fmt.Fprintf(&seq, "\x1b_Gq=2,i=1,a=T,U=1,f=32,t=d,s=%d,v=%d,m=%d;%s\x1b\\", w, h, more, payload)
		} else {
			fmt.Fprintf(&seq, "\x1b_Gq=2,m=%d;%s\x1b\\", more, payload)
		}
	}
	return seq.String(), nil
}

// kittyChunkCount returns how many sequences a buffer of n raw bytes needs.
func kittyChunkCount(n, chunkSize int) int {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return (n + chunkSize - 1) / chunkSize
}
