package stream

import (
	"bufio"
	"io"
)

// maxLineSize bounds a single protocol line. Final answers arrive as one
// line, so this needs headroom well beyond typical token events.
const maxLineSize = 1024 * 1024

// LineDecoder turns an open-ended byte stream into a sequence of text lines.
//
// Reads from the body arrive in arbitrary chunks: a chunk boundary may fall
// inside a line or inside a multi-byte UTF-8 sequence. Splitting is done on
// raw bytes at '\n' (a byte that never appears inside a multi-byte sequence),
// so partial runes and partial lines are carried over intact and only
// surfaced once complete. A trailing line with no terminator is emitted when
// the stream closes.
//
// The decoder is single-pass and non-restartable.
type LineDecoder struct {
	scanner *bufio.Scanner
}

func NewLineDecoder(r io.Reader) *LineDecoder {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &LineDecoder{scanner: scanner}
}

// Next returns the next completed line with its terminator (and any trailing
// '\r') stripped. It returns false when the stream is exhausted or failed;
// check Err to distinguish.
func (d *LineDecoder) Next() (string, bool) {
	if !d.scanner.Scan() {
		return "", false
	}
	return d.scanner.Text(), true
}

// Err returns the first error hit while reading the underlying stream.
// A clean close returns nil.
func (d *LineDecoder) Err() error {
	return d.scanner.Err()
}
