// Package cmp decodes the compressed texture archives shipped with the
// game: a size table followed by a single LZSS bitstream holding the
// concatenated raw image records.
package cmp

import (
	"errors"
	"fmt"
)

var (
	ErrTruncated    = errors.New("cmp: truncated stream")
	ErrHeader       = errors.New("cmp: malformed archive header")
	ErrSizeMismatch = errors.New("cmp: declared sizes do not match decompressed length")
)

const (
	indexBits  = 13
	lengthBits = 4
	windowSize = 1 << indexBits

	// Minimum match length at which a back-reference beats emitting
	// literals. Classic LZSS break-even expression.
	breakEven = (1 + indexBits + lengthBits) / 9
)

// bitReader consumes bits MSB-first from an 8-bit rack that is refilled
// one input byte at a time.
type bitReader struct {
	data []byte
	pos  int
	rack uint8
	mask uint8
}

func newBitReader(data []byte) *bitReader {
	return &bitReader{data: data, mask: 0x80}
}

func (r *bitReader) readBit() (uint32, error) {
	if r.mask == 0x80 {
		if r.pos >= len(r.data) {
			return 0, ErrTruncated
		}
		r.rack = r.data[r.pos]
		r.pos++
	}
	var bit uint32
	if r.rack&r.mask != 0 {
		bit = 1
	}
	r.mask >>= 1
	if r.mask == 0 {
		r.mask = 0x80
	}
	return bit, nil
}

func (r *bitReader) readBits(n int) (uint32, error) {
	var v uint32
	for i := 0; i < n; i++ {
		bit, err := r.readBit()
		if err != nil {
			return 0, err
		}
		v = v<<1 | bit
	}
	return v, nil
}

// Decompress decodes one LZSS bitstream beginning at offset. The window
// write cursor starts at 1; position 0 is reserved so that a match
// position of 0 can act as the end-of-stream sentinel. Both literals and
// copied bytes are re-inserted at the cursor, so self-overlapping copies
// see freshly written bytes.
func Decompress(data []byte, offset int) ([]byte, error) {
	if offset < 0 || offset > len(data) {
		return nil, fmt.Errorf("cmp: stream offset %d out of range: %w", offset, ErrHeader)
	}

	br := newBitReader(data[offset:])
	window := make([]byte, windowSize)
	wpos := 1
	var out []byte

	for {
		flag, err := br.readBit()
		if err != nil {
			return nil, err
		}

		if flag == 1 {
			b, err := br.readBits(8)
			if err != nil {
				return nil, err
			}
			out = append(out, byte(b))
			window[wpos] = byte(b)
			wpos = (wpos + 1) % windowSize
			continue
		}

		pos, err := br.readBits(indexBits)
		if err != nil {
			return nil, err
		}
		if pos == 0 {
			return out, nil
		}
		length, err := br.readBits(lengthBits)
		if err != nil {
			return nil, err
		}

		n := int(length) + breakEven
		for i := 0; i <= n; i++ {
			b := window[(int(pos)+i)%windowSize]
			out = append(out, b)
			window[wpos] = b
			wpos = (wpos + 1) % windowSize
		}
	}
}
