package cmp

import (
	"encoding/binary"
	"fmt"
)

// Unpack splits a compressed texture archive into its raw image records.
// The header is {u32 count, u32 size[count]} little-endian, followed by
// one LZSS bitstream holding the concatenated records. The sum of the
// declared sizes must match the decompressed length exactly.
func Unpack(data []byte) ([][]byte, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("cmp: %d-byte archive: %w", len(data), ErrHeader)
	}
	count := int(binary.LittleEndian.Uint32(data))
	headerLen := 4 + 4*count
	if count < 0 || headerLen > len(data) {
		return nil, fmt.Errorf("cmp: size table for %d images overflows %d-byte archive: %w",
			count, len(data), ErrHeader)
	}

	sizes := make([]int, count)
	total := 0
	for i := range sizes {
		sizes[i] = int(binary.LittleEndian.Uint32(data[4+4*i:]))
		total += sizes[i]
	}

	out, err := Decompress(data, headerLen)
	if err != nil {
		return nil, err
	}
	if total != len(out) {
		return nil, fmt.Errorf("cmp: %d bytes declared, %d decompressed: %w",
			total, len(out), ErrSizeMismatch)
	}

	images := make([][]byte, count)
	off := 0
	for i, size := range sizes {
		images[i] = out[off : off+size : off+size]
		off += size
	}
	return images, nil
}
