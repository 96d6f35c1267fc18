// Package tim decodes the console's native texture format into RGBA
// pixel buffers. Records come either straight from disk or as segments
// of an unpacked cmp archive.
package tim

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
)

// Color type tags. Paletted records carry a palette block before the
// pixel block; true-color records do not.
const (
	TypeTrueColor16 = 0x02
	TypePaletted4   = 0x08
	TypePaletted8   = 0x09
)

var (
	ErrMalformedHeader      = errors.New("tim: malformed header")
	ErrUnsupportedColorType = errors.New("tim: unsupported color type")
)

// Image is a decoded texture. Pixels is RGBA interleaved, 8 bits per
// channel, len == Width*Height*4.
type Image struct {
	Width  int
	Height int
	Pixels []byte
}

// NRGBA copies the decoded pixels into a stdlib image for the encoders
// and the rasterizer. Alpha is binary (0 or 255), so the premultiplied
// distinction does not arise.
func (m *Image) NRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, m.Width, m.Height))
	copy(img.Pix, m.Pixels)
	return img
}

type reader struct {
	data []byte
	off  int
}

func (r *reader) u32() (uint32, error) {
	if r.off+4 > len(r.data) {
		return 0, ErrMalformedHeader
	}
	v := binary.LittleEndian.Uint32(r.data[r.off:])
	r.off += 4
	return v, nil
}

func (r *reader) i16() (int16, error) {
	if r.off+2 > len(r.data) {
		return 0, ErrMalformedHeader
	}
	v := int16(binary.LittleEndian.Uint16(r.data[r.off:]))
	r.off += 2
	return v, nil
}

func (r *reader) u16() (uint16, error) {
	if r.off+2 > len(r.data) {
		return 0, ErrMalformedHeader
	}
	v := binary.LittleEndian.Uint16(r.data[r.off:])
	r.off += 2
	return v, nil
}

// rgba16 expands one packed 16-bit color: 5 bits per channel, shifted to
// 8. A raw value of zero is transparent no matter what; with transparent
// set, any value whose low 15 color bits are zero is too (the top bit is
// the hardware semi-transparency flag, not a color bit). Callers decode
// the same texture twice with different flags for different use-sites,
// so the asymmetry is part of the contract.
func rgba16(c uint16, transparent bool) (r, g, b, a uint8) {
	r = uint8((c >> 0 & 0x1F) << 3)
	g = uint8((c >> 5 & 0x1F) << 3)
	b = uint8((c >> 10 & 0x1F) << 3)
	a = 255
	if c == 0 || (transparent && c&0x7FFF == 0) {
		a = 0
	}
	return
}

// Decode parses one raw texture record. transparent selects the caller's
// transparency mode; see rgba16 for how it interacts with pure black.
func Decode(data []byte, transparent bool) (*Image, error) {
	r := &reader{data: data}

	if _, err := r.u32(); err != nil { // magic, not validated
		return nil, fmt.Errorf("tim: read magic: %w", err)
	}
	ctype, err := r.u32()
	if err != nil {
		return nil, fmt.Errorf("tim: read color type: %w", err)
	}

	var palette [][4]uint8
	switch ctype {
	case TypeTrueColor16:
	case TypePaletted4, TypePaletted8:
		palette, err = r.readPalette(ctype, transparent)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("tim: color type 0x%02x: %w", ctype, ErrUnsupportedColorType)
	}

	if _, err := r.u32(); err != nil { // pixel block length
		return nil, fmt.Errorf("tim: read pixel block: %w", err)
	}
	if _, err := r.i16(); err != nil { // skip x
		return nil, fmt.Errorf("tim: read pixel block: %w", err)
	}
	if _, err := r.i16(); err != nil { // skip y
		return nil, fmt.Errorf("tim: read pixel block: %w", err)
	}
	entries, err := r.i16()
	if err != nil {
		return nil, fmt.Errorf("tim: read pixel block: %w", err)
	}
	rows, err := r.i16()
	if err != nil {
		return nil, fmt.Errorf("tim: read pixel block: %w", err)
	}
	if entries < 0 || rows < 0 {
		return nil, fmt.Errorf("tim: %dx%d pixel block: %w", entries, rows, ErrMalformedHeader)
	}

	// Pixels packed per 16-bit storage word depend on the color type.
	perWord := 1
	switch ctype {
	case TypePaletted8:
		perWord = 2
	case TypePaletted4:
		perWord = 4
	}

	words := int(entries) * int(rows)
	if r.off+words*2 > len(r.data) {
		return nil, fmt.Errorf("tim: %d pixel words overflow %d-byte record: %w",
			words, len(r.data), ErrMalformedHeader)
	}

	img := &Image{
		Width:  int(entries) * perWord,
		Height: int(rows),
		Pixels: make([]byte, int(entries)*perWord*int(rows)*4),
	}

	o := 0
	put := func(r8, g8, b8, a8 uint8) {
		img.Pixels[o+0] = r8
		img.Pixels[o+1] = g8
		img.Pixels[o+2] = b8
		img.Pixels[o+3] = a8
		o += 4
	}

	for i := 0; i < words; i++ {
		w := binary.LittleEndian.Uint16(r.data[r.off:])
		r.off += 2
		switch ctype {
		case TypeTrueColor16:
			put(rgba16(w, transparent))
		case TypePaletted8:
			// Two palette indices per word, low byte first.
			c := palette[w&0xFF]
			put(c[0], c[1], c[2], c[3])
			c = palette[w>>8]
			put(c[0], c[1], c[2], c[3])
		case TypePaletted4:
			// Four indices per word, least-significant nibble first.
			for s := 0; s < 16; s += 4 {
				c := palette[w>>uint(s)&0xF]
				put(c[0], c[1], c[2], c[3])
			}
		}
	}

	return img, nil
}

// readPalette consumes the palette block: header length, origin
// (ignored), entry count, palette count, then the packed colors. The
// returned slice is sized to the full index range of the color type so
// pixel indices never go out of bounds; undeclared entries stay
// transparent black.
func (r *reader) readPalette(ctype uint32, transparent bool) ([][4]uint8, error) {
	if _, err := r.u32(); err != nil { // block length
		return nil, fmt.Errorf("tim: read palette block: %w", err)
	}
	if _, err := r.i16(); err != nil { // origin x
		return nil, fmt.Errorf("tim: read palette block: %w", err)
	}
	if _, err := r.i16(); err != nil { // origin y
		return nil, fmt.Errorf("tim: read palette block: %w", err)
	}
	colorCount, err := r.i16()
	if err != nil {
		return nil, fmt.Errorf("tim: read palette block: %w", err)
	}
	if _, err := r.i16(); err != nil { // palette count
		return nil, fmt.Errorf("tim: read palette block: %w", err)
	}
	if colorCount < 0 {
		return nil, fmt.Errorf("tim: %d palette colors: %w", colorCount, ErrMalformedHeader)
	}

	size := 16
	if ctype == TypePaletted8 {
		size = 256
	}
	palette := make([][4]uint8, size)
	for i := 0; i < int(colorCount); i++ {
		c, err := r.u16()
		if err != nil {
			return nil, fmt.Errorf("tim: palette color %d: %w", i, err)
		}
		if i < size {
			r8, g8, b8, a8 := rgba16(c, transparent)
			palette[i] = [4]uint8{r8, g8, b8, a8}
		}
	}
	return palette, nil
}
