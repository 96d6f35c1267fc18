// Package prm decodes 3D model files: per object, a shared vertex pool
// followed by a stream of typed shaded/textured primitives.
package prm

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	ErrTruncated             = errors.New("prm: truncated model data")
	ErrUnknownPrimitive      = errors.New("prm: unknown primitive type")
	ErrObjectIndexOutOfRange = errors.New("prm: object index out of range")
)

// Decode returns the logical sub-object at objectIndex. Multi-object
// files pack several (vertex pool, primitive stream) pairs back to back.
func Decode(data []byte, objectIndex int) (*Mesh, error) {
	if objectIndex < 0 {
		return nil, fmt.Errorf("prm: object %d: %w", objectIndex, ErrObjectIndexOutOfRange)
	}
	r := &reader{data: data}
	seen := 0
	for r.remaining() > 0 {
		m, err := decodeObject(r)
		if err != nil {
			return nil, err
		}
		if seen == objectIndex {
			return m, nil
		}
		seen++
	}
	return nil, fmt.Errorf("prm: object %d, file has %d: %w", objectIndex, seen, ErrObjectIndexOutOfRange)
}

// DecodeAll decodes every object in the file, in storage order.
func DecodeAll(data []byte) ([]*Mesh, error) {
	r := &reader{data: data}
	var meshes []*Mesh
	for r.remaining() > 0 {
		m, err := decodeObject(r)
		if err != nil {
			return nil, err
		}
		meshes = append(meshes, m)
	}
	return meshes, nil
}

type reader struct {
	data []byte
	off  int
}

func (r *reader) remaining() int { return len(r.data) - r.off }

func (r *reader) bytes(n int) ([]byte, error) {
	if n < 0 || r.off+n > len(r.data) {
		return nil, ErrTruncated
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *reader) i16() (int16, error) {
	if r.off+2 > len(r.data) {
		return 0, ErrTruncated
	}
	v := int16(binary.LittleEndian.Uint16(r.data[r.off:]))
	r.off += 2
	return v, nil
}

func (r *reader) u16() (uint16, error) {
	if r.off+2 > len(r.data) {
		return 0, ErrTruncated
	}
	v := binary.LittleEndian.Uint16(r.data[r.off:])
	r.off += 2
	return v, nil
}

func (r *reader) i32() (int32, error) {
	if r.off+4 > len(r.data) {
		return 0, ErrTruncated
	}
	v := int32(binary.LittleEndian.Uint32(r.data[r.off:]))
	r.off += 4
	return v, nil
}

// color reads an r,g,b,pad quadruplet. Alpha is not stored.
func (r *reader) color() (Color, error) {
	b, err := r.bytes(4)
	if err != nil {
		return Color{}, err
	}
	return Color{R: b[0], G: b[1], B: b[2], A: 255}, nil
}

func (r *reader) uv() (UV, error) {
	b, err := r.bytes(2)
	if err != nil {
		return UV{}, err
	}
	return UV{U: b[0], V: b[1]}, nil
}

func (r *reader) coords(p *Primitive, n int) error {
	for i := 0; i < n; i++ {
		c, err := r.i16()
		if err != nil {
			return err
		}
		p.Coords[i] = c
	}
	return nil
}

func (r *reader) colors(p *Primitive, n int) error {
	for i := 0; i < n; i++ {
		c, err := r.color()
		if err != nil {
			return err
		}
		p.Colors[i] = c
	}
	return nil
}

func (r *reader) uvs(p *Primitive, n int) error {
	for i := 0; i < n; i++ {
		uv, err := r.uv()
		if err != nil {
			return err
		}
		p.UVs[i] = uv
	}
	return nil
}

// textureAttrs reads the texture id and the two GPU attribute words
// (clut and tpage) that follow it; the attributes describe VRAM
// placement and are meaningless once the image is decoded.
func (r *reader) textureAttrs(p *Primitive) error {
	tex, err := r.i16()
	if err != nil {
		return err
	}
	p.Texture = tex
	if _, err := r.i16(); err != nil { // cba
		return err
	}
	if _, err := r.i16(); err != nil { // tsb
		return err
	}
	return nil
}

func decodeObject(r *reader) (*Mesh, error) {
	nameBytes, err := r.bytes(16)
	if err != nil {
		return nil, fmt.Errorf("prm: object name: %w", err)
	}
	name := cString(nameBytes)

	vertexCount, err := r.i16()
	if err != nil {
		return nil, fmt.Errorf("prm: %q header: %w", name, err)
	}
	normalCount, err := r.i16()
	if err != nil {
		return nil, fmt.Errorf("prm: %q header: %w", name, err)
	}
	primCount, err := r.i16()
	if err != nil {
		return nil, fmt.Errorf("prm: %q header: %w", name, err)
	}
	if _, err := r.i16(); err != nil { // padding
		return nil, fmt.Errorf("prm: %q header: %w", name, err)
	}
	for i := 0; i < 3; i++ { // origin, unused by consumers
		if _, err := r.i32(); err != nil {
			return nil, fmt.Errorf("prm: %q header: %w", name, err)
		}
	}
	if vertexCount < 0 || normalCount < 0 || primCount < 0 {
		return nil, fmt.Errorf("prm: %q counts %d/%d/%d: %w",
			name, vertexCount, normalCount, primCount, ErrTruncated)
	}

	mesh := &Mesh{
		Name:     name,
		Vertices: make([]Vertex, vertexCount),
	}
	for i := range mesh.Vertices {
		if mesh.Vertices[i], err = r.vertex(); err != nil {
			return nil, fmt.Errorf("prm: %q vertex %d: %w", name, i, err)
		}
	}
	if normalCount > 0 {
		mesh.Normals = make([]Vertex, normalCount)
		for i := range mesh.Normals {
			if mesh.Normals[i], err = r.vertex(); err != nil {
				return nil, fmt.Errorf("prm: %q normal %d: %w", name, i, err)
			}
		}
	}

	mesh.Primitives = make([]Primitive, 0, primCount)
	for i := 0; i < int(primCount); i++ {
		if err := decodePrimitive(r, mesh); err != nil {
			return nil, fmt.Errorf("prm: %q primitive %d: %w", name, i, err)
		}
	}
	return mesh, nil
}

func (r *reader) vertex() (Vertex, error) {
	var v Vertex
	var err error
	if v.X, err = r.i16(); err != nil {
		return v, err
	}
	if v.Y, err = r.i16(); err != nil {
		return v, err
	}
	if v.Z, err = r.i16(); err != nil {
		return v, err
	}
	_, err = r.i16() // padding
	return v, err
}

// decodePrimitive reads one tagged record and appends the resulting
// primitive(s) to the mesh: one for every type except GT4, which is
// stored as a quad but emitted as two GT3 triangles.
func decodePrimitive(r *reader, mesh *Mesh) error {
	typeRaw, err := r.u16()
	if err != nil {
		return err
	}
	flagsRaw, err := r.u16()
	if err != nil {
		return err
	}

	p := Primitive{
		Type:    PrimitiveType(typeRaw),
		Flags:   Flags(flagsRaw),
		Texture: NoTexture,
	}

	switch p.Type {
	case TypeF3:
		if err := r.coords(&p, 3); err != nil {
			return err
		}
		if _, err := r.i16(); err != nil { // padding
			return err
		}
		if err := r.colors(&p, 1); err != nil {
			return err
		}

	case TypeF4:
		if err := r.coords(&p, 4); err != nil {
			return err
		}
		if err := r.colors(&p, 1); err != nil {
			return err
		}

	case TypeFT3:
		if err := r.coords(&p, 3); err != nil {
			return err
		}
		if err := r.textureAttrs(&p); err != nil {
			return err
		}
		if err := r.uvs(&p, 3); err != nil {
			return err
		}
		if _, err := r.u16(); err != nil { // padding
			return err
		}
		if err := r.colors(&p, 1); err != nil {
			return err
		}

	case TypeFT4:
		if err := r.coords(&p, 4); err != nil {
			return err
		}
		if err := r.textureAttrs(&p); err != nil {
			return err
		}
		if err := r.uvs(&p, 4); err != nil {
			return err
		}
		if err := r.colors(&p, 1); err != nil {
			return err
		}

	case TypeG3:
		if err := r.coords(&p, 3); err != nil {
			return err
		}
		if _, err := r.i16(); err != nil { // padding
			return err
		}
		if err := r.colors(&p, 3); err != nil {
			return err
		}

	case TypeG4:
		if err := r.coords(&p, 4); err != nil {
			return err
		}
		if err := r.colors(&p, 4); err != nil {
			return err
		}

	case TypeGT3:
		if err := r.coords(&p, 3); err != nil {
			return err
		}
		if err := r.textureAttrs(&p); err != nil {
			return err
		}
		if err := r.uvs(&p, 3); err != nil {
			return err
		}
		if _, err := r.u16(); err != nil { // padding
			return err
		}
		if err := r.colors(&p, 3); err != nil {
			return err
		}

	case TypeGT4:
		if err := r.coords(&p, 4); err != nil {
			return err
		}
		if err := r.textureAttrs(&p); err != nil {
			return err
		}
		if err := r.uvs(&p, 4); err != nil {
			return err
		}
		if err := r.colors(&p, 4); err != nil {
			return err
		}
		a, b := splitGT4(p)
		mesh.Primitives = append(mesh.Primitives, a, b)
		return nil

	default:
		return fmt.Errorf("type %d: %w", typeRaw, ErrUnknownPrimitive)
	}

	mesh.Primitives = append(mesh.Primitives, p)
	return nil
}

// splitGT4 turns a stored gouraud-textured quad into two triangles that
// share the quad's diagonal. The windings (v2,v1,v0) and (v2,v3,v1)
// preserve the original facing; colors and UVs move with their vertex.
func splitGT4(q Primitive) (a, b Primitive) {
	return gt3Corner(q, 2, 1, 0), gt3Corner(q, 2, 3, 1)
}

func gt3Corner(q Primitive, i0, i1, i2 int) Primitive {
	p := Primitive{
		Type:    TypeGT3,
		Flags:   q.Flags,
		Texture: q.Texture,
	}
	for k, src := range [3]int{i0, i1, i2} {
		p.Coords[k] = q.Coords[src]
		p.Colors[k] = q.Colors[src]
		p.UVs[k] = q.UVs[src]
	}
	return p
}

func cString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
