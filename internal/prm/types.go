package prm

// PrimitiveType tags the shape of one primitive record.
type PrimitiveType uint16

const (
	TypeF3  PrimitiveType = 1 // flat triangle
	TypeFT3 PrimitiveType = 2 // flat textured triangle
	TypeF4  PrimitiveType = 3 // flat quad
	TypeFT4 PrimitiveType = 4 // flat textured quad
	TypeG3  PrimitiveType = 5 // gouraud triangle
	TypeGT3 PrimitiveType = 6 // gouraud textured triangle
	TypeG4  PrimitiveType = 7 // gouraud quad
	TypeGT4 PrimitiveType = 8 // storage only: split into two GT3 at decode
)

func (t PrimitiveType) String() string {
	switch t {
	case TypeF3:
		return "F3"
	case TypeFT3:
		return "FT3"
	case TypeF4:
		return "F4"
	case TypeFT4:
		return "FT4"
	case TypeG3:
		return "G3"
	case TypeGT3:
		return "GT3"
	case TypeG4:
		return "G4"
	case TypeGT4:
		return "GT4"
	}
	return "unknown"
}

// Flags is the per-primitive bit-flag word.
type Flags uint16

const (
	// FlagSingleSided is carried through for consumers but historically
	// unenforced: the original engine rendered everything double-sided
	// and the shipped geometry depends on that.
	FlagSingleSided Flags = 1 << 0
	// FlagShipEngine marks exhaust-plume faces whose colors higher
	// layers override for the glow effect.
	FlagShipEngine  Flags = 1 << 1
	FlagTranslucent Flags = 1 << 2
)

// NoTexture is the texture id carried by untextured primitives.
const NoTexture int16 = -1

// Color is an RGBA8 face or vertex color.
type Color struct {
	R, G, B, A uint8
}

// UV is a texture coordinate in the source texture's own integer texel
// space (0–255), prior to any normalization.
type UV struct {
	U, V uint8
}

// Vertex is one entry of a model's shared vertex pool. Primitives refer
// to vertices by index, never by value; the pool is read-only after
// decode.
type Vertex struct {
	X, Y, Z int16
}

// Primitive is one tagged record. Triangles use Coords[0:3], quads all
// four. UVNorm stays zero until the mesh is bound against a texture
// table; the raw texel UVs are kept unchanged so the same mesh can be
// re-bound to a different archive later.
type Primitive struct {
	Type    PrimitiveType
	Flags   Flags
	Coords  [4]int16
	Texture int16
	Colors  [4]Color
	UVs     [4]UV
	UVNorm  [4][2]float32
}

// Corners reports how many of the index slots are in use.
func (p *Primitive) Corners() int {
	switch p.Type {
	case TypeF4, TypeFT4, TypeG4, TypeGT4:
		return 4
	}
	return 3
}

// Textured reports whether the primitive references a texture.
func (p *Primitive) Textured() bool {
	switch p.Type {
	case TypeFT3, TypeFT4, TypeGT3, TypeGT4:
		return true
	}
	return false
}

// Gouraud reports whether colors are per-vertex rather than per-face.
func (p *Primitive) Gouraud() bool {
	switch p.Type {
	case TypeG3, TypeG4, TypeGT3, TypeGT4:
		return true
	}
	return false
}

// CornerColor returns the shading color for one corner: flat primitives
// use the face color for every corner.
func (p *Primitive) CornerColor(i int) Color {
	if p.Gouraud() {
		return p.Colors[i]
	}
	return p.Colors[0]
}

// Mesh owns its vertex pool and primitive sequence exclusively. It is
// immutable after decode except for the coordinator's UVNorm pass.
type Mesh struct {
	Name       string
	Vertices   []Vertex
	Normals    []Vertex
	Primitives []Primitive
}
