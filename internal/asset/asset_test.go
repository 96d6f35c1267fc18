package asset

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"wipeout-assets/internal/prm"
	"wipeout-assets/internal/tim"
)

func texturedMesh(texID int16, uvs [3]prm.UV) *prm.Mesh {
	return &prm.Mesh{
		Name:     "fixture",
		Vertices: []prm.Vertex{{}, {X: 1}, {Y: 1}},
		Primitives: []prm.Primitive{{
			Type:    prm.TypeGT3,
			Coords:  [4]int16{0, 1, 2},
			Texture: texID,
			UVs:     [4]prm.UV{uvs[0], uvs[1], uvs[2]},
		}},
	}
}

func solidImage(w, h int) *tim.Image {
	return &tim.Image{Width: w, Height: h, Pixels: make([]byte, w*h*4)}
}

func TestBindNormalizesUVs(t *testing.T) {
	mesh := texturedMesh(0, [3]prm.UV{{U: 128, V: 128}, {U: 255, V: 0}, {U: 0, V: 64}})
	table := &TextureTable{Images: []*tim.Image{solidImage(256, 256)}}

	Bind(mesh, table)

	p := mesh.Primitives[0]
	if p.UVNorm[0] != [2]float32{0.5, 0.5} {
		t.Errorf("uv 0 = %v want (0.5, 0.5)", p.UVNorm[0])
	}
	if p.UVNorm[2] != [2]float32{0, 0.25} {
		t.Errorf("uv 2 = %v want (0, 0.25)", p.UVNorm[2])
	}
	// Raw texel values survive for later re-binding.
	if p.UVs[0] != (prm.UV{U: 128, V: 128}) {
		t.Errorf("raw uv 0 = %v, must not be overwritten", p.UVs[0])
	}
}

func TestBindRebindsAgainstNewTable(t *testing.T) {
	mesh := texturedMesh(0, [3]prm.UV{{U: 64, V: 32}, {}, {}})

	Bind(mesh, &TextureTable{Images: []*tim.Image{solidImage(256, 256)}})
	Bind(mesh, &TextureTable{Images: []*tim.Image{solidImage(128, 64)}})

	p := mesh.Primitives[0]
	if p.UVNorm[0] != [2]float32{0.5, 0.5} {
		t.Errorf("rebound uv = %v want (0.5, 0.5)", p.UVNorm[0])
	}
}

func TestBindSkipsUnresolvedTexture(t *testing.T) {
	mesh := texturedMesh(5, [3]prm.UV{{U: 10, V: 10}, {}, {}})
	Bind(mesh, &TextureTable{Images: []*tim.Image{solidImage(16, 16)}})

	if mesh.Primitives[0].UVNorm[0] != [2]float32{} {
		t.Errorf("uv for unresolved texture = %v want zero", mesh.Primitives[0].UVNorm[0])
	}
}

func TestTextureTableGet(t *testing.T) {
	table := &TextureTable{Images: []*tim.Image{solidImage(8, 8)}}
	if table.Get(0) == nil {
		t.Error("Get(0) = nil")
	}
	for _, id := range []int16{prm.NoTexture, 1, 99} {
		if table.Get(id) != nil {
			t.Errorf("Get(%d) should be nil", id)
		}
	}
	var nilTable *TextureTable
	if nilTable.Get(0) != nil || nilTable.Len() != 0 {
		t.Error("nil table must behave as empty")
	}
}

func TestShadowTextureIndex(t *testing.T) {
	// Two ships per shadow texture, files numbered from 1.
	want := []int{1, 1, 2, 2, 3, 3, 4, 4}
	for ship, idx := range want {
		if got := ShadowTextureIndex(ship); got != idx {
			t.Errorf("ShadowTextureIndex(%d) = %d want %d", ship, got, idx)
		}
	}
}

// --- filesystem fixtures -------------------------------------------------

// litWriter encodes a byte string as an all-literals LZSS stream, the
// simplest valid input for the decompressor.
type litWriter struct {
	buf  []byte
	rack uint8
	mask uint8
}

func (w *litWriter) bit(b uint32) {
	if b != 0 {
		w.rack |= w.mask
	}
	w.mask >>= 1
	if w.mask == 0 {
		w.buf = append(w.buf, w.rack)
		w.rack = 0
		w.mask = 0x80
	}
}

func (w *litWriter) bits(v uint32, n int) {
	for i := n - 1; i >= 0; i-- {
		w.bit(v >> uint(i) & 1)
	}
}

func compressLiterals(data []byte) []byte {
	w := &litWriter{mask: 0x80}
	for _, b := range data {
		w.bit(1)
		w.bits(uint32(b), 8)
	}
	w.bit(0)
	w.bits(0, 13)
	if w.mask != 0x80 {
		w.buf = append(w.buf, w.rack)
	}
	return w.buf
}

func buildArchive(images ...[]byte) []byte {
	var out bytes.Buffer
	binary.Write(&out, binary.LittleEndian, uint32(len(images)))
	var tail []byte
	for _, img := range images {
		binary.Write(&out, binary.LittleEndian, uint32(len(img)))
		tail = append(tail, img...)
	}
	out.Write(compressLiterals(tail))
	return out.Bytes()
}

// timRecord16 builds a true-color record of the given dimensions filled
// with an arbitrary opaque color.
func timRecord16(w, h int) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(0x10))
	binary.Write(&buf, binary.LittleEndian, uint32(tim.TypeTrueColor16))
	binary.Write(&buf, binary.LittleEndian, uint32(12+w*h*2))
	binary.Write(&buf, binary.LittleEndian, int16(0))
	binary.Write(&buf, binary.LittleEndian, int16(0))
	binary.Write(&buf, binary.LittleEndian, int16(w))
	binary.Write(&buf, binary.LittleEndian, int16(h))
	for i := 0; i < w*h; i++ {
		binary.Write(&buf, binary.LittleEndian, uint16(0x7FFF))
	}
	return buf.Bytes()
}

// modelFixture builds a single-object model with one gouraud-textured
// triangle referencing texture 0.
func modelFixture(uvs [3]prm.UV) []byte {
	var buf bytes.Buffer
	w16 := func(v int16) { binary.Write(&buf, binary.LittleEndian, v) }

	var name [16]byte
	copy(name[:], "fixture")
	buf.Write(name[:])
	w16(3) // vertices
	w16(0) // normals
	w16(1) // primitives
	w16(0)
	binary.Write(&buf, binary.LittleEndian, [3]int32{})
	for i := 0; i < 3; i++ {
		w16(int16(i))
		w16(0)
		w16(0)
		w16(0)
	}
	w16(int16(prm.TypeGT3))
	w16(0)
	w16(0) // coords
	w16(1)
	w16(2)
	w16(0) // texture id
	w16(0) // cba
	w16(0) // tsb
	for _, uv := range uvs {
		buf.Write([]byte{uv.U, uv.V})
	}
	w16(0)
	for i := 0; i < 3; i++ {
		buf.Write([]byte{128, 128, 128, 0})
	}
	return buf.Bytes()
}

func TestLoadObjectWithoutArchive(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ship.prm")
	if err := os.WriteFile(path, modelFixture([3]prm.UV{}), 0o644); err != nil {
		t.Fatal(err)
	}

	mesh, table, err := LoadObject(path, 0)
	if err != nil {
		t.Fatalf("LoadObject: %v", err)
	}
	if mesh == nil || mesh.Name != "fixture" {
		t.Fatalf("mesh = %+v", mesh)
	}
	if table.Len() != 0 {
		t.Errorf("table has %d entries want 0", table.Len())
	}
}

func TestLoadObjectBindsCompanionArchive(t *testing.T) {
	dir := t.TempDir()
	model := filepath.Join(dir, "ship.prm")
	archive := filepath.Join(dir, "ship.cmp")
	if err := os.WriteFile(model, modelFixture([3]prm.UV{{U: 2, V: 1}, {U: 4, V: 2}, {U: 0, V: 0}}), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(archive, buildArchive(timRecord16(4, 2)), 0o644); err != nil {
		t.Fatal(err)
	}

	mesh, table, err := LoadObject(model, 0)
	if err != nil {
		t.Fatalf("LoadObject: %v", err)
	}
	if table.Len() != 1 {
		t.Fatalf("table has %d entries want 1", table.Len())
	}
	img := table.Get(0)
	if img.Width != 4 || img.Height != 2 {
		t.Fatalf("image is %dx%d want 4x2", img.Width, img.Height)
	}
	p := mesh.Primitives[0]
	if p.UVNorm[0] != [2]float32{0.5, 0.5} || p.UVNorm[1] != [2]float32{1, 1} {
		t.Errorf("bound uvs = %v", p.UVNorm)
	}
}

func TestLoadObjectRejectsMalformedArchive(t *testing.T) {
	dir := t.TempDir()
	model := filepath.Join(dir, "ship.prm")
	archive := filepath.Join(dir, "ship.cmp")
	if err := os.WriteFile(model, modelFixture([3]prm.UV{}), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(archive, []byte{1, 2}, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := LoadObject(model, 0); err == nil {
		t.Error("malformed archive must not be silently ignored")
	}
}

func TestLoadArchiveReplacesKnownDuplicate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "allsh.cmp")
	images := make([][]byte, 16)
	for i := range images {
		images[i] = timRecord16(2, 2)
	}
	if err := os.WriteFile(path, buildArchive(images...), 0o644); err != nil {
		t.Fatal(err)
	}

	table, err := LoadArchive(path)
	if err != nil {
		t.Fatalf("LoadArchive: %v", err)
	}
	if table.Len() != 16 {
		t.Fatalf("table has %d entries want 16", table.Len())
	}
	dup := table.Get(14)
	if dup.Width != 1 || dup.Height != 1 || dup.Pixels[3] != 0 {
		t.Errorf("duplicate slot = %dx%d alpha %d, want transparent 1x1",
			dup.Width, dup.Height, dup.Pixels[3])
	}
	if got := table.Get(13); got.Width != 2 {
		t.Errorf("neighbour slot = %dx%d want 2x2", got.Width, got.Height)
	}
}
