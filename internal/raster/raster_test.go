package raster

import (
	"testing"

	"wipeout-assets/internal/asset"
	"wipeout-assets/internal/prm"
	"wipeout-assets/internal/tim"
)

func TestFillGouraudInterpolates(t *testing.T) {
	fb := NewFrameBuffer(16, 16)
	tri := &Tri{
		X:      [3]float32{0, 15, 0},
		Y:      [3]float32{0, 0, 15},
		Colors: [3]prm.Color{{R: 255}, {R: 255}, {R: 255}},
	}
	Fill(fb, tri)

	// A pixel near the corner is covered and red.
	i := (1*16 + 1) * 4
	if fb.Color[i] != 255 || fb.Color[i+3] != 255 {
		t.Errorf("inside pixel = %v", fb.Color[i:i+4])
	}
	// The opposite corner stays untouched.
	j := (15*16 + 15) * 4
	if fb.Color[j+3] != 0 {
		t.Errorf("outside pixel alpha = %d want 0", fb.Color[j+3])
	}
}

func TestFillBothWindings(t *testing.T) {
	// No culling: the reversed triangle must fill the same pixels.
	for name, order := range map[string][3]int{"cw": {0, 1, 2}, "ccw": {2, 1, 0}} {
		fb := NewFrameBuffer(8, 8)
		x := [3]float32{0, 7, 0}
		y := [3]float32{0, 0, 7}
		tri := &Tri{}
		for k, o := range order {
			tri.X[k] = x[o]
			tri.Y[k] = y[o]
			tri.Colors[k] = prm.Color{G: 200}
		}
		Fill(fb, tri)
		if fb.Color[(1*8+1)*4+3] != 255 {
			t.Errorf("%s winding did not fill", name)
		}
	}
}

func TestFillZTest(t *testing.T) {
	fb := NewFrameBuffer(8, 8)
	far := &Tri{
		X:      [3]float32{0, 7, 0},
		Y:      [3]float32{0, 0, 7},
		Z:      [3]float32{-10, -10, -10},
		Colors: [3]prm.Color{{R: 255}, {R: 255}, {R: 255}},
	}
	near := &Tri{
		X:      [3]float32{0, 7, 0},
		Y:      [3]float32{0, 0, 7},
		Z:      [3]float32{10, 10, 10},
		Colors: [3]prm.Color{{B: 255}, {B: 255}, {B: 255}},
	}
	Fill(fb, near)
	Fill(fb, far)

	i := (1*8 + 1) * 4
	if fb.Color[i+2] != 255 || fb.Color[i] != 0 {
		t.Errorf("far triangle overwrote near one: %v", fb.Color[i:i+4])
	}
}

func TestFillSkipsTransparentTexels(t *testing.T) {
	tex := &tim.Image{Width: 1, Height: 1, Pixels: []byte{255, 255, 255, 0}}
	fb := NewFrameBuffer(8, 8)
	tri := &Tri{
		X:      [3]float32{0, 7, 0},
		Y:      [3]float32{0, 0, 7},
		Colors: [3]prm.Color{{R: 128, G: 128, B: 128}, {R: 128, G: 128, B: 128}, {R: 128, G: 128, B: 128}},
		Tex:    tex,
	}
	Fill(fb, tri)
	for i := 3; i < len(fb.Color); i += 4 {
		if fb.Color[i] != 0 {
			t.Fatalf("transparent texel written at byte %d", i)
		}
	}
}

func TestFillTexelModulation(t *testing.T) {
	// Vertex color 128 is identity; 255 roughly doubles (clamped).
	tex := &tim.Image{Width: 1, Height: 1, Pixels: []byte{100, 100, 100, 255}}
	fb := NewFrameBuffer(8, 8)
	tri := &Tri{
		X:      [3]float32{0, 7, 0},
		Y:      [3]float32{0, 0, 7},
		Colors: [3]prm.Color{{R: 128, G: 128, B: 128}, {R: 128, G: 128, B: 128}, {R: 128, G: 128, B: 128}},
		Tex:    tex,
	}
	Fill(fb, tri)
	i := (1*8 + 1) * 4
	if fb.Color[i] != 100 {
		t.Errorf("modulated texel = %d want 100", fb.Color[i])
	}
}

func TestRenderMeshSmoke(t *testing.T) {
	mesh := &prm.Mesh{
		Name: "tri",
		Vertices: []prm.Vertex{
			{X: -100, Y: -100}, {X: 100, Y: -100}, {X: 0, Y: 100},
		},
		Primitives: []prm.Primitive{{
			Type:   prm.TypeG3,
			Coords: [4]int16{0, 1, 2},
			Colors: [4]prm.Color{{R: 200, A: 255}, {G: 200, A: 255}, {B: 200, A: 255}},
		}},
	}

	img := Render(mesh, &asset.TextureTable{}, 0, 0, 64)
	if img.Bounds().Dx() != 64 {
		t.Fatalf("image width = %d want 64", img.Bounds().Dx())
	}
	center := img.NRGBAAt(32, 32)
	if center.A != 255 {
		t.Errorf("center pixel not covered: %+v", center)
	}
	corner := img.NRGBAAt(0, 0)
	if corner.A != 0 {
		t.Errorf("corner pixel should be empty: %+v", corner)
	}
}
