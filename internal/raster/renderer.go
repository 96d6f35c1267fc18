package raster

import (
	"image"

	"wipeout-assets/internal/asset"
	"wipeout-assets/internal/mathutil"
	"wipeout-assets/internal/prm"
	"wipeout-assets/internal/tim"
)

// quadSplit lists the corner order for rasterizing a quad as two
// triangles, the same winding the decoder uses when it splits GT4.
var quadSplit = [2][3]int{{2, 1, 0}, {2, 3, 1}}

// Render draws a bound mesh into a fresh size×size framebuffer and
// returns it as an NRGBA image. yaw and pitch are in degrees; size
// should already include any supersampling factor.
func Render(mesh *prm.Mesh, table *asset.TextureTable, yaw, pitch float32, size int) *image.NRGBA {
	rot := mathutil.Mat3Mul(
		mathutil.RotX(mathutil.Deg2Rad(pitch)),
		mathutil.RotY(mathutil.Deg2Rad(yaw)),
	)
	px, py, pz := Project(mesh, rot, size, size/16)

	fb := NewFrameBuffer(size, size)
	for i := range mesh.Primitives {
		drawPrimitive(fb, &mesh.Primitives[i], table, px, py, pz)
	}

	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	copy(img.Pix, fb.Color)
	return img
}

func drawPrimitive(fb *FrameBuffer, p *prm.Primitive, table *asset.TextureTable, px, py, pz []float32) {
	var tex *tim.Image
	if p.Textured() {
		tex = table.Get(p.Texture)
	}

	if p.Corners() == 3 {
		fillCorners(fb, p, tex, px, py, pz, [3]int{0, 1, 2})
		return
	}
	for _, corners := range quadSplit {
		fillCorners(fb, p, tex, px, py, pz, corners)
	}
}

func fillCorners(fb *FrameBuffer, p *prm.Primitive, tex *tim.Image, px, py, pz []float32, corners [3]int) {
	var t Tri
	t.Tex = tex
	for k, c := range corners {
		idx := int(p.Coords[c])
		if idx < 0 || idx >= len(px) {
			return
		}
		t.X[k] = px[idx]
		t.Y[k] = py[idx]
		t.Z[k] = pz[idx]
		t.Colors[k] = p.CornerColor(c)
		t.U[k] = p.UVNorm[c][0]
		t.V[k] = p.UVNorm[c][1]
	}
	Fill(fb, &t)
}
