package raster

import (
	"wipeout-assets/internal/prm"
	"wipeout-assets/internal/tim"
)

// Tri is one screen-space triangle ready for the fill loop.
type Tri struct {
	X, Y, Z [3]float32
	U, V    [3]float32 // normalized, used when Tex != nil
	Colors  [3]prm.Color
	Tex     *tim.Image
}

// Fill rasterizes t with a z-test and gouraud color interpolation.
// Texels are modulated by the interpolated color with 128 as identity,
// matching the console GPU. There is no back-face culling: both windings
// fill, because the shipped geometry depends on double-sided rendering.
//
// This is the hot path: no allocation in the pixel loop.
func Fill(fb *FrameBuffer, t *Tri) {
	x0, y0, z0 := t.X[0], t.Y[0], t.Z[0]
	x1, y1, z1 := t.X[1], t.Y[1], t.Z[1]
	x2, y2, z2 := t.X[2], t.Y[2], t.Z[2]

	// Bounding box clipped to the target.
	minX := int(min3(x0, x1, x2))
	maxX := int(max3(x0, x1, x2)) + 1
	minY := int(min3(y0, y1, y2))
	maxY := int(max3(y0, y1, y2)) + 1
	if minX < 0 {
		minX = 0
	}
	if maxX >= fb.Width {
		maxX = fb.Width - 1
	}
	if minY < 0 {
		minY = 0
	}
	if maxY >= fb.Height {
		maxY = fb.Height - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup. The determinant's sign cancels through invDet,
	// so both windings produce in-range weights.
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det

	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	c0, c1, c2 := t.Colors[0], t.Colors[1], t.Colors[2]

	for sy := minY; sy <= maxY; sy++ {
		dsy := float32(sy) - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float32(sx) - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1
			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			zIdx := rowOff + sx
			if z <= fb.ZBuf[zIdx] {
				continue
			}

			cr := w0*float32(c0.R) + w1*float32(c1.R) + w2*float32(c2.R)
			cg := w0*float32(c0.G) + w1*float32(c1.G) + w2*float32(c2.G)
			cb := w0*float32(c0.B) + w1*float32(c1.B) + w2*float32(c2.B)

			var outR, outG, outB uint8
			if t.Tex != nil {
				u := w0*t.U[0] + w1*t.U[1] + w2*t.U[2]
				v := w0*t.V[0] + w1*t.V[1] + w2*t.V[2]
				tr, tg, tb, ta := Sample(t.Tex, u, v)
				if ta < 8 {
					continue
				}
				// Modulate: vertex color 128 leaves the texel unchanged.
				outR = clamp255(float32(tr) * cr / 128)
				outG = clamp255(float32(tg) * cg / 128)
				outB = clamp255(float32(tb) * cb / 128)
			} else {
				outR = clamp255(cr)
				outG = clamp255(cg)
				outB = clamp255(cb)
			}

			fb.ZBuf[zIdx] = z
			pxIdx := zIdx * 4
			fb.Color[pxIdx] = outR
			fb.Color[pxIdx+1] = outG
			fb.Color[pxIdx+2] = outB
			fb.Color[pxIdx+3] = 255
		}
	}
}

func clamp255(v float32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

func min3(a, b, c float32) float32 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

func max3(a, b, c float32) float32 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}
