package raster

import (
	"github.com/chewxy/math32"

	"wipeout-assets/internal/mathutil"
	"wipeout-assets/internal/prm"
)

// Project rotates the mesh vertices and maps them into a size×size
// viewport with an orthographic fit: the rotated bounding box is
// centered and scaled so the larger screen-space extent leaves margin
// pixels on each side. Screen y grows downward; pz grows toward the
// camera so the z-test can keep the larger value.
func Project(mesh *prm.Mesh, rot mathutil.Mat3, size, margin int) (px, py, pz []float32) {
	n := len(mesh.Vertices)
	px = make([]float32, n)
	py = make([]float32, n)
	pz = make([]float32, n)

	minV := mathutil.Vec3{math32.Inf(1), math32.Inf(1), math32.Inf(1)}
	maxV := mathutil.Vec3{math32.Inf(-1), math32.Inf(-1), math32.Inf(-1)}
	for i, v := range mesh.Vertices {
		t := rot.MulVec3(mathutil.Vec3{float32(v.X), float32(v.Y), float32(v.Z)})
		px[i], py[i], pz[i] = t[0], t[1], t[2]
		for k := 0; k < 3; k++ {
			if t[k] < minV[k] {
				minV[k] = t[k]
			}
			if t[k] > maxV[k] {
				maxV[k] = t[k]
			}
		}
	}
	if n == 0 {
		return
	}

	center := minV.Add(maxV).Scale(0.5)
	span := maxV[0] - minV[0]
	if s := maxV[1] - minV[1]; s > span {
		span = s
	}
	if span < 1e-3 {
		span = 1e-3
	}
	scale := float32(size-2*margin) / span
	half := float32(size) / 2

	for i := range px {
		px[i] = half + (px[i]-center[0])*scale
		py[i] = half - (py[i]-center[1])*scale
		pz[i] = -(pz[i] - center[2]) * scale
	}
	return
}
