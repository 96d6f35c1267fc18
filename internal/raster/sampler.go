package raster

import (
	"github.com/chewxy/math32"

	"wipeout-assets/internal/tim"
)

// Sample returns the texel at normalized (u,v), nearest-neighbour with
// wrapping. The console GPU has no texture filtering; interpolating
// texels would soften the cutout edges the transparency convention
// depends on.
func Sample(tex *tim.Image, u, v float32) (r, g, b, a uint8) {
	u -= math32.Floor(u)
	v -= math32.Floor(v)

	x := int(u * float32(tex.Width))
	y := int(v * float32(tex.Height))
	if x >= tex.Width {
		x = tex.Width - 1
	}
	if y >= tex.Height {
		y = tex.Height - 1
	}

	i := (y*tex.Width + x) * 4
	return tex.Pixels[i], tex.Pixels[i+1], tex.Pixels[i+2], tex.Pixels[i+3]
}
