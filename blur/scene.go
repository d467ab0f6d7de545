package blur

import (
	"github.com/chewxy/math32"
)

const (
	CircleCenterX, CircleCenterY = 0.4, 0.4
	CircleRadius                 = 0.3
	RectCenterX, RectCenterY     = -0.4, -0.4
	RectHalfExtent               = 0.3
)

// SceneColor evaluates the procedural scene at the fragment coordinate (fx, fy) of a width x height canvas.
// Fragment coordinates are pixel centers with the origin at the bottom left.
func SceneColor(fx, fy float32, width, height int) (r, g, b float32) {
	w, h := float32(width), float32(height)
	m := math32.Min(w, h)
	sx := (2*fx - w) / m
	sy := (2*fy - h) / m

	if math32.Hypot(sx-CircleCenterX, sy-CircleCenterY) < CircleRadius {
		g += 1
	}
	if math32.Abs(sx-RectCenterX) <= RectHalfExtent && math32.Abs(sy-RectCenterY) <= RectHalfExtent {
		r += 1
	}
	return
}
