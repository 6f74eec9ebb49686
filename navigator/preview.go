package navigator

import "github.com/go-gl/mathgl/mgl64"

// ZoomPreviewRect marks where the next zoom-in lands.
type ZoomPreviewRect struct {
	// Offset from the view center in plane-local world units.
	Offset  mgl64.Vec2
	Visible bool
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
