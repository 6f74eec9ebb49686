package navigator

import (
	"math"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"
)

// PlaneBounds is the visible square window over the complex plane.
type PlaneBounds struct {
	Center    mgl64.Vec2 // (real, imag)
	HalfRange float64
}

// Corners are the four scalars bounding a PlaneBounds.
type Corners struct {
	MinReal, MaxReal float64
	MinImag, MaxImag float64
}

// Render returns the corners of b.
func Render(b PlaneBounds) Corners {
	return Corners{
		MinReal: b.Center[0] - b.HalfRange,
		MaxReal: b.Center[0] + b.HalfRange,
		MinImag: b.Center[1] - b.HalfRange,
		MaxImag: b.Center[1] + b.HalfRange,
	}
}

// VertexAttributes spreads c over the six vertices of the plot quad.
//
// The quad is drawn as two triangles and the shader samples the plane through
// these per-vertex values, so the layout is fixed:
//
//	0, 3: (min, min)
//	1, 4: (max, max)
//	2:    (min, max)
//	5:    (max, min)
func VertexAttributes(c Corners) (re, im [6]float64) {
	re[0], im[0] = c.MinReal, c.MinImag
	re[1], im[1] = c.MaxReal, c.MaxImag
	re[2], im[2] = c.MinReal, c.MaxImag
	re[3], im[3] = c.MinReal, c.MinImag
	re[4], im[4] = c.MaxReal, c.MaxImag
	re[5], im[5] = c.MaxReal, c.MinImag
	return
}

// ReadoutDigits is the number of decimals shown for plane coordinates.
const ReadoutDigits = 12

// Readout is the textual description of the current view.
type Readout struct {
	MinReal, MaxReal float64
	MinImag, MaxImag float64
	Length           float64
	ZoomLevel        int64
}

// NewReadout builds the rounded readout for b.
func NewReadout(b PlaneBounds, initialRange float64) Readout {
	c := Render(b)
	return Readout{
		MinReal:   RoundTo(c.MinReal, ReadoutDigits),
		MaxReal:   RoundTo(c.MaxReal, ReadoutDigits),
		MinImag:   RoundTo(c.MinImag, ReadoutDigits),
		MaxImag:   RoundTo(c.MaxImag, ReadoutDigits),
		Length:    RoundTo(b.HalfRange, ReadoutDigits),
		ZoomLevel: int64(math.Round(initialRange / b.HalfRange)),
	}
}

// RoundTo rounds x to the given number of decimal digits.
// Rounding goes through the decimal representation so 0.1+0.2 comes out as 0.3.
func RoundTo(x float64, digits int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', digits, 64), 64)
	if err != nil {
		return x
	}
	if r == 0 {
		// drop negative zero
		return 0
	}
	return r
}

// Strings formats the readout fields the way the control panel shows them.
func (r Readout) Strings() (minReal, maxReal, minImag, maxImag, length, zoom string) {
	f := func(v float64) string {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return f(r.MinReal), f(r.MaxReal), f(r.MinImag), f(r.MaxImag), f(r.Length), strconv.FormatInt(r.ZoomLevel, 10)
}
