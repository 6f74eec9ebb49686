package programs

import "github.com/go-gl/mathgl/mgl32"

const (
	DefaultIterations = 1000
	MaxIterations     = 65536
)

// Uniforms are the user-controlled shader parameters.
// The uniform tag names the GLSL uniform each field is uploaded to.
type Uniforms struct {
	RMin float32 `uniform:"r_min"`
	RMax float32 `uniform:"r_max"`
	GMin float32 `uniform:"g_min"`
	GMax float32 `uniform:"g_max"`
	BMin float32 `uniform:"b_min"`
	BMax float32 `uniform:"b_max"`

	MaxIterations int32 `uniform:"max_iterations"`

	JRe float32 `uniform:"j_re"`
	JIm float32 `uniform:"j_im"`
}

// DefaultValues resets the uniforms for p.
func (u *Uniforms) DefaultValues(p Program) {
	*u = Uniforms{
		RMax:          1,
		GMax:          1,
		BMax:          1,
		MaxIterations: DefaultIterations,
		JRe:           float32(real(p.JuliaConstant)),
		JIm:           float32(imag(p.JuliaConstant)),
	}
}

// SetIterations clamps n to [0, MaxIterations].
func (u *Uniforms) SetIterations(n int) {
	u.MaxIterations = int32(max(0, min(n, MaxIterations)))
}

// SetColour sets one channel range, clamping both ends to [0, 1].
// channel is one of 'r', 'g' or 'b'.
func (u *Uniforms) SetColour(channel byte, lo, hi float32) {
	lo, hi = clampUnit(lo), clampUnit(hi)
	switch channel {
	case 'r':
		u.RMin, u.RMax = lo, hi
	case 'g':
		u.GMin, u.GMax = lo, hi
	case 'b':
		u.BMin, u.BMax = lo, hi
	}
}

func clampUnit(v float32) float32 {
	return max(0, min(v, 1))
}

// Colour is the colour of a point that escaped after n iterations.
// Points that never escaped are black.
func (u Uniforms) Colour(n int) mgl32.Vec3 {
	if n >= int(u.MaxIterations) {
		return mgl32.Vec3{}
	}

	t := float32(n) / float32(u.MaxIterations)
	return mgl32.Vec3{
		u.RMin + (u.RMax-u.RMin)*t,
		u.GMin + (u.GMax-u.GMin)*t,
		u.BMin + (u.BMax-u.BMin)*t,
	}
}
