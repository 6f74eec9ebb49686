// Package camera moves a perspective camera around the plot quad.
//
// The world is a box centered on the origin with half extents World. The plot
// lies in the z=0 plane, x is the real axis, y the imaginary axis and z points
// up. The camera looks at a target that can be walked around the box; moving the
// target drags the camera along with it.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Speed is how far one key press moves the target.
type Speed struct {
	X, Y, Z float64 // fraction of the world half extent
	Angular float64 // radians
}

// minTargetZ keeps the target above the plot.
const minTargetZ = 0.00001

// minPolar keeps the camera off the vertical axis, where the up vector degenerates.
const minPolar = 0.01

type Camera struct {
	world mgl64.Vec3

	position mgl64.Vec3
	target   mgl64.Vec3

	initialPosition mgl64.Vec3
	initialTarget   mgl64.Vec3

	fovy        float64 // degrees
	near, far   float64
	maxDistance float64
	maxPolar    float64

	speed             Speed
	targetMovesCamera bool

	width, height int
}

type Option func(*Camera)

// WithWorld sets the half extents of the world box.
func WithWorld(world mgl64.Vec3) Option {
	return func(c *Camera) { c.world = world }
}

// WithPosition sets the initial camera position in multiples of the world half
// extents.
func WithPosition(p mgl64.Vec3) Option {
	return func(c *Camera) { c.initialPosition = p }
}

// WithTarget sets the initial target.
func WithTarget(t mgl64.Vec3) Option {
	return func(c *Camera) { c.initialTarget = t }
}

func WithFieldOfView(degrees float64) Option {
	return func(c *Camera) { c.fovy = degrees }
}

func WithSpeed(s Speed) Option {
	return func(c *Camera) { c.speed = s }
}

// WithTargetMovesCamera controls whether target moves carry the camera along.
func WithTargetMovesCamera(b bool) Option {
	return func(c *Camera) { c.targetMovesCamera = b }
}

// New returns a camera over a unit world looking at the origin.
func New(options ...Option) *Camera {
	c := &Camera{
		world: mgl64.Vec3{1, 1, 1},
		fovy:  56,
		near:  0.001,
		speed: Speed{
			X:       0.01,
			Y:       0.01,
			Z:       0.05,
			Angular: 0.05,
		},
		targetMovesCamera: true,
		maxPolar:          math.Pi / 2,
		width:             1,
		height:            1,
	}
	c.initialPosition = mgl64.Vec3{0.4, -0.6, 1.5}

	for _, option := range options {
		option(c)
	}

	// the defaults are relative to the world size
	diagonal := 2 * c.world.Len()
	c.far = 9 * diagonal
	c.maxDistance = 2.5 * diagonal
	c.initialPosition = mgl64.Vec3{
		c.initialPosition[0] * c.world[0],
		c.initialPosition[1] * c.world[1],
		c.initialPosition[2] * c.world[2],
	}

	c.Reset()
	return c
}

// Reset puts the camera and target back where they started.
func (c *Camera) Reset() {
	c.position = c.initialPosition
	c.target = c.initialTarget
}

func (c *Camera) Position() mgl64.Vec3 {
	return c.position
}

func (c *Camera) Target() mgl64.Vec3 {
	return c.target
}

func (c *Camera) World() mgl64.Vec3 {
	return c.world
}

// SetViewport sets the viewport size in pixels.
func (c *Camera) SetViewport(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	c.width, c.height = width, height
}

func (c *Camera) Viewport() (width, height int) {
	return c.width, c.height
}

func (c *Camera) Aspect() float64 {
	return float64(c.width) / float64(c.height)
}

func (c *Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.position, c.target, mgl64.Vec3{0, 0, 1})
}

func (c *Camera) Projection() mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(c.fovy), c.Aspect(), c.near, c.far)
}

// MVP is the combined projection and view matrix. The plot has no model transform.
func (c *Camera) MVP() mgl64.Mat4 {
	return c.Projection().Mul4(c.View())
}

// heading is the ground angle from the target to the camera.
func (c *Camera) heading() float64 {
	return math.Atan2(c.position[1]-c.target[1], c.position[0]-c.target[0])
}

// moveTarget adds val to one target axis. The camera follows only when the
// target stayed inside the world.
func (c *Camera) moveTarget(axis int, val float64) {
	c.target[axis] += val

	min, max := -c.world[axis], c.world[axis]
	if axis == 2 {
		min = minTargetZ
	}
	if !c.clampTarget(axis, min, max) {
		return
	}
	if c.targetMovesCamera {
		c.position[axis] += val
	}
}

// clampTarget reports whether the target axis was already within [min, max].
func (c *Camera) clampTarget(axis int, min, max float64) bool {
	v := c.target[axis]
	if min <= v && v <= max {
		return true
	}
	c.target[axis] = math.Min(max, math.Max(v, min))
	return false
}

// moveAlong moves the target along the ground heading plus offset.
func (c *Camera) moveAlong(offset, direction float64) {
	a := c.heading() + offset
	c.moveTarget(0, c.speed.X*c.world[0]*math.Cos(a)*direction)
	c.moveTarget(1, c.speed.Y*c.world[1]*math.Sin(a)*direction)
}

func (c *Camera) MoveForward()  { c.moveAlong(0, -1) }
func (c *Camera) MoveBackward() { c.moveAlong(0, 1) }
func (c *Camera) MoveLeft()     { c.moveAlong(math.Pi/2, -1) }
func (c *Camera) MoveRight()    { c.moveAlong(math.Pi/2, 1) }

func (c *Camera) MoveUp()   { c.moveTarget(2, c.speed.Z*c.world[2]) }
func (c *Camera) MoveDown() { c.moveTarget(2, -c.speed.Z*c.world[2]) }

// rotateTarget swings the target around the camera in the ground plane.
func (c *Camera) rotateTarget(direction float64) {
	dx := c.position[0] - c.target[0]
	dy := c.position[1] - c.target[1]
	a := math.Pi + math.Atan2(dy, dx) + direction*c.speed.Angular
	r := math.Hypot(dx, dy)

	c.target[0] = c.position[0] + r*math.Cos(a)
	c.target[1] = c.position[1] + r*math.Sin(a)
	c.clampTarget(0, -c.world[0], c.world[0])
	c.clampTarget(1, -c.world[1], c.world[1])
}

func (c *Camera) RotateLeft()  { c.rotateTarget(1) }
func (c *Camera) RotateRight() { c.rotateTarget(-1) }

// spherical returns the camera offset from the target as radius, azimuth and
// polar angle measured from +z.
func (c *Camera) spherical() (radius, azimuth, polar float64) {
	d := c.position.Sub(c.target)
	radius = d.Len()
	if radius == 0 {
		return 0, 0, 0
	}
	azimuth = math.Atan2(d[1], d[0])
	polar = math.Acos(mgl64.Clamp(d[2]/radius, -1, 1))
	return
}

func (c *Camera) setSpherical(radius, azimuth, polar float64) {
	c.position = c.target.Add(mgl64.Vec3{
		radius * math.Sin(polar) * math.Cos(azimuth),
		radius * math.Sin(polar) * math.Sin(azimuth),
		radius * math.Cos(polar),
	})
}

// Orbit rotates the camera around the target. The polar angle stays within
// the configured maximum so the camera never dips below the plot.
func (c *Camera) Orbit(dAzimuth, dPolar float64) {
	radius, azimuth, polar := c.spherical()
	if radius == 0 {
		return
	}
	polar = mgl64.Clamp(polar+dPolar, minPolar, c.maxPolar)
	c.setSpherical(radius, azimuth+dAzimuth, polar)
}

// Dolly scales the camera distance to the target.
func (c *Camera) Dolly(scale float64) {
	radius, azimuth, polar := c.spherical()
	if radius == 0 || !(scale > 0) {
		return
	}
	radius = mgl64.Clamp(radius*scale, c.near, c.maxDistance)
	c.setSpherical(radius, azimuth, polar)
}

// PickPlane casts a ray through the cursor, in viewport pixels with the origin
// at the top left, and intersects it with the plot. It reports the hit only
// when it lands on the quad.
func (c *Camera) PickPlane(cursor mgl64.Vec2) (mgl64.Vec2, bool) {
	view, projection := c.View(), c.Projection()
	winX, winY := cursor[0], float64(c.height)-cursor[1]

	near, err := mgl64.UnProject(mgl64.Vec3{winX, winY, 0}, view, projection, 0, 0, c.width, c.height)
	if err != nil {
		return mgl64.Vec2{}, false
	}
	far, err := mgl64.UnProject(mgl64.Vec3{winX, winY, 1}, view, projection, 0, 0, c.width, c.height)
	if err != nil {
		return mgl64.Vec2{}, false
	}

	dir := far.Sub(near)
	if math.Abs(dir[2]) < 1e-12 {
		return mgl64.Vec2{}, false
	}
	t := -near[2] / dir[2]
	if t < 0 {
		return mgl64.Vec2{}, false
	}

	hit := near.Add(dir.Mul(t))
	if math.Abs(hit[0]) > c.world[0] || math.Abs(hit[1]) > c.world[1] {
		return mgl64.Vec2{}, false
	}
	return mgl64.Vec2{hit[0], hit[1]}, true
}
