package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestPickCenter(t *testing.T) {
	tests := []struct {
		name   string
		target mgl64.Vec3
	}{
		{"origin", mgl64.Vec3{}},
		{"off center", mgl64.Vec3{0.3, -0.2, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(WithTarget(tt.target))
			c.SetViewport(800, 600)

			hit, ok := c.PickPlane(mgl64.Vec2{400, 300})
			if !ok {
				t.Fatal("PickPlane() missed the plot at the viewport center")
			}
			want := mgl64.Vec2{tt.target[0], tt.target[1]}
			if !hit.ApproxEqualThreshold(want, 1e-6) {
				t.Errorf("PickPlane() = %v, want %v", hit, want)
			}
		})
	}
}

func TestPickMissesOffQuad(t *testing.T) {
	// looking straight down from high up, the quad covers only the middle
	c := New(WithPosition(mgl64.Vec3{0, -0.0001, 4}))
	c.SetViewport(100, 100)

	if _, ok := c.PickPlane(mgl64.Vec2{50, 50}); !ok {
		t.Error("PickPlane() missed the center of the quad")
	}
	if _, ok := c.PickPlane(mgl64.Vec2{1, 1}); ok {
		t.Error("PickPlane() hit outside the quad")
	}
}

func TestPickOrientation(t *testing.T) {
	c := New(WithPosition(mgl64.Vec3{0, -0.0001, 2}))
	c.SetViewport(100, 100)

	right, ok := c.PickPlane(mgl64.Vec2{60, 50})
	if !ok || !(right[0] > 0) {
		t.Errorf("pointer right of center picked %v, want positive real", right)
	}
	up, ok := c.PickPlane(mgl64.Vec2{50, 40})
	if !ok || !(up[1] > 0) {
		t.Errorf("pointer above center picked %v, want positive imaginary", up)
	}
}

func TestTargetClamp(t *testing.T) {
	c := New()

	for range 1000 {
		c.MoveForward()
		c.MoveLeft()
	}
	target := c.Target()
	for i := range 2 {
		if math.Abs(target[i]) > 1 {
			t.Errorf("target axis %d = %v escaped the world", i, target[i])
		}
	}

	before := c.Position()
	c.MoveForward()
	c.MoveLeft()
	if c.Position() != before && c.Target() == target {
		t.Error("camera moved while the target was pinned")
	}

	for range 100 {
		c.MoveDown()
	}
	if z := c.Target()[2]; z < minTargetZ {
		t.Errorf("target z = %v, want >= %v", z, minTargetZ)
	}
}

func TestMoveCarriesCamera(t *testing.T) {
	c := New()
	offset := c.Position().Sub(c.Target())

	c.MoveForward()
	c.MoveRight()
	c.MoveUp()

	if got := c.Position().Sub(c.Target()); !got.ApproxEqualThreshold(offset, 1e-12) {
		t.Errorf("camera offset changed from %v to %v", offset, got)
	}

	c = New(WithTargetMovesCamera(false))
	before := c.Position()
	c.MoveForward()
	if c.Position() != before {
		t.Error("camera moved with target moves detached")
	}
}

func TestMoveForwardPushesTarget(t *testing.T) {
	c := New(WithTargetMovesCamera(false))
	ground := func() float64 {
		d := c.Position().Sub(c.Target())
		return math.Hypot(d[0], d[1])
	}

	before := ground()
	c.MoveForward()
	if after := ground(); !(after > before) {
		t.Errorf("ground distance %v -> %v, want growing", before, after)
	}
	c.MoveBackward()
	if after := ground(); math.Abs(after-before) > 1e-9 {
		t.Errorf("ground distance %v after backward, want %v", after, before)
	}
}

func TestRotateKeepsRadius(t *testing.T) {
	c := New()
	radius := func() float64 {
		d := c.Position().Sub(c.Target())
		return math.Hypot(d[0], d[1])
	}

	before := radius()
	c.RotateLeft()
	c.RotateLeft()
	c.RotateRight()

	if after := radius(); math.Abs(after-before) > 1e-9 {
		t.Errorf("ground radius %v -> %v", before, after)
	}
	if c.Position() != New().Position() {
		t.Error("rotating moved the camera")
	}
}

func TestOrbitPolarClamp(t *testing.T) {
	c := New()

	c.Orbit(0, 10)
	if z := c.Position()[2] - c.Target()[2]; z < -1e-9 {
		t.Errorf("camera dipped below the target, dz = %v", z)
	}

	c.Orbit(0, -10)
	_, _, polar := c.spherical()
	if math.Abs(polar-minPolar) > 1e-9 {
		t.Errorf("polar = %v, want %v", polar, minPolar)
	}
}

func TestDolly(t *testing.T) {
	c := New()
	r0, _, _ := c.spherical()

	c.Dolly(0.5)
	if r, _, _ := c.spherical(); math.Abs(r-r0/2) > 1e-9 {
		t.Errorf("radius = %v, want %v", r, r0/2)
	}

	c.Dolly(1e6)
	if r, _, _ := c.spherical(); math.Abs(r-c.maxDistance) > 1e-9 {
		t.Errorf("radius = %v, want max %v", r, c.maxDistance)
	}

	c.Dolly(-1)
	if r, _, _ := c.spherical(); math.Abs(r-c.maxDistance) > 1e-9 {
		t.Error("negative dolly changed the radius")
	}
}

func TestReset(t *testing.T) {
	c := New()
	want := c.Position()

	c.MoveForward()
	c.Orbit(1, 0.2)
	c.Reset()

	if c.Position() != want || c.Target() != (mgl64.Vec3{}) {
		t.Errorf("Reset() left camera at %v looking at %v", c.Position(), c.Target())
	}
}

func TestWorldScalesDefaults(t *testing.T) {
	c := New(WithWorld(mgl64.Vec3{2, 2, 2}))
	want := mgl64.Vec3{0.8, -1.2, 3}
	if !c.Position().ApproxEqualThreshold(want, 1e-12) {
		t.Errorf("Position() = %v, want %v", c.Position(), want)
	}
}
