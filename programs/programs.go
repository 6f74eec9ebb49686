package programs

import (
	"embed"
	"errors"
	"fmt"
	"image"
	"math/cmplx"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrNoCPUImplementation = errors.New("shader does not have a CPU implementation")
	ErrUnknownShader       = errors.New("unknown shader")
)

//go:embed shaders
var shaders embed.FS

const glslVersion = "#version 410 core\n"

func mustRead(name string) string {
	b, err := shaders.ReadFile(name)
	if err != nil {
		panic(err)
	}
	return string(b)
}

var (
	planeVertexShader   = mustRead("shaders/plane.vert")
	planeFragmentShader = mustRead("shaders/plane.frag")
	complexFunctions    = mustRead("shaders/complex.glsl")

	PreviewVertexShader   = mustRead("shaders/preview.vert")
	PreviewFragmentShader = mustRead("shaders/preview.frag")
)

// StepFunc is one iteration of the escape-time loop.
type StepFunc func(z, c complex128) complex128

// Region is the part of the complex plane covered by an image.
type Region struct {
	MinReal, MaxReal float64
	MinImag, MaxImag float64
}

// Fit grows the shorter side of r around its center so it has the aspect
// ratio of a width x height image.
func (r Region) Fit(width, height int) Region {
	if width < 1 || height < 1 {
		return r
	}

	w, h := r.MaxReal-r.MinReal, r.MaxImag-r.MinImag
	aspect := float64(width) / float64(height)
	switch {
	case w/h < aspect:
		grow := (h*aspect - w) / 2
		r.MinReal -= grow
		r.MaxReal += grow
	case w/h > aspect:
		grow := (w/aspect - h) / 2
		r.MinImag -= grow
		r.MaxImag += grow
	}
	return r
}

type Program struct {
	ID   string
	Name string

	// Julia programs iterate from the pixel with a fixed constant.
	// The rest iterate from zero and use the pixel as the constant.
	Julia         bool
	JuliaConstant complex128

	// Bailout is the squared magnitude past which a point has escaped.
	Bailout float64

	Step StepFunc
}

func (p Program) VertexShader() string {
	return planeVertexShader
}

// FragmentShader assembles the GLSL source for the program.
func (p Program) FragmentShader() string {
	var b strings.Builder
	b.WriteString(glslVersion)
	if !p.Julia {
		b.WriteString("#define MANDELBROT\n")
	}
	fmt.Fprintf(&b, "#define BAILOUT %.1f\n\n", p.Bailout)
	b.WriteString(complexFunctions)
	b.WriteString("\n")
	b.WriteString(mustRead("shaders/steps/" + p.ID + ".glsl"))
	b.WriteString("\n")
	b.WriteString(planeFragmentShader)
	return b.String()
}

// Iterate counts the steps until z escapes, up to maxIterations.
func (p Program) Iterate(z0 complex128, c complex128, maxIterations int) int {
	z := z0
	n := 0
	for ; n < maxIterations; n++ {
		if real(z)*real(z)+imag(z)*imag(z) > p.Bailout || cmplx.IsNaN(z) {
			break
		}
		z = p.Step(z, c)
	}
	return n
}

// GetImage renders region on the CPU at the given size.
func (p Program) GetImage(uniforms Uniforms, region Region, width, height int) (Image, error) {
	if p.Step == nil {
		return nil, ErrNoCPUImplementation
	}
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("invalid image size %vx%v", width, height)
	}

	return &programImage{
		program:  p,
		uniforms: uniforms,
		region:   region,
		bounds:   image.Rect(0, 0, width, height),
	}, nil
}

// Image is a shader evaluated on the CPU.
type Image interface {
	// GetPixel samples the colour at a position in pixels.
	// Fractional positions sample between pixel centers.
	GetPixel(pos mgl64.Vec2) mgl32.Vec3
	Bounds() image.Rectangle
}

type programImage struct {
	program  Program
	uniforms Uniforms
	region   Region
	bounds   image.Rectangle
}

// Point maps a pixel position to the complex plane. The y axis points down.
func (i *programImage) Point(pos mgl64.Vec2) complex128 {
	w, h := float64(i.bounds.Dx()), float64(i.bounds.Dy())
	return complex(
		i.region.MinReal+pos[0]/w*(i.region.MaxReal-i.region.MinReal),
		i.region.MaxImag-pos[1]/h*(i.region.MaxImag-i.region.MinImag),
	)
}

func (i *programImage) GetPixel(pos mgl64.Vec2) mgl32.Vec3 {
	z0, c := i.Point(pos), complex(float64(i.uniforms.JRe), float64(i.uniforms.JIm))
	if !i.program.Julia {
		z0, c = 0, z0
	}

	max := int(i.uniforms.MaxIterations)
	return i.uniforms.Colour(i.program.Iterate(z0, c, max))
}

func (i *programImage) Bounds() image.Rectangle {
	return i.bounds
}
