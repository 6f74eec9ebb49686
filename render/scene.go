// Package render draws the plot quad and the zoom preview with OpenGL.
//
// A Scene keeps its state in plain Go values and only touches GL from Setup,
// LoadProgram, Draw and Delete, which must run with the context current.
// The navigator sink methods can be called at any time on the same thread.
package render

import (
	"fmt"
	"reflect"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stewi1014/shaderviewer/navigator"
	"github.com/stewi1014/shaderviewer/programs"
)

// previewLift raises the preview rectangle above the plot to avoid z-fighting.
const previewLift = 0.001

var (
	_ navigator.AttributeSink = (*Scene)(nil)
	_ navigator.PreviewSink   = (*Scene)(nil)
)

type Scene struct {
	world       mgl64.Vec2
	previewHalf mgl64.Vec2

	// pending state, uploaded on the next Draw
	re, im         [6]float32
	attributesSet  bool
	previewCenter  mgl64.Vec2
	previewOpacity float32
	uniforms       programs.Uniforms
	shader         programs.Program

	ready bool

	program     uint32
	bindings    []uniformBinding
	mvpLocation int32

	quadVAO uint32
	quadVBO uint32
	reVBO   uint32
	imVBO   uint32

	previewProgram         uint32
	previewVAO             uint32
	previewVBO             uint32
	previewMVPLocation     int32
	previewOpacityLocation int32
}

// NewScene sizes a scene for a quad with the given half extents and a preview
// rectangle of previewHalf.
func NewScene(world, previewHalf mgl64.Vec2) *Scene {
	return &Scene{
		world:       world,
		previewHalf: previewHalf,
	}
}

// QuadPositions are the world positions of the two quad triangles, in the
// vertex order used by navigator.VertexAttributes.
func QuadPositions(world mgl64.Vec2) [6]mgl32.Vec3 {
	x, y := float32(world[0]), float32(world[1])
	return [6]mgl32.Vec3{
		{-x, -y, 0},
		{x, y, 0},
		{-x, y, 0},
		{-x, -y, 0},
		{x, y, 0},
		{x, -y, 0},
	}
}

// PreviewOutline is the line loop of the preview rectangle around the origin.
func PreviewOutline(half mgl64.Vec2) [4]mgl32.Vec3 {
	x, y := float32(half[0]), float32(half[1])
	return [4]mgl32.Vec3{
		{-x, -y, 0},
		{x, -y, 0},
		{x, y, 0},
		{-x, y, 0},
	}
}

// SetPlaneAttributes stores the per-vertex plane coordinates.
// GPU attributes are single precision.
func (s *Scene) SetPlaneAttributes(re, im [6]float64) {
	for i := range re {
		s.re[i] = float32(re[i])
		s.im[i] = float32(im[i])
	}
	s.attributesSet = true
}

func (s *Scene) MovePreview(center mgl64.Vec2) {
	s.previewCenter = center
}

func (s *Scene) SetPreviewOpacity(opacity float64) {
	s.previewOpacity = float32(opacity)
}

func (s *Scene) SetUniforms(u programs.Uniforms) {
	s.uniforms = u
}

func (s *Scene) Uniforms() programs.Uniforms {
	return s.uniforms
}

func (s *Scene) Program() programs.Program {
	return s.shader
}

// PreviewTransform places the preview outline on top of the plot.
func (s *Scene) PreviewTransform() mgl32.Mat4 {
	return mgl32.Translate3D(float32(s.previewCenter[0]), float32(s.previewCenter[1]), previewLift)
}

// Setup creates the GL objects and loads the first shader.
func (s *Scene) Setup(shader programs.Program) error {
	positions := QuadPositions(s.world)

	gl.GenVertexArrays(1, &s.quadVAO)
	gl.BindVertexArray(s.quadVAO)

	gl.GenBuffers(1, &s.quadVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, s.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(positions)*3*4, gl.Ptr(&positions[0]), gl.STATIC_DRAW)

	gl.GenBuffers(1, &s.reVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, s.reVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(s.re)*4, gl.Ptr(&s.re[0]), gl.DYNAMIC_DRAW)

	gl.GenBuffers(1, &s.imVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, s.imVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(s.im)*4, gl.Ptr(&s.im[0]), gl.DYNAMIC_DRAW)

	outline := PreviewOutline(s.previewHalf)

	gl.GenVertexArrays(1, &s.previewVAO)
	gl.BindVertexArray(s.previewVAO)

	gl.GenBuffers(1, &s.previewVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, s.previewVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(outline)*3*4, gl.Ptr(&outline[0]), gl.STATIC_DRAW)

	var err error
	s.previewProgram, err = linkProgram(programs.PreviewVertexShader, programs.PreviewFragmentShader)
	if err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	s.previewMVPLocation = uniformLocation(s.previewProgram, "mvp")
	s.previewOpacityLocation = uniformLocation(s.previewProgram, "opacity")

	position := attribLocation(s.previewProgram, "position")
	gl.EnableVertexAttribArray(position)
	gl.VertexAttribPointerWithOffset(position, 3, gl.FLOAT, false, 3*4, 0)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	s.ready = true
	return s.LoadProgram(shader)
}

// LoadProgram swaps the plot shader. On failure the previous shader stays loaded.
func (s *Scene) LoadProgram(shader programs.Program) error {
	if !s.ready {
		return fmt.Errorf("loading %v: scene not set up", shader.ID)
	}

	program, err := linkProgram(shader.VertexShader(), shader.FragmentShader())
	if err != nil {
		return fmt.Errorf("loading %v: %w", shader.ID, err)
	}

	if s.program != 0 {
		gl.DeleteProgram(s.program)
	}
	s.program = program
	s.shader = shader
	s.bindings = bindUniforms(program, reflect.TypeOf(s.uniforms))
	s.mvpLocation = uniformLocation(program, "mvp")

	gl.BindVertexArray(s.quadVAO)
	bindFloatAttrib(program, "position", s.quadVBO, 3)
	bindFloatAttrib(program, "vertex_z_r", s.reVBO, 1)
	bindFloatAttrib(program, "vertex_z_i", s.imVBO, 1)
	return nil
}

func bindFloatAttrib(program uint32, name string, vbo uint32, size int32) {
	loc := gl.GetAttribLocation(program, gl.Str(name+"\x00"))
	if loc < 0 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.EnableVertexAttribArray(uint32(loc))
	gl.VertexAttribPointerWithOffset(uint32(loc), size, gl.FLOAT, false, size*4, 0)
}

// Draw renders the plot and, when visible, the preview outline.
func (s *Scene) Draw(mvp mgl32.Mat4) {
	if !s.ready {
		return
	}

	gl.ClearColor(0.1, 0.1, 0.1, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	if s.attributesSet {
		gl.BindBuffer(gl.ARRAY_BUFFER, s.reVBO)
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(s.re)*4, gl.Ptr(&s.re[0]))
		gl.BindBuffer(gl.ARRAY_BUFFER, s.imVBO)
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(s.im)*4, gl.Ptr(&s.im[0]))
		s.attributesSet = false
	}

	gl.UseProgram(s.program)
	uploadUniforms(&s.uniforms, s.bindings)
	gl.UniformMatrix4fv(s.mvpLocation, 1, false, &mvp[0])
	gl.BindVertexArray(s.quadVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)

	if s.previewOpacity <= 0 {
		return
	}

	previewMVP := mvp.Mul4(s.PreviewTransform())
	gl.UseProgram(s.previewProgram)
	gl.UniformMatrix4fv(s.previewMVPLocation, 1, false, &previewMVP[0])
	gl.Uniform1f(s.previewOpacityLocation, s.previewOpacity)
	gl.BindVertexArray(s.previewVAO)
	gl.DrawArrays(gl.LINE_LOOP, 0, 4)
}

// Delete frees the GL objects.
func (s *Scene) Delete() {
	if !s.ready {
		return
	}
	gl.DeleteProgram(s.program)
	gl.DeleteProgram(s.previewProgram)
	buffers := []uint32{s.quadVBO, s.reVBO, s.imVBO, s.previewVBO}
	gl.DeleteBuffers(int32(len(buffers)), &buffers[0])
	arrays := []uint32{s.quadVAO, s.previewVAO}
	gl.DeleteVertexArrays(int32(len(arrays)), &arrays[0])
	s.ready = false
	s.program = 0
}
