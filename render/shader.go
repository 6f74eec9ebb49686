package render

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.6-core/gl"
)

// CompileError carries the driver's log for a shader that failed to compile
// or a program that failed to link.
type CompileError struct {
	Stage string
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%v failed: %v", e.Stage, e.Log)
}

// infoLog reads a shader or program log through the matching pair of GL getters.
func infoLog(
	object uint32,
	getiv func(uint32, uint32, *int32),
	getLog func(uint32, int32, *int32, *uint8),
) string {
	var length int32
	getiv(object, gl.INFO_LOG_LENGTH, &length)
	if length == 0 {
		return ""
	}

	buf := make([]uint8, length)
	getLog(object, length, nil, &buf[0])
	return strings.TrimRight(string(buf), "\x00\n")
}

func compileShader(source string, shaderType uint32, stage string) (uint32, error) {
	sources, free := gl.Strs(source + "\x00")
	defer free()

	shader := gl.CreateShader(shaderType)
	gl.ShaderSource(shader, 1, sources, nil)
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		err := &CompileError{Stage: stage, Log: infoLog(shader, gl.GetShaderiv, gl.GetShaderInfoLog)}
		gl.DeleteShader(shader)
		return 0, err
	}
	return shader, nil
}

// linkProgram compiles and links a vertex and fragment shader pair. The
// fragment output is bound to outputColor.
func linkProgram(vertexSource, fragmentSource string) (uint32, error) {
	vertex, err := compileShader(vertexSource, gl.VERTEX_SHADER, "vertex shader")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertex)

	fragment, err := compileShader(fragmentSource, gl.FRAGMENT_SHADER, "fragment shader")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragment)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertex)
	gl.AttachShader(program, fragment)
	gl.BindFragDataLocation(program, 0, gl.Str("outputColor\x00"))
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		err := &CompileError{Stage: "link", Log: infoLog(program, gl.GetProgramiv, gl.GetProgramInfoLog)}
		gl.DeleteProgram(program)
		return 0, err
	}

	gl.DetachShader(program, vertex)
	gl.DetachShader(program, fragment)
	return program, nil
}

func attribLocation(program uint32, name string) uint32 {
	return uint32(gl.GetAttribLocation(program, gl.Str(name+"\x00")))
}

func uniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}
