package ipc

import (
	"encoding/gob"

	"github.com/stewi1014/shaderviewer/navigator"
	"github.com/stewi1014/shaderviewer/programs"
)

// SelectShader asks the render window to load a shader.
type SelectShader struct {
	ID string
}

// ShaderLoaded reports the outcome of a SelectShader. On failure Err holds the
// reason and the previous shader stays active.
type ShaderLoaded struct {
	ID       string
	Name     string
	Julia    bool
	Uniforms programs.Uniforms
	Err      string
}

// SaveRequest asks the render window to export the current view as a PNG.
type SaveRequest struct {
	Path          string
	Width, Height int
	Antialias     float64
	Caption       bool
}

func init() {
	gob.Register(SelectShader{})
	gob.Register(ShaderLoaded{})
	gob.Register(SaveRequest{})
	gob.Register(navigator.Readout{})
	gob.Register(&programs.Uniforms{})
}

// Known reports whether msg is one of the registered message types.
func Known(msg any) bool {
	switch msg.(type) {
	case SelectShader, ShaderLoaded, SaveRequest, navigator.Readout, *programs.Uniforms:
		return true
	}
	return false
}
