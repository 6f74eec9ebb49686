package render

import (
	"log"
	"unsafe"

	"github.com/go-gl/gl/v4.6-core/gl"
)

var debugSeverities = map[uint32]string{
	gl.DEBUG_SEVERITY_HIGH:         "high",
	gl.DEBUG_SEVERITY_MEDIUM:       "medium",
	gl.DEBUG_SEVERITY_LOW:          "low",
	gl.DEBUG_SEVERITY_NOTIFICATION: "notification",
}

var debugSources = map[uint32]string{
	gl.DEBUG_SOURCE_API:             "api",
	gl.DEBUG_SOURCE_APPLICATION:     "application",
	gl.DEBUG_SOURCE_OTHER:           "other",
	gl.DEBUG_SOURCE_SHADER_COMPILER: "shaderCompiler",
	gl.DEBUG_SOURCE_THIRD_PARTY:     "thirdParty",
	gl.DEBUG_SOURCE_WINDOW_SYSTEM:   "windowSystem",
}

var debugTypes = map[uint32]string{
	gl.DEBUG_TYPE_ERROR:               "error",
	gl.DEBUG_TYPE_DEPRECATED_BEHAVIOR: "deprecatedBehavior",
	gl.DEBUG_TYPE_MARKER:              "marker",
	gl.DEBUG_TYPE_OTHER:               "other",
	gl.DEBUG_TYPE_PERFORMANCE:         "performance",
	gl.DEBUG_TYPE_POP_GROUP:           "popGroup",
	gl.DEBUG_TYPE_PORTABILITY:         "portability",
	gl.DEBUG_TYPE_PUSH_GROUP:          "pushGroup",
	gl.DEBUG_TYPE_UNDEFINED_BEHAVIOR:  "undefinedBehavior",
}

func lookup(names map[uint32]string, v uint32) string {
	if name, ok := names[v]; ok {
		return name
	}
	return "unknown"
}

func debugMessage(
	source,
	gltype,
	id,
	severity uint32,
	length int32,
	message string,
	user unsafe.Pointer,
) {
	log.Printf("gl %v(%v): %v; %v\n",
		lookup(debugSources, source),
		lookup(debugSeverities, severity),
		lookup(debugTypes, gltype),
		message,
	)
}

// Init loads the GL function pointers for the current context and
// reports the driver version. With debug set, driver messages are logged.
func Init(debug bool) (version string, err error) {
	if err := gl.Init(); err != nil {
		return "", err
	}

	gl.DebugMessageCallback(debugMessage, nil)
	if debug {
		gl.Enable(gl.DEBUG_OUTPUT)
	}
	return gl.GoStr(gl.GetString(gl.VERSION)), nil
}
