package render

import (
	"log"
	"reflect"
	"unsafe"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// uniformSetter uploads count consecutive values starting at p.
type uniformSetter func(location, count int32, p unsafe.Pointer)

// Uniform struct fields may be one of these types or a fixed size array of one.
var uniformSetters = map[reflect.Type]uniformSetter{
	reflect.TypeFor[float32](): func(l, n int32, p unsafe.Pointer) {
		gl.Uniform1fv(l, n, (*float32)(p))
	},
	reflect.TypeFor[int32](): func(l, n int32, p unsafe.Pointer) {
		gl.Uniform1iv(l, n, (*int32)(p))
	},
	reflect.TypeFor[uint32](): func(l, n int32, p unsafe.Pointer) {
		gl.Uniform1uiv(l, n, (*uint32)(p))
	},
	reflect.TypeFor[mgl32.Vec2](): func(l, n int32, p unsafe.Pointer) {
		gl.Uniform2fv(l, n, (*float32)(p))
	},
	reflect.TypeFor[mgl32.Vec3](): func(l, n int32, p unsafe.Pointer) {
		gl.Uniform3fv(l, n, (*float32)(p))
	},
	reflect.TypeFor[mgl32.Mat4](): func(l, n int32, p unsafe.Pointer) {
		gl.UniformMatrix4fv(l, n, false, (*float32)(p))
	},
}

// uniformNames lists the uniform tag of every field in a struct type, in field order.
func uniformNames(t reflect.Type) []string {
	names := make([]string, 0, t.NumField())
	for i := range t.NumField() {
		names = append(names, t.Field(i).Tag.Get("uniform"))
	}
	return names
}

// uniformBinding ties a struct field to its location in a linked program.
type uniformBinding struct {
	field    int
	location int32
	count    int32
	set      uniformSetter
}

// bindUniforms resolves the tagged fields of struct type t against program.
// Fields of unsupported types are logged and skipped.
func bindUniforms(program uint32, t reflect.Type) []uniformBinding {
	var bindings []uniformBinding
	for i := range t.NumField() {
		field := t.Field(i)
		name := field.Tag.Get("uniform")
		if name == "" {
			continue
		}

		elem, count := field.Type, int32(1)
		if elem.Kind() == reflect.Array {
			elem, count = elem.Elem(), int32(elem.Len())
		}
		set, ok := uniformSetters[elem]
		if !ok {
			log.Printf("unsupported uniform type %v for %q", field.Type, name)
			continue
		}

		bindings = append(bindings, uniformBinding{
			field:    i,
			location: uniformLocation(program, name),
			count:    count,
			set:      set,
		})
	}
	return bindings
}

// uploadUniforms sets every bound field of the struct pointed to by ptr.
// Inactive uniforms have location -1, which GL ignores.
func uploadUniforms(ptr any, bindings []uniformBinding) {
	v := reflect.ValueOf(ptr).Elem()
	for _, b := range bindings {
		b.set(b.location, b.count, v.Field(b.field).Addr().UnsafePointer())
	}
}
