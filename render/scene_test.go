package render

import (
	"reflect"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stewi1014/shaderviewer/navigator"
	"github.com/stewi1014/shaderviewer/programs"
)

func TestQuadMatchesAttributes(t *testing.T) {
	world := mgl64.Vec2{1.5, 1}
	positions := QuadPositions(world)
	re, im := navigator.VertexAttributes(navigator.Corners{MinReal: -3, MaxReal: 3, MinImag: -2, MaxImag: 2})

	// each vertex must sit on the quad corner matching its plane coordinate
	for i, p := range positions {
		if (p[0] < 0) != (re[i] < 0) || (p[1] < 0) != (im[i] < 0) {
			t.Errorf("vertex %d at %v carries (%v, %v)", i, p, re[i], im[i])
		}
		if p[2] != 0 {
			t.Errorf("vertex %d off the plot plane: %v", i, p)
		}
	}
}

func TestPreviewOutline(t *testing.T) {
	outline := PreviewOutline(mgl64.Vec2{0.5, 0.25})
	for i, p := range outline {
		if abs(p[0]) != 0.5 || abs(p[1]) != 0.25 {
			t.Errorf("corner %d = %v", i, p)
		}
		next := outline[(i+1)%len(outline)]
		if p[0] != next[0] && p[1] != next[1] {
			t.Errorf("edge %d to %d is diagonal", i, (i+1)%len(outline))
		}
	}
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func TestSinks(t *testing.T) {
	s := NewScene(mgl64.Vec2{1, 1}, mgl64.Vec2{0.5, 0.5})

	n, err := navigator.New(navigator.DefaultConfig(),
		navigator.WithAttributeSink(s),
		navigator.WithPreviewSink(s),
	)
	if err != nil {
		t.Fatal(err)
	}
	n.Reset()

	if !s.attributesSet {
		t.Fatal("navigator did not publish attributes")
	}
	if s.re[0] != -2 || s.im[1] != 2 {
		t.Errorf("attributes = %v, %v", s.re, s.im)
	}

	coord := mgl64.Vec2{0.25, -0.25}
	n.UpdatePreview(&coord)
	if s.previewOpacity != 1 {
		t.Errorf("preview opacity = %v, want 1", s.previewOpacity)
	}
	want := mgl32.Translate3D(0.25, -0.25, previewLift)
	if got := s.PreviewTransform(); !got.ApproxEqualThreshold(want, 1e-6) {
		t.Errorf("PreviewTransform() = %v, want %v", got, want)
	}

	n.UpdatePreview(nil)
	if s.previewOpacity != 0 {
		t.Errorf("hidden preview opacity = %v", s.previewOpacity)
	}
}

func TestUniformNamesMatchShaders(t *testing.T) {
	names := uniformNames(reflect.TypeOf(programs.Uniforms{}))
	if len(names) != 9 {
		t.Fatalf("uniform names = %v", names)
	}

	src := programs.Default().FragmentShader()
	for _, name := range names {
		if name == "" {
			t.Error("untagged uniform field")
			continue
		}
		if !strings.Contains(src, "uniform ") || !strings.Contains(src, " "+name+";") {
			t.Errorf("fragment shader does not declare %q", name)
		}
	}
}

func TestUniformTypesSupported(t *testing.T) {
	typ := reflect.TypeOf(programs.Uniforms{})
	for i := range typ.NumField() {
		field := typ.Field(i)
		elem := field.Type
		if elem.Kind() == reflect.Array {
			elem = elem.Elem()
		}
		if _, ok := uniformSetters[elem]; !ok {
			t.Errorf("field %v has unsupported type %v", field.Name, field.Type)
		}
	}
}

func TestDrawBeforeSetup(t *testing.T) {
	s := NewScene(mgl64.Vec2{1, 1}, mgl64.Vec2{0.5, 0.5})
	s.Draw(mgl32.Ident4())
	s.Delete()
	if err := s.LoadProgram(programs.Default()); err == nil {
		t.Error("LoadProgram succeeded without a GL context")
	}
}
