package export

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stewi1014/shaderviewer/navigator"
	"github.com/stewi1014/shaderviewer/programs"
)

// gradient is white right of x=half and black elsewhere.
type gradient struct {
	bounds image.Rectangle
	half   float64
}

func (g gradient) GetPixel(pos mgl64.Vec2) mgl32.Vec3 {
	if pos[0] > g.half {
		return mgl32.Vec3{1, 1, 1}
	}
	return mgl32.Vec3{}
}

func (g gradient) Bounds() image.Rectangle { return g.bounds }

func TestPixelCenters(t *testing.T) {
	img, err := Render(context.Background(), gradient{bounds: image.Rect(0, 0, 4, 2), half: 2}, 0, nil)
	if err != nil {
		t.Fatal(err)
	}

	if got := img.NRGBAAt(1, 0); got != (color.NRGBA{A: 0xff}) {
		t.Errorf("At(1, 0) = %v, want black", got)
	}
	if got := img.NRGBAAt(2, 1); got != (color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}) {
		t.Errorf("At(2, 1) = %v, want white", got)
	}
}

func TestProgress(t *testing.T) {
	var p Progress
	if p.Fraction() != 1 {
		t.Errorf("empty Fraction() = %v, want 1", p.Fraction())
	}
	p.total.Store(200)
	p.done.Add(50)
	if p.Fraction() != 0.25 {
		t.Errorf("Fraction() = %v, want 0.25", p.Fraction())
	}
	p.done.Add(500)
	if p.Fraction() != 1 {
		t.Errorf("overrun Fraction() = %v, want 1", p.Fraction())
	}
}

func TestAntiAlias(t *testing.T) {
	img := Supersample(gradient{bounds: image.Rect(0, 0, 4, 4), half: 2}, 0.5)

	// the left column of the grid falls on the black side
	got := img.GetPixel(mgl64.Vec2{2.25, 1})
	want := mgl32.Vec3{2.0 / 3, 2.0 / 3, 2.0 / 3}
	if !got.ApproxEqualThreshold(want, 1e-6) {
		t.Errorf("GetPixel() = %v, want %v", got, want)
	}
}

func TestRender(t *testing.T) {
	p, err := programs.Lookup("mandelbrot")
	if err != nil {
		t.Fatal(err)
	}
	var u programs.Uniforms
	u.DefaultValues(p)
	u.SetIterations(50)

	src, err := p.GetImage(u, programs.Region{MinReal: -2, MaxReal: 1, MinImag: -1.5, MaxImag: 1.5}, 120, 90)
	if err != nil {
		t.Fatal(err)
	}

	var progress func() float64
	img, err := Render(context.Background(), src, 0, func(stage string, f func() float64) { progress = f })
	if err != nil {
		t.Fatal(err)
	}

	if img.Bounds() != image.Rect(0, 0, 120, 90) {
		t.Errorf("Bounds() = %v", img.Bounds())
	}
	if progress == nil {
		t.Fatal("Render did not report progress")
	}
	if got := progress(); got != 1 {
		t.Errorf("progress after render = %v, want 1", got)
	}

	// (0, 0) on the plane lies at pixel (80, 45) and is inside the set
	if c := img.NRGBAAt(80, 45); c != (color.NRGBA{A: 0xff}) {
		t.Errorf("inside the set = %v, want black", c)
	}
	if c := img.NRGBAAt(0, 0); c == (color.NRGBA{A: 0xff}) {
		t.Error("far corner rendered black")
	}
}

func TestRenderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Render(ctx, gradient{bounds: image.Rect(0, 0, 500, 10)}, 0, nil)
	if err != context.Canceled {
		t.Errorf("Render() = %v, want context.Canceled", err)
	}
}

func TestCaption(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 300, 100))
	lines := CaptionLines("Mandelbrot", navigator.NewReadout(navigator.PlaneBounds{HalfRange: 2}, 2))
	if len(lines) != 4 || lines[1] != "Re [-2, 2]" || lines[3] != "range 2  zoom x1" {
		t.Fatalf("CaptionLines() = %q", lines)
	}

	Caption(img, lines)

	if img.NRGBAAt(299, 0) != (color.NRGBA{}) {
		t.Error("caption drew outside its corner")
	}
	white := 0
	for y := 40; y < 100; y++ {
		for x := 0; x < 150; x++ {
			if img.NRGBAAt(x, y).R > 0x80 {
				white++
			}
		}
	}
	if white == 0 {
		t.Error("caption drew no text")
	}
}

func TestWritePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	src.SetNRGBA(1, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 0xff})

	if err := WritePNG(path, src); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	got, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	r, g, b, _ := got.At(1, 1).RGBA()
	if r>>8 != 10 || g>>8 != 20 || b>>8 != 30 {
		t.Errorf("pixel = (%d, %d, %d)", r>>8, g>>8, b>>8)
	}

	if err := WritePNG(filepath.Join(t.TempDir(), "missing", "out.png"), src); err == nil {
		t.Error("WritePNG into a missing directory succeeded")
	}
}
