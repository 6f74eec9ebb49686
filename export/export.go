package export

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/stewi1014/shaderviewer/programs"
)

// Render evaluates src into a new image. With antialias > 0 each pixel
// averages a 3x3 grid spaced antialias pixels apart. report, if set, receives
// a progress supplier for each stage.
func Render(
	ctx context.Context,
	src programs.Image,
	antialias float64,
	report func(stage string, fraction func() float64),
) (*image.NRGBA, error) {
	if antialias > 0 {
		src = Supersample(src, antialias)
	}

	var progress Progress
	if report != nil {
		report("Rendering", progress.Fraction)
	}

	dst := image.NewNRGBA(image.Rectangle{Max: src.Bounds().Size()})
	if err := rasterize(ctx, src, dst, &progress); err != nil {
		return nil, err
	}
	return dst, nil
}

// WritePNG encodes img to path. A partially written file is removed.
func WritePNG(path string, img image.Image) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("encoding %v: %w", path, err)
	}
	return nil
}
