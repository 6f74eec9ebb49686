// Package export turns a CPU-rendered shader into an encodable image.
package export

import (
	"context"
	"image"
	"image/color"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stewi1014/shaderviewer/programs"
)

// columns per unit of work
const chunkSize = 50

// Progress counts rasterized pixels. The zero value is ready to use.
type Progress struct {
	done, total atomic.Int64
}

// Fraction is the share of pixels written so far, in [0, 1].
func (p *Progress) Fraction() float64 {
	total := p.total.Load()
	if total == 0 {
		return 1
	}
	return min(1, float64(p.done.Load())/float64(total))
}

// Supersample averages a 3x3 grid of samples spaced spacing pixels apart
// around each position.
func Supersample(src programs.Image, spacing float64) programs.Image {
	return supersampled{src: src, spacing: spacing}
}

type supersampled struct {
	src     programs.Image
	spacing float64
}

func (s supersampled) Bounds() image.Rectangle { return s.src.Bounds() }

func (s supersampled) GetPixel(pos mgl64.Vec2) mgl32.Vec3 {
	var sum mgl32.Vec3
	for dy := -1.0; dy <= 1; dy++ {
		for dx := -1.0; dx <= 1; dx++ {
			sum = sum.Add(s.src.GetPixel(pos.Add(mgl64.Vec2{dx, dy}.Mul(s.spacing))))
		}
	}
	return sum.Mul(1.0 / 9)
}

func toNRGBA(c mgl32.Vec3) color.NRGBA {
	channel := func(v float32) uint8 {
		return uint8(mgl32.Clamp(v, 0, 1)*255 + 0.5)
	}
	return color.NRGBA{R: channel(c[0]), G: channel(c[1]), B: channel(c[2]), A: 0xff}
}

// rasterize samples src at pixel centers into dst, which must have the same
// size. Column chunks are shared between one worker per CPU. It stops early
// with the cause of ctx.
func rasterize(ctx context.Context, src programs.Image, dst *image.NRGBA, progress *Progress) error {
	size := src.Bounds().Size()
	progress.total.Store(int64(size.X) * int64(size.Y))

	chunks := make(chan int)
	var wg sync.WaitGroup
	for range runtime.GOMAXPROCS(0) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for first := range chunks {
				for x := first; x < min(first+chunkSize, size.X); x++ {
					if ctx.Err() != nil {
						return
					}
					for y := range size.Y {
						c := src.GetPixel(mgl64.Vec2{float64(x) + 0.5, float64(y) + 0.5})
						dst.SetNRGBA(x, y, toNRGBA(c))
					}
					progress.done.Add(int64(size.Y))
				}
			}
		}()
	}

Chunks:
	for first := 0; first < size.X; first += chunkSize {
		select {
		case chunks <- first:
		case <-ctx.Done():
			break Chunks
		}
	}
	close(chunks)
	wg.Wait()

	if ctx.Err() != nil {
		return context.Cause(ctx)
	}
	return nil
}
