package programs

import "fmt"

var catalog = []Program{
	julia("julia-z2", "Julia f(z) = z^2 + C", complex(-0.45, 0.6), polynomialBailout, juliaZ2),
	julia("julia-z3", "Julia f(z) = z^3 + C", complex(0.4, 0), polynomialBailout, juliaZ3),
	julia("julia-z4", "Julia f(z) = z^4 + C", complex(0.484, 0), polynomialBailout, juliaZ4),
	julia("julia-exp", "Julia f(z) = exp(z) + C", complex(-0.65, 0), exponentialBailout, juliaExp),
	julia("julia-expz3", "Julia f(z) = exp(z^3) + C", complex(-0.59, 0), exponentialBailout, juliaExpZ3),
	julia("julia-zexp", "Julia f(z) = z*exp(z) + C", complex(0.04, 0), exponentialBailout, juliaZExp),
	julia("julia-z2-exp-z", "Julia f(z) = z^2/exp(z) + C", complex(-0.8, 0.03), exponentialBailout, juliaZ2ExpZ),
	julia("julia-cos", "Julia f(z) = cos(z) + C", complex(-0.106, 1.2), exponentialBailout, juliaCos),
	julia("julia-sin", "Julia f(z) = sin(z) + C", complex(0, 0.7), exponentialBailout, juliaSin),
	julia("julia-z-sin-exp", "Julia f(z) = z*sin(z)/exp(z) + C", complex(-0.039, 0.492), exponentialBailout, juliaZSinExp),
	{
		ID:      "mandelbrot",
		Name:    "Mandelbrot",
		Bailout: polynomialBailout,
		Step:    mandelbrot,
	},
}

// All returns the shader catalog in display order.
func All() []Program {
	return append([]Program(nil), catalog...)
}

// Default is the shader loaded at startup.
func Default() Program {
	return catalog[0]
}

func Lookup(id string) (Program, error) {
	for _, p := range catalog {
		if p.ID == id {
			return p, nil
		}
	}
	return Program{}, fmt.Errorf("%w %q", ErrUnknownShader, id)
}
