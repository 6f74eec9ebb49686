package programs

import "math/cmplx"

// polynomial maps escape once |z| > 2.
const polynomialBailout = 4

// exponential maps grow slowly enough that a radius of 50 is needed.
const exponentialBailout = 2500

func juliaZ2(z, c complex128) complex128 {
	return z*z + c
}

func juliaZ3(z, c complex128) complex128 {
	return z*z*z + c
}

func juliaZ4(z, c complex128) complex128 {
	z2 := z * z
	return z2*z2 + c
}

func juliaExp(z, c complex128) complex128 {
	return cmplx.Exp(z) + c
}

func juliaExpZ3(z, c complex128) complex128 {
	return cmplx.Exp(z*z*z) + c
}

func juliaZExp(z, c complex128) complex128 {
	return z*cmplx.Exp(z) + c
}

func juliaZ2ExpZ(z, c complex128) complex128 {
	return z*z/cmplx.Exp(z) + c
}

func juliaCos(z, c complex128) complex128 {
	return cmplx.Cos(z) + c
}

func juliaSin(z, c complex128) complex128 {
	return cmplx.Sin(z) + c
}

func juliaZSinExp(z, c complex128) complex128 {
	return z*cmplx.Sin(z)/cmplx.Exp(z) + c
}

func julia(id, name string, constant complex128, bailout float64, step StepFunc) Program {
	return Program{
		ID:            id,
		Name:          name,
		Julia:         true,
		JuliaConstant: constant,
		Bailout:       bailout,
		Step:          step,
	}
}
