package programs

func mandelbrot(z, c complex128) complex128 {
	return z*z + c
}
