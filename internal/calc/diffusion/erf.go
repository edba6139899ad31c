package diffusion

import "math"

// Abramowitz & Stegun 7.1.26 coefficients.
const (
	erfP  = 0.3275911
	erfA1 = 0.254829592
	erfA2 = -0.284496736
	erfA3 = 1.421413741
	erfA4 = -1.453152027
	erfA5 = 1.061405429
)

// Erf approximates the Gauss error function with absolute error below 1.5e-7.
// Infinite arguments saturate to ±1 and NaN is returned unchanged.
func Erf(x float64) float64 {
	switch {
	case math.IsNaN(x):
		return x
	case math.IsInf(x, 1):
		return 1
	case math.IsInf(x, -1):
		return -1
	case x == 0:
		// the rational fit leaves a 1e-9 residual at the origin
		return 0
	}

	sign := 1.0
	if x < 0 {
		sign = -1
	}
	ax := math.Abs(x)

	t := 1 / (1 + erfP*ax)
	y := 1 - (((((erfA5*t+erfA4)*t+erfA3)*t+erfA2)*t+erfA1)*t)*math.Exp(-ax*ax)
	return sign * y
}
