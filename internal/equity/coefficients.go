package equity

import "math"

// rpCoefficients computes the coefficients that express expected annual
// damage as a linear combination of damages known at discrete return periods.
//
// With f_i = 1/T_i the exceedance frequencies, damage is assumed zero above
// f_1, constant below f_n, and log-linear in frequency in between. The
// integral of that piecewise curve collapses to one coefficient per return
// period. Return periods must be ascending.
func rpCoefficients(periods []int) []float64 {
	n := len(periods)
	if n == 0 {
		return nil
	}

	f := make([]float64, n)
	lf := make([]float64, n)
	for i, t := range periods {
		f[i] = 1 / float64(t)
		lf[i] = math.Log(f[i])
	}

	if n == 1 {
		return []float64{f[0]}
	}

	c := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		c[i] = 1 / (lf[i] - lf[i+1])
	}

	g := make([]float64, n)
	for i := 0; i < n; i++ {
		g[i] = f[i]*lf[i] - f[i]
	}

	a := make([]float64, n-1)
	b := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		a[i] = (1+c[i]*lf[i+1])*(f[i]-f[i+1]) + c[i]*(g[i+1]-g[i])
		b[i] = c[i] * (g[i] - g[i+1] + lf[i+1]*(f[i+1]-f[i]))
	}

	alpha := make([]float64, n)
	for i := 0; i < n; i++ {
		switch i {
		case 0:
			alpha[i] = b[0]
		case n - 1:
			alpha[i] = f[i] + a[i-1]
		default:
			alpha[i] = a[i-1] + b[i]
		}
	}
	return alpha
}
