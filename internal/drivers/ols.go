package drivers

import (
	"fmt"
	"math"
)

// olsFit holds the output of an ordinary least squares fit with an
// intercept in column 0 of the design matrix.
type olsFit struct {
	Coefficients []float64
	StdErrors    []float64
	TStats       []float64
	PValues      []float64
	RSquared     float64
	NObs         int
}

// fitOLS solves min ||y - Xb|| via the normal equations. X rows are
// observations, columns are regressors (intercept included by the caller).
// Returns an error for underdetermined or singular systems so a failed
// country fit can be logged and skipped without aborting the batch.
func fitOLS(y []float64, x [][]float64) (*olsFit, error) {
	n := len(y)
	if n == 0 || len(x) != n {
		return nil, fmt.Errorf("design matrix has %d rows for %d responses", len(x), n)
	}
	k := len(x[0])
	if n <= k {
		return nil, fmt.Errorf("need more than %d observations to fit %d coefficients, have %d", k, k, n)
	}

	// Normal equations: (X'X) b = X'y.
	xtx := make([][]float64, k)
	for i := range xtx {
		xtx[i] = make([]float64, k)
	}
	xty := make([]float64, k)
	for row := 0; row < n; row++ {
		for i := 0; i < k; i++ {
			xty[i] += x[row][i] * y[row]
			for j := 0; j < k; j++ {
				xtx[i][j] += x[row][i] * x[row][j]
			}
		}
	}

	inv, err := invert(xtx)
	if err != nil {
		return nil, fmt.Errorf("singular design: %w", err)
	}

	beta := make([]float64, k)
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			beta[i] += inv[i][j] * xty[j]
		}
	}

	// Residual sum of squares and total sum of squares.
	meanY := 0.0
	for _, v := range y {
		meanY += v
	}
	meanY /= float64(n)

	rss, tss := 0.0, 0.0
	for row := 0; row < n; row++ {
		fitted := 0.0
		for j := 0; j < k; j++ {
			fitted += x[row][j] * beta[j]
		}
		rss += (y[row] - fitted) * (y[row] - fitted)
		tss += (y[row] - meanY) * (y[row] - meanY)
	}

	df := n - k
	sigma2 := rss / float64(df)

	fit := &olsFit{
		Coefficients: beta,
		StdErrors:    make([]float64, k),
		TStats:       make([]float64, k),
		PValues:      make([]float64, k),
		NObs:         n,
	}
	if tss > 0 {
		fit.RSquared = 1 - rss/tss
	}

	for i := 0; i < k; i++ {
		se := math.Sqrt(sigma2 * inv[i][i])
		fit.StdErrors[i] = se
		if se > 0 {
			t := beta[i] / se
			fit.TStats[i] = t
			fit.PValues[i] = studentTPValue(t, float64(df))
		} else {
			fit.PValues[i] = math.NaN()
		}
	}
	return fit, nil
}

// invert computes the inverse of a square matrix by Gauss-Jordan
// elimination with partial pivoting.
func invert(m [][]float64) ([][]float64, error) {
	k := len(m)
	aug := make([][]float64, k)
	for i := range aug {
		aug[i] = make([]float64, 2*k)
		copy(aug[i], m[i])
		aug[i][k+i] = 1
	}

	for col := 0; col < k; col++ {
		pivot := col
		for row := col + 1; row < k; row++ {
			if math.Abs(aug[row][col]) > math.Abs(aug[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(aug[pivot][col]) < 1e-12 {
			return nil, fmt.Errorf("pivot %d is numerically zero", col)
		}
		aug[col], aug[pivot] = aug[pivot], aug[col]

		scale := aug[col][col]
		for j := 0; j < 2*k; j++ {
			aug[col][j] /= scale
		}
		for row := 0; row < k; row++ {
			if row == col {
				continue
			}
			factor := aug[row][col]
			for j := 0; j < 2*k; j++ {
				aug[row][j] -= factor * aug[col][j]
			}
		}
	}

	inv := make([][]float64, k)
	for i := range inv {
		inv[i] = make([]float64, k)
		copy(inv[i], aug[i][k:])
	}
	return inv, nil
}

// studentTPValue returns the two-sided p-value of a t statistic with df
// degrees of freedom, via the regularized incomplete beta function.
func studentTPValue(t, df float64) float64 {
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return math.NaN()
	}
	return regIncompleteBeta(df/2, 0.5, df/(df+t*t))
}

// regIncompleteBeta computes I_x(a, b) with the continued-fraction
// expansion (Lentz's method).
func regIncompleteBeta(a, b, x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}

	lnBeta := lgamma(a+b) - lgamma(a) - lgamma(b)
	front := math.Exp(lnBeta + a*math.Log(x) + b*math.Log(1-x))

	// Symmetry keeps the continued fraction in its fast-converging region.
	if x > (a+1)/(a+b+2) {
		return 1 - regIncompleteBeta(b, a, 1-x)
	}

	const maxIter = 200
	const eps = 1e-14
	const tiny = 1e-30

	f, c, d := 1.0, 1.0, 0.0
	for i := 0; i <= maxIter; i++ {
		m := float64(i / 2)
		var numerator float64
		switch {
		case i == 0:
			numerator = 1.0
		case i%2 == 0:
			numerator = m * (b - m) * x / ((a + 2*m - 1) * (a + 2*m))
		default:
			numerator = -((a + m) * (a + b + m) * x) / ((a + 2*m) * (a + 2*m + 1))
		}

		d = 1 + numerator*d
		if math.Abs(d) < tiny {
			d = tiny
		}
		d = 1 / d

		c = 1 + numerator/c
		if math.Abs(c) < tiny {
			c = tiny
		}

		cd := c * d
		f *= cd
		if math.Abs(1-cd) < eps {
			return front * (f - 1) / a
		}
	}
	return front * (f - 1) / a
}

func lgamma(x float64) float64 {
	v, _ := math.Lgamma(x)
	return v
}
