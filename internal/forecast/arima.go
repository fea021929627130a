package forecast

import (
	"fmt"
	"math"
)

// arimaModel is an ARIMA(1,1,1) fit: an ARMA(1,1) on the first difference
// of the series, estimated by conditional sum of squares. The (1,1,1) order
// is fixed deliberately; downstream confidence-interval expectations assume
// it.
type arimaModel struct {
	phi    float64 // AR(1) coefficient on the differenced series
	theta  float64 // MA(1) coefficient
	sigma2 float64 // residual variance
	series []float64
	diffs  []float64
	resid  []float64
}

// coefficient search bounds keep the fit inside the stationary and
// invertible region.
const coefBound = 0.99

// fitARIMA estimates ARIMA(1,1,1) coefficients for a level series by a
// coarse grid search over (phi, theta) refined with shrinking steps.
func fitARIMA(series []float64) (*arimaModel, error) {
	if len(series) < 4 {
		return nil, fmt.Errorf("need at least 4 observations, have %d", len(series))
	}
	for _, v := range series {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("series contains non-finite values")
		}
	}

	diffs := make([]float64, len(series)-1)
	for i := 1; i < len(series); i++ {
		diffs[i-1] = series[i] - series[i-1]
	}

	bestPhi, bestTheta := 0.0, 0.0
	bestSSE := math.Inf(1)

	// Coarse grid, then three rounds of local refinement.
	step := 0.1
	for phi := -coefBound; phi <= coefBound; phi += step {
		for theta := -coefBound; theta <= coefBound; theta += step {
			if sse := cssObjective(diffs, phi, theta); sse < bestSSE {
				bestSSE, bestPhi, bestTheta = sse, phi, theta
			}
		}
	}
	for round := 0; round < 3; round++ {
		step /= 5
		centerPhi, centerTheta := bestPhi, bestTheta
		for dp := -5; dp <= 5; dp++ {
			for dt := -5; dt <= 5; dt++ {
				phi := clamp(centerPhi+float64(dp)*step, -coefBound, coefBound)
				theta := clamp(centerTheta+float64(dt)*step, -coefBound, coefBound)
				if sse := cssObjective(diffs, phi, theta); sse < bestSSE {
					bestSSE, bestPhi, bestTheta = sse, phi, theta
				}
			}
		}
	}

	if math.IsInf(bestSSE, 1) || math.IsNaN(bestSSE) {
		return nil, fmt.Errorf("conditional sum of squares did not converge")
	}

	resid := residuals(diffs, bestPhi, bestTheta)
	df := len(diffs) - 2
	if df < 1 {
		df = 1
	}

	return &arimaModel{
		phi:    bestPhi,
		theta:  bestTheta,
		sigma2: bestSSE / float64(df),
		series: series,
		diffs:  diffs,
		resid:  resid,
	}, nil
}

// cssObjective is the conditional sum of squared one-step errors for the
// candidate coefficients, conditioning on zero pre-sample values.
func cssObjective(diffs []float64, phi, theta float64) float64 {
	sse := 0.0
	for _, e := range residuals(diffs, phi, theta) {
		sse += e * e
	}
	return sse
}

func residuals(diffs []float64, phi, theta float64) []float64 {
	resid := make([]float64, len(diffs))
	prevDiff, prevErr := 0.0, 0.0
	for i, w := range diffs {
		e := w - phi*prevDiff - theta*prevErr
		resid[i] = e
		prevDiff, prevErr = w, e
	}
	return resid
}

// point is one forecast step with its 95% confidence bounds.
type point struct {
	Forecast float64
	Lower    float64
	Upper    float64
}

const z95 = 1.959963984540054

// Forecast produces level forecasts for the next steps with 95% intervals.
// Interval width grows with the cumulative psi weights of the integrated
// process.
func (m *arimaModel) Forecast(steps int) []point {
	lastLevel := m.series[len(m.series)-1]
	lastDiff := m.diffs[len(m.diffs)-1]
	lastErr := m.resid[len(m.resid)-1]

	// Psi weights of the differenced ARMA(1,1): psi_0 = 1,
	// psi_j = (phi+theta) phi^(j-1). Level weights are their cumulative sum.
	levelPsi := make([]float64, steps)
	cum := 1.0
	levelPsi[0] = cum
	armaPsi := m.phi + m.theta
	for j := 1; j < steps; j++ {
		cum += armaPsi
		levelPsi[j] = cum
		armaPsi *= m.phi
	}

	points := make([]point, steps)
	level := lastLevel
	diffForecast := m.phi*lastDiff + m.theta*lastErr
	variance := 0.0
	for h := 0; h < steps; h++ {
		level += diffForecast
		variance += levelPsi[h] * levelPsi[h] * m.sigma2
		half := z95 * math.Sqrt(variance)
		points[h] = point{Forecast: level, Lower: level - half, Upper: level + half}
		diffForecast *= m.phi
	}
	return points
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
