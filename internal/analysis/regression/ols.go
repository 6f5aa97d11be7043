package regression

import (
	"fmt"
	"math"

	"yieldplot/domain/core"
	domainStats "yieldplot/domain/stats"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// FitOLS regresses ys on xs by ordinary least squares.
//
// Fewer than two observations and a constant x are rejected rather than
// producing a NaN slope.
func FitOLS(xs, ys []float64) (*domainStats.Fit, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("%w: %d vs %d", core.ErrLengthMismatch, len(xs), len(ys))
	}
	n := len(xs)
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 observations, got %d", core.ErrInsufficientData, n)
	}

	xMin, _ := stats.Min(xs)
	xMax, _ := stats.Max(xs)
	// rounding leaves a tiny nonzero variance for constants like 0.1
	if xMin == xMax {
		return nil, core.ErrZeroVariance
	}
	xVar, err := stats.PopulationVariance(xs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInsufficientData, err)
	}
	if xVar == 0 {
		return nil, core.ErrZeroVariance
	}
	xMean, _ := stats.Mean(xs)

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)

	sse := 0.0
	for i := range xs {
		r := ys[i] - (alpha + beta*xs[i])
		sse += r * r
	}

	fit := &domainStats.Fit{
		Intercept: alpha,
		Slope:     beta,
		RSquared:  rSquared(xs, ys, alpha, beta, sse),
		N:         n,
		XMean:     xMean,
		XMin:      xMin,
		XMax:      xMax,
		Sxx:       xVar * float64(n),
	}
	if n > 2 {
		fit.ResidualSE = math.Sqrt(sse / float64(n-2))
	}
	return fit, nil
}

// rSquared falls back to 1 for a constant y that the line reproduces exactly,
// where the usual ratio is 0/0.
func rSquared(xs, ys []float64, alpha, beta, sse float64) float64 {
	r2 := stat.RSquared(xs, ys, nil, alpha, beta)
	if math.IsNaN(r2) || math.IsInf(r2, 0) {
		if sse == 0 {
			return 1
		}
		return 0
	}
	return r2
}
