package regression

import (
	"fmt"
	"math"
	"math/rand"

	"yieldplot/domain/core"
	domainStats "yieldplot/domain/stats"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultGridSize is the number of x positions the band is evaluated at.
const DefaultGridSize = 100

// Grid returns n evenly spaced points covering [lo, hi].
func Grid(lo, hi float64, n int) []float64 {
	if n < 2 {
		n = 2
	}
	return floats.Span(make([]float64, n), lo, hi)
}

func validateLevel(level float64) error {
	if !(level > 0 && level < 1) {
		return fmt.Errorf("confidence level must be in (0, 1), got %v", level)
	}
	return nil
}

// AnalyticBand computes the confidence interval of the mean response
//
//	ŷ(x) ± t(1-α/2, n-2) · s · sqrt(1/n + (x-x̄)²/Sxx)
//
// at every grid point. With n == 2 there are no residual degrees of freedom
// and the band collapses onto the line.
func AnalyticBand(fit *domainStats.Fit, level float64, grid []float64) (*domainStats.Band, error) {
	if err := validateLevel(level); err != nil {
		return nil, err
	}

	band := newBand(level, domainStats.BandAnalytic, grid)

	tCrit := 0.0
	if fit.N > 2 {
		tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(fit.N - 2)}
		tCrit = tDist.Quantile(1 - (1-level)/2)
	}

	n := float64(fit.N)
	for i, x := range grid {
		center := fit.Predict(x)
		dx := x - fit.XMean
		half := tCrit * fit.ResidualSE * math.Sqrt(1/n+dx*dx/fit.Sxx)
		band.Center[i] = center
		band.Lower[i] = center - half
		band.Upper[i] = center + half
	}
	return band, nil
}

// BootstrapBand estimates the band by resampling (x, y) pairs with
// replacement, refitting, and taking the percentile interval of the refitted
// lines at every grid point. Resamples whose x values are all equal cannot be
// fitted and are skipped. The centre follows the full-sample fit.
func BootstrapBand(xs, ys []float64, level float64, grid []float64, nBoot int, seed int64) (*domainStats.Band, error) {
	if err := validateLevel(level); err != nil {
		return nil, err
	}
	if nBoot < 1 {
		return nil, fmt.Errorf("bootstrap samples must be positive, got %d", nBoot)
	}
	fit, err := FitOLS(xs, ys)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(seed))
	n := len(xs)
	bx := make([]float64, n)
	by := make([]float64, n)
	preds := make([][]float64, len(grid))

	for b := 0; b < nBoot; b++ {
		for i := 0; i < n; i++ {
			j := rng.Intn(n)
			bx[i], by[i] = xs[j], ys[j]
		}
		if constant(bx) {
			continue
		}
		alpha, beta := stat.LinearRegression(bx, by, nil, false)
		for g, x := range grid {
			preds[g] = append(preds[g], alpha+beta*x)
		}
	}
	if len(grid) > 0 && len(preds[0]) == 0 {
		return nil, fmt.Errorf("%w: every bootstrap resample had constant x", core.ErrInsufficientData)
	}

	lowerPct := 100 * (1 - level) / 2
	upperPct := 100 * (1 + level) / 2

	band := newBand(level, domainStats.BandBootstrap, grid)
	for g, x := range grid {
		lo, err := stats.PercentileNearestRank(preds[g], lowerPct)
		if err != nil {
			return nil, fmt.Errorf("bootstrap lower percentile: %w", err)
		}
		hi, err := stats.PercentileNearestRank(preds[g], upperPct)
		if err != nil {
			return nil, fmt.Errorf("bootstrap upper percentile: %w", err)
		}
		band.Center[g] = fit.Predict(x)
		band.Lower[g] = lo
		band.Upper[g] = hi
	}
	return band, nil
}

func newBand(level float64, method domainStats.BandMethod, grid []float64) *domainStats.Band {
	return &domainStats.Band{
		Level:  level,
		Method: method,
		X:      append([]float64(nil), grid...),
		Lower:  make([]float64, len(grid)),
		Center: make([]float64, len(grid)),
		Upper:  make([]float64, len(grid)),
	}
}

func constant(xs []float64) bool {
	for _, x := range xs[1:] {
		if x != xs[0] {
			return false
		}
	}
	return true
}
