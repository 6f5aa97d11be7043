package stats

// Fit is an ordinary-least-squares fit of y on x.
type Fit struct {
	Intercept float64 `json:"intercept"`
	Slope     float64 `json:"slope"`
	RSquared  float64 `json:"r_squared"`
	N         int     `json:"n"`

	XMean      float64 `json:"x_mean"`
	XMin       float64 `json:"x_min"`
	XMax       float64 `json:"x_max"`
	Sxx        float64 `json:"sxx"`         // sum of squared x deviations
	ResidualSE float64 `json:"residual_se"` // zero when n <= 2
}

// Predict evaluates the fitted line at x.
func (f Fit) Predict(x float64) float64 {
	return f.Intercept + f.Slope*x
}

// BandMethod selects how the confidence band is estimated.
type BandMethod string

const (
	BandAnalytic  BandMethod = "analytic"
	BandBootstrap BandMethod = "bootstrap"
)

// Band is a confidence band for the fitted line, evaluated on a grid of x.
// All four slices have the same length.
type Band struct {
	Level  float64    `json:"level"`
	Method BandMethod `json:"method"`
	X      []float64  `json:"x"`
	Lower  []float64  `json:"lower"`
	Center []float64  `json:"center"`
	Upper  []float64  `json:"upper"`
}

// MaxWidth returns the widest upper-lower gap across the grid.
func (b *Band) MaxWidth() float64 {
	widest := 0.0
	for i := range b.X {
		if w := b.Upper[i] - b.Lower[i]; w > widest {
			widest = w
		}
	}
	return widest
}
