package ports

import (
	"context"

	"yieldplot/internal/chart"
)

// ViewerPort displays a figure and blocks until the user dismisses it or ctx
// is cancelled.
type ViewerPort interface {
	Show(ctx context.Context, fig *chart.Figure) error
}
