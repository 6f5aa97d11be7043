package ports

import (
	"context"

	"yieldplot/domain/dataset"
)

// DatasetLoaderPort reads a tabular source into an immutable Dataset.
// Implementations fail with core.ErrFileNotFound, core.ErrSheetNotFound or
// core.ErrParse.
type DatasetLoaderPort interface {
	Load(ctx context.Context) (*dataset.Dataset, error)
}
