package ports

import (
	"context"

	"titanicdash/domain/dataset"
)

// DatasetLoader produces the dataset for one key
type DatasetLoader func(ctx context.Context) (*dataset.Dataset, error)

// DatasetCache memoizes loaded datasets. Once published a dataset is
// returned unchanged for the lifetime of the cache.
type DatasetCache interface {
	GetOrLoad(ctx context.Context, key string, loader DatasetLoader) (*dataset.Dataset, error)
}
