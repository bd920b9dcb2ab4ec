package ports

import (
	"context"

	"titanicdash/domain/dataset"
)

// TableSource fetches and parses a tabular file. It does not retry; any
// failure is reported as a load error.
type TableSource interface {
	Fetch(ctx context.Context, sourceURL string) (*dataset.RawTable, error)
}
