package ports

import (
	"io"

	"titanicdash/domain/dataset"
)

// TableExporter writes a table to a downloadable document
type TableExporter interface {
	Export(w io.Writer, t dataset.Table, sheet string) error
	ContentType() string
}
