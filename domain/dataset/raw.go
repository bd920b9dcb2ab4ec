package dataset

import (
	"titanicdash/domain/core"
)

// RawTable is a parsed but untyped table: a header row plus string cells.
// Every row has exactly len(Headers) cells.
type RawTable struct {
	Source   string
	Checksum core.Hash
	Headers  []string
	Rows     [][]string
}
