package excel

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"titanicdash/domain/dataset"
	"titanicdash/ports"
)

// ContentTypeXLSX is the media type of a workbook download
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DefaultSheet is used when no sheet name is given
const DefaultSheet = "Sheet1"

// Writer streams a table into a single sheet workbook
type Writer struct{}

var _ ports.TableExporter = (*Writer)(nil)

// NewWriter creates a workbook writer
func NewWriter() *Writer {
	return &Writer{}
}

// ContentType returns the XLSX media type
func (w *Writer) ContentType() string {
	return ContentTypeXLSX
}

// Export writes the header and every record of t to out. Missing cells are
// left empty.
func (w *Writer) Export(out io.Writer, t dataset.Table, sheet string) error {
	sheet = SheetName(sheet)

	f := excelize.NewFile()
	defer f.Close()

	if sheet != DefaultSheet {
		if err := f.SetSheetName(DefaultSheet, sheet); err != nil {
			return fmt.Errorf("failed to name sheet %q: %w", sheet, err)
		}
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("failed to open stream writer: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	names := t.Schema().Names()
	header := make([]interface{}, len(names))
	for i, name := range names {
		header[i] = excelize.Cell{StyleID: bold, Value: name}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i := 0; i < t.Len(); i++ {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, rowValues(t.Record(i), len(names))); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}
	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func rowValues(r dataset.Record, width int) []interface{} {
	row := make([]interface{}, width)
	for c := 0; c < width; c++ {
		v := r.Value(c)
		switch {
		case v.IsNumeric():
			f, _ := v.Float()
			row[c] = f
		case v.IsBoolean():
			row[c] = v.AsBoolean()
		case v.IsString():
			row[c] = v.AsString()
		default:
			row[c] = ""
		}
	}
	return row
}

// SheetName makes s usable as a worksheet name: no reserved characters and
// at most 31 runes.
func SheetName(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, strings.TrimSpace(s))
	s = strings.Trim(s, "'")
	if runes := []rune(s); len(runes) > 31 {
		s = string(runes[:31])
	}
	if s == "" {
		return DefaultSheet
	}
	return s
}
