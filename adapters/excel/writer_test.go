package excel

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"titanicdash/domain/core"
	"titanicdash/domain/dataset"
)

func testTable(t *testing.T) *dataset.Dataset {
	t.Helper()
	schema, err := dataset.NewSchema([]dataset.Column{
		{Name: "Name", Type: dataset.ColumnCategorical},
		{Name: "Age", Type: dataset.ColumnNumeric},
		{Name: "Fare", Type: dataset.ColumnNumeric},
	})
	require.NoError(t, err)

	records := []dataset.Record{
		dataset.NewRecord([]dataset.Value{dataset.NewStringValue("Allen"), dataset.NewNumericValue(10), dataset.NewNumericValue(7.25)}),
		dataset.NewRecord([]dataset.Value{dataset.NewStringValue("Brown"), dataset.NewMissingValue(), dataset.NewNumericValue(71.28)}),
		dataset.NewRecord([]dataset.Value{dataset.NewStringValue("Carter"), dataset.NewNumericValue(45), dataset.NewNumericValue(8.05)}),
	}
	return dataset.NewDataset("test.csv", core.NewHash([]byte("test")), schema, records)
}

func readBack(t *testing.T, data []byte, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{sheet}, f.GetSheetList())
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	return rows
}

func TestExportWritesHeaderAndRows(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter()
	require.NoError(t, w.Export(&buf, testTable(t), "passengers"))

	rows := readBack(t, buf.Bytes(), "passengers")
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Name", "Age", "Fare"}, rows[0])
	assert.Equal(t, []string{"Allen", "10", "7.25"}, rows[1])
	assert.Equal(t, "Brown", rows[2][0])
	assert.Equal(t, "71.28", rows[2][2])
	assert.Equal(t, ContentTypeXLSX, w.ContentType())
}

func TestExportView(t *testing.T) {
	ds := testTable(t)
	view := dataset.NewView(ds, []int{2})

	var buf bytes.Buffer
	require.NoError(t, NewWriter().Export(&buf, view, ""))

	rows := readBack(t, buf.Bytes(), DefaultSheet)
	require.Len(t, rows, 2)
	assert.Equal(t, "Carter", rows[1][0])
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, DefaultSheet, SheetName("  "))
	assert.Equal(t, "class_1", SheetName("class/1"))
	assert.Equal(t, "ages 0-80", SheetName("ages 0-80"))
	assert.Len(t, []rune(SheetName("a very long sheet name that keeps going")), 31)
}
