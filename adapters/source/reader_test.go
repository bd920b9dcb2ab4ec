package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"titanicdash/domain/core"
)

const passengersCSV = `PassengerId,Survived,Pclass,Name,Sex,Age,Fare
1,0,3,"Braund, Mr. Owen Harris",male,22,7.25
2,1,1,"Cumings, Mrs. John Bradley",female,38,71.2833
3,1,3,"Heikkinen, Miss. Laina",female,,7.925
`

func newTestReader() *Reader {
	return NewReader(nil, DefaultConfig(), nil)
}

func TestFetchHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(passengersCSV))
	}))
	defer srv.Close()

	raw, err := newTestReader().Fetch(context.Background(), srv.URL+"/titanic.csv")
	require.NoError(t, err)

	assert.Equal(t, []string{"PassengerId", "Survived", "Pclass", "Name", "Sex", "Age", "Fare"}, raw.Headers)
	require.Len(t, raw.Rows, 3)
	assert.Equal(t, "Braund, Mr. Owen Harris", raw.Rows[0][3])
	assert.Equal(t, "", raw.Rows[2][5])
	assert.Equal(t, core.NewHash([]byte(passengersCSV)), raw.Checksum)
}

func TestFetchFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing.csv":
			http.NotFound(w, r)
		case "/empty.csv":
		case "/ragged.csv":
			_, _ = w.Write([]byte("a,b,c\n1,2,3\n4,5\n"))
		case "/blank-header.csv":
			_, _ = w.Write([]byte(",,\n1,2,3\n"))
		case "/dup.csv":
			_, _ = w.Write([]byte("a,a\n1,2\n"))
		}
	}))
	defer srv.Close()

	tests := []struct {
		path string
		want error
	}{
		{"/missing.csv", core.ErrFetch},
		{"/empty.csv", core.ErrMissingHeader},
		{"/ragged.csv", core.ErrMalformed},
		{"/blank-header.csv", core.ErrMissingHeader},
		{"/dup.csv", core.ErrMalformed},
	}

	reader := newTestReader()
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			raw, err := reader.Fetch(context.Background(), srv.URL+tt.path)
			require.Error(t, err)
			assert.Nil(t, raw, "no partial table on failure")
			assert.True(t, core.IsLoadError(err))
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestFetchUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	_, err := newTestReader().Fetch(context.Background(), addr+"/titanic.csv")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrFetch))
}

func TestFetchLocalFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "passengers.csv")
	require.NoError(t, os.WriteFile(p, []byte("\xef\xbb\xbf"+passengersCSV), 0o600))

	for _, src := range []string{p, "file://" + p} {
		raw, err := newTestReader().Fetch(context.Background(), src)
		require.NoError(t, err, src)
		assert.Equal(t, "PassengerId", raw.Headers[0], "byte order mark stripped")
		assert.Len(t, raw.Rows, 3)
	}

	_, err := newTestReader().Fetch(context.Background(), "ftp://example.com/a.csv")
	assert.True(t, core.IsLoadError(err))
}

func TestFetchBodyLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(passengersCSV))
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.MaxBodyBytes = 16
	_, err := NewReader(nil, cfg, nil).Fetch(context.Background(), srv.URL)
	assert.True(t, errors.Is(err, core.ErrFetch))
}

func TestFetchWorkbook(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"PassengerId", "Pclass", "Age", "Cabin"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{1, 3, 22, "C85"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{2, 1}))

	p := filepath.Join(t.TempDir(), "passengers.xlsx")
	require.NoError(t, f.SaveAs(p))

	raw, err := newTestReader().Fetch(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, []string{"PassengerId", "Pclass", "Age", "Cabin"}, raw.Headers)
	require.Len(t, raw.Rows, 2)
	assert.Equal(t, []string{"2", "1", "", ""}, raw.Rows[1], "short rows padded")
}
