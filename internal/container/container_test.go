package container

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"titanicdash/domain/dataset"
	"titanicdash/internal"
	"titanicdash/internal/config"
)

func TestPipelineOptionsFromConfig(t *testing.T) {
	data := config.Default().Data
	data.AgeColumn = "age"
	data.ColumnTypes = map[string]string{"Pclass": "ordinal", "SibSp": "numeric"}

	options, err := PipelineOptions(data)
	require.NoError(t, err)
	assert.Equal(t, "age", options.Roles.Age)
	assert.Equal(t, dataset.ColumnOrdinal, options.ColumnTypes["Pclass"])
	assert.Equal(t, dataset.ColumnNumeric, options.ColumnTypes["SibSp"])
	assert.NotContains(t, options.ColumnTypes, "Survived")

	data.ColumnTypes = map[string]string{"Age": "float"}
	_, err = PipelineOptions(data)
	assert.Error(t, err)
}

func TestContainerLoadsThroughPipeline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "passengers.csv")
	require.NoError(t, os.WriteFile(path, []byte("Survived,Pclass,Sex,Age,Fare\n1,1,female,29,211.3375\n0,3,male,,7.75\n"), 0o600))

	cfg := config.Default()
	cfg.Data.SourceURL = path

	c, err := New(cfg, internal.NewLogger(internal.LogLevelError))
	require.NoError(t, err)

	ds, err := c.Pipeline.Load(context.Background(), cfg.Data.SourceURL)
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, 1, c.Cache.Len())

	app, err := c.NewUI()
	require.NoError(t, err)
	assert.NotNil(t, app.Handler())
	assert.Equal(t, cfg.Dashboard.DefaultRows, c.UIConfig().DefaultRows)
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(nil, nil)
	assert.Error(t, err)
}
