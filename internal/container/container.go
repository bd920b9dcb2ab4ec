package container

import (
	"fmt"

	"titanicdash/adapters/excel"
	"titanicdash/adapters/source"
	"titanicdash/domain/dataset"
	"titanicdash/internal"
	"titanicdash/internal/cache"
	"titanicdash/internal/config"
	"titanicdash/internal/pipeline"
	"titanicdash/ui"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Data access
	Source *source.Reader
	Cache  *cache.DatasetCache

	// Core
	Pipeline *pipeline.Pipeline

	// Output
	Exporter *excel.Writer
}

// New creates a new dependency injection container
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))
	}

	options, err := PipelineOptions(cfg.Data)
	if err != nil {
		return nil, err
	}

	sourceConfig := source.DefaultConfig()
	sourceConfig.Timeout = cfg.Data.FetchTimeout

	c := &Container{
		Config:   cfg,
		Logger:   logger,
		Source:   source.NewReader(nil, sourceConfig, logger),
		Cache:    cache.New(logger),
		Exporter: excel.NewWriter(),
	}
	c.Pipeline = pipeline.New(c.Source, c.Cache, options, logger)

	logger.Debug("container initialized for %s", cfg.Data.SourceURL)
	return c, nil
}

// PipelineOptions turns the data configuration into pipeline options
func PipelineOptions(data config.DataConfig) (pipeline.Options, error) {
	options := pipeline.DefaultOptions()
	options.Roles = pipeline.Roles{
		Age:      data.AgeColumn,
		Fare:     data.FareColumn,
		Survival: data.SurvivalColumn,
		Class:    data.ClassColumn,
		Sex:      data.SexColumn,
	}

	options.ColumnTypes = make(map[string]dataset.ColumnType, len(data.ColumnTypes))
	for column, kind := range data.ColumnTypes {
		t := dataset.ColumnType(kind)
		if !t.Valid() {
			return pipeline.Options{}, fmt.Errorf("column %s: unknown type %q", column, kind)
		}
		options.ColumnTypes[column] = t
	}
	return options, nil
}

// UIConfig returns the dashboard settings
func (c *Container) UIConfig() ui.Config {
	return ui.Config{
		Port:          c.Config.Server.Port,
		SourceURL:     c.Config.Data.SourceURL,
		Title:         c.Config.Dashboard.Title,
		IntroMarkdown: c.Config.Dashboard.IntroMarkdown,
		HistogramBins: c.Config.Dashboard.HistogramBins,
		DefaultRows:   c.Config.Dashboard.DefaultRows,
		DefaultClass:  c.Config.Dashboard.DefaultClass,
		SessionTTL:    c.Config.Server.SessionTTL,
	}
}

// NewUI builds the dashboard on top of the container's pipeline
func (c *Container) NewUI() (*ui.App, error) {
	return ui.NewApp(c.UIConfig(), c.Pipeline, c.Exporter, c.Logger)
}
