// Package pipeline is the dataset core of the dashboard: it loads the
// passenger table once per source, derives the age bucket column, and
// answers summary and filter queries as pure functions of a dataset.Table.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"titanicdash/adapters/datareadiness/coercer"
	"titanicdash/domain/core"
	"titanicdash/domain/dataset"
	"titanicdash/internal"
	"titanicdash/ports"
)

// Roles names the columns the dashboard gives meaning to
type Roles struct {
	Age      string
	Fare     string
	Survival string
	Class    string
	Sex      string
}

// DefaultRoles matches the public passenger CSV
func DefaultRoles() Roles {
	return Roles{
		Age:      "Age",
		Fare:     "Fare",
		Survival: "Survived",
		Class:    "Pclass",
		Sex:      "Sex",
	}
}

// Options configures dataset construction
type Options struct {
	Roles       Roles
	ColumnTypes map[string]dataset.ColumnType // overrides inference per column
	Coercion    coercer.CoercionConfig
}

// DefaultOptions returns the options for the public passenger CSV
func DefaultOptions() Options {
	return Options{
		Roles: DefaultRoles(),
		ColumnTypes: map[string]dataset.ColumnType{
			"Pclass":   dataset.ColumnOrdinal,
			"Survived": dataset.ColumnBoolean,
		},
		Coercion: coercer.DefaultCoercionConfig(),
	}
}

// Pipeline loads datasets through a source and a cache
type Pipeline struct {
	source  ports.TableSource
	cache   ports.DatasetCache
	coercer *coercer.TypeCoercer
	options Options
	logger  *internal.Logger
}

// New creates a pipeline. The cache is owned by the caller so its lifetime
// is explicit.
func New(source ports.TableSource, cache ports.DatasetCache, options Options, logger *internal.Logger) *Pipeline {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Pipeline{
		source:  source,
		cache:   cache,
		coercer: coercer.NewTypeCoercer(options.Coercion),
		options: options,
		logger:  logger.With("Pipeline"),
	}
}

// Roles returns the configured column roles
func (p *Pipeline) Roles() Roles {
	return p.options.Roles
}

// Load returns the dataset for sourceURL, fetching it on first use only.
// A failed load exposes no dataset and is not memoized.
func (p *Pipeline) Load(ctx context.Context, sourceURL string) (*dataset.Dataset, error) {
	return p.cache.GetOrLoad(ctx, sourceURL, func(ctx context.Context) (*dataset.Dataset, error) {
		// Waiters share this load, so one caller's cancellation must not fail the rest.
		ctx = context.WithoutCancel(ctx)

		start := time.Now()
		raw, err := p.source.Fetch(ctx, sourceURL)
		if err != nil {
			return nil, err
		}
		ds, err := p.Build(raw)
		if err != nil {
			return nil, core.NewLoadError(sourceURL, err)
		}
		p.logger.Info("loaded %s: %d rows, %d columns, checksum %s in %s",
			sourceURL, ds.Len(), ds.Schema().Len(), ds.Checksum().Short(), time.Since(start).Round(time.Millisecond))
		return ds, nil
	})
}

// Build types a raw table and appends the derived AgeGroup column.
func (p *Pipeline) Build(raw *dataset.RawTable) (*dataset.Dataset, error) {
	for r, row := range raw.Rows {
		if len(row) != len(raw.Headers) {
			return nil, fmt.Errorf("%w: row %d has %d fields, want %d", core.ErrMalformed, r+1, len(row), len(raw.Headers))
		}
	}

	columns := make([]dataset.Column, 0, len(raw.Headers)+1)
	for i, name := range raw.Headers {
		t, ok := p.options.ColumnTypes[name]
		if !ok {
			cells := make([]string, len(raw.Rows))
			for r, row := range raw.Rows {
				cells[r] = row[i]
			}
			t = p.coercer.InferColumnType(cells)
		}
		columns = append(columns, dataset.Column{Name: name, Type: t})
	}

	ageIdx := -1
	derive := true
	for i, c := range columns {
		if c.Name == p.options.Roles.Age {
			ageIdx = i
		}
		if c.Name == dataset.AgeGroupColumn {
			derive = false
		}
	}
	if !derive {
		p.logger.Warn("source already has a %s column, not deriving it", dataset.AgeGroupColumn)
	} else {
		if ageIdx < 0 {
			p.logger.Warn("age column %q not found, every %s will be %s", p.options.Roles.Age, dataset.AgeGroupColumn, dataset.AgeGroupUnknown)
		}
		columns = append(columns, dataset.Column{Name: dataset.AgeGroupColumn, Type: dataset.ColumnCategorical, Derived: true})
	}

	schema, err := dataset.NewSchema(columns)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrMalformed, err)
	}

	records := make([]dataset.Record, len(raw.Rows))
	for r, row := range raw.Rows {
		values := make([]dataset.Value, schema.Len())
		for i, cell := range row {
			values[i] = p.coercer.CoerceValue(cell, columns[i].Type)
		}
		if derive {
			age := dataset.NewMissingValue()
			if ageIdx >= 0 {
				age = values[ageIdx]
			}
			values[len(values)-1] = dataset.NewStringValue(string(DeriveAgeGroup(age)))
		}
		records[r] = dataset.NewRecord(values)
	}

	return dataset.NewDataset(raw.Source, raw.Checksum, schema, records), nil
}
