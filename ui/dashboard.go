package ui

import (
	"fmt"
	"html/template"
	"math"
	"net/http"

	"titanicdash/domain/core"
	"titanicdash/domain/dataset"
	"titanicdash/internal/charts"
	"titanicdash/internal/errors"
	"titanicdash/internal/pipeline"
	"titanicdash/internal/session"
)

// ClassOptions are the values offered by the class selector
var ClassOptions = []int{1, 2, 3}

// RowOptions bounds the row count control of the page
const (
	MinRowsControl = 5
	MaxRowsControl = 50
)

// Dashboard is everything one render of the page shows
type Dashboard struct {
	Title       string                       `json:"title"`
	Intro       template.HTML                `json:"-"`
	State       session.WidgetState          `json:"state"`
	Info        dataset.TableInfo            `json:"info"`
	Checksum    string                       `json:"checksum"`
	Columns     []dataset.ColumnSummary      `json:"columns"`
	Categorical []dataset.CategoricalSummary `json:"categorical"`
	Survival    []dataset.SurvivalGroup      `json:"survival"`
	Describe    []dataset.NumericDescription `json:"describe"`
	Head        TableRows                    `json:"head"`
	ClassCount  int                          `json:"class_count"`
	AgeCount    int                          `json:"age_count"`
	AgeBounds   AgeBounds                    `json:"age_bounds"`
	Charts      ChartSet                     `json:"charts"`

	ClassOptions []int `json:"-"`
	MinRows      int   `json:"-"`
	MaxRows      int   `json:"-"`
}

// Summary is the JSON body of /api/summary
type Summary struct {
	Info        dataset.TableInfo            `json:"info"`
	Columns     []dataset.ColumnSummary      `json:"columns"`
	Categorical []dataset.CategoricalSummary `json:"categorical"`
	Survival    []dataset.SurvivalGroup      `json:"survival"`
	Describe    []dataset.NumericDescription `json:"describe"`
	AgeGroups   []dataset.CountGroup         `json:"age_groups"`
}

// TableRows is a rendered slice of a table
type TableRows struct {
	Columns []string          `json:"columns"`
	Rows    [][]dataset.Value `json:"rows"`
	Total   int               `json:"total"`
}

// ChartSet holds the specs of every chart on the page
type ChartSet struct {
	AgeHistogram      *charts.ChartConfig `json:"age_histogram"`
	SurvivalBySex     *charts.ChartConfig `json:"survival_by_sex"`
	FareByClass       *charts.ChartConfig `json:"fare_by_class"`
	ClassAgeHistogram *charts.ChartConfig `json:"class_age_histogram"`
	AgeGroups         *charts.ChartConfig `json:"age_groups"`
}

// AgeBounds are the whole-number limits of the age range control
type AgeBounds struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Valid bool    `json:"valid"`
}

func (a *App) ageBounds(t dataset.Table) AgeBounds {
	r, err := pipeline.NumericRange(t, a.pipeline.Roles().Age)
	if err != nil || !r.Min.Valid || !r.Max.Valid {
		return AgeBounds{}
	}
	return AgeBounds{Min: math.Floor(r.Min.Value), Max: math.Ceil(r.Max.Value), Valid: true}
}

// stateUpdate changes widget state in response to one request
type stateUpdate func(st *session.WidgetState, bounds AgeBounds) error

// prepare loads the dataset and applies the request's event to the
// session's widget state.
func (a *App) prepare(r *http.Request, update stateUpdate) (*dataset.Dataset, session.WidgetState, error) {
	ds, err := a.pipeline.Load(r.Context(), a.config.SourceURL)
	if err != nil {
		return nil, session.WidgetState{}, err
	}
	bounds := a.ageBounds(ds)

	st, err := a.sessions.Update(sessionFrom(r), func(st *session.WidgetState) error {
		if update != nil {
			if err := update(st, bounds); err != nil {
				return err
			}
		}
		normalizeState(st, ds.Len(), bounds)
		return nil
	})
	if err != nil {
		return nil, st, err
	}
	return ds, st, nil
}

// normalizeState keeps the widgets inside what the dataset allows.
func normalizeState(st *session.WidgetState, rows int, bounds AgeBounds) {
	st.Rows = pipeline.ClampRows(st.Rows, rows)
	if !bounds.Valid {
		st.AgeMin, st.AgeMax, st.AgeRangeSet = 0, 0, false
		return
	}
	if !st.AgeRangeSet {
		st.AgeMin, st.AgeMax = bounds.Min, bounds.Max
		return
	}
	st.AgeMin = clamp(st.AgeMin, bounds.Min, bounds.Max)
	st.AgeMax = clamp(st.AgeMax, bounds.Min, bounds.Max)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// queryUpdate reads the widget parameters shared by every page and API call.
func queryUpdate(r *http.Request) stateUpdate {
	return func(st *session.WidgetState, bounds AgeBounds) error {
		class, ok, err := parseIntParam(r, "class")
		if err != nil {
			return err
		}
		if ok {
			if err := setClass(st, class); err != nil {
				return err
			}
		}

		rows, ok, err := parseIntParam(r, "rows")
		if err != nil {
			return err
		}
		if ok {
			st.Rows = rows
		}

		return ageUpdate(r, "age_min", "age_max")(st, bounds)
	}
}

func ageUpdate(r *http.Request, minParam, maxParam string) stateUpdate {
	return func(st *session.WidgetState, bounds AgeBounds) error {
		low, hasLow, err := parseFloatParam(r, minParam)
		if err != nil {
			return err
		}
		high, hasHigh, err := parseFloatParam(r, maxParam)
		if err != nil {
			return err
		}
		if !hasLow && !hasHigh {
			return nil
		}

		current := *st
		normalizeState(&current, math.MaxInt32, bounds)
		if !hasLow {
			low = current.AgeMin
		}
		if !hasHigh {
			high = current.AgeMax
		}
		if math.IsNaN(low) || math.IsNaN(high) || low > high {
			return errors.Wrap(core.NewInvalidRangeError("age", low, high), "age range rejected")
		}
		st.AgeMin, st.AgeMax, st.AgeRangeSet = low, high, true
		return nil
	}
}

func setClass(st *session.WidgetState, class int) error {
	for _, c := range ClassOptions {
		if c == class {
			st.Class = class
			return nil
		}
	}
	return errors.InvalidInput(fmt.Sprintf("class must be one of %v", ClassOptions))
}

func (a *App) classView(ds *dataset.Dataset, class int) (*dataset.View, error) {
	return pipeline.FilterByCategory(ds, a.pipeline.Roles().Class, dataset.NewNumericValue(float64(class)))
}

func (a *App) ageView(ds *dataset.Dataset, st session.WidgetState) (*dataset.View, error) {
	return pipeline.FilterByRange(ds, a.pipeline.Roles().Age, st.AgeMin, st.AgeMax)
}

func (a *App) summary(ds *dataset.Dataset) (*Summary, error) {
	roles := a.pipeline.Roles()

	categorical, err := pipeline.SummarizeCategorical(ds, pipeline.CategoricalColumns(ds.Schema()))
	if err != nil {
		return nil, err
	}
	survival, err := pipeline.SummarizeSurvival(ds, roles)
	if err != nil {
		return nil, err
	}
	ageGroups, err := pipeline.CountAgeGroups(ds)
	if err != nil {
		return nil, err
	}

	return &Summary{
		Info:        pipeline.Info(ds),
		Columns:     pipeline.SummarizeColumns(ds),
		Categorical: categorical,
		Survival:    survival,
		Describe:    pipeline.Describe(ds),
		AgeGroups:   ageGroups,
	}, nil
}

func (a *App) chartSet(ds *dataset.Dataset, st session.WidgetState) (*ChartSet, error) {
	roles := a.pipeline.Roles()
	bins := a.config.HistogramBins

	ageHist, err := pipeline.AgeHistogram(ds, roles, bins)
	if err != nil {
		return nil, err
	}
	bySex, err := pipeline.CountBy(ds, roles.Sex, roles.Survival)
	if err != nil {
		return nil, err
	}
	boxes, err := pipeline.BoxStats(ds, roles.Class, roles.Fare)
	if err != nil {
		return nil, err
	}

	classView, err := a.classView(ds, st.Class)
	if err != nil {
		return nil, err
	}
	classHist, err := pipeline.AgeHistogram(classView, roles, bins)
	if err != nil {
		return nil, err
	}

	ageView, err := a.ageView(ds, st)
	if err != nil {
		return nil, err
	}
	groups, err := pipeline.CountAgeGroups(ageView)
	if err != nil {
		return nil, err
	}

	return &ChartSet{
		AgeHistogram:      charts.AgeDistribution(ageHist),
		SurvivalBySex:     charts.SurvivalBySex(bySex),
		FareByClass:       charts.FareByClass(boxes),
		ClassAgeHistogram: charts.ClassAgeDistribution(classHist, st.Class),
		AgeGroups:         charts.AgeGroupCounts(groups, st.AgeMin, st.AgeMax),
	}, nil
}

func (a *App) dashboard(ds *dataset.Dataset, st session.WidgetState) (*Dashboard, error) {
	s, err := a.summary(ds)
	if err != nil {
		return nil, err
	}
	set, err := a.chartSet(ds, st)
	if err != nil {
		return nil, err
	}
	classView, err := a.classView(ds, st.Class)
	if err != nil {
		return nil, err
	}
	ageView, err := a.ageView(ds, st)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Title:        a.config.Title,
		Intro:        a.intro,
		State:        st,
		Info:         s.Info,
		Checksum:     ds.Checksum().Short(),
		Columns:      s.Columns,
		Categorical:  s.Categorical,
		Survival:     s.Survival,
		Describe:     s.Describe,
		Head:         tableRows(ds, st.Rows),
		ClassCount:   classView.Len(),
		AgeCount:     ageView.Len(),
		AgeBounds:    a.ageBounds(ds),
		Charts:       *set,
		ClassOptions: ClassOptions,
		MinRows:      MinRowsControl,
		MaxRows:      MaxRowsControl,
	}, nil
}

func tableRows(t dataset.Table, n int) TableRows {
	records := pipeline.Head(t, n)
	rows := make([][]dataset.Value, len(records))
	for i, rec := range records {
		rows[i] = rec.Values()
	}
	return TableRows{Columns: t.Schema().Names(), Rows: rows, Total: t.Len()}
}
