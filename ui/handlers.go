package ui

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"titanicdash/domain/dataset"
	"titanicdash/internal/charts"
	"titanicdash/internal/errors"
	"titanicdash/internal/pipeline"
	"titanicdash/internal/session"
)

// handleIndex renders the dashboard page for the session's widget state
func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	ds, st, err := a.prepare(r, queryUpdate(r))
	if err != nil {
		a.renderError(w, err)
		return
	}
	dash, err := a.dashboard(ds, st)
	if err != nil {
		a.renderError(w, err)
		return
	}
	a.renderTemplate(w, "dashboard.html", dash)
}

func (a *App) renderError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		a.logger.Error("page failed: %v", err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if execErr := a.templates.ExecuteTemplate(w, "error.html", map[string]interface{}{
		"Title":  a.config.Title,
		"Status": status,
		"Code":   errors.GetCode(err),
		"Error":  err.Error(),
	}); execErr != nil {
		a.logger.Warn("error page failed: %v", execErr)
	}
}

// handleSummary returns the column, categorical, survival and describe tables
func (a *App) handleSummary(w http.ResponseWriter, r *http.Request) {
	ds, _, err := a.prepare(r, nil)
	if err != nil {
		a.writeError(w, err)
		return
	}
	s, err := a.summary(ds)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, s)
}

// handleCharts returns chart specs for the current widget state
func (a *App) handleCharts(w http.ResponseWriter, r *http.Request) {
	ds, st, err := a.prepare(r, queryUpdate(r))
	if err != nil {
		a.writeError(w, err)
		return
	}
	set, err := a.chartSet(ds, st)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, set)
}

// handleHead returns the first n records; n is clamped, never rejected
func (a *App) handleHead(w http.ResponseWriter, r *http.Request) {
	ds, st, err := a.prepare(r, func(st *session.WidgetState, _ AgeBounds) error {
		n, ok, err := parseIntParam(r, "n")
		if err != nil {
			return err
		}
		if ok {
			st.Rows = n
		}
		return nil
	})
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"n":    st.Rows,
		"head": tableRows(ds, st.Rows),
	})
}

// handleFilterClass selects a passenger class and returns its rows and age
// histogram
func (a *App) handleFilterClass(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "class")
	ds, st, err := a.prepare(r, func(st *session.WidgetState, _ AgeBounds) error {
		class, err := strconv.Atoi(raw)
		if err != nil {
			return errors.InvalidInput("class must be an integer")
		}
		return setClass(st, class)
	})
	if err != nil {
		a.writeError(w, err)
		return
	}

	view, err := a.classView(ds, st.Class)
	if err != nil {
		a.writeError(w, err)
		return
	}
	hist, err := pipeline.AgeHistogram(view, a.pipeline.Roles(), a.config.HistogramBins)
	if err != nil {
		a.writeError(w, err)
		return
	}
	groups, err := pipeline.CountAgeGroups(view)
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"class":      st.Class,
		"count":      view.Len(),
		"rows":       tableRows(view, st.Rows),
		"age_groups": groups,
		"chart":      charts.ClassAgeDistribution(hist, st.Class),
	})
}

// handleFilterAge selects an age range and returns the age group counts in it
func (a *App) handleFilterAge(w http.ResponseWriter, r *http.Request) {
	ds, st, err := a.prepare(r, ageUpdate(r, "min", "max"))
	if err != nil {
		a.writeError(w, err)
		return
	}

	view, err := a.ageView(ds, st)
	if err != nil {
		a.writeError(w, err)
		return
	}
	groups, err := pipeline.CountAgeGroups(view)
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"min":        st.AgeMin,
		"max":        st.AgeMax,
		"count":      view.Len(),
		"age_groups": groups,
		"chart":      charts.AgeGroupCounts(groups, st.AgeMin, st.AgeMax),
	})
}

// handleExport downloads the records selected by scope: the chosen class
// (default), the chosen age range, or everything.
func (a *App) handleExport(w http.ResponseWriter, r *http.Request) {
	ds, st, err := a.prepare(r, queryUpdate(r))
	if err != nil {
		a.writeError(w, err)
		return
	}

	var (
		table dataset.Table
		sheet string
	)
	switch scope := r.URL.Query().Get("scope"); scope {
	case "", "class":
		table, err = a.classView(ds, st.Class)
		sheet = fmt.Sprintf("class %d", st.Class)
	case "age":
		table, err = a.ageView(ds, st)
		sheet = fmt.Sprintf("ages %g-%g", st.AgeMin, st.AgeMax)
	case "all":
		table, sheet = ds, "passengers"
	default:
		err = errors.InvalidInput("scope must be class, age or all")
	}
	if err != nil {
		a.writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := a.exporter.Export(&buf, table, sheet); err != nil {
		a.writeError(w, errors.Wrap(err, "export failed"))
		return
	}

	filename := fmt.Sprintf("passengers-%s.xlsx", time.Now().Format("20060102-150405"))
	w.Header().Set("Content-Type", a.exporter.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		a.logger.Warn("error writing export: %v", err)
	}
}

func (a *App) handleNotFound(w http.ResponseWriter, r *http.Request) {
	a.writeError(w, errors.NotFound("route "+r.URL.Path))
}

// handleHealth reports liveness; it never triggers a load
func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"sessions": a.sessions.Len(),
	})
}
