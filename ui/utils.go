package ui

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"titanicdash/internal/errors"
)

// errorResponse is the JSON body of every failed API call
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (a *App) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		a.logger.Warn("error encoding response: %v", err)
	}
}

// writeError maps domain and application errors to a status code. Load
// failures are logged since they end the session's usefulness.
func (a *App) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		a.logger.Error("request failed: %v", err)
	}
	a.writeJSON(w, status, errorResponse{Error: err.Error(), Code: errors.GetCode(err)})
}

// parseIntParam reads an optional integer query parameter
func parseIntParam(r *http.Request, name string) (int, bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, errors.InvalidInput(name + " must be an integer")
	}
	return v, true, nil
}

// parseFloatParam reads an optional numeric query parameter
func parseFloatParam(r *http.Request, name string) (float64, bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, errors.InvalidInput(name + " must be a number")
	}
	return v, true, nil
}
