package coercer

import (
	"math"
	"strconv"
	"strings"

	"titanicdash/domain/dataset"
)

// TypeCoercer infers column types and converts raw cells deterministically
type TypeCoercer struct {
	config  CoercionConfig
	missing map[string]bool
}

// CoercionConfig defines the coercion thresholds and rules
type CoercionConfig struct {
	NumericThreshold float64  `json:"numeric_threshold"` // share of present values that must parse as numbers
	BooleanThreshold float64  `json:"boolean_threshold"` // share of present values that must parse as booleans
	MissingTokens    []string `json:"missing_tokens"`    // cells read as missing, compared case-insensitively
}

// DefaultCoercionConfig returns the defaults used for CSV sources
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		NumericThreshold: 1.0,
		BooleanThreshold: 1.0,
		MissingTokens:    []string{"", "na", "n/a", "nan", "null", "none", "#n/a"},
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	missing := make(map[string]bool, len(config.MissingTokens))
	for _, tok := range config.MissingTokens {
		missing[strings.ToLower(strings.TrimSpace(tok))] = true
	}
	return &TypeCoercer{config: config, missing: missing}
}

// IsMissing reports whether a raw cell denotes a missing value
func (c *TypeCoercer) IsMissing(raw string) bool {
	return c.missing[strings.ToLower(strings.TrimSpace(raw))]
}

// InferColumnType picks the semantic type for a column of raw cells.
// Textual booleans become boolean, all-numeric columns become numeric and
// everything else is categorical. A column with no present values is numeric,
// matching how an all-empty column reads as floats.
func (c *TypeCoercer) InferColumnType(values []string) dataset.ColumnType {
	analysis := c.AnalyzeTypeDistribution(values)

	if analysis.ValidCount == 0 {
		return dataset.ColumnNumeric
	}
	if analysis.TextualBooleanRatio >= c.config.BooleanThreshold {
		return dataset.ColumnBoolean
	}
	if analysis.NumericRatio >= c.config.NumericThreshold {
		return dataset.ColumnNumeric
	}
	return dataset.ColumnCategorical
}

// CoerceValue converts one raw cell to a typed value for a column of type t.
// Cells that cannot be read as t are missing.
func (c *TypeCoercer) CoerceValue(raw string, t dataset.ColumnType) dataset.Value {
	if c.IsMissing(raw) {
		return dataset.NewMissingValue()
	}
	s := strings.TrimSpace(raw)

	switch t {
	case dataset.ColumnNumeric:
		if n, ok := parseNumeric(s); ok {
			return dataset.NewNumericValue(n)
		}
		return dataset.NewMissingValue()
	case dataset.ColumnOrdinal:
		if n, ok := parseNumeric(s); ok {
			return dataset.NewNumericValue(n)
		}
		return dataset.NewStringValue(s)
	case dataset.ColumnBoolean:
		if b, ok := parseBoolean(s); ok {
			return dataset.NewBooleanValue(b)
		}
		return dataset.NewMissingValue()
	}
	return dataset.NewStringValue(s)
}

// AnalyzeTypeDistribution counts how many present values parse as each type
func (c *TypeCoercer) AnalyzeTypeDistribution(values []string) TypeAnalysis {
	analysis := TypeAnalysis{TotalCount: len(values)}

	for _, raw := range values {
		if c.IsMissing(raw) {
			continue
		}
		analysis.ValidCount++
		s := strings.TrimSpace(raw)
		if _, ok := parseNumeric(s); ok {
			analysis.NumericCount++
		}
		if isTextualBoolean(s) {
			analysis.TextualBooleanCount++
		}
	}

	if analysis.ValidCount > 0 {
		analysis.NumericRatio = float64(analysis.NumericCount) / float64(analysis.ValidCount)
		analysis.TextualBooleanRatio = float64(analysis.TextualBooleanCount) / float64(analysis.ValidCount)
	}
	return analysis
}

// TypeAnalysis contains the results of type distribution analysis
type TypeAnalysis struct {
	TotalCount          int     `json:"total_count"`
	ValidCount          int     `json:"valid_count"`
	NumericCount        int     `json:"numeric_count"`
	TextualBooleanCount int     `json:"textual_boolean_count"`
	NumericRatio        float64 `json:"numeric_ratio"`
	TextualBooleanRatio float64 `json:"textual_boolean_ratio"`
}

func parseNumeric(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

func parseBoolean(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "true", "1", "1.0", "yes", "y":
		return true, true
	case "false", "0", "0.0", "no", "n":
		return false, true
	}
	return false, false
}

func isTextualBoolean(s string) bool {
	switch strings.ToLower(s) {
	case "true", "false", "yes", "no":
		return true
	}
	return false
}
