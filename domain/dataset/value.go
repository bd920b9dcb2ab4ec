package dataset

import (
	"encoding/json"
	"math"
	"strconv"
)

// ValueType defines the storage type for a cell
type ValueType string

const (
	ValueTypeString  ValueType = "string"
	ValueTypeNumeric ValueType = "numeric"
	ValueTypeBoolean ValueType = "boolean"
	ValueTypeMissing ValueType = "missing"
)

// Value represents one typed cell. The zero Value is missing.
type Value struct {
	Type       ValueType `json:"type"`
	StringVal  *string   `json:"string_val,omitempty"`
	NumericVal *float64  `json:"numeric_val,omitempty"`
	BooleanVal *bool     `json:"boolean_val,omitempty"`
	IsMissing  bool      `json:"is_missing"`
}

// NewStringValue creates a string value; the empty string is missing.
func NewStringValue(s string) Value {
	if s == "" {
		return NewMissingValue()
	}
	return Value{Type: ValueTypeString, StringVal: &s}
}

// NewNumericValue creates a numeric value; NaN and infinities are missing.
func NewNumericValue(n float64) Value {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return NewMissingValue()
	}
	return Value{Type: ValueTypeNumeric, NumericVal: &n}
}

// NewBooleanValue creates a boolean value
func NewBooleanValue(b bool) Value {
	return Value{Type: ValueTypeBoolean, BooleanVal: &b}
}

// NewMissingValue creates a missing value
func NewMissingValue() Value {
	return Value{Type: ValueTypeMissing, IsMissing: true}
}

// Missing reports whether the cell holds no value.
func (v Value) Missing() bool {
	return v.IsMissing || v.Type == ValueTypeMissing || v.Type == ""
}

// IsNumeric returns true if the value represents a valid number
func (v Value) IsNumeric() bool {
	return v.Type == ValueTypeNumeric && v.NumericVal != nil
}

// IsString returns true if the value represents a valid string
func (v Value) IsString() bool {
	return v.Type == ValueTypeString && v.StringVal != nil
}

// IsBoolean returns true if the value represents a valid boolean
func (v Value) IsBoolean() bool {
	return v.Type == ValueTypeBoolean && v.BooleanVal != nil
}

// Float returns the numeric value and whether the cell is numeric.
// Booleans read as 0/1 so survival flags can feed numeric summaries.
func (v Value) Float() (float64, bool) {
	switch {
	case v.IsNumeric():
		return *v.NumericVal, true
	case v.IsBoolean():
		if *v.BooleanVal {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// AsString returns the string value, or empty string if not a string
func (v Value) AsString() string {
	if v.StringVal != nil {
		return *v.StringVal
	}
	return ""
}

// AsBoolean returns the boolean value, or false if not a boolean
func (v Value) AsBoolean() bool {
	if v.BooleanVal != nil {
		return *v.BooleanVal
	}
	return false
}

// Equal is strict typed equality. Missing equals nothing, itself included,
// and a numeric 2 never equals the string "2".
func (v Value) Equal(other Value) bool {
	if v.Missing() || other.Missing() || v.Type != other.Type {
		return false
	}
	switch v.Type {
	case ValueTypeString:
		return v.AsString() == other.AsString()
	case ValueTypeNumeric:
		return *v.NumericVal == *other.NumericVal
	case ValueTypeBoolean:
		return v.AsBoolean() == other.AsBoolean()
	}
	return false
}

// Key returns a type-qualified identity used for distinct counting and modes.
func (v Value) Key() string {
	if v.Missing() {
		return ""
	}
	return string(v.Type) + ":" + v.String()
}

// String returns the string representation of the value
func (v Value) String() string {
	switch v.Type {
	case ValueTypeString:
		if v.StringVal != nil {
			return *v.StringVal
		}
	case ValueTypeNumeric:
		if v.NumericVal != nil {
			return strconv.FormatFloat(*v.NumericVal, 'f', -1, 64)
		}
	case ValueTypeBoolean:
		if v.BooleanVal != nil {
			return strconv.FormatBool(*v.BooleanVal)
		}
	}
	return "<missing>"
}

// Display renders the value for a table cell: flags as 0/1 like the source
// file, missing cells as NoDataLabel.
func (v Value) Display() string {
	switch {
	case v.Missing():
		return NoDataLabel
	case v.IsBoolean():
		if v.AsBoolean() {
			return "1"
		}
		return "0"
	}
	return v.String()
}

// MarshalJSON renders the bare cell: number, string, bool or null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch {
	case v.IsNumeric():
		return json.Marshal(*v.NumericVal)
	case v.IsString():
		return json.Marshal(*v.StringVal)
	case v.IsBoolean():
		return json.Marshal(*v.BooleanVal)
	}
	return []byte("null"), nil
}
