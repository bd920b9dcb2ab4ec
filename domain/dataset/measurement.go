package dataset

import (
	"encoding/json"
	"strconv"
)

// NoDataLabel is shown wherever a statistic has no defined value.
const NoDataLabel = "no data"

// Measurement is a statistic that may be undefined, e.g. the mean of zero
// observations. It never carries NaN.
type Measurement struct {
	Value float64
	Valid bool
}

// Measured wraps a defined statistic.
func Measured(v float64) Measurement {
	return Measurement{Value: v, Valid: true}
}

// NoData is the undefined statistic.
func NoData() Measurement {
	return Measurement{}
}

// Float returns the value and whether it is defined.
func (m Measurement) Float() (float64, bool) {
	return m.Value, m.Valid
}

// Format renders the value with the given precision, or NoDataLabel.
func (m Measurement) Format(prec int) string {
	if !m.Valid {
		return NoDataLabel
	}
	return strconv.FormatFloat(m.Value, 'f', prec, 64)
}

func (m Measurement) String() string {
	return m.Format(2)
}

// MarshalJSON encodes undefined statistics as null.
func (m Measurement) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

// UnmarshalJSON accepts a number or null.
func (m *Measurement) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = NoData()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = Measured(v)
	return nil
}
