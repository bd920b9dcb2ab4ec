package core

import (
	"encoding/json"
	"time"
)

// Timestamp marks when something happened, rendered in UTC
type Timestamp time.Time

// Now returns the current time as a Timestamp
func Now() Timestamp {
	return Timestamp(time.Now())
}

func (t Timestamp) String() string {
	return time.Time(t).UTC().Format(time.RFC3339)
}

// MarshalJSON encodes the same RFC3339 text String shows.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}
