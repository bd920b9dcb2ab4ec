package core

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampRendersUTC(t *testing.T) {
	zone := time.FixedZone("UTC+2", 2*60*60)
	ts := Timestamp(time.Date(2024, 4, 15, 2, 20, 0, 0, zone))

	assert.Equal(t, "2024-04-15T00:20:00Z", ts.String())

	data, err := json.Marshal(map[string]Timestamp{"loaded_at": ts})
	require.NoError(t, err)
	assert.JSONEq(t, `{"loaded_at":"2024-04-15T00:20:00Z"}`, string(data))
}
