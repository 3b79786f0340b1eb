package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldUnmarshalPresence(t *testing.T) {
	var body struct {
		Name  Field[string]  `json:"name"`
		Rate  Field[float64] `json:"rate"`
		Phone Field[string]  `json:"phone"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"name":"Julia","phone":null}`), &body))

	assert.True(t, body.Name.Set)
	assert.False(t, body.Name.Null)
	assert.Equal(t, "Julia", body.Name.Value)

	// Absent key.
	assert.False(t, body.Rate.Set)

	// Explicit null.
	assert.True(t, body.Phone.Set)
	assert.True(t, body.Phone.Null)
}

func TestFieldMarshalRoundTrip(t *testing.T) {
	set := Field[string]{Set: true, Value: "x"}
	data, err := json.Marshal(set)
	require.NoError(t, err)
	assert.Equal(t, `"x"`, string(data))

	null := Field[string]{Set: true, Null: true}
	data, err = json.Marshal(null)
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestParseTimestampLayouts(t *testing.T) {
	for _, value := range []string{
		"2025-01-10T08:00:00.123Z",
		"2025-01-10T08:00:00Z",
		"2025-01-10T08:00:00",
		"2025-01-10",
	} {
		ts, err := parseTimestamp("plannedStart", value)
		require.NoError(t, err, value)
		assert.Equal(t, 2025, ts.Year())
	}
}

func TestParseTimestampRejectsGarbage(t *testing.T) {
	_, err := parseTimestamp("plannedStart", "next tuesday")
	assert.Error(t, err)
}
