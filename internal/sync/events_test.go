package sync

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKnownTable(t *testing.T) {
	assert.True(t, KnownTable(TableStaff))
	assert.True(t, KnownTable(TableCases))
	assert.True(t, KnownTable(TableAssignments))
	assert.False(t, KnownTable("tickets"))
	assert.False(t, KnownTable(""))
}

func TestNewChangeEventCarriesRecord(t *testing.T) {
	event, err := NewChangeEvent(TableStaff, OpUpdate, 42, map[string]string{"id": "s1"})
	require.NoError(t, err)

	assert.Equal(t, TableStaff, event.Table)
	assert.Equal(t, OpUpdate, event.Op)
	assert.EqualValues(t, 42, event.TxID)
	assert.False(t, event.Timestamp.IsZero())

	var record map[string]string
	require.NoError(t, json.Unmarshal(event.Record, &record))
	assert.Equal(t, "s1", record["id"])
}

func TestChangeEventRoundTrip(t *testing.T) {
	event, err := NewChangeEvent(TableAssignments, OpDelete, 7, DeletedRecord{ID: "a1"})
	require.NoError(t, err)

	payload, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded ChangeEvent
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, event.Table, decoded.Table)
	assert.Equal(t, event.TxID, decoded.TxID)

	var deleted DeletedRecord
	require.NoError(t, json.Unmarshal(decoded.Record, &deleted))
	assert.Equal(t, "a1", deleted.ID)
}
