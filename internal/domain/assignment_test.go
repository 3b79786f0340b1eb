package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiffStaffIDs(t *testing.T) {
	toAdd, toRemove := DiffStaffIDs(
		[]string{"a", "b", "c"},
		[]string{"b", "c", "d"},
	)
	assert.Equal(t, []string{"d"}, toAdd)
	assert.Equal(t, []string{"a"}, toRemove)
}

func TestDiffStaffIDsNoChange(t *testing.T) {
	toAdd, toRemove := DiffStaffIDs([]string{"a", "b"}, []string{"a", "b"})
	assert.Empty(t, toAdd)
	assert.Empty(t, toRemove)
}

func TestDiffStaffIDsFromEmpty(t *testing.T) {
	toAdd, toRemove := DiffStaffIDs(nil, []string{"a"})
	assert.Equal(t, []string{"a"}, toAdd)
	assert.Empty(t, toRemove)
}

func TestDiffStaffIDsToEmpty(t *testing.T) {
	toAdd, toRemove := DiffStaffIDs([]string{"a", "b"}, nil)
	assert.Empty(t, toAdd)
	assert.Equal(t, []string{"a", "b"}, toRemove)
}
