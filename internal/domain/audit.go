package domain

import (
	"reflect"
	"time"
)

// AuditEntry records a column-level before/after value for a tracked table.
type AuditEntry struct {
	ID         int64     `json:"id"`
	TableName  string    `json:"tableName"`
	RecordID   string    `json:"recordId"`
	ColumnName string    `json:"columnName"`
	OldValue   any       `json:"oldValue"`
	NewValue   any       `json:"newValue"`
	ChangedBy  *string   `json:"changedBy"`
	ChangedAt  time.Time `json:"changedAt"`
}

// ColumnChange is one column's before/after pair within an update.
type ColumnChange struct {
	Column string
	Old    any
	New    any
}

// Changed reports whether the update actually alters the stored value.
// Timestamps compare by instant so that equal times in different locations do
// not produce spurious audit rows.
func (c ColumnChange) Changed() bool {
	if oldT, ok := asTime(c.Old); ok {
		if newT, ok := asTime(c.New); ok {
			return !oldT.Equal(newT)
		}
		return true
	}
	return !reflect.DeepEqual(c.Old, c.New)
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	default:
		return time.Time{}, false
	}
}

// AuditChanges maps effective column changes onto audit entries for one record.
func AuditChanges(table, recordID string, changedBy *string, changes []ColumnChange) []AuditEntry {
	var entries []AuditEntry
	for _, change := range changes {
		if !change.Changed() {
			continue
		}
		entries = append(entries, AuditEntry{
			TableName:  table,
			RecordID:   recordID,
			ColumnName: change.Column,
			OldValue:   change.Old,
			NewValue:   change.New,
			ChangedBy:  changedBy,
		})
	}
	return entries
}
