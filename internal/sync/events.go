// Package sync carries authoritative row changes from the server to connected
// clients. Every committed mutation is published as a per-table ChangeEvent
// tagged with the transaction id the CRUD response handed back, which is how a
// client knows its own write has propagated.
package sync

import (
	"encoding/json"
	"time"
)

// Table names carried on the change stream.
const (
	TableStaff       = "staff"
	TableCases       = "maintenance_cases"
	TableAssignments = "maintenance_case_staff"
)

// Op enumerates row change kinds.
type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// ChangeEvent is one authoritative row change. Record holds the full row for
// inserts and updates and only the id for deletes. Snapshot events replayed to
// a fresh subscriber carry TxID 0.
type ChangeEvent struct {
	Table     string          `json:"table"`
	Op        Op              `json:"op"`
	TxID      int64           `json:"txid"`
	Record    json.RawMessage `json:"record"`
	Timestamp time.Time       `json:"ts"`
}

// KnownTable reports whether the change stream serves the given table.
func KnownTable(table string) bool {
	switch table {
	case TableStaff, TableCases, TableAssignments:
		return true
	}
	return false
}

// NewChangeEvent marshals the record into an event, stamping the current time.
func NewChangeEvent(table string, op Op, txid int64, record any) (ChangeEvent, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return ChangeEvent{}, err
	}
	return ChangeEvent{
		Table:     table,
		Op:        op,
		TxID:      txid,
		Record:    raw,
		Timestamp: time.Now().UTC(),
	}, nil
}

// DeletedRecord is the minimal record payload for delete events.
type DeletedRecord struct {
	ID string `json:"id"`
}
