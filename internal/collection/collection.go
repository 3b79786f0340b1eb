// Package collection holds the client side of the sync contract: in-memory
// views of the server tables that apply edits optimistically, send them to the
// CRUD endpoints, and retire the optimistic patches once the change stream
// delivers the matching transaction id.
package collection

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	syncstream "github.com/spec-kit/checkpad/internal/sync"
)

// Collection is the eventually consistent local view of one server table.
// Reads see the confirmed base state overlaid with the not-yet-retired pending
// patches in submission order. The server copy is authoritative; this cache
// never is.
type Collection[T any] struct {
	table string
	key   func(T) string

	mu        sync.Mutex
	confirmed map[string]T
	pending   []*Mutation[T]
	seenTx    map[int64]struct{}
	waiters   map[int64][]chan struct{}
}

// New builds an empty collection for the named table. key extracts a record's
// identity.
func New[T any](table string, key func(T) string) *Collection[T] {
	return &Collection[T]{
		table:     table,
		key:       key,
		confirmed: make(map[string]T),
		seenTx:    make(map[int64]struct{}),
		waiters:   make(map[int64][]chan struct{}),
	}
}

// Table returns the server table this collection mirrors.
func (c *Collection[T]) Table() string {
	return c.table
}

// BeginInsert applies an optimistic insert and returns its mutation handle.
func (c *Collection[T]) BeginInsert(record T) *Mutation[T] {
	return c.begin(opInsert, c.key(record), record)
}

// BeginUpdate applies an optimistic full-record update.
func (c *Collection[T]) BeginUpdate(record T) *Mutation[T] {
	return c.begin(opUpdate, c.key(record), record)
}

// BeginDelete applies an optimistic delete.
func (c *Collection[T]) BeginDelete(id string) *Mutation[T] {
	var zero T
	return c.begin(opDelete, id, zero)
}

func (c *Collection[T]) begin(op mutationOp, key string, record T) *Mutation[T] {
	m := newMutation(c, op, key, record)
	c.mu.Lock()
	c.pending = append(c.pending, m)
	c.mu.Unlock()
	return m
}

func (c *Collection[T]) drop(m *Mutation[T]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, candidate := range c.pending {
		if candidate == m {
			c.pending = append(c.pending[:i], c.pending[i+1:]...)
			return
		}
	}
}

// ApplyEvent folds one authoritative change into the confirmed state and
// releases any waiter blocked on the event's transaction id. Applying the same
// event twice is harmless; inserts and updates are both upserts here.
func (c *Collection[T]) ApplyEvent(event syncstream.ChangeEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch event.Op {
	case syncstream.OpInsert, syncstream.OpUpdate:
		var record T
		if err := json.Unmarshal(event.Record, &record); err != nil {
			return err
		}
		c.confirmed[c.key(record)] = record
	case syncstream.OpDelete:
		var deleted syncstream.DeletedRecord
		if err := json.Unmarshal(event.Record, &deleted); err != nil {
			return err
		}
		delete(c.confirmed, deleted.ID)
	}

	if event.TxID > 0 {
		c.seenTx[event.TxID] = struct{}{}
		for _, waiter := range c.waiters[event.TxID] {
			close(waiter)
		}
		delete(c.waiters, event.TxID)
	}
	return nil
}

// WaitForTx blocks until a change tagged with txid has been applied, or the
// context ends.
func (c *Collection[T]) WaitForTx(ctx context.Context, txid int64) error {
	c.mu.Lock()
	if _, ok := c.seenTx[txid]; ok {
		c.mu.Unlock()
		return nil
	}
	waiter := make(chan struct{})
	c.waiters[txid] = append(c.waiters[txid], waiter)
	c.mu.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-waiter:
		return nil
	}
}

// Get returns the record as the overlaid view sees it.
func (c *Collection[T]) Get(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	record, ok := c.confirmed[id]
	for _, m := range c.pending {
		if m.key != id {
			continue
		}
		switch m.op {
		case opInsert, opUpdate:
			record, ok = m.record, true
		case opDelete:
			var zero T
			record, ok = zero, false
		}
	}
	return record, ok
}

// Snapshot returns the overlaid view of every record, ordered by key.
func (c *Collection[T]) Snapshot() []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	view := make(map[string]T, len(c.confirmed))
	for id, record := range c.confirmed {
		view[id] = record
	}
	for _, m := range c.pending {
		switch m.op {
		case opInsert, opUpdate:
			view[m.key] = m.record
		case opDelete:
			delete(view, m.key)
		}
	}

	keys := make([]string, 0, len(view))
	for id := range view {
		keys = append(keys, id)
	}
	sort.Strings(keys)

	records := make([]T, 0, len(keys))
	for _, id := range keys {
		records = append(records, view[id])
	}
	return records
}

// PendingCount reports how many optimistic patches are still outstanding.
func (c *Collection[T]) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}
