package collection

import "github.com/google/uuid"

// State tracks one optimistic mutation through its lifecycle.
type State int

const (
	// StatePending means the patch is applied locally but not yet confirmed.
	StatePending State = iota
	// StateConfirmed means the change stream delivered the mutation's
	// transaction id and the patch has been retired.
	StateConfirmed
	// StateFailed means the remote call was rejected and the patch was
	// rolled back.
	StateFailed
)

type mutationOp int

const (
	opInsert mutationOp = iota
	opUpdate
	opDelete
)

// Mutation is the handle for one optimistic patch. The patch takes effect the
// moment it is begun; Retire and Rollback both remove it from the overlay, the
// difference being whether the confirmed base state now carries the change.
type Mutation[T any] struct {
	ID string

	col    *Collection[T]
	op     mutationOp
	key    string
	record T
	state  State
}

func newMutation[T any](col *Collection[T], op mutationOp, key string, record T) *Mutation[T] {
	return &Mutation[T]{
		ID:     uuid.NewString(),
		col:    col,
		op:     op,
		key:    key,
		record: record,
		state:  StatePending,
	}
}

// State reports the mutation's current lifecycle state.
func (m *Mutation[T]) State() State {
	return m.state
}

// Retire discards the patch after confirmation; the synced base state already
// supersedes it.
func (m *Mutation[T]) Retire() {
	if m.state != StatePending {
		return
	}
	m.state = StateConfirmed
	m.col.drop(m)
}

// Rollback discards the patch after a failed remote call, restoring the view
// to the pre-mutation state.
func (m *Mutation[T]) Rollback() {
	if m.state != StatePending {
		return
	}
	m.state = StateFailed
	m.col.drop(m)
}
