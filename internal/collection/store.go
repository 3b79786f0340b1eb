package collection

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/checkpad/internal/domain"
	syncstream "github.com/spec-kit/checkpad/internal/sync"
)

// Store owns the three entity collections and their feed subscriptions. It is
// created at application startup, passed by reference to whoever needs
// read/write access, and closed on shutdown.
type Store struct {
	Staff       *Collection[domain.Staff]
	Cases       *Collection[domain.MaintenanceCase]
	Assignments *Collection[domain.CaseStaffAssignment]

	remote Remote
	source syncstream.Source
	logger *zap.Logger

	mu      sync.Mutex
	cancels []func()
	wg      sync.WaitGroup
}

// NewStore wires a store against a remote CRUD surface and a change feed
// source.
func NewStore(remote Remote, source syncstream.Source, logger *zap.Logger) *Store {
	return &Store{
		Staff: New(syncstream.TableStaff, func(s domain.Staff) string {
			return s.ID
		}),
		Cases: New(syncstream.TableCases, func(c domain.MaintenanceCase) string {
			return c.ID
		}),
		Assignments: New(syncstream.TableAssignments, func(a domain.CaseStaffAssignment) string {
			return a.ID
		}),
		remote: remote,
		source: source,
		logger: logger,
	}
}

// Start subscribes every collection to its table feed. The feeds stay open
// until Close.
func (s *Store) Start(ctx context.Context) error {
	if err := subscribe(ctx, s, s.Staff); err != nil {
		s.Close()
		return err
	}
	if err := subscribe(ctx, s, s.Cases); err != nil {
		s.Close()
		return err
	}
	if err := subscribe(ctx, s, s.Assignments); err != nil {
		s.Close()
		return err
	}
	return nil
}

func subscribe[T any](ctx context.Context, s *Store, col *Collection[T]) error {
	events, cancel, err := s.source.Subscribe(ctx, col.Table())
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.cancels = append(s.cancels, cancel)
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for event := range events {
			if err := col.ApplyEvent(event); err != nil {
				s.logger.Warn("collection: dropping unreadable change event",
					zap.String("table", col.Table()), zap.Error(err))
			}
		}
	}()
	return nil
}

// Close cancels the subscriptions and waits for the apply loops to drain.
func (s *Store) Close() {
	s.mu.Lock()
	cancels := s.cancels
	s.cancels = nil
	s.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	s.wg.Wait()
}

// confirmMutation runs the pending-confirmed-failed lifecycle for a single
// entity mutation: the optimistic patch is already applied, call reaches the
// server, and the patch is retired once the collection sees the returned txid.
// Any failure rolls the patch back.
func confirmMutation[T any](ctx context.Context, col *Collection[T], m *Mutation[T], call func() (int64, error)) error {
	txid, err := call()
	if err != nil {
		m.Rollback()
		return err
	}
	if err := col.WaitForTx(ctx, txid); err != nil {
		m.Rollback()
		return err
	}
	m.Retire()
	return nil
}

// InsertStaff optimistically creates a staff record.
func (s *Store) InsertStaff(ctx context.Context, record domain.Staff) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	m := s.Staff.BeginInsert(record)
	return confirmMutation(ctx, s.Staff, m, func() (int64, error) {
		return s.remote.InsertStaff(ctx, record)
	})
}

// UpdateStaff optimistically replaces a staff record.
func (s *Store) UpdateStaff(ctx context.Context, record domain.Staff) error {
	m := s.Staff.BeginUpdate(record)
	return confirmMutation(ctx, s.Staff, m, func() (int64, error) {
		return s.remote.UpdateStaff(ctx, record)
	})
}

// DeleteStaff optimistically removes a staff record along with its
// assignments, which the server cascades under the same transaction.
func (s *Store) DeleteStaff(ctx context.Context, id string) error {
	muts := []*Mutation[domain.CaseStaffAssignment]{}
	for _, assignment := range s.Assignments.Snapshot() {
		if assignment.StaffID == id {
			muts = append(muts, s.Assignments.BeginDelete(assignment.ID))
		}
	}
	staffMut := s.Staff.BeginDelete(id)

	rollback := func() {
		staffMut.Rollback()
		for _, m := range muts {
			m.Rollback()
		}
	}

	txid, err := s.remote.DeleteStaff(ctx, id)
	if err != nil {
		rollback()
		return err
	}
	if err := s.Staff.WaitForTx(ctx, txid); err != nil {
		rollback()
		return err
	}
	if len(muts) > 0 {
		if err := s.Assignments.WaitForTx(ctx, txid); err != nil {
			rollback()
			return err
		}
	}
	staffMut.Retire()
	for _, m := range muts {
		m.Retire()
	}
	return nil
}

// InsertAssignment optimistically creates one assignment.
func (s *Store) InsertAssignment(ctx context.Context, record domain.CaseStaffAssignment) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	m := s.Assignments.BeginInsert(record)
	return confirmMutation(ctx, s.Assignments, m, func() (int64, error) {
		return s.remote.InsertAssignment(ctx, record)
	})
}

// DeleteAssignment optimistically removes one assignment.
func (s *Store) DeleteAssignment(ctx context.Context, id string) error {
	m := s.Assignments.BeginDelete(id)
	return confirmMutation(ctx, s.Assignments, m, func() (int64, error) {
		return s.remote.DeleteAssignment(ctx, id)
	})
}

// CreateCase optimistically creates a case together with its staff set. The
// server persists everything in one transaction; the wait is a join across
// both affected collections on that single txid.
func (s *Store) CreateCase(ctx context.Context, record domain.MaintenanceCase, staffIDs []string) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	caseMut := s.Cases.BeginInsert(record)
	assignmentMuts := s.beginAssignmentInserts(record.ID, staffIDs)

	return s.finishCaseWrite(ctx, caseMut, assignmentMuts, len(staffIDs) > 0, func() (int64, error) {
		return s.remote.InsertCase(ctx, record, staffIDs)
	})
}

// SaveCase optimistically updates a case's fields and reconciles its staff
// set. The diff against the locally known assignments yields one optimistic
// delete per removed pair and one optimistic insert per added pair; the server
// performs the same reconciliation inside the case update's transaction.
func (s *Store) SaveCase(ctx context.Context, record domain.MaintenanceCase, staffIDs []string) error {
	current := []string{}
	removedByStaff := map[string]string{}
	for _, assignment := range s.Assignments.Snapshot() {
		if assignment.CaseID != record.ID {
			continue
		}
		current = append(current, assignment.StaffID)
		removedByStaff[assignment.StaffID] = assignment.ID
	}
	toAdd, toRemove := domain.DiffStaffIDs(current, staffIDs)

	caseMut := s.Cases.BeginUpdate(record)
	assignmentMuts := s.beginAssignmentInserts(record.ID, toAdd)
	for _, staffID := range toRemove {
		assignmentMuts = append(assignmentMuts, s.Assignments.BeginDelete(removedByStaff[staffID]))
	}

	return s.finishCaseWrite(ctx, caseMut, assignmentMuts, len(toAdd)+len(toRemove) > 0, func() (int64, error) {
		return s.remote.UpdateCase(ctx, record, &staffIDs)
	})
}

// UpdateCase optimistically updates a case's fields without touching its
// staff set.
func (s *Store) UpdateCase(ctx context.Context, record domain.MaintenanceCase) error {
	m := s.Cases.BeginUpdate(record)
	return confirmMutation(ctx, s.Cases, m, func() (int64, error) {
		return s.remote.UpdateCase(ctx, record, nil)
	})
}

// DeleteCase optimistically removes a case and its assignments, which the
// server cascades under the same transaction.
func (s *Store) DeleteCase(ctx context.Context, id string) error {
	assignmentMuts := []*Mutation[domain.CaseStaffAssignment]{}
	for _, assignment := range s.Assignments.Snapshot() {
		if assignment.CaseID == id {
			assignmentMuts = append(assignmentMuts, s.Assignments.BeginDelete(assignment.ID))
		}
	}
	caseMut := s.Cases.BeginDelete(id)

	return s.finishCaseWrite(ctx, caseMut, assignmentMuts, len(assignmentMuts) > 0, func() (int64, error) {
		return s.remote.DeleteCase(ctx, id)
	})
}

func (s *Store) beginAssignmentInserts(caseID string, staffIDs []string) []*Mutation[domain.CaseStaffAssignment] {
	now := time.Now().UTC()
	muts := make([]*Mutation[domain.CaseStaffAssignment], 0, len(staffIDs))
	for _, staffID := range staffIDs {
		muts = append(muts, s.Assignments.BeginInsert(domain.CaseStaffAssignment{
			ID:         uuid.NewString(),
			CaseID:     caseID,
			StaffID:    staffID,
			AssignedAt: now,
			AssignedBy: "system",
			CreatedAt:  now,
			UpdatedAt:  now,
		}))
	}
	return muts
}

// finishCaseWrite completes a composite case mutation: one remote call, then a
// join on the returned txid across every collection the write touched, then
// retirement of all patches. Any failure rolls every patch back.
func (s *Store) finishCaseWrite(ctx context.Context, caseMut *Mutation[domain.MaintenanceCase], assignmentMuts []*Mutation[domain.CaseStaffAssignment], assignmentsTouched bool, call func() (int64, error)) error {
	rollback := func() {
		caseMut.Rollback()
		for _, m := range assignmentMuts {
			m.Rollback()
		}
	}

	txid, err := call()
	if err != nil {
		rollback()
		return err
	}
	if err := s.Cases.WaitForTx(ctx, txid); err != nil {
		rollback()
		return err
	}
	if assignmentsTouched {
		if err := s.Assignments.WaitForTx(ctx, txid); err != nil {
			rollback()
			return err
		}
	}

	caseMut.Retire()
	for _, m := range assignmentMuts {
		m.Retire()
	}
	return nil
}
