package collection

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/checkpad/internal/domain"
	syncstream "github.com/spec-kit/checkpad/internal/sync"
)

// fakeRemote answers every CRUD call with a scripted txid or error. The apply
// hook stands in for the server's change stream: on success it folds the
// events the real server would publish straight into the store's collections.
type fakeRemote struct {
	txid  int64
	err   error
	apply func(txid int64)

	mu    sync.Mutex
	calls []string
}

func (r *fakeRemote) respond(call string) (int64, error) {
	r.mu.Lock()
	r.calls = append(r.calls, call)
	r.mu.Unlock()

	if r.err != nil {
		return 0, r.err
	}
	if r.apply != nil {
		r.apply(r.txid)
	}
	return r.txid, nil
}

func (r *fakeRemote) InsertStaff(ctx context.Context, record domain.Staff) (int64, error) {
	return r.respond("insert staff")
}

func (r *fakeRemote) UpdateStaff(ctx context.Context, record domain.Staff) (int64, error) {
	return r.respond("update staff")
}

func (r *fakeRemote) DeleteStaff(ctx context.Context, id string) (int64, error) {
	return r.respond("delete staff")
}

func (r *fakeRemote) InsertCase(ctx context.Context, record domain.MaintenanceCase, staffIDs []string) (int64, error) {
	return r.respond("insert case")
}

func (r *fakeRemote) UpdateCase(ctx context.Context, record domain.MaintenanceCase, staffIDs *[]string) (int64, error) {
	return r.respond("update case")
}

func (r *fakeRemote) DeleteCase(ctx context.Context, id string) (int64, error) {
	return r.respond("delete case")
}

func (r *fakeRemote) InsertAssignment(ctx context.Context, record domain.CaseStaffAssignment) (int64, error) {
	return r.respond("insert assignment")
}

func (r *fakeRemote) DeleteAssignment(ctx context.Context, id string) (int64, error) {
	return r.respond("delete assignment")
}

// fakeSource is a channel-backed stand-in for the server's change feed.
type fakeSource struct {
	mu    sync.Mutex
	feeds map[string]chan syncstream.ChangeEvent
}

func newFakeSource() *fakeSource {
	return &fakeSource{feeds: map[string]chan syncstream.ChangeEvent{}}
}

func (s *fakeSource) Subscribe(ctx context.Context, table string) (<-chan syncstream.ChangeEvent, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	feed := make(chan syncstream.ChangeEvent, 16)
	s.feeds[table] = feed
	return feed, func() { close(feed) }, nil
}

func (s *fakeSource) publish(t *testing.T, table string, op syncstream.Op, txid int64, record any) {
	t.Helper()
	event, err := syncstream.NewChangeEvent(table, op, txid, record)
	require.NoError(t, err)
	s.mu.Lock()
	feed := s.feeds[table]
	s.mu.Unlock()
	feed <- event
}

func newTestStore(remote Remote) *Store {
	return NewStore(remote, newFakeSource(), zap.NewNop())
}

func applyStaffInsert(t *testing.T, store *Store, txid int64, record domain.Staff) {
	t.Helper()
	require.NoError(t, store.Staff.ApplyEvent(mustEvent(t, syncstream.TableStaff, syncstream.OpInsert, txid, record)))
}

func applyAssignmentInsert(t *testing.T, store *Store, txid int64, record domain.CaseStaffAssignment) {
	t.Helper()
	require.NoError(t, store.Assignments.ApplyEvent(mustEvent(t, syncstream.TableAssignments, syncstream.OpInsert, txid, record)))
}

func TestInsertStaffConfirms(t *testing.T) {
	remote := &fakeRemote{txid: 100}
	store := newTestStore(remote)
	remote.apply = func(txid int64) {
		applyStaffInsert(t, store, txid, domain.Staff{ID: "s1", FirstName: "Julia"})
	}

	err := store.InsertStaff(context.Background(), domain.Staff{ID: "s1", FirstName: "Julia"})
	require.NoError(t, err)

	got, ok := store.Staff.Get("s1")
	require.True(t, ok)
	assert.Equal(t, "Julia", got.FirstName)
	assert.Zero(t, store.Staff.PendingCount())
}

func TestInsertStaffRollsBackOnRemoteFailure(t *testing.T) {
	remote := &fakeRemote{err: errors.New("boom")}
	store := newTestStore(remote)

	err := store.InsertStaff(context.Background(), domain.Staff{ID: "s1"})
	require.Error(t, err)

	_, ok := store.Staff.Get("s1")
	assert.False(t, ok)
	assert.Zero(t, store.Staff.PendingCount())
}

func TestSaveCaseReconcilesAssignments(t *testing.T) {
	remote := &fakeRemote{txid: 200}
	store := newTestStore(remote)

	mc := domain.MaintenanceCase{ID: "c1", Name: "Generator oil change"}
	require.NoError(t, store.Cases.ApplyEvent(mustEvent(t, syncstream.TableCases, syncstream.OpInsert, 0, mc)))
	applyAssignmentInsert(t, store, 0, domain.CaseStaffAssignment{ID: "a1", CaseID: "c1", StaffID: "s1"})
	applyAssignmentInsert(t, store, 0, domain.CaseStaffAssignment{ID: "a2", CaseID: "c1", StaffID: "s2"})

	mc.Name = "Generator oil change and filter"
	remote.apply = func(txid int64) {
		require.NoError(t, store.Cases.ApplyEvent(mustEvent(t, syncstream.TableCases, syncstream.OpUpdate, txid, mc)))
		require.NoError(t, store.Assignments.ApplyEvent(mustEvent(t, syncstream.TableAssignments, syncstream.OpDelete, txid, syncstream.DeletedRecord{ID: "a1"})))
		applyAssignmentInsert(t, store, txid, domain.CaseStaffAssignment{ID: "a3", CaseID: "c1", StaffID: "s3"})
	}

	err := store.SaveCase(context.Background(), mc, []string{"s2", "s3"})
	require.NoError(t, err)

	got, ok := store.Cases.Get("c1")
	require.True(t, ok)
	assert.Equal(t, "Generator oil change and filter", got.Name)

	staffIDs := []string{}
	for _, assignment := range store.Assignments.Snapshot() {
		staffIDs = append(staffIDs, assignment.StaffID)
	}
	assert.ElementsMatch(t, []string{"s2", "s3"}, staffIDs)
	assert.Zero(t, store.Cases.PendingCount())
	assert.Zero(t, store.Assignments.PendingCount())
	assert.Equal(t, []string{"update case"}, remote.calls)
}

func TestSaveCaseRollsBackAllPatchesOnFailure(t *testing.T) {
	remote := &fakeRemote{err: errors.New("offline")}
	store := newTestStore(remote)

	mc := domain.MaintenanceCase{ID: "c1", Name: "Roof leak assessment"}
	require.NoError(t, store.Cases.ApplyEvent(mustEvent(t, syncstream.TableCases, syncstream.OpInsert, 0, mc)))
	applyAssignmentInsert(t, store, 0, domain.CaseStaffAssignment{ID: "a1", CaseID: "c1", StaffID: "s1"})

	changed := mc
	changed.Name = "Roof repair"
	err := store.SaveCase(context.Background(), changed, []string{"s2"})
	require.Error(t, err)

	got, ok := store.Cases.Get("c1")
	require.True(t, ok)
	assert.Equal(t, "Roof leak assessment", got.Name)

	assignments := store.Assignments.Snapshot()
	require.Len(t, assignments, 1)
	assert.Equal(t, "s1", assignments[0].StaffID)
	assert.Zero(t, store.Cases.PendingCount())
	assert.Zero(t, store.Assignments.PendingCount())
}

func TestSaveCaseWaitsForAssignmentConfirmation(t *testing.T) {
	remote := &fakeRemote{txid: 300}
	store := newTestStore(remote)

	mc := domain.MaintenanceCase{ID: "c1", Name: "Elevator safety check"}
	require.NoError(t, store.Cases.ApplyEvent(mustEvent(t, syncstream.TableCases, syncstream.OpInsert, 0, mc)))

	// The case change arrives but the assignment change never does; the
	// composite mutation must not report success.
	remote.apply = func(txid int64) {
		require.NoError(t, store.Cases.ApplyEvent(mustEvent(t, syncstream.TableCases, syncstream.OpUpdate, txid, mc)))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := store.SaveCase(ctx, mc, []string{"s1"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Zero(t, store.Assignments.PendingCount())
}

func TestDeleteStaffCascadesLocally(t *testing.T) {
	remote := &fakeRemote{txid: 400}
	store := newTestStore(remote)

	applyStaffInsert(t, store, 0, domain.Staff{ID: "s1"})
	applyAssignmentInsert(t, store, 0, domain.CaseStaffAssignment{ID: "a1", CaseID: "c1", StaffID: "s1"})
	applyAssignmentInsert(t, store, 0, domain.CaseStaffAssignment{ID: "a2", CaseID: "c2", StaffID: "other"})

	remote.apply = func(txid int64) {
		require.NoError(t, store.Staff.ApplyEvent(mustEvent(t, syncstream.TableStaff, syncstream.OpDelete, txid, syncstream.DeletedRecord{ID: "s1"})))
		require.NoError(t, store.Assignments.ApplyEvent(mustEvent(t, syncstream.TableAssignments, syncstream.OpDelete, txid, syncstream.DeletedRecord{ID: "a1"})))
	}

	require.NoError(t, store.DeleteStaff(context.Background(), "s1"))

	_, ok := store.Staff.Get("s1")
	assert.False(t, ok)

	assignments := store.Assignments.Snapshot()
	require.Len(t, assignments, 1)
	assert.Equal(t, "a2", assignments[0].ID)
}

func TestStoreStartFeedsCollections(t *testing.T) {
	source := newFakeSource()
	store := NewStore(&fakeRemote{}, source, zap.NewNop())
	require.NoError(t, store.Start(context.Background()))
	defer store.Close()

	source.publish(t, syncstream.TableStaff, syncstream.OpInsert, 0, domain.Staff{ID: "s1", FirstName: "Anna"})

	require.Eventually(t, func() bool {
		_, ok := store.Staff.Get("s1")
		return ok
	}, time.Second, 5*time.Millisecond)
}
