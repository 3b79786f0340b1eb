package collection

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/checkpad/internal/domain"
	syncstream "github.com/spec-kit/checkpad/internal/sync"
)

func staffCollection() *Collection[domain.Staff] {
	return New(syncstream.TableStaff, func(s domain.Staff) string { return s.ID })
}

func mustEvent(t *testing.T, table string, op syncstream.Op, txid int64, record any) syncstream.ChangeEvent {
	t.Helper()
	event, err := syncstream.NewChangeEvent(table, op, txid, record)
	require.NoError(t, err)
	return event
}

func TestApplyEventUpsertsAndDeletes(t *testing.T) {
	col := staffCollection()

	julia := domain.Staff{ID: "s1", FirstName: "Julia", LastName: "Hartmann"}
	require.NoError(t, col.ApplyEvent(mustEvent(t, col.Table(), syncstream.OpInsert, 10, julia)))

	got, ok := col.Get("s1")
	require.True(t, ok)
	assert.Equal(t, "Julia", got.FirstName)

	julia.FirstName = "Julie"
	require.NoError(t, col.ApplyEvent(mustEvent(t, col.Table(), syncstream.OpUpdate, 11, julia)))
	got, _ = col.Get("s1")
	assert.Equal(t, "Julie", got.FirstName)

	require.NoError(t, col.ApplyEvent(mustEvent(t, col.Table(), syncstream.OpDelete, 12, syncstream.DeletedRecord{ID: "s1"})))
	_, ok = col.Get("s1")
	assert.False(t, ok)
}

func TestOptimisticOverlay(t *testing.T) {
	col := staffCollection()
	require.NoError(t, col.ApplyEvent(mustEvent(t, col.Table(), syncstream.OpInsert, 1,
		domain.Staff{ID: "s1", FirstName: "Julia"})))

	// Pending update shadows the confirmed record.
	m := col.BeginUpdate(domain.Staff{ID: "s1", FirstName: "Julie"})
	got, ok := col.Get("s1")
	require.True(t, ok)
	assert.Equal(t, "Julie", got.FirstName)
	assert.Equal(t, StatePending, m.State())

	// Rollback restores the pre-mutation view.
	m.Rollback()
	got, _ = col.Get("s1")
	assert.Equal(t, "Julia", got.FirstName)
	assert.Equal(t, StateFailed, m.State())
	assert.Zero(t, col.PendingCount())
}

func TestOptimisticDeleteHidesRecord(t *testing.T) {
	col := staffCollection()
	require.NoError(t, col.ApplyEvent(mustEvent(t, col.Table(), syncstream.OpInsert, 1,
		domain.Staff{ID: "s1"})))

	m := col.BeginDelete("s1")
	_, ok := col.Get("s1")
	assert.False(t, ok)
	assert.Empty(t, col.Snapshot())

	m.Rollback()
	_, ok = col.Get("s1")
	assert.True(t, ok)
}

func TestOverlayAppliesInSubmissionOrder(t *testing.T) {
	col := staffCollection()

	col.BeginInsert(domain.Staff{ID: "s1", FirstName: "First"})
	col.BeginUpdate(domain.Staff{ID: "s1", FirstName: "Second"})

	got, ok := col.Get("s1")
	require.True(t, ok)
	assert.Equal(t, "Second", got.FirstName)
	assert.Equal(t, 2, col.PendingCount())
}

func TestRetireLeavesConfirmedState(t *testing.T) {
	col := staffCollection()

	m := col.BeginInsert(domain.Staff{ID: "s1", FirstName: "Optimistic"})
	require.NoError(t, col.ApplyEvent(mustEvent(t, col.Table(), syncstream.OpInsert, 42,
		domain.Staff{ID: "s1", FirstName: "Authoritative"})))

	m.Retire()
	assert.Equal(t, StateConfirmed, m.State())

	got, ok := col.Get("s1")
	require.True(t, ok)
	assert.Equal(t, "Authoritative", got.FirstName)
}

func TestWaitForTxAlreadySeen(t *testing.T) {
	col := staffCollection()
	require.NoError(t, col.ApplyEvent(mustEvent(t, col.Table(), syncstream.OpInsert, 7, domain.Staff{ID: "s1"})))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, col.WaitForTx(ctx, 7))
}

func TestWaitForTxBlocksUntilDelivery(t *testing.T) {
	col := staffCollection()

	done := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		done <- col.WaitForTx(ctx, 9)
	}()

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, col.ApplyEvent(mustEvent(t, col.Table(), syncstream.OpInsert, 9, domain.Staff{ID: "s1"})))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("waiter was not released")
	}
}

func TestWaitForTxContextCancelled(t *testing.T) {
	col := staffCollection()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := col.WaitForTx(ctx, 99)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSnapshotIgnoresTxZeroForWaiters(t *testing.T) {
	col := staffCollection()
	require.NoError(t, col.ApplyEvent(mustEvent(t, col.Table(), syncstream.OpInsert, 0, domain.Staff{ID: "s1"})))

	// Snapshot replay populates the view but never satisfies a txid wait.
	_, ok := col.Get("s1")
	assert.True(t, ok)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, col.WaitForTx(ctx, 0))
}
