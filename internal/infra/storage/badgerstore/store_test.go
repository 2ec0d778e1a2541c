package badgerstore

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := Open("", nopLogger{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store, err := NewStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func newBooking(id, email string, createdAt time.Time) *domain.Booking {
	tour := domain.NewTourLineItem("t-"+id, "cat-1", "City walk", createdAt.AddDate(0, 1, 0), 2,
		decimal.NewFromInt(100), nil)
	return domain.NewBooking(id, domain.Customer{Name: "Ann", Email: email}, []domain.TourLineItem{tour}, createdAt)
}

func TestStore_CreateAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	first := newBooking("b-1", "ann@example.com", now)
	second := newBooking("b-2", "bob@example.com", now.Add(time.Minute))
	require.NoError(t, store.Create(ctx, first))
	require.NoError(t, store.Create(ctx, second))

	assert.Equal(t, int64(1), first.RequestID)
	assert.Equal(t, int64(2), second.RequestID)
	assert.Empty(t, first.PendingEvents())

	loaded, err := store.GetByID(ctx, "b-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), loaded.Revision)
	assert.True(t, decimal.NewFromInt(100).Equal(loaded.Total))
	assert.Equal(t, 1, loaded.Log.Len())
	assert.Empty(t, loaded.PendingEvents())

	_, err = store.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)

	assert.ErrorIs(t, store.Create(ctx, newBooking("b-1", "x@example.com", now)), ErrAlreadyExists)
}

func TestStore_UpdateRejectsStaleRevision(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.Create(ctx, newBooking("b-1", "ann@example.com", now)))

	staffA, err := store.GetByID(ctx, "b-1")
	require.NoError(t, err)
	staffB, err := store.GetByID(ctx, "b-1")
	require.NoError(t, err)

	require.NoError(t, staffA.TransitionTo(domain.StatusConfirmed, now))
	require.NoError(t, store.Update(ctx, staffA))
	assert.Equal(t, int64(2), staffA.Revision)

	require.NoError(t, staffB.Cancel(now, "duplicate"))
	err = store.Update(ctx, staffB)
	var conflict *domain.ConcurrentModificationError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, int64(1), conflict.ExpectedRevision)
	assert.Equal(t, int64(1), staffB.Revision)

	stored, err := store.GetByID(ctx, "b-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, stored.Status)
}

func TestStore_UpdateMissing(t *testing.T) {
	store := newTestStore(t)

	err := store.Update(context.Background(), newBooking("ghost", "ann@example.com", time.Now()))
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}

func TestStore_List(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	for i, id := range []string{"b-1", "b-2", "b-3"} {
		require.NoError(t, store.Create(ctx, newBooking(id, "ann@example.com", now.Add(time.Duration(i)*time.Minute))))
	}
	confirmed, err := store.GetByID(ctx, "b-2")
	require.NoError(t, err)
	require.NoError(t, confirmed.TransitionTo(domain.StatusConfirmed, now))
	require.NoError(t, store.Update(ctx, confirmed))

	all, err := store.List(ctx, domain.BookingFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "b-3", all[0].ID)
	assert.Equal(t, "b-1", all[2].ID)

	status := domain.StatusConfirmed
	filtered, err := store.List(ctx, domain.BookingFilter{Status: &status})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "b-2", filtered[0].ID)

	page, err := store.List(ctx, domain.BookingFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "b-2", page[0].ID)

	empty, err := store.List(ctx, domain.BookingFilter{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, empty)
}
