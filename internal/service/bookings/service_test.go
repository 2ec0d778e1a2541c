package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	"github.com/m04kA/SMC-TourBookingService/internal/infra/storage/badgerstore"
	"github.com/m04kA/SMC-TourBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-TourBookingService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type recordingDispatcher struct {
	events []domain.LogEvent
}

func (d *recordingDispatcher) Dispatch(_ context.Context, _ *domain.Booking, events []domain.LogEvent) {
	d.events = append(d.events, events...)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

var testNow = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *badgerstore.Store, *recordingDispatcher) {
	t.Helper()

	db, err := badgerstore.Open("", nopLogger{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	store, err := badgerstore.NewStore(db)
	require.NoError(t, err)

	dispatcher := &recordingDispatcher{}
	svc := NewService(store, dispatcher, nopLogger{})
	svc.timeProvider = fixedTime{now: testNow}
	return svc, store, dispatcher
}

func seedBooking(t *testing.T, store *badgerstore.Store, id string, status domain.BookingStatus) *domain.Booking {
	t.Helper()

	tour := domain.NewTourLineItem("t1", "cat-1", "City walk", testNow.AddDate(0, 1, 0), 2, decimal.NewFromInt(100), nil)
	booking := domain.NewBooking(id, domain.Customer{Name: "Ann", Email: "ann@example.com"}, []domain.TourLineItem{tour}, testNow)
	if status == domain.StatusConfirmed {
		booking.Tours[0].ConfirmAtOriginalPrice()
		require.NoError(t, booking.TransitionTo(domain.StatusConfirmed, testNow))
	}
	require.NoError(t, store.Create(context.Background(), booking))
	return booking
}

func TestService_GetByID(t *testing.T) {
	svc, store, _ := newTestService(t)
	seedBooking(t, store, "b-1", domain.StatusPending)

	resp, err := svc.GetByID(context.Background(), "b-1")
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "100.00", resp.Total)
	require.Len(t, resp.Log, 1)
	assert.Equal(t, "booking_submitted", resp.Log[0].Event)

	_, err = svc.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}

func TestService_List(t *testing.T) {
	svc, store, _ := newTestService(t)
	seedBooking(t, store, "b-1", domain.StatusPending)
	seedBooking(t, store, "b-2", domain.StatusConfirmed)

	resp, err := svc.List(context.Background(), &models.ListBookingsRequest{Status: ptr.Ptr("confirmed")})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, "b-2", resp.Bookings[0].ID)

	_, err = svc.List(context.Background(), &models.ListBookingsRequest{Status: ptr.Ptr("archived")})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestService_Cancel(t *testing.T) {
	svc, store, dispatcher := newTestService(t)
	seedBooking(t, store, "b-1", domain.StatusConfirmed)

	resp, err := svc.Cancel(context.Background(), &models.CancelBookingRequest{
		BookingID:         "b-1",
		CancellationNotes: "client asked",
		ProcessedBy:       "staff-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
	assert.Equal(t, "0.00", resp.Total)

	require.Len(t, dispatcher.events, 1)
	cancelled, ok := dispatcher.events[0].Changes.(domain.BookingCancelled)
	require.True(t, ok)
	assert.Equal(t, domain.StatusConfirmed, cancelled.PreviousStatus)

	stored, err := store.GetByID(context.Background(), "b-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, stored.Status)

	_, err = svc.Cancel(context.Background(), &models.CancelBookingRequest{
		BookingID:         "b-1",
		CancellationNotes: "again",
	})
	assert.ErrorIs(t, err, domain.ErrStateTransition)
}

func TestService_CancelRequiresNotes(t *testing.T) {
	svc, store, _ := newTestService(t)
	seedBooking(t, store, "b-1", domain.StatusPending)

	_, err := svc.Cancel(context.Background(), &models.CancelBookingRequest{BookingID: "b-1", CancellationNotes: "  "})
	assert.ErrorIs(t, err, domain.ErrMissingCancellationNotes)
}
