package submit_booking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	"github.com/m04kA/SMC-TourBookingService/internal/infra/storage/badgerstore"
	"github.com/m04kA/SMC-TourBookingService/internal/integrations/catalogservice"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeCatalog struct {
	tours map[string]*catalogservice.Tour
	err   error
}

func (f *fakeCatalog) GetTour(_ context.Context, tourID string) (*catalogservice.Tour, error) {
	if f.err != nil {
		return nil, f.err
	}
	tour, ok := f.tours[tourID]
	if !ok {
		return nil, catalogservice.ErrTourNotFound
	}
	return tour, nil
}

type recordingDispatcher struct {
	events []domain.LogEvent
}

func (d *recordingDispatcher) Dispatch(_ context.Context, _ *domain.Booking, events []domain.LogEvent) {
	d.events = append(d.events, events...)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

var testNow = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

func newTestUseCase(t *testing.T, catalog *fakeCatalog) (*UseCase, *badgerstore.Store, *recordingDispatcher) {
	t.Helper()

	db, err := badgerstore.Open("", nopLogger{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	store, err := badgerstore.NewStore(db)
	require.NoError(t, err)

	dispatcher := &recordingDispatcher{}
	uc := NewUseCase(store, catalog, dispatcher, nopLogger{})
	uc.timeProvider = fixedTime{now: testNow}

	seq := 0
	uc.newID = func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}
	return uc, store, dispatcher
}

func defaultCatalog() *fakeCatalog {
	return &fakeCatalog{tours: map[string]*catalogservice.Tour{
		"cat-walk": {
			ID:                 "cat-walk",
			Title:              "Old town walk",
			BasePricePerPerson: decimal.NewFromInt(50),
			GroupPrices: []catalogservice.GroupPrice{
				{MinGuests: 1, MaxGuests: 2, PricePerPerson: decimal.NewFromInt(100)},
				{MinGuests: 3, MaxGuests: 5, PricePerPerson: decimal.NewFromInt(80)},
			},
		},
		"cat-boat": {
			ID:                 "cat-boat",
			Title:              "River cruise",
			BasePricePerPerson: decimal.NewFromInt(40),
		},
		"cat-empty": {ID: "cat-empty", Title: "Unpriced"},
	}}
}

func validRequest() *Request {
	return &Request{
		Customer: CustomerRequest{Name: " Ann ", Email: "Ann@Example.com"},
		Tours: []TourRequest{
			{CatalogTourID: "cat-walk", Date: testNow.AddDate(0, 1, 0), Guests: 4},
			{CatalogTourID: "cat-boat", Date: testNow.AddDate(0, 1, 1), Guests: 2},
		},
	}
}

func TestUseCase_Execute_Success(t *testing.T) {
	uc, store, dispatcher := newTestUseCase(t, defaultCatalog())

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	booking := resp.Booking
	assert.Equal(t, domain.StatusPending, booking.Status)
	assert.Equal(t, "ann@example.com", booking.Customer.Email)
	assert.Equal(t, "Ann", booking.Customer.Name)
	require.Len(t, booking.Tours, 2)
	assert.True(t, booking.Tours[0].OriginalPrice.Equal(decimal.NewFromInt(320)))
	assert.True(t, booking.Tours[1].OriginalPrice.Equal(decimal.NewFromInt(80)))
	assert.True(t, booking.Total.Equal(decimal.NewFromInt(400)))
	require.NotNil(t, booking.Tours[0].PriceTable)
	assert.Len(t, booking.Tours[0].PriceTable.GroupPrices, 2)

	stored, err := store.GetByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.Revision)
	assert.Positive(t, stored.RequestID)

	require.Len(t, dispatcher.events, 1)
	assert.Equal(t, domain.EventBookingSubmitted, dispatcher.events[0].Event())
}

func TestUseCase_Execute_ValidationEnumeratesViolations(t *testing.T) {
	uc, _, dispatcher := newTestUseCase(t, defaultCatalog())

	req := &Request{
		Customer: CustomerRequest{Name: "", Email: "bad"},
		Tours: []TourRequest{
			{CatalogTourID: "cat-walk", Date: testNow.AddDate(0, 0, -1), Guests: 0},
		},
	}

	_, err := uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, domain.ErrValidation)

	violations, ok := domain.ViolationsOf(err)
	require.True(t, ok)
	fields := make([]string, 0, len(violations))
	for _, v := range violations {
		fields = append(fields, v.Field)
	}
	assert.ElementsMatch(t, []string{"customer.name", "customer.email", "tours[0].guests", "tours[0].date"}, fields)
	assert.Empty(t, dispatcher.events)
}

func TestUseCase_Execute_UnknownCatalogTour(t *testing.T) {
	uc, _, _ := newTestUseCase(t, defaultCatalog())

	req := validRequest()
	req.Tours[1].CatalogTourID = "cat-missing"

	_, err := uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, domain.ErrValidation)
	violations, _ := domain.ViolationsOf(err)
	require.Len(t, violations, 1)
	assert.Equal(t, "tours[1].catalogTourId", violations[0].Field)
}

func TestUseCase_Execute_NoPriceData(t *testing.T) {
	uc, _, _ := newTestUseCase(t, defaultCatalog())

	req := validRequest()
	req.Tours[0].CatalogTourID = "cat-empty"

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrNoTourPriceData)
}

func TestUseCase_Execute_CatalogUnavailable(t *testing.T) {
	uc, _, _ := newTestUseCase(t, &fakeCatalog{err: fmt.Errorf("%w: dial tcp", catalogservice.ErrUnavailable)})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
}
