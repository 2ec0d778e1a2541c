package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TourBookingService/pkg/ptr"
)

var testNow = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

func newTestBooking() *Booking {
	date := testNow.AddDate(0, 1, 0)
	return NewBooking("b-1", Customer{Name: "Ann", Email: "ann@example.com"}, []TourLineItem{
		NewTourLineItem("t1", "cat-1", "City walk", date, 2, dec("100"), nil),
		NewTourLineItem("t2", "cat-2", "Desert safari", date, 2, dec("200"), tieredTable()),
	}, testNow)
}

func TestNewBooking(t *testing.T) {
	b := newTestBooking()

	assert.Equal(t, StatusPending, b.Status)
	assert.True(t, dec("300").Equal(b.Total))
	require.Equal(t, 1, b.Log.Len())
	assert.Equal(t, EventBookingSubmitted, b.Log.Events()[0].Event())
	assert.NoError(t, b.CheckInvariants())
}

func TestBooking_TransitionTo(t *testing.T) {
	b := newTestBooking()

	err := b.TransitionTo(StatusPaid, testNow)
	var transitionErr *StateTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, StatusPending, transitionErr.From)
	assert.Equal(t, StatusPaid, transitionErr.To)

	require.NoError(t, b.TransitionTo(StatusConfirmed, testNow))
	assert.Equal(t, StatusConfirmed, b.Status)
	require.NotNil(t, b.ConfirmedAt)
	require.NotNil(t, b.AvailabilityConfirmedAt)
}

func TestBooking_ConfirmRequiresSurvivingTours(t *testing.T) {
	b := newTestBooking()
	for i := range b.Tours {
		b.Tours[i].Remove()
	}
	b.RecalculateTotal()

	err := b.TransitionTo(StatusConfirmed, testNow)
	assert.ErrorIs(t, err, ErrNoSurvivingTours)
	assert.Equal(t, StatusPending, b.Status)
}

func TestBooking_Cancel(t *testing.T) {
	b := newTestBooking()
	b.FeedbackToken = ptr.Ptr("token")

	require.NoError(t, b.Cancel(testNow, "client changed plans"))

	assert.Equal(t, StatusCancelled, b.Status)
	assert.True(t, b.Total.IsZero())
	assert.Nil(t, b.FeedbackToken)
	for _, tour := range b.Tours {
		assert.Equal(t, TourStatusCancelled, tour.Status)
	}
	assert.NoError(t, b.CheckInvariants())

	assert.ErrorIs(t, b.Cancel(testNow, "again"), ErrStateTransition)
}

func TestBooking_TotalInvariant(t *testing.T) {
	b := newTestBooking()
	b.Tours[0].CalculatedPrice = dec("120")

	assert.ErrorIs(t, b.CheckInvariants(), ErrInvariantViolation)

	b.RecalculateTotal()
	assert.NoError(t, b.CheckInvariants())
}

func TestBooking_ScheduleOnlyOnConfirmedTours(t *testing.T) {
	b := newTestBooking()
	b.Tours[0].Schedule = &Schedule{TourType: TourTypeDay, Date: testNow}

	assert.ErrorIs(t, b.CheckInvariants(), ErrInvariantViolation)
}

func TestBooking_RemoveIsIdempotent(t *testing.T) {
	b := newTestBooking()
	b.Tours[1].Remove()
	b.RecalculateTotal()
	total := b.Total

	b.Tours[1].Remove()
	b.RecalculateTotal()

	assert.True(t, b.Tours[1].CalculatedPrice.IsZero())
	assert.True(t, total.Equal(b.Total))
}

func TestBooking_PendingEvents(t *testing.T) {
	b := newTestBooking()
	assert.Len(t, b.PendingEvents(), 1)

	b.MarkPersisted()
	assert.Empty(t, b.PendingEvents())

	b.AppendLog(testNow, nil, TourCompleted{TourID: "t1"})
	pending := b.PendingEvents()
	require.Len(t, pending, 1)
	assert.Equal(t, EventTourCompleted, pending[0].Event())
}

func TestBooking_DocumentRoundTrip(t *testing.T) {
	b := newTestBooking()
	require.NoError(t, b.TransitionTo(StatusConfirmed, testNow))
	b.Tours[0].ConfirmAtOriginalPrice()
	b.Tours[1].ConfirmAtOriginalPrice()
	b.Tours[1].Schedule = &Schedule{
		TourType:      TourTypeMultiDay,
		Date:          testNow,
		DurationDays:  2,
		ItineraryDays: NewItineraryDays(activities("a"), activities("b")),
	}

	data, err := json.Marshal(b)
	require.NoError(t, err)

	var decoded Booking
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, b.ID, decoded.ID)
	assert.Equal(t, StatusConfirmed, decoded.Status)
	assert.True(t, b.Total.Equal(decoded.Total))
	assert.Equal(t, b.Log.Len(), decoded.Log.Len())
	require.NotNil(t, decoded.Tours[1].Schedule)
	assert.Equal(t, 2, decoded.Tours[1].Schedule.ItineraryDays.Len())
	require.NotNil(t, decoded.Tours[1].PriceTable)
	assert.Len(t, decoded.Tours[1].PriceTable.GroupPrices, 3)
}
