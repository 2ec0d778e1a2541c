package submit_feedback

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	"github.com/m04kA/SMC-TourBookingService/internal/infra/storage/badgerstore"
	"github.com/m04kA/SMC-TourBookingService/pkg/feedbacktoken"
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

var (
	testNow         = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	tourDate        = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	alternativeDate = time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
)

type fixture struct {
	uc         *UseCase
	store      *badgerstore.Store
	dispatcher *recordingDispatcher
	token      string
}

// newFixture бронирование из трех туров в ожидании обратной связи:
// t1 доступен, t2 ограничен одним местом при двух гостях, t3 предложен на другую дату
func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := badgerstore.Open("", nopLogger{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	store, err := badgerstore.NewStore(db)
	require.NoError(t, err)

	issuer, err := feedbacktoken.NewIssuer("test-secret", 24*time.Hour)
	require.NoError(t, err)

	tours := []domain.TourLineItem{
		domain.NewTourLineItem("t1", "cat-1", "City walk", tourDate, 2, decimal.NewFromInt(100), nil),
		domain.NewTourLineItem("t2", "cat-2", "Boat trip", tourDate, 2, decimal.NewFromInt(200), nil),
		domain.NewTourLineItem("t3", "cat-3", "Museum", tourDate, 2, decimal.NewFromInt(60), nil),
	}
	booking := domain.NewBooking("b-1", domain.Customer{Name: "Ann", Email: "ann@example.com"}, tours, testNow)
	booking.Tours[0].ApplyAvailability(domain.AvailabilityDecision{Status: domain.AvailabilityAvailable})
	booking.Tours[1].ApplyAvailability(domain.AvailabilityDecision{Status: domain.AvailabilityLimited, LimitedPlaces: ptr.Ptr(1)})
	booking.Tours[2].ApplyAvailability(domain.AvailabilityDecision{Status: domain.AvailabilityAlternative, AlternativeDate: ptr.Ptr(alternativeDate)})

	token, expiresAt, err := issuer.Issue(booking.ID, testNow)
	require.NoError(t, err)
	booking.FeedbackToken = &token
	booking.FeedbackTokenExpiresAt = &expiresAt
	require.NoError(t, booking.TransitionTo(domain.StatusPendingFeedback, testNow))
	require.NoError(t, store.Create(context.Background(), booking))

	dispatcher := &recordingDispatcher{}
	uc := NewUseCase(store, issuer, dispatcher, nopLogger{})
	uc.timeProvider = fixedTime{now: testNow.Add(time.Hour)}

	return &fixture{uc: uc, store: store, dispatcher: dispatcher, token: token}
}

func validDecisions() []DecisionInput {
	return []DecisionInput{
		{TourID: "t1", Decision: "keep"},
		{TourID: "t2", Decision: "modify", ModificationDetails: &ModificationInput{Guests: ptr.Ptr(1)}},
		{TourID: "t3", Decision: "modify", ModificationDetails: &ModificationInput{Date: ptr.Ptr("2026-06-10")}},
	}
}

func TestUseCase_Execute_StoresDecisionsVerbatim(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), &Request{Token: f.token, Decisions: validDecisions()})
	require.NoError(t, err)
	assert.Equal(t, domain.FeedbackCounts{Keep: 1, Modify: 2}, resp.Counts)

	stored, err := f.store.GetByID(context.Background(), "b-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFeedbackReceived, stored.Status)
	assert.Nil(t, stored.FeedbackToken)
	assert.Nil(t, stored.FeedbackTokenExpiresAt)
	assert.NotNil(t, stored.FeedbackReceivedAt)
	assert.True(t, stored.Total.Equal(decimal.NewFromInt(360)))

	require.Len(t, stored.FeedbackDecisions, 3)
	modified, ok := stored.FeedbackDecisionFor("t3")
	require.True(t, ok)
	assert.Equal(t, alternativeDate, modified.ModificationDetails.Date.UTC())

	require.Len(t, f.dispatcher.events, 1)
	received, ok := f.dispatcher.events[0].Changes.(domain.FeedbackReceived)
	require.True(t, ok)
	assert.Equal(t, 2, received.Modify)
	assert.Nil(t, f.dispatcher.events[0].ProcessedBy)
}

func TestUseCase_Execute_ValidationEnumeratesViolations(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), &Request{
		Token: f.token,
		Decisions: []DecisionInput{
			{TourID: "t2", Decision: "modify", ModificationDetails: &ModificationInput{Guests: ptr.Ptr(2)}},
			{TourID: "t3", Decision: "modify", ModificationDetails: &ModificationInput{Date: ptr.Ptr("2026-05-01")}},
			{TourID: "ghost", Decision: "keep"},
			{TourID: "t3", Decision: "keep"},
		},
	})
	require.ErrorIs(t, err, domain.ErrValidation)

	violations, ok := domain.ViolationsOf(err)
	require.True(t, ok)
	fields := make([]string, 0, len(violations))
	for _, v := range violations {
		fields = append(fields, v.Field)
	}
	assert.Equal(t, []string{
		"feedback[0].modificationDetails.guests",
		"feedback[1].modificationDetails.date",
		"feedback[2].tourId",
		"feedback[3].tourId",
		"feedback",
	}, fields)

	// modify без гостей для ограниченного тура и без даты для тура на другую дату
	_, err = f.uc.Execute(context.Background(), &Request{
		Token: f.token,
		Decisions: []DecisionInput{
			{TourID: "t1", Decision: "keep"},
			{TourID: "t2", Decision: "modify", ModificationDetails: &ModificationInput{Date: ptr.Ptr("2026-06-05")}},
			{TourID: "t3", Decision: "modify", ModificationDetails: &ModificationInput{Guests: ptr.Ptr(1)}},
		},
	})
	require.ErrorIs(t, err, domain.ErrValidation)

	violations, _ = domain.ViolationsOf(err)
	fields = fields[:0]
	for _, v := range violations {
		fields = append(fields, v.Field)
	}
	assert.Equal(t, []string{
		"feedback[1].modificationDetails.guests",
		"feedback[2].modificationDetails.date",
	}, fields)

	stored, err := f.store.GetByID(context.Background(), "b-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPendingFeedback, stored.Status)
	assert.Equal(t, int64(1), stored.Revision)
	assert.Equal(t, 2, stored.Tours[1].Guests)
}

func TestUseCase_Execute_ModifyRequiresDetails(t *testing.T) {
	f := newFixture(t)

	decisions := validDecisions()
	decisions[1].ModificationDetails = nil
	decisions[2].ModificationDetails.Date = ptr.Ptr("10.06.2026")

	_, err := f.uc.Execute(context.Background(), &Request{Token: f.token, Decisions: decisions})
	require.ErrorIs(t, err, domain.ErrValidation)
	violations, _ := domain.ViolationsOf(err)
	require.Len(t, violations, 2)
	assert.Equal(t, "feedback[1].modificationDetails", violations[0].Field)
	assert.Equal(t, "must match format YYYY-MM-DD", violations[1].Message)
}

func TestUseCase_Execute_ConsumedTokenIsRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), &Request{Token: f.token, Decisions: validDecisions()})
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), &Request{Token: f.token, Decisions: validDecisions()})
	require.ErrorIs(t, err, domain.ErrTokenInvalid)

	stored, err := f.store.GetByID(context.Background(), "b-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFeedbackReceived, stored.Status)
	assert.Equal(t, int64(2), stored.Revision)
	assert.Len(t, f.dispatcher.events, 1)
}

func TestUseCase_Execute_ExpiredToken(t *testing.T) {
	f := newFixture(t)
	f.uc.timeProvider = fixedTime{now: testNow.Add(25 * time.Hour)}

	_, err := f.uc.Execute(context.Background(), &Request{Token: f.token, Decisions: validDecisions()})
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}
