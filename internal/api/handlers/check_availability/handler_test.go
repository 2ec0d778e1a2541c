package check_availability

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TourBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	checkAvailability "github.com/m04kA/SMC-TourBookingService/internal/usecase/check_availability"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeUseCase struct {
	req  *checkAvailability.Request
	resp *checkAvailability.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *checkAvailability.Request) (*checkAvailability.Response, error) {
	f.req = req
	return f.resp, f.err
}

func post(h *Handler, staffID, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, "/api/v1/booking/check-availability", strings.NewReader(body))
	if staffID != "" {
		r = r.WithContext(middleware.WithStaffID(r.Context(), staffID))
	}
	rec := httptest.NewRecorder()
	h.Handle(rec, r)
	return rec
}

func TestHandler_Handle_PassesDecisions(t *testing.T) {
	date := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	booking := domain.NewBooking("b-1", domain.Customer{Name: "Ann", Email: "ann@example.com"}, []domain.TourLineItem{
		domain.NewTourLineItem("t1", "cat-1", "City walk", date, 2, decimal.NewFromInt(100), nil),
	}, date.AddDate(0, -1, 0))
	booking.Status = domain.StatusPendingFeedback
	uc := &fakeUseCase{resp: &checkAvailability.Response{Booking: booking}}

	rec := post(NewHandler(uc, nopLogger{}), "staff-1", `{
		"bookingId": "b-1",
		"tours": [{"tourId": "t1", "status": "alternative", "alternativeDate": "2026-06-05"}]
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, uc.req)
	assert.Equal(t, "staff-1", uc.req.ProcessedBy)
	require.NotNil(t, uc.req.Tours[0].AlternativeDate)
	assert.Equal(t, time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC), *uc.req.Tours[0].AlternativeDate)

	var body CheckAvailabilityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.AllAvailable)
	assert.Equal(t, "pending_feedback", body.Booking.Status)
}

func TestHandler_Handle_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		staffID  string
		body     string
		err      error
		wantCode int
	}{
		{name: "no staff", body: `{"bookingId":"b-1"}`, wantCode: http.StatusUnauthorized},
		{name: "no booking id", staffID: "s", body: `{"tours":[]}`, wantCode: http.StatusBadRequest},
		{name: "bad alternative date", staffID: "s", body: `{"bookingId":"b-1","tours":[{"tourId":"t1","status":"alternative","alternativeDate":"tomorrow"}]}`, wantCode: http.StatusBadRequest},
		{name: "wrong status", staffID: "s", body: `{"bookingId":"b-1"}`, err: &domain.StateTransitionError{From: domain.StatusPaid, To: domain.StatusPendingFeedback}, wantCode: http.StatusConflict},
		{name: "not found", staffID: "s", body: `{"bookingId":"b-1"}`, err: domain.ErrBookingNotFound, wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(NewHandler(&fakeUseCase{err: tt.err}, nopLogger{}), tt.staffID, tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}
