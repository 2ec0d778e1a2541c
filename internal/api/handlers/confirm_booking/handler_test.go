package confirm_booking

import (
	"context"
	"encoding/json"
	"fmt"
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
	confirmBooking "github.com/m04kA/SMC-TourBookingService/internal/usecase/confirm_booking"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeUseCase struct {
	req  *confirmBooking.Request
	resp *confirmBooking.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *confirmBooking.Request) (*confirmBooking.Response, error) {
	f.req = req
	return f.resp, f.err
}

func post(h *Handler, staffID, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, "/api/v1/booking/confirm-booking", strings.NewReader(body))
	if staffID != "" {
		r = r.WithContext(middleware.WithStaffID(r.Context(), staffID))
	}
	rec := httptest.NewRecorder()
	h.Handle(rec, r)
	return rec
}

func TestHandler_Handle_PassesOverrides(t *testing.T) {
	booking := domain.NewBooking("b-1", domain.Customer{Name: "Ann", Email: "ann@example.com"}, []domain.TourLineItem{
		domain.NewTourLineItem("t1", "cat-1", "City walk", time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), 1, decimal.NewFromInt(100), nil),
	}, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))
	uc := &fakeUseCase{resp: &confirmBooking.Response{Booking: booking, Action: domain.ActionConfirm}}

	rec := post(NewHandler(uc, nopLogger{}), "staff-1", `{
		"bookingId": "b-1",
		"action": "confirm",
		"modifiedTours": [{"tourId": "t1", "decision": "modify", "guests": 3, "date": "2026-06-02"}]
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "staff-1", uc.req.ProcessedBy)
	require.Len(t, uc.req.ModifiedTours, 1)
	assert.Equal(t, "modify", *uc.req.ModifiedTours[0].Decision)
	assert.Equal(t, 3, *uc.req.ModifiedTours[0].Guests)
	assert.Equal(t, "2026-06-02", *uc.req.ModifiedTours[0].Date)

	var resp ConfirmBookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.ActionConfirm, resp.Action)
	assert.Equal(t, "b-1", resp.Booking.ID)
}

func TestHandler_Handle_Errors(t *testing.T) {
	tests := []struct {
		name     string
		staffID  string
		body     string
		err      error
		wantCode int
	}{
		{name: "no staff", body: `{"bookingId":"b-1","action":"confirm"}`, wantCode: http.StatusUnauthorized},
		{name: "unknown field", staffID: "s", body: `{"bookingId":"b-1","foo":1}`, wantCode: http.StatusBadRequest},
		{name: "empty id", staffID: "s", body: `{"bookingId":" ","action":"confirm"}`, wantCode: http.StatusBadRequest},
		{name: "catalog down", staffID: "s", body: `{"bookingId":"b-1","action":"confirm"}`,
			err: fmt.Errorf("%w: timeout", confirmBooking.ErrCatalogUnavailable), wantCode: http.StatusServiceUnavailable},
		{name: "no price", staffID: "s", body: `{"bookingId":"b-1","action":"confirm"}`,
			err: domain.ErrNoTourPriceData, wantCode: http.StatusUnprocessableEntity},
		{name: "wrong status", staffID: "s", body: `{"bookingId":"b-1","action":"confirm"}`,
			err: &domain.StateTransitionError{From: domain.StatusPending, To: domain.StatusConfirmed}, wantCode: http.StatusConflict},
		{name: "internal", staffID: "s", body: `{"bookingId":"b-1","action":"confirm"}`,
			err: confirmBooking.ErrInternal, wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(NewHandler(&fakeUseCase{err: tt.err}, nopLogger{}), tt.staffID, tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}
