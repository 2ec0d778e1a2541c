package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	"github.com/m04kA/SMC-TourBookingService/internal/infra/storage/badgerstore"
	"github.com/m04kA/SMC-TourBookingService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-TourBookingService/pkg/feedbacktoken"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type recordingDispatcher struct {
	events []domain.EventKind
}

func (d *recordingDispatcher) Dispatch(_ context.Context, _ *domain.Booking, events []domain.LogEvent) {
	for _, event := range events {
		d.events = append(d.events, event.Event())
	}
}

func catalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/internal/tours/city-walk":
			_, _ = w.Write([]byte(`{"id":"city-walk","title":"City walk","base_price_per_person":"50"}`))
		case "/internal/tours/boat-trip":
			_, _ = w.Write([]byte(`{"id":"boat-trip","title":"Boat trip","group_prices":[
				{"min_guests":1,"max_guests":1,"price_per_person":"150"},
				{"min_guests":2,"max_guests":3,"price_per_person":"100"}
			]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

type testAPI struct {
	t          *testing.T
	router     http.Handler
	dispatcher *recordingDispatcher
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	db, err := badgerstore.Open("", nopLogger{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	store, err := badgerstore.NewStore(db)
	require.NoError(t, err)

	tokens, err := feedbacktoken.NewIssuer("0123456789abcdef0123456789abcdef", 72*time.Hour)
	require.NoError(t, err)

	dispatcher := &recordingDispatcher{}
	router := NewRouter(Dependencies{
		Store:      store,
		Catalog:    catalogservice.NewClient(catalogServer(t).URL, time.Second, nopLogger{}),
		Tokens:     tokens,
		Dispatcher: dispatcher,
		Logger:     nopLogger{},
	})

	return &testAPI{t: t, router: router, dispatcher: dispatcher}
}

func (a *testAPI) do(method, path, staffID string, body interface{}) (int, map[string]interface{}) {
	a.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	r := httptest.NewRequest(method, path, reader)
	if staffID != "" {
		r.Header.Set("X-Staff-ID", staffID)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, r)

	var out map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec.Code, out
}

func tourIDs(t *testing.T, booking map[string]interface{}) []string {
	t.Helper()
	tours, ok := booking["tours"].([]interface{})
	require.True(t, ok)
	ids := make([]string, 0, len(tours))
	for _, tour := range tours {
		ids = append(ids, tour.(map[string]interface{})["id"].(string))
	}
	return ids
}

func TestRouter_FullLifecycle(t *testing.T) {
	api := newTestAPI(t)
	date := time.Now().UTC().AddDate(0, 1, 0).Format(domain.DateFormat)

	// 1. Клиент отправляет заявку: 2 x 50 + 3 x 100
	code, booking := api.do(http.MethodPost, "/api/v1/booking/submit", "", map[string]interface{}{
		"customer": map[string]interface{}{"name": "Ann", "email": "Ann@Example.com"},
		"tours": []map[string]interface{}{
			{"catalogTourId": "city-walk", "date": date, "guests": 2},
			{"catalogTourId": "boat-trip", "date": date, "guests": 3},
		},
	})
	require.Equal(t, http.StatusCreated, code, booking)
	assert.Equal(t, "pending", booking["status"])
	assert.Equal(t, "400.00", booking["total"])
	bookingID := booking["id"].(string)
	ids := tourIDs(t, booking)
	require.Len(t, ids, 2)

	// 2. Сотрудник отмечает ограниченную доступность лодки
	code, resp := api.do(http.MethodPost, "/api/v1/booking/check-availability", "staff-1", map[string]interface{}{
		"bookingId": bookingID,
		"tours": []map[string]interface{}{
			{"tourId": ids[0], "status": "available"},
			{"tourId": ids[1], "status": "limited", "limitedPlaces": 2},
		},
	})
	require.Equal(t, http.StatusOK, code, resp)
	assert.Equal(t, false, resp["allAvailable"])
	token, ok := resp["feedbackToken"].(string)
	require.True(t, ok)

	// 3. Клиент открывает ссылку и отправляет решения
	code, page := api.do(http.MethodGet, "/api/v1/booking/verify-feedback-request?token="+token, "", nil)
	require.Equal(t, http.StatusOK, code, page)
	assert.Equal(t, "Ann", page["customerName"])

	feedback := map[string]interface{}{
		"token": token,
		"feedback": []map[string]interface{}{
			{"tourId": ids[0], "decision": "keep"},
			{"tourId": ids[1], "decision": "modify", "modificationDetails": map[string]interface{}{"guests": 2}},
		},
	}
	code, resp = api.do(http.MethodPost, "/api/v1/booking/client-feedback", "", feedback)
	require.Equal(t, http.StatusOK, code, resp)
	assert.Equal(t, "feedback_received", resp["status"])

	// повторная отправка по использованной ссылке
	code, resp = api.do(http.MethodPost, "/api/v1/booking/client-feedback", "", feedback)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "token_invalid", resp["kind"])

	// 4. Сотрудник подтверждает: 2 x 50 + 2 x 100
	code, resp = api.do(http.MethodPost, "/api/v1/booking/confirm-booking", "staff-1", map[string]interface{}{
		"bookingId": bookingID,
		"action":    "confirm",
	})
	require.Equal(t, http.StatusOK, code, resp)
	confirmed := resp["booking"].(map[string]interface{})
	assert.Equal(t, "confirmed", confirmed["status"])
	assert.Equal(t, "300.00", confirmed["total"])

	// 5. Платеж больше остатка отклоняется, полный платеж переводит в paid
	code, resp = api.do(http.MethodPost, "/api/v1/booking/confirm-payment", "staff-1", map[string]interface{}{
		"bookingId":      bookingID,
		"paymentDetails": map[string]interface{}{"receivedAmount": "300.01", "paymentMethod": "card"},
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "amount_exceeds_balance", resp["kind"])

	code, resp = api.do(http.MethodPost, "/api/v1/booking/confirm-payment", "staff-1", map[string]interface{}{
		"bookingId":      bookingID,
		"paymentDetails": map[string]interface{}{"receivedAmount": "300", "paymentMethod": "card"},
	})
	require.Equal(t, http.StatusOK, code, resp)
	assert.Equal(t, true, resp["fullyPaid"])

	// 6. Планирование обоих туров
	schedule := func(tourID string) map[string]interface{} {
		return map[string]interface{}{
			"tourId": tourID,
			"schedule": map[string]interface{}{
				"tourType":     "day_tour",
				"date":         date,
				"meetingPoint": map[string]interface{}{"location": "Hotel", "time": "09:00"},
				"dropoffPoint": map[string]interface{}{"location": "Pier", "time": "17:00"},
				"itinerary":    []map[string]interface{}{{"time": "10:00", "activity": "Start"}},
			},
		}
	}
	code, resp = api.do(http.MethodPost, "/api/v1/booking/schedule", "staff-1", map[string]interface{}{
		"bookingId":     bookingID,
		"tourSchedules": []map[string]interface{}{schedule(ids[0]), schedule(ids[1])},
	})
	require.Equal(t, http.StatusCreated, code, resp)
	assert.Equal(t, "scheduled", resp["booking"].(map[string]interface{})["status"])

	// 7. Завершение
	code, resp = api.do(http.MethodPost, "/api/v1/booking/complete", "staff-1", map[string]interface{}{"bookingId": bookingID})
	require.Equal(t, http.StatusOK, code, resp)
	assert.Equal(t, "completed", resp["booking"].(map[string]interface{})["status"])

	// 8. Терминальный статус нельзя отменить
	code, resp = api.do(http.MethodPost, "/api/v1/booking/cancel", "staff-1", map[string]interface{}{
		"bookingId":         bookingID,
		"cancellationNotes": "too late",
	})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "completed", resp["currentStatus"])

	code, resp = api.do(http.MethodGet, "/api/v1/booking/"+bookingID, "staff-1", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ann@example.com", resp["customer"].(map[string]interface{})["email"])

	code, resp = api.do(http.MethodGet, "/api/v1/booking?status=completed", "staff-1", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, resp["bookings"], 1)

	assert.Equal(t, domain.EventBookingSubmitted, api.dispatcher.events[0])
	assert.Equal(t, domain.EventBookingCompleted, api.dispatcher.events[len(api.dispatcher.events)-1])
}

func TestRouter_StaffRoutesRequireStaffID(t *testing.T) {
	api := newTestAPI(t)

	code, resp := api.do(http.MethodPost, "/api/v1/booking/confirm-payment", "", map[string]interface{}{"bookingId": "b-1"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "unauthorized", resp["kind"])

	code, _ = api.do(http.MethodGet, "/api/v1/booking/b-1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestRouter_CancelPendingBooking(t *testing.T) {
	api := newTestAPI(t)
	date := time.Now().UTC().AddDate(0, 1, 0).Format(domain.DateFormat)

	code, booking := api.do(http.MethodPost, "/api/v1/booking/submit", "", map[string]interface{}{
		"customer": map[string]interface{}{"name": "Ann", "email": "ann@example.com"},
		"tours":    []map[string]interface{}{{"catalogTourId": "city-walk", "date": date, "guests": 1}},
	})
	require.Equal(t, http.StatusCreated, code, booking)
	bookingID := booking["id"].(string)

	code, resp := api.do(http.MethodPost, "/api/v1/booking/cancel", "staff-1", map[string]interface{}{"bookingId": bookingID})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "missing_cancellation_notes", resp["kind"])

	code, resp = api.do(http.MethodPost, "/api/v1/booking/cancel", "staff-1", map[string]interface{}{
		"bookingId":         bookingID,
		"cancellationNotes": "client changed plans",
	})
	require.Equal(t, http.StatusOK, code, resp)
	assert.Equal(t, "cancelled", resp["status"])
	assert.Equal(t, "0.00", resp["total"])
}

func TestRouter_UnknownCatalogTour(t *testing.T) {
	api := newTestAPI(t)
	date := time.Now().UTC().AddDate(0, 1, 0).Format(domain.DateFormat)

	code, resp := api.do(http.MethodPost, "/api/v1/booking/submit", "", map[string]interface{}{
		"customer": map[string]interface{}{"name": "Ann", "email": "ann@example.com"},
		"tours":    []map[string]interface{}{{"catalogTourId": "ghost", "date": date, "guests": 1}},
	})
	assert.Equal(t, http.StatusBadRequest, code)
	violations := resp["violations"].([]interface{})
	require.Len(t, violations, 1)
	assert.Equal(t, "tours[0].catalogTourId", violations[0].(map[string]interface{})["field"])
}
