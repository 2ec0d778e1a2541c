package notifyservice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SendBookingEvents(t *testing.T) {
	var received BookingEvents
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/internal/notifications/booking-events", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	err := client.SendBookingEvents(context.Background(), &BookingEvents{
		BookingID: "b-1",
		RequestID: 42,
		Status:    "confirmed",
		Customer:  Customer{Name: "Ann", Email: "ann@example.com"},
		Total:     "250.00",
		Events: []Event{{
			Event:     "feedback_processed",
			Timestamp: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
			Changes:   json.RawMessage(`{"action":"confirm"}`),
		}},
	})

	require.NoError(t, err)
	assert.Equal(t, "b-1", received.BookingID)
	require.Len(t, received.Events, 1)
	assert.Equal(t, "feedback_processed", received.Events[0].Event)
}

func TestClient_SendBookingEvents_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	err := NewClient(server.URL, time.Second).SendBookingEvents(context.Background(), &BookingEvents{BookingID: "b-1"})
	assert.ErrorIs(t, err, ErrRejected)
}
