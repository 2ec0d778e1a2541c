package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TourBookingService/pkg/ptr"
)

func TestAuditLog_DecodesTypedPayloads(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	var log AuditLog
	log.Append(LogEvent{Timestamp: now, Changes: BookingSubmitted{TourCount: 2, Total: dec("300")}})
	log.Append(LogEvent{Timestamp: now, ProcessedBy: ptr.Ptr("staff-1"), Changes: PaymentReceived{
		Amount:     dec("250"),
		Method:     "cash",
		PaidAmount: dec("250"),
		Balance:    dec("0"),
		FullyPaid:  true,
	}})
	log.Append(LogEvent{Timestamp: now, Changes: FeedbackReceived{FeedbackCounts{Keep: 1, Remove: 1}}})

	data, err := json.Marshal(log)
	require.NoError(t, err)

	var decoded AuditLog
	require.NoError(t, json.Unmarshal(data, &decoded))
	events := decoded.Events()
	require.Len(t, events, 3)

	assert.Equal(t, EventBookingSubmitted, events[0].Event())
	submitted, ok := events[0].Changes.(BookingSubmitted)
	require.True(t, ok)
	assert.Equal(t, 2, submitted.TourCount)

	payment, ok := events[1].Changes.(PaymentReceived)
	require.True(t, ok)
	assert.True(t, payment.FullyPaid)
	assert.True(t, dec("250").Equal(payment.Amount))
	require.NotNil(t, events[1].ProcessedBy)
	assert.Equal(t, "staff-1", *events[1].ProcessedBy)

	feedback, ok := events[2].Changes.(FeedbackReceived)
	require.True(t, ok)
	assert.Equal(t, 1, feedback.Remove)
}

func TestLogEvent_UnknownTag(t *testing.T) {
	var event LogEvent
	err := json.Unmarshal([]byte(`{"timestamp":"2026-05-01T10:00:00Z","event":"teleported","changes":{}}`), &event)
	assert.Error(t, err)
}

func TestAuditLog_Since(t *testing.T) {
	var log AuditLog
	log.Append(LogEvent{Changes: TourCompleted{TourID: "a"}})
	log.Append(LogEvent{Changes: TourCompleted{TourID: "b"}})

	assert.Len(t, log.Since(0), 2)
	assert.Len(t, log.Since(1), 1)
	assert.Nil(t, log.Since(2))
}
