package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from BookingStatus
		to   BookingStatus
		want bool
	}{
		{StatusPending, StatusPendingFeedback, true},
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusFeedbackReceived, false},
		{StatusPendingFeedback, StatusFeedbackReceived, true},
		{StatusPendingFeedback, StatusConfirmed, false},
		{StatusFeedbackReceived, StatusConfirmed, true},
		{StatusConfirmed, StatusPaid, true},
		{StatusConfirmed, StatusScheduled, false},
		{StatusPaid, StatusScheduled, true},
		{StatusScheduled, StatusCompleted, true},
		{StatusScheduled, StatusCancelled, true},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestBookingStatus_CancelFromEveryNonTerminal(t *testing.T) {
	for _, status := range AllStatuses {
		if status.IsTerminal() {
			assert.False(t, status.CanTransitionTo(StatusCancelled), status)
			continue
		}
		assert.True(t, status.CanTransitionTo(StatusCancelled), status)
	}
}

func TestBookingStatus_Reachability(t *testing.T) {
	reached := map[BookingStatus]bool{StatusPending: true}
	queue := []BookingStatus{StatusPending}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range AllStatuses {
			if current.CanTransitionTo(next) && !reached[next] {
				reached[next] = true
				queue = append(queue, next)
			}
		}
	}

	for _, status := range AllStatuses {
		assert.True(t, reached[status], "status %s must be reachable from pending", status)
	}
}

func TestParseBookingStatus(t *testing.T) {
	status, err := ParseBookingStatus("paid")
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, status)

	_, err = ParseBookingStatus("archived")
	assert.ErrorIs(t, err, ErrValidation)
}
