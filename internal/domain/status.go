package domain

// BookingStatus represents the lifecycle status of a booking
type BookingStatus string

const (
	StatusPending          BookingStatus = "pending"
	StatusPendingFeedback  BookingStatus = "pending_feedback"
	StatusFeedbackReceived BookingStatus = "feedback_received"
	StatusConfirmed        BookingStatus = "confirmed"
	StatusPaid             BookingStatus = "paid"
	StatusScheduled        BookingStatus = "scheduled"
	StatusCompleted        BookingStatus = "completed"
	StatusCancelled        BookingStatus = "cancelled"
)

// AllStatuses все статусы в порядке жизненного цикла
var AllStatuses = []BookingStatus{
	StatusPending,
	StatusPendingFeedback,
	StatusFeedbackReceived,
	StatusConfirmed,
	StatusPaid,
	StatusScheduled,
	StatusCompleted,
	StatusCancelled,
}

// transitions граф допустимых переходов
// Отмена доступна из любого нетерминального статуса
var transitions = map[BookingStatus][]BookingStatus{
	StatusPending:          {StatusPendingFeedback, StatusConfirmed, StatusCancelled},
	StatusPendingFeedback:  {StatusFeedbackReceived, StatusCancelled},
	StatusFeedbackReceived: {StatusConfirmed, StatusCancelled},
	StatusConfirmed:        {StatusPaid, StatusCancelled},
	StatusPaid:             {StatusScheduled, StatusCancelled},
	StatusScheduled:        {StatusCompleted, StatusCancelled},
}

// IsValid returns true if the status is known
func (s BookingStatus) IsValid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal returns true for statuses that never change again
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo returns true if the edge s -> to exists in the graph
func (s BookingStatus) CanTransitionTo(to BookingStatus) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// AcceptsPayments returns true if the payment ledger may record a payment in this status
func (s BookingStatus) AcceptsPayments() bool {
	return s == StatusConfirmed || s == StatusPaid || s == StatusScheduled
}

// ParseBookingStatus конвертирует строку в BookingStatus с валидацией
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", &ValidationError{Violations: Violations{{Field: "status", Message: "unknown booking status " + s}}}
	}
	return status, nil
}
