package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Customer контактные данные клиента
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// PaymentRecord запись платежного журнала
type PaymentRecord struct {
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	TransactionID string          `json:"transactionId,omitempty"`
	ReceiptNumber string          `json:"receiptNumber,omitempty"`
	ReceivedAt    time.Time       `json:"receivedAt"`
	ProcessedBy   *string         `json:"processedBy,omitempty"`
}

// Booking агрегат бронирования: один документ со всеми турами, платежами и журналом
type Booking struct {
	ID        string         `json:"id"`
	RequestID int64          `json:"requestId"`
	Status    BookingStatus  `json:"status"`
	Revision  int64          `json:"revision"`
	Customer  Customer       `json:"customer"`
	Tours     []TourLineItem `json:"tours"`

	Total      decimal.Decimal `json:"total"`
	PaidAmount decimal.Decimal `json:"paidAmount"`
	Payments   []PaymentRecord `json:"payments,omitempty"`

	SuggestedDecisions []FeedbackDecision `json:"suggestedDecisions,omitempty"`
	FeedbackDecisions  []FeedbackDecision `json:"feedbackDecisions,omitempty"`

	FeedbackToken          *string    `json:"feedbackToken,omitempty"`
	FeedbackTokenExpiresAt *time.Time `json:"feedbackTokenExpiresAt,omitempty"`

	CancellationNotes *string `json:"cancellationNotes,omitempty"`

	Log AuditLog `json:"log"`

	SubmittedAt             time.Time  `json:"submittedAt"`
	AvailabilityConfirmedAt *time.Time `json:"availabilityConfirmedAt,omitempty"`
	FeedbackReceivedAt      *time.Time `json:"feedbackReceivedAt,omitempty"`
	ConfirmedAt             *time.Time `json:"confirmedAt,omitempty"`
	PaidAt                  *time.Time `json:"paidAt,omitempty"`
	ScheduledAt             *time.Time `json:"scheduledAt,omitempty"`
	CompletedAt             *time.Time `json:"completedAt,omitempty"`
	CancelledAt             *time.Time `json:"cancelledAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// длина журнала на момент последнего чтения/записи в хранилище
	persistedLogLen int
}

// NewBooking создает бронирование в статусе pending
func NewBooking(id string, customer Customer, tours []TourLineItem, now time.Time) *Booking {
	b := &Booking{
		ID:          id,
		Status:      StatusPending,
		Customer:    customer,
		Tours:       tours,
		SubmittedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	b.RecalculateTotal()
	b.AppendLog(now, nil, BookingSubmitted{TourCount: len(tours), Total: b.Total})
	return b
}

// TourByID возвращает тур по идентификатору
func (b *Booking) TourByID(tourID string) (*TourLineItem, bool) {
	for i := range b.Tours {
		if b.Tours[i].ID == tourID {
			return &b.Tours[i], true
		}
	}
	return nil, false
}

// ActiveTotal сумма цен туров, которые не отменены и не удалены
func (b *Booking) ActiveTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range b.Tours {
		if b.Tours[i].IsActive() {
			total = total.Add(b.Tours[i].CalculatedPrice)
		}
	}
	return total
}

// RecalculateTotal пересчитывает итог по активным турам
func (b *Booking) RecalculateTotal() {
	b.Total = b.ActiveTotal()
}

// Balance остаток к оплате
func (b *Booking) Balance() decimal.Decimal {
	balance := b.Total.Sub(b.PaidAmount)
	if balance.IsNegative() {
		return decimal.Zero
	}
	return balance
}

// SurvivingTours количество туров, оставшихся в бронировании
func (b *Booking) SurvivingTours() int {
	count := 0
	for i := range b.Tours {
		if b.Tours[i].IsActive() {
			count++
		}
	}
	return count
}

// FeedbackDecisionFor решение клиента по туру
func (b *Booking) FeedbackDecisionFor(tourID string) (FeedbackDecision, bool) {
	for _, d := range b.FeedbackDecisions {
		if d.TourID == tourID {
			return d, true
		}
	}
	return FeedbackDecision{}, false
}

// IsFullyScheduled returns true if every tour that needs a schedule has one
func (b *Booking) IsFullyScheduled() bool {
	eligible := 0
	for i := range b.Tours {
		tour := &b.Tours[i]
		if !tour.NeedsSchedule() {
			continue
		}
		eligible++
		if tour.Schedule == nil {
			return false
		}
	}
	return eligible > 0
}

// AllScheduledToursCompleted returns true if every scheduled tour has been completed
func (b *Booking) AllScheduledToursCompleted() bool {
	scheduled := 0
	for i := range b.Tours {
		tour := &b.Tours[i]
		if !tour.IsCompletable() {
			continue
		}
		scheduled++
		if !tour.Completed {
			return false
		}
	}
	return scheduled > 0
}

// TransitionTo переводит бронирование в новый статус по графу переходов
// и проставляет метку времени соответствующей фазы
func (b *Booking) TransitionTo(to BookingStatus, now time.Time) error {
	if !b.Status.CanTransitionTo(to) {
		return &StateTransitionError{From: b.Status, To: to}
	}
	if to == StatusConfirmed && b.SurvivingTours() == 0 {
		return &NoSurvivingToursError{BookingID: b.ID}
	}

	at := now
	switch to {
	case StatusPendingFeedback:
		b.AvailabilityConfirmedAt = &at
	case StatusFeedbackReceived:
		b.FeedbackReceivedAt = &at
	case StatusConfirmed:
		if b.Status == StatusPending {
			b.AvailabilityConfirmedAt = &at
		}
		b.ConfirmedAt = &at
	case StatusPaid:
		b.PaidAt = &at
	case StatusScheduled:
		b.ScheduledAt = &at
	case StatusCompleted:
		b.CompletedAt = &at
	case StatusCancelled:
		b.CancelledAt = &at
	}

	b.Status = to
	return nil
}

// Cancel отменяет бронирование вместе со всеми турами
func (b *Booking) Cancel(now time.Time, notes string) error {
	if err := b.TransitionTo(StatusCancelled, now); err != nil {
		return err
	}
	for i := range b.Tours {
		b.Tours[i].Cancel()
	}
	b.RecalculateTotal()
	b.ClearFeedbackToken()
	b.CancellationNotes = &notes
	return nil
}

// ClearFeedbackToken делает ссылку обратной связи недействительной
func (b *Booking) ClearFeedbackToken() {
	b.FeedbackToken = nil
	b.FeedbackTokenExpiresAt = nil
}

// RecordPayment добавляет платеж в журнал и увеличивает оплаченную сумму
func (b *Booking) RecordPayment(payment PaymentRecord) {
	b.Payments = append(b.Payments, payment)
	b.PaidAmount = b.PaidAmount.Add(payment.Amount)
}

// AppendLog добавляет событие в журнал
func (b *Booking) AppendLog(now time.Time, actor *string, changes LogChanges) {
	b.Log.Append(LogEvent{Timestamp: now, ProcessedBy: actor, Changes: changes})
	b.UpdatedAt = now
}

// MarkPersisted фиксирует, что текущий журнал сохранен в хранилище
func (b *Booking) MarkPersisted() {
	b.persistedLogLen = b.Log.Len()
}

// PendingEvents события, добавленные после последнего сохранения
func (b *Booking) PendingEvents() []LogEvent {
	return b.Log.Since(b.persistedLogLen)
}

// CheckInvariants проверяет согласованность агрегата перед записью
func (b *Booking) CheckInvariants() error {
	if !b.Status.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvariantViolation, b.Status)
	}
	if expected := b.ActiveTotal(); !b.Total.Equal(expected) {
		return fmt.Errorf("%w: total=%s expected=%s", ErrInvariantViolation, b.Total, expected)
	}
	if b.PaidAmount.IsNegative() {
		return fmt.Errorf("%w: negative paid amount %s", ErrInvariantViolation, b.PaidAmount)
	}

	for i := range b.Tours {
		tour := &b.Tours[i]
		if tour.Schedule != nil && !tour.IsSchedulable() {
			return fmt.Errorf("%w: tour %s holds a schedule but is not confirmed", ErrInvariantViolation, tour.ID)
		}
		if tour.RemovedFromBooking && !tour.CalculatedPrice.IsZero() {
			return fmt.Errorf("%w: removed tour %s has price %s", ErrInvariantViolation, tour.ID, tour.CalculatedPrice)
		}
	}

	switch b.Status {
	case StatusPendingFeedback:
		if b.FeedbackToken == nil {
			return fmt.Errorf("%w: pending_feedback without token", ErrInvariantViolation)
		}
	case StatusConfirmed, StatusPaid:
		if b.SurvivingTours() == 0 {
			return fmt.Errorf("%w: %s with no surviving tours", ErrInvariantViolation, b.Status)
		}
	case StatusScheduled:
		if !b.IsFullyScheduled() {
			return fmt.Errorf("%w: scheduled with unscheduled tours", ErrInvariantViolation)
		}
	case StatusCompleted:
		if !b.AllScheduledToursCompleted() {
			return fmt.Errorf("%w: completed with unfinished tours", ErrInvariantViolation)
		}
	}

	return nil
}
