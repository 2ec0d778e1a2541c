package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// EventKind тег события журнала
type EventKind string

const (
	EventBookingSubmitted    EventKind = "booking_submitted"
	EventAvailabilityChecked EventKind = "availability_checked"
	EventFeedbackReceived    EventKind = "feedback_received"
	EventFeedbackProcessed   EventKind = "feedback_processed"
	EventPaymentReceived     EventKind = "payment_received"
	EventTourScheduled       EventKind = "tour_scheduled"
	EventScheduleUpdated     EventKind = "schedule_updated"
	EventTourCompleted       EventKind = "tour_completed"
	EventBookingCompleted    EventKind = "booking_completed"
	EventBookingCancelled    EventKind = "booking_cancelled"
)

// LogChanges типизированная нагрузка события журнала
// Тег события выводится из типа нагрузки, поэтому они не могут разойтись
type LogChanges interface {
	Kind() EventKind
}

// BookingSubmitted бронирование создано
type BookingSubmitted struct {
	TourCount int             `json:"tourCount"`
	Total     decimal.Decimal `json:"total"`
}

func (BookingSubmitted) Kind() EventKind { return EventBookingSubmitted }

// AvailabilityChange решение о доступности одного тура
type AvailabilityChange struct {
	TourID          string             `json:"tourId"`
	Status          AvailabilityStatus `json:"status"`
	LimitedPlaces   *int               `json:"limitedPlaces,omitempty"`
	AlternativeDate *time.Time         `json:"alternativeDate,omitempty"`
}

// AvailabilityChecked сотрудник проверил доступность туров
type AvailabilityChecked struct {
	Tours        []AvailabilityChange `json:"tours"`
	AllAvailable bool                 `json:"allAvailable"`
	NextStatus   BookingStatus        `json:"nextStatus"`
}

func (AvailabilityChecked) Kind() EventKind { return EventAvailabilityChecked }

// FeedbackReceived клиент отправил решения по турам
type FeedbackReceived struct {
	FeedbackCounts
}

func (FeedbackReceived) Kind() EventKind { return EventFeedbackReceived }

// TourChange изменение тура при согласовании
type TourChange struct {
	TourID         string          `json:"tourId"`
	Decision       Decision        `json:"decision"`
	PreviousPrice  decimal.Decimal `json:"previousPrice"`
	NewPrice       decimal.Decimal `json:"newPrice"`
	PreviousGuests int             `json:"previousGuests"`
	NewGuests      int             `json:"newGuests"`
	PreviousDate   time.Time       `json:"previousDate"`
	NewDate        time.Time       `json:"newDate"`
}

// FeedbackProcessed сотрудник применил решения клиента
// RequestedAction отличается от Action, если confirm был заменен на cancel
type FeedbackProcessed struct {
	Action          string          `json:"action"`
	RequestedAction string          `json:"requestedAction"`
	ConfirmedTours  int             `json:"confirmedTours"`
	CancelledTours  int             `json:"cancelledTours"`
	PreviousTotal   decimal.Decimal `json:"previousTotal"`
	NewTotal        decimal.Decimal `json:"newTotal"`
	TourChanges     []TourChange    `json:"tourChanges,omitempty"`
	Notes           string          `json:"notes,omitempty"`
}

func (FeedbackProcessed) Kind() EventKind { return EventFeedbackProcessed }

// PaymentReceived зарегистрирован платеж
type PaymentReceived struct {
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	TransactionID string          `json:"transactionId,omitempty"`
	ReceiptNumber string          `json:"receiptNumber,omitempty"`
	PaidAmount    decimal.Decimal `json:"paidAmount"`
	Balance       decimal.Decimal `json:"balance"`
	FullyPaid     bool            `json:"fullyPaid"`
}

func (PaymentReceived) Kind() EventKind { return EventPaymentReceived }

// TourScheduled к туру прикреплено расписание
type TourScheduled struct {
	TourID   string    `json:"tourId"`
	TourType TourType  `json:"tourType"`
	Date     time.Time `json:"date"`
}

func (TourScheduled) Kind() EventKind { return EventTourScheduled }

// ScheduleUpdated расписание тура заменено
type ScheduleUpdated struct {
	TourID   string    `json:"tourId"`
	TourType TourType  `json:"tourType"`
	Date     time.Time `json:"date"`
}

func (ScheduleUpdated) Kind() EventKind { return EventScheduleUpdated }

// TourCompleted тур проведен
type TourCompleted struct {
	TourID string `json:"tourId"`
}

func (TourCompleted) Kind() EventKind { return EventTourCompleted }

// BookingCompleted все туры бронирования проведены
type BookingCompleted struct {
	CompletedTours int `json:"completedTours"`
}

func (BookingCompleted) Kind() EventKind { return EventBookingCompleted }

// BookingCancelled бронирование отменено
type BookingCancelled struct {
	PreviousStatus BookingStatus   `json:"previousStatus"`
	Notes          string          `json:"notes"`
	PaidAmount     decimal.Decimal `json:"paidAmount"`
}

func (BookingCancelled) Kind() EventKind { return EventBookingCancelled }

// LogEvent запись журнала; позиция в журнале является идентификатором
type LogEvent struct {
	Timestamp   time.Time
	ProcessedBy *string
	Changes     LogChanges
}

// Event тег события
func (e LogEvent) Event() EventKind {
	if e.Changes == nil {
		return ""
	}
	return e.Changes.Kind()
}

type logEventJSON struct {
	Timestamp   time.Time       `json:"timestamp"`
	Event       EventKind       `json:"event"`
	ProcessedBy *string         `json:"processedBy,omitempty"`
	Changes     json.RawMessage `json:"changes"`
}

func (e LogEvent) MarshalJSON() ([]byte, error) {
	changes, err := json.Marshal(e.Changes)
	if err != nil {
		return nil, err
	}
	return json.Marshal(logEventJSON{
		Timestamp:   e.Timestamp,
		Event:       e.Event(),
		ProcessedBy: e.ProcessedBy,
		Changes:     changes,
	})
}

func (e *LogEvent) UnmarshalJSON(data []byte) error {
	var raw logEventJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var changes LogChanges
	switch raw.Event {
	case EventBookingSubmitted:
		changes = &BookingSubmitted{}
	case EventAvailabilityChecked:
		changes = &AvailabilityChecked{}
	case EventFeedbackReceived:
		changes = &FeedbackReceived{}
	case EventFeedbackProcessed:
		changes = &FeedbackProcessed{}
	case EventPaymentReceived:
		changes = &PaymentReceived{}
	case EventTourScheduled:
		changes = &TourScheduled{}
	case EventScheduleUpdated:
		changes = &ScheduleUpdated{}
	case EventTourCompleted:
		changes = &TourCompleted{}
	case EventBookingCompleted:
		changes = &BookingCompleted{}
	case EventBookingCancelled:
		changes = &BookingCancelled{}
	default:
		return fmt.Errorf("unknown log event %q", raw.Event)
	}

	if len(raw.Changes) > 0 {
		if err := json.Unmarshal(raw.Changes, changes); err != nil {
			return fmt.Errorf("decode %s changes: %w", raw.Event, err)
		}
	}

	e.Timestamp = raw.Timestamp
	e.ProcessedBy = raw.ProcessedBy
	e.Changes = deref(changes)
	return nil
}

// deref хранит нагрузку по значению, как ее добавляет код операций
func deref(c LogChanges) LogChanges {
	switch v := c.(type) {
	case *BookingSubmitted:
		return *v
	case *AvailabilityChecked:
		return *v
	case *FeedbackReceived:
		return *v
	case *FeedbackProcessed:
		return *v
	case *PaymentReceived:
		return *v
	case *TourScheduled:
		return *v
	case *ScheduleUpdated:
		return *v
	case *TourCompleted:
		return *v
	case *BookingCompleted:
		return *v
	case *BookingCancelled:
		return *v
	}
	return c
}

// AuditLog журнал событий бронирования, только добавление
type AuditLog struct {
	events []LogEvent
}

// Append добавляет событие в конец журнала
func (l *AuditLog) Append(event LogEvent) {
	l.events = append(l.events, event)
}

// Len количество событий
func (l AuditLog) Len() int {
	return len(l.events)
}

// Events возвращает копию всех событий
func (l AuditLog) Events() []LogEvent {
	out := make([]LogEvent, len(l.events))
	copy(out, l.events)
	return out
}

// Since возвращает копию событий начиная с позиции n
func (l AuditLog) Since(n int) []LogEvent {
	if n < 0 {
		n = 0
	}
	if n >= len(l.events) {
		return nil
	}
	out := make([]LogEvent, len(l.events)-n)
	copy(out, l.events[n:])
	return out
}

func (l AuditLog) MarshalJSON() ([]byte, error) {
	if l.events == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.events)
}

func (l *AuditLog) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &l.events)
}
