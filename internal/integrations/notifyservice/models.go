package notifyservice

import (
	"encoding/json"
	"time"
)

// BookingEvents пакет новых событий одного бронирования
type BookingEvents struct {
	BookingID  string   `json:"booking_id"`
	RequestID  int64    `json:"request_id"`
	Status     string   `json:"status"`
	Customer   Customer `json:"customer"`
	Total      string   `json:"total"`
	PaidAmount string   `json:"paid_amount"`
	Balance    string   `json:"balance"`
	Events     []Event  `json:"events"`

	// FeedbackLink передается только в статусе pending_feedback
	FeedbackLink *FeedbackLink `json:"feedback_link,omitempty"`
}

// FeedbackLink токен ссылки обратной связи для письма клиенту
type FeedbackLink struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Customer контакт для отправки уведомления
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// Event событие журнала бронирования
type Event struct {
	Event       string          `json:"event"`
	Timestamp   time.Time       `json:"timestamp"`
	ProcessedBy *string         `json:"processed_by,omitempty"`
	Changes     json.RawMessage `json:"changes"`
}
