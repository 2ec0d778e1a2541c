package notifications

import (
	"context"
	"encoding/json"
	"time"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	"github.com/m04kA/SMC-TourBookingService/internal/integrations/notifyservice"
)

// NotifyClient интерфейс клиента сервиса уведомлений
type NotifyClient interface {
	SendBookingEvents(ctx context.Context, notification *notifyservice.BookingEvents) error
}

// Metrics счетчики событий и неудачных отправок
type Metrics interface {
	RecordBookingEvent(event string)
	RecordDispatchFailure(event string)
}

// OutboxMarker отмечает доставленные события в outbox хранилища
type OutboxMarker interface {
	MarkDispatched(ctx context.Context, bookingID string, until time.Time) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Service передает новые события журнала в сервис уведомлений после успешной записи
// Ошибки отправки не возвращаются: запись бронирования уже зафиксирована
type Service struct {
	client  NotifyClient
	outbox  OutboxMarker
	metrics Metrics
	logger  Logger
}

// NewService создает новый экземпляр сервиса уведомлений
// client может быть nil, тогда события только считаются
func NewService(client NotifyClient, metrics Metrics, logger Logger) *Service {
	return &Service{
		client:  client,
		metrics: metrics,
		logger:  logger,
	}
}

// WithOutbox включает отметку доставленных событий в outbox (только для Postgres)
func (s *Service) WithOutbox(outbox OutboxMarker) *Service {
	s.outbox = outbox
	return s
}

// Dispatch отправляет события одного бронирования
func (s *Service) Dispatch(ctx context.Context, booking *domain.Booking, events []domain.LogEvent) {
	if len(events) == 0 {
		return
	}

	for _, event := range events {
		s.metrics.RecordBookingEvent(string(event.Event()))
	}

	if s.client == nil {
		return
	}

	notification, err := toNotification(booking, events)
	if err != nil {
		s.logger.Error("Dispatch: failed to encode events for booking id=%s: %v", booking.ID, err)
		s.recordFailure(events)
		return
	}

	if err := s.client.SendBookingEvents(ctx, notification); err != nil {
		s.logger.Warn("Dispatch: notification for booking id=%s failed, events=%d: %v", booking.ID, len(events), err)
		s.recordFailure(events)
		return
	}

	s.logger.Info("Dispatch: sent %d events for booking id=%s", len(events), booking.ID)

	if s.outbox != nil {
		until := events[len(events)-1].Timestamp
		if err := s.outbox.MarkDispatched(ctx, booking.ID, until); err != nil {
			s.logger.Warn("Dispatch: failed to mark outbox for booking id=%s: %v", booking.ID, err)
		}
	}
}

func (s *Service) recordFailure(events []domain.LogEvent) {
	for _, event := range events {
		s.metrics.RecordDispatchFailure(string(event.Event()))
	}
}

func toNotification(booking *domain.Booking, events []domain.LogEvent) (*notifyservice.BookingEvents, error) {
	out := &notifyservice.BookingEvents{
		BookingID: booking.ID,
		RequestID: booking.RequestID,
		Status:    string(booking.Status),
		Customer: notifyservice.Customer{
			Name:  booking.Customer.Name,
			Email: booking.Customer.Email,
			Phone: booking.Customer.Phone,
		},
		Total:      booking.Total.StringFixed(2),
		PaidAmount: booking.PaidAmount.StringFixed(2),
		Balance:    booking.Balance().StringFixed(2),
		Events:     make([]notifyservice.Event, 0, len(events)),
	}

	if booking.Status == domain.StatusPendingFeedback && booking.FeedbackToken != nil && booking.FeedbackTokenExpiresAt != nil {
		out.FeedbackLink = &notifyservice.FeedbackLink{
			Token:     *booking.FeedbackToken,
			ExpiresAt: *booking.FeedbackTokenExpiresAt,
		}
	}

	for _, event := range events {
		changes, err := json.Marshal(event.Changes)
		if err != nil {
			return nil, err
		}
		out.Events = append(out.Events, notifyservice.Event{
			Event:       string(event.Event()),
			Timestamp:   event.Timestamp,
			ProcessedBy: event.ProcessedBy,
			Changes:     changes,
		})
	}

	return out, nil
}
