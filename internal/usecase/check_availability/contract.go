package check_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	Update(ctx context.Context, booking *domain.Booking) error
}

// TokenIssuer выпускает токен ссылки обратной связи
type TokenIssuer interface {
	Issue(bookingID string, now time.Time) (string, time.Time, error)
}

// EventDispatcher передает новые события журнала после успешной записи
type EventDispatcher interface {
	Dispatch(ctx context.Context, booking *domain.Booking, events []domain.LogEvent)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}
