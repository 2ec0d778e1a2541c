package check_availability

import (
	"time"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
)

// Request решение сотрудника о доступности туров бронирования
type Request struct {
	BookingID   string
	Tours       []TourAvailability
	ProcessedBy string
}

// TourAvailability доступность одного тура
type TourAvailability struct {
	TourID          string
	Status          string
	LimitedPlaces   *int
	AlternativeDate *time.Time
}

// Response модель ответа
type Response struct {
	Booking *domain.Booking
	// AllAvailable true, если бронирование подтверждено без обратной связи клиента
	AllAvailable bool
}
