package complete_booking

import "github.com/m04kA/SMC-TourBookingService/internal/domain"

// Request отметка о проведении тура или всего бронирования
// Без TourID завершаются все спланированные туры
type Request struct {
	BookingID   string
	TourID      *string
	ProcessedBy string
}

// Response модель ответа
type Response struct {
	Booking        *domain.Booking
	CompletedTours []string
}
