package verify_feedback_request

import "github.com/m04kA/SMC-TourBookingService/internal/domain"

// Request модель запроса
type Request struct {
	Token string
}

// Response снимок бронирования для страницы обратной связи
type Response struct {
	Booking *domain.Booking
}
