package complete_booking

import (
	"github.com/m04kA/SMC-TourBookingService/internal/service/bookings/models"
	completeBooking "github.com/m04kA/SMC-TourBookingService/internal/usecase/complete_booking"
)

// CompleteBookingRequest HTTP request model
// Без tourId завершаются все спланированные туры
type CompleteBookingRequest struct {
	BookingID string  `json:"bookingId"`
	TourID    *string `json:"tourId,omitempty"`
}

// CompleteBookingResponse HTTP response model
type CompleteBookingResponse struct {
	CompletedTours []string                `json:"completedTours"`
	Booking        *models.BookingResponse `json:"booking"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CompleteBookingRequest) ToUseCaseRequest(staffID string) *completeBooking.Request {
	return &completeBooking.Request{
		BookingID:   r.BookingID,
		TourID:      r.TourID,
		ProcessedBy: staffID,
	}
}

// FromUseCaseResponse формирует HTTP ответ
func FromUseCaseResponse(resp *completeBooking.Response) *CompleteBookingResponse {
	return &CompleteBookingResponse{
		CompletedTours: resp.CompletedTours,
		Booking:        models.FromDomainBooking(resp.Booking),
	}
}
