package cancel_booking

import (
	"github.com/m04kA/SMC-TourBookingService/internal/service/bookings/models"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	BookingID         string  `json:"bookingId"`
	CancellationNotes *string `json:"cancellationNotes,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CancelBookingRequest) ToServiceRequest(staffID string) *models.CancelBookingRequest {
	notes := ""
	if r.CancellationNotes != nil {
		notes = *r.CancellationNotes
	}

	return &models.CancelBookingRequest{
		BookingID:         r.BookingID,
		CancellationNotes: notes,
		ProcessedBy:       staffID,
	}
}
