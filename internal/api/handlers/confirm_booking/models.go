package confirm_booking

import (
	"github.com/m04kA/SMC-TourBookingService/internal/service/bookings/models"
	confirmBooking "github.com/m04kA/SMC-TourBookingService/internal/usecase/confirm_booking"
)

// ConfirmBookingRequest HTTP request model
type ConfirmBookingRequest struct {
	BookingID         string            `json:"bookingId"`
	Action            string            `json:"action"` // confirm | cancel
	ModifiedTours     []TourOverrideDTO `json:"modifiedTours,omitempty"`
	CancellationNotes *string           `json:"cancellationNotes,omitempty"`
}

// TourOverrideDTO правка сотрудника поверх решения клиента
type TourOverrideDTO struct {
	TourID   string  `json:"tourId"`
	Decision *string `json:"decision,omitempty"`
	Guests   *int    `json:"guests,omitempty"`
	Date     *string `json:"date,omitempty"` // "2026-06-01"
}

// ConfirmBookingResponse HTTP response model
type ConfirmBookingResponse struct {
	Action  string                  `json:"action"`
	Booking *models.BookingResponse `json:"booking"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ConfirmBookingRequest) ToUseCaseRequest(staffID string) *confirmBooking.Request {
	req := &confirmBooking.Request{
		BookingID:     r.BookingID,
		Action:        r.Action,
		ModifiedTours: make([]confirmBooking.TourOverride, 0, len(r.ModifiedTours)),
		ProcessedBy:   staffID,
	}
	if r.CancellationNotes != nil {
		req.CancellationNotes = *r.CancellationNotes
	}

	for _, t := range r.ModifiedTours {
		req.ModifiedTours = append(req.ModifiedTours, confirmBooking.TourOverride{
			TourID:   t.TourID,
			Decision: t.Decision,
			Guests:   t.Guests,
			Date:     t.Date,
		})
	}

	return req
}

// FromUseCaseResponse формирует HTTP ответ
func FromUseCaseResponse(resp *confirmBooking.Response) *ConfirmBookingResponse {
	return &ConfirmBookingResponse{
		Action:  resp.Action,
		Booking: models.FromDomainBooking(resp.Booking),
	}
}
