package schedule_booking

import (
	"github.com/m04kA/SMC-TourBookingService/internal/service/bookings/models"
	scheduleBooking "github.com/m04kA/SMC-TourBookingService/internal/usecase/schedule_booking"
)

// ScheduleBookingRequest HTTP request model
// Расписания туров передаются в формате use case: дата YYYY-MM-DD, время HH:MM
type ScheduleBookingRequest struct {
	BookingID       string                         `json:"bookingId"`
	TourSchedules   []scheduleBooking.TourSchedule `json:"tourSchedules"`
	ExcludedTourIDs []string                       `json:"excludedTourIds,omitempty"`
}

// ScheduleBookingResponse HTTP response model
type ScheduleBookingResponse struct {
	Created bool                    `json:"created"`
	Booking *models.BookingResponse `json:"booking"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ScheduleBookingRequest) ToUseCaseRequest(staffID string) *scheduleBooking.Request {
	return &scheduleBooking.Request{
		BookingID:       r.BookingID,
		TourSchedules:   r.TourSchedules,
		ExcludedTourIDs: r.ExcludedTourIDs,
		ProcessedBy:     staffID,
	}
}

// FromUseCaseResponse формирует HTTP ответ
func FromUseCaseResponse(resp *scheduleBooking.Response) *ScheduleBookingResponse {
	return &ScheduleBookingResponse{
		Created: resp.Created,
		Booking: models.FromDomainBooking(resp.Booking),
	}
}
