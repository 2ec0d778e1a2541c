package check_availability

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	"github.com/m04kA/SMC-TourBookingService/internal/service/bookings/models"
	checkAvailability "github.com/m04kA/SMC-TourBookingService/internal/usecase/check_availability"
)

// CheckAvailabilityRequest HTTP request model
type CheckAvailabilityRequest struct {
	BookingID string                `json:"bookingId"`
	Tours     []TourAvailabilityDTO `json:"tours"`
}

// TourAvailabilityDTO доступность одного тура
type TourAvailabilityDTO struct {
	TourID          string  `json:"tourId"`
	Status          string  `json:"status"` // available | limited | unavailable | alternative
	LimitedPlaces   *int    `json:"limitedPlaces,omitempty"`
	AlternativeDate *string `json:"alternativeDate,omitempty"` // "2026-06-01"
}

// CheckAvailabilityResponse HTTP response model
// Токен возвращается сотруднику, чтобы он мог переслать ссылку клиенту вручную
type CheckAvailabilityResponse struct {
	AllAvailable  bool                    `json:"allAvailable"`
	FeedbackToken *string                 `json:"feedbackToken,omitempty"`
	Booking       *models.BookingResponse `json:"booking"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CheckAvailabilityRequest) ToUseCaseRequest(staffID string) (*checkAvailability.Request, error) {
	req := &checkAvailability.Request{
		BookingID:   r.BookingID,
		Tours:       make([]checkAvailability.TourAvailability, 0, len(r.Tours)),
		ProcessedBy: staffID,
	}

	var violations domain.Violations
	for i, t := range r.Tours {
		tour := checkAvailability.TourAvailability{
			TourID:        t.TourID,
			Status:        t.Status,
			LimitedPlaces: t.LimitedPlaces,
		}
		if t.AlternativeDate != nil {
			date, err := time.Parse(domain.DateFormat, *t.AlternativeDate)
			if err != nil {
				violations.Add(fmt.Sprintf("tours[%d].alternativeDate", i), "must match format YYYY-MM-DD")
			} else {
				tour.AlternativeDate = &date
			}
		}
		req.Tours = append(req.Tours, tour)
	}

	if !violations.Empty() {
		return nil, &domain.InvalidAvailabilityInputError{Violations: violations}
	}
	return req, nil
}

// FromUseCaseResponse формирует HTTP ответ
func FromUseCaseResponse(resp *checkAvailability.Response) *CheckAvailabilityResponse {
	return &CheckAvailabilityResponse{
		AllAvailable:  resp.AllAvailable,
		FeedbackToken: resp.Booking.FeedbackToken,
		Booking:       models.FromDomainBooking(resp.Booking),
	}
}
