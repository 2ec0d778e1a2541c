package submit_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	submitBooking "github.com/m04kA/SMC-TourBookingService/internal/usecase/submit_booking"
)

// SubmitBookingRequest HTTP request model
type SubmitBookingRequest struct {
	Customer CustomerRequest `json:"customer"`
	Tours    []TourRequest   `json:"tours"`
}

// CustomerRequest контакты клиента
type CustomerRequest struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone,omitempty"`
	Notes *string `json:"notes,omitempty"`
}

// TourRequest тур из каталога
type TourRequest struct {
	CatalogTourID string `json:"catalogTourId"`
	Date          string `json:"date"` // "2026-06-01"
	Guests        int    `json:"guests"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// Все некорректные даты возвращаются одной ошибкой валидации
func (r *SubmitBookingRequest) ToUseCaseRequest() (*submitBooking.Request, error) {
	req := &submitBooking.Request{
		Customer: submitBooking.CustomerRequest{
			Name:  r.Customer.Name,
			Email: r.Customer.Email,
			Phone: deref(r.Customer.Phone),
			Notes: deref(r.Customer.Notes),
		},
		Tours: make([]submitBooking.TourRequest, 0, len(r.Tours)),
	}

	var violations domain.Violations
	for i, t := range r.Tours {
		var date time.Time
		if strings.TrimSpace(t.Date) != "" {
			parsed, err := time.Parse(domain.DateFormat, t.Date)
			if err != nil {
				violations.Add(fmt.Sprintf("tours[%d].date", i), "must match format YYYY-MM-DD")
			}
			date = parsed
		}
		req.Tours = append(req.Tours, submitBooking.TourRequest{
			CatalogTourID: t.CatalogTourID,
			Date:          date,
			Guests:        t.Guests,
		})
	}

	if !violations.Empty() {
		return nil, &domain.ValidationError{Violations: violations}
	}
	return req, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
