package submit_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
// Возвращает все нарушения сразу
func (uc *UseCase) validateRequest(req *Request, now time.Time) error {
	violations, err := uc.validator.Struct(req, "")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}

	for i, tour := range req.Tours {
		if !tour.Date.IsZero() && isDateInPast(tour.Date, now) {
			violations.Add(fmt.Sprintf("tours[%d].date", i), "must not be in the past")
		}
	}

	if !violations.Empty() {
		return &domain.ValidationError{Violations: violations}
	}
	return nil
}

// normalizeCustomer убирает пробелы по краям контактных данных
func normalizeCustomer(c CustomerRequest) domain.Customer {
	return domain.Customer{
		Name:  strings.TrimSpace(c.Name),
		Email: strings.ToLower(strings.TrimSpace(c.Email)),
		Phone: strings.TrimSpace(c.Phone),
		Notes: strings.TrimSpace(c.Notes),
	}
}

// isDateInPast проверяет, что дата раньше сегодняшнего дня
func isDateInPast(date, now time.Time) bool {
	return dateOnly(date).Before(dateOnly(now))
}

// dateOnly отбрасывает время суток
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
