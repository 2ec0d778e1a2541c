package check_availability

import (
	"fmt"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
)

// buildDecisions проверяет, что каждый тур бронирования покрыт ровно одним решением
// Возвращает все найденные проблемы сразу
func buildDecisions(booking *domain.Booking, tours []TourAvailability) ([]domain.AvailabilityDecision, error) {
	var violations domain.Violations
	seen := make(map[string]bool, len(tours))
	decisions := make([]domain.AvailabilityDecision, 0, len(tours))

	for i, input := range tours {
		field := fmt.Sprintf("tours[%d]", i)

		if _, ok := booking.TourByID(input.TourID); !ok {
			violations.Add(field+".tourId", "unknown tour %q", input.TourID)
			continue
		}
		if seen[input.TourID] {
			violations.Add(field+".tourId", "duplicate decision for tour %q", input.TourID)
			continue
		}
		seen[input.TourID] = true

		status := domain.AvailabilityStatus(input.Status)
		if !status.IsDecided() {
			violations.Add(field+".status", "must be one of: available, limited, alternative, unavailable")
			continue
		}

		switch status {
		case domain.AvailabilityLimited:
			if input.LimitedPlaces == nil || *input.LimitedPlaces < 1 {
				violations.Add(field+".limitedPlaces", "must be at least 1 for limited availability")
				continue
			}
		case domain.AvailabilityAlternative:
			if input.AlternativeDate == nil || input.AlternativeDate.IsZero() {
				violations.Add(field+".alternativeDate", "is required for alternative availability")
				continue
			}
		}

		decisions = append(decisions, domain.AvailabilityDecision{
			TourID:          input.TourID,
			Status:          status,
			LimitedPlaces:   input.LimitedPlaces,
			AlternativeDate: input.AlternativeDate,
		})
	}

	for i := range booking.Tours {
		if !seen[booking.Tours[i].ID] {
			violations.Add("tours", "missing decision for tour %q", booking.Tours[i].ID)
		}
	}

	if !violations.Empty() {
		return nil, &domain.InvalidAvailabilityInputError{Violations: violations}
	}
	return decisions, nil
}

// allAvailable returns true if every decision is "available"
func allAvailable(decisions []domain.AvailabilityDecision) bool {
	for _, d := range decisions {
		if d.Status != domain.AvailabilityAvailable {
			return false
		}
	}
	return true
}
