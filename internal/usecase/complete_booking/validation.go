package complete_booking

import "github.com/m04kA/SMC-TourBookingService/internal/domain"

// toursToComplete выбирает туры для завершения
func toursToComplete(booking *domain.Booking, tourID *string) ([]*domain.TourLineItem, error) {
	if tourID != nil {
		tour, ok := booking.TourByID(*tourID)
		var violations domain.Violations
		switch {
		case !ok:
			violations.Add("tourId", "unknown tour %q", *tourID)
		case !tour.IsCompletable():
			violations.Add("tourId", "tour %q is not scheduled", *tourID)
		case tour.Completed:
			violations.Add("tourId", "tour %q is already completed", *tourID)
		}
		if !violations.Empty() {
			return nil, &domain.ValidationError{Violations: violations}
		}
		return []*domain.TourLineItem{tour}, nil
	}

	tours := make([]*domain.TourLineItem, 0, len(booking.Tours))
	for i := range booking.Tours {
		tour := &booking.Tours[i]
		if tour.IsCompletable() && !tour.Completed {
			tours = append(tours, tour)
		}
	}
	if len(tours) == 0 {
		return nil, &domain.ValidationError{Violations: domain.Violations{{
			Field:   "tourId",
			Message: "no scheduled tours left to complete",
		}}}
	}
	return tours, nil
}
