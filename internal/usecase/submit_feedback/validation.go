package submit_feedback

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
)

// buildDecisions проверяет решения клиента и переводит их в доменную модель
// Перечисляет все нарушения, а не только первое
func buildDecisions(booking *domain.Booking, inputs []DecisionInput, now time.Time) ([]domain.FeedbackDecision, error) {
	var violations domain.Violations
	seen := make(map[string]bool, len(inputs))
	decisions := make([]domain.FeedbackDecision, 0, len(inputs))

	for i, input := range inputs {
		field := fmt.Sprintf("feedback[%d]", i)

		tour, ok := booking.TourByID(input.TourID)
		if !ok {
			violations.Add(field+".tourId", "unknown tour %q", input.TourID)
			continue
		}
		if seen[input.TourID] {
			violations.Add(field+".tourId", "duplicate decision for tour %q", input.TourID)
			continue
		}
		seen[input.TourID] = true

		decision := domain.Decision(input.Decision)
		if !decision.IsValid() {
			violations.Add(field+".decision", "must be one of: keep, modify, remove")
			continue
		}

		result := domain.FeedbackDecision{TourID: tour.ID, Decision: decision}
		if decision == domain.DecisionModify {
			details, ok := validateModification(&violations, field+".modificationDetails", tour, input.ModificationDetails, now)
			if !ok {
				continue
			}
			result.ModificationDetails = details
		}
		decisions = append(decisions, result)
	}

	for i := range booking.Tours {
		if !seen[booking.Tours[i].ID] {
			violations.Add("feedback", "missing decision for tour %q", booking.Tours[i].ID)
		}
	}

	if !violations.Empty() {
		return nil, &domain.ValidationError{Violations: violations}
	}
	return decisions, nil
}

func validateModification(
	violations *domain.Violations,
	field string,
	tour *domain.TourLineItem,
	input *ModificationInput,
	now time.Time,
) (*domain.ModificationDetails, bool) {
	if input == nil || (input.Guests == nil && input.Date == nil) {
		violations.Add(field, "guests or date is required for modify")
		return nil, false
	}

	before := len(*violations)
	details := &domain.ModificationDetails{}

	if input.Guests != nil {
		guests := *input.Guests
		switch {
		case guests < 1:
			violations.Add(field+".guests", "must be at least 1")
		case guests > domain.MaxGuestsPerTour:
			violations.Add(field+".guests", "must be at most %d", domain.MaxGuestsPerTour)
		case tour.AvailabilityStatus == domain.AvailabilityLimited && tour.LimitedPlaces != nil && guests > *tour.LimitedPlaces:
			violations.Add(field+".guests", "must be at most %d available places", *tour.LimitedPlaces)
		}
		details.Guests = &guests
	}

	if input.Date != nil {
		date, err := time.Parse(domain.DateFormat, strings.TrimSpace(*input.Date))
		switch {
		case err != nil:
			violations.Add(field+".date", "must match format YYYY-MM-DD")
		case tour.AvailabilityStatus == domain.AvailabilityAlternative && !isFutureDate(date, now):
			violations.Add(field+".date", "must be in the future")
		case isPastDate(date, now):
			violations.Add(field+".date", "must not be in the past")
		}
		details.Date = &date
	}

	// Без новых значений остаются текущие гости и дата тура
	if input.Guests == nil && tour.AvailabilityStatus == domain.AvailabilityLimited &&
		tour.LimitedPlaces != nil && tour.Guests > *tour.LimitedPlaces {
		violations.Add(field+".guests", "is required: %d guests exceed %d available places", tour.Guests, *tour.LimitedPlaces)
	}
	if input.Date == nil && tour.AvailabilityStatus == domain.AvailabilityAlternative {
		violations.Add(field+".date", "is required: the original date is unavailable")
	}

	if input.Notes != nil {
		notes := strings.TrimSpace(*input.Notes)
		if len(notes) > domain.MaxNotesLength {
			violations.Add(field+".notes", "must be at most %d characters", domain.MaxNotesLength)
		}
		details.Notes = &notes
	}

	return details, len(*violations) == before
}

func isFutureDate(date, now time.Time) bool {
	return dateOnly(date).After(dateOnly(now))
}

func isPastDate(date, now time.Time) bool {
	return dateOnly(date).Before(dateOnly(now))
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
