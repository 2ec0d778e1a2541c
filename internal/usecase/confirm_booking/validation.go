package confirm_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
)

// validateRequest проверяет действие и причину отмены
func validateRequest(req *Request) error {
	switch req.Action {
	case domain.ActionConfirm:
	case domain.ActionCancel:
		notes := strings.TrimSpace(req.CancellationNotes)
		if notes == "" {
			return domain.ErrMissingCancellationNotes
		}
	default:
		return &domain.ValidationError{Violations: domain.Violations{{
			Field:   "action",
			Message: "must be one of: confirm, cancel",
		}}}
	}

	if len(strings.TrimSpace(req.CancellationNotes)) > domain.MaxCancellationNotesLength {
		return &domain.ValidationError{Violations: domain.Violations{{
			Field:   "cancellationNotes",
			Message: fmt.Sprintf("must be at most %d characters", domain.MaxCancellationNotesLength),
		}}}
	}
	return nil
}

// effectiveDecisions объединяет решения клиента с правками сотрудника
// Для тура без решения клиента берется решение по умолчанию
func effectiveDecisions(booking *domain.Booking, overrides []TourOverride) (map[string]domain.FeedbackDecision, error) {
	decisions := make(map[string]domain.FeedbackDecision, len(booking.Tours))
	for i := range booking.Tours {
		tour := booking.Tours[i]
		decision, ok := booking.FeedbackDecisionFor(tour.ID)
		if !ok {
			decision = domain.DefaultDecision(tour)
		}
		decisions[tour.ID] = decision
	}

	var violations domain.Violations
	seen := make(map[string]bool, len(overrides))

	for i, override := range overrides {
		field := fmt.Sprintf("modifiedTours[%d]", i)

		decision, ok := decisions[override.TourID]
		if !ok {
			violations.Add(field+".tourId", "unknown tour %q", override.TourID)
			continue
		}
		if seen[override.TourID] {
			violations.Add(field+".tourId", "duplicate override for tour %q", override.TourID)
			continue
		}
		seen[override.TourID] = true

		before := len(violations)
		if override.Decision != nil {
			kind := domain.Decision(*override.Decision)
			if !kind.IsValid() {
				violations.Add(field+".decision", "must be one of: keep, modify, remove")
			}
			decision.Decision = kind
		}

		details := copyDetails(decision.ModificationDetails)
		if override.Guests != nil {
			guests := *override.Guests
			if guests < 1 || guests > domain.MaxGuestsPerTour {
				violations.Add(field+".guests", "must be between 1 and %d", domain.MaxGuestsPerTour)
			}
			details.Guests = &guests
		}
		if override.Date != nil {
			date, err := time.Parse(domain.DateFormat, strings.TrimSpace(*override.Date))
			if err != nil {
				violations.Add(field+".date", "must match format YYYY-MM-DD")
			}
			details.Date = &date
		}
		if len(violations) > before {
			continue
		}

		// правка гостей или даты без явного решения означает modify
		if override.Decision == nil && (override.Guests != nil || override.Date != nil) {
			decision.Decision = domain.DecisionModify
		}
		if decision.Decision == domain.DecisionModify {
			if details.Guests == nil && details.Date == nil {
				violations.Add(field, "guests or date is required for modify")
				continue
			}
			decision.ModificationDetails = details
		} else {
			decision.ModificationDetails = nil
		}
		decisions[override.TourID] = decision
	}

	if !violations.Empty() {
		return nil, &domain.ValidationError{Violations: violations}
	}
	return decisions, nil
}

func copyDetails(details *domain.ModificationDetails) *domain.ModificationDetails {
	if details == nil {
		return &domain.ModificationDetails{}
	}
	copied := *details
	return &copied
}

// hasSurvivors returns true if at least one tour would stay in the booking
func hasSurvivors(booking *domain.Booking, decisions map[string]domain.FeedbackDecision) bool {
	for i := range booking.Tours {
		tour := &booking.Tours[i]
		if tour.RemovedFromBooking || tour.Status == domain.TourStatusCancelled {
			continue
		}
		if decisions[tour.ID].Decision != domain.DecisionRemove {
			return true
		}
	}
	return false
}
