package domain

import "time"

// Decision client's response to an availability constraint
type Decision string

const (
	DecisionKeep   Decision = "keep"
	DecisionModify Decision = "modify"
	DecisionRemove Decision = "remove"
)

// IsValid returns true if the decision is one of keep/modify/remove
func (d Decision) IsValid() bool {
	return d == DecisionKeep || d == DecisionModify || d == DecisionRemove
}

// ModificationDetails желаемые изменения тура (имеют смысл только для modify)
// nil-поле означает "оставить текущее значение"
type ModificationDetails struct {
	Guests *int       `json:"guests,omitempty"`
	Date   *time.Time `json:"date,omitempty"`
	Notes  *string    `json:"notes,omitempty"`
}

// FeedbackDecision решение клиента по одному туру
type FeedbackDecision struct {
	TourID              string               `json:"tourId"`
	Decision            Decision             `json:"decision"`
	ModificationDetails *ModificationDetails `json:"modificationDetails,omitempty"`
}

// DefaultDecision решение, предлагаемое клиенту по статусу доступности тура:
// available -> keep, limited -> modify с гостями не больше мест,
// alternative -> modify на альтернативную дату, unavailable -> remove.
func DefaultDecision(tour TourLineItem) FeedbackDecision {
	decision := FeedbackDecision{TourID: tour.ID, Decision: DecisionKeep}

	switch tour.AvailabilityStatus {
	case AvailabilityLimited:
		guests := tour.Guests
		if tour.LimitedPlaces != nil && *tour.LimitedPlaces < guests {
			guests = *tour.LimitedPlaces
		}
		decision.Decision = DecisionModify
		decision.ModificationDetails = &ModificationDetails{Guests: &guests}
	case AvailabilityAlternative:
		decision.Decision = DecisionModify
		if tour.AlternativeDate != nil {
			date := *tour.AlternativeDate
			decision.ModificationDetails = &ModificationDetails{Date: &date}
		}
	case AvailabilityUnavailable:
		decision.Decision = DecisionRemove
	}

	return decision
}

// FeedbackCounts количество решений каждого вида
type FeedbackCounts struct {
	Keep   int `json:"keep"`
	Modify int `json:"modify"`
	Remove int `json:"remove"`
}

// CountDecisions считает решения по видам
func CountDecisions(decisions []FeedbackDecision) FeedbackCounts {
	var counts FeedbackCounts
	for _, d := range decisions {
		switch d.Decision {
		case DecisionKeep:
			counts.Keep++
		case DecisionModify:
			counts.Modify++
		case DecisionRemove:
			counts.Remove++
		}
	}
	return counts
}
