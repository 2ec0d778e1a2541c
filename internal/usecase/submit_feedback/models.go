package submit_feedback

import "github.com/m04kA/SMC-TourBookingService/internal/domain"

// Request решения клиента по турам
type Request struct {
	Token     string
	Decisions []DecisionInput
}

// DecisionInput решение по одному туру
type DecisionInput struct {
	TourID              string
	Decision            string
	ModificationDetails *ModificationInput
}

// ModificationInput желаемые изменения; дата в формате YYYY-MM-DD
type ModificationInput struct {
	Guests *int
	Date   *string
	Notes  *string
}

// Response модель ответа
type Response struct {
	Booking *domain.Booking
	Counts  domain.FeedbackCounts
}
