package client_feedback

import (
	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	"github.com/m04kA/SMC-TourBookingService/internal/service/bookings/models"
	submitFeedback "github.com/m04kA/SMC-TourBookingService/internal/usecase/submit_feedback"
)

// ClientFeedbackRequest HTTP request model
type ClientFeedbackRequest struct {
	Token    string        `json:"token"`
	Feedback []DecisionDTO `json:"feedback"`
}

// DecisionDTO решение клиента по туру
type DecisionDTO struct {
	TourID              string           `json:"tourId"`
	Decision            string           `json:"decision"` // keep | modify | remove
	ModificationDetails *ModificationDTO `json:"modificationDetails,omitempty"`
}

// ModificationDTO желаемые изменения тура
type ModificationDTO struct {
	Guests *int    `json:"guests,omitempty"`
	Date   *string `json:"date,omitempty"` // "2026-06-01"
	Notes  *string `json:"notes,omitempty"`
}

// ClientFeedbackResponse HTTP response model
type ClientFeedbackResponse struct {
	Status  string                        `json:"status"`
	Counts  domain.FeedbackCounts         `json:"counts"`
	Booking *models.ClientBookingResponse `json:"booking"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ClientFeedbackRequest) ToUseCaseRequest() *submitFeedback.Request {
	req := &submitFeedback.Request{
		Token:     r.Token,
		Decisions: make([]submitFeedback.DecisionInput, 0, len(r.Feedback)),
	}

	for _, f := range r.Feedback {
		decision := submitFeedback.DecisionInput{
			TourID:   f.TourID,
			Decision: f.Decision,
		}
		if f.ModificationDetails != nil {
			decision.ModificationDetails = &submitFeedback.ModificationInput{
				Guests: f.ModificationDetails.Guests,
				Date:   f.ModificationDetails.Date,
				Notes:  f.ModificationDetails.Notes,
			}
		}
		req.Decisions = append(req.Decisions, decision)
	}

	return req
}

// FromUseCaseResponse формирует HTTP ответ
func FromUseCaseResponse(resp *submitFeedback.Response) *ClientFeedbackResponse {
	return &ClientFeedbackResponse{
		Status:  string(resp.Booking.Status),
		Counts:  resp.Counts,
		Booking: models.FromDomainBookingForClient(resp.Booking),
	}
}
