package client_feedback

import (
	"net/http"

	"github.com/m04kA/SMC-TourBookingService/internal/api/handlers"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
)

type Handler struct {
	useCase SubmitFeedbackUseCase
	logger  Logger
}

func NewHandler(useCase SubmitFeedbackUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/booking/client-feedback
// Публичный маршрут: доступ только по токену из ссылки
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req ClientFeedbackRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /booking/client-feedback - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		if handlers.RespondDomainError(w, err) {
			h.logger.Warn("POST /booking/client-feedback - Rejected: %v", err)
			return
		}
		h.logger.Error("POST /booking/client-feedback - Failed to save feedback: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /booking/client-feedback - Feedback received: booking_id=%s, keep=%d, modify=%d, remove=%d",
		result.Booking.ID, result.Counts.Keep, result.Counts.Modify, result.Counts.Remove)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
