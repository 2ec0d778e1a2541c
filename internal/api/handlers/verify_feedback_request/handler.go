package verify_feedback_request

import (
	"net/http"

	"github.com/m04kA/SMC-TourBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-TourBookingService/internal/service/bookings/models"
	verifyFeedbackRequest "github.com/m04kA/SMC-TourBookingService/internal/usecase/verify_feedback_request"
)

type Handler struct {
	useCase VerifyFeedbackRequestUseCase
	logger  Logger
}

func NewHandler(useCase VerifyFeedbackRequestUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/booking/verify-feedback-request?token=...
// Публичный маршрут: доступ только по токену из ссылки
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	result, err := h.useCase.Execute(r.Context(), &verifyFeedbackRequest.Request{Token: token})
	if err != nil {
		if handlers.RespondDomainError(w, err) {
			h.logger.Warn("GET /booking/verify-feedback-request - Rejected: %v", err)
			return
		}
		h.logger.Error("GET /booking/verify-feedback-request - Failed to verify token: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /booking/verify-feedback-request - Token verified: booking_id=%s", result.Booking.ID)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainBookingForClient(result.Booking))
}
