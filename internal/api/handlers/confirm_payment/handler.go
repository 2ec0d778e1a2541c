package confirm_payment

import (
	"net/http"
	"strings"

	"github.com/m04kA/SMC-TourBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-TourBookingService/internal/api/middleware"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgMissingStaffID     = "отсутствует ID сотрудника"
)

type Handler struct {
	useCase ConfirmPaymentUseCase
	logger  Logger
}

func NewHandler(useCase ConfirmPaymentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/booking/confirm-payment
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	staffID, ok := middleware.GetStaffID(r.Context())
	if !ok {
		h.logger.Warn("POST /booking/confirm-payment - Missing staff ID")
		handlers.RespondUnauthorized(w, msgMissingStaffID)
		return
	}

	var req ConfirmPaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /booking/confirm-payment - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if strings.TrimSpace(req.BookingID) == "" {
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(staffID))
	if err != nil {
		if handlers.RespondDomainError(w, err) {
			h.logger.Warn("POST /booking/confirm-payment - Rejected: booking_id=%s, error=%v", req.BookingID, err)
			return
		}
		h.logger.Error("POST /booking/confirm-payment - Failed: booking_id=%s, error=%v", req.BookingID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /booking/confirm-payment - Payment recorded: booking_id=%s, amount=%s, status=%s",
		result.Booking.ID, req.PaymentDetails.ReceivedAmount.StringFixed(2), result.Booking.Status)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
