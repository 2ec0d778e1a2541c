package cancel_booking

import (
	"net/http"
	"strings"

	"github.com/m04kA/SMC-TourBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-TourBookingService/internal/api/middleware"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingStaffID     = "отсутствует ID сотрудника"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/booking/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	staffID, ok := middleware.GetStaffID(r.Context())
	if !ok {
		h.logger.Warn("POST /booking/cancel - Missing staff ID")
		handlers.RespondUnauthorized(w, msgMissingStaffID)
		return
	}

	var req CancelBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /booking/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if strings.TrimSpace(req.BookingID) == "" {
		h.logger.Warn("POST /booking/cancel - Empty booking ID")
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	booking, err := h.service.Cancel(r.Context(), req.ToServiceRequest(staffID))
	if err != nil {
		if handlers.RespondDomainError(w, err) {
			h.logger.Warn("POST /booking/cancel - Rejected: booking_id=%s, error=%v", req.BookingID, err)
			return
		}
		h.logger.Error("POST /booking/cancel - Failed to cancel booking: booking_id=%s, error=%v", req.BookingID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /booking/cancel - Booking cancelled successfully: booking_id=%s, staff_id=%s",
		req.BookingID, staffID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
