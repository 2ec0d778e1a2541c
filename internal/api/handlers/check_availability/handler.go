package check_availability

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
	useCase CheckAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase CheckAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/booking/check-availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	staffID, ok := middleware.GetStaffID(r.Context())
	if !ok {
		h.logger.Warn("POST /booking/check-availability - Missing staff ID")
		handlers.RespondUnauthorized(w, msgMissingStaffID)
		return
	}

	var req CheckAvailabilityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /booking/check-availability - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if strings.TrimSpace(req.BookingID) == "" {
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(staffID)
	if err != nil {
		h.logger.Warn("POST /booking/check-availability - Failed to parse request: %v", err)
		handlers.RespondDomainError(w, err)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		if handlers.RespondDomainError(w, err) {
			h.logger.Warn("POST /booking/check-availability - Rejected: booking_id=%s, error=%v", req.BookingID, err)
			return
		}
		h.logger.Error("POST /booking/check-availability - Failed: booking_id=%s, error=%v", req.BookingID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /booking/check-availability - Availability recorded: booking_id=%s, status=%s",
		result.Booking.ID, result.Booking.Status)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
