package confirm_booking

import (
	"errors"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-TourBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-TourBookingService/internal/api/middleware"
	confirmBooking "github.com/m04kA/SMC-TourBookingService/internal/usecase/confirm_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgMissingStaffID     = "отсутствует ID сотрудника"
	msgCatalogUnavailable = "каталог туров временно недоступен"
)

type Handler struct {
	useCase ConfirmBookingUseCase
	logger  Logger
}

func NewHandler(useCase ConfirmBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/booking/confirm-booking
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	staffID, ok := middleware.GetStaffID(r.Context())
	if !ok {
		h.logger.Warn("POST /booking/confirm-booking - Missing staff ID")
		handlers.RespondUnauthorized(w, msgMissingStaffID)
		return
	}

	var req ConfirmBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /booking/confirm-booking - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if strings.TrimSpace(req.BookingID) == "" {
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(staffID))
	if err != nil {
		switch {
		case errors.Is(err, confirmBooking.ErrCatalogUnavailable):
			h.logger.Warn("POST /booking/confirm-booking - Catalog unavailable: booking_id=%s, error=%v", req.BookingID, err)
			handlers.RespondUnavailable(w, msgCatalogUnavailable)

		case handlers.RespondDomainError(w, err):
			h.logger.Warn("POST /booking/confirm-booking - Rejected: booking_id=%s, error=%v", req.BookingID, err)

		default:
			h.logger.Error("POST /booking/confirm-booking - Failed: booking_id=%s, error=%v", req.BookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /booking/confirm-booking - Feedback processed: booking_id=%s, action=%s, status=%s",
		result.Booking.ID, result.Action, result.Booking.Status)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
