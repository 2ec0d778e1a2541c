package submit_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TourBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-TourBookingService/internal/service/bookings/models"
	submitBooking "github.com/m04kA/SMC-TourBookingService/internal/usecase/submit_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgCatalogUnavailable = "каталог туров временно недоступен"
)

type Handler struct {
	useCase SubmitBookingUseCase
	logger  Logger
}

func NewHandler(useCase SubmitBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/booking/submit
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req SubmitBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /booking/submit - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /booking/submit - Failed to parse request: %v", err)
		handlers.RespondDomainError(w, err)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, submitBooking.ErrCatalogUnavailable):
			h.logger.Warn("POST /booking/submit - Catalog unavailable: %v", err)
			handlers.RespondUnavailable(w, msgCatalogUnavailable)

		case handlers.RespondDomainError(w, err):
			h.logger.Warn("POST /booking/submit - Rejected: email=%s, error=%v", req.Customer.Email, err)

		default:
			h.logger.Error("POST /booking/submit - Failed to submit booking: email=%s, error=%v", req.Customer.Email, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /booking/submit - Booking submitted successfully: booking_id=%s, tours=%d",
		result.Booking.ID, len(result.Booking.Tours))
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainBooking(result.Booking))
}
