package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
)

const (
	msgInternalError = "внутренняя ошибка сервера"

	// maxBodyBytes ограничение на размер тела запроса
	maxBodyBytes = 1 << 20
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Code            int                `json:"code"`
	Kind            string             `json:"kind"`
	Message         string             `json:"message"`
	Violations      []domain.Violation `json:"violations,omitempty"`
	CurrentStatus   string             `json:"currentStatus,omitempty"`
	AttemptedStatus string             `json:"attemptedStatus,omitempty"`
}

// Виды ошибок в поле kind
const (
	KindBadRequest             = "bad_request"
	KindUnauthorized           = "unauthorized"
	KindForbidden              = "forbidden"
	KindNotFound               = "not_found"
	KindInternal               = "internal"
	KindValidation             = "validation"
	KindInvalidAvailability    = "invalid_availability_input"
	KindScheduleValidation     = "schedule_validation"
	KindStateTransition        = "state_transition"
	KindTokenExpired           = "token_expired"
	KindTokenInvalid           = "token_invalid"
	KindAmountExceedsBalance   = "amount_exceeds_balance"
	KindInvalidAmount          = "invalid_amount"
	KindNoTourPriceData        = "no_tour_price_data"
	KindMissingNotes           = "missing_cancellation_notes"
	KindNoSurvivingTours       = "no_surviving_tours"
	KindConcurrentModification = "concurrent_modification"
	KindUnavailable            = "dependency_unavailable"
)

// DecodeJSON декодирует тело запроса, неизвестные поля считаются ошибкой
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New("empty request body")
	}
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	return nil
}

// RespondJSON отправляет JSON ответ
func RespondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// RespondError отправляет ошибку с указанным статусом
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Code: status, Kind: kindForStatus(status), Message: message})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, message)
}

func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// RespondDomainError переводит бизнес-ошибку домена в HTTP ответ
// Возвращает false, если ошибка не относится к домену (ответ не отправлен)
func RespondDomainError(w http.ResponseWriter, err error) bool {
	resp, ok := DomainErrorResponse(err)
	if !ok {
		return false
	}
	RespondJSON(w, resp.Code, resp)
	return true
}

// DomainErrorResponse строит тело ответа для бизнес-ошибки
func DomainErrorResponse(err error) (*ErrorResponse, bool) {
	resp := &ErrorResponse{Message: err.Error()}

	var transitionErr *domain.StateTransitionError
	switch {
	case errors.Is(err, domain.ErrBookingNotFound):
		resp.Code, resp.Kind, resp.Message = http.StatusNotFound, KindNotFound, "бронирование не найдено"

	case errors.Is(err, domain.ErrValidation):
		resp.Code, resp.Kind, resp.Message = http.StatusBadRequest, KindValidation, "некорректные данные запроса"

	case errors.Is(err, domain.ErrInvalidAvailabilityInput):
		resp.Code, resp.Kind, resp.Message = http.StatusBadRequest, KindInvalidAvailability, "некорректные данные о доступности туров"

	case errors.Is(err, domain.ErrScheduleValidation):
		resp.Code, resp.Kind, resp.Message = http.StatusUnprocessableEntity, KindScheduleValidation, "расписание не прошло проверку"

	case errors.As(err, &transitionErr):
		resp.Code, resp.Kind = http.StatusConflict, KindStateTransition
		resp.Message = "операция недоступна в текущем статусе бронирования"
		resp.CurrentStatus = string(transitionErr.From)
		resp.AttemptedStatus = string(transitionErr.To)

	case errors.Is(err, domain.ErrTokenExpired):
		resp.Code, resp.Kind, resp.Message = http.StatusGone, KindTokenExpired, "срок действия ссылки истек"

	case errors.Is(err, domain.ErrTokenInvalid):
		resp.Code, resp.Kind, resp.Message = http.StatusForbidden, KindTokenInvalid, "ссылка недействительна"

	case errors.Is(err, domain.ErrAmountExceedsBalance):
		resp.Code, resp.Kind = http.StatusBadRequest, KindAmountExceedsBalance

	case errors.Is(err, domain.ErrInvalidAmount):
		resp.Code, resp.Kind, resp.Message = http.StatusBadRequest, KindInvalidAmount, "сумма платежа должна быть положительной"

	case errors.Is(err, domain.ErrNoTourPriceData):
		resp.Code, resp.Kind = http.StatusUnprocessableEntity, KindNoTourPriceData

	case errors.Is(err, domain.ErrMissingCancellationNotes):
		resp.Code, resp.Kind, resp.Message = http.StatusBadRequest, KindMissingNotes, "укажите причину отмены"

	case errors.Is(err, domain.ErrNoSurvivingTours):
		resp.Code, resp.Kind, resp.Message = http.StatusConflict, KindNoSurvivingTours, "в бронировании не осталось туров"

	case errors.Is(err, domain.ErrConcurrentModification):
		resp.Code, resp.Kind, resp.Message = http.StatusConflict, KindConcurrentModification, "бронирование было изменено, повторите запрос"

	case errors.Is(err, domain.ErrInvalidGuestCount):
		resp.Code, resp.Kind, resp.Message = http.StatusBadRequest, KindValidation, "количество гостей должно быть положительным"

	default:
		return nil, false
	}

	if violations, ok := domain.ViolationsOf(err); ok {
		resp.Violations = violations
	}
	return resp, true
}

// RespondUnavailable внешний сервис недоступен
func RespondUnavailable(w http.ResponseWriter, message string) {
	RespondJSON(w, http.StatusServiceUnavailable, ErrorResponse{
		Code:    http.StatusServiceUnavailable,
		Kind:    KindUnavailable,
		Message: message,
	})
}

func kindForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return KindBadRequest
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusServiceUnavailable:
		return KindUnavailable
	default:
		return KindInternal
	}
}
