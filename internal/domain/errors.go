package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrValidation клиентская ошибка валидации, исправляемая повторной отправкой
	ErrValidation = errors.New("validation error")

	// ErrInvalidAvailabilityInput некорректное решение о доступности туров
	ErrInvalidAvailabilityInput = errors.New("invalid availability input")

	// ErrStateTransition операция недопустима в текущем статусе бронирования
	ErrStateTransition = errors.New("illegal state transition")

	// ErrTokenExpired срок действия ссылки обратной связи истек
	ErrTokenExpired = errors.New("feedback token expired")

	// ErrTokenInvalid токен поддельный, чужой или уже использован
	ErrTokenInvalid = errors.New("feedback token invalid")

	// ErrAmountExceedsBalance сумма платежа больше остатка к оплате
	ErrAmountExceedsBalance = errors.New("amount exceeds balance")

	// ErrInvalidAmount сумма платежа должна быть положительной
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrScheduleValidation расписание не прошло валидацию
	ErrScheduleValidation = errors.New("schedule validation error")

	// ErrNoTourPriceData нет данных для расчета цены тура
	ErrNoTourPriceData = errors.New("no tour price data")

	// ErrMissingCancellationNotes отмена без указания причины
	ErrMissingCancellationNotes = errors.New("cancellation notes are required")

	// ErrNoSurvivingTours нельзя подтвердить бронирование без активных туров
	ErrNoSurvivingTours = errors.New("no surviving tours")

	// ErrConcurrentModification бронирование было изменено параллельно
	ErrConcurrentModification = errors.New("concurrent modification")

	// ErrInvariantViolation агрегат не согласован (ошибка в коде, а не во входных данных)
	ErrInvariantViolation = errors.New("booking invariant violation")

	// ErrInvalidGuestCount количество гостей должно быть положительным
	ErrInvalidGuestCount = errors.New("guest count must be positive")
)

// Violation одно нарушенное правило валидации
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Violations накапливает нарушения, чтобы вернуть все сразу, а не только первое
type Violations []Violation

// Add добавляет нарушение
func (v *Violations) Add(field, format string, args ...interface{}) {
	*v = append(*v, Violation{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Empty возвращает true, если нарушений нет
func (v Violations) Empty() bool {
	return len(v) == 0
}

func (v Violations) String() string {
	parts := make([]string, 0, len(v))
	for _, violation := range v {
		parts = append(parts, violation.Field+": "+violation.Message)
	}
	return strings.Join(parts, "; ")
}

// ValidationError перечисляет все нарушения входных данных
type ValidationError struct {
	Violations Violations
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidation, e.Violations)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// InvalidAvailabilityInputError перечисляет проблемы во входных данных проверки доступности
type InvalidAvailabilityInputError struct {
	Violations Violations
}

func (e *InvalidAvailabilityInputError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidAvailabilityInput, e.Violations)
}

func (e *InvalidAvailabilityInputError) Unwrap() error { return ErrInvalidAvailabilityInput }

// ScheduleValidationError перечисляет все нарушения по всем турам
type ScheduleValidationError struct {
	Violations Violations
}

func (e *ScheduleValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrScheduleValidation, e.Violations)
}

func (e *ScheduleValidationError) Unwrap() error { return ErrScheduleValidation }

// StateTransitionError попытка перехода, отсутствующего в графе статусов
type StateTransitionError struct {
	From BookingStatus
	To   BookingStatus
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrStateTransition, e.From, e.To)
}

func (e *StateTransitionError) Unwrap() error { return ErrStateTransition }

// AmountExceedsBalanceError платеж больше остатка
type AmountExceedsBalanceError struct {
	Amount  decimal.Decimal
	Balance decimal.Decimal
}

func (e *AmountExceedsBalanceError) Error() string {
	return fmt.Sprintf("%s: amount=%s balance=%s", ErrAmountExceedsBalance, e.Amount.StringFixed(2), e.Balance.StringFixed(2))
}

func (e *AmountExceedsBalanceError) Unwrap() error { return ErrAmountExceedsBalance }

// InvalidAmountError неположительная сумма платежа
type InvalidAmountError struct {
	Amount decimal.Decimal
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidAmount, e.Amount.String())
}

func (e *InvalidAmountError) Unwrap() error { return ErrInvalidAmount }

// NoTourPriceDataError у тура нет ни исходной цены, ни таблицы групповых цен
type NoTourPriceDataError struct {
	TourID string
	Guests int
}

func (e *NoTourPriceDataError) Error() string {
	return fmt.Sprintf("%s: tour=%s guests=%d", ErrNoTourPriceData, e.TourID, e.Guests)
}

func (e *NoTourPriceDataError) Unwrap() error { return ErrNoTourPriceData }

// NoSurvivingToursError подтверждение бронирования, в котором все туры удалены
type NoSurvivingToursError struct {
	BookingID string
}

func (e *NoSurvivingToursError) Error() string {
	return fmt.Sprintf("%s: booking=%s", ErrNoSurvivingTours, e.BookingID)
}

func (e *NoSurvivingToursError) Unwrap() error { return ErrNoSurvivingTours }

// ConcurrentModificationError запись поверх устаревшей ревизии
type ConcurrentModificationError struct {
	BookingID        string
	ExpectedRevision int64
}

func (e *ConcurrentModificationError) Error() string {
	return fmt.Sprintf("%s: booking=%s expected_revision=%d", ErrConcurrentModification, e.BookingID, e.ExpectedRevision)
}

func (e *ConcurrentModificationError) Unwrap() error { return ErrConcurrentModification }

var businessErrors = []error{
	ErrBookingNotFound,
	ErrValidation,
	ErrInvalidAvailabilityInput,
	ErrStateTransition,
	ErrTokenExpired,
	ErrTokenInvalid,
	ErrAmountExceedsBalance,
	ErrInvalidAmount,
	ErrScheduleValidation,
	ErrNoTourPriceData,
	ErrMissingCancellationNotes,
	ErrNoSurvivingTours,
	ErrConcurrentModification,
	ErrInvalidGuestCount,
}

// IsBusinessError возвращает true для ошибок, которые отдаются клиенту как есть
// Все остальные ошибки считаются внутренними
func IsBusinessError(err error) bool {
	for _, target := range businessErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// ViolationsOf извлекает список нарушений из ошибок валидации
func ViolationsOf(err error) (Violations, bool) {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Violations, true
	}
	var scheduleErr *ScheduleValidationError
	if errors.As(err, &scheduleErr) {
		return scheduleErr.Violations, true
	}
	var availabilityErr *InvalidAvailabilityInputError
	if errors.As(err, &availabilityErr) {
		return availabilityErr.Violations, true
	}
	return nil, false
}
