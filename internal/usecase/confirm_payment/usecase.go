package confirm_payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	"github.com/m04kA/SMC-TourBookingService/pkg/ptr"
)

// UseCase use case регистрации платежа
type UseCase struct {
	bookingRepo  BookingRepository
	dispatcher   EventDispatcher
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(bookingRepo BookingRepository, dispatcher EventDispatcher, logger Logger) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		dispatcher:   dispatcher,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case
// Из confirmed бронирование переходит в paid при полной оплате или по явной отметке сотрудника
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ConfirmPayment: booking id=%s, amount=%s, method=%s, staff=%s",
		req.BookingID, req.Amount.String(), req.Method, req.ProcessedBy)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ConfirmPayment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем бронирование
	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, uc.repoError(req.BookingID, err)
	}

	if !booking.Status.AcceptsPayments() {
		uc.logger.Warn("ConfirmPayment: booking id=%s in status=%s", booking.ID, booking.Status)
		return nil, &domain.StateTransitionError{From: booking.Status, To: domain.StatusPaid}
	}

	// 3. Сумма не больше остатка
	balance := booking.Balance()
	if req.Amount.GreaterThan(balance) {
		uc.logger.Warn("ConfirmPayment: booking id=%s amount=%s exceeds balance=%s",
			booking.ID, req.Amount.StringFixed(2), balance.StringFixed(2))
		return nil, &domain.AmountExceedsBalanceError{Amount: req.Amount, Balance: balance}
	}

	// 4. Записываем платеж
	now := uc.timeProvider.Now()
	actor := ptr.Ptr(req.ProcessedBy)
	payment := domain.PaymentRecord{
		Amount:        req.Amount,
		Method:        strings.TrimSpace(req.Method),
		TransactionID: strings.TrimSpace(req.TransactionID),
		ReceiptNumber: strings.TrimSpace(req.ReceiptNumber),
		ReceivedAt:    now,
		ProcessedBy:   actor,
	}
	booking.RecordPayment(payment)

	fullyPaid := booking.PaidAmount.GreaterThanOrEqual(booking.Total) || req.MarkAsFullyPaid
	if booking.Status == domain.StatusConfirmed && fullyPaid {
		if err := booking.TransitionTo(domain.StatusPaid, now); err != nil {
			uc.logger.Warn("ConfirmPayment: booking id=%s: %v", booking.ID, err)
			return nil, err
		}
	}

	booking.AppendLog(now, actor, domain.PaymentReceived{
		Amount:        payment.Amount,
		Method:        payment.Method,
		TransactionID: payment.TransactionID,
		ReceiptNumber: payment.ReceiptNumber,
		PaidAmount:    booking.PaidAmount,
		Balance:       booking.Balance(),
		FullyPaid:     fullyPaid,
	})

	if err := booking.CheckInvariants(); err != nil {
		uc.logger.Error("ConfirmPayment: booking id=%s: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// 5. Сохраняем и передаем события
	events := booking.PendingEvents()
	if err := uc.bookingRepo.Update(ctx, booking); err != nil {
		return nil, uc.repoError(booking.ID, err)
	}
	uc.dispatcher.Dispatch(ctx, booking, events)

	uc.logger.Info("ConfirmPayment: booking id=%s paid=%s of %s, status=%s",
		booking.ID, booking.PaidAmount.StringFixed(2), booking.Total.StringFixed(2), booking.Status)

	return &Response{Booking: booking, FullyPaid: fullyPaid}, nil
}

func (uc *UseCase) repoError(id string, err error) error {
	if domain.IsBusinessError(err) {
		uc.logger.Warn("ConfirmPayment: booking id=%s: %v", id, err)
		return err
	}
	uc.logger.Error("ConfirmPayment: repository error for booking id=%s: %v", id, err)
	return fmt.Errorf("%w: repository error: %v", ErrInternal, err)
}
