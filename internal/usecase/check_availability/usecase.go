package check_availability

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	"github.com/m04kA/SMC-TourBookingService/pkg/ptr"
)

// UseCase use case проверки доступности туров сотрудником
type UseCase struct {
	bookingRepo  BookingRepository
	tokenIssuer  TokenIssuer
	dispatcher   EventDispatcher
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	tokenIssuer TokenIssuer,
	dispatcher EventDispatcher,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		tokenIssuer:  tokenIssuer,
		dispatcher:   dispatcher,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case проверки доступности
// Все туры доступны - бронирование подтверждается сразу,
// иначе клиенту выпускается ссылка обратной связи с предложенными решениями
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CheckAvailability: booking id=%s, tours=%d, staff=%s", req.BookingID, len(req.Tours), req.ProcessedBy)

	// 1. Получаем бронирование
	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, uc.repoError(req.BookingID, err)
	}

	// 2. Проверяем статус
	if booking.Status != domain.StatusPending {
		uc.logger.Warn("CheckAvailability: booking id=%s in status=%s", booking.ID, booking.Status)
		return nil, &domain.StateTransitionError{From: booking.Status, To: domain.StatusPendingFeedback}
	}

	// 3. Валидация решений
	decisions, err := buildDecisions(booking, req.Tours)
	if err != nil {
		uc.logger.Warn("CheckAvailability: invalid input for booking id=%s: %v", booking.ID, err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	everyAvailable := allAvailable(decisions)

	// 4. Записываем доступность по турам
	changes := make([]domain.AvailabilityChange, 0, len(decisions))
	for _, decision := range decisions {
		tour, _ := booking.TourByID(decision.TourID)
		tour.ApplyAvailability(decision)
		changes = append(changes, domain.AvailabilityChange{
			TourID:          tour.ID,
			Status:          tour.AvailabilityStatus,
			LimitedPlaces:   tour.LimitedPlaces,
			AlternativeDate: tour.AlternativeDate,
		})
	}

	// 5. Переводим бронирование в следующий статус
	if everyAvailable {
		for i := range booking.Tours {
			booking.Tours[i].ConfirmAtOriginalPrice()
		}
		booking.RecalculateTotal()
		if err := booking.TransitionTo(domain.StatusConfirmed, now); err != nil {
			uc.logger.Warn("CheckAvailability: booking id=%s: %v", booking.ID, err)
			return nil, err
		}
	} else {
		token, expiresAt, err := uc.tokenIssuer.Issue(booking.ID, now)
		if err != nil {
			uc.logger.Error("CheckAvailability: failed to issue feedback token for booking id=%s: %v", booking.ID, err)
			return nil, fmt.Errorf("%w: failed to issue feedback token: %v", ErrInternal, err)
		}
		booking.FeedbackToken = &token
		booking.FeedbackTokenExpiresAt = &expiresAt

		booking.SuggestedDecisions = make([]domain.FeedbackDecision, 0, len(booking.Tours))
		for i := range booking.Tours {
			booking.SuggestedDecisions = append(booking.SuggestedDecisions, domain.DefaultDecision(booking.Tours[i]))
		}

		if err := booking.TransitionTo(domain.StatusPendingFeedback, now); err != nil {
			uc.logger.Warn("CheckAvailability: booking id=%s: %v", booking.ID, err)
			return nil, err
		}
	}

	booking.AppendLog(now, ptr.Ptr(req.ProcessedBy), domain.AvailabilityChecked{
		Tours:        changes,
		AllAvailable: everyAvailable,
		NextStatus:   booking.Status,
	})

	if err := booking.CheckInvariants(); err != nil {
		uc.logger.Error("CheckAvailability: booking id=%s: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// 6. Сохраняем и передаем события
	events := booking.PendingEvents()
	if err := uc.bookingRepo.Update(ctx, booking); err != nil {
		return nil, uc.repoError(booking.ID, err)
	}
	uc.dispatcher.Dispatch(ctx, booking, events)

	uc.logger.Info("CheckAvailability: booking id=%s moved to status=%s", booking.ID, booking.Status)

	return &Response{Booking: booking, AllAvailable: everyAvailable}, nil
}

func (uc *UseCase) repoError(id string, err error) error {
	if domain.IsBusinessError(err) {
		uc.logger.Warn("CheckAvailability: booking id=%s: %v", id, err)
		return err
	}
	uc.logger.Error("CheckAvailability: repository error for booking id=%s: %v", id, err)
	return fmt.Errorf("%w: repository error: %v", ErrInternal, err)
}
