package complete_booking

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	"github.com/m04kA/SMC-TourBookingService/pkg/ptr"
)

// UseCase use case завершения туров
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
// Бронирование завершается, когда проведены все спланированные туры
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CompleteBooking: booking id=%s, tour=%s, staff=%s",
		req.BookingID, ptr.Deref(req.TourID, "all"), req.ProcessedBy)

	// 1. Получаем бронирование
	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, uc.repoError(req.BookingID, err)
	}

	if booking.Status != domain.StatusScheduled {
		uc.logger.Warn("CompleteBooking: booking id=%s in status=%s", booking.ID, booking.Status)
		return nil, &domain.StateTransitionError{From: booking.Status, To: domain.StatusCompleted}
	}

	// 2. Выбираем туры
	tours, err := toursToComplete(booking, req.TourID)
	if err != nil {
		uc.logger.Warn("CompleteBooking: booking id=%s: %v", booking.ID, err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	actor := ptr.Ptr(req.ProcessedBy)

	// 3. Отмечаем проведенные туры
	completed := make([]string, 0, len(tours))
	for _, tour := range tours {
		tour.MarkCompleted(now)
		booking.AppendLog(now, actor, domain.TourCompleted{TourID: tour.ID})
		completed = append(completed, tour.ID)
	}

	// 4. Завершаем бронирование
	if booking.AllScheduledToursCompleted() {
		if err := booking.TransitionTo(domain.StatusCompleted, now); err != nil {
			uc.logger.Warn("CompleteBooking: booking id=%s: %v", booking.ID, err)
			return nil, err
		}
		total := 0
		for i := range booking.Tours {
			if booking.Tours[i].Completed {
				total++
			}
		}
		booking.AppendLog(now, actor, domain.BookingCompleted{CompletedTours: total})
	}

	if err := booking.CheckInvariants(); err != nil {
		uc.logger.Error("CompleteBooking: booking id=%s: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// 5. Сохраняем и передаем события
	events := booking.PendingEvents()
	if err := uc.bookingRepo.Update(ctx, booking); err != nil {
		return nil, uc.repoError(booking.ID, err)
	}
	uc.dispatcher.Dispatch(ctx, booking, events)

	uc.logger.Info("CompleteBooking: booking id=%s completed tours=%v, status=%s", booking.ID, completed, booking.Status)

	return &Response{Booking: booking, CompletedTours: completed}, nil
}

func (uc *UseCase) repoError(id string, err error) error {
	if domain.IsBusinessError(err) {
		uc.logger.Warn("CompleteBooking: booking id=%s: %v", id, err)
		return err
	}
	uc.logger.Error("CompleteBooking: repository error for booking id=%s: %v", id, err)
	return fmt.Errorf("%w: repository error: %v", ErrInternal, err)
}
