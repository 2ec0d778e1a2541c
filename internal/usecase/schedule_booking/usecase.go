package schedule_booking

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	"github.com/m04kA/SMC-TourBookingService/internal/validation"
	"github.com/m04kA/SMC-TourBookingService/pkg/ptr"
)

// UseCase use case планирования туров
type UseCase struct {
	bookingRepo  BookingRepository
	dispatcher   EventDispatcher
	validator    *validation.Validator
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(bookingRepo BookingRepository, dispatcher EventDispatcher, logger Logger) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		dispatcher:   dispatcher,
		validator:    validation.New(),
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case
// В статусе paid бронирование переходит в scheduled, когда у каждого подтвержденного тура
// есть расписание или он исключен из планирования. В статусе scheduled расписания заменяются.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ScheduleBooking: booking id=%s, schedules=%d, excluded=%d, staff=%s",
		req.BookingID, len(req.TourSchedules), len(req.ExcludedTourIDs), req.ProcessedBy)

	// 1. Получаем бронирование
	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, uc.repoError(req.BookingID, err)
	}

	if booking.Status != domain.StatusPaid && booking.Status != domain.StatusScheduled {
		uc.logger.Warn("ScheduleBooking: booking id=%s in status=%s", booking.ID, booking.Status)
		return nil, &domain.StateTransitionError{From: booking.Status, To: domain.StatusScheduled}
	}
	creating := booking.Status == domain.StatusPaid

	// 2. Валидация всех расписаний
	if err := uc.validateRequest(booking, req); err != nil {
		uc.logger.Warn("ScheduleBooking: validation failed for booking id=%s: %v", booking.ID, err)
		return nil, err
	}

	schedules := make([]*domain.Schedule, 0, len(req.TourSchedules))
	for i := range req.TourSchedules {
		schedule, err := toDomainSchedule(&req.TourSchedules[i].Schedule)
		if err != nil {
			uc.logger.Error("ScheduleBooking: failed to convert schedule: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
		schedules = append(schedules, schedule)
	}

	now := uc.timeProvider.Now()
	actor := ptr.Ptr(req.ProcessedBy)

	// 3. Исключенные туры
	for _, tourID := range req.ExcludedTourIDs {
		tour, _ := booking.TourByID(tourID)
		tour.ScheduleExcluded = true
		tour.Schedule = nil
	}

	// 4. Прикрепляем расписания
	for i, ts := range req.TourSchedules {
		tour, _ := booking.TourByID(ts.TourID)
		schedule := schedules[i]
		hadSchedule := tour.Schedule != nil

		tour.Schedule = schedule
		tour.ScheduleExcluded = false

		if creating && !hadSchedule {
			booking.AppendLog(now, actor, domain.TourScheduled{TourID: tour.ID, TourType: schedule.TourType, Date: schedule.Date})
		} else {
			booking.AppendLog(now, actor, domain.ScheduleUpdated{TourID: tour.ID, TourType: schedule.TourType, Date: schedule.Date})
		}
	}

	// 5. Переводим в scheduled, когда спланированы все туры
	if creating && booking.IsFullyScheduled() {
		if err := booking.TransitionTo(domain.StatusScheduled, now); err != nil {
			uc.logger.Warn("ScheduleBooking: booking id=%s: %v", booking.ID, err)
			return nil, err
		}
	}
	if !creating && !booking.IsFullyScheduled() {
		return nil, &domain.ScheduleValidationError{Violations: domain.Violations{{
			Field:   "excludedTourIds",
			Message: "at least one tour must stay scheduled",
		}}}
	}
	booking.UpdatedAt = now

	if err := booking.CheckInvariants(); err != nil {
		uc.logger.Error("ScheduleBooking: booking id=%s: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// 6. Сохраняем и передаем события
	events := booking.PendingEvents()
	if err := uc.bookingRepo.Update(ctx, booking); err != nil {
		return nil, uc.repoError(booking.ID, err)
	}
	uc.dispatcher.Dispatch(ctx, booking, events)

	uc.logger.Info("ScheduleBooking: booking id=%s status=%s", booking.ID, booking.Status)

	return &Response{Booking: booking, Created: creating}, nil
}

func (uc *UseCase) repoError(id string, err error) error {
	if domain.IsBusinessError(err) {
		uc.logger.Warn("ScheduleBooking: booking id=%s: %v", id, err)
		return err
	}
	uc.logger.Error("ScheduleBooking: repository error for booking id=%s: %v", id, err)
	return fmt.Errorf("%w: repository error: %v", ErrInternal, err)
}
