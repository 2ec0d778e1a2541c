package bookings

import (
	"context"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	"github.com/m04kA/SMC-TourBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-TourBookingService/pkg/ptr"
)

// Service сервис для чтения и отмены бронирований
type Service struct {
	bookingRepo  BookingRepository
	dispatcher   EventDispatcher
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	dispatcher EventDispatcher,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		dispatcher:   dispatcher,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id string) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s", id)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.repoError("GetByID", id, err)
	}

	return models.FromDomainBooking(booking), nil
}

// List получает список бронирований, опционально по статусу
func (s *Service) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	filter := domain.BookingFilter{
		CustomerEmail: req.CustomerEmail,
		Limit:         req.Limit,
		Offset:        req.Offset,
	}

	if req.Status != nil {
		status, err := domain.ParseBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("List: invalid status=%s", *req.Status)
			return nil, err
		}
		filter.Status = &status
	}

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование из любого нетерминального статуса
func (s *Service) Cancel(ctx context.Context, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%s by staff=%s", req.BookingID, req.ProcessedBy)

	// 1. Причина отмены обязательна
	notes := strings.TrimSpace(req.CancellationNotes)
	if notes == "" {
		s.logger.Warn("Cancel: booking id=%s without notes", req.BookingID)
		return nil, domain.ErrMissingCancellationNotes
	}
	if len(notes) > domain.MaxCancellationNotesLength {
		return nil, &domain.ValidationError{Violations: domain.Violations{{
			Field:   "cancellationNotes",
			Message: fmt.Sprintf("must be at most %d characters", domain.MaxCancellationNotesLength),
		}}}
	}

	// 2. Получаем бронирование
	booking, err := s.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, s.repoError("Cancel", req.BookingID, err)
	}

	// 3. Отменяем агрегат
	now := s.timeProvider.Now()
	previousStatus := booking.Status
	if err := booking.Cancel(now, notes); err != nil {
		s.logger.Warn("Cancel: booking id=%s: %v", req.BookingID, err)
		return nil, err
	}
	booking.AppendLog(now, ptr.Ptr(req.ProcessedBy), domain.BookingCancelled{
		PreviousStatus: previousStatus,
		Notes:          notes,
		PaidAmount:     booking.PaidAmount,
	})

	if err := booking.CheckInvariants(); err != nil {
		s.logger.Error("Cancel: booking id=%s: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// 4. Сохраняем и передаем события
	events := booking.PendingEvents()
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, s.repoError("Cancel", req.BookingID, err)
	}
	s.dispatcher.Dispatch(ctx, booking, events)

	s.logger.Info("Cancel: booking id=%s cancelled from status=%s", req.BookingID, previousStatus)
	return models.FromDomainBooking(booking), nil
}

func (s *Service) repoError(op, id string, err error) error {
	if domain.IsBusinessError(err) {
		s.logger.Warn("%s: booking id=%s: %v", op, id, err)
		return err
	}
	s.logger.Error("%s: repository error for booking id=%s: %v", op, id, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}
