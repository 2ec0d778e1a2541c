package submit_feedback

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	"github.com/m04kA/SMC-TourBookingService/pkg/feedbacktoken"
)

// UseCase use case приема решений клиента по ссылке обратной связи
type UseCase struct {
	bookingRepo  BookingRepository
	tokenParser  TokenParser
	dispatcher   EventDispatcher
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	tokenParser TokenParser,
	dispatcher EventDispatcher,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		tokenParser:  tokenParser,
		dispatcher:   dispatcher,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case
// Решения сохраняются как есть, цены не пересчитываются до согласования сотрудником
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	now := uc.timeProvider.Now()

	// 1. Проверяем токен и получаем бронирование
	booking, err := uc.authorize(ctx, req.Token, now)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("SubmitFeedback: booking id=%s, decisions=%d", booking.ID, len(req.Decisions))

	// 2. Валидация решений
	decisions, err := buildDecisions(booking, req.Decisions, now)
	if err != nil {
		uc.logger.Warn("SubmitFeedback: validation failed for booking id=%s: %v", booking.ID, err)
		return nil, err
	}

	// 3. Сохраняем решения и гасим токен
	if err := booking.TransitionTo(domain.StatusFeedbackReceived, now); err != nil {
		uc.logger.Warn("SubmitFeedback: booking id=%s: %v", booking.ID, err)
		return nil, err
	}
	booking.FeedbackDecisions = decisions
	booking.ClearFeedbackToken()

	counts := domain.CountDecisions(decisions)
	booking.AppendLog(now, nil, domain.FeedbackReceived{FeedbackCounts: counts})

	if err := booking.CheckInvariants(); err != nil {
		uc.logger.Error("SubmitFeedback: booking id=%s: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// 4. Сохраняем и передаем события
	events := booking.PendingEvents()
	if err := uc.bookingRepo.Update(ctx, booking); err != nil {
		if domain.IsBusinessError(err) {
			uc.logger.Warn("SubmitFeedback: booking id=%s: %v", booking.ID, err)
			return nil, err
		}
		uc.logger.Error("SubmitFeedback: failed to update booking id=%s: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: failed to update booking: %v", ErrInternal, err)
	}
	uc.dispatcher.Dispatch(ctx, booking, events)

	uc.logger.Info("SubmitFeedback: booking id=%s received keep=%d, modify=%d, remove=%d",
		booking.ID, counts.Keep, counts.Modify, counts.Remove)

	return &Response{Booking: booking, Counts: counts}, nil
}

// authorize проверяет токен и его соответствие бронированию
// Токен действителен только пока бронирование ждет обратной связи
func (uc *UseCase) authorize(ctx context.Context, token string, now time.Time) (*domain.Booking, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: empty token", domain.ErrTokenInvalid)
	}

	bookingID, err := uc.tokenParser.Parse(token, now)
	if err != nil {
		if errors.Is(err, feedbacktoken.ErrExpired) {
			uc.logger.Warn("SubmitFeedback: token expired")
			return nil, domain.ErrTokenExpired
		}
		uc.logger.Warn("SubmitFeedback: invalid token: %v", err)
		return nil, domain.ErrTokenInvalid
	}

	booking, err := uc.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, domain.ErrBookingNotFound) {
			uc.logger.Warn("SubmitFeedback: token for unknown booking id=%s", bookingID)
			return nil, domain.ErrTokenInvalid
		}
		uc.logger.Error("SubmitFeedback: failed to get booking id=%s: %v", bookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	if booking.Status != domain.StatusPendingFeedback || booking.FeedbackToken == nil || *booking.FeedbackToken != token {
		uc.logger.Warn("SubmitFeedback: stale token for booking id=%s, status=%s", booking.ID, booking.Status)
		return nil, domain.ErrTokenInvalid
	}
	if booking.FeedbackTokenExpiresAt != nil && now.After(*booking.FeedbackTokenExpiresAt) {
		uc.logger.Warn("SubmitFeedback: token expired for booking id=%s", booking.ID)
		return nil, domain.ErrTokenExpired
	}

	return booking, nil
}
