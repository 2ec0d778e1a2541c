package verify_feedback_request

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	"github.com/m04kA/SMC-TourBookingService/pkg/feedbacktoken"
)

// UseCase use case проверки ссылки обратной связи
// Ничего не меняет, только возвращает бронирование для страницы клиента
type UseCase struct {
	bookingRepo  BookingRepository
	tokenParser  TokenParser
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(bookingRepo BookingRepository, tokenParser TokenParser, logger Logger) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		tokenParser:  tokenParser,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	now := uc.timeProvider.Now()

	// 1. Проверяем подпись и срок действия токена
	if req.Token == "" {
		return nil, fmt.Errorf("%w: empty token", domain.ErrTokenInvalid)
	}
	bookingID, err := uc.tokenParser.Parse(req.Token, now)
	if err != nil {
		switch {
		case errors.Is(err, feedbacktoken.ErrExpired):
			uc.logger.Warn("VerifyFeedbackRequest: token expired")
			return nil, domain.ErrTokenExpired
		default:
			uc.logger.Warn("VerifyFeedbackRequest: invalid token: %v", err)
			return nil, domain.ErrTokenInvalid
		}
	}

	// 2. Получаем бронирование
	booking, err := uc.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, domain.ErrBookingNotFound) {
			uc.logger.Warn("VerifyFeedbackRequest: token for unknown booking id=%s", bookingID)
			return nil, domain.ErrTokenInvalid
		}
		uc.logger.Error("VerifyFeedbackRequest: failed to get booking id=%s: %v", bookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	// 3. Токен должен совпадать с действующим токеном бронирования
	if booking.Status != domain.StatusPendingFeedback || booking.FeedbackToken == nil || *booking.FeedbackToken != req.Token {
		uc.logger.Warn("VerifyFeedbackRequest: stale token for booking id=%s, status=%s", booking.ID, booking.Status)
		return nil, domain.ErrTokenInvalid
	}
	if booking.FeedbackTokenExpiresAt != nil && now.After(*booking.FeedbackTokenExpiresAt) {
		uc.logger.Warn("VerifyFeedbackRequest: token expired for booking id=%s", booking.ID)
		return nil, domain.ErrTokenExpired
	}

	uc.logger.Info("VerifyFeedbackRequest: token verified for booking id=%s", booking.ID)
	return &Response{Booking: booking}, nil
}
