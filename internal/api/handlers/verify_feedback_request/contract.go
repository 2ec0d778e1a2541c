package verify_feedback_request

import (
	"context"

	verifyFeedbackRequest "github.com/m04kA/SMC-TourBookingService/internal/usecase/verify_feedback_request"
)

type VerifyFeedbackRequestUseCase interface {
	Execute(ctx context.Context, req *verifyFeedbackRequest.Request) (*verifyFeedbackRequest.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
