package client_feedback

import (
	"context"

	submitFeedback "github.com/m04kA/SMC-TourBookingService/internal/usecase/submit_feedback"
)

type SubmitFeedbackUseCase interface {
	Execute(ctx context.Context, req *submitFeedback.Request) (*submitFeedback.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
