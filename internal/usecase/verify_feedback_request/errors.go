package verify_feedback_request

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("verify_feedback_request: internal error")
)
