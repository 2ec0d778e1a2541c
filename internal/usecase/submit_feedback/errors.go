package submit_feedback

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("submit_feedback: internal error")
)
