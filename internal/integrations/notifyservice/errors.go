package notifyservice

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("notifyservice client: internal error")

	// ErrUnavailable сервис уведомлений недоступен
	ErrUnavailable = errors.New("notifyservice client: service unavailable")

	// ErrRejected сервис уведомлений отклонил запрос
	ErrRejected = errors.New("notifyservice client: request rejected")
)
