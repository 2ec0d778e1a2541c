package catalogservice

import "errors"

var (
	// ErrTourNotFound возвращается, когда тура нет в каталоге
	ErrTourNotFound = errors.New("tour not found in catalog")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("catalogservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("catalogservice client: invalid response")

	// ErrUnavailable каталог недоступен (timeout, сеть)
	ErrUnavailable = errors.New("catalogservice client: service unavailable")
)
