package confirm_booking

import "errors"

var (
	// ErrCatalogUnavailable каталог не ответил при пересчете цены
	ErrCatalogUnavailable = errors.New("confirm_booking: tour catalog unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("confirm_booking: internal error")
)
