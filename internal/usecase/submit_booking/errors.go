package submit_booking

import "errors"

var (
	// ErrCatalogUnavailable возвращается, когда каталог туров не ответил
	ErrCatalogUnavailable = errors.New("submit_booking: tour catalog unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("submit_booking: internal error")
)
