package booking

import "errors"

var (
	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")

	// ErrEncodeDocument возвращается, когда документ бронирования не удалось сериализовать
	ErrEncodeDocument = errors.New("booking.repository: failed to encode document")

	// ErrDecodeDocument возвращается, когда документ из БД не удалось разобрать
	ErrDecodeDocument = errors.New("booking.repository: failed to decode document")
)
