package confirm_booking

import "github.com/m04kA/SMC-TourBookingService/internal/domain"

// Request согласование решений клиента сотрудником
type Request struct {
	BookingID         string
	Action            string
	ModifiedTours     []TourOverride
	CancellationNotes string
	ProcessedBy       string
}

// TourOverride правка сотрудника поверх решения клиента
// Пустые поля не меняют решение клиента; дата в формате YYYY-MM-DD
type TourOverride struct {
	TourID   string
	Decision *string
	Guests   *int
	Date     *string
}

// Response модель ответа
type Response struct {
	Booking *domain.Booking
	// Action фактически выполненное действие (confirm может стать cancel)
	Action string
}
