package confirm_payment

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
)

// Request регистрация платежа
type Request struct {
	BookingID       string
	Amount          decimal.Decimal
	Method          string
	TransactionID   string
	ReceiptNumber   string
	MarkAsFullyPaid bool
	ProcessedBy     string
}

// Response модель ответа
type Response struct {
	Booking   *domain.Booking
	FullyPaid bool
}
