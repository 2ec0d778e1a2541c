package confirm_payment

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-TourBookingService/internal/service/bookings/models"
	confirmPayment "github.com/m04kA/SMC-TourBookingService/internal/usecase/confirm_payment"
)

// ConfirmPaymentRequest HTTP request model
type ConfirmPaymentRequest struct {
	BookingID       string            `json:"bookingId"`
	PaymentDetails  PaymentDetailsDTO `json:"paymentDetails"`
	MarkAsFullyPaid bool              `json:"markAsFullyPaid"`
}

// PaymentDetailsDTO данные платежа
// receivedAmount принимается и числом, и строкой ("125.50")
type PaymentDetailsDTO struct {
	ReceivedAmount decimal.Decimal `json:"receivedAmount"`
	PaymentMethod  string          `json:"paymentMethod"`
	TransactionID  *string         `json:"transactionId,omitempty"`
	ReceiptNumber  *string         `json:"receiptNumber,omitempty"`
}

// ConfirmPaymentResponse HTTP response model
type ConfirmPaymentResponse struct {
	FullyPaid bool                    `json:"fullyPaid"`
	Booking   *models.BookingResponse `json:"booking"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ConfirmPaymentRequest) ToUseCaseRequest(staffID string) *confirmPayment.Request {
	req := &confirmPayment.Request{
		BookingID:       r.BookingID,
		Amount:          r.PaymentDetails.ReceivedAmount,
		Method:          r.PaymentDetails.PaymentMethod,
		MarkAsFullyPaid: r.MarkAsFullyPaid,
		ProcessedBy:     staffID,
	}
	if r.PaymentDetails.TransactionID != nil {
		req.TransactionID = *r.PaymentDetails.TransactionID
	}
	if r.PaymentDetails.ReceiptNumber != nil {
		req.ReceiptNumber = *r.PaymentDetails.ReceiptNumber
	}
	return req
}

// FromUseCaseResponse формирует HTTP ответ
func FromUseCaseResponse(resp *confirmPayment.Response) *ConfirmPaymentResponse {
	return &ConfirmPaymentResponse{
		FullyPaid: resp.FullyPaid,
		Booking:   models.FromDomainBooking(resp.Booking),
	}
}
