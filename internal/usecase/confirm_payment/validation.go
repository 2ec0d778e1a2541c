package confirm_payment

import (
	"strings"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
)

const maxPaymentFieldLength = 255

// validateRequest проверяет сумму и реквизиты платежа
func validateRequest(req *Request) error {
	if !req.Amount.IsPositive() {
		return &domain.InvalidAmountError{Amount: req.Amount}
	}

	var violations domain.Violations
	if !req.Amount.Equal(req.Amount.Round(2)) {
		violations.Add("paymentDetails.receivedAmount", "must have at most 2 decimal places")
	}
	if strings.TrimSpace(req.Method) == "" {
		violations.Add("paymentDetails.paymentMethod", "is required")
	}
	fields := []struct {
		name  string
		value string
	}{
		{"paymentDetails.paymentMethod", req.Method},
		{"paymentDetails.transactionId", req.TransactionID},
		{"paymentDetails.receiptNumber", req.ReceiptNumber},
	}
	for _, f := range fields {
		if len(f.value) > maxPaymentFieldLength {
			violations.Add(f.name, "must be at most %d characters", maxPaymentFieldLength)
		}
	}

	if !violations.Empty() {
		return &domain.ValidationError{Violations: violations}
	}
	return nil
}
