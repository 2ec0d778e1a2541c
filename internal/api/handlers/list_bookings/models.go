package list_bookings

import (
	"fmt"
	"strconv"

	"github.com/m04kA/SMC-TourBookingService/internal/service/bookings/models"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(statusStr, emailStr, limitStr, offsetStr string) (*models.ListBookingsRequest, error) {
	req := &models.ListBookingsRequest{
		Limit: defaultLimit,
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	if emailStr != "" {
		req.CustomerEmail = &emailStr
	}

	if limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 || limit > maxLimit {
			return nil, fmt.Errorf("invalid limit value: %q", limitStr)
		}
		req.Limit = limit
	}

	if offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			return nil, fmt.Errorf("invalid offset value: %q", offsetStr)
		}
		req.Offset = offset
	}

	return req, nil
}
