package submit_booking

import (
	"time"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	Customer CustomerRequest `json:"customer"`
	Tours    []TourRequest   `json:"tours" validate:"required,min=1,max=20,dive"`
}

// CustomerRequest контакты клиента
type CustomerRequest struct {
	Name  string `json:"name" validate:"required,max=255"`
	Email string `json:"email" validate:"required,email,max=255"`
	Phone string `json:"phone" validate:"omitempty,max=32"`
	Notes string `json:"notes" validate:"max=1000"`
}

// TourRequest запрошенный тур
type TourRequest struct {
	CatalogTourID string    `json:"catalogTourId" validate:"required"`
	Date          time.Time `json:"date" validate:"required"`
	Guests        int       `json:"guests" validate:"min=1,max=100"`
}

// Response модель ответа с созданным бронированием
type Response struct {
	Booking *domain.Booking
}
