package catalogservice

import "github.com/shopspring/decimal"

// Tour модель тура из каталога
type Tour struct {
	ID                 string          `json:"id"`
	Title              string          `json:"title"`
	CoverImageURL      *string         `json:"cover_image_url,omitempty"`
	BasePricePerPerson decimal.Decimal `json:"base_price_per_person"`
	GroupPrices        []GroupPrice    `json:"group_prices"`
}

// GroupPrice ценовой уровень (max_guests = 0 - без верхней границы)
type GroupPrice struct {
	MinGuests      int             `json:"min_guests"`
	MaxGuests      int             `json:"max_guests"`
	PricePerPerson decimal.Decimal `json:"price_per_person"`
}

// ErrorResponse модель ошибки от каталога
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
