package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// AvailabilityStatus staff assertion of whether a tour can run as requested
type AvailabilityStatus string

const (
	AvailabilityPending     AvailabilityStatus = "pending"
	AvailabilityAvailable   AvailabilityStatus = "available"
	AvailabilityLimited     AvailabilityStatus = "limited"
	AvailabilityAlternative AvailabilityStatus = "alternative"
	AvailabilityUnavailable AvailabilityStatus = "unavailable"
)

// IsDecided returns true for every status staff may assign (everything except pending)
func (s AvailabilityStatus) IsDecided() bool {
	switch s {
	case AvailabilityAvailable, AvailabilityLimited, AvailabilityAlternative, AvailabilityUnavailable:
		return true
	default:
		return false
	}
}

// TourStatus status of a single tour line-item
type TourStatus string

const (
	TourStatusPending   TourStatus = "pending"
	TourStatusConfirmed TourStatus = "confirmed"
	TourStatusCancelled TourStatus = "cancelled"
)

// TourLineItem one bookable tour within a booking
// OriginalDate, OriginalGuests и OriginalPrice - снимок запроса, не меняются после создания
type TourLineItem struct {
	ID            string  `json:"id"`
	CatalogTourID string  `json:"catalogTourId"`
	Title         string  `json:"title"`
	CoverImageURL *string `json:"coverImageUrl,omitempty"`

	OriginalDate   time.Time `json:"originalDate"`
	OriginalGuests int       `json:"originalGuests"`
	Date           time.Time `json:"date"`
	Guests         int       `json:"guests"`

	OriginalPrice   decimal.Decimal `json:"originalPrice"`
	CalculatedPrice decimal.Decimal `json:"calculatedPrice"`
	PriceTable      *PriceTable     `json:"priceTable,omitempty"`

	AvailabilityStatus AvailabilityStatus `json:"availabilityStatus"`
	LimitedPlaces      *int               `json:"limitedPlaces,omitempty"`
	AlternativeDate    *time.Time         `json:"alternativeDate,omitempty"`

	Status             TourStatus `json:"status"`
	RemovedFromBooking bool       `json:"removedFromBooking"`
	ScheduleExcluded   bool       `json:"scheduleExcluded"`
	Schedule           *Schedule  `json:"schedule,omitempty"`

	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// NewTourLineItem создает позицию бронирования по запросу клиента
func NewTourLineItem(id, catalogTourID, title string, date time.Time, guests int, price decimal.Decimal, table *PriceTable) TourLineItem {
	return TourLineItem{
		ID:                 id,
		CatalogTourID:      catalogTourID,
		Title:              title,
		OriginalDate:       date,
		OriginalGuests:     guests,
		Date:               date,
		Guests:             guests,
		OriginalPrice:      price,
		CalculatedPrice:    price,
		PriceTable:         table,
		AvailabilityStatus: AvailabilityPending,
		Status:             TourStatusPending,
	}
}

// IsActive returns true if the tour still counts towards the booking total
func (t *TourLineItem) IsActive() bool {
	return t.Status != TourStatusCancelled && !t.RemovedFromBooking
}

// IsSchedulable returns true if the tour may hold a schedule
func (t *TourLineItem) IsSchedulable() bool {
	return t.Status == TourStatusConfirmed && !t.RemovedFromBooking
}

// NeedsSchedule returns true if the tour must be scheduled before the booking is scheduled
func (t *TourLineItem) NeedsSchedule() bool {
	return t.IsSchedulable() && !t.ScheduleExcluded
}

// IsCompletable returns true if the tour is scheduled and can be marked completed
func (t *TourLineItem) IsCompletable() bool {
	return t.IsSchedulable() && t.Schedule != nil
}

// ApplyAvailability записывает решение сотрудника о доступности
// Вспомогательные поля сохраняются только для соответствующего статуса
func (t *TourLineItem) ApplyAvailability(decision AvailabilityDecision) {
	t.AvailabilityStatus = decision.Status
	t.LimitedPlaces = nil
	t.AlternativeDate = nil

	switch decision.Status {
	case AvailabilityLimited:
		places := *decision.LimitedPlaces
		t.LimitedPlaces = &places
	case AvailabilityAlternative:
		date := *decision.AlternativeDate
		t.AlternativeDate = &date
	}
}

// ConfirmAtOriginalPrice подтверждает тур по цене на момент заявки
func (t *TourLineItem) ConfirmAtOriginalPrice() {
	t.CalculatedPrice = t.OriginalPrice
	t.Status = TourStatusConfirmed
}

// ConfirmModified подтверждает тур с измененными датой/количеством гостей и пересчитанной ценой
func (t *TourLineItem) ConfirmModified(date time.Time, guests int, price decimal.Decimal) {
	t.Date = date
	t.Guests = guests
	t.CalculatedPrice = price
	t.Status = TourStatusConfirmed
}

// Remove исключает тур из бронирования
// Повторный вызов на уже удаленном туре ничего не меняет
func (t *TourLineItem) Remove() {
	t.CalculatedPrice = decimal.Zero
	t.Status = TourStatusCancelled
	t.RemovedFromBooking = true
	t.Schedule = nil
}

// Cancel отменяет тур вместе с бронированием
func (t *TourLineItem) Cancel() {
	t.Status = TourStatusCancelled
	t.Schedule = nil
}

// Price считает цену тура для guests гостей по снимку таблицы цен или по переданной таблице
func (t *TourLineItem) Price(table *PriceTable, guests int) (decimal.Decimal, error) {
	if table == nil {
		table = t.PriceTable
	}
	price, err := CalculatePrice(table, guests)
	if errors.Is(err, ErrNoTourPriceData) {
		return decimal.Zero, &NoTourPriceDataError{TourID: t.ID, Guests: guests}
	}
	if err != nil {
		return decimal.Zero, err
	}
	return price, nil
}

// MarkCompleted отмечает тур проведенным
func (t *TourLineItem) MarkCompleted(now time.Time) {
	t.Completed = true
	t.CompletedAt = &now
}

// AvailabilityDecision решение сотрудника по одному туру
type AvailabilityDecision struct {
	TourID          string
	Status          AvailabilityStatus
	LimitedPlaces   *int
	AlternativeDate *time.Time
}
