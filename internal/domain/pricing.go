package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// GroupPrice ценовой уровень для размера группы
// MaxGuests = 0 означает "без верхней границы"
type GroupPrice struct {
	MinGuests      int             `json:"minGuests"`
	MaxGuests      int             `json:"maxGuests"`
	PricePerPerson decimal.Decimal `json:"pricePerPerson"`
}

// Covers returns true if the tier applies to the given group size
func (g GroupPrice) Covers(guests int) bool {
	if guests < g.MinGuests {
		return false
	}
	return g.MaxGuests == 0 || guests <= g.MaxGuests
}

// PriceTable таблица групповых цен тура (принадлежит каталогу туров)
type PriceTable struct {
	BasePricePerPerson decimal.Decimal `json:"basePricePerPerson"`
	GroupPrices        []GroupPrice    `json:"groupPrices,omitempty"`
}

// IsEmpty returns true if the table cannot price any group size
func (t *PriceTable) IsEmpty() bool {
	return t == nil || (len(t.GroupPrices) == 0 && !t.BasePricePerPerson.IsPositive())
}

// CalculatePrice считает стоимость тура для группы из guests человек
// Берется первый уровень, покрывающий размер группы; если таких нет - базовая цена за человека.
// Таблица без подходящего уровня и без базовой цены - ErrNoTourPriceData, а не ноль.
func CalculatePrice(table *PriceTable, guests int) (decimal.Decimal, error) {
	if guests < 1 {
		return decimal.Zero, fmt.Errorf("%w: %d", ErrInvalidGuestCount, guests)
	}
	if table.IsEmpty() {
		return decimal.Zero, ErrNoTourPriceData
	}

	count := decimal.NewFromInt(int64(guests))
	for _, tier := range table.GroupPrices {
		if tier.Covers(guests) {
			return tier.PricePerPerson.Mul(count).Round(2), nil
		}
	}

	if table.BasePricePerPerson.IsPositive() {
		return table.BasePricePerPerson.Mul(count).Round(2), nil
	}

	return decimal.Zero, fmt.Errorf("%w: no tier covers %d guests", ErrNoTourPriceData, guests)
}
