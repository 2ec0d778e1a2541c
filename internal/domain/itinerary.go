package domain

import (
	"encoding/json"
	"fmt"
)

// ItineraryItem один пункт программы тура
type ItineraryItem struct {
	Time        string `json:"time" validate:"omitempty,datetime=15:04"`
	Activity    string `json:"activity" validate:"required"`
	Description string `json:"description,omitempty"`
}

// ItineraryDay программа одного дня многодневного тура
type ItineraryDay struct {
	Day        int             `json:"day"`
	Activities []ItineraryItem `json:"activities"`
}

// ItineraryDays упорядоченный список дней программы
// Номер дня всегда равен позиции + 1: коллекция перенумеровывает дни сама
type ItineraryDays struct {
	days []ItineraryDay
}

// NewItineraryDays собирает коллекцию из списков активностей по дням
func NewItineraryDays(activities ...[]ItineraryItem) ItineraryDays {
	var d ItineraryDays
	for _, items := range activities {
		d.Append(items)
	}
	return d
}

// Append добавляет день в конец программы
func (d *ItineraryDays) Append(activities []ItineraryItem) {
	items := make([]ItineraryItem, len(activities))
	copy(items, activities)
	d.days = append(d.days, ItineraryDay{Day: len(d.days) + 1, Activities: items})
}

// Remove удаляет день по индексу и перенумеровывает оставшиеся
func (d *ItineraryDays) Remove(index int) error {
	if index < 0 || index >= len(d.days) {
		return fmt.Errorf("itinerary day index %d out of range [0, %d)", index, len(d.days))
	}
	d.days = append(d.days[:index], d.days[index+1:]...)
	d.renumber()
	return nil
}

func (d *ItineraryDays) renumber() {
	for i := range d.days {
		d.days[i].Day = i + 1
	}
}

// Len количество дней
func (d ItineraryDays) Len() int {
	return len(d.days)
}

// At возвращает день по индексу
func (d ItineraryDays) At(index int) (ItineraryDay, bool) {
	if index < 0 || index >= len(d.days) {
		return ItineraryDay{}, false
	}
	return d.days[index], true
}

// Days возвращает копию списка дней
func (d ItineraryDays) Days() []ItineraryDay {
	out := make([]ItineraryDay, len(d.days))
	copy(out, d.days)
	return out
}

func (d ItineraryDays) MarshalJSON() ([]byte, error) {
	if d.days == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(d.days)
}

func (d *ItineraryDays) UnmarshalJSON(data []byte) error {
	var days []ItineraryDay
	if err := json.Unmarshal(data, &days); err != nil {
		return err
	}
	d.days = days
	d.renumber()
	return nil
}
