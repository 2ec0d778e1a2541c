package domain

// DefaultListLimit размер страницы списка бронирований по умолчанию
const DefaultListLimit = 50

// BookingFilter фильтр списка бронирований для консоли сотрудников
type BookingFilter struct {
	Status        *BookingStatus // Фильтр по статусу (опционально)
	CustomerEmail *string        // Фильтр по email клиента (опционально)
	Limit         int
	Offset        int
}

// Matches проверяет бронирование на соответствие фильтру
func (f BookingFilter) Matches(b *Booking) bool {
	if f.Status != nil && b.Status != *f.Status {
		return false
	}
	if f.CustomerEmail != nil && b.Customer.Email != *f.CustomerEmail {
		return false
	}
	return true
}
