package schedule_booking

import "github.com/m04kA/SMC-TourBookingService/internal/domain"

// Request расписания туров бронирования
// Для статуса paid расписания создаются, для scheduled заменяются
type Request struct {
	BookingID       string         `json:"bookingId"`
	TourSchedules   []TourSchedule `json:"tourSchedules" validate:"dive"`
	ExcludedTourIDs []string       `json:"excludedTourIds"`
	ProcessedBy     string         `json:"-"`
}

// TourSchedule расписание одного тура
type TourSchedule struct {
	TourID   string        `json:"tourId" validate:"required"`
	Schedule ScheduleInput `json:"schedule"`
}

// ScheduleInput расписание в том виде, в котором его присылает сотрудник
// Дата в формате YYYY-MM-DD, время в формате HH:MM
type ScheduleInput struct {
	TourType     string `json:"tourType" validate:"required,oneof=day_tour hourly_tour multi_day_tour"`
	Date         string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime    string `json:"startTime" validate:"omitempty,datetime=15:04"`
	EndTime      string `json:"endTime" validate:"omitempty,datetime=15:04"`
	DurationDays int    `json:"durationDays" validate:"min=0,max=60"`

	Guide  *domain.StaffAssignment `json:"guide"`
	Driver *domain.StaffAssignment `json:"driver"`

	MeetingPoint LocationInput `json:"meetingPoint"`
	DropoffPoint LocationInput `json:"dropoffPoint"`

	Itinerary     []domain.ItineraryItem `json:"itinerary" validate:"dive"`
	ItineraryDays []DayInput             `json:"itineraryDays" validate:"dive"`
	Equipment     []domain.EquipmentItem `json:"equipment" validate:"dive"`

	Notes string `json:"notes" validate:"max=1000"`
}

// LocationInput место и время встречи или высадки
type LocationInput struct {
	Location string `json:"location" validate:"required"`
	Time     string `json:"time" validate:"required,datetime=15:04"`
	Notes    string `json:"notes"`
}

// DayInput программа одного дня многодневного тура
type DayInput struct {
	Activities []domain.ItineraryItem `json:"activities" validate:"dive"`
}

// Response модель ответа
type Response struct {
	Booking *domain.Booking
	// Created true для первичного планирования, false для правки расписаний
	Created bool
}
