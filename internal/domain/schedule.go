package domain

import (
	"time"

	"github.com/m04kA/SMC-TourBookingService/pkg/types"
)

// TourType формат проведения тура
type TourType string

const (
	TourTypeDay      TourType = "day_tour"
	TourTypeHourly   TourType = "hourly_tour"
	TourTypeMultiDay TourType = "multi_day_tour"
)

// StaffAssignment назначение гида или водителя
type StaffAssignment struct {
	Assigned bool   `json:"assigned"`
	Name     string `json:"name,omitempty" validate:"required_if=Assigned true"`
	Phone    string `json:"phone,omitempty" validate:"required_if=Assigned true"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Notes    string `json:"notes,omitempty"`
}

// LocationPoint место и время встречи или высадки
type LocationPoint struct {
	Location string           `json:"location"`
	Time     types.TimeString `json:"time"`
	Notes    string           `json:"notes,omitempty"`
}

// EquipmentItem единица снаряжения
type EquipmentItem struct {
	Item     string `json:"item" validate:"required"`
	Quantity int    `json:"quantity" validate:"min=1"`
	Notes    string `json:"notes,omitempty"`
}

// Schedule операционный план проведения тура
// Для day_tour и hourly_tour используется Itinerary, для multi_day_tour - ItineraryDays
type Schedule struct {
	TourType     TourType         `json:"tourType"`
	Date         time.Time        `json:"date"`
	StartTime    types.TimeString `json:"startTime,omitempty"`
	EndTime      types.TimeString `json:"endTime,omitempty"`
	DurationDays int              `json:"durationDays,omitempty"`

	Guide  *StaffAssignment `json:"guide,omitempty"`
	Driver *StaffAssignment `json:"driver,omitempty"`

	MeetingPoint LocationPoint `json:"meetingPoint"`
	DropoffPoint LocationPoint `json:"dropoffPoint"`

	Itinerary     []ItineraryItem `json:"itinerary,omitempty"`
	ItineraryDays ItineraryDays   `json:"itineraryDays"`
	Equipment     []EquipmentItem `json:"equipment,omitempty"`

	Notes string `json:"notes,omitempty"`
}

// IsMultiDay returns true if the schedule uses day buckets
func (s *Schedule) IsMultiDay() bool {
	return s.TourType == TourTypeMultiDay
}
