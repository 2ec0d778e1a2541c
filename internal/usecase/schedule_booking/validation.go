package schedule_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	"github.com/m04kA/SMC-TourBookingService/pkg/types"
)

// validateRequest проверяет все расписания всех туров и не останавливается на первой ошибке
func (uc *UseCase) validateRequest(booking *domain.Booking, req *Request) error {
	violations, err := uc.validator.Struct(req, "")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if len(req.TourSchedules) == 0 && len(req.ExcludedTourIDs) == 0 {
		violations.Add("tourSchedules", "at least one schedule or excluded tour is required")
	}

	excluded := make(map[string]bool, len(req.ExcludedTourIDs))
	for i, tourID := range req.ExcludedTourIDs {
		field := fmt.Sprintf("excludedTourIds[%d]", i)
		tour, ok := booking.TourByID(tourID)
		switch {
		case !ok:
			violations.Add(field, "unknown tour %q", tourID)
		case !tour.IsSchedulable():
			violations.Add(field, "tour %q is not confirmed", tourID)
		case excluded[tourID]:
			violations.Add(field, "duplicate tour %q", tourID)
		}
		excluded[tourID] = true
	}

	seen := make(map[string]bool, len(req.TourSchedules))
	for i, ts := range req.TourSchedules {
		field := fmt.Sprintf("tourSchedules[%d]", i)

		tour, ok := booking.TourByID(ts.TourID)
		switch {
		case ts.TourID == "":
			// уже отмечено валидатором
		case !ok:
			violations.Add(field+".tourId", "unknown tour %q", ts.TourID)
		case !tour.IsSchedulable():
			violations.Add(field+".tourId", "tour %q is cancelled or removed and cannot be scheduled", ts.TourID)
		case seen[ts.TourID]:
			violations.Add(field+".tourId", "duplicate schedule for tour %q", ts.TourID)
		case excluded[ts.TourID]:
			violations.Add(field+".tourId", "tour %q is both scheduled and excluded", ts.TourID)
		}
		seen[ts.TourID] = true

		validateSchedule(&violations, field+".schedule", &ts.Schedule)
	}

	if !violations.Empty() {
		return &domain.ScheduleValidationError{Violations: violations}
	}
	return nil
}

// validateSchedule проверки, зависящие от типа тура
func validateSchedule(violations *domain.Violations, field string, s *ScheduleInput) {
	switch domain.TourType(s.TourType) {
	case domain.TourTypeHourly:
		if s.StartTime == "" {
			violations.Add(field+".startTime", "is required for hourly tours")
		}
		if s.EndTime == "" {
			violations.Add(field+".endTime", "is required for hourly tours")
		}
		start, end := types.TimeString(s.StartTime), types.TimeString(s.EndTime)
		if start.Validate() == nil && end.Validate() == nil && !end.IsAfter(start) {
			violations.Add(field+".endTime", "must be after start time")
		}
		if start.IsBefore(types.TimeString(s.MeetingPoint.Time)) {
			violations.Add(field+".meetingPoint.time", "must not be after start time")
		}
		fallthrough
	case domain.TourTypeDay:
		if len(s.Itinerary) == 0 {
			violations.Add(field+".itinerary", "must contain at least one activity")
		}
	case domain.TourTypeMultiDay:
		if s.DurationDays < 1 {
			violations.Add(field+".durationDays", "must be at least 1 for multi-day tours")
			return
		}
		if len(s.ItineraryDays) != s.DurationDays {
			violations.Add(field+".itineraryDays", "must contain exactly %d days, got %d", s.DurationDays, len(s.ItineraryDays))
		}
		for i, day := range s.ItineraryDays {
			if len(day.Activities) == 0 {
				violations.Add(fmt.Sprintf("%s.itineraryDays[%d].activities", field, i), "day %d must have at least one activity", i+1)
			}
		}
	}
}

// toDomainSchedule переводит проверенное расписание в доменную модель
func toDomainSchedule(s *ScheduleInput) (*domain.Schedule, error) {
	date, err := time.Parse(domain.DateFormat, s.Date)
	if err != nil {
		return nil, err
	}

	schedule := &domain.Schedule{
		TourType:  domain.TourType(s.TourType),
		Date:      date,
		StartTime: types.TimeString(s.StartTime),
		EndTime:   types.TimeString(s.EndTime),
		Guide:     s.Guide,
		Driver:    s.Driver,
		MeetingPoint: domain.LocationPoint{
			Location: s.MeetingPoint.Location,
			Time:     types.TimeString(s.MeetingPoint.Time),
			Notes:    s.MeetingPoint.Notes,
		},
		DropoffPoint: domain.LocationPoint{
			Location: s.DropoffPoint.Location,
			Time:     types.TimeString(s.DropoffPoint.Time),
			Notes:    s.DropoffPoint.Notes,
		},
		Equipment: s.Equipment,
		Notes:     s.Notes,
	}

	if schedule.IsMultiDay() {
		schedule.DurationDays = s.DurationDays
		for _, day := range s.ItineraryDays {
			schedule.ItineraryDays.Append(day.Activities)
		}
	} else {
		schedule.Itinerary = s.Itinerary
	}

	return schedule, nil
}
