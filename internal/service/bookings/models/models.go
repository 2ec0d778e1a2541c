package models

import (
	"time"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования сотрудником
type CancelBookingRequest struct {
	BookingID         string
	CancellationNotes string
	ProcessedBy       string
}

// ListBookingsRequest запрос списка бронирований
type ListBookingsRequest struct {
	Status        *string
	CustomerEmail *string
	Limit         int
	Offset        int
}

// Response модели

// CustomerResponse контакты клиента
type CustomerResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// ScheduleResponse расписание тура
type ScheduleResponse struct {
	TourType      string                  `json:"tourType"`
	Date          string                  `json:"date"` // "2026-06-01"
	StartTime     string                  `json:"startTime,omitempty"`
	EndTime       string                  `json:"endTime,omitempty"`
	DurationDays  int                     `json:"durationDays,omitempty"`
	Guide         *domain.StaffAssignment `json:"guide,omitempty"`
	Driver        *domain.StaffAssignment `json:"driver,omitempty"`
	MeetingPoint  domain.LocationPoint    `json:"meetingPoint"`
	DropoffPoint  domain.LocationPoint    `json:"dropoffPoint"`
	Itinerary     []domain.ItineraryItem  `json:"itinerary,omitempty"`
	ItineraryDays []domain.ItineraryDay   `json:"itineraryDays,omitempty"`
	Equipment     []domain.EquipmentItem  `json:"equipment,omitempty"`
	Notes         string                  `json:"notes,omitempty"`
}

// TourResponse тур в составе бронирования
type TourResponse struct {
	ID                 string            `json:"id"`
	CatalogTourID      string            `json:"catalogTourId"`
	Title              string            `json:"title"`
	CoverImageURL      *string           `json:"coverImageUrl,omitempty"`
	OriginalDate       string            `json:"originalDate"`
	OriginalGuests     int               `json:"originalGuests"`
	Date               string            `json:"date"`
	Guests             int               `json:"guests"`
	OriginalPrice      string            `json:"originalPrice"`
	CalculatedPrice    string            `json:"calculatedPrice"`
	AvailabilityStatus string            `json:"availabilityStatus"`
	LimitedPlaces      *int              `json:"limitedPlaces,omitempty"`
	AlternativeDate    *string           `json:"alternativeDate,omitempty"`
	Status             string            `json:"status"`
	RemovedFromBooking bool              `json:"removedFromBooking"`
	ScheduleExcluded   bool              `json:"scheduleExcluded,omitempty"`
	Schedule           *ScheduleResponse `json:"schedule,omitempty"`
	Completed          bool              `json:"completed"`
	CompletedAt        *time.Time        `json:"completedAt,omitempty"`
}

// PaymentResponse запись платежного журнала
type PaymentResponse struct {
	Amount        string    `json:"amount"`
	Method        string    `json:"method"`
	TransactionID string    `json:"transactionId,omitempty"`
	ReceiptNumber string    `json:"receiptNumber,omitempty"`
	ReceivedAt    time.Time `json:"receivedAt"`
	ProcessedBy   *string   `json:"processedBy,omitempty"`
}

// DecisionResponse решение по туру
type DecisionResponse struct {
	TourID              string                       `json:"tourId"`
	Decision            string                       `json:"decision"`
	ModificationDetails *ModificationDetailsResponse `json:"modificationDetails,omitempty"`
}

// ModificationDetailsResponse детали изменения тура
type ModificationDetailsResponse struct {
	Guests *int    `json:"guests,omitempty"`
	Date   *string `json:"date,omitempty"`
	Notes  *string `json:"notes,omitempty"`
}

// LogEventResponse запись журнала
type LogEventResponse struct {
	Timestamp   time.Time         `json:"timestamp"`
	Event       string            `json:"event"`
	ProcessedBy *string           `json:"processedBy,omitempty"`
	Changes     domain.LogChanges `json:"changes"`
}

// BookingResponse полное представление бронирования для сотрудников
type BookingResponse struct {
	ID                     string             `json:"id"`
	RequestID              int64              `json:"requestId"`
	Status                 string             `json:"status"`
	Revision               int64              `json:"revision"`
	Customer               CustomerResponse   `json:"customer"`
	Tours                  []TourResponse     `json:"tours"`
	Total                  string             `json:"total"`
	PaidAmount             string             `json:"paidAmount"`
	Balance                string             `json:"balance"`
	Payments               []PaymentResponse  `json:"payments"`
	SuggestedDecisions     []DecisionResponse `json:"suggestedDecisions,omitempty"`
	FeedbackDecisions      []DecisionResponse `json:"feedbackDecisions,omitempty"`
	FeedbackTokenExpiresAt *time.Time         `json:"feedbackTokenExpiresAt,omitempty"`
	CancellationNotes      *string            `json:"cancellationNotes,omitempty"`
	Log                    []LogEventResponse `json:"log"`

	SubmittedAt             time.Time  `json:"submittedAt"`
	AvailabilityConfirmedAt *time.Time `json:"availabilityConfirmedAt,omitempty"`
	FeedbackReceivedAt      *time.Time `json:"feedbackReceivedAt,omitempty"`
	ConfirmedAt             *time.Time `json:"confirmedAt,omitempty"`
	PaidAt                  *time.Time `json:"paidAt,omitempty"`
	ScheduledAt             *time.Time `json:"scheduledAt,omitempty"`
	CompletedAt             *time.Time `json:"completedAt,omitempty"`
	CancelledAt             *time.Time `json:"cancelledAt,omitempty"`
	CreatedAt               time.Time  `json:"createdAt"`
	UpdatedAt               time.Time  `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// ClientTourResponse тур на странице обратной связи клиента
type ClientTourResponse struct {
	ID                 string  `json:"id"`
	Title              string  `json:"title"`
	CoverImageURL      *string `json:"coverImageUrl,omitempty"`
	Date               string  `json:"date"`
	Guests             int     `json:"guests"`
	CalculatedPrice    string  `json:"calculatedPrice"`
	AvailabilityStatus string  `json:"availabilityStatus"`
	LimitedPlaces      *int    `json:"limitedPlaces,omitempty"`
	AlternativeDate    *string `json:"alternativeDate,omitempty"`
}

// ClientBookingResponse снимок бронирования для клиента без журнала и служебных полей
type ClientBookingResponse struct {
	ID                 string               `json:"id"`
	RequestID          int64                `json:"requestId"`
	Status             string               `json:"status"`
	CustomerName       string               `json:"customerName"`
	Tours              []ClientTourResponse `json:"tours"`
	Total              string               `json:"total"`
	SuggestedDecisions []DecisionResponse   `json:"suggestedDecisions"`
	ExpiresAt          *time.Time           `json:"expiresAt,omitempty"`
}

// Методы конвертации

func formatDate(t time.Time) string {
	return t.Format(domain.DateFormat)
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatDate(*t)
	return &s
}

// FromDomainSchedule конвертирует расписание
func FromDomainSchedule(s *domain.Schedule) *ScheduleResponse {
	if s == nil {
		return nil
	}
	return &ScheduleResponse{
		TourType:      string(s.TourType),
		Date:          formatDate(s.Date),
		StartTime:     s.StartTime.String(),
		EndTime:       s.EndTime.String(),
		DurationDays:  s.DurationDays,
		Guide:         s.Guide,
		Driver:        s.Driver,
		MeetingPoint:  s.MeetingPoint,
		DropoffPoint:  s.DropoffPoint,
		Itinerary:     s.Itinerary,
		ItineraryDays: s.ItineraryDays.Days(),
		Equipment:     s.Equipment,
		Notes:         s.Notes,
	}
}

// FromDomainTour конвертирует тур
func FromDomainTour(t *domain.TourLineItem) TourResponse {
	return TourResponse{
		ID:                 t.ID,
		CatalogTourID:      t.CatalogTourID,
		Title:              t.Title,
		CoverImageURL:      t.CoverImageURL,
		OriginalDate:       formatDate(t.OriginalDate),
		OriginalGuests:     t.OriginalGuests,
		Date:               formatDate(t.Date),
		Guests:             t.Guests,
		OriginalPrice:      t.OriginalPrice.StringFixed(2),
		CalculatedPrice:    t.CalculatedPrice.StringFixed(2),
		AvailabilityStatus: string(t.AvailabilityStatus),
		LimitedPlaces:      t.LimitedPlaces,
		AlternativeDate:    formatDatePtr(t.AlternativeDate),
		Status:             string(t.Status),
		RemovedFromBooking: t.RemovedFromBooking,
		ScheduleExcluded:   t.ScheduleExcluded,
		Schedule:           FromDomainSchedule(t.Schedule),
		Completed:          t.Completed,
		CompletedAt:        t.CompletedAt,
	}
}

// FromDomainDecisions конвертирует решения по турам
func FromDomainDecisions(decisions []domain.FeedbackDecision) []DecisionResponse {
	out := make([]DecisionResponse, 0, len(decisions))
	for _, d := range decisions {
		resp := DecisionResponse{TourID: d.TourID, Decision: string(d.Decision)}
		if d.ModificationDetails != nil {
			resp.ModificationDetails = &ModificationDetailsResponse{
				Guests: d.ModificationDetails.Guests,
				Date:   formatDatePtr(d.ModificationDetails.Date),
				Notes:  d.ModificationDetails.Notes,
			}
		}
		out = append(out, resp)
	}
	return out
}

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:        b.ID,
		RequestID: b.RequestID,
		Status:    string(b.Status),
		Revision:  b.Revision,
		Customer: CustomerResponse{
			Name:  b.Customer.Name,
			Email: b.Customer.Email,
			Phone: b.Customer.Phone,
			Notes: b.Customer.Notes,
		},
		Tours:                   make([]TourResponse, 0, len(b.Tours)),
		Total:                   b.Total.StringFixed(2),
		PaidAmount:              b.PaidAmount.StringFixed(2),
		Balance:                 b.Balance().StringFixed(2),
		Payments:                make([]PaymentResponse, 0, len(b.Payments)),
		SuggestedDecisions:      FromDomainDecisions(b.SuggestedDecisions),
		FeedbackDecisions:       FromDomainDecisions(b.FeedbackDecisions),
		FeedbackTokenExpiresAt:  b.FeedbackTokenExpiresAt,
		CancellationNotes:       b.CancellationNotes,
		Log:                     make([]LogEventResponse, 0, b.Log.Len()),
		SubmittedAt:             b.SubmittedAt,
		AvailabilityConfirmedAt: b.AvailabilityConfirmedAt,
		FeedbackReceivedAt:      b.FeedbackReceivedAt,
		ConfirmedAt:             b.ConfirmedAt,
		PaidAt:                  b.PaidAt,
		ScheduledAt:             b.ScheduledAt,
		CompletedAt:             b.CompletedAt,
		CancelledAt:             b.CancelledAt,
		CreatedAt:               b.CreatedAt,
		UpdatedAt:               b.UpdatedAt,
	}

	for i := range b.Tours {
		resp.Tours = append(resp.Tours, FromDomainTour(&b.Tours[i]))
	}

	for _, p := range b.Payments {
		resp.Payments = append(resp.Payments, PaymentResponse{
			Amount:        p.Amount.StringFixed(2),
			Method:        p.Method,
			TransactionID: p.TransactionID,
			ReceiptNumber: p.ReceiptNumber,
			ReceivedAt:    p.ReceivedAt,
			ProcessedBy:   p.ProcessedBy,
		})
	}

	for _, e := range b.Log.Events() {
		resp.Log = append(resp.Log, LogEventResponse{
			Timestamp:   e.Timestamp,
			Event:       string(e.Event()),
			ProcessedBy: e.ProcessedBy,
			Changes:     e.Changes,
		})
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// FromDomainBookingForClient конвертирует бронирование для страницы обратной связи
func FromDomainBookingForClient(b *domain.Booking) *ClientBookingResponse {
	if b == nil {
		return nil
	}

	resp := &ClientBookingResponse{
		ID:                 b.ID,
		RequestID:          b.RequestID,
		Status:             string(b.Status),
		CustomerName:       b.Customer.Name,
		Tours:              make([]ClientTourResponse, 0, len(b.Tours)),
		Total:              b.Total.StringFixed(2),
		SuggestedDecisions: FromDomainDecisions(b.SuggestedDecisions),
		ExpiresAt:          b.FeedbackTokenExpiresAt,
	}

	for _, t := range b.Tours {
		resp.Tours = append(resp.Tours, ClientTourResponse{
			ID:                 t.ID,
			Title:              t.Title,
			CoverImageURL:      t.CoverImageURL,
			Date:               formatDate(t.Date),
			Guests:             t.Guests,
			CalculatedPrice:    t.CalculatedPrice.StringFixed(2),
			AvailabilityStatus: string(t.AvailabilityStatus),
			LimitedPlaces:      t.LimitedPlaces,
			AlternativeDate:    formatDatePtr(t.AlternativeDate),
		})
	}

	return resp
}
