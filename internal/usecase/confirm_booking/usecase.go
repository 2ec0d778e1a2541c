package confirm_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	"github.com/m04kA/SMC-TourBookingService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-TourBookingService/pkg/ptr"
)

// UseCase use case согласования решений клиента
type UseCase struct {
	bookingRepo   BookingRepository
	catalogClient CatalogClient
	dispatcher    EventDispatcher
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	catalogClient CatalogClient,
	dispatcher EventDispatcher,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		catalogClient: catalogClient,
		dispatcher:    dispatcher,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// tourPlan результат решения по одному туру, вычисленный до изменения агрегата
type tourPlan struct {
	tour     *domain.TourLineItem
	decision domain.Decision
	date     time.Time
	guests   int
	price    decimal.Decimal
}

// Execute выполняет use case
// Если после применения решений не остается ни одного тура, confirm выполняется как cancel
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ConfirmBooking: booking id=%s, action=%s, overrides=%d, staff=%s",
		req.BookingID, req.Action, len(req.ModifiedTours), req.ProcessedBy)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ConfirmBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем бронирование
	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, uc.repoError(req.BookingID, err)
	}

	if booking.Status != domain.StatusFeedbackReceived {
		attempted := domain.StatusConfirmed
		if req.Action == domain.ActionCancel {
			attempted = domain.StatusCancelled
		}
		uc.logger.Warn("ConfirmBooking: booking id=%s in status=%s", booking.ID, booking.Status)
		return nil, &domain.StateTransitionError{From: booking.Status, To: attempted}
	}

	// 3. Итоговые решения с учетом правок сотрудника
	decisions, err := effectiveDecisions(booking, req.ModifiedTours)
	if err != nil {
		uc.logger.Warn("ConfirmBooking: invalid overrides for booking id=%s: %v", booking.ID, err)
		return nil, err
	}

	action := req.Action
	notes := strings.TrimSpace(req.CancellationNotes)
	if action == domain.ActionConfirm && !hasSurvivors(booking, decisions) {
		uc.logger.Info("ConfirmBooking: booking id=%s has no surviving tours, cancelling", booking.ID)
		action = domain.ActionCancel
		if notes == "" {
			notes = domain.AutoCancelNotes
		}
	}

	now := uc.timeProvider.Now()
	previousTotal := booking.Total
	var changes []domain.TourChange
	confirmed, cancelled := 0, 0

	// 4. Применяем действие
	switch action {
	case domain.ActionConfirm:
		plans, err := uc.plan(ctx, booking, decisions)
		if err != nil {
			return nil, err
		}

		changes = make([]domain.TourChange, 0, len(plans))
		for _, p := range plans {
			change := domain.TourChange{
				TourID:         p.tour.ID,
				Decision:       p.decision,
				PreviousPrice:  p.tour.CalculatedPrice,
				PreviousGuests: p.tour.Guests,
				PreviousDate:   p.tour.Date,
			}

			if p.decision == domain.DecisionRemove {
				p.tour.Remove()
				cancelled++
			} else {
				p.tour.ConfirmModified(p.date, p.guests, p.price)
				confirmed++
			}

			change.NewPrice = p.tour.CalculatedPrice
			change.NewGuests = p.tour.Guests
			change.NewDate = p.tour.Date
			changes = append(changes, change)
		}

		booking.RecalculateTotal()
		if err := booking.TransitionTo(domain.StatusConfirmed, now); err != nil {
			uc.logger.Warn("ConfirmBooking: booking id=%s: %v", booking.ID, err)
			return nil, err
		}

	case domain.ActionCancel:
		if err := booking.Cancel(now, notes); err != nil {
			uc.logger.Warn("ConfirmBooking: booking id=%s: %v", booking.ID, err)
			return nil, err
		}
		cancelled = len(booking.Tours)
	}

	booking.AppendLog(now, ptr.Ptr(req.ProcessedBy), domain.FeedbackProcessed{
		Action:          action,
		RequestedAction: req.Action,
		ConfirmedTours:  confirmed,
		CancelledTours:  cancelled,
		PreviousTotal:   previousTotal,
		NewTotal:        booking.Total,
		TourChanges:     changes,
		Notes:           notes,
	})

	if err := booking.CheckInvariants(); err != nil {
		uc.logger.Error("ConfirmBooking: booking id=%s: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// 5. Сохраняем и передаем события
	events := booking.PendingEvents()
	if err := uc.bookingRepo.Update(ctx, booking); err != nil {
		return nil, uc.repoError(booking.ID, err)
	}
	uc.dispatcher.Dispatch(ctx, booking, events)

	uc.logger.Info("ConfirmBooking: booking id=%s %s, total %s -> %s",
		booking.ID, booking.Status, previousTotal.StringFixed(2), booking.Total.StringFixed(2))

	return &Response{Booking: booking, Action: action}, nil
}

// plan считает новые цены по всем турам, не изменяя бронирование
func (uc *UseCase) plan(ctx context.Context, booking *domain.Booking, decisions map[string]domain.FeedbackDecision) ([]tourPlan, error) {
	plans := make([]tourPlan, 0, len(booking.Tours))

	for i := range booking.Tours {
		tour := &booking.Tours[i]
		decision := decisions[tour.ID]

		// удаленный тур остается удаленным
		if tour.RemovedFromBooking || decision.Decision == domain.DecisionRemove {
			plans = append(plans, tourPlan{tour: tour, decision: domain.DecisionRemove})
			continue
		}

		p := tourPlan{tour: tour, decision: decision.Decision, date: tour.Date, guests: tour.Guests}

		if decision.Decision == domain.DecisionModify && decision.ModificationDetails != nil {
			if decision.ModificationDetails.Guests != nil {
				p.guests = *decision.ModificationDetails.Guests
			}
			if decision.ModificationDetails.Date != nil {
				p.date = *decision.ModificationDetails.Date
			}
		}

		if decision.Decision == domain.DecisionKeep && tour.OriginalPrice.IsPositive() {
			p.date = tour.OriginalDate
			p.guests = tour.OriginalGuests
			p.price = tour.OriginalPrice
			plans = append(plans, p)
			continue
		}

		table, err := uc.priceTable(ctx, tour)
		if err != nil {
			return nil, err
		}
		price, err := tour.Price(table, p.guests)
		if err != nil {
			uc.logger.Warn("ConfirmBooking: cannot price tour id=%s for %d guests: %v", tour.ID, p.guests, err)
			return nil, err
		}
		p.price = price
		plans = append(plans, p)
	}

	return plans, nil
}

// priceTable возвращает снимок таблицы цен тура, а при его отсутствии таблицу из каталога
func (uc *UseCase) priceTable(ctx context.Context, tour *domain.TourLineItem) (*domain.PriceTable, error) {
	if !tour.PriceTable.IsEmpty() {
		return tour.PriceTable, nil
	}

	catalogTour, err := uc.catalogClient.GetTour(ctx, tour.CatalogTourID)
	if err != nil {
		switch {
		case errors.Is(err, catalogservice.ErrTourNotFound):
			uc.logger.Warn("ConfirmBooking: catalog tour id=%s not found", tour.CatalogTourID)
			return nil, nil
		case errors.Is(err, catalogservice.ErrUnavailable):
			uc.logger.Error("ConfirmBooking: catalog unavailable: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
		default:
			uc.logger.Error("ConfirmBooking: failed to get catalog tour id=%s: %v", tour.CatalogTourID, err)
			return nil, fmt.Errorf("%w: failed to get catalog tour: %v", ErrInternal, err)
		}
	}

	table := &domain.PriceTable{BasePricePerPerson: catalogTour.BasePricePerPerson}
	for _, gp := range catalogTour.GroupPrices {
		table.GroupPrices = append(table.GroupPrices, domain.GroupPrice{
			MinGuests:      gp.MinGuests,
			MaxGuests:      gp.MaxGuests,
			PricePerPerson: gp.PricePerPerson,
		})
	}
	return table, nil
}

func (uc *UseCase) repoError(id string, err error) error {
	if domain.IsBusinessError(err) {
		uc.logger.Warn("ConfirmBooking: booking id=%s: %v", id, err)
		return err
	}
	uc.logger.Error("ConfirmBooking: repository error for booking id=%s: %v", id, err)
	return fmt.Errorf("%w: repository error: %v", ErrInternal, err)
}
