package submit_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	"github.com/m04kA/SMC-TourBookingService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-TourBookingService/internal/validation"
)

// UseCase use case для создания бронирования по заявке клиента
type UseCase struct {
	bookingRepo   BookingRepository
	catalogClient CatalogClient
	dispatcher    EventDispatcher
	validator     *validation.Validator
	timeProvider  TimeProvider
	newID         func() string
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
		validator:     validation.New(),
		timeProvider:  &RealTimeProvider{},
		newID:         uuid.NewString,
		logger:        logger,
	}
}

// Execute выполняет use case создания бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("SubmitBooking: email=%s, tours=%d", req.Customer.Email, len(req.Tours))

	now := uc.timeProvider.Now()

	// 1. Валидация входных данных
	if err := uc.validateRequest(req, now); err != nil {
		uc.logger.Warn("SubmitBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем туры из каталога и считаем цены
	tours := make([]domain.TourLineItem, 0, len(req.Tours))
	var violations domain.Violations
	for i, requested := range req.Tours {
		catalogTour, err := uc.catalogClient.GetTour(ctx, requested.CatalogTourID)
		if err != nil {
			switch {
			case errors.Is(err, catalogservice.ErrTourNotFound):
				violations.Add(fmt.Sprintf("tours[%d].catalogTourId", i), "tour %s not found", requested.CatalogTourID)
				continue
			case errors.Is(err, catalogservice.ErrUnavailable):
				uc.logger.Error("SubmitBooking: catalog unavailable: %v", err)
				return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
			default:
				uc.logger.Error("SubmitBooking: failed to get tour id=%s: %v", requested.CatalogTourID, err)
				return nil, fmt.Errorf("%w: failed to get tour: %v", ErrInternal, err)
			}
		}

		table := priceTableFromCatalog(catalogTour)
		price, err := domain.CalculatePrice(table, requested.Guests)
		if err != nil {
			if errors.Is(err, domain.ErrNoTourPriceData) {
				uc.logger.Warn("SubmitBooking: no price data for tour id=%s guests=%d", catalogTour.ID, requested.Guests)
				return nil, &domain.NoTourPriceDataError{TourID: catalogTour.ID, Guests: requested.Guests}
			}
			return nil, fmt.Errorf("%w: failed to calculate price: %v", ErrInternal, err)
		}

		tour := domain.NewTourLineItem(uc.newID(), catalogTour.ID, catalogTour.Title, dateOnly(requested.Date), requested.Guests, price, table)
		tour.CoverImageURL = catalogTour.CoverImageURL
		tours = append(tours, tour)
	}

	if !violations.Empty() {
		uc.logger.Warn("SubmitBooking: unknown catalog tours: %s", violations)
		return nil, &domain.ValidationError{Violations: violations}
	}

	// 3. Создаем агрегат
	booking := domain.NewBooking(uc.newID(), normalizeCustomer(req.Customer), tours, now)
	events := booking.PendingEvents()

	if err := booking.CheckInvariants(); err != nil {
		uc.logger.Error("SubmitBooking: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// 4. Сохраняем
	if err := uc.bookingRepo.Create(ctx, booking); err != nil {
		uc.logger.Error("SubmitBooking: failed to create booking: %v", err)
		return nil, fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
	}

	// 5. Уведомляем
	uc.dispatcher.Dispatch(ctx, booking, events)

	uc.logger.Info("SubmitBooking: successfully created booking id=%s, request=%d, total=%s",
		booking.ID, booking.RequestID, booking.Total.StringFixed(2))

	return &Response{Booking: booking}, nil
}

// priceTableFromCatalog снимок таблицы цен каталога
func priceTableFromCatalog(tour *catalogservice.Tour) *domain.PriceTable {
	table := &domain.PriceTable{
		BasePricePerPerson: tour.BasePricePerPerson,
		GroupPrices:        make([]domain.GroupPrice, 0, len(tour.GroupPrices)),
	}
	for _, gp := range tour.GroupPrices {
		table.GroupPrices = append(table.GroupPrices, domain.GroupPrice{
			MinGuests:      gp.MinGuests,
			MaxGuests:      gp.MaxGuests,
			PricePerPerson: gp.PricePerPerson,
		})
	}
	if len(table.GroupPrices) == 0 && table.BasePricePerPerson.Equal(decimal.Zero) {
		return nil
	}
	return table
}
