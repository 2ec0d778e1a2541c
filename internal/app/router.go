package app

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/m04kA/SMC-TourBookingService/internal/api/handlers/cancel_booking"
	checkAvailabilityHandler "github.com/m04kA/SMC-TourBookingService/internal/api/handlers/check_availability"
	clientFeedbackHandler "github.com/m04kA/SMC-TourBookingService/internal/api/handlers/client_feedback"
	completeBookingHandler "github.com/m04kA/SMC-TourBookingService/internal/api/handlers/complete_booking"
	confirmBookingHandler "github.com/m04kA/SMC-TourBookingService/internal/api/handlers/confirm_booking"
	confirmPaymentHandler "github.com/m04kA/SMC-TourBookingService/internal/api/handlers/confirm_payment"
	getBookingHandler "github.com/m04kA/SMC-TourBookingService/internal/api/handlers/get_booking"
	listBookingsHandler "github.com/m04kA/SMC-TourBookingService/internal/api/handlers/list_bookings"
	scheduleBookingHandler "github.com/m04kA/SMC-TourBookingService/internal/api/handlers/schedule_booking"
	submitBookingHandler "github.com/m04kA/SMC-TourBookingService/internal/api/handlers/submit_booking"
	verifyFeedbackRequestHandler "github.com/m04kA/SMC-TourBookingService/internal/api/handlers/verify_feedback_request"
	"github.com/m04kA/SMC-TourBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	"github.com/m04kA/SMC-TourBookingService/internal/integrations/catalogservice"
	bookingsService "github.com/m04kA/SMC-TourBookingService/internal/service/bookings"
	checkAvailabilityUC "github.com/m04kA/SMC-TourBookingService/internal/usecase/check_availability"
	completeBookingUC "github.com/m04kA/SMC-TourBookingService/internal/usecase/complete_booking"
	confirmBookingUC "github.com/m04kA/SMC-TourBookingService/internal/usecase/confirm_booking"
	confirmPaymentUC "github.com/m04kA/SMC-TourBookingService/internal/usecase/confirm_payment"
	scheduleBookingUC "github.com/m04kA/SMC-TourBookingService/internal/usecase/schedule_booking"
	submitBookingUC "github.com/m04kA/SMC-TourBookingService/internal/usecase/submit_booking"
	submitFeedbackUC "github.com/m04kA/SMC-TourBookingService/internal/usecase/submit_feedback"
	verifyFeedbackRequestUC "github.com/m04kA/SMC-TourBookingService/internal/usecase/verify_feedback_request"
	"github.com/m04kA/SMC-TourBookingService/pkg/metrics"
)

// BookingStore хранилище документов бронирований (Postgres или badger)
type BookingStore interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	Update(ctx context.Context, booking *domain.Booking) error
	List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error)
}

// CatalogClient клиент каталога туров
type CatalogClient interface {
	GetTour(ctx context.Context, tourID string) (*catalogservice.Tour, error)
}

// FeedbackTokens выпускает и проверяет токены ссылок обратной связи
type FeedbackTokens interface {
	checkAvailabilityUC.TokenIssuer
	submitFeedbackUC.TokenParser
}

// EventDispatcher передает новые события журнала после успешной записи
type EventDispatcher interface {
	Dispatch(ctx context.Context, booking *domain.Booking, events []domain.LogEvent)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Dependencies зависимости HTTP API
type Dependencies struct {
	Store      BookingStore
	Catalog    CatalogClient
	Tokens     FeedbackTokens
	Dispatcher EventDispatcher
	Logger     Logger

	// Metrics nil - метрики выключены
	Metrics     *metrics.Metrics
	MetricsPath string
}

// NewRouter собирает use cases, handlers и маршруты API
func NewRouter(deps Dependencies) *mux.Router {
	log := deps.Logger

	// Инициализируем сервисы и use cases
	bookingSvc := bookingsService.NewService(deps.Store, deps.Dispatcher, log)

	submitBooking := submitBookingUC.NewUseCase(deps.Store, deps.Catalog, deps.Dispatcher, log)
	checkAvailability := checkAvailabilityUC.NewUseCase(deps.Store, deps.Tokens, deps.Dispatcher, log)
	verifyFeedbackRequest := verifyFeedbackRequestUC.NewUseCase(deps.Store, deps.Tokens, log)
	submitFeedback := submitFeedbackUC.NewUseCase(deps.Store, deps.Tokens, deps.Dispatcher, log)
	confirmBooking := confirmBookingUC.NewUseCase(deps.Store, deps.Catalog, deps.Dispatcher, log)
	confirmPayment := confirmPaymentUC.NewUseCase(deps.Store, deps.Dispatcher, log)
	scheduleBooking := scheduleBookingUC.NewUseCase(deps.Store, deps.Dispatcher, log)
	completeBooking := completeBookingUC.NewUseCase(deps.Store, deps.Dispatcher, log)

	r := mux.NewRouter()

	if deps.Metrics != nil {
		r.Use(middleware.MetricsMiddleware(deps.Metrics, deps.Metrics.ServiceName()))
		r.Handle(deps.MetricsPath, promhttp.Handler()).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (клиенты: заявка и ссылка обратной связи)
	// ============================================================

	api.HandleFunc("/booking/submit",
		submitBookingHandler.NewHandler(submitBooking, log).Handle).Methods(http.MethodPost)
	api.HandleFunc("/booking/verify-feedback-request",
		verifyFeedbackRequestHandler.NewHandler(verifyFeedbackRequest, log).Handle).Methods(http.MethodGet)
	api.HandleFunc("/booking/client-feedback",
		clientFeedbackHandler.NewHandler(submitFeedback, log).Handle).Methods(http.MethodPost)

	// ============================================================
	// STAFF ROUTES (требуют X-Staff-ID header)
	// ============================================================

	staff := api.PathPrefix("").Subrouter()
	staff.Use(middleware.Auth)

	staff.HandleFunc("/booking", listBookingsHandler.NewHandler(bookingSvc, log).Handle).Methods(http.MethodGet)
	staff.HandleFunc("/booking/check-availability",
		checkAvailabilityHandler.NewHandler(checkAvailability, log).Handle).Methods(http.MethodPost)
	staff.HandleFunc("/booking/confirm-booking",
		confirmBookingHandler.NewHandler(confirmBooking, log).Handle).Methods(http.MethodPost)
	staff.HandleFunc("/booking/confirm-payment",
		confirmPaymentHandler.NewHandler(confirmPayment, log).Handle).Methods(http.MethodPost)
	staff.HandleFunc("/booking/schedule",
		scheduleBookingHandler.NewHandler(scheduleBooking, log).Handle).Methods(http.MethodPost)
	staff.HandleFunc("/booking/complete",
		completeBookingHandler.NewHandler(completeBooking, log).Handle).Methods(http.MethodPost)
	staff.HandleFunc("/booking/cancel",
		cancelBookingHandler.NewHandler(bookingSvc, log).Handle).Methods(http.MethodPost)

	// {bookingId} регистрируется последним, чтобы не перекрывать именованные маршруты
	staff.HandleFunc("/booking/{bookingId}", getBookingHandler.NewHandler(bookingSvc, log).Handle).Methods(http.MethodGet)

	return r
}
