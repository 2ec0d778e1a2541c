package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-TourBookingService/internal/app"
	"github.com/m04kA/SMC-TourBookingService/internal/config"
	"github.com/m04kA/SMC-TourBookingService/internal/infra/storage/badgerstore"
	bookingRepo "github.com/m04kA/SMC-TourBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-TourBookingService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-TourBookingService/internal/integrations/notifyservice"
	"github.com/m04kA/SMC-TourBookingService/internal/service/notifications"
	"github.com/m04kA/SMC-TourBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TourBookingService/pkg/feedbacktoken"
	"github.com/m04kA/SMC-TourBookingService/pkg/logger"
	"github.com/m04kA/SMC-TourBookingService/pkg/metrics"
	"github.com/m04kA/SMC-TourBookingService/pkg/txmanager"
)

// Serve возвращает команду запуска HTTP сервера
//
// Флаги:
//
//	--config, -c: путь к config.toml (по умолчанию config.toml)
func Serve() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the booking HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "Path to config file")

	return cmd
}

// storage хранилище бронирований и функция его закрытия
type storage struct {
	store  app.BookingStore
	outbox notifications.OutboxMarker
	close  func()
}

func runServe(ctx context.Context, configPath string) error {
	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Close()

	log.Info("Starting SMC-TourBookingService...")
	log.Info("Configuration loaded from %s", configPath)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})
	defer close(stopMetricsCh)

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаем хранилище
	st, err := openStorage(ctx, cfg, metricsCollector, stopMetricsCh, log)
	if err != nil {
		return err
	}
	defer st.close()

	// Инициализируем интеграционных клиентов
	catalogClient := catalogservice.NewClient(
		cfg.CatalogService.URL,
		time.Duration(cfg.CatalogService.Timeout)*time.Second,
		log,
	)

	var notifyClient notifications.NotifyClient
	if cfg.NotifyService.URL != "" {
		notifyClient = notifyservice.NewClient(
			cfg.NotifyService.URL,
			time.Duration(cfg.NotifyService.Timeout)*time.Second,
		)
	} else {
		log.Warn("NotifyService URL is empty, notifications are disabled")
	}
	log.Info("Integration clients initialized (CatalogService=%s timeout=%ds, NotifyService=%s timeout=%ds)",
		cfg.CatalogService.URL, cfg.CatalogService.Timeout, cfg.NotifyService.URL, cfg.NotifyService.Timeout)

	dispatcher := notifications.NewService(notifyClient, metricsCollector, log)
	if st.outbox != nil {
		dispatcher = dispatcher.WithOutbox(st.outbox)
	}

	tokens, err := feedbacktoken.NewIssuer(cfg.Feedback.TokenSecret, time.Duration(cfg.Feedback.TokenTTLHours)*time.Hour)
	if err != nil {
		return fmt.Errorf("failed to initialize feedback tokens: %w", err)
	}

	// Настраиваем роутер
	router := app.NewRouter(app.Dependencies{
		Store:       st.store,
		Catalog:     catalogClient,
		Tokens:      tokens,
		Dispatcher:  dispatcher,
		Logger:      log,
		Metrics:     metricsCollector,
		MetricsPath: cfg.Metrics.Path,
	})

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
	case <-ctx.Done():
	case err := <-serverErr:
		return fmt.Errorf("server failed to start: %w", err)
	}

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}

func openStorage(ctx context.Context, cfg *config.Config, m *metrics.Metrics, stopCh <-chan struct{}, log *logger.Logger) (*storage, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverBadger:
		db, err := badgerstore.Open(cfg.Storage.BadgerPath, log)
		if err != nil {
			return nil, err
		}
		store, err := badgerstore.NewStore(db)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		if cfg.Storage.BadgerPath == "" {
			log.Warn("Badger path is empty, bookings are kept in memory only")
		} else {
			log.Info("Badger storage opened at %s", cfg.Storage.BadgerPath)
		}

		return &storage{
			store: store,
			close: func() {
				if err := store.Close(); err != nil {
					log.Warn("Failed to release badger sequence: %v", err)
				}
				if err := db.Close(); err != nil {
					log.Error("Failed to close badger: %v", err)
				}
			},
		}, nil

	default:
		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		// Настраиваем connection pool
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

		// Без коллектора метрик обертка только проксирует вызовы
		wrappedDB := dbmetrics.WrapWithDefault(db, m, cfg.Metrics.ServiceName, stopCh)
		repo := bookingRepo.NewRepository(wrappedDB, txmanager.NewTransactionManager(wrappedDB))

		return &storage{
			store:  repo,
			outbox: repo,
			close: func() {
				if err := db.Close(); err != nil {
					log.Error("Failed to close database: %v", err)
				}
			},
		}, nil
	}
}
