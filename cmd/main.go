package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	acceptBookingHandler "github.com/buildmate-lk/BookingService/internal/api/handlers/accept_booking"
	cancelBookingHandler "github.com/buildmate-lk/BookingService/internal/api/handlers/cancel_booking"
	createAddressHandler "github.com/buildmate-lk/BookingService/internal/api/handlers/create_address"
	createBookingHandler "github.com/buildmate-lk/BookingService/internal/api/handlers/create_booking"
	deleteAddressHandler "github.com/buildmate-lk/BookingService/internal/api/handlers/delete_address"
	getAvailableBookingsHandler "github.com/buildmate-lk/BookingService/internal/api/handlers/get_available_bookings"
	getBookingHandler "github.com/buildmate-lk/BookingService/internal/api/handlers/get_booking"
	getCustomerBookingsHandler "github.com/buildmate-lk/BookingService/internal/api/handlers/get_customer_bookings"
	getDefaultAddressHandler "github.com/buildmate-lk/BookingService/internal/api/handlers/get_default_address"
	getTechnicianBookingsHandler "github.com/buildmate-lk/BookingService/internal/api/handlers/get_technician_bookings"
	listAddressesHandler "github.com/buildmate-lk/BookingService/internal/api/handlers/list_addresses"
	setDefaultAddressHandler "github.com/buildmate-lk/BookingService/internal/api/handlers/set_default_address"
	updateAddressHandler "github.com/buildmate-lk/BookingService/internal/api/handlers/update_address"
	updateBookingStatusHandler "github.com/buildmate-lk/BookingService/internal/api/handlers/update_booking_status"
	"github.com/buildmate-lk/BookingService/internal/api/middleware"
	"github.com/buildmate-lk/BookingService/internal/config"
	addressRepo "github.com/buildmate-lk/BookingService/internal/infra/storage/address"
	bookingRepo "github.com/buildmate-lk/BookingService/internal/infra/storage/booking"
	catalogServiceClient "github.com/buildmate-lk/BookingService/internal/integrations/catalogservice"
	mediaStoreClient "github.com/buildmate-lk/BookingService/internal/integrations/mediastore"
	userServiceClient "github.com/buildmate-lk/BookingService/internal/integrations/userservice"
	addressesService "github.com/buildmate-lk/BookingService/internal/service/addresses"
	bookingsService "github.com/buildmate-lk/BookingService/internal/service/bookings"
	createBookingUC "github.com/buildmate-lk/BookingService/internal/usecase/create_booking"
	"github.com/buildmate-lk/BookingService/pkg/dbmetrics"
	"github.com/buildmate-lk/BookingService/pkg/logger"
	"github.com/buildmate-lk/BookingService/pkg/metrics"
	"github.com/buildmate-lk/BookingService/pkg/simpletxmanager"
	"github.com/buildmate-lk/BookingService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting BookingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем интеграционных клиентов
	catalogClient := catalogServiceClient.NewClient(
		cfg.CatalogService.URL,
		time.Duration(cfg.CatalogService.Timeout)*time.Second,
		log,
	)
	userClient := userServiceClient.NewClient(
		cfg.UserService.URL,
		time.Duration(cfg.UserService.Timeout)*time.Second,
		log,
	)
	mediaClient := mediaStoreClient.NewClient(
		cfg.MediaStore.URL,
		time.Duration(cfg.MediaStore.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (CatalogService=%s, UserService=%s, MediaStore=%s)",
		cfg.CatalogService.URL, cfg.UserService.URL, cfg.MediaStore.URL)

	// Инициализируем репозитории (с метриками или без)
	var (
		addressRepository *addressRepo.Repository
		bookingRepository *bookingRepo.Repository
	)

	// Интерфейс для transaction manager (используется в сервисах и usecases)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		addressRepository = addressRepo.NewRepository(wrappedDB)
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		addressRepository = addressRepo.NewRepository(db)
		bookingRepository = bookingRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	addressSvc := addressesService.NewService(
		addressRepository,
		txMgr,
		log,
	)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		userClient,
		txMgr,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		addressSvc,
		catalogClient,
		mediaClient,
		txMgr,
		log,
	)

	// Инициализируем handlers
	listAddresses := listAddressesHandler.NewHandler(addressSvc, log)
	getDefaultAddress := getDefaultAddressHandler.NewHandler(addressSvc, log)
	createAddress := createAddressHandler.NewHandler(addressSvc, log)
	updateAddress := updateAddressHandler.NewHandler(addressSvc, log)
	setDefaultAddress := setDefaultAddressHandler.NewHandler(addressSvc, log)
	deleteAddress := deleteAddressHandler.NewHandler(addressSvc, log)

	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getAvailableBookings := getAvailableBookingsHandler.NewHandler(bookingSvc, log)
	acceptBooking := acceptBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getCustomerBookings := getCustomerBookingsHandler.NewHandler(bookingSvc, log)
	getTechnicianBookings := getTechnicianBookingsHandler.NewHandler(bookingSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID / X-User-Role headers)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Адреса ---
	// Адреса текущего клиента (default первым)
	protected.HandleFunc("/addresses/my", listAddresses.Handle).Methods(http.MethodGet)

	// Адрес по умолчанию текущего клиента
	protected.HandleFunc("/addresses/my/default", getDefaultAddress.Handle).Methods(http.MethodGet)

	// Создание адреса
	protected.HandleFunc("/addresses", createAddress.Handle).Methods(http.MethodPost)

	// Обновление адреса
	protected.HandleFunc("/addresses/{addressId}", updateAddress.Handle).Methods(http.MethodPut)

	// Назначение адреса по умолчанию
	protected.HandleFunc("/addresses/{addressId}/default", setDefaultAddress.Handle).Methods(http.MethodPatch)

	// Удаление адреса
	protected.HandleFunc("/addresses/{addressId}", deleteAddress.Handle).Methods(http.MethodDelete)

	// --- Бронирования ---
	// Создание бронирования (клиент)
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Доступные для принятия бронирования (техник)
	protected.HandleFunc("/bookings/available", getAvailableBookings.Handle).Methods(http.MethodGet)

	// История бронирований клиента
	protected.HandleFunc("/bookings/my", getCustomerBookings.Handle).Methods(http.MethodGet)

	// Назначенные бронирования техника
	protected.HandleFunc("/bookings/technician/my", getTechnicianBookings.Handle).Methods(http.MethodGet)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Принятие бронирования техником (эксклюзивно, первый успевший)
	protected.HandleFunc("/bookings/{bookingId}/accept", acceptBooking.Handle).Methods(http.MethodPost)

	// Переход статуса бронирования
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPut)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
