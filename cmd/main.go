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
	"github.com/rs/cors"

	cancelReservationHandler "github.com/flexbook/FlexBook-BookingService/internal/api/handlers/cancel_reservation"
	createReservationHandler "github.com/flexbook/FlexBook-BookingService/internal/api/handlers/create_reservation"
	createRoomHandler "github.com/flexbook/FlexBook-BookingService/internal/api/handlers/create_room"
	deleteRoomHandler "github.com/flexbook/FlexBook-BookingService/internal/api/handlers/delete_room"
	getDayScheduleHandler "github.com/flexbook/FlexBook-BookingService/internal/api/handlers/get_day_schedule"
	getReservationHandler "github.com/flexbook/FlexBook-BookingService/internal/api/handlers/get_reservation"
	getReservationQRHandler "github.com/flexbook/FlexBook-BookingService/internal/api/handlers/get_reservation_qr"
	getUserReservationsHandler "github.com/flexbook/FlexBook-BookingService/internal/api/handlers/get_user_reservations"
	listRoomsHandler "github.com/flexbook/FlexBook-BookingService/internal/api/handlers/list_rooms"
	roomSessionHandler "github.com/flexbook/FlexBook-BookingService/internal/api/handlers/room_session"
	updateReservationHandler "github.com/flexbook/FlexBook-BookingService/internal/api/handlers/update_reservation"
	updateRoomHandler "github.com/flexbook/FlexBook-BookingService/internal/api/handlers/update_room"
	"github.com/flexbook/FlexBook-BookingService/internal/api/middleware"
	"github.com/flexbook/FlexBook-BookingService/internal/config"
	"github.com/flexbook/FlexBook-BookingService/internal/infra/notify"
	reservationRepo "github.com/flexbook/FlexBook-BookingService/internal/infra/storage/reservation"
	roomRepo "github.com/flexbook/FlexBook-BookingService/internal/infra/storage/room"
	tokenRepo "github.com/flexbook/FlexBook-BookingService/internal/infra/storage/token"
	qrClient "github.com/flexbook/FlexBook-BookingService/internal/integrations/qrserver"
	"github.com/flexbook/FlexBook-BookingService/internal/reminder"
	reservationsService "github.com/flexbook/FlexBook-BookingService/internal/service/reservations"
	roomsService "github.com/flexbook/FlexBook-BookingService/internal/service/rooms"
	"github.com/flexbook/FlexBook-BookingService/internal/sweeper"
	createReservationUC "github.com/flexbook/FlexBook-BookingService/internal/usecase/create_reservation"
	getDayScheduleUC "github.com/flexbook/FlexBook-BookingService/internal/usecase/get_day_schedule"
	updateReservationUC "github.com/flexbook/FlexBook-BookingService/internal/usecase/update_reservation"
	"github.com/flexbook/FlexBook-BookingService/internal/ws"
	"github.com/flexbook/FlexBook-BookingService/pkg/dbmetrics"
	"github.com/flexbook/FlexBook-BookingService/pkg/logger"
	"github.com/flexbook/FlexBook-BookingService/pkg/metrics"
	"github.com/flexbook/FlexBook-BookingService/pkg/simpletxmanager"
	"github.com/flexbook/FlexBook-BookingService/pkg/txmanager"
)

// systemClock провайдер реального времени для сервисов
type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

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

	log.Info("Starting FlexBook-BookingService...")
	log.Info("Configuration loaded from config.toml")

	// Часовой пояс операционного окна
	loc, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Failed to load timezone %q: %v", cfg.Booking.Timezone, err)
	}

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

	// Подключаемся к Redis для рассылки событий об изменениях бронирований
	notifier := notify.NewRedisNotifier(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Channel, log)
	if err := notifier.Ping(context.Background()); err != nil {
		log.Fatal("Failed to ping redis: %v", err)
	}
	defer notifier.Close()
	log.Info("Successfully connected to redis (addr=%s, channel=%s)", cfg.Redis.Addr, cfg.Redis.Channel)

	// Клиент внешнего рендерера QR-кодов
	qr := qrClient.NewClient(
		cfg.QRService.URL,
		time.Duration(cfg.QRService.Timeout)*time.Second,
		cfg.QRService.Size,
		log,
	)
	log.Info("QR client initialized (url=%s, timeout=%ds)", cfg.QRService.URL, cfg.QRService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		reservationRepository *reservationRepo.Repository
		roomRepository        *roomRepo.Repository
		tokenRepository       *tokenRepo.Repository
	)

	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		reservationRepository = reservationRepo.NewRepository(wrappedDB)
		roomRepository = roomRepo.NewRepository(wrappedDB)
		tokenRepository = tokenRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		reservationRepository = reservationRepo.NewRepository(db)
		roomRepository = roomRepo.NewRepository(db)
		tokenRepository = tokenRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	clock := systemClock{}

	collector := metricsOrNoop(metricsCollector)

	// WebSocket хаб и планировщик напоминаний
	hub := ws.NewHub(collector, log)
	reminders := reminder.NewScheduler(
		time.Duration(cfg.Booking.ReminderLeadMinutes)*time.Minute,
		hub,
		log,
	)

	// Инициализируем use cases
	createReservationUseCase := createReservationUC.NewUseCase(
		reservationRepository,
		roomRepository,
		tokenRepository,
		notifier,
		reminders,
		collector,
		log,
	)
	updateReservationUseCase := updateReservationUC.NewUseCase(
		reservationRepository,
		notifier,
		reminders,
		log,
	)
	getDayScheduleUseCase := getDayScheduleUC.NewUseCase(
		reservationRepository,
		roomRepository,
		loc,
		log,
	)

	// Инициализируем сервисы
	reservationSvc := reservationsService.NewService(
		reservationRepository,
		tokenRepository,
		qr,
		notifier,
		reminders,
		clock,
		collector,
		log,
	)
	roomSvc := roomsService.NewService(
		roomRepository,
		reservationRepository,
		clock,
		log,
	)

	// Инициализируем handlers
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	updateReservation := updateReservationHandler.NewHandler(updateReservationUseCase, log)
	cancelReservation := cancelReservationHandler.NewHandler(reservationSvc, log)
	getReservation := getReservationHandler.NewHandler(reservationSvc, log)
	getReservationQR := getReservationQRHandler.NewHandler(reservationSvc, log)
	getUserReservations := getUserReservationsHandler.NewHandler(reservationSvc, log)
	getDaySchedule := getDayScheduleHandler.NewHandler(getDayScheduleUseCase, log)
	listRooms := listRoomsHandler.NewHandler(roomSvc, log)
	createRoom := createRoomHandler.NewHandler(roomSvc, log)
	updateRoom := updateRoomHandler.NewHandler(roomSvc, log)
	deleteRoom := deleteRoomHandler.NewHandler(roomSvc, log)
	roomSession := roomSessionHandler.NewHandler(hub, getDayScheduleUseCase, cfg.Auth.JWTSecret, log)

	// События из Redis транслируются во все активные WebSocket сессии,
	// в том числе изменения, сделанные другими инстансами сервиса
	notifyCtx, stopNotify := context.WithCancel(context.Background())
	notifier.Subscribe(notifyCtx, hub.NotifyReservationChange)

	// Фоновый перевод закончившихся бронирований в expired
	sweep := sweeper.NewSweeper(
		reservationRepository,
		txMgr,
		notifier,
		reminders,
		collector,
		time.Duration(cfg.Booking.SweepIntervalSec)*time.Second,
		log,
	)
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go sweep.Run(sweepCtx)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		r.Use(limiter.Middleware)
		log.Info("Rate limiting enabled (rps=%.1f, burst=%d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	// WebSocket сессия выбора слотов (публичная, токен опционален)
	r.HandleFunc("/ws/rooms/{roomId}", roomSession.Handle).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Витрина комнат с текущим и ближайшим бронированием
	api.HandleFunc("/rooms", listRooms.Handle).Methods(http.MethodGet)

	// Дневная сетка слотов комнаты
	api.HandleFunc("/rooms/{roomId}/schedule", getDaySchedule.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют JWT)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(cfg.Auth.JWTSecret, log))

	// --- Бронирования ---
	protected.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/{id}", getReservation.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{id}", updateReservation.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/reservations/{id}/cancel", cancelReservation.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/reservations/{id}/qr", getReservationQR.Handle).Methods(http.MethodGet)

	// Бронирования пользователя (scope=active|history)
	protected.HandleFunc("/users/{userId}/reservations", getUserReservations.Handle).Methods(http.MethodGet)

	// --- Управление комнатами (для администраторов) ---
	protected.HandleFunc("/rooms", createRoom.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/rooms/{id}", updateRoom.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/rooms/{id}", deleteRoom.Handle).Methods(http.MethodDelete)

	// CORS для браузерного клиента
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	}).Handler(r)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      corsHandler,
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

	stopSweep()
	stopNotify()
	reminders.CancelAll()
	hub.CloseAll()

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

// appMetrics объединяет метрики, которые потребляют компоненты сервиса
type appMetrics interface {
	ws.Metrics
	ReservationResult(result string)
}

// metricsOrNoop возвращает коллектор или заглушку, когда метрики выключены
func metricsOrNoop(m *metrics.Metrics) appMetrics {
	if m != nil {
		return m
	}
	return noopMetrics{}
}

type noopMetrics struct{}

func (noopMetrics) WSSessionStarted()        {}
func (noopMetrics) WSSessionEnded()          {}
func (noopMetrics) ReservationResult(string) {}
