package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-booking-system/internal/api/handler"
	"github.com/sanosuguru/go-event-booking-system/internal/api/middleware"
	"github.com/sanosuguru/go-event-booking-system/internal/application"
	"github.com/sanosuguru/go-event-booking-system/internal/config"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/customer"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/event"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/hall"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/transaction"
	"github.com/sanosuguru/go-event-booking-system/internal/infrastructure/memory"
	"github.com/sanosuguru/go-event-booking-system/internal/infrastructure/postgres"
	"github.com/sanosuguru/go-event-booking-system/internal/infrastructure/rabbitmq"
	"github.com/sanosuguru/go-event-booking-system/internal/infrastructure/redis"
	"github.com/sanosuguru/go-event-booking-system/internal/infrastructure/telegram"
	"github.com/sanosuguru/go-event-booking-system/internal/notification"
	"github.com/sanosuguru/go-event-booking-system/internal/pkg/logger"
	"github.com/sanosuguru/go-event-booking-system/internal/pkg/metrics"
	"github.com/sanosuguru/go-event-booking-system/internal/worker"
)

// repositories はストレージ実装に依存しないリポジトリ一式
type repositories struct {
	halls     hall.Repository
	seats     hall.SeatRepository
	events    event.Repository
	customers customer.Repository
	bookings  application.BookingStore
	tx        transaction.Manager
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, ".env の読み込みに失敗: %v\n", err)
	}
	cfg := config.Load()

	log := logger.Init(cfg.App.Env)
	defer func() { _ = logger.Sync() }()

	m := metrics.Init()
	checks := make(map[string]handler.Checker)

	repos, closeStore, err := openStore(cfg, checks)
	if err != nil {
		logger.Fatal("ストレージの初期化に失敗", zap.Error(err))
	}
	defer closeStore()

	hub := notification.NewHub(logger.Named("hub"), m.ObserverFailuresTotal)
	hub.Subscribe(notification.LogObserver(logger.Named("booking")))
	hub.Subscribe(notification.MetricsObserver(m.BookingTransitionsTotal))

	bookingOpts := []application.BookingServiceOption{application.WithMetrics(m)}
	var eventOpts []application.EventServiceOption

	if cfg.Redis.Enabled {
		client, err := redis.NewClient(&cfg.Redis)
		if err != nil {
			logger.Fatal("Redis接続に失敗", zap.Error(err))
		}
		defer client.Close()
		checks["redis"] = func(ctx context.Context) error { return redis.Ping(ctx, client) }

		cache := redis.NewAvailabilityCache(client)
		hub.Subscribe(notification.CacheInvalidator(cache))
		bookingOpts = append(bookingOpts,
			application.WithSeatLocker(redis.NewLockManager(client, m.DistributedLockDuration)),
			application.WithAvailabilityCache(cache),
		)
		eventOpts = append(eventOpts, application.WithEventCacheInvalidator(cache))
		logger.Info("Redisを使用します", zap.String("addr", cfg.Redis.Addr()))
	}

	if cfg.RabbitMQ.Enabled {
		pub, err := rabbitmq.Dial(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue, logger.Named("rabbitmq"))
		if err != nil {
			logger.Fatal("RabbitMQ接続に失敗", zap.Error(err))
		}
		defer pub.Close()
		hub.Subscribe(pub.Observer())
		logger.Info("RabbitMQへの配信を有効化", zap.String("queue", cfg.RabbitMQ.Queue))
	}

	tg, err := telegram.NewNotifier(cfg.Telegram.Token, cfg.Telegram.ChatID, logger.Named("telegram"))
	if err != nil {
		logger.Fatal("Telegram通知の初期化に失敗", zap.Error(err))
	}
	if tg.Enabled() {
		hub.Subscribe(tg.Observer())
		logger.Info("Telegram通知を有効化")
	}

	hallService := application.NewHallService(repos.tx, repos.halls, repos.seats, repos.events)
	eventService := application.NewEventService(repos.events, repos.halls, repos.bookings, nil, eventOpts...)
	customerService := application.NewCustomerService(repos.customers)
	bookingService := application.NewBookingService(
		repos.bookings, repos.customers, repos.events, repos.halls, repos.seats, hub, bookingOpts...,
	)
	reportService := application.NewReportService(
		repos.bookings, repos.events, repos.halls, repos.customers, cfg.Report.TopLimit, nil,
	)

	e := handler.NewEcho()
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	middleware.SetupMiddleware(e, m)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), middleware.MetricsBasicAuth(cfg.Metrics))
	handler.RegisterRoutes(e, handler.Handlers{
		Health:    handler.NewHealthHandler(checks),
		Halls:     handler.NewHallHandler(hallService),
		Events:    handler.NewEventHandler(eventService, bookingService),
		Customers: handler.NewCustomerHandler(customerService, bookingService),
		Bookings:  handler.NewBookingHandler(bookingService),
		Reports:   handler.NewReportHandler(reportService),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	refresher := worker.NewStatsRefresher(repos.bookings, m.ActiveBookings, m.ConfirmedRevenue, cfg.Worker.StatsInterval)
	go refresher.Start(ctx)

	go func() {
		addr := ":" + cfg.Server.Port
		logger.Info("サーバー起動", zap.String("addr", addr), zap.String("storage", cfg.App.Storage))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("サーバーをシャットダウンしています...")

	refresher.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("サーバーシャットダウンエラー", zap.Error(err))
		return
	}
	log.Info("サーバーが正常にシャットダウンしました")
}

// openStore は設定に応じたストレージを開く。postgres ならマイグレーションも適用する
func openStore(cfg *config.Config, checks map[string]handler.Checker) (*repositories, func(), error) {
	if cfg.UseMemoryStorage() {
		logger.Warn("インメモリストレージを使用します。再起動でデータは失われます")
		s := memory.NewStore()
		return &repositories{
			halls: s.Halls(), seats: s.Seats(), events: s.Events(),
			customers: s.Customers(), bookings: s.Bookings(), tx: s.TxManager(),
		}, func() {}, nil
	}

	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}
	if err := postgres.RunMigrations(db.DB, cfg.App.MigrationsPath); err != nil {
		db.Close()
		return nil, nil, err
	}
	checks["database"] = func(ctx context.Context) error { return postgres.Ping(ctx, db) }

	s := postgres.NewStore(db)
	return &repositories{
		halls: s.Halls(), seats: s.Seats(), events: s.Events(),
		customers: s.Customers(), bookings: s.Bookings(), tx: s.TxManager(),
	}, func() { db.Close() }, nil
}
