package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Postline/internal/api"
	"github.com/shaiso/Postline/internal/config"
	"github.com/shaiso/Postline/internal/mq"
	"github.com/shaiso/Postline/internal/notify"
	"github.com/shaiso/Postline/internal/refresher"
	"github.com/shaiso/Postline/internal/repo"
	"github.com/shaiso/Postline/internal/scheduler"
	"github.com/shaiso/Postline/internal/telemetry"
	"github.com/shaiso/Postline/internal/ticker"
)

var startTime = time.Now()

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting postline-scheduler")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Подключаемся к базе данных
	pool, err := repo.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	if err := repo.EnsureSchema(ctx, pool); err != nil {
		logger.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}

	// Репозитории
	postRepo := repo.NewPostRepo(pool)
	accountRepo := repo.NewAccountRepo(pool)
	notificationRepo := repo.NewNotificationRepo(pool)

	// RabbitMQ опционален: без брокера события просто не публикуются
	var publisher *mq.Publisher
	var mqConn *mq.Connection
	if cfg.RabbitURL != "" {
		conn, err := mq.NewConnection(cfg.RabbitURL, logger)
		if err != nil {
			logger.Warn("rabbitmq unavailable, events will not be published", "error", err)
		} else {
			defer conn.Close()
			if err := mq.SetupTopology(ctx, conn); err != nil {
				logger.Error("failed to setup topology", "error", err)
				os.Exit(1)
			}
			publisher = mq.NewPublisher(conn, logger)
			mqConn = conn
			logger.Info("rabbitmq connected", "topology", mq.TopologyInfo())
		}
	}

	// Capability registry: провайдеры с поддержкой server-side refresh
	// регистрируются здесь. Все остальные платформы деградируют в failed
	// с уведомлением пользователя.
	registry := refresher.NewRegistry()
	logger.Info("capability registry ready", "platforms", registry.Platforms())

	notifier := notify.New(notify.Config{
		Store:    notificationRepo,
		Cooldown: cfg.NotificationCooldown,
		Logger:   logger,
	})

	sched := scheduler.New(scheduler.Config{
		Posts:     postRepo,
		Publisher: wrapPublisher(publisher),
		Logger:    logger,
		BatchSize: cfg.SchedulerBatchSize,
	})

	refr := refresher.New(refresher.Config{
		Accounts:      accountRepo,
		Registry:      registry,
		Notifier:      notifier,
		Publisher:     wrapAccountPublisher(publisher),
		Logger:        logger,
		RefreshWindow: cfg.TokenRefreshWindow,
		AlertWindow:   cfg.TokenAlertWindow,
	})

	// Фоновые циклы
	postLoop, err := ticker.New(ticker.Config{
		Name:     "post_scheduler",
		Interval: cfg.PostCycleInterval,
		CronExpr: cfg.PostCycleCron,
		Fn:       sched.Run,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("failed to create post scheduler loop", "error", err)
		os.Exit(1)
	}

	tokenLoop, err := ticker.New(ticker.Config{
		Name:     "token_refresher",
		Interval: cfg.TokenCycleInterval,
		CronExpr: cfg.TokenCycleCron,
		Fn:       refr.Run,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("failed to create token refresher loop", "error", err)
		os.Exit(1)
	}

	postLoop.Start(ctx)
	tokenLoop.Start(ctx)

	// HTTP API
	handler := api.NewHandler(api.Config{
		PostRepo:         postRepo,
		AccountRepo:      accountRepo,
		NotificationRepo: notificationRepo,
		Refresher:        refr,
		Logger:           logger,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		mqStatus := "disabled"
		if mqConn != nil {
			mqStatus = "down"
			if mqConn.IsConnected() {
				mqStatus = "up"
			}
		}
		fmt.Fprintf(w, "ok %s mq=%s", time.Since(startTime), mqStatus)
	})
	mux.Handle("/metrics", promhttp.Handler())
	handler.RegisterRoutes(mux)

	server := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: mux,
	}

	go func() {
		logger.Info("listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	// Останавливаем циклы: Stop ждёт завершения текущей итерации
	postLoop.Stop()
	tokenLoop.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	logger.Info("stopped")
}

// wrapPublisher превращает nil *mq.Publisher в nil-интерфейс,
// чтобы проверки publisher != nil в scheduler работали корректно.
func wrapPublisher(p *mq.Publisher) scheduler.EventPublisher {
	if p == nil {
		return nil
	}
	return p
}

func wrapAccountPublisher(p *mq.Publisher) refresher.EventPublisher {
	if p == nil {
		return nil
	}
	return p
}
