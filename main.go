package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marche/config"
	"marche/cron"
	"marche/database"
	"marche/database/repository/memory"
	"marche/services/notification"
	"marche/services/payment"
	"marche/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()
	defer logger.Sync() //nolint:errcheck

	cfg := config.AppConfig
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var (
		repos   *repositories
		pingers []utils.Pinger
		closers []func(context.Context)
	)

	if config.UsesMemoryStore() {
		repos = memoryRepositories(memory.NewStore())
		if err := seedDemoUsers(ctx, repos.Users); err != nil {
			logger.Fatal("main: failed to seed demo users", zap.Error(err))
		}
		logger.Info("main: using in-memory store")
	} else {
		db, err := database.InitDB(ctx, cfg.DatabaseURL, cfg.DatabaseName)
		if err != nil {
			logger.Fatal("main: failed to connect to MongoDB", zap.Error(err))
		}
		sqlDB, err := database.InitSQL(cfg.SQLDriver, cfg.SQLDSN)
		if err != nil {
			logger.Fatal("main: failed to open payment ledger", zap.Error(err))
		}
		repos = mongoRepositories(db, sqlDB)

		pingers = append(pingers,
			utils.PingFunc{Label: "mongo", Fn: func(ctx context.Context) error {
				return database.MongoClient.Ping(ctx, nil)
			}},
			utils.PingFunc{Label: "sql", Fn: func(ctx context.Context) error {
				raw, err := sqlDB.DB()
				if err != nil {
					return err
				}
				return raw.PingContext(ctx)
			}},
		)
		closers = append(closers, func(ctx context.Context) {
			if err := database.CloseDB(ctx); err != nil {
				logger.Warn("main: mongo disconnect", zap.Error(err))
			}
			raw, err := sqlDB.DB()
			if err == nil {
				err = raw.Close()
			}
			if err != nil {
				logger.Warn("main: sql close", zap.Error(err))
			}
		})
	}

	var cache utils.JSONCache = utils.NopCache{}
	if !config.UsesMemoryStore() {
		if err := utils.InitCache(); err != nil {
			logger.Warn("main: listing cache disabled", zap.Error(err))
		} else {
			cache = utils.NewRedisJSONCache(utils.CacheClient)
			pingers = append(pingers, utils.PingFunc{Label: "redis", Fn: func(ctx context.Context) error {
				return utils.CacheClient.Ping(ctx).Err()
			}})
		}
	}

	dispatcher, err := notification.NewDispatcher(repos.Users, logger, notificationChannels(ctx, cfg, logger)...)
	if err != nil {
		logger.Fatal("main: failed to build notification dispatcher", zap.Error(err))
	}

	var notifier notification.Emitter
	if config.UsesMemoryStore() {
		notifier = &notification.SyncEmitter{Dispatcher: dispatcher, Logger: logger}
	} else {
		redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisQueueDB}
		client := asynq.NewClient(redisOpts)
		worker := cron.InitNotificationWorker(redisOpts, dispatcher, repos.Bookings, logger)
		notifier = notification.NewQueueEmitter(client, logger)
		closers = append(closers, func(context.Context) {
			worker.Shutdown()
			_ = client.Close()
		})
	}

	router, err := buildRouter(cfg, appDeps{
		Repos:    repos,
		Notifier: notifier,
		Cache:    cache,
		Gateway:  payment.NewStripeGateway(cfg.StripeKey),
		Pingers:  pingers,
		Logger:   logger,
	})
	if err != nil {
		logger.Fatal("main: failed to build router", zap.Error(err))
	}
	utils.StartHealthMonitor(ctx, pingers, time.Minute)

	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	for _, c := range closers {
		c(shutdownCtx)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

// notificationChannels returns every channel whose credentials are configured.
func notificationChannels(ctx context.Context, cfg config.Config, logger *zap.Logger) []notification.Channel {
	var channels []notification.Channel

	if cfg.LineChannelAccessToken != "" {
		line, err := notification.NewLineChannel(cfg.LineChannelAccessToken)
		if err != nil {
			logger.Warn("main: LINE channel disabled", zap.Error(err))
		} else {
			channels = append(channels, line)
		}
	}
	if cfg.FirebaseCredentialsFile != "" {
		client, err := utils.FirebaseInit(ctx, cfg.FirebaseCredentialsFile)
		if err != nil {
			logger.Warn("main: push channel disabled", zap.Error(err))
		} else {
			channels = append(channels, &notification.FCMChannel{Client: client})
		}
	}
	if cfg.SMTPHost != "" {
		channels = append(channels, notification.NewEmailChannel(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom))
	}

	if len(channels) == 0 {
		logger.Warn("main: no notification channels configured, intents are logged only")
	}
	return channels
}
