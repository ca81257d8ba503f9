package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coffeeshop/cmd"
	httpadapter "coffeeshop/internal/adapters/in/http"
	"coffeeshop/internal/adapters/out/catalog"
	natsadapter "coffeeshop/internal/adapters/out/nats"
	"coffeeshop/internal/adapters/out/postgres"
	redislock "coffeeshop/internal/adapters/out/redis"
	"coffeeshop/internal/adapters/out/telegram"
	"coffeeshop/internal/core/ports"
	"coffeeshop/internal/pkg/keylock"
	"coffeeshop/internal/pkg/telemetry"

	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
)

const shutdownTimeout = 15 * time.Second

// chatTransport delivers messages and acknowledges staff button presses.
type chatTransport interface {
	ports.Messenger
	httpadapter.CallbackAnswerer
}

func main() {
	config, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	logger := telemetry.NewLogger(os.Stderr, config.LogLevel)
	slog.SetDefault(logger)

	gormDB, err := postgres.Open(postgres.DSN(
		config.DBHost, config.DBPort, config.DBUser, config.DBPassword, config.DBName, config.DBSslMode,
	))
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	if err = postgres.Migrate(gormDB); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	menu, err := catalog.Load(config.CatalogPath)
	if err != nil {
		log.Fatalf("Error loading menu: %v", err)
	}

	var closers []func()
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	var locker ports.Locker = keylock.New()
	if config.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: config.RedisAddr})
		if err = client.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("Error connecting to redis: %v", err)
		}
		closers = append(closers, func() { _ = client.Close() })
		locker = redislock.NewLocker(client, "coffeeshop:lock:")
	}

	var publisher ports.EventPublisher
	if config.NatsURL != "" {
		p, conn, natsErr := natsadapter.Connect(config.NatsURL)
		if natsErr != nil {
			log.Fatalf("Error connecting to NATS: %v", natsErr)
		}
		closers = append(closers, func() { _ = conn.Drain() })
		publisher = p
	}

	var transport chatTransport = telegram.NewLogMessenger(logger)
	if config.TelegramBotToken != "" {
		messenger, tgErr := telegram.NewMessenger(config.TelegramBotToken, &http.Client{Timeout: 2 * config.SendTimeout})
		if tgErr != nil {
			log.Fatalf("Error connecting to Telegram: %v", tgErr)
		}
		transport = messenger
	} else {
		logger.Warn("TELEGRAM_BOT_TOKEN is not set, notifications are only logged")
	}

	app := cmd.NewCompositionRoot(config, gormDB, cmd.Adapters{
		Catalog:   menu,
		Locker:    locker,
		Messenger: transport,
		Publisher: publisher,
	}, logger)

	if err = run(app, config, transport, logger); err != nil {
		logger.Error("Server stopped with error", "error", err)
	}

	if sqlDB, dbErr := gormDB.DB(); dbErr == nil {
		_ = sqlDB.Close()
	}
}

func run(app *cmd.CompositionRoot, config cmd.Config, transport chatTransport, logger *slog.Logger) error {
	dispatcher := app.Dispatcher()
	dispatcher.Start()

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		return err
	}

	e, err := httpadapter.NewRouter(
		httpadapter.NewServer(app.CreateHTTPHandlers()),
		app.CreateWebhook(transport),
		logger,
	)
	if err != nil {
		jobManager.StopAll()
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "port", config.HTTPPort)
		serverErr <- e.Start(fmt.Sprintf("0.0.0.0:%s", config.HTTPPort))
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down")
	case err = <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if shutdownErr := e.Shutdown(shutdownCtx); shutdownErr != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", shutdownErr))
	}
	jobManager.StopAll()
	if closeErr := dispatcher.Close(shutdownCtx); closeErr != nil {
		errs = append(errs, fmt.Errorf("dispatcher drain: %w", closeErr))
	}
	if dropped := dispatcher.Dropped(); dropped > 0 {
		logger.Warn("Notifications dropped during run", "count", dropped)
	}

	return errors.Join(errs...)
}
