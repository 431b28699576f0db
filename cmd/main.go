package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"message-search-backend/config"
	"message-search-backend/internal/bootstrap"
	"message-search-backend/messages/repositories"
	"message-search-backend/messages/services"
	"message-search-backend/middleware"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load environment variables before the logger so LOG_DIR and LOG_LEVEL apply
	envLoaded, envErr := config.LoadEnv(".env")

	settings, err := config.LoadSettings()
	if err != nil {
		config.InitLogger(config.DefaultLogDir, zapcore.InfoLevel)
		config.Logger.Fatal("Invalid configuration", zap.Error(err))
	}

	// Initialize Zap logger
	config.InitLogger(settings.LogDir, settings.LogLevel)
	defer config.Logger.Sync()

	if envErr != nil {
		config.Logger.Fatal("Error loading .env file", zap.Error(envErr))
	}
	if !envLoaded {
		config.Logger.Warn(".env file not found, using process environment")
	}

	ctx := context.Background()

	fetcher := services.NewHTTPFetcher(config.Logger, settings.UpstreamURL, settings.UpstreamTimeout)
	messageCache := repositories.NewMessageCache(fetcher, config.Logger)

	bootstrap.WarmMessageCache(ctx, messageCache)

	scheduler, err := bootstrap.StartScheduledRefresh(settings.RefreshSchedule, messageCache, config.Logger)
	if err != nil {
		config.Logger.Fatal("Cannot schedule message refresh", zap.Error(err))
	}

	app := bootstrap.NewApp(&middleware.AppContext{
		Settings: settings,
		Logger:   config.Logger,
		Cache:    messageCache,
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit

		config.Logger.Info("Shutting down")
		if scheduler != nil {
			<-scheduler.Stop().Done()
		}
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			config.Logger.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	// Start the application
	config.Logger.Info("Server starting",
		zap.String("app", bootstrap.AppName),
		zap.String("port", settings.Port),
		zap.String("upstream", settings.UpstreamURL),
	)
	if err := app.Listen(":" + settings.Port); err != nil {
		config.Logger.Fatal("Server failed", zap.String("port", settings.Port), zap.Error(err))
	}
}
