package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/storefront-client/internal/config"
	"github.com/example/storefront-client/internal/logging"
	"github.com/example/storefront-client/internal/mockshop"
	"go.uber.org/zap"
)

func main() {
	addr := getEnv("MOCKSHOP_ADDR", ":8080")
	jwtSecret := getEnv("MOCKSHOP_JWT_SECRET", "mockshop-dev-secret-do-not-use-in-prod")

	logger, err := logging.New(config.LogConfig{Level: getEnv("LOG_LEVEL", "info"), Encoding: "console"})
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	server, err := mockshop.New(jwtSecret, logger)
	if err != nil {
		logger.Fatal("failed to set up mockshop", zap.Error(err))
	}

	httpServer := &http.Server{
		Addr:    addr,
		Handler: server.Router(),
	}

	go func() {
		logger.Info("mockshop listening",
			zap.String("addr", addr),
			zap.String("demo_email", mockshop.DemoEmail))
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	httpServer.Shutdown(ctx)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
