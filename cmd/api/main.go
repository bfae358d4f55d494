package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"catalog-service/internal/config"
	"catalog-service/internal/logger"
	"catalog-service/internal/messaging"
	"catalog-service/internal/repository"
	"catalog-service/internal/server"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func gracefulShutdown(apiServer *server.Server, consumer *messaging.LogConsumer, logger *zap.Logger, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	logger.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// The context is used to inform the server it has 30 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	if consumer != nil {
		if err := consumer.Close(); err != nil {
			logger.Error("Error closing log consumer", zap.Error(err))
		}
	}

	// Close server resources
	if err := apiServer.Close(); err != nil {
		logger.Error("Error closing server resources", zap.Error(err))
	}

	logger.Info("Server exiting")

	// Notify the main goroutine that the shutdown is complete
	done <- true
}

func main() {
	// Load .env before config resolution; absence is fine
	godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting catalog API",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
	)

	// Initialize the product store
	repo := repository.NewProductRepository()
	if cfg.Catalog.SeedSampleData {
		if err := repo.SeedSampleData(context.Background()); err != nil {
			log.Fatal("Failed to seed sample data", zap.Error(err))
		}
		log.Info("Sample catalog data loaded")
	}

	// Initialize the event bus; fall back to the in-memory bus when the
	// broker is disabled
	var bus messaging.EventBus
	var consumer *messaging.LogConsumer

	if cfg.RabbitMQ.Enabled {
		rabbitBus, err := messaging.NewRabbitMQBus(cfg.RabbitMQ.URL(), log)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
		}
		bus = rabbitBus

		consumer, err = messaging.NewLogConsumer(cfg.RabbitMQ.URL(), log)
		if err != nil {
			log.Fatal("Failed to start log consumer", zap.Error(err))
		}
		if err := consumer.Start(context.Background()); err != nil {
			log.Fatal("Failed to consume log queue", zap.Error(err))
		}
	} else {
		log.Info("RabbitMQ disabled, using in-memory event bus")
		bus = messaging.NewInMemoryBus(log)
	}

	// Create server
	srv := server.NewServer(cfg, log, repo, bus)

	// Create a done channel to signal when the shutdown is complete
	done := make(chan bool, 1)

	// Run graceful shutdown in a separate goroutine
	go gracefulShutdown(srv, consumer, log, done)

	log.Info("Server listening", zap.String("addr", srv.Addr))

	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Fatal("HTTP server error", zap.Error(err))
	}

	// Wait for the graceful shutdown to complete
	<-done
	log.Info("Graceful shutdown complete")
}
