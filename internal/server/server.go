package server

import (
	"fmt"
	"net/http"
	"time"

	"catalog-service/internal/config"
	"catalog-service/internal/messaging"
	custommiddleware "catalog-service/internal/middleware"
	"catalog-service/internal/repository"
	"catalog-service/internal/service"
	"catalog-service/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	bus    messaging.EventBus
}

func NewServer(cfg *config.Config, logger *zap.Logger, repo repository.ProductRepository, bus messaging.EventBus) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(nil, cfg.Server.Env != "production"))

	// Initialize services
	productService := service.NewProductService(repo, bus, logger)

	// Initialize handlers and register routes
	transport.NewProductHandler(productService, logger).RegisterRoutes(router)
	transport.NewHealthHandler(bus, logger).RegisterRoutes(router)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		bus:    bus,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if closer, ok := s.bus.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			s.logger.Error("Failed to close event bus", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
