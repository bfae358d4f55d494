package transport

import (
	"net/http"
	"time"

	"catalog-service/internal/domain"
	"catalog-service/internal/messaging"
	"catalog-service/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// HealthHandler exposes liveness and a broker round-trip probe
type HealthHandler struct {
	bus    messaging.EventBus
	logger *zap.Logger
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(bus messaging.EventBus, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		bus:    bus,
		logger: logger,
	}
}

// RegisterRoutes registers the health routes
func (h *HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.Liveness)
	r.Post("/api/health/test-event", h.TestEvent)
}

// Liveness reports that the process is up
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// TestEvent publishes a throwaway ProductCreated through the bus to verify
// broker connectivity end to end.
func (h *HealthHandler) TestEvent(w http.ResponseWriter, r *http.Request) {
	event := domain.NewEvent(domain.ProductCreated{
		ProductID:     uuid.New(),
		Name:          "Health Check Product",
		SKU:           "HEALTH-CHECK",
		Price:         decimal.NewFromFloat(9.99),
		StockQuantity: 1,
		Category:      "Diagnostics",
	})

	if err := h.bus.Publish(r.Context(), event); err != nil {
		h.logger.Error("Test event publish failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to publish test event")
		return
	}

	h.logger.Info("Test event published", zap.String("event_id", event.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{
		"message": "test event published",
		"eventId": event.ID.String(),
	})
}
