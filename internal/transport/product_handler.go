package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"catalog-service/internal/domain"
	"catalog-service/internal/middleware"
	"catalog-service/internal/repository"
	"catalog-service/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateProductRequest represents the product creation payload
type CreateProductRequest struct {
	Name          string  `json:"name" validate:"required,min=3,max=200"`
	Description   string  `json:"description" validate:"required,min=1,max=1000"`
	Price         float64 `json:"price" validate:"required,gt=0"`
	Currency      string  `json:"currency" validate:"omitempty,len=3"`
	StockQuantity int     `json:"stockQuantity" validate:"gte=0"`
	SKU           string  `json:"sku" validate:"required,min=3,max=50"`
	Category      string  `json:"category" validate:"required"`
	ImageURL      string  `json:"imageUrl" validate:"omitempty,url"`
}

// UpdateProductRequest represents the product info update payload
type UpdateProductRequest struct {
	Name        string `json:"name" validate:"required,min=3,max=200"`
	Description string `json:"description" validate:"required,min=1,max=1000"`
	Category    string `json:"category" validate:"required"`
}

// ChangePriceRequest represents the price change payload
type ChangePriceRequest struct {
	NewPrice float64 `json:"newPrice" validate:"required,gt=0"`
}

// AdjustStockRequest represents the stock adjustment payload
type AdjustStockRequest struct {
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
	Operation string `json:"operation" validate:"required,oneof=add remove"`
}

// ProductHandler handles HTTP requests for catalog operations
type ProductHandler struct {
	products service.ProductService
	logger   *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		products: products,
		logger:   logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/sku/{sku}", h.GetBySKU)
		r.Get("/category/{category}", h.ListByCategory)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetByID)
			r.Put("/", h.Update)
			r.Delete("/", h.Delete)
			r.Patch("/price", h.ChangePrice)
			r.Patch("/stock", h.AdjustStock)
			r.Patch("/activate", h.Activate)
			r.Patch("/deactivate", h.Deactivate)
		})
	})
}

// Create handles product creation
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product creation validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	dto, err := h.products.CreateProduct(r.Context(), service.CreateProductInput{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		Currency:      req.Currency,
		StockQuantity: req.StockQuantity,
		SKU:           req.SKU,
		Category:      req.Category,
		ImageURL:      req.ImageURL,
	})
	if err != nil {
		h.respondWithServiceError(w, err, "failed to create product")
		return
	}

	h.logger.Info("Product created", zap.String("product_id", dto.ID), zap.String("sku", dto.SKU))
	w.Header().Set("Location", fmt.Sprintf("/api/products/%s", dto.ID))
	middleware.RespondWithJSON(w, http.StatusCreated, dto)
}

// List handles product listing with filters and pagination
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := service.ListProductsFilter{
		Category: r.URL.Query().Get("category"),
	}

	if raw := r.URL.Query().Get("onlyActive"); raw != "" {
		onlyActive, err := strconv.ParseBool(raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "onlyActive must be a boolean")
			return
		}
		filter.OnlyActive = &onlyActive
	}

	if raw := r.URL.Query().Get("onlyAvailable"); raw != "" {
		onlyAvailable, err := strconv.ParseBool(raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "onlyAvailable must be a boolean")
			return
		}
		filter.OnlyAvailable = onlyAvailable
	}

	var err error
	if filter.Page, err = queryInt(r, "page"); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "page must be an integer")
		return
	}
	if filter.PageSize, err = queryInt(r, "pageSize"); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "pageSize must be an integer")
		return
	}

	products, err := h.products.ListProducts(r.Context(), filter)
	if err != nil {
		h.respondWithServiceError(w, err, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// GetByID handles single product lookup by id
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	dto, err := h.products.GetProductByID(r.Context(), id)
	if err != nil {
		h.respondWithServiceError(w, err, "failed to get product")
		return
	}
	if dto == nil {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, dto)
}

// GetBySKU handles single product lookup by SKU
func (h *ProductHandler) GetBySKU(w http.ResponseWriter, r *http.Request) {
	sku := chi.URLParam(r, "sku")

	dto, err := h.products.GetProductBySKU(r.Context(), sku)
	if err != nil {
		h.respondWithServiceError(w, err, "failed to get product")
		return
	}
	if dto == nil {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, dto)
}

// ListByCategory handles listing every product in a category
func (h *ProductHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")

	products, err := h.products.ListByCategory(r.Context(), category)
	if err != nil {
		h.respondWithServiceError(w, err, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// Update handles product info updates
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product update validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	dto, err := h.products.UpdateProduct(r.Context(), id, service.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		h.respondWithServiceError(w, err, "failed to update product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, dto)
}

// ChangePrice handles price changes
func (h *ProductHandler) ChangePrice(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var req ChangePriceRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Price change validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	dto, err := h.products.ChangePrice(r.Context(), id, req.NewPrice)
	if err != nil {
		h.respondWithServiceError(w, err, "failed to change price")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, dto)
}

// AdjustStock handles stock adjustments
func (h *ProductHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var req AdjustStockRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Stock adjustment validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	dto, err := h.products.AdjustStock(r.Context(), id, req.Quantity, req.Operation)
	if err != nil {
		h.respondWithServiceError(w, err, "failed to adjust stock")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, dto)
}

// Activate handles product activation
func (h *ProductHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.products.ActivateProduct, "failed to activate product")
}

// Deactivate handles product deactivation
func (h *ProductHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.products.DeactivateProduct, "failed to deactivate product")
}

// Delete handles product removal
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.products.DeleteProduct, "failed to delete product")
}

func (h *ProductHandler) toggle(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id uuid.UUID) (bool, error), failMessage string) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	found, err := op(r.Context(), id)
	if err != nil {
		h.respondWithServiceError(w, err, failMessage)
		return
	}
	if !found {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductHandler) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return uuid.Nil, false
	}
	return id, true
}

// respondWithServiceError maps service and domain errors to HTTP status codes
func (h *ProductHandler) respondWithServiceError(w http.ResponseWriter, err error, fallback string) {
	var validationErr *domain.ValidationError
	var stockErr *domain.InsufficientStockError

	switch {
	case errors.As(err, &validationErr):
		middleware.RespondWithValidationErrors(w, []middleware.ValidationError{
			{Field: validationErr.Field, Message: validationErr.Message},
		})
	case errors.As(err, &stockErr):
		middleware.RespondWithErrorDetails(w, http.StatusBadRequest, stockErr.Error(), map[string]interface{}{
			"available": stockErr.Available,
			"requested": stockErr.Requested,
		})
	case errors.Is(err, service.ErrSKUAlreadyExists):
		middleware.RespondWithError(w, http.StatusConflict, "a product with this SKU already exists")
	case errors.Is(err, repository.ErrNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
	default:
		h.logger.Error("Request failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}

func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
