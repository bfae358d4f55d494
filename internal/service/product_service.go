package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"catalog-service/internal/domain"
	"catalog-service/internal/messaging"
	"catalog-service/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrSKUAlreadyExists = errors.New("a product with this SKU already exists")
)

// CreateProductInput carries the fields of a product-creation command.
type CreateProductInput struct {
	Name          string
	Description   string
	Price         float64
	Currency      string
	StockQuantity int
	SKU           string
	Category      string
	ImageURL      string
}

// UpdateProductInput carries the fields of a product-info update command.
type UpdateProductInput struct {
	Name        string
	Description string
	Category    string
}

// ListProductsFilter narrows and paginates the product listing. OnlyActive
// defaults to true when unset; Page and PageSize default to 1 and 10.
type ListProductsFilter struct {
	Category      string
	OnlyActive    *bool
	OnlyAvailable bool
	Page          int
	PageSize      int
}

// ProductService sequences load, mutate, persist and publish for every
// catalog command, and implements read-side filtering and pagination.
type ProductService interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	ChangePrice(ctx context.Context, id uuid.UUID, newPrice float64) (*ProductDTO, error)
	AdjustStock(ctx context.Context, id uuid.UUID, quantity int, operation string) (*ProductDTO, error)
	ActivateProduct(ctx context.Context, id uuid.UUID) (bool, error)
	DeactivateProduct(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) (bool, error)
	ListProducts(ctx context.Context, filter ListProductsFilter) ([]ProductSummaryDTO, error)
	GetProductByID(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	GetProductBySKU(ctx context.Context, sku string) (*ProductDTO, error)
	ListByCategory(ctx context.Context, category string) ([]ProductSummaryDTO, error)
}

type productService struct {
	products repository.ProductRepository
	bus      messaging.EventBus
	logger   *zap.Logger
}

// NewProductService creates a ProductService wired to the given repository
// and event bus.
func NewProductService(products repository.ProductRepository, bus messaging.EventBus, logger *zap.Logger) ProductService {
	return &productService{
		products: products,
		bus:      bus,
		logger:   logger,
	}
}

// CreateProduct rejects duplicate SKUs, builds the aggregate, persists it and
// publishes its buffered events.
func (s *productService) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	s.logger.Info("Creating product", zap.String("sku", input.SKU))

	exists, err := s.products.ExistsSKU(ctx, input.SKU)
	if err != nil {
		return nil, fmt.Errorf("failed to check SKU: %w", err)
	}
	if exists {
		s.logger.Warn("Duplicate SKU on create", zap.String("sku", input.SKU))
		return nil, fmt.Errorf("%w: %s", ErrSKUAlreadyExists, input.SKU)
	}

	currency := input.Currency
	if strings.TrimSpace(currency) == "" {
		currency = domain.DefaultCurrency
	}
	price, err := domain.NewMoneyFromFloat(input.Price, currency)
	if err != nil {
		return nil, &domain.ValidationError{Field: "price", Message: err.Error()}
	}

	product, err := domain.NewProduct(input.Name, input.Description, price, input.StockQuantity, input.SKU, input.Category)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.ImageURL) != "" {
		if err := product.SetImage(input.ImageURL); err != nil {
			return nil, err
		}
	}

	stored, err := s.products.Add(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("failed to store product: %w", err)
	}

	if err := s.publishEvents(ctx, stored); err != nil {
		return nil, err
	}

	s.logger.Info("Product created",
		zap.String("product_id", stored.EntityID().String()),
		zap.String("sku", stored.SKU()),
	)
	return toProductDTO(stored), nil
}

// UpdateProduct replaces name, description and category of an existing
// product.
func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	s.logger.Info("Updating product", zap.String("product_id", id.String()))

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("product %s: %w", id, err)
	}

	if err := product.UpdateInfo(input.Name, input.Description, input.Category); err != nil {
		return nil, err
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to store product: %w", err)
	}

	if err := s.publishEvents(ctx, product); err != nil {
		return nil, err
	}

	return toProductDTO(product), nil
}

// ChangePrice replaces the product's price, keeping its currency.
func (s *productService) ChangePrice(ctx context.Context, id uuid.UUID, newPrice float64) (*ProductDTO, error) {
	s.logger.Info("Changing product price",
		zap.String("product_id", id.String()),
		zap.Float64("new_price", newPrice),
	)

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("product %s: %w", id, err)
	}

	price, err := domain.NewMoneyFromFloat(newPrice, product.Price().Currency())
	if err != nil {
		return nil, &domain.ValidationError{Field: "price", Message: "price must be greater than zero"}
	}
	if err := product.ChangePrice(price); err != nil {
		return nil, err
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to store product: %w", err)
	}

	if err := s.publishEvents(ctx, product); err != nil {
		return nil, err
	}

	return toProductDTO(product), nil
}

// AdjustStock applies an add or remove stock operation.
func (s *productService) AdjustStock(ctx context.Context, id uuid.UUID, quantity int, operation string) (*ProductDTO, error) {
	s.logger.Info("Adjusting stock",
		zap.String("product_id", id.String()),
		zap.String("operation", operation),
		zap.Int("quantity", quantity),
	)

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("product %s: %w", id, err)
	}

	switch operation {
	case domain.StockOperationAdd:
		err = product.AddStock(quantity)
	case domain.StockOperationRemove:
		err = product.RemoveStock(quantity)
	default:
		err = &domain.ValidationError{Field: "operation", Message: "operation must be add or remove"}
	}
	if err != nil {
		return nil, err
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to store product: %w", err)
	}

	if err := s.publishEvents(ctx, product); err != nil {
		return nil, err
	}

	return toProductDTO(product), nil
}

// ActivateProduct flips the product back on sale. Returns false when the id
// is unknown.
func (s *productService) ActivateProduct(ctx context.Context, id uuid.UUID) (bool, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	product.Activate()

	if err := s.products.Update(ctx, product); err != nil {
		return false, fmt.Errorf("failed to store product: %w", err)
	}
	if err := s.publishEvents(ctx, product); err != nil {
		return false, err
	}

	s.logger.Info("Product activated", zap.String("product_id", id.String()))
	return true, nil
}

// DeactivateProduct pulls the product from sale. Returns false when the id
// is unknown.
func (s *productService) DeactivateProduct(ctx context.Context, id uuid.UUID) (bool, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	product.Deactivate()

	if err := s.products.Update(ctx, product); err != nil {
		return false, fmt.Errorf("failed to store product: %w", err)
	}
	if err := s.publishEvents(ctx, product); err != nil {
		return false, err
	}

	s.logger.Info("Product deactivated", zap.String("product_id", id.String()))
	return true, nil
}

// DeleteProduct removes the product. Returns false when the id is unknown.
// No event is published for deletion.
func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID) (bool, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	if err := s.products.Remove(ctx, product); err != nil {
		return false, fmt.Errorf("failed to remove product: %w", err)
	}

	s.logger.Info("Product deleted", zap.String("product_id", id.String()))
	return true, nil
}

// ListProducts filters and paginates the catalog.
func (s *productService) ListProducts(ctx context.Context, filter ListProductsFilter) ([]ProductSummaryDTO, error) {
	onlyActive := true
	if filter.OnlyActive != nil {
		onlyActive = *filter.OnlyActive
	}

	var (
		products []*domain.Product
		err      error
	)
	if onlyActive {
		products, err = s.products.GetActive(ctx)
	} else {
		products, err = s.products.GetAll(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	var filtered []*domain.Product
	for _, p := range products {
		if filter.Category != "" && !strings.EqualFold(p.Category(), filter.Category) {
			continue
		}
		if filter.OnlyAvailable && !p.IsAvailable() {
			continue
		}
		filtered = append(filtered, p)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 10
	}

	skip := (page - 1) * pageSize
	if skip >= len(filtered) {
		return []ProductSummaryDTO{}, nil
	}
	end := skip + pageSize
	if end > len(filtered) {
		end = len(filtered)
	}

	summaries := make([]ProductSummaryDTO, 0, end-skip)
	for _, p := range filtered[skip:end] {
		summaries = append(summaries, toProductSummaryDTO(p))
	}
	return summaries, nil
}

// GetProductByID returns the product projection, or nil when absent.
func (s *productService) GetProductByID(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toProductDTO(product), nil
}

// GetProductBySKU returns the product projection, or nil when absent.
func (s *productService) GetProductBySKU(ctx context.Context, sku string) (*ProductDTO, error) {
	product, err := s.products.GetBySKU(ctx, sku)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toProductDTO(product), nil
}

// ListByCategory returns every product in the category.
func (s *productService) ListByCategory(ctx context.Context, category string) ([]ProductSummaryDTO, error) {
	products, err := s.products.GetByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list category %s: %w", category, err)
	}

	summaries := make([]ProductSummaryDTO, 0, len(products))
	for _, p := range products {
		summaries = append(summaries, toProductSummaryDTO(p))
	}
	return summaries, nil
}

// publishEvents pushes the aggregate's buffered events through the bus, one
// at a time and in emission order. The first failure aborts the loop and
// propagates; the buffer is cleared only after the whole loop completes, so
// a mid-loop failure leaves already-published events still buffered. The
// preceding persist is never rolled back.
func (s *productService) publishEvents(ctx context.Context, product *domain.Product) error {
	events := product.PendingEvents()
	if len(events) == 0 {
		return nil
	}

	for _, event := range events {
		s.logger.Debug("Publishing domain event",
			zap.String("event_id", event.ID.String()),
			zap.String("event_type", string(event.Type)),
			zap.String("product_id", product.EntityID().String()),
		)
		if err := s.bus.Publish(ctx, event); err != nil {
			s.logger.Error("Failed to publish domain event",
				zap.String("event_type", string(event.Type)),
				zap.String("product_id", product.EntityID().String()),
				zap.Error(err),
			)
			return fmt.Errorf("failed to publish %s: %w", event.Type, err)
		}
	}

	product.ClearEvents()
	return nil
}
