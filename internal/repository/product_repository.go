package repository

import (
	"context"
	"fmt"
	"strings"

	"catalog-service/internal/domain"
)

// ProductRepository extends the generic contract with the catalog's
// product-specific lookups. SKU and category matches are case-insensitive.
type ProductRepository interface {
	Repository[*domain.Product]
	GetBySKU(ctx context.Context, sku string) (*domain.Product, error)
	GetByCategory(ctx context.Context, category string) ([]*domain.Product, error)
	GetActive(ctx context.Context) ([]*domain.Product, error)
	GetLowStock(ctx context.Context, threshold int) ([]*domain.Product, error)
	ExistsSKU(ctx context.Context, sku string) (bool, error)
}

// ProductMemoryRepository stores products in memory, in insertion order.
type ProductMemoryRepository struct {
	*MemoryRepository[*domain.Product]
}

// NewProductRepository creates an empty in-memory product repository.
func NewProductRepository() *ProductMemoryRepository {
	return &ProductMemoryRepository{
		MemoryRepository: NewMemoryRepository[*domain.Product](),
	}
}

// GetBySKU returns the product with an exact, case-insensitive SKU match, or
// ErrNotFound.
func (r *ProductMemoryRepository) GetBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	matches, err := r.Find(ctx, func(p *domain.Product) bool {
		return strings.EqualFold(p.SKU(), sku)
	})
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, ErrNotFound
	}
	return matches[0], nil
}

// GetByCategory returns products with an exact, case-insensitive category
// match.
func (r *ProductMemoryRepository) GetByCategory(ctx context.Context, category string) ([]*domain.Product, error) {
	return r.Find(ctx, func(p *domain.Product) bool {
		return strings.EqualFold(p.Category(), category)
	})
}

// GetActive returns the products currently flagged active.
func (r *ProductMemoryRepository) GetActive(ctx context.Context) ([]*domain.Product, error) {
	return r.Find(ctx, func(p *domain.Product) bool {
		return p.IsActive()
	})
}

// GetLowStock returns products whose stock is strictly below the threshold.
func (r *ProductMemoryRepository) GetLowStock(ctx context.Context, threshold int) ([]*domain.Product, error) {
	return r.Find(ctx, func(p *domain.Product) bool {
		return p.StockQuantity() < threshold
	})
}

// ExistsSKU reports whether any product carries the SKU, case-insensitively.
func (r *ProductMemoryRepository) ExistsSKU(ctx context.Context, sku string) (bool, error) {
	return r.Exists(ctx, func(p *domain.Product) bool {
		return strings.EqualFold(p.SKU(), sku)
	})
}

// SeedSampleData loads the catalog's demo inventory. Seeded products are
// treated as pre-existing state: their creation events are discarded instead
// of being published.
func (r *ProductMemoryRepository) SeedSampleData(ctx context.Context) error {
	samples := []struct {
		name        string
		description string
		price       float64
		stock       int
		sku         string
		category    string
		imageURL    string
	}{
		{"Notebook Dell Inspiron", "Notebook with Intel Core i7, 16GB RAM, 512GB SSD", 3599.90, 10, "NOTE-DELL-001", "Eletrônicos", "https://example.com/notebook.jpg"},
		{"Mouse Logitech MX Master", "Wireless mouse with Bluetooth and USB receiver", 299.90, 25, "MOUSE-LOG-001", "Periféricos", "https://example.com/mouse.jpg"},
		{"Teclado Mecânico Razer", "RGB mechanical keyboard with tactile switches", 799.90, 15, "TECL-RAZ-001", "Periféricos", "https://example.com/teclado.jpg"},
		{"Monitor LG UltraWide", "29-inch UltraWide Full HD monitor", 1499.90, 5, "MON-LG-001", "Monitores", "https://example.com/monitor.jpg"},
		{"Cadeira Gamer", "Ergonomic gaming chair with lumbar support", 899.90, 8, "CAD-GAME-001", "Móveis", "https://example.com/cadeira.jpg"},
	}

	for _, s := range samples {
		price, err := domain.NewMoneyFromFloat(s.price, domain.DefaultCurrency)
		if err != nil {
			return fmt.Errorf("seed %s: %w", s.sku, err)
		}

		product, err := domain.NewProduct(s.name, s.description, price, s.stock, s.sku, s.category)
		if err != nil {
			return fmt.Errorf("seed %s: %w", s.sku, err)
		}
		if err := product.SetImage(s.imageURL); err != nil {
			return fmt.Errorf("seed %s: %w", s.sku, err)
		}

		product.ClearEvents()
		if _, err := r.Add(ctx, product); err != nil {
			return fmt.Errorf("seed %s: %w", s.sku, err)
		}
	}

	return nil
}
