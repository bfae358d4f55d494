package service

import (
	"time"

	"catalog-service/internal/domain"
)

// ProductDTO is the full read projection returned by command and single-item
// query operations.
type ProductDTO struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Price         float64    `json:"price"`
	Currency      string     `json:"currency"`
	StockQuantity int        `json:"stockQuantity"`
	Active        bool       `json:"active"`
	SKU           string     `json:"sku"`
	Category      string     `json:"category"`
	ImageURL      string     `json:"imageUrl,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
	Available     bool       `json:"available"`
}

// ProductSummaryDTO is the condensed projection used by list operations.
type ProductSummaryDTO struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Category  string  `json:"category"`
	ImageURL  string  `json:"imageUrl,omitempty"`
	Available bool    `json:"available"`
	SKU       string  `json:"sku"`
}

func toProductDTO(p *domain.Product) *ProductDTO {
	price, _ := p.Price().Amount().Float64()
	return &ProductDTO{
		ID:            p.EntityID().String(),
		Name:          p.Name(),
		Description:   p.Description(),
		Price:         price,
		Currency:      p.Price().Currency(),
		StockQuantity: p.StockQuantity(),
		Active:        p.IsActive(),
		SKU:           p.SKU(),
		Category:      p.Category(),
		ImageURL:      p.ImageURL(),
		CreatedAt:     p.CreatedAt(),
		UpdatedAt:     p.UpdatedAt(),
		Available:     p.IsAvailable(),
	}
}

func toProductSummaryDTO(p *domain.Product) ProductSummaryDTO {
	price, _ := p.Price().Amount().Float64()
	return ProductSummaryDTO{
		ID:        p.EntityID().String(),
		Name:      p.Name(),
		Price:     price,
		Category:  p.Category(),
		ImageURL:  p.ImageURL(),
		Available: p.IsAvailable(),
		SKU:       p.SKU(),
	}
}
