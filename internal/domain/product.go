package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Product is the aggregate root of the catalog context. Every mutation
// validates its invariants and, where noted, appends exactly one domain event
// to the pending buffer. The buffer only grows here; clearing it is the
// application service's job once a publish attempt starts.
type Product struct {
	id          uuid.UUID
	name        string
	description string
	price       Money
	stock       int
	active      bool
	sku         string
	category    string
	imageURL    string
	createdAt   time.Time
	updatedAt   *time.Time

	pendingEvents []Event
}

// NewProduct validates all fields and builds an active product with a
// normalized (uppercase) SKU, buffering a single ProductCreated event.
func NewProduct(name, description string, price Money, stockQuantity int, sku, category string) (*Product, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateDescription(description); err != nil {
		return nil, err
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}
	if err := validateStockQuantity(stockQuantity); err != nil {
		return nil, err
	}
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if err := validateCategory(category); err != nil {
		return nil, err
	}

	p := &Product{
		id:          uuid.New(),
		name:        name,
		description: description,
		price:       price,
		stock:       stockQuantity,
		active:      true,
		sku:         strings.ToUpper(sku),
		category:    category,
		createdAt:   time.Now().UTC(),
	}

	p.appendEvent(ProductCreated{
		ProductID:     p.id,
		Name:          p.name,
		SKU:           p.sku,
		Price:         p.price.Amount(),
		StockQuantity: p.stock,
		Category:      p.category,
	})

	return p, nil
}

// UpdateInfo replaces name, description and category after re-validating
// them. It is a state-only mutation: no event is emitted.
func (p *Product) UpdateInfo(name, description, category string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := validateDescription(description); err != nil {
		return err
	}
	if err := validateCategory(category); err != nil {
		return err
	}

	p.name = name
	p.description = description
	p.category = category
	p.touch()
	return nil
}

// ChangePrice replaces the price and buffers a PriceChanged event carrying
// the previous price and the computed percent change.
func (p *Product) ChangePrice(newPrice Money) error {
	if err := validatePrice(newPrice); err != nil {
		return err
	}

	previous := p.price
	p.price = newPrice
	p.touch()

	p.appendEvent(newPriceChanged(p.id, p.sku, previous, newPrice))
	return nil
}

// AddStock increases the stock quantity and buffers a StockUpdated event.
func (p *Product) AddStock(quantity int) error {
	if quantity <= 0 {
		return newValidationError("quantity", "quantity must be greater than zero")
	}

	previous := p.stock
	p.stock += quantity
	p.touch()

	p.appendEvent(StockUpdated{
		ProductID:        p.id,
		SKU:              p.sku,
		PreviousQuantity: previous,
		CurrentQuantity:  p.stock,
		Operation:        StockOperationAdd,
	})
	return nil
}

// RemoveStock decreases the stock quantity and buffers a StockUpdated event.
// Removing more units than available fails without mutating state.
func (p *Product) RemoveStock(quantity int) error {
	if quantity <= 0 {
		return newValidationError("quantity", "quantity must be greater than zero")
	}
	if quantity > p.stock {
		return &InsufficientStockError{Available: p.stock, Requested: quantity}
	}

	previous := p.stock
	p.stock -= quantity
	p.touch()

	p.appendEvent(StockUpdated{
		ProductID:        p.id,
		SKU:              p.sku,
		PreviousQuantity: previous,
		CurrentQuantity:  p.stock,
		Operation:        StockOperationRemove,
	})
	return nil
}

// Activate puts the product back on sale. State-only: unlike Deactivate it
// emits no event.
func (p *Product) Activate() {
	p.active = true
	p.touch()
}

// Deactivate pulls the product from sale and buffers a ProductDeactivated
// event with the default reason.
func (p *Product) Deactivate() {
	p.active = false
	p.touch()

	p.appendEvent(ProductDeactivated{
		ProductID: p.id,
		SKU:       p.sku,
		Name:      p.name,
		Reason:    DefaultDeactivationReason,
	})
}

// SetImage records the product image URL.
func (p *Product) SetImage(url string) error {
	if strings.TrimSpace(url) == "" {
		return newValidationError("imageUrl", "image URL cannot be empty")
	}
	p.imageURL = url
	p.touch()
	return nil
}

// IsAvailable reports whether the product can currently be sold.
func (p *Product) IsAvailable() bool {
	return p.active && p.stock > 0
}

// EntityID implements the Entity contract.
func (p *Product) EntityID() uuid.UUID { return p.id }

// CreatedAt implements the Entity contract.
func (p *Product) CreatedAt() time.Time { return p.createdAt }

// UpdatedAt implements the Entity contract; nil until the first mutation.
func (p *Product) UpdatedAt() *time.Time { return p.updatedAt }

func (p *Product) Name() string        { return p.name }
func (p *Product) Description() string { return p.description }
func (p *Product) Price() Money        { return p.price }
func (p *Product) StockQuantity() int  { return p.stock }
func (p *Product) IsActive() bool      { return p.active }
func (p *Product) SKU() string         { return p.sku }
func (p *Product) Category() string    { return p.category }
func (p *Product) ImageURL() string    { return p.imageURL }

// PendingEvents returns the buffered domain events in emission order.
func (p *Product) PendingEvents() []Event {
	events := make([]Event, len(p.pendingEvents))
	copy(events, p.pendingEvents)
	return events
}

// ClearEvents discards the buffered events. Called by the application service
// after a publish loop completes; the aggregate never clears its own buffer.
func (p *Product) ClearEvents() {
	p.pendingEvents = nil
}

func (p *Product) appendEvent(payload EventPayload) {
	p.pendingEvents = append(p.pendingEvents, NewEvent(payload))
}

func (p *Product) touch() {
	now := time.Now().UTC()
	p.updatedAt = &now
}

// Field lengths are bounded in characters, not bytes; catalog text is
// routinely accented ("Teclado Mecânico", "Móveis").
func validateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return newValidationError("name", "name cannot be empty")
	}
	length := utf8.RuneCountInString(trimmed)
	if length < 3 {
		return newValidationError("name", "name must have at least 3 characters")
	}
	if length > 200 {
		return newValidationError("name", "name cannot exceed 200 characters")
	}
	return nil
}

func validateDescription(description string) error {
	trimmed := strings.TrimSpace(description)
	if trimmed == "" {
		return newValidationError("description", "description cannot be empty")
	}
	if utf8.RuneCountInString(trimmed) > 1000 {
		return newValidationError("description", "description cannot exceed 1000 characters")
	}
	return nil
}

func validatePrice(price Money) error {
	if !price.IsPositive() {
		return newValidationError("price", "price must be greater than zero")
	}
	return nil
}

func validateStockQuantity(quantity int) error {
	if quantity < 0 {
		return newValidationError("stockQuantity", "stock quantity cannot be negative")
	}
	return nil
}

func validateSKU(sku string) error {
	trimmed := strings.TrimSpace(sku)
	if trimmed == "" {
		return newValidationError("sku", "SKU cannot be empty")
	}
	if length := utf8.RuneCountInString(trimmed); length < 3 || length > 50 {
		return newValidationError("sku", "SKU must have between 3 and 50 characters")
	}
	return nil
}

func validateCategory(category string) error {
	if strings.TrimSpace(category) == "" {
		return newValidationError("category", "category cannot be empty")
	}
	return nil
}
