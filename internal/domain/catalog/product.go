package catalog

import (
	"strings"

	"github.com/optica-neyra/backend/internal/domain/shared"
	"github.com/optica-neyra/backend/internal/domain/shared/valueobject"
)

// Product represents an optical-goods SKU in the catalog
// It is the aggregate root for product-related operations.
// StockOnHand is authoritative here; checkout code only reads it and
// requests decrements through the repository.
type Product struct {
	shared.BaseEntity
	Code             string // unique SKU, e.g. "RB3025-001"
	Name             string
	Category         string // e.g. "Armazones", "Lentes de Contacto"
	Supplier         string
	UnitPrice        valueobject.Money
	StockOnHand      int
	ReorderThreshold int // stock level at which the product shows as low
}

// NewProduct creates a new product
func NewProduct(code, name, category, supplier string, unitPrice valueobject.Money, stockOnHand, reorderThreshold int) (*Product, error) {
	if err := validateProductCode(code); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if stockOnHand < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock on hand cannot be negative")
	}
	if reorderThreshold < 0 {
		return nil, shared.NewDomainError("INVALID_THRESHOLD", "Reorder threshold cannot be negative")
	}

	return &Product{
		BaseEntity:       shared.NewBaseEntity(),
		Code:             strings.ToUpper(code),
		Name:             name,
		Category:         category,
		Supplier:         supplier,
		UnitPrice:        unitPrice,
		StockOnHand:      stockOnHand,
		ReorderThreshold: reorderThreshold,
	}, nil
}

// Update updates the product's descriptive information
func (p *Product) Update(name, category, supplier string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = name
	p.Category = category
	p.Supplier = supplier
	p.Touch()

	return nil
}

// UpdatePrice updates the selling price
func (p *Product) UpdatePrice(price valueobject.Money) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	p.UnitPrice = price
	p.Touch()

	return nil
}

// SetReorderThreshold updates the low-stock alert level
func (p *Product) SetReorderThreshold(threshold int) error {
	if threshold < 0 {
		return shared.NewDomainError("INVALID_THRESHOLD", "Reorder threshold cannot be negative")
	}

	p.ReorderThreshold = threshold
	p.Touch()

	return nil
}

// Restock increases the stock on hand (goods received)
func (p *Product) Restock(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Restock quantity must be positive")
	}

	p.StockOnHand += quantity
	p.Touch()

	return nil
}

// DecrementStock decreases the stock on hand after a sale.
// The store-side conditional update in the repository is the final
// authority; this method guards the in-memory aggregate.
func (p *Product) DecrementStock(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Decrement quantity must be positive")
	}
	if quantity > p.StockOnHand {
		return ErrInsufficientStock
	}

	p.StockOnHand -= quantity
	p.Touch()

	return nil
}

// IsOutOfStock returns true if no units are available
func (p *Product) IsOutOfStock() bool {
	return p.StockOnHand == 0
}

// IsLowStock returns true if the stock has reached the reorder threshold
func (p *Product) IsLowStock() bool {
	return p.StockOnHand <= p.ReorderThreshold
}

// ErrInsufficientStock is returned when a decrement exceeds the available stock
var ErrInsufficientStock = shared.NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")

func validateProductCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot exceed 50 characters")
	}
	return nil
}

func validateProductName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
