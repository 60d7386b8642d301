package checkout

import (
	"github.com/google/uuid"
	"github.com/optica-neyra/backend/internal/domain/catalog"
	"github.com/optica-neyra/backend/internal/domain/shared"
	"github.com/optica-neyra/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CartLine is one product entry in a cart. UnitPrice and the product
// name/code are snapshots taken when the product is first added; they are
// never refreshed implicitly, so a price change in the catalog does not
// reprice an open cart. StockOnHand is the catalog balance observed at
// that same moment and bounds quantity mutations.
type CartLine struct {
	ProductID   uuid.UUID
	ProductName string
	ProductCode string
	Quantity    int
	UnitPrice   valueobject.Money
	StockOnHand int
}

// LineTotal returns quantity times the snapshotted unit price
func (l CartLine) LineTotal() valueobject.Money {
	return l.UnitPrice.MultiplyByInt(int64(l.Quantity))
}

// Cart is the mutable pre-sale collection of priced line items for one
// checkout session. Lines are unique by product id and kept in insertion
// order. A Cart is exclusively owned by its session: it is not safe for
// concurrent mutation and the host must serialize access.
type Cart struct {
	lines           []CartLine
	discountPercent decimal.Decimal
}

// NewCart creates an empty cart with no discount
func NewCart() *Cart {
	return &Cart{discountPercent: decimal.Zero}
}

// AddItem adds quantity units of the product to the cart.
// Fails with ErrNoStock when the product has zero stock and is not yet in
// the cart, and with ErrInsufficientStock when the resulting quantity
// would exceed the stock observed on the product snapshot.
func (c *Cart) AddItem(product *catalog.Product, quantity int) error {
	if product == nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product cannot be nil")
	}
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	for idx := range c.lines {
		if c.lines[idx].ProductID == product.ID {
			if c.lines[idx].Quantity+quantity > c.lines[idx].StockOnHand {
				return ErrInsufficientStock
			}
			c.lines[idx].Quantity += quantity
			return nil
		}
	}

	if product.IsOutOfStock() {
		return ErrNoStock
	}
	if quantity > product.StockOnHand {
		return ErrInsufficientStock
	}

	c.lines = append(c.lines, CartLine{
		ProductID:   product.ID,
		ProductName: product.Name,
		ProductCode: product.Code,
		Quantity:    quantity,
		UnitPrice:   product.UnitPrice,
		StockOnHand: product.StockOnHand,
	})

	return nil
}

// SetQuantity replaces a line's quantity. A quantity of zero or less
// removes the line; a quantity above the stock snapshot fails with
// ErrInsufficientStock and leaves the line unchanged.
func (c *Cart) SetQuantity(productID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		c.RemoveItem(productID)
		return nil
	}

	for idx := range c.lines {
		if c.lines[idx].ProductID == productID {
			if quantity > c.lines[idx].StockOnHand {
				return ErrInsufficientStock
			}
			c.lines[idx].Quantity = quantity
			return nil
		}
	}

	return shared.ErrNotFound
}

// RemoveItem removes a line from the cart; idempotent, absent lines are
// not an error
func (c *Cart) RemoveItem(productID uuid.UUID) {
	for idx := range c.lines {
		if c.lines[idx].ProductID == productID {
			c.lines = append(c.lines[:idx], c.lines[idx+1:]...)
			return
		}
	}
}

// SetDiscount sets the order-level discount percent, silently clamped to
// [0, 100]. Clamping rather than failing is a deliberate register-UX
// policy carried over from the original system.
func (c *Cart) SetDiscount(percent decimal.Decimal) {
	switch {
	case percent.IsNegative():
		c.discountPercent = decimal.Zero
	case percent.GreaterThan(decimal.NewFromInt(100)):
		c.discountPercent = decimal.NewFromInt(100)
	default:
		c.discountPercent = percent
	}
}

// Clear empties all lines and resets the discount to zero
func (c *Cart) Clear() {
	c.lines = nil
	c.discountPercent = decimal.Zero
}

// Lines returns a copy of the cart lines in insertion order
func (c *Cart) Lines() []CartLine {
	lines := make([]CartLine, len(c.lines))
	copy(lines, c.lines)
	return lines
}

// Line returns the line for a product id, or nil if absent
func (c *Cart) Line(productID uuid.UUID) *CartLine {
	for idx := range c.lines {
		if c.lines[idx].ProductID == productID {
			line := c.lines[idx]
			return &line
		}
	}
	return nil
}

// DiscountPercent returns the current discount percent
func (c *Cart) DiscountPercent() decimal.Decimal {
	return c.discountPercent
}

// IsEmpty returns true if the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// LineCount returns the number of distinct product lines
func (c *Cart) LineCount() int {
	return len(c.lines)
}

// TotalUnits returns the sum of all line quantities
func (c *Cart) TotalUnits() int {
	total := 0
	for _, line := range c.lines {
		total += line.Quantity
	}
	return total
}
