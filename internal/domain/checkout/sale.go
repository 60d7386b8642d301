package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/optica-neyra/backend/internal/domain/shared"
	"github.com/optica-neyra/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PaymentMethod enumerates the payment methods the register accepts.
// Only cash validates the tendered amount; the wallet and card methods
// are trusted at face value (no gateway integration).
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
	PaymentYape PaymentMethod = "yape"
	PaymentPlin PaymentMethod = "plin"
)

// IsValid checks if the method is a known PaymentMethod
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentYape, PaymentPlin:
		return true
	}
	return false
}

// IsCash returns true for cash payments
func (m PaymentMethod) IsCash() bool {
	return m == PaymentCash
}

// SaleItem is a line of a recorded sale. Name, code and unit price are
// snapshots; historical fidelity wins over normalization, so a later
// catalog change never rewrites a past receipt.
type SaleItem struct {
	ProductID   uuid.UUID
	ProductName string
	ProductCode string
	Quantity    int
	UnitPrice   valueobject.Money
	LineTotal   valueobject.Money
}

// Sale is an immutable record of a committed checkout. It is created
// only by a successful commit and is never mutated or deleted afterwards.
type Sale struct {
	shared.BaseEntity
	Timestamp        time.Time
	CustomerName     string // "Cliente General" for walk-in sales
	CustomerIDNumber string // empty when the sale is anonymous
	Items            []SaleItem
	Totals           Totals
	PaymentMethod    PaymentMethod
	AmountTendered   valueobject.Money
	ChangeDue        valueobject.Money
}

// WalkInCustomerName is recorded on sales without a named customer
const WalkInCustomerName = "Cliente General"

// NewSale builds the immutable sale record from a cart, its totals and
// the confirmed payment. Totals are rounded here, at the persistence
// boundary. For non-cash methods the tendered amount is coerced to the
// total and the change due is zero.
func NewSale(cart *Cart, totals Totals, customer CustomerInput, method PaymentMethod, amountTendered valueobject.Money) (*Sale, error) {
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
	}

	rounded := totals.Rounded()

	tendered := amountTendered
	change := valueobject.ZeroPEN()
	if method.IsCash() {
		short, err := tendered.LessThan(rounded.Total)
		if err != nil {
			return nil, err
		}
		if short {
			return nil, ErrInsufficientPayment
		}
		change, err = tendered.Subtract(rounded.Total)
		if err != nil {
			return nil, err
		}
		change = change.Round(2)
	} else {
		tendered = rounded.Total
	}

	name := customer.Name
	if customer.IsAnonymous() {
		name = WalkInCustomerName
	}

	lines := cart.Lines()
	items := make([]SaleItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, SaleItem{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			ProductCode: line.ProductCode,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice.Round(2),
			LineTotal:   line.LineTotal().Round(2),
		})
	}

	entity := shared.NewBaseEntity()
	return &Sale{
		BaseEntity:       entity,
		Timestamp:        entity.CreatedAt,
		CustomerName:     name,
		CustomerIDNumber: customer.IDNumber,
		Items:            items,
		Totals:           rounded,
		PaymentMethod:    method,
		AmountTendered:   tendered.Round(2),
		ChangeDue:        change,
	}, nil
}

// IsAnonymous returns true when the sale carries no customer id number
func (s *Sale) IsAnonymous() bool {
	return s.CustomerIDNumber == ""
}

// TotalUnits returns the sum of all item quantities
func (s *Sale) TotalUnits() int {
	total := 0
	for _, item := range s.Items {
		total += item.Quantity
	}
	return total
}

// TaxRatePercent returns the tax rate as a percentage, e.g. 18 for 0.18
func (s *Sale) TaxRatePercent() decimal.Decimal {
	return s.Totals.TaxRate.Mul(decimal.NewFromInt(100))
}
