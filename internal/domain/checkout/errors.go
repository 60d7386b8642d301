package checkout

import "github.com/optica-neyra/backend/internal/domain/shared"

// Checkout error kinds. Validation errors (empty cart, stock, payment)
// are returned before any external write happens; the write-phase errors
// carry the commit contract described on CheckoutService.Commit.
var (
	// ErrEmptyCart is returned when a commit or mutation requires a
	// non-empty cart
	ErrEmptyCart = shared.NewDomainError("EMPTY_CART", "Cart has no items")

	// ErrNoStock is returned when adding a product with zero stock on hand
	ErrNoStock = shared.NewDomainError("NO_STOCK", "Product has no stock available")

	// ErrInsufficientStock is returned when a requested quantity exceeds
	// the product's stock on hand
	ErrInsufficientStock = shared.NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")

	// ErrInsufficientPayment is returned when a cash payment tenders less
	// than the sale total
	ErrInsufficientPayment = shared.NewDomainError("INSUFFICIENT_PAYMENT", "Amount tendered is less than the total")

	// ErrSaleWriteFailed is returned when the ledger write fails; the
	// commit aborts and no stock is touched
	ErrSaleWriteFailed = shared.NewDomainError("SALE_WRITE_FAILED", "Failed to record the sale")

	// ErrCustomerWriteFailed marks a non-fatal customer upsert failure;
	// the sale still proceeds
	ErrCustomerWriteFailed = shared.NewDomainError("CUSTOMER_WRITE_FAILED", "Failed to save the customer record")

	// ErrPartialStockAdjustment is returned when some stock decrements
	// failed after the sale was recorded; operators must reconcile the
	// reported products manually
	ErrPartialStockAdjustment = shared.NewDomainError("PARTIAL_STOCK_ADJUSTMENT", "Sale recorded but some stock adjustments failed")
)
