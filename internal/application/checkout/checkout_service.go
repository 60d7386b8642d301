package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/optica-neyra/backend/internal/domain/catalog"
	"github.com/optica-neyra/backend/internal/domain/checkout"
	"github.com/optica-neyra/backend/internal/domain/partner"
	"github.com/optica-neyra/backend/internal/domain/shared/valueobject"
	"github.com/optica-neyra/backend/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CommitState names the steps of the sale commit sequence. A commit
// moves strictly forward through these states; Failed is reachable from
// any of them and the state at failure time is carried on the result.
type CommitState string

const (
	StateIdle               CommitState = "idle"
	StateValidatingPayment  CommitState = "validating_payment"
	StatePersistingCustomer CommitState = "persisting_customer"
	StatePersistingSale     CommitState = "persisting_sale"
	StateAdjustingStock     CommitState = "adjusting_stock"
	StateCommitted          CommitState = "committed"
	StateFailed             CommitState = "failed"
)

// PaymentInput is the payment confirmation captured at the register
type PaymentInput struct {
	Method         checkout.PaymentMethod
	AmountTendered valueobject.Money
}

// StockFailure reports one line whose stock decrement was rejected after
// the sale was already recorded
type StockFailure struct {
	ProductID   uuid.UUID
	ProductCode string
	Quantity    int
	Err         error
}

// CommitResult is the outcome of a commit attempt. Sale and Receipt are
// set once the ledger write succeeded, even when later stock adjustments
// failed; CustomerWarning and StockFailures carry the non-fatal
// anomalies the caller should flag.
type CommitResult struct {
	State           CommitState
	Sale            *checkout.Sale
	Receipt         checkout.Receipt
	CustomerWarning error
	StockFailures   []StockFailure
}

// CheckoutService orchestrates the commit of a cart into a recorded
// sale: payment validation, customer upsert, ledger write and per-line
// stock decrements, in that order. Each step blocks until its store call
// finishes; there is no parallel fan-out and no automatic retry. The
// caller decides whether to retry a whole commit, which re-validates
// payment against a fresh cart.
type CheckoutService struct {
	products  catalog.ProductRepository
	customers partner.CustomerRepository
	sales     checkout.SaleRepository
	resolver  *checkout.CustomerResolver
	taxRate   decimal.Decimal
	store     checkout.StoreInfo
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(
	products catalog.ProductRepository,
	customers partner.CustomerRepository,
	sales checkout.SaleRepository,
	taxRate decimal.Decimal,
	store checkout.StoreInfo,
) *CheckoutService {
	return &CheckoutService{
		products:  products,
		customers: customers,
		sales:     sales,
		resolver:  checkout.NewCustomerResolver(customers),
		taxRate:   taxRate,
		store:     store,
	}
}

// TaxRate returns the configured tax rate
func (s *CheckoutService) TaxRate() decimal.Decimal {
	return s.taxRate
}

// Totals computes the current totals breakdown for a cart
func (s *CheckoutService) Totals(cart *checkout.Cart) checkout.Totals {
	return checkout.ComputeTotals(cart, s.taxRate)
}

// LookupProduct fetches a product snapshot for cart building
func (s *CheckoutService) LookupProduct(ctx context.Context, productID uuid.UUID) (*catalog.Product, error) {
	return s.products.FindByID(ctx, productID)
}

// Commit turns the cart into a recorded sale.
//
// Validation errors (EmptyCart, InsufficientPayment) return before any
// external write and leave no partial state. A customer upsert failure
// is logged and reported on the result but never blocks the sale. A
// ledger write failure aborts with SaleWriteFailed and no stock is
// touched. Once the sale is recorded it is final: stock decrements that
// fail afterwards are reported per line and surfaced as
// ErrPartialStockAdjustment alongside a non-nil result, so callers can
// still print the receipt and route the failures to reconciliation.
// On success the cart is cleared; committing the same cart again yields
// EmptyCart.
func (s *CheckoutService) Commit(ctx context.Context, cart *checkout.Cart, customer checkout.CustomerInput, payment PaymentInput) (*CommitResult, error) {
	log := logger.FromContext(ctx)
	result := &CommitResult{State: StateIdle}

	// ValidatingPayment
	result.State = StateValidatingPayment
	if cart.IsEmpty() {
		result.State = StateFailed
		return nil, checkout.ErrEmptyCart
	}
	totals := checkout.ComputeTotals(cart, s.taxRate)
	sale, err := checkout.NewSale(cart, totals, customer, payment.Method, payment.AmountTendered)
	if err != nil {
		result.State = StateFailed
		return nil, err
	}

	// PersistingCustomer: failures here are logged and carried as a
	// warning; the register must still close the sale.
	result.State = StatePersistingCustomer
	if warn := s.persistCustomer(ctx, customer); warn != nil {
		log.Warn("customer record write failed, sale proceeds",
			zap.String("customer_name", customer.Name),
			zap.String("customer_id_number", customer.IDNumber),
			zap.Error(warn),
		)
		result.CustomerWarning = fmt.Errorf("%w: %v", checkout.ErrCustomerWriteFailed, warn)
	}

	// PersistingSale: fatal on failure, nothing has been sold.
	result.State = StatePersistingSale
	if err := s.sales.Insert(ctx, sale); err != nil {
		result.State = StateFailed
		log.Error("sale ledger write failed, commit aborted", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", checkout.ErrSaleWriteFailed, err)
	}
	result.Sale = sale

	// AdjustingStock: sequential, one product at a time. Applied
	// decrements are not rolled back; every failed line is recorded so
	// operators can reconcile manually.
	result.State = StateAdjustingStock
	for _, item := range sale.Items {
		if _, err := s.products.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			log.Error("stock decrement failed after sale was recorded",
				zap.String("sale_id", sale.ID.String()),
				zap.String("product_code", item.ProductCode),
				zap.Int("quantity", item.Quantity),
				zap.Error(err),
			)
			result.StockFailures = append(result.StockFailures, StockFailure{
				ProductID:   item.ProductID,
				ProductCode: item.ProductCode,
				Quantity:    item.Quantity,
				Err:         err,
			})
		}
	}

	// Committed
	result.State = StateCommitted
	cart.Clear()
	result.Receipt = checkout.BuildReceipt(sale, s.store)

	if len(result.StockFailures) > 0 {
		codes := make([]string, 0, len(result.StockFailures))
		for _, failure := range result.StockFailures {
			codes = append(codes, failure.ProductCode)
		}
		return result, fmt.Errorf("%w: %v", checkout.ErrPartialStockAdjustment, codes)
	}

	log.Info("sale committed",
		zap.String("sale_id", sale.ID.String()),
		zap.String("total", sale.Totals.Total.StringFixed(2)),
		zap.String("payment_method", string(sale.PaymentMethod)),
		zap.Int("items", len(sale.Items)),
	)

	return result, nil
}

// persistCustomer resolves and executes the customer upsert intent.
// Returns the underlying failure, or nil when nothing needed writing.
func (s *CheckoutService) persistCustomer(ctx context.Context, input checkout.CustomerInput) error {
	intent, err := s.resolver.Resolve(ctx, input)
	if err != nil {
		return err
	}

	switch intent.Action {
	case checkout.UpsertNone:
		return nil
	case checkout.UpsertInsert:
		record, err := partner.NewCustomer(input.Name, input.IDNumber, input.Phone, input.Email, input.Address)
		if err != nil {
			return err
		}
		return s.customers.Save(ctx, record)
	case checkout.UpsertUpdate:
		intent.Existing.MergeContact(input.Name, input.Phone, input.Email, input.Address)
		return s.customers.Save(ctx, intent.Existing)
	}

	return nil
}
