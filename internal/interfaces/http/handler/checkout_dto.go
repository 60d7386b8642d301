package handler

import (
	"time"

	"github.com/google/uuid"
	checkoutapp "github.com/optica-neyra/backend/internal/application/checkout"
	"github.com/optica-neyra/backend/internal/domain/checkout"
	"github.com/shopspring/decimal"
)

// AddItemRequest adds units of a product to a cart
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// SetQuantityRequest replaces the quantity of a cart line
type SetQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// SetDiscountRequest sets the whole-cart discount percentage
type SetDiscountRequest struct {
	Percent decimal.Decimal `json:"percent"`
}

// CommitRequest confirms payment and commits a cart into a sale
type CommitRequest struct {
	Customer CommitCustomerRequest `json:"customer"`
	Payment  CommitPaymentRequest  `json:"payment" binding:"required"`
}

// CommitCustomerRequest is the optional customer captured at the register.
// An empty name records the sale as a walk-in.
type CommitCustomerRequest struct {
	Name     string `json:"name" binding:"max=200"`
	IDNumber string `json:"id_number" binding:"max=20"`
	Phone    string `json:"phone" binding:"max=50"`
	Email    string `json:"email" binding:"omitempty,email,max=200"`
	Address  string `json:"address" binding:"max=500"`
}

// CommitPaymentRequest is the confirmed payment for a commit
type CommitPaymentRequest struct {
	Method         string          `json:"method" binding:"required"`
	AmountTendered decimal.Decimal `json:"amount_tendered"`
}

// CartLineResponse is one cart line in API responses
type CartLineResponse struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductCode string    `json:"product_code"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	UnitPrice   string    `json:"unit_price"`
	LineTotal   string    `json:"line_total"`
}

// TotalsResponse is the totals breakdown for a cart or sale
type TotalsResponse struct {
	Subtotal              string `json:"subtotal"`
	DiscountPercent       string `json:"discount_percent"`
	DiscountAmount        string `json:"discount_amount"`
	SubtotalAfterDiscount string `json:"subtotal_after_discount"`
	TaxRate               string `json:"tax_rate"`
	TaxAmount             string `json:"tax_amount"`
	Total                 string `json:"total"`
}

// CartResponse is a cart session in API responses
type CartResponse struct {
	CartID          uuid.UUID          `json:"cart_id"`
	Lines           []CartLineResponse `json:"lines"`
	DiscountPercent string             `json:"discount_percent"`
	TotalUnits      int                `json:"total_units"`
	Totals          TotalsResponse     `json:"totals"`
}

// StockFailureResponse reports one line whose stock decrement failed
// after the sale was recorded
type StockFailureResponse struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductCode string    `json:"product_code"`
	Quantity    int       `json:"quantity"`
	Reason      string    `json:"reason"`
}

// CommitResponse is the outcome of a successful commit. Warnings carry
// the non-fatal anomalies (customer write failure, partial stock
// adjustments) the register should surface to the operator.
type CommitResponse struct {
	State           string                 `json:"state"`
	SaleID          uuid.UUID              `json:"sale_id"`
	Timestamp       time.Time              `json:"timestamp"`
	Receipt         checkout.Receipt       `json:"receipt"`
	ReceiptText     string                 `json:"receipt_text"`
	CustomerWarning string                 `json:"customer_warning,omitempty"`
	StockFailures   []StockFailureResponse `json:"stock_failures,omitempty"`
}

// toTotalsResponse projects a rounded totals breakdown into strings
func toTotalsResponse(t checkout.Totals) TotalsResponse {
	rounded := t.Rounded()
	return TotalsResponse{
		Subtotal:              rounded.Subtotal.StringFixed(2),
		DiscountPercent:       rounded.DiscountPercent.StringFixed(0),
		DiscountAmount:        rounded.DiscountAmount.StringFixed(2),
		SubtotalAfterDiscount: rounded.SubtotalAfterDiscount.StringFixed(2),
		TaxRate:               rounded.TaxRate.String(),
		TaxAmount:             rounded.TaxAmount.StringFixed(2),
		Total:                 rounded.Total.StringFixed(2),
	}
}

// toCartResponse projects a cart session into its API representation
func toCartResponse(cartID uuid.UUID, cart *checkout.Cart, totals checkout.Totals) CartResponse {
	lines := make([]CartLineResponse, 0, cart.LineCount())
	for _, line := range cart.Lines() {
		lines = append(lines, CartLineResponse{
			ProductID:   line.ProductID,
			ProductCode: line.ProductCode,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice.Round(2).StringFixed(2),
			LineTotal:   line.LineTotal().Round(2).StringFixed(2),
		})
	}

	return CartResponse{
		CartID:          cartID,
		Lines:           lines,
		DiscountPercent: cart.DiscountPercent().StringFixed(0),
		TotalUnits:      cart.TotalUnits(),
		Totals:          toTotalsResponse(totals),
	}
}

// toCommitResponse projects a commit result into its API representation
func toCommitResponse(result *checkoutapp.CommitResult) CommitResponse {
	resp := CommitResponse{
		State:       string(result.State),
		SaleID:      result.Sale.ID,
		Timestamp:   result.Sale.Timestamp,
		Receipt:     result.Receipt,
		ReceiptText: result.Receipt.Render(),
	}
	if result.CustomerWarning != nil {
		resp.CustomerWarning = result.CustomerWarning.Error()
	}
	for _, failure := range result.StockFailures {
		resp.StockFailures = append(resp.StockFailures, StockFailureResponse{
			ProductID:   failure.ProductID,
			ProductCode: failure.ProductCode,
			Quantity:    failure.Quantity,
			Reason:      failure.Err.Error(),
		})
	}
	return resp
}
