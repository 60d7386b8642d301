package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	checkoutapp "github.com/optica-neyra/backend/internal/application/checkout"
	"github.com/optica-neyra/backend/internal/domain/checkout"
	"github.com/optica-neyra/backend/internal/domain/shared/valueobject"
	"github.com/optica-neyra/backend/internal/interfaces/http/dto"
	"github.com/optica-neyra/backend/internal/interfaces/http/middleware"
)

// CheckoutHandler handles cart session and sale commit API endpoints.
// Carts live in the in-memory store; a cart discarded before commit
// leaves no trace.
type CheckoutHandler struct {
	BaseHandler
	carts           *checkoutapp.CartStore
	checkoutService *checkoutapp.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(carts *checkoutapp.CartStore, checkoutService *checkoutapp.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		carts:           carts,
		checkoutService: checkoutService,
	}
}

// CreateCart handles POST /checkout/carts
func (h *CheckoutHandler) CreateCart(c *gin.Context) {
	session := h.carts.Create()

	var resp CartResponse
	_ = session.WithCart(func(cart *checkout.Cart) error {
		resp = toCartResponse(session.ID, cart, h.checkoutService.Totals(cart))
		return nil
	})

	h.Created(c, resp)
}

// GetCart handles GET /checkout/carts/:id
func (h *CheckoutHandler) GetCart(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var resp CartResponse
	_ = session.WithCart(func(cart *checkout.Cart) error {
		resp = toCartResponse(session.ID, cart, h.checkoutService.Totals(cart))
		return nil
	})

	h.Success(c, resp)
}

// DiscardCart handles DELETE /checkout/carts/:id
func (h *CheckoutHandler) DiscardCart(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	h.carts.Remove(session.ID)
	h.NoContent(c)
}

// AddItem handles POST /checkout/carts/:id/items
func (h *CheckoutHandler) AddItem(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	product, err := h.checkoutService.LookupProduct(c.Request.Context(), req.ProductID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var resp CartResponse
	err = session.WithCart(func(cart *checkout.Cart) error {
		if err := cart.AddItem(product, req.Quantity); err != nil {
			return err
		}
		resp = toCartResponse(session.ID, cart, h.checkoutService.Totals(cart))
		return nil
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// SetQuantity handles PUT /checkout/carts/:id/items/:product_id
func (h *CheckoutHandler) SetQuantity(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	var resp CartResponse
	err = session.WithCart(func(cart *checkout.Cart) error {
		if err := cart.SetQuantity(productID, req.Quantity); err != nil {
			return err
		}
		resp = toCartResponse(session.ID, cart, h.checkoutService.Totals(cart))
		return nil
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// RemoveItem handles DELETE /checkout/carts/:id/items/:product_id
func (h *CheckoutHandler) RemoveItem(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var resp CartResponse
	_ = session.WithCart(func(cart *checkout.Cart) error {
		cart.RemoveItem(productID)
		resp = toCartResponse(session.ID, cart, h.checkoutService.Totals(cart))
		return nil
	})

	h.Success(c, resp)
}

// SetDiscount handles PUT /checkout/carts/:id/discount
func (h *CheckoutHandler) SetDiscount(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req SetDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	var resp CartResponse
	_ = session.WithCart(func(cart *checkout.Cart) error {
		cart.SetDiscount(req.Percent)
		resp = toCartResponse(session.ID, cart, h.checkoutService.Totals(cart))
		return nil
	})

	h.Success(c, resp)
}

// GetTotals handles GET /checkout/carts/:id/totals
func (h *CheckoutHandler) GetTotals(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var resp TotalsResponse
	_ = session.WithCart(func(cart *checkout.Cart) error {
		resp = toTotalsResponse(h.checkoutService.Totals(cart))
		return nil
	})

	h.Success(c, resp)
}

// Commit handles POST /checkout/carts/:id/commit.
//
// A commit that records the sale but fails some stock decrements still
// answers 201: the sale is final and the receipt must print. The failed
// lines are carried in stock_failures for manual reconciliation. The
// session is removed once the sale is recorded.
func (h *CheckoutHandler) Commit(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req CommitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	method := checkout.PaymentMethod(req.Payment.Method)
	if !method.IsValid() {
		h.ErrorWithCode(c, dto.ErrCodeInvalidPaymentMethod, "Unknown payment method: "+req.Payment.Method)
		return
	}

	customer := checkout.CustomerInput{
		Name:     req.Customer.Name,
		IDNumber: req.Customer.IDNumber,
		Phone:    req.Customer.Phone,
		Email:    req.Customer.Email,
		Address:  req.Customer.Address,
	}
	payment := checkoutapp.PaymentInput{
		Method:         method,
		AmountTendered: valueobject.NewMoneyPEN(req.Payment.AmountTendered),
	}

	var result *checkoutapp.CommitResult
	err := session.WithCart(func(cart *checkout.Cart) error {
		var commitErr error
		result, commitErr = h.checkoutService.Commit(c.Request.Context(), cart, customer, payment)
		return commitErr
	})

	if err != nil && !errors.Is(err, checkout.ErrPartialStockAdjustment) {
		h.HandleError(c, err)
		return
	}

	h.carts.Remove(session.ID)
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(toCommitResponse(result)))
}

// session resolves the :id path parameter to an open cart session,
// writing the error response itself when it cannot
func (h *CheckoutHandler) session(c *gin.Context) (*checkoutapp.CartSession, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid cart ID format")
		return nil, false
	}

	session, err := h.carts.Get(id)
	if err != nil {
		h.NotFound(c, "Cart session not found")
		return nil, false
	}
	return session, true
}
