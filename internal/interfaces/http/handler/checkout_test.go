package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	checkoutapp "github.com/optica-neyra/backend/internal/application/checkout"
	"github.com/optica-neyra/backend/internal/domain/catalog"
	"github.com/optica-neyra/backend/internal/domain/checkout"
	"github.com/optica-neyra/backend/internal/domain/partner"
	"github.com/optica-neyra/backend/internal/domain/shared"
	"github.com/optica-neyra/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *mockProductRepo) FindByCode(ctx context.Context, code string) (*catalog.Product, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *mockProductRepo) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *mockProductRepo) FindLowStock(ctx context.Context) ([]catalog.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *mockProductRepo) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockProductRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockProductRepo) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) (int, error) {
	args := m.Called(ctx, id, quantity)
	return args.Int(0), args.Error(1)
}

type mockCustomerRepo struct {
	mock.Mock
}

func (m *mockCustomerRepo) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *mockCustomerRepo) FindByIDNumber(ctx context.Context, idNumber string) (*partner.Customer, error) {
	args := m.Called(ctx, idNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *mockCustomerRepo) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *mockCustomerRepo) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *mockCustomerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockCustomerRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

type mockSaleRepo struct {
	mock.Mock
}

func (m *mockSaleRepo) Insert(ctx context.Context, sale *checkout.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *mockSaleRepo) FindByID(ctx context.Context, id uuid.UUID) (*checkout.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.Sale), args.Error(1)
}

func (m *mockSaleRepo) FindByCustomerIDNumber(ctx context.Context, idNumber string) ([]checkout.Sale, error) {
	args := m.Called(ctx, idNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]checkout.Sale), args.Error(1)
}

func (m *mockSaleRepo) FindBetween(ctx context.Context, from, to time.Time) ([]checkout.Sale, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]checkout.Sale), args.Error(1)
}

type checkoutFixture struct {
	router    *gin.Engine
	carts     *checkoutapp.CartStore
	products  *mockProductRepo
	customers *mockCustomerRepo
	sales     *mockSaleRepo
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()

	products := new(mockProductRepo)
	customers := new(mockCustomerRepo)
	sales := new(mockSaleRepo)

	service := checkoutapp.NewCheckoutService(
		products, customers, sales,
		decimal.NewFromFloat(0.18),
		checkout.StoreInfo{Name: "Óptica Neyra", City: "Huánuco, Perú"},
	)
	carts := checkoutapp.NewCartStore()
	h := NewCheckoutHandler(carts, service)

	engine := gin.New()
	api := engine.Group("/api/v1/checkout")
	api.POST("/carts", h.CreateCart)
	api.GET("/carts/:id", h.GetCart)
	api.DELETE("/carts/:id", h.DiscardCart)
	api.POST("/carts/:id/items", h.AddItem)
	api.PUT("/carts/:id/items/:product_id", h.SetQuantity)
	api.DELETE("/carts/:id/items/:product_id", h.RemoveItem)
	api.PUT("/carts/:id/discount", h.SetDiscount)
	api.GET("/carts/:id/totals", h.GetTotals)
	api.POST("/carts/:id/commit", h.Commit)

	return &checkoutFixture{
		router:    engine,
		carts:     carts,
		products:  products,
		customers: customers,
		sales:     sales,
	}
}

func (f *checkoutFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *checkoutFixture) createCart(t *testing.T) uuid.UUID {
	t.Helper()

	w := f.do(t, http.MethodPost, "/api/v1/checkout/carts", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data CartResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data.CartID
}

func frameProduct(t *testing.T) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(
		"TR-5521", "Montura Ray-Ban Wayfarer", "Monturas", "Luxottica",
		valueobject.NewMoneyPEN(decimal.NewFromInt(100)), 10, 3,
	)
	require.NoError(t, err)
	return product
}

func TestCheckoutHandler_CreateCart(t *testing.T) {
	f := newCheckoutFixture(t)

	w := f.do(t, http.MethodPost, "/api/v1/checkout/carts", nil)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success bool         `json:"success"`
		Data    CartResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEqual(t, uuid.Nil, resp.Data.CartID)
	assert.Empty(t, resp.Data.Lines)
	assert.Equal(t, "0.00", resp.Data.Totals.Total)
	assert.Equal(t, 1, f.carts.Len())
}

func TestCheckoutHandler_GetCart_Unknown(t *testing.T) {
	f := newCheckoutFixture(t)

	w := f.do(t, http.MethodGet, "/api/v1/checkout/carts/"+uuid.NewString(), nil)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckoutHandler_AddItem(t *testing.T) {
	f := newCheckoutFixture(t)
	cartID := f.createCart(t)

	product := frameProduct(t)
	f.products.On("FindByID", mock.Anything, product.ID).Return(product, nil)

	w := f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/checkout/carts/%s/items", cartID), AddItemRequest{
		ProductID: product.ID,
		Quantity:  2,
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data CartResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Lines, 1)
	assert.Equal(t, "TR-5521", resp.Data.Lines[0].ProductCode)
	assert.Equal(t, 2, resp.Data.Lines[0].Quantity)
	assert.Equal(t, "200.00", resp.Data.Lines[0].LineTotal)
	assert.Equal(t, "200.00", resp.Data.Totals.Subtotal)
	assert.Equal(t, "36.00", resp.Data.Totals.TaxAmount)
	assert.Equal(t, "236.00", resp.Data.Totals.Total)
}

func TestCheckoutHandler_AddItem_UnknownProduct(t *testing.T) {
	f := newCheckoutFixture(t)
	cartID := f.createCart(t)

	productID := uuid.New()
	f.products.On("FindByID", mock.Anything, productID).Return(nil, shared.ErrNotFound)

	w := f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/checkout/carts/%s/items", cartID), AddItemRequest{
		ProductID: productID,
		Quantity:  1,
	})

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckoutHandler_AddItem_ExceedsStock(t *testing.T) {
	f := newCheckoutFixture(t)
	cartID := f.createCart(t)

	product := frameProduct(t)
	f.products.On("FindByID", mock.Anything, product.ID).Return(product, nil)

	w := f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/checkout/carts/%s/items", cartID), AddItemRequest{
		ProductID: product.ID,
		Quantity:  11,
	})

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ERR_INSUFFICIENT_STOCK", resp.Error.Code)
}

func TestCheckoutHandler_Discount(t *testing.T) {
	f := newCheckoutFixture(t)
	cartID := f.createCart(t)

	product := frameProduct(t)
	f.products.On("FindByID", mock.Anything, product.ID).Return(product, nil)

	f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/checkout/carts/%s/items", cartID), AddItemRequest{
		ProductID: product.ID,
		Quantity:  2,
	})

	w := f.do(t, http.MethodPut, fmt.Sprintf("/api/v1/checkout/carts/%s/discount", cartID), SetDiscountRequest{
		Percent: decimal.NewFromInt(10),
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data CartResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "10", resp.Data.DiscountPercent)
	assert.Equal(t, "20.00", resp.Data.Totals.DiscountAmount)
	assert.Equal(t, "212.40", resp.Data.Totals.Total)
}

func TestCheckoutHandler_Commit_WalkInCash(t *testing.T) {
	f := newCheckoutFixture(t)
	cartID := f.createCart(t)

	product := frameProduct(t)
	f.products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	f.products.On("DecrementStock", mock.Anything, product.ID, 2).Return(8, nil)
	f.sales.On("Insert", mock.Anything, mock.AnythingOfType("*checkout.Sale")).Return(nil)

	f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/checkout/carts/%s/items", cartID), AddItemRequest{
		ProductID: product.ID,
		Quantity:  2,
	})

	w := f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/checkout/carts/%s/commit", cartID), CommitRequest{
		Payment: CommitPaymentRequest{
			Method:         "cash",
			AmountTendered: decimal.NewFromInt(250),
		},
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data CommitResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "committed", resp.Data.State)
	assert.NotEqual(t, uuid.Nil, resp.Data.SaleID)
	assert.Equal(t, checkout.WalkInCustomerName, resp.Data.Receipt.CustomerName)
	assert.Equal(t, "236.00", resp.Data.Receipt.Total)
	assert.Equal(t, "14.00", resp.Data.Receipt.ChangeDue)
	assert.Contains(t, resp.Data.ReceiptText, "Óptica Neyra")
	assert.Empty(t, resp.Data.StockFailures)

	// The session is gone once the sale is recorded
	assert.Equal(t, 0, f.carts.Len())
	f.sales.AssertExpectations(t)
	f.products.AssertExpectations(t)
}

func TestCheckoutHandler_Commit_InsufficientCash(t *testing.T) {
	f := newCheckoutFixture(t)
	cartID := f.createCart(t)

	product := frameProduct(t)
	f.products.On("FindByID", mock.Anything, product.ID).Return(product, nil)

	f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/checkout/carts/%s/items", cartID), AddItemRequest{
		ProductID: product.ID,
		Quantity:  2,
	})

	w := f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/checkout/carts/%s/commit", cartID), CommitRequest{
		Payment: CommitPaymentRequest{
			Method:         "cash",
			AmountTendered: decimal.NewFromInt(200),
		},
	})

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ERR_INSUFFICIENT_PAYMENT", resp.Error.Code)

	// Failed validation keeps the session alive for a corrected retry
	assert.Equal(t, 1, f.carts.Len())
	f.sales.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestCheckoutHandler_Commit_EmptyCart(t *testing.T) {
	f := newCheckoutFixture(t)
	cartID := f.createCart(t)

	w := f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/checkout/carts/%s/commit", cartID), CommitRequest{
		Payment: CommitPaymentRequest{
			Method:         "card",
			AmountTendered: decimal.Zero,
		},
	})

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ERR_EMPTY_CART", resp.Error.Code)
}

func TestCheckoutHandler_Commit_UnknownPaymentMethod(t *testing.T) {
	f := newCheckoutFixture(t)
	cartID := f.createCart(t)

	w := f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/checkout/carts/%s/commit", cartID), CommitRequest{
		Payment: CommitPaymentRequest{
			Method:         "cheque",
			AmountTendered: decimal.NewFromInt(100),
		},
	})

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ERR_INVALID_PAYMENT_METHOD", resp.Error.Code)
}

func TestCheckoutHandler_Commit_PartialStockAdjustment(t *testing.T) {
	f := newCheckoutFixture(t)
	cartID := f.createCart(t)

	product := frameProduct(t)
	f.products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	f.products.On("DecrementStock", mock.Anything, product.ID, 2).Return(0, catalog.ErrInsufficientStock)
	f.sales.On("Insert", mock.Anything, mock.AnythingOfType("*checkout.Sale")).Return(nil)

	f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/checkout/carts/%s/items", cartID), AddItemRequest{
		ProductID: product.ID,
		Quantity:  2,
	})

	w := f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/checkout/carts/%s/commit", cartID), CommitRequest{
		Payment: CommitPaymentRequest{
			Method:         "yape",
			AmountTendered: decimal.Zero,
		},
	})

	// The sale is final even though stock reconciliation is pending
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data CommitResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.StockFailures, 1)
	assert.Equal(t, "TR-5521", resp.Data.StockFailures[0].ProductCode)
	assert.Equal(t, 2, resp.Data.StockFailures[0].Quantity)
	assert.NotEmpty(t, resp.Data.ReceiptText)
	assert.Equal(t, 0, f.carts.Len())
}

func TestCheckoutHandler_RemoveItemAndDiscard(t *testing.T) {
	f := newCheckoutFixture(t)
	cartID := f.createCart(t)

	product := frameProduct(t)
	f.products.On("FindByID", mock.Anything, product.ID).Return(product, nil)

	f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/checkout/carts/%s/items", cartID), AddItemRequest{
		ProductID: product.ID,
		Quantity:  1,
	})

	w := f.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/checkout/carts/%s/items/%s", cartID, product.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data CartResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data.Lines)

	w = f.do(t, http.MethodDelete, "/api/v1/checkout/carts/"+cartID.String(), nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, f.carts.Len())
}
