package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
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

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCode(ctx context.Context, code string) (*catalog.Product, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindLowStock(ctx context.Context) ([]catalog.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) (int, error) {
	args := m.Called(ctx, id, quantity)
	return args.Int(0), args.Error(1)
}

// MockCustomerRepository is a mock implementation of partner.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByIDNumber(ctx context.Context, idNumber string) (*partner.Customer, error) {
	args := m.Called(ctx, idNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockSaleRepository is a mock implementation of checkout.SaleRepository
type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) Insert(ctx context.Context, sale *checkout.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*checkout.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByCustomerIDNumber(ctx context.Context, idNumber string) ([]checkout.Sale, error) {
	args := m.Called(ctx, idNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]checkout.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindBetween(ctx context.Context, from, to time.Time) ([]checkout.Sale, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]checkout.Sale), args.Error(1)
}

var (
	testTaxRate = decimal.NewFromFloat(0.18)
	testStore   = checkout.StoreInfo{Name: "Óptica Neyra", City: "Huánuco, Perú"}
)

func newService(products *MockProductRepository, customers *MockCustomerRepository, sales *MockSaleRepository) *CheckoutService {
	return NewCheckoutService(products, customers, sales, testTaxRate, testStore)
}

func newProduct(t *testing.T, code string, price float64, stock int) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(code, "Producto "+code, "Armazones", "GMO", valueobject.NewMoneyPENFromFloat(price), stock, 1)
	require.NoError(t, err)
	return p
}

func cartWith(t *testing.T, products ...*catalog.Product) *checkout.Cart {
	t.Helper()
	cart := checkout.NewCart()
	for _, p := range products {
		require.NoError(t, cart.AddItem(p, 2))
	}
	return cart
}

func cashFor(amount float64) PaymentInput {
	return PaymentInput{Method: checkout.PaymentCash, AmountTendered: valueobject.NewMoneyPENFromFloat(amount)}
}

func TestCheckoutService_Commit_Validation(t *testing.T) {
	ctx := context.Background()

	t.Run("empty cart fails before any write", func(t *testing.T) {
		products := new(MockProductRepository)
		customers := new(MockCustomerRepository)
		sales := new(MockSaleRepository)
		svc := newService(products, customers, sales)

		_, err := svc.Commit(ctx, checkout.NewCart(), checkout.CustomerInput{}, cashFor(100))

		assert.ErrorIs(t, err, checkout.ErrEmptyCart)
		sales.AssertNotCalled(t, "Insert")
		customers.AssertNotCalled(t, "Save")
		products.AssertNotCalled(t, "DecrementStock")
	})

	t.Run("insufficient cash fails before any write", func(t *testing.T) {
		products := new(MockProductRepository)
		customers := new(MockCustomerRepository)
		sales := new(MockSaleRepository)
		svc := newService(products, customers, sales)

		cart := cartWith(t, newProduct(t, "TR-1", 100.00, 10))
		// total is 236.00 (no discount, 18% tax)
		_, err := svc.Commit(ctx, cart, checkout.CustomerInput{}, cashFor(200))

		assert.ErrorIs(t, err, checkout.ErrInsufficientPayment)
		sales.AssertNotCalled(t, "Insert")
		assert.False(t, cart.IsEmpty())
	})
}

func TestCheckoutService_Commit_Success(t *testing.T) {
	ctx := context.Background()

	t.Run("anonymous cash sale commits, clears cart, produces receipt", func(t *testing.T) {
		products := new(MockProductRepository)
		customers := new(MockCustomerRepository)
		sales := new(MockSaleRepository)
		svc := newService(products, customers, sales)

		p := newProduct(t, "TR-1", 100.00, 10)
		cart := cartWith(t, p)
		sales.On("Insert", ctx, mock.AnythingOfType("*checkout.Sale")).Return(nil)
		products.On("DecrementStock", ctx, p.ID, 2).Return(8, nil)

		result, err := svc.Commit(ctx, cart, checkout.CustomerInput{}, cashFor(250))

		require.NoError(t, err)
		assert.Equal(t, StateCommitted, result.State)
		assert.Equal(t, "236.00", result.Sale.Totals.Total.StringFixed(2))
		assert.Equal(t, "14.00", result.Sale.ChangeDue.StringFixed(2))
		assert.Equal(t, checkout.WalkInCustomerName, result.Receipt.CustomerName)
		assert.True(t, cart.IsEmpty())
		customers.AssertNotCalled(t, "Save")
		products.AssertExpectations(t)
		sales.AssertExpectations(t)
	})

	t.Run("second commit on the same cart is EmptyCart", func(t *testing.T) {
		products := new(MockProductRepository)
		customers := new(MockCustomerRepository)
		sales := new(MockSaleRepository)
		svc := newService(products, customers, sales)

		p := newProduct(t, "TR-1", 100.00, 10)
		cart := cartWith(t, p)
		sales.On("Insert", ctx, mock.Anything).Return(nil)
		products.On("DecrementStock", ctx, p.ID, 2).Return(8, nil)

		_, err := svc.Commit(ctx, cart, checkout.CustomerInput{}, cashFor(300))
		require.NoError(t, err)

		_, err = svc.Commit(ctx, cart, checkout.CustomerInput{}, cashFor(300))
		assert.ErrorIs(t, err, checkout.ErrEmptyCart)
		sales.AssertNumberOfCalls(t, "Insert", 1)
	})

	t.Run("new customer is inserted before the ledger write", func(t *testing.T) {
		products := new(MockProductRepository)
		customers := new(MockCustomerRepository)
		sales := new(MockSaleRepository)
		svc := newService(products, customers, sales)

		p := newProduct(t, "TR-1", 100.00, 10)
		cart := cartWith(t, p)
		customers.On("FindByIDNumber", ctx, "45896321").Return(nil, shared.ErrNotFound)
		customers.On("Save", ctx, mock.AnythingOfType("*partner.Customer")).Return(nil)
		sales.On("Insert", ctx, mock.Anything).Return(nil)
		products.On("DecrementStock", ctx, p.ID, 2).Return(8, nil)

		input := checkout.CustomerInput{Name: "María López", IDNumber: "45896321", Phone: "987654321"}
		result, err := svc.Commit(ctx, cart, input, PaymentInput{Method: checkout.PaymentYape})

		require.NoError(t, err)
		assert.Nil(t, result.CustomerWarning)
		assert.Equal(t, "45896321", result.Sale.CustomerIDNumber)
		customers.AssertExpectations(t)

		saved := customers.Calls[1].Arguments.Get(1).(*partner.Customer)
		assert.Equal(t, "María López", saved.Name)
		assert.Equal(t, "987654321", saved.Phone)
	})

	t.Run("known id number merges contact fields instead of inserting", func(t *testing.T) {
		products := new(MockProductRepository)
		customers := new(MockCustomerRepository)
		sales := new(MockSaleRepository)
		svc := newService(products, customers, sales)

		existing, err := partner.NewCustomer("María López", "45896321", "987654321", "maria@example.com", "")
		require.NoError(t, err)

		p := newProduct(t, "TR-1", 100.00, 10)
		cart := cartWith(t, p)
		customers.On("FindByIDNumber", ctx, "45896321").Return(existing, nil)
		customers.On("Save", ctx, existing).Return(nil)
		sales.On("Insert", ctx, mock.Anything).Return(nil)
		products.On("DecrementStock", ctx, p.ID, 2).Return(8, nil)

		input := checkout.CustomerInput{Name: "María López", IDNumber: "45896321", Phone: "911111111"}
		_, err = svc.Commit(ctx, cart, input, PaymentInput{Method: checkout.PaymentCard})

		require.NoError(t, err)
		assert.Equal(t, "911111111", existing.Phone)
		assert.Equal(t, "maria@example.com", existing.Email)
		customers.AssertExpectations(t)
	})
}

func TestCheckoutService_Commit_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("customer write failure is non-fatal", func(t *testing.T) {
		products := new(MockProductRepository)
		customers := new(MockCustomerRepository)
		sales := new(MockSaleRepository)
		svc := newService(products, customers, sales)

		p := newProduct(t, "TR-1", 100.00, 10)
		cart := cartWith(t, p)
		customers.On("FindByIDNumber", ctx, "45896321").Return(nil, shared.ErrNotFound)
		customers.On("Save", ctx, mock.Anything).Return(errors.New("directory unavailable"))
		sales.On("Insert", ctx, mock.Anything).Return(nil)
		products.On("DecrementStock", ctx, p.ID, 2).Return(8, nil)

		input := checkout.CustomerInput{Name: "María López", IDNumber: "45896321"}
		result, err := svc.Commit(ctx, cart, input, cashFor(300))

		require.NoError(t, err)
		require.NotNil(t, result.CustomerWarning)
		assert.ErrorIs(t, result.CustomerWarning, checkout.ErrCustomerWriteFailed)
		assert.NotNil(t, result.Sale)
		assert.True(t, cart.IsEmpty())
	})

	t.Run("losing the id number insert race is non-fatal", func(t *testing.T) {
		products := new(MockProductRepository)
		customers := new(MockCustomerRepository)
		sales := new(MockSaleRepository)
		svc := newService(products, customers, sales)

		p := newProduct(t, "TR-1", 100.00, 10)
		cart := cartWith(t, p)
		// Another register inserted the same document between the lookup
		// and the write; the unique index rejects this insert.
		customers.On("FindByIDNumber", ctx, "45896321").Return(nil, shared.ErrNotFound)
		customers.On("Save", ctx, mock.Anything).Return(shared.ErrAlreadyExists)
		sales.On("Insert", ctx, mock.Anything).Return(nil)
		products.On("DecrementStock", ctx, p.ID, 2).Return(8, nil)

		input := checkout.CustomerInput{Name: "María López", IDNumber: "45896321"}
		result, err := svc.Commit(ctx, cart, input, cashFor(300))

		require.NoError(t, err)
		require.NotNil(t, result.CustomerWarning)
		assert.ErrorIs(t, result.CustomerWarning, checkout.ErrCustomerWriteFailed)
		assert.Equal(t, StateCommitted, result.State)
		assert.NotNil(t, result.Sale)
	})

	t.Run("ledger write failure aborts with no stock touched", func(t *testing.T) {
		products := new(MockProductRepository)
		customers := new(MockCustomerRepository)
		sales := new(MockSaleRepository)
		svc := newService(products, customers, sales)

		p := newProduct(t, "TR-1", 100.00, 10)
		cart := cartWith(t, p)
		sales.On("Insert", ctx, mock.Anything).Return(errors.New("ledger down"))

		_, err := svc.Commit(ctx, cart, checkout.CustomerInput{}, cashFor(300))

		assert.ErrorIs(t, err, checkout.ErrSaleWriteFailed)
		products.AssertNotCalled(t, "DecrementStock")
		assert.False(t, cart.IsEmpty())
	})

	t.Run("partial stock failure surfaces distinctly with the sale recorded", func(t *testing.T) {
		products := new(MockProductRepository)
		customers := new(MockCustomerRepository)
		sales := new(MockSaleRepository)
		svc := newService(products, customers, sales)

		ok := newProduct(t, "TR-1", 100.00, 10)
		depleted := newProduct(t, "ACV-1", 119.90, 3)
		cart := cartWith(t, ok, depleted)
		sales.On("Insert", ctx, mock.Anything).Return(nil)
		products.On("DecrementStock", ctx, ok.ID, 2).Return(8, nil)
		// concurrent sale drained the balance between cart build and commit
		products.On("DecrementStock", ctx, depleted.ID, 2).Return(0, catalog.ErrInsufficientStock)

		result, err := svc.Commit(ctx, cart, checkout.CustomerInput{}, PaymentInput{Method: checkout.PaymentCard})

		require.Error(t, err)
		assert.ErrorIs(t, err, checkout.ErrPartialStockAdjustment)
		require.NotNil(t, result)
		assert.NotNil(t, result.Sale)
		require.Len(t, result.StockFailures, 1)
		assert.Equal(t, depleted.ID, result.StockFailures[0].ProductID)
		assert.ErrorIs(t, result.StockFailures[0].Err, catalog.ErrInsufficientStock)
		// the sale is final: a receipt still exists for the customer
		assert.NotEmpty(t, result.Receipt.Total)
		assert.True(t, cart.IsEmpty())
	})
}

func TestCheckoutService_Totals(t *testing.T) {
	svc := newService(new(MockProductRepository), new(MockCustomerRepository), new(MockSaleRepository))

	cart := cartWith(t, newProduct(t, "TR-1", 100.00, 10))
	cart.SetDiscount(decimal.NewFromInt(10))

	totals := svc.Totals(cart).Rounded()
	assert.Equal(t, "212.40", totals.Total.StringFixed(2))
	assert.True(t, svc.TaxRate().Equal(testTaxRate))
}
