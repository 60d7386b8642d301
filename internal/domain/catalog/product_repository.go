package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/optica-neyra/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence.
// Checkout code treats it as the catalog store contract: reads for
// cart pricing and stock checks, DecrementStock for committed sales.
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByCode finds a product by its SKU code
	FindByCode(ctx context.Context, code string) (*Product, error)

	// FindAll finds all products matching the filter; Search matches
	// name or code
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// FindLowStock finds products whose stock has reached their reorder threshold
	FindLowStock(ctx context.Context) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// Delete deletes a product
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// DecrementStock atomically reduces a product's stock and returns the
	// new balance. The store re-validates non-negativity: if the current
	// balance cannot support the decrement it fails with
	// ErrInsufficientStock and leaves the row unchanged.
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int) (int, error)
}
