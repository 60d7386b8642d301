package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/optica-neyra/backend/internal/domain/shared"
)

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// FindByID finds a customer by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindByIDNumber finds a customer by exact id-number match.
	// Returns shared.ErrNotFound when no record carries the id number.
	FindByIDNumber(ctx context.Context, idNumber string) (*Customer, error)

	// FindAll finds all customers matching the filter; Search matches
	// name or id number
	FindAll(ctx context.Context, filter shared.Filter) ([]Customer, error)

	// Save creates or updates a customer
	Save(ctx context.Context, customer *Customer) error

	// Delete deletes a customer
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts customers matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
