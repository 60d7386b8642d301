package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SaleRepository is the ledger store contract. Sales are append-only:
// Insert is the only write, and nothing here mutates or deletes a
// recorded sale.
type SaleRepository interface {
	// Insert appends a sale to the ledger
	Insert(ctx context.Context, sale *Sale) error

	// FindByID finds a sale by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)

	// FindByCustomerIDNumber returns a customer's sales, newest first.
	// Used by reporting and the customer purchase history, never by the
	// commit path.
	FindByCustomerIDNumber(ctx context.Context, idNumber string) ([]Sale, error)

	// FindBetween returns the sales whose timestamp falls in [from, to),
	// newest first. Reporting only.
	FindBetween(ctx context.Context, from, to time.Time) ([]Sale, error)
}
