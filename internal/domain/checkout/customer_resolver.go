package checkout

import (
	"context"
	"errors"
	"strings"

	"github.com/optica-neyra/backend/internal/domain/partner"
	"github.com/optica-neyra/backend/internal/domain/shared"
)

// CustomerInput is the customer data captured at the register during
// checkout. Every field is optional; an empty name means a walk-in sale
// with no customer record.
type CustomerInput struct {
	Name     string
	IDNumber string
	Phone    string
	Email    string
	Address  string
}

// IsAnonymous returns true when the input names no customer
func (i CustomerInput) IsAnonymous() bool {
	return strings.TrimSpace(i.Name) == ""
}

// UpsertAction describes what the checkout should do with the customer
// directory.
type UpsertAction string

const (
	// UpsertNone means no customer record is touched (walk-in sale)
	UpsertNone UpsertAction = "none"
	// UpsertInsert means a new customer record is created
	UpsertInsert UpsertAction = "insert"
	// UpsertUpdate means contact fields merge into an existing record
	UpsertUpdate UpsertAction = "update"
)

// UpsertIntent is the resolver's decision. It carries everything the
// commit sequencer needs to perform the write without another lookup.
type UpsertIntent struct {
	Action   UpsertAction
	Input    CustomerInput
	Existing *partner.Customer // set only for UpsertUpdate
}

// CustomerResolver decides whether checkout customer data creates a new
// directory record or merges into an existing one. It only reads; the
// commit sequencer executes the returned intent.
type CustomerResolver struct {
	customers partner.CustomerRepository
}

// NewCustomerResolver creates a new CustomerResolver
func NewCustomerResolver(customers partner.CustomerRepository) *CustomerResolver {
	return &CustomerResolver{customers: customers}
}

// Resolve maps customer input to an upsert intent:
//   - empty name: no-op, the sale proceeds anonymously
//   - id number present and found: update intent against that record
//   - id number present and not found: insert intent
//   - id number absent: insert intent; without an identity key no
//     deduplication is possible, so duplicate names are permitted
func (r *CustomerResolver) Resolve(ctx context.Context, input CustomerInput) (UpsertIntent, error) {
	if input.IsAnonymous() {
		return UpsertIntent{Action: UpsertNone, Input: input}, nil
	}

	idNumber := strings.TrimSpace(input.IDNumber)
	if idNumber == "" {
		return UpsertIntent{Action: UpsertInsert, Input: input}, nil
	}

	existing, err := r.customers.FindByIDNumber(ctx, idNumber)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return UpsertIntent{Action: UpsertInsert, Input: input}, nil
		}
		return UpsertIntent{}, err
	}

	return UpsertIntent{Action: UpsertUpdate, Input: input, Existing: existing}, nil
}
