package partner

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/optica-neyra/backend/internal/domain/checkout"
	"github.com/optica-neyra/backend/internal/domain/partner"
	"github.com/optica-neyra/backend/internal/domain/shared"
)

// CustomerService handles customer directory operations
type CustomerService struct {
	customerRepo partner.CustomerRepository
	saleRepo     checkout.SaleRepository
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository, saleRepo checkout.SaleRepository) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		saleRepo:     saleRepo,
	}
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	if req.IDNumber != "" {
		existing, err := s.customerRepo.FindByIDNumber(ctx, req.IDNumber)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this ID number already exists")
		}
	}

	customer, err := partner.NewCustomer(req.Name, req.IDNumber, req.Phone, req.Email, req.Address)
	if err != nil {
		return nil, err
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	return ToCustomerResponse(customer), nil
}

// Update modifies an existing customer
func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := customer.Name
	if req.Name != nil {
		name = *req.Name
	}
	idNumber := customer.IDNumber
	if req.IDNumber != nil {
		idNumber = *req.IDNumber
	}
	phone := customer.Phone
	if req.Phone != nil {
		phone = *req.Phone
	}
	email := customer.Email
	if req.Email != nil {
		email = *req.Email
	}
	address := customer.Address
	if req.Address != nil {
		address = *req.Address
	}

	if idNumber != customer.IDNumber && idNumber != "" {
		other, err := s.customerRepo.FindByIDNumber(ctx, idNumber)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if other != nil && other.ID != customer.ID {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this ID number already exists")
		}
	}

	if err := customer.Update(name, phone, email, address); err != nil {
		return nil, err
	}
	if idNumber != customer.IDNumber {
		if err := customer.ChangeIDNumber(idNumber); err != nil {
			return nil, err
		}
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	return ToCustomerResponse(customer), nil
}

// Get returns a customer by id
func (s *CustomerService) Get(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToCustomerResponse(customer), nil
}

// List returns a filtered, paginated page of the directory
func (s *CustomerService) List(ctx context.Context, filter shared.Filter) (*CustomerListResponse, error) {
	customers, err := s.customerRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.customerRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]CustomerResponse, 0, len(customers))
	for i := range customers {
		responses = append(responses, *ToCustomerResponse(&customers[i]))
	}

	return &CustomerListResponse{
		Customers: responses,
		Total:     total,
		Page:      filter.Page,
		PageSize:  filter.PageSize,
	}, nil
}

// PurchaseHistory returns the customer's recorded sales, most recent
// first as the ledger returns them. Sales made before the customer had
// an ID number on file are not linkable and will not appear.
func (s *CustomerService) PurchaseHistory(ctx context.Context, id uuid.UUID) (*PurchaseHistoryResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := &PurchaseHistoryResponse{
		Customer:  *ToCustomerResponse(customer),
		Purchases: []PurchaseResponse{},
	}
	if !customer.HasIDNumber() {
		return resp, nil
	}

	sales, err := s.saleRepo.FindByCustomerIDNumber(ctx, customer.IDNumber)
	if err != nil {
		return nil, err
	}
	for i := range sales {
		resp.Purchases = append(resp.Purchases, ToPurchaseResponse(&sales[i]))
	}
	return resp, nil
}

// Delete removes a customer from the directory. Recorded sales keep
// their name and ID number snapshots and are unaffected.
func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.customerRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.customerRepo.Delete(ctx, id)
}
