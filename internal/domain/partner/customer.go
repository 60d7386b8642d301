package partner

import (
	"strings"

	"github.com/optica-neyra/backend/internal/domain/shared"
)

// Customer represents a customer in the store directory
// It is the aggregate root for customer-related operations.
// IDNumber is the national-ID-like identity key (DNI in the original
// system); it is optional, but when present it must be unique in the
// directory and is the only key used for deduplication.
type Customer struct {
	shared.BaseEntity
	Name     string
	IDNumber string // optional; empty means anonymous/no identity key
	Phone    string
	Email    string
	Address  string
}

// NewCustomer creates a new customer with required fields
func NewCustomer(name, idNumber, phone, email, address string) (*Customer, error) {
	if err := validateCustomerName(name); err != nil {
		return nil, err
	}
	if err := validateIDNumber(idNumber); err != nil {
		return nil, err
	}

	return &Customer{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		IDNumber:   strings.TrimSpace(idNumber),
		Phone:      phone,
		Email:      email,
		Address:    address,
	}, nil
}

// Update updates the customer's basic information
func (c *Customer) Update(name, phone, email, address string) error {
	if err := validateCustomerName(name); err != nil {
		return err
	}

	c.Name = name
	c.Phone = phone
	c.Email = email
	c.Address = address
	c.Touch()

	return nil
}

// MergeContact applies later-write-wins per field: a non-empty incoming
// value replaces the stored one, absent values keep prior data. Used by
// checkout when a sale carries fresher contact details for a known
// id number.
func (c *Customer) MergeContact(name, phone, email, address string) {
	if strings.TrimSpace(name) != "" {
		c.Name = name
	}
	if strings.TrimSpace(phone) != "" {
		c.Phone = phone
	}
	if strings.TrimSpace(email) != "" {
		c.Email = email
	}
	if strings.TrimSpace(address) != "" {
		c.Address = address
	}
	c.Touch()
}

// ChangeIDNumber replaces the customer's identity document number.
// Uniqueness against the rest of the directory is the caller's check.
func (c *Customer) ChangeIDNumber(idNumber string) error {
	if err := validateIDNumber(idNumber); err != nil {
		return err
	}
	c.IDNumber = strings.TrimSpace(idNumber)
	c.Touch()
	return nil
}

// HasIDNumber returns true if the customer carries an identity key
func (c *Customer) HasIDNumber() bool {
	return c.IDNumber != ""
}

func validateCustomerName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 200 characters")
	}
	return nil
}

func validateIDNumber(idNumber string) error {
	if len(strings.TrimSpace(idNumber)) > 20 {
		return shared.NewDomainError("INVALID_ID_NUMBER", "ID number cannot exceed 20 characters")
	}
	return nil
}
