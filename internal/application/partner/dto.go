package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/optica-neyra/backend/internal/domain/checkout"
	"github.com/optica-neyra/backend/internal/domain/partner"
)

// CreateCustomerRequest represents a request to create a new customer
type CreateCustomerRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=200"`
	IDNumber string `json:"id_number" binding:"max=20"`
	Phone    string `json:"phone" binding:"max=50"`
	Email    string `json:"email" binding:"omitempty,email,max=200"`
	Address  string `json:"address" binding:"max=500"`
}

// UpdateCustomerRequest represents a request to update a customer
type UpdateCustomerRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=200"`
	IDNumber *string `json:"id_number" binding:"omitempty,max=20"`
	Phone    *string `json:"phone" binding:"omitempty,max=50"`
	Email    *string `json:"email" binding:"omitempty,email,max=200"`
	Address  *string `json:"address" binding:"omitempty,max=500"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	IDNumber  string    `json:"id_number"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CustomerListResponse represents a paginated list of customers
type CustomerListResponse struct {
	Customers []CustomerResponse `json:"customers"`
	Total     int64              `json:"total"`
	Page      int                `json:"page"`
	PageSize  int                `json:"page_size"`
}

// PurchaseResponse is one historical sale in a customer's purchase history
type PurchaseResponse struct {
	SaleID        uuid.UUID `json:"sale_id"`
	Timestamp     time.Time `json:"timestamp"`
	Total         string    `json:"total"`
	PaymentMethod string    `json:"payment_method"`
	LineCount     int       `json:"line_count"`
}

// PurchaseHistoryResponse represents a customer's purchase history
type PurchaseHistoryResponse struct {
	Customer  CustomerResponse   `json:"customer"`
	Purchases []PurchaseResponse `json:"purchases"`
}

// ToCustomerResponse converts a domain customer to a response DTO
func ToCustomerResponse(c *partner.Customer) *CustomerResponse {
	return &CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		IDNumber:  c.IDNumber,
		Phone:     c.Phone,
		Email:     c.Email,
		Address:   c.Address,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ToPurchaseResponse converts a recorded sale to a history line
func ToPurchaseResponse(sale *checkout.Sale) PurchaseResponse {
	return PurchaseResponse{
		SaleID:        sale.ID,
		Timestamp:     sale.Timestamp,
		Total:         sale.Totals.Total.StringFixed(2),
		PaymentMethod: string(sale.PaymentMethod),
		LineCount:     len(sale.Items),
	}
}
