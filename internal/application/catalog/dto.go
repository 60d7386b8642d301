package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/optica-neyra/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Code             string          `json:"code" binding:"required,min=1,max=50"`
	Name             string          `json:"name" binding:"required,min=1,max=200"`
	Category         string          `json:"category" binding:"required,min=1,max=100"`
	Supplier         string          `json:"supplier" binding:"max=200"`
	UnitPrice        decimal.Decimal `json:"unit_price" binding:"required"`
	InitialStock     int             `json:"initial_stock" binding:"min=0"`
	ReorderThreshold int             `json:"reorder_threshold" binding:"min=0"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name             *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Category         *string          `json:"category" binding:"omitempty,min=1,max=100"`
	Supplier         *string          `json:"supplier" binding:"omitempty,max=200"`
	UnitPrice        *decimal.Decimal `json:"unit_price"`
	ReorderThreshold *int             `json:"reorder_threshold" binding:"omitempty,min=0"`
}

// RestockRequest represents a request to add received stock to a product
type RestockRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID               uuid.UUID       `json:"id"`
	Code             string          `json:"code"`
	Name             string          `json:"name"`
	Category         string          `json:"category"`
	Supplier         string          `json:"supplier"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Currency         string          `json:"currency"`
	StockOnHand      int             `json:"stock_on_hand"`
	ReorderThreshold int             `json:"reorder_threshold"`
	OutOfStock       bool            `json:"out_of_stock"`
	LowStock         bool            `json:"low_stock"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ProductListResponse represents a paginated list of products
type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// ToProductResponse converts a domain product to a response DTO
func ToProductResponse(p *catalog.Product) *ProductResponse {
	return &ProductResponse{
		ID:               p.ID,
		Code:             p.Code,
		Name:             p.Name,
		Category:         p.Category,
		Supplier:         p.Supplier,
		UnitPrice:        p.UnitPrice.Amount().Round(2),
		Currency:         string(p.UnitPrice.Currency()),
		StockOnHand:      p.StockOnHand,
		ReorderThreshold: p.ReorderThreshold,
		OutOfStock:       p.IsOutOfStock(),
		LowStock:         p.IsLowStock(),
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}
