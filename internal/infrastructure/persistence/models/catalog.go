package models

import (
	"github.com/optica-neyra/backend/internal/domain/catalog"
	"github.com/optica-neyra/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	BaseModel
	Code             string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_products_code"`
	Name             string          `gorm:"type:varchar(200);not null"`
	Category         string          `gorm:"type:varchar(100);not null;index"`
	Supplier         string          `gorm:"type:varchar(200)"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Currency         string          `gorm:"type:varchar(3);not null;default:'PEN'"`
	StockOnHand      int             `gorm:"not null;default:0"`
	ReorderThreshold int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseEntity:       m.BaseModel.ToDomain(),
		Code:             m.Code,
		Name:             m.Name,
		Category:         m.Category,
		Supplier:         m.Supplier,
		UnitPrice:        valueobject.NewMoneyPEN(m.UnitPrice),
		StockOnHand:      m.StockOnHand,
		ReorderThreshold: m.ReorderThreshold,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Code = p.Code
	m.Name = p.Name
	m.Category = p.Category
	m.Supplier = p.Supplier
	m.UnitPrice = p.UnitPrice.Amount().Round(2)
	m.Currency = string(p.UnitPrice.Currency())
	m.StockOnHand = p.StockOnHand
	m.ReorderThreshold = p.ReorderThreshold
}
