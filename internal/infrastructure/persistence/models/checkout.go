package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/optica-neyra/backend/internal/domain/checkout"
	"github.com/optica-neyra/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// SaleModel is the persistence model for the Sale domain entity. All
// amounts are stored rounded to 2 decimal places; the domain rounds at
// sale construction so the mapping is loss-free.
type SaleModel struct {
	BaseModel
	Timestamp        time.Time       `gorm:"not null;index"`
	CustomerName     string          `gorm:"type:varchar(200);not null"`
	CustomerIDNumber string          `gorm:"type:varchar(20);index:idx_sales_customer_id_number,where:customer_id_number <> ''"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	DiscountPercent  decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	DiscountAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TaxRate          decimal.Decimal `gorm:"type:decimal(5,4);not null"`
	TaxAmount        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Total            decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PaymentMethod    string          `gorm:"type:varchar(20);not null"`
	AmountTendered   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ChangeDue        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Items            []SaleItemModel `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// SaleItemModel is the persistence model for one line of a recorded sale.
type SaleItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	SaleID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	ProductCode string          `gorm:"type:varchar(50);not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (SaleItemModel) TableName() string {
	return "sale_items"
}

// ToDomain converts the persistence model to a domain Sale entity.
func (m *SaleModel) ToDomain() *checkout.Sale {
	items := make([]checkout.SaleItem, 0, len(m.Items))
	for i := range m.Items {
		item := &m.Items[i]
		items = append(items, checkout.SaleItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			ProductCode: item.ProductCode,
			Quantity:    item.Quantity,
			UnitPrice:   valueobject.NewMoneyPEN(item.UnitPrice),
			LineTotal:   valueobject.NewMoneyPEN(item.LineTotal),
		})
	}

	subtotal := valueobject.NewMoneyPEN(m.Subtotal)
	discountAmount := valueobject.NewMoneyPEN(m.DiscountAmount)
	afterDiscount := valueobject.NewMoneyPEN(m.Subtotal.Sub(m.DiscountAmount))

	return &checkout.Sale{
		BaseEntity:       m.BaseModel.ToDomain(),
		Timestamp:        m.Timestamp,
		CustomerName:     m.CustomerName,
		CustomerIDNumber: m.CustomerIDNumber,
		Items:            items,
		Totals: checkout.Totals{
			Subtotal:              subtotal,
			DiscountPercent:       m.DiscountPercent,
			DiscountAmount:        discountAmount,
			SubtotalAfterDiscount: afterDiscount,
			TaxRate:               m.TaxRate,
			TaxAmount:             valueobject.NewMoneyPEN(m.TaxAmount),
			Total:                 valueobject.NewMoneyPEN(m.Total),
		},
		PaymentMethod:  checkout.PaymentMethod(m.PaymentMethod),
		AmountTendered: valueobject.NewMoneyPEN(m.AmountTendered),
		ChangeDue:      valueobject.NewMoneyPEN(m.ChangeDue),
	}
}

// FromDomain populates the persistence model from a domain Sale entity.
func (m *SaleModel) FromDomain(s *checkout.Sale) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.Timestamp = s.Timestamp
	m.CustomerName = s.CustomerName
	m.CustomerIDNumber = s.CustomerIDNumber
	m.Subtotal = s.Totals.Subtotal.Amount().Round(2)
	m.DiscountPercent = s.Totals.DiscountPercent
	m.DiscountAmount = s.Totals.DiscountAmount.Amount().Round(2)
	m.TaxRate = s.Totals.TaxRate
	m.TaxAmount = s.Totals.TaxAmount.Amount().Round(2)
	m.Total = s.Totals.Total.Amount().Round(2)
	m.PaymentMethod = string(s.PaymentMethod)
	m.AmountTendered = s.AmountTendered.Amount().Round(2)
	m.ChangeDue = s.ChangeDue.Amount().Round(2)

	m.Items = make([]SaleItemModel, 0, len(s.Items))
	for _, item := range s.Items {
		m.Items = append(m.Items, SaleItemModel{
			ID:          uuid.New(),
			SaleID:      s.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			ProductCode: item.ProductCode,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.Amount().Round(2),
			LineTotal:   item.LineTotal.Amount().Round(2),
		})
	}
}
