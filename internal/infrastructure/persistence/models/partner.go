package models

import (
	"github.com/optica-neyra/backend/internal/domain/partner"
)

// CustomerModel is the persistence model for the Customer domain entity.
type CustomerModel struct {
	BaseModel
	Name     string `gorm:"type:varchar(200);not null"`
	IDNumber string `gorm:"type:varchar(20);uniqueIndex:idx_customers_id_number,where:id_number <> ''"`
	Phone    string `gorm:"type:varchar(50)"`
	Email    string `gorm:"type:varchar(200)"`
	Address  string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		IDNumber:   m.IDNumber,
		Phone:      m.Phone,
		Email:      m.Email,
		Address:    m.Address,
	}
}

// FromDomain populates the persistence model from a domain Customer entity.
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Name = c.Name
	m.IDNumber = c.IDNumber
	m.Phone = c.Phone
	m.Email = c.Email
	m.Address = c.Address
}
