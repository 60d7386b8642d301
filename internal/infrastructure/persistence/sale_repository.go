package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/optica-neyra/backend/internal/domain/checkout"
	"github.com/optica-neyra/backend/internal/domain/shared"
	"github.com/optica-neyra/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSaleRepository implements checkout.SaleRepository using GORM. The
// sales table is append-only: there is no update or delete path.
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// Insert writes a sale and its items in one transaction
func (r *GormSaleRepository) Insert(ctx context.Context, sale *checkout.Sale) error {
	var model models.SaleModel
	model.FromDomain(sale)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&model).Error
	})
}

// FindByID finds a sale with its items by ID
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*checkout.Sale, error) {
	var model models.SaleModel
	if err := r.db.WithContext(ctx).Preload("Items").First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCustomerIDNumber finds the sales recorded against an identity
// document number, most recent first
func (r *GormSaleRepository) FindByCustomerIDNumber(ctx context.Context, idNumber string) ([]checkout.Sale, error) {
	if idNumber == "" {
		return []checkout.Sale{}, nil
	}

	var rows []models.SaleModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("customer_id_number = ?", idNumber).
		Order("timestamp DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainSales(rows), nil
}

// FindBetween finds the sales recorded in [from, to], oldest first
func (r *GormSaleRepository) FindBetween(ctx context.Context, from, to time.Time) ([]checkout.Sale, error) {
	var rows []models.SaleModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("timestamp >= ? AND timestamp <= ?", from, to).
		Order("timestamp ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainSales(rows), nil
}

func toDomainSales(rows []models.SaleModel) []checkout.Sale {
	sales := make([]checkout.Sale, 0, len(rows))
	for i := range rows {
		sales = append(sales, *rows[i].ToDomain())
	}
	return sales
}
