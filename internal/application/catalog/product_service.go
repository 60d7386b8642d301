package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/optica-neyra/backend/internal/domain/catalog"
	"github.com/optica-neyra/backend/internal/domain/shared"
	"github.com/optica-neyra/backend/internal/domain/shared/valueobject"
)

// ProductService handles product catalog operations
type ProductService struct {
	productRepo catalog.ProductRepository
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository) *ProductService {
	return &ProductService{
		productRepo: productRepo,
	}
}

// Create creates a new catalog product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	// Reject duplicate codes up front; the unique index is the backstop
	existing, err := s.productRepo.FindByCode(ctx, req.Code)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this code already exists")
	}

	product, err := catalog.NewProduct(
		req.Code,
		req.Name,
		req.Category,
		req.Supplier,
		valueobject.NewMoneyPEN(req.UnitPrice),
		req.InitialStock,
		req.ReorderThreshold,
	)
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	return ToProductResponse(product), nil
}

// Update modifies an existing product
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := product.Name
	if req.Name != nil {
		name = *req.Name
	}
	category := product.Category
	if req.Category != nil {
		category = *req.Category
	}
	supplier := product.Supplier
	if req.Supplier != nil {
		supplier = *req.Supplier
	}
	if err := product.Update(name, category, supplier); err != nil {
		return nil, err
	}

	if req.UnitPrice != nil {
		if err := product.UpdatePrice(valueobject.NewMoneyPEN(*req.UnitPrice)); err != nil {
			return nil, err
		}
	}
	if req.ReorderThreshold != nil {
		if err := product.SetReorderThreshold(*req.ReorderThreshold); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	return ToProductResponse(product), nil
}

// Get returns a product by id
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// GetByCode returns a product by its catalog code
func (s *ProductService) GetByCode(ctx context.Context, code string) (*ProductResponse, error) {
	product, err := s.productRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// List returns a filtered, paginated page of the catalog
func (s *ProductService) List(ctx context.Context, filter shared.Filter) (*ProductListResponse, error) {
	products, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.productRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, *ToProductResponse(&products[i]))
	}

	return &ProductListResponse{
		Products: responses,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// ListLowStock returns products at or below their reorder threshold
func (s *ProductService) ListLowStock(ctx context.Context) ([]ProductResponse, error) {
	products, err := s.productRepo.FindLowStock(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, *ToProductResponse(&products[i]))
	}
	return responses, nil
}

// Restock adds received units to a product's balance
func (s *ProductService) Restock(ctx context.Context, id uuid.UUID, req RestockRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := product.Restock(req.Quantity); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	return ToProductResponse(product), nil
}

// Delete removes a product from the catalog
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, id)
}
