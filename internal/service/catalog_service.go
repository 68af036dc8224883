package service

import (
	"context"
	"fmt"
	"strings"

	"vendora/internal/domain"
	"vendora/internal/port"
	"vendora/internal/storage/objectkey"
)

// CreateSupplierInput carries the fields for a new supplier.
type CreateSupplierInput struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone"`
}

// CreateCatalogInput carries the fields for a new catalog.
type CreateCatalogInput struct {
	SupplierID int64  `json:"supplier_id" binding:"required"`
	Name       string `json:"name" binding:"required"`
}

// CreateCategoryInput carries the fields for a new category.
type CreateCategoryInput struct {
	Name string `json:"name" binding:"required"`
}

// CatalogService manages suppliers, their catalogs, and the shared category
// tree.
type CatalogService interface {
	CreateSupplier(ctx context.Context, input CreateSupplierInput) (*domain.Supplier, error)
	GetSupplier(ctx context.Context, id int64) (*domain.Supplier, error)
	ListSuppliers(ctx context.Context, offset, limit int) ([]domain.Supplier, int, error)
	UpdateSupplier(ctx context.Context, s *domain.Supplier) error
	DeleteSupplier(ctx context.Context, id int64) error

	CreateCatalog(ctx context.Context, input CreateCatalogInput) (*domain.Catalog, error)
	GetCatalog(ctx context.Context, id int64) (*domain.Catalog, error)
	ListCatalogs(ctx context.Context, supplierID int64) ([]domain.Catalog, error)
	DeleteCatalog(ctx context.Context, id int64) error

	CreateCategory(ctx context.Context, input CreateCategoryInput) (*domain.Category, error)
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

type catalogService struct {
	suppliers  port.SupplierRepository
	catalogs   port.CatalogRepository
	categories port.CategoryRepository
}

// NewCatalogService creates a new CatalogService implementation.
func NewCatalogService(
	suppliers port.SupplierRepository,
	catalogs port.CatalogRepository,
	categories port.CategoryRepository,
) CatalogService {
	return &catalogService{
		suppliers:  suppliers,
		catalogs:   catalogs,
		categories: categories,
	}
}

func (s *catalogService) CreateSupplier(ctx context.Context, input CreateSupplierInput) (*domain.Supplier, error) {
	supplier := &domain.Supplier{
		Name:     strings.TrimSpace(input.Name),
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:    strings.TrimSpace(input.Phone),
		IsActive: true,
	}
	if err := s.suppliers.Create(ctx, supplier); err != nil {
		return nil, fmt.Errorf("catalogService.CreateSupplier: %w", err)
	}
	return supplier, nil
}

func (s *catalogService) GetSupplier(ctx context.Context, id int64) (*domain.Supplier, error) {
	supplier, err := s.suppliers.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("catalogService.GetSupplier: %w", err)
	}
	return supplier, nil
}

func (s *catalogService) ListSuppliers(ctx context.Context, offset, limit int) ([]domain.Supplier, int, error) {
	suppliers, total, err := s.suppliers.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("catalogService.ListSuppliers: %w", err)
	}
	return suppliers, total, nil
}

func (s *catalogService) UpdateSupplier(ctx context.Context, supplier *domain.Supplier) error {
	if err := s.suppliers.Update(ctx, supplier); err != nil {
		return fmt.Errorf("catalogService.UpdateSupplier: %w", err)
	}
	return nil
}

func (s *catalogService) DeleteSupplier(ctx context.Context, id int64) error {
	if err := s.suppliers.Delete(ctx, id); err != nil {
		return fmt.Errorf("catalogService.DeleteSupplier: %w", err)
	}
	return nil
}

func (s *catalogService) CreateCatalog(ctx context.Context, input CreateCatalogInput) (*domain.Catalog, error) {
	if _, err := s.suppliers.GetByID(ctx, input.SupplierID); err != nil {
		return nil, fmt.Errorf("catalogService.CreateCatalog: supplier %d: %w", input.SupplierID, err)
	}
	catalog := &domain.Catalog{
		SupplierID: input.SupplierID,
		Name:       strings.TrimSpace(input.Name),
	}
	if err := s.catalogs.Create(ctx, catalog); err != nil {
		return nil, fmt.Errorf("catalogService.CreateCatalog: %w", err)
	}
	return catalog, nil
}

func (s *catalogService) GetCatalog(ctx context.Context, id int64) (*domain.Catalog, error) {
	catalog, err := s.catalogs.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("catalogService.GetCatalog: %w", err)
	}
	return catalog, nil
}

func (s *catalogService) ListCatalogs(ctx context.Context, supplierID int64) ([]domain.Catalog, error) {
	catalogs, err := s.catalogs.ListBySupplier(ctx, supplierID)
	if err != nil {
		return nil, fmt.Errorf("catalogService.ListCatalogs: %w", err)
	}
	return catalogs, nil
}

func (s *catalogService) DeleteCatalog(ctx context.Context, id int64) error {
	if err := s.catalogs.Delete(ctx, id); err != nil {
		return fmt.Errorf("catalogService.DeleteCatalog: %w", err)
	}
	return nil
}

func (s *catalogService) CreateCategory(ctx context.Context, input CreateCategoryInput) (*domain.Category, error) {
	name := strings.TrimSpace(input.Name)
	category := &domain.Category{
		Name: name,
		Slug: objectkey.Sanitize(name),
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("catalogService.CreateCategory: %w", err)
	}
	return category, nil
}

func (s *catalogService) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("catalogService.GetCategory: %w", err)
	}
	return category, nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalogService.ListCategories: %w", err)
	}
	return categories, nil
}

func (s *catalogService) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return fmt.Errorf("catalogService.DeleteCategory: %w", err)
	}
	return nil
}
