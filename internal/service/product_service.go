package service

import (
	"context"
	"fmt"

	"vendora/internal/domain"
	"vendora/internal/port"
)

// ProductWithImages bundles a product and its image rows for read endpoints.
type ProductWithImages struct {
	domain.Product
	Images []domain.ProductImage `json:"images"`
}

// ProductService manages published products and their images. Products enter
// the catalog through draft publication only; this service covers reads,
// edits, image management, and retirement.
type ProductService interface {
	GetByID(ctx context.Context, id int64) (*ProductWithImages, error)
	List(ctx context.Context, offset, limit int) ([]ProductWithImages, int, error)
	ListByCategory(ctx context.Context, categoryID int64, offset, limit int) ([]ProductWithImages, int, error)
	Update(ctx context.Context, p *domain.Product) error
	SetMainImage(ctx context.Context, productID, imageID int64) error
	DeleteImage(ctx context.Context, imageID int64) error
	Delete(ctx context.Context, id int64) error
}

type productService struct {
	products port.ProductRepository
	images   port.ProductImageRepository
	storage  StorageService
}

// NewProductService creates a new ProductService implementation.
func NewProductService(
	products port.ProductRepository,
	images port.ProductImageRepository,
	storage StorageService,
) ProductService {
	return &productService{
		products: products,
		images:   images,
		storage:  storage,
	}
}

func (s *productService) GetByID(ctx context.Context, id int64) (*ProductWithImages, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("productService.GetByID: %w", err)
	}
	images, err := s.images.ListByProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("productService.GetByID: listing images: %w", err)
	}
	return &ProductWithImages{Product: *product, Images: images}, nil
}

func (s *productService) List(ctx context.Context, offset, limit int) ([]ProductWithImages, int, error) {
	products, total, err := s.products.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("productService.List: %w", err)
	}
	out, err := s.attachImages(ctx, products)
	if err != nil {
		return nil, 0, fmt.Errorf("productService.List: %w", err)
	}
	return out, total, nil
}

func (s *productService) ListByCategory(ctx context.Context, categoryID int64, offset, limit int) ([]ProductWithImages, int, error) {
	products, total, err := s.products.ListByCategory(ctx, categoryID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("productService.ListByCategory: %w", err)
	}
	out, err := s.attachImages(ctx, products)
	if err != nil {
		return nil, 0, fmt.Errorf("productService.ListByCategory: %w", err)
	}
	return out, total, nil
}

func (s *productService) attachImages(ctx context.Context, products []domain.Product) ([]ProductWithImages, error) {
	out := make([]ProductWithImages, 0, len(products))
	for _, p := range products {
		images, err := s.images.ListByProduct(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("listing images for product %d: %w", p.ID, err)
		}
		out = append(out, ProductWithImages{Product: p, Images: images})
	}
	return out, nil
}

func (s *productService) Update(ctx context.Context, p *domain.Product) error {
	if err := s.products.Update(ctx, p); err != nil {
		return fmt.Errorf("productService.Update: %w", err)
	}
	return nil
}

func (s *productService) SetMainImage(ctx context.Context, productID, imageID int64) error {
	img, err := s.images.GetByID(ctx, imageID)
	if err != nil {
		return fmt.Errorf("productService.SetMainImage: %w", err)
	}
	if img.ProductID != productID {
		return fmt.Errorf("productService.SetMainImage: image %d: %w", imageID, domain.ErrNotFound)
	}
	if err := s.images.SetMain(ctx, productID, imageID); err != nil {
		return fmt.Errorf("productService.SetMainImage: %w", err)
	}
	return nil
}

// DeleteImage removes the image row and its stored object. The row goes
// first so a half-failure leaves an orphaned object, never a broken URL.
func (s *productService) DeleteImage(ctx context.Context, imageID int64) error {
	img, err := s.images.GetByID(ctx, imageID)
	if err != nil {
		return fmt.Errorf("productService.DeleteImage: %w", err)
	}
	if err := s.images.Delete(ctx, imageID); err != nil {
		return fmt.Errorf("productService.DeleteImage: %w", err)
	}
	s.storage.Delete(ctx, img.ObjectKey)
	return nil
}

// Delete removes the product, its image rows, and their stored objects.
func (s *productService) Delete(ctx context.Context, id int64) error {
	images, err := s.images.ListByProduct(ctx, id)
	if err != nil {
		return fmt.Errorf("productService.Delete: listing images: %w", err)
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return fmt.Errorf("productService.Delete: %w", err)
	}
	for _, img := range images {
		s.storage.Delete(ctx, img.ObjectKey)
	}
	return nil
}
