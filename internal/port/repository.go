package port

import (
	"context"

	"github.com/google/uuid"

	"vendora/internal/domain"
)

// SupplierRepository persists suppliers.
type SupplierRepository interface {
	Create(ctx context.Context, s *domain.Supplier) error
	GetByID(ctx context.Context, id int64) (*domain.Supplier, error)
	List(ctx context.Context, offset, limit int) ([]domain.Supplier, int, error)
	Update(ctx context.Context, s *domain.Supplier) error
	Delete(ctx context.Context, id int64) error
}

// CatalogRepository persists supplier catalogs.
type CatalogRepository interface {
	Create(ctx context.Context, c *domain.Catalog) error
	GetByID(ctx context.Context, id int64) (*domain.Catalog, error)
	ListBySupplier(ctx context.Context, supplierID int64) ([]domain.Catalog, error)
	Update(ctx context.Context, c *domain.Catalog) error
	Delete(ctx context.Context, id int64) error
}

// CategoryRepository persists product categories.
type CategoryRepository interface {
	Create(ctx context.Context, c *domain.Category) error
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	Update(ctx context.Context, c *domain.Category) error
	Delete(ctx context.Context, id int64) error
}

// ProductRepository persists products.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	ListByCategory(ctx context.Context, categoryID int64, offset, limit int) ([]domain.Product, int, error)
	List(ctx context.Context, offset, limit int) ([]domain.Product, int, error)
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id int64) error
}

// ProductImageRepository persists product image rows. Each row owns exactly
// one object key; no key is shared between rows.
type ProductImageRepository interface {
	Create(ctx context.Context, img *domain.ProductImage) error
	ListByProduct(ctx context.Context, productID int64) ([]domain.ProductImage, error)
	GetByID(ctx context.Context, id int64) (*domain.ProductImage, error)
	SetMain(ctx context.Context, productID, imageID int64) error
	Delete(ctx context.Context, id int64) error
}

// DraftRepository persists product drafts and their tracked image keys.
type DraftRepository interface {
	Create(ctx context.Context, d *domain.ProductDraft) error
	GetByID(ctx context.Context, id int64) (*domain.ProductDraft, error)
	ListAll(ctx context.Context) ([]domain.ProductDraft, error)
	ListBySupplier(ctx context.Context, supplierID int64, offset, limit int) ([]domain.ProductDraft, int, error)
	Update(ctx context.Context, d *domain.ProductDraft) error
	UpdateImageKeys(ctx context.Context, id int64, keys domain.StringList) error
	UpdateProductID(ctx context.Context, id int64, productID int64) error
	UpdateStatus(ctx context.Context, id int64, status domain.DraftStatus) error
	Delete(ctx context.Context, id int64) error
}

// UserRepository persists marketplace accounts.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// CartRepository persists carts and cart items.
type CartRepository interface {
	GetOrCreateByUser(ctx context.Context, userID uuid.UUID) (*domain.Cart, error)
	ListItems(ctx context.Context, cartID uuid.UUID) ([]domain.CartItem, error)
	UpsertItem(ctx context.Context, item *domain.CartItem) error
	RemoveItem(ctx context.Context, cartID uuid.UUID, productID int64) error
	Clear(ctx context.Context, cartID uuid.UUID) error
}

// OrderRepository persists orders and their items.
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order, items []domain.OrderItem) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	ListItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error)
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Order, int, error)
	ListAll(ctx context.Context, offset, limit int) ([]domain.Order, int, error)
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error
}
