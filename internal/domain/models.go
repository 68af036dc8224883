package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Supplier represents a vendor selling through the marketplace.
type Supplier struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Catalog represents a supplier's product catalog (e.g. a seasonal line).
type Catalog struct {
	ID         int64     `db:"id" json:"id"`
	SupplierID int64     `db:"supplier_id" json:"supplier_id"`
	Name       string    `db:"name" json:"name"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Category represents a browsable product category.
type Category struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Product represents a published, purchasable product.
type Product struct {
	ID          int64     `db:"id" json:"id"`
	SupplierID  int64     `db:"supplier_id" json:"supplier_id"`
	CatalogID   int64     `db:"catalog_id" json:"catalog_id"`
	CategoryID  int64     `db:"category_id" json:"category_id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	PriceCents  int64     `db:"price_cents" json:"price_cents"`
	Currency    string    `db:"currency" json:"currency"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// ProductImage represents one stored image belonging to a product. ObjectKey
// is the sole reference to the blob; deleting the row orphans the object
// unless the storage key is deleted alongside it.
type ProductImage struct {
	ID        int64     `db:"id" json:"id"`
	ProductID int64     `db:"product_id" json:"product_id"`
	URL       string    `db:"url" json:"url"`
	ObjectKey string    `db:"object_key" json:"object_key"`
	IsMain    bool      `db:"is_main" json:"is_main"`
	SortOrder int       `db:"sort_order" json:"sort_order"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// StringList is a JSON-encoded string slice column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("StringList.Scan: unsupported type %T", src)
	}
}

// ProductDraft is the staging record for a product before publication.
// ImageObjectKeys tracks every image uploaded under drafts/{id}/; anything
// stored under that prefix but missing from the list is an orphan.
// ProductID is set by the first publish attempt so retries reuse the same
// product row instead of creating another.
type ProductDraft struct {
	ID              int64       `db:"id" json:"id"`
	SupplierID      int64       `db:"supplier_id" json:"supplier_id"`
	CatalogID       int64       `db:"catalog_id" json:"catalog_id"`
	CategoryID      int64       `db:"category_id" json:"category_id"`
	ProductID       *int64      `db:"product_id" json:"product_id,omitempty"`
	Name            string      `db:"name" json:"name"`
	Description     string      `db:"description" json:"description"`
	PriceCents      int64       `db:"price_cents" json:"price_cents"`
	Currency        string      `db:"currency" json:"currency"`
	ImageObjectKeys StringList  `db:"image_object_keys" json:"image_object_keys"`
	Status          DraftStatus `db:"status" json:"status"`
	CreatedAt       time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time   `db:"updated_at" json:"updated_at"`
}

// User represents a marketplace account (customer or admin).
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Role         UserRole  `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Cart represents a user's open shopping cart.
type Cart struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CartItem represents one product line in a cart.
type CartItem struct {
	ID        int64     `db:"id" json:"id"`
	CartID    uuid.UUID `db:"cart_id" json:"cart_id"`
	ProductID int64     `db:"product_id" json:"product_id"`
	Quantity  int       `db:"quantity" json:"quantity"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Order represents a placed order.
type Order struct {
	ID         int64       `db:"id" json:"id"`
	UserID     uuid.UUID   `db:"user_id" json:"user_id"`
	Status     OrderStatus `db:"status" json:"status"`
	TotalCents int64       `db:"total_cents" json:"total_cents"`
	Currency   string      `db:"currency" json:"currency"`
	CreatedAt  time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time   `db:"updated_at" json:"updated_at"`
}

// OrderItem is a price-snapshotted product line within an order.
type OrderItem struct {
	ID         int64  `db:"id" json:"id"`
	OrderID    int64  `db:"order_id" json:"order_id"`
	ProductID  int64  `db:"product_id" json:"product_id"`
	Name       string `db:"name" json:"name"`
	PriceCents int64  `db:"price_cents" json:"price_cents"`
	Quantity   int    `db:"quantity" json:"quantity"`
}
