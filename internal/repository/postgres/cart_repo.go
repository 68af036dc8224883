package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"vendora/internal/domain"
	"vendora/internal/port"
)

type cartRepo struct {
	db *sqlx.DB
}

// NewCartRepo creates a new PostgreSQL-backed CartRepository.
func NewCartRepo(db *sqlx.DB) port.CartRepository {
	return &cartRepo{db: db}
}

func (r *cartRepo) GetOrCreateByUser(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	var cart domain.Cart
	err := r.db.GetContext(ctx, &cart, "SELECT * FROM carts WHERE user_id = $1", userID)
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("cartRepo.GetOrCreateByUser: %w", err)
	}

	now := time.Now().UTC()
	cart = domain.Cart{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	// A concurrent request can create the cart between the select and this
	// insert; the unique constraint on user_id resolves the race.
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO carts (id, user_id, created_at, updated_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO NOTHING`,
		cart.ID, cart.UserID, cart.CreatedAt, cart.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("cartRepo.GetOrCreateByUser: %w", err)
	}

	err = r.db.GetContext(ctx, &cart, "SELECT * FROM carts WHERE user_id = $1", userID)
	if err != nil {
		return nil, fmt.Errorf("cartRepo.GetOrCreateByUser: %w", err)
	}
	return &cart, nil
}

func (r *cartRepo) ListItems(ctx context.Context, cartID uuid.UUID) ([]domain.CartItem, error) {
	var items []domain.CartItem
	err := r.db.SelectContext(ctx, &items,
		"SELECT * FROM cart_items WHERE cart_id = $1 ORDER BY created_at", cartID)
	if err != nil {
		return nil, fmt.Errorf("cartRepo.ListItems: %w", err)
	}
	return items, nil
}

func (r *cartRepo) UpsertItem(ctx context.Context, item *domain.CartItem) error {
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	query := `INSERT INTO cart_items (cart_id, product_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = EXCLUDED.updated_at
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		item.CartID, item.ProductID, item.Quantity, item.CreatedAt, item.UpdatedAt).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("cartRepo.UpsertItem: %w", err)
	}
	return nil
}

func (r *cartRepo) RemoveItem(ctx context.Context, cartID uuid.UUID, productID int64) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2", cartID, productID)
	if err != nil {
		return fmt.Errorf("cartRepo.RemoveItem: %w", err)
	}
	return nil
}

func (r *cartRepo) Clear(ctx context.Context, cartID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM cart_items WHERE cart_id = $1", cartID)
	if err != nil {
		return fmt.Errorf("cartRepo.Clear: %w", err)
	}
	return nil
}
