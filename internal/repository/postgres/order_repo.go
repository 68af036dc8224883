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

type orderRepo struct {
	db *sqlx.DB
}

// NewOrderRepo creates a new PostgreSQL-backed OrderRepository.
func NewOrderRepo(db *sqlx.DB) port.OrderRepository {
	return &orderRepo{db: db}
}

// Create inserts the order and all of its items in one transaction.
func (r *orderRepo) Create(ctx context.Context, o *domain.Order, items []domain.OrderItem) error {
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("orderRepo.Create: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO orders (user_id, status, total_cents, currency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err = tx.QueryRowContext(ctx, query,
		o.UserID, o.Status, o.TotalCents, o.Currency, o.CreatedAt, o.UpdatedAt).Scan(&o.ID)
	if err != nil {
		return fmt.Errorf("orderRepo.Create: %w", err)
	}

	for i := range items {
		items[i].OrderID = o.ID
		err = tx.QueryRowContext(ctx,
			`INSERT INTO order_items (order_id, product_id, name, price_cents, quantity)
			VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			items[i].OrderID, items[i].ProductID, items[i].Name,
			items[i].PriceCents, items[i].Quantity).Scan(&items[i].ID)
		if err != nil {
			return fmt.Errorf("orderRepo.Create: item %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("orderRepo.Create: commit: %w", err)
	}
	return nil
}

func (r *orderRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	var o domain.Order
	err := r.db.GetContext(ctx, &o, "SELECT * FROM orders WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("orderRepo.GetByID: %w", err)
	}
	return &o, nil
}

func (r *orderRepo) ListItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	var items []domain.OrderItem
	err := r.db.SelectContext(ctx, &items,
		"SELECT * FROM order_items WHERE order_id = $1 ORDER BY id", orderID)
	if err != nil {
		return nil, fmt.Errorf("orderRepo.ListItems: %w", err)
	}
	return items, nil
}

func (r *orderRepo) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Order, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM orders WHERE user_id = $1", userID)
	if err != nil {
		return nil, 0, fmt.Errorf("orderRepo.ListByUser count: %w", err)
	}

	var orders []domain.Order
	err = r.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3",
		userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("orderRepo.ListByUser: %w", err)
	}
	return orders, total, nil
}

func (r *orderRepo) ListAll(ctx context.Context, offset, limit int) ([]domain.Order, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM orders")
	if err != nil {
		return nil, 0, fmt.Errorf("orderRepo.ListAll count: %w", err)
	}

	var orders []domain.Order
	err = r.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders ORDER BY created_at DESC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("orderRepo.ListAll: %w", err)
	}
	return orders, total, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3",
		status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("orderRepo.UpdateStatus: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
