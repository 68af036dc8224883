package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"vendora/internal/domain"
	"vendora/internal/port"
)

type catalogRepo struct {
	db *sqlx.DB
}

// NewCatalogRepo creates a new PostgreSQL-backed CatalogRepository.
func NewCatalogRepo(db *sqlx.DB) port.CatalogRepository {
	return &catalogRepo{db: db}
}

func (r *catalogRepo) Create(ctx context.Context, c *domain.Catalog) error {
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	query := `INSERT INTO catalogs (supplier_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4) RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		c.SupplierID, c.Name, c.CreatedAt, c.UpdatedAt).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("catalogRepo.Create: %w", err)
	}
	return nil
}

func (r *catalogRepo) GetByID(ctx context.Context, id int64) (*domain.Catalog, error) {
	var c domain.Catalog
	err := r.db.GetContext(ctx, &c, "SELECT * FROM catalogs WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("catalogRepo.GetByID: %w", err)
	}
	return &c, nil
}

func (r *catalogRepo) ListBySupplier(ctx context.Context, supplierID int64) ([]domain.Catalog, error) {
	var catalogs []domain.Catalog
	err := r.db.SelectContext(ctx, &catalogs,
		"SELECT * FROM catalogs WHERE supplier_id = $1 ORDER BY created_at DESC", supplierID)
	if err != nil {
		return nil, fmt.Errorf("catalogRepo.ListBySupplier: %w", err)
	}
	return catalogs, nil
}

func (r *catalogRepo) Update(ctx context.Context, c *domain.Catalog) error {
	c.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		"UPDATE catalogs SET name = $1, updated_at = $2 WHERE id = $3",
		c.Name, c.UpdatedAt, c.ID)
	if err != nil {
		return fmt.Errorf("catalogRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *catalogRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM catalogs WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("catalogRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
