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

type productImageRepo struct {
	db *sqlx.DB
}

// NewProductImageRepo creates a new PostgreSQL-backed ProductImageRepository.
func NewProductImageRepo(db *sqlx.DB) port.ProductImageRepository {
	return &productImageRepo{db: db}
}

func (r *productImageRepo) Create(ctx context.Context, img *domain.ProductImage) error {
	img.CreatedAt = time.Now().UTC()

	query := `INSERT INTO product_images (product_id, url, object_key, is_main, sort_order, created_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		img.ProductID, img.URL, img.ObjectKey, img.IsMain, img.SortOrder, img.CreatedAt).Scan(&img.ID)
	if err != nil {
		return fmt.Errorf("productImageRepo.Create: %w", err)
	}
	return nil
}

func (r *productImageRepo) ListByProduct(ctx context.Context, productID int64) ([]domain.ProductImage, error) {
	var images []domain.ProductImage
	err := r.db.SelectContext(ctx, &images,
		"SELECT * FROM product_images WHERE product_id = $1 ORDER BY sort_order, id", productID)
	if err != nil {
		return nil, fmt.Errorf("productImageRepo.ListByProduct: %w", err)
	}
	return images, nil
}

func (r *productImageRepo) GetByID(ctx context.Context, id int64) (*domain.ProductImage, error) {
	var img domain.ProductImage
	err := r.db.GetContext(ctx, &img, "SELECT * FROM product_images WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("productImageRepo.GetByID: %w", err)
	}
	return &img, nil
}

// SetMain flips the main flag to imageID within a single transaction so a
// product never has zero or two main images.
func (r *productImageRepo) SetMain(ctx context.Context, productID, imageID int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("productImageRepo.SetMain: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"UPDATE product_images SET is_main = false WHERE product_id = $1", productID); err != nil {
		return fmt.Errorf("productImageRepo.SetMain: clearing: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		"UPDATE product_images SET is_main = true WHERE id = $1 AND product_id = $2",
		imageID, productID)
	if err != nil {
		return fmt.Errorf("productImageRepo.SetMain: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("productImageRepo.SetMain: commit: %w", err)
	}
	return nil
}

func (r *productImageRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM product_images WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("productImageRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
