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

type draftRepo struct {
	db *sqlx.DB
}

// NewDraftRepo creates a new PostgreSQL-backed DraftRepository.
func NewDraftRepo(db *sqlx.DB) port.DraftRepository {
	return &draftRepo{db: db}
}

func (r *draftRepo) Create(ctx context.Context, d *domain.ProductDraft) error {
	now := time.Now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now
	if d.Status == "" {
		d.Status = domain.DraftStatusOpen
	}

	query := `INSERT INTO product_drafts (supplier_id, catalog_id, category_id, name, description,
		price_cents, currency, image_object_keys, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		d.SupplierID, d.CatalogID, d.CategoryID, d.Name, d.Description,
		d.PriceCents, d.Currency, d.ImageObjectKeys, d.Status,
		d.CreatedAt, d.UpdatedAt).Scan(&d.ID)
	if err != nil {
		return fmt.Errorf("draftRepo.Create: %w", err)
	}
	return nil
}

func (r *draftRepo) GetByID(ctx context.Context, id int64) (*domain.ProductDraft, error) {
	var d domain.ProductDraft
	err := r.db.GetContext(ctx, &d, "SELECT * FROM product_drafts WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("draftRepo.GetByID: %w", err)
	}
	return &d, nil
}

func (r *draftRepo) ListAll(ctx context.Context) ([]domain.ProductDraft, error) {
	var drafts []domain.ProductDraft
	err := r.db.SelectContext(ctx, &drafts, "SELECT * FROM product_drafts ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("draftRepo.ListAll: %w", err)
	}
	return drafts, nil
}

func (r *draftRepo) ListBySupplier(ctx context.Context, supplierID int64, offset, limit int) ([]domain.ProductDraft, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM product_drafts WHERE supplier_id = $1", supplierID)
	if err != nil {
		return nil, 0, fmt.Errorf("draftRepo.ListBySupplier count: %w", err)
	}

	var drafts []domain.ProductDraft
	err = r.db.SelectContext(ctx, &drafts,
		`SELECT * FROM product_drafts WHERE supplier_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		supplierID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("draftRepo.ListBySupplier: %w", err)
	}
	return drafts, total, nil
}

func (r *draftRepo) Update(ctx context.Context, d *domain.ProductDraft) error {
	d.UpdatedAt = time.Now().UTC()
	query := `UPDATE product_drafts SET name = $1, description = $2, price_cents = $3,
		category_id = $4, updated_at = $5 WHERE id = $6`
	result, err := r.db.ExecContext(ctx, query,
		d.Name, d.Description, d.PriceCents, d.CategoryID, d.UpdatedAt, d.ID)
	if err != nil {
		return fmt.Errorf("draftRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *draftRepo) UpdateImageKeys(ctx context.Context, id int64, keys domain.StringList) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE product_drafts SET image_object_keys = $1, updated_at = $2 WHERE id = $3",
		keys, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("draftRepo.UpdateImageKeys: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *draftRepo) UpdateProductID(ctx context.Context, id int64, productID int64) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE product_drafts SET product_id = $1, updated_at = $2 WHERE id = $3",
		productID, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("draftRepo.UpdateProductID: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *draftRepo) UpdateStatus(ctx context.Context, id int64, status domain.DraftStatus) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE product_drafts SET status = $1, updated_at = $2 WHERE id = $3",
		status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("draftRepo.UpdateStatus: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *draftRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM product_drafts WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("draftRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
