package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"vendora/internal/config"
	"vendora/internal/domain"
	"vendora/internal/port"
	"vendora/internal/storage/objectkey"
)

// maxConcurrentImageOps bounds the fan-out for per-file uploads and
// publish-time migrations.
const maxConcurrentImageOps = 4

// CreateDraftInput carries the fields for a new product draft.
type CreateDraftInput struct {
	SupplierID  int64  `json:"supplier_id" binding:"required"`
	CatalogID   int64  `json:"catalog_id" binding:"required"`
	CategoryID  int64  `json:"category_id" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents" binding:"required,gt=0"`
	Currency    string `json:"currency"`
}

// UpdateDraftInput carries the updatable fields of an open draft.
type UpdateDraftInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	PriceCents  *int64  `json:"price_cents"`
	CategoryID  *int64  `json:"category_id"`
}

// DraftImageUpload is one incoming image file.
type DraftImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// DraftImageResult reports the outcome for one uploaded file. Files succeed
// or fail independently; Error is empty on success.
type DraftImageResult struct {
	Filename  string `json:"filename"`
	ObjectKey string `json:"object_key,omitempty"`
	URL       string `json:"url,omitempty"`
	Error     string `json:"error,omitempty"`
}

// DraftService manages the product draft lifecycle: staging, image uploads,
// publication into the product catalog, and cleanup of abandoned objects.
type DraftService interface {
	Create(ctx context.Context, input CreateDraftInput) (*domain.ProductDraft, error)
	GetByID(ctx context.Context, id int64) (*domain.ProductDraft, error)
	ListBySupplier(ctx context.Context, supplierID int64, offset, limit int) ([]domain.ProductDraft, int, error)
	Update(ctx context.Context, id int64, input UpdateDraftInput) (*domain.ProductDraft, error)
	UploadImages(ctx context.Context, draftID int64, files []DraftImageUpload) ([]DraftImageResult, error)
	Publish(ctx context.Context, draftID int64) (*domain.Product, error)
	Discard(ctx context.Context, draftID int64) error
	CleanupOrphans(ctx context.Context) (int, error)
}

type draftService struct {
	drafts     port.DraftRepository
	suppliers  port.SupplierRepository
	catalogs   port.CatalogRepository
	categories port.CategoryRepository
	products   port.ProductRepository
	images     port.ProductImageRepository
	storage    StorageService
	processor  port.ImageProcessor
	imageCfg   *config.ImageConfig
	maxUpload  int64
}

// NewDraftService creates a new DraftService implementation.
func NewDraftService(
	drafts port.DraftRepository,
	suppliers port.SupplierRepository,
	catalogs port.CatalogRepository,
	categories port.CategoryRepository,
	products port.ProductRepository,
	images port.ProductImageRepository,
	storage StorageService,
	processor port.ImageProcessor,
	imageCfg *config.ImageConfig,
	maxUploadSizeMB int64,
) DraftService {
	return &draftService{
		drafts:     drafts,
		suppliers:  suppliers,
		catalogs:   catalogs,
		categories: categories,
		products:   products,
		images:     images,
		storage:    storage,
		processor:  processor,
		imageCfg:   imageCfg,
		maxUpload:  maxUploadSizeMB * 1024 * 1024,
	}
}

func (s *draftService) Create(ctx context.Context, input CreateDraftInput) (*domain.ProductDraft, error) {
	if _, err := s.suppliers.GetByID(ctx, input.SupplierID); err != nil {
		return nil, fmt.Errorf("draftService.Create: supplier %d: %w", input.SupplierID, err)
	}
	if _, err := s.catalogs.GetByID(ctx, input.CatalogID); err != nil {
		return nil, fmt.Errorf("draftService.Create: catalog %d: %w", input.CatalogID, err)
	}
	if _, err := s.categories.GetByID(ctx, input.CategoryID); err != nil {
		return nil, fmt.Errorf("draftService.Create: category %d: %w", input.CategoryID, err)
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = "USD"
	}

	draft := &domain.ProductDraft{
		SupplierID:      input.SupplierID,
		CatalogID:       input.CatalogID,
		CategoryID:      input.CategoryID,
		Name:            strings.TrimSpace(input.Name),
		Description:     input.Description,
		PriceCents:      input.PriceCents,
		Currency:        currency,
		ImageObjectKeys: domain.StringList{},
		Status:          domain.DraftStatusOpen,
	}
	if err := s.drafts.Create(ctx, draft); err != nil {
		return nil, fmt.Errorf("draftService.Create: %w", err)
	}
	return draft, nil
}

func (s *draftService) GetByID(ctx context.Context, id int64) (*domain.ProductDraft, error) {
	draft, err := s.drafts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("draftService.GetByID: %w", err)
	}
	return draft, nil
}

func (s *draftService) ListBySupplier(ctx context.Context, supplierID int64, offset, limit int) ([]domain.ProductDraft, int, error) {
	drafts, total, err := s.drafts.ListBySupplier(ctx, supplierID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("draftService.ListBySupplier: %w", err)
	}
	return drafts, total, nil
}

func (s *draftService) Update(ctx context.Context, id int64, input UpdateDraftInput) (*domain.ProductDraft, error) {
	draft, err := s.openDraft(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("draftService.Update: %w", err)
	}

	if input.Name != nil {
		draft.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		draft.Description = *input.Description
	}
	if input.PriceCents != nil {
		draft.PriceCents = *input.PriceCents
	}
	if input.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *input.CategoryID); err != nil {
			return nil, fmt.Errorf("draftService.Update: category %d: %w", *input.CategoryID, err)
		}
		draft.CategoryID = *input.CategoryID
	}

	if err := s.drafts.Update(ctx, draft); err != nil {
		return nil, fmt.Errorf("draftService.Update: %w", err)
	}
	return draft, nil
}

// UploadImages processes and stores each file under the draft's prefix. Files
// are handled concurrently and independently: one bad file never fails the
// batch. Keys of the successful uploads are appended to the draft's tracked
// set before returning.
func (s *draftService) UploadImages(ctx context.Context, draftID int64, files []DraftImageUpload) ([]DraftImageResult, error) {
	draft, err := s.openDraft(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("draftService.UploadImages: %w", err)
	}

	results := make([]DraftImageResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentImageOps)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			results[i] = s.uploadOne(gctx, draftID, file)
			return nil
		})
	}
	_ = g.Wait()

	var newKeys []string
	for _, r := range results {
		if r.Error == "" {
			newKeys = append(newKeys, r.ObjectKey)
		}
	}
	if len(newKeys) > 0 {
		keys := append(domain.StringList{}, draft.ImageObjectKeys...)
		keys = append(keys, newKeys...)
		if err := s.drafts.UpdateImageKeys(ctx, draftID, keys); err != nil {
			// The objects exist but are untracked; the orphan scan reclaims
			// them if the caller never retries.
			return results, fmt.Errorf("draftService.UploadImages: tracking keys: %w", err)
		}
	}
	return results, nil
}

func (s *draftService) uploadOne(ctx context.Context, draftID int64, file DraftImageUpload) DraftImageResult {
	result := DraftImageResult{Filename: file.Filename}

	if err := s.validateImage(file); err != nil {
		result.Error = err.Error()
		return result
	}

	data, err := s.processor.Process(file.Data, port.ImageProcessOptions{
		Width:   s.imageCfg.MaxWidth,
		Height:  s.imageCfg.MaxHeight,
		Quality: s.imageCfg.Quality,
		Format:  s.imageCfg.Format,
		Fit:     s.imageCfg.Fit,
	})
	if err != nil {
		result.Error = fmt.Sprintf("processing image: %v", err)
		return result
	}

	filename := objectkey.UniqueFileName(withFormatExt(file.Filename, s.imageCfg.Format))
	key := objectkey.DraftKey(draftID, filename)

	uploaded, err := s.storage.Upload(ctx, key, data, UploadOptions{})
	if err != nil {
		result.Error = fmt.Sprintf("storing image: %v", err)
		return result
	}

	result.ObjectKey = uploaded.ObjectKey
	result.URL = uploaded.URL
	return result
}

func (s *draftService) validateImage(file DraftImageUpload) error {
	if int64(len(file.Data)) > s.maxUpload {
		return domain.ErrImageTooLarge
	}
	if file.ContentType != "" {
		if _, ok := domain.AllowedImageContentTypes[file.ContentType]; ok {
			return nil
		}
		return domain.ErrUnsupportedImageType
	}
	ext := strings.TrimPrefix(strings.ToLower(fileExt(file.Filename)), ".")
	if _, ok := domain.AllowedImageExtensions[ext]; !ok {
		return domain.ErrUnsupportedImageType
	}
	return nil
}

// Publish turns an open draft with images into a product. The product row is
// created first so the final keys can embed its id, and its id is persisted
// on the draft before any image moves; every tracked image is then migrated
// concurrently from the draft prefix to its final location. Migration
// failures roll nothing back: successfully moved images get their rows,
// failed ones stay tracked under the draft prefix, and the draft stays open
// so a retried publish resumes against the same product.
func (s *draftService) Publish(ctx context.Context, draftID int64) (*domain.Product, error) {
	draft, err := s.openDraft(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("draftService.Publish: %w", err)
	}
	if len(draft.ImageObjectKeys) == 0 {
		return nil, fmt.Errorf("draftService.Publish: %w", domain.ErrDraftHasNoImages)
	}

	supplier, err := s.suppliers.GetByID(ctx, draft.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("draftService.Publish: supplier %d: %w", draft.SupplierID, err)
	}
	catalog, err := s.catalogs.GetByID(ctx, draft.CatalogID)
	if err != nil {
		return nil, fmt.Errorf("draftService.Publish: catalog %d: %w", draft.CatalogID, err)
	}
	category, err := s.categories.GetByID(ctx, draft.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("draftService.Publish: category %d: %w", draft.CategoryID, err)
	}

	var product *domain.Product
	if draft.ProductID != nil {
		// An earlier publish attempt already created the product; reuse it.
		product, err = s.products.GetByID(ctx, *draft.ProductID)
		if err != nil {
			return nil, fmt.Errorf("draftService.Publish: product %d: %w", *draft.ProductID, err)
		}
	} else {
		product = &domain.Product{
			SupplierID:  draft.SupplierID,
			CatalogID:   draft.CatalogID,
			CategoryID:  draft.CategoryID,
			Name:        draft.Name,
			Description: draft.Description,
			PriceCents:  draft.PriceCents,
			Currency:    draft.Currency,
			IsActive:    true,
		}
		if err := s.products.Create(ctx, product); err != nil {
			return nil, fmt.Errorf("draftService.Publish: creating product: %w", err)
		}
		if err := s.drafts.UpdateProductID(ctx, draftID, product.ID); err != nil {
			return nil, fmt.Errorf("draftService.Publish: recording product id: %w", err)
		}
	}

	// Rows from an earlier partial attempt shift main-image selection and
	// sort order for the images migrated now.
	recorded, err := s.images.ListByProduct(ctx, product.ID)
	if err != nil {
		return nil, fmt.Errorf("draftService.Publish: listing product images: %w", err)
	}

	loc := FinalLocation{
		Supplier:  supplier.Name,
		Catalog:   catalog.Name,
		Category:  category.Name,
		Product:   product.Name,
		ProductID: product.ID,
	}

	type moved struct {
		index  int
		result *UploadResult
	}

	var (
		mu       sync.Mutex
		migrated []moved
		moveErrs []error
	)
	remaining := domain.StringList{}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentImageOps)
	for i, key := range draft.ImageObjectKeys {
		i, key := i, key
		g.Go(func() error {
			result, err := s.storage.MoveToFinalLocation(gctx, key, loc)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				remaining = append(remaining, key)
				moveErrs = append(moveErrs, fmt.Errorf("moving %q: %w", key, err))
				return nil
			}
			migrated = append(migrated, moved{index: i, result: result})
			return nil
		})
	}
	_ = g.Wait()

	// Preserve the upload order for sort_order and main-image selection.
	sort.Slice(migrated, func(a, b int) bool { return migrated[a].index < migrated[b].index })

	// Moved sources no longer exist; shrink the tracked set before touching
	// rows so no later failure leaves a vanished source tracked.
	if err := s.drafts.UpdateImageKeys(ctx, draftID, remaining); err != nil {
		log.Printf("draftService.Publish: updating tracked keys for draft %d: %v", draftID, err)
	}

	for n, m := range migrated {
		pos := len(recorded) + n
		img := &domain.ProductImage{
			ProductID: product.ID,
			URL:       m.result.URL,
			ObjectKey: m.result.ObjectKey,
			IsMain:    pos == 0,
			SortOrder: pos,
		}
		if err := s.images.Create(ctx, img); err != nil {
			return nil, fmt.Errorf("draftService.Publish: recording image %q: %w", m.result.ObjectKey, err)
		}
	}

	if len(moveErrs) > 0 {
		return nil, fmt.Errorf("draftService.Publish: %d of %d images failed to migrate: %w",
			len(moveErrs), len(draft.ImageObjectKeys), errors.Join(moveErrs...))
	}

	if err := s.drafts.UpdateStatus(ctx, draftID, domain.DraftStatusPublished); err != nil {
		return nil, fmt.Errorf("draftService.Publish: marking draft published: %w", err)
	}
	return product, nil
}

// Discard marks the draft discarded and deletes its stored images. Storage
// failures do not block discarding; the orphan scan sweeps leftovers.
func (s *draftService) Discard(ctx context.Context, draftID int64) error {
	draft, err := s.openDraft(ctx, draftID)
	if err != nil {
		return fmt.Errorf("draftService.Discard: %w", err)
	}

	for _, key := range draft.ImageObjectKeys {
		s.storage.Delete(ctx, key)
	}
	if err := s.drafts.UpdateImageKeys(ctx, draftID, domain.StringList{}); err != nil {
		log.Printf("draftService.Discard: clearing keys for draft %d: %v", draftID, err)
	}
	if err := s.drafts.UpdateStatus(ctx, draftID, domain.DraftStatusDiscarded); err != nil {
		return fmt.Errorf("draftService.Discard: %w", err)
	}
	return nil
}

// CleanupOrphans removes every object under the draft prefix that no draft
// tracks. It returns the number of objects deleted. Uploads racing the scan
// can be swept before their keys are tracked; the uploader sees a failed
// batch entry and retries.
func (s *draftService) CleanupOrphans(ctx context.Context) (int, error) {
	drafts, err := s.drafts.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("draftService.CleanupOrphans: %w", err)
	}

	tracked := make(map[string]struct{})
	for _, d := range drafts {
		for _, key := range d.ImageObjectKeys {
			tracked[key] = struct{}{}
		}
	}

	stored := s.storage.ListByPrefix(ctx, objectkey.DraftPrefix+"/", true)

	removed := 0
	for _, key := range stored.Keys {
		if _, ok := tracked[key]; ok {
			continue
		}
		s.storage.Delete(ctx, key)
		removed++
	}
	if removed > 0 {
		log.Printf("draftService.CleanupOrphans: removed %d orphaned objects", removed)
	}
	return removed, nil
}

func (s *draftService) openDraft(ctx context.Context, id int64) (*domain.ProductDraft, error) {
	draft, err := s.drafts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if draft.Status != domain.DraftStatusOpen {
		return nil, domain.ErrDraftNotOpen
	}
	return draft, nil
}

func fileExt(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i:]
	}
	return ""
}

// withFormatExt swaps the filename's extension for the re-encode format so
// the stored key matches the actual bytes.
func withFormatExt(name, format string) string {
	base := strings.TrimSuffix(name, fileExt(name))
	switch format {
	case "png":
		return base + ".png"
	case "gif":
		return base + ".gif"
	default:
		return base + ".jpg"
	}
}
