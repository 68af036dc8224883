package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/sync/singleflight"

	"vendora/internal/config"
	"vendora/internal/domain"
	"vendora/internal/port"
	"vendora/internal/retry"
	"vendora/internal/storage/objectkey"
)

// UploadOptions carries optional object metadata for an upload.
type UploadOptions struct {
	ContentType  string
	CacheControl string
}

// UploadResult is returned for every successful write. URL is the stable
// public path, never a signed or expiring one.
type UploadResult struct {
	URL       string `json:"url"`
	ObjectKey string `json:"object_key"`
}

// StoredObject is a downloaded object's content and resolved content type.
type StoredObject struct {
	Data        []byte
	ContentType string
}

// Listing is the result of a prefix listing. Prefixes holds the virtual
// sub-folders seen in a non-recursive listing.
type Listing struct {
	Keys     []string
	Prefixes []string
}

// FinalLocation identifies where a published product's images live.
type FinalLocation struct {
	Supplier  string
	Catalog   string
	Category  string
	Product   string
	ProductID int64
}

// StorageService exposes reliable, retried operations on the object store.
//
// Write-path failures (Upload, the upload phase of a move) surface as hard
// errors. Read-path and cleanup-path failures degrade: Exists reports false,
// Delete logs and swallows, ListByPrefix returns an empty listing. Callers on
// those paths stay simple at the cost of masking outages, which are logged.
type StorageService interface {
	Upload(ctx context.Context, key string, data []byte, opts UploadOptions) (*UploadResult, error)
	Download(ctx context.Context, key string) (*StoredObject, error)
	Exists(ctx context.Context, key string) bool
	Delete(ctx context.Context, key string)
	ListByPrefix(ctx context.Context, prefix string, recursive bool) Listing
	MoveToFinalLocation(ctx context.Context, sourceKey string, loc FinalLocation) (*UploadResult, error)
	URL(key string) string
}

type storageService struct {
	client    port.ObjectClient
	cfg       *config.StorageConfig
	retryCfg  retry.Config
	initGroup singleflight.Group
	ready     atomic.Bool
}

// NewStorageService creates a new StorageService implementation over the
// given client. The store is not contacted until the first operation.
func NewStorageService(client port.ObjectClient, cfg *config.StorageConfig) StorageService {
	retryCfg := retry.Config{
		Retries:    cfg.Retry.Retries,
		MinTimeout: cfg.Retry.MinTimeout,
		Factor:     cfg.Retry.Factor,
	}
	if retryCfg.Retries <= 0 {
		retryCfg = retry.DefaultConfig()
	}
	return &storageService{
		client:   client,
		cfg:      cfg,
		retryCfg: retryCfg,
	}
}

// ensureReady lazily verifies store access exactly once. Concurrent first
// callers share a single in-flight check; a failed check is retried by the
// next caller rather than memoized.
func (s *storageService) ensureReady(ctx context.Context) error {
	if s.ready.Load() {
		return nil
	}
	_, err, _ := s.initGroup.Do("init", func() (interface{}, error) {
		if s.ready.Load() {
			return nil, nil
		}
		if err := s.client.Ping(ctx); err != nil {
			return nil, fmt.Errorf("verifying store access: %w", err)
		}
		s.ready.Store(true)
		return nil, nil
	})
	return err
}

func (s *storageService) Upload(ctx context.Context, key string, data []byte, opts UploadOptions) (*UploadResult, error) {
	if err := s.ensureReady(ctx); err != nil {
		return nil, &domain.StorageWriteError{Key: key, Err: err}
	}

	contentType := opts.ContentType
	if contentType == "" {
		contentType = resolveContentType(key, data)
	}

	err := retry.Do(ctx, s.retryCfg, func() error {
		if err := s.client.Put(ctx, port.PutObjectInput{
			Key:          key,
			Body:         data,
			ContentType:  contentType,
			CacheControl: opts.CacheControl,
		}); err != nil {
			return err
		}
		// The store is eventually consistent: a write only counts once the
		// object is readable again under the same key.
		if _, err := s.client.Head(ctx, key); err != nil {
			return fmt.Errorf("verifying write: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, &domain.StorageWriteError{Key: key, Err: err}
	}

	return &UploadResult{URL: s.URL(key), ObjectKey: key}, nil
}

func (s *storageService) Download(ctx context.Context, key string) (*StoredObject, error) {
	if err := s.ensureReady(ctx); err != nil {
		return nil, &domain.StorageReadError{Key: key, Err: err}
	}

	var obj *StoredObject
	err := retry.Do(ctx, s.retryCfg, func() error {
		data, info, err := s.client.Get(ctx, key)
		if err != nil {
			if errors.Is(err, domain.ErrObjectNotFound) {
				// Confirmed absent, retrying will not help.
				return retry.Permanent(err)
			}
			return err
		}
		contentType := ""
		if info != nil {
			contentType = info.ContentType
		}
		if contentType == "" || contentType == "application/octet-stream" {
			contentType = resolveContentType(key, data)
		}
		obj = &StoredObject{Data: data, ContentType: contentType}
		return nil
	})
	if err != nil {
		return nil, &domain.StorageReadError{Key: key, Err: err}
	}
	return obj, nil
}

// Exists reports whether key is present. Transient backend errors are
// logged and reported as false so callers can use it as a plain pre-check.
func (s *storageService) Exists(ctx context.Context, key string) bool {
	if err := s.ensureReady(ctx); err != nil {
		log.Printf("storageService.Exists: init failed for %q: %v", key, err)
		return false
	}
	if _, err := s.client.Head(ctx, key); err != nil {
		if !errors.Is(err, domain.ErrObjectNotFound) {
			log.Printf("storageService.Exists: head %q: %v", key, err)
		}
		return false
	}
	return true
}

// Delete removes key, confirming absence afterwards. It is idempotent:
// deleting an absent key is a no-op success. A terminal failure is logged
// and swallowed so dependent record cleanup is never blocked by a storage
// quirk; the orphan scan picks up anything left behind.
func (s *storageService) Delete(ctx context.Context, key string) {
	if err := s.ensureReady(ctx); err != nil {
		log.Printf("storageService.Delete: init failed for %q: %v", key, err)
		return
	}
	if err := s.deleteVerified(ctx, key); err != nil {
		log.Printf("storageService.Delete: giving up on %q: %v", key, err)
	}
}

// deleteVerified deletes key and confirms it is gone, under the retry policy.
func (s *storageService) deleteVerified(ctx context.Context, key string) error {
	return retry.Do(ctx, s.retryCfg, func() error {
		if err := s.client.Delete(ctx, key); err != nil {
			if errors.Is(err, domain.ErrObjectNotFound) {
				return nil
			}
			return err
		}
		_, err := s.client.Head(ctx, key)
		if err == nil {
			return fmt.Errorf("object still present after delete")
		}
		if !errors.Is(err, domain.ErrObjectNotFound) {
			return fmt.Errorf("verifying delete: %w", err)
		}
		return nil
	})
}

// ListByPrefix returns every key starting with prefix, in store order. In
// non-recursive mode the listing also carries the common sub-prefixes
// (virtual folders). Errors degrade to an empty listing.
func (s *storageService) ListByPrefix(ctx context.Context, prefix string, recursive bool) Listing {
	if err := s.ensureReady(ctx); err != nil {
		log.Printf("storageService.ListByPrefix: init failed for %q: %v", prefix, err)
		return Listing{}
	}

	var out Listing
	err := retry.Do(ctx, s.retryCfg, func() error {
		res, err := s.client.List(ctx, prefix, recursive)
		if err != nil {
			return err
		}
		out = Listing{Keys: res.Keys, Prefixes: res.CommonPrefixes}
		return nil
	})
	if err != nil {
		log.Printf("storageService.ListByPrefix: list %q: %v", prefix, err)
		return Listing{}
	}
	return out
}

// MoveToFinalLocation relocates sourceKey to the deterministic published
// path for loc, keeping the source's base filename. The source is deleted
// only after the destination write is verified, so no failure mode loses
// data: a validate or upload failure leaves the source untouched, and a
// delete failure leaks a duplicate source that the orphan scan removes.
func (s *storageService) MoveToFinalLocation(ctx context.Context, sourceKey string, loc FinalLocation) (*UploadResult, error) {
	destKey := finalKeyFor(sourceKey, loc)

	if !s.Exists(ctx, sourceKey) {
		return nil, &domain.StorageMoveError{
			SourceKey: sourceKey,
			DestKey:   destKey,
			Phase:     domain.MovePhaseValidate,
			Err:       domain.ErrObjectNotFound,
		}
	}

	obj, err := s.Download(ctx, sourceKey)
	if err != nil {
		return nil, &domain.StorageMoveError{
			SourceKey: sourceKey,
			DestKey:   destKey,
			Phase:     domain.MovePhaseValidate,
			Err:       err,
		}
	}

	result, err := s.Upload(ctx, destKey, obj.Data, UploadOptions{ContentType: obj.ContentType})
	if err != nil {
		// Source untouched: the caller can retry the whole move.
		return nil, &domain.StorageMoveError{
			SourceKey: sourceKey,
			DestKey:   destKey,
			Phase:     domain.MovePhaseUpload,
			Err:       err,
		}
	}

	if err := s.deleteVerified(ctx, sourceKey); err != nil {
		// Publish succeeded; the stale source is a harmless leak.
		moveErr := &domain.StorageMoveError{
			SourceKey: sourceKey,
			DestKey:   destKey,
			Phase:     domain.MovePhaseDelete,
			Err:       err,
		}
		log.Printf("storageService.MoveToFinalLocation: %v", moveErr)
	}

	return result, nil
}

// URL derives the stable public path for key: <base>/<files-prefix>/<key>.
func (s *storageService) URL(key string) string {
	base := strings.TrimRight(s.cfg.PublicBaseURL, "/")
	prefix := strings.Trim(s.cfg.FilesPrefix, "/")
	return fmt.Sprintf("%s/%s/%s", base, prefix, key)
}

func finalKeyFor(sourceKey string, loc FinalLocation) string {
	return objectkey.FinalKey(loc.Supplier, loc.Catalog, loc.Category, loc.Product, loc.ProductID, path.Base(sourceKey))
}

// extContentTypes resolves the common image and document extensions without
// touching the payload.
var extContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".pdf":  "application/pdf",
	".txt":  "text/plain",
	".json": "application/json",
}

// resolveContentType resolves a content type in fixed order: extension
// lookup, then byte sniffing, then the generic binary fallback.
func resolveContentType(key string, data []byte) string {
	if ct, ok := extContentTypes[strings.ToLower(filepath.Ext(key))]; ok {
		return ct
	}
	if len(data) > 0 {
		return mimetype.Detect(data).String()
	}
	return "application/octet-stream"
}
