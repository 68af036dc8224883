package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vendora/internal/config"
	"vendora/internal/domain"
	"vendora/internal/service"
	"vendora/mocks"
)

func testStorageConfig() *config.StorageConfig {
	return &config.StorageConfig{
		Region:        "us-east-1",
		Bucket:        "test-bucket",
		PublicBaseURL: "https://cdn.example.com/",
		FilesPrefix:   "files",
		Retry: config.RetryConfig{
			Retries:    3,
			MinTimeout: time.Millisecond,
			Factor:     2,
		},
	}
}

func newStorage(t *testing.T) (service.StorageService, *mocks.FakeObjectClient) {
	t.Helper()
	client := mocks.NewFakeObjectClient()
	return service.NewStorageService(client, testStorageConfig()), client
}

func TestStorageService_UploadDownloadRoundTrip(t *testing.T) {
	svc, _ := newStorage(t)
	ctx := context.Background()
	payload := []byte("png-bytes")

	result, err := svc.Upload(ctx, "drafts/1/photo.png", payload, service.UploadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "drafts/1/photo.png", result.ObjectKey)
	assert.Equal(t, "https://cdn.example.com/files/drafts/1/photo.png", result.URL)

	obj, err := svc.Download(ctx, "drafts/1/photo.png")
	require.NoError(t, err)
	assert.Equal(t, payload, obj.Data)
	assert.Equal(t, "image/png", obj.ContentType)
}

func TestStorageService_UploadRetriesTransientFailures(t *testing.T) {
	svc, client := newStorage(t)

	var mu sync.Mutex
	failures := 2
	client.PutErr = func(key string) error {
		mu.Lock()
		defer mu.Unlock()
		if failures > 0 {
			failures--
			return fmt.Errorf("transient backend error")
		}
		return nil
	}

	result, err := svc.Upload(context.Background(), "drafts/2/a.jpg", []byte("x"), service.UploadOptions{})
	require.NoError(t, err)
	assert.True(t, client.Has(result.ObjectKey))
}

func TestStorageService_UploadExhaustsRetries(t *testing.T) {
	svc, client := newStorage(t)
	client.PutErr = func(key string) error { return fmt.Errorf("backend down") }

	_, err := svc.Upload(context.Background(), "drafts/3/a.jpg", []byte("x"), service.UploadOptions{})
	require.Error(t, err)

	var writeErr *domain.StorageWriteError
	require.ErrorAs(t, err, &writeErr)
	assert.Equal(t, "drafts/3/a.jpg", writeErr.Key)
	// retries=3 means 4 attempts total.
	assert.Equal(t, 4, client.PutCalls)
}

func TestStorageService_DownloadMissingIsPermanent(t *testing.T) {
	svc, client := newStorage(t)

	_, err := svc.Download(context.Background(), "drafts/9/missing.png")
	require.Error(t, err)

	var readErr *domain.StorageReadError
	require.ErrorAs(t, err, &readErr)
	assert.True(t, readErr.NotFound())
	assert.ErrorIs(t, err, domain.ErrObjectNotFound)
	// A confirmed miss is not retried; one Ping plus one Get.
	assert.Equal(t, 1, client.PingCalls)
}

func TestStorageService_ExistsCollapsesErrorsToFalse(t *testing.T) {
	svc, client := newStorage(t)
	ctx := context.Background()
	client.Seed("drafts/1/a.png", []byte("x"), "image/png")

	assert.True(t, svc.Exists(ctx, "drafts/1/a.png"))
	assert.False(t, svc.Exists(ctx, "drafts/1/b.png"))

	client.HeadErr = func(key string) error { return fmt.Errorf("timeout") }
	assert.False(t, svc.Exists(ctx, "drafts/1/a.png"))
}

func TestStorageService_DeleteIsIdempotent(t *testing.T) {
	svc, client := newStorage(t)
	ctx := context.Background()
	client.Seed("drafts/1/a.png", []byte("x"), "image/png")

	svc.Delete(ctx, "drafts/1/a.png")
	assert.False(t, client.Has("drafts/1/a.png"))

	// Deleting again must not blow up.
	svc.Delete(ctx, "drafts/1/a.png")
	assert.False(t, client.Has("drafts/1/a.png"))
}

func TestStorageService_DeleteSwallowsTerminalFailure(t *testing.T) {
	svc, client := newStorage(t)
	client.Seed("drafts/1/a.png", []byte("x"), "image/png")
	client.DeleteErr = func(key string) error { return fmt.Errorf("access denied") }

	// Must not panic or surface the error.
	svc.Delete(context.Background(), "drafts/1/a.png")
	assert.True(t, client.Has("drafts/1/a.png"))
}

func TestStorageService_ListByPrefix(t *testing.T) {
	svc, client := newStorage(t)
	ctx := context.Background()
	client.Seed("drafts/1/a.png", []byte("x"), "image/png")
	client.Seed("drafts/1/b.png", []byte("x"), "image/png")
	client.Seed("drafts/2/c.png", []byte("x"), "image/png")

	recursive := svc.ListByPrefix(ctx, "drafts/", true)
	assert.Equal(t, []string{"drafts/1/a.png", "drafts/1/b.png", "drafts/2/c.png"}, recursive.Keys)
	assert.Empty(t, recursive.Prefixes)

	shallow := svc.ListByPrefix(ctx, "drafts/", false)
	assert.Empty(t, shallow.Keys)
	assert.Equal(t, []string{"drafts/1/", "drafts/2/"}, shallow.Prefixes)
}

func TestStorageService_ListByPrefixDegradesToEmpty(t *testing.T) {
	svc, client := newStorage(t)
	client.Seed("drafts/1/a.png", []byte("x"), "image/png")
	client.ListErr = func(prefix string) error { return fmt.Errorf("backend down") }

	listing := svc.ListByPrefix(context.Background(), "drafts/", true)
	assert.Empty(t, listing.Keys)
	assert.Empty(t, listing.Prefixes)
}

func TestStorageService_MoveToFinalLocation(t *testing.T) {
	svc, client := newStorage(t)
	ctx := context.Background()
	client.Seed("drafts/42/shirt.png", []byte("shirt-bytes"), "image/png")

	loc := service.FinalLocation{
		Supplier:  "Acme Co",
		Catalog:   "Summer",
		Category:  "Shirts",
		Product:   "Red Tee",
		ProductID: 7,
	}
	result, err := svc.MoveToFinalLocation(ctx, "drafts/42/shirt.png", loc)
	require.NoError(t, err)

	assert.Equal(t, "acme-co/summer/shirts/red-tee_7/shirt.png", result.ObjectKey)
	assert.Equal(t, "https://cdn.example.com/files/acme-co/summer/shirts/red-tee_7/shirt.png", result.URL)
	assert.True(t, client.Has("acme-co/summer/shirts/red-tee_7/shirt.png"))
	assert.False(t, client.Has("drafts/42/shirt.png"))
}

func TestStorageService_MoveMissingSourceFailsValidate(t *testing.T) {
	svc, _ := newStorage(t)

	_, err := svc.MoveToFinalLocation(context.Background(), "drafts/42/gone.png", service.FinalLocation{ProductID: 1})
	require.Error(t, err)

	var moveErr *domain.StorageMoveError
	require.ErrorAs(t, err, &moveErr)
	assert.Equal(t, domain.MovePhaseValidate, moveErr.Phase)
	assert.ErrorIs(t, err, domain.ErrObjectNotFound)
}

func TestStorageService_MoveUploadFailurePreservesSource(t *testing.T) {
	svc, client := newStorage(t)
	client.Seed("drafts/42/shirt.png", []byte("shirt-bytes"), "image/png")
	client.PutErr = func(key string) error { return fmt.Errorf("backend down") }

	_, err := svc.MoveToFinalLocation(context.Background(), "drafts/42/shirt.png", service.FinalLocation{
		Supplier: "Acme", ProductID: 7,
	})
	require.Error(t, err)

	var moveErr *domain.StorageMoveError
	require.ErrorAs(t, err, &moveErr)
	assert.Equal(t, domain.MovePhaseUpload, moveErr.Phase)
	assert.True(t, client.Has("drafts/42/shirt.png"))
}

func TestStorageService_MoveDeleteFailureStillSucceeds(t *testing.T) {
	svc, client := newStorage(t)
	client.Seed("drafts/42/shirt.png", []byte("shirt-bytes"), "image/png")
	client.DeleteErr = func(key string) error { return fmt.Errorf("access denied") }

	result, err := svc.MoveToFinalLocation(context.Background(), "drafts/42/shirt.png", service.FinalLocation{
		Supplier: "Acme", Catalog: "Summer", Category: "Shirts", Product: "Red Tee", ProductID: 7,
	})
	require.NoError(t, err)
	assert.True(t, client.Has(result.ObjectKey))
	// The stale source stays behind for the orphan scan.
	assert.True(t, client.Has("drafts/42/shirt.png"))
}

func TestStorageService_LazyInitSharedAcrossConcurrentCallers(t *testing.T) {
	svc, client := newStorage(t)
	ctx := context.Background()
	client.Seed("drafts/1/a.png", []byte("x"), "image/png")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.Exists(ctx, "drafts/1/a.png")
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, client.PingCalls)
}

func TestStorageService_InitFailureIsRetriedNextCall(t *testing.T) {
	svc, client := newStorage(t)
	ctx := context.Background()
	client.Seed("drafts/1/a.png", []byte("x"), "image/png")

	client.PingErr = func() error { return errors.New("no access") }
	assert.False(t, svc.Exists(ctx, "drafts/1/a.png"))

	client.PingErr = nil
	assert.True(t, svc.Exists(ctx, "drafts/1/a.png"))
	assert.Equal(t, 2, client.PingCalls)
}

func TestStorageService_URL(t *testing.T) {
	svc, _ := newStorage(t)
	assert.Equal(t,
		"https://cdn.example.com/files/acme/summer/shirts/tee_7/a.png",
		svc.URL("acme/summer/shirts/tee_7/a.png"))
}
