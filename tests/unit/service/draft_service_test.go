package service_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vendora/internal/config"
	"vendora/internal/domain"
	"vendora/internal/service"
	"vendora/mocks"
)

func testImageConfig() *config.ImageConfig {
	return &config.ImageConfig{
		MaxWidth:  1600,
		MaxHeight: 1600,
		Quality:   82,
		Format:    "jpeg",
		Fit:       "contain",
	}
}

type draftFixture struct {
	drafts    *mocks.MockDraftRepo
	suppliers *mocks.MockSupplierRepo
	catalogs  *mocks.MockCatalogRepo
	cats      *mocks.MockCategoryRepo
	products  *mocks.MockProductRepo
	images    *mocks.MockProductImageRepo
	client    *mocks.FakeObjectClient
	svc       service.DraftService
}

func newDraftFixture(t *testing.T) *draftFixture {
	t.Helper()
	f := &draftFixture{
		drafts:    new(mocks.MockDraftRepo),
		suppliers: new(mocks.MockSupplierRepo),
		catalogs:  new(mocks.MockCatalogRepo),
		cats:      new(mocks.MockCategoryRepo),
		products:  new(mocks.MockProductRepo),
		images:    new(mocks.MockProductImageRepo),
		client:    mocks.NewFakeObjectClient(),
	}
	storage := service.NewStorageService(f.client, testStorageConfig())
	f.svc = service.NewDraftService(
		f.drafts, f.suppliers, f.catalogs, f.cats,
		f.products, f.images, storage,
		mocks.PassthroughImageProcessor{}, testImageConfig(), 20,
	)
	return f
}

func openDraft(id int64, keys ...string) *domain.ProductDraft {
	return &domain.ProductDraft{
		ID:              id,
		SupplierID:      1,
		CatalogID:       2,
		CategoryID:      3,
		Name:            "Red Tee",
		PriceCents:      1999,
		Currency:        "USD",
		ImageObjectKeys: domain.StringList(keys),
		Status:          domain.DraftStatusOpen,
		CreatedAt:       time.Now(),
	}
}

func TestDraftService_UploadImages_Success(t *testing.T) {
	f := newDraftFixture(t)
	f.drafts.On("GetByID", mock.Anything, int64(42)).Return(openDraft(42), nil)
	f.drafts.On("UpdateImageKeys", mock.Anything, int64(42),
		mock.MatchedBy(func(keys domain.StringList) bool { return len(keys) == 2 })).Return(nil)

	results, err := f.svc.UploadImages(context.Background(), 42, []service.DraftImageUpload{
		{Filename: "shirt.png", ContentType: "image/png", Data: []byte("a")},
		{Filename: "back.jpg", ContentType: "image/jpeg", Data: []byte("b")},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	for _, r := range results {
		assert.Empty(t, r.Error)
		assert.NotEmpty(t, r.ObjectKey)
		assert.NotEmpty(t, r.URL)
		assert.True(t, f.client.Has(r.ObjectKey))
	}
	f.drafts.AssertExpectations(t)
}

func TestDraftService_UploadImages_BadFileDoesNotFailBatch(t *testing.T) {
	f := newDraftFixture(t)
	f.drafts.On("GetByID", mock.Anything, int64(42)).Return(openDraft(42), nil)
	f.drafts.On("UpdateImageKeys", mock.Anything, int64(42),
		mock.MatchedBy(func(keys domain.StringList) bool { return len(keys) == 1 })).Return(nil)

	results, err := f.svc.UploadImages(context.Background(), 42, []service.DraftImageUpload{
		{Filename: "notes.txt", ContentType: "text/plain", Data: []byte("a")},
		{Filename: "shirt.png", ContentType: "image/png", Data: []byte("b")},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.NotEmpty(t, results[0].Error)
	assert.Empty(t, results[0].ObjectKey)
	assert.Empty(t, results[1].Error)
	assert.True(t, f.client.Has(results[1].ObjectKey))
}

func TestDraftService_UploadImages_RejectsOversized(t *testing.T) {
	f := newDraftFixture(t)
	f.drafts.On("GetByID", mock.Anything, int64(42)).Return(openDraft(42), nil)

	big := make([]byte, 21*1024*1024)
	results, err := f.svc.UploadImages(context.Background(), 42, []service.DraftImageUpload{
		{Filename: "huge.png", ContentType: "image/png", Data: big},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, domain.ErrImageTooLarge.Error(), results[0].Error)
	assert.Empty(t, f.client.Keys())
}

func TestDraftService_UploadImages_NotOpen(t *testing.T) {
	f := newDraftFixture(t)
	published := openDraft(42)
	published.Status = domain.DraftStatusPublished
	f.drafts.On("GetByID", mock.Anything, int64(42)).Return(published, nil)

	_, err := f.svc.UploadImages(context.Background(), 42, []service.DraftImageUpload{
		{Filename: "shirt.png", ContentType: "image/png", Data: []byte("a")},
	})
	assert.ErrorIs(t, err, domain.ErrDraftNotOpen)
}

func TestDraftService_Publish_MigratesImages(t *testing.T) {
	f := newDraftFixture(t)
	f.client.Seed("drafts/42/shirt.png", []byte("front"), "image/png")
	f.client.Seed("drafts/42/back.png", []byte("back"), "image/png")

	draft := openDraft(42, "drafts/42/shirt.png", "drafts/42/back.png")
	f.drafts.On("GetByID", mock.Anything, int64(42)).Return(draft, nil)
	f.suppliers.On("GetByID", mock.Anything, int64(1)).Return(&domain.Supplier{ID: 1, Name: "Acme Co"}, nil)
	f.catalogs.On("GetByID", mock.Anything, int64(2)).Return(&domain.Catalog{ID: 2, Name: "Summer"}, nil)
	f.cats.On("GetByID", mock.Anything, int64(3)).Return(&domain.Category{ID: 3, Name: "Shirts"}, nil)

	f.products.On("Create", mock.Anything, mock.AnythingOfType("*domain.Product")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Product).ID = 7
		}).Return(nil)
	f.drafts.On("UpdateProductID", mock.Anything, int64(42), int64(7)).Return(nil)
	f.images.On("ListByProduct", mock.Anything, int64(7)).Return([]domain.ProductImage{}, nil)

	var created []domain.ProductImage
	f.images.On("Create", mock.Anything, mock.AnythingOfType("*domain.ProductImage")).
		Run(func(args mock.Arguments) {
			created = append(created, *args.Get(1).(*domain.ProductImage))
		}).Return(nil)

	f.drafts.On("UpdateImageKeys", mock.Anything, int64(42), domain.StringList{}).Return(nil)
	f.drafts.On("UpdateStatus", mock.Anything, int64(42), domain.DraftStatusPublished).Return(nil)

	product, err := f.svc.Publish(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(7), product.ID)
	assert.True(t, product.IsActive)

	assert.True(t, f.client.Has("acme-co/summer/shirts/red-tee_7/shirt.png"))
	assert.True(t, f.client.Has("acme-co/summer/shirts/red-tee_7/back.png"))
	assert.False(t, f.client.Has("drafts/42/shirt.png"))
	assert.False(t, f.client.Has("drafts/42/back.png"))

	require.Len(t, created, 2)
	assert.Equal(t, "acme-co/summer/shirts/red-tee_7/shirt.png", created[0].ObjectKey)
	assert.True(t, created[0].IsMain)
	assert.Equal(t, 0, created[0].SortOrder)
	assert.False(t, created[1].IsMain)
	assert.Equal(t, 1, created[1].SortOrder)

	f.drafts.AssertExpectations(t)
}

func TestDraftService_Publish_RetryAfterPartialFailureReusesProduct(t *testing.T) {
	f := newDraftFixture(t)
	f.client.Seed("drafts/42/shirt.png", []byte("front"), "image/png")
	f.client.Seed("drafts/42/back.png", []byte("back"), "image/png")

	draft := openDraft(42, "drafts/42/shirt.png", "drafts/42/back.png")
	f.drafts.On("GetByID", mock.Anything, int64(42)).Return(draft, nil)
	f.suppliers.On("GetByID", mock.Anything, int64(1)).Return(&domain.Supplier{ID: 1, Name: "Acme Co"}, nil)
	f.catalogs.On("GetByID", mock.Anything, int64(2)).Return(&domain.Catalog{ID: 2, Name: "Summer"}, nil)
	f.cats.On("GetByID", mock.Anything, int64(3)).Return(&domain.Category{ID: 3, Name: "Shirts"}, nil)

	f.products.On("Create", mock.Anything, mock.AnythingOfType("*domain.Product")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Product).ID = 101
		}).Return(nil)
	f.drafts.On("UpdateProductID", mock.Anything, int64(42), int64(101)).Return(nil)

	var created []domain.ProductImage
	f.images.On("Create", mock.Anything, mock.AnythingOfType("*domain.ProductImage")).
		Run(func(args mock.Arguments) {
			created = append(created, *args.Get(1).(*domain.ProductImage))
		}).Return(nil)
	f.images.On("ListByProduct", mock.Anything, int64(101)).
		Return([]domain.ProductImage{}, nil).Once()
	f.drafts.On("UpdateImageKeys", mock.Anything, int64(42),
		domain.StringList{"drafts/42/back.png"}).Return(nil).Once()

	// First attempt: one of the two destination writes fails.
	f.client.PutErr = func(key string) error {
		if strings.Contains(key, "back.png") {
			return fmt.Errorf("backend down")
		}
		return nil
	}
	_, err := f.svc.Publish(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, f.client.Has("acme-co/summer/shirts/red-tee_101/shirt.png"))
	assert.True(t, f.client.Has("drafts/42/back.png"))

	// The draft now carries the product id and only the unmoved key.
	f.client.PutErr = nil
	pid := int64(101)
	draft.ProductID = &pid
	draft.ImageObjectKeys = domain.StringList{"drafts/42/back.png"}

	f.products.On("GetByID", mock.Anything, int64(101)).Return(&domain.Product{
		ID: 101, Name: "Red Tee", IsActive: true,
	}, nil)
	f.images.On("ListByProduct", mock.Anything, int64(101)).
		Return([]domain.ProductImage{{ProductID: 101, IsMain: true, SortOrder: 0}}, nil).Once()
	f.drafts.On("UpdateImageKeys", mock.Anything, int64(42), domain.StringList{}).Return(nil).Once()
	f.drafts.On("UpdateStatus", mock.Anything, int64(42), domain.DraftStatusPublished).Return(nil)

	product, err := f.svc.Publish(context.Background(), 42)
	require.NoError(t, err)

	// The retry resumed against the same product row.
	assert.Equal(t, int64(101), product.ID)
	f.products.AssertNumberOfCalls(t, "Create", 1)
	assert.True(t, f.client.Has("acme-co/summer/shirts/red-tee_101/back.png"))
	assert.False(t, f.client.Has("drafts/42/back.png"))

	// The resumed image slots in after the already-recorded one.
	require.Len(t, created, 2)
	assert.False(t, created[1].IsMain)
	assert.Equal(t, 1, created[1].SortOrder)
	f.drafts.AssertExpectations(t)
}

func TestDraftService_Publish_RowFailureLeavesNoVanishedKeyTracked(t *testing.T) {
	f := newDraftFixture(t)
	f.client.Seed("drafts/42/shirt.png", []byte("front"), "image/png")

	draft := openDraft(42, "drafts/42/shirt.png")
	f.drafts.On("GetByID", mock.Anything, int64(42)).Return(draft, nil)
	f.suppliers.On("GetByID", mock.Anything, int64(1)).Return(&domain.Supplier{ID: 1, Name: "Acme Co"}, nil)
	f.catalogs.On("GetByID", mock.Anything, int64(2)).Return(&domain.Catalog{ID: 2, Name: "Summer"}, nil)
	f.cats.On("GetByID", mock.Anything, int64(3)).Return(&domain.Category{ID: 3, Name: "Shirts"}, nil)

	f.products.On("Create", mock.Anything, mock.AnythingOfType("*domain.Product")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Product).ID = 7
		}).Return(nil)
	f.drafts.On("UpdateProductID", mock.Anything, int64(42), int64(7)).Return(nil)
	f.images.On("ListByProduct", mock.Anything, int64(7)).Return([]domain.ProductImage{}, nil)
	f.drafts.On("UpdateImageKeys", mock.Anything, int64(42), domain.StringList{}).Return(nil)
	f.images.On("Create", mock.Anything, mock.Anything).Return(assert.AnError)

	_, err := f.svc.Publish(context.Background(), 42)
	require.Error(t, err)

	// The moved source is gone, so it must already be untracked.
	f.drafts.AssertCalled(t, "UpdateImageKeys", mock.Anything, int64(42), domain.StringList{})
	f.drafts.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestDraftService_Publish_NoImages(t *testing.T) {
	f := newDraftFixture(t)
	f.drafts.On("GetByID", mock.Anything, int64(42)).Return(openDraft(42), nil)

	_, err := f.svc.Publish(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrDraftHasNoImages)
}

func TestDraftService_Publish_NotOpen(t *testing.T) {
	f := newDraftFixture(t)
	discarded := openDraft(42, "drafts/42/a.png")
	discarded.Status = domain.DraftStatusDiscarded
	f.drafts.On("GetByID", mock.Anything, int64(42)).Return(discarded, nil)

	_, err := f.svc.Publish(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrDraftNotOpen)
}

func TestDraftService_Discard_DeletesImages(t *testing.T) {
	f := newDraftFixture(t)
	f.client.Seed("drafts/42/a.png", []byte("x"), "image/png")
	f.client.Seed("drafts/42/b.png", []byte("x"), "image/png")

	draft := openDraft(42, "drafts/42/a.png", "drafts/42/b.png")
	f.drafts.On("GetByID", mock.Anything, int64(42)).Return(draft, nil)
	f.drafts.On("UpdateImageKeys", mock.Anything, int64(42), domain.StringList{}).Return(nil)
	f.drafts.On("UpdateStatus", mock.Anything, int64(42), domain.DraftStatusDiscarded).Return(nil)

	err := f.svc.Discard(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, f.client.Keys())
	f.drafts.AssertExpectations(t)
}

func TestDraftService_CleanupOrphans_RemovesUntrackedOnly(t *testing.T) {
	f := newDraftFixture(t)
	f.client.Seed("drafts/1/tracked.png", []byte("x"), "image/png")
	f.client.Seed("drafts/1/orphan.png", []byte("x"), "image/png")
	f.client.Seed("drafts/99/stale.png", []byte("x"), "image/png")

	f.drafts.On("ListAll", mock.Anything).Return([]domain.ProductDraft{
		*openDraft(1, "drafts/1/tracked.png"),
	}, nil)

	removed, err := f.svc.CleanupOrphans(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Equal(t, []string{"drafts/1/tracked.png"}, f.client.Keys())
}

func TestDraftService_Create_ValidatesReferences(t *testing.T) {
	f := newDraftFixture(t)
	f.suppliers.On("GetByID", mock.Anything, int64(1)).Return(nil, domain.ErrNotFound)

	_, err := f.svc.Create(context.Background(), service.CreateDraftInput{
		SupplierID: 1, CatalogID: 2, CategoryID: 3, Name: "Tee", PriceCents: 100,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
