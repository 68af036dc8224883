package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"vendora/internal/domain"
)

// MockDraftRepo is a mock implementation of port.DraftRepository.
type MockDraftRepo struct {
	mock.Mock
}

func (m *MockDraftRepo) Create(ctx context.Context, d *domain.ProductDraft) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDraftRepo) GetByID(ctx context.Context, id int64) (*domain.ProductDraft, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProductDraft), args.Error(1)
}

func (m *MockDraftRepo) ListAll(ctx context.Context) ([]domain.ProductDraft, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ProductDraft), args.Error(1)
}

func (m *MockDraftRepo) ListBySupplier(ctx context.Context, supplierID int64, offset, limit int) ([]domain.ProductDraft, int, error) {
	args := m.Called(ctx, supplierID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ProductDraft), args.Int(1), args.Error(2)
}

func (m *MockDraftRepo) Update(ctx context.Context, d *domain.ProductDraft) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDraftRepo) UpdateImageKeys(ctx context.Context, id int64, keys domain.StringList) error {
	args := m.Called(ctx, id, keys)
	return args.Error(0)
}

func (m *MockDraftRepo) UpdateProductID(ctx context.Context, id int64, productID int64) error {
	args := m.Called(ctx, id, productID)
	return args.Error(0)
}

func (m *MockDraftRepo) UpdateStatus(ctx context.Context, id int64, status domain.DraftStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockDraftRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
