package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vendora/internal/domain"
	"vendora/internal/service"
	"vendora/mocks"
)

type orderFixture struct {
	orders   *mocks.MockOrderRepo
	carts    *mocks.MockCartRepo
	products *mocks.MockProductRepo
	users    *mocks.MockUserRepo
	email    *mocks.MockEmailSender
	svc      service.OrderService
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	f := &orderFixture{
		orders:   new(mocks.MockOrderRepo),
		carts:    new(mocks.MockCartRepo),
		products: new(mocks.MockProductRepo),
		users:    new(mocks.MockUserRepo),
		email:    new(mocks.MockEmailSender),
	}
	f.svc = service.NewOrderService(f.orders, f.carts, f.products, f.users, f.email)
	return f
}

func activeProduct(id int64, priceCents int64) *domain.Product {
	return &domain.Product{
		ID:         id,
		Name:       "Red Tee",
		PriceCents: priceCents,
		Currency:   "USD",
		IsActive:   true,
	}
}

func TestOrderService_Checkout_Success(t *testing.T) {
	f := newOrderFixture(t)
	userID := uuid.New()
	cartID := uuid.New()
	cart := &domain.Cart{ID: cartID, UserID: userID}

	f.carts.On("GetOrCreateByUser", mock.Anything, userID).Return(cart, nil)
	f.carts.On("ListItems", mock.Anything, cartID).Return([]domain.CartItem{
		{CartID: cartID, ProductID: 7, Quantity: 2},
		{CartID: cartID, ProductID: 8, Quantity: 1},
	}, nil)
	f.products.On("GetByID", mock.Anything, int64(7)).Return(activeProduct(7, 1999), nil)
	f.products.On("GetByID", mock.Anything, int64(8)).Return(activeProduct(8, 500), nil)

	f.orders.On("Create", mock.Anything, mock.AnythingOfType("*domain.Order"),
		mock.AnythingOfType("[]domain.OrderItem")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Order).ID = 101
		}).Return(nil)
	f.orders.On("ListItems", mock.Anything, int64(101)).Return([]domain.OrderItem{
		{OrderID: 101, ProductID: 7, Name: "Red Tee", PriceCents: 1999, Quantity: 2},
		{OrderID: 101, ProductID: 8, Name: "Red Tee", PriceCents: 500, Quantity: 1},
	}, nil)
	f.carts.On("Clear", mock.Anything, cartID).Return(nil)
	f.users.On("GetByID", mock.Anything, userID).Return(&domain.User{
		ID: userID, Email: "buyer@example.com", FullName: "Buyer",
	}, nil)
	f.email.On("SendOrderConfirmation", mock.Anything, "buyer@example.com", "Buyer",
		mock.AnythingOfType("*domain.Order"), mock.AnythingOfType("[]domain.OrderItem")).Return(nil)

	order, err := f.svc.Checkout(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, int64(101), order.ID)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	// 2 * 1999 + 1 * 500, snapshotted at checkout time.
	assert.Equal(t, int64(4498), order.TotalCents)
	assert.Len(t, order.Items, 2)

	f.carts.AssertExpectations(t)
	f.email.AssertExpectations(t)
}

func TestOrderService_Checkout_EmptyCart(t *testing.T) {
	f := newOrderFixture(t)
	userID := uuid.New()
	cart := &domain.Cart{ID: uuid.New(), UserID: userID}

	f.carts.On("GetOrCreateByUser", mock.Anything, userID).Return(cart, nil)
	f.carts.On("ListItems", mock.Anything, cart.ID).Return([]domain.CartItem{}, nil)

	_, err := f.svc.Checkout(context.Background(), userID)
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
}

func TestOrderService_Checkout_InactiveProduct(t *testing.T) {
	f := newOrderFixture(t)
	userID := uuid.New()
	cart := &domain.Cart{ID: uuid.New(), UserID: userID}
	inactive := activeProduct(7, 1999)
	inactive.IsActive = false

	f.carts.On("GetOrCreateByUser", mock.Anything, userID).Return(cart, nil)
	f.carts.On("ListItems", mock.Anything, cart.ID).Return([]domain.CartItem{
		{CartID: cart.ID, ProductID: 7, Quantity: 1},
	}, nil)
	f.products.On("GetByID", mock.Anything, int64(7)).Return(inactive, nil)

	_, err := f.svc.Checkout(context.Background(), userID)
	assert.ErrorIs(t, err, domain.ErrProductInactive)
	f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_Checkout_EmailFailureDoesNotFailOrder(t *testing.T) {
	f := newOrderFixture(t)
	userID := uuid.New()
	cart := &domain.Cart{ID: uuid.New(), UserID: userID}

	f.carts.On("GetOrCreateByUser", mock.Anything, userID).Return(cart, nil)
	f.carts.On("ListItems", mock.Anything, cart.ID).Return([]domain.CartItem{
		{CartID: cart.ID, ProductID: 7, Quantity: 1},
	}, nil)
	f.products.On("GetByID", mock.Anything, int64(7)).Return(activeProduct(7, 1999), nil)
	f.orders.On("Create", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Order).ID = 102
		}).Return(nil)
	f.orders.On("ListItems", mock.Anything, int64(102)).Return([]domain.OrderItem{
		{OrderID: 102, ProductID: 7, Quantity: 1},
	}, nil)
	f.carts.On("Clear", mock.Anything, cart.ID).Return(nil)
	f.users.On("GetByID", mock.Anything, userID).Return(&domain.User{
		ID: userID, Email: "buyer@example.com",
	}, nil)
	f.email.On("SendOrderConfirmation", mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything).Return(assert.AnError)

	order, err := f.svc.Checkout(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(102), order.ID)
}

func TestOrderService_UpdateStatus_Invalid(t *testing.T) {
	f := newOrderFixture(t)

	err := f.svc.UpdateStatus(context.Background(), 1, domain.OrderStatus("teleported"))
	assert.ErrorIs(t, err, domain.ErrInvalidOrderStatus)
	f.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_UpdateStatus_Success(t *testing.T) {
	f := newOrderFixture(t)
	f.orders.On("GetByID", mock.Anything, int64(5)).Return(&domain.Order{ID: 5}, nil)
	f.orders.On("UpdateStatus", mock.Anything, int64(5), domain.OrderStatusShipped).Return(nil)

	err := f.svc.UpdateStatus(context.Background(), 5, domain.OrderStatusShipped)
	assert.NoError(t, err)
	f.orders.AssertExpectations(t)
}
