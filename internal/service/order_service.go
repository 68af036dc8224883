package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"vendora/internal/domain"
	"vendora/internal/port"
)

// OrderWithItems bundles an order and its line items.
type OrderWithItems struct {
	domain.Order
	Items []domain.OrderItem `json:"items"`
}

// OrderService turns carts into orders and manages the order lifecycle.
type OrderService interface {
	Checkout(ctx context.Context, userID uuid.UUID) (*OrderWithItems, error)
	GetByID(ctx context.Context, id int64) (*OrderWithItems, error)
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Order, int, error)
	ListAll(ctx context.Context, offset, limit int) ([]domain.Order, int, error)
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error
}

type orderService struct {
	orders   port.OrderRepository
	carts    port.CartRepository
	products port.ProductRepository
	users    port.UserRepository
	email    port.EmailSender
}

// NewOrderService creates a new OrderService implementation.
func NewOrderService(
	orders port.OrderRepository,
	carts port.CartRepository,
	products port.ProductRepository,
	users port.UserRepository,
	email port.EmailSender,
) OrderService {
	return &orderService{
		orders:   orders,
		carts:    carts,
		products: products,
		users:    users,
		email:    email,
	}
}

// Checkout snapshots the user's cart into an order at current prices, clears
// the cart, and sends a confirmation email. Inactive products in the cart
// fail the checkout rather than being silently dropped.
func (s *orderService) Checkout(ctx context.Context, userID uuid.UUID) (*OrderWithItems, error) {
	cart, err := s.carts.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("orderService.Checkout: %w", err)
	}
	cartItems, err := s.carts.ListItems(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("orderService.Checkout: %w", err)
	}
	if len(cartItems) == 0 {
		return nil, fmt.Errorf("orderService.Checkout: %w", domain.ErrEmptyCart)
	}

	var (
		items    []domain.OrderItem
		total    int64
		currency string
	)
	for _, ci := range cartItems {
		product, err := s.products.GetByID(ctx, ci.ProductID)
		if err != nil {
			return nil, fmt.Errorf("orderService.Checkout: product %d: %w", ci.ProductID, err)
		}
		if !product.IsActive {
			return nil, fmt.Errorf("orderService.Checkout: product %d: %w", ci.ProductID, domain.ErrProductInactive)
		}
		items = append(items, domain.OrderItem{
			ProductID:  product.ID,
			Name:       product.Name,
			PriceCents: product.PriceCents,
			Quantity:   ci.Quantity,
		})
		total += product.PriceCents * int64(ci.Quantity)
		if currency == "" {
			currency = product.Currency
		}
	}

	order := &domain.Order{
		UserID:     userID,
		Status:     domain.OrderStatusPending,
		TotalCents: total,
		Currency:   currency,
	}
	if err := s.orders.Create(ctx, order, items); err != nil {
		return nil, fmt.Errorf("orderService.Checkout: %w", err)
	}

	if err := s.carts.Clear(ctx, cart.ID); err != nil {
		log.Printf("orderService.Checkout: clearing cart %s: %v", cart.ID, err)
	}

	created, err := s.orders.ListItems(ctx, order.ID)
	if err != nil {
		log.Printf("orderService.Checkout: listing items for order %d: %v", order.ID, err)
		created = items
	}

	if user, err := s.users.GetByID(ctx, userID); err == nil {
		if err := s.email.SendOrderConfirmation(ctx, user.Email, user.FullName, order, created); err != nil {
			log.Printf("orderService.Checkout: confirmation email for order %d: %v", order.ID, err)
		}
	}

	return &OrderWithItems{Order: *order, Items: created}, nil
}

func (s *orderService) GetByID(ctx context.Context, id int64) (*OrderWithItems, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("orderService.GetByID: %w", err)
	}
	items, err := s.orders.ListItems(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("orderService.GetByID: listing items: %w", err)
	}
	return &OrderWithItems{Order: *order, Items: items}, nil
}

func (s *orderService) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Order, int, error) {
	orders, total, err := s.orders.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("orderService.ListByUser: %w", err)
	}
	return orders, total, nil
}

func (s *orderService) ListAll(ctx context.Context, offset, limit int) ([]domain.Order, int, error) {
	orders, total, err := s.orders.ListAll(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("orderService.ListAll: %w", err)
	}
	return orders, total, nil
}

func (s *orderService) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("orderService.UpdateStatus: %q: %w", status, domain.ErrInvalidOrderStatus)
	}
	if _, err := s.orders.GetByID(ctx, id); err != nil {
		return fmt.Errorf("orderService.UpdateStatus: %w", err)
	}
	if err := s.orders.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("orderService.UpdateStatus: %w", err)
	}
	return nil
}
