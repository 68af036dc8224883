package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"vendora/internal/domain"
	"vendora/internal/port"
)

// CartLine is one cart item joined with its product and line total.
type CartLine struct {
	ProductID  int64  `json:"product_id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Currency   string `json:"currency"`
	Quantity   int    `json:"quantity"`
	TotalCents int64  `json:"total_cents"`
}

// CartView is the full cart as returned to clients.
type CartView struct {
	CartID     uuid.UUID  `json:"cart_id"`
	Lines      []CartLine `json:"lines"`
	TotalCents int64      `json:"total_cents"`
}

// CartService manages each user's single open cart.
type CartService interface {
	Get(ctx context.Context, userID uuid.UUID) (*CartView, error)
	AddItem(ctx context.Context, userID uuid.UUID, productID int64, quantity int) (*CartView, error)
	RemoveItem(ctx context.Context, userID uuid.UUID, productID int64) (*CartView, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type cartService struct {
	carts    port.CartRepository
	products port.ProductRepository
}

// NewCartService creates a new CartService implementation.
func NewCartService(carts port.CartRepository, products port.ProductRepository) CartService {
	return &cartService{carts: carts, products: products}
}

func (s *cartService) Get(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	cart, err := s.carts.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("cartService.Get: %w", err)
	}
	return s.view(ctx, cart)
}

// AddItem sets the quantity for productID, replacing any existing line. A
// quantity of zero removes the line.
func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, productID int64, quantity int) (*CartView, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("cartService.AddItem: quantity must be non-negative")
	}

	cart, err := s.carts.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("cartService.AddItem: %w", err)
	}

	if quantity == 0 {
		if err := s.carts.RemoveItem(ctx, cart.ID, productID); err != nil {
			return nil, fmt.Errorf("cartService.AddItem: %w", err)
		}
		return s.view(ctx, cart)
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("cartService.AddItem: product %d: %w", productID, err)
	}
	if !product.IsActive {
		return nil, fmt.Errorf("cartService.AddItem: product %d: %w", productID, domain.ErrProductInactive)
	}

	item := &domain.CartItem{
		CartID:    cart.ID,
		ProductID: productID,
		Quantity:  quantity,
	}
	if err := s.carts.UpsertItem(ctx, item); err != nil {
		return nil, fmt.Errorf("cartService.AddItem: %w", err)
	}
	return s.view(ctx, cart)
}

func (s *cartService) RemoveItem(ctx context.Context, userID uuid.UUID, productID int64) (*CartView, error) {
	cart, err := s.carts.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("cartService.RemoveItem: %w", err)
	}
	if err := s.carts.RemoveItem(ctx, cart.ID, productID); err != nil {
		return nil, fmt.Errorf("cartService.RemoveItem: %w", err)
	}
	return s.view(ctx, cart)
}

func (s *cartService) Clear(ctx context.Context, userID uuid.UUID) error {
	cart, err := s.carts.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("cartService.Clear: %w", err)
	}
	if err := s.carts.Clear(ctx, cart.ID); err != nil {
		return fmt.Errorf("cartService.Clear: %w", err)
	}
	return nil
}

func (s *cartService) view(ctx context.Context, cart *domain.Cart) (*CartView, error) {
	items, err := s.carts.ListItems(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("listing cart items: %w", err)
	}

	view := &CartView{CartID: cart.ID, Lines: []CartLine{}}
	for _, item := range items {
		product, err := s.products.GetByID(ctx, item.ProductID)
		if err != nil {
			// The product vanished after it entered the cart; skip the line.
			continue
		}
		line := CartLine{
			ProductID:  product.ID,
			Name:       product.Name,
			PriceCents: product.PriceCents,
			Currency:   product.Currency,
			Quantity:   item.Quantity,
			TotalCents: product.PriceCents * int64(item.Quantity),
		}
		view.Lines = append(view.Lines, line)
		view.TotalCents += line.TotalCents
	}
	return view, nil
}
