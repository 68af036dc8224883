package port

import (
	"context"

	"vendora/internal/domain"
)

// EmailSender abstracts transactional email delivery.
type EmailSender interface {
	SendOrderConfirmation(ctx context.Context, toEmail, toName string, order *domain.Order, items []domain.OrderItem) error
}
