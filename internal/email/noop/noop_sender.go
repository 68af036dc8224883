// Package noop logs email sends instead of delivering them. Default for
// development environments without SES credentials.
package noop

import (
	"context"
	"log"

	"vendora/internal/domain"
	"vendora/internal/port"
)

type noopSender struct{}

// NewSender creates an EmailSender that only logs.
func NewSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendOrderConfirmation(ctx context.Context, toEmail, toName string, order *domain.Order, items []domain.OrderItem) error {
	log.Printf("noopSender.SendOrderConfirmation: order %d to %s (%d items, total %d %s)",
		order.ID, toEmail, len(items), order.TotalCents, order.Currency)
	return nil
}
