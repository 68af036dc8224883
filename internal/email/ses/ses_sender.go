// Package ses sends transactional email through Amazon SES.
package ses

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"vendora/internal/config"
	"vendora/internal/domain"
	"vendora/internal/port"
)

type sesSender struct {
	client *sesv2.Client
	cfg    *config.EmailConfig
}

// NewSender creates an SES-backed EmailSender.
func NewSender(cfg *config.EmailConfig) (port.EmailSender, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return &sesSender{
		client: sesv2.NewFromConfig(awsCfg),
		cfg:    cfg,
	}, nil
}

func (s *sesSender) SendOrderConfirmation(ctx context.Context, toEmail, toName string, order *domain.Order, items []domain.OrderItem) error {
	subject := fmt.Sprintf("Order #%d confirmed", order.ID)
	body := buildOrderBody(toName, order, items)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.FromAddress)),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("ses send to %q: %w", toEmail, err)
	}
	return nil
}

func buildOrderBody(name string, order *domain.Order, items []domain.OrderItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nThanks for your order #%d.\n\n", name, order.ID)
	for _, item := range items {
		fmt.Fprintf(&b, "  %dx %s %s\n", item.Quantity, item.Name,
			formatCents(item.PriceCents*int64(item.Quantity), order.Currency))
	}
	fmt.Fprintf(&b, "\nTotal: %s\n", formatCents(order.TotalCents, order.Currency))
	return b.String()
}

func formatCents(cents int64, currency string) string {
	return fmt.Sprintf("%d.%02d %s", cents/100, cents%100, currency)
}
