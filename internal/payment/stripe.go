package payment

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/client"
)

type StripeService struct {
	api            *client.API
	PublishableKey string
}

func NewStripeService(secretKey, publishableKey string) *StripeService {
	return &StripeService{
		api:            client.New(secretKey, nil),
		PublishableKey: publishableKey,
	}
}

// newStripeServiceWithBackend points the client at a custom API base URL.
func newStripeServiceWithBackend(secretKey, url string) *StripeService {
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(url),
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	})
	return &StripeService{api: client.New(secretKey, &stripe.Backends{
		API:     backend,
		Connect: backend,
		Uploads: backend,
	})}
}

// CreateIntent returns the client secret of a new payment intent.
func (s *StripeService) CreateIntent(ctx context.Context, amount int64, currency string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		Metadata: map[string]string{"company": "marketplace"},
	}
	params.Context = ctx

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return "", fmt.Errorf("create payment intent: %w", err)
	}
	return pi.ClientSecret, nil
}

func (s *StripeService) Key() string {
	return s.PublishableKey
}
