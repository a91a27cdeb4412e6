package service

import (
	"context"

	"github.com/Skotchmaster/marketplace/internal/apperr"
)

const paymentCurrency = "usd"

type PaymentService struct {
	// Intents is nil when no Stripe key is configured.
	Intents        PaymentIntents
	PublishableKey string
}

type ProcessPaymentInput struct {
	Amount int64 `json:"amount" validate:"gt=0"`
}

func (s *PaymentService) Process(ctx context.Context, in ProcessPaymentInput) (string, error) {
	if err := validateInput(in); err != nil {
		return "", err
	}
	if s.Intents == nil {
		return "", apperr.Unavailable("payments are disabled")
	}
	secret, err := s.Intents.CreateIntent(ctx, in.Amount, paymentCurrency)
	if err != nil {
		return "", apperr.Internal(err)
	}
	return secret, nil
}
