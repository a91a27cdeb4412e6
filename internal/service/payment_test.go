package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIntents struct {
	amount   int64
	currency string
	err      error
}

func (f *fakeIntents) CreateIntent(_ context.Context, amount int64, currency string) (string, error) {
	f.amount, f.currency = amount, currency
	if f.err != nil {
		return "", f.err
	}
	return "pi_123_secret_456", nil
}

func TestPaymentService_Process(t *testing.T) {
	intents := &fakeIntents{}
	svc := &PaymentService{Intents: intents, PublishableKey: "pk_test"}

	secret, err := svc.Process(context.Background(), ProcessPaymentInput{Amount: 2599})
	require.NoError(t, err)
	assert.Equal(t, "pi_123_secret_456", secret)
	assert.Equal(t, int64(2599), intents.amount)
	assert.Equal(t, "usd", intents.currency)

	_, err = svc.Process(context.Background(), ProcessPaymentInput{})
	assertStatus(t, err, http.StatusBadRequest)

	intents.err = errors.New("card_declined")
	_, err = svc.Process(context.Background(), ProcessPaymentInput{Amount: 100})
	assertStatus(t, err, http.StatusInternalServerError)
}

func TestPaymentService_Disabled(t *testing.T) {
	svc := &PaymentService{}
	_, err := svc.Process(context.Background(), ProcessPaymentInput{Amount: 100})
	assertStatus(t, err, http.StatusServiceUnavailable)
}
