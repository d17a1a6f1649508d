package stubserver

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/paymentintent"

	"github.com/jovincart/storefront/models"
)

var (
	errIntentNotFound = errors.New("payment intent not found")
	errIntentConsumed = errors.New("payment intent already consumed")
	errBadSignature   = errors.New("payment signature mismatch")
)

// PaymentProvider issues intents and verifies payment proofs.
type PaymentProvider interface {
	CreateIntent(ctx context.Context, amountCents int64, currency string) (models.PaymentIntent, error)
	// Settle simulates the hosted payment widget: it charges the intent and
	// returns a signed proof. Only the stub provider supports it.
	Settle(ctx context.Context, intentID string) (models.PaymentProof, error)
	Verify(ctx context.Context, proof models.PaymentProof) error
}

// stubProvider fakes a gateway: intents live in memory and proofs carry an
// HMAC over intent and payment ids, mirroring how hosted gateways sign
// their callbacks. Each intent settles and verifies at most once.
type stubProvider struct {
	key      []byte
	mu       sync.Mutex
	intents  map[string]models.PaymentIntent
	settled  map[string]string // intentID -> paymentID
	consumed map[string]bool
}

func newStubProvider(key string) *stubProvider {
	return &stubProvider{
		key:      []byte(key),
		intents:  map[string]models.PaymentIntent{},
		settled:  map[string]string{},
		consumed: map[string]bool{},
	}
}

func (p *stubProvider) CreateIntent(ctx context.Context, amountCents int64, currency string) (models.PaymentIntent, error) {
	intent := models.PaymentIntent{
		ID:          "pi_" + uuid.NewString(),
		AmountCents: amountCents,
		Currency:    currency,
	}
	p.mu.Lock()
	p.intents[intent.ID] = intent
	p.mu.Unlock()
	return intent, nil
}

func (p *stubProvider) Settle(ctx context.Context, intentID string) (models.PaymentProof, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.intents[intentID]; !ok {
		return models.PaymentProof{}, errIntentNotFound
	}
	if p.consumed[intentID] || p.settled[intentID] != "" {
		return models.PaymentProof{}, errIntentConsumed
	}

	paymentID := "pay_" + uuid.NewString()
	p.settled[intentID] = paymentID
	return models.PaymentProof{
		IntentID:  intentID,
		PaymentID: paymentID,
		Signature: p.sign(intentID, paymentID),
	}, nil
}

func (p *stubProvider) Verify(ctx context.Context, proof models.PaymentProof) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.intents[proof.IntentID]; !ok {
		return errIntentNotFound
	}
	if p.consumed[proof.IntentID] {
		return errIntentConsumed
	}
	expected := p.sign(proof.IntentID, proof.PaymentID)
	if !hmac.Equal([]byte(expected), []byte(proof.Signature)) {
		return errBadSignature
	}

	// A valid proof verifies exactly once.
	p.consumed[proof.IntentID] = true
	return nil
}

func (p *stubProvider) sign(intentID, paymentID string) string {
	mac := hmac.New(sha256.New, p.key)
	mac.Write([]byte(intentID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// stripeProvider backs the same interface with real Stripe payment intents
// when a secret key is configured.
type stripeProvider struct{}

func newStripeProvider(secretKey string) *stripeProvider {
	stripe.Key = secretKey
	return &stripeProvider{}
}

func (p *stripeProvider) CreateIntent(ctx context.Context, amountCents int64, currency string) (models.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(currency),
	}
	pi, err := paymentintent.New(params)
	if err != nil {
		return models.PaymentIntent{}, err
	}
	return models.PaymentIntent{ID: pi.ID, AmountCents: amountCents, Currency: currency}, nil
}

func (p *stripeProvider) Settle(ctx context.Context, intentID string) (models.PaymentProof, error) {
	return models.PaymentProof{}, fmt.Errorf("live gateway: payment must go through the hosted widget")
}

func (p *stripeProvider) Verify(ctx context.Context, proof models.PaymentProof) error {
	pi, err := paymentintent.Get(proof.IntentID, nil)
	if err != nil {
		return err
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return fmt.Errorf("payment intent status %s", pi.Status)
	}
	return nil
}
