package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jovincart/storefront/apperrors"
	"github.com/jovincart/storefront/cart"
	"github.com/jovincart/storefront/models"
)

// fakeBackend implements PaymentAPI, OrderAPI and cart.RemoteAPI so one
// object can observe the whole flow.
type fakeBackend struct {
	intent    models.PaymentIntent
	intentErr error
	verifyErr error
	placeErr  error
	clearErr  error

	verifyCalls []models.PaymentProof
	placedLines []models.CartLine
	placeCalls  int
	clearCalls  int
}

func (f *fakeBackend) RequestPaymentIntent(ctx context.Context, amountCents int64) (models.PaymentIntent, error) {
	if f.intentErr != nil {
		return models.PaymentIntent{}, f.intentErr
	}
	if f.intent.ID == "" {
		f.intent = models.PaymentIntent{ID: "pi_test", AmountCents: amountCents, Currency: "inr"}
	}
	return f.intent, nil
}

func (f *fakeBackend) VerifyPayment(ctx context.Context, proof models.PaymentProof) error {
	f.verifyCalls = append(f.verifyCalls, proof)
	return f.verifyErr
}

func (f *fakeBackend) PlaceOrder(ctx context.Context, userID string, lines []models.CartLine) error {
	f.placeCalls++
	if f.placeErr != nil {
		return f.placeErr
	}
	f.placedLines = append([]models.CartLine(nil), lines...)
	return nil
}

func (f *fakeBackend) ClearCart(ctx context.Context, userID string) error {
	f.clearCalls++
	return f.clearErr
}

// cart.RemoteAPI so the synchronizer under test talks to the same fake.
func (f *fakeBackend) FetchCart(ctx context.Context, userID string) ([]models.CartLine, error) {
	return nil, nil
}
func (f *fakeBackend) AddToCart(ctx context.Context, userID string, line models.CartLine) error {
	return nil
}
func (f *fakeBackend) IncreaseCart(ctx context.Context, userID, productID string) error { return nil }
func (f *fakeBackend) DecreaseCart(ctx context.Context, userID, productID string) error { return nil }
func (f *fakeBackend) RemoveFromCart(ctx context.Context, userID, productID string) error {
	return nil
}

// okWidget immediately reports a successful payment.
type okWidget struct{ opened []models.PaymentIntent }

func (w *okWidget) Open(ctx context.Context, intent models.PaymentIntent) (models.PaymentProof, error) {
	w.opened = append(w.opened, intent)
	return models.PaymentProof{IntentID: intent.ID, PaymentID: "pay_1", Signature: "sig"}, nil
}

// cancelWidget simulates the user closing the payment popup.
type cancelWidget struct{}

func (cancelWidget) Open(ctx context.Context, intent models.PaymentIntent) (models.PaymentProof, error) {
	return models.PaymentProof{}, ErrCancelled
}

func seededCart(t *testing.T, backend *fakeBackend) *cart.Synchronizer {
	t.Helper()
	c := cart.NewSynchronizer(backend, "jovin@example.com", zap.NewNop())
	ctx := context.Background()
	require.NoError(t, c.Add(ctx, models.CartLine{ProductID: "p1", ProductName: "One", UnitPriceCents: 200}))
	require.NoError(t, c.Increment(ctx, "p1"))
	require.NoError(t, c.Add(ctx, models.CartLine{ProductID: "p2", ProductName: "Two", UnitPriceCents: 150}))
	return c
}

func TestSuccessfulCheckout(t *testing.T) {
	backend := &fakeBackend{}
	widget := &okWidget{}
	c := seededCart(t, backend)
	o := NewOrchestrator(backend, backend, widget, c, zap.NewNop())

	result, err := o.Run(context.Background(), "jovin@example.com")
	require.NoError(t, err)

	assert.True(t, result.OrderPlaced)
	assert.False(t, result.CartClearDeferred)
	assert.Equal(t, int64(550), result.AmountCents)

	require.Len(t, widget.opened, 1)
	assert.Equal(t, int64(550), widget.opened[0].AmountCents)
	assert.Equal(t, 1, backend.placeCalls)
	assert.Len(t, backend.placedLines, 2)
	assert.Equal(t, 1, backend.clearCalls)
	assert.Empty(t, c.Lines(), "local mirror reset after checkout")
}

func TestVerifyFailureStopsFlow(t *testing.T) {
	backend := &fakeBackend{verifyErr: apperrors.ErrPaymentNotVerified}
	c := seededCart(t, backend)
	o := NewOrchestrator(backend, backend, &okWidget{}, c, zap.NewNop())

	_, err := o.Run(context.Background(), "jovin@example.com")
	assert.ErrorIs(t, err, apperrors.ErrPaymentNotVerified)

	assert.Zero(t, backend.placeCalls, "no order may be placed on failed verification")
	assert.Zero(t, backend.clearCalls)
	assert.Len(t, c.Lines(), 2, "cart unchanged")
	assert.Equal(t, int64(550), c.Total())
}

func TestClearCartFailureIsNonFatal(t *testing.T) {
	backend := &fakeBackend{clearErr: errors.New("network down")}
	c := seededCart(t, backend)
	o := NewOrchestrator(backend, backend, &okWidget{}, c, zap.NewNop())

	result, err := o.Run(context.Background(), "jovin@example.com")
	require.NoError(t, err, "order placed means checkout succeeded")

	assert.True(t, result.OrderPlaced)
	assert.True(t, result.CartClearDeferred)
	assert.Empty(t, c.Lines(), "local mirror still reset; server cart reconciles on next refresh")
}

func TestUserCancellationLeavesCartUntouched(t *testing.T) {
	backend := &fakeBackend{}
	c := seededCart(t, backend)
	o := NewOrchestrator(backend, backend, cancelWidget{}, c, zap.NewNop())

	_, err := o.Run(context.Background(), "jovin@example.com")
	assert.ErrorIs(t, err, ErrCancelled)

	assert.Empty(t, backend.verifyCalls)
	assert.Zero(t, backend.placeCalls)
	assert.Len(t, c.Lines(), 2)
}

func TestPlaceOrderFailureDoesNotClearCart(t *testing.T) {
	backend := &fakeBackend{placeErr: errors.New("order service down")}
	c := seededCart(t, backend)
	o := NewOrchestrator(backend, backend, &okWidget{}, c, zap.NewNop())

	_, err := o.Run(context.Background(), "jovin@example.com")
	require.Error(t, err)

	assert.Zero(t, backend.clearCalls, "no cart clear without a placed order")
	assert.Len(t, c.Lines(), 2)
}

func TestEmptyCartRejected(t *testing.T) {
	backend := &fakeBackend{}
	c := cart.NewSynchronizer(backend, "jovin@example.com", zap.NewNop())
	o := NewOrchestrator(backend, backend, &okWidget{}, c, zap.NewNop())

	_, err := o.Run(context.Background(), "jovin@example.com")
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestIntentRequestFailureStopsFlow(t *testing.T) {
	backend := &fakeBackend{intentErr: apperrors.ErrNetworkUnavailable}
	c := seededCart(t, backend)
	widget := &okWidget{}
	o := NewOrchestrator(backend, backend, widget, c, zap.NewNop())

	_, err := o.Run(context.Background(), "jovin@example.com")
	assert.ErrorIs(t, err, apperrors.ErrNetworkUnavailable)
	assert.Empty(t, widget.opened)
	assert.Len(t, c.Lines(), 2)
}
