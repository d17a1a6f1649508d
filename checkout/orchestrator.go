// Package checkout drives the payment-to-order protocol: request an intent,
// hand it to the payment widget, verify the proof, place the order, clear the
// cart. Each step is gated on the previous one; verification failures stop
// the flow cold.
package checkout

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jovincart/storefront/apperrors"
	"github.com/jovincart/storefront/cart"
	"github.com/jovincart/storefront/models"
)

// ErrCancelled is returned by a Widget when the user dismisses it. The cart
// is left untouched; nothing was charged.
var ErrCancelled = errors.New("checkout: payment cancelled by user")

// ErrEmptyCart rejects a checkout with nothing in it.
var ErrEmptyCart = errors.New("checkout: cart is empty")

// PaymentAPI is the backend's payment surface. *gateway.Client satisfies it.
type PaymentAPI interface {
	RequestPaymentIntent(ctx context.Context, amountCents int64) (models.PaymentIntent, error)
	VerifyPayment(ctx context.Context, proof models.PaymentProof) error
}

// OrderAPI is the backend's order surface. *gateway.Client satisfies it.
type OrderAPI interface {
	PlaceOrder(ctx context.Context, userID string, lines []models.CartLine) error
	ClearCart(ctx context.Context, userID string) error
}

// Widget is the payment gateway capability: it presents an intent to the user
// and blocks until the gateway reports a result. The wait is user-driven and
// unbounded; cancellation surfaces as ErrCancelled. An intent is consumed by
// exactly one Open call.
type Widget interface {
	Open(ctx context.Context, intent models.PaymentIntent) (models.PaymentProof, error)
}

// Result reports a completed checkout. CartClearDeferred means the order was
// placed but the server-side cart clear failed; the stale server cart is
// corrected by the next refresh and the caller may want to say so.
type Result struct {
	OrderPlaced       bool
	AmountCents       int64
	CartClearDeferred bool
}

// Orchestrator runs the checkout sequence against a cart synchronizer.
type Orchestrator struct {
	payments PaymentAPI
	orders   OrderAPI
	widget   Widget
	cart     *cart.Synchronizer
	log      *zap.Logger
}

func NewOrchestrator(payments PaymentAPI, orders OrderAPI, widget Widget, c *cart.Synchronizer, log *zap.Logger) *Orchestrator {
	return &Orchestrator{
		payments: payments,
		orders:   orders,
		widget:   widget,
		cart:     c,
		log:      log,
	}
}

// Run executes one checkout attempt for the given user. On any failure before
// the order is placed, the cart (local and remote) is left exactly as it was.
func (o *Orchestrator) Run(ctx context.Context, userID string) (Result, error) {
	lines := o.cart.Lines()
	total := o.cart.Total()
	if len(lines) == 0 || total <= 0 {
		return Result{}, ErrEmptyCart
	}

	// Step 1: single-use payment intent for the current total.
	intent, err := o.payments.RequestPaymentIntent(ctx, total)
	if err != nil {
		return Result{}, fmt.Errorf("request payment intent: %w", err)
	}
	o.log.Info("payment intent created",
		zap.String("intentId", intent.ID),
		zap.Int64("amountCents", intent.AmountCents),
	)

	// Step 2: hand off to the gateway widget and wait for the user.
	proof, err := o.widget.Open(ctx, intent)
	if err != nil {
		if errors.Is(err, ErrCancelled) {
			o.log.Info("payment widget dismissed", zap.String("intentId", intent.ID))
		}
		return Result{}, err
	}

	// Step 3: verify against the backend. Fails closed: the gateway may have
	// captured money, but without verification no order exists; reconciliation
	// is the backend's problem, not ours.
	if err := o.payments.VerifyPayment(ctx, proof); err != nil {
		o.log.Warn("payment verification failed, stopping checkout",
			zap.String("intentId", intent.ID), zap.Error(err))
		if errors.Is(err, apperrors.ErrPaymentNotVerified) {
			return Result{}, err
		}
		return Result{}, apperrors.ErrPaymentNotVerified.WithCause(err)
	}

	// Step 4: snapshot the order. Failure here still places no order; the
	// payment/order mismatch is again an out-of-band concern.
	if err := o.orders.PlaceOrder(ctx, userID, lines); err != nil {
		return Result{}, fmt.Errorf("place order: %w", err)
	}

	result := Result{OrderPlaced: true, AmountCents: total}

	// Step 5: clear the server cart. Non-fatal: the order exists, so this is
	// reported as success with the deferred-clear flag set.
	if err := o.orders.ClearCart(ctx, userID); err != nil {
		o.log.Warn("cart clear failed after order placement; will reconcile on next refresh",
			zap.String("userId", userID),
			zap.Error(apperrors.ErrPartialCheckoutFailure.WithCause(err)))
		result.CartClearDeferred = true
	}

	// Step 6: the local mirror is done either way.
	o.cart.Reset()

	o.log.Info("checkout complete",
		zap.String("userId", userID),
		zap.Int64("amountCents", total),
		zap.Bool("cartClearDeferred", result.CartClearDeferred),
	)
	return result, nil
}
