package gateway

import (
	"context"
	"net/http"

	"github.com/jovincart/storefront/apperrors"
	"github.com/jovincart/storefront/models"
)

// RequestPaymentIntent asks the backend for a single-use payment intent
// covering the given amount in cents.
func (c *Client) RequestPaymentIntent(ctx context.Context, amountCents int64) (models.PaymentIntent, error) {
	var resp struct {
		Data models.PaymentIntent `json:"data"`
	}
	err := c.do(ctx, http.MethodPost, "/order-now", map[string]int64{"amount": amountCents}, &resp)
	if err != nil {
		return models.PaymentIntent{}, err
	}
	if resp.Data.ID == "" {
		return models.PaymentIntent{}, apperrors.ErrRemoteRejected
	}
	return resp.Data, nil
}

// VerifyPayment submits the widget's proof for verification. Anything but an
// explicit success fails closed.
func (c *Client) VerifyPayment(ctx context.Context, proof models.PaymentProof) error {
	var resp statusEnvelope
	if err := c.do(ctx, http.MethodPost, "/verify", proof, &resp); err != nil {
		return apperrors.ErrPaymentNotVerified.WithCause(err)
	}
	if !resp.Success {
		return apperrors.ErrPaymentNotVerified
	}
	return nil
}

// PlaceOrder asks the backend to snapshot the given lines into an immutable
// order.
func (c *Client) PlaceOrder(ctx context.Context, userID string, lines []models.CartLine) error {
	return c.do(ctx, http.MethodPost, "/order/place-order", struct {
		UserID string            `json:"userId"`
		Items  []models.CartLine `json:"items"`
	}{UserID: userID, Items: lines}, nil)
}

// OrderHistory returns the user's past orders, newest first.
func (c *Client) OrderHistory(ctx context.Context, userID string) ([]models.Order, error) {
	var resp struct {
		Orders []models.Order `json:"orders"`
	}
	if err := c.do(ctx, http.MethodGet, "/order/history/"+userID, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

// SimulatePayment drives the stub backend's built-in payment gateway: it
// settles the intent and returns a signed proof, standing in for the hosted
// payment widget during local development. Real deployments never call it.
func (c *Client) SimulatePayment(ctx context.Context, intentID string) (models.PaymentProof, error) {
	var proof models.PaymentProof
	err := c.do(ctx, http.MethodPost, "/pay", map[string]string{"intentId": intentID}, &proof)
	if err != nil {
		return models.PaymentProof{}, err
	}
	return proof, nil
}
