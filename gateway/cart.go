package gateway

import (
	"context"
	"net/http"

	"github.com/jovincart/storefront/models"
)

type cartMutation struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
}

// FetchCart returns the server's authoritative cart for the user.
func (c *Client) FetchCart(ctx context.Context, userID string) ([]models.CartLine, error) {
	var cart models.Cart
	if err := c.do(ctx, http.MethodGet, "/cart/"+userID, nil, &cart); err != nil {
		return nil, err
	}
	return cart.Items, nil
}

// AddToCart inserts a product (or bumps its quantity) server-side. The full
// line is sent so the backend can snapshot name, price and image.
func (c *Client) AddToCart(ctx context.Context, userID string, line models.CartLine) error {
	return c.do(ctx, http.MethodPost, "/cart/add", struct {
		UserID string          `json:"userId"`
		Item   models.CartLine `json:"item"`
	}{UserID: userID, Item: line}, nil)
}

// IncreaseCart bumps the quantity of an existing line by one.
func (c *Client) IncreaseCart(ctx context.Context, userID, productID string) error {
	return c.do(ctx, http.MethodPost, "/cart/increase", cartMutation{userID, productID}, nil)
}

// DecreaseCart lowers the quantity of an existing line by one.
func (c *Client) DecreaseCart(ctx context.Context, userID, productID string) error {
	return c.do(ctx, http.MethodPut, "/cart/decrease-cart", cartMutation{userID, productID}, nil)
}

// RemoveFromCart deletes a line regardless of quantity.
func (c *Client) RemoveFromCart(ctx context.Context, userID, productID string) error {
	return c.do(ctx, http.MethodDelete, "/cart/remove", cartMutation{userID, productID}, nil)
}

// ClearCart empties the user's server-side cart.
func (c *Client) ClearCart(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodPut, "/cart/clear-cart", map[string]string{"userId": userID}, nil)
}
