package models

import "time"

// CartLine is a single product entry in a cart. Prices are carried as integer
// cents end to end; floating point never touches money.
type CartLine struct {
	ProductID      string `json:"productId"`
	ProductName    string `json:"productName"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	Quantity       int    `json:"quantity"`
	ImageURL       string `json:"imageURL"`
}

// Subtotal returns the line total in cents.
func (l CartLine) Subtotal() int64 {
	return l.UnitPriceCents * int64(l.Quantity)
}

// Cart is the server-side cart document for one user.
type Cart struct {
	UserID    string     `json:"userId"`
	Items     []CartLine `json:"items"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Product as served by the catalog endpoints.
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PriceCents  int64  `json:"priceCents"`
	ImageURL    string `json:"imageURL"`
	Description string `json:"description,omitempty"`
}

// Order is an immutable snapshot created once per successful checkout.
type Order struct {
	OrderID   string     `json:"orderId"`
	UserID    string     `json:"userId"`
	Items     []CartLine `json:"items"`
	CreatedAt time.Time  `json:"createdAt"`
}

// PaymentIntent authorizes exactly one payment attempt. It is void after the
// payment widget reports a result, success or failure.
type PaymentIntent struct {
	ID          string `json:"id"`
	AmountCents int64  `json:"amount"`
	Currency    string `json:"currency"`
}

// PaymentProof is what the gateway widget hands back on success; the backend
// verifies the signature before any order is placed.
type PaymentProof struct {
	IntentID  string `json:"intentId"`
	PaymentID string `json:"paymentId"`
	Signature string `json:"signature"`
}
