// Package orders reads the immutable order history.
package orders

import (
	"context"
	"sort"

	"github.com/jovincart/storefront/models"
)

// API is the backend's order-history surface. *gateway.Client satisfies it.
type API interface {
	OrderHistory(ctx context.Context, userID string) ([]models.Order, error)
}

type Service struct {
	api API
}

func NewService(api API) *Service {
	return &Service{api: api}
}

// History returns the user's orders, newest first.
func (s *Service) History(ctx context.Context, userID string) ([]models.Order, error) {
	orders, err := s.api.OrderHistory(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return orders, nil
}

// Total returns an order's amount in cents, summed from its line snapshot.
func Total(o models.Order) int64 {
	var total int64
	for _, line := range o.Items {
		total += line.Subtotal()
	}
	return total
}
