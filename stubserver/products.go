package stubserver

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jovincart/storefront/models"
)

// productStore is the in-memory catalog.
type productStore struct {
	mu       sync.Mutex
	products map[string]models.Product
}

func newProductStore() *productStore {
	return &productStore{products: map[string]models.Product{}}
}

// seed installs a small dessert catalog for local development.
func (s *productStore) seed() {
	for _, p := range []models.Product{
		{Name: "Chocolate Truffle Cake", PriceCents: 55000, Description: "Half kg, eggless"},
		{Name: "Butterscotch Cupcake", PriceCents: 9000, Description: "Box of six"},
		{Name: "Red Velvet Jar", PriceCents: 15000},
	} {
		p.ID = uuid.NewString()
		s.products[p.ID] = p
	}
}

func (s *productStore) List() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	return out
}

func (s *productStore) Create(p models.Product) models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = uuid.NewString()
	s.products[p.ID] = p
	return p
}

func (s *productStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return false
	}
	delete(s.products, id)
	return true
}

// orderStore keeps placed orders per user, append-only.
type orderStore struct {
	mu     sync.Mutex
	byUser map[string][]models.Order
}

func newOrderStore() *orderStore {
	return &orderStore{byUser: map[string][]models.Order{}}
}

// Place snapshots the lines into an immutable order.
func (s *orderStore) Place(userID string, items []models.CartLine) models.Order {
	order := models.Order{
		OrderID:   uuid.NewString(),
		UserID:    userID,
		Items:     append([]models.CartLine(nil), items...),
		CreatedAt: time.Now(),
	}
	s.mu.Lock()
	s.byUser[userID] = append(s.byUser[userID], order)
	s.mu.Unlock()
	return order
}

func (s *orderStore) History(userID string) []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Order(nil), s.byUser[userID]...)
}
