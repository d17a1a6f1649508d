package stubserver

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jovincart/storefront/models"
)

const cartTTL = 7 * 24 * time.Hour

// CartStore holds the authoritative cart per user. Get returns (nil, nil)
// when no cart exists yet.
type CartStore interface {
	Get(ctx context.Context, userID string) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
	Delete(ctx context.Context, userID string) error
}

// memoryCartStore is the default when no redis is configured.
type memoryCartStore struct {
	mu    sync.Mutex
	carts map[string]models.Cart
}

func newMemoryCartStore() *memoryCartStore {
	return &memoryCartStore{carts: map[string]models.Cart{}}
}

func (s *memoryCartStore) Get(ctx context.Context, userID string) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, ok := s.carts[userID]
	if !ok {
		return nil, nil
	}
	copied := cart
	copied.Items = append([]models.CartLine(nil), cart.Items...)
	return &copied, nil
}

func (s *memoryCartStore) Save(ctx context.Context, cart *models.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart.UpdatedAt = time.Now()
	stored := *cart
	stored.Items = append([]models.CartLine(nil), cart.Items...)
	s.carts[cart.UserID] = stored
	return nil
}

func (s *memoryCartStore) Delete(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
	return nil
}

// redisCartStore keeps carts as JSON under cart:user:<id> with a TTL.
type redisCartStore struct {
	client *redis.Client
	ttl    time.Duration
}

func newRedisCartStore(url string) (*redisCartStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &redisCartStore{client: redis.NewClient(opts), ttl: cartTTL}, nil
}

func (s *redisCartStore) key(userID string) string {
	return "cart:user:" + userID
}

func (s *redisCartStore) Get(ctx context.Context, userID string) (*models.Cart, error) {
	data, err := s.client.Get(ctx, s.key(userID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var cart models.Cart
	if err := json.Unmarshal([]byte(data), &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (s *redisCartStore) Save(ctx context.Context, cart *models.Cart) error {
	cart.UpdatedAt = time.Now()
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(cart.UserID), data, s.ttl).Err()
}

func (s *redisCartStore) Delete(ctx context.Context, userID string) error {
	return s.client.Del(ctx, s.key(userID)).Err()
}
