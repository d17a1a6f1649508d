// Package cart keeps a local mirror of the server-side cart. Mutations are
// optimistic: the mirror changes first, the remote call follows, and a remote
// failure rolls the mirror back. The server stays the source of truth; the
// mirror reconciles to it on Refresh.
package cart

import (
	"context"
	"errors"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/jovincart/storefront/models"
)

// ErrLineNotFound is returned when a mutation targets a product that is not
// in the cart.
var ErrLineNotFound = errors.New("cart: line not found")

// RemoteAPI is the remote cart store. *gateway.Client satisfies it.
type RemoteAPI interface {
	FetchCart(ctx context.Context, userID string) ([]models.CartLine, error)
	AddToCart(ctx context.Context, userID string, line models.CartLine) error
	IncreaseCart(ctx context.Context, userID, productID string) error
	DecreaseCart(ctx context.Context, userID, productID string) error
	RemoveFromCart(ctx context.Context, userID, productID string) error
}

// Synchronizer mediates between the local cart view and the remote store.
// Mutations on the same product are serialized through a per-product lock so
// rapid repeated clicks cannot interleave; distinct products proceed
// independently.
type Synchronizer struct {
	api    RemoteAPI
	userID string
	log    *zap.Logger

	mu    sync.RWMutex
	lines map[string]models.CartLine

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func NewSynchronizer(api RemoteAPI, userID string, log *zap.Logger) *Synchronizer {
	return &Synchronizer{
		api:    api,
		userID: userID,
		log:    log,
		lines:  map[string]models.CartLine{},
		locks:  map[string]*sync.Mutex{},
	}
}

func (s *Synchronizer) productLock(productID string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.locks[productID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[productID] = l
	}
	return l
}

func (s *Synchronizer) get(productID string) (models.CartLine, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	line, ok := s.lines[productID]
	return line, ok
}

func (s *Synchronizer) set(line models.CartLine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines[line.ProductID] = line
}

func (s *Synchronizer) delete(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lines, productID)
}

// Add puts a product in the cart, bumping the quantity when it is already
// there. The caller supplies the line snapshot (name, price, image,
// quantity); the mirror applies exactly the quantity that is sent to the
// server, so a confirmed add leaves the two in step. A non-positive quantity
// is treated as one.
func (s *Synchronizer) Add(ctx context.Context, line models.CartLine) error {
	if line.Quantity <= 0 {
		line.Quantity = 1
	}

	l := s.productLock(line.ProductID)
	l.Lock()
	defer l.Unlock()

	prev, existed := s.get(line.ProductID)
	if existed {
		next := prev
		next.Quantity += line.Quantity
		s.set(next)
	} else {
		s.set(line)
	}

	if err := s.api.AddToCart(ctx, s.userID, line); err != nil {
		s.rollback(line.ProductID, prev, existed)
		s.log.Warn("add to cart failed, rolled back", zap.String("productId", line.ProductID), zap.Error(err))
		return err
	}
	return nil
}

// Increment bumps an existing line's quantity by one.
func (s *Synchronizer) Increment(ctx context.Context, productID string) error {
	l := s.productLock(productID)
	l.Lock()
	defer l.Unlock()

	prev, existed := s.get(productID)
	if !existed {
		return ErrLineNotFound
	}
	next := prev
	next.Quantity++
	s.set(next)

	if err := s.api.IncreaseCart(ctx, s.userID, productID); err != nil {
		s.rollback(productID, prev, true)
		s.log.Warn("increment failed, rolled back", zap.String("productId", productID), zap.Error(err))
		return err
	}
	return nil
}

// Decrement lowers an existing line's quantity by one. At quantity one it
// routes to a removal instead: a zero-quantity line never exists.
func (s *Synchronizer) Decrement(ctx context.Context, productID string) error {
	l := s.productLock(productID)
	l.Lock()
	defer l.Unlock()

	prev, existed := s.get(productID)
	if !existed {
		return ErrLineNotFound
	}

	if prev.Quantity <= 1 {
		return s.removeLocked(ctx, productID, prev)
	}

	next := prev
	next.Quantity--
	s.set(next)

	if err := s.api.DecreaseCart(ctx, s.userID, productID); err != nil {
		s.rollback(productID, prev, true)
		s.log.Warn("decrement failed, rolled back", zap.String("productId", productID), zap.Error(err))
		return err
	}
	return nil
}

// Remove deletes a line regardless of quantity, restoring it if the remote
// delete fails.
func (s *Synchronizer) Remove(ctx context.Context, productID string) error {
	l := s.productLock(productID)
	l.Lock()
	defer l.Unlock()

	prev, existed := s.get(productID)
	if !existed {
		return ErrLineNotFound
	}
	return s.removeLocked(ctx, productID, prev)
}

// removeLocked does the optimistic delete; the product lock is already held.
func (s *Synchronizer) removeLocked(ctx context.Context, productID string, prev models.CartLine) error {
	s.delete(productID)
	if err := s.api.RemoveFromCart(ctx, s.userID, productID); err != nil {
		s.set(prev)
		s.log.Warn("remove failed, line restored", zap.String("productId", productID), zap.Error(err))
		return err
	}
	return nil
}

func (s *Synchronizer) rollback(productID string, prev models.CartLine, existed bool) {
	if existed {
		s.set(prev)
	} else {
		s.delete(productID)
	}
}

// Refresh replaces the mirror wholesale with the server's authoritative cart.
func (s *Synchronizer) Refresh(ctx context.Context) error {
	items, err := s.api.FetchCart(ctx, s.userID)
	if err != nil {
		return err
	}

	fresh := make(map[string]models.CartLine, len(items))
	for _, line := range items {
		if line.Quantity <= 0 {
			continue
		}
		fresh[line.ProductID] = line
	}

	s.mu.Lock()
	s.lines = fresh
	s.mu.Unlock()
	return nil
}

// Reset empties the mirror without touching the server. Checkout calls it
// once the order is placed.
func (s *Synchronizer) Reset() {
	s.mu.Lock()
	s.lines = map[string]models.CartLine{}
	s.mu.Unlock()
}

// Lines returns a copy of the mirror, ordered by product id for stable
// display.
func (s *Synchronizer) Lines() []models.CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.CartLine, 0, len(s.lines))
	for _, line := range s.lines {
		out = append(out, line)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

// Total returns the cart total in cents. Integer arithmetic only.
func (s *Synchronizer) Total() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	for _, line := range s.lines {
		total += line.Subtotal()
	}
	return total
}
