package cart

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jovincart/storefront/models"
)

var errRemote = errors.New("remote unavailable")

// fakeRemote records calls and can be told to fail per operation. Accepted
// adds accumulate into serverQty the way the backend does, so tests can
// compare the mirror against the server's view.
type fakeRemote struct {
	mu           sync.Mutex
	serverCart   []models.CartLine
	serverQty    map[string]int
	failAdd      bool
	failIncrease bool
	failDecrease bool
	failRemove   bool
	calls        []string
	sentAddQtys  []int
}

func (f *fakeRemote) record(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, op)
}

func (f *fakeRemote) FetchCart(ctx context.Context, userID string) ([]models.CartLine, error) {
	f.record("fetch")
	return f.serverCart, nil
}

func (f *fakeRemote) AddToCart(ctx context.Context, userID string, line models.CartLine) error {
	f.record("add:" + line.ProductID)
	if f.failAdd {
		return errRemote
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.serverQty == nil {
		f.serverQty = map[string]int{}
	}
	f.serverQty[line.ProductID] += line.Quantity
	f.sentAddQtys = append(f.sentAddQtys, line.Quantity)
	return nil
}

func (f *fakeRemote) IncreaseCart(ctx context.Context, userID, productID string) error {
	f.record("increase:" + productID)
	if f.failIncrease {
		return errRemote
	}
	return nil
}

func (f *fakeRemote) DecreaseCart(ctx context.Context, userID, productID string) error {
	f.record("decrease:" + productID)
	if f.failDecrease {
		return errRemote
	}
	return nil
}

func (f *fakeRemote) RemoveFromCart(ctx context.Context, userID, productID string) error {
	f.record("remove:" + productID)
	if f.failRemove {
		return errRemote
	}
	return nil
}

func line(id string, priceCents int64) models.CartLine {
	return models.CartLine{ProductID: id, ProductName: "Product " + id, UnitPriceCents: priceCents}
}

func newSync(remote *fakeRemote) *Synchronizer {
	return NewSynchronizer(remote, "jovin@example.com", zap.NewNop())
}

func TestAddThenIncrement(t *testing.T) {
	s := newSync(&fakeRemote{})
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, line("p1", 200)))
	require.NoError(t, s.Increment(ctx, "p1"))

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestAddAppliesRequestedQuantityOnBothSides(t *testing.T) {
	remote := &fakeRemote{}
	s := newSync(remote)
	ctx := context.Background()

	withQty := line("p1", 200)
	withQty.Quantity = 3

	require.NoError(t, s.Add(ctx, withQty))
	require.NoError(t, s.Add(ctx, withQty))

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 6, lines[0].Quantity)
	assert.Equal(t, []int{3, 3}, remote.sentAddQtys, "the server must be asked for exactly what the mirror applied")
	assert.Equal(t, lines[0].Quantity, remote.serverQty["p1"], "mirror and server views must agree after confirmed adds")
}

func TestAddNormalizesNonPositiveQuantity(t *testing.T) {
	remote := &fakeRemote{}
	s := newSync(remote)

	require.NoError(t, s.Add(context.Background(), line("p1", 200)))

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)
	assert.Equal(t, []int{1}, remote.sentAddQtys)
}

func TestDecrementAtQuantityOneRemovesLine(t *testing.T) {
	remote := &fakeRemote{}
	s := newSync(remote)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, line("p1", 200)))
	require.NoError(t, s.Decrement(ctx, "p1"))

	assert.Empty(t, s.Lines(), "quantity zero means the line is absent, not present-with-zero")
	assert.Contains(t, remote.calls, "remove:p1")
	assert.NotContains(t, remote.calls, "decrease:p1")
}

func TestDecrementAboveOne(t *testing.T) {
	s := newSync(&fakeRemote{})
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, line("p1", 200)))
	require.NoError(t, s.Increment(ctx, "p1"))
	require.NoError(t, s.Decrement(ctx, "p1"))

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)
}

func TestTotalUsesIntegerCents(t *testing.T) {
	s := newSync(&fakeRemote{})
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, line("p1", 200)))
	require.NoError(t, s.Increment(ctx, "p1"))
	require.NoError(t, s.Add(ctx, line("p2", 150)))

	assert.Equal(t, int64(550), s.Total())
}

func TestAddRollsBackOnRemoteFailure(t *testing.T) {
	remote := &fakeRemote{failAdd: true}
	s := newSync(remote)

	err := s.Add(context.Background(), line("p1", 200))
	assert.ErrorIs(t, err, errRemote)
	assert.Empty(t, s.Lines())
}

func TestIncrementRollsBackOnRemoteFailure(t *testing.T) {
	remote := &fakeRemote{}
	s := newSync(remote)
	ctx := context.Background()
	require.NoError(t, s.Add(ctx, line("p1", 200)))

	remote.failIncrease = true
	err := s.Increment(ctx, "p1")
	assert.ErrorIs(t, err, errRemote)

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)
}

func TestRemoveRestoresLineOnRemoteFailure(t *testing.T) {
	remote := &fakeRemote{}
	s := newSync(remote)
	ctx := context.Background()
	require.NoError(t, s.Add(ctx, line("p1", 200)))

	remote.failRemove = true
	err := s.Remove(ctx, "p1")
	assert.ErrorIs(t, err, errRemote)

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "p1", lines[0].ProductID)
	assert.Equal(t, 1, lines[0].Quantity)
}

func TestMutationsOnMissingLine(t *testing.T) {
	s := newSync(&fakeRemote{})
	ctx := context.Background()

	assert.ErrorIs(t, s.Increment(ctx, "ghost"), ErrLineNotFound)
	assert.ErrorIs(t, s.Decrement(ctx, "ghost"), ErrLineNotFound)
	assert.ErrorIs(t, s.Remove(ctx, "ghost"), ErrLineNotFound)
}

func TestRefreshReplacesMirror(t *testing.T) {
	remote := &fakeRemote{serverCart: []models.CartLine{
		{ProductID: "p9", ProductName: "Server Truth", UnitPriceCents: 500, Quantity: 3},
		{ProductID: "p0", Quantity: 0}, // defensive: server should never send these
	}}
	s := newSync(remote)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, line("p1", 200)))
	require.NoError(t, s.Refresh(ctx))

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "p9", lines[0].ProductID)
	assert.Equal(t, int64(1500), s.Total())
}

func TestResetEmptiesMirrorOnly(t *testing.T) {
	remote := &fakeRemote{}
	s := newSync(remote)
	require.NoError(t, s.Add(context.Background(), line("p1", 200)))

	before := len(remote.calls)
	s.Reset()

	assert.Empty(t, s.Lines())
	assert.Zero(t, s.Total())
	assert.Len(t, remote.calls, before, "reset must not touch the server")
}

func TestRapidMutationsOnSameProductAreSerialized(t *testing.T) {
	s := newSync(&fakeRemote{})
	ctx := context.Background()
	require.NoError(t, s.Add(ctx, line("p1", 100)))

	// 20 concurrent increments; the per-product lock must prevent any lost
	// updates in the mirror.
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Increment(ctx, "p1")
		}()
	}
	wg.Wait()

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 21, lines[0].Quantity)
	assert.Equal(t, int64(2100), s.Total())
}
