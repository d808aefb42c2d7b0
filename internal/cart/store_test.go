package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoLazarte/marketplace-client/internal/domain"
)

// saverSpy records every persisted snapshot
type saverSpy struct {
	saved [][]Line
	err   error
}

func (s *saverSpy) SaveCart(_ context.Context, lines []Line) error {
	s.saved = append(s.saved, lines)
	return s.err
}

func bookLine(id int64, qty, stock int) Line {
	return Line{ID: id, Kind: domain.KindBook, Title: "El Aleph", Price: 25, Quantity: qty, Stock: stock}
}

func TestAdd_NewLine(t *testing.T) {
	spy := &saverSpy{}
	store := NewStore(spy, nil)

	require.NoError(t, store.Add(context.Background(), bookLine(1, 2, 5)))

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Len(t, spy.saved, 1)
}

func TestAdd_MergesQuantitiesForSameID(t *testing.T) {
	store := NewStore(nil, nil)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, bookLine(1, 2, 5)))
	require.NoError(t, store.Add(ctx, bookLine(1, 2, 5)))

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 4, lines[0].Quantity)
}

func TestAdd_CapsAtStockAndWarns(t *testing.T) {
	store := NewStore(nil, nil)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, bookLine(1, 4, 5)))
	err := store.Add(ctx, bookLine(1, 3, 5))

	assert.ErrorIs(t, err, ErrStockExceeded)
	assert.Equal(t, 5, store.Lines()[0].Quantity)
}

func TestAdd_RejectsZeroQuantityAndZeroStock(t *testing.T) {
	store := NewStore(nil, nil)
	ctx := context.Background()

	assert.ErrorIs(t, store.Add(ctx, bookLine(1, 0, 5)), ErrInvalidQuantity)
	assert.ErrorIs(t, store.Add(ctx, bookLine(2, 1, 0)), ErrStockExceeded)
	assert.Empty(t, store.Lines())
}

func TestAddThenRemove_RoundTrip(t *testing.T) {
	store := NewStore(nil, []Line{bookLine(1, 1, 3)})
	ctx := context.Background()

	before := store.Lines()
	require.NoError(t, store.Add(ctx, bookLine(2, 1, 9)))
	store.Remove(ctx, 2)

	assert.Equal(t, before, store.Lines())
}

func TestRemove_AbsentIDIsNoOp(t *testing.T) {
	store := NewStore(nil, []Line{bookLine(1, 1, 3)})
	store.Remove(context.Background(), 99)
	assert.Len(t, store.Lines(), 1)
}

func TestUpdateQuantity_OverStockRejectedUnchanged(t *testing.T) {
	store := NewStore(nil, []Line{bookLine(1, 2, 5)})

	err := store.UpdateQuantity(context.Background(), 1, 6)

	assert.ErrorIs(t, err, ErrStockExceeded)
	assert.Equal(t, 2, store.Lines()[0].Quantity)
}

func TestUpdateQuantity_BelowOneRejected(t *testing.T) {
	store := NewStore(nil, []Line{bookLine(1, 2, 5)})
	assert.ErrorIs(t, store.UpdateQuantity(context.Background(), 1, 0), ErrInvalidQuantity)
	assert.Equal(t, 2, store.Lines()[0].Quantity)
}

func TestUpdateQuantity_UnknownLine(t *testing.T) {
	store := NewStore(nil, nil)
	assert.ErrorIs(t, store.UpdateQuantity(context.Background(), 7, 1), ErrLineNotFound)
}

func TestClear(t *testing.T) {
	spy := &saverSpy{}
	store := NewStore(spy, []Line{bookLine(1, 2, 5), bookLine(2, 1, 2)})

	store.Clear(context.Background())

	assert.Empty(t, store.Lines())
	require.Len(t, spy.saved, 1)
	assert.Empty(t, spy.saved[0])
}

func TestTotals(t *testing.T) {
	discounted := Line{ID: 1, Kind: domain.KindAlbum, Title: "Kind of Blue", Price: 100,
		Quantity: 2, Stock: 10, DiscountPercentage: 25, DiscountActive: true}
	plain := bookLine(2, 3, 5) // 3 x 25

	store := NewStore(nil, []Line{discounted, plain})

	assert.InDelta(t, 225.0, store.Total(), 1e-9)
	assert.InDelta(t, 50.0, store.Savings(), 1e-9)
	assert.Equal(t, 5, store.ItemCount())
}

func TestPersistFailureKeepsState(t *testing.T) {
	spy := &saverSpy{err: assert.AnError}
	store := NewStore(spy, nil)

	require.NoError(t, store.Add(context.Background(), bookLine(1, 1, 5)))
	assert.Len(t, store.Lines(), 1)
}
