package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepository struct {
	products []Product
	err      error
	calls    int
}

func (s *stubRepository) ListProducts(context.Context, string) ([]Product, error) {
	s.calls++
	return s.products, s.err
}

func TestStoreUnavailableUntilRefreshed(t *testing.T) {
	products, err := DecodeFeed(strings.NewReader(sampleFeed))
	require.NoError(t, err)
	repo := &stubRepository{products: products}
	store := NewStore(repo)

	_, err = store.Snapshot("fr")
	assert.ErrorIs(t, err, ErrCatalogUnavailable)

	snap, err := store.Refresh(context.Background(), "fr")
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Len())

	got, err := store.Snapshot("fr")
	require.NoError(t, err)
	assert.Same(t, snap, got)

	_, err = store.Snapshot("en")
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
}

func TestStoreRefreshError(t *testing.T) {
	store := NewStore(&stubRepository{err: errors.New("db down")})
	_, err := store.Refresh(context.Background(), "fr")
	assert.Error(t, err)
	_, err = store.Snapshot("fr")
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
}

func TestSnapshotOrdering(t *testing.T) {
	snap := NewSnapshot("fr", []Product{
		{ID: 3, Category: CategoryDigital, CartOrder: 2},
		{ID: 1, Category: CategoryDigital, CartOrder: 5, FeaturedPosition: 2},
		{ID: 2, Category: CategoryPrint, FeaturedPosition: 1},
		{ID: 2, Category: CategoryBundle},
	})

	require.Equal(t, 3, snap.Len())
	p, ok := snap.Product(2)
	require.True(t, ok)
	assert.Equal(t, CategoryPrint, p.Category, "first duplicate wins")

	digital := snap.ByCategory(CategoryDigital)
	require.Len(t, digital, 2)
	assert.Equal(t, ProductID(3), digital[0].ID)

	featured := snap.Featured()
	require.Len(t, featured, 2)
	assert.Equal(t, ProductID(2), featured[0].ID)
	assert.Equal(t, ProductID(1), featured[1].ID)

	var nilSnap *Snapshot
	_, ok = nilSnap.Product(1)
	assert.False(t, ok)
}
