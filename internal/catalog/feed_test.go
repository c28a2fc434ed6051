package catalog

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `[
  {"id": 5, "category": "numérique", "name": "HD file", "price": 12,
   "pricing_rules": {"1": 12, "2": 10, "default": 8}, "email_delivery": true, "cart_order": 2},
  {"id": 7, "category": "impression", "name": "Print 15x20", "price": "9.50", "promo_price": 8},
  {"id": 9, "category": "pack", "name": "All photos", "price": 40, "email_delivery": true,
   "special_promo_rule": "2=1", "special_promo_kind": "free_group", "featured_position": 1},
  {"id": 11, "category": "mug", "name": "Mug", "price": 20}
]`

func TestDecodeFeedArray(t *testing.T) {
	products, err := DecodeFeed(strings.NewReader(sampleFeed))
	require.NoError(t, err)
	require.Len(t, products, 3)

	assert.Equal(t, CategoryDigital, products[0].Category)
	assert.True(t, products[0].EmailDelivery)
	assert.Equal(t, []int{1, 2}, products[0].PricingRules.Ranks())

	assert.Equal(t, CategoryPrint, products[1].Category)
	assert.Equal(t, "8", products[1].BasePrice().String())

	assert.Equal(t, CategoryBundle, products[2].Category)
	assert.Equal(t, PromoFreeGroup, products[2].PromoRuleKind)
}

func TestDecodeFeedEnvelope(t *testing.T) {
	products, err := DecodeFeed(strings.NewReader(`{"products": [{"id": 1, "category": "print", "price": 5}]}`))
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, ProductID(1), products[0].ID)
}

func TestDecodeFeedMalformed(t *testing.T) {
	_, err := DecodeFeed(strings.NewReader(`{"products": 3}`))
	assert.Error(t, err)
	_, err = DecodeFeed(strings.NewReader(`nope`))
	assert.Error(t, err)
}

func TestFeedRepository(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fr.json"), []byte(sampleFeed), 0o600))

	repo := NewFeedRepository(dir)
	products, err := repo.ListProducts(context.Background(), "fr")
	require.NoError(t, err)
	assert.Len(t, products, 3)

	_, err = repo.ListProducts(context.Background(), "de")
	assert.Error(t, err)
}
