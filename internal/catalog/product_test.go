package catalog

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	cases := []struct {
		in   string
		want Category
		ok   bool
	}{
		{"print", CategoryPrint, true},
		{" Impression ", CategoryPrint, true},
		{"numérique", CategoryDigital, true},
		{"numerique", CategoryDigital, true},
		{"digital", CategoryDigital, true},
		{"pack", CategoryBundle, true},
		{"bundle", CategoryBundle, true},
		{"mug", CategoryUnknown, false},
	}
	for _, tc := range cases {
		got, ok := ParseCategory(tc.in)
		assert.Equal(t, tc.want, got, tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
	}
}

func TestPricingRulesUnmarshal(t *testing.T) {
	var rules PricingRules
	require.NoError(t, json.Unmarshal([]byte(`{"1": 12, "2": "10.00", "default": 8, "bogus": 1, "0": 3}`), &rules))

	assert.Equal(t, []int{1, 2}, rules.Ranks())
	p, ok := rules.At(2)
	require.True(t, ok)
	assert.True(t, p.Equal(decimal.NewFromInt(10)))
	require.True(t, rules.Default.Valid)
	assert.True(t, rules.Default.Decimal.Equal(decimal.NewFromInt(8)))
	assert.False(t, rules.Empty())

	b, err := json.Marshal(rules)
	require.NoError(t, err)
	var again PricingRules
	require.NoError(t, json.Unmarshal(b, &again))
	assert.Equal(t, rules.Ranks(), again.Ranks())
	assert.True(t, again.Default.Valid)
}

func TestPricingRulesEmpty(t *testing.T) {
	assert.True(t, PricingRules{}.Empty())
}

func TestBasePrice(t *testing.T) {
	p := Product{Price: decimal.RequireFromString("15")}
	assert.Equal(t, "15", p.BasePrice().String())

	p.PromoPrice = decimal.NewNullDecimal(decimal.RequireFromString("12.5"))
	assert.Equal(t, "12.5", p.BasePrice().String())

	p.PromoPrice = decimal.NewNullDecimal(decimal.RequireFromString("20"))
	assert.Equal(t, "15", p.BasePrice().String())
}

func TestCategoryJSON(t *testing.T) {
	b, err := json.Marshal(CategoryBundle)
	require.NoError(t, err)
	assert.JSONEq(t, `"bundle"`, string(b))

	var c Category
	require.NoError(t, json.Unmarshal([]byte(`"impression"`), &c))
	assert.Equal(t, CategoryPrint, c)
	assert.Error(t, json.Unmarshal([]byte(`"poster"`), &c))
}

func TestParsePromoRuleKind(t *testing.T) {
	assert.Equal(t, PromoFreeGroup, ParsePromoRuleKind("free_group"))
	assert.Equal(t, PromoFreeGroup, ParsePromoRuleKind("GROUP"))
	assert.Equal(t, PromoFixedPosition, ParsePromoRuleKind(""))
	assert.Equal(t, PromoFixedPosition, ParsePromoRuleKind("whatever"))
}
