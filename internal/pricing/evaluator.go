package pricing

import (
	"github.com/equine-kiosk/server/internal/catalog"
	"github.com/shopspring/decimal"
)

// PriceForPosition returns the unit price of the position-th unit of a
// product across the whole cart. hasCompanion is true when a print of the
// same photo is also ordered.
//
// Precedence, strongest first: companion print discount, special promo rule,
// explicit positional rule, base price below the schedule, then the default
// or the last defined rank (skipping a trailing zero).
func PriceForPosition(p catalog.Product, position int, hasCompanion bool) decimal.Decimal {
	if position < 1 {
		position = 1
	}

	if hasCompanion && p.ReducedPriceWithPrint.Valid {
		return p.ReducedPriceWithPrint.Decimal
	}

	if price, ok := promoPrice(p, position); ok {
		return price
	}

	rules := p.PricingRules
	if price, ok := rules.At(position); ok {
		return price
	}

	ranks := rules.Ranks()
	if len(ranks) == 0 {
		if rules.Default.Valid {
			return rules.Default.Decimal
		}
		return p.BasePrice()
	}
	if position < ranks[0] {
		return p.BasePrice()
	}
	if rules.Default.Valid {
		return rules.Default.Decimal
	}
	return lastDefinedPrice(rules, ranks, position)
}

func promoPrice(p catalog.Product, position int) (decimal.Decimal, bool) {
	if p.SpecialPromoRule == "" {
		return decimal.Decimal{}, false
	}
	switch p.PromoRuleKind {
	case catalog.PromoFreeGroup:
		if g, ok := ParseGroupPromo(p.SpecialPromoRule); ok && g.IsFree(position) {
			return decimal.Zero, true
		}
	default:
		if f, ok := ParseFixedPromo(p.SpecialPromoRule); ok && f.Position == position {
			return f.Price, true
		}
	}
	return decimal.Decimal{}, false
}

// lastDefinedPrice walks back from the greatest rank below position and
// returns the first non-zero price. An all-zero schedule yields zero.
func lastDefinedPrice(rules catalog.PricingRules, ranks []int, position int) decimal.Decimal {
	start := len(ranks) - 1
	for start > 0 && ranks[start] > position {
		start--
	}
	for i := start; i >= 0; i-- {
		price := rules.Positions[ranks[i]]
		if !price.IsZero() {
			return price
		}
	}
	return decimal.Zero
}

// Sum adds unit prices exactly.
func Sum(prices ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, p := range prices {
		total = total.Add(p)
	}
	return total
}

// Schedule returns the unit prices of the first n units of a product, as
// shown on product tiles ("1st 12€, 2nd 10€, then 8€").
func Schedule(p catalog.Product, n int) []decimal.Decimal {
	out := make([]decimal.Decimal, 0, n)
	for pos := 1; pos <= n; pos++ {
		out = append(out, PriceForPosition(p, pos, false))
	}
	return out
}
