package catalog

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ProductID identifies a catalog product. Cart format maps are keyed by it.
type ProductID int64

func (id ProductID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Category is the closed set of product kinds the kiosk sells.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryPrint
	CategoryDigital
	CategoryBundle
)

func (c Category) String() string {
	switch c {
	case CategoryPrint:
		return "print"
	case CategoryDigital:
		return "digital"
	case CategoryBundle:
		return "bundle"
	default:
		return "unknown"
	}
}

// ParseCategory maps the feed's free-text category names onto Category.
// The feed has historically used French labels alongside English ones.
func ParseCategory(s string) (Category, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "print", "impression":
		return CategoryPrint, true
	case "digital", "numérique", "numerique":
		return CategoryDigital, true
	case "bundle", "pack":
		return CategoryBundle, true
	default:
		return CategoryUnknown, false
	}
}

func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Category) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, ok := ParseCategory(s)
	if !ok {
		return fmt.Errorf("unknown category %q", s)
	}
	*c = parsed
	return nil
}

// PromoRuleKind says which grammar a product's special_promo_rule uses.
type PromoRuleKind int

const (
	// PromoFixedPosition reads the rule as "<position>=<price>".
	PromoFixedPosition PromoRuleKind = iota
	// PromoFreeGroup reads the rule as "<groupSize>=<freeCount>".
	PromoFreeGroup
)

// ParsePromoRuleKind defaults to PromoFixedPosition for anything it does not know.
func ParsePromoRuleKind(s string) PromoRuleKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "group", "free_group", "groupsize=freecount":
		return PromoFreeGroup
	default:
		return PromoFixedPosition
	}
}

func (k PromoRuleKind) String() string {
	if k == PromoFreeGroup {
		return "free_group"
	}
	return "fixed_position"
}

// PricingRules is a positional price schedule: explicit prices per 1-based
// rank plus an optional default for ranks without one.
type PricingRules struct {
	Positions map[int]decimal.Decimal
	Default   decimal.NullDecimal
}

// Empty reports whether no rank and no default are defined.
func (r PricingRules) Empty() bool {
	return len(r.Positions) == 0 && !r.Default.Valid
}

// At returns the explicit price for a rank.
func (r PricingRules) At(position int) (decimal.Decimal, bool) {
	p, ok := r.Positions[position]
	return p, ok
}

// Ranks returns explicit ranks in ascending order.
func (r PricingRules) Ranks() []int {
	ranks := make([]int, 0, len(r.Positions))
	for k := range r.Positions {
		ranks = append(ranks, k)
	}
	sort.Ints(ranks)
	return ranks
}

// UnmarshalJSON accepts {"1": 12, "2": "10.00", "default": 8}. Keys that are
// neither positive integers nor "default" are ignored.
func (r *PricingRules) UnmarshalJSON(b []byte) error {
	raw := map[string]decimal.Decimal{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("pricing rules: %w", err)
	}
	out := PricingRules{Positions: make(map[int]decimal.Decimal, len(raw))}
	for k, v := range raw {
		key := strings.TrimSpace(k)
		if strings.EqualFold(key, "default") {
			out.Default = decimal.NewNullDecimal(v)
			continue
		}
		n, err := strconv.Atoi(key)
		if err != nil || n < 1 {
			continue
		}
		out.Positions[n] = v
	}
	*r = out
	return nil
}

func (r PricingRules) MarshalJSON() ([]byte, error) {
	raw := make(map[string]decimal.Decimal, len(r.Positions)+1)
	for k, v := range r.Positions {
		raw[strconv.Itoa(k)] = v
	}
	if r.Default.Valid {
		raw["default"] = r.Default.Decimal
	}
	return json.Marshal(raw)
}

// Product is immutable reference data loaded once per session.
type Product struct {
	ID                    ProductID           `json:"id"`
	Category              Category            `json:"category"`
	Name                  string              `json:"name"`
	Description           string              `json:"description,omitempty"`
	Price                 decimal.Decimal     `json:"price"`
	PromoPrice            decimal.NullDecimal `json:"promo_price"`
	PricingRules          PricingRules        `json:"pricing_rules"`
	SpecialPromoRule      string              `json:"special_promo_rule,omitempty"`
	PromoRuleKind         PromoRuleKind       `json:"-"`
	ReducedPriceWithPrint decimal.NullDecimal `json:"reduced_price_with_print"`
	EmailDelivery         bool                `json:"email_delivery"`
	FeaturedPosition      int                 `json:"featured_position,omitempty"`
	CartOrder             int                 `json:"cart_order,omitempty"`
}

func (p Product) IsPrint() bool   { return p.Category == CategoryPrint }
func (p Product) IsDigital() bool { return p.Category == CategoryDigital }
func (p Product) IsBundle() bool  { return p.Category == CategoryBundle }

// BasePrice is the list price, or the promotional price when it is lower.
func (p Product) BasePrice() decimal.Decimal {
	if p.PromoPrice.Valid && p.PromoPrice.Decimal.LessThan(p.Price) {
		return p.PromoPrice.Decimal
	}
	return p.Price
}

// SameTier reports whether two products share the email_delivery tier.
func (p Product) SameTier(other Product) bool {
	return p.EmailDelivery == other.EmailDelivery
}
