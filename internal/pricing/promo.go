package pricing

import (
	"regexp"
	"strconv"

	"github.com/equine-kiosk/server/internal/catalog"
	"github.com/shopspring/decimal"
)

var (
	groupPromoPattern = regexp.MustCompile(`^\s*(\d+)\s*=\s*(\d+)\s*$`)
	fixedPromoPattern = regexp.MustCompile(`^\s*(\d+)\s*=\s*(\d+(?:[.,]\d+)?)\s*$`)
)

// GroupPromo is a repeating "for every GroupSize units, FreeCount are free" rule.
type GroupPromo struct {
	GroupSize int
	FreeCount int
}

// ParseGroupPromo parses "<groupSize>=<freeCount>". Anything else, including
// a zero free count or one larger than the group, yields ok=false.
func ParseGroupPromo(rule string) (GroupPromo, bool) {
	m := groupPromoPattern.FindStringSubmatch(rule)
	if m == nil {
		return GroupPromo{}, false
	}
	size, err1 := strconv.Atoi(m[1])
	free, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil || size <= 0 || free <= 0 || free > size {
		return GroupPromo{}, false
	}
	return GroupPromo{GroupSize: size, FreeCount: free}, true
}

// IsFree reports whether the unit at a 1-based position is free. The cycle
// repeats indefinitely: the last FreeCount units of every group are free.
func (g GroupPromo) IsFree(position int) bool {
	if position < 1 || g.GroupSize <= 0 {
		return false
	}
	inGroup := ((position - 1) % g.GroupSize) + 1
	return inGroup > g.GroupSize-g.FreeCount
}

// PaidUnits returns how many of the first n units are charged.
func (g GroupPromo) PaidUnits(n int) int {
	paid := 0
	for pos := 1; pos <= n; pos++ {
		if !g.IsFree(pos) {
			paid++
		}
	}
	return paid
}

// FixedPromo is a one-shot "the Position-th unit costs exactly Price" rule.
type FixedPromo struct {
	Position int
	Price    decimal.Decimal
}

// ParseFixedPromo parses "<position>=<price>". A comma decimal separator is
// accepted because the dashboard is edited in French locales.
func ParseFixedPromo(rule string) (FixedPromo, bool) {
	m := fixedPromoPattern.FindStringSubmatch(rule)
	if m == nil {
		return FixedPromo{}, false
	}
	pos, err := strconv.Atoi(m[1])
	if err != nil || pos < 1 {
		return FixedPromo{}, false
	}
	price, err := decimal.NewFromString(normalizeDecimal(m[2]))
	if err != nil {
		return FixedPromo{}, false
	}
	return FixedPromo{Position: pos, Price: price}, true
}

func normalizeDecimal(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c == ',' {
			b[i] = '.'
		}
	}
	return string(b)
}

// TilePromo returns the group promotion advertised on a product's tile.
// Products whose rule uses the fixed-position grammar have none.
func TilePromo(p catalog.Product) (GroupPromo, bool) {
	if p.PromoRuleKind != catalog.PromoFreeGroup {
		return GroupPromo{}, false
	}
	return ParseGroupPromo(p.SpecialPromoRule)
}
