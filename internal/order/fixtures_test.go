package order

import (
	"github.com/equine-kiosk/server/internal/cart"
	"github.com/equine-kiosk/server/internal/catalog"
	"github.com/shopspring/decimal"
)

const (
	printID     catalog.ProductID = 1
	tieredID    catalog.ProductID = 3
	cheapID     catalog.ProductID = 4
	standardID  catalog.ProductID = 5
	hiResID     catalog.ProductID = 6
	freeGroupID catalog.ProductID = 7
	standardPak catalog.ProductID = 9
	hiResPak    catalog.ProductID = 10
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func rules(def string, prices ...string) catalog.PricingRules {
	r := catalog.PricingRules{Positions: make(map[int]decimal.Decimal, len(prices))}
	for i, p := range prices {
		r.Positions[i+1] = dec(p)
	}
	if def != "" {
		r.Default = decimal.NewNullDecimal(dec(def))
	}
	return r
}

func testCatalog() *catalog.Snapshot {
	return catalog.NewSnapshot("fr", []catalog.Product{
		{ID: printID, Category: catalog.CategoryPrint, Name: "Print 15x20", Price: dec("9")},
		{ID: tieredID, Category: catalog.CategoryPrint, Name: "Print 20x30", Price: dec("25"), PricingRules: rules("10", "20", "15")},
		{ID: cheapID, Category: catalog.CategoryPrint, Name: "Sticker", Price: dec("3.34"), PricingRules: rules("", "3.33", "3.33", "3.34")},
		{
			ID: standardID, Category: catalog.CategoryDigital, Name: "Web file", Price: dec("12"), EmailDelivery: true,
			PricingRules:          rules("8", "12", "10"),
			ReducedPriceWithPrint: decimal.NewNullDecimal(dec("5")),
		},
		{ID: hiResID, Category: catalog.CategoryDigital, Name: "HD file", Price: dec("25")},
		{
			ID: freeGroupID, Category: catalog.CategoryPrint, Name: "Key ring", Price: dec("7"),
			SpecialPromoRule: "2=1", PromoRuleKind: catalog.PromoFreeGroup,
		},
		{ID: standardPak, Category: catalog.CategoryBundle, Name: "Web pack", Price: dec("40"), EmailDelivery: true},
		{ID: hiResPak, Category: catalog.CategoryBundle, Name: "HD pack", Price: dec("60"), PricingRules: rules("", "60", "45")},
	})
}

func photo(c *cart.Cart, cat catalog.Lookup, filename, rider string, formats ...any) {
	c.AddPhoto(cart.PhotoRef{Filename: filename, Subject: cart.Subject{Rider: rider}})
	for i := 0; i+1 < len(formats); i += 2 {
		c.SetFormatQuantity(cat, filename, formats[i].(catalog.ProductID), formats[i+1].(int))
	}
}

func prices(lines []Line) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.Price.StringFixed(2))
	}
	return out
}
