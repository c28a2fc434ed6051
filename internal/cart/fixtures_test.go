package cart

import (
	"github.com/equine-kiosk/server/internal/catalog"
	"github.com/shopspring/decimal"
)

const (
	printID     catalog.ProductID = 1
	standardID  catalog.ProductID = 5
	hiResID     catalog.ProductID = 6
	standardPak catalog.ProductID = 9
	hiResPak    catalog.ProductID = 10
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testCatalog() *catalog.Snapshot {
	return catalog.NewSnapshot("fr", []catalog.Product{
		{ID: printID, Category: catalog.CategoryPrint, Name: "Print 15x20", Price: dec("9")},
		{
			ID: standardID, Category: catalog.CategoryDigital, Name: "Web file", Price: dec("12"), EmailDelivery: true,
			PricingRules: catalog.PricingRules{
				Positions: map[int]decimal.Decimal{1: dec("12"), 2: dec("10")},
				Default:   decimal.NewNullDecimal(dec("8")),
			},
			ReducedPriceWithPrint: decimal.NewNullDecimal(dec("5")),
		},
		{ID: hiResID, Category: catalog.CategoryDigital, Name: "HD file", Price: dec("25")},
		{ID: standardPak, Category: catalog.CategoryBundle, Name: "Web pack", Price: dec("40"), EmailDelivery: true},
		{
			ID: hiResPak, Category: catalog.CategoryBundle, Name: "HD pack", Price: dec("60"),
			PricingRules: catalog.PricingRules{Positions: map[int]decimal.Decimal{1: dec("60"), 2: dec("45")}},
		},
	})
}

func ref(filename, rider, horse string) PhotoRef {
	return PhotoRef{Filename: filename, Subject: Subject{Rider: rider, Horse: horse}}
}
