package features

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/cucumber/godog"
	"github.com/equine-kiosk/server/internal/cart"
	"github.com/equine-kiosk/server/internal/catalog"
	"github.com/equine-kiosk/server/internal/order"
	"github.com/shopspring/decimal"
)

type pricingTestContext struct {
	products map[catalog.ProductID]*catalog.Product
	cart     *cart.Cart
	order    order.Order
}

func (c *pricingTestContext) reset() {
	c.products = make(map[catalog.ProductID]*catalog.Product)
	c.cart = cart.New()
	c.order = order.Order{}
}

func (c *pricingTestContext) catalog() *catalog.Snapshot {
	products := make([]catalog.Product, 0, len(c.products))
	for _, p := range c.products {
		products = append(products, *p)
	}
	return catalog.NewSnapshot("en", products)
}

func (c *pricingTestContext) product(id int64) (*catalog.Product, error) {
	p, ok := c.products[catalog.ProductID(id)]
	if !ok {
		return nil, fmt.Errorf("product %d is not defined", id)
	}
	return p, nil
}

func (c *pricingTestContext) aProductPriced(category string, id int64, price string) error {
	cat, ok := catalog.ParseCategory(category)
	if !ok {
		return fmt.Errorf("unknown category %q", category)
	}
	amount, err := decimal.NewFromString(price)
	if err != nil {
		return err
	}
	c.products[catalog.ProductID(id)] = &catalog.Product{
		ID:       catalog.ProductID(id),
		Category: cat,
		Name:     fmt.Sprintf("%s %d", category, id),
		Price:    amount,
	}
	return nil
}

func (c *pricingTestContext) productHasPricingRules(id int64, table string) error {
	p, err := c.product(id)
	if err != nil {
		return err
	}
	rules := catalog.PricingRules{Positions: map[int]decimal.Decimal{}}
	for _, part := range strings.Split(table, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), ":")
		if !found {
			return fmt.Errorf("malformed rule %q", part)
		}
		amount, err := decimal.NewFromString(value)
		if err != nil {
			return err
		}
		if key == "default" {
			rules.Default = decimal.NewNullDecimal(amount)
			continue
		}
		rank, err := strconv.Atoi(key)
		if err != nil {
			return err
		}
		rules.Positions[rank] = amount
	}
	p.PricingRules = rules
	return nil
}

func (c *pricingTestContext) productUsesEmailDelivery(id int64) error {
	p, err := c.product(id)
	if err != nil {
		return err
	}
	p.EmailDelivery = true
	return nil
}

func (c *pricingTestContext) productCostsWithAPrint(id int64, price string) error {
	p, err := c.product(id)
	if err != nil {
		return err
	}
	amount, err := decimal.NewFromString(price)
	if err != nil {
		return err
	}
	p.ReducedPriceWithPrint = decimal.NewNullDecimal(amount)
	return nil
}

func (c *pricingTestContext) productHasTheFreeGroupPromotion(id int64, rule string) error {
	p, err := c.product(id)
	if err != nil {
		return err
	}
	p.SpecialPromoRule = rule
	p.PromoRuleKind = catalog.PromoFreeGroup
	return nil
}

func (c *pricingTestContext) aPhotoOf(filename, subject string) error {
	if !c.cart.AddPhoto(cart.PhotoRef{Filename: filename, Subject: cart.ParseSubject(subject)}) {
		return fmt.Errorf("photo %q was not added", filename)
	}
	return nil
}

func (c *pricingTestContext) photoHasUnitsOfProduct(filename string, quantity int, id int64) error {
	if !c.cart.SetFormatQuantity(c.catalog(), filename, catalog.ProductID(id), quantity) {
		return fmt.Errorf("format %d was not set on %q", id, filename)
	}
	return nil
}

func (c *pricingTestContext) aBundleOfProductFor(id int64, subject string) error {
	if !c.cart.AddBundle(c.catalog(), catalog.ProductID(id), subject, nil) {
		return fmt.Errorf("bundle %d for %q was not added", id, subject)
	}
	return nil
}

func (c *pricingTestContext) theCartIsSavedAndRestored() error {
	data, err := cart.Encode(c.cart)
	if err != nil {
		return err
	}
	restored, err := cart.Decode(data)
	if err != nil {
		return err
	}
	c.cart = restored
	return nil
}

func (c *pricingTestContext) theOrderIsComputed() error {
	c.order = order.Compute(c.cart, c.catalog())
	return nil
}

func (c *pricingTestContext) theTotalIs(want string) error {
	expected, err := decimal.NewFromString(want)
	if err != nil {
		return err
	}
	if !c.order.Total.Equal(expected) {
		return fmt.Errorf("expected total %s, got %s", want, c.order.Total.StringFixed(2))
	}
	return nil
}

func (c *pricingTestContext) theUnitPricesAre(want string) error {
	got := make([]string, 0, len(c.order.Lines))
	for _, l := range c.order.Lines {
		got = append(got, l.Price.StringFixed(2))
	}
	if strings.Join(got, ",") != want {
		return fmt.Errorf("expected unit prices %s, got %s", want, strings.Join(got, ","))
	}
	return nil
}

func (c *pricingTestContext) unitsAreCoveredByABundle(n int) error {
	if len(c.order.Covered) != n {
		return fmt.Errorf("expected %d covered units, got %d", n, len(c.order.Covered))
	}
	for _, l := range c.order.Covered {
		if !l.Price.IsZero() {
			return fmt.Errorf("covered unit of %q priced %s", l.Filename, l.Price)
		}
	}
	return nil
}

func (c *pricingTestContext) theCartHoldsBundles(n int) error {
	if got := len(c.cart.Bundles()); got != n {
		return fmt.Errorf("expected %d bundles, got %d", n, got)
	}
	return nil
}

func (c *pricingTestContext) theCartHoldsNoBundleOfProduct(id int64) error {
	for _, b := range c.cart.Bundles() {
		if b.ProductID == catalog.ProductID(id) {
			return fmt.Errorf("bundle of product %d for %q still in cart", id, b.Subject)
		}
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &pricingTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^an? (print|digital|bundle) product (\d+) priced ([\d.]+)$`, tc.aProductPriced)
	ctx.Step(`^product (\d+) has pricing rules "([^"]*)"$`, tc.productHasPricingRules)
	ctx.Step(`^product (\d+) uses email delivery$`, tc.productUsesEmailDelivery)
	ctx.Step(`^product (\d+) costs ([\d.]+) with a print$`, tc.productCostsWithAPrint)
	ctx.Step(`^product (\d+) has the free group promotion "([^"]*)"$`, tc.productHasTheFreeGroupPromotion)
	ctx.Step(`^a photo "([^"]*)" of "([^"]*)"$`, tc.aPhotoOf)
	ctx.Step(`^photo "([^"]*)" has (\d+) units? of product (\d+)$`, tc.photoHasUnitsOfProduct)
	ctx.Step(`^a bundle of product (\d+) for "([^"]*)"$`, tc.aBundleOfProductFor)

	// When steps
	ctx.Step(`^the cart is saved and restored$`, tc.theCartIsSavedAndRestored)
	ctx.Step(`^the order is computed$`, tc.theOrderIsComputed)

	// Then steps
	ctx.Step(`^the total is ([\d.]+)$`, tc.theTotalIs)
	ctx.Step(`^the unit prices are "([^"]*)"$`, tc.theUnitPricesAre)
	ctx.Step(`^(\d+) units? (?:is|are) covered by a bundle$`, tc.unitsAreCoveredByABundle)
	ctx.Step(`^the cart holds (\d+) bundles?$`, tc.theCartHoldsBundles)
	ctx.Step(`^the cart holds no bundle of product (\d+)$`, tc.theCartHoldsNoBundleOfProduct)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"../../../features/pricing.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
