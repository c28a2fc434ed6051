package cart

import "github.com/equine-kiosk/server/internal/catalog"

// IsDigitalUnitBlockedByBundle reports whether a digital unit of productID
// for the given rider/horse is already covered by a bundle of the same
// delivery tier for the same couple. It is recomputed on every call since
// bundles and subjects change with each mutation.
func (c *Cart) IsDigitalUnitBlockedByBundle(cat catalog.Lookup, productID catalog.ProductID, rider, horse string) bool {
	_, ok := c.BlockingBundle(cat, productID, Subject{Rider: rider, Horse: horse})
	return ok
}

// BlockingBundle returns the bundle covering a digital product for subject.
func (c *Cart) BlockingBundle(cat catalog.Lookup, productID catalog.ProductID, subject Subject) (Bundle, bool) {
	product, ok := cat.Product(productID)
	if !ok || !product.IsDigital() {
		return Bundle{}, false
	}
	for _, li := range c.items {
		b := li.Bundle
		if b == nil || !SameCouple(b.Couple(), subject) {
			continue
		}
		bp, ok := cat.Product(b.ProductID)
		if ok && bp.IsBundle() && bp.SameTier(product) {
			return *b.clone(), true
		}
	}
	return Bundle{}, false
}
