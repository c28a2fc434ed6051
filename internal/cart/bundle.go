package cart

import (
	"github.com/equine-kiosk/server/internal/catalog"
	"github.com/equine-kiosk/server/internal/pricing"
	logx "github.com/equine-kiosk/server/pkg/logger"
)

// AddBundle adds a bundle of productID for a subject.
//
// A subject holds bundles of a single delivery tier: bundles of the other
// tier for the same couple are removed first. The unit price is computed
// from the positional schedule over bundles of the same product already in
// the cart and frozen on the line item. photos is the subject's current
// photo set; when empty, the subject's photos already in the cart are used.
// Digital selections of the same tier made redundant by the bundle are
// removed from the subject's photos (prints are kept).
//
// At most one bundle per (product, subject) is held; adding it again is a
// no-op that keeps the originally frozen price.
func (c *Cart) AddBundle(cat catalog.Lookup, productID catalog.ProductID, subjectDisplay string, photos []PhotoRef) bool {
	product, ok := cat.Product(productID)
	if !ok || !product.IsBundle() {
		logx.Debug().Int64("productID", int64(productID)).Msg("ignoring bundle add for unknown or non-bundle product")
		return false
	}
	subject := ParseSubject(subjectDisplay)
	if subject.IsZero() {
		return false
	}
	if c.bundle(productID, subject) != nil {
		return false
	}

	c.removeWhere(func(li LineItem) bool {
		if li.Bundle == nil || !SameCouple(li.Bundle.Couple(), subject) {
			return false
		}
		existing, ok := cat.Product(li.Bundle.ProductID)
		return ok && !existing.SameTier(product)
	})

	position := 1
	for _, li := range c.items {
		if li.Bundle != nil && li.Bundle.ProductID == productID {
			position += li.Bundle.Quantity
		}
	}
	price := pricing.PriceForPosition(product, position, false)

	snapshot := append([]PhotoRef(nil), photos...)
	if len(snapshot) == 0 {
		for _, li := range c.items {
			if li.Photo != nil && SameCouple(li.Photo.Subject, subject) {
				snapshot = append(snapshot, li.Photo.PhotoRef)
			}
		}
	}

	c.items = append(c.items, LineItem{Bundle: &Bundle{
		ProductID:   productID,
		Subject:     subject.DisplayName(),
		Quantity:    1,
		BundlePrice: price,
		Photos:      snapshot,
	}})

	c.stripCoveredDigital(cat, subject, product)

	logx.Debug().
		Int64("productID", int64(productID)).
		Str("subject", subject.DisplayName()).
		Int("position", position).
		Str("price", price.String()).
		Msg("bundle added")
	return true
}

// RemoveBundle deletes the bundle of productID for a subject.
func (c *Cart) RemoveBundle(productID catalog.ProductID, subjectDisplay string) bool {
	b := c.bundle(productID, ParseSubject(subjectDisplay))
	if b == nil {
		return false
	}
	c.removeWhere(func(li LineItem) bool { return li.Bundle == b })
	return true
}

func (c *Cart) bundle(productID catalog.ProductID, subject Subject) *Bundle {
	for _, li := range c.items {
		if li.Bundle != nil && li.Bundle.ProductID == productID && SameCouple(li.Bundle.Couple(), subject) {
			return li.Bundle
		}
	}
	return nil
}

// stripCoveredDigital removes digital formats of bundleProduct's tier from
// the subject's photos, dropping photos left without any format.
func (c *Cart) stripCoveredDigital(cat catalog.Lookup, subject Subject, bundleProduct catalog.Product) {
	var emptied []*Photo
	for _, li := range c.items {
		p := li.Photo
		if p == nil || !SameCouple(p.Subject, subject) || len(p.Formats) == 0 {
			continue
		}
		for fid := range p.Formats {
			f, ok := cat.Product(fid)
			if ok && f.IsDigital() && f.SameTier(bundleProduct) {
				delete(p.Formats, fid)
			}
		}
		if len(p.Formats) == 0 {
			emptied = append(emptied, p)
		}
	}
	for _, p := range emptied {
		c.removePhotoItem(p)
	}
}
