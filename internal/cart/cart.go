package cart

import (
	"sort"

	"github.com/equine-kiosk/server/internal/catalog"
	logx "github.com/equine-kiosk/server/pkg/logger"
)

// Cart is the ordered list of line items of one kiosk session. Insertion
// order is significant: positional prices are assigned by walking it.
//
// Every mutation is total. References to unknown filenames or products are
// no-ops reported through the boolean result, never errors.
type Cart struct {
	items []LineItem
}

func New() *Cart {
	return &Cart{}
}

// Items returns the line items in insertion order. The items must be treated
// as read-only; use the Cart methods to mutate.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Len() int {
	return len(c.items)
}

func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Clear drops every line item, e.g. after a successful order submission.
func (c *Cart) Clear() {
	c.items = nil
}

// Clone returns a deep copy.
func (c *Cart) Clone() *Cart {
	cp := &Cart{items: make([]LineItem, 0, len(c.items))}
	for _, li := range c.items {
		cp.items = append(cp.items, li.clone())
	}
	return cp
}

// Photos returns copies of the photo line items in cart order.
func (c *Cart) Photos() []Photo {
	var out []Photo
	for _, li := range c.items {
		if li.Photo != nil {
			out = append(out, *li.Photo.clone())
		}
	}
	return out
}

// Bundles returns copies of the bundle line items in cart order.
func (c *Cart) Bundles() []Bundle {
	var out []Bundle
	for _, li := range c.items {
		if li.Bundle != nil {
			out = append(out, *li.Bundle.clone())
		}
	}
	return out
}

// Photo returns a copy of the photo line item for filename.
func (c *Cart) Photo(filename string) (Photo, bool) {
	p := c.photo(filename)
	if p == nil {
		return Photo{}, false
	}
	return *p.clone(), true
}

func (c *Cart) photo(filename string) *Photo {
	if filename == "" {
		return nil
	}
	for _, li := range c.items {
		if li.Photo != nil && li.Photo.Filename == filename {
			return li.Photo
		}
	}
	return nil
}

func (c *Cart) firstPhoto() *Photo {
	for _, li := range c.items {
		if li.Photo != nil {
			return li.Photo
		}
	}
	return nil
}

func (c *Cart) removeWhere(match func(LineItem) bool) int {
	kept := c.items[:0]
	removed := 0
	for _, li := range c.items {
		if match(li) {
			removed++
			continue
		}
		kept = append(kept, li)
	}
	for i := len(kept); i < len(c.items); i++ {
		c.items[i] = LineItem{}
	}
	c.items = kept
	return removed
}

func (c *Cart) removePhotoItem(p *Photo) {
	c.removeWhere(func(li LineItem) bool { return li.Photo == p })
}

// AddPhoto appends a photo with no formats selected. It is a no-op when the
// filename is empty or already in the cart.
func (c *Cart) AddPhoto(ref PhotoRef) bool {
	if ref.Filename == "" || c.photo(ref.Filename) != nil {
		return false
	}
	c.items = append(c.items, LineItem{Photo: &Photo{
		PhotoRef: ref,
		Formats:  map[catalog.ProductID]int{},
	}})
	return true
}

// RemovePhoto deletes a photo line item whatever its formats.
func (c *Cart) RemovePhoto(filename string) bool {
	p := c.photo(filename)
	if p == nil {
		return false
	}
	c.removePhotoItem(p)
	return true
}

// SetFormatQuantity adjusts the quantity of one format of a photo by delta,
// clamped at zero. Increasing a digital format first drops the photo's
// digital formats of the other delivery tier. A photo whose last format is
// removed leaves the cart.
func (c *Cart) SetFormatQuantity(cat catalog.Lookup, filename string, id catalog.ProductID, delta int) bool {
	p := c.photo(filename)
	if p == nil || delta == 0 {
		return false
	}
	product, ok := cat.Product(id)
	if !ok || product.IsBundle() {
		logx.Debug().Str("filename", filename).Int64("productID", int64(id)).Msg("ignoring format change for unknown or bundle product")
		return false
	}

	hadFormats := len(p.Formats) > 0
	if delta > 0 && product.IsDigital() {
		dropOtherTier(cat, p, product)
	}

	q := p.Formats[id] + delta
	if q <= 0 {
		delete(p.Formats, id)
	} else {
		p.Formats[id] = q
	}

	if hadFormats && len(p.Formats) == 0 {
		c.removePhotoItem(p)
	}
	return true
}

// dropOtherTier removes the digital formats of p whose delivery tier differs
// from product's. A photo carries digital formats of a single tier.
func dropOtherTier(cat catalog.Lookup, p *Photo, product catalog.Product) {
	for fid := range p.Formats {
		if fid == product.ID {
			continue
		}
		other, ok := cat.Product(fid)
		if ok && other.IsDigital() && !other.SameTier(product) {
			delete(p.Formats, fid)
		}
	}
}

// ApplyFirstPhotoChoicesToAll copies the formats of the source photo onto
// every other photo of the cart. When sourceFilename is empty or not in the
// cart, the first photo is the source. Digital formats are copied with
// quantity 1, prints with the source quantity. Formats already covered by a
// bundle are skipped, both on the source and per target. It returns the
// number of photos that changed.
func (c *Cart) ApplyFirstPhotoChoicesToAll(cat catalog.Lookup, sourceFilename string) int {
	source := c.photo(sourceFilename)
	if source == nil {
		source = c.firstPhoto()
	}
	if source == nil || len(source.Formats) == 0 {
		return 0
	}

	ids := make([]catalog.ProductID, 0, len(source.Formats))
	for id := range source.Formats {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	type choice struct {
		product  catalog.Product
		quantity int
	}
	var choices []choice
	for _, id := range ids {
		product, ok := cat.Product(id)
		if !ok || product.IsBundle() {
			continue
		}
		if product.IsDigital() && c.IsDigitalUnitBlockedByBundle(cat, id, source.Rider, source.Horse) {
			continue
		}
		q := source.Formats[id]
		if product.IsDigital() {
			q = 1
		}
		choices = append(choices, choice{product: product, quantity: q})
	}

	changed := 0
	for _, li := range c.items {
		target := li.Photo
		if target == nil || target == source {
			continue
		}
		touched := false
		for _, ch := range choices {
			if ch.product.IsDigital() {
				if c.IsDigitalUnitBlockedByBundle(cat, ch.product.ID, target.Rider, target.Horse) {
					continue
				}
				dropOtherTier(cat, target, ch.product)
			}
			if target.Formats[ch.product.ID] != ch.quantity {
				target.Formats[ch.product.ID] = ch.quantity
				touched = true
			}
		}
		if touched {
			changed++
		}
	}
	return changed
}
