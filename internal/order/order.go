package order

import (
	"encoding/json"
	"sort"

	"github.com/equine-kiosk/server/internal/cart"
	"github.com/equine-kiosk/server/internal/catalog"
	"github.com/equine-kiosk/server/internal/pricing"
	logx "github.com/equine-kiosk/server/pkg/logger"
	"github.com/shopspring/decimal"
)

// Line is one unit of one product. Orders are exploded per unit so the
// fulfillment side can audit each price.
type Line struct {
	// Item is the index of the cart line item the unit comes from.
	Item        int               `json:"-"`
	ProductID   catalog.ProductID `json:"product_id"`
	ProductName string            `json:"product_name"`
	Category    catalog.Category  `json:"category"`
	Position    int               `json:"position"`
	Price       decimal.Decimal   `json:"price"`
	Filename    string            `json:"filename,omitempty"`
	Rider       string            `json:"rider,omitempty"`
	Horse       string            `json:"horse,omitempty"`
	FileID      string            `json:"file_id,omitempty"`
	EventID     string            `json:"event_id,omitempty"`
	Subject     string            `json:"subject,omitempty"`
	// Manifest lists the photos a bundle unit covers.
	Manifest json.RawMessage `json:"manifest,omitempty"`
}

// Order is the priced view of a cart.
type Order struct {
	Lines []Line
	// Covered are digital units already granted by a bundle of the same
	// subject and tier. They keep their position but are shown at zero and
	// never charged or sent.
	Covered []Line
	Total   decimal.Decimal
	// Quantities counts every unit per product, covered ones included.
	Quantities map[catalog.ProductID]int
	// Skipped counts units of products missing from the catalog.
	Skipped int
}

func (o Order) IsEmpty() bool {
	return len(o.Lines) == 0
}

// Compute prices every unit of the cart. Positions are assigned per product
// in cart order, so an unchanged cart always yields the same order. Units of
// products missing from the catalog are skipped. Compute never mutates the
// cart.
func Compute(c *cart.Cart, cat catalog.Lookup) Order {
	o := Order{
		Total:      decimal.Zero,
		Quantities: make(map[catalog.ProductID]int),
	}
	positions := make(map[catalog.ProductID]int)

	for idx, li := range c.Items() {
		switch {
		case li.Photo != nil:
			o.addPhoto(c, cat, idx, li.Photo, positions)
		case li.Bundle != nil:
			o.addBundle(cat, idx, li.Bundle, positions)
		}
	}

	prices := make([]decimal.Decimal, 0, len(o.Lines))
	for _, l := range o.Lines {
		prices = append(prices, l.Price)
	}
	o.Total = pricing.Sum(prices...)
	return o
}

func (o *Order) addPhoto(c *cart.Cart, cat catalog.Lookup, idx int, p *cart.Photo, positions map[catalog.ProductID]int) {
	ids := make([]catalog.ProductID, 0, len(p.Formats))
	for id, q := range p.Formats {
		if q > 0 {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	hasPrint := false
	for _, id := range ids {
		if product, ok := cat.Product(id); ok && product.IsPrint() {
			hasPrint = true
			break
		}
	}

	for _, id := range ids {
		product, ok := cat.Product(id)
		if !ok {
			logx.Warn().Str("filename", p.Filename).Int64("productID", int64(id)).Msg("product missing from catalog, skipping units")
			o.Skipped += p.Formats[id]
			continue
		}
		if product.IsBundle() {
			logx.Warn().Str("filename", p.Filename).Int64("productID", int64(id)).Msg("bundle product selected as a photo format, skipping units")
			o.Skipped += p.Formats[id]
			continue
		}
		quantity := p.Formats[id]
		o.Quantities[id] += quantity

		blocked := product.IsDigital() && c.IsDigitalUnitBlockedByBundle(cat, id, p.Rider, p.Horse)
		companion := product.IsDigital() && hasPrint

		for u := 0; u < quantity; u++ {
			line := Line{
				Item:        idx,
				ProductID:   id,
				ProductName: product.Name,
				Category:    product.Category,
				Filename:    p.Filename,
				Rider:       p.Rider,
				Horse:       p.Horse,
				FileID:      p.FileID,
				EventID:     p.EventID,
				Price:       decimal.Zero,
			}
			positions[id]++
			line.Position = positions[id]
			if blocked {
				o.Covered = append(o.Covered, line)
				continue
			}
			line.Price = pricing.PriceForPosition(product, line.Position, companion)
			o.Lines = append(o.Lines, line)
		}
	}
}

func (o *Order) addBundle(cat catalog.Lookup, idx int, b *cart.Bundle, positions map[catalog.ProductID]int) {
	product, ok := cat.Product(b.ProductID)
	if !ok {
		logx.Warn().Str("subject", b.Subject).Int64("productID", int64(b.ProductID)).Msg("bundle product missing from catalog, skipping")
		o.Skipped++
		return
	}
	quantity := b.Quantity
	if quantity < 1 {
		quantity = 1
	}
	o.Quantities[b.ProductID] += quantity

	manifest := manifestOf(b)
	couple := b.Couple()
	for u := 0; u < quantity; u++ {
		positions[b.ProductID]++
		o.Lines = append(o.Lines, Line{
			Item:        idx,
			ProductID:   b.ProductID,
			ProductName: product.Name,
			Category:    product.Category,
			Position:    positions[b.ProductID],
			Price:       b.BundlePrice,
			Rider:       couple.Rider,
			Horse:       couple.Horse,
			Subject:     b.Subject,
			Manifest:    manifest,
		})
	}
}

func manifestOf(b *cart.Bundle) json.RawMessage {
	photos := b.Photos
	if photos == nil {
		photos = []cart.PhotoRef{}
	}
	raw, err := json.Marshal(photos)
	if err != nil {
		logx.Error().Err(err).Str("subject", b.Subject).Msg("failed to encode bundle manifest")
		return json.RawMessage("[]")
	}
	return raw
}
