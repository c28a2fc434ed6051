package api

import (
	"github.com/equine-kiosk/server/internal/cart"
	"github.com/equine-kiosk/server/internal/catalog"
	"github.com/equine-kiosk/server/internal/order"
	"github.com/equine-kiosk/server/internal/pricing"
	"github.com/shopspring/decimal"
)

// scheduleLength is how many unit prices a product tile shows.
const scheduleLength = 3

type tilePromo struct {
	GroupSize    int `json:"group_size"`
	FreeCount    int `json:"free_count"`
	PaidPerGroup int `json:"paid_per_group"`
}

type productView struct {
	catalog.Product
	Schedule []decimal.Decimal `json:"schedule"`
	Promo    *tilePromo        `json:"promo,omitempty"`
}

func newProductView(p catalog.Product) productView {
	v := productView{Product: p, Schedule: pricing.Schedule(p, scheduleLength)}
	if g, ok := pricing.TilePromo(p); ok {
		v.Promo = &tilePromo{GroupSize: g.GroupSize, FreeCount: g.FreeCount, PaidPerGroup: g.PaidUnits(g.GroupSize)}
	}
	return v
}

func productViews(products []catalog.Product) []productView {
	out := make([]productView, 0, len(products))
	for _, p := range products {
		out = append(out, newProductView(p))
	}
	return out
}

type cartView struct {
	SessionID string           `json:"session_id"`
	Changed   bool             `json:"changed"`
	Items     []cart.LineItem  `json:"items"`
	Lines     []order.Line     `json:"lines"`
	Covered   []order.Line     `json:"covered"`
	Subtotals []order.Subtotal `json:"subtotals"`
	Total     decimal.Decimal  `json:"total"`
}

func newCartView(sessionID string, c *cart.Cart, o order.Order, changed bool) cartView {
	v := cartView{
		SessionID: sessionID,
		Changed:   changed,
		Items:     c.Items(),
		Lines:     o.Lines,
		Covered:   o.Covered,
		Subtotals: o.Subtotals(),
		Total:     o.Total,
	}
	if v.Lines == nil {
		v.Lines = []order.Line{}
	}
	if v.Covered == nil {
		v.Covered = []order.Line{}
	}
	if v.Subtotals == nil {
		v.Subtotals = []order.Subtotal{}
	}
	return v
}
