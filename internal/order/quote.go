package order

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Subtotal is the display breakdown of one cart line item.
type Subtotal struct {
	Item     int             `json:"item"`
	Filename string          `json:"filename,omitempty"`
	Subject  string          `json:"subject,omitempty"`
	Units    int             `json:"units"`
	Covered  int             `json:"covered"`
	Amount   decimal.Decimal `json:"amount"`
}

// Subtotals groups the order by cart line item, in cart order.
func (o Order) Subtotals() []Subtotal {
	var out []Subtotal
	index := make(map[int]int)
	get := func(l Line) *Subtotal {
		i, ok := index[l.Item]
		if !ok {
			i = len(out)
			index[l.Item] = i
			out = append(out, Subtotal{Item: l.Item, Filename: l.Filename, Subject: l.Subject, Amount: decimal.Zero})
		}
		return &out[i]
	}
	for _, l := range o.Lines {
		s := get(l)
		s.Units++
		s.Amount = s.Amount.Add(l.Price)
	}
	for _, l := range o.Covered {
		get(l).Covered++
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Item < out[j].Item })
	return out
}
