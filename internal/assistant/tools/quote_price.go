package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
	"github.com/equine-kiosk/server/internal/catalog"
	"github.com/equine-kiosk/server/internal/pricing"
	"github.com/shopspring/decimal"
)

const maxQuoteQuantity = 50

type QuotePriceInput struct {
	ProductID catalog.ProductID `json:"product_id"`
	Quantity  int               `json:"quantity"`
	WithPrint bool              `json:"with_print,omitempty"`
	Language  string            `json:"language,omitempty"`
}

type QuotePriceOutput struct {
	ProductID  catalog.ProductID `json:"product_id"`
	Quantity   int               `json:"quantity"`
	UnitPrices []string          `json:"unit_prices"`
	Total      string            `json:"total"`
}

func (c *Catalog) quotePriceTool() tool.InvokableTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: "quote_price",
			Desc: "Quote the exact price of buying a quantity of one product on an otherwise empty cart, unit by unit. Set with_print when each digital file comes with a print of the same photo.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"product_id": {
					Type:     "integer",
					Desc:     "Product id obtained from search_products results.",
					Required: true,
				},
				"quantity": {
					Type:     "integer",
					Desc:     "Number of units (1 to 50).",
					Required: true,
				},
				"with_print": {
					Type: "boolean",
					Desc: "Whether a print of the same photo is also ordered.",
				},
				"language": {
					Type: "string",
					Desc: "Catalog language code, e.g. fr or en",
				},
			}),
		},
		func(ctx context.Context, in *QuotePriceInput) (*QuotePriceOutput, error) {
			if in.Quantity < 1 || in.Quantity > maxQuoteQuantity {
				return nil, fmt.Errorf("quantity must be between 1 and %d", maxQuoteQuantity)
			}
			snap, err := c.snapshot(in.Language)
			if err != nil {
				return nil, err
			}
			p, ok := snap.Product(in.ProductID)
			if !ok {
				return nil, fmt.Errorf("product not found: %d", in.ProductID)
			}

			companion := in.WithPrint && p.IsDigital()
			out := &QuotePriceOutput{ProductID: p.ID, Quantity: in.Quantity}
			prices := make([]decimal.Decimal, 0, in.Quantity)
			for pos := 1; pos <= in.Quantity; pos++ {
				price := pricing.PriceForPosition(p, pos, companion)
				prices = append(prices, price)
				out.UnitPrices = append(out.UnitPrices, price.StringFixed(2))
			}
			out.Total = pricing.Sum(prices...).StringFixed(2)
			return out, nil
		},
	)
}
