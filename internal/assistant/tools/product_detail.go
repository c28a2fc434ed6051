package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
	"github.com/equine-kiosk/server/internal/catalog"
	"github.com/equine-kiosk/server/internal/pricing"
)

type GetProductDetailsInput struct {
	ProductID catalog.ProductID `json:"product_id"`
	Language  string            `json:"language,omitempty"`
}

type GetProductDetailsOutput struct {
	ProductSummary
	Description    string   `json:"description,omitempty"`
	EmailDelivery  bool     `json:"email_delivery"`
	Schedule       []string `json:"schedule"`
	PriceWithPrint string   `json:"price_with_print,omitempty"`
	Promotion      string   `json:"promotion,omitempty"`
}

func (c *Catalog) productDetailsTool() tool.InvokableTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: "get_product_details",
			Desc: "Get the description, delivery mode and positional price schedule of one product. Use when the customer asks how much the next unit costs or what a bundle includes.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"product_id": {
					Type:     "integer",
					Desc:     "Product id obtained from search_products results.",
					Required: true,
				},
				"language": {
					Type: "string",
					Desc: "Catalog language code, e.g. fr or en",
				},
			}),
		},
		func(ctx context.Context, in *GetProductDetailsInput) (*GetProductDetailsOutput, error) {
			if in.ProductID == 0 {
				return nil, fmt.Errorf("product_id is required")
			}
			snap, err := c.snapshot(in.Language)
			if err != nil {
				return nil, err
			}
			p, ok := snap.Product(in.ProductID)
			if !ok {
				return nil, fmt.Errorf("product not found: %d", in.ProductID)
			}

			out := &GetProductDetailsOutput{
				ProductSummary: summarize(p),
				Description:    p.Description,
				EmailDelivery:  p.EmailDelivery,
			}
			for _, price := range pricing.Schedule(p, 3) {
				out.Schedule = append(out.Schedule, price.StringFixed(2))
			}
			if p.IsDigital() && p.ReducedPriceWithPrint.Valid {
				out.PriceWithPrint = p.ReducedPriceWithPrint.Decimal.StringFixed(2)
			}
			if g, ok := pricing.TilePromo(p); ok {
				out.Promotion = fmt.Sprintf("%d free for every %d", g.FreeCount, g.GroupSize)
			}
			return out, nil
		},
	)
}
